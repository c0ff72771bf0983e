// Package i18n resolves user-facing message IDs into localized text.
package i18n

import (
	"embed"
	"encoding/json"
	"fmt"

	goi18n "github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

//go:embed locales/*.json
var locales embed.FS

type Bundle struct {
	bundle *goi18n.Bundle
}

// New builds a bundle with the embedded English and Spanish locales.
// English is the fallback language.
func New() (*Bundle, error) {
	b := goi18n.NewBundle(language.English)
	b.RegisterUnmarshalFunc("json", json.Unmarshal)

	for _, name := range []string{"locales/active.en.json", "locales/active.es.json"} {
		if _, err := b.LoadMessageFileFS(locales, name); err != nil {
			return nil, fmt.Errorf("load %s: %w", name, err)
		}
	}
	return &Bundle{bundle: b}, nil
}

// Load adds messages from a file on disk, overriding embedded ones.
func (b *Bundle) Load(path string) error {
	_, err := b.bundle.LoadMessageFile(path)
	return err
}

// Localize picks the best language from an Accept-Language value. Unknown
// message IDs come back unchanged.
func (b *Bundle) Localize(acceptLanguage, messageID string) string {
	loc := goi18n.NewLocalizer(b.bundle, acceptLanguage)
	msg, err := loc.Localize(&goi18n.LocalizeConfig{MessageID: messageID})
	if err != nil {
		return messageID
	}
	return msg
}
