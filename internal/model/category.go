package model

import (
	"strings"
	"unicode/utf8"

	"github.com/fekuna/omnipos-catalog-service/internal/apperror"
)

const MaxCategoryNameLength = 100

type Category struct {
	ID   int64  `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
}

// NormalizeCategoryName trims name and checks it is 1..100 characters.
func NormalizeCategoryName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", apperror.Validation("category_name_required")
	}
	if utf8.RuneCountInString(name) > MaxCategoryNameLength {
		return "", apperror.Validation("category_name_too_long")
	}
	return name, nil
}
