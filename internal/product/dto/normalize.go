package dto

import (
	"math"
	"strconv"
	"strings"

	"github.com/fekuna/omnipos-catalog-service/internal/apperror"
	"github.com/shopspring/decimal"
	"github.com/tidwall/gjson"
)

// Fallback chains, first present value wins.
var (
	categoryIDPaths  = []string{"category_id", "categoryId"}
	ratingRatePaths  = []string{"rating.rate", "rating_rate", "ratingRate"}
	ratingCountPaths = []string{"rating.count", "rating_count", "ratingCount"}
)

// NormalizeProduct turns a loosely typed JSON body into a ProductInput.
// Numeric fields that cannot be read as finite numbers become nil instead of
// failing the request. Only a body that is not a JSON object is rejected.
func NormalizeProduct(body []byte) (*ProductInput, error) {
	if len(strings.TrimSpace(string(body))) == 0 {
		body = []byte("{}")
	}
	if !gjson.ValidBytes(body) {
		return nil, apperror.Validation("invalid_body")
	}
	doc := gjson.ParseBytes(body)
	if !doc.IsObject() {
		return nil, apperror.Validation("invalid_body")
	}

	in := &ProductInput{
		Title:       text(doc.Get("title")),
		Price:       toDecimal(doc.Get("price")),
		Description: text(doc.Get("description")),
		Image:       text(doc.Get("image")),
	}

	if id := toInt(first(doc, categoryIDPaths)); id != nil && *id > 0 {
		in.CategoryID = id
	}
	if in.CategoryID == nil {
		if name := doc.Get("category"); name.Type == gjson.String && name.Str != "" {
			in.CategoryName = &name.Str
		}
	}

	in.RatingRate = toFloat(first(doc, ratingRatePaths))
	in.RatingCount = toInt(first(doc, ratingCountPaths))
	return in, nil
}

// first returns the first path holding a non-null value.
func first(doc gjson.Result, paths []string) gjson.Result {
	for _, p := range paths {
		if r := doc.Get(p); r.Exists() && r.Type != gjson.Null {
			return r
		}
	}
	return gjson.Result{}
}

func text(r gjson.Result) *string {
	if !r.Exists() || r.Type == gjson.Null {
		return nil
	}
	s := r.String()
	return &s
}

// numeric yields the textual number behind r: a JSON number or a numeric
// string. Booleans, objects and blank strings are not numbers.
func numeric(r gjson.Result) (string, bool) {
	switch r.Type {
	case gjson.Number:
		return r.Raw, true
	case gjson.String:
		s := strings.TrimSpace(r.Str)
		return s, s != ""
	default:
		return "", false
	}
}

func toFloat(r gjson.Result) *float64 {
	s, ok := numeric(r)
	if !ok {
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}

// toInt truncates toward zero, so 2.9 becomes 2 and -2.9 becomes -2.
func toInt(r gjson.Result) *int64 {
	f := toFloat(r)
	if f == nil || *f >= math.MaxInt64 || *f < math.MinInt64 {
		return nil
	}
	i := int64(math.Trunc(*f))
	return &i
}

// toDecimal keeps the price exact and rounds it to the stored two digits.
func toDecimal(r gjson.Result) decimal.NullDecimal {
	s, ok := numeric(r)
	if !ok {
		return decimal.NullDecimal{}
	}
	if f, err := strconv.ParseFloat(s, 64); err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return decimal.NullDecimal{}
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: d.Round(2), Valid: true}
}
