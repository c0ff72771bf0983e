package dto

import "github.com/shopspring/decimal"

// ProductInput is a create or update body after normalization. Every field is
// optional; nil means the column is written as NULL.
type ProductInput struct {
	Title        *string
	Price        decimal.NullDecimal
	Description  *string
	CategoryID   *int64
	CategoryName *string // Used only when CategoryID is nil
	Image        *string
	RatingRate   *float64
	RatingCount  *int64
}
