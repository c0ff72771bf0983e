package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is a products row joined with its category's name. Category is
// read-only and never written back.
type Product struct {
	ID          int64               `db:"id"`
	Title       *string             `db:"title"`
	Price       decimal.NullDecimal `db:"price"`
	Description *string             `db:"description"`
	Category    *string             `db:"category"`
	CategoryID  *int64              `db:"category_id"`
	Image       *string             `db:"image"`
	RatingRate  *float64            `db:"rating_rate"`
	RatingCount *int64              `db:"rating_count"`
	CreatedAt   time.Time           `db:"created_at"`
}
