package dto

import (
	"encoding/json"
	"time"

	"github.com/fekuna/omnipos-catalog-service/internal/model"
)

type ProductFilters struct {
	CategoryName string // Exact category name; empty lists everything
}

// ProductResponse is the JSON shape of a product. Price is emitted as a JSON
// number with two fraction digits.
type ProductResponse struct {
	ID          int64        `json:"id"`
	Title       *string      `json:"title"`
	Price       *json.Number `json:"price"`
	Description *string      `json:"description"`
	Category    *string      `json:"category"`
	CategoryID  *int64       `json:"categoryId"`
	Image       *string      `json:"image"`
	RatingRate  *float64     `json:"ratingRate"`
	RatingCount *int64       `json:"ratingCount"`
	CreatedAt   time.Time    `json:"createdAt"`
}

// NewProductResponse projects a stored product onto its JSON shape. Both the
// HTTP responses and the published product events use it.
func NewProductResponse(m *model.Product) ProductResponse {
	out := ProductResponse{
		ID:          m.ID,
		Title:       m.Title,
		Description: m.Description,
		Category:    m.Category,
		CategoryID:  m.CategoryID,
		Image:       m.Image,
		RatingRate:  m.RatingRate,
		RatingCount: m.RatingCount,
		CreatedAt:   m.CreatedAt,
	}
	if m.Price.Valid {
		price := json.Number(m.Price.Decimal.StringFixed(2))
		out.Price = &price
	}
	return out
}
