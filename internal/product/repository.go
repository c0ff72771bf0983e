package product

import (
	"context"

	"github.com/fekuna/omnipos-catalog-service/internal/model"
)

// Repository reads products joined with their category name. Lookups by id
// return nil, nil when the row does not exist.
type Repository interface {
	FindAll(ctx context.Context) ([]model.Product, error)
	FindByID(ctx context.Context, id int64) (*model.Product, error)
	FindByCategoryName(ctx context.Context, name string) ([]model.Product, error)
	Exists(ctx context.Context, id int64) (bool, error)
	Create(ctx context.Context, product *model.Product) error
	Update(ctx context.Context, product *model.Product) (bool, error)
	Delete(ctx context.Context, id int64) (*model.Product, error)

	// ResolveCategoryID looks a category up by exact name, nil if unknown.
	ResolveCategoryID(ctx context.Context, name string) (*int64, error)
}
