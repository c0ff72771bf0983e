package usecase

import (
	"context"

	"github.com/fekuna/omnipos-catalog-service/internal/apperror"
	"github.com/fekuna/omnipos-catalog-service/internal/event"
	"github.com/fekuna/omnipos-catalog-service/internal/model"
	"github.com/fekuna/omnipos-catalog-service/internal/product"
	"github.com/fekuna/omnipos-catalog-service/internal/product/dto"
	"github.com/fekuna/omnipos-catalog-service/pkg/logger"
	"go.uber.org/zap"
)

type productUseCase struct {
	repo   product.Repository
	events event.Publisher
	logger logger.ZapLogger
}

func NewProductUseCase(repo product.Repository, events event.Publisher, log logger.ZapLogger) product.UseCase {
	if events == nil {
		events = event.NopPublisher{}
	}
	return &productUseCase{
		repo:   repo,
		events: events,
		logger: log,
	}
}

func (uc *productUseCase) ListProducts(ctx context.Context, filters *dto.ProductFilters) ([]model.Product, error) {
	var (
		products []model.Product
		err      error
	)
	if filters != nil && filters.CategoryName != "" {
		products, err = uc.repo.FindByCategoryName(ctx, filters.CategoryName)
	} else {
		products, err = uc.repo.FindAll(ctx)
	}
	if err != nil {
		return nil, uc.fail("list products", err, "products_fetch_failed")
	}
	return products, nil
}

func (uc *productUseCase) GetProduct(ctx context.Context, id int64) (*model.Product, error) {
	p, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, uc.fail("get product", err, "internal_error")
	}
	if p == nil {
		return nil, apperror.NotFound("product_not_found")
	}
	return p, nil
}

func (uc *productUseCase) CreateProduct(ctx context.Context, input *dto.ProductInput) (*model.Product, error) {
	p, err := uc.toModel(ctx, input)
	if err != nil {
		return nil, uc.fail("create product", err, "product_create_failed")
	}

	if err := uc.repo.Create(ctx, p); err != nil {
		return nil, uc.fail("create product", err, "product_create_failed")
	}

	created, err := uc.repo.FindByID(ctx, p.ID)
	if err != nil {
		return nil, uc.fail("create product", err, "product_create_failed")
	}
	if created == nil {
		// Deleted by someone else between insert and read back.
		return nil, apperror.NotFound("product_not_found")
	}

	uc.events.Publish(ctx, event.New(event.ProductCreated, created.ID, dto.NewProductResponse(created)))
	return created, nil
}

// UpdateProduct replaces every mutable field. Fields missing from input end
// up NULL; this is not a patch.
func (uc *productUseCase) UpdateProduct(ctx context.Context, id int64, input *dto.ProductInput) (*model.Product, error) {
	exists, err := uc.repo.Exists(ctx, id)
	if err != nil {
		return nil, uc.fail("update product", err, "product_update_failed")
	}
	if !exists {
		return nil, apperror.NotFound("product_not_found")
	}

	p, err := uc.toModel(ctx, input)
	if err != nil {
		return nil, uc.fail("update product", err, "product_update_failed")
	}
	p.ID = id

	uc.logger.Debug("updating product",
		zap.Int64("product_id", id),
		zap.Any("category_id", p.CategoryID),
	)

	updated, err := uc.repo.Update(ctx, p)
	if err != nil {
		return nil, uc.fail("update product", err, "product_update_failed")
	}
	if !updated {
		return nil, apperror.NotFound("product_not_found")
	}

	result, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, uc.fail("update product", err, "product_update_failed")
	}
	if result == nil {
		return nil, apperror.NotFound("product_not_found")
	}

	uc.events.Publish(ctx, event.New(event.ProductUpdated, result.ID, dto.NewProductResponse(result)))
	return result, nil
}

func (uc *productUseCase) DeleteProduct(ctx context.Context, id int64) (*model.Product, error) {
	deleted, err := uc.repo.Delete(ctx, id)
	if err != nil {
		return nil, uc.fail("delete product", err, "product_delete_failed")
	}
	if deleted == nil {
		return nil, apperror.NotFound("product_not_found")
	}

	uc.events.Publish(ctx, event.New(event.ProductDeleted, deleted.ID, dto.NewProductResponse(deleted)))
	return deleted, nil
}

// toModel resolves the category and builds the row to write. An unknown
// category name resolves to NULL rather than an error.
func (uc *productUseCase) toModel(ctx context.Context, input *dto.ProductInput) (*model.Product, error) {
	if input == nil {
		input = &dto.ProductInput{}
	}

	categoryID := input.CategoryID
	if categoryID == nil && input.CategoryName != nil {
		id, err := uc.repo.ResolveCategoryID(ctx, *input.CategoryName)
		if err != nil {
			return nil, err
		}
		categoryID = id
	}

	return &model.Product{
		Title:       input.Title,
		Price:       input.Price,
		Description: input.Description,
		CategoryID:  categoryID,
		Image:       input.Image,
		RatingRate:  input.RatingRate,
		RatingCount: input.RatingCount,
	}, nil
}

func (uc *productUseCase) fail(op string, err error, messageID string) error {
	wrapped := apperror.Wrap(err, messageID)
	if apperror.KindOf(wrapped) == apperror.KindInternal {
		uc.logger.Error("failed to "+op, zap.Error(err))
	}
	return wrapped
}
