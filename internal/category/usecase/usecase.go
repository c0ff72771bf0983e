package usecase

import (
	"context"

	"github.com/fekuna/omnipos-catalog-service/internal/apperror"
	"github.com/fekuna/omnipos-catalog-service/internal/category"
	"github.com/fekuna/omnipos-catalog-service/internal/category/dto"
	"github.com/fekuna/omnipos-catalog-service/internal/event"
	"github.com/fekuna/omnipos-catalog-service/internal/model"
	"github.com/fekuna/omnipos-catalog-service/pkg/logger"
	"go.uber.org/zap"
)

type categoryUseCase struct {
	repo   category.Repository
	events event.Publisher
	logger logger.ZapLogger
}

func NewCategoryUseCase(repo category.Repository, events event.Publisher, log logger.ZapLogger) category.UseCase {
	if events == nil {
		events = event.NopPublisher{}
	}
	return &categoryUseCase{
		repo:   repo,
		events: events,
		logger: log,
	}
}

func (uc *categoryUseCase) ListCategories(ctx context.Context) ([]model.Category, error) {
	categories, err := uc.repo.FindAll(ctx)
	if err != nil {
		return nil, uc.fail("list categories", err, "categories_fetch_failed")
	}
	return categories, nil
}

func (uc *categoryUseCase) GetCategory(ctx context.Context, id int64) (*model.Category, error) {
	cat, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, uc.fail("get category", err, "internal_error")
	}
	if cat == nil {
		return nil, apperror.NotFound("category_not_found")
	}
	return cat, nil
}

func (uc *categoryUseCase) CreateCategory(ctx context.Context, input *dto.CreateCategoryInput) (*model.Category, error) {
	name, err := model.NormalizeCategoryName(input.Name)
	if err != nil {
		return nil, err
	}

	// Fast path for a friendly message; the unique constraint still decides.
	existing, err := uc.repo.FindByName(ctx, name)
	if err != nil {
		return nil, uc.fail("create category", err, "category_create_failed")
	}
	if existing != nil {
		return nil, apperror.Conflict("category_name_taken")
	}

	cat := &model.Category{Name: name}
	if err := uc.repo.Create(ctx, cat); err != nil {
		return nil, uc.fail("create category", err, "category_create_failed")
	}

	uc.events.Publish(ctx, event.New(event.CategoryCreated, cat.ID, cat))
	return cat, nil
}

func (uc *categoryUseCase) UpdateCategory(ctx context.Context, input *dto.UpdateCategoryInput) (*model.Category, error) {
	name, err := model.NormalizeCategoryName(input.Name)
	if err != nil {
		return nil, err
	}

	current, err := uc.repo.FindByID(ctx, input.ID)
	if err != nil {
		return nil, uc.fail("update category", err, "category_update_failed")
	}
	if current == nil {
		return nil, apperror.NotFound("category_not_found")
	}

	duplicate, err := uc.repo.FindByName(ctx, name)
	if err != nil {
		return nil, uc.fail("update category", err, "category_update_failed")
	}
	if duplicate != nil && duplicate.ID != input.ID {
		return nil, apperror.Conflict("category_name_taken")
	}

	updated, err := uc.repo.Update(ctx, &model.Category{ID: input.ID, Name: name})
	if err != nil {
		return nil, uc.fail("update category", err, "category_update_failed")
	}
	if updated == nil {
		return nil, apperror.NotFound("category_not_found")
	}

	uc.events.Publish(ctx, event.New(event.CategoryUpdated, updated.ID, updated))
	return updated, nil
}

func (uc *categoryUseCase) DeleteCategory(ctx context.Context, id int64) (*model.Category, error) {
	current, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, uc.fail("delete category", err, "category_delete_failed")
	}
	if current == nil {
		return nil, apperror.NotFound("category_not_found")
	}

	deleted, err := uc.repo.Delete(ctx, id)
	if err != nil {
		return nil, uc.fail("delete category", err, "category_delete_failed")
	}
	if deleted == nil {
		return nil, apperror.NotFound("category_not_found")
	}

	uc.events.Publish(ctx, event.New(event.CategoryDeleted, deleted.ID, deleted))
	return deleted, nil
}

// fail classifies err and logs the full cause when it is internal.
func (uc *categoryUseCase) fail(op string, err error, messageID string) error {
	wrapped := apperror.Wrap(err, messageID)
	if apperror.KindOf(wrapped) == apperror.KindInternal {
		uc.logger.Error("failed to "+op, zap.Error(err))
	}
	return wrapped
}
