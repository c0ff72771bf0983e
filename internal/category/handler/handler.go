package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/fekuna/omnipos-catalog-service/internal/apperror"
	"github.com/fekuna/omnipos-catalog-service/internal/category"
	"github.com/fekuna/omnipos-catalog-service/internal/category/dto"
	"github.com/fekuna/omnipos-catalog-service/internal/response"
	"github.com/fekuna/omnipos-catalog-service/pkg/logger"
	"github.com/gin-gonic/gin"
)

type CategoryHandler struct {
	uc     category.UseCase
	resp   *response.Responder
	logger logger.ZapLogger
}

func NewCategoryHandler(uc category.UseCase, resp *response.Responder, log logger.ZapLogger) *CategoryHandler {
	return &CategoryHandler{
		uc:     uc,
		resp:   resp,
		logger: log,
	}
}

// Register mounts the category routes on rg, usually the /category group.
func (h *CategoryHandler) Register(rg *gin.RouterGroup) {
	rg.GET("", h.ListCategories)
	rg.POST("", h.CreateCategory)
	rg.GET("/:id", h.GetCategory)
	rg.PUT("/:id", h.UpdateCategory)
	rg.DELETE("/:id", h.DeleteCategory)
}

func (h *CategoryHandler) ListCategories(c *gin.Context) {
	categories, err := h.uc.ListCategories(c.Request.Context())
	if err != nil {
		h.resp.Error(c, err)
		return
	}
	h.resp.List(c, categories, len(categories))
}

func (h *CategoryHandler) GetCategory(c *gin.Context) {
	id, err := response.ParamID(c, "id")
	if err != nil {
		h.resp.Error(c, err)
		return
	}

	cat, err := h.uc.GetCategory(c.Request.Context(), id)
	if err != nil {
		h.resp.Error(c, err)
		return
	}
	h.resp.OK(c, cat)
}

func (h *CategoryHandler) CreateCategory(c *gin.Context) {
	var input dto.CreateCategoryInput
	if err := bindBody(c, &input); err != nil {
		h.resp.Error(c, err)
		return
	}

	cat, err := h.uc.CreateCategory(c.Request.Context(), &input)
	if err != nil {
		h.resp.Error(c, err)
		return
	}
	h.resp.Message(c, http.StatusCreated, cat, "category_created")
}

func (h *CategoryHandler) UpdateCategory(c *gin.Context) {
	id, err := response.ParamID(c, "id")
	if err != nil {
		h.resp.Error(c, err)
		return
	}

	var input dto.UpdateCategoryInput
	if err := bindBody(c, &input); err != nil {
		h.resp.Error(c, err)
		return
	}
	input.ID = id

	cat, err := h.uc.UpdateCategory(c.Request.Context(), &input)
	if err != nil {
		h.resp.Error(c, err)
		return
	}
	h.resp.Message(c, http.StatusOK, cat, "category_updated")
}

func (h *CategoryHandler) DeleteCategory(c *gin.Context) {
	id, err := response.ParamID(c, "id")
	if err != nil {
		h.resp.Error(c, err)
		return
	}

	cat, err := h.uc.DeleteCategory(c.Request.Context(), id)
	if err != nil {
		h.resp.Error(c, err)
		return
	}
	h.resp.Message(c, http.StatusOK, cat, "category_deleted")
}

// bindBody decodes a JSON body. An empty body decodes to the zero value so the
// use case reports the missing name.
func bindBody(c *gin.Context, dst interface{}) error {
	if err := c.ShouldBindJSON(dst); err != nil && !errors.Is(err, io.EOF) {
		return apperror.Validation("invalid_body")
	}
	return nil
}
