package handler

import (
	"net/http"

	"github.com/fekuna/omnipos-catalog-service/internal/apperror"
	"github.com/fekuna/omnipos-catalog-service/internal/product"
	"github.com/fekuna/omnipos-catalog-service/internal/product/dto"
	"github.com/fekuna/omnipos-catalog-service/internal/response"
	"github.com/fekuna/omnipos-catalog-service/pkg/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ProductHandler struct {
	uc     product.UseCase
	resp   *response.Responder
	logger logger.ZapLogger
}

func NewProductHandler(uc product.UseCase, resp *response.Responder, log logger.ZapLogger) *ProductHandler {
	return &ProductHandler{
		uc:     uc,
		resp:   resp,
		logger: log,
	}
}

// Register mounts the product routes on rg, usually the /products group.
func (h *ProductHandler) Register(rg *gin.RouterGroup) {
	rg.GET("", h.ListProducts)
	rg.POST("", h.CreateProduct)
	rg.GET("/:id", h.GetProduct)
	rg.PUT("/:id", h.UpdateProduct)
	rg.DELETE("/:id", h.DeleteProduct)
}

// ListProducts answers GET /products, optionally narrowed with ?category=Name.
func (h *ProductHandler) ListProducts(c *gin.Context) {
	filters := &dto.ProductFilters{CategoryName: c.Query("category")}

	products, err := h.uc.ListProducts(c.Request.Context(), filters)
	if err != nil {
		h.resp.Error(c, err)
		return
	}

	out := make([]dto.ProductResponse, len(products))
	for i := range products {
		out[i] = dto.NewProductResponse(&products[i])
	}
	h.resp.List(c, out, len(out))
}

func (h *ProductHandler) GetProduct(c *gin.Context) {
	id, err := response.ParamID(c, "id")
	if err != nil {
		h.resp.Error(c, err)
		return
	}

	p, err := h.uc.GetProduct(c.Request.Context(), id)
	if err != nil {
		h.resp.Error(c, err)
		return
	}
	h.resp.OK(c, dto.NewProductResponse(p))
}

func (h *ProductHandler) CreateProduct(c *gin.Context) {
	input, err := readInput(c)
	if err != nil {
		h.resp.Error(c, err)
		return
	}

	p, err := h.uc.CreateProduct(c.Request.Context(), input)
	if err != nil {
		h.resp.Error(c, err)
		return
	}
	h.resp.Message(c, http.StatusCreated, dto.NewProductResponse(p), "product_created")
}

func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	id, err := response.ParamID(c, "id")
	if err != nil {
		h.resp.Error(c, err)
		return
	}

	input, err := readInput(c)
	if err != nil {
		h.resp.Error(c, err)
		return
	}

	h.logger.Debug("update product request", zap.Int64("product_id", id))

	p, err := h.uc.UpdateProduct(c.Request.Context(), id, input)
	if err != nil {
		h.resp.Error(c, err)
		return
	}
	h.resp.Message(c, http.StatusOK, dto.NewProductResponse(p), "product_updated")
}

func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	id, err := response.ParamID(c, "id")
	if err != nil {
		h.resp.Error(c, err)
		return
	}

	p, err := h.uc.DeleteProduct(c.Request.Context(), id)
	if err != nil {
		h.resp.Error(c, err)
		return
	}
	h.resp.Message(c, http.StatusOK, dto.NewProductResponse(p), "product_deleted")
}

// readInput hands the raw body to the normalizer, which accepts loosely
// shaped payloads that a struct binding would reject.
func readInput(c *gin.Context) (*dto.ProductInput, error) {
	body, err := c.GetRawData()
	if err != nil {
		return nil, apperror.Validation("invalid_body")
	}
	return dto.NormalizeProduct(body)
}
