package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/martijn/stockpoint/internal/api/dto"
	"github.com/martijn/stockpoint/internal/api/util"
	"github.com/martijn/stockpoint/internal/core/repository"
	"github.com/martijn/stockpoint/internal/core/service"
)

var ProductFields = util.FieldSet{
	Query: []string{"id", "name", "category_id", "quantity", "entry_date", "expiry_date", "created_at"},
	Order: []string{"id", "name", "quantity", "sale_price", "expiry_date", "created_at"},
}

type ProductHandler struct {
	productService *service.ProductService
	draftKey       string
}

// NewProductHandler keeps the registration draft under draftKey
func NewProductHandler(productService *service.ProductService, draftKey string) *ProductHandler {
	return &ProductHandler{productService: productService, draftKey: draftKey}
}

// ListCategories handles GET /categories
func (h *ProductHandler) ListCategories(c *gin.Context) {
	categories, err := h.productService.ListCategories(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewCategoryResponses(categories))
}

// CreateCategory handles POST /categories
func (h *ProductHandler) CreateCategory(c *gin.Context) {
	var req dto.CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	category, err := h.productService.CreateCategory(c.Request.Context(), req.Name)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.CategoryResponse{ID: category.ID, Name: category.Name})
}

// RegisterProduct godoc
// @Summary  Register a product from the registration form
// @Description On success the saved draft is discarded.
// @Tags     products
// @Accept   json
// @Produce  json
// @Param    body body dto.ProductFormRequest true "Form"
// @Success  201 {object} dto.ProductResponse
// @Failure  400 {object} dto.ErrorResponse
// @Failure  404 {object} dto.ErrorResponse
// @Router   /products [post]
func (h *ProductHandler) RegisterProduct(c *gin.Context) {
	var req dto.ProductFormRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	product, err := h.productService.RegisterProduct(c.Request.Context(), req.ToDomain(), h.draftKey)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.NewProductResponse(product))
}

// GetProduct handles GET /products/:id
func (h *ProductHandler) GetProduct(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	product, err := h.productService.GetProduct(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewProductResponse(product))
}

// ListProducts handles GET /products
func (h *ProductHandler) ListProducts(c *gin.Context) {
	lf, ok := listFilter(c, ProductFields)
	if !ok {
		return
	}
	filter := repository.ProductFilter{ListFilter: lf}

	products, err := h.productService.ListProducts(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	count, err := h.productService.CountProducts(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}

	resp := dto.ProductListResponse{
		Items:      make([]dto.ProductResponse, len(products)),
		Pagination: pagination(lf, count),
	}
	for i, p := range products {
		resp.Items[i] = dto.NewProductResponse(p)
	}
	c.JSON(http.StatusOK, resp)
}

// GetDraft handles GET /products/draft
func (h *ProductHandler) GetDraft(c *gin.Context) {
	form, err := h.productService.LoadDraft(c.Request.Context(), h.draftKey)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewProductFormResponse(form))
}

// SaveDraft handles PUT /products/draft
func (h *ProductHandler) SaveDraft(c *gin.Context) {
	var req dto.ProductFormRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	if err := h.productService.SaveDraft(c.Request.Context(), h.draftKey, req.ToDomain()); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// DiscardDraft handles DELETE /products/draft
func (h *ProductHandler) DiscardDraft(c *gin.Context) {
	if err := h.productService.DiscardDraft(c.Request.Context(), h.draftKey); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
