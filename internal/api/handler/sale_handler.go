package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/martijn/stockpoint/internal/api/dto"
	"github.com/martijn/stockpoint/internal/api/util"
	"github.com/martijn/stockpoint/internal/core/domain"
	"github.com/martijn/stockpoint/internal/core/repository"
	"github.com/martijn/stockpoint/internal/core/service"
)

var SaleFields = util.FieldSet{
	Query: []string{"id", "client_id", "courier", "sale_type", "total", "created_at"},
	Order: []string{"created_at", "total", "client_id"},
}

type SaleHandler struct {
	saleService *service.SaleService
}

func NewSaleHandler(saleService *service.SaleService) *SaleHandler {
	return &SaleHandler{saleService: saleService}
}

// CreateSale godoc
// @Summary  Register a sale
// @Description Takes the sold units out of stock in the same transaction.
// @Tags     sales
// @Accept   json
// @Produce  json
// @Param    body body dto.CreateSaleRequest true "Cart"
// @Success  201 {object} dto.SaleResponse
// @Failure  400 {object} dto.ErrorResponse
// @Failure  404 {object} dto.ErrorResponse
// @Router   /sales [post]
func (h *SaleHandler) CreateSale(c *gin.Context) {
	var req dto.CreateSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	order := service.SaleOrder{
		ClientID: req.ClientID,
		Courier:  strings.TrimSpace(req.Courier),
		SaleType: strings.TrimSpace(req.SaleType),
	}
	if req.Discount != "" {
		discount, err := domain.ParseCents(req.Discount)
		if err != nil {
			respondError(c, service.NewValidationError("invalid values", "discount"))
			return
		}
		order.Discount = discount
	}
	for _, item := range req.Items {
		order.Items = append(order.Items, service.SaleOrderItem{ProductID: item.ProductID, Quantity: item.Quantity})
	}

	cart, err := h.saleService.BuildCart(c.Request.Context(), order)
	if err != nil {
		respondError(c, err)
		return
	}

	sale, err := h.saleService.Register(c.Request.Context(), cart)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.NewSaleResponse(sale))
}

// GetSale handles GET /sales/:id
func (h *SaleHandler) GetSale(c *gin.Context) {
	sale, err := h.saleService.GetSale(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSaleResponse(sale))
}

// ListSales handles GET /sales
func (h *SaleHandler) ListSales(c *gin.Context) {
	lf, ok := listFilter(c, SaleFields)
	if !ok {
		return
	}
	filter := repository.SaleFilter{ListFilter: lf}

	sales, err := h.saleService.ListSales(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	count, err := h.saleService.CountSales(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}

	resp := dto.SaleListResponse{
		Items:      make([]dto.SaleResponse, len(sales)),
		Pagination: pagination(lf, count),
	}
	for i, s := range sales {
		resp.Items[i] = dto.NewSaleResponse(s)
	}
	c.JSON(http.StatusOK, resp)
}
