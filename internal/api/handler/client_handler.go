package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/martijn/stockpoint/internal/api/dto"
	"github.com/martijn/stockpoint/internal/api/util"
	"github.com/martijn/stockpoint/internal/core/repository"
	"github.com/martijn/stockpoint/internal/core/service"
)

// ClientFields lists what client lists may be filtered and ordered by.
var ClientFields = util.FieldSet{
	Query: []string{"id", "full_name", "national_id", "created_at"},
	Order: []string{"id", "full_name", "national_id", "created_at"},
}

type ClientHandler struct {
	clientService *service.ClientService
}

func NewClientHandler(clientService *service.ClientService) *ClientHandler {
	return &ClientHandler{clientService: clientService}
}

// CreateClient godoc
// @Summary  Register a client
// @Tags     clients
// @Accept   json
// @Produce  json
// @Param    body body dto.CreateClientRequest true "Client"
// @Success  201 {object} dto.ClientResponse
// @Failure  400 {object} dto.ErrorResponse
// @Failure  409 {object} dto.ErrorResponse
// @Router   /clients [post]
func (h *ClientHandler) CreateClient(c *gin.Context) {
	var req dto.CreateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	client, err := h.clientService.CreateClient(c.Request.Context(), req.FullName, req.NationalID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.NewClientResponse(client))
}

// SearchClients godoc
// @Summary  Clients whose national ID contains term
// @Tags     clients
// @Produce  json
// @Param    term query string true "Partial national ID"
// @Success  200 {array} dto.ClientResponse
// @Router   /clients/search [get]
func (h *ClientHandler) SearchClients(c *gin.Context) {
	clients, err := h.clientService.SearchClients(c.Request.Context(), c.Query("term"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewClientResponses(clients))
}

// GetClient handles GET /clients/:id
func (h *ClientHandler) GetClient(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	client, err := h.clientService.GetClient(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewClientResponse(client))
}

// ListClients handles GET /clients
func (h *ClientHandler) ListClients(c *gin.Context) {
	lf, ok := listFilter(c, ClientFields)
	if !ok {
		return
	}
	filter := repository.ClientFilter{ListFilter: lf}

	clients, err := h.clientService.ListClients(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}

	count, err := h.clientService.CountClients(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ClientListResponse{
		Items:      dto.NewClientResponses(clients),
		Pagination: pagination(lf, count),
	})
}
