package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/martijn/stockpoint/internal/api/dto"
	"github.com/martijn/stockpoint/internal/core/domain"
	"github.com/martijn/stockpoint/internal/core/service"
)

type TerminalHandler struct {
	authService *service.AuthService
}

func NewTerminalHandler(authService *service.AuthService) *TerminalHandler {
	return &TerminalHandler{authService: authService}
}

// CreateTerminal handles POST /terminals. The secret is only returned here.
func (h *TerminalHandler) CreateTerminal(c *gin.Context) {
	var req dto.CreateTerminalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	terminal, secret, err := h.authService.CreateTerminal(c.Request.Context(), req.Label, req.Scopes)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.TerminalCreateResponse{
		TerminalResponse: toTerminalResponse(terminal),
		Secret:           secret,
	})
}

// ListTerminals handles GET /terminals
func (h *TerminalHandler) ListTerminals(c *gin.Context) {
	terminals, err := h.authService.ListTerminals(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	items := make([]dto.TerminalResponse, len(terminals))
	for i, t := range terminals {
		items[i] = toTerminalResponse(t)
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

// UpdateTerminal handles PUT /terminals/:id
func (h *TerminalHandler) UpdateTerminal(c *gin.Context) {
	var req dto.UpdateTerminalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	terminal, err := h.authService.UpdateTerminal(c.Request.Context(), c.Param("id"), req.Label, req.Scopes)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toTerminalResponse(terminal))
}

// DeleteTerminal handles DELETE /terminals/:id
func (h *TerminalHandler) DeleteTerminal(c *gin.Context) {
	if err := h.authService.DeleteTerminal(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func toTerminalResponse(t *domain.Terminal) dto.TerminalResponse {
	return dto.TerminalResponse{
		ID:        t.ID,
		Label:     t.Label,
		Scopes:    t.Scopes,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
}
