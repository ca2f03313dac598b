package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/martijn/stockpoint/internal/api/dto"
	"github.com/martijn/stockpoint/internal/core/resolver"
)

// ResolverHandler exposes client resolver sessions: type a partial national
// ID, pick a candidate or create the client inline, then read back the bound
// client.
type ResolverHandler struct {
	sessions *ResolverSessions
}

func NewResolverHandler(sessions *ResolverSessions) *ResolverHandler {
	return &ResolverHandler{sessions: sessions}
}

func (h *ResolverHandler) session(c *gin.Context) (*resolverSession, bool) {
	s, ok := h.sessions.Get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, dto.ErrorResponse{
			Error:   "Not Found",
			Message: "Resolver session not found: " + c.Param("id"),
			Code:    http.StatusNotFound,
		})
	}
	return s, ok
}

func (h *ResolverHandler) respond(c *gin.Context, status int, s *resolverSession) {
	c.JSON(status, dto.NewResolverSessionResponse(c.Param("id"), s.resolver.Snapshot(), s.recorder.Drain()))
}

// OpenSession godoc
// @Summary  Start a client resolver session
// @Tags     resolver
// @Produce  json
// @Success  201 {object} dto.ResolverSessionResponse
// @Router   /resolver/sessions [post]
func (h *ResolverHandler) OpenSession(c *gin.Context) {
	id, s := h.sessions.Open()
	c.JSON(http.StatusCreated, dto.NewResolverSessionResponse(id, s.resolver.Snapshot(), nil))
}

// GetSession godoc
// @Summary  Current resolver state
// @Description Waits for searches in flight, so candidates reflect the latest query.
// @Tags     resolver
// @Produce  json
// @Param    id path string true "Session id"
// @Success  200 {object} dto.ResolverSessionResponse
// @Failure  404 {object} dto.ErrorResponse
// @Router   /resolver/sessions/{id} [get]
func (h *ResolverHandler) GetSession(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	s.resolver.Wait()
	h.respond(c, http.StatusOK, s)
}

// CloseSession handles DELETE /resolver/sessions/:id
func (h *ResolverHandler) CloseSession(c *gin.Context) {
	if !h.sessions.Close(c.Param("id")) {
		c.JSON(http.StatusNotFound, dto.ErrorResponse{
			Error:   "Not Found",
			Message: "Resolver session not found: " + c.Param("id"),
			Code:    http.StatusNotFound,
		})
		return
	}
	c.Status(http.StatusNoContent)
}

// SetQuery godoc
// @Summary  Replace the search text
// @Description The search runs in the background; read the session to see its result.
// @Tags     resolver
// @Accept   json
// @Produce  json
// @Param    id   path string                   true "Session id"
// @Param    body body dto.ResolverQueryRequest true "Query"
// @Success  202 {object} dto.ResolverSessionResponse
// @Router   /resolver/sessions/{id}/query [put]
func (h *ResolverHandler) SetQuery(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}

	var req dto.ResolverQueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	s.resolver.SetQuery(s.ctx, req.Query)
	h.respond(c, http.StatusAccepted, s)
}

// Select handles POST /resolver/sessions/:id/select. Only a current
// candidate can be selected.
func (h *ResolverHandler) Select(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}

	var req dto.ResolverSelectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	s.resolver.Wait()
	client, found := s.resolver.Candidate(req.ClientID)
	if !found {
		c.JSON(http.StatusNotFound, dto.ErrorResponse{
			Error:   "Not Found",
			Message: "Client is not among the current candidates",
			Code:    http.StatusNotFound,
		})
		return
	}

	s.resolver.Select(client)
	h.respond(c, http.StatusOK, s)
}

// ClearSelection handles DELETE /resolver/sessions/:id/selection
func (h *ResolverHandler) ClearSelection(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	s.resolver.ClearSelection()
	h.respond(c, http.StatusOK, s)
}

// OpenForm handles POST /resolver/sessions/:id/form
func (h *ResolverHandler) OpenForm(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}

	s.resolver.Wait()
	if err := s.resolver.OpenCreateForm(); err != nil {
		if errors.Is(err, resolver.ErrFormUnavailable) {
			c.JSON(http.StatusConflict, dto.ErrorResponse{
				Error:   "Conflict",
				Message: err.Error(),
				Code:    http.StatusConflict,
			})
			return
		}
		respondError(c, err)
		return
	}
	h.respond(c, http.StatusOK, s)
}

// UpdateForm handles PUT /resolver/sessions/:id/form
func (h *ResolverHandler) UpdateForm(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}

	var req dto.ResolverFormRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	s.resolver.SetDraft(req.FullName, req.NationalID)
	h.respond(c, http.StatusOK, s)
}

// CloseForm handles DELETE /resolver/sessions/:id/form
func (h *ResolverHandler) CloseForm(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	s.resolver.CloseCreateForm()
	h.respond(c, http.StatusOK, s)
}

// CreateClient godoc
// @Summary  Create a client from the inline form and select it
// @Tags     resolver
// @Accept   json
// @Produce  json
// @Param    id   path string                  true "Session id"
// @Param    body body dto.ResolverFormRequest true "Client"
// @Success  201 {object} dto.ResolverSessionResponse
// @Failure  400 {object} dto.ErrorResponse
// @Failure  409 {object} dto.ErrorResponse
// @Router   /resolver/sessions/{id}/clients [post]
func (h *ResolverHandler) CreateClient(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}

	var req dto.ResolverFormRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	if _, err := s.resolver.CreateClient(c.Request.Context(), req.FullName, req.NationalID); err != nil {
		respondError(c, err)
		return
	}
	h.respond(c, http.StatusCreated, s)
}
