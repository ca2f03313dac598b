package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/martijn/stockpoint/internal/api/dto"
	"github.com/martijn/stockpoint/internal/core/service"
)

type AuthHandler struct {
	authService *service.AuthService
}

func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Authorize godoc
// @Summary  Exchange operator credentials for a single-use code
// @Tags     auth
// @Accept   json
// @Produce  json
// @Param    body body dto.AuthorizeRequest true "Credentials"
// @Success  200 {object} dto.AuthorizeResponse
// @Failure  401 {object} dto.ErrorResponse
// @Router   /auth/authorize [post]
func (h *AuthHandler) Authorize(c *gin.Context) {
	var req dto.AuthorizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	authCode, err := h.authService.AuthorizeOperator(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.AuthorizeResponse{Code: authCode.Code})
}

// Token godoc
// @Summary  Issue an access token
// @Description authorization_code for operators, client_credentials for terminals
// @Tags     auth
// @Accept   json
// @Produce  json
// @Param    body body dto.TokenRequest true "Grant"
// @Success  200 {object} dto.TokenResponse
// @Failure  400 {object} dto.ErrorResponse
// @Failure  401 {object} dto.ErrorResponse
// @Router   /auth/token [post]
func (h *AuthHandler) Token(c *gin.Context) {
	var req dto.TokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	var (
		token string
		err   error
	)
	switch req.GrantType {
	case "authorization_code":
		token, err = h.authService.ExchangeAuthCode(c.Request.Context(), req.Code)
	case "client_credentials":
		token, err = h.authService.AuthenticateTerminal(c.Request.Context(), req.ClientID, req.ClientSecret)
	}
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.TokenResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   int(service.TokenTTL.Seconds()),
	})
}
