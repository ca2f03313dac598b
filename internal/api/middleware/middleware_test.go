package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/martijn/stockpoint/internal/core/service"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type staticValidator map[string]*service.TokenClaims

func (v staticValidator) ValidateToken(token string) (*service.TokenClaims, error) {
	if claims, ok := v[token]; ok {
		return claims, nil
	}
	return nil, errors.New("bad token")
}

func newRouter(handlers ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handlers = append(handlers, func(c *gin.Context) { c.Status(http.StatusNoContent) })
	r.GET("/", handlers...)
	return r
}

func TestAuthMiddleware(t *testing.T) {
	validator := staticValidator{
		"sales-only": {Scopes: []string{"sales"}},
		"all":        {Scopes: []string{"*"}},
	}
	router := newRouter(AuthMiddleware(validator), RequireScope("clients"))

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized},
		{"unknown token", "Bearer nope", http.StatusUnauthorized},
		{"missing scope", "Bearer sales-only", http.StatusForbidden},
		{"wildcard scope", "Bearer all", http.StatusNoContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set(AuthHeaderKey, tt.header)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			assert.Equal(t, tt.status, w.Code)
		})
	}
}

func TestRateLimit(t *testing.T) {
	limiter := NewIPRateLimiter(0, 2, zap.NewNop())
	router := newRouter(limiter.RateLimit())

	codes := make([]int, 3)
	for i := range codes {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		codes[i] = w.Code
	}

	assert.Equal(t, []int{http.StatusNoContent, http.StatusNoContent, http.StatusTooManyRequests}, codes)
}

func TestErrorHandlerRecoversPanics(t *testing.T) {
	router := newRouter(ErrorHandlerMiddleware(zap.NewNop()), func(c *gin.Context) { panic("boom") })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "An unexpected error occurred")
}
