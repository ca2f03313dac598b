package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/martijn/stockpoint/internal/api/handler"
	"github.com/martijn/stockpoint/internal/api/middleware"
	"github.com/martijn/stockpoint/internal/core/service"
	"github.com/martijn/stockpoint/pkg/config"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	_ "github.com/martijn/stockpoint/internal/api/docs"
)

// Services bundles what the HTTP layer needs from the core.
type Services struct {
	Auth     *service.AuthService
	Clients  *service.ClientService
	Products *service.ProductService
	Sales    *service.SaleService
	Sessions *handler.ResolverSessions
}

type Server struct {
	router *gin.Engine
	srv    *http.Server
	config *config.Config
	log    *zap.Logger
}

// NewServer creates a new API server
func NewServer(cfg *config.Config, log *zap.Logger, services Services) *Server {
	if !cfg.IsDevMode() {
		gin.SetMode(gin.ReleaseMode)
	}

	handler.RegisterValidators()

	router := gin.New()

	// Global middleware
	router.Use(middleware.RequestLogger(log))
	router.Use(middleware.ErrorHandlerMiddleware(log))
	router.Use(middleware.CORSMiddleware(cfg.CORSOrigins))

	authHandler := handler.NewAuthHandler(services.Auth)
	terminalHandler := handler.NewTerminalHandler(services.Auth)
	clientHandler := handler.NewClientHandler(services.Clients)
	resolverHandler := handler.NewResolverHandler(services.Sessions)
	productHandler := handler.NewProductHandler(services.Products, cfg.ProductDraftKey)
	saleHandler := handler.NewSaleHandler(services.Sales)

	// Public routes (no auth required)
	limiter := middleware.NewIPRateLimiter(rate.Limit(cfg.AuthRateLimit), cfg.AuthRateBurst, log)
	auth := router.Group("/auth")
	auth.Use(limiter.RateLimit())
	{
		auth.POST("/authorize", authHandler.Authorize)
		auth.POST("/token", authHandler.Token)
	}

	// Protected routes (auth required)
	authMiddleware := middleware.AuthMiddleware(services.Auth)

	clients := router.Group("/clients")
	clients.Use(authMiddleware, middleware.RequireScope(service.ScopeClients))
	{
		clients.POST("", clientHandler.CreateClient)
		clients.GET("", clientHandler.ListClients)
		clients.GET("/search", clientHandler.SearchClients)
		clients.GET("/:id", clientHandler.GetClient)
	}

	sessions := router.Group("/resolver/sessions")
	sessions.Use(authMiddleware, middleware.RequireScope(service.ScopeClients))
	{
		sessions.POST("", resolverHandler.OpenSession)
		sessions.GET("/:id", resolverHandler.GetSession)
		sessions.DELETE("/:id", resolverHandler.CloseSession)
		sessions.PUT("/:id/query", resolverHandler.SetQuery)
		sessions.POST("/:id/select", resolverHandler.Select)
		sessions.DELETE("/:id/selection", resolverHandler.ClearSelection)
		sessions.POST("/:id/form", resolverHandler.OpenForm)
		sessions.PUT("/:id/form", resolverHandler.UpdateForm)
		sessions.DELETE("/:id/form", resolverHandler.CloseForm)
		sessions.POST("/:id/clients", resolverHandler.CreateClient)
	}

	categories := router.Group("/categories")
	categories.Use(authMiddleware, middleware.RequireScope(service.ScopeProducts))
	{
		categories.GET("", productHandler.ListCategories)
		categories.POST("", productHandler.CreateCategory)
	}

	products := router.Group("/products")
	products.Use(authMiddleware, middleware.RequireScope(service.ScopeProducts))
	{
		products.GET("", productHandler.ListProducts)
		products.POST("", productHandler.RegisterProduct)
		products.GET("/draft", productHandler.GetDraft)
		products.PUT("/draft", productHandler.SaveDraft)
		products.DELETE("/draft", productHandler.DiscardDraft)
		products.GET("/:id", productHandler.GetProduct)
	}

	sales := router.Group("/sales")
	sales.Use(authMiddleware, middleware.RequireScope(service.ScopeSales))
	{
		sales.POST("", saleHandler.CreateSale)
		sales.GET("", saleHandler.ListSales)
		sales.GET("/:id", saleHandler.GetSale)
	}

	terminals := router.Group("/terminals")
	terminals.Use(authMiddleware, middleware.RequireScope(service.ScopeTerminals))
	{
		terminals.POST("", terminalHandler.CreateTerminal)
		terminals.GET("", terminalHandler.ListTerminals)
		terminals.PUT("/:id", terminalHandler.UpdateTerminal)
		terminals.DELETE("/:id", terminalHandler.DeleteTerminal)
	}

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	return &Server{
		router: router,
		config: cfg,
		log:    log,
	}
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start starts the HTTP server
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.APIHost, s.config.APIPort)

	s.srv = &http.Server{
		Addr:           addr,
		Handler:        s.router,
		ReadTimeout:    15 * time.Second,
		WriteTimeout:   15 * time.Second,
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 1 << 20, // 1 MB
	}

	if s.config.SSLCert != "" && s.config.SSLKey != "" {
		s.log.Info("starting HTTPS server", zap.String("addr", addr))
		return s.srv.ListenAndServeTLS(s.config.SSLCert, s.config.SSLKey)
	}

	s.log.Info("starting HTTP server", zap.String("addr", addr))
	return s.srv.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.srv != nil {
		return s.srv.Shutdown(ctx)
	}
	return nil
}
