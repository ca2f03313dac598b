package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/martijn/stockpoint/internal/core/domain"
	"github.com/martijn/stockpoint/internal/core/service"
	"github.com/martijn/stockpoint/internal/infrastructure/sqlite"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

const testDraftKey = "product_form"

// testEnv holds all test dependencies
type testEnv struct {
	db       *sqlite.DB
	router   *gin.Engine
	clients  *service.ClientService
	products *service.ProductService
	sessions *ResolverSessions
}

// setupTestEnv wires every handler against an in-memory SQLite database.
// Routes are registered without auth middleware.
func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	log := zaptest.NewLogger(t)

	clientRepo := sqlite.NewClientRepository(db)
	productRepo := sqlite.NewProductRepository(db)

	clientService := service.NewClientService(clientRepo, log)
	productService := service.NewProductService(productRepo, sqlite.NewCategoryRepository(db), sqlite.NewDraftRepository(db), log)
	saleService := service.NewSaleService(sqlite.NewSaleRepository(db), productRepo, clientRepo, log)

	sessions := NewResolverSessions(clientService, time.Minute, log)

	RegisterValidators()
	gin.SetMode(gin.TestMode)
	router := gin.New()

	clientHandler := NewClientHandler(clientService)
	router.POST("/clients", clientHandler.CreateClient)
	router.GET("/clients", clientHandler.ListClients)
	router.GET("/clients/search", clientHandler.SearchClients)
	router.GET("/clients/:id", clientHandler.GetClient)

	resolverHandler := NewResolverHandler(sessions)
	router.POST("/resolver/sessions", resolverHandler.OpenSession)
	router.GET("/resolver/sessions/:id", resolverHandler.GetSession)
	router.DELETE("/resolver/sessions/:id", resolverHandler.CloseSession)
	router.PUT("/resolver/sessions/:id/query", resolverHandler.SetQuery)
	router.POST("/resolver/sessions/:id/select", resolverHandler.Select)
	router.DELETE("/resolver/sessions/:id/selection", resolverHandler.ClearSelection)
	router.POST("/resolver/sessions/:id/form", resolverHandler.OpenForm)
	router.PUT("/resolver/sessions/:id/form", resolverHandler.UpdateForm)
	router.DELETE("/resolver/sessions/:id/form", resolverHandler.CloseForm)
	router.POST("/resolver/sessions/:id/clients", resolverHandler.CreateClient)

	productHandler := NewProductHandler(productService, testDraftKey)
	router.GET("/categories", productHandler.ListCategories)
	router.POST("/categories", productHandler.CreateCategory)
	router.GET("/products", productHandler.ListProducts)
	router.POST("/products", productHandler.RegisterProduct)
	router.GET("/products/draft", productHandler.GetDraft)
	router.PUT("/products/draft", productHandler.SaveDraft)
	router.DELETE("/products/draft", productHandler.DiscardDraft)
	router.GET("/products/:id", productHandler.GetProduct)

	saleHandler := NewSaleHandler(saleService)
	router.POST("/sales", saleHandler.CreateSale)
	router.GET("/sales", saleHandler.ListSales)
	router.GET("/sales/:id", saleHandler.GetSale)

	return &testEnv{
		db:       db,
		router:   router,
		clients:  clientService,
		products: productService,
		sessions: sessions,
	}
}

// do performs a request; body, when not nil, is sent as JSON.
func (env *testEnv) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var raw []byte
	if body != nil {
		var err error
		raw, err = json.Marshal(body)
		require.NoError(t, err)
	}

	req := httptest.NewRequest(method, path, bytes.NewReader(raw))
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), "body: %s", w.Body.String())
	return v
}

func (env *testEnv) seedClient(t *testing.T, fullName, nationalID string) *domain.Client {
	t.Helper()
	client, err := env.clients.CreateClient(context.Background(), fullName, nationalID)
	require.NoError(t, err)
	return client
}

func (env *testEnv) seedProduct(t *testing.T, name, salePrice string, quantity int) *domain.Product {
	t.Helper()

	category, err := env.products.CreateCategory(context.Background(), "category for "+name)
	require.NoError(t, err)

	form := domain.ProductForm{
		Name:          name,
		Description:   name + " description",
		PurchasePrice: "1.00",
		SalePrice:     salePrice,
		Quantity:      strconv.Itoa(quantity),
		EntryDate:     "2025-01-01",
		ExpiryDate:    "2026-01-01",
		CategoryID:    &category.ID,
	}
	product, err := env.products.RegisterProduct(context.Background(), form, "")
	require.NoError(t, err)
	return product
}

func itoa64(n int64) string {
	return strconv.FormatInt(n, 10)
}
