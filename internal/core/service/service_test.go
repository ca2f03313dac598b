package service

import (
	"context"
	"errors"
	"testing"

	"github.com/martijn/stockpoint/internal/core/domain"
	"github.com/martijn/stockpoint/internal/core/repository"
	"github.com/martijn/stockpoint/internal/infrastructure/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type testEnv struct {
	db       *sqlite.DB
	clients  *ClientService
	products *ProductService
	sales    *SaleService
	auth     *AuthService
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	log := zaptest.NewLogger(t)
	clientRepo := sqlite.NewClientRepository(db)
	productRepo := sqlite.NewProductRepository(db)

	return &testEnv{
		db:      db,
		clients: NewClientService(clientRepo, log),
		products: NewProductService(
			productRepo,
			sqlite.NewCategoryRepository(db),
			sqlite.NewDraftRepository(db),
			log,
		),
		sales: NewSaleService(sqlite.NewSaleRepository(db), productRepo, clientRepo, log),
		auth: NewAuthService(
			sqlite.NewOperatorRepository(db),
			sqlite.NewTerminalRepository(db),
			sqlite.NewAuthCodeRepository(db),
			"test-secret",
			"HS256",
			log,
		),
	}
}

// failingClientRepo fails every call with the same error.
type failingClientRepo struct {
	repository.ClientRepository
	err   error
	calls int
}

func (r *failingClientRepo) CreateUnique(ctx context.Context, client *domain.Client) (*domain.Client, error) {
	r.calls++
	return nil, r.err
}

func (r *failingClientRepo) SearchByNationalID(ctx context.Context, term string) ([]*domain.Client, error) {
	r.calls++
	return nil, r.err
}

func TestCreateClientValidation(t *testing.T) {
	repo := &failingClientRepo{err: errors.New("must not be called")}
	svc := NewClientService(repo, zaptest.NewLogger(t))

	tests := []struct {
		name       string
		fullName   string
		nationalID string
		fields     []string
	}{
		{"missing name", "", "123", []string{"full_name"}},
		{"missing id", "Ana", "", []string{"national_id"}},
		{"blank both", "  ", "\t", []string{"full_name", "national_id"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateClient(context.Background(), tt.fullName, tt.nationalID)

			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.fields, verr.Fields)
			assert.Contains(t, err.Error(), "complete all fields")
		})
	}
	assert.Zero(t, repo.calls)
}

func TestCreateClientRejectsNonDigitNationalID(t *testing.T) {
	repo := &failingClientRepo{err: errors.New("must not be called")}
	svc := NewClientService(repo, zaptest.NewLogger(t))

	for _, id := range []string{"12-34", "AB12", "12 34", "١٢٣"} {
		t.Run(id, func(t *testing.T) {
			_, err := svc.CreateClient(context.Background(), "Ana", id)

			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, []string{"national_id"}, verr.Fields)
			assert.Contains(t, err.Error(), "only digits")
		})
	}
	assert.Zero(t, repo.calls)

	_, err := svc.CreateClient(context.Background(), "Ana", " 0123 ")
	assert.True(t, IsStore(err), "padded digits pass validation, got %v", err)
}

func TestCreateClientDuplicate(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	first, err := env.clients.CreateClient(ctx, " Ana Lopez ", "12345678")
	require.NoError(t, err)
	assert.Equal(t, "Ana Lopez", first.FullName)

	_, err = env.clients.CreateClient(ctx, "Other", "12345678")
	assert.True(t, IsDuplicate(err), "got %v", err)
	assert.EqualError(t, err, "client with this ID already exists")

	count, err := env.clients.CountClients(ctx, repository.ClientFilter{})
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestCreateClientStoreFailure(t *testing.T) {
	cause := errors.New("disk I/O error")
	svc := NewClientService(&failingClientRepo{err: cause}, zaptest.NewLogger(t))

	_, err := svc.CreateClient(context.Background(), "Ana", "1")
	assert.True(t, IsStore(err))
	assert.ErrorIs(t, err, cause)
}

func TestSearchClients(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	for _, id := range []string{"12345678", "87654321", "11112222"} {
		_, err := env.clients.CreateClient(ctx, "Client "+id, id)
		require.NoError(t, err)
	}

	found, err := env.clients.SearchClients(ctx, "2")
	require.NoError(t, err)
	assert.Len(t, found, 3)

	found, err = env.clients.SearchClients(ctx, "1234")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "12345678", found[0].NationalID)

	repo := &failingClientRepo{err: errors.New("unused")}
	empty, err := NewClientService(repo, zaptest.NewLogger(t)).SearchClients(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, empty)
	assert.Zero(t, repo.calls)
}

func TestGetClientNotFound(t *testing.T) {
	env := setupTestEnv(t)

	_, err := env.clients.GetClient(context.Background(), 42)
	assert.True(t, IsNotFound(err))
}

func validForm(categoryID int64) domain.ProductForm {
	return domain.ProductForm{
		Name:          "Yogurt",
		Description:   "Strawberry, 1l",
		PurchasePrice: "1,20",
		SalePrice:     "2.50",
		Quantity:      "12",
		EntryDate:     "2026-03-01T10:00:00Z",
		ExpiryDate:    "2026-04-01",
		CategoryID:    &categoryID,
	}
}

func TestRegisterProduct(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	category, err := env.products.CreateCategory(ctx, "Dairy")
	require.NoError(t, err)

	form := validForm(category.ID)
	require.NoError(t, env.products.SaveDraft(ctx, "product_form", form))

	product, err := env.products.RegisterProduct(ctx, form, "product_form")
	require.NoError(t, err)
	assert.NotZero(t, product.ID)
	assert.Equal(t, domain.Cents(120), product.PurchasePrice)
	assert.Equal(t, domain.Cents(250), product.SalePrice)
	assert.Equal(t, 12, product.Quantity)
	assert.Equal(t, "2026-03-01", product.EntryDate)
	assert.Nil(t, product.Image)

	draft, err := env.products.LoadDraft(ctx, "product_form")
	require.NoError(t, err)
	assert.True(t, draft.IsEmpty(), "draft is discarded after registration")
}

func TestRegisterProductValidation(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	category, err := env.products.CreateCategory(ctx, "Dairy")
	require.NoError(t, err)

	tests := []struct {
		name   string
		mutate func(f *domain.ProductForm)
		field  string
	}{
		{"missing name", func(f *domain.ProductForm) { f.Name = "" }, "name"},
		{"missing category", func(f *domain.ProductForm) { f.CategoryID = nil }, "category_id"},
		{"bad price", func(f *domain.ProductForm) { f.SalePrice = "abc" }, "sale_price"},
		{"negative quantity", func(f *domain.ProductForm) { f.Quantity = "-1" }, "quantity"},
		{"bad date", func(f *domain.ProductForm) { f.EntryDate = "yesterday" }, "entry_date"},
		{"expiry before entry", func(f *domain.ProductForm) { f.ExpiryDate = "2026-01-01" }, "expiry_date"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := validForm(category.ID)
			tt.mutate(&form)

			_, err := env.products.RegisterProduct(ctx, form, "")
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Contains(t, verr.Fields, tt.field)
		})
	}

	missing := int64(999)
	form := validForm(category.ID)
	form.CategoryID = &missing
	_, err = env.products.RegisterProduct(ctx, form, "")
	assert.True(t, IsNotFound(err))
}

func TestDraftRoundTrip(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	empty, err := env.products.LoadDraft(ctx, "k")
	require.NoError(t, err)
	assert.True(t, empty.IsEmpty())

	image := "file:///tmp/yogurt.jpg"
	require.NoError(t, env.products.SaveDraft(ctx, "k", domain.ProductForm{Name: "Half", Image: &image}))

	loaded, err := env.products.LoadDraft(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "Half", loaded.Name)
	require.NotNil(t, loaded.Image)
	assert.Equal(t, image, *loaded.Image)

	require.NoError(t, env.products.DiscardDraft(ctx, "k"))
	loaded, err = env.products.LoadDraft(ctx, "k")
	require.NoError(t, err)
	assert.True(t, loaded.IsEmpty())
}

func TestCreateCategoryDuplicate(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	_, err := env.products.CreateCategory(ctx, "Bakery")
	require.NoError(t, err)
	_, err = env.products.CreateCategory(ctx, "Bakery")
	assert.True(t, IsDuplicate(err))
}

func TestRegisterSale(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	category, err := env.products.CreateCategory(ctx, "Dairy")
	require.NoError(t, err)
	product, err := env.products.RegisterProduct(ctx, validForm(category.ID), "")
	require.NoError(t, err)
	client, err := env.clients.CreateClient(ctx, "Ana Lopez", "12345678")
	require.NoError(t, err)

	cart, err := env.sales.BuildCart(ctx, SaleOrder{
		ClientID: client.ID,
		Discount: 100,
		Items:    []SaleOrderItem{{ProductID: product.ID, Quantity: 2}},
	})
	require.NoError(t, err)

	sale, err := env.sales.Register(ctx, cart)
	require.NoError(t, err)
	assert.Equal(t, domain.Cents(500), sale.Subtotal)
	assert.Equal(t, domain.Cents(400), sale.Total)

	stored, err := env.sales.GetSale(ctx, sale.ID)
	require.NoError(t, err)
	assert.Len(t, stored.Items, 1)

	reloaded, err := env.products.GetProduct(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, reloaded.Quantity)

	cart, err = env.sales.BuildCart(ctx, SaleOrder{
		ClientID: client.ID,
		Items:    []SaleOrderItem{{ProductID: product.ID, Quantity: 11}},
	})
	require.NoError(t, err)
	_, err = env.sales.Register(ctx, cart)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "insufficient stock", verr.Message)
}

func TestRegisterSaleRequiresClientAndItems(t *testing.T) {
	env := setupTestEnv(t)

	_, err := env.sales.Register(context.Background(), domain.NewCart())
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []string{"client", "items"}, verr.Fields)
}

func TestOperatorAuthFlow(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	_, err := env.auth.CreateOperator(ctx, "maria", "Maria", "short")
	assert.True(t, IsValidation(err))

	_, err = env.auth.CreateOperator(ctx, "maria", "Maria", "correct horse")
	require.NoError(t, err)
	_, err = env.auth.CreateOperator(ctx, "maria", "", "correct horse")
	assert.True(t, IsDuplicate(err))

	_, err = env.auth.AuthorizeOperator(ctx, "maria", "wrong password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	code, err := env.auth.AuthorizeOperator(ctx, "maria", "correct horse")
	require.NoError(t, err)

	token, err := env.auth.ExchangeAuthCode(ctx, code.Code)
	require.NoError(t, err)

	_, err = env.auth.ExchangeAuthCode(ctx, code.Code)
	assert.ErrorIs(t, err, ErrInvalidCredentials, "codes are single use")

	claims, err := env.auth.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "maria", claims.Subject)
	assert.Equal(t, SubjectOperator, claims.SubjectType)
	assert.True(t, claims.HasScope("clients"))
}

func TestTerminalAuthFlow(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	terminal, secret, err := env.auth.CreateTerminal(ctx, "till 1", []string{"sales"})
	require.NoError(t, err)
	assert.NotEqual(t, secret, terminal.Secret)

	_, err = env.auth.AuthenticateTerminal(ctx, terminal.ID, "nope")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	token, err := env.auth.AuthenticateTerminal(ctx, terminal.ID, secret)
	require.NoError(t, err)

	claims, err := env.auth.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, SubjectTerminal, claims.SubjectType)
	assert.True(t, claims.HasScope("sales"))
	assert.False(t, claims.HasScope("clients"))

	updated, err := env.auth.UpdateTerminal(ctx, terminal.ID, "front till", nil)
	require.NoError(t, err)
	assert.Equal(t, "front till", updated.Label)
	assert.Equal(t, []string{"sales"}, updated.Scopes)

	require.NoError(t, env.auth.DeleteTerminal(ctx, terminal.ID))
	assert.True(t, IsNotFound(env.auth.DeleteTerminal(ctx, terminal.ID)))
}
