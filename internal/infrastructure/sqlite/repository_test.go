package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/martijn/stockpoint/internal/api/util"
	"github.com/martijn/stockpoint/internal/core/domain"
	"github.com/martijn/stockpoint/internal/core/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func seedProduct(t *testing.T, db *DB, name string, quantity int) *domain.Product {
	t.Helper()
	ctx := context.Background()

	category := &domain.Category{Name: "cat-" + name}
	require.NoError(t, NewCategoryRepository(db).Create(ctx, category))

	product := &domain.Product{
		Name:          name,
		PurchasePrice: 500,
		SalePrice:     1000,
		Quantity:      quantity,
		EntryDate:     "2026-01-01",
		ExpiryDate:    "2027-01-01",
		CategoryID:    category.ID,
		CreatedAt:     time.Now(),
	}
	require.NoError(t, NewProductRepository(db).Create(ctx, product))
	return product
}

func TestClientCreateUnique(t *testing.T) {
	ctx := context.Background()
	repo := NewClientRepository(newTestDB(t))

	created, err := repo.CreateUnique(ctx, domain.NewClient("Ana Diaz", "12345678"))
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.Equal(t, "Ana Diaz", created.FullName)
	assert.Equal(t, "12345678", created.NationalID)

	_, err = repo.CreateUnique(ctx, domain.NewClient("Someone Else", "12345678"))
	assert.True(t, errors.Is(err, repository.ErrDuplicate), "got %v", err)

	count, err := repo.Count(ctx, repository.ClientFilter{})
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestClientSearchByNationalID(t *testing.T) {
	ctx := context.Background()
	repo := NewClientRepository(newTestDB(t))

	for _, c := range []struct{ name, id string }{
		{"First", "40123"},
		{"Second", "99123"},
		{"Third", "55555"},
		{"Wild", "12%34"},
		{"Letters", "AB12"},
	} {
		_, err := repo.CreateUnique(ctx, domain.NewClient(c.name, c.id))
		require.NoError(t, err)
	}

	tests := []struct {
		term  string
		names []string
	}{
		{"123", []string{"First", "Second"}},
		{"555", []string{"Third"}},
		{"%", []string{"Wild"}},
		{"_", nil},
		{"000", nil},
		{"AB", []string{"Letters"}},
		{"B1", []string{"Letters"}},
		{"ab", nil},
	}

	for _, tt := range tests {
		t.Run(tt.term, func(t *testing.T) {
			clients, err := repo.SearchByNationalID(ctx, tt.term)
			require.NoError(t, err)

			var names []string
			for _, c := range clients {
				names = append(names, c.FullName)
			}
			assert.Equal(t, tt.names, names)
		})
	}
}

func TestClientListFilters(t *testing.T) {
	ctx := context.Background()
	repo := NewClientRepository(newTestDB(t))

	for _, id := range []string{"3", "1", "2"} {
		_, err := repo.CreateUnique(ctx, domain.NewClient("Client "+id, id))
		require.NoError(t, err)
	}

	clients, err := repo.List(ctx, repository.ClientFilter{ListFilter: util.ListFilter{
		Order:   []util.OrderClause{{Field: "national_id", Direction: util.OrderDesc}},
		Page:    1,
		PerPage: 2,
	}})
	require.NoError(t, err)
	require.Len(t, clients, 2)
	assert.Equal(t, "3", clients[0].NationalID)
	assert.Equal(t, "2", clients[1].NationalID)

	_, err = repo.FindByNationalID(ctx, "404")
	assert.True(t, errors.Is(err, repository.ErrNotFound))
}

func TestSaleRegisterDecrementsStock(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)

	client, err := NewClientRepository(db).CreateUnique(ctx, domain.NewClient("Buyer", "777"))
	require.NoError(t, err)
	product := seedProduct(t, db, "soap", 5)

	cart := domain.NewCart()
	require.NoError(t, cart.Add(product, 3))
	cart.BindClient(client)

	sales := NewSaleRepository(db)
	sale := domain.NewSaleFromCart(cart)
	require.NoError(t, sales.Register(ctx, sale))

	stored, err := sales.FindByID(ctx, sale.ID)
	require.NoError(t, err)
	assert.Equal(t, sale.Total, stored.Total)
	require.Len(t, stored.Items, 1)
	assert.Equal(t, 3, stored.Items[0].Quantity)

	reloaded, err := NewProductRepository(db).FindByID(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, reloaded.Quantity)
}

func TestSaleRegisterInsufficientStockRollsBack(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)

	client, err := NewClientRepository(db).CreateUnique(ctx, domain.NewClient("Buyer", "777"))
	require.NoError(t, err)
	plenty := seedProduct(t, db, "rice", 10)
	scarce := seedProduct(t, db, "salt", 1)

	cart := domain.NewCart()
	require.NoError(t, cart.Add(plenty, 4))
	require.NoError(t, cart.Add(scarce, 2))
	cart.BindClient(client)

	sales := NewSaleRepository(db)
	err = sales.Register(ctx, domain.NewSaleFromCart(cart))
	assert.True(t, errors.Is(err, repository.ErrInsufficientStock), "got %v", err)

	reloaded, err := NewProductRepository(db).FindByID(ctx, plenty.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, reloaded.Quantity)

	count, err := sales.Count(ctx, repository.SaleFilter{})
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestDraftRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewDraftRepository(newTestDB(t))

	_, err := repo.Get(ctx, "product_form")
	assert.True(t, errors.Is(err, repository.ErrNotFound))

	require.NoError(t, repo.Put(ctx, "product_form", []byte(`{"name":"a"}`)))
	require.NoError(t, repo.Put(ctx, "product_form", []byte(`{"name":"b"}`)))

	payload, err := repo.Get(ctx, "product_form")
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"b"}`, string(payload))

	require.NoError(t, repo.Delete(ctx, "product_form"))
	require.NoError(t, repo.Delete(ctx, "product_form"))
}

func TestCategoryDuplicate(t *testing.T) {
	ctx := context.Background()
	repo := NewCategoryRepository(newTestDB(t))

	require.NoError(t, repo.Create(ctx, &domain.Category{Name: "Dairy"}))
	err := repo.Create(ctx, &domain.Category{Name: "Dairy"})
	assert.True(t, errors.Is(err, repository.ErrDuplicate), "got %v", err)
}

func TestOperatorAndAuthCode(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	operators := NewOperatorRepository(db)
	codes := NewAuthCodeRepository(db)

	require.NoError(t, operators.Create(ctx, domain.NewOperator("maria", "", "hash")))
	err := operators.Create(ctx, domain.NewOperator("maria", "", "hash"))
	assert.True(t, errors.Is(err, repository.ErrDuplicate))

	code := domain.NewAuthCode("maria", []string{"*"}, time.Minute)
	require.NoError(t, codes.Create(ctx, code))

	found, err := codes.FindByCode(ctx, code.Code)
	require.NoError(t, err)
	assert.Equal(t, []string{"*"}, found.Scopes)

	require.NoError(t, operators.Delete(ctx, "maria"))
	_, err = codes.FindByCode(ctx, code.Code)
	assert.True(t, errors.Is(err, repository.ErrNotFound), "auth codes cascade with their operator")
}

func TestTerminalRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewTerminalRepository(newTestDB(t))

	terminal := domain.NewTerminal("till 1", "hash", []string{"clients", "sales"})
	require.NoError(t, repo.Create(ctx, terminal))

	terminal.Label = "front till"
	terminal.Scopes = []string{"*"}
	require.NoError(t, repo.Update(ctx, terminal))

	found, err := repo.FindByID(ctx, terminal.ID)
	require.NoError(t, err)
	assert.Equal(t, "front till", found.Label)
	assert.Equal(t, []string{"*"}, found.Scopes)

	list, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, repo.Delete(ctx, terminal.ID))
	assert.True(t, errors.Is(repo.Delete(ctx, terminal.ID), repository.ErrNotFound))
}
