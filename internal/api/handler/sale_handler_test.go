package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/martijn/stockpoint/internal/api/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateSale(t *testing.T) {
	env := setupTestEnv(t)
	ana := env.seedClient(t, "Ana", "123")
	bread := env.seedProduct(t, "Bread", "2.50", 10)
	milk := env.seedProduct(t, "Milk", "1.25", 3)

	tests := []struct {
		name           string
		body           dto.CreateSaleRequest
		expectedStatus int
		expectedTotal  string
	}{
		{
			name: "valid sale",
			body: dto.CreateSaleRequest{
				ClientID: ana.ID,
				Discount: "1,00",
				Items: []dto.SaleItemRequest{
					{ProductID: bread.ID, Quantity: 2},
					{ProductID: milk.ID, Quantity: 1},
				},
			},
			expectedStatus: http.StatusCreated,
			expectedTotal:  "5.25",
		},
		{
			name:           "missing client",
			body:           dto.CreateSaleRequest{Items: []dto.SaleItemRequest{{ProductID: bread.ID, Quantity: 1}}},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "empty cart",
			body:           dto.CreateSaleRequest{ClientID: ana.ID},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "unknown client",
			body:           dto.CreateSaleRequest{ClientID: 999, Items: []dto.SaleItemRequest{{ProductID: bread.ID, Quantity: 1}}},
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "unknown product",
			body:           dto.CreateSaleRequest{ClientID: ana.ID, Items: []dto.SaleItemRequest{{ProductID: 999, Quantity: 1}}},
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "zero quantity",
			body:           dto.CreateSaleRequest{ClientID: ana.ID, Items: []dto.SaleItemRequest{{ProductID: bread.ID, Quantity: 0}}},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "bad discount",
			body:           dto.CreateSaleRequest{ClientID: ana.ID, Discount: "ten", Items: []dto.SaleItemRequest{{ProductID: bread.ID, Quantity: 1}}},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "more than in stock",
			body:           dto.CreateSaleRequest{ClientID: ana.ID, Items: []dto.SaleItemRequest{{ProductID: milk.ID, Quantity: 50}}},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.do(t, http.MethodPost, "/sales", tt.body)
			require.Equal(t, tt.expectedStatus, w.Code, w.Body.String())
			if tt.expectedStatus != http.StatusCreated {
				return
			}

			resp := decode[dto.SaleResponse](t, w)
			assert.Equal(t, "6.25", resp.Subtotal)
			assert.Equal(t, tt.expectedTotal, resp.Total)
			assert.Len(t, resp.Items, 2)
		})
	}

	// Only the valid sale touched stock.
	product, err := env.products.GetProduct(context.Background(), milk.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, product.Quantity)
}

func TestGetAndListSales(t *testing.T) {
	env := setupTestEnv(t)
	ana := env.seedClient(t, "Ana", "123")
	bread := env.seedProduct(t, "Bread", "2.00", 10)

	w := env.do(t, http.MethodPost, "/sales", dto.CreateSaleRequest{
		ClientID: ana.ID,
		Courier:  "  Post  ",
		Items:    []dto.SaleItemRequest{{ProductID: bread.ID, Quantity: 3}},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode[dto.SaleResponse](t, w)
	assert.Equal(t, "Post", created.Courier)

	w = env.do(t, http.MethodGet, "/sales/"+created.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	got := decode[dto.SaleResponse](t, w)
	assert.Equal(t, "6.00", got.Total)
	require.Len(t, got.Items, 1)
	assert.Equal(t, "6.00", got.Items[0].Amount)

	w = env.do(t, http.MethodGet, "/sales/does-not-exist", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = env.do(t, http.MethodGet, "/sales?query=client_id|"+itoa64(ana.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	list := decode[dto.SaleListResponse](t, w)
	assert.Equal(t, 1, list.Pagination.Total)
	require.Len(t, list.Items, 1)
	assert.Equal(t, created.ID, list.Items[0].ID)
}
