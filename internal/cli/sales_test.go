package cli

import (
	"testing"

	"github.com/martijn/stockpoint/internal/core/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSaleItem(t *testing.T) {
	tests := []struct {
		input   string
		want    service.SaleOrderItem
		wantErr bool
	}{
		{input: "3", want: service.SaleOrderItem{ProductID: 3, Quantity: 1}},
		{input: "3:4", want: service.SaleOrderItem{ProductID: 3, Quantity: 4}},
		{input: "x:1", wantErr: true},
		{input: "0", wantErr: true},
		{input: "3:0", wantErr: true},
		{input: "3:", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := parseSaleItem(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
