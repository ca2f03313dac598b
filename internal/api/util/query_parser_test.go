package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseQueryString(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    []QueryFilter
		wantErr bool
	}{
		{name: "empty", input: "", want: nil},
		{
			name:  "implicit equality",
			input: "national_id|12345678",
			want:  []QueryFilter{{Field: "national_id", Operator: OpEq, Value: "12345678"}},
		},
		{
			name:  "null check",
			input: "image|isnull",
			want:  []QueryFilter{{Field: "image", Operator: OpIsNull}},
		},
		{
			name:  "like and gte",
			input: "full_name|like|ana, quantity|gte|3",
			want: []QueryFilter{
				{Field: "full_name", Operator: OpLike, Value: "ana"},
				{Field: "quantity", Operator: OpGte, Value: "3"},
			},
		},
		{
			name:  "value list",
			input: "sale_type|in|cash;card",
			want:  []QueryFilter{{Field: "sale_type", Operator: OpIn, Value: []string{"cash", "card"}}},
		},
		{name: "null check with value", input: "image|isnull|x", wantErr: true},
		{name: "missing field", input: "|eq|3", wantErr: true},
		{name: "unknown operator", input: "quantity|between|3", wantErr: true},
		{name: "too many parts", input: "a|b|c|d", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseQueryString(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseOrderString(t *testing.T) {
	got, err := ParseOrderString("full_name|asc,created_at|DESC")
	require.NoError(t, err)
	assert.Equal(t, []OrderClause{
		{Field: "full_name", Direction: OrderAsc},
		{Field: "created_at", Direction: OrderDesc},
	}, got)

	_, err = ParseOrderString("full_name|sideways")
	require.Error(t, err)

	_, err = ParseOrderString("full_name")
	require.Error(t, err)
}

func TestBuildListFilter(t *testing.T) {
	fields := FieldSet{
		Query: []string{"full_name", "national_id"},
		Order: []string{"full_name", "created_at"},
	}

	filter, err := BuildListFilter("full_name|like|lo", "created_at|desc", 0, 1000, fields)
	require.NoError(t, err)
	assert.Equal(t, 1, filter.Page)
	assert.Equal(t, MaxPerPage, filter.PerPage)
	assert.Len(t, filter.Filters, 1)
	assert.Len(t, filter.Order, 1)

	_, err = BuildListFilter("secret|x", "", 1, 10, fields)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid query field")

	_, err = BuildListFilter("", "secret|asc", 1, 10, fields)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid order field")
}

func TestListFilterTotalPages(t *testing.T) {
	f := ListFilter{PerPage: 3}
	assert.Equal(t, 4, f.TotalPages(10))
	assert.Equal(t, 0, f.TotalPages(0))
	assert.Equal(t, 0, ListFilter{}.TotalPages(10))
}
