package codec

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avalenz/inventario/internal/model"
)

func Test_ParsePrice(t *testing.T) {
	testCases := []struct {
		name        string
		raw         string
		expected    string
		expectError bool
	}{
		{name: "thousands periods with decimal comma", raw: "1.234,56", expected: "1234.56"},
		{name: "decimal comma only", raw: "19,99", expected: "19.99"},
		{name: "plain decimal point", raw: "10.50", expected: "10.5"},
		{name: "currency symbol and spaces", raw: "$ 1.234,50", expected: "1234.5"},
		{name: "integer", raw: "1500", expected: "1500"},
		{name: "garbage", raw: "bad", expectError: true},
		{name: "empty", raw: "", expectError: true},
		{name: "spaces only", raw: "   ", expectError: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// when
			price, err := ParsePrice(tc.raw)
			// then
			if tc.expectError {
				assert.Error(t, err)
				assert.True(t, price.IsZero())
				return
			}
			require.NoError(t, err)
			expected, err := decimal.NewFromString(tc.expected)
			require.NoError(t, err)
			assert.True(t, price.Equal(expected), "got %s, want %s", price, expected)
		})
	}
}

func Test_ParseCount(t *testing.T) {
	testCases := []struct {
		name        string
		raw         string
		expected    int64
		expectError bool
	}{
		{name: "plain integer", raw: "42", expected: 42},
		{name: "padded integer", raw: "  7 ", expected: 7},
		{name: "negative integer", raw: "-3", expected: -3},
		{name: "fractional", raw: "3.5", expectError: true},
		{name: "garbage", raw: "many", expectError: true},
		{name: "empty", raw: "", expectError: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			n, err := ParseCount(tc.raw)
			if tc.expectError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, n)
		})
	}
}

func Test_Decode(t *testing.T) {
	testCases := []struct {
		name     string
		fields   map[string]string
		expected model.Product
	}{
		{
			name: "well-formed row",
			fields: map[string]string{
				"code": "A1", "name": "Widget", "price": "19,99", "stock": "5", "sold": "2",
			},
			expected: model.Product{Code: "A1", Name: "Widget", Price: decimal.RequireFromString("19.99"), Stock: 5, Sold: 2},
		},
		{
			name: "header keys need normalizing",
			fields: map[string]string{
				" Code ": "B2", "NAME": "Gadget", "Price": "100", "Stock": "1", "Sold": "0",
			},
			expected: model.Product{Code: "B2", Name: "Gadget", Price: decimal.NewFromInt(100), Stock: 1},
		},
		{
			name: "unparseable numbers fall back to zero",
			fields: map[string]string{
				"code": "C3", "name": "Broken", "price": "bad", "stock": "lots", "sold": "?",
			},
			expected: model.Product{Code: "C3", Name: "Broken", Price: decimal.Zero},
		},
		{
			name:     "missing columns default",
			fields:   map[string]string{"name": "Nameless"},
			expected: model.Product{Name: "Nameless", Price: decimal.Zero},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// when
			p := Decode(tc.fields)
			// then
			assert.True(t, p.Equal(tc.expected), "got %+v, want %+v", p, tc.expected)
		})
	}
}

func Test_Codec_RoundTrip(t *testing.T) {
	products := []model.Product{
		{Code: "A1", Name: "Widget", Price: decimal.RequireFromString("10.50"), Stock: 5, Sold: 0},
		{Code: "B2", Name: "semi;colon name", Price: decimal.RequireFromString("1234.56"), Stock: 0, Sold: 120},
		{Code: "C3", Name: "", Price: decimal.Zero, Stock: 99, Sold: 1},
	}

	for _, p := range products {
		t.Run(p.Code, func(t *testing.T) {
			// when
			decoded := Decode(Encode(p))
			// then
			assert.Equal(t, p.Code, decoded.Code)
			assert.Equal(t, p.Name, decoded.Name)
			assert.True(t, p.Price.Equal(decoded.Price), "price got %s, want %s", decoded.Price, p.Price)
			assert.Equal(t, p.Stock, decoded.Stock)
			assert.Equal(t, p.Sold, decoded.Sold)
		})
	}
}
