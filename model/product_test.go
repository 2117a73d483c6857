package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPriceUnmarshal(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected Price
	}{
		{
			name:     "plain number",
			raw:      `12.5`,
			expected: Price{Amount: 12.5},
		},
		{
			name:     "regular and sale object",
			raw:      `{"regular": 20, "sale": 15}`,
			expected: Price{Regular: 20, Sale: 15},
		},
		{
			name:     "regular only",
			raw:      `{"regular": 10}`,
			expected: Price{Regular: 10},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var p Price
			require.NoError(t, json.Unmarshal([]byte(tt.raw), &p))
			assert.Equal(t, tt.expected, p)
		})
	}
}

func TestPriceEffective(t *testing.T) {
	tests := []struct {
		name     string
		price    Price
		expected float64
	}{
		{
			name:     "sale wins over regular",
			price:    Price{Regular: 20, Sale: 15},
			expected: 15,
		},
		{
			name:     "regular when no sale",
			price:    Price{Regular: 20},
			expected: 20,
		},
		{
			name:     "raw amount fallback",
			price:    Price{Amount: 7.5},
			expected: 7.5,
		},
		{
			name:     "zero price",
			price:    Price{},
			expected: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.price.Effective())
		})
	}
}

func TestStoreRefUnmarshal(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected StoreRef
	}{
		{
			name:     "plain id string",
			raw:      `"store-1"`,
			expected: StoreRef("store-1"),
		},
		{
			name:     "nested object with _id",
			raw:      `{"_id": "store-2", "name": "Corner Liquors"}`,
			expected: StoreRef("store-2"),
		},
		{
			name:     "nested object with id",
			raw:      `{"id": "store-3"}`,
			expected: StoreRef("store-3"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var s StoreRef
			require.NoError(t, json.Unmarshal([]byte(tt.raw), &s))
			assert.Equal(t, tt.expected, s)
		})
	}
}

func TestCartLineTotal(t *testing.T) {
	line := CartLine{
		ProductID: "p1",
		Price:     Price{Regular: 10, Sale: 8},
		Quantity:  3,
	}
	assert.Equal(t, 24.0, line.LineTotal())
}
