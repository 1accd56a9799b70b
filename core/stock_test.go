package core

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStock(t *testing.T) {
	t.Run("Defaults", func(t *testing.T) {
		s := NewStock("Checking", "USD", 100, false)
		assert.Equal(t, 100.0, s.Value)
		assert.Equal(t, DefaultColor, s.Color)
		assert.Equal(t, ClassAuto, s.Class)
		assert.Empty(t, s.Validate())
	})

	t.Run("Unbounded Overrides Value", func(t *testing.T) {
		for _, v := range []float64{0, -5, 1e9, math.Inf(-1)} {
			s := NewStock("Employer", "USD", v, true)
			assert.True(t, math.IsInf(s.Value, 1), "value %v should become +Inf", v)
			assert.Empty(t, s.Validate())
		}
	})

	t.Run("Normalize Keeps Explicit Color", func(t *testing.T) {
		s := Stock{Name: "Savings", Color: "Gold"}.Normalize()
		assert.Equal(t, "Gold", s.Color)
	})
}

func TestStockValidate(t *testing.T) {
	errs := Stock{Name: " ", Value: math.NaN(), Class: "fuzzy"}.Validate()
	require.Len(t, errs, 3)
	assert.Equal(t, "name", errs[0].Field)
	assert.Equal(t, "value", errs[1].Field)
	assert.Equal(t, "class", errs[2].Field)
	assert.ErrorIs(t, errs, ErrValidation)

	errs = Stock{Name: "Pool", Unbounded: true, Value: 3}.Validate()
	require.Len(t, errs, 1)
	assert.Equal(t, "value", errs[0].Field)
}

func TestStockConstrained(t *testing.T) {
	tests := []struct {
		name   string
		stock  Stock
		marker string
		want   bool
	}{
		{"marker match", Stock{Name: "PNC Checking"}, "PNC", true},
		{"marker miss", Stock{Name: "Chase Savings"}, "PNC", false},
		{"empty marker", Stock{Name: "PNC Checking"}, "", false},
		{"explicit constrained", Stock{Name: "Wallet", Class: ClassConstrained}, "PNC", true},
		{"explicit unconstrained wins", Stock{Name: "PNC Credit", Class: ClassUnconstrained}, "PNC", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.stock.Constrained(tt.marker))
		})
	}
}

func TestParseStockClass(t *testing.T) {
	c, err := ParseStockClass(" Constrained ")
	require.NoError(t, err)
	assert.Equal(t, ClassConstrained, c)

	c, err = ParseStockClass("")
	require.NoError(t, err)
	assert.Equal(t, ClassAuto, c)

	_, err = ParseStockClass("liquid")
	assert.Error(t, err)
}
