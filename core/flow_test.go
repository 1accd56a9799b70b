package core

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFlowFractionBounds(t *testing.T) {
	for _, pct := range []float64{0.0, 0.25, 1.0} {
		f, err := NewFlow("A", "B", 50, pct)
		require.NoError(t, err, "fraction %v should be accepted", pct)
		assert.Equal(t, pct, f.ActiveFraction)
		assert.Equal(t, Monthly, f.Cadence)
	}

	for _, pct := range []float64{-0.01, 1.0001, 2, math.NaN()} {
		_, err := NewFlow("A", "B", 50, pct)
		require.Error(t, err, "fraction %v should be rejected", pct)
		assert.ErrorIs(t, err, ErrValidation)

		var ve *ValidationError
		require.True(t, errors.As(err, &ve))
		assert.Equal(t, "pct", ve.Field)
	}
}

func TestFlowValidateCollectsAll(t *testing.T) {
	f := Flow{Rate: math.Inf(1), ActiveFraction: 3, Cadence: "weekly"}
	errs := f.Validate()
	fields := make([]string, 0, len(errs))
	for _, e := range errs {
		fields = append(fields, e.Field)
	}
	assert.Equal(t, []string{"src_name", "dst_name", "val", "pct", "cadence"}, fields)

	errs = Flow{SourceName: "A", DestName: "B", Rate: -1, ActiveFraction: 1}.Validate()
	require.Len(t, errs, 1)
	assert.Equal(t, "must not be negative", errs[0].Reason)
}

func TestFlowMagnitude(t *testing.T) {
	f, err := NewFlow("Paycheck", "Checking", 4000, 0.5)
	require.NoError(t, err)
	assert.Equal(t, 2000.0, f.Magnitude())
	assert.Equal(t, "Paycheck -> Checking", f.Name())
	assert.Equal(t, "rent", f.WithLabel("rent").Label)
}

func TestParseCadence(t *testing.T) {
	c, err := ParseCadence("")
	require.NoError(t, err)
	assert.Equal(t, Monthly, c)

	c, err = ParseCadence("BIMONTHLY")
	require.NoError(t, err)
	assert.Equal(t, Bimonthly, c)

	_, err = ParseCadence("yearly")
	assert.Error(t, err)
}
