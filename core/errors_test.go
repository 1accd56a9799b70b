package core

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidationErrorMessage(t *testing.T) {
	e := &ValidationError{Entity: "flow", Index: 2, Name: "A -> B", Field: "pct", Value: 1.5, Reason: "must be within [0.0, 1.0]"}
	assert.Equal(t, `flow[2] "A -> B": field pct (value=1.5): must be within [0.0, 1.0]`, e.Error())

	e = &ValidationError{Entity: "stock", Index: -1, Field: "name", Reason: "is required"}
	assert.Equal(t, "stock: field name: is required", e.Error())
}

func TestValidationErrors(t *testing.T) {
	var none ValidationErrors
	assert.NoError(t, none.Err())

	errs := ValidationErrors{
		{Entity: "stock", Index: -1, Field: "name", Reason: "is required"},
		{Entity: "stock", Index: -1, Field: "value", Value: "x", Reason: "must be a number"},
	}.WithIndex(4)
	require.Error(t, errs.Err())
	assert.Contains(t, errs.Error(), "2 validation errors:")
	assert.Contains(t, errs.Error(), "stock[4]: field value (value=x)")

	wrapped := fmt.Errorf("loading stocks: %w", errs)
	assert.ErrorIs(t, wrapped, ErrValidation)
	var ve *ValidationError
	require.True(t, errors.As(wrapped, &ve))
	assert.Equal(t, "name", ve.Field)
}

func TestKind(t *testing.T) {
	assert.Equal(t, ErrorKind(""), Kind(nil))
	assert.Equal(t, KindValidation, Kind(ValidationErrors{{Field: "val"}}))
	assert.Equal(t, KindResolution, Kind(fmt.Errorf("x: %w", &ResolutionError{Name: "Nope"})))
	assert.Equal(t, KindBalance, Kind(errors.Join(&BalanceError{Stock: "PNC"})))
	assert.Equal(t, KindOther, Kind(errors.New("boom")))
}

func TestResolutionAndBalanceMessages(t *testing.T) {
	r := &ResolutionError{FlowIndex: 1, Field: "dst_name", Name: "Nowhere"}
	assert.Equal(t, `flow[1]: dst_name "Nowhere" does not resolve: no stock with that name`, r.Error())
	r.Matches = 2
	assert.Contains(t, r.Error(), "2 stocks share that name")

	b := &BalanceError{Stock: "PNC Checking", Value: 10, Inflow: 0, Outflow: 20, Policy: "class"}
	assert.Equal(t, `stock "PNC Checking": unbalanced flow under class policy: value=10 inflow=0 outflow=20`, b.Error())
}
