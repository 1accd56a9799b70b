package runtime

import (
	"math"
	"testing"

	"github.com/sakib/mankey/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBalancePolicyRegistry(t *testing.T) {
	infos := ListBalancePolicies()
	names := make([]string, len(infos))
	for i, info := range infos {
		names[i] = info.Name
	}
	assert.Equal(t, []string{"class", "marker", "strict"}, names)

	p, err := NewBalancePolicy("", "ACME")
	require.NoError(t, err)
	assert.Equal(t, "class", p.Info().Name)
	assert.Equal(t, "ACME", p.Info().Marker)
	assert.True(t, p.Info().Recommended)

	p, err = NewBalancePolicy("Strict", "")
	require.NoError(t, err)
	assert.Equal(t, "strict", p.Info().Name)

	_, err = NewBalancePolicy("lenient", "")
	assert.Error(t, err)

	err = RegisterBalancePolicy("class", func(string) BalancePolicy { return StrictPolicy{} })
	assert.Error(t, err, "duplicate registration must fail")
}

func TestPolicyBalanced(t *testing.T) {
	stock := core.NewStock("PNC", "", 10, false)

	class := ClassPolicy{Marker: "PNC"}
	assert.True(t, class.Applies(stock))
	assert.True(t, class.Balanced(stock, 0, 10), "exactly covered is balanced")
	assert.False(t, class.Balanced(stock, 0, 10.01))

	strict := StrictPolicy{}
	assert.True(t, strict.Applies(core.NewStock("any", "", 0, false)))
	assert.False(t, strict.Balanced(stock, 0, 10), "strict requires a positive remainder")
	assert.True(t, strict.Balanced(stock, 1, 10))

	pool := core.NewStock("PNC Pool", "", 0, true)
	assert.True(t, class.Balanced(pool, 0, math.MaxFloat64))
	assert.True(t, strict.Balanced(pool, 0, math.MaxFloat64))

	marker := MarkerPolicy{}
	assert.False(t, marker.Applies(stock), "empty marker applies to nothing")
}
