package viz

import (
	"errors"
	"testing"

	"github.com/sakib/mankey/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRGBAFormats(t *testing.T) {
	c := RGBA{255, 0, 255, 0.4}
	assert.Equal(t, "rgba(255, 0, 255, 0.4)", c.CSS())
	assert.Equal(t, "#ff00ff66", c.Hex())
	assert.Equal(t, "#000000ff", RGBA{0, 0, 0, 1}.Hex())
}

func TestParseRGBA(t *testing.T) {
	c, err := ParseRGBA(" rgba(65, 105, 225, 0.4) ")
	require.NoError(t, err)
	assert.Equal(t, RGBA{65, 105, 225, 0.4}, c)

	for _, bad := range []string{"", "rgb(1, 2, 3)", "rgba(1, 2, 3)", "rgba(256, 0, 0, 1)", "rgba(1, 2, 3, 1.5)", "rgba(a, 2, 3, 1)"} {
		_, err := ParseRGBA(bad)
		assert.Error(t, err, bad)
	}
}

func TestParseRGBARoundTripsPalette(t *testing.T) {
	for name, c := range DefaultPalette() {
		parsed, err := ParseRGBA(c.CSS())
		require.NoError(t, err, name)
		assert.Equal(t, c, parsed, name)
	}
}

func TestPaletteLookup(t *testing.T) {
	p := DefaultPalette()
	c, err := p.Lookup("RoyalBlue")
	require.NoError(t, err)
	assert.Equal(t, RGBA{65, 105, 225, 0.4}, c)

	_, err = p.Lookup("royalblue")
	assert.True(t, errors.Is(err, ErrUnknownColor))

	_, err = p.Lookup(core.DefaultColor)
	assert.NoError(t, err, "default stock color must be in the palette")
}

func TestPaletteCheck(t *testing.T) {
	p := DefaultPalette()
	stocks := []core.Stock{
		core.NewStock("A", "USD", 1, false).WithColor("Gold"),
		core.NewStock("B", "USD", 1, false).WithColor("Plaid"),
		core.NewStock("C", "USD", 1, false).WithColor("Paisley"),
	}
	err := p.Check(stocks)
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrValidation))

	var verrs core.ValidationErrors
	require.True(t, errors.As(err, &verrs))
	require.Len(t, verrs, 2)
	assert.Equal(t, 1, verrs[0].Index)
	assert.Equal(t, "color", verrs[0].Field)
	assert.Equal(t, "C", verrs[1].Name)

	assert.NoError(t, p.Check(stocks[:1]))
}
