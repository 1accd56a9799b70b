package viz

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/sakib/mankey/core"
)

// ErrUnknownColor is returned when a color name is missing from the palette.
var ErrUnknownColor = errors.New("unknown color")

// RGBA is a translucent display color.
type RGBA struct {
	R, G, B uint8
	A       float64
}

// CSS formats the color the way plotly expects it, e.g. "rgba(255, 0, 255, 0.4)".
func (c RGBA) CSS() string {
	return fmt.Sprintf("rgba(%d, %d, %d, %s)", c.R, c.G, c.B, strconv.FormatFloat(c.A, 'f', -1, 64))
}

// Hex formats the color as #rrggbbaa for Graphviz and Excalidraw.
func (c RGBA) Hex() string {
	alpha := uint8(math.Round(math.Max(0, math.Min(1, c.A)) * 255))
	return fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, alpha)
}

// ParseRGBA reads a color written by CSS.
func ParseRGBA(s string) (RGBA, error) {
	inner, ok := strings.CutPrefix(strings.TrimSpace(s), "rgba(")
	if ok {
		inner, ok = strings.CutSuffix(inner, ")")
	}
	parts := strings.Split(inner, ",")
	if !ok || len(parts) != 4 {
		return RGBA{}, fmt.Errorf("invalid rgba color %q", s)
	}
	var c RGBA
	for i, dst := range []*uint8{&c.R, &c.G, &c.B} {
		v, err := strconv.ParseUint(strings.TrimSpace(parts[i]), 10, 8)
		if err != nil {
			return RGBA{}, fmt.Errorf("invalid rgba color %q: %w", s, err)
		}
		*dst = uint8(v)
	}
	a, err := strconv.ParseFloat(strings.TrimSpace(parts[3]), 64)
	if err != nil || a < 0 || a > 1 {
		return RGBA{}, fmt.Errorf("invalid rgba alpha in %q", s)
	}
	c.A = a
	return c, nil
}

// Palette maps color names used in stock records to display colors.
type Palette map[string]RGBA

// DefaultPalette returns the standard named colors, all at 0.4 opacity.
func DefaultPalette() Palette {
	const a = 0.4
	return Palette{
		"Magenta":        {255, 0, 255, a},
		"Cyan":           {0, 255, 255, a},
		"LimeGreen":      {0, 255, 0, a},
		"Orange":         {255, 165, 0, a},
		"RoyalBlue":      {65, 105, 225, a},
		"Crimson":        {220, 20, 60, a},
		"Gold":           {255, 215, 0, a},
		"Violet":         {148, 0, 211, a},
		"Teal":           {0, 128, 128, a},
		"SlateGray":      {112, 128, 144, a},
		"DeepPink":       {255, 20, 147, a},
		"Turquoise":      {64, 224, 208, a},
		"Chartreuse":     {127, 255, 0, a},
		"Tomato":         {255, 99, 71, a},
		"SteelBlue":      {70, 130, 180, a},
		"Indigo":         {75, 0, 130, a},
		"HotPink":        {255, 105, 180, a},
		"DodgerBlue":     {30, 144, 255, a},
		"FireBrick":      {178, 34, 34, a},
		"MediumSeaGreen": {60, 179, 113, a},
		"DarkOrange":     {255, 140, 0, a},
		"Orchid":         {218, 112, 214, a},
		"SpringGreen":    {0, 255, 127, a},
		"DeepSkyBlue":    {0, 191, 255, a},
		"YellowGreen":    {154, 205, 50, a},
		"Maroon":         {128, 0, 0, a},
		"DarkCyan":       {0, 139, 139, a},
		"Sienna":         {160, 82, 45, a},
		"LightCoral":     {240, 128, 128, a},
		"MediumPurple":   {147, 112, 219, a},
		"PaleVioletRed":  {219, 112, 147, a},
		"DarkSlateBlue":  {72, 61, 139, a},
	}
}

// Lookup returns the color called name.
func (p Palette) Lookup(name string) (RGBA, error) {
	c, ok := p[name]
	if !ok {
		return RGBA{}, fmt.Errorf("%w: %q", ErrUnknownColor, name)
	}
	return c, nil
}

// Check reports every stock whose color is not in the palette.
func (p Palette) Check(stocks []core.Stock) error {
	var errs core.ValidationErrors
	for i, s := range stocks {
		if _, ok := p[s.Color]; !ok {
			errs = append(errs, &core.ValidationError{
				Entity: "stock", Index: i, Name: s.Name, Field: "color", Value: s.Color,
				Reason: "is not a known palette color",
			})
		}
	}
	return errs.Err()
}
