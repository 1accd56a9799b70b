package viz

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// --- DOT Generator ---

type DotGenerator struct{}

func (g *DotGenerator) Generate(title string, d *Diagram) (string, error) {
	var b bytes.Buffer
	b.WriteString(fmt.Sprintf("digraph %s {\n", dotQuote(title)))
	b.WriteString("  rankdir=LR;\n")
	b.WriteString(fmt.Sprintf("  label=%s;\n", dotQuote("Flow diagram: "+title)))
	b.WriteString("  node [shape=box, style=\"rounded,filled\"];\n")

	for i, name := range d.Node.Label {
		attrs := fmt.Sprintf("label=%s", dotQuote(name))
		if i < len(d.Node.Color) {
			fill, err := hexOf(d.Node.Color[i])
			if err != nil {
				return "", fmt.Errorf("node %q: %w", name, err)
			}
			attrs += fmt.Sprintf(", fillcolor=%s", dotQuote(fill))
		}
		b.WriteString(fmt.Sprintf("  n%d [%s];\n", i, attrs))
	}

	for i := range d.Link.Source {
		attrs := fmt.Sprintf("label=%s", dotQuote(linkCaption(d, i)))
		if i < len(d.Link.Color) {
			stroke, err := hexOf(d.Link.Color[i])
			if err != nil {
				return "", fmt.Errorf("link %d: %w", i, err)
			}
			attrs += fmt.Sprintf(", color=%s", dotQuote(stroke))
		}
		b.WriteString(fmt.Sprintf("  n%d -> n%d [%s];\n", d.Link.Source[i], d.Link.Target[i], attrs))
	}
	b.WriteString("}\n")
	return b.String(), nil
}

func dotQuote(s string) string {
	return `"` + strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`).Replace(s) + `"`
}

func hexOf(css string) (string, error) {
	c, err := ParseRGBA(css)
	if err != nil {
		return "", err
	}
	return c.Hex(), nil
}

// amount formats a link value with two fixed decimals.
func amount(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2)
}

// linkCaption is the link's label followed by its amount, or just the amount.
func linkCaption(d *Diagram, i int) string {
	caption := amount(d.Link.Value[i])
	if i < len(d.Link.Label) && d.Link.Label[i] != "" {
		caption = d.Link.Label[i] + ": " + caption
	}
	return caption
}
