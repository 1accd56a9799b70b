package viz

import (
	"bytes"
	"fmt"
	"strings"
)

// --- Mermaid Sankey Generator ---

type MermaidSankeyGenerator struct{}

func (g *MermaidSankeyGenerator) Generate(title string, d *Diagram) (string, error) {
	var b bytes.Buffer
	if title != "" {
		b.WriteString(fmt.Sprintf("---\ntitle: %s\n---\n", title))
	}
	b.WriteString("sankey-beta\n\n")

	for i := range d.Link.Source {
		src, dst := d.Link.Source[i], d.Link.Target[i]
		if src < 0 || src >= len(d.Node.Label) || dst < 0 || dst >= len(d.Node.Label) {
			return "", fmt.Errorf("link %d references a missing node", i)
		}
		b.WriteString(fmt.Sprintf("%s,%s,%s\n", csvField(d.Node.Label[src]), csvField(d.Node.Label[dst]), amount(d.Link.Value[i])))
	}
	return b.String(), nil
}

func csvField(s string) string {
	if !strings.ContainsAny(s, ",\"\n") {
		return s
	}
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
