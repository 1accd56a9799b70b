// Package viz projects reconciled systems into flow diagram payloads and
// renders them in several formats.
package viz

import (
	"fmt"
	"sort"
)

// Layout holds the static presentation constants of a diagram.
type Layout struct {
	Pad         int    // pixels between nodes
	Align       string // node alignment
	Thickness   int    // node thickness in pixels
	ArrowLen    int    // link arrow length in pixels
	Arrangement string
}

// DefaultLayout returns the layout used unless one is configured.
func DefaultLayout() Layout {
	return Layout{
		Pad:         10,
		Align:       "left",
		Thickness:   20,
		ArrowLen:    0,
		Arrangement: "snap",
	}
}

// NodePayload carries one entry per stock, in system order.
type NodePayload struct {
	Label     []string `json:"label"`
	Color     []string `json:"color,omitempty"`
	Pad       int      `json:"pad"`
	Align     string   `json:"align,omitempty"`
	Thickness int      `json:"thickness,omitempty"`
}

// LinkPayload carries one entry per flow, in system order. Source and
// Target are positions into NodePayload.Label.
type LinkPayload struct {
	Source   []int     `json:"source"`
	Target   []int     `json:"target"`
	Value    []float64 `json:"value"`
	Color    []string  `json:"color,omitempty"`
	Label    []string  `json:"label,omitempty"`
	ArrowLen int       `json:"arrowlen"`
}

// Diagram is the payload handed to a flow diagram renderer.
type Diagram struct {
	Node        NodePayload `json:"node"`
	Link        LinkPayload `json:"link"`
	Arrangement string      `json:"arrangement"`
}

// Generator renders a diagram under a title.
type Generator interface {
	Generate(title string, d *Diagram) (string, error)
}

var generators = map[string]func() Generator{
	"html":       func() Generator { return NewPlotlyGenerator(DefaultPlotConfig()) },
	"json":       func() Generator { return &JSONGenerator{} },
	"dot":        func() Generator { return &DotGenerator{} },
	"mermaid":    func() Generator { return &MermaidSankeyGenerator{} },
	"excalidraw": func() Generator { return &ExcalidrawGenerator{} },
}

// GeneratorFor returns the generator registered for format.
func GeneratorFor(format string) (Generator, error) {
	g, ok := generators[format]
	if !ok {
		return nil, fmt.Errorf("unknown diagram format '%s' (choose one of %v)", format, Formats())
	}
	return g(), nil
}

// Formats lists the supported output formats.
func Formats() []string {
	out := make([]string, 0, len(generators))
	for f := range generators {
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}
