package viz

import (
	"encoding/json"
	"fmt"

	gfn "github.com/panyam/goutils/fn"
	"github.com/sakib/mankey/core"
	"github.com/sakib/mankey/runtime"
)

// Projector turns a reconciled system into a diagram payload.
type Projector struct {
	palette Palette
	layout  Layout
}

// NewProjector creates a projector with an injected palette and layout.
func NewProjector(palette Palette, layout Layout) *Projector {
	return &Projector{palette: palette, layout: layout}
}

// Project builds the node and link payloads. It is pure: the same input
// always yields the same payload.
func (p *Projector) Project(rec *runtime.Reconciled) (*Diagram, error) {
	stocks := rec.Stocks()
	flows := rec.Flows()

	node := NodePayload{
		Label:     nonNil(gfn.Map(stocks, func(s core.Stock) string { return s.Name })),
		Color:     make([]string, len(stocks)),
		Pad:       p.layout.Pad,
		Align:     p.layout.Align,
		Thickness: p.layout.Thickness,
	}
	for i, s := range stocks {
		c, err := p.palette.Lookup(s.Color)
		if err != nil {
			return nil, fmt.Errorf("stock %q: %w", s.Name, err)
		}
		node.Color[i] = c.CSS()
	}

	index := runtime.NewNameIndex(stocks)
	link := LinkPayload{
		Source:   make([]int, len(flows)),
		Target:   make([]int, len(flows)),
		Value:    nonNil(gfn.Map(flows, func(f runtime.ResolvedFlow) float64 { return f.Magnitude() })),
		Color:    make([]string, len(flows)),
		Label:    nonNil(gfn.Map(flows, func(f runtime.ResolvedFlow) string { return f.Label })),
		ArrowLen: p.layout.ArrowLen,
	}
	for i, f := range flows {
		src, ok := index.Lookup(f.SourceName)
		if !ok {
			return nil, &core.ResolutionError{FlowIndex: i, Field: "src_name", Name: f.SourceName, Matches: index.Matches(f.SourceName)}
		}
		dst, ok := index.Lookup(f.DestName)
		if !ok {
			return nil, &core.ResolutionError{FlowIndex: i, Field: "dst_name", Name: f.DestName, Matches: index.Matches(f.DestName)}
		}
		c, err := p.palette.Lookup(f.Color())
		if err != nil {
			return nil, fmt.Errorf("flow %q: %w", f.Name(), err)
		}
		link.Source[i], link.Target[i], link.Color[i] = src, dst, c.CSS()
	}

	return &Diagram{Node: node, Link: link, Arrangement: p.layout.Arrangement}, nil
}

// nonNil keeps empty payload columns encoding as [] rather than null.
func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

// JSON encodes the renderer payload.
func (d *Diagram) JSON() ([]byte, error) {
	return json.Marshal(d)
}
