package core

import (
	"fmt"
	"math"
	"strings"
)

// Cadence is the nominal period a flow's rate applies to. It is carried for
// display only; reconciliation covers a single timestep.
type Cadence string

const (
	Monthly   Cadence = "monthly"
	Bimonthly Cadence = "bimonthly"
)

// ParseCadence accepts the record spelling of a cadence; empty means monthly.
func ParseCadence(s string) (Cadence, error) {
	switch c := Cadence(strings.ToLower(strings.TrimSpace(s))); c {
	case "":
		return Monthly, nil
	case Monthly, Bimonthly:
		return c, nil
	default:
		return Monthly, fmt.Errorf("unknown cadence: %s", s)
	}
}

// Flow is a directed transfer between two stocks, referenced by name.
// Endpoints are resolved by runtime.System, never by the flow itself.
type Flow struct {
	SourceName     string
	DestName       string
	Rate           Amount
	ActiveFraction float64
	Cadence        Cadence
	Label          string
}

// NewFlow builds a monthly flow and checks its invariants.
func NewFlow(src, dst string, rate Amount, fraction float64) (Flow, error) {
	f := Flow{
		SourceName:     src,
		DestName:       dst,
		Rate:           rate,
		ActiveFraction: fraction,
		Cadence:        Monthly,
	}
	if errs := f.Validate(); len(errs) > 0 {
		return Flow{}, errs
	}
	return f, nil
}

// WithLabel returns a copy of f carrying a display label.
func (f Flow) WithLabel(label string) Flow {
	f.Label = label
	return f
}

// Magnitude is the amount actually moved in one period.
func (f Flow) Magnitude() Amount {
	return f.Rate * f.ActiveFraction
}

// Name is "src -> dst", used in diagnostics.
func (f Flow) Name() string {
	return f.SourceName + " -> " + f.DestName
}

// Validate returns every field violation of f, or nil.
func (f Flow) Validate() ValidationErrors {
	var errs ValidationErrors
	add := func(field string, value any, reason string) {
		errs = append(errs, &ValidationError{Entity: "flow", Index: -1, Name: f.Name(), Field: field, Value: value, Reason: reason})
	}
	if strings.TrimSpace(f.SourceName) == "" {
		add("src_name", nil, "is required")
	}
	if strings.TrimSpace(f.DestName) == "" {
		add("dst_name", nil, "is required")
	}
	switch {
	case math.IsNaN(f.Rate) || math.IsInf(f.Rate, 0):
		add("val", f.Rate, "must be a finite number")
	case f.Rate < 0:
		add("val", f.Rate, "must not be negative")
	}
	if math.IsNaN(f.ActiveFraction) || f.ActiveFraction < 0 || f.ActiveFraction > 1 {
		add("pct", f.ActiveFraction, "must be within [0.0, 1.0]")
	}
	if f.Cadence != "" {
		if _, err := ParseCadence(string(f.Cadence)); err != nil {
			add("cadence", string(f.Cadence), "must be monthly or bimonthly")
		}
	}
	return errs
}
