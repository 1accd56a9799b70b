package loader

import (
	"math"

	"github.com/sakib/mankey/core"
)

// StockRecord is one entry of a stocks file.
type StockRecord struct {
	Name  string   `json:"name" yaml:"name"`
	Units string   `json:"units" yaml:"units"`
	Value *float64 `json:"value,omitempty" yaml:"value,omitempty"`
	Inf   bool     `json:"inf,omitempty" yaml:"inf,omitempty"`
	Color string   `json:"color,omitempty" yaml:"color,omitempty"`
	Class string   `json:"class,omitempty" yaml:"class,omitempty"`
}

// FlowRecord is one entry of a flows file.
type FlowRecord struct {
	SrcName string   `json:"src_name" yaml:"src_name"`
	DstName string   `json:"dst_name" yaml:"dst_name"`
	Val     *float64 `json:"val" yaml:"val"`
	Pct     *float64 `json:"pct,omitempty" yaml:"pct,omitempty"`
	Cadence string   `json:"cadence,omitempty" yaml:"cadence,omitempty"`
	Label   string   `json:"label,omitempty" yaml:"label,omitempty"`
}

// Stock maps the record onto a normalized stock and reports every violation.
func (r StockRecord) Stock() (core.Stock, core.ValidationErrors) {
	var errs core.ValidationErrors
	class, err := core.ParseStockClass(r.Class)
	if err != nil {
		errs = append(errs, &core.ValidationError{Entity: "stock", Index: -1, Name: r.Name, Field: "class", Value: r.Class, Reason: "must be constrained or unconstrained"})
	}
	value := 0.0
	if r.Value != nil {
		value = *r.Value
	}
	s := core.Stock{
		Name:      r.Name,
		Units:     r.Units,
		Value:     value,
		Unbounded: r.Inf,
		Color:     r.Color,
		Class:     class,
	}.Normalize()
	errs = append(errs, s.Validate()...)
	return s, errs
}

// Flow maps the record onto a flow and reports every violation.
func (r FlowRecord) Flow() (core.Flow, core.ValidationErrors) {
	var errs core.ValidationErrors
	name := r.SrcName + " -> " + r.DstName
	add := func(field string, value any, reason string) {
		errs = append(errs, &core.ValidationError{Entity: "flow", Index: -1, Name: name, Field: field, Value: value, Reason: reason})
	}

	rate := 0.0
	if r.Val == nil {
		add("val", nil, "is required")
	} else {
		rate = *r.Val
	}
	pct := 1.0
	if r.Pct != nil {
		pct = *r.Pct
	}
	cadence, err := core.ParseCadence(r.Cadence)
	if err != nil {
		add("cadence", r.Cadence, "must be monthly or bimonthly")
	}

	f := core.Flow{
		SourceName:     r.SrcName,
		DestName:       r.DstName,
		Rate:           rate,
		ActiveFraction: pct,
		Cadence:        cadence,
		Label:          r.Label,
	}
	errs = append(errs, f.Validate()...)
	return f, errs
}

// StockRecordOf is the inverse of StockRecord.Stock, used when writing data sets.
func StockRecordOf(s core.Stock) StockRecord {
	r := StockRecord{Name: s.Name, Units: s.Units, Inf: s.Unbounded, Color: s.Color, Class: string(s.Class)}
	if !math.IsInf(s.Value, 0) {
		v := s.Value
		r.Value = &v
	}
	return r
}

// FlowRecordOf is the inverse of FlowRecord.Flow.
func FlowRecordOf(f core.Flow) FlowRecord {
	rate, pct := f.Rate, f.ActiveFraction
	return FlowRecord{
		SrcName: f.SourceName,
		DstName: f.DestName,
		Val:     &rate,
		Pct:     &pct,
		Cadence: string(f.Cadence),
		Label:   f.Label,
	}
}
