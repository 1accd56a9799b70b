package core

import (
	"fmt"
	"math"
	"strings"
)

// DefaultColor is the palette name given to stocks that do not pick one.
const DefaultColor = "SlateGray"

// StockClass says whether a stock's balance is capacity constrained.
type StockClass string

const (
	// ClassAuto defers to the capacity-marker naming convention.
	ClassAuto          StockClass = ""
	ClassConstrained   StockClass = "constrained"
	ClassUnconstrained StockClass = "unconstrained"
)

// ParseStockClass accepts the record spelling of a class, case-insensitively.
func ParseStockClass(s string) (StockClass, error) {
	switch c := StockClass(strings.ToLower(strings.TrimSpace(s))); c {
	case ClassAuto, ClassConstrained, ClassUnconstrained:
		return c, nil
	default:
		return ClassAuto, fmt.Errorf("unknown stock class: %s", s)
	}
}

// Stock is an account holding a balance.
type Stock struct {
	Name      string
	Units     string
	Value     Amount
	Unbounded bool
	Color     string
	Class     StockClass
}

// NewStock builds a normalized stock with the default color.
func NewStock(name, units string, value Amount, unbounded bool) Stock {
	return Stock{
		Name:      name,
		Units:     units,
		Value:     value,
		Unbounded: unbounded,
	}.Normalize()
}

// Normalize forces unbounded stocks to +Inf and fills in the default color.
func (s Stock) Normalize() Stock {
	if s.Unbounded {
		s.Value = Unbounded()
	}
	if s.Color == "" {
		s.Color = DefaultColor
	}
	return s
}

// WithColor returns a copy of s using the named palette color.
func (s Stock) WithColor(color string) Stock {
	s.Color = color
	return s
}

// WithClass returns a copy of s with an explicit class.
func (s Stock) WithClass(class StockClass) Stock {
	s.Class = class
	return s
}

// Constrained reports the effective class of s. Stocks without an explicit
// class are constrained when their name contains marker.
func (s Stock) Constrained(marker string) bool {
	switch s.Class {
	case ClassConstrained:
		return true
	case ClassUnconstrained:
		return false
	}
	return marker != "" && strings.Contains(s.Name, marker)
}

// Validate returns every field violation of s, or nil.
func (s Stock) Validate() ValidationErrors {
	var errs ValidationErrors
	add := func(field string, value any, reason string) {
		errs = append(errs, &ValidationError{Entity: "stock", Index: -1, Name: s.Name, Field: field, Value: value, Reason: reason})
	}
	if strings.TrimSpace(s.Name) == "" {
		add("name", nil, "is required")
	}
	if math.IsNaN(s.Value) {
		add("value", s.Value, "must be a number")
	}
	if s.Unbounded && !IsUnbounded(s.Value) {
		add("value", s.Value, "unbounded stock must be normalized to +Inf")
	}
	if _, err := ParseStockClass(string(s.Class)); err != nil {
		add("class", string(s.Class), "must be constrained or unconstrained")
	}
	return errs
}
