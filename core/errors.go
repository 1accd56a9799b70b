package core

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for broad classification.
var (
	ErrValidation = errors.New("validation failed")
	ErrResolution = errors.New("flow endpoint not resolved")
	ErrBalance    = errors.New("balance violated")
)

// ErrorKind is a coarse-grained categorization for errors.
type ErrorKind string

const (
	KindValidation ErrorKind = "validation"
	KindResolution ErrorKind = "resolution"
	KindBalance    ErrorKind = "balance"
	KindOther      ErrorKind = "other"
)

// Kind classifies err by the sentinel it wraps.
func Kind(err error) ErrorKind {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrValidation):
		return KindValidation
	case errors.Is(err, ErrResolution):
		return KindResolution
	case errors.Is(err, ErrBalance):
		return KindBalance
	default:
		return KindOther
	}
}

// ValidationError reports a single field-level constraint violated by a
// stock or flow.
type ValidationError struct {
	Entity string // "stock" or "flow"
	Index  int    // position in the owning sequence, -1 if unknown
	Name   string // stock name or "src -> dst" for flows
	Field  string
	Value  any
	Reason string
}

func (e *ValidationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	var b strings.Builder
	b.WriteString(e.Entity)
	if e.Index >= 0 {
		fmt.Fprintf(&b, "[%d]", e.Index)
	}
	if e.Name != "" {
		fmt.Fprintf(&b, " %q", e.Name)
	}
	fmt.Fprintf(&b, ": field %s", e.Field)
	if e.Value != nil {
		fmt.Fprintf(&b, " (value=%v)", e.Value)
	}
	fmt.Fprintf(&b, ": %s", e.Reason)
	return b.String()
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// ValidationErrors collects every violation found in a batch.
type ValidationErrors []*ValidationError

func (v ValidationErrors) Error() string {
	switch len(v) {
	case 0:
		return "no validation errors"
	case 1:
		return v[0].Error()
	}
	lines := make([]string, 0, len(v)+1)
	lines = append(lines, fmt.Sprintf("%d validation errors:", len(v)))
	for _, e := range v {
		lines = append(lines, "  "+e.Error())
	}
	return strings.Join(lines, "\n")
}

func (v ValidationErrors) Is(target error) bool { return target == ErrValidation && len(v) > 0 }

// Unwrap exposes the individual violations to errors.As.
func (v ValidationErrors) Unwrap() []error {
	out := make([]error, len(v))
	for i, e := range v {
		out[i] = e
	}
	return out
}

// Err returns nil when nothing was collected.
func (v ValidationErrors) Err() error {
	if len(v) == 0 {
		return nil
	}
	return v
}

// WithIndex stamps every violation with the position of its record.
func (v ValidationErrors) WithIndex(index int) ValidationErrors {
	for _, e := range v {
		e.Index = index
	}
	return v
}

// ResolutionError reports a flow endpoint name that does not match exactly
// one stock.
type ResolutionError struct {
	FlowIndex int
	Field     string // "src_name" or "dst_name"
	Name      string
	Matches   int
}

func (e *ResolutionError) Error() string {
	reason := "no stock with that name"
	if e.Matches > 1 {
		reason = fmt.Sprintf("%d stocks share that name", e.Matches)
	}
	return fmt.Sprintf("flow[%d]: %s %q does not resolve: %s", e.FlowIndex, e.Field, e.Name, reason)
}

func (e *ResolutionError) Is(target error) bool { return target == ErrResolution }

// BalanceError reports a stock whose projected balance cannot cover its
// outflow under the named policy.
type BalanceError struct {
	Stock   string
	Value   float64
	Inflow  float64
	Outflow float64
	Policy  string
}

func (e *BalanceError) Error() string {
	return fmt.Sprintf("stock %q: unbalanced flow under %s policy: value=%g inflow=%g outflow=%g",
		e.Stock, e.Policy, e.Value, e.Inflow, e.Outflow)
}

func (e *BalanceError) Is(target error) bool { return target == ErrBalance }
