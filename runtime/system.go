package runtime

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/sakib/mankey/core"
)

// System is the raw, unreconciled set of stocks and flows. It is only
// usable for projection after a successful Reconcile.
type System struct {
	stocks []core.Stock
	flows  []core.Flow
	policy BalancePolicy
	logger *slog.Logger
}

// Option configures a System
type Option func(*System)

// WithPolicy sets the balance policy applied during reconciliation
func WithPolicy(policy BalancePolicy) Option {
	return func(s *System) {
		if policy != nil {
			s.policy = policy
		}
	}
}

// WithLogger sets the logger used for reconciliation diagnostics
func WithLogger(logger *slog.Logger) Option {
	return func(s *System) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewSystem builds a raw system. The slices are copied; the caller's values
// are never mutated.
func NewSystem(stocks []core.Stock, flows []core.Flow, opts ...Option) *System {
	s := &System{
		stocks: slices.Clone(stocks),
		flows:  slices.Clone(flows),
		policy: ClassPolicy{Marker: DefaultCapacityMarker},
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Stocks returns the stocks in sequence order
func (s *System) Stocks() []core.Stock { return slices.Clone(s.stocks) }

// Flows returns the unresolved flows in sequence order
func (s *System) Flows() []core.Flow { return slices.Clone(s.flows) }

// Validate checks every stock and flow and rejects duplicate stock names.
// All violations are returned together as core.ValidationErrors.
func (s *System) Validate() error {
	errs := s.fieldErrors()
	errs = append(errs, s.duplicateNames(nil)...)
	return errs.Err()
}

func (s *System) fieldErrors() core.ValidationErrors {
	var errs core.ValidationErrors
	for i, stock := range s.stocks {
		errs = append(errs, stock.Validate().WithIndex(i)...)
	}
	for i, flow := range s.flows {
		errs = append(errs, flow.Validate().WithIndex(i)...)
	}
	return errs
}

// duplicateNames reports stocks repeating an earlier name. Names in skip are
// left to resolution, which reports them as ambiguous.
func (s *System) duplicateNames(skip map[string]bool) core.ValidationErrors {
	var errs core.ValidationErrors
	seen := make(map[string]int, len(s.stocks))
	for i, stock := range s.stocks {
		first, dup := seen[stock.Name]
		if !dup {
			seen[stock.Name] = i
			continue
		}
		if skip[stock.Name] {
			continue
		}
		errs = append(errs, &core.ValidationError{
			Entity: "stock", Index: i, Name: stock.Name, Field: "name", Value: stock.Name,
			Reason: fmt.Sprintf("duplicates stock[%d]", first),
		})
	}
	return errs
}

// endpoints returns every stock name referenced by a flow.
func (s *System) endpoints() map[string]bool {
	names := make(map[string]bool, 2*len(s.flows))
	for _, f := range s.flows {
		names[f.SourceName] = true
		names[f.DestName] = true
	}
	return names
}

// Reconcile resolves every flow endpoint, aggregates per-stock inflow and
// outflow for one timestep and enforces the balance policy. It is
// all-or-nothing: on error no Reconciled is returned.
func (s *System) Reconcile() (*Reconciled, error) {
	errs := s.fieldErrors()
	errs = append(errs, s.duplicateNames(s.endpoints())...)
	if err := errs.Err(); err != nil {
		return nil, err
	}

	// Pass 1 - Resolve each flow's endpoints once against the name index.
	// A duplicated name a flow refers to fails here as ambiguous.
	index := NewNameIndex(s.stocks)
	flows := make([]ResolvedFlow, len(s.flows))
	var resolveErrs []error
	for i, flow := range s.flows {
		src, srcErr := resolve(index, i, "src_name", flow.SourceName)
		dst, dstErr := resolve(index, i, "dst_name", flow.DestName)
		if srcErr != nil || dstErr != nil {
			resolveErrs = append(resolveErrs, srcErr, dstErr)
			continue
		}
		flows[i] = ResolvedFlow{Flow: flow, source: src, dest: dst}
	}
	if err := errors.Join(resolveErrs...); err != nil {
		s.logger.Debug("reconcile.resolution_failed", "error", err)
		return nil, err
	}
	s.logger.Debug("reconcile.resolved", "stocks", len(s.stocks), "flows", len(flows))

	// Pass 2 - Aggregate transfers and color each flow by its origin stock
	tally := NewTally(len(s.stocks))
	for i := range flows {
		f := &flows[i]
		tally.AddFlow(f.source, f.dest, f.Magnitude())
		f.color = s.stocks[f.source].Color
	}

	// Pass 3 - Check balances in stock order; the first violation aborts
	info := s.policy.Info()
	for i, stock := range s.stocks {
		inflow, outflow := tally.Inflow(i), tally.Outflow(i)
		if !s.policy.Applies(stock) || s.policy.Balanced(stock, inflow, outflow) {
			continue
		}
		err := &core.BalanceError{
			Stock:   stock.Name,
			Value:   stock.Value,
			Inflow:  inflow,
			Outflow: outflow,
			Policy:  info.Name,
		}
		s.logger.Debug("reconcile.unbalanced", "stock", stock.Name, "inflow", inflow, "outflow", outflow, "policy", info.Name)
		return nil, err
	}

	s.logger.Debug("reconcile.done", "policy", info.Name, "moved", tally.TotalMoved())
	return &Reconciled{
		stocks: slices.Clone(s.stocks),
		flows:  flows,
		index:  index,
		tally:  tally,
		policy: s.policy,
	}, nil
}

func resolve(index NameIndex, flowIndex int, field, name string) (int, error) {
	if pos, ok := index.Lookup(name); ok {
		return pos, nil
	}
	return -1, &core.ResolutionError{
		FlowIndex: flowIndex,
		Field:     field,
		Name:      name,
		Matches:   index.Matches(name),
	}
}
