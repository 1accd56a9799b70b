package runtime

import (
	"encoding/json"
	"math"
	"slices"

	"github.com/sakib/mankey/core"
)

// ResolvedFlow is a flow whose endpoints have been resolved to positions in
// the reconciled stock sequence. Only Reconcile creates them.
type ResolvedFlow struct {
	core.Flow
	source int
	dest   int
	color  string
}

// Source is the position of the origin stock
func (f ResolvedFlow) Source() int { return f.source }

// Dest is the position of the destination stock
func (f ResolvedFlow) Dest() int { return f.dest }

// Color is the palette name inherited from the origin stock
func (f ResolvedFlow) Color() string { return f.color }

// Reconciled is a read-only, successfully reconciled system.
type Reconciled struct {
	stocks []core.Stock
	flows  []ResolvedFlow
	index  NameIndex
	tally  *Tally
	policy BalancePolicy
}

// Stocks returns the stocks in sequence order
func (r *Reconciled) Stocks() []core.Stock { return slices.Clone(r.stocks) }

// Flows returns the resolved flows in sequence order
func (r *Reconciled) Flows() []ResolvedFlow { return slices.Clone(r.flows) }

// Stock returns the stock at position i
func (r *Reconciled) Stock(i int) core.Stock { return r.stocks[i] }

// Lookup returns the position of the stock called name
func (r *Reconciled) Lookup(name string) (int, bool) { return r.index.Lookup(name) }

// Inflow returns the total inflow of the named stock, 0 if unknown
func (r *Reconciled) Inflow(name string) core.Amount {
	pos, _ := r.index.Lookup(name)
	return r.tally.Inflow(pos)
}

// Outflow returns the total outflow of the named stock, 0 if unknown
func (r *Reconciled) Outflow(name string) core.Amount {
	pos, _ := r.index.Lookup(name)
	return r.tally.Outflow(pos)
}

// Policy describes the balance policy the system was reconciled under
func (r *Reconciled) Policy() PolicyInfo { return r.policy.Info() }

// Entries returns one ledger row per stock in sequence order
func (r *Reconciled) Entries() []LedgerEntry {
	entries := make([]LedgerEntry, len(r.stocks))
	for i, s := range r.stocks {
		entries[i] = LedgerEntry{
			Stock:       s.Name,
			Units:       s.Units,
			Value:       s.Value,
			Inflow:      r.tally.Inflow(i),
			Outflow:     r.tally.Outflow(i),
			Constrained: r.policy.Applies(s),
		}
	}
	return entries
}

// LedgerEntry is the one-timestep projection of a single stock.
type LedgerEntry struct {
	Stock       string
	Units       string
	Value       core.Amount
	Inflow      core.Amount
	Outflow     core.Amount
	Constrained bool
}

// Balance is the projected end-of-period balance
func (e LedgerEntry) Balance() core.Amount {
	return e.Value + e.Inflow - e.Outflow
}

// MarshalJSON writes non-finite amounts as strings, which encoding/json
// cannot represent as numbers.
func (e LedgerEntry) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Stock       string `json:"stock"`
		Units       string `json:"units"`
		Value       any    `json:"value"`
		Inflow      any    `json:"inflow"`
		Outflow     any    `json:"outflow"`
		Balance     any    `json:"balance"`
		Constrained bool   `json:"constrained"`
	}{
		Stock:       e.Stock,
		Units:       e.Units,
		Value:       jsonAmount(e.Value),
		Inflow:      jsonAmount(e.Inflow),
		Outflow:     jsonAmount(e.Outflow),
		Balance:     jsonAmount(e.Balance()),
		Constrained: e.Constrained,
	})
}

func jsonAmount(v core.Amount) any {
	switch {
	case math.IsInf(v, 1):
		return "+Inf"
	case math.IsInf(v, -1):
		return "-Inf"
	case math.IsNaN(v):
		return "NaN"
	}
	return v
}
