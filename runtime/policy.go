package runtime

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/sakib/mankey/core"
)

// DefaultCapacityMarker is the name fragment that marks a stock as capacity
// constrained when it has no explicit class.
const DefaultCapacityMarker = "PNC"

// BalancePolicy decides which stocks are balance checked and how.
type BalancePolicy interface {
	// Info returns metadata about this policy
	Info() PolicyInfo

	// Applies reports whether stock is subject to the balance check
	Applies(stock core.Stock) bool

	// Balanced reports whether stock can cover outflow given inflow
	Balanced(stock core.Stock, inflow, outflow core.Amount) bool
}

// PolicyInfo provides metadata about a balance policy
type PolicyInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Marker      string `json:"marker,omitempty"`
	Recommended bool   `json:"recommended"`
}

// PolicyFactory builds a policy for a capacity marker.
type PolicyFactory func(marker string) BalancePolicy

// Global policy registry
var (
	balancePolicies      = make(map[string]PolicyFactory)
	balancePolicyMutex   sync.RWMutex
	DefaultBalancePolicy = "class"
)

// RegisterBalancePolicy registers a new balance policy
func RegisterBalancePolicy(name string, factory PolicyFactory) error {
	balancePolicyMutex.Lock()
	defer balancePolicyMutex.Unlock()

	if _, exists := balancePolicies[name]; exists {
		return fmt.Errorf("balance policy '%s' already registered", name)
	}
	balancePolicies[name] = factory
	return nil
}

// NewBalancePolicy builds a registered policy. An empty name selects the default.
func NewBalancePolicy(name, marker string) (BalancePolicy, error) {
	if name == "" {
		name = DefaultBalancePolicy
	}
	balancePolicyMutex.RLock()
	defer balancePolicyMutex.RUnlock()

	factory, exists := balancePolicies[strings.ToLower(name)]
	if !exists {
		return nil, fmt.Errorf("balance policy '%s' not found", name)
	}
	return factory(marker), nil
}

// ListBalancePolicies returns all registered policies sorted by name
func ListBalancePolicies() []PolicyInfo {
	balancePolicyMutex.RLock()
	defer balancePolicyMutex.RUnlock()

	result := make([]PolicyInfo, 0, len(balancePolicies))
	for _, factory := range balancePolicies {
		result = append(result, factory(DefaultCapacityMarker).Info())
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result
}

// ClassPolicy checks stocks whose effective class is constrained. Stocks
// without an explicit class fall back to the marker convention.
type ClassPolicy struct {
	Marker string
}

func (p ClassPolicy) Info() PolicyInfo {
	return PolicyInfo{
		Name:        "class",
		Description: "Constrained stocks must cover outflow with value plus inflow; unset classes use the name marker",
		Marker:      p.Marker,
		Recommended: true,
	}
}

func (p ClassPolicy) Applies(stock core.Stock) bool {
	return stock.Constrained(p.Marker)
}

func (p ClassPolicy) Balanced(stock core.Stock, inflow, outflow core.Amount) bool {
	return !(stock.Value+inflow < outflow)
}

// MarkerPolicy checks only stocks whose name contains Marker, ignoring any
// explicit class.
type MarkerPolicy struct {
	Marker string
}

func (p MarkerPolicy) Info() PolicyInfo {
	return PolicyInfo{
		Name:        "marker",
		Description: "Stocks whose name contains the marker must cover outflow with value plus inflow",
		Marker:      p.Marker,
	}
}

func (p MarkerPolicy) Applies(stock core.Stock) bool {
	return p.Marker != "" && strings.Contains(stock.Name, p.Marker)
}

func (p MarkerPolicy) Balanced(stock core.Stock, inflow, outflow core.Amount) bool {
	return !(stock.Value+inflow < outflow)
}

// StrictPolicy checks every stock and requires a strictly positive
// projected balance.
type StrictPolicy struct{}

func (StrictPolicy) Info() PolicyInfo {
	return PolicyInfo{
		Name:        "strict",
		Description: "Every stock must end the period with value plus inflow strictly above outflow",
	}
}

func (StrictPolicy) Applies(core.Stock) bool { return true }

func (StrictPolicy) Balanced(stock core.Stock, inflow, outflow core.Amount) bool {
	return stock.Value+inflow > outflow
}

func init() {
	RegisterBalancePolicy("class", func(marker string) BalancePolicy { return ClassPolicy{Marker: marker} })
	RegisterBalancePolicy("marker", func(marker string) BalancePolicy { return MarkerPolicy{Marker: marker} })
	RegisterBalancePolicy("strict", func(string) BalancePolicy { return StrictPolicy{} })
}
