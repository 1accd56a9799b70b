package runtime

import "github.com/sakib/mankey/core"

// Tally tracks inflow and outflow per stock position
type Tally struct {
	in  []core.Amount
	out []core.Amount
}

// NewTally creates a zeroed Tally for n stocks
func NewTally(n int) *Tally {
	return &Tally{
		in:  make([]core.Amount, n),
		out: make([]core.Amount, n),
	}
}

func (t *Tally) valid(i int) bool {
	return i >= 0 && i < len(t.in)
}

// AddFlow moves amount out of src and into dst
func (t *Tally) AddFlow(src, dst int, amount core.Amount) {
	if !t.valid(src) || !t.valid(dst) {
		return
	}
	t.out[src] += amount
	t.in[dst] += amount
}

// Inflow returns the accumulated inflow of the stock at position i
func (t *Tally) Inflow(i int) core.Amount {
	if !t.valid(i) {
		return 0.0
	}
	return t.in[i]
}

// Outflow returns the accumulated outflow of the stock at position i
func (t *Tally) Outflow(i int) core.Amount {
	if !t.valid(i) {
		return 0.0
	}
	return t.out[i]
}

// TotalMoved returns the sum of all outflows, which equals the sum of all inflows
func (t *Tally) TotalMoved() core.Amount {
	total := 0.0
	for _, v := range t.out {
		total += v
	}
	return total
}
