package core

import "math"

// Amount is a stock balance or a per-period transfer.
type Amount = float64

// Unbounded is the balance of a stock with no capacity limit.
func Unbounded() Amount {
	return math.Inf(1)
}

// IsUnbounded reports whether v is +Inf.
func IsUnbounded(v Amount) bool {
	return math.IsInf(v, 1)
}
