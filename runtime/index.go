package runtime

import "github.com/sakib/mankey/core"

// NameIndex maps stock names to their positions in a stock sequence.
// Sequence order defines position, so the index is deterministic.
type NameIndex struct {
	first  map[string]int
	counts map[string]int
}

// NewNameIndex indexes stocks by name
func NewNameIndex(stocks []core.Stock) NameIndex {
	idx := NameIndex{
		first:  make(map[string]int, len(stocks)),
		counts: make(map[string]int, len(stocks)),
	}
	for i, s := range stocks {
		if _, seen := idx.first[s.Name]; !seen {
			idx.first[s.Name] = i
		}
		idx.counts[s.Name]++
	}
	return idx
}

// Lookup returns the position of the unique stock called name
func (idx NameIndex) Lookup(name string) (int, bool) {
	if idx.counts[name] != 1 {
		return -1, false
	}
	return idx.first[name], true
}

// Matches returns how many stocks are called name
func (idx NameIndex) Matches(name string) int {
	return idx.counts[name]
}
