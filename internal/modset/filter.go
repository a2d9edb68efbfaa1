package modset

// Filter consumes canonical moduli in order and returns the distinct ones,
// first-seen order preserved.
type Filter struct {
	dedup Deduplicator
	out   [][]byte
}

// NewFilter wraps dedup, which decides what "distinct" means (Bloom or
// exact).
func NewFilter(dedup Deduplicator) *Filter {
	return &Filter{dedup: dedup}
}

// Add feeds one canonical modulus through the filter. Returns true if it was
// newly admitted (first sight), false if it was dropped as a (probable)
// duplicate.
func (f *Filter) Add(m []byte) bool {
	if f.dedup.Seen(m) {
		return false
	}
	f.out = append(f.out, m)
	return true
}

// Unique returns the distinct moduli accumulated so far, in first-seen
// order.
func (f *Filter) Unique() [][]byte {
	return f.out
}
