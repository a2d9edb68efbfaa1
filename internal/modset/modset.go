// Package modset deduplicates canonical RSA moduli, preserving first-seen
// order. Two implementations satisfy the same Deduplicator interface: a
// Bloom-filter-backed one sized for ~10^7 moduli at a 10^-9 false-positive
// rate, and an exact map-backed one for runs small enough to
// afford it. Both are deterministic in the sense that a given modulus is
// either always reported as new on first sight or never — the Bloom variant
// differs only in that a false positive can cause a genuinely new modulus
// to be silently dropped, a documented sampling property, not a bug.
package modset

import (
	"github.com/bits-and-blooms/bloom/v3"

	"github.com/dreamware/rsakeyaudit/internal/modcache"
)

// Deduplicator reports whether a canonical modulus has been seen before,
// remembering it for future calls either way.
type Deduplicator interface {
	// Seen returns true if m was already added, and adds it if not. The
	// key is the raw canonical modulus bytes; callers must pass the same
	// representation (minimal-length big-endian, no sign pad) every time.
	Seen(m []byte) bool
}

// DefaultN and DefaultFP size the filter to ~431M bits, 30
// hash functions, tuned for n≈10^7 moduli at a false-positive rate of 10^-9.
const (
	DefaultN  = 10_000_000
	DefaultFP = 1e-9
)

// BloomDedup is the default, memory-bounded Deduplicator.
type BloomDedup struct {
	filter *bloom.BloomFilter
}

// NewBloomDedup returns a BloomDedup sized for expectedN moduli at the
// given target false-positive rate. Passing DefaultN/DefaultFP reproduces
// the ~431M-bit / 30-hash configuration.
func NewBloomDedup(expectedN uint, falsePositiveRate float64) *BloomDedup {
	return &BloomDedup{filter: bloom.NewWithEstimates(expectedN, falsePositiveRate)}
}

// Seen reports whether m has (probably) been added before, adding it
// unconditionally. A false positive here — probability bounded by the rate
// the filter was constructed with — causes a new modulus to be dropped
// rather than deduplicated; this is a documented
// sampling property.
func (d *BloomDedup) Seen(m []byte) bool {
	if d.filter.Test(m) {
		return true
	}
	d.filter.Add(m)
	return false
}

// ExactDedup is a deterministic alternative backed by modcache.Set, for runs
// small enough that exact memory usage (versus the Bloom filter's bounded
// but probabilistic footprint) is affordable, an explicit
// escape hatch.
type ExactDedup struct {
	set modcache.Set
}

// NewExactDedup returns an empty ExactDedup, optionally pre-sized via
// sizeHint (0 is a reasonable default; pass an estimated cardinality to
// avoid map growth during a large extract run).
func NewExactDedup(sizeHint int) *ExactDedup {
	return &ExactDedup{set: modcache.NewMemorySet(sizeHint)}
}

// Seen reports whether m has exactly been added before, adding it if not.
func (d *ExactDedup) Seen(m []byte) bool {
	key := string(m)
	if d.set.Contains(key) {
		return true
	}
	d.set.Add(key)
	return false
}
