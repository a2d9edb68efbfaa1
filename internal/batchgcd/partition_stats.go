package batchgcd

import "sync/atomic"

// PartitionStats tracks per-worker operation counts for one audit run: how
// many product trees and remainder trees this partition's worker built, and
// how many matches it emitted. Counters are updated atomically since a
// worker's own goroutine is the only writer but the coordinator reads them
// once the worker finishes, for per-partition reporting.
type PartitionStats struct {
	ProductTreesBuilt   uint64
	RemainderTreesEvald uint64
	MatchesEmitted      uint64
}

// recordProductTree marks completion of phase 1 for this partition.
func (s *PartitionStats) recordProductTree() {
	atomic.AddUint64(&s.ProductTreesBuilt, 1)
}

// recordRemainderTree marks completion of phase 2, noting how many matches
// this partition produced.
func (s *PartitionStats) recordRemainderTree(matches int) {
	atomic.AddUint64(&s.RemainderTreesEvald, 1)
	atomic.AddUint64(&s.MatchesEmitted, uint64(matches))
}

// Snapshot returns a point-in-time copy safe to read without racing further
// updates (the fields themselves are read with atomic.LoadUint64 to avoid
// torn reads on 32-bit platforms).
func (s *PartitionStats) Snapshot() PartitionStats {
	return PartitionStats{
		ProductTreesBuilt:   atomic.LoadUint64(&s.ProductTreesBuilt),
		RemainderTreesEvald: atomic.LoadUint64(&s.RemainderTreesEvald),
		MatchesEmitted:      atomic.LoadUint64(&s.MatchesEmitted),
	}
}
