package batchgcd

import (
	"github.com/dreamware/rsakeyaudit/internal/bignum"
	"github.com/dreamware/rsakeyaudit/internal/producttree"
)

// GCDPartition runs the GCD reduction directly over one already-built product
// tree: it evaluates the remainder tree (optionally spliced with an
// externally supplied head, as the coordinator does for each worker) and
// returns every non-trivial (index, divisor) pair, indexed within this
// partition. It is the single-partition core that both worker.handle and a
// monolithic (single-worker) run reduce to.
func GCDPartition(moduli []*bignum.Int, levels [][]*bignum.Int, head *bignum.Int) []Match {
	remainders := producttree.EvalRemainders(levels, head)
	local := gcdLeaves(moduli, remainders)

	matches := make([]Match, len(local))
	for i, lm := range local {
		matches[i] = Match{GlobalIndex: lm.localIndex, Divisor: lm.divisor}
	}
	return matches
}
