package batchgcd

import (
	"context"
	"fmt"
	"sort"

	"github.com/dreamware/rsakeyaudit/internal/bignum"
	"github.com/dreamware/rsakeyaudit/internal/producttree"
)

// Run executes the full batch-GCD audit over moduli, sharded across
// numWorkers goroutines, per the two-phase product-tree/remainder-tree protocol.
//
// numWorkers must be a power of two, no greater than len(moduli), and must
// divide len(moduli) evenly; len(moduli) itself must be a power of two
// (callers pad with bignum.One() to the next power of two before calling).
// Violating any of these is a shape error, classified as
// fatal at the driver boundary, a programmer error rather than a condition
// to recover from, so Run returns a plain error rather than panicking (the
// CLI boundary is what turns it into a one-line diagnostic and a non-zero
// exit code).
//
// The returned matches are sorted by ascending global index, identical
// bit-for-bit to a monolithic (numWorkers=1) run over the same moduli
// (a splicing-invariance guarantee: sharding never changes the result).
//
// The returned stats slice holds one PartitionStats snapshot per worker, in
// worker order, for callers that want to report per-partition progress.
func Run(ctx context.Context, moduli []*bignum.Int, numWorkers int) ([]Match, []PartitionStats, error) {
	n := len(moduli)
	if err := validateShape(n, numWorkers); err != nil {
		return nil, nil, err
	}

	partitionSize := n / numWorkers
	workers := make([]*worker, numWorkers)
	for i := range workers {
		workers[i] = newWorker(i)
		go workers[i].run()
	}
	defer func() {
		for _, w := range workers {
			close(w.reqCh)
		}
	}()

	roots, err := phaseOne(ctx, workers, moduli, partitionSize)
	if err != nil {
		return nil, nil, err
	}

	headLevels := producttree.BuildLevels(roots)
	headRemainders := producttree.EvalRemainders(headLevels, nil)

	matches, err := phaseTwo(ctx, workers, headRemainders, partitionSize)
	if err != nil {
		return nil, nil, err
	}

	sort.Slice(matches, func(i, j int) bool { return matches[i].GlobalIndex < matches[j].GlobalIndex })

	stats := make([]PartitionStats, len(workers))
	for i, w := range workers {
		stats[i] = w.stats.Snapshot()
	}
	return matches, stats, nil
}

// validateShape enforces the preconditions required of the
// coordinator boundary.
func validateShape(n, k int) error {
	if k <= 0 || (k&(k-1)) != 0 {
		return fmt.Errorf("batchgcd: worker count %d must be a power of two", k)
	}
	if n == 0 || (n&(n-1)) != 0 {
		return fmt.Errorf("batchgcd: modulus count %d must be a power of two", n)
	}
	if k > n {
		return fmt.Errorf("batchgcd: worker count %d exceeds modulus count %d", k, n)
	}
	if n%k != 0 {
		return fmt.Errorf("batchgcd: worker count %d does not evenly divide modulus count %d", k, n)
	}
	return nil
}

// phaseOne dispatches each partition to its worker and collects the k
// product-tree roots, aborting the whole run on the first worker failure.
func phaseOne(ctx context.Context, workers []*worker, moduli []*bignum.Int, partitionSize int) ([]*bignum.Int, error) {
	for i, w := range workers {
		partition := moduli[i*partitionSize : (i+1)*partitionSize]
		w.reqCh <- request{kind: reqProductTree, moduli: partition}
	}

	roots := make([]*bignum.Int, len(workers))
	for i, w := range workers {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case resp := <-w.respCh:
			if resp.kind == respWorkerFailed {
				return nil, fmt.Errorf("batchgcd: worker %d failed building product tree: %w", i, resp.err)
			}
			roots[i] = resp.root
		}
	}
	return roots, nil
}

// phaseTwo hands each worker its head remainder and collects per-partition
// matches, translating local indices to global ones.
func phaseTwo(ctx context.Context, workers []*worker, headRemainders []*bignum.Int, partitionSize int) ([]Match, error) {
	for i, w := range workers {
		w.reqCh <- request{kind: reqRemainderTree, head: headRemainders[i]}
	}

	var matches []Match
	for i, w := range workers {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case resp := <-w.respCh:
			if resp.kind == respWorkerFailed {
				return nil, fmt.Errorf("batchgcd: worker %d failed evaluating remainder tree: %w", i, resp.err)
			}
			offset := i * partitionSize
			for _, lm := range resp.matches {
				matches = append(matches, Match{GlobalIndex: offset + lm.localIndex, Divisor: lm.divisor})
			}
		}
	}
	return matches, nil
}
