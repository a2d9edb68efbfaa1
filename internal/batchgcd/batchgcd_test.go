package batchgcd

import (
	"context"
	"math/big"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dreamware/rsakeyaudit/internal/bignum"
	"github.com/dreamware/rsakeyaudit/internal/producttree"
)

func ints(vals ...int64) []*bignum.Int {
	out := make([]*bignum.Int, len(vals))
	for i, v := range vals {
		out[i] = big.NewInt(v)
	}
	return out
}

func runWithTimeout(t *testing.T, moduli []*bignum.Int, k int) []Match {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	matches, _, err := Run(ctx, moduli, k)
	require.NoError(t, err)
	return matches
}

func divisors(matches []Match) map[int]int64 {
	out := make(map[int]int64, len(matches))
	for _, m := range matches {
		out[m.GlobalIndex] = m.Divisor.Int64()
	}
	return out
}

func TestRunNoSharedFactors(t *testing.T) {
	matches := runWithTimeout(t, ints(15, 77, 221, 1), 1)
	assert.Empty(t, matches)
}

func TestRunSharedFactor(t *testing.T) {
	matches := runWithTimeout(t, ints(15, 21, 77, 1), 1)
	got := divisors(matches)
	assert.Equal(t, map[int]int64{0: 3, 1: 21, 2: 7}, got)
}

func TestRunShardedMatchesMonolithic(t *testing.T) {
	moduli := ints(15, 21, 77, 143)
	monolithic := runWithTimeout(t, moduli, 1)
	sharded := runWithTimeout(t, moduli, 2)

	assert.Equal(t, divisors(monolithic), divisors(sharded))
	assert.Equal(t, map[int]int64{0: 3, 1: 21, 2: 77, 3: 11}, divisors(sharded))
}

func TestValidateShapeRejectsNonPowerOfTwoWorkers(t *testing.T) {
	_, _, err := Run(context.Background(), ints(15, 21, 77, 1), 3)
	assert.Error(t, err)
}

func TestValidateShapeRejectsNonDividingWorkerCount(t *testing.T) {
	_, _, err := Run(context.Background(), ints(15, 21, 77, 1, 1, 1, 1, 1), 4)
	// 8 moduli, 4 workers: divides evenly, should succeed.
	assert.NoError(t, err)

	_, _, err = Run(context.Background(), ints(15, 21), 4)
	// 2 moduli, 4 workers: exceeds modulus count.
	assert.Error(t, err)
}

func TestValidateShapeRejectsNonPowerOfTwoModuli(t *testing.T) {
	_, _, err := Run(context.Background(), ints(15, 21, 77), 1)
	assert.Error(t, err)
}

func TestPaddingNeverMatches(t *testing.T) {
	// Padding entries never appear in output.
	matches := runWithTimeout(t, ints(15, 21, 77, 1), 1)
	for _, m := range matches {
		assert.NotEqual(t, 3, m.GlobalIndex)
	}
}

func TestGCDPartitionDirect(t *testing.T) {
	moduli := ints(15, 21, 77, 1)
	levels := producttree.BuildLevels(moduli)
	matches := GCDPartition(moduli, levels, nil)
	assert.Equal(t, map[int]int64{0: 3, 1: 21, 2: 7}, divisors(matches))
}

func TestWorkerTracksPartitionStats(t *testing.T) {
	w := newWorker(0)
	resp := w.handle(request{kind: reqProductTree, moduli: ints(15, 21, 77, 1)})
	require.Equal(t, respProductTreeDone, resp.kind)

	resp = w.handle(request{kind: reqRemainderTree, head: nil})
	require.Equal(t, respRemainderTreeDone, resp.kind)

	snap := w.stats.Snapshot()
	assert.Equal(t, uint64(1), snap.ProductTreesBuilt)
	assert.Equal(t, uint64(1), snap.RemainderTreesEvald)
	assert.Equal(t, uint64(3), snap.MatchesEmitted)
}

func TestRunReturnsPerPartitionStats(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	moduli := ints(15, 21, 77, 143)
	matches, stats, err := Run(ctx, moduli, 2)
	require.NoError(t, err)
	require.Len(t, stats, 2)

	var totalMatches uint64
	for _, s := range stats {
		assert.Equal(t, uint64(1), s.ProductTreesBuilt)
		assert.Equal(t, uint64(1), s.RemainderTreesEvald)
		totalMatches += s.MatchesEmitted
	}
	assert.Equal(t, uint64(len(matches)), totalMatches)
}
