package producttree

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dreamware/rsakeyaudit/internal/bignum"
)

func ints(vals ...int64) []*bignum.Int {
	out := make([]*bignum.Int, len(vals))
	for i, v := range vals {
		out[i] = big.NewInt(v)
	}
	return out
}

func TestBuildLevelsSingleton(t *testing.T) {
	levels := BuildLevels(ints(42))
	require.Len(t, levels, 1)
	assert.Equal(t, int64(42), Root(levels).Int64())
}

func TestBuildLevelsRoot(t *testing.T) {
	levels := BuildLevels(ints(15, 21, 77, 1))
	require.Len(t, levels, 3) // depth 2: root, mid, leaves
	assert.Equal(t, int64(15*21*77*1), Root(levels).Int64())
	assert.Equal(t, int64(15*21), levels[1][0].Int64())
	assert.Equal(t, int64(77*1), levels[1][1].Int64())
}

func TestBuildLevelsPanicsOnNonPowerOfTwo(t *testing.T) {
	assert.Panics(t, func() {
		BuildLevels(ints(1, 2, 3))
	})
}

func TestEvalRemaindersFindsSharedFactor(t *testing.T) {
	// moduli [15, 21, 77, 1]; 21 shares 3 with 15 and 7 with 77.
	moduli := ints(15, 21, 77, 1)
	levels := BuildLevels(moduli)
	remainders := EvalRemainders(levels, nil)
	require.Len(t, remainders, 4)

	for i, m := range moduli {
		q := bignum.Div(remainders[i], m)
		g := bignum.GCD(q, m)
		switch i {
		case 0:
			assert.Equal(t, int64(3), g.Int64())
		case 1:
			assert.Equal(t, int64(21), g.Int64())
		case 2:
			assert.Equal(t, int64(7), g.Int64())
		case 3:
			assert.Equal(t, int64(1), g.Int64())
		}
	}
}

func TestEvalRemaindersNoSharedFactors(t *testing.T) {
	moduli := ints(15, 77, 221, 1)
	levels := BuildLevels(moduli)
	remainders := EvalRemainders(levels, nil)
	for i, m := range moduli {
		q := bignum.Div(remainders[i], m)
		g := bignum.GCD(q, m)
		assert.Equal(t, int64(1), g.Int64(), "index %d should be coprime", i)
	}
}

func TestEvalRemaindersWithSplicedHead(t *testing.T) {
	// A spliced head equal to the true root must reproduce the monolithic result.
	moduli := ints(15, 21, 77, 1)
	levels := BuildLevels(moduli)
	monolithic := EvalRemainders(levels, nil)
	spliced := EvalRemainders(levels, Root(levels))
	for i := range moduli {
		assert.Equal(t, 0, monolithic[i].Cmp(spliced[i]))
	}
}
