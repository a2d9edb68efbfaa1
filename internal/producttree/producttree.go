// Package producttree builds and evaluates Bernstein product/remainder trees
// over a slice of big integers, the core machinery of batch-GCD.
//
// Both trees are represented as explicit level arrays rather than linked
// nodes: L[0] is the root, L[k] is the leaves, and L[i][j] is the product of
// L[i+1][2j] and L[i+1][2j+1]. This keeps the tree free of recursion and
// free of parent/child pointers — building or evaluating it is a simple
// bottom-up (product) or top-down (remainder) loop over slices.
package producttree

import (
	"fmt"

	"github.com/dreamware/rsakeyaudit/internal/bignum"
)

// BuildLevels builds a product tree over leaves, which must have a
// power-of-two length (a singleton is level 0 == level 0, i.e. a one-level
// tree). The returned slice is ordered root-first: levels[0] is a single
// element (the overall product), levels[len(levels)-1] is the leaves slice
// itself (not a copy).
//
// A non-power-of-two input is a programmer error, not a recoverable runtime
// condition (spec: "fatal logic error") — BuildLevels panics rather than
// returning an error, since every caller in this repo pads its modulus list
// to a power of two before reaching here.
func BuildLevels(leaves []*bignum.Int) [][]*bignum.Int {
	n := len(leaves)
	if n == 0 || (n&(n-1)) != 0 {
		panic(fmt.Sprintf("producttree: leaf count %d is not a power of two", n))
	}

	depth := 0
	for 1<<depth < n {
		depth++
	}

	levels := make([][]*bignum.Int, depth+1)
	levels[depth] = leaves

	for i := depth - 1; i >= 0; i-- {
		below := levels[i+1]
		level := make([]*bignum.Int, len(below)/2)
		for j := range level {
			level[j] = bignum.Mul(below[2*j], below[2*j+1])
		}
		levels[i] = level
	}
	return levels
}

// Root returns the overall product, i.e. levels[0][0].
func Root(levels [][]*bignum.Int) *bignum.Int {
	return levels[0][0]
}

// EvalRemainders walks a product tree top-down, computing at each node the
// parent's remainder reduced modulo the square of the node's own product,
// per the recurrence R[0] = head (or L[0] when head is nil); R[i][j] = R[i-1][j/2] mod L[i][j]^2.
//
// head lets a caller splice in an externally supplied root remainder instead
// of using levels[0][0] directly — this is how the coordinator hands a
// worker its share of the overall remainder tree during phase 2 without
// the worker ever seeing moduli outside its own partition.
//
// The returned slice is the leaf-level remainders, R[depth], one per input
// modulus, in the same order as the leaves passed to BuildLevels.
func EvalRemainders(levels [][]*bignum.Int, head *bignum.Int) []*bignum.Int {
	depth := len(levels) - 1

	prev := []*bignum.Int{head}
	if head == nil {
		prev = []*bignum.Int{levels[0][0]}
	}

	for i := 1; i <= depth; i++ {
		level := levels[i]
		cur := make([]*bignum.Int, len(level))
		for j := range level {
			parent := prev[j/2]
			cur[j] = bignum.Mod(parent, bignum.Square(level[j]))
		}
		prev = cur
	}
	return prev
}
