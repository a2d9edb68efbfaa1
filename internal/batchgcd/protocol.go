// Package batchgcd implements the batch-GCD driver and the worker/shard
// coordinator that parallelizes it: the coordinator
// partitions the modulus table across k workers, each worker builds a local
// product tree and reports its root, the coordinator splices the k roots
// into a head tree and hands each worker its head remainder back, and each
// worker finishes its own remainder tree and reports per-modulus GCDs.
//
// Workers are goroutines communicating over channels rather than OS
// processes — math/big values are safe to build independently per
// goroutine and there is no shared mutable state to protect, so the extra
// isolation of a process boundary buys nothing here (see DESIGN.md for the
// tradeoff left to the implementation). The wire protocol below is still
// message-shaped: a request/response pair per phase, a distinct message for
// failure, and no shared memory between coordinator and worker beyond the
// channels themselves.
package batchgcd

import "github.com/dreamware/rsakeyaudit/internal/bignum"

// Match is one non-trivial batch-GCD hit: modulus at GlobalIndex shares
// Divisor as a common factor with (at least) one other modulus in the run.
type Match struct {
	GlobalIndex int
	Divisor     *bignum.Int
}

// requestKind distinguishes the two phases of the protocol.
type requestKind int

const (
	reqProductTree requestKind = iota
	reqRemainderTree
)

// request is sent from the coordinator to exactly one worker.
type request struct {
	kind requestKind

	// moduli is set on reqProductTree: this worker's partition.
	moduli []*bignum.Int

	// head is set on reqRemainderTree: H_i = P mod root_i^2, the
	// coordinator's computed head remainder for this worker.
	head *bignum.Int
}

// responseKind distinguishes a worker's reply, including the failure case
// that must abort the whole run.
type responseKind int

const (
	respProductTreeDone responseKind = iota
	respRemainderTreeDone
	respWorkerFailed
)

// response is sent from a worker back to the coordinator.
type response struct {
	kind responseKind

	// root is set on respProductTreeDone: this partition's product-tree
	// root.
	root *bignum.Int

	// matches is set on respRemainderTreeDone: this partition's
	// non-trivial GCDs, indexed locally (0-based within the partition).
	matches []localMatch

	// err is set on respWorkerFailed.
	err error
}

// localMatch is a Match before the coordinator translates its index from
// partition-local to global.
type localMatch struct {
	localIndex int
	divisor    *bignum.Int
}
