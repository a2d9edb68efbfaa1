package batchgcd

import (
	"fmt"

	"github.com/dreamware/rsakeyaudit/internal/bignum"
	"github.com/dreamware/rsakeyaudit/internal/producttree"
)

// worker runs one partition's side of the two-phase protocol. It owns its
// partition's moduli and retained product-tree levels for the lifetime of
// one run and is never shared across partitions.
type worker struct {
	id     int
	reqCh  chan request
	respCh chan response
	moduli []*bignum.Int
	levels [][]*bignum.Int
	stats  PartitionStats
}

func newWorker(id int) *worker {
	return &worker{
		id:     id,
		reqCh:  make(chan request, 1),
		respCh: make(chan response, 1),
	}
}

// run services requests until reqCh is closed or the worker fails. Recovery
// from a panic in the arithmetic (e.g. a mis-padded partition reaching
// producttree.BuildLevels) is reported as respWorkerFailed rather than
// crashing the whole audit process: any worker
// error ... fails the entire audit" by message, not by process death.
func (w *worker) run() {
	defer close(w.respCh)
	for req := range w.reqCh {
		resp := w.handle(req)
		w.respCh <- resp
		if resp.kind == respWorkerFailed {
			return
		}
	}
}

func (w *worker) handle(req request) (resp response) {
	defer func() {
		if r := recover(); r != nil {
			resp = response{kind: respWorkerFailed, err: fmt.Errorf("batchgcd: worker %d panicked: %v", w.id, r)}
		}
	}()

	switch req.kind {
	case reqProductTree:
		w.moduli = req.moduli
		w.levels = producttree.BuildLevels(w.moduli)
		w.stats.recordProductTree()
		return response{kind: respProductTreeDone, root: producttree.Root(w.levels)}

	case reqRemainderTree:
		remainders := producttree.EvalRemainders(w.levels, req.head)
		matches := gcdLeaves(w.moduli, remainders)
		w.stats.recordRemainderTree(len(matches))
		return response{kind: respRemainderTreeDone, matches: matches}

	default:
		return response{kind: respWorkerFailed, err: fmt.Errorf("batchgcd: worker %d got unknown request kind %d", w.id, req.kind)}
	}
}

// gcdLeaves runs the GCD reduction over one partition's leaves,
// suppressing padding entries (modulus == 1) and trivial (coprime) results.
func gcdLeaves(moduli []*bignum.Int, remainders []*bignum.Int) []localMatch {
	var matches []localMatch
	for i, m := range moduli {
		if bignum.IsOne(m) {
			continue
		}
		q := bignum.Div(remainders[i], m)
		g := bignum.GCD(q, m)
		if bignum.IsOne(g) {
			continue
		}
		matches = append(matches, localMatch{localIndex: i, divisor: g})
	}
	return matches
}
