// Package triplet implements C1: an append-only (row, col, value) triple
// accumulator that finalizes into a compressed sparse column matrix.
//
// It is a thin, strict-inequality wrapper over github.com/james-bowman/sparse's
// COO (coordinate) format: COO.Set already appends triples and sums
// duplicates on read/convert, which is exactly the "key-sort on (col,row)
// and sum duplicates" contract spec section 4.1 asks for.
package triplet

import (
	"github.com/james-bowman/sparse"
)

// Accumulator collects (row, col, value) triples for an r×c matrix and
// finalizes them into compressed sparse column storage.
type Accumulator struct {
	rows, cols int
	coo        *sparse.COO
}

// New allocates an Accumulator for an r×c matrix with capacity hinted by
// expectedNNZ (0 is a valid hint meaning "no hint").
func New(rows, cols, expectedNNZ int) *Accumulator {
	var rs, cs []int
	var vs []float64
	if expectedNNZ > 0 {
		rs = make([]int, 0, expectedNNZ)
		cs = make([]int, 0, expectedNNZ)
		vs = make([]float64, 0, expectedNNZ)
	}

	return &Accumulator{
		rows: rows,
		cols: cols,
		coo:  sparse.NewCOO(rows, cols, rs, cs, vs),
	}
}

// AddIfNonzero inserts (row, col, v) only if v is strictly nonzero,
// matching spec section 4.1's add_if_nonzero contract. No near-zero
// epsilon filter is applied: any value other than exactly 0 is kept.
func (a *Accumulator) AddIfNonzero(row, col int, v float64) {
	if v == 0 {
		return
	}
	a.coo.Set(row, col, v)
}

// NNZ returns the number of triples recorded so far (duplicates counted
// separately, pre-summation).
func (a *Accumulator) NNZ() int { return a.coo.NNZ() }

// Finalize key-sorts on (col, row) and sums duplicates, returning the
// resulting compressed sparse column matrix. Complexity: O(k log k) for
// k recorded triples (dominated by the COO->CSC conversion).
func (a *Accumulator) Finalize() *sparse.CSC {
	return a.coo.ToCSC()
}
