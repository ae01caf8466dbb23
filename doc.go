// Package qrband factors a tall, approximately banded sparse matrix
// A (m x n, m >= n) into an implicit block-WY Householder Q and a
// sparse upper-triangular R, one narrow panel at a time.
//
// The driver (Factorize) keeps only a small dense "active window" of A
// in memory at once, runs a dense Householder QR over each panel
// (internal/denseqr), folds the panel's reflectors into the compact
// (I - W*Y^T) form (internal/wyaccum), and scatters W, Y and R into
// sparse storage (internal/triplet) before sliding the window forward.
// Q is never assembled; MatrixQ returns a lazy operator that applies
// the stored reflector blocks directly to a vector or matrix operand.
//
// Column ordering and rank-revealing pivoting are out of scope: callers
// that need a fill-reducing permutation should apply it to A before
// calling Factorize.
//
//	f := qrband.New(qrband.WithBlockParams(4, 2))
//	if err := f.Factorize(a); err != nil {
//	    // f.Info() / f.LastErrorMessage() describe the failure
//	}
//	x, err := f.Solve(b)
package qrband
