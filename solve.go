// SPDX-License-Identifier: MIT
package qrband

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Solve computes the least-squares solution x minimizing ||A*x - b||
// using the stored factorization: y = Q^T*b, back-substitute R*x = y
// over the leading Rank() rows, zero-pad the remainder (spec section 6,
// C6). b must have Rows() rows; the result has Cols() rows.
func (f *Factorization) Solve(b mat.Matrix) (*mat.Dense, error) {
	if !f.initialized {
		return nil, f.fail("Solve", InvalidInput, ErrNotFactorized)
	}

	rows, rhsCols := b.Dims()
	if rows != f.m {
		return nil, f.fail("Solve", InvalidInput,
			fmt.Errorf("%w: rhs has %d rows, want %d", ErrWrongRHSRows, rows, f.m))
	}

	y, err := f.MatrixQ().ApplyTranspose(b)
	if err != nil {
		return nil, err
	}

	// y currently has m rows; resize to max(n, m) per spec section 6,
	// then back-substitute over the leading rank (== n) rows of R.
	resized := mat.NewDense(max(f.n, f.m), rhsCols, nil)
	resized.Copy(y)

	x := mat.NewDense(f.n, rhsCols, nil)
	for j := 0; j < rhsCols; j++ {
		for i := f.rank - 1; i >= 0; i-- {
			sum := resized.At(i, j)
			for k := i + 1; k < f.rank; k++ {
				sum -= f.r.At(i, k) * x.At(k, j)
			}

			diag := f.r.At(i, i)
			if diag == 0 {
				x.Set(i, j, 0)

				continue
			}
			x.Set(i, j, sum/diag)
		}
	}

	f.info = Success
	f.lastErr = nil

	return x, nil
}
