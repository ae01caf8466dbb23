// SPDX-License-Identifier: MIT
package qrband

import (
	"fmt"
	"math"
	"runtime"
	"sync"

	"gonum.org/v1/gonum/mat"
)

// QOperator is the lazy applier for the implicit block-WY Q factor
// (spec section 4.5 / 9 design note): it holds a reference to its
// parent Factorization and multiplies on demand, rather than ever
// materializing Q as an m x m matrix.
type QOperator struct {
	f *Factorization
}

// MatrixQ returns the lazy Q operator for a completed factorization.
// Calling Apply/ApplyTranspose before Factorize has succeeded returns
// ErrNotFactorized.
func (f *Factorization) MatrixQ() QOperator { return QOperator{f: f} }

// Apply computes Q*x (spec section 4.5: iterates the global W/Y columns
// from diagSize down to 0 in blockWidth-sized steps, dotting against Y
// and subtracting W per step).
func (op QOperator) Apply(x mat.Matrix) (*mat.Dense, error) {
	return op.run(x, true)
}

// ApplyTranspose computes Q^T*x (spec section 4.5: iterates the global
// W/Y columns from 0 to diagSize in blockWidth-sized steps, dotting
// against W and subtracting Y per step).
func (op QOperator) ApplyTranspose(x mat.Matrix) (*mat.Dense, error) {
	return op.run(x, false)
}

func (op QOperator) run(x mat.Matrix, reverse bool) (*mat.Dense, error) {
	f := op.f
	if !f.initialized {
		return nil, opErrorf("QOperator", ErrNotFactorized)
	}

	rows, cols := x.Dims()
	if rows != f.m {
		return nil, opErrorf("QOperator",
			fmt.Errorf("%w: operand has %d rows, want %d", ErrDimensionMismatch, rows, f.m))
	}

	out := mat.NewDense(rows, cols, nil)
	out.Copy(x)

	width := f.opts.blockWidth
	diagSize := f.usedCols

	// The k-sweep is strictly sequential (spec section 5): each step's
	// dot products read the operand state left by the previous step.
	// Only the per-column work within one step fans out.
	if !reverse {
		for k := 0; k < diagSize; k += width {
			end := k + width
			if end > diagSize {
				end = diagSize
			}
			op.applyChunk(out, k, end, false)
		}
	} else {
		for k := diagSize; k > 0; k -= width {
			start := k - width
			if start < 0 {
				start = 0
			}
			op.applyChunk(out, start, k, true)
		}
	}

	return out, nil
}

// applyChunk updates out in place over the global W/Y column range
// [colLo, colHi) (spec section 4.5). For Q^T (reverse=false) the roles
// are tau_ii = dot(W[:,k+ii], rc), rc -= Y[:,chunk]*tau; for Q
// (reverse=true) the roles swap: tau_ii = dot(Y[:,k+ii], rc),
// rc -= W[:,chunk]*tau. The whole chunk is skipped when the summed tau
// falls below epsilon.
func (op QOperator) applyChunk(out *mat.Dense, colLo, colHi int, reverse bool) {
	width := colHi - colLo
	if width <= 0 {
		return
	}

	f := op.f
	dotSrc, subSrc := f.w, f.y
	if reverse {
		dotSrc, subSrc = f.y, f.w
	}

	dotB := denseBlock(dotSrc, 0, f.m, colLo, width)
	subB := denseBlock(subSrc, 0, f.m, colLo, width)

	_, cols := out.Dims()
	if !f.opts.parallelApply || cols < 2 {
		applyColumns(out, dotB, subB, 0, cols, f.opts.eps)

		return
	}

	workers := runtime.GOMAXPROCS(0)
	if workers > cols {
		workers = cols
	}
	chunk := (cols + workers - 1) / workers

	var wg sync.WaitGroup
	for start := 0; start < cols; start += chunk {
		end := start + chunk
		if end > cols {
			end = cols
		}
		wg.Add(1)
		go func(lo, hi int) {
			defer wg.Done()
			applyColumns(out, dotB, subB, lo, hi, f.opts.eps)
		}(start, end)
	}
	wg.Wait()
}

// applyColumns updates out[:, lo:hi] <- out[:, lo:hi] - subB*(dotB^T*out[:, lo:hi]),
// skipping any column whose summed tau is below eps (spec section 4.5).
func applyColumns(out, dotB, subB *mat.Dense, lo, hi int, eps float64) {
	rows, width := dotB.Dims()
	tau := make([]float64, width)

	for j := lo; j < hi; j++ {
		var tauSum float64
		for c := 0; c < width; c++ {
			var dot float64
			for i := 0; i < rows; i++ {
				dot += dotB.At(i, c) * out.At(i, j)
			}
			tau[c] = dot
			tauSum += dot
		}
		if math.Abs(tauSum) < eps {
			continue
		}
		for i := 0; i < rows; i++ {
			var sum float64
			for c := 0; c < width; c++ {
				sum += subB.At(i, c) * tau[c]
			}
			out.Set(i, j, out.At(i, j)-sum)
		}
	}
}
