// SPDX-License-Identifier: MIT

// Package qrband implements a sparse banded blocked QR factorization
// (spec section 1): a tall column-major sparse matrix A (m x n, m >= n)
// whose non-zero pattern is approximately banded is factored as A = Q*R,
// with Q held implicitly in block-WY Householder form and R a sparse
// upper-triangular factor. Fill-reducing ordering and rank-revealing
// pivoting are explicitly out of scope; see SPEC_FULL.md section 1.
package qrband

import (
	"errors"
	"fmt"

	"github.com/james-bowman/sparse"
	"github.com/katalvlaran/qrband/internal/denseqr"
	"github.com/katalvlaran/qrband/internal/triplet"
	"github.com/katalvlaran/qrband/internal/wyaccum"
	"gonum.org/v1/gonum/mat"
)

// Factorization is the opaque handle exposed to callers (spec section 6).
// It is not safe for concurrent use during Factorize; once factorized,
// the stored R/W/Y are immutable and Q-apply/Solve take it by shared
// read reference only (spec section 5).
type Factorization struct {
	opts options

	initialized bool
	info        ComputationInfo
	lastErr     error

	m, n int
	rank int

	r, w, y *sparse.CSC

	// usedCols is diagSize (spec section 4.5): 2*BlockCols*numBlocks, the
	// width of the w/y column slots reserved by Factorize (the final panel
	// fills only the first half of its slot; the rest is zero). QOperator walks
	// [0, usedCols) in fixed blockWidth-sized steps, independent of the
	// panel geometry that produced them.
	usedCols int

	rowsPermutation []int
	colsPermutation []int
}

// New constructs a Factorization handle with the given options applied
// over the defaults (BlockRows=4, BlockCols=2, eps=1e-16).
func New(opts ...Option) *Factorization {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	return &Factorization{opts: o, info: NotInitialized}
}

// Rows returns m, the row count of the factorized matrix (0 before Factorize).
func (f *Factorization) Rows() int { return f.m }

// Cols returns n, the column count of the factorized matrix (0 before Factorize).
func (f *Factorization) Cols() int { return f.n }

// Rank returns n: this factorization is not rank-revealing (spec section 1
// Non-goals), so rank always equals the column count once factorized.
func (f *Factorization) Rank() int { return f.rank }

// Info reports the outcome of the last Factorize/Solve call.
func (f *Factorization) Info() ComputationInfo { return f.info }

// LastErrorMessage returns a human-readable description of the last
// error, or "" if the last operation succeeded.
func (f *Factorization) LastErrorMessage() string {
	if f.lastErr == nil {
		return ""
	}

	return f.lastErr.Error()
}

// SetBlockParams overrides the panel geometry used by the next Factorize call.
func (f *Factorization) SetBlockParams(blockRows, blockCols int) {
	if blockRows <= 0 || blockCols <= 0 {
		panic(ErrInvalidBlockParams)
	}
	f.opts.block = BlockParams{BlockRows: blockRows, BlockCols: blockCols}
}

// SetRoundoffEpsilon overrides the Q-apply skip threshold used by
// subsequent Apply/ApplyTranspose/Solve calls. Factorize does not read it.
func (f *Factorization) SetRoundoffEpsilon(eps float64) { f.opts.eps = eps }

// SetPivotThreshold sets the (API-symmetry only, unused for rank
// detection - spec section 7) pivot threshold.
func (f *Factorization) SetPivotThreshold(t float64) {
	f.opts.pivotThreshold = t
	f.opts.useDefaultTol = false
}

// SetBlockWidth overrides the fixed Q-apply column stride (spec section
// 4.5). Unlike SetBlockParams, this takes effect immediately: it governs
// QOperator.Apply/ApplyTranspose directly and does not require
// re-running Factorize.
func (f *Factorization) SetBlockWidth(width int) {
	if width <= 0 {
		panic(ErrInvalidBlockWidth)
	}
	f.opts.blockWidth = width
}

// MatrixR returns the sparse upper-triangular factor R, or nil if
// Factorize has not run successfully.
func (f *Factorization) MatrixR() *sparse.CSC {
	if !f.initialized {
		return nil
	}

	return f.r
}

// MatrixW returns the W half of the block-WY Householder representation.
func (f *Factorization) MatrixW() *sparse.CSC {
	if !f.initialized {
		return nil
	}

	return f.w
}

// MatrixY returns the Y half of the block-WY Householder representation.
func (f *Factorization) MatrixY() *sparse.CSC {
	if !f.initialized {
		return nil
	}

	return f.y
}

// ColsPermutation returns the column permutation P such that A*P = Q*R.
// It is the identity permutation in this core: ordering is an external
// collaborator (spec section 1 Non-goals).
func (f *Factorization) ColsPermutation() []int { return f.colsPermutation }

// RowsPermutation returns the row permutation applied to A before
// factorization. It is the identity permutation in this core (spec
// section 9 design note: preserved for API symmetry with a broader QR
// family that does support row reordering).
func (f *Factorization) RowsPermutation() []int { return f.rowsPermutation }

// fail records a non-success outcome and returns the wrapped error.
func (f *Factorization) fail(op string, info ComputationInfo, err error) error {
	f.info = info
	wrapped := opErrorf(op, err)
	f.lastErr = wrapped

	return wrapped
}

// Factorize computes the block-banded Householder QR factorization of a
// (spec section 4.4). a must be a compressed sparse column matrix with
// m >= n and n a multiple of the configured BlockCols. Factorize is not
// re-entrant and mutates only f; a is read-only.
func (f *Factorization) Factorize(a *sparse.CSC) error {
	if a == nil {
		return f.fail("Factorize", InvalidInput, fmt.Errorf("%w: nil matrix", ErrNotCompressed))
	}

	m, n := a.Dims()
	if m < n {
		return f.fail("Factorize", InvalidInput,
			fmt.Errorf("%w: m=%d < n=%d", ErrDimensionMismatch, m, n))
	}

	blockCols := f.opts.block.BlockCols
	blockRowsInit := f.opts.block.BlockRows
	if n%blockCols != 0 {
		return f.fail("Factorize", InvalidInput,
			fmt.Errorf("%w: n=%d, blockCols=%d", ErrColsNotDivisible, n, blockCols))
	}

	numBlocks := n / blockCols
	nnzRows := 2 * blockRowsInit // fixed cap, independent of window growth

	rAcc := triplet.New(m, n, 2*a.NNZ())
	wAcc := triplet.New(m, 2*n, 2*a.NNZ())
	yAcc := triplet.New(m, 2*n, 2*a.NNZ())

	blockRows := blockRowsInit
	activeRows := blockRows
	numZeros := 0
	ji := denseBlock(a, 0, blockRows, 0, 2*blockCols)

	var tmp *mat.Dense
	for i := 0; i < numBlocks; i++ {
		bs := i * blockCols
		bsh := i * 2 * blockCols
		currBlockCols := 2 * blockCols
		if i == numBlocks-1 {
			currBlockCols = blockCols
		}
		ji = trimCols(ji, currBlockCols)

		rs, err := denseqr.Factorize(mat.DenseCopyOf(ji))
		if err != nil {
			if errors.Is(err, denseqr.ErrNonFinite) {
				err = fmt.Errorf("%w: %v", ErrNonFinitePanel, err)
			}

			return f.fail("Factorize", NumericalError, err)
		}

		w, y, err := wyaccum.Build(rs)
		if err != nil {
			return f.fail("Factorize", NumericalError, err)
		}

		// Scatter W, Y into global sparse storage (spec section 3
		// invariant 1 and section 4.4 step 5).
		for bc := 0; bc < currBlockCols; bc++ {
			yAcc.AddIfNonzero(bs+bc, bsh+bc, y.At(bc, bc))
			for r := 0; r <= bc; r++ {
				wAcc.AddIfNonzero(bs+r, bsh+bc, w.At(r, bc))
			}

			start := activeRows - blockRowsInit
			if start <= bc {
				start = bc + 1
			}
			for r := start; r < activeRows; r++ {
				yAcc.AddIfNonzero(bs+r+numZeros, bsh+bc, y.At(r, bc))
				wAcc.AddIfNonzero(bs+r+numZeros, bsh+bc, w.At(r, bc))
			}
		}

		// V = (I - W*Y^T)^T * Ji; scatter its upper-triangular block into R.
		v := mat.DenseCopyOf(ji)
		wyaccum.ApplyTransposed(w, y, v)
		tmp = v

		for br := 0; br < blockCols; br++ {
			for bc := 0; bc < currBlockCols; bc++ {
				rAcc.AddIfNonzero(bs+br, bs+bc, tmp.At(br, bc))
			}
		}

		if i == numBlocks-1 {
			continue
		}

		// Advance the active window (spec section 4.4 step 8): grow the
		// window by rowIncrement, capping at nnzRows via implicit zeroing.
		blockRows += f.opts.block.RowIncrement()
		if blockRows > nnzRows {
			numZeros = blockRows - nnzRows
			activeRows = nnzRows
		} else {
			numZeros = 0
			activeRows = blockRows
		}

		nextCols := 2 * blockCols
		if i == numBlocks-2 {
			nextCols = blockCols
		}
		ji = denseBlock(a, bs+blockCols+numZeros, activeRows, bs+blockCols, nextCols)

		overlayRows := activeRows - f.opts.block.RowIncrement() - blockCols
		if overlayRows > 0 {
			for r := 0; r < overlayRows; r++ {
				for c := 0; c < blockCols; c++ {
					ji.Set(r, c, tmp.At(blockCols+r, blockCols+c))
				}
			}
		}
	}

	f.m, f.n = m, n
	f.rank = n
	f.r = rAcc.Finalize()
	f.w = wAcc.Finalize()
	f.y = yAcc.Finalize()
	f.usedCols = numBlocks * 2 * blockCols

	f.rowsPermutation = identityPermutation(m)
	f.colsPermutation = identityPermutation(n)

	f.initialized = true
	f.info = Success
	f.lastErr = nil

	return nil
}

// identityPermutation returns [0, 1, ..., k-1].
func identityPermutation(k int) []int {
	p := make([]int, k)
	for i := range p {
		p[i] = i
	}

	return p
}

// trimCols returns a copy of d restricted to its first cols columns,
// guarding against the initial panel (built with width 2*blockCols) being
// reused unchanged for a single-panel (numBlocks==1) factorization whose
// only panel is also its last, and therefore narrower.
func trimCols(d *mat.Dense, cols int) *mat.Dense {
	_, c := d.Dims()
	if c == cols {
		return d
	}

	var sub mat.Dense
	sub.CloneFrom(d.Slice(0, d.RawMatrix().Rows, 0, cols))

	return &sub
}

// denseBlock extracts the r0..r0+nr-1, c0..c0+nc-1 sub-block of a into a
// freshly allocated dense matrix, treating any requested row or column
// beyond a's dimensions as zero. This is the Go realization of the
// banded assumption in spec section 9: a well-formed banded input never
// asks for rows past m in a way that matters, but clamping keeps the
// driver total rather than panicking on the last few panels of a matrix
// whose true row count is smaller than the nominal active window.
func denseBlock(a *sparse.CSC, r0, nr, c0, nc int) *mat.Dense {
	m, n := a.Dims()
	out := mat.NewDense(nr, nc, nil)
	if r0 >= m || c0 >= n {
		return out
	}

	rowsAvail := nr
	if r0+rowsAvail > m {
		rowsAvail = m - r0
	}
	colsAvail := nc
	if c0+colsAvail > n {
		colsAvail = n - c0
	}
	for j := 0; j < colsAvail; j++ {
		for i := 0; i < rowsAvail; i++ {
			out.Set(i, j, a.At(r0+i, c0+j))
		}
	}

	return out
}
