// SPDX-License-Identifier: MIT
package qrband

// Numeric and block-geometry defaults (spec section 3).
const (
	// DefaultBlockRows is the initial panel height.
	DefaultBlockRows = 4
	// DefaultBlockCols is the panel width; interior panels use 2*BlockCols.
	DefaultBlockCols = 2
	// DefaultEpsilon is the threshold of the Q-apply skip test. Triplet
	// insertion drops exact zeros only and does not use it.
	DefaultEpsilon = 1e-16
	// DefaultBlockWidth is the fixed tuning constant for the Q-apply
	// column stride (spec section 4.5). It is independent of BlockRows/
	// BlockCols: it governs how many global W/Y columns QOperator folds
	// into one dot-then-subtract step, not the factorization's panel
	// geometry.
	DefaultBlockWidth = 4
)

// BlockParams defines the panel geometry used by the block-banded driver.
// RowIncrement is the per-iteration growth of the active window absent
// implicit zeroing: BlockRows - BlockCols.
type BlockParams struct {
	BlockRows int
	BlockCols int
}

// RowIncrement returns BlockRows - BlockCols.
func (b BlockParams) RowIncrement() int { return b.BlockRows - b.BlockCols }

// NNZRows returns the cap on activeRows used for implicit zeroing: 2*BlockRows,
// matching the original implementation's NNZ_ROWS macro.
func (b BlockParams) NNZRows() int { return 2 * b.BlockRows }

// options holds the configurable numeric policy of a Factorization.
// Populated by New via functional Option closures, mirroring the
// teacher's functional-options style (matrix/options.go).
type options struct {
	block          BlockParams
	eps            float64
	pivotThreshold float64
	useDefaultTol  bool
	parallelApply  bool
	blockWidth     int
}

func defaultOptions() options {
	return options{
		block:         BlockParams{BlockRows: DefaultBlockRows, BlockCols: DefaultBlockCols},
		eps:           DefaultEpsilon,
		useDefaultTol: true,
		blockWidth:    DefaultBlockWidth,
	}
}

// Option configures a Factorization at construction time.
type Option func(*options)

// WithBlockParams sets the initial panel geometry. Panics if either
// dimension is non-positive: this is a programmer error, not a runtime
// condition a caller should branch on.
func WithBlockParams(blockRows, blockCols int) Option {
	if blockRows <= 0 || blockCols <= 0 {
		panic(ErrInvalidBlockParams)
	}

	return func(o *options) {
		o.block = BlockParams{BlockRows: blockRows, BlockCols: blockCols}
	}
}

// WithRoundoffEpsilon overrides the Q-apply skip threshold.
func WithRoundoffEpsilon(eps float64) Option {
	return func(o *options) { o.eps = eps }
}

// WithPivotThreshold sets the (unused-for-detection, kept for API
// symmetry per spec section 7) pivot threshold.
func WithPivotThreshold(t float64) Option {
	return func(o *options) {
		o.pivotThreshold = t
		o.useDefaultTol = false
	}
}

// WithParallelApply enables the goroutine-per-column fan-out path for
// QOperator.Apply/ApplyTranspose (spec section 5).
func WithParallelApply(enabled bool) Option {
	return func(o *options) { o.parallelApply = enabled }
}

// WithBlockWidth overrides the fixed Q-apply column stride (spec section
// 4.5). Panics if width is non-positive: this is a programmer error, not
// a runtime condition a caller should branch on.
func WithBlockWidth(width int) Option {
	return func(o *options) {
		if width <= 0 {
			panic(ErrInvalidBlockWidth)
		}
		o.blockWidth = width
	}
}
