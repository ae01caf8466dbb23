package qrband

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestDefaultOptions(t *testing.T) {
	o := defaultOptions()
	require.Equal(t, DefaultBlockRows, o.block.BlockRows)
	require.Equal(t, DefaultBlockCols, o.block.BlockCols)
	require.Equal(t, DefaultEpsilon, o.eps)
	require.True(t, o.useDefaultTol)
}

func TestBlockParams_RowIncrementAndNNZRows(t *testing.T) {
	b := BlockParams{BlockRows: 4, BlockCols: 2}
	require.Equal(t, 2, b.RowIncrement())
	require.Equal(t, 8, b.NNZRows())
}

func TestWithBlockParams_PanicsOnNonPositive(t *testing.T) {
	require.Panics(t, func() { WithBlockParams(0, 2) })
	require.Panics(t, func() { WithBlockParams(2, 0) })
}

func TestWithPivotThreshold_DisablesDefaultTolerance(t *testing.T) {
	o := defaultOptions()
	WithPivotThreshold(1e-10)(&o)
	require.False(t, o.useDefaultTol)
	require.Equal(t, 1e-10, o.pivotThreshold)
}

// TestBlockParameterInvariance checks spec.md section 8 property 8:
// changing (BlockRows, BlockCols) among {(4,2),(8,2),(8,4)} must not
// change Q*R = A within tolerance.
func TestBlockParameterInvariance(t *testing.T) {
	geometries := []BlockParams{
		{BlockRows: 4, BlockCols: 2},
		{BlockRows: 8, BlockCols: 2},
		{BlockRows: 8, BlockCols: 4},
	}

	a := bandedTestMatrix()
	m, n := a.Dims()
	aDense := denseBlock(a, 0, m, 0, n)
	aNorm := frobeniusNorm(aDense)

	for _, geom := range geometries {
		f := New(WithBlockParams(geom.BlockRows, geom.BlockCols))
		require.NoError(t, f.Factorize(a))

		rDense := denseBlock(f.MatrixR(), 0, f.Rows(), 0, f.Cols())
		qr, err := f.MatrixQ().Apply(rDense)
		require.NoError(t, err)

		var diff mat.Dense
		diff.Sub(qr, aDense)
		relErr := frobeniusNorm(&diff) / aNorm
		require.Less(t, relErr, 1e-9,
			"block geometry %+v: ||Q*R - A||_F / ||A||_F should be within tolerance", geom)
	}
}
