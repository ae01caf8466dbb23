package qrband

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestSolve_RejectsWrongRHSRowCount(t *testing.T) {
	a := bandedTestMatrix()
	f := New()
	require.NoError(t, f.Factorize(a))

	_, err := f.Solve(mat.NewDense(3, 1, nil))
	require.ErrorIs(t, err, ErrWrongRHSRows)
	require.Equal(t, InvalidInput, f.Info())
}

func TestSolve_MultiColumnRHS(t *testing.T) {
	a := bandedTestMatrix()
	f := New()
	require.NoError(t, f.Factorize(a))

	xTrue := mat.NewDense(4, 2, []float64{
		1, 0,
		-2, 1,
		3, -1,
		0.5, 2,
	})
	var b mat.Dense
	b.Mul(a, xTrue)

	xGot, err := f.Solve(&b)
	require.NoError(t, err)
	rows, cols := xGot.Dims()
	require.Equal(t, 4, rows)
	require.Equal(t, 2, cols)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			require.InDelta(t, xTrue.At(i, j), xGot.At(i, j), 1e-6)
		}
	}
}
