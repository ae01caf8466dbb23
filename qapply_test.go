package qrband

import (
	"testing"

	"github.com/james-bowman/sparse"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestQOperator_ParallelMatchesSerial(t *testing.T) {
	a := bandedTestMatrix()

	serial := New()
	require.NoError(t, serial.Factorize(a))

	parallel := New(WithParallelApply(true))
	require.NoError(t, parallel.Factorize(a))

	x := mat.NewDense(8, 3, []float64{
		1, 0, 2,
		2, 1, 0,
		3, 2, 1,
		4, 3, 2,
		5, 4, 3,
		6, 5, 4,
		7, 6, 5,
		8, 7, 6,
	})

	gotSerial, err := serial.MatrixQ().ApplyTranspose(x)
	require.NoError(t, err)
	gotParallel, err := parallel.MatrixQ().ApplyTranspose(x)
	require.NoError(t, err)

	rows, cols := gotSerial.Dims()
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			require.InDelta(t, gotSerial.At(i, j), gotParallel.At(i, j), 1e-9)
		}
	}
}

func TestQOperator_AcceptsSparseOperand(t *testing.T) {
	a := bandedTestMatrix()
	f := New()
	require.NoError(t, f.Factorize(a))

	rhs := sparse.NewCOO(8, 1, []int{0, 5}, []int{0, 0}, []float64{1, 1}).ToCSC()
	out, err := f.MatrixQ().ApplyTranspose(rhs)
	require.NoError(t, err)
	rows, cols := out.Dims()
	require.Equal(t, 8, rows)
	require.Equal(t, 1, cols)
}

func TestQOperator_RejectsWrongOperandShape(t *testing.T) {
	a := bandedTestMatrix()
	f := New()
	require.NoError(t, f.Factorize(a))

	bad := mat.NewDense(4, 1, nil)
	_, err := f.MatrixQ().Apply(bad)
	require.ErrorIs(t, err, ErrDimensionMismatch)
}

func TestQOperator_NotFactorized(t *testing.T) {
	f := New()
	_, err := f.MatrixQ().Apply(mat.NewDense(1, 1, nil))
	require.ErrorIs(t, err, ErrNotFactorized)
}
