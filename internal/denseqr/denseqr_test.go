package denseqr

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestFactorize_SingleColumnReflector(t *testing.T) {
	j := mat.NewDense(3, 1, []float64{3, 4, 0})
	rs, err := Factorize(j)
	require.NoError(t, err)
	require.InDelta(t, 1.6, rs.Tau[0], 1e-12)
	require.InDelta(t, 0.5, rs.Essential[0][0], 1e-12)
	require.InDelta(t, 0.0, rs.Essential[0][1], 1e-12)
}

func TestFactorize_ZeroColumnYieldsZeroTau(t *testing.T) {
	j := mat.NewDense(3, 1, []float64{0, 0, 0})
	rs, err := Factorize(j)
	require.NoError(t, err)
	require.Equal(t, 0.0, rs.Tau[0])
}

func TestFactorize_RejectsMoreColumnsThanRows(t *testing.T) {
	j := mat.NewDense(2, 3, make([]float64, 6))
	_, err := Factorize(j)
	require.ErrorIs(t, err, ErrShape)
}

func TestFactorize_RejectsNonFinite(t *testing.T) {
	j := mat.NewDense(2, 1, []float64{math.NaN(), 1})
	_, err := Factorize(j)
	require.ErrorIs(t, err, ErrNonFinite)
}

func TestFactorize_TrailingColumnIsReflected(t *testing.T) {
	// column 0 drives the reflector; column 1 must change after it.
	j := mat.NewDense(3, 2, []float64{
		3, 1,
		4, 2,
		0, 5,
	})
	before := mat.DenseCopyOf(j)
	_, err := Factorize(j)
	require.NoError(t, err)
	require.NotEqual(t, before.At(0, 1), j.At(0, 1))
}
