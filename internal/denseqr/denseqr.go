// Package denseqr implements C2: Householder QR of a small dense p×q
// panel (p >= q), exposing per-column essential reflector vectors and
// tau coefficients rather than an assembled Q or R.
//
// The algorithm is the teacher's square Householder QR
// (matrix/ops/qr.go) generalized from an n×n matrix to a p×q panel and
// changed to record reflectors instead of accumulating Q, since the
// block driver (C4) rebuilds (I - W*Y^T) itself via the WY accumulator.
package denseqr

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// ErrNonFinite indicates the panel contains a NaN or ±Inf value.
var ErrNonFinite = fmt.Errorf("denseqr: non-finite value in panel")

// ErrShape indicates p < q (more columns than rows in the panel).
var ErrShape = fmt.Errorf("denseqr: panel must have at least as many rows as columns")

// ReflectorSet holds the per-column Householder reflectors of a panel.
// Column c's reflector is H_c = I - Tau[c]*v_c*v_c^T where
// v_c = (0,...,0, 1, Essential[c]...) with the unit at row c.
type ReflectorSet struct {
	Essential [][]float64 // Essential[c] has length p-c-1
	Tau       []float64   // Tau[c] is the reflector coefficient
	Rows      int
	Cols      int
}

// Factorize runs column-wise Householder QR on the dense p×q matrix j
// (p >= q). j is mutated in place: its trailing columns are reflected as
// each pivot is processed, exactly as a standard Householder QR sweep
// requires to expose the next pivot. Zero columns yield tau=0 (spec
// section 4.2).
func Factorize(j *mat.Dense) (*ReflectorSet, error) {
	// Stage 1: Validate shape.
	p, q := j.Dims()
	if p < q {
		return nil, ErrShape
	}

	// Stage 2: Prepare result containers and scratch column buffer.
	rs := &ReflectorSet{
		Essential: make([][]float64, q),
		Tau:       make([]float64, q),
		Rows:      p,
		Cols:      q,
	}
	col := make([]float64, p)

	// Stage 3: Execute the Householder sweep, column by column.
	for c := 0; c < q; c++ {
		// Copy the active part of column c (rows c..p-1).
		n := p - c
		for i := 0; i < n; i++ {
			v := j.At(c+i, c)
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, ErrNonFinite
			}
			col[i] = v
		}

		norm := floats.Norm(col[:n], 2)
		if norm == 0 {
			rs.Essential[c] = make([]float64, p-c-1)
			rs.Tau[c] = 0
			continue
		}

		alpha := -math.Copysign(norm, col[0])
		v0 := col[0] - alpha

		beta := v0*v0 + floats.Dot(col[1:n], col[1:n])
		var tau float64
		essential := make([]float64, p-c-1)
		if beta != 0 && v0 != 0 {
			tau = (2.0 / beta) * v0 * v0
			for i := 1; i < n; i++ {
				essential[i-1] = col[i] / v0
			}
		}
		rs.Essential[c] = essential
		rs.Tau[c] = tau

		if tau == 0 || c == q-1 {
			continue
		}

		// Stage 4: Apply H_c to the trailing columns c+1..q-1 so the
		// next pivot is exposed, mirroring standard Householder QR.
		vhat := make([]float64, n)
		vhat[0] = 1
		copy(vhat[1:], essential)
		for cc := c + 1; cc < q; cc++ {
			var dot float64
			for i := 0; i < n; i++ {
				dot += vhat[i] * j.At(c+i, cc)
			}
			scale := tau * dot
			for i := 0; i < n; i++ {
				j.Set(c+i, cc, j.At(c+i, cc)-scale*vhat[i])
			}
		}
	}

	return rs, nil
}
