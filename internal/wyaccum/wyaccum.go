// Package wyaccum implements C3: given the per-column Householder
// reflectors of a panel (as produced by internal/denseqr), build the two
// dense panel matrices W, Y such that (I - W*Y^T) equals the product of
// those reflectors, in the order they were eliminated.
package wyaccum

import (
	"fmt"

	"github.com/katalvlaran/qrband/internal/denseqr"
	"gonum.org/v1/gonum/mat"
)

// ErrEmpty indicates a reflector set with zero columns was supplied.
var ErrEmpty = fmt.Errorf("wyaccum: reflector set has no columns")

// Build assembles W and Y (both activeRows x q, where q = rs.Cols and
// activeRows = rs.Rows) from the reflector set rs, following spec
// section 4.3:
//
//	Y[:,0] = v0; W[:,0] = tau0*v0
//	for c = 1..q-1: z = tau_c*(v_c - W*(Y^T*v_c)); Y[:,c] = v_c; W[:,c] = z
func Build(rs *denseqr.ReflectorSet) (w, y *mat.Dense, err error) {
	q := rs.Cols
	if q == 0 {
		return nil, nil, ErrEmpty
	}
	p := rs.Rows

	w = mat.NewDense(p, q, nil)
	y = mat.NewDense(p, q, nil)

	v := make([]float64, p)
	for c := 0; c < q; c++ {
		// Stage 1: assemble the full-length reflector vector v_c:
		// zero above row c, unit at row c, essential vector below.
		for i := range v {
			v[i] = 0
		}
		v[c] = 1
		copy(v[c+1:], rs.Essential[c])
		for i := 0; i < p; i++ {
			y.Set(i, c, v[i])
		}

		if c == 0 {
			for i := 0; i < p; i++ {
				w.Set(i, 0, rs.Tau[c]*v[i])
			}
			continue
		}

		// Stage 2: z = tau_c*(v_c - W*(Y^T*v_c)) using only the first c
		// columns of W, Y (later columns are still zero at this point).
		yTv := make([]float64, c)
		for cc := 0; cc < c; cc++ {
			var dot float64
			for i := 0; i < p; i++ {
				dot += y.At(i, cc) * v[i]
			}
			yTv[cc] = dot
		}
		for i := 0; i < p; i++ {
			var wy float64
			for cc := 0; cc < c; cc++ {
				wy += w.At(i, cc) * yTv[cc]
			}
			w.Set(i, c, rs.Tau[c]*(v[i]-wy))
		}
	}

	return w, y, nil
}

// ApplyTransposed computes V <- (I - W*Y^T)^T*V in place, column by
// column: V.col(j) -= Y*(W^T*V.col(j)). This is the wy_product_transposed
// helper from the original implementation, shared by the block driver
// (to update the trailing panel block) and by the per-panel WY-validity
// property test.
func ApplyTransposed(w, y, v *mat.Dense) {
	p, q := w.Dims()
	_, cols := v.Dims()

	wt := make([]float64, q)
	for j := 0; j < cols; j++ {
		for c := 0; c < q; c++ {
			var dot float64
			for i := 0; i < p; i++ {
				dot += w.At(i, c) * v.At(i, j)
			}
			wt[c] = dot
		}
		for i := 0; i < p; i++ {
			var sum float64
			for c := 0; c < q; c++ {
				sum += y.At(i, c) * wt[c]
			}
			v.Set(i, j, v.At(i, j)-sum)
		}
	}
}
