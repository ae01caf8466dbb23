package qrband_test

import (
	"fmt"

	"github.com/james-bowman/sparse"
	"github.com/katalvlaran/qrband"
)

// Example demonstrates factoring a small banded matrix and printing its
// rank.
func Example() {
	rows := []int{0, 0, 1, 1, 1, 2, 2, 2, 3, 3}
	cols := []int{0, 1, 0, 1, 2, 1, 2, 3, 2, 3}
	vals := []float64{4, 1, 1, 5, 1, 1, 6, 1, 1, 7}
	a := sparse.NewCOO(4, 4, rows, cols, vals).ToCSC()

	f := qrband.New(qrband.WithBlockParams(4, 2))
	if err := f.Factorize(a); err != nil {
		fmt.Println("factorize failed:", err)

		return
	}

	fmt.Println("rank:", f.Rank())
}
