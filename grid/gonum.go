package grid

import (
	"gonum.org/v1/gonum/mat"
)

// FromMatrix copies m into a fresh 2-D float64 array, row-major.
func FromMatrix(m mat.Matrix) *Array[float64] {
	rows, cols := m.Dims()
	a, err := NewArray[float64](rows, cols)
	if err != nil {
		panic(err) // mat.Matrix dims are positive by construction
	}
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			a.data[i*cols+j] = m.At(i, j)
		}
	}
	return a
}

// ToMatrix copies a 2-D float64 array into a mat.Dense. Panics when the
// array is not rank 2.
func ToMatrix(a *Array[float64]) *mat.Dense {
	if a.Rank() != 2 {
		panic("ToMatrix requires a rank-2 array")
	}
	rows, cols := a.dims[0], a.dims[1]
	return mat.NewDense(rows, cols, append([]float64(nil), a.data...))
}
