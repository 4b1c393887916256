package grid

import (
	"fmt"
)

// Element is the set of numeric kinds a backing array may hold: signed and
// unsigned integers of 8..64 bits and IEEE floats of 32/64 bits.
type Element interface {
	~int8 | ~int16 | ~int32 | ~int64 |
		~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~float32 | ~float64
}

// Array is a dense, row-major N-dimensional backing array, N <= MaxRank.
// It is owned by the caller for the whole lifetime of a grid run; the
// driver only reads and writes through it, never copies or relocates it.
type Array[T Element] struct {
	data    []T
	dims    []int
	strides []int // row-major, strides[rank-1] == 1
}

// NewArray allocates a zeroed array with the given extents.
func NewArray[T Element](dims ...int) (*Array[T], error) {
	if err := validateDims(dims); err != nil {
		return nil, err
	}
	a := &Array[T]{
		data: make([]T, volume(dims)),
		dims: append([]int(nil), dims...),
	}
	a.strides = rowMajorStrides(a.dims)
	return a, nil
}

// FromSlice wraps an existing slice as an array with the given extents.
// The slice is aliased, not copied, so writes through the array are
// visible to the caller. Its length must equal the product of dims.
func FromSlice[T Element](data []T, dims ...int) (*Array[T], error) {
	if err := validateDims(dims); err != nil {
		return nil, err
	}
	if len(data) != volume(dims) {
		return nil, fmt.Errorf("%w: slice length %d != volume %d of dims %v",
			ErrInvalidShape, len(data), volume(dims), dims)
	}
	a := &Array[T]{
		data: data,
		dims: append([]int(nil), dims...),
	}
	a.strides = rowMajorStrides(a.dims)
	return a, nil
}

// Rank returns the number of dimensions.
func (a *Array[T]) Rank() int { return len(a.dims) }

// Dims returns a copy of the per-dimension extents.
func (a *Array[T]) Dims() []int { return append([]int(nil), a.dims...) }

// Len returns the total element count.
func (a *Array[T]) Len() int { return len(a.data) }

// Data returns the underlying row-major storage.
func (a *Array[T]) Data() []T { return a.data }

// At returns the element at the given coordinate.
func (a *Array[T]) At(idx ...int) T {
	return a.data[a.offset(idx)]
}

// Set writes the element at the given coordinate.
func (a *Array[T]) Set(v T, idx ...int) {
	a.data[a.offset(idx)] = v
}

func (a *Array[T]) offset(idx []int) int {
	if len(idx) != len(a.dims) {
		panic(fmt.Sprintf("index rank %d != array rank %d", len(idx), len(a.dims)))
	}
	off := 0
	for d, i := range idx {
		if i < 0 || i >= a.dims[d] {
			panic(fmt.Sprintf("index %v out of bounds for dims %v", idx, a.dims))
		}
		off += i * a.strides[d]
	}
	return off
}

func validateDims(dims []int) error {
	if len(dims) < 1 || len(dims) > MaxRank {
		return fmt.Errorf("%w: rank %d outside [1,%d]",
			ErrInvalidShape, len(dims), MaxRank)
	}
	for d, s := range dims {
		if s <= 0 {
			return fmt.Errorf("%w: dims[%d]=%d must be positive",
				ErrInvalidShape, d, s)
		}
	}
	return nil
}

func rowMajorStrides(dims []int) []int {
	strides := make([]int, len(dims))
	stride := 1
	for d := len(dims) - 1; d >= 0; d-- {
		strides[d] = stride
		stride *= dims[d]
	}
	return strides
}
