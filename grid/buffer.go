package grid

import (
	"fmt"
)

// Buffer is a fixed-shape transfer buffer whose valid region is an
// axis-aligned prefix box. A load of shape S at base B against an array
// with extents E marks coordinate c valid iff B[d]+c[d] < E[d] on every
// axis; because B is non-negative, the valid coordinates always form the
// box [0, valid), so the mask is one integer per dimension rather than a
// per-element bitmap.
//
// Scratch buffers from Empty are all-valid and carry no backing array.
type Buffer[T Element] struct {
	data    []T
	shape   []int
	strides []int
	valid   []int // per-dim valid prefix, valid[d] <= shape[d]
}

// Empty returns an all-valid, zero-initialized scratch buffer of the given
// shape. Contents are unspecified by contract; this implementation zeroes.
func Empty[T Element](shape ...int) (*Buffer[T], error) {
	if err := validateDims(shape); err != nil {
		return nil, err
	}
	b := &Buffer[T]{
		data:  make([]T, volume(shape)),
		shape: append([]int(nil), shape...),
		valid: append([]int(nil), shape...),
	}
	b.strides = rowMajorStrides(b.shape)
	return b, nil
}

// Load reads the box [base, base+shape) of arr into a fresh buffer.
// Coordinates past the array edge are marked invalid rather than failing,
// so ragged trailing tiles read with the nominal tile shape need no
// special-casing by the caller. A base entirely outside arr yields a
// buffer with zero valid elements.
//
// Fails with ErrInvalidShape when ranks disagree or shape has a
// non-positive component, and with ErrOutOfRange when base has a negative
// component.
func Load[T Element](arr *Array[T], base, shape []int) (*Buffer[T], error) {
	if err := checkTransfer(arr.Rank(), base, shape); err != nil {
		return nil, err
	}
	b := &Buffer[T]{
		data:  make([]T, volume(shape)),
		shape: append([]int(nil), shape...),
		valid: make([]int, len(shape)),
	}
	b.strides = rowMajorStrides(b.shape)
	for d := range shape {
		b.valid[d] = clamp(arr.dims[d]-base[d], 0, shape[d])
	}
	eachIndex(b.valid, func(idx []int) {
		b.data[b.offset(idx)] = arr.At(addIndex(base, idx)...)
	})
	return b, nil
}

// Store writes the valid elements of buf into arr at base+c, the dual of
// Load. Invalid elements are skipped and the destination is left untouched
// there, so store(arr, off, load(arr, off, shape)) is a no-op for any
// offset/shape pair. Elements whose destination would fall past the array
// edge are likewise skipped.
func Store[T Element](arr *Array[T], base []int, buf *Buffer[T]) error {
	if err := checkTransfer(arr.Rank(), base, buf.shape); err != nil {
		return err
	}
	box := make([]int, len(buf.valid))
	for d := range box {
		box[d] = clamp(arr.dims[d]-base[d], 0, buf.valid[d])
	}
	eachIndex(box, func(idx []int) {
		arr.Set(buf.data[buf.offset(idx)], addIndex(base, idx)...)
	})
	return nil
}

// Shape returns a copy of the buffer's nominal shape.
func (b *Buffer[T]) Shape() []int { return append([]int(nil), b.shape...) }

// ValidShape returns a copy of the valid prefix box.
func (b *Buffer[T]) ValidShape() []int { return append([]int(nil), b.valid...) }

// ValidCount returns the number of valid elements.
func (b *Buffer[T]) ValidCount() int { return volume(b.valid) }

// Valid reports whether the coordinate lies in the valid box.
func (b *Buffer[T]) Valid(idx ...int) bool {
	for d, i := range idx {
		if i >= b.valid[d] {
			return false
		}
	}
	return true
}

// At returns the element at the given coordinate. Reading an invalid
// coordinate returns the zero value the buffer was initialized with.
func (b *Buffer[T]) At(idx ...int) T {
	return b.data[b.offset(idx)]
}

// Set writes the element at the given coordinate.
func (b *Buffer[T]) Set(v T, idx ...int) {
	b.data[b.offset(idx)] = v
}

// Compact returns the valid elements in row-major coordinate order,
// dropping invalid ones. For a ragged trailing tile the result is strictly
// shorter than the buffer's nominal element count.
func (b *Buffer[T]) Compact() []T {
	out := make([]T, 0, b.ValidCount())
	eachIndex(b.valid, func(idx []int) {
		out = append(out, b.data[b.offset(idx)])
	})
	return out
}

func (b *Buffer[T]) offset(idx []int) int {
	if len(idx) != len(b.shape) {
		panic(fmt.Sprintf("index rank %d != buffer rank %d", len(idx), len(b.shape)))
	}
	off := 0
	for d, i := range idx {
		if i < 0 || i >= b.shape[d] {
			panic(fmt.Sprintf("index %v out of bounds for shape %v", idx, b.shape))
		}
		off += i * b.strides[d]
	}
	return off
}

func checkTransfer(rank int, base, shape []int) error {
	if len(shape) != rank || len(base) != rank {
		return fmt.Errorf("%w: transfer rank (base %d, shape %d) != array rank %d",
			ErrInvalidShape, len(base), len(shape), rank)
	}
	for d, s := range shape {
		if s <= 0 {
			return fmt.Errorf("%w: shape[%d]=%d must be positive",
				ErrInvalidShape, d, s)
		}
	}
	for d, o := range base {
		if o < 0 {
			return fmt.Errorf("%w: base[%d]=%d is negative",
				ErrOutOfRange, d, o)
		}
	}
	return nil
}

func addIndex(base, idx []int) []int {
	out := make([]int, len(base))
	for d := range base {
		out[d] = base[d] + idx[d]
	}
	return out
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
