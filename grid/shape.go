package grid

import (
	"errors"
	"fmt"
)

// MaxRank is the highest supported rank of an iteration space.
const MaxRank = 3

// ErrInvalidShape reports size tuples with mismatched ranks, unsupported
// ranks, or non-positive components.
var ErrInvalidShape = errors.New("invalid shape")

// ErrOutOfRange reports a transfer base offset with a negative component.
// Offsets past the far edge of an array are not errors: the masked
// transfer machinery absorbs them.
var ErrOutOfRange = errors.New("offset out of range")

// ValidateSizes checks a global/local size pair: equal ranks between 1 and
// MaxRank, all components strictly positive.
func ValidateSizes(global, local []int) error {
	if len(global) != len(local) {
		return fmt.Errorf("%w: global rank %d != local rank %d",
			ErrInvalidShape, len(global), len(local))
	}
	if len(global) < 1 || len(global) > MaxRank {
		return fmt.Errorf("%w: rank %d outside [1,%d]",
			ErrInvalidShape, len(global), MaxRank)
	}
	for d := range global {
		if global[d] <= 0 {
			return fmt.Errorf("%w: global[%d]=%d must be positive",
				ErrInvalidShape, d, global[d])
		}
		if local[d] <= 0 {
			return fmt.Errorf("%w: local[%d]=%d must be positive",
				ErrInvalidShape, d, local[d])
		}
	}
	return nil
}

// GroupCount returns ceil(global[d]/local[d]) per dimension: the number of
// work-groups needed to cover the global iteration space.
func GroupCount(global, local []int) ([]int, error) {
	if err := ValidateSizes(global, local); err != nil {
		return nil, err
	}
	counts := make([]int, len(global))
	for d := range global {
		counts[d] = (global[d] + local[d] - 1) / local[d]
	}
	return counts, nil
}

// GroupOrigin returns the global-space origin of the group at index:
// elementwise index[d]*local[d].
func GroupOrigin(index, local []int) []int {
	origin := make([]int, len(index))
	for d := range index {
		origin[d] = index[d] * local[d]
	}
	return origin
}

// GroupExtent returns the clipped extent of the group at origin:
// elementwise min(local[d], global[d]-origin[d]). Interior groups get the
// nominal local size; only groups abutting the trailing edge of a
// non-divisible dimension come out smaller.
func GroupExtent(origin, local, global []int) []int {
	extent := make([]int, len(origin))
	for d := range origin {
		extent[d] = local[d]
		if rem := global[d] - origin[d]; rem < extent[d] {
			extent[d] = rem
		}
	}
	return extent
}

// volume returns the element count of a box, zero if any side is empty.
func volume(box []int) int {
	n := 1
	for _, s := range box {
		n *= s
	}
	if n < 0 {
		return 0
	}
	return n
}

// eachIndex visits every coordinate of the box [0, box) in row-major order,
// last dimension fastest. Empty boxes visit nothing. The callback must not
// retain idx across calls.
func eachIndex(box []int, fn func(idx []int)) {
	for _, s := range box {
		if s <= 0 {
			return
		}
	}
	idx := make([]int, len(box))
	for {
		fn(idx)
		d := len(box) - 1
		for ; d >= 0; d-- {
			idx[d]++
			if idx[d] < box[d] {
				break
			}
			idx[d] = 0
		}
		if d < 0 {
			return
		}
	}
}
