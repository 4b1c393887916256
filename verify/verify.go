// Package verify cross-checks device kernels against the host grid
// simulator. The simulator is the oracle: a kernel compiled for an OCCA
// backend with the same group decomposition must produce identical
// results, including at ragged trailing tiles.
package verify

import (
	"fmt"
	"unsafe"

	"github.com/notargets/gocca"

	"github.com/notargets/gridsim/grid"
)

// Harness runs matched device/host executions and compares results.
type Harness struct {
	device *gocca.OCCADevice
}

// NewHarness wraps an OCCA device. The caller keeps ownership of the
// device and frees it after the harness is done.
func NewHarness(device *gocca.OCCADevice) *Harness {
	if device == nil {
		panic("device cannot be nil")
	}
	return &Harness{device: device}
}

// tiledCopySource generates a kernel mirroring the host decomposition:
// one @outer iteration per group, @inner over the nominal tile size with
// a bounds guard for the ragged trailing group.
func tiledCopySource(groups, local, n int) string {
	return fmt.Sprintf(`
@kernel void tiledCopy(const double *src, double *dst) {
	for (int g = 0; g < %d; ++g; @outer) {
		for (int i = 0; i < %d; ++i; @inner) {
			const int elemID = g * %d + i;
			if (elemID < %d) {
				dst[elemID] = src[elemID];
			}
		}
	}
}`, groups, local, local, n)
}

// TiledCopy1D copies a length-n array through both paths using a
// globalSize x localSize 1-D decomposition and fails on any divergence.
// n may be smaller than globalSize, exercising the masked trailing tile.
func (h *Harness) TiledCopy1D(globalSize, localSize, n int) error {
	counts, err := grid.GroupCount([]int{globalSize}, []int{localSize})
	if err != nil {
		return err
	}

	src := make([]float64, n)
	for i := range src {
		src[i] = float64(i)
	}

	deviceDst, err := h.runDevice(counts[0], localSize, src)
	if err != nil {
		return err
	}
	hostDst, err := runHost(globalSize, localSize, src)
	if err != nil {
		return err
	}

	for i := range hostDst {
		if deviceDst[i] != hostDst[i] {
			return fmt.Errorf("device/host mismatch at %d: device=%v host=%v",
				i, deviceDst[i], hostDst[i])
		}
	}
	return nil
}

func (h *Harness) runDevice(groups, local int, src []float64) ([]float64, error) {
	n := len(src)
	bytes := int64(n * 8)

	srcMem := h.device.Malloc(bytes, unsafe.Pointer(&src[0]), nil)
	defer srcMem.Free()

	dst := make([]float64, n)
	for i := range dst {
		dst[i] = -1
	}
	dstMem := h.device.Malloc(bytes, unsafe.Pointer(&dst[0]), nil)
	defer dstMem.Free()

	kernel, err := h.device.BuildKernelFromString(
		tiledCopySource(groups, local, n), "tiledCopy", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build tiledCopy kernel: %w", err)
	}
	defer kernel.Free()

	if err := kernel.RunWithArgs(srcMem, dstMem); err != nil {
		return nil, fmt.Errorf("kernel execution failed: %w", err)
	}
	h.device.Finish()

	out := make([]float64, n)
	dstMem.CopyTo(unsafe.Pointer(&out[0]), bytes)
	return out, nil
}

// runHost is the oracle path: the same copy expressed through the masked
// load/store primitives with the nominal tile shape.
func runHost(globalSize, localSize int, src []float64) ([]float64, error) {
	n := len(src)
	srcArr, err := grid.FromSlice(append([]float64(nil), src...), n)
	if err != nil {
		return nil, err
	}
	dstData := make([]float64, n)
	for i := range dstData {
		dstData[i] = -1
	}
	dstArr, err := grid.FromSlice(dstData, n)
	if err != nil {
		return nil, err
	}

	err = grid.Run([]int{globalSize}, []int{localSize}, func(g *grid.Group) error {
		buf, err := grid.Load(srcArr, g.WorkOffset(), []int{localSize})
		if err != nil {
			return err
		}
		return grid.Store(dstArr, g.WorkOffset(), buf)
	})
	if err != nil {
		return nil, err
	}
	return dstArr.Data(), nil
}
