package main

import (
	"fmt"

	"github.com/notargets/gridsim/grid"
)

// kernelFunc executes one named built-in over a run block's decomposition
// and returns the resulting destination array for reporting.
type kernelFunc func(d *grid.Driver, run *runBlock) ([]float64, error)

// kernels are the built-in 1-D bodies a run block can name. Each is a
// plain tile body over masked load/store, the same shape a compiler
// pipeline would hand the driver.
var kernels = map[string]kernelFunc{
	"copy":  runCopy,
	"scale": runScale,
	"fill":  runFill,
}

func sourceArray(n int) (*grid.Array[float64], error) {
	data := make([]float64, n)
	for i := range data {
		data[i] = float64(i)
	}
	return grid.FromSlice(data, n)
}

func destArray(n int) (*grid.Array[float64], error) {
	data := make([]float64, n)
	for i := range data {
		data[i] = -1
	}
	return grid.FromSlice(data, n)
}

func runCopy(d *grid.Driver, run *runBlock) ([]float64, error) {
	src, err := sourceArray(run.Size)
	if err != nil {
		return nil, err
	}
	dst, err := destArray(run.Size)
	if err != nil {
		return nil, err
	}

	err = d.Run(run.Global, run.Local, func(g *grid.Group) error {
		buf, err := grid.Load(src, g.WorkOffset(), localShape(run, g))
		if err != nil {
			return err
		}
		return grid.Store(dst, g.WorkOffset(), buf)
	})
	if err != nil {
		return nil, err
	}
	return dst.Data(), nil
}

func runScale(d *grid.Driver, run *runBlock) ([]float64, error) {
	factor := 2.0
	if run.Scale != nil {
		factor = *run.Scale
	}

	src, err := sourceArray(run.Size)
	if err != nil {
		return nil, err
	}
	dst, err := destArray(run.Size)
	if err != nil {
		return nil, err
	}

	err = d.Run(run.Global, run.Local, func(g *grid.Group) error {
		buf, err := grid.Load(src, g.WorkOffset(), localShape(run, g))
		if err != nil {
			return err
		}
		for i, v := range buf.Compact() {
			buf.Set(v*factor, i)
		}
		return grid.Store(dst, g.WorkOffset(), buf)
	})
	if err != nil {
		return nil, err
	}
	return dst.Data(), nil
}

func runFill(d *grid.Driver, run *runBlock) ([]float64, error) {
	value := 0.0
	if run.Fill != nil {
		value = *run.Fill
	}

	dst, err := destArray(run.Size)
	if err != nil {
		return nil, err
	}

	err = d.Run(run.Global, run.Local, func(g *grid.Group) error {
		shape := g.GroupShape()
		buf, err := grid.Empty[float64](shape...)
		if err != nil {
			return err
		}
		for i := 0; i < shape[0]; i++ {
			buf.Set(value, i)
		}
		return grid.Store(dst, g.WorkOffset(), buf)
	})
	if err != nil {
		return nil, err
	}
	return dst.Data(), nil
}

// localShape returns the nominal tile shape for the run; masking handles
// the ragged trailing tile, so bodies never consult the clipped extent for
// transfers.
func localShape(run *runBlock, g *grid.Group) []int {
	if g.Rank() != len(run.Local) {
		panic(fmt.Sprintf("group rank %d != run rank %d", g.Rank(), len(run.Local)))
	}
	return append([]int(nil), run.Local...)
}
