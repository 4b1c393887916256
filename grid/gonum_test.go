package grid

import (
	"testing"

	"gonum.org/v1/gonum/mat"
)

func TestMatrixRoundTrip(t *testing.T) {
	m := mat.NewDense(3, 4, []float64{
		1, 2, 3, 4,
		5, 6, 7, 8,
		9, 10, 11, 12,
	})

	a := FromMatrix(m)
	if a.Rank() != 2 || a.At(1, 2) != 7 {
		t.Fatalf("FromMatrix produced wrong array: rank=%d a[1][2]=%v", a.Rank(), a.At(1, 2))
	}

	back := ToMatrix(a)
	if !mat.Equal(m, back) {
		t.Errorf("Round trip changed matrix:\nwant\n%v\ngot\n%v",
			mat.Formatted(m), mat.Formatted(back))
	}
}

// TestTiledScale_AgainstGonum scales a ragged matrix tile by tile through
// the masked load/store path and compares against mat.Dense.Scale.
func TestTiledScale_AgainstGonum(t *testing.T) {
	const rows, cols = 13, 9
	const factor = 2.5

	data := make([]float64, rows*cols)
	for i := range data {
		data[i] = float64(i) * 0.25
	}
	m := mat.NewDense(rows, cols, data)

	a := FromMatrix(m)
	out, err := NewArray[float64](rows, cols)
	if err != nil {
		t.Fatalf("NewArray failed: %v", err)
	}

	local := []int{4, 4}
	err = Run([]int{rows, cols}, local, func(g *Group) error {
		buf, err := Load(a, g.WorkOffset(), local)
		if err != nil {
			return err
		}
		eachIndex(buf.ValidShape(), func(idx []int) {
			buf.Set(buf.At(idx...)*factor, idx...)
		})
		return Store(out, g.WorkOffset(), buf)
	})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	var expected mat.Dense
	expected.Scale(factor, m)
	if !mat.EqualApprox(&expected, ToMatrix(out), 1e-14) {
		t.Error("Tiled scale diverged from mat.Dense.Scale")
	}
}

// TestTiledAdd_AgainstGonum adds two matrices tile by tile with the
// nominal tile shape overhanging both edges and compares against mat.Add.
func TestTiledAdd_AgainstGonum(t *testing.T) {
	const rows, cols = 7, 11

	da := make([]float64, rows*cols)
	db := make([]float64, rows*cols)
	for i := range da {
		da[i] = float64(i)
		db[i] = float64(rows*cols - i)
	}
	ma := mat.NewDense(rows, cols, da)
	mb := mat.NewDense(rows, cols, db)

	aa := FromMatrix(ma)
	ab := FromMatrix(mb)
	out, _ := NewArray[float64](rows, cols)

	local := []int{3, 4}
	err := Run([]int{rows, cols}, local, func(g *Group) error {
		ba, err := Load(aa, g.WorkOffset(), local)
		if err != nil {
			return err
		}
		bb, err := Load(ab, g.WorkOffset(), local)
		if err != nil {
			return err
		}
		eachIndex(ba.ValidShape(), func(idx []int) {
			ba.Set(ba.At(idx...)+bb.At(idx...), idx...)
		})
		return Store(out, g.WorkOffset(), ba)
	})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	var expected mat.Dense
	expected.Add(ma, mb)
	if !mat.Equal(&expected, ToMatrix(out)) {
		t.Error("Tiled add diverged from mat.Add")
	}
}
