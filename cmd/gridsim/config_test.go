package main

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notargets/gridsim/grid"
)

func writeRunFile(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "grid.hcl")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestLoadRunFile(t *testing.T) {
	path := writeRunFile(t, `
run "copy" "ragged" {
  global = [16]
  local  = [8]
  size   = 12
}

run "scale" "wide" {
  global  = [511]
  local   = [64]
  size    = 511
  scale   = 2.5
  workers = ncpu
}
`)

	rf, err := loadRunFile(path)
	require.NoError(t, err)
	require.Len(t, rf.Runs, 2)

	ragged := rf.Runs[0]
	assert.Equal(t, "copy", ragged.Kernel)
	assert.Equal(t, "ragged", ragged.Name)
	assert.Equal(t, []int{16}, ragged.Global)
	assert.Equal(t, []int{8}, ragged.Local)
	assert.Equal(t, 12, ragged.Size)
	assert.Nil(t, ragged.Scale)

	wide := rf.Runs[1]
	require.NotNil(t, wide.Scale)
	assert.Equal(t, 2.5, *wide.Scale)
	assert.Equal(t, runtime.NumCPU(), wide.Workers)
}

func TestLoadRunFile_Invalid(t *testing.T) {
	testCases := []struct {
		name     string
		contents string
	}{
		{
			"unknown_kernel",
			`run "transmogrify" "x" {
  global = [8]
  local  = [8]
  size   = 8
}`,
		},
		{
			"rank_mismatch",
			`run "copy" "x" {
  global = [8, 8]
  local  = [8]
  size   = 8
}`,
		},
		{
			"zero_local",
			`run "copy" "x" {
  global = [8]
  local  = [0]
  size   = 8
}`,
		},
		{
			"bad_size",
			`run "copy" "x" {
  global = [8]
  local  = [8]
  size   = 0
}`,
		},
		{
			"not_1d",
			`run "copy" "x" {
  global = [8, 8]
  local  = [4, 4]
  size   = 64
}`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := loadRunFile(writeRunFile(t, tc.contents))
			assert.Error(t, err)
		})
	}
}

func TestBuiltinKernels(t *testing.T) {
	scale := 3.0
	fill := 7.0

	t.Run("copy", func(t *testing.T) {
		result := mustRunKernel(t, &runBlock{
			Kernel: "copy", Name: "t", Global: []int{16}, Local: []int{8}, Size: 12,
		})
		assert.Equal(t, []float64{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11}, result)
	})

	t.Run("scale", func(t *testing.T) {
		result := mustRunKernel(t, &runBlock{
			Kernel: "scale", Name: "t", Global: []int{8}, Local: []int{4}, Size: 8,
			Scale: &scale,
		})
		assert.Equal(t, []float64{0, 3, 6, 9, 12, 15, 18, 21}, result)
	})

	t.Run("fill", func(t *testing.T) {
		result := mustRunKernel(t, &runBlock{
			Kernel: "fill", Name: "t", Global: []int{10}, Local: []int{4}, Size: 10,
			Fill: &fill,
		})
		assert.Equal(t, []float64{7, 7, 7, 7, 7, 7, 7, 7, 7, 7}, result)
	})
}

func mustRunKernel(t *testing.T, rb *runBlock) []float64 {
	t.Helper()
	fn, ok := kernels[rb.Kernel]
	require.True(t, ok, "kernel %q not registered", rb.Kernel)

	result, err := fn(grid.NewDriver(grid.Config{}), rb)
	require.NoError(t, err)
	return result
}
