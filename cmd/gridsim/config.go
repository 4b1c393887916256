package main

import (
	"fmt"
	"runtime"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"

	"github.com/notargets/gridsim/grid"
)

// runBlock is one `run "kernel" "name" { ... }` block from a grid file.
type runBlock struct {
	Kernel string `hcl:"kernel,label"`
	Name   string `hcl:"name,label"`

	Global []int `hcl:"global"`
	Local  []int `hcl:"local"`

	// Size is the backing array length for the 1-D built-in kernels.
	Size int `hcl:"size"`

	Scale   *float64 `hcl:"scale,optional"`
	Fill    *float64 `hcl:"fill,optional"`
	Workers int      `hcl:"workers,optional"`
}

// runFile is the top-level structure of a grid file.
type runFile struct {
	Runs []*runBlock `hcl:"run,block"`
}

// evalContext exposes host facts to run-file expressions, so a file can
// say `workers = ncpu` instead of hard-coding a count.
func evalContext() *hcl.EvalContext {
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"ncpu": cty.NumberIntVal(int64(runtime.NumCPU())),
		},
	}
}

// loadRunFile parses and decodes a grid file, validating every block's
// sizes up front so a bad file fails before any run starts.
func loadRunFile(path string) (*runFile, error) {
	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse %s: %w", path, diags)
	}

	var rf runFile
	if diags := gohcl.DecodeBody(hclFile.Body, evalContext(), &rf); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode %s: %w", path, diags)
	}

	for _, run := range rf.Runs {
		if err := grid.ValidateSizes(run.Global, run.Local); err != nil {
			return nil, fmt.Errorf("run %q: %w", run.Name, err)
		}
		if len(run.Global) != 1 {
			return nil, fmt.Errorf("run %q: built-in kernels take 1-D sizes, got rank %d",
				run.Name, len(run.Global))
		}
		if run.Size <= 0 {
			return nil, fmt.Errorf("run %q: size %d must be positive", run.Name, run.Size)
		}
		if _, ok := kernels[run.Kernel]; !ok {
			return nil, fmt.Errorf("run %q: unknown kernel %q", run.Name, run.Kernel)
		}
	}
	return &rf, nil
}
