package metrics_test

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/notargets/gridsim/grid"
	"github.com/notargets/gridsim/metrics"
)

func TestDriverInstrumentation(t *testing.T) {
	runsBefore := testutil.ToFloat64(metrics.GridRuns)
	tilesBefore := testutil.ToFloat64(metrics.TilesExecuted)

	err := grid.Run([]int{16}, []int{8}, func(g *grid.Group) error { return nil })
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if got := testutil.ToFloat64(metrics.GridRuns) - runsBefore; got != 1 {
		t.Errorf("Expected 1 run counted, got %v", got)
	}
	if got := testutil.ToFloat64(metrics.TilesExecuted) - tilesBefore; got != 2 {
		t.Errorf("Expected 2 tiles counted, got %v", got)
	}
}

func TestFailureInstrumentation(t *testing.T) {
	failuresBefore := testutil.ToFloat64(metrics.GridRunFailures)

	err := grid.Run([]int{16}, []int{8}, func(g *grid.Group) error {
		return errors.New("boom")
	})
	if err == nil {
		t.Fatal("Expected body failure to propagate")
	}

	if got := testutil.ToFloat64(metrics.GridRunFailures) - failuresBefore; got != 1 {
		t.Errorf("Expected 1 failure counted, got %v", got)
	}
}
