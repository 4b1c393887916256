package grid

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/notargets/gridsim/metrics"
)

// Body is the user function invoked once per tile. A non-nil error aborts
// the remaining enumeration and propagates to the Run caller unmodified
// apart from tile-identifying context. Bodies reach their backing arrays
// by closure capture.
type Body func(g *Group) error

// Config holds driver configuration. The zero value is the reference
// oracle: sequential, deterministic, silent.
type Config struct {
	// Workers > 1 executes independent tiles on that many goroutines.
	// Tile visit order is then unspecified; results are identical to the
	// sequential mode only when no two tiles touch overlapping
	// destination regions, which is the caller's contract to keep.
	Workers int

	// Logger, when non-nil, receives debug-level run and tile events.
	Logger *zerolog.Logger
}

// Driver enumerates all tiles of an iteration space and invokes a user
// body once per tile. A Driver holds no residual state between runs and
// may be reused; the zero-config driver is safe for concurrent Run calls.
type Driver struct {
	workers int
	log     zerolog.Logger
}

// NewDriver creates a driver from cfg, applying zero-value defaults.
func NewDriver(cfg Config) *Driver {
	workers := cfg.Workers
	if workers < 1 {
		workers = 1
	}
	log := zerolog.Nop()
	if cfg.Logger != nil {
		log = *cfg.Logger
	}
	return &Driver{workers: workers, log: log}
}

// Run executes body once per work-group of the global/local decomposition.
//
// Groups are enumerated in row-major order, last dimension fastest, first
// dimension slowest. The ordering is part of the contract: callers that
// accumulate per-tile side effects in sequence rely on it. Workers > 1
// trades that ordering away for throughput, as documented on Config.
//
// Fails with ErrInvalidShape for rank mismatches or non-positive size
// components; a body failure aborts the remaining tiles (fail-fast, no
// retry, no partial-tile recovery).
func (d *Driver) Run(global, local []int, body Body) error {
	counts, err := GroupCount(global, local)
	if err != nil {
		return err
	}
	total := volume(counts)

	d.log.Debug().
		Ints("global", global).
		Ints("local", local).
		Ints("groups", counts).
		Int("tiles", total).
		Int("workers", d.workers).
		Msg("grid run start")

	metrics.GridRuns.Inc()
	metrics.RunTileCount.Observe(float64(total))
	start := time.Now()

	if d.workers > 1 {
		err = d.runParallel(counts, local, global, total, body)
	} else {
		err = d.runSequential(counts, local, global, total, body)
	}

	metrics.RunDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.GridRunFailures.Inc()
		d.log.Debug().Err(err).Msg("grid run aborted")
		return err
	}
	d.log.Debug().Dur("elapsed", time.Since(start)).Msg("grid run done")
	return nil
}

func (d *Driver) runSequential(counts, local, global []int, total int, body Body) error {
	for linear := 0; linear < total; linear++ {
		if err := d.runTile(linear, counts, local, global, body); err != nil {
			return err
		}
	}
	return nil
}

// runParallel splits the linear tile range into contiguous chunks, one per
// worker, so each goroutine walks a cache-friendly run of neighboring
// tiles. Fail-fast is cooperative: workers stop at the next tile boundary
// once any body has failed.
func (d *Driver) runParallel(counts, local, global []int, total int, body Body) error {
	workers := d.workers
	if workers > total {
		workers = total
	}
	chunk := (total + workers - 1) / workers

	eg, ctx := errgroup.WithContext(context.Background())
	for w := 0; w < workers; w++ {
		lo := w * chunk
		hi := lo + chunk
		if hi > total {
			hi = total
		}
		eg.Go(func() error {
			for linear := lo; linear < hi; linear++ {
				if err := ctx.Err(); err != nil {
					return err
				}
				if err := d.runTile(linear, counts, local, global, body); err != nil {
					return err
				}
			}
			return nil
		})
	}
	return eg.Wait()
}

func (d *Driver) runTile(linear int, counts, local, global []int, body Body) error {
	index := delinearize(linear, counts)
	g := newGroup(index, local, global)
	if err := body(g); err != nil {
		return fmt.Errorf("tile %v: %w", index, err)
	}
	metrics.TilesExecuted.Inc()
	return nil
}

// delinearize converts a linear tile number to a group index in row-major
// order: the last dimension varies fastest.
func delinearize(linear int, counts []int) []int {
	index := make([]int, len(counts))
	for d := len(counts) - 1; d >= 0; d-- {
		index[d] = linear % counts[d]
		linear /= counts[d]
	}
	return index
}

// Run executes body over the decomposition with the zero-value Config:
// sequential tiles in deterministic row-major order.
func Run(global, local []int, body Body) error {
	return NewDriver(Config{}).Run(global, local, body)
}
