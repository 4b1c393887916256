// Command gridsim executes grid runs described in an HCL file through the
// host simulator, for example:
//
//	run "copy" "ragged" {
//	  global = [16]
//	  local  = [8]
//	  size   = 12
//	}
//
//	run "scale" "wide" {
//	  global  = [511]
//	  local   = [64]
//	  size    = 511
//	  scale   = 2.5
//	  workers = ncpu
//	}
package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/notargets/gridsim/grid"
)

func main() {
	var (
		configPath  = flag.String("config", "grid.hcl", "path to the grid run file")
		logLevel    = flag.String("log-level", "info", "log level (debug, info, warn, error)")
		logFormat   = flag.String("log-format", "console", "log format (console, json)")
		metricsAddr = flag.String("metrics-addr", "", "serve prometheus metrics on this address (empty disables)")
	)
	flag.Parse()

	log := setupLogger(*logLevel, *logFormat)

	if *metricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		go func() {
			if err := http.ListenAndServe(*metricsAddr, mux); err != nil {
				log.Error().Err(err).Msg("metrics server failed")
			}
		}()
		log.Info().Str("addr", *metricsAddr).Msg("serving metrics")
	}

	if err := run(*configPath, log); err != nil {
		log.Error().Err(err).Msg("gridsim failed")
		os.Exit(1)
	}
}

func run(configPath string, log zerolog.Logger) error {
	rf, err := loadRunFile(configPath)
	if err != nil {
		return err
	}
	if len(rf.Runs) == 0 {
		return fmt.Errorf("no run blocks in %s", configPath)
	}

	for _, rb := range rf.Runs {
		driver := grid.NewDriver(grid.Config{
			Workers: rb.Workers,
			Logger:  &log,
		})

		start := time.Now()
		result, err := kernels[rb.Kernel](driver, rb)
		if err != nil {
			return fmt.Errorf("run %q: %w", rb.Name, err)
		}

		log.Info().
			Str("run", rb.Name).
			Str("kernel", rb.Kernel).
			Ints("global", rb.Global).
			Ints("local", rb.Local).
			Int("size", rb.Size).
			Float64("checksum", checksum(result)).
			Dur("elapsed", time.Since(start)).
			Msg("run complete")
	}
	return nil
}

func checksum(data []float64) float64 {
	var sum float64
	for _, v := range data {
		sum += v
	}
	return sum
}

// setupLogger builds a stderr logger at the requested level: console
// writer for humans, raw JSON for collection.
func setupLogger(level, format string) zerolog.Logger {
	var logLevel zerolog.Level
	switch strings.ToLower(level) {
	case "debug":
		logLevel = zerolog.DebugLevel
	case "warn":
		logLevel = zerolog.WarnLevel
	case "error":
		logLevel = zerolog.ErrorLevel
	default:
		logLevel = zerolog.InfoLevel
	}

	if strings.ToLower(format) == "json" {
		return zerolog.New(os.Stderr).Level(logLevel).With().Timestamp().Logger()
	}
	output := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	return zerolog.New(output).Level(logLevel).With().Timestamp().Logger()
}
