// Package parallel splits independent element loops across goroutines.
//
// Loops shorter than the configured grain run inline on the caller's
// goroutine; longer loops are cut into contiguous chunks and joined before
// For returns, so callers observe a synchronous operation.
package parallel

import (
	"runtime"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
)

// Config controls how loops are split.
type Config struct {
	// Grain is the minimum number of iterations per chunk (default: 32768).
	Grain int
	// Workers caps concurrent chunks (default: GOMAXPROCS). 1 disables parallelism.
	Workers int
}

// DefaultConfig returns the configuration used when Configure was never called.
func DefaultConfig() Config {
	return Config{
		Grain:   1 << 15,
		Workers: runtime.GOMAXPROCS(0),
	}
}

var current atomic.Pointer[Config]

func init() {
	cfg := DefaultConfig()
	current.Store(&cfg)
}

// Configure installs cfg for subsequent loops. Zero fields take their defaults.
func Configure(cfg Config) {
	def := DefaultConfig()
	if cfg.Grain <= 0 {
		cfg.Grain = def.Grain
	}
	if cfg.Workers <= 0 {
		cfg.Workers = def.Workers
	}
	current.Store(&cfg)
}

// Current returns the active configuration.
func Current() Config {
	return *current.Load()
}

// For calls fn over [0, n) in contiguous [start, end) chunks.
// fn must only write to indices inside its chunk.
func For(n int, fn func(start, end int)) {
	if n <= 0 {
		return
	}
	cfg := current.Load()
	chunks := n / cfg.Grain
	if chunks > cfg.Workers {
		chunks = cfg.Workers
	}
	if chunks <= 1 {
		fn(0, n)
		return
	}

	var g errgroup.Group
	g.SetLimit(cfg.Workers)
	step := (n + chunks - 1) / chunks
	for start := 0; start < n; start += step {
		start := start
		end := min(start+step, n)
		g.Go(func() error {
			fn(start, end)
			return nil
		})
	}
	g.Wait() //nolint:errcheck // chunks never return an error
}
