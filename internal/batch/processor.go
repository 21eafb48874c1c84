// Package batch fans independent work items (image rows, raster bands) over
// a fixed pool of goroutines.
package batch

import (
	"context"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/exp/rand"
)

// Config controls a parallel run.
type Config struct {
	Workers  int           // <= 0 means runtime.NumCPU()
	Label    string        // shown in progress lines
	Logger   *log.Logger   // nil disables progress reporting
	Progress time.Duration // reporting interval, default 2s
}

func (c Config) workers(n int) int {
	w := c.Workers
	if w <= 0 {
		w = runtime.NumCPU()
	}
	if w > n {
		w = n
	}
	if w < 1 {
		w = 1
	}
	return w
}

// Run calls work(i) for every i in [0, n) using a worker pool. Every index
// is handed to exactly one worker; callers partition their output by index
// so no two workers touch the same cell. Cancellation is checked between
// items; Run returns ctx.Err() if it stopped early.
func Run(ctx context.Context, cfg Config, n int, work func(i int)) error {
	if n <= 0 {
		return ctx.Err()
	}
	var processed atomic.Int64
	start := time.Now()

	// Progress reporter
	done := make(chan struct{})
	if cfg.Logger != nil {
		interval := cfg.Progress
		if interval <= 0 {
			interval = 2 * time.Second
		}
		go func() {
			ticker := time.NewTicker(interval)
			defer ticker.Stop()
			for {
				select {
				case <-done:
					return
				case <-ticker.C:
					p := processed.Load()
					if p > 0 {
						rate := float64(p) / time.Since(start).Seconds()
						cfg.Logger.Debug("progress", "task", cfg.Label, "done", p, "total", n, "per_sec", rate)
					}
				}
			}
		}()
	}

	workers := cfg.workers(n)
	itemChan := make(chan int, workers*2)
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range itemChan {
				if ctx.Err() != nil {
					continue // drain
				}
				work(idx)
				processed.Add(1)
			}
		}()
	}

	// Send work
send:
	for i := 0; i < n; i++ {
		select {
		case itemChan <- i:
		case <-ctx.Done():
			break send
		}
	}
	close(itemChan)

	wg.Wait()
	close(done)

	if cfg.Logger != nil {
		cfg.Logger.Debug("finished", "task", cfg.Label, "done", processed.Load(), "total", n, "elapsed", time.Since(start).Round(time.Millisecond))
	}
	return ctx.Err()
}

// RowRand returns the generator for one row of a seeded render. Each row
// owns its generator so results do not depend on scheduling or on the
// number of workers.
func RowRand(seed uint64, row int) *rand.Rand {
	return rand.New(rand.NewSource(seed*0x9E3779B97F4A7C15 + uint64(row) + 1))
}
