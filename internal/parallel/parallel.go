// Package parallel provides fan-out helpers for element-wise work over
// independent index ranges.
package parallel

import (
	"runtime"
	"sync"
)

// Config controls parallel execution behavior.
type Config struct {
	Enabled      bool // Whether parallel execution is enabled.
	NumWorkers   int  // Number of worker goroutines to use.
	MinWork      int  // Minimum items per goroutine to avoid overhead.
}

// DefaultConfig returns sensible defaults based on CPU count.
func DefaultConfig() Config {
	n := runtime.NumCPU()
	return Config{
		Enabled:    n > 1,
		NumWorkers: n,
		MinWork:    256,
	}
}

// For executes f(i) for i in [0, n), splitting the range across workers.
// Falls back to sequential execution if parallelism is disabled or n is too
// small to amortize the goroutine overhead. f must not depend on ordering
// and must only write to state owned by index i.
func For(n int, f func(i int), cfg Config) {
	if !cfg.Enabled || n < cfg.MinWork || cfg.NumWorkers < 2 {
		for i := range n {
			f(i)
		}
		return
	}

	chunkSize := max((n+cfg.NumWorkers-1)/cfg.NumWorkers, cfg.MinWork)
	var wg sync.WaitGroup
	for start := 0; start < n; start += chunkSize {
		end := min(start+chunkSize, n)
		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			for i := s; i < e; i++ {
				f(i)
			}
		}(start, end)
	}
	wg.Wait()
}
