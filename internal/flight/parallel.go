package flight

import (
	"context"
	"runtime"
	"sync"
)

// Ensemble runs many releases of the same system in parallel, one
// trajectory per initial state. Simulators and integrators carry scratch
// buffers, so each worker builds its own through the factory.
type Ensemble struct {
	newSim  func() *Simulator
	workers int
}

func NewEnsemble(newSim func() *Simulator, workers int) *Ensemble {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	return &Ensemble{newSim: newSim, workers: workers}
}

// Run integrates every start state and returns results in input order.
// The first run error aborts the remaining work via the shared context.
func (e *Ensemble) Run(ctx context.Context, starts []State, cfg Config) ([]*Result, error) {
	results := make([]*Result, len(starts))
	errs := make([]error, len(starts))

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	jobs := make(chan int)

	var wg sync.WaitGroup
	workers := e.workers
	if workers > len(starts) {
		workers = len(starts)
	}
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			sim := e.newSim()
			for idx := range jobs {
				results[idx], errs[idx] = sim.Run(ctx, starts[idx], cfg)
				if errs[idx] != nil {
					cancel()
				}
			}
		}()
	}

feed:
	for i := range starts {
		select {
		case jobs <- i:
		case <-ctx.Done():
			break feed
		}
	}
	close(jobs)
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return results, err
		}
	}
	// Cancellation can empty the feed before any worker reports an error.
	if err := ctx.Err(); err != nil {
		return results, err
	}
	return results, nil
}

// ParallelFor executes fn over [0, n) in parallel chunks. Small ranges
// run inline.
func ParallelFor(n, minChunk int, fn func(start, end int)) {
	workers := runtime.GOMAXPROCS(0)
	if n <= minChunk || workers <= 1 {
		fn(0, n)
		return
	}

	if n/minChunk < workers {
		workers = n / minChunk
	}
	if workers < 1 {
		workers = 1
	}

	chunkSize := (n + workers - 1) / workers

	var wg sync.WaitGroup
	wg.Add(workers)

	for w := 0; w < workers; w++ {
		start := w * chunkSize
		end := start + chunkSize
		if end > n {
			end = n
		}

		go func(s, e int) {
			defer wg.Done()
			fn(s, e)
		}(start, end)
	}

	wg.Wait()
}
