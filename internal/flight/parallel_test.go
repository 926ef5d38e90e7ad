package flight

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"go.uber.org/goleak"
)

func TestEnsembleRun(t *testing.T) {
	defer goleak.VerifyNone(t)

	ensemble := NewEnsemble(func() *Simulator {
		return New(&driftFree{}, &eulerStep{})
	}, 3)

	starts := []State{
		{0, 1}, {0, 2}, {0, 3}, {0, 4}, {0, 5}, {0, 6}, {0, 7},
	}

	results, err := ensemble.Run(context.Background(), starts, Config{Dt: 0.1, Duration: 1.0})
	if err != nil {
		t.Fatalf("ensemble failed: %v", err)
	}

	if len(results) != len(starts) {
		t.Fatalf("got %d results, want %d", len(results), len(starts))
	}

	for i, r := range results {
		if r == nil {
			t.Fatalf("result %d is nil", i)
		}
		if r.States[0][1] != starts[i][1] {
			t.Errorf("result %d out of order: v0 = %v, want %v",
				i, r.States[0][1], starts[i][1])
		}
	}
}

func TestEnsembleCancellation(t *testing.T) {
	defer goleak.VerifyNone(t)

	ensemble := NewEnsemble(func() *Simulator {
		return New(&driftFree{}, &eulerStep{})
	}, 2)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	starts := make([]State, 16)
	for i := range starts {
		starts[i] = State{0, float64(i)}
	}

	_, err := ensemble.Run(ctx, starts, Config{Dt: 0.001, Duration: 5.0})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}

func TestEnsembleMoreWorkersThanRuns(t *testing.T) {
	defer goleak.VerifyNone(t)

	ensemble := NewEnsemble(func() *Simulator {
		return New(&driftFree{}, &eulerStep{})
	}, 32)

	starts := []State{{0, 1}, {0, 2}}
	results, err := ensemble.Run(context.Background(), starts, Config{Dt: 0.1, Duration: 0.5})
	if err != nil {
		t.Fatalf("ensemble failed: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}
}

func TestParallelFor_CoversRange(t *testing.T) {
	defer goleak.VerifyNone(t)

	const n = 1000
	hits := make([]int32, n)

	ParallelFor(n, 16, func(start, end int) {
		for i := start; i < end; i++ {
			atomic.AddInt32(&hits[i], 1)
		}
	})

	for i, h := range hits {
		if h != 1 {
			t.Fatalf("index %d visited %d times", i, h)
		}
	}
}

func TestParallelFor_SmallRangeInline(t *testing.T) {
	var calls int32
	ParallelFor(4, 16, func(start, end int) {
		atomic.AddInt32(&calls, 1)
		if start != 0 || end != 4 {
			t.Errorf("inline chunk = [%d, %d), want [0, 4)", start, end)
		}
	})
	if calls != 1 {
		t.Errorf("small range used %d chunks, want 1", calls)
	}
}
