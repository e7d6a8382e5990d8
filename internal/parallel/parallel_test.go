package parallel

import (
	"sync/atomic"
	"testing"
)

func TestFor(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MinWork = 1

	var counter int64
	n := 1000
	For(n, func(_ int) {
		atomic.AddInt64(&counter, 1)
	}, cfg)
	if counter != int64(n) {
		t.Errorf("expected %d calls, got %d", n, counter)
	}

	// Every index must be visited exactly once.
	seen := make([]int32, n)
	For(n, func(i int) {
		atomic.AddInt32(&seen[i], 1)
	}, cfg)
	for i, count := range seen {
		if count != 1 {
			t.Errorf("index %d visited %d times", i, count)
		}
	}
}

func TestForSequential(t *testing.T) {
	cfg := Config{Enabled: false}

	var counter int64
	For(100, func(_ int) {
		atomic.AddInt64(&counter, 1)
	}, cfg)
	if counter != 100 {
		t.Errorf("expected 100 calls, got %d", counter)
	}
}

func TestForSmallWork(t *testing.T) {
	// Below MinWork the loop runs sequentially on the calling goroutine,
	// so ordering is guaranteed.
	cfg := DefaultConfig()
	var order []int
	For(10, func(i int) {
		order = append(order, i)
	}, cfg)
	for i, got := range order {
		if got != i {
			t.Fatalf("expected sequential order, got %v", order)
		}
	}
}

func TestForZero(t *testing.T) {
	called := false
	For(0, func(_ int) { called = true }, DefaultConfig())
	if called {
		t.Error("expected no calls for n=0")
	}
}
