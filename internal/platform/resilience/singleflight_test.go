package resilience

import (
	"sync"
	"sync/atomic"
	"testing"
)

func TestSingleFlightCollapsesConcurrentCalls(t *testing.T) {
	var g SingleFlight
	var calls atomic.Int32
	release := make(chan struct{})

	var wg sync.WaitGroup
	results := make([]any, 10)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			v, err, _ := g.Do("key", func() (any, error) {
				calls.Add(1)
				<-release
				return "value", nil
			})
			if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			results[i] = v
		}(i)
	}

	close(release)
	wg.Wait()

	if got := calls.Load(); got != 1 {
		t.Fatalf("loader ran %d times, want 1", got)
	}
	for i, v := range results {
		if v != "value" {
			t.Fatalf("results[%d] = %v, want value", i, v)
		}
	}
}

func TestSingleFlightDistinctKeysRunIndependently(t *testing.T) {
	var g SingleFlight

	a, _, _ := g.Do("a", func() (any, error) { return 1, nil })
	b, _, _ := g.Do("b", func() (any, error) { return 2, nil })

	if a != 1 || b != 2 {
		t.Fatalf("got %v, %v", a, b)
	}
}
