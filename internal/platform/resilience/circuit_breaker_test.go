package resilience

import (
	"errors"
	"testing"
	"time"
)

func newTestBreaker(threshold, halfOpenMax int, openTimeout time.Duration) (*CircuitBreaker, *time.Time) {
	b := NewCircuitBreaker(CircuitBreakerConfig{
		FailureThreshold: threshold,
		OpenTimeout:      openTimeout,
		HalfOpenMaxReq:   halfOpenMax,
	})
	now := time.Unix(1700000000, 0)
	b.now = func() time.Time { return now }
	return b, &now
}

func TestCircuitBreakerOpensAfterThreshold(t *testing.T) {
	b, _ := newTestBreaker(2, 1, time.Minute)
	failing := func() error { return errors.New("boom") }

	if err := b.Execute(failing); err == nil {
		t.Fatal("expected failure")
	}
	if b.State() != CircuitStateClosed {
		t.Fatalf("state = %s, want closed", b.State())
	}

	_ = b.Execute(failing)
	if b.State() != CircuitStateOpen {
		t.Fatalf("state = %s, want open", b.State())
	}

	if err := b.Execute(func() error { return nil }); !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("err = %v, want ErrCircuitOpen", err)
	}
}

func TestCircuitBreakerRecoversThroughHalfOpen(t *testing.T) {
	b, now := newTestBreaker(1, 1, time.Minute)

	_ = b.Execute(func() error { return errors.New("boom") })
	if b.State() != CircuitStateOpen {
		t.Fatalf("state = %s, want open", b.State())
	}

	*now = now.Add(2 * time.Minute)
	if b.State() != CircuitStateHalfOpen {
		t.Fatalf("state = %s, want half_open", b.State())
	}

	if err := b.Execute(func() error { return nil }); err != nil {
		t.Fatalf("probe failed: %v", err)
	}
	if b.State() != CircuitStateClosed {
		t.Fatalf("state = %s, want closed", b.State())
	}
}

func TestCircuitBreakerHalfOpenFailureReopens(t *testing.T) {
	b, now := newTestBreaker(1, 1, time.Minute)

	_ = b.Execute(func() error { return errors.New("boom") })
	*now = now.Add(2 * time.Minute)

	_ = b.Execute(func() error { return errors.New("still down") })
	if b.State() != CircuitStateOpen {
		t.Fatalf("state = %s, want open", b.State())
	}
}

func TestCircuitBreakerSuccessResetsFailureCount(t *testing.T) {
	b, _ := newTestBreaker(2, 1, time.Minute)

	_ = b.Execute(func() error { return errors.New("boom") })
	_ = b.Execute(func() error { return nil })
	_ = b.Execute(func() error { return errors.New("boom") })

	if b.State() != CircuitStateClosed {
		t.Fatalf("state = %s, want closed after interleaved success", b.State())
	}
}
