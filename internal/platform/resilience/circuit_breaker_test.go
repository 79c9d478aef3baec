package resilience

import (
	"errors"
	"testing"
	"time"
)

func TestCircuitBreaker_Transitions(t *testing.T) {
	t.Parallel()

	b := NewCircuitBreaker(CircuitBreakerConfig{Enabled: true, FailureThreshold: 2, OpenTimeout: 5 * time.Second, HalfOpenProbes: 1})
	now := time.Date(2026, 8, 16, 15, 0, 0, 0, time.UTC)
	b.now = func() time.Time { return now }

	failing := errors.New("broker down")
	for i := 0; i < 2; i++ {
		if err := b.Execute(func() error { return failing }); !errors.Is(err, failing) {
			t.Fatalf("attempt %d: expected dependency error, got %v", i, err)
		}
	}
	if state := b.State(); state != CircuitStateOpen {
		t.Fatalf("expected open after threshold, got %s", state)
	}

	calls := 0
	if err := b.Execute(func() error { calls++; return nil }); !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("expected ErrCircuitOpen, got %v", err)
	}
	if calls != 0 {
		t.Fatalf("got=%d want=0 calls while open", calls)
	}

	now = now.Add(6 * time.Second)
	if state := b.State(); state != CircuitStateHalfOpen {
		t.Fatalf("expected half-open after timeout, got %s", state)
	}
	if err := b.Execute(func() error { calls++; return nil }); err != nil {
		t.Fatalf("probe should pass: %v", err)
	}
	if state := b.State(); state != CircuitStateClosed {
		t.Fatalf("expected closed after probe success, got %s", state)
	}
}

func TestCircuitBreaker_HalfOpenFailureReopens(t *testing.T) {
	t.Parallel()

	b := NewCircuitBreaker(CircuitBreakerConfig{Enabled: true, FailureThreshold: 1, OpenTimeout: time.Second})
	now := time.Date(2026, 8, 16, 15, 0, 0, 0, time.UTC)
	b.now = func() time.Time { return now }

	b.RecordFailure()
	now = now.Add(2 * time.Second)
	if err := b.Allow(); err != nil {
		t.Fatalf("probe should be allowed: %v", err)
	}
	if err := b.Allow(); !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("second probe should be refused, got %v", err)
	}
	b.RecordFailure()
	if state := b.State(); state != CircuitStateOpen {
		t.Fatalf("expected open after failed probe, got %s", state)
	}
}

func TestCircuitBreaker_DisabledPassesThrough(t *testing.T) {
	t.Parallel()

	b := NewCircuitBreaker(CircuitBreakerConfig{Enabled: false, FailureThreshold: 1})
	failing := errors.New("boom")
	for i := 0; i < 3; i++ {
		if err := b.Execute(func() error { return failing }); !errors.Is(err, failing) {
			t.Fatalf("expected raw error, got %v", err)
		}
	}
	if state := b.State(); state != CircuitStateClosed {
		t.Fatalf("disabled breaker must stay closed, got %s", state)
	}
}

func TestCircuitBreaker_ReportsTransitions(t *testing.T) {
	t.Parallel()

	var seen []string
	b := NewCircuitBreaker(CircuitBreakerConfig{
		Enabled:          true,
		FailureThreshold: 1,
		OpenTimeout:      time.Second,
		OnStateChange: func(from, to CircuitState) {
			seen = append(seen, string(from)+"->"+string(to))
		},
	})
	now := time.Date(2026, 8, 16, 15, 0, 0, 0, time.UTC)
	b.now = func() time.Time { return now }

	_ = b.Execute(func() error { return errors.New("down") })
	now = now.Add(2 * time.Second)
	_ = b.Execute(func() error { return nil })

	want := []string{"closed->open", "open->half_open", "half_open->closed"}
	if len(seen) != len(want) {
		t.Fatalf("transitions got=%v want=%v", seen, want)
	}
	for i := range want {
		if seen[i] != want[i] {
			t.Fatalf("transitions got=%v want=%v", seen, want)
		}
	}
}
