package resilience

import (
	"errors"
	"testing"
	"time"
)

func newTestBreaker(t *testing.T, cfg CircuitBreakerConfig) (*CircuitBreaker, *time.Time) {
	t.Helper()
	b := NewCircuitBreaker(cfg)
	now := time.Date(2026, 8, 14, 18, 30, 0, 0, time.UTC)
	b.clock = func() time.Time { return now }
	return b, &now
}

func TestCircuitBreaker_OpensAfterConsecutiveFailures(t *testing.T) {
	b, _ := newTestBreaker(t, CircuitBreakerConfig{
		FailureThreshold: 3,
		OpenTimeout:      10 * time.Second,
		HalfOpenMaxReq:   1,
	})

	b.RecordFailure()
	b.RecordFailure()
	b.RecordSuccess()
	b.RecordFailure()
	b.RecordFailure()
	if state := b.State(); state != CircuitStateClosed {
		t.Fatalf("success should reset the failure run, got state %s", state)
	}

	b.RecordFailure()
	if state := b.State(); state != CircuitStateOpen {
		t.Fatalf("expected open after three straight failures, got %s", state)
	}
	if err := b.Allow(); !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("expected rejection while open, got %v", err)
	}
}

func TestCircuitBreaker_ProbeBudgetAndRecovery(t *testing.T) {
	b, now := newTestBreaker(t, CircuitBreakerConfig{
		FailureThreshold: 1,
		OpenTimeout:      5 * time.Second,
		HalfOpenMaxReq:   2,
	})

	b.RecordFailure()
	*now = now.Add(5 * time.Second)

	if err := b.Allow(); err != nil {
		t.Fatalf("first probe should pass: %v", err)
	}
	if err := b.Allow(); err != nil {
		t.Fatalf("second probe should pass: %v", err)
	}
	if err := b.Allow(); !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("probe budget exhausted, expected rejection, got %v", err)
	}

	b.RecordSuccess()
	b.RecordSuccess()
	if state := b.State(); state != CircuitStateClosed {
		t.Fatalf("expected closed after successful probes, got %s", state)
	}
	if err := b.Allow(); err != nil {
		t.Fatalf("closed breaker should allow traffic: %v", err)
	}
}

func TestCircuitBreaker_ProbeFailureReopens(t *testing.T) {
	b, now := newTestBreaker(t, CircuitBreakerConfig{
		FailureThreshold: 1,
		OpenTimeout:      5 * time.Second,
		HalfOpenMaxReq:   1,
	})

	b.RecordFailure()
	*now = now.Add(6 * time.Second)

	if err := b.Allow(); err != nil {
		t.Fatalf("probe should pass after cooldown: %v", err)
	}
	b.RecordFailure()

	if err := b.Allow(); !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("failed probe should reopen the breaker, got %v", err)
	}
}

func TestCircuitBreaker_ConfigDefaults(t *testing.T) {
	cfg := CircuitBreakerConfig{}.withDefaults()

	if cfg.FailureThreshold != defaultFailureThreshold {
		t.Fatalf("unexpected failure threshold %d", cfg.FailureThreshold)
	}
	if cfg.OpenTimeout != defaultOpenTimeout {
		t.Fatalf("unexpected open timeout %s", cfg.OpenTimeout)
	}
	if cfg.HalfOpenMaxReq != defaultHalfOpenMaxReq {
		t.Fatalf("unexpected half-open budget %d", cfg.HalfOpenMaxReq)
	}
}
