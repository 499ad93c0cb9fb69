package resilience

import (
	"context"
	"errors"
	"testing"
	"time"
)

func fastConfig() Config {
	return Config{
		Retry: RetryPolicy{
			MaxAttempts:    3,
			InitialBackoff: time.Millisecond,
			MaxBackoff:     2 * time.Millisecond,
			Multiplier:     2.0,
		},
	}
}

func alwaysRetryable(error) ErrorClassification {
	return ErrorClassification{Retryable: true, RecordFailure: true}
}

func neverRetryable(error) ErrorClassification {
	return ErrorClassification{Retryable: false, RecordFailure: false}
}

func TestExecuteRetriesUntilSuccess(t *testing.T) {
	executor := NewExecutor(fastConfig())

	calls := 0
	err := executor.Execute(context.Background(), "op", func(context.Context) error {
		calls++
		if calls < 3 {
			return errors.New("transient")
		}
		return nil
	}, alwaysRetryable)

	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if calls != 3 {
		t.Fatalf("expected 3 attempts, got %d", calls)
	}
}

func TestExecuteStopsAtMaxAttempts(t *testing.T) {
	executor := NewExecutor(fastConfig())

	calls := 0
	err := executor.Execute(context.Background(), "op", func(context.Context) error {
		calls++
		return errors.New("still failing")
	}, alwaysRetryable)

	if err == nil {
		t.Fatalf("expected error after exhausting retries")
	}
	if calls != 3 {
		t.Fatalf("expected 3 attempts, got %d", calls)
	}
}

func TestExecuteNonRetryableFailsFast(t *testing.T) {
	executor := NewExecutor(fastConfig())

	calls := 0
	err := executor.Execute(context.Background(), "op", func(context.Context) error {
		calls++
		return errors.New("permanent")
	}, neverRetryable)

	if err == nil {
		t.Fatalf("expected error")
	}
	if calls != 1 {
		t.Fatalf("expected single attempt, got %d", calls)
	}
}

func TestExecuteRespectsCanceledContext(t *testing.T) {
	executor := NewExecutor(fastConfig())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	err := executor.Execute(ctx, "op", func(context.Context) error {
		calls++
		return nil
	}, alwaysRetryable)

	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if calls != 0 {
		t.Fatalf("expected no attempts on canceled context, got %d", calls)
	}
}

func TestBreakerOpensAfterRepeatedFailures(t *testing.T) {
	cfg := fastConfig()
	cfg.Breaker.Enabled = true
	cfg.Breaker.MinRequests = 2
	cfg.Breaker.FailureRatio = 0.5
	cfg.Breaker.OpenTimeout = time.Minute
	executor := NewExecutor(cfg)

	boom := func(context.Context) error { return errors.New("down") }
	for i := 0; i < 5; i++ {
		_ = executor.Execute(context.Background(), "flaky", boom, alwaysRetryable)
	}

	err := executor.Execute(context.Background(), "flaky", boom, alwaysRetryable)
	if !IsCircuitOpen(err) {
		t.Fatalf("expected open circuit, got %v", err)
	}
}

func TestBreakerIsolatedPerOperation(t *testing.T) {
	cfg := fastConfig()
	cfg.Breaker.Enabled = true
	cfg.Breaker.MinRequests = 2
	cfg.Breaker.OpenTimeout = time.Minute
	executor := NewExecutor(cfg)

	boom := func(context.Context) error { return errors.New("down") }
	for i := 0; i < 5; i++ {
		_ = executor.Execute(context.Background(), "broken", boom, alwaysRetryable)
	}

	err := executor.Execute(context.Background(), "healthy", func(context.Context) error {
		return nil
	}, alwaysRetryable)
	if err != nil {
		t.Fatalf("expected healthy operation unaffected, got %v", err)
	}
}
