package wait

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func TestUntil_ReturnsOnceFound(t *testing.T) {
	var calls atomic.Int32
	got, err := Until(context.Background(), Options{Interval: time.Millisecond}, func(context.Context) (string, bool, error) {
		if calls.Add(1) < 3 {
			return "", false, nil
		}
		return "ready", true, nil
	})
	if err != nil {
		t.Fatalf("Until error: %v", err)
	}
	if got != "ready" {
		t.Fatalf("unexpected value %q", got)
	}
	if calls.Load() != 3 {
		t.Fatalf("expected 3 probes, got %d", calls.Load())
	}
}

func TestUntil_NeverFoundStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	var calls atomic.Int32
	_, err := Until(ctx, Options{Interval: time.Millisecond}, func(context.Context) (int, bool, error) {
		if calls.Add(1) == 5 {
			cancel()
		}
		return 0, false, nil
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if calls.Load() < 5 {
		t.Fatalf("expected polling to continue until cancel, got %d probes", calls.Load())
	}
}

func TestUntil_CapsAttempts(t *testing.T) {
	var calls atomic.Int32
	_, err := Until(context.Background(), Options{Interval: time.Millisecond, MaxAttempts: 4}, func(context.Context) (int, bool, error) {
		calls.Add(1)
		return 0, false, nil
	})
	if !errors.Is(err, ErrAttemptsExhausted) {
		t.Fatalf("expected ErrAttemptsExhausted, got %v", err)
	}
	if calls.Load() != 4 {
		t.Fatalf("expected 4 probes, got %d", calls.Load())
	}
}

func TestUntil_ProbeErrorsKeepPolling(t *testing.T) {
	probeErr := errors.New("page data unavailable")
	var notified atomic.Int32
	var calls atomic.Int32
	got, err := Until(context.Background(), Options{
		Interval: time.Millisecond,
		Notify:   func(err error) { notified.Add(1) },
	}, func(context.Context) (int, bool, error) {
		switch calls.Add(1) {
		case 1, 2:
			return 0, false, probeErr
		case 3:
			return 0, false, nil
		default:
			return 42, true, nil
		}
	})
	if err != nil {
		t.Fatalf("Until error: %v", err)
	}
	if got != 42 {
		t.Fatalf("unexpected value %d", got)
	}
	if notified.Load() != 2 {
		t.Fatalf("expected 2 notifications, got %d", notified.Load())
	}
}

func TestUntil_RejectsNonPositiveInterval(t *testing.T) {
	if _, err := Until(context.Background(), Options{}, func(context.Context) (int, bool, error) { return 0, true, nil }); err == nil {
		t.Fatalf("expected error for zero interval")
	}
}
