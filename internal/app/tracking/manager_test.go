package tracking

import (
	"context"
	"errors"
	"testing"
	"time"

	"routeguide/internal/domain/route"
)

func TestManager_StartReplacesPreviousSession(t *testing.T) {
	region := &fakeRegion{text: "Position: 0 / 0", present: true}
	sink := &fakeSink{}
	m := NewManager(context.Background(), Config{PollInterval: time.Millisecond}, Deps{Region: region, Sink: sink})
	t.Cleanup(m.StopAll)

	first, err := m.Start("page-1", route.Path{{X: 0, Y: 0}, {X: 1, Y: 0}}, route.Coordinate{})
	if err != nil {
		t.Fatalf("Start error: %v", err)
	}
	waitForPhase(t, first, PhaseTracking)

	second, err := m.Start("page-1", route.Path{{X: 0, Y: 0}, {X: 0, Y: 1}}, route.Coordinate{})
	if err != nil {
		t.Fatalf("Start error: %v", err)
	}
	waitForPhase(t, second, PhaseTracking)

	if first.ID() == second.ID() {
		t.Fatalf("expected distinct session ids")
	}
	if got := first.Snapshot().Phase; got != PhaseStopped {
		t.Fatalf("expected replaced session stopped, got %s", got)
	}
	current, ok := m.Session("page-1")
	if !ok || current != second {
		t.Fatalf("expected page-1 to resolve to the newest session")
	}
	if region.subscriberCount() != 1 {
		t.Fatalf("expected one live subscription, got %d", region.subscriberCount())
	}
}

func TestManager_RejectsEmptyPageOrPath(t *testing.T) {
	m := NewManager(context.Background(), DefaultConfig(), Deps{Region: &fakeRegion{}, Sink: &fakeSink{}})
	if _, err := m.Start(" ", route.Path{{X: 1, Y: 1}}, route.Coordinate{}); !errors.Is(err, ErrInvalidRequest) {
		t.Fatalf("expected ErrInvalidRequest for empty page, got %v", err)
	}
	if _, err := m.Start("page-1", nil, route.Coordinate{}); !errors.Is(err, ErrInvalidRequest) {
		t.Fatalf("expected ErrInvalidRequest for empty path, got %v", err)
	}
	if _, ok := m.Session("page-1"); ok {
		t.Fatalf("expected no session registered")
	}
}

func TestManager_StopAllCancelsWaitingSessions(t *testing.T) {
	m := NewManager(context.Background(), Config{PollInterval: time.Millisecond}, Deps{Region: &fakeRegion{}, Sink: &fakeSink{}})
	s, err := m.Start("page-1", route.Path{{X: 0, Y: 0}}, route.Coordinate{})
	if err != nil {
		t.Fatalf("Start error: %v", err)
	}
	waitForPhase(t, s, PhaseAwaitingPosition)
	m.StopAll()
	waitForPhase(t, s, PhaseStopped)
}

func waitForPhase(t *testing.T, s *Session, want Phase) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if s.Snapshot().Phase == want {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("session %s did not reach phase %s, last=%s", s.ID(), want, s.Snapshot().Phase)
}
