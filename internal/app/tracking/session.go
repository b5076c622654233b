package tracking

import (
	"context"
	"errors"
	"sync"
	"time"

	"routeguide/internal/app/ports"
	"routeguide/internal/domain/route"
	"routeguide/internal/platform/logging"
	"routeguide/internal/platform/wait"

	"go.uber.org/zap"
)

type Phase string

const (
	PhaseIdle             Phase = "idle"
	PhaseAwaitingPosition Phase = "awaiting_position_element"
	PhaseTracking         Phase = "tracking"
	PhaseStopped          Phase = "stopped"
)

type Config struct {
	PollInterval    time.Duration
	PollMaxAttempts uint
}

func DefaultConfig() Config {
	return Config{PollInterval: 100 * time.Millisecond}
}

type Deps struct {
	Region  ports.PositionRegion
	Sink    ports.HighlightSink
	Metrics ports.TrackerMetrics
	Log     *zap.SugaredLogger
	Now     func() time.Time
}

type Snapshot struct {
	SessionID   string              `json:"session_id"`
	PageID      string              `json:"page"`
	Phase       Phase               `json:"phase"`
	Origin      route.Coordinate    `json:"origin"`
	PathLength  int                 `json:"path_length"`
	Evaluations int                 `json:"evaluations"`
	LastState   *route.TrackerState `json:"last_state,omitempty"`
	StartedAt   time.Time           `json:"started_at"`
}

// Session tracks one imported route on one page. It waits for the position region
// to appear, evaluates once, then re-evaluates on every region change until stopped.
type Session struct {
	id     string
	pageID string
	path   route.Path
	origin route.Coordinate
	cfg    Config
	deps   Deps

	ctx    context.Context
	cancel context.CancelFunc

	// evalMu serializes evaluations between the initial pass and change callbacks.
	evalMu sync.Mutex

	mu          sync.Mutex
	phase       Phase
	last        *route.TrackerState
	evaluations int
	highlighted bool
	startedAt   time.Time
	unsubscribe func()
}

func NewSession(parent context.Context, id, pageID string, path route.Path, origin route.Coordinate, cfg Config, deps Deps) *Session {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = DefaultConfig().PollInterval
	}
	if deps.Metrics == nil {
		deps.Metrics = nopMetrics{}
	}
	if deps.Log == nil {
		deps.Log = logging.Nop()
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	ctx, cancel := context.WithCancel(parent)
	return &Session{
		id:        id,
		pageID:    pageID,
		path:      path,
		origin:    origin,
		cfg:       cfg,
		deps:      deps,
		ctx:       ctx,
		cancel:    cancel,
		phase:     PhaseIdle,
		startedAt: deps.Now(),
	}
}

func (s *Session) ID() string { return s.id }

// Run blocks until the position region first appears, performs the initial
// evaluation and attaches the change subscription. It returns early only when the
// session is stopped or the poll cap is reached.
func (s *Session) Run() error {
	log := s.deps.Log.With("page", s.pageID, "session", s.id)
	if !s.transition(PhaseIdle, PhaseAwaitingPosition) {
		return ErrSessionNotIdle
	}
	log.Debugw("waiting for position element", "interval", s.cfg.PollInterval)

	_, err := wait.Until(s.ctx, wait.Options{
		Interval:    s.cfg.PollInterval,
		MaxAttempts: s.cfg.PollMaxAttempts,
		Notify: func(err error) {
			log.Warnw("position element probe failed", "error", err)
		},
	}, func(ctx context.Context) (struct{}, bool, error) {
		_, present, err := s.deps.Region.PositionText(ctx, s.pageID)
		return struct{}{}, present, err
	})
	if err != nil {
		s.setPhase(PhaseStopped)
		log.Warnw("stopped waiting for position element", "error", err)
		return err
	}

	unsubscribe := s.deps.Region.OnRegionChanged(s.pageID, func() {
		s.Evaluate(s.ctx)
	})
	s.mu.Lock()
	if s.phase != PhaseAwaitingPosition {
		s.mu.Unlock()
		unsubscribe()
		return s.ctx.Err()
	}
	s.phase = PhaseTracking
	s.unsubscribe = unsubscribe
	s.mu.Unlock()
	log.Infow("tracking route", "path_length", len(s.path), "origin", s.origin.String())

	s.Evaluate(s.ctx)
	return nil
}

// Evaluate recomputes the tracker state from the latest region text and forwards
// a direction to the highlight sink. A none result clears the previous highlight.
// A missing marker skips this cycle.
func (s *Session) Evaluate(ctx context.Context) {
	s.evalMu.Lock()
	defer s.evalMu.Unlock()
	if ctx.Err() != nil {
		return
	}
	log := s.deps.Log.With("page", s.pageID, "session", s.id)

	text, present, err := s.deps.Region.PositionText(ctx, s.pageID)
	if err != nil {
		log.Warnw("read position region", "error", err)
		return
	}
	if !present {
		s.deps.Metrics.RecordPositionMiss()
		log.Warnw("position region disappeared")
		return
	}
	state, err := route.Evaluate(s.path, s.origin, text)
	if errors.Is(err, route.ErrPositionNotFound) {
		s.deps.Metrics.RecordPositionMiss()
		log.Warnw("failed to extract current coordinates", "text", text)
		return
	}

	s.mu.Lock()
	s.last = &state
	s.evaluations++
	s.mu.Unlock()
	s.deps.Metrics.RecordEvaluation(state)

	if state.Direction == route.DirectionNone {
		log.Debugw("no next movement", "current", state.Current.String(), "index", state.Index)
		s.clearHighlight(ctx, log)
		return
	}
	log.Debugw("next movement", "direction", state.Direction, "current", state.Current.String(), "index", state.Index)
	if err := s.deps.Sink.Highlight(ctx, ports.Highlight{PageID: s.pageID, SessionID: s.id, State: state}); err != nil {
		s.deps.Metrics.RecordHighlightFailure()
		log.Warnw("deliver highlight", "direction", state.Direction, "error", err)
		return
	}
	s.mu.Lock()
	s.highlighted = true
	s.mu.Unlock()
}

// clearHighlight must be called with evalMu held.
func (s *Session) clearHighlight(ctx context.Context, log *zap.SugaredLogger) {
	s.mu.Lock()
	highlighted := s.highlighted
	s.mu.Unlock()
	if !highlighted {
		return
	}
	if err := s.deps.Sink.ClearHighlight(ctx, s.pageID, s.id); err != nil {
		s.deps.Metrics.RecordHighlightFailure()
		log.Warnw("clear highlight", "error", err)
		return
	}
	s.mu.Lock()
	s.highlighted = false
	s.mu.Unlock()
}

// Stop detaches the session and withdraws its highlight. Evaluations that have
// not started yet become no-ops.
func (s *Session) Stop() {
	s.cancel()
	s.mu.Lock()
	unsubscribe := s.unsubscribe
	s.unsubscribe = nil
	s.phase = PhaseStopped
	s.mu.Unlock()
	if unsubscribe != nil {
		unsubscribe()
	}

	s.evalMu.Lock()
	defer s.evalMu.Unlock()
	s.clearHighlight(context.Background(), s.deps.Log.With("page", s.pageID, "session", s.id))
}

func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := Snapshot{
		SessionID:   s.id,
		PageID:      s.pageID,
		Phase:       s.phase,
		Origin:      s.origin,
		PathLength:  len(s.path),
		Evaluations: s.evaluations,
		StartedAt:   s.startedAt,
	}
	if s.last != nil {
		last := *s.last
		out.LastState = &last
	}
	return out
}

func (s *Session) transition(from, to Phase) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase != from {
		return false
	}
	s.phase = to
	return true
}

func (s *Session) setPhase(p Phase) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.phase = p
}

type nopMetrics struct{}

func (nopMetrics) RecordImport(bool) {}
func (nopMetrics) RecordEvaluation(route.TrackerState) {}
func (nopMetrics) RecordPositionMiss() {}
func (nopMetrics) RecordHighlightFailure() {}
