package chat

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/samber/do"

	"github.com/mapplock/mapplock-web/backend/internal/model/chat"
	"github.com/mapplock/mapplock-web/backend/internal/model/widget"
	"github.com/mapplock/mapplock-web/backend/internal/service/responder"
	"github.com/mapplock/mapplock-web/backend/internal/service/turn"
)

var (
	ErrWidgetRequired  = errors.New("widget id is required")
	ErrWidgetNotFound  = errors.New("widget not found")
	ErrSessionNotFound = errors.New("session not found")
)

var _ do.Shutdownable = (*Service)(nil)

// Config tunes the sessions created by a Service. Zero values select production defaults.
type Config struct {
	// Timing provides the typing range and follow-up delay. Greeting delay and
	// follow-up probability always come from the widget profile.
	Timing    turn.Timing
	Scheduler turn.Scheduler
	Source    responder.Source
	Now       func() time.Time
}

// Status summarises a live session.
type Status struct {
	chat.Session
	State    turn.State `json:"state"`
	Typing   bool       `json:"typing"`
	Messages int        `json:"messages"`
}

type entry struct {
	session    chat.Session
	log        *chat.Log
	runner     *turn.Runner
	lastActive time.Time
}

// Service owns every live conversation session. Sessions are in-memory only and
// disappear when closed, expired or when the process stops.
type Service struct {
	mu       sync.RWMutex
	widgets  widget.Store
	cfg      Config
	hub      *hub
	sessions map[string]*entry
}

// NewService bootstraps the in-memory chat service.
func NewService(widgets widget.Store, cfg Config) *Service {
	if cfg.Timing == (turn.Timing{}) {
		cfg.Timing = turn.DefaultTiming()
	}
	if cfg.Scheduler == nil {
		cfg.Scheduler = turn.TimerScheduler{}
	}
	if cfg.Source == nil {
		cfg.Source = responder.DefaultSource
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	return &Service{
		widgets:  widgets,
		cfg:      cfg,
		hub:      newHub(),
		sessions: make(map[string]*entry),
	}
}

// CreateSession opens a conversation with a widget and schedules its greeting.
func (s *Service) CreateSession(_ context.Context, widgetID string) (chat.Session, error) {
	if widgetID == "" {
		return chat.Session{}, ErrWidgetRequired
	}

	w, ok := s.widgets.FindByID(widgetID)
	if !ok {
		return chat.Session{}, ErrWidgetNotFound
	}

	now := s.cfg.Now()
	session := chat.Session{
		ID:        uuid.NewString(),
		WidgetID:  w.ID,
		CreatedAt: now.UTC(),
	}

	timing := s.cfg.Timing
	timing.GreetingDelay = w.GreetingDelay
	timing.FollowUpProbability = w.FollowUpProbability

	log := chat.NewLog()
	runner := turn.NewRunner(session.ID, responder.New(w, s.cfg.Source), log, turn.Options{
		Timing:    timing,
		Scheduler: s.cfg.Scheduler,
		Source:    s.cfg.Source,
		Publisher: turn.PublisherFunc(s.hub.publish),
	})

	s.mu.Lock()
	s.sessions[session.ID] = &entry{
		session:    session,
		log:        log,
		runner:     runner,
		lastActive: now,
	}
	s.mu.Unlock()

	runner.Greet()

	slog.Info("Session created",
		"session", session.ID,
		"widget", w.ID,
	)

	return session, nil
}

// Submit starts a turn with the user's text. accepted is false for blank input.
func (s *Service) Submit(_ context.Context, sessionID, text string) (bool, error) {
	e, err := s.touch(sessionID)
	if err != nil {
		return false, err
	}

	accepted := e.runner.Submit(text)
	if !accepted {
		if e.runner.Closed() {
			return false, ErrSessionNotFound
		}
		slog.Debug("Ignored blank message", "session", sessionID)
	}
	return accepted, nil
}

// GetSession retrieves a session by identifier.
func (s *Service) GetSession(_ context.Context, sessionID string) (chat.Session, error) {
	e, err := s.lookup(sessionID)
	if err != nil {
		return chat.Session{}, err
	}
	return e.session, nil
}

// Status reports the turn state of a session.
func (s *Service) Status(_ context.Context, sessionID string) (Status, error) {
	e, err := s.lookup(sessionID)
	if err != nil {
		return Status{}, err
	}
	return Status{
		Session:  e.session,
		State:    e.runner.State(),
		Typing:   e.runner.Typing(),
		Messages: e.log.Len(),
	}, nil
}

// LoadTranscript returns stored messages for the provided session.
func (s *Service) LoadTranscript(_ context.Context, sessionID string) ([]chat.Message, error) {
	e, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}
	return e.log.Messages(), nil
}

// Context returns a snapshot of the conversation context of a session.
func (s *Service) Context(_ context.Context, sessionID string) (chat.Context, error) {
	e, err := s.lookup(sessionID)
	if err != nil {
		return chat.Context{}, err
	}
	return e.runner.Context(), nil
}

// Subscribe streams the events of a session until cancel is called or the session closes.
// Registration happens under the session lock, so a subscriber either sees the session
// close or gets ErrSessionNotFound.
func (s *Service) Subscribe(_ context.Context, sessionID string) (<-chan turn.Event, func(), error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.sessions[sessionID]
	if !ok {
		return nil, nil, ErrSessionNotFound
	}
	e.lastActive = s.cfg.Now()

	events, cancel := s.hub.subscribe(sessionID)
	return events, cancel, nil
}

// CloseSession tears a session down; pending replies are cancelled and never reach the transcript.
func (s *Service) CloseSession(_ context.Context, sessionID string) error {
	s.mu.Lock()
	e, ok := s.sessions[sessionID]
	if ok {
		delete(s.sessions, sessionID)
	}
	s.mu.Unlock()

	if !ok {
		return ErrSessionNotFound
	}

	s.teardown(e, "closed")
	return nil
}

// ExpireIdle closes sessions without activity for longer than ttl and returns how many were closed.
func (s *Service) ExpireIdle(ttl time.Duration) int {
	cutoff := s.cfg.Now().Add(-ttl)

	s.mu.Lock()
	var expired []*entry
	for id, e := range s.sessions {
		if e.lastActive.Before(cutoff) {
			expired = append(expired, e)
			delete(s.sessions, id)
		}
	}
	s.mu.Unlock()

	for _, e := range expired {
		s.teardown(e, "expired")
	}
	return len(expired)
}

// RunJanitor expires idle sessions every interval until ctx is done.
func (s *Service) RunJanitor(ctx context.Context, interval, ttl time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if n := s.ExpireIdle(ttl); n > 0 {
				slog.Info("Expired idle sessions", "count", n)
			}
		}
	}
}

// Count reports the number of live sessions.
func (s *Service) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Shutdown closes every session.
func (s *Service) Shutdown() error {
	s.mu.Lock()
	all := s.sessions
	s.sessions = make(map[string]*entry)
	s.mu.Unlock()

	for _, e := range all {
		s.teardown(e, "shutdown")
	}
	return nil
}

func (s *Service) teardown(e *entry, reason string) {
	cancelled := e.runner.Close()
	s.hub.drop(e.session.ID)

	slog.Info("Session closed",
		"session", e.session.ID,
		"reason", reason,
		"cancelled_tasks", cancelled,
	)
}

func (s *Service) lookup(sessionID string) (*entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.sessions[sessionID]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return e, nil
}

func (s *Service) touch(sessionID string) (*entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.sessions[sessionID]
	if !ok {
		return nil, ErrSessionNotFound
	}
	e.lastActive = s.cfg.Now()
	return e, nil
}
