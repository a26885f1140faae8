package chat

import (
	"log/slog"
	"sync"

	"github.com/mapplock/mapplock-web/backend/internal/service/turn"
)

const subscriberBuffer = 64

// hub fans session events out to live subscribers (SSE streams, websockets).
type hub struct {
	mu     sync.RWMutex
	subs   map[string]map[uint64]chan turn.Event
	nextID uint64
}

func newHub() *hub {
	return &hub{subs: make(map[string]map[uint64]chan turn.Event)}
}

func (h *hub) subscribe(sessionID string) (<-chan turn.Event, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	id := h.nextID
	h.nextID++

	ch := make(chan turn.Event, subscriberBuffer)
	if h.subs[sessionID] == nil {
		h.subs[sessionID] = make(map[uint64]chan turn.Event)
	}
	h.subs[sessionID][id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() { h.unsubscribe(sessionID, id) })
	}
}

func (h *hub) unsubscribe(sessionID string, id uint64) {
	h.mu.Lock()
	defer h.mu.Unlock()

	subs, ok := h.subs[sessionID]
	if !ok {
		return
	}
	if ch, ok := subs[id]; ok {
		close(ch)
		delete(subs, id)
	}
	if len(subs) == 0 {
		delete(h.subs, sessionID)
	}
}

// publish never blocks: a subscriber that cannot keep up loses the event.
func (h *hub) publish(e turn.Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, ch := range h.subs[e.SessionID] {
		select {
		case ch <- e:
		default:
			slog.Warn("Session subscriber is full, dropping event",
				"session", e.SessionID,
				"type", e.Type,
			)
		}
	}
}

// drop closes every subscriber of a session.
func (h *hub) drop(sessionID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for id, ch := range h.subs[sessionID] {
		close(ch)
		delete(h.subs[sessionID], id)
	}
	delete(h.subs, sessionID)
}
