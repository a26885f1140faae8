package turn

import "github.com/mapplock/mapplock-web/backend/internal/model/chat"

// EventType classifies what observers of a session are told.
type EventType string

const (
	EventMessage EventType = "message"
	EventTyping  EventType = "typing"
	EventState   EventType = "state"
	EventClosed  EventType = "closed"
)

// Event is published for every visible change of a session.
type Event struct {
	Type      EventType     `json:"type"`
	SessionID string        `json:"sessionId"`
	Message   *chat.Message `json:"message,omitempty"`
	Typing    bool          `json:"typing,omitempty"`
	State     State         `json:"state,omitempty"`
}

// Publisher receives session events. Implementations must not block.
type Publisher interface {
	Publish(Event)
}

// PublisherFunc adapts a function to Publisher.
type PublisherFunc func(Event)

// Publish implements Publisher.
func (f PublisherFunc) Publish(e Event) { f(e) }

type discard struct{}

func (discard) Publish(Event) {}
