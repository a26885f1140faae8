package chat

import "time"

// Sender identifies the author of a transcript entry.
type Sender string

const (
	SenderUser Sender = "user"
	SenderBot  Sender = "bot"
)

// Kind tags bot messages with the step of the turn that produced them.
type Kind string

const (
	KindInput    Kind = "input"
	KindGreeting Kind = "greeting"
	KindReply    Kind = "reply"
	KindFollowUp Kind = "follow-up"
)

// Message is a single transcript entry. It is never modified after Log.Append returns it.
type Message struct {
	ID        string    `json:"id"`
	SessionID string    `json:"sessionId"`
	Sender    Sender    `json:"sender"`
	Kind      Kind      `json:"kind"`
	Content   string    `json:"content"`
	SentAt    time.Time `json:"sentAt"`
}
