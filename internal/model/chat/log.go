package chat

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Log is the append-only transcript of one session.
type Log struct {
	mu       sync.RWMutex
	messages []Message
}

// NewLog returns an empty transcript.
func NewLog() *Log {
	return &Log{messages: make([]Message, 0, 16)}
}

// Append stamps the message with an id and send time and stores it.
func (l *Log) Append(message Message) Message {
	message.ID = uuid.NewString()
	if message.SentAt.IsZero() {
		message.SentAt = time.Now().UTC()
	}

	l.mu.Lock()
	l.messages = append(l.messages, message)
	l.mu.Unlock()

	return message
}

// Messages returns a copy of the transcript in send order.
func (l *Log) Messages() []Message {
	l.mu.RLock()
	defer l.mu.RUnlock()

	copied := make([]Message, len(l.messages))
	copy(copied, l.messages)
	return copied
}

// Len reports the number of stored messages.
func (l *Log) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.messages)
}
