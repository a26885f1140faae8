package responder

import (
	"github.com/mapplock/mapplock-web/backend/internal/analysis/mood"
	"github.com/mapplock/mapplock-web/backend/internal/analysis/topic"
	"github.com/mapplock/mapplock-web/backend/internal/model/chat"
)

// Track folds one user message into the session context. It never fails and never
// removes anything: the mood is overwritten only when a group matches, tags accumulate,
// and the raw message is appended to AskedQuestions.
func Track(c *chat.Context, message string) {
	if m, ok := mood.Infer(message); ok {
		c.Mood = m
	}
	for _, tag := range topic.Detect(message) {
		c.AddTopic(tag)
	}
	c.AskedQuestions = append(c.AskedQuestions, message)
}
