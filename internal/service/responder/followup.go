package responder

import (
	"github.com/mapplock/mapplock-web/backend/internal/model/chat"
	"github.com/mapplock/mapplock-web/backend/internal/model/widget"
)

// FollowUps picks the optional second message of a turn. It only reads the context.
type FollowUps struct {
	set widget.FollowUps
	src Source
}

// NewFollowUps returns the follow-up generator of an assistant widget.
func NewFollowUps(set widget.FollowUps, src Source) *FollowUps {
	if src == nil {
		src = DefaultSource
	}
	return &FollowUps{set: set, src: src}
}

// Next evaluates the follow-up cascade against c.
func (f *FollowUps) Next(c chat.Context) string {
	switch {
	case len(c.DetectedTopics) == 0:
		return f.set.Discover
	case c.HasTopic(chat.TopicPricing) && !c.HasTopic(chat.TopicDemo):
		return f.set.DemoReminder
	case c.Mood == chat.MoodHappy:
		return f.set.UseCase
	case c.QuestionCount() == 1:
		return f.set.Invitation
	default:
		return Pick(f.src, f.set.Pool)
	}
}
