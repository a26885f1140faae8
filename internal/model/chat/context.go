package chat

import (
	"strings"

	"github.com/elliotchance/pie/v2"
)

// Mood is the coarse tone of a session. Exactly one value is held at a time.
type Mood string

const (
	MoodNeutral    Mood = "neutral"
	MoodCurious    Mood = "curious"
	MoodFrustrated Mood = "frustrated"
	MoodHappy      Mood = "happy"
)

// Topic is a coarse label attached to user messages by keyword match.
type Topic string

const (
	TopicPricing   Topic = "pricing"
	TopicFeatures  Topic = "features"
	TopicEducation Topic = "education"
	TopicSecurity  Topic = "security"
	TopicDemo      Topic = "demo"
	TopicSupport   Topic = "support"
	TopicBusiness  Topic = "business"
)

// Context accumulates signals from user messages over a session.
// AskedQuestions only grows; DetectedTopics holds each tag once, in first-seen order.
type Context struct {
	DetectedTopics []Topic  `json:"detectedTopics"`
	AskedQuestions []string `json:"askedQuestions"`
	Mood           Mood     `json:"mood"`
}

// NewContext returns the context of a fresh session.
func NewContext() Context {
	return Context{
		DetectedTopics: []Topic{},
		AskedQuestions: []string{},
		Mood:           MoodNeutral,
	}
}

// HasTopic reports whether the tag was detected earlier in the session.
func (c Context) HasTopic(topic Topic) bool {
	return pie.Contains(c.DetectedTopics, topic)
}

// AddTopic records a tag; repeated tags collapse.
func (c *Context) AddTopic(topic Topic) {
	if c.HasTopic(topic) {
		return
	}
	c.DetectedTopics = append(c.DetectedTopics, topic)
}

// AskedAbout reports whether any earlier question contains substr. The match is case-sensitive.
func (c Context) AskedAbout(substr string) bool {
	return pie.Any(c.AskedQuestions, func(q string) bool {
		return strings.Contains(q, substr)
	})
}

// QuestionCount is the number of user messages seen so far.
func (c Context) QuestionCount() int {
	return len(c.AskedQuestions)
}

// Clone returns a deep copy safe to hand to readers.
func (c Context) Clone() Context {
	return Context{
		DetectedTopics: append([]Topic{}, c.DetectedTopics...),
		AskedQuestions: append([]string{}, c.AskedQuestions...),
		Mood:           c.Mood,
	}
}
