package responder

import (
	"github.com/mapplock/mapplock-web/backend/internal/analysis/keyword"
	"github.com/mapplock/mapplock-web/backend/internal/model/chat"
	"github.com/mapplock/mapplock-web/backend/internal/model/widget"
)

// Branch names the rule that produced a reply.
type Branch string

const (
	BranchTopic          Branch = "topic"
	BranchDeescalate     Branch = "de-escalate"
	BranchEducationNudge Branch = "education-nudge"
	BranchSuggestDemo    Branch = "suggest-demo"
	BranchGeneric        Branch = "generic"
	BranchEcho           Branch = "echo"
)

// demoThreshold is the question count above which an undecided visitor is pointed at the demo.
const demoThreshold = 3

// Reply is the selected bot answer with the rule that chose it.
type Reply struct {
	Text   string     `json:"text"`
	Topic  chat.Topic `json:"topic,omitempty"`
	Branch Branch     `json:"branch"`
}

// Selector maps a user message plus session context to a reply.
type Selector struct {
	topics   keyword.Table[widget.TopicPool]
	fallback widget.Fallback
	kind     widget.Kind
	src      Source
}

// NewSelector compiles the widget's ordered topic list into a first-match table.
func NewSelector(w widget.Widget, src Source) *Selector {
	if src == nil {
		src = DefaultSource
	}

	table := make(keyword.Table[widget.TopicPool], 0, len(w.Topics))
	for _, pool := range w.Topics {
		table = append(table, keyword.Rule[widget.TopicPool]{
			Match: keyword.Any(pool.Keywords...),
			Value: pool,
		})
	}

	return &Selector{
		topics:   table,
		fallback: w.Fallback,
		kind:     w.Kind,
		src:      src,
	}
}

// Select returns the reply for message. Topic matchers short-circuit the contextual fallback.
func (s *Selector) Select(message string, c chat.Context) Reply {
	if pool, ok := s.topics.First(message); ok {
		return Reply{Text: Pick(s.src, pool.Responses), Topic: pool.Tag, Branch: BranchTopic}
	}

	if s.kind == widget.KindSupport {
		return Reply{Text: s.fallback.RenderEcho(message), Branch: BranchEcho}
	}
	return s.contextual(c)
}

func (s *Selector) contextual(c chat.Context) Reply {
	switch {
	case c.Mood == chat.MoodFrustrated:
		return Reply{Text: s.fallback.Frustrated, Branch: BranchDeescalate}
	case c.HasTopic(chat.TopicEducation) && !c.AskedAbout("price"):
		return Reply{Text: s.fallback.EducationNudge, Branch: BranchEducationNudge}
	case c.QuestionCount() > demoThreshold && !c.HasTopic(chat.TopicDemo):
		return Reply{Text: s.fallback.DemoSuggestion, Branch: BranchSuggestDemo}
	default:
		return Reply{Text: Pick(s.src, s.fallback.Generic), Branch: BranchGeneric}
	}
}
