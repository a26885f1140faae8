package widget

import (
	"strings"
	"time"

	"github.com/mapplock/mapplock-web/backend/internal/model/chat"
)

// Kind selects how a widget falls back when no topic matches.
type Kind string

const (
	// KindAssistant answers from topic pools, then from the session context, and sends follow-ups.
	KindAssistant Kind = "assistant"
	// KindSupport answers from a fixed keyword table and echoes unmatched questions.
	KindSupport Kind = "support"
)

// EchoPlaceholder is replaced with the user's message in Fallback.Echo.
const EchoPlaceholder = "{message}"

// Widget is one chat widget profile exposed to the frontend.
type Widget struct {
	ID                  string        `yaml:"id" json:"id" validate:"required"`
	Name                string        `yaml:"name" json:"name" validate:"required"`
	Kind                Kind          `yaml:"kind" json:"kind" validate:"required,oneof=assistant support"`
	Greetings           []string      `yaml:"greetings" json:"-" validate:"required,min=1,dive,required"`
	GreetingDelay       time.Duration `yaml:"greeting_delay" json:"-" validate:"gte=0"`
	FollowUpProbability float64       `yaml:"follow_up_probability" json:"-" validate:"gte=0,lte=1"`
	QuickReplies        []QuickReply  `yaml:"quick_replies" json:"quickReplies" validate:"dive"`
	Topics              []TopicPool   `yaml:"topics" json:"-" validate:"required,min=1,dive"`
	Fallback            Fallback      `yaml:"fallback" json:"-"`
	FollowUps           FollowUps     `yaml:"follow_ups" json:"-"`
}

// QuickReply is a canned button; pressing it submits Value as if typed.
type QuickReply struct {
	Label string `yaml:"label" json:"label" validate:"required"`
	Value string `yaml:"value" json:"value" validate:"required"`
}

// TopicPool is one entry of the ordered topic matcher list.
type TopicPool struct {
	Tag       chat.Topic `yaml:"tag" validate:"required"`
	Keywords  []string   `yaml:"keywords" validate:"required,min=1,dive,required"`
	Responses []string   `yaml:"responses" validate:"required,min=1,dive,required"`
}

// Fallback holds the replies used when no topic matcher fires.
type Fallback struct {
	Frustrated     string   `yaml:"frustrated"`
	EducationNudge string   `yaml:"education_nudge"`
	DemoSuggestion string   `yaml:"demo_suggestion"`
	Generic        []string `yaml:"generic"`
	Echo           string   `yaml:"echo"`
}

// FollowUps holds the follow-up cascade of assistant widgets.
type FollowUps struct {
	Discover     string   `yaml:"discover"`
	DemoReminder string   `yaml:"demo_reminder"`
	UseCase      string   `yaml:"use_case"`
	Invitation   string   `yaml:"invitation"`
	Pool         []string `yaml:"pool"`
}

// RenderEcho fills the echo template with message.
func (f Fallback) RenderEcho(message string) string {
	return strings.ReplaceAll(f.Echo, EchoPlaceholder, message)
}

// HasFollowUps reports whether the widget may send follow-up messages at all.
func (w Widget) HasFollowUps() bool {
	return w.Kind == KindAssistant && w.FollowUpProbability > 0
}
