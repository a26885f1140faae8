package responder

import (
	"slices"
	"strings"
	"testing"

	"github.com/mapplock/mapplock-web/backend/internal/model/chat"
	"github.com/mapplock/mapplock-web/backend/internal/model/widget"
)

func loadWidget(t *testing.T, id string) widget.Widget {
	t.Helper()
	w, ok := widget.NewMemoryStore(widget.Seed()).FindByID(id)
	if !ok {
		t.Fatalf("widget %s missing from seed catalogue", id)
	}
	return w
}

func topicPool(t *testing.T, w widget.Widget, tag chat.Topic) []string {
	t.Helper()
	for _, pool := range w.Topics {
		if pool.Tag == tag {
			return pool.Responses
		}
	}
	t.Fatalf("widget %s has no %s pool", w.ID, tag)
	return nil
}

func TestPricingKeywordAlwaysAnswersFromPricingPool(t *testing.T) {
	w := loadWidget(t, "assistant")
	pricing := topicPool(t, w, chat.TopicPricing)
	r := New(w, nil)

	frustrated := chat.NewContext()
	frustrated.Mood = chat.MoodFrustrated

	busy := chat.NewContext()
	busy.AskedQuestions = []string{"a", "b", "c", "d", "e"}
	busy.AddTopic(chat.TopicEducation)

	contexts := []chat.Context{chat.NewContext(), frustrated, busy}
	messages := []string{"price", "What does it COST for a school?", "how much for the demo?"}

	for _, c := range contexts {
		for _, msg := range messages {
			reply := r.Reply(msg, c)
			if !slices.Contains(pricing, reply.Text) {
				t.Fatalf("%q: reply not from pricing pool: %q", msg, reply.Text)
			}
			if reply.Topic != chat.TopicPricing {
				t.Fatalf("%q: expected pricing topic, got %q", msg, reply.Topic)
			}
		}
	}
}

func TestTrackAppendsExactlyOneQuestion(t *testing.T) {
	c := chat.NewContext()
	for i, msg := range []string{"hi", "", "I hate waiting?", "price", "price"} {
		before := c.QuestionCount()
		Track(&c, msg)
		if c.QuestionCount() != before+1 {
			t.Fatalf("message %d: expected %d questions, got %d", i, before+1, c.QuestionCount())
		}
	}
}

func TestTrackFrustrationWinsOverQuestion(t *testing.T) {
	c := chat.NewContext()
	Track(&c, "This is annoying, why is it locked?")
	if c.Mood != chat.MoodFrustrated {
		t.Fatalf("expected frustrated, got %s", c.Mood)
	}
}

func TestTrackKeepsMoodWithoutSignal(t *testing.T) {
	c := chat.NewContext()
	Track(&c, "This is great")
	Track(&c, "ok")
	if c.Mood != chat.MoodHappy {
		t.Fatalf("expected mood to stay happy, got %s", c.Mood)
	}
}

func TestTrackCollapsesDuplicateTopics(t *testing.T) {
	c := chat.NewContext()
	Track(&c, "price")
	Track(&c, "what does it cost to buy?")
	if len(c.DetectedTopics) != 1 || c.DetectedTopics[0] != chat.TopicPricing {
		t.Fatalf("expected single pricing tag, got %v", c.DetectedTopics)
	}
}

func TestSelectDeterministicUnderFixedSource(t *testing.T) {
	w := loadWidget(t, "assistant")
	features := topicPool(t, w, chat.TopicFeatures)

	first := New(w, Fixed(0)).Reply("what can it do", chat.NewContext())
	second := New(w, Fixed(0)).Reply("what can it do", chat.NewContext())
	if first.Text != second.Text {
		t.Fatalf("fixed source produced different replies: %q vs %q", first.Text, second.Text)
	}
	if first.Text != features[0] {
		t.Fatalf("expected first candidate, got %q", first.Text)
	}

	last := New(w, Fixed(0.999)).Reply("what can it do", chat.NewContext())
	if last.Text != features[len(features)-1] {
		t.Fatalf("expected last candidate, got %q", last.Text)
	}
}

func TestSelectVariesUnderDefaultSource(t *testing.T) {
	r := New(loadWidget(t, "assistant"), nil)

	seen := make(map[string]struct{})
	for range 200 {
		seen[r.Reply("price", chat.NewContext()).Text] = struct{}{}
	}
	if len(seen) < 2 {
		t.Fatalf("expected several distinct replies, got %d", len(seen))
	}
}

func TestWhatIsMappLockHitsFeatures(t *testing.T) {
	w := loadWidget(t, "assistant")
	features := topicPool(t, w, chat.TopicFeatures)
	r := New(w, nil)

	c := chat.NewContext()
	r.Observe(&c, "What is MappLock?")
	reply := r.Reply("What is MappLock?", c)

	if reply.Branch != BranchTopic || reply.Topic != chat.TopicFeatures {
		t.Fatalf("expected features topic, got %+v", reply)
	}
	if !slices.Contains(features, reply.Text) {
		t.Fatalf("reply not from features pool: %q", reply.Text)
	}
}

func TestRepeatedPriceQuestions(t *testing.T) {
	r := New(loadWidget(t, "assistant"), nil)
	c := chat.NewContext()

	r.Observe(&c, "price")
	r.Observe(&c, "price")

	if len(c.AskedQuestions) != 2 {
		t.Fatalf("expected 2 questions, got %d", len(c.AskedQuestions))
	}
	for _, q := range c.AskedQuestions {
		if q != "price" {
			t.Fatalf("unexpected stored question %q", q)
		}
	}
}

func TestLoveAndQuestionResolvesHappy(t *testing.T) {
	c := chat.NewContext()
	Track(&c, "I love this, how much does it cost?")
	if c.Mood != chat.MoodHappy {
		t.Fatalf("expected happy, got %s", c.Mood)
	}
	if !c.HasTopic(chat.TopicPricing) {
		t.Fatalf("expected pricing tag, got %v", c.DetectedTopics)
	}
}

func TestSuggestsDemoAfterFourUnmatchedQuestions(t *testing.T) {
	w := loadWidget(t, "assistant")
	r := New(w, Fixed(0))
	c := chat.NewContext()

	inputs := []string{
		"I run a small bakery",
		"We open at nine",
		"My nephew set up our Macs",
		"Sounds good to me",
		"Anyway, one more thing",
	}

	for i, msg := range inputs {
		r.Observe(&c, msg)
		reply := r.Reply(msg, c)

		if i < 3 && reply.Branch != BranchGeneric {
			t.Fatalf("input %d: expected generic reply, got %+v", i, reply)
		}
		if i >= 3 {
			if reply.Branch != BranchSuggestDemo {
				t.Fatalf("input %d: expected demo suggestion, got %+v", i, reply)
			}
			if reply.Text != w.Fallback.DemoSuggestion {
				t.Fatalf("input %d: unexpected text %q", i, reply.Text)
			}
		}
	}
}

func TestContextualPriority(t *testing.T) {
	w := loadWidget(t, "assistant")
	r := New(w, Fixed(0))

	frustrated := chat.NewContext()
	frustrated.Mood = chat.MoodFrustrated
	frustrated.AddTopic(chat.TopicEducation)
	if got := r.Reply("hmm", frustrated); got.Branch != BranchDeescalate {
		t.Fatalf("expected de-escalation first, got %+v", got)
	}

	education := chat.NewContext()
	Track(&education, "our classroom")
	if got := r.Reply("hmm", education); got.Branch != BranchEducationNudge {
		t.Fatalf("expected education nudge, got %+v", got)
	}

	capitalised := chat.NewContext()
	Track(&capitalised, "our classroom")
	Track(&capitalised, "Price for ten seats")
	Track(&capitalised, "hmm")
	if got := r.Reply("hmm", capitalised); got.Branch != BranchEducationNudge {
		t.Fatalf("capitalised Price should not count as a price question: %+v", got)
	}

	priced := chat.NewContext()
	Track(&priced, "our classroom")
	Track(&priced, "what's the price for ten seats")
	Track(&priced, "hmm")
	if got := r.Reply("hmm", priced); got.Branch == BranchEducationNudge {
		t.Fatalf("education nudge repeated after a price question: %+v", got)
	}
}

func TestBuyTagsPricingWithoutPricingReply(t *testing.T) {
	w := loadWidget(t, "assistant")
	pricing := topicPool(t, w, chat.TopicPricing)
	r := New(w, Fixed(0))

	c := chat.NewContext()
	r.Observe(&c, "I want to buy it")
	if !c.HasTopic(chat.TopicPricing) {
		t.Fatalf("expected pricing tag, got %v", c.DetectedTopics)
	}

	reply := r.Reply("I want to buy it", c)
	if reply.Branch == BranchTopic || slices.Contains(pricing, reply.Text) {
		t.Fatalf("buy should not select the pricing pool: %+v", reply)
	}
	if reply.Branch != BranchGeneric {
		t.Fatalf("expected generic fallback, got %+v", reply)
	}
}

func TestFollowUpCascade(t *testing.T) {
	w := loadWidget(t, "assistant")
	r := New(w, Fixed(0))

	empty := chat.NewContext()
	Track(&empty, "ok then")
	if got, ok := r.FollowUp(empty); !ok || got != w.FollowUps.Discover {
		t.Fatalf("expected discover follow-up, got %q", got)
	}

	pricing := chat.NewContext()
	Track(&pricing, "price")
	if got, _ := r.FollowUp(pricing); got != w.FollowUps.DemoReminder {
		t.Fatalf("expected demo reminder, got %q", got)
	}

	happy := chat.NewContext()
	Track(&happy, "I love the pin lock")
	if got, _ := r.FollowUp(happy); got != w.FollowUps.UseCase {
		t.Fatalf("expected use-case invitation, got %q", got)
	}

	single := chat.NewContext()
	Track(&single, "security")
	if got, _ := r.FollowUp(single); got != w.FollowUps.Invitation {
		t.Fatalf("expected generic invitation, got %q", got)
	}

	later := chat.NewContext()
	Track(&later, "security")
	Track(&later, "ok")
	if got, _ := r.FollowUp(later); got != w.FollowUps.Pool[0] {
		t.Fatalf("expected pooled follow-up, got %q", got)
	}
}

func TestSupportWidgetHasNoFollowUps(t *testing.T) {
	r := New(loadWidget(t, "support"), nil)
	if _, ok := r.FollowUp(chat.NewContext()); ok {
		t.Fatal("support widget must not produce follow-ups")
	}
}

func TestSupportKeywordTable(t *testing.T) {
	w := loadWidget(t, "support")
	r := New(w, nil)

	cases := map[string]string{
		"Tell me about pricing": "pricing",
		"I want to try a demo":  "demo",
		"I need support":        "support",
		"Can I get a refund":    "refund",
		"hello there":           "greeting",
		"how much does it cost": "pricing",
		"where do I download":   "install",
	}
	for msg, tag := range cases {
		if got := r.Reply(msg, chat.NewContext()); string(got.Topic) != tag {
			t.Fatalf("%q: expected %s, got %+v", msg, tag, got)
		}
	}
}

func TestSupportEchoesUnmatchedMessage(t *testing.T) {
	r := New(loadWidget(t, "support"), nil)

	got := r.Reply("blah blah", chat.NewContext())
	if got.Branch != BranchEcho {
		t.Fatalf("expected echo branch, got %+v", got)
	}
	if !strings.Contains(got.Text, `"blah blah"`) {
		t.Fatalf("echo should quote the message: %q", got.Text)
	}
}

func TestGreetingFromCatalogue(t *testing.T) {
	w := loadWidget(t, "assistant")
	if got := New(w, Fixed(0.5)).Greeting(); !slices.Contains(w.Greetings, got) {
		t.Fatalf("unexpected greeting %q", got)
	}
}

func TestPickClampsOutOfRangeSource(t *testing.T) {
	pool := []string{"a", "b"}
	if got := Pick(Fixed(1), pool); got != "b" {
		t.Fatalf("expected clamp to last, got %q", got)
	}
	if got := Pick(Fixed(-0.5), pool); got != "a" {
		t.Fatalf("expected clamp to first, got %q", got)
	}
}
