package topic

import (
	"testing"

	"github.com/mapplock/mapplock-web/backend/internal/model/chat"
)

func TestDetectMultipleTags(t *testing.T) {
	got := Detect("Can our school buy a licence to protect exam Macs?")
	want := []chat.Topic{chat.TopicPricing, chat.TopicEducation, chat.TopicSecurity}

	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}

func TestDetectTradeShow(t *testing.T) {
	got := Detect("We exhibit at a Trade Show next month")
	if len(got) != 1 || got[0] != chat.TopicBusiness {
		t.Fatalf("expected business tag, got %v", got)
	}
}

func TestDetectNothing(t *testing.T) {
	if got := Detect("hello"); len(got) != 0 {
		t.Fatalf("expected no tags, got %v", got)
	}
}
