package mood

import (
	"testing"

	"github.com/mapplock/mapplock-web/backend/internal/model/chat"
)

func TestInferFrustrationBeatsQuestion(t *testing.T) {
	got, ok := Infer("This is so annoying, why won't it lock?")
	if !ok || got != chat.MoodFrustrated {
		t.Fatalf("expected frustrated, got %q (ok=%v)", got, ok)
	}
}

func TestInferHappyBeatsQuestion(t *testing.T) {
	got, ok := Infer("I love this, how much does it cost?")
	if !ok || got != chat.MoodHappy {
		t.Fatalf("expected happy, got %q (ok=%v)", got, ok)
	}
}

func TestInferCurious(t *testing.T) {
	for _, msg := range []string{"Is there a trial?", "How do I install it", "WHAT is this"} {
		got, ok := Infer(msg)
		if !ok || got != chat.MoodCurious {
			t.Fatalf("%q: expected curious, got %q (ok=%v)", msg, got, ok)
		}
	}
}

func TestInferNoSignal(t *testing.T) {
	if got, ok := Infer("ok thanks"); ok {
		t.Fatalf("expected no mood, got %q", got)
	}
}
