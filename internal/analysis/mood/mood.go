// Package mood infers the tone of a user message.
package mood

import (
	"github.com/mapplock/mapplock-web/backend/internal/analysis/keyword"
	"github.com/mapplock/mapplock-web/backend/internal/model/chat"
)

// Cascade is evaluated first-match-wins: frustration beats delight, delight beats curiosity.
var Cascade = keyword.Table[chat.Mood]{
	{Match: keyword.Any("frustrated", "annoying", "hate"), Value: chat.MoodFrustrated},
	{Match: keyword.Any("love", "awesome", "great"), Value: chat.MoodHappy},
	{Match: keyword.Any("?", "how", "what"), Value: chat.MoodCurious},
}

// Infer returns the mood signalled by message. ok is false when no group matches,
// in which case the session keeps its previous mood.
func Infer(message string) (chat.Mood, bool) {
	return Cascade.First(message)
}
