// Package topic tags user messages with the subjects they touch.
package topic

import (
	"github.com/mapplock/mapplock-web/backend/internal/analysis/keyword"
	"github.com/mapplock/mapplock-web/backend/internal/model/chat"
)

// Tags are independent: a message may carry any number of them.
var Tags = keyword.Table[chat.Topic]{
	{Match: keyword.Any("price", "cost", "buy"), Value: chat.TopicPricing},
	{Match: keyword.Any("education", "school", "classroom"), Value: chat.TopicEducation},
	{Match: keyword.Any("business", "trade show", "exhibition"), Value: chat.TopicBusiness},
	{Match: keyword.Any("security", "pin", "protect"), Value: chat.TopicSecurity},
}

// Detect returns every tag whose keywords appear in message.
func Detect(message string) []chat.Topic {
	return Tags.All(message)
}
