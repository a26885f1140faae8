// Package keyword evaluates ordered keyword rules against free text.
package keyword

import (
	"strings"

	"github.com/elliotchance/pie/v2"
)

// Matcher reports whether an already lower-cased message matches.
type Matcher func(lower string) bool

// Any matches when the message contains at least one of the words as a substring.
func Any(words ...string) Matcher {
	lowered := pie.Map(words, strings.ToLower)
	return func(lower string) bool {
		return pie.Any(lowered, func(word string) bool {
			return word != "" && strings.Contains(lower, word)
		})
	}
}

// Rule pairs a predicate with the value it yields.
type Rule[T any] struct {
	Match Matcher
	Value T
}

// Table is an ordered rule list. Order is the priority.
type Table[T any] []Rule[T]

// Normalize is the only preprocessing applied before matching.
func Normalize(text string) string {
	return strings.ToLower(text)
}

// First returns the value of the first matching rule.
func (t Table[T]) First(text string) (T, bool) {
	lower := Normalize(text)
	for _, rule := range t {
		if rule.Match(lower) {
			return rule.Value, true
		}
	}

	var zero T
	return zero, false
}

// All returns the values of every matching rule in table order.
func (t Table[T]) All(text string) []T {
	lower := Normalize(text)
	matched := make([]T, 0, len(t))
	for _, rule := range t {
		if rule.Match(lower) {
			matched = append(matched, rule.Value)
		}
	}
	return matched
}
