// Package responder turns user messages into canned bot replies for one widget.
package responder

import (
	"github.com/mapplock/mapplock-web/backend/internal/model/chat"
	"github.com/mapplock/mapplock-web/backend/internal/model/widget"
)

// Responder bundles the context tracker, reply selector and follow-up generator of a widget.
type Responder struct {
	widget    widget.Widget
	selector  *Selector
	followUps *FollowUps
	src       Source
}

// New builds the responder for w. A nil src selects DefaultSource.
func New(w widget.Widget, src Source) *Responder {
	if src == nil {
		src = DefaultSource
	}

	r := &Responder{
		widget:   w,
		selector: NewSelector(w, src),
		src:      src,
	}
	if w.HasFollowUps() {
		r.followUps = NewFollowUps(w.FollowUps, src)
	}
	return r
}

// Widget returns the profile the responder was built from.
func (r *Responder) Widget() widget.Widget {
	return r.widget
}

// Observe updates c with the user's message.
func (r *Responder) Observe(c *chat.Context, message string) {
	Track(c, message)
}

// Reply selects the answer to message.
func (r *Responder) Reply(message string, c chat.Context) Reply {
	return r.selector.Select(message, c)
}

// FollowUp returns the follow-up text; ok is false for widgets without follow-ups.
func (r *Responder) FollowUp(c chat.Context) (string, bool) {
	if r.followUps == nil {
		return "", false
	}
	return r.followUps.Next(c), true
}

// Greeting picks one of the widget's opening lines.
func (r *Responder) Greeting() string {
	return Pick(r.src, r.widget.Greetings)
}
