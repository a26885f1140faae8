// Package turn sequences conversational turns across simulated typing latency.
package turn

import (
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/mapplock/mapplock-web/backend/internal/model/chat"
	"github.com/mapplock/mapplock-web/backend/internal/service/responder"
)

// Responder is what a Runner needs from a widget responder.
type Responder interface {
	Observe(c *chat.Context, message string)
	Reply(message string, c chat.Context) responder.Reply
	FollowUp(c chat.Context) (string, bool)
	Greeting() string
}

// Timing holds the delays of a turn.
type Timing struct {
	TypingMin           time.Duration
	TypingMax           time.Duration
	FollowUpDelay       time.Duration
	GreetingDelay       time.Duration
	FollowUpProbability float64
}

// DefaultTiming mirrors the widget behaviour on the site: 1-2s typing, follow-up 1.5s later in 70% of turns.
func DefaultTiming() Timing {
	return Timing{
		TypingMin:           time.Second,
		TypingMax:           2 * time.Second,
		FollowUpDelay:       1500 * time.Millisecond,
		FollowUpProbability: 0.7,
	}
}

// Options configures a Runner. Zero fields fall back to production defaults.
type Options struct {
	Timing    Timing
	Scheduler Scheduler
	Source    responder.Source
	Publisher Publisher
}

type turnState struct {
	id    uint64
	state State
}

// Runner owns the transcript side of one session: its context, its pending
// delayed tasks and the state machine of every turn in flight.
type Runner struct {
	sessionID string
	responder Responder
	log       *chat.Log
	timing    Timing
	scheduler Scheduler
	src       responder.Source
	publisher Publisher

	mu       sync.Mutex
	context  chat.Context
	turns    []*turnState
	pending  map[uint64]Task
	nextTask uint64
	nextTurn uint64
	closed   bool
}

// NewRunner creates the orchestrator of one session.
func NewRunner(sessionID string, r Responder, log *chat.Log, opts Options) *Runner {
	if opts.Scheduler == nil {
		opts.Scheduler = TimerScheduler{}
	}
	if opts.Source == nil {
		opts.Source = responder.DefaultSource
	}
	if opts.Publisher == nil {
		opts.Publisher = discard{}
	}

	return &Runner{
		sessionID: sessionID,
		responder: r,
		log:       log,
		timing:    opts.Timing,
		scheduler: opts.Scheduler,
		src:       opts.Source,
		publisher: opts.Publisher,
		context:   chat.NewContext(),
		pending:   make(map[uint64]Task),
	}
}

// Greet schedules the widget's opening line.
func (r *Runner) Greet() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return
	}
	r.schedule(r.timing.GreetingDelay, func() {
		r.append(chat.SenderBot, chat.KindGreeting, r.responder.Greeting())
	})
}

// Submit starts a turn. Blank input and closed sessions are ignored and report false.
// The transcript stores the trimmed text; the context records text as typed.
func (r *Runner) Submit(text string) bool {
	message := strings.TrimSpace(text)
	if message == "" {
		return false
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return false
	}

	t := &turnState{id: r.nextTurn, state: StateIdle}
	r.nextTurn++
	r.turns = append(r.turns, t)

	r.advance(t, StateUserMessageReceived)
	r.append(chat.SenderUser, chat.KindInput, message)

	r.advance(t, StateContextUpdating)
	r.responder.Observe(&r.context, text)

	r.advance(t, StateTypingSimulated)
	r.publishTyping()
	r.schedule(r.typingDelay(), func() { r.respond(t, message) })

	return true
}

// Close tears the session down and cancels every pending task. It returns how many
// callbacks were stopped before they ran.
func (r *Runner) Close() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return 0
	}
	r.closed = true

	cancelled := 0
	for id, task := range r.pending {
		if task.Cancel() {
			cancelled++
		}
		delete(r.pending, id)
	}
	r.turns = nil

	r.publisher.Publish(Event{Type: EventClosed, SessionID: r.sessionID})
	return cancelled
}

// State reports the state of the most recent turn in flight, or idle.
func (r *Runner) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.turns) == 0 {
		return StateIdle
	}
	return r.turns[len(r.turns)-1].state
}

// Typing reports whether the bot is currently "typing".
func (r *Runner) Typing() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.typing()
}

// Pending reports the number of scheduled callbacks that have not run.
func (r *Runner) Pending() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.pending)
}

// Closed reports whether Close was called.
func (r *Runner) Closed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.closed
}

// Context returns a snapshot of the conversation context.
func (r *Runner) Context() chat.Context {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.context.Clone()
}

// respond runs when the typing delay elapses. Called with r.mu held.
func (r *Runner) respond(t *turnState, message string) {
	reply := r.responder.Reply(message, r.context.Clone())

	r.advance(t, StateResponseEmitted)
	r.publishTyping()
	r.append(chat.SenderBot, chat.KindReply, reply.Text)

	if r.src.Float64() < r.timing.FollowUpProbability {
		r.advance(t, StateFollowUpScheduled)
		r.schedule(r.timing.FollowUpDelay, func() { r.followUp(t) })
		return
	}
	r.finish(t)
}

// followUp runs after the follow-up delay. Called with r.mu held.
func (r *Runner) followUp(t *turnState) {
	if text, ok := r.responder.FollowUp(r.context.Clone()); ok {
		r.append(chat.SenderBot, chat.KindFollowUp, text)
	}
	r.finish(t)
}

func (r *Runner) finish(t *turnState) {
	r.advance(t, StateIdle)
	for i, active := range r.turns {
		if active.id == t.id {
			r.turns = append(r.turns[:i], r.turns[i+1:]...)
			break
		}
	}
}

func (r *Runner) advance(t *turnState, to State) {
	if !CanTransition(t.state, to) {
		slog.Warn("Illegal turn transition",
			"session", r.sessionID,
			"turn", t.id,
			"from", t.state,
			"to", to,
		)
	}
	t.state = to
	r.publisher.Publish(Event{Type: EventState, SessionID: r.sessionID, State: to})
}

func (r *Runner) append(sender chat.Sender, kind chat.Kind, content string) {
	msg := r.log.Append(chat.Message{
		SessionID: r.sessionID,
		Sender:    sender,
		Kind:      kind,
		Content:   content,
	})
	r.publisher.Publish(Event{Type: EventMessage, SessionID: r.sessionID, Message: &msg})
}

func (r *Runner) publishTyping() {
	r.publisher.Publish(Event{Type: EventTyping, SessionID: r.sessionID, Typing: r.typing()})
}

func (r *Runner) typing() bool {
	for _, t := range r.turns {
		if t.state == StateTypingSimulated {
			return true
		}
	}
	return false
}

func (r *Runner) typingDelay() time.Duration {
	spread := r.timing.TypingMax - r.timing.TypingMin
	if spread <= 0 {
		return r.timing.TypingMin
	}
	return r.timing.TypingMin + time.Duration(r.src.Float64()*float64(spread))
}

// schedule registers fn as a cancellable task. fn runs with r.mu held and is skipped
// once the session is closed. Must be called with r.mu held.
func (r *Runner) schedule(d time.Duration, fn func()) {
	id := r.nextTask
	r.nextTask++

	r.pending[id] = r.scheduler.After(d, func() {
		r.mu.Lock()
		defer r.mu.Unlock()

		if r.closed {
			return
		}
		if _, ok := r.pending[id]; !ok {
			return
		}
		delete(r.pending, id)
		fn()
	})
}
