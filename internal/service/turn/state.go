package turn

// State is a step of the per-turn state machine.
type State string

const (
	StateIdle                State = "idle"
	StateUserMessageReceived State = "user-message-received"
	StateContextUpdating     State = "context-updating"
	StateTypingSimulated     State = "typing-simulated"
	StateResponseEmitted     State = "response-emitted"
	StateFollowUpScheduled   State = "follow-up-scheduled"
)

// transitions lists the allowed successors of each state.
var transitions = map[State][]State{
	StateIdle:                {StateUserMessageReceived},
	StateUserMessageReceived: {StateContextUpdating},
	StateContextUpdating:     {StateTypingSimulated},
	StateTypingSimulated:     {StateResponseEmitted},
	StateResponseEmitted:     {StateFollowUpScheduled, StateIdle},
	StateFollowUpScheduled:   {StateIdle},
}

// CanTransition reports whether to is a legal successor of from.
func CanTransition(from, to State) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}
