package domain

// Command is the text read from a single connection.
//
// Matching is exact and byte-for-byte: no trimming, no case folding.
type Command string

// Recognized commands.
const (
	CommandStartPump Command = "START_PUMP"
	CommandStopPump  Command = "STOP_PUMP"
)

// ParseCommand interprets exactly the bytes read from a connection.
func ParseCommand(b []byte) Command {
	return Command(b)
}

// Action returns the action mapped to c and whether c is recognized.
func (c Command) Action() (Action, bool) {
	switch c {
	case CommandStartPump:
		return ActionStartPump, true
	case CommandStopPump:
		return ActionStopPump, true
	default:
		return "", false
	}
}

// Known reports whether c is a recognized command.
func (c Command) Known() bool {
	_, ok := c.Action()
	return ok
}

// Action identifies an external side effect. The mapping from an Action to
// the program that implements it lives in configuration.
type Action string

// Actions triggered by recognized commands.
const (
	// ActionStartPump is action A.
	ActionStartPump Action = "start_pump"

	// ActionStopPump is action B, reserved and configured empty by default.
	ActionStopPump Action = "stop_pump"
)

// Actions lists every action a command can trigger.
func Actions() []Action {
	return []Action{ActionStartPump, ActionStopPump}
}
