package panel

// State represents the power state reported by the panel.
type State int

// Server states. StateUnknown covers anything the panel may add later.
const (
	StateUnknown State = iota
	StateOffline
	StateStopping
	StateStarting
	StateRunning
)

var stateNames = map[string]State{
	"offline":  StateOffline,
	"stopping": StateStopping,
	"starting": StateStarting,
	"running":  StateRunning,
}

// ParseState maps the panel's current_state string to a State.
func ParseState(s string) State {
	if state, ok := stateNames[s]; ok {
		return state
	}
	return StateUnknown
}

func (s State) String() string {
	for name, state := range stateNames {
		if state == s {
			return name
		}
	}
	return "unknown"
}

// Signal is a power directive sent to the panel.
type Signal string

// Power signals.
const (
	SignalStart   Signal = "start"
	SignalRestart Signal = "restart"
)
