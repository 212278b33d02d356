package cheque

// State represents a stage in the cheque lifecycle
type State string

const (
	StateCreated       State = "CREATED"
	StateDateConfirmed State = "DATE_CONFIRMED"
	StateSynced        State = "SYNCED"
	StateSyncFailed    State = "SYNC_FAILED"
)

var validStates = map[State]bool{
	StateCreated:       true,
	StateDateConfirmed: true,
	StateSynced:        true,
	StateSyncFailed:    true,
}

// StateSynced is terminal: re-syncing an already-synced cheque is a no-op
// handled above the machine, never a transition.
var terminalStates = map[State]bool{
	StateSynced: true,
}

// IsTerminal returns true if the state is a terminal state (no further transitions allowed)
func (s State) IsTerminal() bool {
	return terminalStates[s]
}

// String returns the string representation of the state
func (s State) String() string {
	return string(s)
}

// IsValid returns true if the state is a valid lifecycle state
func (s State) IsValid() bool {
	return validStates[s]
}
