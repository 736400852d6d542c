package viewflow

// State represents a screen in the profiling flow lifecycle
type State string

const (
	StateForm       State = "FORM"
	StateSimulating State = "SIMULATING"
	StateResult     State = "RESULT"
)

var validStates = map[State]bool{
	StateForm:       true,
	StateSimulating: true,
	StateResult:     true,
}

// String returns the string representation of the state
func (s State) String() string {
	return string(s)
}

// IsValid returns true if the state is a valid flow state
func (s State) IsValid() bool {
	return validStates[s]
}
