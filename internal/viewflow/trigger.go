package viewflow

// Trigger represents an event that can cause a state transition
type Trigger string

const (
	// TriggerSubmit moves a fully-valid form into the simulation screen.
	TriggerSubmit Trigger = "SUBMIT"
	// TriggerComplete is fired once by the simulator when its timeline ends.
	TriggerComplete Trigger = "COMPLETE"
	// TriggerReset returns to a blank form, discarding all answers.
	TriggerReset Trigger = "RESET"
)

// String returns the string representation of the trigger
func (t Trigger) String() string {
	return string(t)
}
