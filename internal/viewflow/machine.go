// Package viewflow implements the three-screen presentation sequence of the
// traveler-profiling flow as a guarded state machine.
package viewflow

import (
	"context"
	"fmt"
)

// GuardFunc is a function that evaluates whether a transition should be allowed
type GuardFunc func(ctx context.Context) bool

// StateMachine tracks the current screen and validates transitions between
// them. Implementations are not safe for concurrent use; callers serialize
// access per session.
type StateMachine interface {
	// State returns the current state
	State() State

	// CanFire returns true if the trigger is permitted in the current state
	CanFire(trigger Trigger) bool

	// Fire attempts to execute the trigger, transitioning to the new state if allowed
	Fire(ctx context.Context, trigger Trigger) error
}

// transition represents a state transition with optional guard
type transition struct {
	toState State
	guard   GuardFunc
}

// Builder configures the permitted transitions before building machines.
type Builder struct {
	transitions map[State]map[Trigger][]transition
}

// NewBuilder creates a new state machine builder
func NewBuilder() *Builder {
	return &Builder{
		transitions: make(map[State]map[Trigger][]transition),
	}
}

// Permit allows a trigger to transition from one state to another.
func (b *Builder) Permit(from State, trigger Trigger, to State) *Builder {
	return b.PermitIf(from, trigger, to, nil)
}

// PermitIf allows a trigger to transition if the guard condition passes.
func (b *Builder) PermitIf(from State, trigger Trigger, to State, guard GuardFunc) *Builder {
	if !from.IsValid() || !to.IsValid() {
		panic(fmt.Sprintf("invalid transition: %s -> %s", from, to))
	}
	if b.transitions[from] == nil {
		b.transitions[from] = make(map[Trigger][]transition)
	}
	b.transitions[from][trigger] = append(b.transitions[from][trigger], transition{toState: to, guard: guard})
	return b
}

// Build creates a new state machine instance with the given initial state.
// Built machines share no mutable state with the builder.
func (b *Builder) Build(initialState State) StateMachine {
	if !initialState.IsValid() {
		panic(fmt.Sprintf("invalid initial state: %s", initialState))
	}

	configs := make(map[State]map[Trigger][]transition, len(b.transitions))
	for state, triggers := range b.transitions {
		triggersCopy := make(map[Trigger][]transition, len(triggers))
		for trigger, ts := range triggers {
			triggersCopy[trigger] = append([]transition{}, ts...)
		}
		configs[state] = triggersCopy
	}

	return &stateMachine{
		currentState: initialState,
		transitions:  configs,
	}
}

// NewProfileFlow builds the machine for the traveler-profiling screens:
// FORM -> SIMULATING on a submit that passes the guard, SIMULATING -> RESULT
// when the simulation completes, and RESULT -> FORM on an explicit reset.
// No transition is reversible and there is no cancel-simulation path.
func NewProfileFlow(submitGuard GuardFunc) StateMachine {
	return NewBuilder().
		PermitIf(StateForm, TriggerSubmit, StateSimulating, submitGuard).
		Permit(StateSimulating, TriggerComplete, StateResult).
		Permit(StateResult, TriggerReset, StateForm).
		Build(StateForm)
}

type stateMachine struct {
	currentState State
	transitions  map[State]map[Trigger][]transition
}

// State returns the current state
func (m *stateMachine) State() State {
	return m.currentState
}

// CanFire returns true if the trigger is permitted in the current state
func (m *stateMachine) CanFire(trigger Trigger) bool {
	return len(m.transitions[m.currentState][trigger]) > 0
}

// Fire attempts to execute the trigger, transitioning to the new state if allowed
func (m *stateMachine) Fire(ctx context.Context, trigger Trigger) error {
	ts := m.transitions[m.currentState][trigger]
	if len(ts) == 0 {
		return fmt.Errorf("%w: cannot fire trigger %s from state %s", ErrInvalidTransition, trigger, m.currentState)
	}

	for _, t := range ts {
		if t.guard == nil || t.guard(ctx) {
			m.currentState = t.toState
			return nil
		}
	}

	return fmt.Errorf("%w: trigger %s from state %s", ErrGuardFailed, trigger, m.currentState)
}
