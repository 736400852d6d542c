package viewflow

import (
	"context"
	"errors"
	"testing"
)

func TestState_IsValid(t *testing.T) {
	tests := []struct {
		name     string
		state    State
		expected bool
	}{
		{"form", StateForm, true},
		{"simulating", StateSimulating, true},
		{"result", StateResult, true},
		{"invalid state", State("INVALID"), false},
		{"empty state", State(""), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.state.IsValid(); got != tt.expected {
				t.Errorf("State.IsValid() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestState_String(t *testing.T) {
	if got := StateForm.String(); got != "FORM" {
		t.Errorf("State.String() = %v, want %v", got, "FORM")
	}
}

func TestTrigger_String(t *testing.T) {
	if got := TriggerSubmit.String(); got != "SUBMIT" {
		t.Errorf("Trigger.String() = %v, want %v", got, "SUBMIT")
	}
}

func TestProfileFlow_HappyPath(t *testing.T) {
	machine := NewProfileFlow(func(ctx context.Context) bool { return true })
	ctx := context.Background()

	steps := []struct {
		trigger Trigger
		want    State
	}{
		{TriggerSubmit, StateSimulating},
		{TriggerComplete, StateResult},
		{TriggerReset, StateForm},
	}

	if machine.State() != StateForm {
		t.Fatalf("initial state = %v, want %v", machine.State(), StateForm)
	}
	for _, step := range steps {
		if err := machine.Fire(ctx, step.trigger); err != nil {
			t.Fatalf("Fire(%v) error = %v", step.trigger, err)
		}
		if machine.State() != step.want {
			t.Errorf("after %v state = %v, want %v", step.trigger, machine.State(), step.want)
		}
	}
}

func TestProfileFlow_GuardBlocksSubmit(t *testing.T) {
	machine := NewProfileFlow(func(ctx context.Context) bool { return false })

	err := machine.Fire(context.Background(), TriggerSubmit)

	if !errors.Is(err, ErrGuardFailed) {
		t.Errorf("Fire(SUBMIT) error = %v, want ErrGuardFailed", err)
	}
	if machine.State() != StateForm {
		t.Errorf("state after failed guard = %v, want %v", machine.State(), StateForm)
	}
}

func TestProfileFlow_InvalidTransitions(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		advance []Trigger
		trigger Trigger
	}{
		{"complete from form", nil, TriggerComplete},
		{"reset from form", nil, TriggerReset},
		{"submit while simulating", []Trigger{TriggerSubmit}, TriggerSubmit},
		{"reset while simulating", []Trigger{TriggerSubmit}, TriggerReset},
		{"complete from result", []Trigger{TriggerSubmit, TriggerComplete}, TriggerComplete},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			machine := NewProfileFlow(func(ctx context.Context) bool { return true })
			for _, trigger := range tt.advance {
				if err := machine.Fire(ctx, trigger); err != nil {
					t.Fatalf("advance Fire(%v) error = %v", trigger, err)
				}
			}
			before := machine.State()

			if machine.CanFire(tt.trigger) {
				t.Errorf("CanFire(%v) = true in %v, want false", tt.trigger, before)
			}
			if err := machine.Fire(ctx, tt.trigger); !errors.Is(err, ErrInvalidTransition) {
				t.Errorf("Fire(%v) error = %v, want ErrInvalidTransition", tt.trigger, err)
			}
			if machine.State() != before {
				t.Errorf("state changed to %v on rejected trigger", machine.State())
			}
		})
	}
}
