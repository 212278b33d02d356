// Package cheque models the cheque lifecycle:
//
//	CREATED -> DATE_CONFIRMED -> SYNCED
//	                          -> SYNC_FAILED -> (retry) -> SYNCED
//
// Sync toward the external ledger is opportunistic; failure parks the
// cheque in SYNC_FAILED, from which retries are always permitted.
package cheque

import (
	"context"
	"fmt"
)

// StateMachine tracks the current lifecycle state and validates transitions
type StateMachine interface {
	// State returns the current state
	State() State

	// CanFire returns true if the trigger is permitted in the current state
	CanFire(trigger Trigger) bool

	// Fire attempts to execute the trigger, transitioning to the new state if allowed
	Fire(ctx context.Context, trigger Trigger) error

	// PermittedTriggers returns all triggers that can be fired in the current state
	PermittedTriggers() []Trigger
}

type stateMachine struct {
	currentState State
	transitions  map[State]map[Trigger]State
}

// lifecycle is the fixed transition table shared by every cheque machine.
var lifecycle = map[State]map[Trigger]State{
	StateCreated: {
		TriggerConfirmDate: StateDateConfirmed,
		// A sync attempt without a confirmed date can only defer.
		TriggerSyncFail: StateCreated,
	},
	StateDateConfirmed: {
		TriggerSyncOK:   StateSynced,
		TriggerSyncFail: StateSyncFailed,
		// A date update while already confirmed stays confirmed.
		TriggerConfirmDate: StateDateConfirmed,
	},
	StateSyncFailed: {
		TriggerRetry:       StateDateConfirmed,
		TriggerSyncOK:      StateSynced,
		TriggerSyncFail:    StateSyncFailed,
		TriggerConfirmDate: StateDateConfirmed,
	},
}

// NewMachine creates a lifecycle machine positioned at the given state.
func NewMachine(initial State) (StateMachine, error) {
	if !initial.IsValid() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidState, initial)
	}
	return &stateMachine{
		currentState: initial,
		transitions:  lifecycle,
	}, nil
}

// MachineFor derives the lifecycle state for a cheque from its stored fields
// and returns a machine positioned there.
func MachineFor(hasDate bool, synced bool, syncFailed bool) StateMachine {
	state := StateCreated
	switch {
	case synced:
		state = StateSynced
	case syncFailed && hasDate:
		state = StateSyncFailed
	case hasDate:
		state = StateDateConfirmed
	}
	m, _ := NewMachine(state)
	return m
}

// State returns the current state
func (m *stateMachine) State() State {
	return m.currentState
}

// CanFire returns true if the trigger is permitted in the current state
func (m *stateMachine) CanFire(trigger Trigger) bool {
	_, ok := m.transitions[m.currentState][trigger]
	return ok
}

// Fire attempts to execute the trigger, transitioning to the new state if allowed
func (m *stateMachine) Fire(_ context.Context, trigger Trigger) error {
	next, ok := m.transitions[m.currentState][trigger]
	if !ok {
		return fmt.Errorf("%w: cannot fire trigger %s from state %s", ErrInvalidTransition, trigger, m.currentState)
	}
	m.currentState = next
	return nil
}

// PermittedTriggers returns all triggers that can be fired in the current state
func (m *stateMachine) PermittedTriggers() []Trigger {
	row := m.transitions[m.currentState]
	triggers := make([]Trigger, 0, len(row))
	for trigger := range row {
		triggers = append(triggers, trigger)
	}
	return triggers
}
