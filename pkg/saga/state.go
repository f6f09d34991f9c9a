package saga

import "errors"

// ItemState represents where a synced event sits on one side of the
// source/target pair
type ItemState string

const (
	StateAbsent  ItemState = "ABSENT"
	StateDraft   ItemState = "DRAFT"
	StateLive    ItemState = "LIVE"
	StateDeleted ItemState = "DELETED"
)

// ErrInvalidStateTransition is returned when a state transition is not allowed
var ErrInvalidStateTransition = errors.New("invalid state transition")

// validTransitions defines allowed state transitions.
// Key is current state, value is list of allowed next states.
var validTransitions = map[ItemState][]ItemState{
	StateAbsent:  {StateDraft, StateLive},
	StateDraft:   {StateDraft, StateLive, StateDeleted},
	StateLive:    {StateLive, StateDeleted},
	StateDeleted: {}, // Terminal state
}

// IsTerminal returns true if the state is a terminal state
func (s ItemState) IsTerminal() bool {
	return s == StateDeleted
}

// IsValid returns true if the state is a known item state
func (s ItemState) IsValid() bool {
	_, exists := validTransitions[s]
	return exists
}

// CanTransitionTo returns true if transition to the target state is allowed
func (s ItemState) CanTransitionTo(target ItemState) bool {
	allowed, exists := validTransitions[s]
	if !exists {
		return false
	}
	for _, a := range allowed {
		if a == target {
			return true
		}
	}
	return false
}

// StateFromStatus maps a source platform lifecycle status string to an item
// state. Anything other than "draft" counts as live; the source platform has
// no richer lifecycle on its side of the webhook.
func StateFromStatus(status string) ItemState {
	if status == "draft" {
		return StateDraft
	}
	return StateLive
}
