package saga

import "testing"

func TestItemState_CanTransitionTo(t *testing.T) {
	tests := []struct {
		from    ItemState
		to      ItemState
		allowed bool
	}{
		{StateAbsent, StateDraft, true},
		{StateAbsent, StateLive, true},
		{StateAbsent, StateDeleted, false},
		{StateDraft, StateDraft, true},
		{StateDraft, StateLive, true},
		{StateDraft, StateDeleted, true},
		{StateLive, StateLive, true},
		{StateLive, StateDeleted, true},
		{StateLive, StateDraft, false},
		{StateDeleted, StateDraft, false},
		{StateDeleted, StateLive, false},
		{StateDeleted, StateDeleted, false},
	}

	for _, tt := range tests {
		if got := tt.from.CanTransitionTo(tt.to); got != tt.allowed {
			t.Errorf("%s -> %s: got %v, want %v", tt.from, tt.to, got, tt.allowed)
		}
	}
}

func TestItemState_IsTerminal(t *testing.T) {
	if !StateDeleted.IsTerminal() {
		t.Error("deleted must be terminal")
	}
	for _, s := range []ItemState{StateAbsent, StateDraft, StateLive} {
		if s.IsTerminal() {
			t.Errorf("%s must not be terminal", s)
		}
	}
}

func TestItemState_IsValid(t *testing.T) {
	for _, s := range []ItemState{StateAbsent, StateDraft, StateLive, StateDeleted} {
		if !s.IsValid() {
			t.Errorf("%s must be valid", s)
		}
	}
	if ItemState("ARCHIVED").IsValid() {
		t.Error("unknown state must be invalid")
	}
}

func TestStateFromStatus(t *testing.T) {
	tests := []struct {
		status string
		want   ItemState
	}{
		{"draft", StateDraft},
		{"live", StateLive},
		{"published", StateLive},
		{"", StateLive},
	}

	for _, tt := range tests {
		if got := StateFromStatus(tt.status); got != tt.want {
			t.Errorf("StateFromStatus(%q) = %s, want %s", tt.status, got, tt.want)
		}
	}
}
