package workflow

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/garyjia/proposal-tracker/internal/domain/status"
)

func TestState_IsTerminal(t *testing.T) {
	tests := []struct {
		state    State
		expected bool
	}{
		{StatePending, false},
		{StateAccepted, false},
		{StateExtensionRequested, false},
		{StateExtensionApproved, false},
		{StateExtensionRejected, false},
		{StateRejected, true},
		{StateCompleted, true},
	}

	for _, tt := range tests {
		t.Run(string(tt.state), func(t *testing.T) {
			if got := tt.state.IsTerminal(); got != tt.expected {
				t.Errorf("State.IsTerminal() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestState_IsValid(t *testing.T) {
	tests := []struct {
		name     string
		state    State
		expected bool
	}{
		{"pending", StatePending, true},
		{"completed", StateCompleted, true},
		{"invalid", State("OVERDUE"), false},
		{"empty", State(""), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.state.IsValid(); got != tt.expected {
				t.Errorf("State.IsValid() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestStateFor(t *testing.T) {
	if s, ok := StateFor(status.AssignmentExtensionRequested); !ok || s != StateExtensionRequested {
		t.Errorf("StateFor(extension_requested) = %v, %v", s, ok)
	}
	if _, ok := StateFor(status.AssignmentOverdue); ok {
		t.Error("StateFor(overdue) should not map to a state")
	}
	if _, ok := StateFor(status.AssignmentUnknown); ok {
		t.Error("StateFor(unknown) should not map to a state")
	}
}

func TestTriggerForDecision(t *testing.T) {
	tests := []struct {
		decision string
		want     Trigger
		ok       bool
	}{
		{"accept", TriggerAccept, true},
		{"Decline", TriggerDecline, true},
		{"extend", TriggerRequestExtension, true},
		{"pending", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.decision, func(t *testing.T) {
			got, ok := TriggerForDecision(tt.decision)
			if got != tt.want || ok != tt.ok {
				t.Errorf("TriggerForDecision(%q) = %v, %v", tt.decision, got, ok)
			}
		})
	}

	if got, ok := TriggerForExtensionAction("denied"); !ok || got != TriggerDenyExtension {
		t.Errorf("TriggerForExtensionAction(denied) = %v, %v", got, ok)
	}
	if _, ok := TriggerForExtensionAction("maybe"); ok {
		t.Error("TriggerForExtensionAction(maybe) should fail")
	}
}

func TestBuilder_PanicsOnInvalidState(t *testing.T) {
	cases := map[string]func(){
		"configure": func() { NewBuilder().Configure(State("INVALID")) },
		"build":     func() { NewBuilder().Build(State("INVALID")) },
		"permit":    func() { NewBuilder().Configure(StatePending).Permit(TriggerAccept, State("INVALID")) },
	}

	for name, fn := range cases {
		t.Run(name, func(t *testing.T) {
			defer func() {
				if r := recover(); r == nil {
					t.Errorf("%s should panic on invalid state", name)
				}
			}()
			fn()
		})
	}
}

func TestAssignmentMachine_Transitions(t *testing.T) {
	tests := []struct {
		name    string
		from    State
		trigger Trigger
		want    State
		wantErr bool
	}{
		{"accept pending", StatePending, TriggerAccept, StateAccepted, false},
		{"decline pending", StatePending, TriggerDecline, StateRejected, false},
		{"request extension", StatePending, TriggerRequestExtension, StateExtensionRequested, false},
		{"approve extension", StateExtensionRequested, TriggerApproveExtension, StateExtensionApproved, false},
		{"deny extension", StateExtensionRequested, TriggerDenyExtension, StateExtensionRejected, false},
		{"complete accepted", StateAccepted, TriggerComplete, StateCompleted, false},
		{"complete after approved extension", StateExtensionApproved, TriggerComplete, StateCompleted, false},
		{"accept twice", StateAccepted, TriggerAccept, "", true},
		{"extend accepted", StateAccepted, TriggerRequestExtension, "", true},
		{"approve without request", StatePending, TriggerApproveExtension, "", true},
		{"completed is terminal", StateCompleted, TriggerDecline, "", true},
		{"rejected is terminal", StateRejected, TriggerAccept, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewAssignmentMachine(tt.from)
			err := m.Fire(context.Background(), tt.trigger)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidTransition) {
					t.Errorf("Fire() error = %v, want %v", err, ErrInvalidTransition)
				}
				if m.State() != tt.from {
					t.Errorf("State should remain %v, got %v", tt.from, m.State())
				}
				return
			}
			if err != nil {
				t.Fatalf("Fire() failed: %v", err)
			}
			if m.State() != tt.want {
				t.Errorf("State after Fire() = %v, want %v", m.State(), tt.want)
			}
		})
	}
}

func TestAssignmentMachine_TerminalStatesHaveNoTriggers(t *testing.T) {
	for _, s := range []State{StateCompleted, StateRejected} {
		if triggers := NewAssignmentMachine(s).PermittedTriggers(); len(triggers) != 0 {
			t.Errorf("PermittedTriggers(%v) = %v, want none", s, triggers)
		}
	}

	got := NewAssignmentMachine(StatePending).PermittedTriggers()
	want := []Trigger{TriggerAccept, TriggerDecline, TriggerRequestExtension}
	if len(got) != len(want) {
		t.Fatalf("PermittedTriggers(PENDING) = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("PermittedTriggers(PENDING)[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestAssignmentMachine_Independent(t *testing.T) {
	m1 := NewAssignmentMachine(StatePending)
	m2 := NewAssignmentMachine(StatePending)

	if err := m1.Fire(context.Background(), TriggerAccept); err != nil {
		t.Fatalf("Fire() failed: %v", err)
	}
	if m2.State() != StatePending {
		t.Errorf("m2 state = %v, want %v", m2.State(), StatePending)
	}
	if !m2.CanFire(TriggerRequestExtension) {
		t.Error("m2 should still allow an extension request")
	}
}

func TestCheckAssignment(t *testing.T) {
	ctx := context.Background()

	next, err := CheckAssignment(ctx, status.AssignmentPending, TriggerRequestExtension)
	if err != nil || next != StateExtensionRequested {
		t.Errorf("CheckAssignment(pending, extend) = %v, %v", next, err)
	}

	if _, err := CheckAssignment(ctx, status.AssignmentCompleted, TriggerDecline); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("CheckAssignment(completed, decline) error = %v", err)
	}

	if _, err := CheckAssignment(ctx, status.AssignmentUnknown, TriggerAccept); !errors.Is(err, ErrInvalidState) {
		t.Errorf("CheckAssignment(unknown, accept) error = %v", err)
	}
}

func TestCheckAssignment_Messages(t *testing.T) {
	tests := []struct {
		name    string
		current status.Assignment
		trigger Trigger
		want    string
	}{
		{"terminal state", status.AssignmentCompleted, TriggerDecline, "assignment is already COMPLETED"},
		{"lists allowed triggers", status.AssignmentAccepted, TriggerDecline, "cannot DECLINE from ACCEPTED, allowed: COMPLETE"},
		{"several allowed triggers", status.AssignmentPending, TriggerComplete, "allowed: ACCEPT, DECLINE, REQUEST_EXTENSION"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := CheckAssignment(context.Background(), tt.current, tt.trigger)
			if !errors.Is(err, ErrInvalidTransition) {
				t.Fatalf("CheckAssignment() error = %v, want %v", err, ErrInvalidTransition)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("CheckAssignment() error = %q, want it to contain %q", err, tt.want)
			}
		})
	}
}

func TestAssignmentMachine_FireHonorsContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	m := NewAssignmentMachine(StatePending)
	if err := m.Fire(ctx, TriggerAccept); !errors.Is(err, context.Canceled) {
		t.Errorf("Fire() error = %v, want %v", err, context.Canceled)
	}
	if m.State() != StatePending {
		t.Errorf("State should remain %v, got %v", StatePending, m.State())
	}
}
