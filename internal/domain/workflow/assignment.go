package workflow

import (
	"context"
	"fmt"
	"strings"

	"github.com/garyjia/proposal-tracker/internal/domain/status"
)

var assignmentBuilder = newAssignmentBuilder()

func newAssignmentBuilder() StateMachineBuilder {
	b := NewBuilder()

	b.Configure(StatePending).
		Permit(TriggerAccept, StateAccepted).
		Permit(TriggerDecline, StateRejected).
		Permit(TriggerRequestExtension, StateExtensionRequested)

	b.Configure(StateExtensionRequested).
		Permit(TriggerApproveExtension, StateExtensionApproved).
		Permit(TriggerDenyExtension, StateExtensionRejected)

	// after an extension decision the review continues under the
	// approved or original deadline
	b.Configure(StateExtensionApproved).
		Permit(TriggerAccept, StateAccepted).
		Permit(TriggerComplete, StateCompleted)

	b.Configure(StateExtensionRejected).
		Permit(TriggerAccept, StateAccepted).
		Permit(TriggerDecline, StateRejected).
		Permit(TriggerComplete, StateCompleted)

	b.Configure(StateAccepted).
		Permit(TriggerComplete, StateCompleted)

	return b
}

// NewAssignmentMachine returns a machine for one evaluator assignment
func NewAssignmentMachine(initial State) StateMachine {
	return assignmentBuilder.Build(initial)
}

// CheckAssignment reports whether trigger is allowed for an assignment
// whose normalized status is current. It never mutates anything; the
// backend performs the transition.
func CheckAssignment(ctx context.Context, current status.Assignment, trigger Trigger) (State, error) {
	from, ok := StateFor(current)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrInvalidState, current)
	}
	m := NewAssignmentMachine(from)
	if !m.CanFire(trigger) {
		if from.IsTerminal() {
			return "", fmt.Errorf("%w: assignment is already %s", ErrInvalidTransition, from)
		}
		return "", fmt.Errorf("%w: cannot %s from %s, allowed: %s",
			ErrInvalidTransition, trigger, from, joinTriggers(m.PermittedTriggers()))
	}
	if err := m.Fire(ctx, trigger); err != nil {
		return "", err
	}
	return m.State(), nil
}

func joinTriggers(triggers []Trigger) string {
	names := make([]string, len(triggers))
	for i, t := range triggers {
		names[i] = t.String()
	}
	return strings.Join(names, ", ")
}
