package workflow

import "github.com/garyjia/proposal-tracker/internal/domain/status"

// State is the lifecycle state of one evaluator assignment
type State string

const (
	StatePending            State = "PENDING"
	StateAccepted           State = "ACCEPTED"
	StateRejected           State = "REJECTED"
	StateExtensionRequested State = "EXTENSION_REQUESTED"
	StateExtensionApproved  State = "EXTENSION_APPROVED"
	StateExtensionRejected  State = "EXTENSION_REJECTED"
	StateCompleted          State = "COMPLETED"
)

var validStates = map[State]bool{
	StatePending:            true,
	StateAccepted:           true,
	StateRejected:           true,
	StateExtensionRequested: true,
	StateExtensionApproved:  true,
	StateExtensionRejected:  true,
	StateCompleted:          true,
}

var terminalStates = map[State]bool{
	StateRejected:  true,
	StateCompleted: true,
}

var fromAssignment = map[status.Assignment]State{
	status.AssignmentPending:            StatePending,
	status.AssignmentAccepted:           StateAccepted,
	status.AssignmentRejected:           StateRejected,
	status.AssignmentExtensionRequested: StateExtensionRequested,
	status.AssignmentExtensionApproved:  StateExtensionApproved,
	status.AssignmentExtensionRejected:  StateExtensionRejected,
	status.AssignmentCompleted:          StateCompleted,
}

// StateFor maps a normalized assignment status onto a lifecycle state.
// Overdue is a view over the deadline, not a state, and reports false
// along with unknown values.
func StateFor(a status.Assignment) (State, bool) {
	s, ok := fromAssignment[a]
	return s, ok
}

// IsTerminal returns true if no further transitions are allowed
func (s State) IsTerminal() bool {
	return terminalStates[s]
}

// String returns the string representation of the state
func (s State) String() string {
	return string(s)
}

// IsValid returns true if the state is a known assignment state
func (s State) IsValid() bool {
	return validStates[s]
}
