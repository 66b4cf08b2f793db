package assignment

import (
	"time"

	"github.com/garyjia/proposal-tracker/internal/domain/status"
)

// Aggregate derives a group's status from its members in two passes.
//
// Precedence: extension requested, extension approved, extension
// rejected, then any pending, then completed when every member is
// completed, then accepted, then rejected, else pending.
//
// Override: unless the result is completed or extension requested, a
// member the backend reports overdue or a member deadline before now
// makes the group overdue.
func Aggregate(members []Member, now time.Time) status.Assignment {
	result := precedence(members)

	if result == status.AssignmentCompleted || result == status.AssignmentExtensionRequested {
		return result
	}
	for _, m := range members {
		if m.Status == status.AssignmentOverdue || (!m.DueAt.IsZero() && m.DueAt.Before(now)) {
			return status.AssignmentOverdue
		}
	}
	return result
}

func precedence(members []Member) status.Assignment {
	counts := make(map[status.Assignment]int, len(members))
	for _, m := range members {
		counts[m.Status]++
	}

	switch {
	case counts[status.AssignmentExtensionRequested] > 0:
		return status.AssignmentExtensionRequested
	case counts[status.AssignmentExtensionApproved] > 0:
		return status.AssignmentExtensionApproved
	case counts[status.AssignmentExtensionRejected] > 0:
		return status.AssignmentExtensionRejected
	case counts[status.AssignmentPending] > 0:
		return status.AssignmentPending
	case len(members) > 0 && counts[status.AssignmentCompleted] == len(members):
		return status.AssignmentCompleted
	case counts[status.AssignmentAccepted] > 0:
		return status.AssignmentAccepted
	case counts[status.AssignmentRejected] > 0:
		return status.AssignmentRejected
	default:
		return status.AssignmentPending
	}
}
