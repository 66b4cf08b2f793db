package service

import (
	"context"
	"fmt"

	"github.com/garyjia/proposal-tracker/internal/domain/assignment"
	"github.com/garyjia/proposal-tracker/internal/domain/workflow"
)

// precheck rejects a transition the member's current state does not
// allow. Members whose state is not a lifecycle state (overdue, unknown)
// are left to the backend.
func precheck(ctx context.Context, m assignment.Member, trigger workflow.Trigger, logger Logger) error {
	if _, ok := workflow.StateFor(m.Status); !ok {
		logger.Info("Skipping transition check", "evaluator_id", m.EvaluatorID, "status", m.Status, "trigger", trigger)
		return nil
	}
	if _, err := workflow.CheckAssignment(ctx, m.Status, trigger); err != nil {
		return fmt.Errorf("%s while %s: %w", trigger, m.Status.Label(), err)
	}
	return nil
}
