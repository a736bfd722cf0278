package shift

import (
	"context"

	"github.com/google/uuid"
)

// ReconcileResult reports what the reconciler changed. PrevUserID is set when
// an existing assignee was replaced or cleared.
type ReconcileResult struct {
	Inserted   int
	Updated    int
	Removed    int
	UserID     *uuid.UUID
	PrevUserID *uuid.UUID
}

func (r ReconcileResult) Changed() bool {
	return r.Inserted > 0 || r.Updated > 0 || r.Removed > 0
}

// reconcileAssignment moves a shift to the desired single-assignee state with
// the smallest possible diff. It reads the current assigned rows under a row
// lock and tolerates a pre-existing multi-assignment state, repairing it as a
// side effect:
//
//   - desired empty: delete every assigned row
//   - desired already assigned: keep that row, delete the extras
//   - other rows exist: retarget the oldest row, delete the rest
//   - no rows: insert one
//
// The caller must run this inside a transaction and must have verified that
// desiredUserID resolves to an active user.
func reconcileAssignment(ctx context.Context, qtx Repository, shiftID uuid.UUID, desiredUserID *uuid.UUID) (ReconcileResult, error) {
	current, err := qtx.FindAssignedForUpdate(ctx, shiftID)
	if err != nil {
		return ReconcileResult{}, err
	}

	result := ReconcileResult{UserID: desiredUserID}
	if len(current) > 0 {
		prev := current[0].UserID
		result.PrevUserID = &prev
	}

	if desiredUserID == nil {
		ids := make([]uuid.UUID, len(current))
		for i, row := range current {
			ids[i] = row.ID
		}
		if err := qtx.DeleteAssignments(ctx, ids); err != nil {
			return ReconcileResult{}, err
		}
		result.Removed = len(ids)
		return result, nil
	}

	var kept *Assignment
	for i := range current {
		if current[i].UserID == *desiredUserID {
			kept = &current[i]
			break
		}
	}

	if kept != nil {
		var extras []uuid.UUID
		for _, row := range current {
			if row.ID != kept.ID {
				extras = append(extras, row.ID)
			}
		}
		if err := qtx.DeleteAssignments(ctx, extras); err != nil {
			return ReconcileResult{}, err
		}
		result.Removed = len(extras)
		prev := kept.UserID
		result.PrevUserID = &prev
		return result, nil
	}

	if len(current) > 0 {
		primary := current[0]
		rest := make([]uuid.UUID, 0, len(current)-1)
		for _, row := range current[1:] {
			rest = append(rest, row.ID)
		}

		// Delete extras before retargeting so the (shift_id, user_id) unique
		// constraint cannot trip on a row that is about to go away.
		if err := qtx.DeleteAssignments(ctx, rest); err != nil {
			return ReconcileResult{}, err
		}
		if err := qtx.UpdateAssignmentUser(ctx, primary.ID, *desiredUserID); err != nil {
			return ReconcileResult{}, err
		}
		result.Updated = 1
		result.Removed = len(rest)
		return result, nil
	}

	if err := qtx.CreateAssignment(ctx, &Assignment{
		ID:      uuid.New(),
		ShiftID: shiftID,
		UserID:  *desiredUserID,
		Status:  AssignmentAssigned,
	}); err != nil {
		return ReconcileResult{}, err
	}
	result.Inserted = 1
	return result, nil
}
