package events

import "time"

const AssignmentChangedTopic = "scheduler.assignment.changed.v1"

const (
	AssignmentAssigned   = "assignment.assigned"
	AssignmentReassigned = "assignment.reassigned"
	AssignmentCleared    = "assignment.cleared"
)

// AssignmentChangedEvent records every transfer of a shift between users,
// whether from a direct edit or an approved swap. The worker publishes these
// so notification consumers can tell affected staff.
type AssignmentChangedEvent struct {
	EventType  string    `json:"event_type"`
	ShiftID    string    `json:"shift_id"`
	UserID     string    `json:"user_id,omitempty"`
	PrevUserID string    `json:"prev_user_id,omitempty"`
	ActorID    string    `json:"actor_id"`
	OccurredAt time.Time `json:"occurred_at"`
}
