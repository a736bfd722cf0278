package events

import "time"

const StaffLifecycleTopic = "scheduler.staff.lifecycle.v1"

const (
	StaffCreated     = "staff.created"
	StaffRoleChanged = "staff.role_changed"
	StaffDeactivated = "staff.deactivated"
	StaffReactivated = "staff.reactivated"
)

type StaffLifecycleEvent struct {
	EventType  string    `json:"event_type"`
	UserID     string    `json:"user_id"`
	Role       string    `json:"role"`
	IsActive   bool      `json:"is_active"`
	ActorID    string    `json:"actor_id"`
	OccurredAt time.Time `json:"occurred_at"`
}
