package swap

import (
	"time"

	"github.com/google/uuid"
)

const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusDenied   = "denied"
)

// ShiftSwapRequest asks a manager to hand the original assignment over to
// the requested user. OriginalAssignmentID is nulled by the database when
// the assignment row is deleted, so roster edits never trip over request
// history.
type ShiftSwapRequest struct {
	ID                   uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OriginalAssignmentID *uuid.UUID `gorm:"type:uuid"`
	RequestedUserID      uuid.UUID `gorm:"type:uuid;not null"`
	Status               string    `gorm:"type:varchar(20);not null;default:'pending'"`
	CreatedAt            time.Time
}

func (ShiftSwapRequest) TableName() string {
	return "shift_swap_requests"
}
