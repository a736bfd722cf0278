package shift

import (
	"time"

	"github.com/google/uuid"
)

const (
	StatusDraft     = "draft"
	StatusPublished = "published"
	StatusCancelled = "cancelled"
)

const (
	AssignmentAssigned    = "assigned"
	AssignmentRequested   = "requested"
	AssignmentSwapPending = "swap_pending"
)

type Shift struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Title    string    `gorm:"type:text;not null"`
	Location *string   `gorm:"type:text"`
	Notes    *string   `gorm:"type:text"`

	StartTime time.Time `gorm:"not null"`
	EndTime   time.Time `gorm:"not null"`

	Status    string     `gorm:"type:varchar(20);not null;default:'draft'"`
	CreatedBy *uuid.UUID `gorm:"type:uuid"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Shift) TableName() string { return "shifts" }

// Assignment binds one user to one shift. Cancelling a shift keeps its
// assignments; replacing an assignee deletes the replaced row.
type Assignment struct {
	ID      uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ShiftID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_assignments_shift_user"`
	UserID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_assignments_shift_user"`
	Status  string    `gorm:"type:varchar(20);not null;default:'assigned'"`

	CreatedAt time.Time
}

func (Assignment) TableName() string { return "assignments" }
