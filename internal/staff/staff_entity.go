package staff

import (
	"time"

	"github.com/google/uuid"
)

const (
	RoleEmployee = "employee"
	RoleManager  = "manager"
	RoleAdmin    = "admin"
)

// User keeps lifecycle state (IsActive) separate from Role so deactivating
// an employee does not erase what they were.
type User struct {
	ID    uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name  string    `gorm:"type:text;not null"`
	Email string    `gorm:"type:text;not null;uniqueIndex:uq_users_email"`
	Phone *string   `gorm:"type:text"`

	Role     string `gorm:"type:varchar(20);not null;default:'employee'"`
	IsActive bool   `gorm:"not null;default:true"`

	HashedPassword string `gorm:"type:text;not null"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (User) TableName() string { return "users" }
