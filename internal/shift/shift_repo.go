package shift

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository interface {
	WithTx(tx *gorm.DB) Repository

	Create(ctx context.Context, sh *Shift) error
	FindByID(ctx context.Context, id string) (*Shift, error)
	FindAllBetween(ctx context.Context, from, to time.Time) ([]Shift, error)
	Update(ctx context.Context, sh *Shift) error
	UpdateStatus(ctx context.Context, id, status string) (int64, error)

	FindAssigned(ctx context.Context, shiftID uuid.UUID) ([]Assignment, error)
	// FindAssignedForUpdate locks the shift's assigned rows so reconciliation
	// and swap approval on the same shift serialize instead of interleaving.
	FindAssignedForUpdate(ctx context.Context, shiftID uuid.UUID) ([]Assignment, error)
	FindAssignmentByID(ctx context.Context, id uuid.UUID) (*Assignment, error)
	FindAssignmentByIDForUpdate(ctx context.Context, id uuid.UUID) (*Assignment, error)
	FindAssignedByShiftAndUser(ctx context.Context, shiftID, userID uuid.UUID) (*Assignment, error)
	CreateAssignment(ctx context.Context, a *Assignment) error
	UpdateAssignmentUser(ctx context.Context, id, userID uuid.UUID) error
	DeleteAssignments(ctx context.Context, ids []uuid.UUID) error
	ListAssignedForUserBetween(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]AssignedShift, error)
	ListAssignedBetween(ctx context.Context, from, to time.Time) ([]AssignedShift, error)
}

// AssignedShift is the joined row used by schedule views and exports.
type AssignedShift struct {
	AssignmentID uuid.UUID
	ShiftID      uuid.UUID
	UserID       uuid.UUID
	UserName     string
	Title        string
	Location     *string
	StartTime    time.Time
	EndTime      time.Time
	ShiftStatus  string
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, sh *Shift) error {
	return r.db.WithContext(ctx).Create(sh).Error
}

func (r *repository) FindByID(ctx context.Context, id string) (*Shift, error) {
	var sh Shift
	err := r.db.WithContext(ctx).
		First(&sh, "id = ?", id).Error
	return &sh, err
}

func (r *repository) FindAllBetween(ctx context.Context, from, to time.Time) ([]Shift, error) {
	var shifts []Shift
	err := r.db.WithContext(ctx).
		Where("start_time >= ?", from).
		Where("start_time < ?", to).
		Order("start_time ASC").
		Find(&shifts).Error
	return shifts, err
}

func (r *repository) Update(ctx context.Context, sh *Shift) error {
	return r.db.WithContext(ctx).Save(sh).Error
}

func (r *repository) UpdateStatus(ctx context.Context, id, status string) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&Shift{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":     status,
			"updated_at": time.Now().UTC(),
		})
	return res.RowsAffected, res.Error
}

func (r *repository) FindAssigned(ctx context.Context, shiftID uuid.UUID) ([]Assignment, error) {
	var rows []Assignment
	err := r.db.WithContext(ctx).
		Where("shift_id = ?", shiftID).
		Where("status = ?", AssignmentAssigned).
		Order("created_at ASC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) FindAssignedForUpdate(ctx context.Context, shiftID uuid.UUID) ([]Assignment, error) {
	var rows []Assignment
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("shift_id = ?", shiftID).
		Where("status = ?", AssignmentAssigned).
		Order("created_at ASC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) FindAssignmentByID(ctx context.Context, id uuid.UUID) (*Assignment, error) {
	var a Assignment
	err := r.db.WithContext(ctx).
		First(&a, "id = ?", id).Error
	return &a, err
}

func (r *repository) FindAssignmentByIDForUpdate(ctx context.Context, id uuid.UUID) (*Assignment, error) {
	var a Assignment
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&a, "id = ?", id).Error
	return &a, err
}

func (r *repository) FindAssignedByShiftAndUser(ctx context.Context, shiftID, userID uuid.UUID) (*Assignment, error) {
	var a Assignment
	err := r.db.WithContext(ctx).
		Where("shift_id = ?", shiftID).
		Where("user_id = ?", userID).
		Where("status = ?", AssignmentAssigned).
		First(&a).Error
	return &a, err
}

func (r *repository) CreateAssignment(ctx context.Context, a *Assignment) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *repository) UpdateAssignmentUser(ctx context.Context, id, userID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&Assignment{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"user_id": userID,
			"status":  AssignmentAssigned,
		}).Error
}

func (r *repository) DeleteAssignments(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Delete(&Assignment{}, "id IN ?", ids).Error
}

func (r *repository) ListAssignedForUserBetween(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]AssignedShift, error) {
	var rows []AssignedShift
	err := r.db.WithContext(ctx).
		Table("assignments").
		Select(`assignments.id AS assignment_id,
			shifts.id AS shift_id,
			assignments.user_id,
			users.name AS user_name,
			shifts.title,
			shifts.location,
			shifts.start_time,
			shifts.end_time,
			shifts.status AS shift_status`).
		Joins("JOIN shifts ON shifts.id = assignments.shift_id").
		Joins("JOIN users ON users.id = assignments.user_id").
		Where("assignments.user_id = ?", userID).
		Where("assignments.status = ?", AssignmentAssigned).
		Where("shifts.start_time >= ?", from).
		Where("shifts.start_time < ?", to).
		Order("shifts.start_time ASC").
		Scan(&rows).Error
	return rows, err
}

func (r *repository) ListAssignedBetween(ctx context.Context, from, to time.Time) ([]AssignedShift, error) {
	var rows []AssignedShift
	err := r.db.WithContext(ctx).
		Table("assignments").
		Select(`assignments.id AS assignment_id,
			shifts.id AS shift_id,
			assignments.user_id,
			users.name AS user_name,
			shifts.title,
			shifts.location,
			shifts.start_time,
			shifts.end_time,
			shifts.status AS shift_status`).
		Joins("JOIN shifts ON shifts.id = assignments.shift_id").
		Joins("JOIN users ON users.id = assignments.user_id").
		Where("assignments.status = ?", AssignmentAssigned).
		Where("shifts.start_time >= ?", from).
		Where("shifts.start_time < ?", to).
		Order("shifts.start_time ASC").
		Scan(&rows).Error
	return rows, err
}
