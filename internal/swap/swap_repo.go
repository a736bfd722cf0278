package swap

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, req *ShiftSwapRequest) error
	FindByID(ctx context.Context, id string) (*ShiftSwapRequest, error)
	// FindPendingByIDForUpdate locks the pending request row so two reviewers
	// cannot both settle it.
	FindPendingByIDForUpdate(ctx context.Context, id string) (*ShiftSwapRequest, error)
	FindAll(ctx context.Context, status string) ([]ShiftSwapRequest, error)
	FindByRequester(ctx context.Context, userID uuid.UUID) ([]ShiftSwapRequest, error)
	FindPendingByAssignment(ctx context.Context, assignmentID uuid.UUID) (*ShiftSwapRequest, error)
	// SettlePending moves a request out of pending. Returns rows updated.
	SettlePending(ctx context.Context, id string, status string) (int64, error)
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

func (r *repository) Create(ctx context.Context, req *ShiftSwapRequest) error {
	return r.db.WithContext(ctx).Create(req).Error
}

func (r *repository) FindByID(ctx context.Context, id string) (*ShiftSwapRequest, error) {
	var req ShiftSwapRequest
	err := r.db.WithContext(ctx).First(&req, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *repository) FindPendingByIDForUpdate(ctx context.Context, id string) (*ShiftSwapRequest, error) {
	var req ShiftSwapRequest
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&req, "id = ? AND status = ?", id, StatusPending).Error
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *repository) FindAll(ctx context.Context, status string) ([]ShiftSwapRequest, error) {
	var reqs []ShiftSwapRequest
	q := r.db.WithContext(ctx).Order("created_at DESC")
	if status != "" {
		q = q.Where("status = ?", status)
	}
	if err := q.Find(&reqs).Error; err != nil {
		return nil, err
	}
	return reqs, nil
}

func (r *repository) FindByRequester(ctx context.Context, userID uuid.UUID) ([]ShiftSwapRequest, error) {
	var reqs []ShiftSwapRequest
	err := r.db.WithContext(ctx).
		Joins("JOIN assignments ON assignments.id = shift_swap_requests.original_assignment_id").
		Where("assignments.user_id = ?", userID).
		Order("shift_swap_requests.created_at DESC").
		Find(&reqs).Error
	if err != nil {
		return nil, err
	}
	return reqs, nil
}

func (r *repository) FindPendingByAssignment(ctx context.Context, assignmentID uuid.UUID) (*ShiftSwapRequest, error) {
	var req ShiftSwapRequest
	err := r.db.WithContext(ctx).
		First(&req, "original_assignment_id = ? AND status = ?", assignmentID, StatusPending).Error
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *repository) SettlePending(ctx context.Context, id string, status string) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&ShiftSwapRequest{}).
		Where("id = ? AND status = ?", id, StatusPending).
		Update("status", status)
	return res.RowsAffected, res.Error
}
