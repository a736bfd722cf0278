package timeoff

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, req *TimeOffRequest) error
	FindByID(ctx context.Context, id string) (*TimeOffRequest, error)
	FindAll(ctx context.Context, status string) ([]TimeOffRequest, error)
	FindByUser(ctx context.Context, userID string) ([]TimeOffRequest, error)
	// ReviewPending stamps the decision onto a request only while it is still
	// pending. Returns the number of rows updated.
	ReviewPending(ctx context.Context, id string, status string, reviewerID uuid.UUID, reviewedAt time.Time) (int64, error)
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

func (r *repository) Create(ctx context.Context, req *TimeOffRequest) error {
	return r.db.WithContext(ctx).Create(req).Error
}

func (r *repository) FindByID(ctx context.Context, id string) (*TimeOffRequest, error) {
	var req TimeOffRequest
	err := r.db.WithContext(ctx).First(&req, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *repository) FindAll(ctx context.Context, status string) ([]TimeOffRequest, error) {
	var reqs []TimeOffRequest
	q := r.db.WithContext(ctx).Order("created_at DESC")
	if status != "" {
		q = q.Where("status = ?", status)
	}
	if err := q.Find(&reqs).Error; err != nil {
		return nil, err
	}
	return reqs, nil
}

func (r *repository) FindByUser(ctx context.Context, userID string) ([]TimeOffRequest, error) {
	var reqs []TimeOffRequest
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&reqs).Error
	if err != nil {
		return nil, err
	}
	return reqs, nil
}

func (r *repository) ReviewPending(ctx context.Context, id string, status string, reviewerID uuid.UUID, reviewedAt time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&TimeOffRequest{}).
		Where("id = ? AND status = ?", id, StatusPending).
		Updates(map[string]interface{}{
			"status":      status,
			"reviewed_by": reviewerID,
			"reviewed_at": reviewedAt,
		})
	return res.RowsAffected, res.Error
}
