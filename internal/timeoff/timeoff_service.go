package timeoff

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/Jordan1022/laundryco-scheduler/internal/events"
	"github.com/Jordan1022/laundryco-scheduler/internal/messaging/kafka"
	timeofferrors "github.com/Jordan1022/laundryco-scheduler/internal/timeoff/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Service interface {
	Submit(ctx context.Context, userID string, req SubmitTimeOffRequest) (TimeOffResponse, error)
	GetAll(ctx context.Context, status string) ([]TimeOffResponse, error)
	GetMine(ctx context.Context, userID string) ([]TimeOffResponse, error)
	Review(ctx context.Context, reviewerID, id, decision string) error
}

type service struct {
	db     *gorm.DB
	repo   Repository
	outbox kafka.OutboxRepository
	logger *zap.Logger
}

func NewService(db *gorm.DB, repo Repository, outbox kafka.OutboxRepository, logger ...*zap.Logger) Service {
	l := zap.L().Named("timeoff.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("timeoff.service")
	}
	return &service{db: db, repo: repo, outbox: outbox, logger: l}
}

func (s *service) Submit(ctx context.Context, userID string, req SubmitTimeOffRequest) (TimeOffResponse, error) {
	s.logger.Debug("submit time off requested",
		zap.String("user_id", userID),
		zap.String("start_date", req.StartDate),
		zap.String("end_date", req.EndDate),
	)

	uid, err := uuid.Parse(userID)
	if err != nil {
		return TimeOffResponse{}, timeofferrors.ErrInvalidRequestID
	}

	startDate, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		return TimeOffResponse{}, timeofferrors.ErrInvalidDateRange
	}
	endDate, err := time.Parse("2006-01-02", req.EndDate)
	if err != nil {
		return TimeOffResponse{}, timeofferrors.ErrInvalidDateRange
	}
	if endDate.Before(startDate) {
		s.logger.Warn("submit time off rejected",
			zap.String("user_id", userID),
			zap.String("reason", "end date before start date"),
		)
		return TimeOffResponse{}, timeofferrors.ErrInvalidDateRange
	}

	r := &TimeOffRequest{
		ID:        uuid.New(),
		UserID:    uid,
		StartDate: startDate,
		EndDate:   endDate,
		Status:    StatusPending,
	}
	if reason := strings.TrimSpace(req.Reason); reason != "" {
		r.Reason = &reason
	}

	if err := s.repo.Create(ctx, r); err != nil {
		s.logger.Error("submit time off persist failed", zap.Error(err))
		return TimeOffResponse{}, err
	}

	s.logger.Info("submit time off success", zap.String("request_id", r.ID.String()))
	return mapToResponse(*r), nil
}

func (s *service) GetAll(ctx context.Context, status string) ([]TimeOffResponse, error) {
	reqs, err := s.repo.FindAll(ctx, status)
	if err != nil {
		return nil, err
	}
	return mapToResponses(reqs), nil
}

func (s *service) GetMine(ctx context.Context, userID string) ([]TimeOffResponse, error) {
	reqs, err := s.repo.FindByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return mapToResponses(reqs), nil
}

// Review settles a pending request. The status guard in the update makes a
// second review of the same request report not found instead of overwriting
// the first decision.
func (s *service) Review(ctx context.Context, reviewerID, id, decision string) error {
	s.logger.Debug("review time off requested",
		zap.String("request_id", id),
		zap.String("reviewer_id", reviewerID),
		zap.String("decision", decision),
	)

	if _, err := uuid.Parse(id); err != nil {
		return timeofferrors.ErrInvalidRequestID
	}
	reviewer, err := uuid.Parse(reviewerID)
	if err != nil {
		return timeofferrors.ErrInvalidRequestID
	}
	if decision != StatusApproved && decision != StatusDenied {
		return timeofferrors.ErrInvalidDecision
	}

	now := time.Now().UTC()

	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		s.logger.Error("review time off begin tx failed", zap.Error(tx.Error))
		return tx.Error
	}
	defer tx.Rollback()

	affected, err := s.repo.WithTx(tx).ReviewPending(ctx, id, decision, reviewer, now)
	if err != nil {
		s.logger.Error("review time off persist failed", zap.Error(err))
		return err
	}
	if affected == 0 {
		s.logger.Warn("review time off rejected",
			zap.String("request_id", id),
			zap.String("reason", "not found or already reviewed"),
		)
		return timeofferrors.ErrRequestNotFound
	}

	if s.outbox != nil {
		event := events.RequestReviewedEvent{
			EventType:  events.TimeOffReviewed,
			RequestID:  id,
			Decision:   decision,
			ReviewerID: reviewerID,
			OccurredAt: now,
		}
		payload, err := json.Marshal(event)
		if err != nil {
			return err
		}
		reqID, _ := uuid.Parse(id)
		if err := s.outbox.WithTx(tx).Create(ctx, &kafka.OutboxEvent{
			ID:            uuid.New(),
			AggregateType: "time_off_request",
			AggregateID:   reqID,
			EventType:     event.EventType,
			Topic:         events.RequestReviewedTopic,
			Payload:       payload,
			Status:        kafka.OutboxStatusPending,
		}); err != nil {
			s.logger.Error("review time off enqueue event failed", zap.Error(err))
			return err
		}
	}

	if err := tx.Commit().Error; err != nil {
		s.logger.Error("review time off commit failed", zap.Error(err))
		return err
	}

	s.logger.Info("review time off success",
		zap.String("request_id", id),
		zap.String("decision", decision),
	)
	return nil
}

func mapToResponse(r TimeOffRequest) TimeOffResponse {
	resp := TimeOffResponse{
		ID:        r.ID.String(),
		UserID:    r.UserID.String(),
		StartDate: r.StartDate.Format("2006-01-02"),
		EndDate:   r.EndDate.Format("2006-01-02"),
		Reason:    r.Reason,
		Status:    r.Status,
		CreatedAt: r.CreatedAt.Format(time.RFC3339),
	}
	if r.ReviewedBy != nil {
		v := r.ReviewedBy.String()
		resp.ReviewedBy = &v
	}
	if r.ReviewedAt != nil {
		v := r.ReviewedAt.Format(time.RFC3339)
		resp.ReviewedAt = &v
	}
	return resp
}

func mapToResponses(reqs []TimeOffRequest) []TimeOffResponse {
	out := make([]TimeOffResponse, len(reqs))
	for i, r := range reqs {
		out[i] = mapToResponse(r)
	}
	return out
}
