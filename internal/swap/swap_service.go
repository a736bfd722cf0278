package swap

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/Jordan1022/laundryco-scheduler/internal/events"
	"github.com/Jordan1022/laundryco-scheduler/internal/messaging/kafka"
	"github.com/Jordan1022/laundryco-scheduler/internal/shift"
	"github.com/Jordan1022/laundryco-scheduler/internal/staff"
	swaperrors "github.com/Jordan1022/laundryco-scheduler/internal/swap/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Service interface {
	Submit(ctx context.Context, requesterID string, req SubmitSwapRequest, now time.Time) (SwapResponse, error)
	GetAll(ctx context.Context, status string) ([]SwapResponse, error)
	GetMine(ctx context.Context, userID string) ([]SwapResponse, error)
	Review(ctx context.Context, reviewerID, id, decision string) error
}

type service struct {
	db     *gorm.DB
	repo   Repository
	shifts shift.Repository
	users  staff.Repository
	outbox kafka.OutboxRepository
	roster shift.RosterCache
	logger *zap.Logger
}

func NewService(db *gorm.DB, repo Repository, shifts shift.Repository, users staff.Repository, outbox kafka.OutboxRepository, roster shift.RosterCache, logger ...*zap.Logger) Service {
	l := zap.L().Named("swap.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("swap.service")
	}
	return &service{
		db:     db,
		repo:   repo,
		shifts: shifts,
		users:  users,
		outbox: outbox,
		roster: roster,
		logger: l,
	}
}

// Submit files a swap request. It only goes through when the assignment is
// the requester's own active assignment on an upcoming shift, the requested
// user can take it, and no other swap already covers the assignment.
func (s *service) Submit(ctx context.Context, requesterID string, req SubmitSwapRequest, now time.Time) (SwapResponse, error) {
	s.logger.Debug("submit swap requested",
		zap.String("requester_id", requesterID),
		zap.String("assignment_id", req.AssignmentID),
		zap.String("requested_user_id", req.RequestedUserID),
	)

	requester, err := uuid.Parse(requesterID)
	if err != nil {
		return SwapResponse{}, swaperrors.ErrInvalidSwapRequest
	}
	assignmentID, err := uuid.Parse(req.AssignmentID)
	if err != nil {
		return SwapResponse{}, swaperrors.ErrInvalidSwapRequest
	}
	target, err := uuid.Parse(req.RequestedUserID)
	if err != nil {
		return SwapResponse{}, swaperrors.ErrInvalidSwapTarget
	}
	if target == requester {
		return SwapResponse{}, swaperrors.ErrInvalidSwapTarget
	}

	assignment, err := s.shifts.FindAssignmentByID(ctx, assignmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return SwapResponse{}, swaperrors.ErrInvalidSwapRequest
		}
		return SwapResponse{}, err
	}
	if assignment.UserID != requester || assignment.Status != shift.AssignmentAssigned {
		s.logger.Warn("submit swap rejected",
			zap.String("assignment_id", req.AssignmentID),
			zap.String("reason", "not requester's active assignment"),
		)
		return SwapResponse{}, swaperrors.ErrInvalidSwapRequest
	}

	sh, err := s.shifts.FindByID(ctx, assignment.ShiftID.String())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return SwapResponse{}, swaperrors.ErrInvalidSwapRequest
		}
		return SwapResponse{}, err
	}
	if sh.Status == shift.StatusCancelled || !sh.StartTime.After(now) {
		s.logger.Warn("submit swap rejected",
			zap.String("assignment_id", req.AssignmentID),
			zap.String("reason", "shift cancelled or already started"),
		)
		return SwapResponse{}, swaperrors.ErrInvalidSwapRequest
	}

	if _, err := s.users.FindActiveByID(ctx, req.RequestedUserID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return SwapResponse{}, swaperrors.ErrInvalidSwapTarget
		}
		return SwapResponse{}, err
	}

	if _, err := s.repo.FindPendingByAssignment(ctx, assignmentID); err == nil {
		return SwapResponse{}, swaperrors.ErrSwapAlreadyPending
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return SwapResponse{}, err
	}

	if _, err := s.shifts.FindAssignedByShiftAndUser(ctx, assignment.ShiftID, target); err == nil {
		return SwapResponse{}, swaperrors.ErrSwapTargetAlreadyAssigned
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return SwapResponse{}, err
	}

	r := &ShiftSwapRequest{
		ID:                   uuid.New(),
		OriginalAssignmentID: &assignmentID,
		RequestedUserID:      target,
		Status:               StatusPending,
	}
	if err := s.repo.Create(ctx, r); err != nil {
		s.logger.Error("submit swap persist failed", zap.Error(err))
		return SwapResponse{}, err
	}

	s.logger.Info("submit swap success", zap.String("swap_id", r.ID.String()))
	return mapToResponse(*r), nil
}

func (s *service) GetAll(ctx context.Context, status string) ([]SwapResponse, error) {
	reqs, err := s.repo.FindAll(ctx, status)
	if err != nil {
		return nil, err
	}
	return mapToResponses(reqs), nil
}

func (s *service) GetMine(ctx context.Context, userID string) ([]SwapResponse, error) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return nil, swaperrors.ErrInvalidSwapID
	}
	reqs, err := s.repo.FindByRequester(ctx, uid)
	if err != nil {
		return nil, err
	}
	return mapToResponses(reqs), nil
}

func (s *service) Review(ctx context.Context, reviewerID, id, decision string) error {
	s.logger.Debug("review swap requested",
		zap.String("swap_id", id),
		zap.String("reviewer_id", reviewerID),
		zap.String("decision", decision),
	)

	if _, err := uuid.Parse(id); err != nil {
		return swaperrors.ErrInvalidSwapID
	}

	switch decision {
	case StatusDenied:
		return s.deny(ctx, reviewerID, id)
	case StatusApproved:
		return s.approve(ctx, reviewerID, id)
	default:
		return swaperrors.ErrInvalidDecision
	}
}

func (s *service) deny(ctx context.Context, reviewerID, id string) error {
	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		s.logger.Error("deny swap begin tx failed", zap.Error(tx.Error))
		return tx.Error
	}
	defer tx.Rollback()

	affected, err := s.repo.WithTx(tx).SettlePending(ctx, id, StatusDenied)
	if err != nil {
		s.logger.Error("deny swap persist failed", zap.Error(err))
		return err
	}
	if affected == 0 {
		return swaperrors.ErrSwapNotFound
	}

	if err := s.enqueueReviewedEvent(ctx, tx, id, StatusDenied, reviewerID); err != nil {
		return err
	}

	if err := tx.Commit().Error; err != nil {
		s.logger.Error("deny swap commit failed", zap.Error(err))
		return err
	}

	s.logger.Info("deny swap success", zap.String("swap_id", id))
	return nil
}

// approve moves the assignment to the requested user and marks the request
// approved, all in one transaction. The pending row and the assignment row
// are both locked first so a concurrent reviewer or roster edit waits rather
// than races.
func (s *service) approve(ctx context.Context, reviewerID, id string) error {
	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		s.logger.Error("approve swap begin tx failed", zap.Error(tx.Error))
		return tx.Error
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	shiftsTx := s.shifts.WithTx(tx)

	req, err := qtx.FindPendingByIDForUpdate(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return swaperrors.ErrSwapNotFound
		}
		return err
	}

	// A roster edit that removed the assignment nulls the reference.
	if req.OriginalAssignmentID == nil {
		s.logger.Warn("approve swap rejected",
			zap.String("swap_id", id),
			zap.String("reason", "assignment no longer exists"),
		)
		return swaperrors.ErrAssignmentGone
	}

	assignment, err := shiftsTx.FindAssignmentByIDForUpdate(ctx, *req.OriginalAssignmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Warn("approve swap rejected",
				zap.String("swap_id", id),
				zap.String("reason", "assignment no longer exists"),
			)
			return swaperrors.ErrAssignmentGone
		}
		return err
	}

	// A roster edit may already have moved the assignment to the requested
	// user. Approving then just settles the request.
	if assignment.UserID != req.RequestedUserID {
		if _, err := shiftsTx.FindAssignedByShiftAndUser(ctx, assignment.ShiftID, req.RequestedUserID); err == nil {
			s.logger.Warn("approve swap rejected",
				zap.String("swap_id", id),
				zap.String("reason", "requested user already holds another assignment on the shift"),
			)
			return swaperrors.ErrSwapConflict
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		if err := shiftsTx.UpdateAssignmentUser(ctx, assignment.ID, req.RequestedUserID); err != nil {
			s.logger.Error("approve swap reassign failed", zap.Error(err))
			return err
		}
	}

	affected, err := qtx.SettlePending(ctx, id, StatusApproved)
	if err != nil {
		s.logger.Error("approve swap persist failed", zap.Error(err))
		return err
	}
	if affected == 0 {
		return swaperrors.ErrSwapNotFound
	}

	if err := s.enqueueReviewedEvent(ctx, tx, id, StatusApproved, reviewerID); err != nil {
		return err
	}
	if err := s.enqueueAssignmentEvent(ctx, tx, assignment, req.RequestedUserID, reviewerID); err != nil {
		return err
	}

	if err := tx.Commit().Error; err != nil {
		s.logger.Error("approve swap commit failed", zap.Error(err))
		return err
	}

	if s.roster != nil {
		s.roster.InvalidateRoster(ctx)
	}

	s.logger.Info("approve swap success",
		zap.String("swap_id", id),
		zap.String("assignment_id", assignment.ID.String()),
		zap.String("new_user_id", req.RequestedUserID.String()),
	)
	return nil
}

func (s *service) enqueueReviewedEvent(ctx context.Context, tx *gorm.DB, id, decision, reviewerID string) error {
	if s.outbox == nil {
		return nil
	}

	event := events.RequestReviewedEvent{
		EventType:  events.SwapReviewed,
		RequestID:  id,
		Decision:   decision,
		ReviewerID: reviewerID,
		OccurredAt: time.Now().UTC(),
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	aggregateID, _ := uuid.Parse(id)
	return s.outbox.WithTx(tx).Create(ctx, &kafka.OutboxEvent{
		ID:            uuid.New(),
		AggregateType: "shift_swap_request",
		AggregateID:   aggregateID,
		EventType:     event.EventType,
		Topic:         events.RequestReviewedTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	})
}

func (s *service) enqueueAssignmentEvent(ctx context.Context, tx *gorm.DB, assignment *shift.Assignment, newUserID uuid.UUID, reviewerID string) error {
	if s.outbox == nil || assignment.UserID == newUserID {
		return nil
	}

	event := events.AssignmentChangedEvent{
		EventType:  events.AssignmentReassigned,
		ShiftID:    assignment.ShiftID.String(),
		UserID:     newUserID.String(),
		PrevUserID: assignment.UserID.String(),
		ActorID:    reviewerID,
		OccurredAt: time.Now().UTC(),
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return s.outbox.WithTx(tx).Create(ctx, &kafka.OutboxEvent{
		ID:            uuid.New(),
		AggregateType: "shift",
		AggregateID:   assignment.ShiftID,
		EventType:     event.EventType,
		Topic:         events.AssignmentChangedTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	})
}

func mapToResponse(r ShiftSwapRequest) SwapResponse {
	resp := SwapResponse{
		ID:              r.ID.String(),
		RequestedUserID: r.RequestedUserID.String(),
		Status:          r.Status,
		CreatedAt:       r.CreatedAt.Format(time.RFC3339),
	}
	if r.OriginalAssignmentID != nil {
		id := r.OriginalAssignmentID.String()
		resp.OriginalAssignmentID = &id
	}
	return resp
}

func mapToResponses(reqs []ShiftSwapRequest) []SwapResponse {
	out := make([]SwapResponse, len(reqs))
	for i, r := range reqs {
		out[i] = mapToResponse(r)
	}
	return out
}
