package shift

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/Jordan1022/laundryco-scheduler/internal/events"
	"github.com/Jordan1022/laundryco-scheduler/internal/messaging/kafka"
	shifterrors "github.com/Jordan1022/laundryco-scheduler/internal/shift/errors"
	"github.com/Jordan1022/laundryco-scheduler/internal/shared/validate"
	"github.com/Jordan1022/laundryco-scheduler/internal/staff"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// RosterCache is notified after committed assignment changes so cached
// roster views do not serve stale data.
type RosterCache interface {
	InvalidateRoster(ctx context.Context)
}

type Service interface {
	Create(ctx context.Context, actorID string, req CreateShiftRequest) (ShiftResponse, error)
	GetAll(ctx context.Context, from, to time.Time) ([]ShiftResponse, error)
	GetByID(ctx context.Context, id string) (ShiftResponse, error)
	Update(ctx context.Context, actorID, id string, req UpdateShiftRequest) (ShiftResponse, error)
	SetStatus(ctx context.Context, actorID, id, mode string) error
}

type service struct {
	db             *gorm.DB
	repo           Repository
	users          staff.Repository
	outbox         kafka.OutboxRepository
	roster         RosterCache
	closingMinutes int
	logger         *zap.Logger
}

func NewService(db *gorm.DB, repo Repository, users staff.Repository, outbox kafka.OutboxRepository, roster RosterCache, closingMinutes int, logger ...*zap.Logger) Service {
	l := zap.L().Named("shift.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("shift.service")
	}
	if closingMinutes <= 0 {
		closingMinutes = validate.DefaultClosingMinutes
	}
	return &service{
		db:             db,
		repo:           repo,
		users:          users,
		outbox:         outbox,
		roster:         roster,
		closingMinutes: closingMinutes,
		logger:         l,
	}
}

func (s *service) Create(ctx context.Context, actorID string, req CreateShiftRequest) (ShiftResponse, error) {
	s.logger.Debug("create shift requested",
		zap.String("actor_id", actorID),
		zap.String("title", req.Title),
		zap.String("date", req.Date),
	)

	startTime, endTime, err := s.parseWindow(req.Date, req.StartTime, req.EndTime)
	if err != nil {
		s.logger.Warn("create shift validation failed", zap.Error(err))
		return ShiftResponse{}, err
	}

	status := StatusPublished
	switch req.Status {
	case "", StatusPublished:
	case StatusDraft:
		status = StatusDraft
	default:
		s.logger.Warn("create shift validation failed", zap.String("status", req.Status))
		return ShiftResponse{}, shifterrors.ErrInvalidShiftStatus
	}

	sh := &Shift{
		ID:        uuid.New(),
		Title:     strings.TrimSpace(req.Title),
		StartTime: startTime,
		EndTime:   endTime,
		Status:    status,
	}
	if location := strings.TrimSpace(req.Location); location != "" {
		sh.Location = &location
	}
	if notes := strings.TrimSpace(req.Notes); notes != "" {
		sh.Notes = &notes
	}
	if creator, err := uuid.Parse(actorID); err == nil {
		sh.CreatedBy = &creator
	}

	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		s.logger.Error("create shift begin tx failed", zap.Error(tx.Error))
		return ShiftResponse{}, tx.Error
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	if err := qtx.Create(ctx, sh); err != nil {
		s.logger.Error("create shift persist failed", zap.Error(err))
		return ShiftResponse{}, err
	}

	var result ReconcileResult
	if req.AssignedUserID != "" {
		desired, err := s.resolveAssignee(ctx, tx, req.AssignedUserID)
		if err != nil {
			s.logger.Warn("create shift assignee rejected",
				zap.String("assigned_user_id", req.AssignedUserID),
				zap.Error(err),
			)
			return ShiftResponse{}, err
		}

		result, err = reconcileAssignment(ctx, qtx, sh.ID, &desired)
		if err != nil {
			s.logger.Error("create shift reconcile failed", zap.Error(err))
			return ShiftResponse{}, err
		}
	}

	if err := s.enqueueAssignmentEvent(ctx, tx, sh.ID, result, actorID); err != nil {
		return ShiftResponse{}, err
	}

	if err := tx.Commit().Error; err != nil {
		s.logger.Error("create shift commit failed", zap.Error(err))
		return ShiftResponse{}, err
	}

	if s.roster != nil {
		s.roster.InvalidateRoster(ctx)
	}

	s.logger.Info("create shift success",
		zap.String("shift_id", sh.ID.String()),
		zap.String("status", sh.Status),
	)

	resp := mapToResponse(*sh)
	if result.Inserted > 0 || result.Updated > 0 {
		assigned, err := s.repo.FindAssigned(ctx, sh.ID)
		if err == nil && len(assigned) > 0 {
			resp.Assignee = mapAssignment(assigned[0])
		}
	}
	return resp, nil
}

func (s *service) GetAll(ctx context.Context, from, to time.Time) ([]ShiftResponse, error) {
	shifts, err := s.repo.FindAllBetween(ctx, from, to)
	if err != nil {
		return nil, err
	}

	resp := make([]ShiftResponse, len(shifts))
	for i, sh := range shifts {
		resp[i] = mapToResponse(sh)

		assigned, err := s.repo.FindAssigned(ctx, sh.ID)
		if err != nil {
			return nil, err
		}
		if len(assigned) > 0 {
			resp[i].Assignee = mapAssignment(assigned[0])
		}
	}
	return resp, nil
}

func (s *service) GetByID(ctx context.Context, id string) (ShiftResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return ShiftResponse{}, shifterrors.ErrInvalidShiftID
	}

	sh, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ShiftResponse{}, shifterrors.ErrShiftNotFound
		}
		return ShiftResponse{}, err
	}

	resp := mapToResponse(*sh)
	assigned, err := s.repo.FindAssigned(ctx, sh.ID)
	if err != nil {
		return ShiftResponse{}, err
	}
	if len(assigned) > 0 {
		resp.Assignee = mapAssignment(assigned[0])
	}
	return resp, nil
}

// Update edits the shift fields and reconciles its assignee in the same
// transaction, so a concurrent swap approval on this shift either sees the
// new assignee or waits behind the row locks.
func (s *service) Update(ctx context.Context, actorID, id string, req UpdateShiftRequest) (ShiftResponse, error) {
	s.logger.Debug("update shift requested",
		zap.String("shift_id", id),
		zap.String("actor_id", actorID),
	)

	if _, err := uuid.Parse(id); err != nil {
		return ShiftResponse{}, shifterrors.ErrInvalidShiftID
	}

	startTime, endTime, err := s.parseWindow(req.Date, req.StartTime, req.EndTime)
	if err != nil {
		s.logger.Warn("update shift validation failed", zap.Error(err))
		return ShiftResponse{}, err
	}

	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		s.logger.Error("update shift begin tx failed", zap.Error(tx.Error))
		return ShiftResponse{}, tx.Error
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	sh, err := qtx.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ShiftResponse{}, shifterrors.ErrShiftNotFound
		}
		return ShiftResponse{}, err
	}

	sh.Title = strings.TrimSpace(req.Title)
	sh.Location = nil
	if location := strings.TrimSpace(req.Location); location != "" {
		sh.Location = &location
	}
	sh.Notes = nil
	if notes := strings.TrimSpace(req.Notes); notes != "" {
		sh.Notes = &notes
	}
	sh.StartTime = startTime
	sh.EndTime = endTime
	switch req.Status {
	case "", StatusPublished:
		sh.Status = StatusPublished
	case StatusDraft, StatusCancelled:
		sh.Status = req.Status
	default:
		s.logger.Warn("update shift validation failed", zap.String("status", req.Status))
		return ShiftResponse{}, shifterrors.ErrInvalidShiftStatus
	}

	if err := qtx.Update(ctx, sh); err != nil {
		s.logger.Error("update shift persist failed", zap.Error(err))
		return ShiftResponse{}, err
	}

	var desired *uuid.UUID
	if req.AssignedUserID != "" {
		resolved, err := s.resolveAssignee(ctx, tx, req.AssignedUserID)
		if err != nil {
			s.logger.Warn("update shift assignee rejected",
				zap.String("assigned_user_id", req.AssignedUserID),
				zap.Error(err),
			)
			return ShiftResponse{}, err
		}
		desired = &resolved
	}

	result, err := reconcileAssignment(ctx, qtx, sh.ID, desired)
	if err != nil {
		s.logger.Error("update shift reconcile failed", zap.Error(err))
		return ShiftResponse{}, err
	}

	if err := s.enqueueAssignmentEvent(ctx, tx, sh.ID, result, actorID); err != nil {
		return ShiftResponse{}, err
	}

	if err := tx.Commit().Error; err != nil {
		s.logger.Error("update shift commit failed", zap.Error(err))
		return ShiftResponse{}, err
	}

	if s.roster != nil {
		s.roster.InvalidateRoster(ctx)
	}

	s.logger.Info("update shift success",
		zap.String("shift_id", id),
		zap.Int("assignments_inserted", result.Inserted),
		zap.Int("assignments_updated", result.Updated),
		zap.Int("assignments_removed", result.Removed),
	)

	resp := mapToResponse(*sh)
	assigned, err := s.repo.FindAssigned(ctx, sh.ID)
	if err == nil && len(assigned) > 0 {
		resp.Assignee = mapAssignment(assigned[0])
	}
	return resp, nil
}

func (s *service) SetStatus(ctx context.Context, actorID, id, mode string) error {
	s.logger.Debug("set shift status requested",
		zap.String("shift_id", id),
		zap.String("actor_id", actorID),
		zap.String("mode", mode),
	)

	if _, err := uuid.Parse(id); err != nil {
		return shifterrors.ErrInvalidShiftID
	}

	var status string
	switch mode {
	case "cancel":
		status = StatusCancelled
	case "restore":
		status = StatusPublished
	default:
		return shifterrors.ErrInvalidStatusMode
	}

	affected, err := s.repo.UpdateStatus(ctx, id, status)
	if err != nil {
		s.logger.Error("set shift status persist failed", zap.Error(err))
		return err
	}
	if affected == 0 {
		return shifterrors.ErrShiftNotFound
	}

	if s.roster != nil {
		s.roster.InvalidateRoster(ctx)
	}

	s.logger.Info("set shift status success",
		zap.String("shift_id", id),
		zap.String("status", status),
	)
	return nil
}

func (s *service) parseWindow(date, start, end string) (time.Time, time.Time, error) {
	day, err := time.Parse("2006-01-02", date)
	if err != nil {
		return time.Time{}, time.Time{}, shifterrors.ErrInvalidDateFormat
	}

	startMinutes, err := validate.ParseTimeToMinutes(start)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	endMinutes, err := validate.ParseTimeToMinutes(end)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}

	if err := validate.ShiftWindow(startMinutes, endMinutes, s.closingMinutes); err != nil {
		return time.Time{}, time.Time{}, err
	}

	startTime := day.Add(time.Duration(startMinutes) * time.Minute)
	endTime := day.Add(time.Duration(endMinutes) * time.Minute)
	return startTime, endTime, nil
}

// resolveAssignee confirms the desired user exists and is active. Inactive
// users stay out of the assignment pool even though their rows survive.
func (s *service) resolveAssignee(ctx context.Context, tx *gorm.DB, rawID string) (uuid.UUID, error) {
	desired, err := uuid.Parse(rawID)
	if err != nil {
		return uuid.Nil, shifterrors.ErrInvalidAssignee
	}

	if _, err := s.users.WithTx(tx).FindActiveByID(ctx, rawID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return uuid.Nil, shifterrors.ErrInvalidAssignee
		}
		return uuid.Nil, err
	}
	return desired, nil
}

func (s *service) enqueueAssignmentEvent(ctx context.Context, tx *gorm.DB, shiftID uuid.UUID, result ReconcileResult, actorID string) error {
	if s.outbox == nil || !result.Changed() {
		return nil
	}

	event := events.AssignmentChangedEvent{
		ShiftID:    shiftID.String(),
		ActorID:    actorID,
		OccurredAt: time.Now().UTC(),
	}
	switch {
	case result.UserID == nil:
		event.EventType = events.AssignmentCleared
	case result.Inserted > 0:
		event.EventType = events.AssignmentAssigned
		event.UserID = result.UserID.String()
	default:
		event.EventType = events.AssignmentReassigned
		event.UserID = result.UserID.String()
	}
	if result.PrevUserID != nil {
		event.PrevUserID = result.PrevUserID.String()
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return s.outbox.WithTx(tx).Create(ctx, &kafka.OutboxEvent{
		ID:            uuid.New(),
		AggregateType: "shift",
		AggregateID:   shiftID,
		EventType:     event.EventType,
		Topic:         events.AssignmentChangedTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	})
}

func mapToResponse(sh Shift) ShiftResponse {
	resp := ShiftResponse{
		ID:        sh.ID.String(),
		Title:     sh.Title,
		Location:  sh.Location,
		Notes:     sh.Notes,
		StartTime: sh.StartTime.Format(time.RFC3339),
		EndTime:   sh.EndTime.Format(time.RFC3339),
		Status:    sh.Status,
	}
	if sh.CreatedBy != nil {
		v := sh.CreatedBy.String()
		resp.CreatedBy = &v
	}
	return resp
}

func mapAssignment(a Assignment) *AssignmentResponse {
	return &AssignmentResponse{
		ID:     a.ID.String(),
		UserID: a.UserID.String(),
		Status: a.Status,
	}
}
