package staff

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/Jordan1022/laundryco-scheduler/internal/events"
	"github.com/Jordan1022/laundryco-scheduler/internal/messaging/kafka"
	"github.com/Jordan1022/laundryco-scheduler/internal/shared/validate"
	stafferrors "github.com/Jordan1022/laundryco-scheduler/internal/staff/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	StatusModeDeactivate = "deactivate"
	StatusModeReactivate = "reactivate"
)

type Service interface {
	Create(ctx context.Context, actorID string, req CreateStaffRequest) (StaffResponse, error)
	GetAll(ctx context.Context) ([]StaffResponse, error)
	GetByID(ctx context.Context, id string) (StaffResponse, error)
	UpdateRole(ctx context.Context, actorID, id, role string) error
	SetStatus(ctx context.Context, actorID, id string, req SetStatusRequest) error
	ResetPassword(ctx context.Context, actorID, id, password string) error
}

type service struct {
	db     *gorm.DB
	repo   Repository
	outbox kafka.OutboxRepository
	logger *zap.Logger
}

func NewService(db *gorm.DB, repo Repository, outbox kafka.OutboxRepository, logger ...*zap.Logger) Service {
	l := zap.L().Named("staff.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("staff.service")
	}
	return &service{db: db, repo: repo, outbox: outbox, logger: l}
}

func (s *service) Create(ctx context.Context, actorID string, req CreateStaffRequest) (StaffResponse, error) {
	s.logger.Debug("create staff requested",
		zap.String("actor_id", actorID),
		zap.String("email", req.Email),
		zap.String("role", req.Role),
	)

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if err := validate.Email(email); err != nil {
		s.logger.Warn("create staff validation failed", zap.Error(err))
		return StaffResponse{}, err
	}
	if err := validate.Role(req.Role); err != nil {
		return StaffResponse{}, err
	}
	if err := validate.PasswordStrength(req.Password); err != nil {
		return StaffResponse{}, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error("hash password failed", zap.Error(err))
		return StaffResponse{}, err
	}

	u := &User{
		ID:             uuid.New(),
		Name:           strings.TrimSpace(req.Name),
		Email:          email,
		Role:           req.Role,
		IsActive:       true,
		HashedPassword: string(hashedPassword),
	}
	if phone := strings.TrimSpace(req.Phone); phone != "" {
		u.Phone = &phone
	}

	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		s.logger.Error("create staff begin tx failed", zap.Error(tx.Error))
		return StaffResponse{}, tx.Error
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	if err := qtx.Create(ctx, u); err != nil {
		mapped := mapRepositoryError(err)
		s.logger.Warn("create staff persist failed", zap.Error(mapped))
		return StaffResponse{}, mapped
	}

	if err := s.enqueueLifecycleEvent(ctx, tx, events.StaffCreated, u, actorID); err != nil {
		s.logger.Error("create staff enqueue event failed", zap.Error(err))
		return StaffResponse{}, err
	}

	if err := tx.Commit().Error; err != nil {
		s.logger.Error("create staff commit failed", zap.Error(err))
		return StaffResponse{}, err
	}

	s.logger.Info("create staff success",
		zap.String("user_id", u.ID.String()),
		zap.String("role", u.Role),
	)
	return mapToResponse(*u), nil
}

func (s *service) GetAll(ctx context.Context) ([]StaffResponse, error) {
	users, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	resp := make([]StaffResponse, len(users))
	for i, u := range users {
		resp[i] = mapToResponse(u)
	}
	return resp, nil
}

func (s *service) GetByID(ctx context.Context, id string) (StaffResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return StaffResponse{}, stafferrors.ErrInvalidStaffID
	}

	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return StaffResponse{}, mapRepositoryError(err)
	}
	return mapToResponse(*u), nil
}

// UpdateRole changes an active user's role. Moving the last active admin out
// of the admin role is refused; the count and the update run in one
// transaction with the target row locked so concurrent demotions cannot both
// pass a stale count.
func (s *service) UpdateRole(ctx context.Context, actorID, id, role string) error {
	s.logger.Debug("update staff role requested",
		zap.String("user_id", id),
		zap.String("actor_id", actorID),
		zap.String("target_role", role),
	)

	if _, err := uuid.Parse(id); err != nil {
		return stafferrors.ErrInvalidStaffID
	}
	if err := validate.Role(role); err != nil {
		return err
	}

	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		s.logger.Error("update staff role begin tx failed", zap.Error(tx.Error))
		return tx.Error
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	u, err := qtx.FindByIDForUpdate(ctx, id)
	if err != nil {
		return mapRepositoryError(err)
	}

	if u.IsActive && u.Role == RoleAdmin && role != RoleAdmin {
		if err := s.assertNotLastAdmin(ctx, qtx); err != nil {
			s.logger.Warn("update staff role blocked",
				zap.String("user_id", id),
				zap.Error(err),
			)
			return err
		}
	}

	u.Role = role
	if err := qtx.Update(ctx, u); err != nil {
		s.logger.Error("update staff role persist failed", zap.Error(err))
		return mapRepositoryError(err)
	}

	if err := s.enqueueLifecycleEvent(ctx, tx, events.StaffRoleChanged, u, actorID); err != nil {
		return err
	}

	if err := tx.Commit().Error; err != nil {
		s.logger.Error("update staff role commit failed", zap.Error(err))
		return err
	}

	s.logger.Info("update staff role success",
		zap.String("user_id", id),
		zap.String("role", role),
	)
	return nil
}

// SetStatus deactivates or reactivates a user. Deactivation keeps the row and
// its last-known role; reactivation may restore into a different role.
func (s *service) SetStatus(ctx context.Context, actorID, id string, req SetStatusRequest) error {
	s.logger.Debug("set staff status requested",
		zap.String("user_id", id),
		zap.String("actor_id", actorID),
		zap.String("mode", req.Mode),
	)

	if _, err := uuid.Parse(id); err != nil {
		return stafferrors.ErrInvalidStaffID
	}
	if req.Mode != StatusModeDeactivate && req.Mode != StatusModeReactivate {
		return stafferrors.ErrInvalidStatusMode
	}
	if req.Mode == StatusModeReactivate && req.Role != "" {
		if err := validate.Role(req.Role); err != nil {
			return err
		}
	}

	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		s.logger.Error("set staff status begin tx failed", zap.Error(tx.Error))
		return tx.Error
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	u, err := qtx.FindByIDForUpdate(ctx, id)
	if err != nil {
		return mapRepositoryError(err)
	}

	eventType := events.StaffReactivated
	if req.Mode == StatusModeDeactivate {
		eventType = events.StaffDeactivated
		if u.IsActive && u.Role == RoleAdmin {
			if err := s.assertNotLastAdmin(ctx, qtx); err != nil {
				s.logger.Warn("deactivate staff blocked",
					zap.String("user_id", id),
					zap.Error(err),
				)
				return err
			}
		}
		u.IsActive = false
	} else {
		u.IsActive = true
		if req.Role != "" {
			u.Role = req.Role
		}
	}

	if err := qtx.Update(ctx, u); err != nil {
		s.logger.Error("set staff status persist failed", zap.Error(err))
		return mapRepositoryError(err)
	}

	if err := s.enqueueLifecycleEvent(ctx, tx, eventType, u, actorID); err != nil {
		return err
	}

	if err := tx.Commit().Error; err != nil {
		s.logger.Error("set staff status commit failed", zap.Error(err))
		return err
	}

	s.logger.Info("set staff status success",
		zap.String("user_id", id),
		zap.String("mode", req.Mode),
	)
	return nil
}

func (s *service) ResetPassword(ctx context.Context, actorID, id, password string) error {
	s.logger.Debug("reset staff password requested",
		zap.String("user_id", id),
		zap.String("actor_id", actorID),
	)

	if _, err := uuid.Parse(id); err != nil {
		return stafferrors.ErrInvalidStaffID
	}
	if err := validate.PasswordStrength(password); err != nil {
		return err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error("hash password failed", zap.Error(err))
		return err
	}

	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return tx.Error
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	u, err := qtx.FindByIDForUpdate(ctx, id)
	if err != nil {
		return mapRepositoryError(err)
	}

	u.HashedPassword = string(hashedPassword)
	if err := qtx.Update(ctx, u); err != nil {
		s.logger.Error("reset staff password persist failed", zap.Error(err))
		return mapRepositoryError(err)
	}

	if err := tx.Commit().Error; err != nil {
		return err
	}

	s.logger.Info("reset staff password success", zap.String("user_id", id))
	return nil
}

// assertNotLastAdmin runs inside the caller's transaction. The count locks
// all active admin rows, so a concurrent demotion of a different admin waits
// and then re-reads the committed count.
func (s *service) assertNotLastAdmin(ctx context.Context, qtx Repository) error {
	admins, err := qtx.CountActiveAdminsForUpdate(ctx)
	if err != nil {
		return err
	}
	if admins <= 1 {
		return stafferrors.ErrLastAdminProtected
	}
	return nil
}

func (s *service) enqueueLifecycleEvent(ctx context.Context, tx *gorm.DB, eventType string, u *User, actorID string) error {
	if s.outbox == nil {
		return nil
	}

	payload, err := json.Marshal(events.StaffLifecycleEvent{
		EventType:  eventType,
		UserID:     u.ID.String(),
		Role:       u.Role,
		IsActive:   u.IsActive,
		ActorID:    actorID,
		OccurredAt: time.Now().UTC(),
	})
	if err != nil {
		return err
	}

	return s.outbox.WithTx(tx).Create(ctx, &kafka.OutboxEvent{
		ID:            uuid.New(),
		AggregateType: "user",
		AggregateID:   u.ID,
		EventType:     eventType,
		Topic:         events.StaffLifecycleTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	})
}

func mapToResponse(u User) StaffResponse {
	return StaffResponse{
		ID:        u.ID.String(),
		Name:      u.Name,
		Email:     u.Email,
		Phone:     u.Phone,
		Role:      u.Role,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}
