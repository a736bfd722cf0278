package auth

import (
	"context"
	"time"

	autherrors "github.com/Jordan1022/laundryco-scheduler/internal/auth/errors"
	"github.com/Jordan1022/laundryco-scheduler/internal/staff"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type Service interface {
	Login(ctx context.Context, email, password string) (accessToken string, resp AuthResponse, err error)
	GetMe(ctx context.Context, userID string) (*AuthResponse, error)
}

type service struct {
	users     staff.Repository
	jwtSecret []byte
	tokenTTL  time.Duration
	logger    *zap.Logger
}

func NewService(users staff.Repository, jwtSecret string, tokenTTL time.Duration, logger ...*zap.Logger) Service {
	l := zap.L().Named("auth.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("auth.service")
	}
	if tokenTTL <= 0 {
		tokenTTL = 12 * time.Hour
	}
	return &service{
		users:     users,
		jwtSecret: []byte(jwtSecret),
		tokenTTL:  tokenTTL,
		logger:    l,
	}
}

func (s *service) Login(ctx context.Context, email, password string) (string, AuthResponse, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		s.logger.Warn("login failed", zap.String("reason", "unknown email"))
		return "", AuthResponse{}, autherrors.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(password)); err != nil {
		s.logger.Warn("login failed",
			zap.String("user_id", user.ID.String()),
			zap.String("reason", "wrong password"),
		)
		return "", AuthResponse{}, autherrors.ErrInvalidCredentials
	}

	// Deactivated accounts keep their credentials but cannot sign in.
	if !user.IsActive {
		s.logger.Warn("login failed",
			zap.String("user_id", user.ID.String()),
			zap.String("reason", "account deactivated"),
		)
		return "", AuthResponse{}, autherrors.ErrAccountDeactivated
	}

	token, err := s.generateToken(user.ID.String(), user.Role)
	if err != nil {
		s.logger.Error("token generation failed", zap.Error(err))
		return "", AuthResponse{}, autherrors.ErrTokenGenerationFailed
	}

	s.logger.Info("login success", zap.String("user_id", user.ID.String()))
	return token, AuthResponse{
		ID:    user.ID.String(),
		Name:  user.Name,
		Email: user.Email,
		Role:  user.Role,
	}, nil
}

func (s *service) GetMe(ctx context.Context, userID string) (*AuthResponse, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, autherrors.ErrUserNotFound
	}

	return &AuthResponse{
		ID:    user.ID.String(),
		Name:  user.Name,
		Email: user.Email,
		Role:  user.Role,
	}, nil
}

func (s *service) generateToken(userID, role string) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userID,
		"role":    role,
		"exp":     time.Now().Add(s.tokenTTL).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}
