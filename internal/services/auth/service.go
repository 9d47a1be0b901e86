package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"bank/internal/models"
	"bank/internal/repositories"
	"bank/internal/utils"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
)

// UserStore is the user lookup used for login.
type UserStore interface {
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}

type Service interface {
	Login(ctx context.Context, email, password string) (*models.User, string, error)
	ParseToken(token string) (*models.UserClaims, error)
}

type service struct {
	users    UserStore
	secret   string
	tokenTTL time.Duration
	log      *zap.Logger
}

func NewService(users UserStore, secret string, tokenTTL time.Duration, log *zap.Logger) Service {
	if users == nil {
		panic("user store is required")
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &service{users: users, secret: secret, tokenTTL: tokenTTL, log: log.Named("auth")}
}

func (s *service) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	user, err := s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if !errors.Is(err, repositories.ErrUserNotFound) {
			return nil, "", err
		}
		s.log.Info("login failed: unknown user")
		return nil, "", ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		s.log.Info("login failed: wrong password", zap.Uint("user_id", user.ID))
		return nil, "", ErrInvalidCredentials
	}
	if user.Status != "" && user.Status != models.UserStatusActive {
		s.log.Info("login failed: user not active", zap.Uint("user_id", user.ID), zap.String("status", user.Status))
		return nil, "", ErrInvalidCredentials
	}

	token, err := utils.GenerateToken(s.secret, s.tokenTTL, &models.UserClaims{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
	})
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

func (s *service) ParseToken(token string) (*models.UserClaims, error) {
	claims, err := utils.ParseToken(s.secret, token)
	if err != nil {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
