package authcode

import (
	"context"
	"errors"
	"fmt"
	"time"

	apperrors "bank/internal/errors"
	"bank/internal/models"
	"bank/internal/repositories"
	"bank/internal/utils"

	"go.uber.org/zap"
)

// DefaultCodeLength matches the default transfer code pattern.
const DefaultCodeLength = 10

// Config controls issued codes.
type Config struct {
	// TTL is how long an issued code stays usable. Zero means no expiry.
	TTL    time.Duration
	Length int
}

type service struct {
	codes CodeStore
	cfg   Config
	log   *zap.Logger
	now   func() time.Time
}

// NewService creates the authorization code service.
func NewService(codes CodeStore, cfg Config, log *zap.Logger) Service {
	if codes == nil {
		panic("code store is required")
	}
	if cfg.Length <= 0 {
		cfg.Length = DefaultCodeLength
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &service{codes: codes, cfg: cfg, log: log.Named("authcode"), now: time.Now}
}

func (s *service) Validate(ctx context.Context, scope repositories.Scope, code string, userID uint) (bool, error) {
	if scope == nil || scope.Done() {
		return false, apperrors.Persistence(repositories.ErrScopeRequired)
	}

	tc, err := s.codes.FindForUpdate(ctx, scope, code, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrCodeNotFound) {
			return false, nil
		}
		return false, apperrors.Persistence(fmt.Errorf("load transfer code: %w", err))
	}

	now := s.now()
	if !tc.Usable(now) {
		s.log.Info("transfer code not usable",
			zap.Uint("user_id", userID),
			zap.Bool("used", tc.UsedAt != nil),
			zap.String("scope", scope.ID()),
		)
		return false, nil
	}

	tc.UsedAt = &now
	if err := s.codes.Save(ctx, scope, tc); err != nil {
		return false, apperrors.Persistence(fmt.Errorf("consume transfer code: %w", err))
	}
	return true, nil
}

func (s *service) Issue(ctx context.Context, userID uint, n int) ([]string, error) {
	if n <= 0 {
		return nil, fmt.Errorf("code count must be positive, got %d", n)
	}

	var expiresAt *time.Time
	if s.cfg.TTL > 0 {
		t := s.now().Add(s.cfg.TTL)
		expiresAt = &t
	}

	plain := make([]string, 0, n)
	records := make([]*models.TransactionCode, 0, n)
	for i := 0; i < n; i++ {
		code, err := utils.GenerateCode(s.cfg.Length)
		if err != nil {
			return nil, fmt.Errorf("generate transfer code: %w", err)
		}
		plain = append(plain, code)
		records = append(records, &models.TransactionCode{Code: code, UserID: userID, ExpiresAt: expiresAt})
	}

	if err := s.codes.CreateBatch(ctx, records); err != nil {
		return nil, err
	}
	s.log.Info("issued transfer codes", zap.Uint("user_id", userID), zap.Int("count", n))
	return plain, nil
}
