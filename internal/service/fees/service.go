package fees

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/ridershift/internal/domain/models"
	"github.com/mamadbah2/ridershift/internal/repository"
)

// ErrInvalidFees indicates a negative fee in an update.
var ErrInvalidFees = errors.New("fees must be non-negative")

// Service reads and replaces the fee schedule.
type Service struct {
	repo   repository.FeeStore
	logger *zap.Logger
	now    func() time.Time
}

// NewService wires a fee schedule service.
func NewService(repo repository.FeeStore, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{repo: repo, logger: logger, now: time.Now}
}

// Current returns the stored schedule. When none was saved yet, or the read
// fails, the defaults are returned instead of an error.
func (s *Service) Current(ctx context.Context) models.FeeSchedule {
	schedule, err := s.repo.GetFeeSchedule(ctx)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			s.logger.Warn("fee schedule read failed, using defaults", zap.Error(err))
		}
		return models.DefaultFeeSchedule()
	}
	return schedule
}

// Update replaces the three tier fees.
func (s *Service) Update(ctx context.Context, fee60, fee100, fee150 int) (models.FeeSchedule, error) {
	if fee60 < 0 || fee100 < 0 || fee150 < 0 {
		return models.FeeSchedule{}, ErrInvalidFees
	}

	schedule := models.FeeSchedule{
		Fee60:     fee60,
		Fee100:    fee100,
		Fee150:    fee150,
		UpdatedAt: s.now().UTC(),
	}
	if err := s.repo.SaveFeeSchedule(ctx, schedule); err != nil {
		return models.FeeSchedule{}, fmt.Errorf("save fee schedule: %w", err)
	}

	s.logger.Info("fee schedule updated",
		zap.Int("fee_60", fee60),
		zap.Int("fee_100", fee100),
		zap.Int("fee_150", fee150))
	return schedule, nil
}
