package dues

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mamadbah2/ridershift/internal/domain/models"
	"github.com/mamadbah2/ridershift/internal/metrics"
	"github.com/mamadbah2/ridershift/internal/repository"
	"github.com/mamadbah2/ridershift/internal/service/balance"
)

const dueDateLayout = "2006-01-02"

var (
	// ErrInvalidDue indicates a due that failed validation.
	ErrInvalidDue = errors.New("invalid due")
	// ErrNotFound indicates an unknown due id.
	ErrNotFound = errors.New("due not found")
)

// Service manages the customer dues ledger.
type Service struct {
	repo    repository.DueStore
	metrics *metrics.Metrics
	logger  *zap.Logger
	now     func() time.Time
	newID   func() string
}

// NewService wires the dues ledger.
func NewService(repo repository.DueStore, m *metrics.Metrics, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		repo:    repo,
		metrics: m,
		logger:  logger,
		now:     time.Now,
		newID:   uuid.NewString,
	}
}

// Create records a pending due for riderID. An empty due date means today.
func (s *Service) Create(ctx context.Context, riderID string, form models.DueForm) (models.Due, error) {
	name := strings.TrimSpace(form.CustomerName)
	if riderID == "" {
		return models.Due{}, fmt.Errorf("%w: missing rider", ErrInvalidDue)
	}
	if name == "" {
		return models.Due{}, fmt.Errorf("%w: customer name is required", ErrInvalidDue)
	}
	amount := balance.Amount(form.Amount)
	if amount <= 0 {
		return models.Due{}, fmt.Errorf("%w: amount must be positive", ErrInvalidDue)
	}

	now := s.now().UTC()
	dueDate := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if raw := strings.TrimSpace(form.DueDate); raw != "" {
		parsed, err := time.Parse(dueDateLayout, raw)
		if err != nil {
			return models.Due{}, fmt.Errorf("%w: due date must look like %s", ErrInvalidDue, dueDateLayout)
		}
		dueDate = parsed
	}

	due := models.Due{
		ID:           s.newID(),
		RiderID:      riderID,
		CustomerName: name,
		Amount:       amount,
		DueDate:      dueDate,
		Notes:        strings.TrimSpace(form.Notes),
		Status:       models.DuePending,
		CreatedAt:    now,
	}
	if err := s.repo.InsertDue(ctx, due); err != nil {
		return models.Due{}, fmt.Errorf("insert due: %w", err)
	}

	s.logger.Info("due recorded", zap.String("due_id", due.ID), zap.String("rider_id", riderID), zap.Int("amount", amount))
	return due, nil
}

// MarkPaid moves a due to paid. Paying an already paid due changes nothing.
func (s *Service) MarkPaid(ctx context.Context, id string) (models.Due, error) {
	due, err := s.repo.GetDue(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return models.Due{}, ErrNotFound
		}
		return models.Due{}, fmt.Errorf("load due: %w", err)
	}
	if due.Status == models.DuePaid {
		return due, nil
	}

	now := s.now().UTC()
	if err := s.repo.SetDueStatus(ctx, id, models.DuePaid, now); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return models.Due{}, ErrNotFound
		}
		return models.Due{}, fmt.Errorf("mark due paid: %w", err)
	}

	due.Status = models.DuePaid
	due.PaidAt = &now
	s.metrics.DuePaid()
	s.logger.Info("due paid", zap.String("due_id", id), zap.Int("amount", due.Amount))
	return due, nil
}

// List returns dues matching filter, newest first.
func (s *Service) List(ctx context.Context, filter models.DueFilter) ([]models.Due, error) {
	dues, err := s.repo.ListDues(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list dues: %w", err)
	}
	return dues, nil
}

// PendingTotal sums the amount of every pending due.
func (s *Service) PendingTotal(ctx context.Context) (int, error) {
	summary, err := s.Summary(ctx)
	if err != nil {
		return 0, err
	}
	return summary.PendingTotal, nil
}

// Summary returns every due together with the pending aggregates.
func (s *Service) Summary(ctx context.Context) (models.DuesSummary, error) {
	dues, err := s.List(ctx, models.DueFilter{})
	if err != nil {
		return models.DuesSummary{}, err
	}

	summary := models.DuesSummary{Dues: dues}
	for _, d := range dues {
		if d.Status == models.DuePending {
			summary.PendingTotal += d.Amount
			summary.PendingCount++
		}
	}
	return summary, nil
}
