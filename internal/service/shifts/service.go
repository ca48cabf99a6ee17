package shifts

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mamadbah2/ridershift/internal/config"
	"github.com/mamadbah2/ridershift/internal/domain/models"
	"github.com/mamadbah2/ridershift/internal/metrics"
	"github.com/mamadbah2/ridershift/internal/repository"
	"github.com/mamadbah2/ridershift/internal/service/balance"
	"github.com/mamadbah2/ridershift/internal/service/notify"
)

var (
	// ErrInvalidShift indicates a submission that failed validation.
	ErrInvalidShift = errors.New("invalid shift report")
	// ErrNotFound indicates an unknown shift entry id.
	ErrNotFound = errors.New("shift entry not found")
	// ErrShiftClosed is returned when closing an entry that is already closed.
	ErrShiftClosed = errors.New("shift is already closed")
	// ErrNothingToCollect is returned when there is no outstanding expense cash.
	ErrNothingToCollect = errors.New("no outstanding cash to collect")
	// ErrConflict is returned when another writer changed the entry first.
	ErrConflict = errors.New("shift entry was modified concurrently")
)

const (
	opClose       = "close"
	opCollectCash = "collect_cash"
)

// FeeSource yields the fee schedule in effect right now.
type FeeSource interface {
	Current(ctx context.Context) models.FeeSchedule
}

// Service owns shift submission and the open → closed lifecycle.
type Service struct {
	repo     repository.ShiftStore
	fees     FeeSource
	notifier notify.Notifier
	metrics  *metrics.Metrics
	shiftCfg config.ShiftConfig
	loc      *time.Location
	logger   *zap.Logger
	now      func() time.Time
	newID    func() string
}

// NewService wires the shift lifecycle service.
func NewService(repo repository.ShiftStore, fees FeeSource, notifier notify.Notifier, m *metrics.Metrics, shiftCfg config.ShiftConfig, loc *time.Location, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if notifier == nil {
		notifier = notify.NewLogNotifier(logger)
	}
	if loc == nil {
		loc = time.UTC
	}
	return &Service{
		repo:     repo,
		fees:     fees,
		notifier: notifier,
		metrics:  m,
		shiftCfg: shiftCfg,
		loc:      loc,
		logger:   logger,
		now:      time.Now,
		newID:    uuid.NewString,
	}
}

// ShiftAt returns the shift label covering t in the service timezone.
func (s *Service) ShiftAt(t time.Time) models.ShiftLabel {
	hour := t.In(s.loc).Hour()
	if hour >= s.shiftCfg.DayStartHour && hour < s.shiftCfg.DayEndHour {
		return models.ShiftDay
	}
	return models.ShiftNight
}

// LastClosingBalance is the closing balance of the rider's most recent closed
// entry, or 0 when there is none.
func (s *Service) LastClosingBalance(ctx context.Context, riderID string) (int, error) {
	entries, err := s.repo.ListShifts(ctx, models.ShiftFilter{
		RiderID: riderID,
		Status:  models.ShiftClosed,
		Limit:   1,
	})
	if err != nil {
		return 0, fmt.Errorf("load last closed shift: %w", err)
	}
	if len(entries) == 0 {
		return 0, nil
	}
	return entries[0].ClosingBalance, nil
}

type prepared struct {
	label  models.ShiftLabel
	inputs balance.Inputs
	fees   models.FeeSchedule
	totals balance.Totals
}

func (s *Service) prepare(ctx context.Context, riderID string, form models.ShiftForm, now time.Time) (prepared, error) {
	if riderID == "" {
		return prepared{}, fmt.Errorf("%w: missing rider", ErrInvalidShift)
	}

	label := models.ShiftLabel(strings.ToLower(strings.TrimSpace(form.Shift)))
	if label == "" {
		label = s.ShiftAt(now)
	} else if !label.Valid() {
		return prepared{}, fmt.Errorf("%w: unknown shift %q", ErrInvalidShift, form.Shift)
	}

	inputs := balance.FromForm(form)
	if !form.OpenBalance.Present {
		last, err := s.LastClosingBalance(ctx, riderID)
		if err != nil {
			return prepared{}, err
		}
		inputs.OpenBalance = last
	}

	if err := validate(inputs); err != nil {
		return prepared{}, err
	}

	fees := s.fees.Current(ctx)
	return prepared{
		label:  label,
		inputs: inputs,
		fees:   fees,
		totals: balance.Compute(inputs, fees),
	}, nil
}

// Preview computes what a submission would store without persisting it.
func (s *Service) Preview(ctx context.Context, riderID string, form models.ShiftForm) (models.ShiftPreview, error) {
	p, err := s.prepare(ctx, riderID, form, s.now())
	if err != nil {
		return models.ShiftPreview{}, err
	}
	return models.ShiftPreview{
		Shift:          p.label,
		OpenBalance:    p.inputs.OpenBalance,
		OnlinePayments: p.inputs.OnlinePayments,
		TotalOnline:    p.totals.TotalOnline,
		BaseTotal:      p.totals.BaseTotal,
		ClosingBalance: p.totals.ClosingBalance,
		Fees:           p.fees,
	}, nil
}

// Submit records a rider's shift report. The fee schedule is read once and
// frozen into the entry together with the computed totals.
func (s *Service) Submit(ctx context.Context, riderID string, form models.ShiftForm) (models.ShiftEntry, error) {
	now := s.now()
	p, err := s.prepare(ctx, riderID, form, now)
	if err != nil {
		return models.ShiftEntry{}, err
	}

	local := now.In(s.loc)
	entry := models.ShiftEntry{
		ID:            s.newID(),
		RiderID:       riderID,
		Shift:         p.label,
		EntryDate:     time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC),
		OpenBalance:   p.inputs.OpenBalance,
		Orders60:      p.inputs.Orders60,
		Orders100:     p.inputs.Orders100,
		Orders150:     p.inputs.Orders150,
		Commission:    p.inputs.Commission,
		OtherFee:      p.inputs.OtherFee,
		PetrolExpense: p.inputs.PetrolExpense,
		ChaiExpense:   p.inputs.ChaiExpense,
		OtherExpense: models.OtherExpense{
			Name:   strings.TrimSpace(form.OtherExpenseName),
			Amount: p.inputs.OtherExpenseAmount,
		},
		OnlinePayments: p.inputs.OnlinePayments,
		Notes:          strings.TrimSpace(form.Notes),
		Fees:           p.fees,
		BaseTotal:      p.totals.BaseTotal,
		ClosingBalance: p.totals.ClosingBalance,
		Status:         models.ShiftOpen,
		CreatedAt:      now.UTC(),
		UpdatedAt:      now.UTC(),
		Version:        1,
	}

	if err := s.repo.InsertShift(ctx, entry); err != nil {
		return models.ShiftEntry{}, fmt.Errorf("insert shift entry: %w", err)
	}

	s.metrics.ShiftSubmitted()
	s.logger.Info("shift submitted",
		zap.String("entry_id", entry.ID),
		zap.String("rider_id", riderID),
		zap.String("shift", string(entry.Shift)),
		zap.Int("closing_balance", entry.ClosingBalance))
	return entry, nil
}

// Close moves an open entry to closed. Closing an already closed entry is
// rejected with ErrShiftClosed and leaves the record untouched.
func (s *Service) Close(ctx context.Context, id string) (models.ShiftEntry, error) {
	entry, err := s.transition(ctx, opClose, id, func(e *models.ShiftEntry, now time.Time) error {
		if e.Status == models.ShiftClosed {
			return ErrShiftClosed
		}
		e.Status = models.ShiftClosed
		e.ClosedAt = &now
		return nil
	})
	if err != nil {
		s.notifier.NotifyError(ctx, fmt.Sprintf("Failed to close shift %s: %v", id, err))
		return models.ShiftEntry{}, err
	}

	s.notifier.NotifySuccess(ctx, fmt.Sprintf("Shift %s closed. Closing balance Rs %d.", entry.ID, entry.ClosingBalance))
	return entry, nil
}

// CollectCash marks the outstanding other-expense cash as retrieved: the amount
// drops to zero and the collected flag is set. The closing balance is kept.
func (s *Service) CollectCash(ctx context.Context, id string) (models.ShiftEntry, error) {
	var collected int
	entry, err := s.transition(ctx, opCollectCash, id, func(e *models.ShiftEntry, now time.Time) error {
		if !e.CanCollectCash() {
			return ErrNothingToCollect
		}
		collected = e.OtherExpense.Amount
		e.OtherExpense.Amount = 0
		e.CashCollected = true
		e.CashCollectedAt = &now
		return nil
	})
	if err != nil {
		s.notifier.NotifyError(ctx, fmt.Sprintf("Failed to collect cash for shift %s: %v", id, err))
		return models.ShiftEntry{}, err
	}

	s.notifier.NotifySuccess(ctx, fmt.Sprintf("Collected Rs %d cash for shift %s.", collected, entry.ID))
	return entry, nil
}

// transition loads the entry, applies mutate and writes it back guarded by
// the version read. Nothing is written when mutate or the write fails.
func (s *Service) transition(ctx context.Context, op, id string, mutate func(*models.ShiftEntry, time.Time) error) (models.ShiftEntry, error) {
	entry, err := s.Get(ctx, id)
	if err == nil {
		now := s.now().UTC()
		expected := entry.Version
		if err = mutate(&entry, now); err == nil {
			entry.UpdatedAt = now
			entry.Version = expected + 1
			err = translateStoreErr(s.repo.UpdateShift(ctx, entry, expected))
		}
	}

	s.metrics.Transition(op, err)
	if err != nil {
		s.logger.Warn("shift transition refused", zap.String("operation", op), zap.String("entry_id", id), zap.Error(err))
		return models.ShiftEntry{}, err
	}

	s.logger.Info("shift transition applied", zap.String("operation", op), zap.String("entry_id", id))
	return entry, nil
}

// Get loads one entry.
func (s *Service) Get(ctx context.Context, id string) (models.ShiftEntry, error) {
	entry, err := s.repo.GetShift(ctx, id)
	if err != nil {
		return models.ShiftEntry{}, translateStoreErr(err)
	}
	return entry, nil
}

// List returns entries matching filter, newest first.
func (s *Service) List(ctx context.Context, filter models.ShiftFilter) ([]models.ShiftEntry, error) {
	entries, err := s.repo.ListShifts(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list shift entries: %w", err)
	}
	return entries, nil
}

// Stats folds every entry into the dashboard rollups. It is recomputed on
// each call.
func (s *Service) Stats(ctx context.Context) (models.Stats, error) {
	entries, err := s.List(ctx, models.ShiftFilter{})
	if err != nil {
		return models.Stats{}, err
	}
	return Summarize(entries), nil
}

// Summarize computes the rollups over entries.
func Summarize(entries []models.ShiftEntry) models.Stats {
	var st models.Stats
	for _, e := range entries {
		st.Entries++
		if e.Status == models.ShiftClosed {
			st.ClosedShifts++
		} else {
			st.OpenShifts++
		}
		st.TotalOrders += e.TotalOrders()
		st.TotalOnline += e.TotalOnline()
		st.TotalCommission += e.Commission
		st.TotalExpenses += e.PetrolExpense + e.ChaiExpense + e.OtherExpense.Amount
		if e.CanCollectCash() {
			st.OutstandingCash += e.OtherExpense.Amount
		}
	}
	return st
}

func validate(in balance.Inputs) error {
	fields := []struct {
		name  string
		value int
	}{
		{"orders_60", in.Orders60},
		{"orders_100", in.Orders100},
		{"orders_150", in.Orders150},
		{"commission", in.Commission},
		{"other_fee", in.OtherFee},
		{"petrol_expense", in.PetrolExpense},
		{"chai_expense", in.ChaiExpense},
		{"other_expense_amount", in.OtherExpenseAmount},
	}
	for _, f := range fields {
		if f.value < 0 {
			return fmt.Errorf("%w: %s must not be negative", ErrInvalidShift, f.name)
		}
	}
	for _, p := range in.OnlinePayments {
		if p.Amount < 0 {
			return fmt.Errorf("%w: online payment from %s must not be negative", ErrInvalidShift, p.Name)
		}
	}
	return nil
}

func translateStoreErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, repository.ErrConflict):
		return ErrConflict
	default:
		return fmt.Errorf("shift store: %w", err)
	}
}
