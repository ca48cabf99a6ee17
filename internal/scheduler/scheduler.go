package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/mamadbah2/ridershift/internal/config"
)

const (
	jobTimeout = 2 * time.Minute

	// exportLookbackDays re-scans recent closings so a missed night is caught
	// up; rows already in the sheet are skipped by the exporter.
	exportLookbackDays = 7
)

// Reporter is the work run on every tick.
type Reporter interface {
	CloseWindow(t time.Time) (time.Time, time.Time)
	SendDailyDigest(ctx context.Context, day time.Time) error
	ExportSheets(ctx context.Context, from, to time.Time) (int, error)
}

// Scheduler manages scheduled tasks.
type Scheduler struct {
	cron     *cron.Cron
	reporter Reporter
	schedule string
	logger   *zap.Logger
	now      func() time.Time
}

// NewScheduler creates a scheduler firing on cfg.Reporting.CronSchedule in the
// configured timezone.
func NewScheduler(cfg config.Config, reporter Reporter, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}

	// standard 5-field cron: min, hour, dom, month, dow
	c := cron.New(cron.WithLocation(cfg.Location()))

	return &Scheduler{
		cron:     c,
		reporter: reporter,
		schedule: cfg.Reporting.CronSchedule,
		logger:   logger,
		now:      time.Now,
	}
}

// Start registers the report job and starts the scheduler.
func (s *Scheduler) Start() error {
	s.logger.Info("starting scheduler", zap.String("schedule", s.schedule))

	if _, err := s.cron.AddFunc(s.schedule, s.runDailyReport); err != nil {
		return fmt.Errorf("schedule daily report %q: %w", s.schedule, err)
	}

	s.cron.Start()
	return nil
}

// Stop stops the scheduler and waits for a running job to finish.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	<-s.cron.Stop().Done()
}

// runDailyReport covers the previous calendar day: the job fires after midnight.
func (s *Scheduler) runDailyReport() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	yesterday := s.now().AddDate(0, 0, -1)
	s.logger.Info("generating daily report", zap.Time("day", yesterday))

	if err := s.reporter.SendDailyDigest(ctx, yesterday); err != nil {
		s.logger.Error("failed to send daily digest", zap.Error(err))
	}

	from, _ := s.reporter.CloseWindow(yesterday.AddDate(0, 0, 1-exportLookbackDays))
	_, to := s.reporter.CloseWindow(yesterday)
	written, err := s.reporter.ExportSheets(ctx, from, to)
	if err != nil {
		s.logger.Error("failed to export shifts to sheets", zap.Error(err), zap.Int("rows_written", written))
		return
	}
	s.logger.Info("daily report done", zap.Int("rows_exported", written))
}
