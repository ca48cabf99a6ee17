package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/ridershift/internal/config"
)

type fakeReporter struct {
	digestDay  time.Time
	exportFrom time.Time
	exportTo   time.Time
	digestErr  error
	exports    int
}

func (f *fakeReporter) CloseWindow(t time.Time) (time.Time, time.Time) {
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 0, 1)
}

func (f *fakeReporter) SendDailyDigest(_ context.Context, day time.Time) error {
	f.digestDay = day
	return f.digestErr
}

func (f *fakeReporter) ExportSheets(_ context.Context, from, to time.Time) (int, error) {
	f.exports++
	f.exportFrom, f.exportTo = from, to
	return 3, nil
}

func testConfig(schedule string) config.Config {
	return config.Config{Reporting: config.ReportingConfig{CronSchedule: schedule, Timezone: "UTC"}}
}

func TestScheduler_RunDailyReportCoversYesterday(t *testing.T) {
	reporter := &fakeReporter{}
	s := NewScheduler(testConfig("0 3 * * *"), reporter, nil)
	s.now = func() time.Time { return time.Date(2025, 3, 2, 3, 0, 0, 0, time.UTC) }

	s.runDailyReport()

	assert.Equal(t, 1, reporter.digestDay.Day())
	// a week of closings ending with yesterday
	assert.Equal(t, time.Date(2025, 2, 23, 0, 0, 0, 0, time.UTC), reporter.exportFrom)
	assert.Equal(t, time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC), reporter.exportTo)
}

func TestScheduler_ExportRunsWhenDigestFails(t *testing.T) {
	reporter := &fakeReporter{digestErr: errors.New("boom")}
	s := NewScheduler(testConfig("0 3 * * *"), reporter, nil)

	s.runDailyReport()

	assert.Equal(t, 1, reporter.exports)
}

func TestScheduler_StartRejectsBadSchedule(t *testing.T) {
	s := NewScheduler(testConfig("every day"), &fakeReporter{}, nil)

	assert.Error(t, s.Start())
}

func TestScheduler_StartStop(t *testing.T) {
	s := NewScheduler(testConfig("0 3 * * *"), &fakeReporter{}, nil)

	require.NoError(t, s.Start())
	assert.Len(t, s.cron.Entries(), 1)
	s.Stop()
}
