package reporting

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/mamadbah2/ridershift/internal/config"
	"github.com/mamadbah2/ridershift/internal/domain/models"
	"github.com/mamadbah2/ridershift/internal/repository/memory"
	repo "github.com/mamadbah2/ridershift/internal/repository/sheets"
	notifymocks "github.com/mamadbah2/ridershift/internal/service/notify/mocks"
	"github.com/mamadbah2/ridershift/internal/service/shifts"
)

type fakeShifts struct {
	entries []models.ShiftEntry
	filters []models.ShiftFilter
	err     error
}

func (f *fakeShifts) List(_ context.Context, filter models.ShiftFilter) ([]models.ShiftEntry, error) {
	f.filters = append(f.filters, filter)
	if f.err != nil {
		return nil, f.err
	}
	out := make([]models.ShiftEntry, 0, len(f.entries))
	for _, e := range f.entries {
		if filter.Status != "" && e.Status != filter.Status {
			continue
		}
		if !filter.ClosedFrom.IsZero() && (e.ClosedAt == nil || e.ClosedAt.Before(filter.ClosedFrom)) {
			continue
		}
		if !filter.ClosedTo.IsZero() && (e.ClosedAt == nil || !e.ClosedAt.Before(filter.ClosedTo)) {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

type fakeDues struct{ summary models.DuesSummary }

func (f fakeDues) Summary(context.Context) (models.DuesSummary, error) { return f.summary, nil }

type fakeRiders []models.User

func (f fakeRiders) ListRiders(context.Context) ([]models.User, error) { return f, nil }

type fakeSheet struct {
	ranges  []string
	rows    [][]interface{}
	reads   []string
	failAt  int
	readErr error
}

func (f *fakeSheet) WriteRow(_ context.Context, sheetRange string, values []interface{}) error {
	if f.failAt > 0 && len(f.rows)+1 == f.failAt {
		return errors.New("quota exceeded")
	}
	f.ranges = append(f.ranges, sheetRange)
	f.rows = append(f.rows, values)
	return nil
}

// ReadRange serves the ID column only, like the real range "Shifts!A:A".
func (f *fakeSheet) ReadRange(_ context.Context, sheetRange string) ([][]interface{}, error) {
	f.reads = append(f.reads, sheetRange)
	if f.readErr != nil {
		return nil, f.readErr
	}
	out := [][]interface{}{{"ID"}}
	for _, row := range f.rows {
		out = append(out, row[:1])
	}
	return out, nil
}

var (
	day      = time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	closedAt = day.Add(20 * time.Hour)
)

// newest first, as the store returns them
func sampleEntries() []models.ShiftEntry {
	return []models.ShiftEntry{
		{ID: "e3", RiderID: "r1", Shift: models.ShiftNight, EntryDate: day, Orders60: 1, ClosingBalance: 3530, Status: models.ShiftOpen,
			OtherExpense: models.OtherExpense{Name: "tyre", Amount: 300}},
		{ID: "e2", RiderID: "r2", Shift: models.ShiftDay, EntryDate: day, Orders100: 2, ClosingBalance: 900, Status: models.ShiftClosed, ClosedAt: &closedAt},
		{ID: "e1", RiderID: "r1", Shift: models.ShiftDay, EntryDate: day, Orders60: 2, Orders100: 1, ClosingBalance: 3470, Status: models.ShiftClosed, ClosedAt: &closedAt,
			OnlinePayments: []models.OnlinePayment{{Name: "Ali", Amount: 200}}},
		{ID: "e0", RiderID: "r2", Shift: models.ShiftDay, EntryDate: day.AddDate(0, 0, -1), Orders150: 1, ClosingBalance: 150, Status: models.ShiftClosed, ClosedAt: &closedAt},
	}
}

func newTestService(t *testing.T, sheet *fakeSheet) (*Service, *memory.Store, *notifymocks.MockNotifier) {
	t.Helper()
	store := memory.New()
	notifier := notifymocks.NewMockNotifier(gomock.NewController(t))
	riders := fakeRiders{{ID: "r1", FullName: "Ali Khan"}, {ID: "r2", FullName: "Bilal"}}
	dues := fakeDues{summary: models.DuesSummary{PendingTotal: 620, PendingCount: 2}}

	var sheets repo.Repository
	if sheet != nil {
		sheets = sheet
	}
	svc := NewService(&fakeShifts{entries: sampleEntries()}, dues, riders, store, sheets, notifier, time.UTC, nil)
	svc.now = func() time.Time { return day.Add(27 * time.Hour) }
	return svc, store, notifier
}

func TestService_DailyDigest(t *testing.T) {
	svc, store, _ := newTestService(t, nil)

	digest, err := svc.DailyDigest(context.Background(), day.Add(15*time.Hour))
	require.NoError(t, err)

	assert.Equal(t, day, digest.Date)
	assert.Equal(t, 1, digest.Stats.OpenShifts)
	assert.Equal(t, 300, digest.Stats.OutstandingCash)
	assert.Equal(t, 620, digest.PendingDues)
	assert.Equal(t, []models.RiderDigestLine{
		{RiderID: "r1", RiderName: "Ali Khan", Shifts: 2, Orders: 4, ClosingBalance: 3530},
		{RiderID: "r2", RiderName: "Bilal", Shifts: 1, Orders: 2, ClosingBalance: 900},
	}, digest.Riders)

	assert.Len(t, store.Digests(), 1)
}

func TestService_SendDailyDigest(t *testing.T) {
	svc, _, notifier := newTestService(t, nil)
	notifier.EXPECT().NotifySuccess(gomock.Any(), gomock.Any()).Do(func(_ context.Context, msg string) {
		assert.Contains(t, msg, "Daily summary 2025-03-01")
		assert.Contains(t, msg, "Pending dues: Rs 620 (2)")
		assert.Contains(t, msg, "Ali Khan: 2 shift(s), 4 orders, closing Rs 3530")
	})

	require.NoError(t, svc.SendDailyDigest(context.Background(), day))
}

func TestService_SendDailyDigestFailure(t *testing.T) {
	svc, _, notifier := newTestService(t, nil)
	svc.shifts = &fakeShifts{err: errors.New("store down")}
	notifier.EXPECT().NotifyError(gomock.Any(), gomock.Any())

	assert.Error(t, svc.SendDailyDigest(context.Background(), day))
}

func TestFormatDigest_NoShifts(t *testing.T) {
	msg := FormatDigest(models.DailyDigest{Date: day})
	assert.True(t, strings.HasSuffix(msg, "No shifts reported."))
}

func TestService_ExportSheets(t *testing.T) {
	sheet := &fakeSheet{}
	svc, _, _ := newTestService(t, sheet)

	written, err := svc.ExportSheets(context.Background(), day, day.AddDate(0, 0, 1))
	require.NoError(t, err)

	assert.Equal(t, 3, written)
	for _, r := range sheet.ranges {
		assert.Equal(t, shiftsSheetRange, r)
	}
	assert.Equal(t, []string{shiftIDsRange}, sheet.reads)
	require.Len(t, sheet.rows[0], len(exportHeaders))
	// oldest closed entry goes first
	assert.Equal(t, "e0", sheet.rows[0][0])
	assert.Equal(t, "Bilal", sheet.rows[0][2])
	assert.Equal(t, 150, sheet.rows[0][14])
	assert.Equal(t, 200, sheet.rows[1][13])

	lister := svc.shifts.(*fakeShifts)
	assert.Equal(t, models.ShiftClosed, lister.filters[0].Status)
	assert.Equal(t, day, lister.filters[0].ClosedFrom)
	assert.True(t, lister.filters[0].From.IsZero())
}

func TestService_ExportSheetsSkipsExportedEntries(t *testing.T) {
	sheet := &fakeSheet{}
	svc, _, _ := newTestService(t, sheet)

	_, err := svc.ExportSheets(context.Background(), day, day.AddDate(0, 0, 1))
	require.NoError(t, err)

	written, err := svc.ExportSheets(context.Background(), day.AddDate(0, 0, -7), day.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.Zero(t, written)
	assert.Len(t, sheet.rows, 3)
}

func TestService_ExportSheetsReadFailure(t *testing.T) {
	sheet := &fakeSheet{readErr: errors.New("permission denied")}
	svc, _, _ := newTestService(t, sheet)

	written, err := svc.ExportSheets(context.Background(), day, day.AddDate(0, 0, 1))
	assert.ErrorContains(t, err, "permission denied")
	assert.Zero(t, written)
	assert.Empty(t, sheet.rows)
}

// A shift reviewed the day after it was submitted is exported by the run
// covering its close day, not its entry day.
func TestService_ExportSheetsFollowsCloseDay(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	sheet := &fakeSheet{}
	lister := shifts.NewService(store, nil, nil, nil, config.ShiftConfig{DayStartHour: 9, DayEndHour: 18}, time.UTC, nil)
	svc := NewService(lister, fakeDues{}, fakeRiders{}, store, sheet, nil, time.UTC, nil)

	submitted := day.Add(10 * time.Hour)
	entry := models.ShiftEntry{ID: "e1", RiderID: "r1", Shift: models.ShiftDay, EntryDate: day, Status: models.ShiftOpen,
		ClosingBalance: 3470, Version: 1, CreatedAt: submitted, UpdatedAt: submitted}
	require.NoError(t, store.InsertShift(ctx, entry))

	from, to := svc.CloseWindow(submitted)
	written, err := svc.ExportSheets(ctx, from, to)
	require.NoError(t, err)
	assert.Zero(t, written)

	reviewed := day.Add(33 * time.Hour)
	entry.Status, entry.ClosedAt, entry.Version = models.ShiftClosed, &reviewed, 2
	require.NoError(t, store.UpdateShift(ctx, entry, 1))

	from, to = svc.CloseWindow(reviewed)
	written, err = svc.ExportSheets(ctx, from, to)
	require.NoError(t, err)
	assert.Equal(t, 1, written)
	require.Len(t, sheet.rows, 1)
	assert.Equal(t, "e1", sheet.rows[0][0])
	assert.Equal(t, "2025-03-01", sheet.rows[0][1])
}

func TestService_CloseWindowUsesLocalDay(t *testing.T) {
	karachi := time.FixedZone("PKT", 5*3600)
	svc := NewService(&fakeShifts{}, fakeDues{}, fakeRiders{}, memory.New(), nil, nil, karachi, nil)

	// 20:30 UTC on the 1st is already the 2nd in Karachi
	from, to := svc.CloseWindow(time.Date(2025, 3, 1, 20, 30, 0, 0, time.UTC))
	assert.True(t, from.Equal(time.Date(2025, 3, 1, 19, 0, 0, 0, time.UTC)))
	assert.True(t, to.Equal(time.Date(2025, 3, 2, 19, 0, 0, 0, time.UTC)))
}

func TestService_ExportSheetsStopsOnFailure(t *testing.T) {
	sheet := &fakeSheet{failAt: 2}
	svc, _, _ := newTestService(t, sheet)

	written, err := svc.ExportSheets(context.Background(), day, day.AddDate(0, 0, 1))
	assert.ErrorContains(t, err, "quota exceeded")
	assert.Equal(t, 1, written)
}

func TestService_ExportSheetsDisabled(t *testing.T) {
	svc, _, _ := newTestService(t, nil)

	written, err := svc.ExportSheets(context.Background(), day, day.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.Zero(t, written)
}

func TestService_ExportXLSX(t *testing.T) {
	svc, _, _ := newTestService(t, nil)

	data, err := svc.ExportXLSX(context.Background(), models.ShiftFilter{})
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{xlsxSheetName}, f.GetSheetList())
	rows, err := f.GetRows(xlsxSheetName)
	require.NoError(t, err)
	require.Len(t, rows, 5)
	assert.Equal(t, exportHeaders, rows[0])
	assert.Equal(t, []string{"e3", "2025-03-01", "Ali Khan", "night", "0", "1", "0", "0", "0", "0", "0", "0", "300", "0", "3530"}, rows[1])
}
