package reporting

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/mamadbah2/ridershift/internal/domain/models"
	"github.com/mamadbah2/ridershift/internal/repository"
	repo "github.com/mamadbah2/ridershift/internal/repository/sheets"
	"github.com/mamadbah2/ridershift/internal/service/notify"
	"github.com/mamadbah2/ridershift/internal/service/shifts"
)

const (
	dateLayout       = "2006-01-02"
	shiftsSheetRange = "Shifts!A:O"
	shiftIDsRange    = "Shifts!A:A"
	xlsxSheetName    = "Shifts"
)

var exportHeaders = []string{
	"ID", "Date", "Rider", "Shift", "Open Balance",
	"Orders 60", "Orders 100", "Orders 150", "Commission", "Other Fee",
	"Petrol", "Chai", "Other Expense", "Online", "Closing Balance",
}

// ShiftLister is the read side of the shift lifecycle.
type ShiftLister interface {
	List(ctx context.Context, filter models.ShiftFilter) ([]models.ShiftEntry, error)
}

// DuesSummarizer yields the dues ledger aggregates.
type DuesSummarizer interface {
	Summary(ctx context.Context) (models.DuesSummary, error)
}

// RiderLister resolves rider names.
type RiderLister interface {
	ListRiders(ctx context.Context) ([]models.User, error)
}

// Service builds the daily digest and the spreadsheet exports.
type Service struct {
	shifts   ShiftLister
	dues     DuesSummarizer
	riders   RiderLister
	digests  repository.DigestStore
	sheets   repo.Repository
	notifier notify.Notifier
	loc      *time.Location
	logger   *zap.Logger
	now      func() time.Time
}

// NewService wires a new reporting service instance. sheets may be nil when
// the Google Sheets export is not configured.
func NewService(shiftSvc ShiftLister, dues DuesSummarizer, riders RiderLister, digests repository.DigestStore, sheets repo.Repository, notifier notify.Notifier, loc *time.Location, logger *zap.Logger) *Service {
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
		shifts:   shiftSvc,
		dues:     dues,
		riders:   riders,
		digests:  digests,
		sheets:   sheets,
		notifier: notifier,
		loc:      loc,
		logger:   logger,
		now:      time.Now,
	}
}

// DayBounds returns the [start, end) of the local calendar day containing t,
// expressed the way entry dates are stored.
func (s *Service) DayBounds(t time.Time) (time.Time, time.Time) {
	local := t.In(s.loc)
	start := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 0, 1)
}

// CloseWindow returns the [start, end) instants of the local calendar day
// containing t. It bounds closed_at, unlike DayBounds which bounds entry dates.
func (s *Service) CloseWindow(t time.Time) (time.Time, time.Time) {
	local := t.In(s.loc)
	start := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, s.loc)
	return start, start.AddDate(0, 0, 1)
}

// DailyDigest aggregates the day containing day and archives the result.
// Open shifts and outstanding cash cover every entry; the rider lines only
// cover that day.
func (s *Service) DailyDigest(ctx context.Context, day time.Time) (models.DailyDigest, error) {
	all, err := s.shifts.List(ctx, models.ShiftFilter{})
	if err != nil {
		return models.DailyDigest{}, fmt.Errorf("load shifts: %w", err)
	}
	summary, err := s.dues.Summary(ctx)
	if err != nil {
		return models.DailyDigest{}, fmt.Errorf("load dues: %w", err)
	}
	names := s.riderNames(ctx)

	start, end := s.DayBounds(day)
	lines := map[string]*models.RiderDigestLine{}
	for _, e := range all {
		if e.EntryDate.Before(start) || !e.EntryDate.Before(end) {
			continue
		}
		line, ok := lines[e.RiderID]
		if !ok {
			// entries arrive newest first, so the first one carries the latest balance
			line = &models.RiderDigestLine{
				RiderID:        e.RiderID,
				RiderName:      nameOr(names, e.RiderID),
				ClosingBalance: e.ClosingBalance,
			}
			lines[e.RiderID] = line
		}
		line.Shifts++
		line.Orders += e.TotalOrders()
	}

	riders := make([]models.RiderDigestLine, 0, len(lines))
	for _, line := range lines {
		riders = append(riders, *line)
	}
	sort.Slice(riders, func(i, j int) bool { return riders[i].RiderName < riders[j].RiderName })

	digest := models.DailyDigest{
		Date:            start,
		Stats:           shifts.Summarize(all),
		PendingDues:     summary.PendingTotal,
		PendingDueCount: summary.PendingCount,
		Riders:          riders,
		CreatedAt:       s.now().UTC(),
	}

	if err := s.digests.SaveDailyDigest(ctx, digest); err != nil {
		return models.DailyDigest{}, fmt.Errorf("archive digest: %w", err)
	}
	return digest, nil
}

// SendDailyDigest builds the digest for day and forwards it to the notifier.
func (s *Service) SendDailyDigest(ctx context.Context, day time.Time) error {
	digest, err := s.DailyDigest(ctx, day)
	if err != nil {
		s.notifier.NotifyError(ctx, fmt.Sprintf("Daily digest failed: %v", err))
		return err
	}
	s.notifier.NotifySuccess(ctx, FormatDigest(digest))
	return nil
}

// FormatDigest renders a digest as a chat message.
func FormatDigest(d models.DailyDigest) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📊 Daily summary %s\n", d.Date.Format(dateLayout))
	fmt.Fprintf(&b, "Open shifts: %d\n", d.Stats.OpenShifts)
	fmt.Fprintf(&b, "Outstanding cash: Rs %d\n", d.Stats.OutstandingCash)
	fmt.Fprintf(&b, "Pending dues: Rs %d (%d)\n", d.PendingDues, d.PendingDueCount)
	if len(d.Riders) == 0 {
		b.WriteString("No shifts reported.")
		return b.String()
	}
	for _, r := range d.Riders {
		fmt.Fprintf(&b, "\n- %s: %d shift(s), %d orders, closing Rs %d", r.RiderName, r.Shifts, r.Orders, r.ClosingBalance)
	}
	return b.String()
}

// ExportSheets appends the entries closed in [from, to) to the Shifts tab.
// Entries whose ID is already in column A are skipped, so overlapping runs
// write each entry once. It returns the number of rows written.
func (s *Service) ExportSheets(ctx context.Context, from, to time.Time) (int, error) {
	if s.sheets == nil {
		s.logger.Debug("sheets export skipped: not configured")
		return 0, nil
	}

	entries, err := s.shifts.List(ctx, models.ShiftFilter{Status: models.ShiftClosed, ClosedFrom: from, ClosedTo: to})
	if err != nil {
		return 0, fmt.Errorf("load shifts: %w", err)
	}
	if len(entries) == 0 {
		return 0, nil
	}

	exported, err := s.exportedIDs(ctx)
	if err != nil {
		return 0, err
	}
	names := s.riderNames(ctx)

	// oldest first so the sheet reads chronologically
	written, skipped := 0, 0
	for i := len(entries) - 1; i >= 0; i-- {
		if _, ok := exported[entries[i].ID]; ok {
			skipped++
			continue
		}
		if err := s.sheets.WriteRow(ctx, shiftsSheetRange, exportRow(entries[i], names)); err != nil {
			return written, fmt.Errorf("export shift %s: %w", entries[i].ID, err)
		}
		written++
	}

	s.logger.Info("shifts exported to sheets",
		zap.Int("rows", written),
		zap.Int("already_exported", skipped),
		zap.Time("closed_from", from))
	return written, nil
}

func (s *Service) exportedIDs(ctx context.Context) (map[string]struct{}, error) {
	rows, err := s.sheets.ReadRange(ctx, shiftIDsRange)
	if err != nil {
		return nil, fmt.Errorf("read exported ids: %w", err)
	}
	ids := make(map[string]struct{}, len(rows))
	for _, row := range rows {
		if len(row) == 0 {
			continue
		}
		if id, ok := row[0].(string); ok && id != "" {
			ids[id] = struct{}{}
		}
	}
	return ids, nil
}

// ExportXLSX renders the entries matching filter as an Excel workbook.
func (s *Service) ExportXLSX(ctx context.Context, filter models.ShiftFilter) ([]byte, error) {
	entries, err := s.shifts.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("load shifts: %w", err)
	}
	names := s.riderNames(ctx)

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", xlsxSheetName); err != nil {
		return nil, fmt.Errorf("name sheet: %w", err)
	}

	for i, header := range exportHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(xlsxSheetName, cell, header); err != nil {
			return nil, fmt.Errorf("write header: %w", err)
		}
	}
	for r, e := range entries {
		for c, value := range exportRow(e, names) {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
			if err := f.SetCellValue(xlsxSheetName, cell, value); err != nil {
				return nil, fmt.Errorf("write row %d: %w", r+2, err)
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("encode workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func exportRow(e models.ShiftEntry, names map[string]string) []interface{} {
	return []interface{}{
		e.ID,
		e.EntryDate.Format(dateLayout),
		nameOr(names, e.RiderID),
		string(e.Shift),
		e.OpenBalance,
		e.Orders60,
		e.Orders100,
		e.Orders150,
		e.Commission,
		e.OtherFee,
		e.PetrolExpense,
		e.ChaiExpense,
		e.OtherExpense.Amount,
		e.TotalOnline(),
		e.ClosingBalance,
	}
}

func (s *Service) riderNames(ctx context.Context) map[string]string {
	names := map[string]string{}
	if s.riders == nil {
		return names
	}
	users, err := s.riders.ListRiders(ctx)
	if err != nil {
		s.logger.Debug("rider names unavailable", zap.Error(err))
		return names
	}
	for _, u := range users {
		names[u.ID] = u.FullName
	}
	return names
}

func nameOr(names map[string]string, id string) string {
	if name, ok := names[id]; ok && name != "" {
		return name
	}
	return id
}
