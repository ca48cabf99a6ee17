package shifts

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/ridershift/internal/config"
	"github.com/mamadbah2/ridershift/internal/domain/models"
	"github.com/mamadbah2/ridershift/internal/repository"
	"github.com/mamadbah2/ridershift/internal/repository/memory"
	repomocks "github.com/mamadbah2/ridershift/internal/repository/mocks"
	notifymocks "github.com/mamadbah2/ridershift/internal/service/notify/mocks"
)

type staticFees models.FeeSchedule

func (f staticFees) Current(context.Context) models.FeeSchedule {
	return models.FeeSchedule(f)
}

var (
	defaultShiftCfg = config.ShiftConfig{DayStartHour: 9, DayEndHour: 18}
	fixedNow        = time.Date(2025, 3, 1, 11, 30, 0, 0, time.UTC)
)

func newTestService(t *testing.T, repo repository.ShiftStore) (*Service, *notifymocks.MockNotifier) {
	t.Helper()
	ctrl := gomock.NewController(t)
	notifier := notifymocks.NewMockNotifier(ctrl)

	svc := NewService(repo, staticFees(models.DefaultFeeSchedule()), notifier, nil, defaultShiftCfg, time.UTC, nil)
	svc.now = func() time.Time { return fixedNow }
	ids := 0
	svc.newID = func() string {
		ids++
		return []string{"e1", "e2", "e3", "e4"}[ids-1]
	}
	return svc, notifier
}

func scenarioForm() models.ShiftForm {
	return models.ShiftForm{
		Shift:       "day",
		OpenBalance: models.Text("3000"),
		Orders60:    models.Text("2"),
		Orders100:   models.Text("1"),
		Commission:  models.Text("50"),
		OnlinePayments: []models.PaymentForm{
			{Name: "Ali", Amount: models.Text("200")},
			{Name: "", Amount: models.Text("999")},
		},
	}
}

func TestService_SubmitFreezesTotals(t *testing.T) {
	store := memory.New()
	svc, _ := newTestService(t, store)

	entry, err := svc.Submit(context.Background(), "rider-1", scenarioForm())
	require.NoError(t, err)

	assert.Equal(t, "e1", entry.ID)
	assert.Equal(t, models.ShiftOpen, entry.Status)
	assert.Equal(t, 220, entry.BaseTotal)
	assert.Equal(t, 3470, entry.ClosingBalance)
	assert.Equal(t, []models.OnlinePayment{{Name: "Ali", Amount: 200}}, entry.OnlinePayments)
	assert.Equal(t, models.DefaultFeeSchedule(), entry.Fees)
	assert.Equal(t, 1, entry.Version)
	assert.False(t, entry.CashCollected)

	stored, err := store.GetShift(context.Background(), "e1")
	require.NoError(t, err)
	assert.Equal(t, entry.ClosingBalance, stored.ClosingBalance)
}

func TestService_SubmitUsesFeesAtSubmission(t *testing.T) {
	svc, _ := newTestService(t, memory.New())
	svc.fees = staticFees{Fee60: 70, Fee100: 100, Fee150: 150}

	entry, err := svc.Submit(context.Background(), "rider-1", scenarioForm())
	require.NoError(t, err)

	assert.Equal(t, 240, entry.BaseTotal)
	assert.Equal(t, 3490, entry.ClosingBalance)
	assert.Equal(t, 70, entry.Fees.Fee60)
}

func TestService_SubmitRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		edit func(*models.ShiftForm)
	}{
		{name: "unknown shift", edit: func(f *models.ShiftForm) { f.Shift = "evening" }},
		{name: "negative orders", edit: func(f *models.ShiftForm) { f.Orders150 = models.Text("-1") }},
		{name: "negative petrol", edit: func(f *models.ShiftForm) { f.PetrolExpense = models.Text("-20") }},
		{name: "negative payment", edit: func(f *models.ShiftForm) {
			f.OnlinePayments = []models.PaymentForm{{Name: "Ali", Amount: models.Text("-5")}}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := memory.New()
			svc, _ := newTestService(t, store)
			form := scenarioForm()
			tt.edit(&form)

			_, err := svc.Submit(context.Background(), "rider-1", form)
			assert.ErrorIs(t, err, ErrInvalidShift)

			entries, err := store.ListShifts(context.Background(), models.ShiftFilter{})
			require.NoError(t, err)
			assert.Empty(t, entries)
		})
	}
}

func TestService_SubmitAllowsNegativeOpenBalance(t *testing.T) {
	svc, _ := newTestService(t, memory.New())
	form := scenarioForm()
	form.OpenBalance = models.Text("-500")

	entry, err := svc.Submit(context.Background(), "rider-1", form)
	require.NoError(t, err)
	assert.Equal(t, -30, entry.ClosingBalance)
}

func TestService_SubmitMalformedFieldsCountAsZero(t *testing.T) {
	svc, _ := newTestService(t, memory.New())
	form := models.ShiftForm{
		Shift:       "night",
		OpenBalance: models.Text("abc"),
		Orders60:    models.Text("1.5"),
		Orders100:   models.Text("3"),
	}

	entry, err := svc.Submit(context.Background(), "rider-1", form)
	require.NoError(t, err)
	assert.Equal(t, 0, entry.OpenBalance)
	assert.Equal(t, 0, entry.Orders60)
	assert.Equal(t, 300, entry.ClosingBalance)
}

func TestService_SubmitDefaultsFromClock(t *testing.T) {
	store := memory.New()
	svc, notifier := newTestService(t, store)
	notifier.EXPECT().NotifySuccess(gomock.Any(), gomock.Any())

	first, err := svc.Submit(context.Background(), "rider-1", scenarioForm())
	require.NoError(t, err)
	_, err = svc.Close(context.Background(), first.ID)
	require.NoError(t, err)

	svc.now = func() time.Time { return time.Date(2025, 3, 1, 22, 0, 0, 0, time.UTC) }
	form := models.ShiftForm{Orders60: models.Text("1")}
	second, err := svc.Submit(context.Background(), "rider-1", form)
	require.NoError(t, err)

	assert.Equal(t, models.ShiftNight, second.Shift)
	assert.Equal(t, 3470, second.OpenBalance)
	assert.Equal(t, 3530, second.ClosingBalance)

	other, err := svc.Submit(context.Background(), "rider-2", form)
	require.NoError(t, err)
	assert.Equal(t, 0, other.OpenBalance)
}

func TestService_ShiftAt(t *testing.T) {
	karachi := time.FixedZone("PKT", 5*60*60)
	svc := NewService(memory.New(), staticFees(models.DefaultFeeSchedule()), nil, nil, defaultShiftCfg, karachi, nil)

	tests := []struct {
		utcHour int
		want    models.ShiftLabel
	}{
		{utcHour: 3, want: models.ShiftNight},
		{utcHour: 4, want: models.ShiftDay},
		{utcHour: 12, want: models.ShiftDay},
		{utcHour: 13, want: models.ShiftNight},
		{utcHour: 23, want: models.ShiftNight},
	}
	for _, tt := range tests {
		got := svc.ShiftAt(time.Date(2025, 3, 1, tt.utcHour, 0, 0, 0, time.UTC))
		assert.Equal(t, tt.want, got, "utc hour %d", tt.utcHour)
	}
}

func TestService_Preview(t *testing.T) {
	store := memory.New()
	svc, _ := newTestService(t, store)

	preview, err := svc.Preview(context.Background(), "rider-1", scenarioForm())
	require.NoError(t, err)

	assert.Equal(t, 220, preview.BaseTotal)
	assert.Equal(t, 200, preview.TotalOnline)
	assert.Equal(t, 3470, preview.ClosingBalance)

	entries, err := store.ListShifts(context.Background(), models.ShiftFilter{})
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestService_CloseTwiceIsRejected(t *testing.T) {
	store := memory.New()
	svc, notifier := newTestService(t, store)
	gomock.InOrder(
		notifier.EXPECT().NotifySuccess(gomock.Any(), gomock.Any()),
		notifier.EXPECT().NotifyError(gomock.Any(), gomock.Any()),
	)

	entry, err := svc.Submit(context.Background(), "rider-1", scenarioForm())
	require.NoError(t, err)

	closed, err := svc.Close(context.Background(), entry.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ShiftClosed, closed.Status)
	require.NotNil(t, closed.ClosedAt)
	assert.Equal(t, 2, closed.Version)
	assert.Equal(t, 3470, closed.ClosingBalance)

	_, err = svc.Close(context.Background(), entry.ID)
	assert.ErrorIs(t, err, ErrShiftClosed)

	stored, err := store.GetShift(context.Background(), entry.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, stored.Version)
}

func TestService_CloseUnknown(t *testing.T) {
	svc, notifier := newTestService(t, memory.New())
	notifier.EXPECT().NotifyError(gomock.Any(), gomock.Any())

	_, err := svc.Close(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestService_CloseLosesRace(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := repomocks.NewMockShiftStore(ctrl)
	svc, notifier := newTestService(t, repo)

	open := models.ShiftEntry{ID: "e1", Status: models.ShiftOpen, Version: 3}
	repo.EXPECT().GetShift(gomock.Any(), "e1").Return(open, nil)
	repo.EXPECT().UpdateShift(gomock.Any(), gomock.Any(), 3).
		DoAndReturn(func(_ context.Context, e models.ShiftEntry, _ int) error {
			assert.Equal(t, 4, e.Version)
			assert.Equal(t, models.ShiftClosed, e.Status)
			return repository.ErrConflict
		})
	notifier.EXPECT().NotifyError(gomock.Any(), gomock.Any())

	_, err := svc.Close(context.Background(), "e1")
	assert.ErrorIs(t, err, ErrConflict)
}

func TestService_CloseStoreFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := repomocks.NewMockShiftStore(ctrl)
	svc, notifier := newTestService(t, repo)

	repo.EXPECT().GetShift(gomock.Any(), "e1").Return(models.ShiftEntry{}, errors.New("socket closed"))
	notifier.EXPECT().NotifyError(gomock.Any(), gomock.Any())

	_, err := svc.Close(context.Background(), "e1")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
	assert.ErrorContains(t, err, "socket closed")
}

func TestService_CollectCash(t *testing.T) {
	store := memory.New()
	svc, notifier := newTestService(t, store)
	notifier.EXPECT().NotifySuccess(gomock.Any(), "Collected Rs 300 cash for shift e1.")
	notifier.EXPECT().NotifyError(gomock.Any(), gomock.Any())

	form := scenarioForm()
	form.OtherExpenseName = "tyre"
	form.OtherExpenseAmount = models.Text("300")
	entry, err := svc.Submit(context.Background(), "rider-1", form)
	require.NoError(t, err)
	require.Equal(t, 3170, entry.ClosingBalance)

	collected, err := svc.CollectCash(context.Background(), entry.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, collected.OtherExpense.Amount)
	assert.Equal(t, "tyre", collected.OtherExpense.Name)
	assert.True(t, collected.CashCollected)
	require.NotNil(t, collected.CashCollectedAt)
	assert.Equal(t, 3170, collected.ClosingBalance)
	assert.Equal(t, models.ShiftOpen, collected.Status)

	_, err = svc.CollectCash(context.Background(), entry.ID)
	assert.ErrorIs(t, err, ErrNothingToCollect)
}

func TestService_CollectCashNothingOutstanding(t *testing.T) {
	store := memory.New()
	svc, notifier := newTestService(t, store)
	notifier.EXPECT().NotifyError(gomock.Any(), gomock.Any())

	entry, err := svc.Submit(context.Background(), "rider-1", scenarioForm())
	require.NoError(t, err)

	_, err = svc.CollectCash(context.Background(), entry.ID)
	assert.ErrorIs(t, err, ErrNothingToCollect)

	stored, err := store.GetShift(context.Background(), entry.ID)
	require.NoError(t, err)
	assert.False(t, stored.CashCollected)
	assert.Equal(t, 1, stored.Version)
}

func TestSummarize(t *testing.T) {
	entries := []models.ShiftEntry{
		{
			Status: models.ShiftOpen, Orders60: 2, Orders100: 1, Commission: 50,
			PetrolExpense: 100, ChaiExpense: 20, OtherExpense: models.OtherExpense{Amount: 300},
			OnlinePayments: []models.OnlinePayment{{Name: "Ali", Amount: 200}},
		},
		{
			Status: models.ShiftClosed, Orders150: 4, Commission: 10,
			OtherExpense: models.OtherExpense{Amount: 0}, CashCollected: true,
		},
	}

	got := Summarize(entries)
	assert.Equal(t, models.Stats{
		Entries:         2,
		OpenShifts:      1,
		ClosedShifts:    1,
		TotalOrders:     7,
		TotalOnline:     200,
		TotalCommission: 60,
		TotalExpenses:   420,
		OutstandingCash: 300,
	}, got)
}
