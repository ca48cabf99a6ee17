package fees

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/ridershift/internal/domain/models"
	"github.com/mamadbah2/ridershift/internal/repository/memory"
)

type failingFeeStore struct{}

func (failingFeeStore) GetFeeSchedule(context.Context) (models.FeeSchedule, error) {
	return models.FeeSchedule{}, errors.New("connection reset")
}

func (failingFeeStore) SaveFeeSchedule(context.Context, models.FeeSchedule) error {
	return errors.New("connection reset")
}

func TestService_CurrentDefaultsWhenMissing(t *testing.T) {
	svc := NewService(memory.New(), nil)

	assert.Equal(t, models.DefaultFeeSchedule(), svc.Current(context.Background()))
}

func TestService_CurrentDefaultsOnReadFailure(t *testing.T) {
	svc := NewService(failingFeeStore{}, nil)

	assert.Equal(t, models.DefaultFeeSchedule(), svc.Current(context.Background()))
}

func TestService_Update(t *testing.T) {
	store := memory.New()
	svc := NewService(store, nil)
	fixed := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	got, err := svc.Update(context.Background(), 70, 110, 0)
	require.NoError(t, err)

	assert.Equal(t, models.FeeSchedule{Fee60: 70, Fee100: 110, Fee150: 0, UpdatedAt: fixed}, got)
	assert.Equal(t, got, svc.Current(context.Background()))
}

func TestService_UpdateRejectsNegative(t *testing.T) {
	store := memory.New()
	svc := NewService(store, nil)

	_, err := svc.Update(context.Background(), 60, -1, 150)
	assert.ErrorIs(t, err, ErrInvalidFees)

	_, err = store.GetFeeSchedule(context.Background())
	assert.Error(t, err, "nothing should have been saved")
}

func TestService_UpdateStoreFailure(t *testing.T) {
	svc := NewService(failingFeeStore{}, nil)

	_, err := svc.Update(context.Background(), 1, 2, 3)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidFees)
}
