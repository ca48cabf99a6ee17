// Package repository declares the record-oriented store the services run against.
// Every write targets exactly one record by id.
package repository

import (
	"context"
	"errors"
	"time"

	"github.com/mamadbah2/ridershift/internal/domain/models"
)

var (
	// ErrNotFound is returned when no record has the requested id.
	ErrNotFound = errors.New("record not found")
	// ErrConflict is returned when a conditional update lost a race.
	ErrConflict = errors.New("record was modified concurrently")
	// ErrDuplicate is returned when a unique key is already taken.
	ErrDuplicate = errors.New("duplicate record")
)

// ShiftStore persists shift entries.
//
//go:generate mockgen -destination=mocks/mock_shift_store.go -package=mocks github.com/mamadbah2/ridershift/internal/repository ShiftStore
type ShiftStore interface {
	InsertShift(ctx context.Context, entry models.ShiftEntry) error
	GetShift(ctx context.Context, id string) (models.ShiftEntry, error)
	// ListShifts returns matching entries, newest first.
	ListShifts(ctx context.Context, filter models.ShiftFilter) ([]models.ShiftEntry, error)
	// UpdateShift replaces the entry only if its stored version equals
	// expectedVersion.
	UpdateShift(ctx context.Context, entry models.ShiftEntry, expectedVersion int) error
}

// DueStore persists customer dues.
type DueStore interface {
	InsertDue(ctx context.Context, due models.Due) error
	GetDue(ctx context.Context, id string) (models.Due, error)
	ListDues(ctx context.Context, filter models.DueFilter) ([]models.Due, error)
	SetDueStatus(ctx context.Context, id string, status models.DueStatus, at time.Time) error
}

// FeeStore persists the singleton fee schedule.
type FeeStore interface {
	GetFeeSchedule(ctx context.Context) (models.FeeSchedule, error)
	SaveFeeSchedule(ctx context.Context, schedule models.FeeSchedule) error
}

// UserStore persists directory accounts.
type UserStore interface {
	InsertUser(ctx context.Context, user models.User) error
	GetUser(ctx context.Context, id string) (models.User, error)
	GetUserByEmail(ctx context.Context, email string) (models.User, error)
	ListUsers(ctx context.Context, role models.Role) ([]models.User, error)
}

// DigestStore archives the daily digests sent to administrators.
type DigestStore interface {
	SaveDailyDigest(ctx context.Context, digest models.DailyDigest) error
}

// Store bundles every collection.
type Store interface {
	ShiftStore
	DueStore
	FeeStore
	UserStore
	DigestStore
	Close(ctx context.Context) error
}
