// Package memory is an in-process repository.Store used for local runs and tests.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/mamadbah2/ridershift/internal/domain/models"
	"github.com/mamadbah2/ridershift/internal/repository"
)

var _ repository.Store = (*Store)(nil)

// Store keeps every collection in maps guarded by a single lock.
type Store struct {
	mu      sync.RWMutex
	seq     int
	shifts  map[string]shiftRow
	dues    map[string]dueRow
	users   map[string]models.User
	fees    *models.FeeSchedule
	digests []models.DailyDigest
}

type shiftRow struct {
	seq   int
	entry models.ShiftEntry
}

type dueRow struct {
	seq int
	due models.Due
}

// New returns an empty store.
func New() *Store {
	return &Store{
		shifts: make(map[string]shiftRow),
		dues:   make(map[string]dueRow),
		users:  make(map[string]models.User),
	}
}

// InsertShift stores a new shift entry.
func (s *Store) InsertShift(_ context.Context, entry models.ShiftEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.shifts[entry.ID]; ok {
		return repository.ErrDuplicate
	}
	s.seq++
	s.shifts[entry.ID] = shiftRow{seq: s.seq, entry: cloneShift(entry)}
	return nil
}

// GetShift loads one entry by id.
func (s *Store) GetShift(_ context.Context, id string) (models.ShiftEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row, ok := s.shifts[id]
	if !ok {
		return models.ShiftEntry{}, repository.ErrNotFound
	}
	return cloneShift(row.entry), nil
}

// ListShifts returns entries matching the filter, newest first.
func (s *Store) ListShifts(_ context.Context, filter models.ShiftFilter) ([]models.ShiftEntry, error) {
	s.mu.RLock()
	rows := make([]shiftRow, 0, len(s.shifts))
	for _, row := range s.shifts {
		e := row.entry
		if filter.RiderID != "" && e.RiderID != filter.RiderID {
			continue
		}
		if filter.Status != "" && e.Status != filter.Status {
			continue
		}
		if !filter.From.IsZero() && e.EntryDate.Before(filter.From) {
			continue
		}
		if !filter.To.IsZero() && !e.EntryDate.Before(filter.To) {
			continue
		}
		if !closedWithin(e.ClosedAt, filter.ClosedFrom, filter.ClosedTo) {
			continue
		}
		rows = append(rows, shiftRow{seq: row.seq, entry: cloneShift(e)})
	}
	s.mu.RUnlock()

	sort.Slice(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if !a.entry.CreatedAt.Equal(b.entry.CreatedAt) {
			return a.entry.CreatedAt.After(b.entry.CreatedAt)
		}
		return a.seq > b.seq
	})

	if filter.Limit > 0 && len(rows) > filter.Limit {
		rows = rows[:filter.Limit]
	}

	entries := make([]models.ShiftEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, row.entry)
	}
	return entries, nil
}

// UpdateShift replaces the entry when the stored version still equals
// expectedVersion.
func (s *Store) UpdateShift(_ context.Context, entry models.ShiftEntry, expectedVersion int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	row, ok := s.shifts[entry.ID]
	if !ok {
		return repository.ErrNotFound
	}
	if row.entry.Version != expectedVersion {
		return repository.ErrConflict
	}
	row.entry = cloneShift(entry)
	s.shifts[entry.ID] = row
	return nil
}

// InsertDue stores a new due.
func (s *Store) InsertDue(_ context.Context, due models.Due) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.dues[due.ID]; ok {
		return repository.ErrDuplicate
	}
	s.seq++
	s.dues[due.ID] = dueRow{seq: s.seq, due: due}
	return nil
}

// GetDue loads one due by id.
func (s *Store) GetDue(_ context.Context, id string) (models.Due, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row, ok := s.dues[id]
	if !ok {
		return models.Due{}, repository.ErrNotFound
	}
	return row.due, nil
}

// ListDues returns dues matching the filter, newest first.
func (s *Store) ListDues(_ context.Context, filter models.DueFilter) ([]models.Due, error) {
	s.mu.RLock()
	rows := make([]dueRow, 0, len(s.dues))
	for _, row := range s.dues {
		if filter.RiderID != "" && row.due.RiderID != filter.RiderID {
			continue
		}
		if filter.Status != "" && row.due.Status != filter.Status {
			continue
		}
		rows = append(rows, row)
	}
	s.mu.RUnlock()

	sort.Slice(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if !a.due.CreatedAt.Equal(b.due.CreatedAt) {
			return a.due.CreatedAt.After(b.due.CreatedAt)
		}
		return a.seq > b.seq
	})

	dues := make([]models.Due, 0, len(rows))
	for _, row := range rows {
		dues = append(dues, row.due)
	}
	return dues, nil
}

// SetDueStatus overwrites the status of a due.
func (s *Store) SetDueStatus(_ context.Context, id string, status models.DueStatus, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	row, ok := s.dues[id]
	if !ok {
		return repository.ErrNotFound
	}
	row.due.Status = status
	if status == models.DuePaid {
		paidAt := at
		row.due.PaidAt = &paidAt
	}
	s.dues[id] = row
	return nil
}

// GetFeeSchedule loads the singleton schedule.
func (s *Store) GetFeeSchedule(_ context.Context) (models.FeeSchedule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.fees == nil {
		return models.FeeSchedule{}, repository.ErrNotFound
	}
	return *s.fees, nil
}

// SaveFeeSchedule upserts the singleton schedule.
func (s *Store) SaveFeeSchedule(_ context.Context, schedule models.FeeSchedule) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.fees = &schedule
	return nil
}

// InsertUser stores a new account, enforcing unique e-mails.
func (s *Store) InsertUser(_ context.Context, user models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[user.ID]; ok {
		return repository.ErrDuplicate
	}
	for _, existing := range s.users {
		if strings.EqualFold(existing.Email, user.Email) {
			return repository.ErrDuplicate
		}
	}
	s.users[user.ID] = user
	return nil
}

// GetUser loads one account by id.
func (s *Store) GetUser(_ context.Context, id string) (models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[id]
	if !ok {
		return models.User{}, repository.ErrNotFound
	}
	return user, nil
}

// GetUserByEmail loads one account by its e-mail address.
func (s *Store) GetUserByEmail(_ context.Context, email string) (models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, user := range s.users {
		if strings.EqualFold(user.Email, email) {
			return user, nil
		}
	}
	return models.User{}, repository.ErrNotFound
}

// ListUsers returns accounts with the given role sorted by name.
func (s *Store) ListUsers(_ context.Context, role models.Role) ([]models.User, error) {
	s.mu.RLock()
	users := make([]models.User, 0, len(s.users))
	for _, user := range s.users {
		if role != "" && user.Role != role {
			continue
		}
		users = append(users, user)
	}
	s.mu.RUnlock()

	sort.Slice(users, func(i, j int) bool {
		if users[i].FullName != users[j].FullName {
			return users[i].FullName < users[j].FullName
		}
		return users[i].ID < users[j].ID
	})
	return users, nil
}

// SaveDailyDigest archives a digest.
func (s *Store) SaveDailyDigest(_ context.Context, digest models.DailyDigest) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.digests = append(s.digests, digest)
	return nil
}

// Digests returns the archived digests in insertion order.
func (s *Store) Digests() []models.DailyDigest {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.DailyDigest, len(s.digests))
	copy(out, s.digests)
	return out
}

// Close is a no-op.
func (s *Store) Close(context.Context) error {
	return nil
}

func closedWithin(closedAt *time.Time, from, to time.Time) bool {
	if from.IsZero() && to.IsZero() {
		return true
	}
	if closedAt == nil {
		return false
	}
	if !from.IsZero() && closedAt.Before(from) {
		return false
	}
	return to.IsZero() || closedAt.Before(to)
}

func cloneShift(e models.ShiftEntry) models.ShiftEntry {
	if e.OnlinePayments != nil {
		payments := make([]models.OnlinePayment, len(e.OnlinePayments))
		copy(payments, e.OnlinePayments)
		e.OnlinePayments = payments
	}
	if e.ClosedAt != nil {
		t := *e.ClosedAt
		e.ClosedAt = &t
	}
	if e.CashCollectedAt != nil {
		t := *e.CashCollectedAt
		e.CashCollectedAt = &t
	}
	return e
}
