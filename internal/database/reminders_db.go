package database

import (
	"cmp"
	"context"
	"fmt"
	"log"
	"slices"

	"github.com/valeriaulyamaeva/smart-reminder/models"
)

// Guard inspects a merged reminder before an update is committed.
// A non-nil error vetoes the write and is returned to the caller as is.
type Guard func(merged models.Reminder) error

// GetAllReminders returns every reminder ordered by date and time, then by
// creation time, then by id.
func (s *Store) GetAllReminders(ctx context.Context) ([]models.Reminder, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	reminders := make([]models.Reminder, 0, len(s.reminders))
	for _, r := range s.reminders {
		reminders = append(reminders, r.Clone())
	}
	s.mu.RUnlock()

	slices.SortStableFunc(reminders, compareReminders)
	return reminders, nil
}

func compareReminders(a, b models.Reminder) int {
	if c := cmp.Compare(a.ScheduleKey(), b.ScheduleKey()); c != 0 {
		return c
	}
	if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
		return c
	}
	return cmp.Compare(a.ID, b.ID)
}

func (s *Store) GetReminderByID(ctx context.Context, id int) (models.Reminder, error) {
	if err := ctx.Err(); err != nil {
		return models.Reminder{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.reminders[id]
	if !ok {
		return models.Reminder{}, fmt.Errorf("reminder %d: %w", id, ErrReminderNotFound)
	}
	return r.Clone(), nil
}

// CreateReminder stores a new active reminder. The payload must already be validated.
func (s *Store) CreateReminder(ctx context.Context, payload models.InsertReminder) (models.Reminder, error) {
	if err := ctx.Err(); err != nil {
		return models.Reminder{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// id берём из счётчика, удалённые id не переиспользуются
	id := s.nextReminderID
	s.nextReminderID++

	r := models.Reminder{
		ID:          id,
		Title:       payload.Title,
		Description: payload.Description,
		Date:        payload.Date,
		Time:        payload.Time,
		Completed:   false,
		CompletedAt: nil,
		CreatedAt:   s.now(),
	}
	r = r.Clone()
	s.reminders[id] = r
	return r.Clone(), nil
}

// UpdateReminder merges the present fields of upd onto the stored reminder.
// Guards run on the merged record while the lock is held.
func (s *Store) UpdateReminder(ctx context.Context, id int, upd models.UpdateReminder, guards ...Guard) (models.Reminder, error) {
	if err := ctx.Err(); err != nil {
		return models.Reminder{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.reminders[id]
	if !ok {
		return models.Reminder{}, fmt.Errorf("reminder %d: %w", id, ErrReminderNotFound)
	}

	merged := existing.Clone()
	upd.ApplyTo(&merged)
	for _, guard := range guards {
		if err := guard(merged.Clone()); err != nil {
			return models.Reminder{}, err
		}
	}

	s.reminders[id] = merged
	return merged.Clone(), nil
}

// DeleteReminder removes the reminder and reports whether it existed.
func (s *Store) DeleteReminder(ctx context.Context, id int) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.reminders[id]; !ok {
		return false, nil
	}
	delete(s.reminders, id)
	log.Printf("reminder %d deleted", id)
	return true, nil
}

// ToggleReminderComplete flips the completion flag and keeps completedAt in step:
// set to now when completing, cleared when reopening.
func (s *Store) ToggleReminderComplete(ctx context.Context, id int) (models.Reminder, error) {
	if err := ctx.Err(); err != nil {
		return models.Reminder{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.reminders[id]
	if !ok {
		return models.Reminder{}, fmt.Errorf("reminder %d: %w", id, ErrReminderNotFound)
	}

	r = r.Clone()
	r.Completed = !r.Completed
	if r.Completed {
		now := s.now()
		r.CompletedAt = &now
	} else {
		r.CompletedAt = nil
	}

	s.reminders[id] = r
	return r.Clone(), nil
}

// Len returns the number of stored reminders.
func (s *Store) Len(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.reminders), nil
}
