package database

import (
	"errors"
	"sync"
	"time"

	"github.com/valeriaulyamaeva/smart-reminder/models"
)

var (
	ErrReminderNotFound = errors.New("reminder not found")
	ErrUserNotFound     = errors.New("user not found")
	ErrUsernameTaken    = errors.New("username already taken")
)

// Store is the in-memory reminder and user storage. It is volatile: nothing
// survives a restart. A single RWMutex serializes every mutation, so a
// read-modify-write on one id can never lose a concurrent update.
type Store struct {
	mu sync.RWMutex

	reminders      map[int]models.Reminder
	nextReminderID int

	users      map[int]models.User
	nextUserID int

	now        func() time.Time
	bcryptCost int
}

type Option func(*Store)

// WithClock overrides the time source used for createdAt and completedAt.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// WithBcryptCost sets the hashing cost for user passwords.
func WithBcryptCost(cost int) Option {
	return func(s *Store) {
		s.bcryptCost = cost
	}
}

func NewStore(opts ...Option) *Store {
	s := &Store{
		reminders:      make(map[int]models.Reminder),
		nextReminderID: 1,
		users:          make(map[int]models.User),
		nextUserID:     1,
		now:            time.Now,
		bcryptCost:     defaultBcryptCost,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}
