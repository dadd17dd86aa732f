package client

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/valeriaulyamaeva/smart-reminder/models"
	"golang.org/x/sync/singleflight"
)

const listKey = "reminders"

// Cache holds the last fetched reminder list. Every successful mutation marks
// it stale, so the next read refetches the full list from the server.
type Cache struct {
	client *Client
	maxAge time.Duration
	now    func() time.Time

	// OnError, when set, receives the server-provided message of a failed mutation.
	OnError func(op string, message string)

	group singleflight.Group

	mu        sync.RWMutex
	reminders []models.Reminder
	fetchedAt time.Time
	stale     bool
	// gen is bumped by Invalidate; a fetch only fills the cache if gen is unchanged.
	gen uint64
}

type CacheOption func(*Cache)

// WithMaxAge makes cached data stale after d even without a mutation. Zero
// means the list stays fresh until invalidated.
func WithMaxAge(d time.Duration) CacheOption {
	return func(c *Cache) {
		c.maxAge = d
	}
}

func WithErrorHandler(fn func(op, message string)) CacheOption {
	return func(c *Cache) {
		c.OnError = fn
	}
}

func NewCache(client *Client, opts ...CacheOption) *Cache {
	c := &Cache{
		client: client,
		now:    time.Now,
		stale:  true,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Reminders returns the cached list, refetching it when stale. Concurrent
// callers share a single request.
func (c *Cache) Reminders(ctx context.Context) ([]models.Reminder, error) {
	if list, ok := c.fresh(); ok {
		return list, nil
	}

	v, err, _ := c.group.Do(listKey, func() (any, error) {
		if list, ok := c.fresh(); ok {
			return list, nil
		}
		c.mu.RLock()
		gen := c.gen
		c.mu.RUnlock()

		list, err := c.client.List(ctx, models.FilterAll)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		if c.gen == gen {
			c.reminders = list
			c.fetchedAt = c.now()
			c.stale = false
		}
		c.mu.Unlock()
		return cloneList(list), nil
	})
	if err != nil {
		return nil, err
	}
	return cloneList(v.([]models.Reminder)), nil
}

// Filtered reads through the cache and applies a status filter locally.
func (c *Cache) Filtered(ctx context.Context, status models.StatusFilter) ([]models.Reminder, error) {
	list, err := c.Reminders(ctx)
	if err != nil {
		return nil, err
	}
	return models.FilterReminders(list, status), nil
}

// Stats is not cached; overdue counts depend on the server clock.
func (c *Cache) Stats(ctx context.Context) (models.Summary, error) {
	return c.client.Stats(ctx)
}

// Invalidate marks the cached list stale. A fetch already in flight may
// still answer its own callers but no longer fills the cache, and later
// readers start a new fetch instead of joining it.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	c.stale = true
	c.gen++
	c.mu.Unlock()
	c.group.Forget(listKey)
}

func (c *Cache) Create(ctx context.Context, payload models.InsertReminder) (models.Reminder, error) {
	r, err := c.client.Create(ctx, payload)
	return r, c.settle("create", err)
}

func (c *Cache) Update(ctx context.Context, id int, payload models.UpdateReminder) (models.Reminder, error) {
	r, err := c.client.Update(ctx, id, payload)
	return r, c.settle("update", err)
}

func (c *Cache) Toggle(ctx context.Context, id int) (models.Reminder, error) {
	r, err := c.client.Toggle(ctx, id)
	return r, c.settle("toggle", err)
}

func (c *Cache) Delete(ctx context.Context, id int) error {
	return c.settle("delete", c.client.Delete(ctx, id))
}

func (c *Cache) settle(op string, err error) error {
	if err == nil {
		c.Invalidate()
		return nil
	}
	msg := ErrorMessage(err)
	log.Printf("reminder %s failed: %s", op, msg)
	if c.OnError != nil {
		c.OnError(op, msg)
	}
	return err
}

func (c *Cache) fresh() ([]models.Reminder, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.stale {
		return nil, false
	}
	if c.maxAge > 0 && c.now().Sub(c.fetchedAt) >= c.maxAge {
		return nil, false
	}
	return cloneList(c.reminders), true
}

// ErrorMessage returns the message to show a user for err: the server's
// message for API errors, the error text otherwise.
func ErrorMessage(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		if len(apiErr.Errors) > 0 {
			return apiErr.Message + ": " + apiErr.Errors[0].Message
		}
		return apiErr.Message
	}
	return err.Error()
}

func cloneList(list []models.Reminder) []models.Reminder {
	out := make([]models.Reminder, len(list))
	for i, r := range list {
		out[i] = r.Clone()
	}
	return out
}
