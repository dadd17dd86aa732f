package models

import (
	"errors"
	"strings"
	"time"
)

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"

	MaxTitleLength       = 100
	MaxDescriptionLength = 500
)

// ErrPastDue is returned when a reminder's date and time are not strictly in the future.
var ErrPastDue = errors.New("reminder date and time must be in the future")

// Reminder is a titled, dated, timed to-do item with a completion flag.
// CompletedAt is non-nil exactly when Completed is true.
type Reminder struct {
	ID          int        `json:"id"`
	Title       string     `json:"title"`
	Description *string    `json:"description"`
	Date        string     `json:"date"`
	Time        string     `json:"time"`
	Completed   bool       `json:"completed"`
	CompletedAt *time.Time `json:"completedAt"`
	CreatedAt   time.Time  `json:"createdAt"`
}

// InsertReminder is the create payload. Everything else is assigned by the store.
type InsertReminder struct {
	Title       string  `json:"title" validate:"required,max=100"`
	Description *string `json:"description,omitempty" validate:"omitnil,max=500"`
	Date        string  `json:"date" validate:"required,datetime=2006-01-02"`
	Time        string  `json:"time" validate:"required,datetime=15:04"`
}

// UpdateReminder is a partial update: nil fields are left unchanged.
// An empty Description clears the stored description.
type UpdateReminder struct {
	Title       *string `json:"title,omitempty" validate:"omitnil,min=1,max=100"`
	Description *string `json:"description,omitempty" validate:"omitnil,max=500"`
	Date        *string `json:"date,omitempty" validate:"omitnil,datetime=2006-01-02"`
	Time        *string `json:"time,omitempty" validate:"omitnil,datetime=15:04"`
}

// Clone returns a copy that shares no pointers with r.
func (r Reminder) Clone() Reminder {
	out := r
	if r.Description != nil {
		d := *r.Description
		out.Description = &d
	}
	if r.CompletedAt != nil {
		c := *r.CompletedAt
		out.CompletedAt = &c
	}
	return out
}

// ScheduleKey orders reminders by date and time. Date and time are stored
// zero-padded, so comparing keys as strings is chronological.
func (r Reminder) ScheduleKey() string {
	return r.Date + "T" + r.Time
}

// DueAt returns the instant the reminder is due in loc.
func (r Reminder) DueAt(loc *time.Location) (time.Time, error) {
	return DueInstant(r.Date, r.Time, loc)
}

// IsOverdue reports whether an active reminder is already past due.
func (r Reminder) IsOverdue(now time.Time, loc *time.Location) bool {
	if r.Completed {
		return false
	}
	due, err := r.DueAt(loc)
	if err != nil {
		return false
	}
	return due.Before(now)
}

// DueInstant combines a calendar date and a wall-clock time in loc.
// A nil loc means local time.
func DueInstant(date, clock string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	return time.ParseInLocation(DateLayout+" "+TimeLayout, date+" "+clock, loc)
}

// RequireFuture returns ErrPastDue unless date+clock is strictly after now.
func RequireFuture(date, clock string, now time.Time, loc *time.Location) error {
	due, err := DueInstant(date, clock, loc)
	if err != nil {
		return ValidationErrors{{Field: "date", Message: "date and time do not form a valid instant"}}
	}
	if !due.After(now) {
		return ErrPastDue
	}
	return nil
}

// Validate normalizes the payload in place and checks it against the schema.
// It returns ValidationErrors when one or more fields are invalid.
func (p *InsertReminder) Validate() error {
	p.Title = strings.TrimSpace(p.Title)
	if p.Description != nil && strings.TrimSpace(*p.Description) == "" {
		p.Description = nil
	}
	if err := check(p); err != nil {
		return err
	}
	p.Date = canonical(DateLayout, p.Date)
	p.Time = canonical(TimeLayout, p.Time)
	return nil
}

// Validate normalizes the present fields in place and checks them against the schema.
func (u *UpdateReminder) Validate() error {
	if u.Title != nil {
		t := strings.TrimSpace(*u.Title)
		u.Title = &t
	}
	// a blank description clears it, as on create
	if u.Description != nil && strings.TrimSpace(*u.Description) == "" {
		empty := ""
		u.Description = &empty
	}
	if err := check(u); err != nil {
		return err
	}
	if u.Date != nil {
		d := canonical(DateLayout, *u.Date)
		u.Date = &d
	}
	if u.Time != nil {
		t := canonical(TimeLayout, *u.Time)
		u.Time = &t
	}
	return nil
}

// IsEmpty reports whether the update carries no fields.
func (u UpdateReminder) IsEmpty() bool {
	return u.Title == nil && u.Description == nil && u.Date == nil && u.Time == nil
}

// TouchesSchedule reports whether the update changes the date or the time.
func (u UpdateReminder) TouchesSchedule() bool {
	return u.Date != nil || u.Time != nil
}

// ApplyTo merges the present fields onto r. Completion state and CreatedAt are never touched.
func (u UpdateReminder) ApplyTo(r *Reminder) {
	if u.Title != nil {
		r.Title = *u.Title
	}
	if u.Description != nil {
		if *u.Description == "" {
			r.Description = nil
		} else {
			d := *u.Description
			r.Description = &d
		}
	}
	if u.Date != nil {
		r.Date = *u.Date
	}
	if u.Time != nil {
		r.Time = *u.Time
	}
}

// canonical re-renders an already validated value so "9:05" is stored as "09:05".
func canonical(layout, value string) string {
	t, err := time.Parse(layout, value)
	if err != nil {
		return value
	}
	return t.Format(layout)
}
