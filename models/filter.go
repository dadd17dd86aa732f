package models

import (
	"fmt"
	"time"
)

type StatusFilter string

const (
	FilterAll       StatusFilter = "all"
	FilterActive    StatusFilter = "active"
	FilterCompleted StatusFilter = "completed"
)

// ParseStatusFilter accepts "", "all", "active" and "completed". Empty means all.
func ParseStatusFilter(s string) (StatusFilter, error) {
	switch StatusFilter(s) {
	case "", FilterAll:
		return FilterAll, nil
	case FilterActive, FilterCompleted:
		return StatusFilter(s), nil
	}
	return "", fmt.Errorf("unknown status filter %q (use all, active or completed)", s)
}

func (f StatusFilter) Match(r Reminder) bool {
	switch f {
	case FilterActive:
		return !r.Completed
	case FilterCompleted:
		return r.Completed
	}
	return true
}

// FilterReminders keeps the order of rs.
func FilterReminders(rs []Reminder, f StatusFilter) []Reminder {
	out := make([]Reminder, 0, len(rs))
	for _, r := range rs {
		if f.Match(r) {
			out = append(out, r)
		}
	}
	return out
}

// Summary holds the per-status counts shown next to the filter tabs.
type Summary struct {
	All       int `json:"all"`
	Active    int `json:"active"`
	Completed int `json:"completed"`
	Overdue   int `json:"overdue"`
}

func Summarize(rs []Reminder, now time.Time, loc *time.Location) Summary {
	s := Summary{All: len(rs)}
	for _, r := range rs {
		if r.Completed {
			s.Completed++
			continue
		}
		s.Active++
		if r.IsOverdue(now, loc) {
			s.Overdue++
		}
	}
	return s
}
