package view

import (
	"strings"
	"testing"
	"time"

	"github.com/valeriaulyamaeva/smart-reminder/models"
)

func TestWhen(t *testing.T) {
	now := time.Date(2030, 5, 15, 10, 0, 0, 0, time.UTC)
	tests := []struct {
		date, clock, want string
	}{
		{"2030-05-15", "09:00", "Today, 09:00"},
		{"2030-05-15", "23:30", "Today, 23:30"},
		{"2030-05-16", "07:05", "Tomorrow, 07:05"},
		{"2030-05-14", "18:00", "Yesterday, 18:00"},
		{"2030-05-10", "12:00", "5 days ago"},
		{"2030-05-20", "08:00", "Mon May 20 2030, 08:00"},
		{"bad", "08:00", "bad 08:00"},
	}
	for _, tt := range tests {
		if got := When(tt.date, tt.clock, now, time.UTC); got != tt.want {
			t.Errorf("When(%s, %s) = %q, want %q", tt.date, tt.clock, got, tt.want)
		}
	}
}

func TestReminderMarks(t *testing.T) {
	now := time.Date(2030, 5, 15, 10, 0, 0, 0, time.UTC)
	f := NewFormatter(false, func() time.Time { return now }, time.UTC)
	desc := "bring the charger"

	pending := f.Reminder(models.Reminder{ID: 1, Title: "Pack", Date: "2030-05-16", Time: "08:00", Description: &desc})
	if !strings.Contains(pending, "[ ] Pack") || !strings.Contains(pending, "bring the charger") {
		t.Errorf("pending line = %q", pending)
	}

	overdue := f.Reminder(models.Reminder{ID: 2, Title: "Pay rent", Date: "2030-05-14", Time: "08:00"})
	if !strings.Contains(overdue, "[!] Pay rent") {
		t.Errorf("overdue line = %q", overdue)
	}

	done := f.Reminder(models.Reminder{ID: 3, Title: "Pay rent", Date: "2030-05-14", Time: "08:00", Completed: true})
	if !strings.Contains(done, "[x] Pay rent") {
		t.Errorf("completed line = %q", done)
	}
}

func TestListAndStats(t *testing.T) {
	f := NewFormatter(false, nil, time.UTC)
	if got := f.List(nil, models.FilterAll); got != "No reminders yet." {
		t.Errorf("empty list = %q", got)
	}
	if got := f.List(nil, models.FilterCompleted); got != "No completed reminders." {
		t.Errorf("empty filtered list = %q", got)
	}
	got := f.Stats(models.Summary{All: 4, Active: 3, Completed: 1, Overdue: 2})
	if got != "All: 4  Active: 3  Completed: 1  Overdue: 2" {
		t.Errorf("stats = %q", got)
	}
}
