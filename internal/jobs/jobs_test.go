package jobs_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/valeriaulyamaeva/smart-reminder/internal/database"
	"github.com/valeriaulyamaeva/smart-reminder/internal/jobs"
	"github.com/valeriaulyamaeva/smart-reminder/models"
)

type brokenLister struct{}

func (brokenLister) GetAllReminders(context.Context) ([]models.Reminder, error) {
	return nil, errors.New("unavailable")
}

func TestReportStats(t *testing.T) {
	ctx := context.Background()
	store := database.NewStore()
	for _, p := range []models.InsertReminder{
		{Title: "past", Date: "2030-01-01", Time: "08:00"},
		{Title: "future", Date: "2030-01-03", Time: "08:00"},
		{Title: "done", Date: "2030-01-04", Time: "08:00"},
	} {
		if _, err := store.CreateReminder(ctx, p); err != nil {
			t.Fatalf("create: %v", err)
		}
	}
	if _, err := store.ToggleReminderComplete(ctx, 3); err != nil {
		t.Fatalf("toggle: %v", err)
	}

	now := time.Date(2030, 1, 2, 0, 0, 0, 0, time.UTC)
	got, err := jobs.ReportStats(ctx, store, now, time.UTC)
	if err != nil {
		t.Fatalf("ReportStats: %v", err)
	}
	want := models.Summary{All: 3, Active: 2, Completed: 1, Overdue: 1}
	if got != want {
		t.Errorf("got %+v, want %+v", got, want)
	}

	if _, err := jobs.ReportStats(ctx, brokenLister{}, now, time.UTC); err == nil {
		t.Errorf("expected error from broken store")
	}
}

func TestScheduleStatsReport(t *testing.T) {
	c, err := jobs.ScheduleStatsReport(database.NewStore(), "@hourly", time.UTC)
	if err != nil {
		t.Fatalf("ScheduleStatsReport: %v", err)
	}
	if len(c.Entries()) != 1 {
		t.Errorf("expected one cron entry, got %d", len(c.Entries()))
	}
	<-c.Stop().Done()

	if _, err := jobs.ScheduleStatsReport(database.NewStore(), "not a schedule", time.UTC); err == nil {
		t.Errorf("expected error for invalid spec")
	}
}
