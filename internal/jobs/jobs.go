package jobs

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/valeriaulyamaeva/smart-reminder/models"
)

// ReminderLister is the read side of the store the report needs.
type ReminderLister interface {
	GetAllReminders(ctx context.Context) ([]models.Reminder, error)
}

// ReportStats logs the current reminder counts. It only writes to the log;
// nothing is delivered to users.
func ReportStats(ctx context.Context, store ReminderLister, now time.Time, loc *time.Location) (models.Summary, error) {
	reminders, err := store.GetAllReminders(ctx)
	if err != nil {
		return models.Summary{}, fmt.Errorf("list reminders: %w", err)
	}
	s := models.Summarize(reminders, now, loc)
	log.Printf("reminders: all=%d active=%d completed=%d overdue=%d", s.All, s.Active, s.Completed, s.Overdue)
	return s, nil
}

// ScheduleStatsReport registers ReportStats on a new cron scheduler and starts it.
// The caller stops the returned scheduler on shutdown.
func ScheduleStatsReport(store ReminderLister, spec string, loc *time.Location) (*cron.Cron, error) {
	c := cron.New(cron.WithLocation(loc))
	_, err := c.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if _, err := ReportStats(ctx, store, time.Now(), loc); err != nil {
			log.Printf("stats report failed: %v", err)
		}
	})
	if err != nil {
		return nil, fmt.Errorf("schedule stats report %q: %w", spec, err)
	}
	c.Start()
	return c, nil
}
