package utils

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/valeriaulyamaeva/smart-reminder/models"
)

// ReminderCreator is the write side of the store used for seeding.
type ReminderCreator interface {
	CreateReminder(ctx context.Context, payload models.InsertReminder) (models.Reminder, error)
}

// GenerateTestReminders fills the store with numReminders fake reminders due
// between one and thirty days after now. The same seed yields the same data.
func GenerateTestReminders(ctx context.Context, store ReminderCreator, numReminders int, seed int64, now time.Time, loc *time.Location) ([]models.Reminder, error) {
	faker := gofakeit.New(seed)
	if loc == nil {
		loc = time.Local
	}
	day := now.In(loc)

	created := make([]models.Reminder, 0, numReminders)
	for i := 0; i < numReminders; i++ {
		due := day.AddDate(0, 0, faker.Number(1, 30))
		payload := models.InsertReminder{
			Title: truncate(faker.Sentence(faker.Number(2, 6)), models.MaxTitleLength),
			Date:  due.Format(models.DateLayout),
			Time:  fmt.Sprintf("%02d:%02d", faker.Number(6, 21), faker.Number(0, 3)*15),
		}
		// Примерно у половины напоминаний есть описание
		if faker.Bool() {
			d := truncate(faker.Sentence(faker.Number(6, 20)), models.MaxDescriptionLength)
			payload.Description = &d
		}
		if err := payload.Validate(); err != nil {
			return created, fmt.Errorf("generated reminder %d is invalid: %w", i, err)
		}

		r, err := store.CreateReminder(ctx, payload)
		if err != nil {
			return created, fmt.Errorf("ошибка при добавлении напоминания: %w", err)
		}
		created = append(created, r)
	}

	log.Printf("generated %d test reminders", len(created))
	return created, nil
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max])
}
