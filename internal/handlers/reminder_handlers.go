package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/valeriaulyamaeva/smart-reminder/internal/database"
	"github.com/valeriaulyamaeva/smart-reminder/models"
)

// ReminderStore is the storage the reminder handlers need.
type ReminderStore interface {
	GetAllReminders(ctx context.Context) ([]models.Reminder, error)
	GetReminderByID(ctx context.Context, id int) (models.Reminder, error)
	CreateReminder(ctx context.Context, payload models.InsertReminder) (models.Reminder, error)
	UpdateReminder(ctx context.Context, id int, upd models.UpdateReminder, guards ...database.Guard) (models.Reminder, error)
	DeleteReminder(ctx context.Context, id int) (bool, error)
	ToggleReminderComplete(ctx context.Context, id int) (models.Reminder, error)
}

const (
	msgInvalidID       = "Invalid reminder ID"
	msgNotFound        = "Reminder not found"
	msgValidationError = "Validation error"
	msgPastDue         = "Reminder date and time must be in the future"
)

// GetRemindersHandler lists reminders, optionally narrowed by ?status=all|active|completed.
func GetRemindersHandler(store ReminderStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter, err := models.ParseStatusFilter(r.URL.Query().Get("status"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid status filter",
				models.FieldError{Field: "status", Message: err.Error()})
			return
		}

		reminders, err := store.GetAllReminders(r.Context())
		if err != nil {
			logf(r, "list reminders: %v", err)
			writeError(w, http.StatusInternalServerError, "Failed to fetch reminders")
			return
		}
		writeJSON(w, http.StatusOK, models.FilterReminders(reminders, filter))
	}
}

// GetReminderStatsHandler returns the per-status counts.
func GetReminderStatsHandler(store ReminderStore, opts Options) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		reminders, err := store.GetAllReminders(r.Context())
		if err != nil {
			logf(r, "reminder stats: %v", err)
			writeError(w, http.StatusInternalServerError, "Failed to fetch reminder stats")
			return
		}
		writeJSON(w, http.StatusOK, models.Summarize(reminders, opts.now(), opts.location()))
	}
}

// GetReminderHandler retrieves a single reminder by ID.
func GetReminderHandler(store ReminderStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validateID(mux.Vars(r)["id"])
		if err != nil {
			writeError(w, http.StatusBadRequest, msgInvalidID)
			return
		}

		reminder, err := store.GetReminderByID(r.Context(), id)
		if err != nil {
			writeStoreError(w, r, err, "Failed to fetch reminder")
			return
		}
		writeJSON(w, http.StatusOK, reminder)
	}
}

// CreateReminderHandler handles the creation of a new reminder. The due
// date and time must be strictly in the future.
func CreateReminderHandler(store ReminderStore, opts Options) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload models.InsertReminder
		if err := decodeJSONBody(r, &payload); err != nil {
			writeBodyError(w, r, err)
			return
		}
		if err := payload.Validate(); err != nil {
			writeValidationError(w, err)
			return
		}
		if err := models.RequireFuture(payload.Date, payload.Time, opts.now(), opts.location()); err != nil {
			writeValidationError(w, err)
			return
		}

		reminder, err := store.CreateReminder(r.Context(), payload)
		if err != nil {
			logf(r, "create reminder: %v", err)
			writeError(w, http.StatusInternalServerError, "Failed to create reminder")
			return
		}
		logf(r, "reminder %d created for %s %s", reminder.ID, reminder.Date, reminder.Time)
		writeJSON(w, http.StatusCreated, reminder)
	}
}

// UpdateReminderHandler applies a partial update. When the date or the time
// changes, the merged schedule must still be in the future.
func UpdateReminderHandler(store ReminderStore, opts Options) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validateID(mux.Vars(r)["id"])
		if err != nil {
			writeError(w, http.StatusBadRequest, msgInvalidID)
			return
		}

		var payload models.UpdateReminder
		if err := decodeJSONBody(r, &payload); err != nil {
			writeBodyError(w, r, err)
			return
		}
		if err := payload.Validate(); err != nil {
			writeValidationError(w, err)
			return
		}

		var guards []database.Guard
		if payload.TouchesSchedule() {
			now, loc := opts.now(), opts.location()
			guards = append(guards, func(merged models.Reminder) error {
				return models.RequireFuture(merged.Date, merged.Time, now, loc)
			})
		}

		reminder, err := store.UpdateReminder(r.Context(), id, payload, guards...)
		if err != nil {
			writeStoreError(w, r, err, "Failed to update reminder")
			return
		}
		writeJSON(w, http.StatusOK, reminder)
	}
}

// ToggleReminderHandler flips the completion flag.
func ToggleReminderHandler(store ReminderStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validateID(mux.Vars(r)["id"])
		if err != nil {
			writeError(w, http.StatusBadRequest, msgInvalidID)
			return
		}

		reminder, err := store.ToggleReminderComplete(r.Context(), id)
		if err != nil {
			writeStoreError(w, r, err, "Failed to toggle reminder completion")
			return
		}
		writeJSON(w, http.StatusOK, reminder)
	}
}

// DeleteReminderHandler deletes a reminder by ID.
func DeleteReminderHandler(store ReminderStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validateID(mux.Vars(r)["id"])
		if err != nil {
			writeError(w, http.StatusBadRequest, msgInvalidID)
			return
		}

		deleted, err := store.DeleteReminder(r.Context(), id)
		if err != nil {
			logf(r, "delete reminder %d: %v", id, err)
			writeError(w, http.StatusInternalServerError, "Failed to delete reminder")
			return
		}
		if !deleted {
			writeError(w, http.StatusNotFound, msgNotFound)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"message": "Reminder deleted successfully"})
	}
}

// HealthHandler reports that the process is serving.
func HealthHandler(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeValidationError(w http.ResponseWriter, err error) {
	var verrs models.ValidationErrors
	switch {
	case errors.As(err, &verrs):
		writeError(w, http.StatusBadRequest, msgValidationError, verrs...)
	case errors.Is(err, models.ErrPastDue):
		writeError(w, http.StatusBadRequest, msgPastDue)
	default:
		writeError(w, http.StatusBadRequest, msgValidationError)
	}
}

// writeStoreError maps store failures to responses. Unexpected errors are
// logged and answered with fallback, never with the error text.
func writeStoreError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	var verrs models.ValidationErrors
	switch {
	case errors.Is(err, database.ErrReminderNotFound):
		writeError(w, http.StatusNotFound, msgNotFound)
	case errors.Is(err, models.ErrPastDue), errors.As(err, &verrs):
		writeValidationError(w, err)
	default:
		logf(r, "%s: %v", fallback, err)
		writeError(w, http.StatusInternalServerError, fallback)
	}
}
