package client_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/valeriaulyamaeva/smart-reminder/client"
	"github.com/valeriaulyamaeva/smart-reminder/internal/database"
	"github.com/valeriaulyamaeva/smart-reminder/internal/handlers"
	"github.com/valeriaulyamaeva/smart-reminder/internal/routes"
	"github.com/valeriaulyamaeva/smart-reminder/models"
)

var testNow = time.Date(2030, 3, 10, 9, 0, 0, 0, time.UTC)

// newTestAPI serves the real router and counts list requests.
func newTestAPI(t *testing.T) (*client.Client, *int64) {
	t.Helper()
	h := routes.NewHandler(database.NewStore(), routes.Config{
		Handlers: handlers.Options{
			Now:      func() time.Time { return testNow },
			Location: time.UTC,
		},
	})
	var lists int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet && r.URL.Path == "/api/reminders" {
			atomic.AddInt64(&lists, 1)
		}
		h.ServeHTTP(w, r)
	}))
	t.Cleanup(srv.Close)
	return client.New(srv.URL + "/"), &lists
}

func strPtr(s string) *string { return &s }

func TestClientRoundTrip(t *testing.T) {
	c, _ := newTestAPI(t)
	ctx := context.Background()

	created, err := c.Create(ctx, models.InsertReminder{
		Title: "Call mom", Date: "2030-03-11", Time: "18:30", Description: strPtr("birthday"),
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.ID != 1 || created.Completed || created.CompletedAt != nil {
		t.Fatalf("unexpected reminder %+v", created)
	}

	got, err := c.Get(ctx, created.ID)
	if err != nil || got.Title != "Call mom" {
		t.Fatalf("Get: %+v %v", got, err)
	}

	updated, err := c.Update(ctx, created.ID, models.UpdateReminder{Title: strPtr("Call mum")})
	if err != nil || updated.Title != "Call mum" || updated.Time != "18:30" {
		t.Fatalf("Update: %+v %v", updated, err)
	}

	toggled, err := c.Toggle(ctx, created.ID)
	if err != nil || !toggled.Completed {
		t.Fatalf("Toggle: %+v %v", toggled, err)
	}

	active, err := c.List(ctx, models.FilterActive)
	if err != nil || len(active) != 0 {
		t.Fatalf("active list: %+v %v", active, err)
	}
	stats, err := c.Stats(ctx)
	if err != nil || stats.All != 1 || stats.Completed != 1 {
		t.Fatalf("Stats: %+v %v", stats, err)
	}

	if err := c.Delete(ctx, created.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	all, err := c.List(ctx, models.FilterAll)
	if err != nil || all == nil || len(all) != 0 {
		t.Fatalf("list after delete: %+v %v", all, err)
	}
}

func TestClientAPIErrors(t *testing.T) {
	c, _ := newTestAPI(t)
	ctx := context.Background()

	_, err := c.Get(ctx, 42)
	var apiErr *client.APIError
	if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 APIError, got %v", err)
	}
	if apiErr.Message != "Reminder not found" {
		t.Errorf("message = %q", apiErr.Message)
	}

	_, err = c.Create(ctx, models.InsertReminder{Title: "Past", Date: "2030-03-09", Time: "10:00"})
	if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 APIError, got %v", err)
	}

	_, err = c.Create(ctx, models.InsertReminder{Date: "2030-03-11", Time: "10:00"})
	if !errors.As(err, &apiErr) || len(apiErr.Errors) == 0 || apiErr.Errors[0].Field != "title" {
		t.Fatalf("expected field errors for title, got %v", err)
	}
}

func TestCacheInvalidatesAfterMutation(t *testing.T) {
	c, lists := newTestAPI(t)
	cache := client.NewCache(c)
	ctx := context.Background()

	first, err := cache.Reminders(ctx)
	if err != nil || len(first) != 0 {
		t.Fatalf("Reminders: %+v %v", first, err)
	}
	if _, err := cache.Reminders(ctx); err != nil {
		t.Fatal(err)
	}
	if n := atomic.LoadInt64(lists); n != 1 {
		t.Fatalf("list fetched %d times, want 1", n)
	}

	created, err := cache.Create(ctx, models.InsertReminder{Title: "Gym", Date: "2030-03-12", Time: "07:00"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	after, err := cache.Reminders(ctx)
	if err != nil || len(after) != 1 || after[0].ID != created.ID {
		t.Fatalf("cache not refreshed after create: %+v %v", after, err)
	}
	if n := atomic.LoadInt64(lists); n != 2 {
		t.Fatalf("list fetched %d times, want 2", n)
	}

	if _, err := cache.Toggle(ctx, created.ID); err != nil {
		t.Fatal(err)
	}
	done, err := cache.Filtered(ctx, models.FilterCompleted)
	if err != nil || len(done) != 1 {
		t.Fatalf("completed filter: %+v %v", done, err)
	}

	if err := cache.Delete(ctx, created.ID); err != nil {
		t.Fatal(err)
	}
	if left, _ := cache.Reminders(ctx); len(left) != 0 {
		t.Fatalf("deleted reminder still cached: %+v", left)
	}
}

func TestCacheReportsFailures(t *testing.T) {
	c, lists := newTestAPI(t)
	var gotOp, gotMsg string
	cache := client.NewCache(c, client.WithErrorHandler(func(op, msg string) {
		gotOp, gotMsg = op, msg
	}))
	ctx := context.Background()

	if _, err := cache.Reminders(ctx); err != nil {
		t.Fatal(err)
	}
	if _, err := cache.Toggle(ctx, 7); err == nil {
		t.Fatal("toggle of missing reminder succeeded")
	}
	if gotOp != "toggle" || gotMsg != "Reminder not found" {
		t.Errorf("error hook got %q %q", gotOp, gotMsg)
	}

	// failed mutations leave the cache fresh
	if _, err := cache.Reminders(ctx); err != nil {
		t.Fatal(err)
	}
	if n := atomic.LoadInt64(lists); n != 1 {
		t.Errorf("list fetched %d times after failed mutation, want 1", n)
	}
}

func TestCacheSharesConcurrentRefetch(t *testing.T) {
	c, lists := newTestAPI(t)
	cache := client.NewCache(c)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := cache.Reminders(ctx); err != nil {
				t.Error(err)
			}
		}()
	}
	wg.Wait()

	// singleflight collapses overlapping calls; later ones hit the fresh cache
	if n := atomic.LoadInt64(lists); n < 1 || n > 20 {
		t.Errorf("unexpected fetch count %d", n)
	}
	cache.Invalidate()
	if _, err := cache.Reminders(ctx); err != nil {
		t.Fatal(err)
	}
}

func TestErrorMessage(t *testing.T) {
	err := &client.APIError{
		StatusCode: 400,
		Message:    "Validation error",
		Errors:     []models.FieldError{{Field: "title", Message: "title is required"}},
	}
	if got := client.ErrorMessage(err); got != "Validation error: title is required" {
		t.Errorf("ErrorMessage = %q", got)
	}
	if got := client.ErrorMessage(errors.New("dial tcp: refused")); got != "dial tcp: refused" {
		t.Errorf("ErrorMessage = %q", got)
	}
}

func TestCacheRefetchesWhenMutationOverlapsFetch(t *testing.T) {
	h := routes.NewHandler(database.NewStore(), routes.Config{
		Handlers: handlers.Options{
			Now:      func() time.Time { return testNow },
			Location: time.UTC,
		},
	})
	entered := make(chan struct{})
	release := make(chan struct{})
	var lists int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet && r.URL.Path == "/api/reminders" {
			// hold the first list request until the mutation has finished
			if atomic.AddInt64(&lists, 1) == 1 {
				rec := httptest.NewRecorder()
				h.ServeHTTP(rec, r)
				close(entered)
				<-release
				for k, v := range rec.Header() {
					w.Header()[k] = v
				}
				w.WriteHeader(rec.Code)
				_, _ = w.Write(rec.Body.Bytes())
				return
			}
		}
		h.ServeHTTP(w, r)
	}))
	t.Cleanup(srv.Close)

	cache := client.NewCache(client.New(srv.URL))
	ctx := context.Background()

	done := make(chan []models.Reminder, 1)
	go func() {
		list, err := cache.Reminders(ctx)
		if err != nil {
			t.Error(err)
		}
		done <- list
	}()
	<-entered

	if _, err := cache.Create(ctx, models.InsertReminder{Title: "Dentist", Date: "2030-03-12", Time: "10:00"}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	close(release)
	if old := <-done; len(old) != 0 {
		t.Fatalf("first fetch was served before the create, got %d reminders", len(old))
	}

	after, err := cache.Reminders(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(after) != 1 || after[0].Title != "Dentist" {
		t.Fatalf("получили %+v, хотели список с созданным напоминанием", after)
	}
	if n := atomic.LoadInt64(&lists); n != 2 {
		t.Errorf("list fetched %d times, want 2", n)
	}
}
