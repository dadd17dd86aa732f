package routes

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/valeriaulyamaeva/smart-reminder/internal/handlers"
	"github.com/valeriaulyamaeva/smart-reminder/internal/middleware"
)

type Config struct {
	AllowedOrigins []string
	Handlers       handlers.Options
	// MCP, when set, is mounted at /mcp.
	MCP http.Handler
}

func SetupRouter(store handlers.ReminderStore, cfg Config) *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/healthz", handlers.HealthHandler).Methods("GET")

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/reminders", handlers.GetRemindersHandler(store)).Methods("GET")
	api.HandleFunc("/reminders", handlers.CreateReminderHandler(store, cfg.Handlers)).Methods("POST")
	// stats must be registered before {id}
	api.HandleFunc("/reminders/stats", handlers.GetReminderStatsHandler(store, cfg.Handlers)).Methods("GET")
	api.HandleFunc("/reminders/{id}", handlers.GetReminderHandler(store)).Methods("GET")
	api.HandleFunc("/reminders/{id}", handlers.UpdateReminderHandler(store, cfg.Handlers)).Methods("PUT")
	api.HandleFunc("/reminders/{id}", handlers.DeleteReminderHandler(store)).Methods("DELETE")
	api.HandleFunc("/reminders/{id}/toggle", handlers.ToggleReminderHandler(store)).Methods("PATCH")

	if cfg.MCP != nil {
		r.PathPrefix("/mcp").Handler(cfg.MCP)
	}

	return r
}

// NewHandler wraps the router with request logging and CORS. Both sit outside
// the router so preflight requests are answered before route matching.
func NewHandler(store handlers.ReminderStore, cfg Config) http.Handler {
	var h http.Handler = SetupRouter(store, cfg)
	h = middleware.CORS(cfg.AllowedOrigins)(h)
	return middleware.RequestID(h)
}
