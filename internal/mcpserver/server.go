package mcpserver

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/goccy/go-json"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/valeriaulyamaeva/smart-reminder/internal/database"
	"github.com/valeriaulyamaeva/smart-reminder/internal/handlers"
	"github.com/valeriaulyamaeva/smart-reminder/models"
)

const (
	serverName    = "smart-reminder"
	serverVersion = "1.0.0"
)

// Server exposes the reminder store as MCP tools. It applies the same
// validation and "must be in the future" rule as the HTTP API.
type Server struct {
	mcpServer *server.MCPServer
	store     handlers.ReminderStore
	now       func() time.Time
	loc       *time.Location
}

func NewServer(store handlers.ReminderStore, opts handlers.Options) *Server {
	s := &Server{
		store: store,
		now:   opts.Now,
		loc:   opts.Location,
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.loc == nil {
		s.loc = time.Local
	}

	s.mcpServer = server.NewMCPServer(
		serverName,
		serverVersion,
		server.WithToolCapabilities(false),
	)

	s.registerTools()
	return s
}

// MCPServer returns the underlying MCP server, e.g. for stdio serving.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// HTTPHandler returns a streamable HTTP transport for mounting on the API router.
func (s *Server) HTTPHandler() http.Handler {
	return server.NewStreamableHTTPServer(s.mcpServer)
}

func (s *Server) registerTools() {
	s.mcpServer.AddTool(
		mcp.NewTool("list_reminders",
			mcp.WithDescription("List reminders ordered by due date and time, optionally filtered by status"),
			mcp.WithString("status", mcp.Description("Filter: all, active or completed (default: all)")),
		),
		s.handleListReminders,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("get_reminder",
			mcp.WithDescription("Get a single reminder by ID"),
			mcp.WithNumber("id", mcp.Required(), mcp.Description("Reminder ID")),
		),
		s.handleGetReminder,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("add_reminder",
			mcp.WithDescription("Add a reminder due at a future date and time"),
			mcp.WithString("title", mcp.Required(), mcp.Description("Reminder title, up to 100 characters")),
			mcp.WithString("date", mcp.Required(), mcp.Description("Due date, YYYY-MM-DD")),
			mcp.WithString("time", mcp.Required(), mcp.Description("Due time, HH:MM (24h)")),
			mcp.WithString("description", mcp.Description("Optional description, up to 500 characters")),
		),
		s.handleAddReminder,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("update_reminder",
			mcp.WithDescription("Update a reminder's title, description, date or time"),
			mcp.WithNumber("id", mcp.Required(), mcp.Description("Reminder ID")),
			mcp.WithString("title", mcp.Description("New title")),
			mcp.WithString("description", mcp.Description("New description, empty string clears it")),
			mcp.WithString("date", mcp.Description("New due date, YYYY-MM-DD")),
			mcp.WithString("time", mcp.Description("New due time, HH:MM")),
		),
		s.handleUpdateReminder,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("toggle_reminder",
			mcp.WithDescription("Mark a reminder completed, or active again if it was completed"),
			mcp.WithNumber("id", mcp.Required(), mcp.Description("Reminder ID")),
		),
		s.handleToggleReminder,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("delete_reminder",
			mcp.WithDescription("Delete a reminder permanently"),
			mcp.WithNumber("id", mcp.Required(), mcp.Description("Reminder ID")),
		),
		s.handleDeleteReminder,
	)
}

func (s *Server) handleListReminders(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	filter, err := models.ParseStatusFilter(req.GetString("status", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	reminders, err := s.store.GetAllReminders(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to list reminders: %v", err)), nil
	}
	reminders = models.FilterReminders(reminders, filter)
	if len(reminders) == 0 {
		return mcp.NewToolResultText("No reminders found."), nil
	}
	return jsonResult(reminders)
}

func (s *Server) handleGetReminder(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, errResult := requireID(req)
	if errResult != nil {
		return errResult, nil
	}

	reminder, err := s.store.GetReminderByID(ctx, id)
	if err != nil {
		return storeError(err, "failed to get reminder"), nil
	}
	return jsonResult(reminder)
}

func (s *Server) handleAddReminder(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	payload := models.InsertReminder{
		Title: req.GetString("title", ""),
		Date:  req.GetString("date", ""),
		Time:  req.GetString("time", ""),
	}
	if d := req.GetString("description", ""); d != "" {
		payload.Description = &d
	}
	if err := payload.Validate(); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := models.RequireFuture(payload.Date, payload.Time, s.now(), s.loc); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	added, err := s.store.CreateReminder(ctx, payload)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to add reminder: %v", err)), nil
	}
	return jsonResult(added)
}

func (s *Server) handleUpdateReminder(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, errResult := requireID(req)
	if errResult != nil {
		return errResult, nil
	}

	var upd models.UpdateReminder
	args := req.GetArguments()
	if _, ok := args["title"]; ok {
		v := req.GetString("title", "")
		upd.Title = &v
	}
	if _, ok := args["description"]; ok {
		v := req.GetString("description", "")
		upd.Description = &v
	}
	if _, ok := args["date"]; ok {
		v := req.GetString("date", "")
		upd.Date = &v
	}
	if _, ok := args["time"]; ok {
		v := req.GetString("time", "")
		upd.Time = &v
	}
	if err := upd.Validate(); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var guards []database.Guard
	if upd.TouchesSchedule() {
		now := s.now()
		guards = append(guards, func(merged models.Reminder) error {
			return models.RequireFuture(merged.Date, merged.Time, now, s.loc)
		})
	}

	updated, err := s.store.UpdateReminder(ctx, id, upd, guards...)
	if err != nil {
		return storeError(err, "failed to update reminder"), nil
	}
	return jsonResult(updated)
}

func (s *Server) handleToggleReminder(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, errResult := requireID(req)
	if errResult != nil {
		return errResult, nil
	}

	toggled, err := s.store.ToggleReminderComplete(ctx, id)
	if err != nil {
		return storeError(err, "failed to toggle reminder"), nil
	}
	return jsonResult(toggled)
}

func (s *Server) handleDeleteReminder(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, errResult := requireID(req)
	if errResult != nil {
		return errResult, nil
	}

	deleted, err := s.store.DeleteReminder(ctx, id)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to delete reminder: %v", err)), nil
	}
	if !deleted {
		return mcp.NewToolResultError(fmt.Sprintf("reminder %d not found", id)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Reminder %d deleted.", id)), nil
}

func requireID(req mcp.CallToolRequest) (int, *mcp.CallToolResult) {
	idFloat := req.GetFloat("id", -1)
	if idFloat < 1 || idFloat != float64(int(idFloat)) {
		return 0, mcp.NewToolResultError("id is required and must be a positive integer")
	}
	return int(idFloat), nil
}

func storeError(err error, prefix string) *mcp.CallToolResult {
	if errors.Is(err, database.ErrReminderNotFound) {
		return mcp.NewToolResultError(err.Error())
	}
	return mcp.NewToolResultError(fmt.Sprintf("%s: %v", prefix, err))
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	output, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode result: %w", err)
	}
	return mcp.NewToolResultText(string(output)), nil
}
