package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/valeriaulyamaeva/smart-reminder/internal/config"
	"github.com/valeriaulyamaeva/smart-reminder/internal/database"
	"github.com/valeriaulyamaeva/smart-reminder/internal/handlers"
	"github.com/valeriaulyamaeva/smart-reminder/internal/jobs"
	"github.com/valeriaulyamaeva/smart-reminder/internal/mcpserver"
	"github.com/valeriaulyamaeva/smart-reminder/internal/routes"
	"github.com/valeriaulyamaeva/smart-reminder/utils"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Ошибка загрузки конфигурации: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	loc, err := cfg.Location()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store := database.NewStore()

	if cfg.Seed.Count > 0 {
		if _, err := utils.GenerateTestReminders(ctx, store, cfg.Seed.Count, time.Now().UnixNano(), time.Now(), loc); err != nil {
			log.Fatalf("Ошибка генерации тестовых напоминаний: %v", err)
		}
	}

	handlerOpts := handlers.Options{Location: loc}
	routeCfg := routes.Config{
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		Handlers:       handlerOpts,
	}
	if cfg.MCP.Enabled {
		routeCfg.MCP = mcpserver.NewServer(store, handlerOpts).HTTPHandler()
		log.Println("MCP endpoint enabled at /mcp")
	}

	if cfg.Jobs.StatsSchedule != "" {
		c, err := jobs.ScheduleStatsReport(store, cfg.Jobs.StatsSchedule, loc)
		if err != nil {
			log.Fatalf("Ошибка настройки CRON-задачи: %v", err)
		}
		defer func() { <-c.Stop().Done() }()
	}

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           routes.NewHandler(store, routeCfg),
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Server listening on %s (timezone %s)", cfg.Server.Addr, loc)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			log.Fatalf("Ошибка запуска сервера: %v", err)
		}
	case <-ctx.Done():
	}

	log.Println("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Graceful shutdown failed: %v", err)
	}
}
