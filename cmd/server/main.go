/*
main.go - Leave engine HTTP server

STARTUP SEQUENCE:
  1. Load configuration (.env, environment, flags)
  2. Build the JSON slog logger
  3. Open the SQLite store
  4. Wire leave.Service with the Prometheus observer
  5. Start the router with graceful shutdown

COMMAND-LINE FLAGS (override the environment):
  -port    HTTP server port (APP_PORT, default 8080)
  -db      SQLite database path (DB_PATH, default leave.db)
           Use ":memory:" for an in-memory database

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM stop accepting connections, wait up to 30s for active
  requests, then close the database.

SEE ALSO:
  - config/config.go: Environment variables
  - api/server.go: Router configuration
*/
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/eigen04/hr-mgmt-v2-sub000/api"
	"github.com/eigen04/hr-mgmt-v2-sub000/config"
	"github.com/eigen04/hr-mgmt-v2-sub000/leave"
	"github.com/eigen04/hr-mgmt-v2-sub000/metrics"
	"github.com/eigen04/hr-mgmt-v2-sub000/store/sqlite"
	"github.com/go-chi/httplog/v3"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	port := flag.Int("port", cfg.App.Port, "HTTP server port")
	dbPath := flag.String("db", cfg.Database.Path, "SQLite database path")
	flag.Parse()

	level, _ := cfg.SlogLevel()
	logFormat := httplog.SchemaECS.Concise(!cfg.IsProduction())
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:       level,
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "leave-engine"),
		slog.String("env", cfg.App.Env),
	)
	slog.SetDefault(logger)

	store, err := sqlite.New(*dbPath)
	if err != nil {
		logger.Error("failed to initialize database", "path", *dbPath, "err", err)
		os.Exit(1)
	}
	defer store.Close()

	svc := leave.NewService(store, cfg.LeaveOptions(), logger)
	svc.Observer = metrics.Observer{}

	router := api.NewRouter(api.NewHandler(svc, logger), api.RouterOptions{
		AllowedOrigins: cfg.App.CORSOrigins,
		Logger:         logger,
	})

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", *port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server starting", "port", *port, "db", *dbPath)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", "err", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "err", err)
		return
	}
	logger.Info("server stopped")
}
