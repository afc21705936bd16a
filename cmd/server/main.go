package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/shuu880/slack-log-viewer/internal/config"
	"github.com/shuu880/slack-log-viewer/internal/log"
	"github.com/shuu880/slack-log-viewer/pkg/api"
	"github.com/shuu880/slack-log-viewer/pkg/archive"
)

// maxLoggedWarnings caps how many load warnings go to the startup log;
// the full list stays available on /api/v1/archive
const maxLoggedWarnings = 10

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}
	log.Init(cfg.Logging.Level)
	log.Info().Msg("starting slack-log-viewer")

	// Load the archive before serving so the first request sees data
	store := archive.NewStore(cfg.Dumps.Path)
	arch := store.Reload()
	logLoadReport(arch)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Event hub pushes reload notifications to connected dashboards
	hub := api.NewEventHub()
	go hub.Run(ctx)
	store.OnReload(func(a *archive.Archive) {
		hub.Broadcast(api.Event{
			Type:      api.EventReload,
			Timestamp: time.Now().UTC(),
			Payload:   map[string]int{"messages": a.Len()},
		})
	})

	// Watch the export root so edits show up without a restart
	if cfg.Dumps.Watch {
		watcher, err := archive.NewWatcher(store)
		if err != nil {
			log.Warn().Err(err).Msg("failed to start dumps watcher, continuing without it")
		} else {
			defer watcher.Close()
			log.Info().Str("path", cfg.Dumps.Path).Msg("watching export root for changes")
		}
	}

	// Setup HTTP server
	server := api.NewServer(cfg, store, hub)
	httpServer := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      server.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info().Str("addr", httpServer.Addr).Msg("server listening")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server")

	// Graceful shutdown with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited")
}

func logLoadReport(arch *archive.Archive) {
	report := arch.Report()
	log.Info().
		Str("path", report.Path).
		Int("files", report.Files).
		Int("messages", arch.Len()).
		Int("channels", len(arch.Channels())).
		Int("skipped_files", report.SkippedFiles).
		Int("skipped_records", report.SkippedRecords).
		Int("duplicates", report.Duplicates).
		Msg("archive loaded")

	for i, warn := range report.Warnings {
		if i == maxLoggedWarnings {
			log.Warn().Int("more", len(report.Warnings)-maxLoggedWarnings).Msg("further load warnings suppressed")
			break
		}
		log.Warn().Str("file", warn.File).Msg(warn.Detail)
	}
}
