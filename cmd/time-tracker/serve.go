package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"Mansoor88-6/time-tracker/internal/export"
	"Mansoor88-6/time-tracker/internal/handler"
	"Mansoor88-6/time-tracker/internal/notify"
	"Mansoor88-6/time-tracker/internal/router"
	"Mansoor88-6/time-tracker/internal/timer"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const shutdownTimeout = 5 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()
	log := a.log

	log.Info("Starting time-tracker",
		zap.String("env", a.cfg.Env),
		zap.String("config_path", configPath),
		zap.String("storage_driver", a.cfg.Storage.Driver),
	)

	if err := a.store.Watch(ctx); err != nil {
		log.Warn("Failed to watch storage for external changes", zap.Error(err))
	}

	feed := notify.NewFeed(20)
	feed.Attach(a.bus)

	pipeline := export.NewPipeline(export.Config{
		ChunkSize:  a.cfg.Export.ChunkSize,
		ChunkDelay: a.cfg.Export.ChunkDelay,
		MaxRows:    a.cfg.Export.MaxRows,
	}, log.Logger)
	jobs := export.NewJobs(pipeline, a.cfg.Export.JobTTL, log.Logger)
	defer jobs.Stop()

	handlers := router.Handlers{
		TimeEntries:   handler.NewTimeEntryHandler(a.service, log.Logger),
		Timer:         handler.NewTimerHandler(timer.New(a.store, a.cfg.Projects, log.Logger), log.Logger),
		Reports:       handler.NewReportHandler(a.service, log.Logger),
		Exports:       handler.NewExportHandler(a.service, pipeline, jobs, log.Logger),
		Notifications: handler.NewNotificationHandler(feed),
	}

	addr := fmt.Sprintf(":%d", a.cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router.New(handlers, log.Logger),
		ReadTimeout:  a.cfg.Server.ReadTimeout,
		WriteTimeout: a.cfg.Server.WriteTimeout,
		IdleTimeout:  a.cfg.Server.IdleTimeout,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info("HTTP server listening", zap.String("address", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case sig := <-quit:
		log.Info("Received shutdown signal", zap.String("signal", sig.String()))
	case err, ok := <-serveErr:
		if ok {
			return fmt.Errorf("http server: %w", err)
		}
	}

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancelShutdown()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warn("HTTP server shutdown error", zap.Error(err))
	} else {
		log.Info("HTTP server stopped")
	}

	log.Info("time-tracker stopped")
	return nil
}
