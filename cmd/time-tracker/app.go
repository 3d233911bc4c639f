package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"Mansoor88-6/time-tracker/internal/config"
	"Mansoor88-6/time-tracker/internal/database"
	"Mansoor88-6/time-tracker/internal/logger"
	"Mansoor88-6/time-tracker/internal/notify"
	"Mansoor88-6/time-tracker/internal/repository"
	"Mansoor88-6/time-tracker/internal/service"
	"Mansoor88-6/time-tracker/internal/storage"
	"Mansoor88-6/time-tracker/internal/store"

	"go.uber.org/zap"
)

// app holds the pieces every command needs.
type app struct {
	cfg     *config.Config
	log     *logger.Logger
	db      *database.DB
	bus     *notify.Bus
	store   *store.Store
	service *service.TimeEntryService
}

func newApp(ctx context.Context) (*app, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	log, err := logger.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	a := &app{cfg: cfg, log: log, bus: notify.NewBus()}

	st, err := a.openStorage()
	if err != nil {
		a.close()
		return nil, err
	}

	a.store, err = store.New(ctx, st, store.Options{
		Key:        cfg.Storage.Key,
		UndoWindow: cfg.Store.UndoWindow,
	}, a.bus, log.Logger)
	if err != nil {
		a.close()
		return nil, fmt.Errorf("failed to load entries: %w", err)
	}

	a.service = service.NewTimeEntryService(a.store, cfg.Projects, log.Logger)
	return a, nil
}

func (a *app) openStorage() (storage.Storage, error) {
	switch a.cfg.Storage.Driver {
	case "sqlite":
		if err := os.MkdirAll(filepath.Dir(a.cfg.Storage.Path), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create storage directory: %w", err)
		}
		db, err := database.New(a.cfg.Storage.Path, a.log.Logger)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		a.db = db
		return repository.NewLocalStorageRepository(db.DB), nil
	case "file":
		f, err := storage.NewFile(a.cfg.Storage.Path, a.log.Logger)
		if err != nil {
			return nil, err
		}
		return f, nil
	default:
		a.log.Warn("Using in-memory storage, entries are lost on exit")
		return storage.NewMemory(), nil
	}
}

func (a *app) close() {
	if a.store != nil {
		a.store.Close()
	}
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.log.Error("Failed to close database", zap.Error(err))
		}
	}
	a.log.Sync()
}
