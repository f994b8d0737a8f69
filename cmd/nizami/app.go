package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/warp/nizami/attendance"
	"github.com/warp/nizami/attendance/store"
	"github.com/warp/nizami/config"
	"github.com/warp/nizami/document"
	"github.com/warp/nizami/store/sqlite"
)

// app is everything a command needs: config, service and a closer for
// the underlying storage.
type app struct {
	cfg      *config.Config
	svc      *attendance.Service
	settings attendance.Settings
	close    func() error
}

func openApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	st, closeFn, err := openStore(cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("opening %s store at %s: %w", cfg.Storage.Driver, cfg.Storage.Path, err)
	}

	svc := attendance.NewService(st)
	settings, err := svc.InitSettings(ctx, cfg.Settings())
	if err != nil {
		closeFn()
		return nil, fmt.Errorf("initializing settings: %w", err)
	}

	return &app{cfg: cfg, svc: svc, settings: settings, close: closeFn}, nil
}

// openStore builds the configured store. The json driver keeps the state
// in memory and rewrites the document file after every change.
func openStore(sc config.StorageConfig) (attendance.Store, func() error, error) {
	switch sc.Driver {
	case config.DriverJSON:
		mem := store.NewMemory()
		doc, err := document.ReadFile(sc.Path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, nil, err
		default:
			snap, err := doc.Snapshot()
			if err != nil {
				return nil, nil, fmt.Errorf("%s: %w", sc.Path, err)
			}
			mem = store.NewMemoryFrom(snap)
		}
		mem.WithPersist(document.FileHook(sc.Path))
		return mem, func() error { return nil }, nil

	default:
		if sc.Path != ":memory:" {
			if err := os.MkdirAll(filepath.Dir(sc.Path), 0755); err != nil {
				return nil, nil, err
			}
		}
		db, err := sqlite.New(sc.Path)
		if err != nil {
			return nil, nil, err
		}
		return db, db.Close, nil
	}
}
