package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/aglmct/tracker/internal/application/maintenance"
	"github.com/aglmct/tracker/internal/config"
	"github.com/aglmct/tracker/internal/core"
	"github.com/aglmct/tracker/internal/photo"
	"github.com/aglmct/tracker/internal/report"
	fsstorage "github.com/aglmct/tracker/internal/storage/fs"
	"github.com/aglmct/tracker/internal/storage/gcs"
	"github.com/aglmct/tracker/internal/storage/memory"
	sqlstorage "github.com/aglmct/tracker/internal/storage/sql"
)

// app holds the dependencies shared by every command. Storage is opened
// lazily so that --help never touches the backend.
type app struct {
	cfg    *config.Config
	logger *slog.Logger
	now    func() time.Time

	storage core.Storage
	closer  io.Closer

	ppm      *maintenance.PPMStore
	cm       *maintenance.CMStore
	exporter *report.Exporter
	photos   *photo.Loader
}

func newApp(cfg *config.Config, logger *slog.Logger) *app {
	return &app{cfg: cfg, logger: logger, now: time.Now}
}

// open connects the storage backend and loads both stores.
func (a *app) open(ctx context.Context) error {
	if a.ppm != nil {
		return nil
	}

	if a.storage == nil {
		storage, closer, err := openStorage(ctx, a.cfg.Storage)
		if err != nil {
			return err
		}
		a.storage, a.closer = storage, closer
		a.logger.DebugContext(ctx, "storage initialized", "type", a.cfg.Storage.Type)
	}

	a.ppm = maintenance.NewPPMStore(a.storage, maintenance.Config{
		Key:    a.cfg.Storage.PPMKey,
		Now:    a.now,
		Logger: a.logger,
	})
	a.cm = maintenance.NewCMStore(a.storage, maintenance.Config{
		Key:    a.cfg.Storage.CMKey,
		Now:    a.now,
		Logger: a.logger,
	})
	a.exporter = report.NewExporter(report.ExporterConfig{FontPath: a.cfg.Report.PDFFont, Logger: a.logger})
	a.photos = photo.NewLoader(a.now, a.logger)

	evicted, err := a.ppm.Load(ctx)
	if err != nil {
		return err
	}
	if evicted > 0 {
		a.logger.WarnContext(ctx, "tasks with invalid due dates hidden; run 'tracker clean' to remove them", "count", evicted)
	}
	return a.cm.Load(ctx)
}

func (a *app) close() error {
	if a.closer == nil {
		return nil
	}
	err := a.closer.Close()
	a.closer = nil
	return err
}

// openStorage builds the backend selected by cfg.Type.
// The returned closer is nil for backends without resources to release.
func openStorage(ctx context.Context, cfg config.StorageConfig) (core.Storage, io.Closer, error) {
	switch cfg.Type {
	case config.StorageMemory:
		return memory.NewStore(), nil, nil
	case config.StorageFS:
		store, err := fsstorage.NewStore(cfg.FSDir)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open fs storage: %w", err)
		}
		return store, nil, nil
	case config.StorageGCS:
		store, err := gcs.NewStore(ctx, cfg.GCSBucket, cfg.GCSPrefix)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open gcs storage: %w", err)
		}
		return store, store, nil
	case config.StorageSQLite, config.StoragePostgres:
		dbCfg := sqlstorage.DBConfig{
			Dialect:      sqlstorage.DialectPostgres,
			DSN:          cfg.DSN,
			MaxOpenConns: cfg.DBMaxOpenConns,
			MaxIdleConns: cfg.DBMaxIdleConns,
		}
		if cfg.Type == config.StorageSQLite {
			dbCfg.Dialect = sqlstorage.DialectSQLite
			dbCfg.DSN = cfg.SQLitePath
		}
		store, err := sqlstorage.NewStore(ctx, dbCfg)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open %s storage: %w", cfg.Type, err)
		}
		return store, store, nil
	default:
		return nil, nil, errors.New("unknown storage type: " + cfg.Type)
	}
}
