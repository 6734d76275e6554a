package config

import (
	"fmt"
	"log/slog"

	"github.com/aglmct/tracker/internal/env"
)

// Storage backends selectable with TRACKER_STORAGE_TYPE.
const (
	StorageMemory   = "memory"
	StorageFS       = "fs"
	StorageGCS      = "gcs"
	StorageSQLite   = "sqlite"
	StoragePostgres = "postgres"
)

// Config holds the application configuration.
type Config struct {
	Storage       StorageConfig
	Report        ReportConfig
	Observability ObservabilityConfig
}

// StorageConfig selects the persistence backend and the slot keys of each store.
type StorageConfig struct {
	Type       string `env:"TRACKER_STORAGE_TYPE" default:"fs"` // memory, fs, gcs, sqlite, postgres
	FSDir      string `env:"TRACKER_FS_DIR" default:"./tracker-data"`
	GCSBucket  string `env:"TRACKER_GCS_BUCKET"`
	GCSPrefix  string `env:"TRACKER_GCS_PREFIX"`
	SQLitePath string `env:"TRACKER_SQLITE_PATH" default:"./tracker-data/tracker.db"`
	DSN        string `env:"TRACKER_DB_DSN"`

	// Connection pool settings (zero = use infrastructure defaults)
	DBMaxOpenConns int `env:"TRACKER_DB_MAX_OPEN_CONNS"`
	DBMaxIdleConns int `env:"TRACKER_DB_MAX_IDLE_CONNS"`

	PPMKey string `env:"TRACKER_PPM_KEY" default:"agl_ppm_tasks"`
	CMKey  string `env:"TRACKER_CM_KEY" default:"agl_cm_tasks"`
}

// Validate checks that the selected backend has what it needs.
func (c *StorageConfig) Validate() error {
	switch c.Type {
	case StorageMemory:
	case StorageFS:
		if c.FSDir == "" {
			return fmt.Errorf("TRACKER_FS_DIR is required when TRACKER_STORAGE_TYPE is 'fs'")
		}
	case StorageGCS:
		if c.GCSBucket == "" {
			return fmt.Errorf("TRACKER_GCS_BUCKET is required when TRACKER_STORAGE_TYPE is 'gcs'")
		}
	case StorageSQLite:
		if c.SQLitePath == "" {
			return fmt.Errorf("TRACKER_SQLITE_PATH is required when TRACKER_STORAGE_TYPE is 'sqlite'")
		}
	case StoragePostgres:
		if c.DSN == "" {
			return fmt.Errorf("TRACKER_DB_DSN is required when TRACKER_STORAGE_TYPE is 'postgres'")
		}
	default:
		return fmt.Errorf("unknown TRACKER_STORAGE_TYPE: %s", c.Type)
	}
	if c.PPMKey == "" || c.CMKey == "" {
		return fmt.Errorf("TRACKER_PPM_KEY and TRACKER_CM_KEY must not be empty")
	}
	if c.PPMKey == c.CMKey {
		return fmt.Errorf("TRACKER_PPM_KEY and TRACKER_CM_KEY must differ")
	}
	return nil
}

// ReportConfig controls where exports go and how PDFs are typeset.
type ReportConfig struct {
	Dir string `env:"TRACKER_REPORT_DIR" default:"."`
	// PDFFont is an optional TrueType font with Unicode coverage.
	// When empty the built-in Helvetica is used with cp1252 translation.
	PDFFont string `env:"TRACKER_PDF_FONT"`
}

// ObservabilityConfig holds observability configuration.
type ObservabilityConfig struct {
	OTelEnabled bool       `env:"TRACKER_OTEL_ENABLED" default:"false"`
	LogLevel    slog.Level `env:"TRACKER_LOG_LEVEL" default:"warn"` // debug, info, warn, error
}

// Load parses TRACKER_ environment variables into a Config struct.
// Sections with a Validate method are checked by the env loader.
func Load() (*Config, error) {
	cfg := &Config{}

	if err := env.Load(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return cfg, nil
}
