// Package postgres implements the storage.Backend interface on
// GORM/PostgreSQL. Batch writes and buffering come from the embedded GORM
// backend; this package owns the connection, which falls back to an
// in-memory SQLite database with disk dumps when Postgres is unreachable.
package postgres

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/rescuesim/simulator/internal/database"
	gormstorage "github.com/rescuesim/simulator/internal/storage/gorm"
)

// Config holds the Postgres backend settings. The fallback fields only
// apply when the connection degrades to local SQLite.
type Config struct {
	FlushInterval        time.Duration
	FallbackDumpInterval time.Duration
	FallbackDumpPath     string
}

// Backend wraps the GORM backend over the managed connection.
type Backend struct {
	*gormstorage.Backend
	mgr      *database.Manager
	cfg      Config
	log      zerolog.Logger
	stopChan chan struct{}
}

// New connects through the database manager, preferring Postgres and
// degrading to in-memory SQLite, then wraps the shared GORM backend
// around whichever connection came up.
func New(cfg Config, log zerolog.Logger) (*Backend, error) {
	mgr := database.NewManager(log)
	if err := mgr.Connect(); err != nil {
		return nil, fmt.Errorf("failed to connect to history database: %w", err)
	}
	return &Backend{
		Backend: gormstorage.New(gormstorage.Dependencies{
			DB:            mgr.DB,
			Log:           log,
			FlushInterval: cfg.FlushInterval,
		}),
		mgr:      mgr,
		cfg:      cfg,
		log:      log,
		stopChan: make(chan struct{}),
	}, nil
}

// Local reports whether the backend degraded to the SQLite fallback.
func (b *Backend) Local() bool {
	return b.mgr.ShouldSaveLocal
}

// Init initializes the embedded GORM backend. On the SQLite fallback it
// also starts the disk dump loop, since the data would otherwise vanish
// with the process.
func (b *Backend) Init() error {
	if err := b.Backend.Init(); err != nil {
		return err
	}
	if b.mgr.ShouldSaveLocal && b.cfg.FallbackDumpPath != "" {
		b.mgr.SqliteFilePath = b.cfg.FallbackDumpPath
		if err := os.MkdirAll(filepath.Dir(b.cfg.FallbackDumpPath), 0755); err != nil {
			return fmt.Errorf("failed to create dump directory: %w", err)
		}
		if b.cfg.FallbackDumpInterval > 0 {
			go b.dumpLoop()
		}
	}
	return nil
}

// Close stops the dump loop, closes the embedded backend and, on the
// fallback, writes one final dump.
func (b *Backend) Close() error {
	close(b.stopChan)
	if err := b.Backend.Close(); err != nil {
		return err
	}
	if b.mgr.ShouldSaveLocal && b.mgr.SqliteFilePath != "" {
		return b.mgr.DumpMemoryToDisk()
	}
	return nil
}

func (b *Backend) dumpLoop() {
	ticker := time.NewTicker(b.cfg.FallbackDumpInterval)
	defer ticker.Stop()
	for {
		select {
		case <-b.stopChan:
			return
		case <-ticker.C:
			if err := b.mgr.DumpMemoryToDisk(); err != nil {
				b.log.Error().Err(err).Msg("error dumping to disk")
			}
		}
	}
}
