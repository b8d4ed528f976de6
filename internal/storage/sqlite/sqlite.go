// Package sqlitestorage implements the storage.Backend interface using an
// in-memory SQLite database with periodic disk dumps via VACUUM INTO.
// It wraps the GORM backend via composition; the only SQLite-specific
// concerns are creating the in-memory DB and the dump loop.
package sqlitestorage

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/rescuesim/simulator/internal/database"
	gormstorage "github.com/rescuesim/simulator/internal/storage/gorm"
)

// Config holds the SQLite backend settings.
type Config struct {
	DumpInterval time.Duration
	DumpPath     string
}

// Backend wraps the GORM backend with the in-memory DB and its dump loop.
type Backend struct {
	*gormstorage.Backend
	mgr      *database.Manager
	cfg      Config
	log      zerolog.Logger
	stopChan chan struct{}
}

// New creates a SQLite storage backend.
func New(cfg Config, log zerolog.Logger) (*Backend, error) {
	mgr := database.NewManager(log)
	db, err := mgr.GetSqliteDB("")
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory SQLite DB: %w", err)
	}
	mgr.SqliteFilePath = cfg.DumpPath
	return &Backend{
		Backend:  gormstorage.New(gormstorage.Dependencies{DB: db, Log: log}),
		mgr:      mgr,
		cfg:      cfg,
		log:      log,
		stopChan: make(chan struct{}),
	}, nil
}

// Init initializes the embedded GORM backend and starts the dump loop.
func (b *Backend) Init() error {
	if err := b.Backend.Init(); err != nil {
		return err
	}
	if b.cfg.DumpPath != "" {
		if err := os.MkdirAll(filepath.Dir(b.cfg.DumpPath), 0755); err != nil {
			return fmt.Errorf("failed to create dump directory: %w", err)
		}
		if b.cfg.DumpInterval > 0 {
			go b.dumpLoop()
		}
	}
	return nil
}

// Close stops the dump loop, closes the embedded backend and writes one
// final dump so nothing recorded after the last interval is lost.
func (b *Backend) Close() error {
	close(b.stopChan)
	if err := b.Backend.Close(); err != nil {
		return err
	}
	if b.cfg.DumpPath != "" {
		return b.mgr.DumpMemoryToDisk()
	}
	return nil
}

// ExportedFilePath returns the disk dump location.
func (b *Backend) ExportedFilePath() string {
	return b.cfg.DumpPath
}

// dumpLoop periodically dumps the in-memory database to disk. VACUUM INTO
// takes a point-in-time snapshot, so writes never pause.
func (b *Backend) dumpLoop() {
	ticker := time.NewTicker(b.cfg.DumpInterval)
	defer ticker.Stop()
	for {
		select {
		case <-b.stopChan:
			return
		case <-ticker.C:
			start := time.Now()
			if err := b.mgr.DumpMemoryToDisk(); err != nil {
				b.log.Error().Err(err).Msg("error dumping to disk")
			} else {
				b.log.Debug().Dur("duration", time.Since(start)).Msg("dumped to disk")
			}
		}
	}
}
