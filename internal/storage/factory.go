// internal/storage/factory.go
package storage

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/rescuesim/simulator/internal/config"
	"github.com/rescuesim/simulator/internal/storage/memory"
	"github.com/rescuesim/simulator/internal/storage/postgres"
	sqlitestorage "github.com/rescuesim/simulator/internal/storage/sqlite"
)

// NewBackend creates a storage backend based on configuration
func NewBackend(cfg config.StorageConfig, log zerolog.Logger) (Backend, error) {
	switch cfg.Type {
	case "postgres":
		return postgres.New(postgres.Config{
			FlushInterval:        cfg.Postgres.FlushInterval,
			FallbackDumpInterval: cfg.SQLite.DumpInterval,
			FallbackDumpPath:     cfg.SQLite.DumpPath,
		}, log)
	case "sqlite":
		return sqlitestorage.New(sqlitestorage.Config{
			DumpInterval: cfg.SQLite.DumpInterval,
			DumpPath:     cfg.SQLite.DumpPath,
		}, log)
	case "memory":
		return memory.New(cfg.Memory), nil
	default:
		return nil, fmt.Errorf("unknown storage type: %s", cfg.Type)
	}
}
