package storage

import (
	"fmt"

	"price-relay/src/interfaces"
	"price-relay/src/logger"
	"price-relay/src/models"
)

// -----------------------------------------------------------------------------

// NewPriceStore selects the backend named by storage.db_type. Database
// backends are wrapped in an AsyncRecorder; the memory store is written
// directly. The store is returned uninitialized.
func NewPriceStore(cfg *models.MConfig, log *logger.Logger) (interfaces.IPriceStore, error) {
	switch cfg.Storage.DBType {
	case "memory", "":
		return NewMemoryStore(cfg.Storage.HistorySize), nil
	case "sqlite":
		db := NewSQLiteDB(cfg.Storage.DBPath, log.Named("SQLiteDB"))
		return NewAsyncRecorder(db, cfg.Hub.SendBuffer*4, log.Named("Recorder")), nil
	case "postgres":
		db := NewPostgresDB(cfg.Storage.DBConnectionString, cfg.Name, log.Named("PostgresDB"))
		return NewAsyncRecorder(db, cfg.Hub.SendBuffer*4, log.Named("Recorder")), nil
	default:
		return nil, fmt.Errorf("unsupported database type: %s", cfg.Storage.DBType)
	}
}
