// internal/store/store.go
package store

import (
	"fmt"

	"go.uber.org/zap"

	"cablescan-service/internal/config"
	"cablescan-service/internal/database"
	"cablescan-service/pkg/host"
)

// New selects the configured settings backend. db may be nil unless the
// postgres backend is configured.
func New(cfg *config.StoreConfig, db *database.DB, logger *zap.Logger) (host.ConfigStore, error) {
	logger = logger.With(zap.String("component", "store"), zap.String("backend", cfg.Backend))

	switch cfg.Backend {
	case "memory":
		return NewMemoryStore(), nil
	case "yaml":
		return NewYAMLStore(cfg.Path, logger), nil
	case "postgres":
		if db == nil {
			return nil, fmt.Errorf("postgres store requires a database connection")
		}
		return NewPostgresStore(db, logger), nil
	default:
		return nil, fmt.Errorf("unknown store backend: %s", cfg.Backend)
	}
}
