// internal/store/postgres_store.go
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"cablescan-service/internal/database"
	"cablescan-service/internal/model"
)

// PostgresStore persists the scan settings in a single-row table
type PostgresStore struct {
	db     *database.DB
	logger *zap.Logger
}

// NewPostgresStore creates a store on the cablescan_config table
func NewPostgresStore(db *database.DB, logger *zap.Logger) *PostgresStore {
	return &PostgresStore{
		db:     db,
		logger: logger,
	}
}

// Load reads the settings row; no row yields the defaults
func (s *PostgresStore) Load(ctx context.Context) (model.PersistedConfig, error) {
	query := `
		SELECT frequency, symbol_rate, network_id, modulation, keep_numbering
		FROM cablescan_config
		WHERE id = 1
	`

	var cfg model.PersistedConfig
	var modulation int
	err := s.db.QueryRowContext(ctx, query).Scan(
		&cfg.Frequency, &cfg.SymbolRate, &cfg.NetworkID, &modulation, &cfg.KeepNumbering,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return model.DefaultPersistedConfig(), nil
	}
	if err != nil {
		s.logger.Error("Failed to load scan settings", zap.Error(err))
		return model.PersistedConfig{}, fmt.Errorf("failed to load scan settings: %w", err)
	}
	cfg.Modulation = model.Modulation(modulation)

	return cfg, nil
}

// Save upserts the settings row
func (s *PostgresStore) Save(ctx context.Context, cfg model.PersistedConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	query := `
		INSERT INTO cablescan_config (id, frequency, symbol_rate, network_id, modulation, keep_numbering, updated_at)
		VALUES (1, $1, $2, $3, $4, $5, NOW())
		ON CONFLICT (id) DO UPDATE SET
			frequency = EXCLUDED.frequency,
			symbol_rate = EXCLUDED.symbol_rate,
			network_id = EXCLUDED.network_id,
			modulation = EXCLUDED.modulation,
			keep_numbering = EXCLUDED.keep_numbering,
			updated_at = EXCLUDED.updated_at
	`

	_, err := s.db.ExecContext(ctx, query,
		cfg.Frequency, cfg.SymbolRate, cfg.NetworkID, int(cfg.Modulation), cfg.KeepNumbering,
	)
	if err != nil {
		s.logger.Error("Failed to save scan settings", zap.Error(err))
		return fmt.Errorf("failed to save scan settings: %w", err)
	}

	s.logger.Info("Scan settings saved",
		zap.Int("frequency", cfg.Frequency),
		zap.Int("symbol_rate", cfg.SymbolRate),
		zap.Int("network_id", cfg.NetworkID),
		zap.String("modulation", cfg.Modulation.String()),
	)
	return nil
}
