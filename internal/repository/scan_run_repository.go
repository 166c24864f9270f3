// internal/repository/scan_run_repository.go
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"cablescan-service/internal/database"
	"cablescan-service/internal/model"
)

const scanRunColumns = `id, tuner_id, network_id, frequency_khz, symbol_rate, modulation,
			   keep_numbering, status, channels_found, started_at, finished_at`

// scanRunRepository implements ScanRunRepository on PostgreSQL
type scanRunRepository struct {
	db     *database.DB
	logger *zap.Logger
}

// NewScanRunRepository creates a new scan run repository
func NewScanRunRepository(db *database.DB, logger *zap.Logger) ScanRunRepository {
	return &scanRunRepository{
		db:     db,
		logger: logger,
	}
}

// Create inserts a new scan run
func (r *scanRunRepository) Create(ctx context.Context, run *model.ScanRun) error {
	query := `
		INSERT INTO scan_runs (
			id, tuner_id, network_id, frequency_khz, symbol_rate, modulation,
			keep_numbering, status, started_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.db.ExecContext(ctx, query,
		run.ID, run.TunerID, run.NetworkID, run.FrequencyKHz, run.SymbolRate,
		int(run.Modulation), run.KeepNumbering, string(run.Status), run.StartedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create scan run", zap.Error(err), zap.String("id", run.ID.String()))
		return fmt.Errorf("failed to create scan run: %w", err)
	}

	return nil
}

// GetByID retrieves a scan run by id
func (r *scanRunRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.ScanRun, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM scan_runs
		WHERE id = $1
	`, scanRunColumns)

	run, err := scanRun(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("scan run %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get scan run: %w", err)
	}

	return run, nil
}

// Finish stores the terminal status of a run
func (r *scanRunRepository) Finish(ctx context.Context, id uuid.UUID, status model.ScanRunStatus, channelsFound *int, finishedAt time.Time) error {
	query := `
		UPDATE scan_runs
		SET status = $2, channels_found = $3, finished_at = $4
		WHERE id = $1
	`

	var channels sql.NullInt64
	if channelsFound != nil {
		channels = sql.NullInt64{Int64: int64(*channelsFound), Valid: true}
	}

	result, err := r.db.ExecContext(ctx, query, id, string(status), channels, finishedAt)
	if err != nil {
		r.logger.Error("Failed to finish scan run", zap.Error(err), zap.String("id", id.String()))
		return fmt.Errorf("failed to finish scan run: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("scan run %s: %w", id, ErrNotFound)
	}

	return nil
}

// List retrieves scan runs, newest first
func (r *scanRunRepository) List(ctx context.Context, filter *ScanRunFilter) ([]*model.ScanRun, int, error) {
	if filter == nil {
		filter = &ScanRunFilter{}
	}

	whereConditions := []string{}
	args := []interface{}{}
	argIndex := 1

	if filter.Status != nil {
		whereConditions = append(whereConditions, fmt.Sprintf("status = $%d", argIndex))
		args = append(args, string(*filter.Status))
		argIndex++
	}

	if filter.TunerID != nil {
		whereConditions = append(whereConditions, fmt.Sprintf("tuner_id = $%d", argIndex))
		args = append(args, *filter.TunerID)
		argIndex++
	}

	whereClause := ""
	if len(whereConditions) > 0 {
		whereClause = "WHERE " + strings.Join(whereConditions, " AND ")
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM scan_runs %s", whereClause)
	var total int
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count scan runs: %w", err)
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM scan_runs %s
		ORDER BY started_at DESC
		LIMIT $%d OFFSET $%d
	`, scanRunColumns, whereClause, argIndex, argIndex+1)
	args = append(args, limit, filter.Offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("Failed to list scan runs", zap.Error(err))
		return nil, 0, fmt.Errorf("failed to list scan runs: %w", err)
	}
	defer rows.Close()

	runs := []*model.ScanRun{}
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			r.logger.Error("Failed to scan scan run row", zap.Error(err))
			continue
		}
		runs = append(runs, run)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate scan run rows: %w", err)
	}

	return runs, total, nil
}

// DeleteOlderThan removes history entries started before olderThan
func (r *scanRunRepository) DeleteOlderThan(ctx context.Context, olderThan time.Time) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM scan_runs WHERE started_at < $1`, olderThan)
	if err != nil {
		return 0, fmt.Errorf("failed to delete old scan runs: %w", err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	if deleted > 0 {
		r.logger.Info("Old scan runs deleted", zap.Int64("count", deleted))
	}
	return deleted, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRun(row rowScanner) (*model.ScanRun, error) {
	run := &model.ScanRun{}
	var modulation int
	var status string
	var channels sql.NullInt64
	var finishedAt sql.NullTime

	err := row.Scan(
		&run.ID, &run.TunerID, &run.NetworkID, &run.FrequencyKHz, &run.SymbolRate,
		&modulation, &run.KeepNumbering, &status, &channels, &run.StartedAt, &finishedAt,
	)
	if err != nil {
		return nil, err
	}

	run.Modulation = model.Modulation(modulation)
	run.Status = model.ScanRunStatus(status)
	if channels.Valid {
		n := int(channels.Int64)
		run.ChannelsFound = &n
	}
	if finishedAt.Valid {
		t := finishedAt.Time
		run.FinishedAt = &t
	}

	return run, nil
}
