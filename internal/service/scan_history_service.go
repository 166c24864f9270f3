// internal/service/scan_history_service.go
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"cablescan-service/internal/model"
	"cablescan-service/internal/repository"
	"cablescan-service/internal/utils"
	"cablescan-service/pkg/host"
)

const journalTimeout = 5 * time.Second

// ScanHistoryService journals scan runs and serves the history
type ScanHistoryService struct {
	repo    repository.ScanRunRepository
	logger  *utils.ServiceLogger
	changes host.Listeners[*model.ScanRun]
	now     func() time.Time
}

// NewScanHistoryService creates a new scan history service.
// A nil repository keeps the history in memory.
func NewScanHistoryService(repo repository.ScanRunRepository, logger *zap.Logger) *ScanHistoryService {
	if repo == nil {
		repo = repository.NewMemoryScanRunRepository()
	}
	return &ScanHistoryService{
		repo:   repo,
		logger: utils.NewServiceLogger(logger, "scan-history-service"),
		now:    time.Now,
	}
}

// OnChange registers fn for every created or finished run
func (s *ScanHistoryService) OnChange(fn func(*model.ScanRun)) host.Subscription {
	return s.changes.Add(fn)
}

// Started records a running scan
func (s *ScanHistoryService) Started(id uuid.UUID, params model.ScanParameters) {
	ctx, cancel := context.WithTimeout(context.Background(), journalTimeout)
	defer cancel()

	run := model.NewScanRun(params, s.now().UTC())
	run.ID = id

	if err := s.repo.Create(ctx, run); err != nil {
		s.logger.Error("Failed to journal scan start", zap.Error(err), zap.String("scan_id", id.String()))
		return
	}

	s.logger.Info("Scan journalled",
		zap.String("scan_id", id.String()),
		zap.Int("tuner_id", params.TunerID),
	)
	s.changes.Emit(run)
}

// Finished stores the terminal state of a scan
func (s *ScanHistoryService) Finished(id uuid.UUID, outcome model.ScanOutcome) {
	ctx, cancel := context.WithTimeout(context.Background(), journalTimeout)
	defer cancel()

	status := model.StatusFor(outcome)
	if err := s.repo.Finish(ctx, id, status, outcome.ChannelsFound, s.now().UTC()); err != nil {
		s.logger.Error("Failed to journal scan end", zap.Error(err), zap.String("scan_id", id.String()))
		return
	}

	s.logger.Info("Scan run finished",
		zap.String("scan_id", id.String()),
		zap.String("status", string(status)),
	)

	run, err := s.repo.GetByID(ctx, id)
	if err != nil {
		s.logger.Warn("Failed to reload finished scan run", zap.Error(err))
		return
	}
	s.changes.Emit(run)
}

// List returns a page of the history, newest first
func (s *ScanHistoryService) List(ctx context.Context, filter *repository.ScanRunFilter) ([]*model.ScanRun, int, error) {
	runs, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list scan runs: %w", err)
	}
	return runs, total, nil
}

// Get returns a single run
func (s *ScanHistoryService) Get(ctx context.Context, id uuid.UUID) (*model.ScanRun, error) {
	return s.repo.GetByID(ctx, id)
}

// Cleanup deletes runs started more than retention ago
func (s *ScanHistoryService) Cleanup(ctx context.Context, retention time.Duration) (int64, error) {
	if retention <= 0 {
		return 0, fmt.Errorf("retention must be positive")
	}

	deleted, err := s.repo.DeleteOlderThan(ctx, s.now().Add(-retention))
	if err != nil {
		return 0, fmt.Errorf("failed to clean up scan history: %w", err)
	}
	return deleted, nil
}
