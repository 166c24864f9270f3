// internal/repository/memory_scan_run_repository.go
package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"cablescan-service/internal/model"
)

// memoryScanRunRepository keeps the scan history in process memory
type memoryScanRunRepository struct {
	mu   sync.RWMutex
	runs map[uuid.UUID]*model.ScanRun
}

// NewMemoryScanRunRepository creates a history store used when no database is configured
func NewMemoryScanRunRepository() ScanRunRepository {
	return &memoryScanRunRepository{
		runs: make(map[uuid.UUID]*model.ScanRun),
	}
}

func (r *memoryScanRunRepository) Create(ctx context.Context, run *model.ScanRun) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.runs[run.ID]; exists {
		return fmt.Errorf("scan run %s already exists", run.ID)
	}
	r.runs[run.ID] = copyRun(run)
	return nil
}

func (r *memoryScanRunRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.ScanRun, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	run, ok := r.runs[id]
	if !ok {
		return nil, fmt.Errorf("scan run %s: %w", id, ErrNotFound)
	}
	return copyRun(run), nil
}

func (r *memoryScanRunRepository) Finish(ctx context.Context, id uuid.UUID, status model.ScanRunStatus, channelsFound *int, finishedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	run, ok := r.runs[id]
	if !ok {
		return fmt.Errorf("scan run %s: %w", id, ErrNotFound)
	}
	run.Status = status
	run.ChannelsFound = nil
	if channelsFound != nil {
		n := *channelsFound
		run.ChannelsFound = &n
	}
	run.FinishedAt = &finishedAt
	return nil
}

func (r *memoryScanRunRepository) List(ctx context.Context, filter *ScanRunFilter) ([]*model.ScanRun, int, error) {
	if filter == nil {
		filter = &ScanRunFilter{}
	}

	r.mu.RLock()
	matched := make([]*model.ScanRun, 0, len(r.runs))
	for _, run := range r.runs {
		if filter.Status != nil && run.Status != *filter.Status {
			continue
		}
		if filter.TunerID != nil && run.TunerID != *filter.TunerID {
			continue
		}
		matched = append(matched, copyRun(run))
	}
	r.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].StartedAt.After(matched[j].StartedAt)
	})

	total := len(matched)
	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	start := filter.Offset
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}

	return matched[start:end], total, nil
}

func (r *memoryScanRunRepository) DeleteOlderThan(ctx context.Context, olderThan time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var deleted int64
	for id, run := range r.runs {
		if run.StartedAt.Before(olderThan) {
			delete(r.runs, id)
			deleted++
		}
	}
	return deleted, nil
}

func copyRun(run *model.ScanRun) *model.ScanRun {
	c := *run
	if run.ChannelsFound != nil {
		n := *run.ChannelsFound
		c.ChannelsFound = &n
	}
	if run.FinishedAt != nil {
		t := *run.FinishedAt
		c.FinishedAt = &t
	}
	return &c
}
