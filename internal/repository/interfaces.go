// internal/repository/interfaces.go
package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"cablescan-service/internal/model"
)

// ErrNotFound is returned when a record does not exist
var ErrNotFound = errors.New("record not found")

// ScanRunRepository defines scan history data access operations
type ScanRunRepository interface {
	Create(ctx context.Context, run *model.ScanRun) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.ScanRun, error)
	Finish(ctx context.Context, id uuid.UUID, status model.ScanRunStatus, channelsFound *int, finishedAt time.Time) error
	List(ctx context.Context, filter *ScanRunFilter) ([]*model.ScanRun, int, error)
	DeleteOlderThan(ctx context.Context, olderThan time.Time) (int64, error)
}

// ScanRunFilter represents filtering options for scan history
type ScanRunFilter struct {
	Status  *model.ScanRunStatus `json:"status"`
	TunerID *int                 `json:"tuner_id"`
	Limit   int                  `json:"limit"`
	Offset  int                  `json:"offset"`
}
