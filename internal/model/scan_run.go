// internal/model/scan_run.go
package model

import (
	"time"

	"github.com/google/uuid"
)

// ScanRunStatus is the lifecycle state of a journalled scan
type ScanRunStatus string

const (
	ScanRunRunning   ScanRunStatus = "RUNNING"
	ScanRunCompleted ScanRunStatus = "COMPLETED"
	ScanRunFailed    ScanRunStatus = "FAILED"
	ScanRunAbandoned ScanRunStatus = "ABANDONED"
)

// ScanRun is one scan as recorded in the history
type ScanRun struct {
	ID            uuid.UUID     `json:"id" db:"id"`
	TunerID       int           `json:"tuner_id" db:"tuner_id"`
	NetworkID     int           `json:"network_id" db:"network_id"`
	FrequencyKHz  int           `json:"frequency_khz" db:"frequency_khz"`
	SymbolRate    int           `json:"symbol_rate" db:"symbol_rate"`
	Modulation    Modulation    `json:"modulation" db:"modulation"`
	KeepNumbering bool          `json:"keep_numbering" db:"keep_numbering"`
	Status        ScanRunStatus `json:"status" db:"status"`
	ChannelsFound *int          `json:"channels_found,omitempty" db:"channels_found"`
	StartedAt     time.Time     `json:"started_at" db:"started_at"`
	FinishedAt    *time.Time    `json:"finished_at,omitempty" db:"finished_at"`
}

// NewScanRun creates a running entry for the given parameters
func NewScanRun(params ScanParameters, startedAt time.Time) *ScanRun {
	return &ScanRun{
		ID:            uuid.New(),
		TunerID:       params.TunerID,
		NetworkID:     params.NetworkID,
		FrequencyKHz:  params.FrequencyKHz,
		SymbolRate:    params.SymbolRate,
		Modulation:    params.Modulation,
		KeepNumbering: params.KeepOfficialNumbering,
		Status:        ScanRunRunning,
		StartedAt:     startedAt,
	}
}

// StatusFor returns the terminal status matching an outcome
func StatusFor(outcome ScanOutcome) ScanRunStatus {
	switch {
	case !outcome.Finished:
		return ScanRunAbandoned
	case outcome.Failed:
		return ScanRunFailed
	default:
		return ScanRunCompleted
	}
}
