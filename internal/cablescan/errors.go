// internal/cablescan/errors.go
package cablescan

import (
	"errors"

	"cablescan-service/internal/model"
)

// Errors reported by the entry point and the progress view
var (
	ErrNoTunerAvailable    = errors.New("no cable tuner found")
	ErrRecordingInProgress = errors.New("recording in progress")
	ErrScanFailed          = model.ErrScanFailed
)

// User-facing texts
const (
	Title = "Cable scan"

	MsgNoTuner      = "No cable tuner found!"
	MsgRecording    = "A recording is currently running. Please stop the recording before trying to scan."
	MsgScanning     = "Scanning..."
	MsgScanFailed   = "Scanning failed!"
	MsgScanComplete = "Scanning completed, %d channels found"
	MsgIntroduction = "Configure your network settings, and press OK to start the scan"
)
