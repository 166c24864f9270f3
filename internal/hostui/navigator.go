// internal/hostui/navigator.go
package hostui

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"cablescan-service/pkg/host"
)

// ErrEmptyService is returned when asked to play nothing
var ErrEmptyService = errors.New("empty service reference")

// PlaybackState is the navigator state exposed over HTTP
type PlaybackState struct {
	Current  host.ServiceRef `json:"current"`
	Playing  bool            `json:"playing"`
	Previous host.ServiceRef `json:"previous,omitempty"`
}

// Navigator is the in-process playback controller
type Navigator struct {
	logger *zap.Logger

	mu       sync.Mutex
	current  host.ServiceRef
	previous host.ServiceRef
}

// NewNavigator creates a navigator playing initial ("" for nothing)
func NewNavigator(initial host.ServiceRef, logger *zap.Logger) *Navigator {
	return &Navigator{
		current: initial,
		logger:  logger.With(zap.String("component", "navigator")),
	}
}

// CurrentService implements host.Navigator
func (n *Navigator) CurrentService() host.ServiceRef {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.current
}

// StopService implements host.Navigator
func (n *Navigator) StopService() {
	n.mu.Lock()
	stopped := n.current
	if stopped != "" {
		n.previous = stopped
	}
	n.current = ""
	n.mu.Unlock()

	if stopped != "" {
		n.logger.Info("Playback stopped", zap.String("service", string(stopped)))
	}
}

// PlayService implements host.Navigator
func (n *Navigator) PlayService(ref host.ServiceRef) error {
	if ref == "" {
		return ErrEmptyService
	}

	n.mu.Lock()
	if n.current != "" && n.current != ref {
		n.previous = n.current
	}
	n.current = ref
	n.mu.Unlock()

	n.logger.Info("Playback started", zap.String("service", string(ref)))
	return nil
}

// State returns a snapshot of the playback state
func (n *Navigator) State() PlaybackState {
	n.mu.Lock()
	defer n.mu.Unlock()
	return PlaybackState{
		Current:  n.current,
		Playing:  n.current != "",
		Previous: n.previous,
	}
}

// RecordTimer reports whether a recording is running
type RecordTimer struct {
	recording atomic.Bool
}

// NewRecordTimer creates a timer in the given state
func NewRecordTimer(recording bool) *RecordTimer {
	t := &RecordTimer{}
	t.recording.Store(recording)
	return t
}

// IsRecording implements host.RecordingStatus
func (t *RecordTimer) IsRecording(ctx context.Context) bool {
	return t.recording.Load()
}

// SetRecording switches the recording state
func (t *RecordTimer) SetRecording(recording bool) {
	t.recording.Store(recording)
}
