// pkg/host/interfaces.go
package host

import (
	"context"

	"cablescan-service/internal/model"
)

// ProgressHandler receives scan progress in percent
type ProgressHandler func(percent int)

// CompletionHandler receives the terminal scan result.
// A negative result is a failure, otherwise it is the number of channels found.
type CompletionHandler func(result int)

// Subscription is a registered engine event handler
type Subscription interface {
	Unsubscribe()
}

// ScanEngine is the native cable scan driver. It scans asynchronously and
// reports through the registered handlers; completion is delivered once.
type ScanEngine interface {
	OnProgress(handler ProgressHandler) Subscription
	OnCompletion(handler CompletionHandler) Subscription

	// Start begins scanning on the given tuner slot without blocking.
	// Failures after Start returns are reported as completion with -1.
	Start(tunerID int) error

	// Release frees the engine. No handler is called afterwards.
	Release() error
}

// EngineFactory constructs one engine per scan
type EngineFactory interface {
	NewEngine(params model.ScanParameters) (ScanEngine, error)
}

// TunerSource enumerates tuner slots
type TunerSource interface {
	CableTuners(ctx context.Context) ([]model.Tuner, error)
	HasCableTuner(ctx context.Context) bool
}

// RecordingStatus reports whether a recording is running
type RecordingStatus interface {
	IsRecording(ctx context.Context) bool
}

// ServiceRef identifies a playable service. The zero value means nothing.
type ServiceRef string

// Navigator controls live playback
type Navigator interface {
	CurrentService() ServiceRef
	StopService()
	PlayService(ref ServiceRef) error
}

// ConfigStore persists the scan form defaults
type ConfigStore interface {
	Load(ctx context.Context) (model.PersistedConfig, error)
	Save(ctx context.Context, cfg model.PersistedConfig) error
}

// UI is the host screen stack as seen by a plugin
type UI interface {
	// Open pushes a screen and shows it
	Open(screen Screen)
	// Close removes a screen from the stack
	Close(screen Screen)
	// Refresh tells the host a screen's rendering changed
	Refresh(screen Screen)
	// ShowMessage opens a blocking message dialog
	ShowMessage(kind MessageKind, text string)
}

// Screen is a presentation surface managed by the host
type Screen interface {
	Title() string
	// OnFirstShow runs once, the first time the screen becomes active
	OnFirstShow(ctx context.Context)
	Render() View
	HandleAction(ctx context.Context, action Action)
	// Destroy is the forced teardown used when the host drops the screen
	Destroy()
}

// FieldEditor is implemented by screens with editable fields
type FieldEditor interface {
	SetField(key, raw string) error
}
