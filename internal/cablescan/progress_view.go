// internal/cablescan/progress_view.go
package cablescan

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"cablescan-service/internal/model"
	"cablescan-service/pkg/host"
)

// ViewState is the state of the progress screen
type ViewState int

const (
	StateActive ViewState = iota
	StateFinished
)

// String returns the state name
func (s ViewState) String() string {
	if s == StateFinished {
		return "FINISHED"
	}
	return "ACTIVE"
}

// ProgressView shows a running scan and restores playback when it is left
type ProgressView struct {
	ui       host.UI
	nav      host.Navigator
	session  *Session
	previous host.ServiceRef
	logger   *zap.Logger

	mu       sync.Mutex
	state    ViewState
	text     string
	progress int
	closed   bool
}

// NewProgressView creates the progress screen for params. The currently
// playing service is captured so it can be resumed on exit.
func NewProgressView(
	ui host.UI,
	nav host.Navigator,
	engines host.EngineFactory,
	journal RunJournal,
	params model.ScanParameters,
	logger *zap.Logger,
) *ProgressView {
	if logger == nil {
		logger = zap.NewNop()
	}

	v := &ProgressView{
		ui:       ui,
		nav:      nav,
		previous: nav.CurrentService(),
		logger:   logger.With(zap.String("screen", "scan-progress")),
		state:    StateActive,
	}
	v.session = NewSession(params, engines, nav, v, journal, logger)
	return v
}

// Session returns the scan session driven by the view
func (v *ProgressView) Session() *Session {
	return v.session
}

// State returns the current view state
func (v *ProgressView) State() ViewState {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.state
}

func (v *ProgressView) Title() string {
	return Title
}

// OnFirstShow resets the display and begins the scan
func (v *ProgressView) OnFirstShow(ctx context.Context) {
	v.mu.Lock()
	v.text = MsgScanning
	v.progress = 0
	v.mu.Unlock()

	v.ui.Refresh(v)
	v.session.Begin()
}

func (v *ProgressView) Render() host.View {
	v.mu.Lock()
	defer v.mu.Unlock()

	progress := v.progress
	actions := []host.Action{host.ActionCancel}
	if v.state == StateFinished {
		actions = []host.Action{host.ActionOK, host.ActionCancel}
	}

	return host.View{
		Title:    Title,
		Text:     v.text,
		Progress: &progress,
		Footer:   v.session.Params().Summary(),
		Actions:  actions,
	}
}

// HandleAction closes the view on OK once the scan finished, and on cancel
// in any state
func (v *ProgressView) HandleAction(ctx context.Context, action host.Action) {
	switch action {
	case host.ActionOK:
		if v.State() != StateFinished {
			return
		}
		v.close(true)
	case host.ActionCancel:
		v.close(true)
	}
}

// Destroy tears the view down without asking the host to close it
func (v *ProgressView) Destroy() {
	v.close(false)
}

// ScanProgress implements StatusSink
func (v *ProgressView) ScanProgress(percent int) {
	v.mu.Lock()
	if v.closed || v.state == StateFinished {
		v.mu.Unlock()
		return
	}
	v.progress = percent
	v.mu.Unlock()

	v.ui.Refresh(v)
}

// ScanCompleted implements StatusSink
func (v *ProgressView) ScanCompleted(outcome model.ScanOutcome) {
	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		return
	}
	v.state = StateFinished
	if outcome.Failed || outcome.ChannelsFound == nil {
		v.text = MsgScanFailed
	} else {
		v.text = fmt.Sprintf(MsgScanComplete, *outcome.ChannelsFound)
	}
	v.mu.Unlock()

	v.ui.Refresh(v)
}

// close restores playback and ends the session exactly once
func (v *ProgressView) close(requestClose bool) {
	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		return
	}
	v.closed = true
	v.mu.Unlock()

	// End waits for an in-flight Begin, so playback is restored after
	// Begin has stopped it.
	v.session.End()
	v.restoreService()

	if requestClose {
		v.ui.Close(v)
	}
}

func (v *ProgressView) restoreService() {
	if v.previous == "" {
		return
	}
	if err := v.nav.PlayService(v.previous); err != nil {
		v.logger.Warn("Failed to restore previous service",
			zap.String("service", string(v.previous)),
			zap.Error(err),
		)
	}
}
