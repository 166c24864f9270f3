// internal/cablescan/plugin.go
package cablescan

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"cablescan-service/pkg/host"
)

// Menu placement
const (
	MenuID   = "scan"
	EntryKey = "cablescan"

	Description = "Scan cable provider channels"
)

// Deps are the host collaborators the plugin works with
type Deps struct {
	Tuners    host.TunerSource
	Recording host.RecordingStatus
	Navigator host.Navigator
	Store     host.ConfigStore
	Engines   host.EngineFactory
	Journal   RunJournal // optional
	Logger    *zap.Logger
}

func (d *Deps) logger() *zap.Logger {
	if d.Logger == nil {
		return zap.NewNop()
	}
	return d.Logger
}

// Plugin is the cable scan plugin
type Plugin struct {
	deps   *Deps
	logger *zap.Logger
}

// New creates the plugin
func New(deps Deps) (*Plugin, error) {
	switch {
	case deps.Tuners == nil:
		return nil, fmt.Errorf("tuner source is required")
	case deps.Recording == nil:
		return nil, fmt.Errorf("recording status is required")
	case deps.Navigator == nil:
		return nil, fmt.Errorf("navigator is required")
	case deps.Store == nil:
		return nil, fmt.Errorf("config store is required")
	case deps.Engines == nil:
		return nil, fmt.Errorf("engine factory is required")
	}

	return &Plugin{
		deps:   &deps,
		logger: deps.logger().With(zap.String("plugin", EntryKey)),
	}, nil
}

// Main is the menu entry point. It checks for a cable tuner, then for a
// running recording, and opens the scan form when both checks pass.
// The returned error mirrors the dialog shown, if any.
func (p *Plugin) Main(ctx context.Context, ui host.UI) error {
	tuners, err := p.deps.Tuners.CableTuners(ctx)
	if err != nil {
		p.logger.Error("Failed to enumerate cable tuners", zap.Error(err))
		tuners = nil
	}

	if len(tuners) == 0 {
		ui.ShowMessage(host.MessageError, MsgNoTuner)
		return ErrNoTunerAvailable
	}

	if p.deps.Recording.IsRecording(ctx) {
		ui.ShowMessage(host.MessageError, MsgRecording)
		return ErrRecordingInProgress
	}

	p.logger.Info("Opening cable scan", zap.Int("tuners", len(tuners)))
	ui.Open(NewConfigForm(ctx, ui, p.deps, tuners))
	return nil
}

// Descriptors announces the plugin, or nothing when the box has no cable tuner
func (p *Plugin) Descriptors(ctx context.Context) []host.PluginDescriptor {
	if !p.deps.Tuners.HasCableTuner(ctx) {
		return nil
	}

	return []host.PluginDescriptor{{
		Name:        Title,
		Description: Description,
		Where:       host.WhereMenu,
		Menu:        p.MenuEntries,
	}}
}

// MenuEntries returns the entries contributed to menuID
func (p *Plugin) MenuEntries(menuID string) []host.MenuEntry {
	if menuID != MenuID {
		return nil
	}

	return []host.MenuEntry{{
		Title: Title,
		Key:   EntryKey,
		Run:   p.Main,
	}}
}
