// internal/cablescan/config_form.go
package cablescan

import (
	"context"
	"strconv"
	"sync"

	"go.uber.org/zap"

	"cablescan-service/internal/model"
	"cablescan-service/pkg/form"
	"cablescan-service/pkg/host"
)

// Field keys of the scan form
const (
	FieldTuner         = "tuner"
	FieldFrequency     = "frequency"
	FieldSymbolRate    = "symbolrate"
	FieldModulation    = "modulation"
	FieldNetworkID     = "networkid"
	FieldKeepNumbering = "keepnumbering"
)

// ConfigForm collects the scan parameters and opens the progress view
type ConfigForm struct {
	ui     host.UI
	deps   *Deps
	logger *zap.Logger

	mu            sync.Mutex
	fields        form.Set
	tuner         *form.Choice
	frequency     *form.Integer
	symbolRate    *form.Integer
	modulation    *form.Choice
	networkID     *form.Integer
	keepNumbering *form.Boolean
}

// NewConfigForm builds the form from the enumerated cable tuners and the
// persisted defaults. A store that fails to load yields factory defaults.
func NewConfigForm(ctx context.Context, ui host.UI, deps *Deps, tuners []model.Tuner) *ConfigForm {
	logger := deps.logger().With(zap.String("screen", "scan-config"))

	cfg, err := deps.Store.Load(ctx)
	if err == nil {
		err = cfg.Validate()
	}
	if err != nil {
		logger.Warn("Failed to load scan settings, using defaults", zap.Error(err))
		cfg = model.DefaultPersistedConfig()
	}

	tunerOptions := make([]form.Option, 0, len(tuners))
	for _, t := range tuners {
		tunerOptions = append(tunerOptions, form.Option{
			Value: strconv.Itoa(t.Slot),
			Label: t.Description,
		})
	}

	modulationOptions := make([]form.Option, 0, len(model.Modulations))
	for _, m := range model.Modulations {
		modulationOptions = append(modulationOptions, form.Option{
			Value: strconv.Itoa(int(m)),
			Label: m.String(),
		})
	}

	f := &ConfigForm{
		ui:     ui,
		deps:   deps,
		logger: logger,

		tuner:         form.NewChoice(FieldTuner, "Tuner", tunerOptions, ""),
		frequency:     form.NewInteger(FieldFrequency, "Frequency", model.FrequencyMin, model.FrequencyMax, cfg.Frequency),
		symbolRate:    form.NewInteger(FieldSymbolRate, "Symbol Rate", model.SymbolRateMin, model.SymbolRateMax, cfg.SymbolRate),
		modulation:    form.NewChoice(FieldModulation, "Modulation", modulationOptions, strconv.Itoa(int(cfg.Modulation))),
		networkID:     form.NewInteger(FieldNetworkID, "Network ID", model.NetworkIDMin, model.NetworkIDMax, cfg.NetworkID),
		keepNumbering: form.NewBoolean(FieldKeepNumbering, "Use official channel numbering", cfg.KeepNumbering),
	}
	f.fields = form.Set{f.tuner, f.frequency, f.symbolRate, f.modulation, f.networkID, f.keepNumbering}

	return f
}

func (f *ConfigForm) Title() string {
	return Title
}

func (f *ConfigForm) OnFirstShow(ctx context.Context) {}

func (f *ConfigForm) Render() host.View {
	f.mu.Lock()
	defer f.mu.Unlock()

	return host.View{
		Title:   Title,
		Fields:  f.fields.Views(),
		Footer:  MsgIntroduction,
		Actions: []host.Action{host.ActionOK, host.ActionCancel},
	}
}

// SetField validates and applies one edit. Edits live in the form until confirm.
func (f *ConfigForm) SetField(key, raw string) error {
	f.mu.Lock()
	err := f.fields.Apply(key, raw)
	f.mu.Unlock()

	if err != nil {
		return err
	}
	f.ui.Refresh(f)
	return nil
}

func (f *ConfigForm) HandleAction(ctx context.Context, action host.Action) {
	switch action {
	case host.ActionOK:
		f.Confirm(ctx)
	case host.ActionCancel:
		f.ui.Close(f)
	}
}

// Destroy has nothing to release; unsaved edits are dropped
func (f *ConfigForm) Destroy() {}

// Settings returns the current field values as a persisted config
func (f *ConfigForm) Settings() model.PersistedConfig {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.settings()
}

// Confirm saves every field and starts the scan on the selected tuner.
// A failed save is logged; the scan still starts.
func (f *ConfigForm) Confirm(ctx context.Context) {
	f.mu.Lock()
	cfg := f.settings()
	tunerID, err := strconv.Atoi(f.tuner.Value())
	f.mu.Unlock()

	if err != nil {
		f.logger.Error("No tuner selected", zap.Error(err))
		f.ui.ShowMessage(host.MessageError, MsgNoTuner)
		return
	}

	if err := f.deps.Store.Save(ctx, cfg); err != nil {
		f.logger.Error("Failed to save scan settings", zap.Error(err))
	}

	params := cfg.ScanParameters(tunerID)
	f.logger.Info("Starting cable scan",
		zap.Int("tuner_id", tunerID),
		zap.String("parameters", params.Summary()),
	)
	f.ui.Open(NewProgressView(f.ui, f.deps.Navigator, f.deps.Engines, f.deps.Journal, params, f.deps.Logger))
}

func (f *ConfigForm) settings() model.PersistedConfig {
	modulation, err := model.ParseModulation(f.modulation.Value())
	if err != nil {
		modulation = model.DefaultPersistedConfig().Modulation
	}

	return model.PersistedConfig{
		Frequency:     f.frequency.Value(),
		SymbolRate:    f.symbolRate.Value(),
		NetworkID:     f.networkID.Value(),
		Modulation:    modulation,
		KeepNumbering: f.keepNumbering.Value(),
	}
}
