// internal/hostui/flow_test.go
package hostui_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"cablescan-service/internal/cablescan"
	"cablescan-service/internal/config"
	"cablescan-service/internal/engine"
	"cablescan-service/internal/hostui"
	"cablescan-service/internal/model"
	"cablescan-service/internal/service"
	"cablescan-service/internal/store"
	"cablescan-service/internal/tuner"
	"cablescan-service/pkg/host"
)

const liveService = host.ServiceRef("1:0:19:283D:3FB:1:C00000:0:0:0:")

type flow struct {
	session   *hostui.Session
	nav       *hostui.Navigator
	recording *hostui.RecordTimer
	store     *store.MemoryStore
	history   *service.ScanHistoryService
	entry     host.MenuEntry
}

func newFlow(t *testing.T, slots []model.Tuner, sim config.SimulatedEngineConfig) *flow {
	t.Helper()
	logger := zap.NewNop()

	tuners, err := tuner.NewManager(slots, nil, logger)
	require.NoError(t, err)

	f := &flow{
		nav:       hostui.NewNavigator(liveService, logger),
		recording: hostui.NewRecordTimer(false),
		store:     store.NewMemoryStore(),
		history:   service.NewScanHistoryService(nil, logger),
	}

	plugin, err := cablescan.New(cablescan.Deps{
		Tuners:    tuners,
		Recording: f.recording,
		Navigator: f.nav,
		Store:     f.store,
		Engines:   engine.NewSimulatedFactory(sim, logger),
		Journal:   f.history,
		Logger:    logger,
	})
	require.NoError(t, err)

	entries := plugin.MenuEntries(cablescan.MenuID)
	require.Len(t, entries, 1)
	f.entry = entries[0]

	manager := hostui.NewManager(0, logger)
	f.session, err = manager.Create()
	require.NoError(t, err)
	return f
}

func (f *flow) topText() string {
	top := f.session.Snapshot().Top
	if top == nil {
		return ""
	}
	return top.Text
}

var cableSlot = []model.Tuner{{Slot: 0, Description: "Tuner A: DVB-C", Delivery: model.DeliveryCable}}

func TestFlow_ScanToCompletion(t *testing.T) {
	f := newFlow(t, cableSlot, config.SimulatedEngineConfig{StepInterval: time.Millisecond, Steps: 3, Channels: 27})

	require.NoError(t, f.session.Run(f.entry))
	require.Equal(t, cablescan.Title, f.session.Top().Title())

	require.NoError(t, f.session.SetField(cablescan.FieldFrequency, "330"))
	require.NoError(t, f.session.SetField(cablescan.FieldModulation, "5"))
	require.NoError(t, f.session.HandleAction(context.Background(), host.ActionOK))

	require.Equal(t, 2, f.session.Depth())
	assert.False(t, f.nav.State().Playing)

	require.Eventually(t, func() bool {
		return f.topText() == "Scanning completed, 27 channels found"
	}, 2*time.Second, 5*time.Millisecond)

	top := f.session.Snapshot().Top
	assert.Equal(t, "330 MHz, 6875 kSym/s, QAM256", top.Footer)
	assert.Equal(t, []host.Action{host.ActionOK, host.ActionCancel}, top.Actions)

	saved, err := f.store.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 330, saved.Frequency)

	require.NoError(t, f.session.HandleAction(context.Background(), host.ActionOK))
	assert.Equal(t, 1, f.session.Depth())
	assert.Equal(t, liveService, f.nav.CurrentService())

	runs, total, err := f.history.List(context.Background(), nil)
	require.NoError(t, err)
	require.Equal(t, 1, total)
	assert.Equal(t, model.ScanRunCompleted, runs[0].Status)
	assert.Equal(t, 27, *runs[0].ChannelsFound)
}

func TestFlow_CancelWhileScanning(t *testing.T) {
	f := newFlow(t, cableSlot, config.SimulatedEngineConfig{StepInterval: time.Hour, Steps: 2})

	require.NoError(t, f.session.Run(f.entry))
	require.NoError(t, f.session.HandleAction(context.Background(), host.ActionOK))
	assert.Equal(t, "Scanning...", f.topText())

	// OK is ignored until the scan finishes
	require.NoError(t, f.session.HandleAction(context.Background(), host.ActionOK))
	assert.Equal(t, 2, f.session.Depth())

	require.NoError(t, f.session.HandleAction(context.Background(), host.ActionCancel))
	assert.Equal(t, 1, f.session.Depth())
	assert.Equal(t, liveService, f.nav.CurrentService())

	runs, _, err := f.history.List(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, model.ScanRunAbandoned, runs[0].Status)
}

func TestFlow_Guards(t *testing.T) {
	f := newFlow(t, nil, config.SimulatedEngineConfig{})
	assert.ErrorIs(t, f.session.Run(f.entry), cablescan.ErrNoTunerAvailable)
	assert.Equal(t, "No cable tuner found!", f.topText())

	f = newFlow(t, cableSlot, config.SimulatedEngineConfig{})
	f.recording.SetRecording(true)
	assert.ErrorIs(t, f.session.Run(f.entry), cablescan.ErrRecordingInProgress)
	assert.Equal(t, host.MessageError, f.session.Snapshot().Top.Kind)
}

func TestFlow_DestroyStopsScan(t *testing.T) {
	f := newFlow(t, cableSlot, config.SimulatedEngineConfig{StepInterval: time.Hour})

	require.NoError(t, f.session.Run(f.entry))
	require.NoError(t, f.session.HandleAction(context.Background(), host.ActionOK))

	f.session.Destroy()
	assert.Equal(t, 0, f.session.Depth())
	assert.Equal(t, liveService, f.nav.CurrentService())
}

func TestPlugins_MenuLookup(t *testing.T) {
	logger := zap.NewNop()
	tuners, err := tuner.NewManager(cableSlot, nil, logger)
	require.NoError(t, err)
	plugin, err := cablescan.New(cablescan.Deps{
		Tuners:    tuners,
		Recording: hostui.NewRecordTimer(false),
		Navigator: hostui.NewNavigator("", logger),
		Store:     store.NewMemoryStore(),
		Engines:   engine.NewSimulatedFactory(config.SimulatedEngineConfig{}, logger),
	})
	require.NoError(t, err)

	plugins := hostui.NewPlugins(plugin)
	ctx := context.Background()

	descriptors := plugins.Descriptors(ctx)
	require.Len(t, descriptors, 1)
	assert.Equal(t, "Scan cable provider channels", descriptors[0].Description)

	entry, ok := plugins.Entry(ctx, cablescan.MenuID, cablescan.EntryKey)
	require.True(t, ok)
	assert.Equal(t, cablescan.Title, entry.Title)

	_, ok = plugins.Entry(ctx, "setup", cablescan.EntryKey)
	assert.False(t, ok)
	assert.Empty(t, plugins.MenuEntries(ctx, "setup"))

	empty, err := tuner.NewManager(nil, nil, logger)
	require.NoError(t, err)
	noCable, err := cablescan.New(cablescan.Deps{
		Tuners:    empty,
		Recording: hostui.NewRecordTimer(false),
		Navigator: hostui.NewNavigator("", logger),
		Store:     store.NewMemoryStore(),
		Engines:   engine.NewSimulatedFactory(config.SimulatedEngineConfig{}, logger),
	})
	require.NoError(t, err)
	assert.Empty(t, hostui.NewPlugins(noCable).Descriptors(ctx))
}
