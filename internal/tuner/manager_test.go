// internal/tuner/manager_test.go
package tuner

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"cablescan-service/internal/model"
	"cablescan-service/internal/tuner/usb"
)

type fakeDiscoverer struct {
	tuners []usb.DiscoveredTuner
	err    error
	calls  int
}

func (d *fakeDiscoverer) Scan(ctx context.Context) ([]usb.DiscoveredTuner, error) {
	d.calls++
	return d.tuners, d.err
}

var configuredSlots = []model.Tuner{
	{Slot: 1, Description: "Tuner B: DVB-C", Delivery: model.DeliveryCable},
	{Slot: 0, Description: "Tuner A: DVB-S2", Delivery: model.DeliverySatellite},
}

func TestManager_CableTunersFromConfig(t *testing.T) {
	m, err := NewManager(configuredSlots, nil, zap.NewNop())
	require.NoError(t, err)

	tuners, err := m.CableTuners(context.Background())
	require.NoError(t, err)
	require.Len(t, tuners, 1)
	assert.Equal(t, 1, tuners[0].Slot)
	assert.Equal(t, "config", tuners[0].Source)
	assert.True(t, m.HasCableTuner(context.Background()))

	all, err := m.Tuners(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, all[0].Slot)
	assert.Equal(t, 1, all[1].Slot)
}

func TestManager_NoCableTuner(t *testing.T) {
	m, err := NewManager(configuredSlots[1:], nil, zap.NewNop())
	require.NoError(t, err)

	tuners, err := m.CableTuners(context.Background())
	require.NoError(t, err)
	assert.Empty(t, tuners)
	assert.False(t, m.HasCableTuner(context.Background()))
}

func TestManager_USBDiscovery(t *testing.T) {
	discoverer := &fakeDiscoverer{tuners: []usb.DiscoveredTuner{
		{Vendor: "Hauppauge", Model: "WinTV-dualHD", Bus: 1, Address: 4,
			Delivery: []model.DeliverySystem{model.DeliveryCable, model.DeliveryTerrestrial}},
		{Vendor: "DVBSky", Model: "S960", Bus: 2, Address: 3,
			Delivery: []model.DeliverySystem{model.DeliverySatellite}},
	}}
	m, err := NewManager(configuredSlots[1:], discoverer, zap.NewNop())
	require.NoError(t, err)

	tuners, err := m.CableTuners(context.Background())
	require.NoError(t, err)
	require.Len(t, tuners, 1)
	assert.Equal(t, 1, tuners[0].Slot)
	assert.Equal(t, "Hauppauge WinTV-dualHD", tuners[0].Description)
	assert.Equal(t, "usb:USB-Bus1-Addr4", tuners[0].Source)

	all, err := m.Tuners(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, model.DeliverySatellite, all[2].Delivery)

	// results are cached until Rescan
	assert.Equal(t, 1, discoverer.calls)
	_, err = m.Rescan(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, discoverer.calls)
}

func TestManager_DiscoveryFailureFallsBackToConfig(t *testing.T) {
	discoverer := &fakeDiscoverer{err: errors.New("LIBUSB_ERROR_ACCESS")}
	m, err := NewManager(configuredSlots, discoverer, zap.NewNop())
	require.NoError(t, err)

	tuners, err := m.CableTuners(context.Background())
	require.NoError(t, err)
	require.Len(t, tuners, 1)
	assert.Equal(t, 1, tuners[0].Slot)

	_, err = m.Tuners(context.Background())
	assert.Error(t, err)
}

func TestNewManager_RejectsBadSlots(t *testing.T) {
	_, err := NewManager([]model.Tuner{{Slot: 0}, {Slot: 0}}, nil, zap.NewNop())
	assert.Error(t, err)

	_, err = NewManager([]model.Tuner{{Slot: -1}}, nil, zap.NewNop())
	assert.Error(t, err)
}
