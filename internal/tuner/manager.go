// internal/tuner/manager.go
package tuner

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"go.uber.org/zap"

	"cablescan-service/internal/model"
	"cablescan-service/internal/tuner/usb"
)

// Discoverer finds receivers that are not part of the configured slots
type Discoverer interface {
	Scan(ctx context.Context) ([]usb.DiscoveredTuner, error)
}

// Manager enumerates tuner slots from configuration and optional USB discovery
type Manager struct {
	slots      []model.Tuner
	discoverer Discoverer
	logger     *zap.Logger

	mu         sync.Mutex
	discovered []model.Tuner
	scanned    bool
}

// NewManager creates a tuner manager. discoverer may be nil.
func NewManager(slots []model.Tuner, discoverer Discoverer, logger *zap.Logger) (*Manager, error) {
	seen := make(map[int]bool, len(slots))
	configured := make([]model.Tuner, 0, len(slots))
	for _, slot := range slots {
		if slot.Slot < 0 {
			return nil, fmt.Errorf("invalid tuner slot: %d", slot.Slot)
		}
		if seen[slot.Slot] {
			return nil, fmt.Errorf("duplicate tuner slot: %d", slot.Slot)
		}
		seen[slot.Slot] = true
		slot.Source = "config"
		configured = append(configured, slot)
	}

	return &Manager{
		slots:      configured,
		discoverer: discoverer,
		logger:     logger.With(zap.String("component", "tuners")),
	}, nil
}

// Tuners returns every known slot ordered by slot id
func (m *Manager) Tuners(ctx context.Context) ([]model.Tuner, error) {
	discovered, err := m.discover(ctx)

	all := make([]model.Tuner, 0, len(m.slots)+len(discovered))
	all = append(all, m.slots...)
	all = append(all, discovered...)
	sort.Slice(all, func(i, j int) bool { return all[i].Slot < all[j].Slot })

	return all, err
}

// CableTuners implements host.TunerSource
func (m *Manager) CableTuners(ctx context.Context) ([]model.Tuner, error) {
	all, err := m.Tuners(ctx)
	if err != nil {
		m.logger.Warn("USB tuner discovery failed, using configured slots", zap.Error(err))
	}

	cable := make([]model.Tuner, 0, len(all))
	for _, t := range all {
		if t.SupportsCable() {
			cable = append(cable, t)
		}
	}
	return cable, nil
}

// HasCableTuner implements host.TunerSource
func (m *Manager) HasCableTuner(ctx context.Context) bool {
	tuners, _ := m.CableTuners(ctx)
	return len(tuners) > 0
}

// Rescan drops cached discovery results and walks the bus again
func (m *Manager) Rescan(ctx context.Context) ([]model.Tuner, error) {
	m.mu.Lock()
	m.scanned = false
	m.discovered = nil
	m.mu.Unlock()

	return m.Tuners(ctx)
}

func (m *Manager) discover(ctx context.Context) ([]model.Tuner, error) {
	if m.discoverer == nil {
		return nil, nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.scanned {
		return m.discovered, nil
	}

	found, err := m.discoverer.Scan(ctx)
	if err != nil {
		return nil, err
	}

	next := m.nextSlot()
	m.discovered = make([]model.Tuner, 0, len(found))
	for _, d := range found {
		delivery := model.DeliveryTerrestrial
		if d.SupportsCable() {
			delivery = model.DeliveryCable
		} else if len(d.Delivery) > 0 {
			delivery = d.Delivery[0]
		}

		m.discovered = append(m.discovered, model.Tuner{
			Slot:        next,
			Description: fmt.Sprintf("%s %s", d.Vendor, d.Model),
			Delivery:    delivery,
			Source:      "usb:" + d.Location(),
		})
		next++
	}
	m.scanned = true

	m.logger.Info("USB tuners discovered", zap.Int("count", len(m.discovered)))
	return m.discovered, nil
}

func (m *Manager) nextSlot() int {
	next := 0
	for _, slot := range m.slots {
		if slot.Slot >= next {
			next = slot.Slot + 1
		}
	}
	return next
}
