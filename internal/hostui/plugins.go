// internal/hostui/plugins.go
package hostui

import (
	"context"
	"sync"

	"cablescan-service/pkg/host"
)

// PluginSource announces plugins to the host
type PluginSource interface {
	Descriptors(ctx context.Context) []host.PluginDescriptor
}

// Plugins is the host plugin registry
type Plugins struct {
	mu      sync.RWMutex
	sources []PluginSource
}

// NewPlugins creates a registry holding sources
func NewPlugins(sources ...PluginSource) *Plugins {
	return &Plugins{sources: sources}
}

// Register adds a plugin source
func (p *Plugins) Register(source PluginSource) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sources = append(p.sources, source)
}

// Descriptors collects the descriptors of every registered plugin
func (p *Plugins) Descriptors(ctx context.Context) []host.PluginDescriptor {
	p.mu.RLock()
	sources := append([]PluginSource(nil), p.sources...)
	p.mu.RUnlock()

	descriptors := []host.PluginDescriptor{}
	for _, source := range sources {
		descriptors = append(descriptors, source.Descriptors(ctx)...)
	}
	return descriptors
}

// MenuEntries collects what menu plugins contribute to menuID
func (p *Plugins) MenuEntries(ctx context.Context, menuID string) []host.MenuEntry {
	entries := []host.MenuEntry{}
	for _, d := range p.Descriptors(ctx) {
		if d.Where != host.WhereMenu || d.Menu == nil {
			continue
		}
		entries = append(entries, d.Menu(menuID)...)
	}
	return entries
}

// Entry finds a menu entry by key
func (p *Plugins) Entry(ctx context.Context, menuID, key string) (host.MenuEntry, bool) {
	for _, entry := range p.MenuEntries(ctx, menuID) {
		if entry.Key == key {
			return entry, true
		}
	}
	return host.MenuEntry{}, false
}
