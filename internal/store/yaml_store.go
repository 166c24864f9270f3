// internal/store/yaml_store.go
package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"cablescan-service/internal/model"
)

// yamlDocument is the on-disk layout, one section per plugin
type yamlDocument struct {
	CableScan model.PersistedConfig `yaml:"cablescan"`
}

// YAMLStore persists the scan settings in a YAML file
type YAMLStore struct {
	path   string
	logger *zap.Logger
	mu     sync.Mutex
}

// NewYAMLStore creates a store backed by path. The file is created on first save.
func NewYAMLStore(path string, logger *zap.Logger) *YAMLStore {
	return &YAMLStore{
		path:   path,
		logger: logger,
	}
}

// Load reads the settings; a missing file yields the defaults
func (s *YAMLStore) Load(ctx context.Context) (model.PersistedConfig, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	source, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return model.DefaultPersistedConfig(), nil
	}
	if err != nil {
		return model.PersistedConfig{}, fmt.Errorf("failed to read %s: %w", s.path, err)
	}

	doc := yamlDocument{CableScan: model.DefaultPersistedConfig()}
	if err := yaml.Unmarshal(source, &doc); err != nil {
		return model.PersistedConfig{}, fmt.Errorf("failed to parse %s: %w", s.path, err)
	}

	if err := doc.CableScan.Validate(); err != nil {
		return model.PersistedConfig{}, fmt.Errorf("invalid settings in %s: %w", s.path, err)
	}

	return doc.CableScan, nil
}

// Save writes the settings through a temporary file and rename
func (s *YAMLStore) Save(ctx context.Context, cfg model.PersistedConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	out, err := yaml.Marshal(yamlDocument{CableScan: cfg})
	if err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("failed to create settings directory: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, out, 0644); err != nil {
		return fmt.Errorf("failed to write settings: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to replace settings: %w", err)
	}

	s.logger.Debug("Scan settings saved", zap.String("path", s.path))
	return nil
}
