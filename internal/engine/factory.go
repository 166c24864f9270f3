// internal/engine/factory.go
package engine

import (
	"fmt"

	"go.uber.org/zap"

	"cablescan-service/internal/config"
	"cablescan-service/pkg/host"
)

// NewFactory returns the engine factory selected by engine.driver
func NewFactory(cfg *config.EngineConfig, logger *zap.Logger) (host.EngineFactory, error) {
	switch cfg.Driver {
	case "simulated":
		return NewSimulatedFactory(cfg.Simulated, logger), nil
	case "tcp":
		return NewLinkFactory(&TCPDialer{Address: cfg.TCP.Address}, cfg.TCP.ConnectTimeout, logger), nil
	case "serial":
		if _, err := SerialMode(cfg.Serial); err != nil {
			return nil, fmt.Errorf("invalid serial settings: %w", err)
		}
		return NewLinkFactory(NewSerialDialer(cfg.Serial), 0, logger), nil
	default:
		return nil, fmt.Errorf("unknown engine driver: %s", cfg.Driver)
	}
}
