// internal/engine/simulated.go
package engine

import (
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"cablescan-service/internal/config"
	"cablescan-service/internal/model"
	"cablescan-service/pkg/host"
)

// SimulatedFactory builds virtual engines that step through a scan without
// touching hardware
type SimulatedFactory struct {
	config config.SimulatedEngineConfig
	logger *zap.Logger
}

// NewSimulatedFactory creates a simulated engine factory
func NewSimulatedFactory(cfg config.SimulatedEngineConfig, logger *zap.Logger) *SimulatedFactory {
	if cfg.Steps <= 0 {
		cfg.Steps = 1
	}
	return &SimulatedFactory{
		config: cfg,
		logger: logger.With(zap.String("engine", "simulated")),
	}
}

// NewEngine implements host.EngineFactory
func (f *SimulatedFactory) NewEngine(params model.ScanParameters) (host.ScanEngine, error) {
	if !params.Modulation.IsValid() {
		return nil, fmt.Errorf("invalid modulation: %d", int(params.Modulation))
	}

	return &SimulatedEngine{
		params: params,
		config: f.config,
		logger: f.logger,
		stop:   make(chan struct{}),
	}, nil
}

// SimulatedEngine reports evenly spaced progress and then completes
type SimulatedEngine struct {
	params model.ScanParameters
	config config.SimulatedEngineConfig
	logger *zap.Logger

	progress   host.Listeners[int]
	completion host.Listeners[int]

	mu       sync.Mutex
	started  bool
	released bool
	stop     chan struct{}
}

func (e *SimulatedEngine) OnProgress(handler host.ProgressHandler) host.Subscription {
	return e.progress.Add(handler)
}

func (e *SimulatedEngine) OnCompletion(handler host.CompletionHandler) host.Subscription {
	return e.completion.Add(handler)
}

// Start launches the scan goroutine
func (e *SimulatedEngine) Start(tunerID int) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.released {
		return fmt.Errorf("engine released")
	}
	if e.started {
		return fmt.Errorf("scan already started")
	}
	e.started = true

	e.logger.Info("Simulated scan started",
		zap.Int("tuner_id", tunerID),
		zap.String("parameters", e.params.Summary()),
	)

	go e.run()
	return nil
}

// Release stops the scan goroutine and drops every handler
func (e *SimulatedEngine) Release() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.released {
		return nil
	}
	e.released = true
	close(e.stop)
	e.progress.Clear()
	e.completion.Clear()
	return nil
}

func (e *SimulatedEngine) run() {
	ticker := time.NewTicker(e.interval())
	defer ticker.Stop()

	for step := 1; step <= e.config.Steps; step++ {
		select {
		case <-e.stop:
			return
		case <-ticker.C:
		}
		e.progress.Emit(step * 100 / e.config.Steps)
	}

	select {
	case <-e.stop:
		return
	default:
	}

	result := e.config.Channels
	if e.config.Fail {
		result = -1
	}
	e.completion.Emit(result)
}

func (e *SimulatedEngine) interval() time.Duration {
	if e.config.StepInterval <= 0 {
		return time.Millisecond
	}
	return e.config.StepInterval
}
