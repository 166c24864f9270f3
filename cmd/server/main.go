// cmd/server/main.go
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	_ "cablescan-service/docs"
	"cablescan-service/internal/cablescan"
	"cablescan-service/internal/config"
	"cablescan-service/internal/database"
	"cablescan-service/internal/engine"
	"cablescan-service/internal/handler"
	"cablescan-service/internal/hostui"
	"cablescan-service/internal/repository"
	"cablescan-service/internal/routes"
	"cablescan-service/internal/service"
	"cablescan-service/internal/store"
	"cablescan-service/internal/tuner"
	"cablescan-service/internal/tuner/usb"
	"cablescan-service/internal/utils"
	"cablescan-service/pkg/host"
)

// Application represents the main application
type Application struct {
	config   *config.Config
	logger   *zap.Logger
	server   *http.Server
	router   *routes.Router
	database *database.DB

	// Host bridge
	sessions  *hostui.Manager
	plugins   *hostui.Plugins
	navigator *hostui.Navigator
	recording *hostui.RecordTimer
	tuners    *tuner.Manager

	// Scan plugin collaborators
	configStore host.ConfigStore
	engines     host.EngineFactory
	history     *service.ScanHistoryService

	eventBus *handler.EventBus
	done     chan struct{}
}

// @title Cable Scan Service API
// @version 1.0.0
// @description DVB-C cable channel scan plugin host

// @contact.name Cable Scan Service API Support

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8086
// @BasePath /api/v1
func main() {
	app, err := NewApplication()
	if err != nil {
		fmt.Printf("Failed to initialize application: %v\n", err)
		os.Exit(1)
	}

	if err := app.Start(); err != nil {
		app.logger.Fatal("Failed to start application", zap.Error(err))
	}
}

// NewApplication creates a new application instance
func NewApplication() (*Application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := utils.NewLogger(&cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	serviceLogger := utils.NewServiceLogger(logger, cfg.App.Name)
	serviceLogger.LogServiceStart(cfg.App.Version, cfg)

	app := &Application{
		config: cfg,
		logger: logger,
		done:   make(chan struct{}),
	}

	if err := app.initializeDatabase(); err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	if err := app.initializeStore(); err != nil {
		return nil, fmt.Errorf("failed to initialize config store: %w", err)
	}

	if err := app.initializeTuners(); err != nil {
		return nil, fmt.Errorf("failed to initialize tuners: %w", err)
	}

	if err := app.initializeEngine(); err != nil {
		return nil, fmt.Errorf("failed to initialize scan engine: %w", err)
	}

	app.initializeHistory()

	if err := app.initializeHost(); err != nil {
		return nil, fmt.Errorf("failed to initialize plugin host: %w", err)
	}

	app.initializeServer()

	return app, nil
}

// initializeDatabase connects to PostgreSQL and runs migrations when enabled
func (app *Application) initializeDatabase() error {
	if !app.config.Database.Enabled {
		app.logger.Info("Database disabled, scan history kept in memory")
		return nil
	}

	db, err := database.NewConnection(app.config, app.logger)
	if err != nil {
		return fmt.Errorf("failed to create database connection: %w", err)
	}
	app.database = db

	if app.config.Database.AutoMigrate {
		migrator := database.NewMigrator(db, app.logger)
		if err := migrator.Up(); err != nil {
			return fmt.Errorf("failed to run database migrations: %w", err)
		}
	}

	app.logger.Info("Database initialized successfully")
	return nil
}

// initializeStore opens the persisted scan settings backend
func (app *Application) initializeStore() error {
	configStore, err := store.New(&app.config.Store, app.database, app.logger)
	if err != nil {
		return err
	}
	app.configStore = configStore

	app.logger.Info("Config store initialized",
		zap.String("backend", app.config.Store.Backend),
	)
	return nil
}

// initializeTuners builds the tuner inventory from configured slots and USB discovery
func (app *Application) initializeTuners() error {
	var discoverer tuner.Discoverer
	if app.config.Tuners.USBDiscovery {
		discoverer = usb.NewScanner(app.logger, app.config.Tuners.USBTimeout, app.config.App.Debug)
	}

	tuners, err := tuner.NewManager(app.config.Tuners.Slots, discoverer, app.logger)
	if err != nil {
		return err
	}
	app.tuners = tuners

	app.logger.Info("Tuner inventory initialized",
		zap.Int("configured_slots", len(app.config.Tuners.Slots)),
		zap.Bool("usb_discovery", app.config.Tuners.USBDiscovery),
	)
	return nil
}

// initializeEngine selects the scan engine driver
func (app *Application) initializeEngine() error {
	engines, err := engine.NewFactory(&app.config.Engine, app.logger)
	if err != nil {
		return err
	}
	app.engines = engines

	app.logger.Info("Scan engine initialized",
		zap.String("driver", app.config.Engine.Driver),
	)
	return nil
}

// initializeHistory creates the scan run journal
func (app *Application) initializeHistory() {
	var repo repository.ScanRunRepository
	if app.database != nil {
		repo = repository.NewScanRunRepository(app.database, app.logger)
	}
	app.history = service.NewScanHistoryService(repo, app.logger)
}

// initializeHost wires the UI sessions, the host bridge and the cable scan plugin
func (app *Application) initializeHost() error {
	app.navigator = hostui.NewNavigator(host.ServiceRef(app.config.Host.InitialService), app.logger)
	app.recording = hostui.NewRecordTimer(app.config.Host.Recording)
	app.sessions = hostui.NewManager(0, app.logger)

	plugin, err := cablescan.New(cablescan.Deps{
		Tuners:    app.tuners,
		Recording: app.recording,
		Navigator: app.navigator,
		Store:     app.configStore,
		Engines:   app.engines,
		Journal:   app.history,
		Logger:    app.logger,
	})
	if err != nil {
		return err
	}
	app.plugins = hostui.NewPlugins(plugin)

	app.eventBus = handler.NewEventBus(app.logger)
	app.sessions.OnChange(app.eventBus.PublishSnapshot)
	app.history.OnChange(app.eventBus.PublishScanRun)

	app.logger.Info("Plugin host initialized",
		zap.Int("plugins", len(app.plugins.Descriptors(context.Background()))),
	)
	return nil
}

// initializeServer sets up HTTP server and routes
func (app *Application) initializeServer() {
	app.router = routes.NewRouter(app.config, app.logger, routes.Dependencies{
		DB:        app.database,
		Sessions:  app.sessions,
		Plugins:   app.plugins,
		Navigator: app.navigator,
		Recording: app.recording,
		Tuners:    app.tuners,
		History:   app.history,
		EventBus:  app.eventBus,
	})

	app.server = &http.Server{
		Addr:         app.config.GetServerAddr(),
		Handler:      app.router.SetupRouter(),
		ReadTimeout:  app.config.Server.ReadTimeout,
		WriteTimeout: app.config.Server.WriteTimeout,
		IdleTimeout:  app.config.Server.IdleTimeout,
	}

	app.logger.Info("HTTP server initialized",
		zap.String("address", app.config.GetServerAddr()),
	)
}

// startBackgroundServices starts background services
func (app *Application) startBackgroundServices() {
	go app.eventBus.Start()

	if app.config.History.CleanupInterval > 0 {
		go app.startCleanupService()
	}

	app.logger.Info("Background services started")
}

// startCleanupService removes scan runs older than the retention window
func (app *Application) startCleanupService() {
	ticker := time.NewTicker(app.config.History.CleanupInterval)
	defer ticker.Stop()

	app.logger.Info("Cleanup service started",
		zap.Duration("interval", app.config.History.CleanupInterval),
		zap.Duration("retention", app.config.History.Retention),
	)

	for {
		select {
		case <-app.done:
			return
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
			deleted, err := app.history.Cleanup(ctx, app.config.History.Retention)
			cancel()

			if err != nil {
				utils.LogError(app.logger, "Failed to cleanup scan history", err,
					zap.Duration("retention", app.config.History.Retention),
				)
			} else if deleted > 0 {
				app.logger.Info("Cleaned up scan history", zap.Int64("deleted", deleted))
			}
		}
	}
}

// waitForShutdown waits for shutdown signal and performs graceful shutdown
func (app *Application) waitForShutdown() {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	sig := <-quit
	app.logger.Info("Received shutdown signal", zap.String("signal", sig.String()))

	app.shutdown()
}

// shutdown performs graceful shutdown
func (app *Application) shutdown() {
	serviceLogger := utils.NewServiceLogger(app.logger, app.config.App.Name)
	serviceLogger.LogServiceStop("shutdown signal received")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("HTTP server shutdown error", zap.Error(err))
	} else {
		app.logger.Info("HTTP server stopped")
	}

	// Destroying sessions releases any running scan before the journal goes away
	app.sessions.DestroyAll()
	app.router.Close()
	close(app.done)
	app.eventBus.Stop()

	if app.database != nil {
		if err := app.database.Close(); err != nil {
			utils.LogError(app.logger, "Database close error", err)
		} else {
			app.logger.Info("Database connection closed")
		}
	}

	app.logger.Info("Application shutdown completed")

	if err := utils.CloseLogger(app.logger); err != nil {
		fmt.Printf("Logger close error: %v\n", err)
	}
}

// Start runs the HTTP server until a shutdown signal arrives
func (app *Application) Start() error {
	go func() {
		app.logger.Info("Starting HTTP server",
			zap.String("address", app.server.Addr),
		)

		if err := app.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			app.logger.Fatal("Failed to start HTTP server", zap.Error(err))
		}
	}()

	app.startBackgroundServices()

	app.waitForShutdown()

	return nil
}
