// internal/config/config.go
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"cablescan-service/internal/model"
)

// Config represents the application configuration
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	Store    StoreConfig    `mapstructure:"store"`
	Engine   EngineConfig   `mapstructure:"engine"`
	Tuners   TunersConfig   `mapstructure:"tuners"`
	Host     HostConfig     `mapstructure:"host"`
	History  HistoryConfig  `mapstructure:"history"`
	App      AppConfig      `mapstructure:"app"`
}

// ServerConfig represents HTTP server configuration
type ServerConfig struct {
	Host           string        `mapstructure:"host"`
	Port           string        `mapstructure:"port"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout"`
	IdleTimeout    time.Duration `mapstructure:"idle_timeout"`
	AllowedOrigins []string      `mapstructure:"allowed_origins"`
}

// DatabaseConfig represents database configuration
type DatabaseConfig struct {
	Enabled      bool          `mapstructure:"enabled"`
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	User         string        `mapstructure:"user"`
	Password     string        `mapstructure:"password"`
	DBName       string        `mapstructure:"dbname"`
	SSLMode      string        `mapstructure:"sslmode"`
	MaxOpenConns int           `mapstructure:"max_open_conns"`
	MaxIdleConns int           `mapstructure:"max_idle_conns"`
	MaxLifetime  time.Duration `mapstructure:"max_lifetime"`
	AutoMigrate  bool          `mapstructure:"auto_migrate"`
}

// LoggingConfig represents logging configuration
type LoggingConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	Output     string `mapstructure:"output"`
	MaxSize    int    `mapstructure:"max_size"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAge     int    `mapstructure:"max_age"`
	Compress   bool   `mapstructure:"compress"`
}

// StoreConfig selects where the scan form defaults are persisted
type StoreConfig struct {
	Backend string `mapstructure:"backend"` // memory, yaml, postgres
	Path    string `mapstructure:"path"`
}

// EngineConfig selects and configures the scan engine adapter
type EngineConfig struct {
	Driver    string                `mapstructure:"driver"` // simulated, tcp, serial
	Simulated SimulatedEngineConfig `mapstructure:"simulated"`
	TCP       TCPEngineConfig       `mapstructure:"tcp"`
	Serial    SerialEngineConfig    `mapstructure:"serial"`
}

// SimulatedEngineConfig drives the development engine
type SimulatedEngineConfig struct {
	StepInterval time.Duration `mapstructure:"step_interval"`
	Steps        int           `mapstructure:"steps"`
	Channels     int           `mapstructure:"channels"`
	Fail         bool          `mapstructure:"fail"`
}

// TCPEngineConfig points at a scan daemon control socket
type TCPEngineConfig struct {
	Address        string        `mapstructure:"address"`
	ConnectTimeout time.Duration `mapstructure:"connect_timeout"`
}

// SerialEngineConfig points at a scan controller on a serial line
type SerialEngineConfig struct {
	Port     string `mapstructure:"port"` // device path or "auto"
	BaudRate int    `mapstructure:"baud_rate"`
	DataBits int    `mapstructure:"data_bits"`
	StopBits int    `mapstructure:"stop_bits"`
	Parity   string `mapstructure:"parity"`
}

// TunersConfig lists the tuner slots of the box
type TunersConfig struct {
	Slots        []model.Tuner `mapstructure:"slots"`
	USBDiscovery bool          `mapstructure:"usb_discovery"`
	USBTimeout   time.Duration `mapstructure:"usb_timeout"`
}

// HostConfig seeds the host bridge state
type HostConfig struct {
	InitialService string `mapstructure:"initial_service"`
	Recording      bool   `mapstructure:"recording"`
}

// HistoryConfig controls scan run retention
type HistoryConfig struct {
	Retention       time.Duration `mapstructure:"retention"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval"`
}

// AppConfig represents application metadata
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
	Debug       bool   `mapstructure:"debug"`
}

// Load loads configuration from file and environment variables.
// A missing config file is not an error; defaults apply.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/cablescan")

	return load(v)
}

// LoadFile loads configuration from an explicit file
func LoadFile(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	return load(v)
}

func load(v *viper.Viper) (*Config, error) {
	// Environment variable support
	v.SetEnvPrefix("CABLESCAN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", "8086")
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.idle_timeout", "120s")

	// Database defaults
	v.SetDefault("database.enabled", false)
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "postgres")
	v.SetDefault("database.dbname", "cablescan")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_open_conns", 5)
	v.SetDefault("database.max_idle_conns", 2)
	v.SetDefault("database.max_lifetime", "5m")
	v.SetDefault("database.auto_migrate", true)

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.output", "stdout")
	v.SetDefault("logging.max_size", 10)
	v.SetDefault("logging.max_backups", 3)
	v.SetDefault("logging.max_age", 28)
	v.SetDefault("logging.compress", true)

	// Store defaults
	v.SetDefault("store.backend", "yaml")
	v.SetDefault("store.path", "./data/cablescan.yaml")

	// Engine defaults
	v.SetDefault("engine.driver", "simulated")
	v.SetDefault("engine.simulated.step_interval", "200ms")
	v.SetDefault("engine.simulated.steps", 20)
	v.SetDefault("engine.simulated.channels", 42)
	v.SetDefault("engine.simulated.fail", false)
	v.SetDefault("engine.tcp.address", "127.0.0.1:7070")
	v.SetDefault("engine.tcp.connect_timeout", "5s")
	v.SetDefault("engine.serial.port", "/dev/ttyUSB0")
	v.SetDefault("engine.serial.baud_rate", 115200)
	v.SetDefault("engine.serial.data_bits", 8)
	v.SetDefault("engine.serial.stop_bits", 1)
	v.SetDefault("engine.serial.parity", "none")

	// Tuner defaults
	v.SetDefault("tuners.usb_discovery", false)
	v.SetDefault("tuners.usb_timeout", "5s")

	// Host defaults
	v.SetDefault("host.initial_service", "")
	v.SetDefault("host.recording", false)

	// History defaults
	v.SetDefault("history.retention", "720h")
	v.SetDefault("history.cleanup_interval", "1h")

	// App defaults
	v.SetDefault("app.name", "cablescan-service")
	v.SetDefault("app.version", "1.0.0")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.debug", false)
}

// validate validates the configuration
func validate(config *Config) error {
	if config.Server.Port == "" {
		return fmt.Errorf("server.port is required")
	}
	if config.Database.Enabled && config.Database.Host == "" {
		return fmt.Errorf("database.host is required when the database is enabled")
	}

	switch config.Store.Backend {
	case "memory":
	case "yaml":
		if config.Store.Path == "" {
			return fmt.Errorf("store.path is required for the yaml backend")
		}
	case "postgres":
		if !config.Database.Enabled {
			return fmt.Errorf("store.backend postgres requires database.enabled")
		}
	default:
		return fmt.Errorf("store.backend must be one of: memory, yaml, postgres")
	}

	switch config.Engine.Driver {
	case "simulated":
		if config.Engine.Simulated.Steps <= 0 {
			return fmt.Errorf("engine.simulated.steps must be positive")
		}
	case "tcp":
		if config.Engine.TCP.Address == "" {
			return fmt.Errorf("engine.tcp.address is required")
		}
	case "serial":
		if config.Engine.Serial.Port == "" {
			return fmt.Errorf("engine.serial.port is required")
		}
	default:
		return fmt.Errorf("engine.driver must be one of: simulated, tcp, serial")
	}

	if config.History.CleanupInterval > 0 && config.History.Retention <= 0 {
		return fmt.Errorf("history.retention must be positive when cleanup is enabled")
	}

	for _, slot := range config.Tuners.Slots {
		if slot.Slot < 0 {
			return fmt.Errorf("tuners.slots: negative slot %d", slot.Slot)
		}
	}

	// Validate environment
	validEnvs := []string{"development", "staging", "production", "test"}
	isValidEnv := false
	for _, env := range validEnvs {
		if config.App.Environment == env {
			isValidEnv = true
			break
		}
	}
	if !isValidEnv {
		return fmt.Errorf("app.environment must be one of: %v", validEnvs)
	}

	// Validate logging level
	validLevels := []string{"debug", "info", "warn", "error", "fatal"}
	isValidLevel := false
	for _, level := range validLevels {
		if config.Logging.Level == level {
			isValidLevel = true
			break
		}
	}
	if !isValidLevel {
		return fmt.Errorf("logging.level must be one of: %v", validLevels)
	}

	return nil
}

// GetDatabaseDSN returns the database connection string
func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host, c.Database.Port, c.Database.User,
		c.Database.Password, c.Database.DBName, c.Database.SSLMode)
}

// GetServerAddr returns the server address
func (c *Config) GetServerAddr() string {
	return fmt.Sprintf("%s:%s", c.Server.Host, c.Server.Port)
}

// IsProduction checks if the environment is production
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}
