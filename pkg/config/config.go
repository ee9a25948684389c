package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/compozy/demoutils/engine/core"
	"github.com/spf13/viper"
)

const (
	// DefaultConfigFileName is the file looked up in the working directory
	DefaultConfigFileName = "demoutils"
	defaultConfigType     = "yaml"

	// EnvPrefix prefixes every environment override, e.g. DEMOUTILS_SERVER_PORT
	EnvPrefix = "DEMOUTILS"
)

// Config represents the application configuration
type Config struct {
	Demo   DemoConfig   `mapstructure:"demo"`
	Server ServerConfig `mapstructure:"server"`
	Log    LogConfig    `mapstructure:"log"`
}

// DemoConfig controls the output of the demo command
type DemoConfig struct {
	Name      string `mapstructure:"name"`
	RandomMin int    `mapstructure:"random_min"`
	RandomMax int    `mapstructure:"random_max"`
}

// ServerConfig defines demo server settings
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	PortAttempts    uint          `mapstructure:"port_attempts"`
	RateLimitRPM    int           `mapstructure:"rate_limit_rpm"`
	RateLimitBurst  int           `mapstructure:"rate_limit_burst"`
	TrustProxy      bool          `mapstructure:"trust_proxy"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// LogConfig defines logging preferences
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Demo: DemoConfig{
			Name:      "",
			RandomMin: 1,
			RandomMax: 100,
		},
		Server: ServerConfig{
			Host:            "localhost",
			Port:            8000,
			PortAttempts:    5,
			RateLimitRPM:    600,
			RateLimitBurst:  60,
			TrustProxy:      false,
			ReadTimeout:     10 * time.Second,
			ShutdownTimeout: 5 * time.Second,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "auto",
		},
	}
}

// SetDefaults registers every default value on v so that environment
// variables are picked up for keys absent from the config file
func SetDefaults(v *viper.Viper) {
	d := DefaultConfig()
	v.SetDefault("demo.name", d.Demo.Name)
	v.SetDefault("demo.random_min", d.Demo.RandomMin)
	v.SetDefault("demo.random_max", d.Demo.RandomMax)
	v.SetDefault("server.host", d.Server.Host)
	v.SetDefault("server.port", d.Server.Port)
	v.SetDefault("server.port_attempts", d.Server.PortAttempts)
	v.SetDefault("server.rate_limit_rpm", d.Server.RateLimitRPM)
	v.SetDefault("server.rate_limit_burst", d.Server.RateLimitBurst)
	v.SetDefault("server.trust_proxy", d.Server.TrustProxy)
	v.SetDefault("server.read_timeout", d.Server.ReadTimeout)
	v.SetDefault("server.shutdown_timeout", d.Server.ShutdownTimeout)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
}

// FromViper decodes and validates the configuration held by v
func FromViper(v *viper.Viper) (*Config, error) {
	cfg := DefaultConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Load loads configuration from a file. An empty path looks for
// demoutils.yaml in the working directory; a missing file yields defaults.
func Load(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = filepath.Join(".", DefaultConfigFileName+"."+defaultConfigType)
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}

	v := viper.New()
	SetDefaults(v)
	v.SetConfigFile(configPath)
	v.SetConfigType(defaultConfigType)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return FromViper(v)
}

// Save writes the configuration to a YAML file
func Save(cfg *Config, configPath string) error {
	if configPath == "" {
		configPath = filepath.Join(".", DefaultConfigFileName+"."+defaultConfigType)
	}

	v := viper.New()
	v.SetConfigType(defaultConfigType)
	v.Set("demo.name", cfg.Demo.Name)
	v.Set("demo.random_min", cfg.Demo.RandomMin)
	v.Set("demo.random_max", cfg.Demo.RandomMax)
	v.Set("server.host", cfg.Server.Host)
	v.Set("server.port", cfg.Server.Port)
	v.Set("server.port_attempts", cfg.Server.PortAttempts)
	v.Set("server.rate_limit_rpm", cfg.Server.RateLimitRPM)
	v.Set("server.rate_limit_burst", cfg.Server.RateLimitBurst)
	v.Set("server.trust_proxy", cfg.Server.TrustProxy)
	v.Set("server.read_timeout", cfg.Server.ReadTimeout.String())
	v.Set("server.shutdown_timeout", cfg.Server.ShutdownTimeout.String())
	v.Set("log.level", cfg.Log.Level)
	v.Set("log.format", cfg.Log.Format)

	if err := v.WriteConfigAs(configPath); err != nil {
		return core.NewError(fmt.Errorf("failed to write config file: %w", err), core.ErrorCodeConfigWrite, map[string]any{
			"path": configPath,
		})
	}

	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Demo.RandomMax < c.Demo.RandomMin {
		return &ValidationError{Field: "demo.random_max", Message: "random_max must not be less than random_min"}
	}
	if c.Server.Host == "" {
		return &ValidationError{Field: "server.host", Message: "host cannot be empty"}
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return &ValidationError{Field: "server.port", Message: "port must be between 1 and 65535"}
	}
	if c.Server.PortAttempts == 0 {
		return &ValidationError{Field: "server.port_attempts", Message: "port_attempts must be positive"}
	}
	if c.Server.RateLimitRPM <= 0 {
		return &ValidationError{Field: "server.rate_limit_rpm", Message: "rate_limit_rpm must be positive"}
	}
	if c.Server.RateLimitBurst <= 0 {
		return &ValidationError{Field: "server.rate_limit_burst", Message: "rate_limit_burst must be positive"}
	}
	if c.Server.ReadTimeout <= 0 {
		return &ValidationError{Field: "server.read_timeout", Message: "read_timeout must be positive"}
	}
	if c.Server.ShutdownTimeout <= 0 {
		return &ValidationError{Field: "server.shutdown_timeout", Message: "shutdown_timeout must be positive"}
	}
	return nil
}

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return "config validation error: " + e.Field + " - " + e.Message
}

// Unwrap exposes the error as a CONFIG_INVALID core error
func (e *ValidationError) Unwrap() error {
	return core.NewError(errors.New(e.Message), core.ErrorCodeConfigInvalid, map[string]any{"field": e.Field})
}
