// Package config loads the hfl configuration from a YAML file and the
// environment.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/Rhymond/go-money"
	"gopkg.in/yaml.v3"
)

// Store drivers.
const (
	DriverJSONL  = "jsonl"
	DriverSQLite = "sqlite"
	DriverMemory = "memory"
)

// Environment variables overriding the configuration file.
const (
	EnvCurrency   = "HFL_CURRENCY"
	EnvDriver     = "HFL_STORE_DRIVER"
	EnvLedgerFile = "HFL_LEDGER_FILE"
	EnvSQLitePath = "HFL_SQLITE_PATH"
	EnvAddr       = "HFL_ADDR"
	EnvLogLevel   = "HFL_LOG_LEVEL"
	EnvModel      = "HFL_MODEL"
)

// Config holds all application configuration.
type Config struct {
	Currency string `yaml:"currency"`
	Store    struct {
		Driver     string `yaml:"driver"`
		Path       string `yaml:"path"`
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"store"`
	Server struct {
		Addr string `yaml:"addr"`
	} `yaml:"server"`
	Log struct {
		Level string `yaml:"level"`
	} `yaml:"log"`
	Agent struct {
		Model string `yaml:"model"`
	} `yaml:"agent"`
}

// Load reads config from a YAML file, then applies environment variable
// overrides and defaults. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if len(data) > 0 {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config %q: %w", path, err)
			}
		}
	}

	// Environment variable overrides
	override(&cfg.Currency, EnvCurrency)
	override(&cfg.Store.Driver, EnvDriver)
	override(&cfg.Store.Path, EnvLedgerFile)
	override(&cfg.Store.SQLitePath, EnvSQLitePath)
	override(&cfg.Server.Addr, EnvAddr)
	override(&cfg.Log.Level, EnvLogLevel)
	override(&cfg.Agent.Model, EnvModel)

	cfg.defaults()
	return cfg, nil
}

// Default returns the configuration used without file nor environment.
func Default() *Config {
	cfg := &Config{}
	cfg.defaults()
	return cfg
}

func (c *Config) defaults() {
	if c.Currency == "" {
		c.Currency = "USD"
	}
	c.Currency = strings.ToUpper(c.Currency)
	if c.Store.Driver == "" {
		c.Store.Driver = DriverJSONL
	}
	if c.Store.Path == "" {
		c.Store.Path = "ledger.jsonl"
	}
	if c.Store.SQLitePath == "" {
		c.Store.SQLitePath = "ledger.db"
	}
	if c.Server.Addr == "" {
		c.Server.Addr = "127.0.0.1:8080"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Agent.Model == "" {
		c.Agent.Model = "gemini-2.5-flash"
	}
}

func override(field *string, env string) {
	if v := os.Getenv(env); v != "" {
		*field = v
	}
}

// Validate checks that the configuration can be used.
func (c *Config) Validate() error {
	switch c.Store.Driver {
	case DriverJSONL, DriverSQLite, DriverMemory:
	default:
		return fmt.Errorf("store.driver must be one of %s, %s or %s, got %q", DriverJSONL, DriverSQLite, DriverMemory, c.Store.Driver)
	}
	if money.GetCurrency(c.Currency) == nil {
		return fmt.Errorf("currency %q is not a known ISO 4217 code", c.Currency)
	}
	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr is required")
	}
	return nil
}
