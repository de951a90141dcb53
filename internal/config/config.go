package config

import (
	"fmt"
	"log"
	"net/url"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// this is a pointer so that if someone attempts to use it before loading it will
// panic and force them to load it first.
// it is also private so that it cannot be modified after loading.
var _loaded *Config

// Config is the main configuration structure
type Config struct {
	Common Common `yaml:"common"`
}

// Load loads the configuration following proper precedence: defaults → config file → environment variables
func Load() {
	// Start with defaults
	_loaded = &defaultConfig

	// Try to load from config file and merge over defaults
	configFile := os.Getenv("TABLETALK_CONFIG_FILE")
	if configFile == "" {
		configFile = "tabletalk.yaml"
	}

	if err := LoadFromFile(configFile); err != nil {
		log.Printf("Failed to load config file: %v, using defaults", err)
	}

	// Apply environment variable overrides (highest priority)
	ApplyEnvOverrides()
}

func LoadDefault() {
	config := defaultConfig
	_loaded = &config
}

// LoadFromFile loads configuration from a YAML file
func LoadFromFile(filename string) error {
	data, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	// Start with defaults
	cfg := defaultConfig

	// Merge YAML values over defaults
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	_loaded = &cfg
	return nil
}

// set sane defaults for all of the config options. when loading the config from
// the file, any options that are not set will be set to these defaults.
var defaultConfig = Config{
	Common: Common{
		Log: logConfig{
			Level:  "info",
			Format: "console",
		},
		Http: httpConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		Database: databaseConfig{
			Driver: "sqlite",
			Sqlite: sqliteConfig{
				Path: "tabletalk.db",
			},
			Postgres: postgresConfig{
				User:     "postgres",
				Password: "postgres",
				Host:     "localhost",
				Port:     5432,
				Database: "tabletalk",
			},
		},
		LLM: llmConfig{
			BaseURL:        "http://localhost:11434",
			Model:          "llama3.2",
			TimeoutSeconds: 120,
		},
		Chat: chatConfig{
			Mode:         "command",
			HistoryLimit: 20,
		},
	},
}

type Common struct {
	Log      logConfig      `yaml:"log"`
	Http     httpConfig     `yaml:"http"`
	Database databaseConfig `yaml:"database"`
	LLM      llmConfig      `yaml:"llm"`
	Chat     chatConfig     `yaml:"chat"`
}

type logConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type httpConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type sqliteConfig struct {
	Path string `yaml:"path"`
}

type postgresConfig struct {
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Database string `yaml:"database"`
}

func (c postgresConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=disable",
		url.QueryEscape(c.User),
		url.QueryEscape(c.Password),
		c.Host,
		c.Port,
		url.QueryEscape(c.Database),
	)
}

type databaseConfig struct {
	Driver   string         `yaml:"driver"` // "sqlite" or "postgres"
	Sqlite   sqliteConfig   `yaml:"sqlite"`
	Postgres postgresConfig `yaml:"postgres"`
}

type llmConfig struct {
	BaseURL        string `yaml:"base_url"`        // Inference server base URL (Ollama-compatible)
	Model          string `yaml:"model"`           // Model name passed on every chat request
	TimeoutSeconds int    `yaml:"timeout_seconds"` // HTTP client timeout for a single completion
}

type chatConfig struct {
	Mode         string `yaml:"mode"`          // "command" or "sql"
	HistoryLimit int    `yaml:"history_limit"` // Max messages kept in the rolling history
}

// there should be a getter for each top level field in the config struct.
// these getters will panic if the config has not been loaded.

func Logger() logConfig {
	if _loaded == nil {
		panic("config not loaded - call Load() first")
	}
	return _loaded.Common.Log
}

func Http() httpConfig {
	if _loaded == nil {
		panic("config not loaded - call Load() first")
	}
	return _loaded.Common.Http
}

func Database() databaseConfig {
	if _loaded == nil {
		panic("config not loaded - call Load() first")
	}
	return _loaded.Common.Database
}

func LLM() llmConfig {
	if _loaded == nil {
		panic("config not loaded - call Load() first")
	}
	return _loaded.Common.LLM
}

func Chat() chatConfig {
	if _loaded == nil {
		panic("config not loaded - call Load() first")
	}
	return _loaded.Common.Chat
}

// Get returns the full configuration
func Get() *Config {
	if _loaded == nil {
		panic("config not loaded - call Load() first")
	}
	return _loaded
}

func ApplyEnvOverrides() {
	if _loaded == nil {
		return
	}

	// Override with environment variables if present
	if driver := os.Getenv("TABLETALK_DB_DRIVER"); driver != "" {
		_loaded.Common.Database.Driver = driver
	}
	if path := os.Getenv("TABLETALK_SQLITE_PATH"); path != "" {
		_loaded.Common.Database.Sqlite.Path = path
	}
	if dbHost := os.Getenv("TABLETALK_DB_HOST"); dbHost != "" {
		_loaded.Common.Database.Postgres.Host = dbHost
	}
	if dbPort := os.Getenv("TABLETALK_DB_PORT"); dbPort != "" {
		if port, err := strconv.Atoi(dbPort); err == nil {
			_loaded.Common.Database.Postgres.Port = port
		}
	}
	if dbUser := os.Getenv("TABLETALK_DB_USER"); dbUser != "" {
		_loaded.Common.Database.Postgres.User = dbUser
	}
	if dbPassword := os.Getenv("TABLETALK_DB_PASSWORD"); dbPassword != "" {
		_loaded.Common.Database.Postgres.Password = dbPassword
	}
	if dbName := os.Getenv("TABLETALK_DB_NAME"); dbName != "" {
		_loaded.Common.Database.Postgres.Database = dbName
	}

	if httpHost := os.Getenv("TABLETALK_HTTP_HOST"); httpHost != "" {
		_loaded.Common.Http.Host = httpHost
	}
	if httpPort := os.Getenv("TABLETALK_HTTP_PORT"); httpPort != "" {
		if port, err := strconv.Atoi(httpPort); err == nil {
			_loaded.Common.Http.Port = port
		}
	}

	// LLM configuration from environment variables
	if baseURL := os.Getenv("TABLETALK_LLM_BASE_URL"); baseURL != "" {
		_loaded.Common.LLM.BaseURL = baseURL
	}
	if model := os.Getenv("TABLETALK_LLM_MODEL"); model != "" {
		_loaded.Common.LLM.Model = model
	}
	if timeout := os.Getenv("TABLETALK_LLM_TIMEOUT"); timeout != "" {
		if seconds, err := strconv.Atoi(timeout); err == nil {
			_loaded.Common.LLM.TimeoutSeconds = seconds
		}
	}

	if mode := os.Getenv("TABLETALK_CHAT_MODE"); mode != "" {
		_loaded.Common.Chat.Mode = mode
	}
}
