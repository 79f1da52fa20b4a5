package settings

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config is the file and environment representation of the settings.
//
// Thread Safety: safe to read concurrently. Not safe to modify after Apply.
type Config struct {
	// Threads is the worker count for bulk buffer work. 0 selects the
	// hardware concurrency.
	Threads int `json:"threads" yaml:"threads" toml:"threads" validate:"gte=0,lte=4096"`

	// ParallelThreshold is the batch size from which work is split.
	ParallelThreshold int `json:"parallel_threshold" yaml:"parallel_threshold" toml:"parallel_threshold" validate:"gte=1"`

	Log    LogConfig    `json:"log" yaml:"log" toml:"log"`
	Server ServerConfig `json:"server" yaml:"server" toml:"server"`
}

// LogConfig selects the process logger.
type LogConfig struct {
	Level string `json:"level" yaml:"level" toml:"level" validate:"oneof=debug info warn error"`
	JSON  bool   `json:"json" yaml:"json" toml:"json"`
}

// ServerConfig configures cmd/mcp-server.
type ServerConfig struct {
	Port  int  `json:"port" yaml:"port" toml:"port" validate:"gte=1,lte=65535"`
	Debug bool `json:"debug" yaml:"debug" toml:"debug"`
}

var validate = validator.New()

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Threads:           0,
		ParallelThreshold: DefaultParallelThreshold,
		Log:               LogConfig{Level: "info"},
		Server:            ServerConfig{Port: 8080},
	}
}

// Load reads configuration with priority: env > file > defaults.
//
// A path ending in .toml is decoded as TOML; anything else is tried as YAML
// and then as JSON. An empty path or a missing file leaves the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		if err := loadFile(path, &cfg); err != nil {
			return cfg, fmt.Errorf("load config file: %w", err)
		}
	}
	loadEnv(&cfg)
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		_, err := toml.Decode(string(data), cfg)
		return err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		if jsonErr := json.Unmarshal(data, cfg); jsonErr != nil {
			return fmt.Errorf("parse config (tried YAML and JSON): YAML error: %v, JSON error: %w", err, jsonErr)
		}
	}
	return nil
}

func loadEnv(cfg *Config) {
	if v := os.Getenv("GOPOISSON_THREADS"); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			cfg.Threads = i
		}
	}
	if v := os.Getenv("GOPOISSON_PARALLEL_THRESHOLD"); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			cfg.ParallelThreshold = i
		}
	}
	if v := os.Getenv("GOPOISSON_LOG_LEVEL"); v != "" {
		cfg.Log.Level = strings.ToLower(v)
	}
	if v := os.Getenv("GOPOISSON_LOG_JSON"); v != "" {
		cfg.Log.JSON = v == "true" || v == "1"
	}
	if v := os.Getenv("GOPOISSON_PORT"); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = i
		}
	}
}

// Validate checks the struct constraints of the configuration.
func (c Config) Validate() error {
	return validate.Struct(c)
}
