package settings

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/njchilds90/gopoisson/algebra"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, 0, cfg.Threads)
	assert.Equal(t, DefaultParallelThreshold, cfg.ParallelThreshold)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, 8080, cfg.Server.Port)
	require.NoError(t, cfg.Validate())
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name      string
		modify    func(*Config)
		wantError bool
	}{
		{name: "valid default config", modify: func(*Config) {}},
		{name: "negative threads", modify: func(c *Config) { c.Threads = -1 }, wantError: true},
		{name: "zero threshold", modify: func(c *Config) { c.ParallelThreshold = 0 }, wantError: true},
		{name: "unknown log level", modify: func(c *Config) { c.Log.Level = "loud" }, wantError: true},
		{name: "port out of range", modify: func(c *Config) { c.Server.Port = 70000 }, wantError: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(&cfg)
			err := cfg.Validate()
			if tt.wantError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLoad_YAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gopoisson.yaml")
	require.NoError(t, os.WriteFile(path, []byte("threads: 3\nparallel_threshold: 500\nlog:\n  level: debug\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Threads)
	assert.Equal(t, 500, cfg.ParallelThreshold)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_TOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gopoisson.toml")
	require.NoError(t, os.WriteFile(path, []byte("threads = 2\n[server]\nport = 9090\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.Threads)
	assert.Equal(t, 9090, cfg.Server.Port)
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gopoisson.yaml")
	require.NoError(t, os.WriteFile(path, []byte("threads: 3\n"), 0o600))
	t.Setenv("GOPOISSON_THREADS", "5")
	t.Setenv("GOPOISSON_LOG_LEVEL", "WARN")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.Threads)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoad_InvalidRejected(t *testing.T) {
	t.Setenv("GOPOISSON_PORT", "0")
	_, err := Load("")
	assert.Error(t, err)
}

func TestSetNThreads(t *testing.T) {
	t.Cleanup(ResetNThreads)

	require.NoError(t, SetNThreads(3))
	assert.Equal(t, 3, NThreads())

	err := SetNThreads(0)
	assert.True(t, errors.Is(err, algebra.ErrInvalidArgument))
	assert.Equal(t, 3, NThreads())

	ResetNThreads()
	assert.Equal(t, HardwareConcurrency(), NThreads())
}

func TestApply(t *testing.T) {
	t.Cleanup(func() {
		ResetNThreads()
		_ = SetParallelThreshold(DefaultParallelThreshold)
	})

	cfg := Default()
	cfg.Threads = 2
	cfg.ParallelThreshold = 64
	require.NoError(t, Apply(cfg))
	assert.Equal(t, 2, NThreads())
	assert.Equal(t, 64, ParallelThreshold())

	cfg.Threads = 0
	require.NoError(t, Apply(cfg))
	assert.Equal(t, HardwareConcurrency(), NThreads())
}
