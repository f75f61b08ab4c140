package embed

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, BackendOllama, cfg.Backend)
	assert.Equal(t, "nomic-embed-text", cfg.Model)
	assert.Equal(t, 30*time.Second, cfg.RequestTimeout)
}

func TestNewConfig_Options(t *testing.T) {
	cfg := NewConfig(
		WithBackend(BackendLocal),
		WithHost("http://localhost:8000/v1"),
		WithModel("all-MiniLM-L6-v2"),
		WithRequestTimeout(2*time.Minute),
	)
	require.NoError(t, cfg.Validate())
	assert.Equal(t, BackendLocal, cfg.Backend)
	assert.Equal(t, "http://localhost:8000/v1", cfg.Host)
	assert.Equal(t, "all-MiniLM-L6-v2", cfg.Model)
	assert.Equal(t, 2*time.Minute, cfg.RequestTimeout)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{
			name:    "unknown backend",
			mutate:  func(c *Config) { c.Backend = "openai" },
			wantErr: ErrUnknownBackend,
		},
		{
			name:    "missing host",
			mutate:  func(c *Config) { c.Host = "" },
			wantErr: ErrHostRequired,
		},
		{
			name:    "missing model",
			mutate:  func(c *Config) { c.Model = "" },
			wantErr: ErrModelRequired,
		},
		{
			name:    "zero timeout",
			mutate:  func(c *Config) { c.RequestTimeout = 0 },
			wantErr: ErrTimeoutRequired,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(cfg)
			assert.ErrorIs(t, cfg.Validate(), tc.wantErr)
		})
	}

	var nilCfg *Config
	assert.ErrorIs(t, nilCfg.Validate(), ErrConfigRequired)
}
