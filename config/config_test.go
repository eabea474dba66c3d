package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "development", cfg.Environment)
	assert.True(t, cfg.Browser.Headless)
	assert.Contains(t, cfg.Browser.UserAgent, "Chrome")

	assert.Equal(t, 2*time.Second, cfg.Fetch.MinInterval)
	assert.Equal(t, 20*time.Second, cfg.Fetch.NavTimeout)
	assert.Equal(t, 3, cfg.Fetch.MaxRetries)

	assert.Equal(t, 4, cfg.Discovery.MaxCompetitors)
	assert.Equal(t, 2, cfg.Discovery.ResolveWorkers)
	assert.Equal(t, 3, cfg.Keywords.ScanPages)

	assert.True(t, cfg.Cache.Enabled)
	assert.Equal(t, 30*time.Minute, cfg.Cache.TTL)
	assert.False(t, cfg.DB.Enabled)
}

func TestDefaultIsValid(t *testing.T) {
	require.NoError(t, validate(Default()))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{name: "zero fetch interval", mutate: func(c *Config) { c.Fetch.MinInterval = 0 }},
		{name: "no retries", mutate: func(c *Config) { c.Fetch.MaxRetries = 0 }},
		{name: "no competitors", mutate: func(c *Config) { c.Discovery.MaxCompetitors = 0 }},
		{name: "no resolve workers", mutate: func(c *Config) { c.Discovery.ResolveWorkers = 0 }},
		{name: "no scan pages", mutate: func(c *Config) { c.Keywords.ScanPages = 0 }},
		{name: "zero cache ttl with cache enabled", mutate: func(c *Config) { c.Cache.TTL = 0 }},
		{name: "negative cache ttl with cache enabled", mutate: func(c *Config) { c.Cache.TTL = -time.Minute }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.Error(t, validate(cfg))
		})
	}
}

func TestValidateZeroCacheTTLAllowedWhenDisabled(t *testing.T) {
	cfg := Default()
	cfg.Cache.Enabled = false
	cfg.Cache.TTL = 0
	assert.NoError(t, validate(cfg))
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("ASINAI_ENVIRONMENT", "production")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "production", cfg.Environment)
}
