package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "sqlite:///./users.db", cfg.DB.URL)
	assert.Equal(t, "8000", cfg.App.HTTPPort)
	assert.Equal(t, "*", cfg.App.CORSAllowedOrigins)
	assert.Equal(t, 10, cfg.App.ShutdownTimeoutSeconds)
	assert.Equal(t, "debug", cfg.Logger.Level)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://app@db.example.com/users")
	t.Setenv("HTTP_PORT", "9000")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://app.example.com, https://staging.example.com")

	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "postgres://app@db.example.com/users", cfg.DB.URL)
	assert.Equal(t, "9000", cfg.App.HTTPPort)
	assert.Equal(t,
		[]string{"https://app.example.com", "https://staging.example.com"},
		cfg.App.AllowedOrigins(),
	)
}

func TestLoadConfig_ProductionLoggerDefaults(t *testing.T) {
	t.Setenv("APP_ENV", "production")

	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Logger.Level)
	assert.Equal(t, "json", cfg.Logger.Format)
	assert.True(t, cfg.Logger.EnableSampling)
}

func TestValidate(t *testing.T) {
	valid := &Config{
		DB:  DatabaseConfig{URL: "sqlite:///./users.db"},
		App: AppConfig{HTTPPort: "8000", ShutdownTimeoutSeconds: 10},
	}
	require.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{name: "empty database url", mutate: func(c *Config) { c.DB.URL = "" }},
		{name: "non-numeric port", mutate: func(c *Config) { c.App.HTTPPort = "eighty" }},
		{name: "port out of range", mutate: func(c *Config) { c.App.HTTPPort = "70000" }},
		{name: "zero shutdown timeout", mutate: func(c *Config) { c.App.ShutdownTimeoutSeconds = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := *valid
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestAllowedOrigins_SkipsEmptyEntries(t *testing.T) {
	app := AppConfig{CORSAllowedOrigins: "https://a.example.com,, https://b.example.com "}
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, app.AllowedOrigins())
}
