package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/savings-engine/config"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"PORT", "LOG_LEVEL", "LOG_JSON", "ALLOWED_ORIGINS", "OTEL_ENDPOINT", "OTEL_SERVICE_NAME", "DEFAULT_SCENARIO"} {
		t.Setenv(key, "")
	}

	cfg := config.Load()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, ":8080", cfg.Addr())
	assert.Equal(t, "info", cfg.LogLevel)
	assert.False(t, cfg.LogJSON)
	assert.Equal(t, "savings-engine", cfg.OTELServiceName)
	assert.Empty(t, cfg.OTELEndpoint)
	assert.Empty(t, cfg.DefaultScenario)
	assert.NotEmpty(t, cfg.AllowedOrigins)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_JSON", "true")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example, https://b.example ,")
	t.Setenv("OTEL_ENDPOINT", "localhost:4318")
	t.Setenv("DEFAULT_SCENARIO", "lifetime-isa")

	cfg := config.Load()

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.True(t, cfg.LogJSON)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
	assert.Equal(t, "localhost:4318", cfg.OTELEndpoint)
	assert.Equal(t, "lifetime-isa", cfg.DefaultScenario)
	assert.NoError(t, cfg.Validate())
}

func TestValidate_CollectsEveryProblem(t *testing.T) {
	cfg := &config.Config{
		Port:           "99999",
		LogLevel:       "loud",
		AllowedOrigins: []string{"example.com"},
		OTELEndpoint:   "localhost:4318",
	}

	err := cfg.Validate()
	require.Error(t, err)

	msg := err.Error()
	assert.Contains(t, msg, "configuration validation failed")
	assert.Contains(t, msg, "invalid port 99999")
	assert.Contains(t, msg, "invalid log level 'loud'")
	assert.Contains(t, msg, "invalid allowed origin 'example.com'")
	assert.Contains(t, msg, "OTEL service name cannot be empty")
}

func TestValidate_PortMustBeNumeric(t *testing.T) {
	cfg := &config.Config{Port: "http", LogLevel: "info"}

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must be a number")
}
