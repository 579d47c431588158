package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("JOBPORTAL_API_BASE_URL", "http://api.test/api")
	t.Setenv("JOBPORTAL_MODE", "production")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "http://api.test/api", cfg.APIBaseURL)
	assert.True(t, cfg.Production())
}

func TestResolveRealtimeURLChain(t *testing.T) {
	// explicit override wins over everything
	cfg := Config{RealtimeURL: "ws://override", DeploymentHost: "app.example.com", Mode: "production"}
	assert.Equal(t, "ws://override", cfg.ResolveRealtimeURL())

	// non-local deployment host beats the mode flag
	cfg = Config{DeploymentHost: "app.example.com", Mode: "development"}
	assert.Equal(t, "wss://app.example.com", cfg.ResolveRealtimeURL())

	// local deployment host is ignored
	cfg = Config{DeploymentHost: "localhost:5173", Mode: "production"}
	assert.Equal(t, DefaultProductionRealtimeURL, cfg.ResolveRealtimeURL())

	cfg = Config{Mode: "development"}
	assert.Equal(t, DefaultDevelopmentRealtimeURL, cfg.ResolveRealtimeURL())
}

func TestResolveAPIBaseURL(t *testing.T) {
	assert.Equal(t, "http://x/api", Config{APIBaseURL: "http://x/api"}.ResolveAPIBaseURL())
	assert.Equal(t, DefaultProductionAPIBaseURL, Config{Mode: "Production"}.ResolveAPIBaseURL())
	assert.Equal(t, DefaultDevelopmentAPIBaseURL, Config{}.ResolveAPIBaseURL())
}
