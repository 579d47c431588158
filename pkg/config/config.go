package config

import (
	"fmt"
	"strings"

	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

const (
	DefaultProductionAPIBaseURL  = "https://backend-nodejs-jobportal-production.up.railway.app/api"
	DefaultDevelopmentAPIBaseURL = "http://localhost:3000/api"

	DefaultProductionRealtimeURL  = "wss://backend-nodejs-jobportal-production.up.railway.app"
	DefaultDevelopmentRealtimeURL = "ws://localhost:3000"
)

type Config struct {
	// APIBaseURL and RealtimeURL are explicit overrides; when empty the
	// defaults are selected by deployment host and mode.
	APIBaseURL  string `koanf:"api_base_url"`
	RealtimeURL string `koanf:"realtime_url"`

	// Mode distinguishes development from production builds.
	Mode string `koanf:"mode"`

	// DeploymentHost is the serving origin detected at runtime, if any.
	DeploymentHost string `koanf:"deployment_host"`
}

const envPrefix = "JOBPORTAL_"

// Load reads configuration from JOBPORTAL_* environment variables on top of
// defaults.
func Load() (Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(Config{Mode: "development"}, "koanf"), nil); err != nil {
		return Config{}, fmt.Errorf("load defaults: %w", err)
	}
	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, envPrefix))
	}), nil); err != nil {
		return Config{}, fmt.Errorf("load env: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return cfg, nil
}

func (c Config) Production() bool {
	return strings.EqualFold(c.Mode, "production")
}

func (c Config) ResolveAPIBaseURL() string {
	if c.APIBaseURL != "" {
		return c.APIBaseURL
	}
	if c.Production() {
		return DefaultProductionAPIBaseURL
	}
	return DefaultDevelopmentAPIBaseURL
}

// ResolveRealtimeURL selects the push-event endpoint: explicit override,
// then a non-local deployment host, then the production default, then the
// local development default. The serving origin can change between build
// and runtime, so the chain is evaluated on every connect rather than once
// at startup.
func (c Config) ResolveRealtimeURL() string {
	if c.RealtimeURL != "" {
		return c.RealtimeURL
	}
	if c.DeploymentHost != "" && !isLocalHost(c.DeploymentHost) {
		return "wss://" + c.DeploymentHost
	}
	if c.Production() {
		return DefaultProductionRealtimeURL
	}
	return DefaultDevelopmentRealtimeURL
}

func isLocalHost(host string) bool {
	h := strings.ToLower(host)
	if i := strings.IndexByte(h, ':'); i >= 0 {
		h = h[:i]
	}
	switch h {
	case "localhost", "127.0.0.1", "0.0.0.0", "::1", "":
		return true
	}
	return false
}
