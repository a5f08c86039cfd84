package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

const minimalYAML = `
environment: test
backend:
  base_url: http://localhost:8000
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	c, err := Load(writeConfig(t, minimalYAML))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.Dashboard.Poll.LiveInterval != 5*time.Minute {
		t.Fatalf("unexpected live interval %v", c.Dashboard.Poll.LiveInterval)
	}
	if c.Dashboard.Poll.FallbackInterval != 15*time.Minute {
		t.Fatalf("unexpected fallback interval %v", c.Dashboard.Poll.FallbackInterval)
	}
	if c.Dashboard.DefaultModel != "tech" || len(c.Dashboard.Models) != 2 {
		t.Fatalf("unexpected model defaults %+v", c.Dashboard)
	}
	if c.History.Backend != "none" {
		t.Fatalf("unexpected history backend %q", c.History.Backend)
	}
}

func TestLoadMissingBackendURL(t *testing.T) {
	if _, err := Load(writeConfig(t, "environment: test\n")); err == nil {
		t.Fatalf("expected validation error")
	}
}

func TestLoadBadHistoryBackend(t *testing.T) {
	body := minimalYAML + "history:\n  backend: mysql\n"
	if _, err := Load(writeConfig(t, body)); err == nil {
		t.Fatalf("expected validation error")
	}
}

func TestDefaultModelMustBeKnown(t *testing.T) {
	body := minimalYAML + "dashboard:\n  default_model: crypto\n  models: [tech, energy]\n"
	if _, err := Load(writeConfig(t, body)); err == nil {
		t.Fatalf("expected validation error")
	}
}

func TestLoadWithEnvOverrides(t *testing.T) {
	t.Setenv("BACKEND_URL", "http://backend:9000")
	t.Setenv("MODELS", "tech,energy,crypto")
	t.Setenv("DEFAULT_MODEL", "crypto")
	t.Setenv("REDIS_ADDR", "redis:6380")

	c, err := LoadWithEnv(writeConfig(t, minimalYAML))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.Backend.BaseURL != "http://backend:9000" {
		t.Fatalf("env override missed: %q", c.Backend.BaseURL)
	}
	if c.Dashboard.DefaultModel != "crypto" || len(c.Dashboard.Models) != 3 {
		t.Fatalf("model overrides missed: %+v", c.Dashboard)
	}
	if !c.Cache.Redis.Enabled || c.Cache.Redis.Host != "redis" || c.Cache.Redis.Port != 6380 {
		t.Fatalf("redis override missed: %+v", c.Cache.Redis)
	}
}
