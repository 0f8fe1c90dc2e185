package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

const minimalYAML = `
environment: test
admin:
  password_hash: "8c6976e5b5410415bde908bd4dee15dfb167a9c873fc4bb8a81f6f2ab448a918"
telegram:
  enabled: true
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, minimalYAML))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Port != 5000 {
		t.Fatalf("expected default port, got %d", cfg.Server.Port)
	}
	if cfg.Dispatch.MaxRetries != 3 || cfg.Dispatch.BackoffBase != time.Second {
		t.Fatalf("unexpected dispatch defaults %+v", cfg.Dispatch)
	}
	if cfg.Ledger.Capacity != 2500 {
		t.Fatalf("expected ledger capacity 2500, got %d", cfg.Ledger.Capacity)
	}
	if cfg.EventLog.Sink != "file" {
		t.Fatalf("expected file sink default, got %q", cfg.EventLog.Sink)
	}
	if cfg.EventLog.FilePath != "logs/system_events.log" {
		t.Fatalf("unexpected event log path default %q", cfg.EventLog.FilePath)
	}
}

func TestLoadWithEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9999")
	t.Setenv("TELEGRAM_BOT_TOKEN", "env-token")

	cfg, err := LoadWithEnv(writeConfig(t, minimalYAML))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Port != 9999 {
		t.Fatalf("env port not applied, got %d", cfg.Server.Port)
	}
	if cfg.Telegram.Token != "env-token" {
		t.Fatalf("env token not applied, got %q", cfg.Telegram.Token)
	}
}

func TestValidateRejectsBadHash(t *testing.T) {
	bad := `
environment: test
admin:
  password_hash: "nothex"
`
	if _, err := Load(writeConfig(t, bad)); err == nil {
		t.Fatalf("expected validation error for short hash")
	}
}

func TestValidateRequiresRedisAddr(t *testing.T) {
	bad := minimalYAML + `
eventlog:
  sink: redis
`
	if _, err := Load(writeConfig(t, bad)); err == nil {
		t.Fatalf("expected validation error for missing redis addr")
	}
}
