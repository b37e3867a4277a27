package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"forge/internal/platform/config"
)

func TestDefaultsWhenFileMissing(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	cfg, err := config.New(dir)
	if err != nil {
		t.Fatalf("new config: %v", err)
	}
	if cfg.DefaultDurationMin != 25 || cfg.QueueLimit != 5 {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.SnapshotPath != filepath.Join(dir, "snapshot.json") {
		t.Fatalf("unexpected snapshot path %s", cfg.SnapshotPath)
	}
	if cfg.ProviderBinary != "" {
		t.Fatalf("provider binary should default to empty")
	}
}

func TestFileOverridesDefaults(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	body := "session:\n  default_duration_min: 50\n  queue_limit: 3\nprovider:\n  binary: /usr/local/bin/forge-tasks\n"
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := config.New(dir)
	if err != nil {
		t.Fatalf("new config: %v", err)
	}
	if cfg.DefaultDurationMin != 50 || cfg.QueueLimit != 3 {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
	if cfg.RitualSeconds != 6 {
		t.Fatalf("unset field should keep default, got %d", cfg.RitualSeconds)
	}
	if cfg.ProviderBinary != "/usr/local/bin/forge-tasks" {
		t.Fatalf("provider binary not read: %s", cfg.ProviderBinary)
	}
}

func TestMalformedFileFails(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("session: ["), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := config.New(dir); err == nil {
		t.Fatalf("malformed config must fail")
	}
}
