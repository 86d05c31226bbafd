package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"cloud.google.com/go/civil"
)

func TestLoadMissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if *cfg != *Default() {
		t.Errorf("cfg = %+v, want defaults", cfg)
	}
}

func TestLoadFileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cadence.yaml")
	data := "db_path: /tmp/family.db\nlog_level: debug\nowner: alice\n"
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("CADENCE_OWNER", "bob")
	t.Setenv("CADENCE_TODAY", "2024-03-15")
	t.Setenv("CADENCE_BACKUP_PASSPHRASE", "hunter2")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.DBPath != "/tmp/family.db" {
		t.Errorf("DBPath = %q, want /tmp/family.db", cfg.DBPath)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want debug", cfg.LogLevel)
	}
	if cfg.LogFormat != "text" {
		t.Errorf("LogFormat = %q, want text", cfg.LogFormat)
	}
	if cfg.Owner != "bob" {
		t.Errorf("Owner = %q, want bob", cfg.Owner)
	}
	if cfg.Today != "2024-03-15" {
		t.Errorf("Today = %q, want 2024-03-15", cfg.Today)
	}
	if cfg.BackupPassphrase != "hunter2" {
		t.Errorf("BackupPassphrase = %q, want hunter2", cfg.BackupPassphrase)
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cadence.yaml")
	if err := os.WriteFile(path, []byte("owner: [unterminated"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected error for invalid YAML")
	}
}

func TestTodayDate(t *testing.T) {
	now := time.Date(2024, 6, 1, 23, 30, 0, 0, time.UTC)

	cfg := Default()
	got, err := cfg.TodayDate(now)
	if err != nil {
		t.Fatalf("TodayDate: %v", err)
	}
	if want := (civil.Date{Year: 2024, Month: time.June, Day: 1}); got != want {
		t.Errorf("TodayDate = %v, want %v", got, want)
	}

	cfg.Today = "2024-02-29"
	got, err = cfg.TodayDate(now)
	if err != nil {
		t.Fatalf("TodayDate: %v", err)
	}
	if want := (civil.Date{Year: 2024, Month: time.February, Day: 29}); got != want {
		t.Errorf("TodayDate = %v, want %v", got, want)
	}

	cfg.Today = "2023-02-29"
	if _, err := cfg.TodayDate(now); err == nil {
		t.Error("expected error for impossible date")
	}
}

func TestLoadDotEnv(t *testing.T) {
	// Register cleanup for both keys, then clear them so the file can set them.
	t.Setenv("CADENCE_OWNER", "")
	t.Setenv("CADENCE_LOG_FORMAT", "text")
	os.Unsetenv("CADENCE_OWNER")

	path := filepath.Join(t.TempDir(), ".env")
	data := "CADENCE_OWNER=carol\nCADENCE_LOG_FORMAT=json\n"
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}

	if err := LoadDotEnv(path); err != nil {
		t.Fatalf("LoadDotEnv: %v", err)
	}
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Owner != "carol" {
		t.Errorf("Owner = %q, want carol", cfg.Owner)
	}
	// Already-set variables win over the file.
	if cfg.LogFormat != "text" {
		t.Errorf("LogFormat = %q, want text", cfg.LogFormat)
	}

	if err := LoadDotEnv(filepath.Join(t.TempDir(), "missing.env")); err != nil {
		t.Errorf("missing file: %v", err)
	}
}
