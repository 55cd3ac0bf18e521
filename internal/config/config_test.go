package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.DBPath != "wishnote.db" {
		t.Errorf("DBPath = %q", cfg.DBPath)
	}
	if cfg.Port != "8080" {
		t.Errorf("Port = %q", cfg.Port)
	}
	if cfg.SendConcurrency != 8 {
		t.Errorf("SendConcurrency = %d", cfg.SendConcurrency)
	}
	if cfg.SendTimeout != 10*time.Second {
		t.Errorf("SendTimeout = %v", cfg.SendTimeout)
	}
	if cfg.DeadlineWindowDays != 3 {
		t.Errorf("DeadlineWindowDays = %d", cfg.DeadlineWindowDays)
	}
	if cfg.TrashRetentionDays != 30 {
		t.Errorf("TrashRetentionDays = %d", cfg.TrashRetentionDays)
	}
	if !cfg.Dedupe {
		t.Error("Dedupe should default to true")
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("WISHNOTE_DB_PATH", "/tmp/test.db")
	t.Setenv("WISHNOTE_SEND_CONCURRENCY", "4")
	t.Setenv("WISHNOTE_SEND_TIMEOUT_SECONDS", "5")
	t.Setenv("WISHNOTE_NOTIFY_DEDUPE", "false")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.DBPath != "/tmp/test.db" {
		t.Errorf("DBPath = %q", cfg.DBPath)
	}
	if cfg.SendConcurrency != 4 {
		t.Errorf("SendConcurrency = %d", cfg.SendConcurrency)
	}
	if cfg.SendTimeout != 5*time.Second {
		t.Errorf("SendTimeout = %v", cfg.SendTimeout)
	}
	if cfg.Dedupe {
		t.Error("Dedupe should be disabled")
	}
}

func TestLoadRejectsMalformedInt(t *testing.T) {
	t.Setenv("WISHNOTE_SEND_CONCURRENCY", "lots")

	if _, err := Load(); err == nil {
		t.Error("expected error for non-numeric concurrency")
	}
}

func TestValidateNotifier(t *testing.T) {
	cfg := &Config{}
	if err := cfg.ValidateNotifier(); err == nil {
		t.Error("expected error without VAPID keys")
	}

	cfg.VAPIDPublicKey = "pub"
	cfg.VAPIDPrivateKey = "priv"
	if err := cfg.ValidateNotifier(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestValidateServer(t *testing.T) {
	cfg := &Config{VAPIDPublicKey: "pub", VAPIDPrivateKey: "priv"}
	if err := cfg.ValidateServer(); err == nil {
		t.Error("expected error without API token")
	}

	cfg.APIToken = "token"
	if err := cfg.ValidateServer(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}
