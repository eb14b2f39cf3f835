package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.Server.Port != "3001" {
		t.Errorf("expected default port 3001, got %q", cfg.Server.Port)
	}
	if cfg.DB.Driver != "postgres" {
		t.Errorf("expected default driver postgres, got %q", cfg.DB.Driver)
	}
	if cfg.DB.Timeout != 5*time.Second {
		t.Errorf("expected default store timeout 5s, got %v", cfg.DB.Timeout)
	}
	if !cfg.Files.AttachOwner {
		t.Error("expected owner attachment enabled by default")
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("SQLITE_PATH", "/tmp/test.db")
	t.Setenv("DB_TIMEOUT", "250ms")
	t.Setenv("FILE_ATTACH_OWNER", "false")
	t.Setenv("SESSION_SECRET", "super-secret")

	cfg := Load()

	if cfg.DB.Driver != "sqlite" {
		t.Errorf("expected driver sqlite, got %q", cfg.DB.Driver)
	}
	if cfg.DB.SQLitePath != "/tmp/test.db" {
		t.Errorf("expected sqlite path override, got %q", cfg.DB.SQLitePath)
	}
	if cfg.DB.Timeout != 250*time.Millisecond {
		t.Errorf("expected 250ms timeout, got %v", cfg.DB.Timeout)
	}
	if cfg.Files.AttachOwner {
		t.Error("expected owner attachment disabled")
	}
	if cfg.Session.Secret != "super-secret" {
		t.Errorf("unexpected session secret %q", cfg.Session.Secret)
	}
}

func TestInvalidEnvValuesFallBack(t *testing.T) {
	t.Setenv("DB_TIMEOUT", "not-a-duration")
	t.Setenv("FILE_ATTACH_OWNER", "not-a-bool")

	cfg := Load()

	if cfg.DB.Timeout != 5*time.Second {
		t.Errorf("expected fallback timeout, got %v", cfg.DB.Timeout)
	}
	if !cfg.Files.AttachOwner {
		t.Error("expected fallback owner attachment")
	}
}
