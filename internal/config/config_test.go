package config

import (
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.TimeoutSeconds != 15 {
		t.Errorf("expected default timeout_seconds 15, got %d", cfg.TimeoutSeconds)
	}
}

func TestSaveAndLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.sakura-comments.yml")

	original := DefaultConfig()
	original.APIURL = "https://blog.example.com/api"
	original.TurnstileSiteKey = "0xKEY"
	original.DefaultSlug = "hello-world"
	original.TimeoutSeconds = 30

	if err := original.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if loaded.APIURL != original.APIURL {
		t.Errorf("api_url: got %q, want %q", loaded.APIURL, original.APIURL)
	}
	if loaded.TurnstileSiteKey != original.TurnstileSiteKey {
		t.Errorf("turnstile_site_key: got %q", loaded.TurnstileSiteKey)
	}
	if loaded.DefaultSlug != original.DefaultSlug {
		t.Errorf("default_slug: got %q", loaded.DefaultSlug)
	}
	if loaded.TimeoutSeconds != 30 {
		t.Errorf("timeout_seconds: got %d", loaded.TimeoutSeconds)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.TimeoutSeconds != 15 {
		t.Errorf("expected defaults for a missing file, got %+v", cfg)
	}
}

func TestEnvOverride(t *testing.T) {
	t.Setenv("SAKURA_API_URL", "https://env.example.com/api")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.APIURL != "https://env.example.com/api" {
		t.Errorf("env override ignored, got %q", cfg.APIURL)
	}
}

func TestValidate(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for missing api_url")
	}

	cfg.APIURL = "not a url"
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for malformed api_url")
	}

	cfg.APIURL = "https://blog.example.com/api"
	if err := cfg.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	cfg.TimeoutSeconds = 0
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for zero timeout")
	}
}
