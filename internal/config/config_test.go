package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "intake.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}
	return path
}

func TestLoad_Overrides(t *testing.T) {
	path := writeConfig(t, `
certification:
  endpoint: http://localhost:9000/doula
onboarding:
  portal_url: http://localhost:9000/portal
  verify_delay: 10ms
http:
  timeout: 5s
logging:
  level: debug
uploads:
  enforce_limits: false
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Certification.Endpoint != "http://localhost:9000/doula" {
		t.Errorf("Expected certification endpoint override, got %s", cfg.Certification.Endpoint)
	}
	if cfg.Onboarding.Endpoint != DefaultOnboardingEndpoint {
		t.Errorf("Expected default onboarding endpoint, got %s", cfg.Onboarding.Endpoint)
	}
	if cfg.Onboarding.PortalURL != "http://localhost:9000/portal" {
		t.Errorf("Expected portal override, got %s", cfg.Onboarding.PortalURL)
	}
	if cfg.Onboarding.VerifyDelay != 10*time.Millisecond {
		t.Errorf("Expected verify delay 10ms, got %v", cfg.Onboarding.VerifyDelay)
	}
	if cfg.HTTP.Timeout != 5*time.Second {
		t.Errorf("Expected timeout 5s, got %v", cfg.HTTP.Timeout)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Expected level debug, got %s", cfg.Logging.Level)
	}
	if cfg.Logging.File != "intake.log" {
		t.Errorf("Expected default log file, got %s", cfg.Logging.File)
	}
	if cfg.Uploads.EnforceLimits {
		t.Error("Expected enforce_limits false")
	}
}

func TestLoad_Defaults(t *testing.T) {
	for _, path := range []string{"", "/non/existent/intake.yaml"} {
		cfg, err := Load(path)
		if err != nil {
			t.Fatalf("Load(%q) failed: %v", path, err)
		}
		if cfg.Certification.Endpoint != DefaultCertificationEndpoint {
			t.Errorf("Expected default certification endpoint, got %s", cfg.Certification.Endpoint)
		}
		if cfg.Onboarding.VerifyDelay != 2500*time.Millisecond {
			t.Errorf("Expected verify delay 2.5s, got %v", cfg.Onboarding.VerifyDelay)
		}
		if cfg.HTTP.Timeout != 0 {
			t.Errorf("Expected no timeout, got %v", cfg.HTTP.Timeout)
		}
		if !cfg.Uploads.EnforceLimits {
			t.Error("Expected limits enforced by default")
		}
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"bad yaml", "http:\n  timeout: [oops\n"},
		{"bad duration", "http:\n  timeout: soon\n"},
		{"negative timeout", "http:\n  timeout: -1s\n"},
		{"empty endpoint", "onboarding:\n  endpoint: \"\"\n"},
		{"unknown level", "logging:\n  level: loud\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Load(writeConfig(t, tt.content)); err == nil {
				t.Error("Expected error, got nil")
			}
		})
	}
}

func TestSave_RoundTrip(t *testing.T) {
	cfg := Default()
	cfg.HTTP.Timeout = 30 * time.Second
	cfg.Logging.File = "other.log"

	path := filepath.Join(t.TempDir(), "saved.yaml")
	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if *loaded != *cfg {
		t.Errorf("Expected %+v, got %+v", cfg, loaded)
	}
}
