// Package config loads the intake tool settings from YAML.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultCertificationEndpoint = "https://findraya--uitpartial.sandbox.my.site.com/services/apexrest/DoulaIntake/v1/"
	DefaultOnboardingEndpoint    = "https://findraya--uitpartial.sandbox.my.site.com/services/apexrest/PatientIntake/v1/"
	DefaultPortalURL             = "https://care.findraya.com/"
)

// Config holds every setting the CLI reads.
type Config struct {
	Certification CertificationConfig `yaml:"certification"`
	Onboarding    OnboardingConfig    `yaml:"onboarding"`
	HTTP          HTTPConfig          `yaml:"http"`
	Logging       LoggingConfig       `yaml:"logging"`
	Uploads       UploadsConfig       `yaml:"uploads"`
}

type CertificationConfig struct {
	Endpoint string `yaml:"endpoint"`
}

type OnboardingConfig struct {
	Endpoint    string        `yaml:"endpoint"`
	PortalURL   string        `yaml:"portal_url"`
	VerifyDelay time.Duration `yaml:"verify_delay"`
}

// HTTPConfig tunes the outbound client. A zero timeout waits indefinitely.
type HTTPConfig struct {
	Timeout time.Duration `yaml:"timeout"`
}

type LoggingConfig struct {
	File  string `yaml:"file"`
	Level string `yaml:"level"`
}

type UploadsConfig struct {
	// EnforceLimits rejects files over the size limit or outside the
	// accepted types before they are encoded.
	EnforceLimits bool `yaml:"enforce_limits"`
}

// Default returns the settings used when no file is given.
func Default() *Config {
	return &Config{
		Certification: CertificationConfig{Endpoint: DefaultCertificationEndpoint},
		Onboarding: OnboardingConfig{
			Endpoint:    DefaultOnboardingEndpoint,
			PortalURL:   DefaultPortalURL,
			VerifyDelay: 2500 * time.Millisecond,
		},
		Logging: LoggingConfig{File: "intake.log", Level: "info"},
		Uploads: UploadsConfig{EnforceLimits: true},
	}
}

// Load reads path over the defaults. An empty path or a missing file
// yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the settings that would otherwise fail later.
func (c *Config) Validate() error {
	if c.Certification.Endpoint == "" {
		return fmt.Errorf("certification.endpoint is required")
	}
	if c.Onboarding.Endpoint == "" {
		return fmt.Errorf("onboarding.endpoint is required")
	}
	if c.HTTP.Timeout < 0 {
		return fmt.Errorf("http.timeout must not be negative")
	}
	if c.Onboarding.VerifyDelay < 0 {
		return fmt.Errorf("onboarding.verify_delay must not be negative")
	}
	switch c.Logging.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown logging.level %q", c.Logging.Level)
	}
	return nil
}

// Save writes the settings as YAML.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}
