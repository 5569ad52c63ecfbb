// Package config provides configuration loading using koanf.
// Precedence: environment variables, then compiled defaults.
package config

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"

	"github.com/aelexs/phonekit/internal/domain"
	"github.com/aelexs/phonekit/pkg/phonenumbers"
)

// Config holds all service configuration.
type Config struct {
	// Environment identifier: "local", "dev", "prod"
	Environment string `koanf:"environment"`

	// Logging configuration
	LogLevel  string `koanf:"log_level"`
	LogFormat string `koanf:"log_format"`

	HTTP      HTTPConfig      `koanf:"http"`
	Phone     PhoneConfig     `koanf:"phone"`
	Metadata  MetadataConfig  `koanf:"metadata"`
	RateLimit RateLimitConfig `koanf:"ratelimit"`

	// OpenTelemetry configuration
	OTEL OTELConfig `koanf:"otel"`
}

// HTTPConfig holds the lookup API listener configuration.
type HTTPConfig struct {
	Port           int           `koanf:"port"`
	ReadTimeout    time.Duration `koanf:"read_timeout"`
	WriteTimeout   time.Duration `koanf:"write_timeout"`
	RequestTimeout time.Duration `koanf:"request_timeout"`
}

// PhoneConfig holds request defaults for the phone number engine.
type PhoneConfig struct {
	DefaultRegion string `koanf:"default_region"` // Used when a request names no region
	Leniency      string `koanf:"leniency"`
	MaxTries      int    `koanf:"max_tries"`
}

// MetadataConfig selects the metadata source.
type MetadataConfig struct {
	Dir string `koanf:"dir"` // Empty uses the embedded data set
}

// RateLimitConfig holds the per-client request budget.
type RateLimitConfig struct {
	Requests int           `koanf:"requests"` // Zero disables rate limiting
	Window   time.Duration `koanf:"window"`
}

// OTELConfig holds OpenTelemetry configuration.
type OTELConfig struct {
	Endpoint    string `koanf:"endpoint"` // Empty disables OTLP export
	ServiceName string `koanf:"service_name"`
}

// defaults returns a Config with compiled default values.
func defaults() *Config {
	return &Config{
		Environment: "local",
		LogLevel:    "info",
		LogFormat:   "json",

		HTTP: HTTPConfig{
			Port:           8080,
			ReadTimeout:    domain.HTTPReadTimeout,
			WriteTimeout:   domain.HTTPWriteTimeout,
			RequestTimeout: domain.HTTPRequestTimeout,
		},
		Phone: PhoneConfig{
			DefaultRegion: domain.DefaultRegion,
			Leniency:      domain.DefaultLeniency,
			MaxTries:      domain.MaxFindTries,
		},
		RateLimit: RateLimitConfig{
			Requests: domain.DefaultRateLimitRequests,
			Window:   domain.DefaultRateLimitWindow,
		},
		OTEL: OTELConfig{
			ServiceName: "phoned",
		},
	}
}

// sections are the nested config groups. Only the first underscore after a
// section name separates it from the key, so HTTP_READ_TIMEOUT becomes
// http.read_timeout and LOG_LEVEL stays log_level.
var sections = []string{"http", "phone", "metadata", "ratelimit", "otel"}

func envKey(s string) string {
	key := strings.ToLower(s)
	for _, section := range sections {
		if rest, ok := strings.CutPrefix(key, section+"_"); ok {
			return section + "." + rest
		}
	}
	return key
}

// Load loads configuration following the precedence:
// 1. Environment variables (highest)
// 2. Compiled defaults (lowest)
//
// Invalid or missing required keys cause a startup failure.
func Load(ctx context.Context) (*Config, error) {
	k := koanf.New(".")

	cfg := defaults()

	if err := k.Load(env.Provider("", ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("load env vars: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	cfg.Phone.DefaultRegion = strings.ToUpper(strings.TrimSpace(cfg.Phone.DefaultRegion))

	if err := validate(cfg); err != nil {
		return nil, err
	}
	if err := validateRequired(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// validate checks that configured values are usable.
func validate(cfg *Config) error {
	if cfg.Phone.DefaultRegion != "" && !phonenumbers.Default().IsValidRegion(cfg.Phone.DefaultRegion) {
		return fmt.Errorf("%w: phone.default_region %q is not supported", domain.ErrConfigInvalid, cfg.Phone.DefaultRegion)
	}
	if _, err := phonenumbers.ParseLeniency(cfg.Phone.Leniency); err != nil {
		return fmt.Errorf("%w: phone.leniency: %v", domain.ErrConfigInvalid, err)
	}
	if cfg.Phone.MaxTries < 0 {
		return fmt.Errorf("%w: phone.max_tries must not be negative", domain.ErrConfigInvalid)
	}
	if cfg.HTTP.Port <= 0 || cfg.HTTP.Port > 65535 {
		return fmt.Errorf("%w: http.port %d out of range", domain.ErrConfigInvalid, cfg.HTTP.Port)
	}
	if cfg.RateLimit.Requests > 0 && cfg.RateLimit.Window <= 0 {
		return fmt.Errorf("%w: ratelimit.window must be positive", domain.ErrConfigInvalid)
	}
	return nil
}

// validateRequired checks that required configuration is present.
func validateRequired(cfg *Config) error {
	// In local environment, most fields have sensible defaults
	if cfg.Environment == "local" {
		return nil
	}

	if cfg.Environment == "prod" {
		if cfg.OTEL.Endpoint == "" {
			return fmt.Errorf("%w: otel.endpoint", domain.ErrConfigRequired)
		}
	}

	return nil
}

// IsLocal returns true if running in local development environment.
func (c *Config) IsLocal() bool {
	return c.Environment == "local"
}

// IsProd returns true if running in production environment.
func (c *Config) IsProd() bool {
	return c.Environment == "prod"
}

// Addr returns the HTTP listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.HTTP.Port)
}
