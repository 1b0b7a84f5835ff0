package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	pkgconfig "github.com/AarishAyaz/Wow-Pets-Palace-Marketplace/pkg/config"
	"github.com/AarishAyaz/Wow-Pets-Palace-Marketplace/pkg/validator"
)

// Config holds all configuration for the storefront service.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development" validate:"required"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
	HTTPPort    int    `env:"STOREFRONT_HTTP_PORT" envDefault:"8080" validate:"gte=1,lte=65535"`

	// Upstream catalog
	CatalogURL          string        `env:"CATALOG_URL" envDefault:"https://www.wowpetspalace.com/test/product/getallFeaturedProduct" validate:"required,http_url"`
	ImageBaseURL        string        `env:"CATALOG_IMAGE_BASE_URL" envDefault:"https://www.wowpetspalace.com/test/" validate:"required,http_url"`
	CatalogTimeout      time.Duration `env:"CATALOG_TIMEOUT" envDefault:"10s" validate:"gt=0"`
	CatalogMaxBodyBytes int64         `env:"CATALOG_MAX_BODY_BYTES" envDefault:"8388608" validate:"gt=0"`
	CatalogSlowFetch    time.Duration `env:"CATALOG_SLOW_FETCH_THRESHOLD" envDefault:"2s" validate:"gte=0"`

	// Circuit breaker around the catalog
	BreakerFailureRatio float64       `env:"CATALOG_BREAKER_FAILURE_RATIO" envDefault:"0.6" validate:"gt=0,lte=1"`
	BreakerMinRequests  uint32        `env:"CATALOG_BREAKER_MIN_REQUESTS" envDefault:"5" validate:"gte=1"`
	BreakerOpenTimeout  time.Duration `env:"CATALOG_BREAKER_OPEN_TIMEOUT" envDefault:"30s" validate:"gt=0"`

	// Rate limiting
	RateLimitRPS   int `env:"RATE_LIMIT_RPS" envDefault:"100" validate:"gte=1"`
	RateLimitBurst int `env:"RATE_LIMIT_BURST" envDefault:"200" validate:"gte=1"`

	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envDefault:"*" envSeparator:","`

	// Tracing
	OTELEnabled    bool    `env:"OTEL_ENABLED" envDefault:"false"`
	OTELEndpoint   string  `env:"OTEL_EXPORTER_OTLP_ENDPOINT" envDefault:"localhost:4318" validate:"omitempty,hostname_port"`
	OTELSampleRate float64 `env:"OTEL_SAMPLE_RATE" envDefault:"1.0" validate:"gte=0,lte=1"`

	// Ops endpoints
	PprofAllowedCIDRs   []string `env:"PPROF_ALLOWED_CIDRS" envDefault:"127.0.0.1/32,::1/128" envSeparator:"," validate:"dive,cidr"`
	MetricsAllowedCIDRs []string `env:"METRICS_ALLOWED_CIDRS" envDefault:"127.0.0.1/32,::1/128,10.0.0.0/8,172.16.0.0/12,192.168.0.0/16" envSeparator:"," validate:"dive,cidr"`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := pkgconfig.Load(cfg); err != nil {
		return nil, fmt.Errorf("load storefront config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// CatalogHost returns the host:port of the catalog, for reachability checks.
func (c *Config) CatalogHost() string {
	u, err := url.Parse(c.CatalogURL)
	if err != nil {
		return ""
	}
	if u.Port() != "" {
		return u.Host
	}
	if u.Scheme == "http" {
		return u.Hostname() + ":80"
	}
	return u.Hostname() + ":443"
}

// IsDevelopment reports whether the service runs in the development environment.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// validate checks configuration invariants.
func (c *Config) validate() error {
	if err := validator.Validate(c); err != nil {
		return fmt.Errorf("invalid storefront config: %w", err)
	}
	if !c.IsDevelopment() {
		for _, o := range c.CORSAllowedOrigins {
			if strings.TrimSpace(o) == "*" {
				return fmt.Errorf("CORS_ALLOWED_ORIGINS must not contain '*' in %s environment", c.Environment)
			}
		}
	}
	if c.OTELEnabled && c.OTELEndpoint == "" {
		return fmt.Errorf("OTEL_EXPORTER_OTLP_ENDPOINT is required when OTEL_ENABLED is set")
	}
	if c.RateLimitBurst < c.RateLimitRPS {
		return fmt.Errorf("RATE_LIMIT_BURST (%d) must be at least RATE_LIMIT_RPS (%d)", c.RateLimitBurst, c.RateLimitRPS)
	}
	return nil
}
