package config

import (
	"errors"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	Port     string `env:"PORT" envDefault:"8080"`
	BaseURL  string `env:"APP_BASE_URL" envDefault:"http://localhost:8080"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	Postgres struct {
		URI         string `env:"POSTGRES_URI"`
		AutoMigrate bool   `env:"DB_AUTO_MIGRATE" envDefault:"false"`
	}

	Redis struct {
		Addr string `env:"REDIS_ADDR"`
		URL  string `env:"REDIS_URL"`
	}

	Auth struct {
		Secret       string        `env:"AUTH_SECRET"`
		Issuer       string        `env:"AUTH_ISSUER" envDefault:"specialisci"`
		SessionTTL   time.Duration `env:"SESSION_TTL" envDefault:"720h"`
		CookieSecure bool          `env:"COOKIE_SECURE" envDefault:"false"`
	}

	Google struct {
		ClientID     string `env:"GOOGLE_CLIENT_ID"`
		ClientSecret string `env:"GOOGLE_CLIENT_SECRET"`
	}

	Facebook struct {
		ClientID     string `env:"FACEBOOK_CLIENT_ID"`
		ClientSecret string `env:"FACEBOOK_CLIENT_SECRET"`
	}

	Geocoder struct {
		BaseURL   string        `env:"GEOCODER_BASE_URL" envDefault:"https://nominatim.openstreetmap.org"`
		UserAgent string        `env:"GEOCODER_USER_AGENT" envDefault:"Specialisci/1.0 (admin@specialisci.pl)"`
		Timeout   time.Duration `env:"GEOCODER_TIMEOUT" envDefault:"5s"`
	}

	TracingEnabled     bool          `env:"TRACING_ENABLED" envDefault:"false"`
	CORSAllowedOrigins []string      `env:"CORS_ALLOWED_ORIGINS" envSeparator:","`
	PageCacheTTL       time.Duration `env:"PAGE_CACHE_TTL" envDefault:"60s"`

	FirstAdmin struct {
		Email    string `env:"FIRST_ADMIN_EMAIL"`
		Password string `env:"FIRST_ADMIN_PASSWORD"`
	}
}

// Load reads .env when present, then the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if strings.TrimSpace(c.Postgres.URI) == "" {
		return errors.New("POSTGRES_URI environment variable is not set")
	}
	if len(c.Auth.Secret) < 32 {
		return errors.New("AUTH_SECRET must be at least 32 bytes")
	}
	c.BaseURL = strings.TrimRight(c.BaseURL, "/")
	return nil
}

// RedisTarget returns the configured Redis address or URL, empty when unset.
func (c *Config) RedisTarget() string {
	if c.Redis.Addr != "" {
		return c.Redis.Addr
	}
	return c.Redis.URL
}
