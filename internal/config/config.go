package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	HTTPAddr  string `env:"HTTP_ADDR" envDefault:":4100"`
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`

	StoreDriver   string `env:"STORE_DRIVER" envDefault:"sqlite"`
	SQLitePath    string `env:"SQLITE_PATH" envDefault:"./data/wordme.db"`
	MongoURI      string `env:"WORDME_MONGO_URI" envDefault:"mongodb://localhost:27017"`
	MongoDatabase string `env:"MONGO_DATABASE" envDefault:"wordme"`

	AuthMode       string `env:"AUTH_MODE" envDefault:"introspect"`
	AuthServiceURL string `env:"AUTH_SERVICE_URL" envDefault:"http://backend:4000"`
	JWTSecret      string `env:"JWT_SECRET"`
	AdminTokenHash string `env:"ADMIN_TOKEN_HASH"`
	AuthCookie     string `env:"AUTH_COOKIE" envDefault:""`

	CORSOrigins []string `env:"CORS_ORIGIN" envSeparator:"," envDefault:"*"`

	SessionIdleTTL      time.Duration `env:"SESSION_IDLE_TTL" envDefault:"2h"`
	SessionReapInterval time.Duration `env:"SESSION_REAP_INTERVAL" envDefault:"5m"`

	RateLimitRPS   float64 `env:"RATE_LIMIT_RPS" envDefault:"5"`
	RateLimitBurst int     `env:"RATE_LIMIT_BURST" envDefault:"20"`

	WordsSeedFile string `env:"WORDS_SEED_FILE"`
	SeedOnStart   bool   `env:"SEED_ON_START" envDefault:"false"`
}

func Load() (*Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	c.StoreDriver = strings.ToLower(c.StoreDriver)
	c.AuthMode = strings.ToLower(c.AuthMode)

	switch c.StoreDriver {
	case "sqlite", "mongo":
	default:
		return fmt.Errorf("STORE_DRIVER must be sqlite or mongo, got %q", c.StoreDriver)
	}

	switch c.AuthMode {
	case "introspect":
		if c.AuthServiceURL == "" {
			return fmt.Errorf("AUTH_SERVICE_URL is required when AUTH_MODE=introspect")
		}
	case "jwt":
		if c.JWTSecret == "" {
			return fmt.Errorf("JWT_SECRET is required when AUTH_MODE=jwt")
		}
	case "static":
		if c.AdminTokenHash == "" {
			return fmt.Errorf("ADMIN_TOKEN_HASH is required when AUTH_MODE=static")
		}
	default:
		return fmt.Errorf("AUTH_MODE must be introspect, jwt or static, got %q", c.AuthMode)
	}

	if c.RateLimitRPS < 0 || c.RateLimitBurst < 0 {
		return fmt.Errorf("RATE_LIMIT_RPS and RATE_LIMIT_BURST must not be negative")
	}
	return nil
}
