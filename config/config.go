// Package config aggregates the process configuration: one struct per
// subsystem, all parsed from environment variables in a single pass.
package config

import (
	"errors"

	"github.com/caarlos0/env/v11"

	"github.com/cryptocoin/app/internal/auth"
	"github.com/cryptocoin/app/pkg/db"
	"github.com/cryptocoin/app/pkg/logger"
	"github.com/cryptocoin/app/pkg/mailer/resend"
)

// ErrParse is returned when the environment could not be parsed.
var ErrParse = errors.New("config: failed to parse environment")

// Config is the full process configuration.
type Config struct {
	AppEnv       string `env:"APP_ENV" envDefault:"development"`
	HTTPAddr     string `env:"HTTP_ADDR" envDefault:":8080"`
	RedisURL     string `env:"REDIS_URL"`
	ContactInbox string `env:"CONTACT_INBOX"`

	Auth   auth.Config
	DB     db.Config
	Sentry logger.SentryConfig
	Resend resend.Config
}

// Load parses the configuration from the process environment.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, errors.Join(ErrParse, err)
	}
	return cfg, nil
}

// Production reports whether the process runs in production mode.
// Production tightens the OAuth base URL and cookie Secure checks.
func (c Config) Production() bool {
	return c.AppEnv == "production"
}
