package config

import (
	"encoding/base32"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds all process-wide settings, read once at startup and treated
// as immutable afterwards. The signing and OTP secrets are shared, read-only
// values; components receive them explicitly instead of reading globals.
type Config struct {
	Port         string `env:"PORT"          envDefault:"8080"`
	DatabasePath string `env:"DATABASE_PATH" envDefault:"gatekeep.db"`

	// JWTSecret signs session tokens. Must survive restarts or every
	// outstanding session is invalidated.
	JWTSecret string        `env:"JWT_SECRET,required"`
	TokenTTL  time.Duration `env:"TOKEN_TTL" envDefault:"2h"`

	// OTPSecret is the base32-encoded shared secret for password reset
	// codes. It is not per-user.
	OTPSecret string `env:"OTP_SECRET,required"`

	BcryptCost int `env:"BCRYPT_COST" envDefault:"10"`

	// ResetConfirmURL is included in reset emails; it points at the
	// frontend page that collects the code and the new password.
	ResetConfirmURL string `env:"RESET_CONFIRM_URL" envDefault:"http://localhost:3001/auth/reset-password-confirmation"`
}

// Load parses configuration from environment variables and validates it.
func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if len(c.JWTSecret) < 32 {
		return fmt.Errorf("JWT_SECRET must be at least 32 characters for HMAC-SHA256 security")
	}
	if c.BcryptCost < 4 || c.BcryptCost > 14 {
		return fmt.Errorf("BCRYPT_COST must be between 4 and 14, got %d", c.BcryptCost)
	}
	if err := validateBase32(c.OTPSecret); err != nil {
		return fmt.Errorf("OTP_SECRET must be base32-encoded: %w", err)
	}
	if c.TokenTTL <= 0 {
		return fmt.Errorf("TOKEN_TTL must be positive, got %s", c.TokenTTL)
	}
	return nil
}

func validateBase32(secret string) error {
	s := strings.ToUpper(strings.TrimSpace(secret))
	if n := len(s) % 8; n != 0 {
		s += strings.Repeat("=", 8-n)
	}
	_, err := base32.StdEncoding.DecodeString(s)
	return err
}
