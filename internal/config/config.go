package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	StoreDriverPostgres = "postgres"
	StoreDriverMemory   = "memory"
)

type Config struct {
	App struct {
		Name        string `envconfig:"APP_NAME" default:"Tally"`
		Port        int    `envconfig:"PORT" default:"8080"`
		StoreDriver string `envconfig:"STORE_DRIVER" default:"postgres"`
	}

	DB struct {
		Host     string `envconfig:"DB_HOST" default:"localhost"`
		Port     int    `envconfig:"DB_PORT" default:"5432"`
		User     string `envconfig:"DB_USER" default:"postgres"`
		Password string `envconfig:"DB_PASSWORD" default:""`
		Name     string `envconfig:"DB_NAME" default:"tally"`
		Migrate  bool   `envconfig:"DB_MIGRATE" default:"true"`
	}

	Server struct {
		Timeout time.Duration `envconfig:"SERVER_TIMEOUT" default:"30s"`
	}

	Log LogConfig

	Auth struct {
		Secret    string        `envconfig:"JWT_SECRET"`
		Issuer    string        `envconfig:"JWT_ISSUER" default:"tally"`
		AccessTTL time.Duration `envconfig:"JWT_ACCESS_TTL" default:"24h"`
	}

	Billing struct {
		// SenderName is printed as the invoice sender on generated invoices.
		// Empty means the generating user's identity is used.
		SenderName       string `envconfig:"BILLING_SENDER_NAME"`
		PaymentTermDays  int    `envconfig:"BILLING_PAYMENT_TERM_DAYS" default:"14"`
		FoldIdentityCase bool   `envconfig:"IDENTITY_FOLD_CASE" default:"false"`
	}

	CORS struct {
		AllowedOrigins []string `envconfig:"CORS_ALLOWED_ORIGINS" default:"*"`
	}

	Push struct {
		Buffer       int           `envconfig:"PUSH_BUFFER" default:"16"`
		WriteTimeout time.Duration `envconfig:"PUSH_WRITE_TIMEOUT" default:"5s"`
	}

	TUI struct {
		Identity string `envconfig:"TUI_IDENTITY"`
	}
}

type LogConfig struct {
	Level  string `envconfig:"LOG_LEVEL" default:"info"`
	Format string `envconfig:"LOG_FORMAT" default:"text"`
}

func (c *Config) ConnectionString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.DB.User, c.DB.Password, c.DB.Host, c.DB.Port, c.DB.Name)
}

// PaymentTerm is the gap between issue and due date on generated invoices.
func (c *Config) PaymentTerm() time.Duration {
	return time.Duration(c.Billing.PaymentTermDays) * 24 * time.Hour
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	return &cfg, nil
}

// ValidateServer checks the settings the HTTP API cannot run without.
func (c *Config) ValidateServer() error {
	var errs []error

	if len(c.Auth.Secret) < 32 {
		errs = append(errs, errors.New("JWT_SECRET must be at least 32 characters"))
	}

	switch c.App.StoreDriver {
	case StoreDriverPostgres, StoreDriverMemory:
	default:
		errs = append(errs, fmt.Errorf("STORE_DRIVER must be %q or %q, got %q",
			StoreDriverPostgres, StoreDriverMemory, c.App.StoreDriver))
	}

	if c.Billing.PaymentTermDays < 0 {
		errs = append(errs, errors.New("BILLING_PAYMENT_TERM_DAYS must not be negative"))
	}

	if c.Push.Buffer < 1 {
		errs = append(errs, errors.New("PUSH_BUFFER must be at least 1"))
	}

	return errors.Join(errs...)
}
