// Package config provides configuration management for the relay.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"formrelay/internal/normalizer"
)

// Configuration validation errors.
var (
	ErrInvalidConfig     = errors.New("invalid configuration")
	ErrMinExceedsMax     = errors.New("validation.phone_min_digits cannot exceed validation.phone_max_digits")
	ErrRedisAddrRequired = errors.New("history.redis_addr is required for the redis backend")
	ErrNoCandidates      = errors.New("at least one candidate label is required")
)

// History backends.
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

// Config represents the complete relay configuration.
type Config struct {
	Relay      RelayConfig      `yaml:"relay"`
	Delivery   DeliveryConfig   `yaml:"delivery"`
	Fields     FieldsConfig     `yaml:"fields"`
	Validation ValidationConfig `yaml:"validation"`
	History    HistoryConfig    `yaml:"history"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// RelayConfig locates the receiving endpoint and the inbound listener.
type RelayConfig struct {
	Endpoint string `yaml:"endpoint" validate:"required,url"`
	Secret   string `yaml:"secret" validate:"required"`
	Addr     string `yaml:"addr" validate:"required"`
}

// DeliveryConfig defines the retry policy.
type DeliveryConfig struct {
	MaxAttempts        int `yaml:"max_attempts" validate:"min=1"`
	ServerErrorDelayMs int `yaml:"server_error_delay_ms" validate:"min=0"`
	NetworkErrorStepMs int `yaml:"network_error_step_ms" validate:"min=0"`
	TimeoutSec         int `yaml:"timeout_sec" validate:"min=1"`
}

// FieldsConfig lists candidate labels per logical field, most preferred first.
type FieldsConfig struct {
	Email []string `yaml:"email" validate:"dive,required"`
	Phone []string `yaml:"phone" validate:"dive,required"`
	Name  []string `yaml:"name" validate:"dive,required"`
}

// ValidationConfig holds phone and name limits.
type ValidationConfig struct {
	PhoneMinDigits int `yaml:"phone_min_digits" validate:"min=1"`
	PhoneMaxDigits int `yaml:"phone_max_digits" validate:"min=1"`
	NameMaxRunes   int `yaml:"name_max_runes" validate:"min=0"`
}

// HistoryConfig selects the response history store.
type HistoryConfig struct {
	Backend   string `yaml:"backend" validate:"oneof=memory redis"`
	RedisAddr string `yaml:"redis_addr"`
	Key       string `yaml:"key"`
	Capacity  int    `yaml:"capacity" validate:"min=1"`
}

// LoggingConfig defines logging behavior.
type LoggingConfig struct {
	Level  string `yaml:"level" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" validate:"oneof=text json"`
}

// envOverrides are read from the process environment after the file.
type envOverrides struct {
	Endpoint   string `env:"FORMRELAY_ENDPOINT"`
	Secret     string `env:"FORMRELAY_SECRET"`
	Addr       string `env:"FORMRELAY_ADDR"`
	EmailField string `env:"FORMRELAY_EMAIL_FIELD"`
	PhoneField string `env:"FORMRELAY_PHONE_FIELD"`
	NameField  string `env:"FORMRELAY_NAME_FIELD"`
	History    string `env:"FORMRELAY_HISTORY"`
	RedisAddr  string `env:"REDIS_ADDR"`
	LogLevel   string `env:"LOG_LEVEL"`
}

// Default returns the built-in configuration. Endpoint and secret are left
// empty and must come from the file or the environment.
func Default() *Config {
	return &Config{
		Relay: RelayConfig{
			Addr: ":8080",
		},
		Delivery: DeliveryConfig{
			MaxAttempts:        3,
			ServerErrorDelayMs: 2000,
			NetworkErrorStepMs: 2000,
			TimeoutSec:         60,
		},
		Fields: FieldsConfig{
			Email: []string{"Adresse e-mail", "Email", "E-mail", "Adresse email", "Courriel", "Mail"},
			Phone: []string{"Téléphone", "Phone", "Numéro de téléphone", "Telephone", "Mobile", "Tel", "Numéro"},
			Name:  []string{"Nom", "Name", "Nom complet", "Full name", "Prénom"},
		},
		Validation: ValidationConfig{
			PhoneMinDigits: normalizer.DefaultPhoneMinDigits,
			PhoneMaxDigits: normalizer.DefaultPhoneMaxDigits,
			NameMaxRunes:   normalizer.DefaultNameMaxRunes,
		},
		History: HistoryConfig{
			Backend:  BackendMemory,
			Key:      "formrelay:responses",
			Capacity: 50,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load builds the configuration from defaults, the optional YAML file at
// path, a .env file in the working directory and the environment, in that
// order, then validates it.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse YAML: %w", err)
		}
	}

	_ = godotenv.Load()

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

func (c *Config) applyEnv() error {
	var env envOverrides
	if err := envdecode.Decode(&env); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return fmt.Errorf("failed to decode environment: %w", err)
	}

	if env.Endpoint != "" {
		c.Relay.Endpoint = env.Endpoint
	}

	if env.Secret != "" {
		c.Relay.Secret = env.Secret
	}

	if env.Addr != "" {
		c.Relay.Addr = env.Addr
	}

	if env.History != "" {
		c.History.Backend = env.History
	}

	if env.RedisAddr != "" {
		c.History.RedisAddr = env.RedisAddr
	}

	if env.LogLevel != "" {
		c.Logging.Level = strings.ToLower(env.LogLevel)
	}

	c.Fields.Email = prependLabel(env.EmailField, c.Fields.Email)
	c.Fields.Phone = prependLabel(env.PhoneField, c.Fields.Phone)
	c.Fields.Name = prependLabel(env.NameField, c.Fields.Name)

	return nil
}

// prependLabel makes label the highest priority candidate, dropping a later duplicate.
func prependLabel(label string, labels []string) []string {
	label = strings.TrimSpace(label)
	if label == "" {
		return labels
	}

	out := []string{label}
	for _, l := range labels {
		if l != label {
			out = append(out, l)
		}
	}

	return out
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag()))
			}

			return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(msgs, "; "))
		}

		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	if len(c.Fields.Email) == 0 || len(c.Fields.Phone) == 0 {
		return ErrNoCandidates
	}

	if c.Validation.PhoneMinDigits > c.Validation.PhoneMaxDigits {
		return ErrMinExceedsMax
	}

	if c.History.Backend == BackendRedis && c.History.RedisAddr == "" {
		return ErrRedisAddrRequired
	}

	return nil
}

// Candidates returns the candidate labels for the processor.
func (c *Config) Candidates() normalizer.Candidates {
	return normalizer.Candidates{
		Email: c.Fields.Email,
		Phone: c.Fields.Phone,
		Name:  c.Fields.Name,
	}
}

// ServerErrorDelay returns the wait after a server error.
func (d *DeliveryConfig) ServerErrorDelay() time.Duration {
	return time.Duration(d.ServerErrorDelayMs) * time.Millisecond
}

// NetworkErrorStep returns the per-attempt wait step after a network error.
func (d *DeliveryConfig) NetworkErrorStep() time.Duration {
	return time.Duration(d.NetworkErrorStepMs) * time.Millisecond
}

// Timeout returns the per-request timeout.
func (d *DeliveryConfig) Timeout() time.Duration {
	return time.Duration(d.TimeoutSec) * time.Second
}

// String returns a string representation of the config with the secret masked.
func (c *Config) String() string {
	return fmt.Sprintf(
		"Config{Endpoint: %s, MaxAttempts: %d, History: %s, Secret: %s}",
		c.Relay.Endpoint,
		c.Delivery.MaxAttempts,
		c.History.Backend,
		maskSecret(c.Relay.Secret),
	)
}

func maskSecret(s string) string {
	if len(s) <= 4 {
		return strings.Repeat("*", len(s))
	}

	return s[:2] + strings.Repeat("*", len(s)-4) + s[len(s)-2:]
}
