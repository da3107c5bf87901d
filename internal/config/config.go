// File: internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

type RuntimeConfig struct {
	Dev bool
}

type ServerConfig struct {
	Port           int      `yaml:"port"`
	AllowedOrigins []string `yaml:"allowed_origins"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
}

type LogConfig struct {
	Level    string `yaml:"level"`    // trace|debug|info|warn|error
	Format   string `yaml:"format"`   // json|console
	Sampling bool   `yaml:"sampling"` // enable sampling in prod
}

type DatabaseConfig struct {
	URL      string `yaml:"url"`
	PoolSize int    `yaml:"pool_size"`
}

type RedisConfig struct {
	URL      string        `yaml:"url"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	CacheTTL time.Duration `yaml:"cache_ttl"` // pricing/products cache
}

type RateLimitConfig struct {
	OrderLimit  int           `yaml:"order_limit"`
	OrderWindow time.Duration `yaml:"order_window"`
	AuthLimit   int           `yaml:"auth_limit"`
	AuthWindow  time.Duration `yaml:"auth_window"`
}

// Secrets are never read from the YAML file; they come from the environment
// so the file can be committed. A missing key degrades that feature to a
// logged error response instead of crashing the process.
type Secrets struct {
	StripeSecretKey     string `envconfig:"STRIPE_SECRET_KEY"`
	StripeWebhookSecret string `envconfig:"STRIPE_WEBHOOK_SECRET"`
	PayPalClientID      string `envconfig:"PAYPAL_CLIENT_ID"`
	PayPalClientSecret  string `envconfig:"PAYPAL_CLIENT_SECRET"`
	ResendAPIKey        string `envconfig:"RESEND_API_KEY"`
	SupabaseJWTSecret   string `envconfig:"SUPABASE_JWT_SECRET"`
	AdminKey            string `envconfig:"ADMIN_KEY"`
	RecaptchaSecretKey  string `envconfig:"RECAPTCHA_SECRET_KEY"`
	DatabaseURL         string `envconfig:"DATABASE_URL"`
	RedisURL            string `envconfig:"REDIS_URL"`
}

type PayPalConfig struct {
	Sandbox   bool   `yaml:"sandbox"`
	BrandName string `yaml:"brand_name"`
	ReturnURL string `yaml:"return_url"`
	CancelURL string `yaml:"cancel_url"`
}

type EmailConfig struct {
	From          string        `yaml:"from"`
	ReplyTo       string        `yaml:"reply_to"`
	BatchMinDelay time.Duration `yaml:"batch_min_delay"` // minimum delay between bulk sends
	SupportURL    string        `yaml:"support_url"`
}

type SchedulerConfig struct {
	ExpirySweepInterval time.Duration `yaml:"expiry_sweep_interval"`
}

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Log       LogConfig       `yaml:"log"`
	Database  DatabaseConfig  `yaml:"database"`
	Redis     RedisConfig     `yaml:"redis"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	PayPal    PayPalConfig    `yaml:"paypal"`
	Email     EmailConfig     `yaml:"email"`
	Scheduler SchedulerConfig `yaml:"scheduler"`

	Secrets Secrets       `yaml:"-"`
	Runtime RuntimeConfig `yaml:"-"`
}

func LoadConfig(configPath string, dev bool) (*Config, error) {
	b, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := envconfig.Process("", &cfg.Secrets); err != nil {
		return nil, fmt.Errorf("process env secrets: %w", err)
	}

	// defaults
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.RequestTimeout <= 0 {
		cfg.Server.RequestTimeout = 15 * time.Second
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
	if cfg.Database.PoolSize <= 0 {
		cfg.Database.PoolSize = 10
	}
	if cfg.Redis.CacheTTL <= 0 {
		cfg.Redis.CacheTTL = 5 * time.Minute
	}
	if cfg.RateLimit.OrderLimit <= 0 {
		cfg.RateLimit.OrderLimit = 10
	}
	if cfg.RateLimit.OrderWindow <= 0 {
		cfg.RateLimit.OrderWindow = time.Minute
	}
	if cfg.RateLimit.AuthLimit <= 0 {
		cfg.RateLimit.AuthLimit = 20
	}
	if cfg.RateLimit.AuthWindow <= 0 {
		cfg.RateLimit.AuthWindow = time.Minute
	}
	if cfg.Email.From == "" {
		cfg.Email.From = "orders@example.com"
	}
	if cfg.Email.BatchMinDelay <= 0 {
		cfg.Email.BatchMinDelay = 600 * time.Millisecond
	}
	if cfg.Scheduler.ExpirySweepInterval <= 0 {
		cfg.Scheduler.ExpirySweepInterval = time.Hour
	}

	// Env wins over YAML for connection strings so hosted deploys need no file edits.
	if cfg.Secrets.DatabaseURL != "" {
		cfg.Database.URL = cfg.Secrets.DatabaseURL
	}
	if cfg.Secrets.RedisURL != "" {
		cfg.Redis.URL = cfg.Secrets.RedisURL
	}

	// Minimal validation: only the database is hard-required. Payment, email
	// and auth keys degrade their feature at the handler level.
	if cfg.Database.URL == "" {
		return nil, errors.New("database.url is required")
	}
	if cfg.Redis.URL == "" {
		return nil, errors.New("redis.url is required")
	}

	cfg.Runtime.Dev = dev
	return &cfg, nil
}

// StripeEnabled reports whether the Stripe checkout path can run.
func (c *Config) StripeEnabled() bool { return c.Secrets.StripeSecretKey != "" }

// PayPalEnabled reports whether the PayPal checkout path can run.
func (c *Config) PayPalEnabled() bool {
	return c.Secrets.PayPalClientID != "" && c.Secrets.PayPalClientSecret != ""
}

// EmailEnabled reports whether transactional email can be sent.
func (c *Config) EmailEnabled() bool { return c.Secrets.ResendAPIKey != "" }
