package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Environment string `yaml:"environment"`
	Server      struct {
		Port            int           `yaml:"port"`
		ReadTimeout     time.Duration `yaml:"read_timeout"`
		WriteTimeout    time.Duration `yaml:"write_timeout"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	} `yaml:"server"`
	Logging struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
		Output string `yaml:"output"`
	} `yaml:"logging"`
	Metrics struct {
		Enabled bool   `yaml:"enabled"`
		Path    string `yaml:"path"`
	} `yaml:"metrics"`
	Admin struct {
		// Hex-encoded SHA-256 of the admin password.
		PasswordHash string `yaml:"password_hash"`
	} `yaml:"admin"`
	Telegram struct {
		Enabled bool   `yaml:"enabled"`
		Token   string `yaml:"token"`
		ChatID  string `yaml:"chat_id"`
	} `yaml:"telegram"`
	WhatsApp struct {
		Enabled    bool   `yaml:"enabled"`
		AccountSID string `yaml:"account_sid"`
		AuthToken  string `yaml:"auth_token"`
		FromNumber string `yaml:"from_number"`
		ToNumber   string `yaml:"to_number"`
	} `yaml:"whatsapp"`
	Dispatch struct {
		MaxRetries     int           `yaml:"max_retries"`
		BackoffBase    time.Duration `yaml:"backoff_base"`
		AttemptTimeout time.Duration `yaml:"attempt_timeout"`
	} `yaml:"dispatch"`
	Ledger struct {
		Capacity int `yaml:"capacity"`
	} `yaml:"ledger"`
	EventLog struct {
		Sink     string `yaml:"sink"` // "file" or "redis"
		FilePath string `yaml:"file_path"`
		RingSize int    `yaml:"ring_size"`
		Redis    struct {
			Addr     string `yaml:"addr"`
			Password string `yaml:"password"`
			DB       int    `yaml:"db"`
			Key      string `yaml:"key"`
			MaxLen   int64  `yaml:"max_len"`
		} `yaml:"redis"`
	} `yaml:"eventlog"`
	Export struct {
		Dir string `yaml:"dir"`
	} `yaml:"export"`
	RateLimit struct {
		Capacity     float64 `yaml:"capacity"`
		RefillPerSec float64 `yaml:"refill_per_sec"`
	} `yaml:"rate_limit"`
}

// Load reads and parses a YAML configuration file.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	c.applyDefaults()

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &c, nil
}

// LoadWithEnv loads config from YAML and overrides secrets with environment variables.
func LoadWithEnv(path string) (*Config, error) {
	c, err := Load(path)
	if err != nil {
		return nil, err
	}

	if v := os.Getenv("PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			c.Server.Port = p
		}
	}
	if v := os.Getenv("ADMIN_PASSWORD_HASH"); v != "" {
		c.Admin.PasswordHash = v
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		c.Telegram.Token = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		c.Telegram.ChatID = v
	}
	if v := os.Getenv("TWILIO_ACCOUNT_SID"); v != "" {
		c.WhatsApp.AccountSID = v
	}
	if v := os.Getenv("TWILIO_AUTH_TOKEN"); v != "" {
		c.WhatsApp.AuthToken = v
	}
	if v := os.Getenv("TWILIO_FROM_NUMBER"); v != "" {
		c.WhatsApp.FromNumber = v
	}
	if v := os.Getenv("TWILIO_TO_NUMBER"); v != "" {
		c.WhatsApp.ToNumber = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.EventLog.Redis.Addr = v
	}

	return c, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 5000
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 10 * time.Second
	}
	if c.Server.WriteTimeout == 0 {
		// Dispatch with full backoff can take ~17s per channel; keep headroom.
		c.Server.WriteTimeout = 60 * time.Second
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 10 * time.Second
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "console"
	}
	if c.Logging.Output == "" {
		c.Logging.Output = "stdout"
	}
	if c.Metrics.Path == "" {
		c.Metrics.Path = "/metrics"
	}
	if c.Dispatch.MaxRetries == 0 {
		c.Dispatch.MaxRetries = 3
	}
	if c.Dispatch.BackoffBase == 0 {
		c.Dispatch.BackoffBase = time.Second
	}
	if c.Dispatch.AttemptTimeout == 0 {
		c.Dispatch.AttemptTimeout = 10 * time.Second
	}
	if c.Ledger.Capacity == 0 {
		c.Ledger.Capacity = 2500
	}
	if c.EventLog.Sink == "" {
		c.EventLog.Sink = "file"
	}
	if c.EventLog.FilePath == "" {
		c.EventLog.FilePath = "logs/system_events.log"
	}
	if c.EventLog.RingSize == 0 {
		c.EventLog.RingSize = 500
	}
	if c.EventLog.Redis.Key == "" {
		c.EventLog.Redis.Key = "paratoner:events"
	}
	if c.EventLog.Redis.MaxLen == 0 {
		c.EventLog.Redis.MaxLen = 1000
	}
	if c.Export.Dir == "" {
		c.Export.Dir = "backups"
	}
	if c.RateLimit.Capacity == 0 {
		c.RateLimit.Capacity = 10
	}
	if c.RateLimit.RefillPerSec == 0 {
		c.RateLimit.RefillPerSec = 5
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Environment == "" {
		return fmt.Errorf("environment is required")
	}
	if c.Admin.PasswordHash == "" {
		return fmt.Errorf("admin.password_hash is required")
	}
	if len(c.Admin.PasswordHash) != 64 {
		return fmt.Errorf("admin.password_hash must be a hex-encoded sha256 digest")
	}
	if c.EventLog.Sink != "file" && c.EventLog.Sink != "redis" {
		return fmt.Errorf("eventlog.sink must be 'file' or 'redis', got '%s'", c.EventLog.Sink)
	}
	if c.EventLog.Sink == "redis" && c.EventLog.Redis.Addr == "" {
		return fmt.Errorf("eventlog.redis.addr is required for redis sink")
	}
	if c.Dispatch.MaxRetries < 1 {
		return fmt.Errorf("dispatch.max_retries must be >= 1")
	}
	return nil
}
