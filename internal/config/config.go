package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"go.uber.org/fx"

	"github.com/uybinhphan/goatcounter-bot/internal/domain"
)

var Module = fx.Provide(NewConfig)

var validate *validator.Validate

const (
	// Browser identity the probe presents, matching what real visitors send.
	defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"

	defaultHealthPath         = "/health"
	defaultProbeTimeoutSecs   = 30
	defaultLatencyThresholdMS = 10000
	defaultWorkerCount        = 2
	defaultKeepAliveAddr      = ":8080"
)

type Config struct {
	Targets   []domain.Target  `json:"targets" validate:"required,min=1,dive"`
	Probe     Probe            `json:"probe"`
	Workers   Workers          `json:"workers"`
	Notifiers []NotifierConfig `json:"notifiers" validate:"dive"`
	Stats     Stats            `json:"stats"`
	KeepAlive KeepAlive        `json:"keepalive"`
}

type Probe struct {
	TimeoutSeconds     int    `json:"timeout_seconds" validate:"gte=0"`
	LatencyThresholdMS int64  `json:"latency_threshold_ms" validate:"gte=0"`
	UserAgent          string `json:"user_agent"`
}

type Workers struct {
	Count int `json:"count" validate:"gte=0"`
}

type Stats struct {
	Site string `json:"site"`
}

type KeepAlive struct {
	Addr string `json:"addr"`
}

// NewConfig loads the configuration from the file named by CONFIG_PATH
// (default config.json), applies defaults and environment overrides, and
// validates the result.
func NewConfig() (*Config, error) {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.json"
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	cfg.applyDefaults()
	cfg.applyEnv()

	if err := validate.Struct(cfg); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			return nil, formatValidationErrors(validationErrors)
		}
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

func (c *Config) applyDefaults() {
	for i := range c.Targets {
		if c.Targets[i].Path == "" {
			c.Targets[i].Path = defaultHealthPath
		}
	}
	if c.Probe.TimeoutSeconds == 0 {
		c.Probe.TimeoutSeconds = defaultProbeTimeoutSecs
	}
	if c.Probe.LatencyThresholdMS == 0 {
		c.Probe.LatencyThresholdMS = defaultLatencyThresholdMS
	}
	if c.Probe.UserAgent == "" {
		c.Probe.UserAgent = defaultUserAgent
	}
	if c.Workers.Count == 0 {
		c.Workers.Count = defaultWorkerCount
	}
	if c.KeepAlive.Addr == "" {
		c.KeepAlive.Addr = defaultKeepAliveAddr
	}
}

// applyEnv fills fields whose values live in the environment. Secrets are
// never expected in the config file, though a local file may carry them.
func (c *Config) applyEnv() {
	if c.Stats.Site == "" {
		c.Stats.Site = os.Getenv("GOAT_SITE")
	}
}

// TelegramToken resolves the bot token: TG_BOT_TOKEN wins, otherwise the
// first telegram notifier entry that carries one.
func (c *Config) TelegramToken() string {
	if v := os.Getenv("TG_BOT_TOKEN"); v != "" {
		return v
	}
	for _, nc := range c.Notifiers {
		if nc.Type != NotifierTypeTelegram {
			continue
		}
		var tc struct {
			Token string `json:"token"`
		}
		if err := json.Unmarshal(nc.Raw, &tc); err == nil && tc.Token != "" {
			return tc.Token
		}
	}
	return ""
}

func formatValidationErrors(errs validator.ValidationErrors) error {
	var msgs []string
	for _, err := range errs {
		msgs = append(msgs, fmt.Sprintf(
			"field '%s' failed validation: %s",
			err.Field(),
			err.Tag(),
		))
	}
	return fmt.Errorf("validation errors: %v", msgs)
}
