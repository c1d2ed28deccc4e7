package config

import (
	"errors"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string        `envconfig:"HTTP_ADDR" default:":8080"`
	LogLevel        string        `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat       string        `envconfig:"LOG_FORMAT" default:"json"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`

	// OutRoot is the default export location; requests may override it.
	OutRoot      string `envconfig:"OUT_ROOT" default:"exports/seasonality"`
	PlotsEnabled bool   `envconfig:"PLOTS_ENABLED" default:"true"`

	// Kafka run-summary publishing; enabled when both brokers and topic are set.
	KafkaBrokers  []string `envconfig:"KAFKA_BROKERS"`
	KafkaRunTopic string   `envconfig:"KAFKA_RUN_TOPIC"`
}

// Load reads configuration from environment variables, applying defaults
// where unset.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}

	if cfg.HTTPAddr == "" {
		return nil, errors.New("HTTP_ADDR is required")
	}
	if cfg.ShutdownTimeout <= 0 {
		return nil, errors.New("invalid SHUTDOWN_TIMEOUT")
	}
	if cfg.OutRoot == "" {
		return nil, errors.New("OUT_ROOT is required")
	}
	if len(cfg.KafkaBrokers) > 0 && cfg.KafkaRunTopic == "" {
		return nil, errors.New("KAFKA_BROKERS is set but KAFKA_RUN_TOPIC is not")
	}

	return &cfg, nil
}

// KafkaEnabled reports whether run summaries should be published.
func (c *Config) KafkaEnabled() bool {
	return len(c.KafkaBrokers) > 0 && c.KafkaRunTopic != ""
}
