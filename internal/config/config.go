// Package config loads the process configuration: an optional YAML file with
// environment variables layered on top. Configuration is read once at process
// start; there is no hot reload.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// envPrefix namespaces the service's environment variables. A double
// underscore separates nesting levels so single underscores survive in key
// names, e.g. PIPENOTIFY_SLACK__WEBHOOK_URL -> slack.webhook_url.
const envPrefix = "PIPENOTIFY_"

// ErrNoWebhookSource is the fixed configuration error reported when neither a
// literal webhook URL nor a secret identifier is configured. It is surfaced
// per invocation, not at startup.
var ErrNoWebhookSource = errors.New("no webhook url or webhook secret id configured")

type Config struct {
	Server      ServerConfig  `koanf:"server"`
	Slack       SlackConfig   `koanf:"slack"`
	Secrets     SecretsConfig `koanf:"secrets"`
	Environment string        `koanf:"environment"`
	Region      string        `koanf:"region"`
}

type ServerConfig struct {
	Port int `koanf:"port"`
	// RequestTimeout bounds a whole invocation, including secret resolution
	// and delivery. Duration string like "30s".
	RequestTimeout string `koanf:"request_timeout"`
}

type SlackConfig struct {
	Channel string `koanf:"channel"`
	// WebhookURL is the literal endpoint. When empty, WebhookSecretID names
	// the secret holding it.
	WebhookURL      string `koanf:"webhook_url"`
	WebhookSecretID string `koanf:"webhook_secret_id"`
	// Timeout bounds a single outbound delivery. Duration string like "10s".
	Timeout string `koanf:"timeout"`
}

type SecretsConfig struct {
	// Store selects the backend: env, file or http.
	Store string          `koanf:"store"`
	File  FileStoreConfig `koanf:"file"`
	HTTP  HTTPStoreConfig `koanf:"http"`
}

type FileStoreConfig struct {
	Root string `koanf:"root"`
}

type HTTPStoreConfig struct {
	BaseURL string `koanf:"base_url"`
	Token   string `koanf:"token"`
}

// Load reads configuration from the YAML file at path (skipped when path is
// empty) and then from PIPENOTIFY_* environment variables, which win.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.Replace(strings.ToLower(strings.TrimPrefix(s, envPrefix)), "__", ".", -1)
	}), nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	// Default values
	if !k.Exists("server.port") {
		k.Set("server.port", 8080)
	}
	if !k.Exists("secrets.store") {
		k.Set("secrets.store", "env")
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	return &cfg, nil
}

// HasWebhookSource reports whether an invocation can obtain a webhook URL.
func (c *Config) HasWebhookSource() bool {
	return c.Slack.WebhookURL != "" || c.Slack.WebhookSecretID != ""
}

// RequestTimeout parses the per-invocation bound, falling back to 30s.
func (c *Config) RequestTimeout() time.Duration {
	return parseDuration(c.Server.RequestTimeout, 30*time.Second)
}

// DeliveryTimeout parses the outbound delivery bound, falling back to 10s.
func (c *Config) DeliveryTimeout() time.Duration {
	return parseDuration(c.Slack.Timeout, 10*time.Second)
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	if s == "" {
		return fallback
	}
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
