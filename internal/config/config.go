// Package config defines the configuration of the btcconvert client and
// provides validation helpers.
package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// Config is the root configuration structure. Fields are populated from a TOML
// file and then optionally overridden by BTCCONV_* environment variables.
type Config struct {
	Backend BackendConfig `toml:"backend"`
	UI      UIConfig      `toml:"ui"`
	Cache   CacheConfig   `toml:"cache"`
	Notify  NotifyConfig  `toml:"notify"`
	Log     LogConfig     `toml:"log"`
}

// BackendConfig points at the pricing service.
type BackendConfig struct {
	BaseURL string   `toml:"base_url"`
	Timeout duration `toml:"timeout"`
}

// UIConfig holds interaction timings.
type UIConfig struct {
	Debounce duration `toml:"debounce"`
	ToastTTL duration `toml:"toast_ttl"`
}

// CacheConfig selects where historical series are cached. Backend is one of
// "memory", "redis" or "none".
type CacheConfig struct {
	Backend string      `toml:"backend"`
	TTL     duration    `toml:"ttl"`
	Redis   RedisConfig `toml:"redis"`
}

// RedisConfig holds Redis connection parameters.
type RedisConfig struct {
	Addr       string `toml:"addr"`
	Password   string `toml:"password"`
	DB         int    `toml:"db"`
	KeyPrefix  string `toml:"key_prefix"`
	TLSEnabled bool   `toml:"tls_enabled"`
}

// NotifyConfig holds settings for mirroring notifications to chat channels.
// Events lists the notification kinds ("info", "error") to mirror.
type NotifyConfig struct {
	TelegramToken     string   `toml:"telegram_token"`
	TelegramChatID    string   `toml:"telegram_chat_id"`
	DiscordWebhookURL string   `toml:"discord_webhook_url"`
	Events            []string `toml:"events"`
}

// LogConfig controls the log file. The terminal belongs to the UI, so logs
// never go to stdout.
type LogConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

// duration is a wrapper around time.Duration that supports TOML string decoding
// (e.g. "300ms", "15s").
type duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

// MarshalText implements encoding.TextMarshaler for round-trip encoding.
func (d duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Defaults returns a Config with sensible defaults for every field.
func Defaults() Config {
	return Config{
		Backend: BackendConfig{
			BaseURL: "http://localhost:8000",
			Timeout: duration{15 * time.Second},
		},
		UI: UIConfig{
			Debounce: duration{300 * time.Millisecond},
			ToastTTL: duration{4 * time.Second},
		},
		Cache: CacheConfig{
			Backend: "memory",
			TTL:     duration{10 * time.Minute},
			Redis: RedisConfig{
				Addr:      "localhost:6379",
				KeyPrefix: "btcconvert",
			},
		},
		Notify: NotifyConfig{
			Events: []string{"error"},
		},
		Log: LogConfig{
			Level: "info",
			File:  "btcconvert.log",
		},
	}
}

// Validate checks Config for obviously invalid or missing values and returns a
// combined error listing every problem.
func (c *Config) Validate() error {
	var errs []string

	if c.Backend.BaseURL == "" {
		errs = append(errs, "backend: base_url must not be empty")
	} else if u, err := url.Parse(c.Backend.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, fmt.Sprintf("backend: base_url %q is not an absolute URL", c.Backend.BaseURL))
	}
	if c.Backend.Timeout.Duration <= 0 {
		errs = append(errs, "backend: timeout must be > 0")
	}

	if c.UI.Debounce.Duration < 0 {
		errs = append(errs, "ui: debounce must be >= 0")
	}
	if c.UI.ToastTTL.Duration <= 0 {
		errs = append(errs, "ui: toast_ttl must be > 0")
	}

	switch c.Cache.Backend {
	case "memory", "none":
	case "redis":
		if c.Cache.Redis.Addr == "" {
			errs = append(errs, "cache.redis: addr must not be empty")
		}
		if c.Cache.Redis.DB < 0 {
			errs = append(errs, "cache.redis: db must be >= 0")
		}
	default:
		errs = append(errs, fmt.Sprintf("cache: unknown backend %q (valid: memory, redis, none)", c.Cache.Backend))
	}
	if c.Cache.Backend != "none" && c.Cache.TTL.Duration <= 0 {
		errs = append(errs, "cache: ttl must be > 0")
	}

	if (c.Notify.TelegramToken == "") != (c.Notify.TelegramChatID == "") {
		errs = append(errs, "notify: telegram_token and telegram_chat_id must be set together")
	}
	for _, e := range c.Notify.Events {
		if e != "info" && e != "error" {
			errs = append(errs, fmt.Sprintf("notify: unknown event %q (valid: info, error)", e))
		}
	}

	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Sprintf("unknown log.level %q (valid: debug, info, warn, error)", c.Log.Level))
	}
	if c.Log.File == "" {
		errs = append(errs, "log: file must not be empty")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}
