package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Load merges the TOML file at path (if any) on top of the built-in defaults,
// then applies BTCCONV_* environment variable overrides. An empty path skips
// the file. The returned Config has NOT been validated; the caller should
// invoke Config.Validate() after Load.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return nil, err
		}
	}

	// Load .env file if present (silently ignore if missing).
	_ = godotenv.Load()

	applyEnvOverrides(&cfg)

	return &cfg, nil
}

// applyEnvOverrides overwrites Config fields from BTCCONV_* variables that are
// set and non-empty.
func applyEnvOverrides(cfg *Config) {
	// ── Backend ──
	setStr(&cfg.Backend.BaseURL, "BTCCONV_BACKEND_BASE_URL")
	setDuration(&cfg.Backend.Timeout, "BTCCONV_BACKEND_TIMEOUT")

	// ── UI ──
	setDuration(&cfg.UI.Debounce, "BTCCONV_UI_DEBOUNCE")
	setDuration(&cfg.UI.ToastTTL, "BTCCONV_UI_TOAST_TTL")

	// ── Cache ──
	setStr(&cfg.Cache.Backend, "BTCCONV_CACHE_BACKEND")
	setDuration(&cfg.Cache.TTL, "BTCCONV_CACHE_TTL")
	setStr(&cfg.Cache.Redis.Addr, "BTCCONV_REDIS_ADDR")
	setStr(&cfg.Cache.Redis.Password, "BTCCONV_REDIS_PASSWORD")
	setInt(&cfg.Cache.Redis.DB, "BTCCONV_REDIS_DB")
	setStr(&cfg.Cache.Redis.KeyPrefix, "BTCCONV_REDIS_KEY_PREFIX")
	setBool(&cfg.Cache.Redis.TLSEnabled, "BTCCONV_REDIS_TLS_ENABLED")

	// ── Notify ──
	setStr(&cfg.Notify.TelegramToken, "BTCCONV_NOTIFY_TELEGRAM_TOKEN")
	setStr(&cfg.Notify.TelegramChatID, "BTCCONV_NOTIFY_TELEGRAM_CHAT_ID")
	setStr(&cfg.Notify.DiscordWebhookURL, "BTCCONV_NOTIFY_DISCORD_WEBHOOK_URL")
	setStringSlice(&cfg.Notify.Events, "BTCCONV_NOTIFY_EVENTS")

	// ── Log ──
	setStr(&cfg.Log.Level, "BTCCONV_LOG_LEVEL")
	setStr(&cfg.Log.File, "BTCCONV_LOG_FILE")
}

// Typed env-var helpers. Each only mutates the target when the variable is
// present and parses.

func setStr(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

func setDuration(dst *duration, key string) {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			dst.Duration = d
		}
	}
}

func setStringSlice(dst *[]string, key string) {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		cleaned := make([]string, 0, len(parts))
		for _, p := range parts {
			p = strings.TrimSpace(p)
			if p != "" {
				cleaned = append(cleaned, p)
			}
		}
		if len(cleaned) > 0 {
			*dst = cleaned
		}
	}
}
