package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/alanyoungcy/btcconvert/internal/cache/memory"
	"github.com/alanyoungcy/btcconvert/internal/cache/redis"
	"github.com/alanyoungcy/btcconvert/internal/catalog"
	"github.com/alanyoungcy/btcconvert/internal/config"
	"github.com/alanyoungcy/btcconvert/internal/domain"
	"github.com/alanyoungcy/btcconvert/internal/notify"
	"github.com/alanyoungcy/btcconvert/internal/platform/pricing"
)

// Dependencies bundles the backend-facing services the UI needs. It is
// constructed by Wire and torn down by the returned cleanup function.
type Dependencies struct {
	Pricing   *pricing.Client
	Catalog   *catalog.Catalog
	Converter domain.Converter
	History   domain.HistorySource // the pricing client, possibly behind a cache
	Notifier  *notify.Notifier
}

// Wire constructs the concrete implementations from cfg and returns them with
// a cleanup function to call on shutdown.
func Wire(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Dependencies, func(), error) {
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	client := pricing.NewClient(cfg.Backend.BaseURL, cfg.Backend.Timeout.Duration, logger)
	deps := &Dependencies{
		Pricing:   client,
		Catalog:   catalog.New(client, logger),
		Converter: client,
		History:   client,
	}

	// --- History cache ---
	var cache domain.HistoryCache
	switch cfg.Cache.Backend {
	case "memory":
		cache = memory.NewHistoryCache()
	case "redis":
		redisClient, err := redis.New(ctx, redis.ClientConfig{
			Addr:       cfg.Cache.Redis.Addr,
			Password:   cfg.Cache.Redis.Password,
			DB:         cfg.Cache.Redis.DB,
			KeyPrefix:  cfg.Cache.Redis.KeyPrefix,
			TLSEnabled: cfg.Cache.Redis.TLSEnabled,
		})
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("wire: redis: %w", err)
		}
		closers = append(closers, func() { _ = redisClient.Close() })
		cache = redis.NewHistoryCache(redisClient)
	}
	if cache != nil {
		deps.History = pricing.NewCachedHistory(client, cache, cfg.Cache.TTL.Duration, logger)
	}

	// --- Notifications ---
	var senders []notify.Sender
	if cfg.Notify.TelegramToken != "" && cfg.Notify.TelegramChatID != "" {
		senders = append(senders, notify.NewTelegramSender(
			cfg.Notify.TelegramToken,
			cfg.Notify.TelegramChatID,
		))
	}
	if cfg.Notify.DiscordWebhookURL != "" {
		senders = append(senders, notify.NewDiscordSender(cfg.Notify.DiscordWebhookURL))
	}
	deps.Notifier = notify.NewNotifier(cfg.UI.ToastTTL.Duration, senders, cfg.Notify.Events, logger)

	return deps, cleanup, nil
}
