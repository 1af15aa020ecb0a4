// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// Copyright 2025, the Webko site contributors
// SPDX-License-Identifier: AGPL-3.0-only

package requests

import (
	"context"
	"fmt"
	"net/http"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"codeberg.org/webko/site/config"
	"codeberg.org/webko/site/core/requests/lrucache"
	"codeberg.org/webko/site/server/request_context"
)

var (
	// cache holds CMS response bodies keyed by request URL. Nil when disabled.
	cache *lrucache.Cache

	// limiter paces outbound CMS requests. Nil when unlimited.
	limiter *rate.Limiter
)

// Setup initializes the CMS response cache and the outbound rate limiter
// from config.Global.
//
// Calling Setup again replaces both.
func Setup() error {
	cache = nil
	limiter = nil

	if config.Global.CMS.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(config.Global.CMS.RateLimit), config.Global.CMS.RateBurst)

		log.Info().
			Float64("rate", config.Global.CMS.RateLimit).
			Int("burst", config.Global.CMS.RateBurst).
			Msg("Limiting outbound CMS requests")
	}

	if !config.Global.Cache.Enabled {
		log.Info().
			Msg("Cache is disabled, skipping cache initialization")

		return nil
	}

	var err error

	cache, err = lrucache.New(config.Global.Cache.Size, config.Global.Cache.TTL, config.Global.Cache.Compress)
	if err != nil {
		return fmt.Errorf("failed to create cache: %w", err)
	}

	log.Info().
		Int("size", config.Global.Cache.Size).
		Dur("ttl", config.Global.Cache.TTL).
		Bool("compress", config.Global.Cache.Compress).
		Msg("Initialized CMS response cache")

	return nil
}

// cacheable reports whether a request may be served from and stored in the cache.
func cacheable(ctx context.Context, opts RequestOptions) bool {
	return cache != nil &&
		opts.Method == http.MethodGet &&
		!request_context.FromContext(ctx).BypassCache
}

// waitForLimiter blocks until the limiter admits one request or ctx is done.
func waitForLimiter(ctx context.Context) error {
	if limiter == nil {
		return nil
	}

	if err := limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}

	return nil
}
