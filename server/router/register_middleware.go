// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// Copyright 2025, the Webko site contributors
// SPDX-License-Identifier: AGPL-3.0-only

package router

import (
	"codeberg.org/webko/site/config"
	"codeberg.org/webko/site/server/middleware"
	"codeberg.org/webko/site/server/middleware/limiter"
	"codeberg.org/webko/site/server/middleware/set_request_context"
)

func (router *Router) RegisterMiddleware() {
	// the first middleware is the most outer / first executed one
	router.Use(middleware.WithServerTiming)
	router.Use(set_request_context.WithRequestContext) // needed for everything else
	router.Use(middleware.SetResponseHeaders)          // all responses need this, redirects included
	router.Use(middleware.NormalizeURL)                // canonical trailing slashes

	if cfg := config.Global.Limiter; cfg.Enabled {
		router.Use(limiter.New(limiter.Options{
			Rate:       cfg.Rate,
			Burst:      cfg.Burst,
			IPv4Prefix: cfg.IPv4Prefix,
			IPv6Prefix: cfg.IPv6Prefix,
			PassList:   cfg.PassList,
			BlockList:  cfg.BlockList,
		}).Evaluate)
	}
}
