// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// Copyright 2025, the Webko site contributors
// SPDX-License-Identifier: AGPL-3.0-only

package config

import "time"

const (
	// Default cache TTL in minutes.
	defaultCacheTTLMinutes = 60
	// Default HTTP cache max age in seconds.
	defaultHTTPCacheMaxAgeSeconds = 30
	// Default HTTP cache stale while revalidate in seconds.
	defaultHTTPCacheStaleWhileRevalidateSeconds = 60
	// Default timeout for a single CMS request in seconds.
	defaultCMSTimeoutSeconds = 5
	// Default inbound requests per second per client network.
	defaultLimiterRate  = 5.0
	defaultLimiterBurst = 60
)

// SetDefaults populates the configuration with default values.
func (cfg *ServerConfig) SetDefaults() {
	cfg.Basic.Host = "localhost"
	cfg.Basic.Port = "8282"

	cfg.CMS.Timeout = defaultCMSTimeoutSeconds * time.Second
	cfg.CMS.RateLimit = 0
	cfg.CMS.RateBurst = 1

	cfg.Limiter.Enabled = false
	cfg.Limiter.Rate = defaultLimiterRate
	cfg.Limiter.Burst = defaultLimiterBurst
	cfg.Limiter.IPv4Prefix = 24
	cfg.Limiter.IPv6Prefix = 48

	cfg.Cache.Enabled = false
	cfg.Cache.Size = 100
	cfg.Cache.TTL = defaultCacheTTLMinutes * time.Minute
	cfg.Cache.Compress = true

	cfg.HTTPCache.MaxAge = defaultHTTPCacheMaxAgeSeconds * time.Second
	cfg.HTTPCache.StaleWhileRevalidate = defaultHTTPCacheStaleWhileRevalidateSeconds * time.Second

	cfg.Localization.Enabled = true
	cfg.Localization.Locales = []string{"en", "mk"}
	cfg.Localization.EnabledLocales = []string{"en", "mk"}
	cfg.Localization.DefaultLocale = "en"
	cfg.Localization.LocaleLabels = map[string]string{
		"en": "English",
		"mk": "Македонски",
	}
	cfg.Localization.StrictMissingKeys = false

	cfg.Site.Stylesheet = "/css/site.css"
	cfg.Site.FontFamily = "Public Sans"

	cfg.Telemetry.ServiceName = "webko-site"

	cfg.Development.SaveResponses = false
	cfg.Development.ResponseSaveLocation = "/tmp/webko-site/responses"

	cfg.Log.Level = "info"
	cfg.Log.Outputs = []string{"/dev/stderr"}
	cfg.Log.Format = "console"
}
