// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// Copyright 2025, the Webko site contributors
// SPDX-License-Identifier: AGPL-3.0-only

package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"slices"
	"strconv"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"codeberg.org/webko/site/server/utils"
)

// validation errors.
var (
	errUnixSocketInvalidPermissions = errors.New("invalid Basic.UnixSocketPermissions value")
	errCMSURLRequired               = errors.New("cms.baseUrl is required")
	errInvalidCMSTimeout            = errors.New("cms.timeout must be positive")
	errInvalidRateLimit             = errors.New("cms.rateLimit must not be negative")
	errInvalidRateBurst             = errors.New("cms.rateBurst must be at least 1 when rate limiting is enabled")
	errInvalidLimiter               = errors.New("limiter.rate and limiter.burst must be positive when the limiter is enabled")
	errInvalidLimiterPrefix         = errors.New("limiter prefix lengths must be within 0-32 (IPv4) and 0-128 (IPv6)")
	errInvalidCacheSize             = errors.New("cache.cacheSize must be positive when the cache is enabled")
	errInvalidLogLevel              = errors.New("invalid log.logLevel")
	errInvalidLogFormat             = errors.New("invalid log.logFormat")
	errNoLocales                    = errors.New("localization.locales must list at least one locale")
	errDefaultLocaleMissing         = errors.New("localization.defaultLocale must be one of localization.locales")
	errEnabledLocaleUnknown         = errors.New("localization.enabledLocales must be a subset of localization.locales")
)

var fileModeOctalRegexp = regexp.MustCompile(`^0?[0-7]{3}$`)

// validateAndSet validates the server configuration and populates derived fields.
func (cfg *ServerConfig) validateAndSet() error {
	if err := cfg.validateListener(); err != nil {
		return err
	}

	if cfg.CMS.BaseURL == "" {
		return errCMSURLRequired
	}

	cmsURL, err := utils.ParseURL(cfg.CMS.BaseURL, "CMS")
	if err != nil {
		return fmt.Errorf("invalid CMS URL: %w", err)
	}

	cfg.CMS.BaseURL = cmsURL.String()

	if cfg.CMS.Timeout <= 0 {
		return errInvalidCMSTimeout
	}

	if cfg.CMS.RateLimit < 0 {
		return errInvalidRateLimit
	}

	if cfg.CMS.RateLimit > 0 && cfg.CMS.RateBurst < 1 {
		return errInvalidRateBurst
	}

	if cfg.Limiter.Enabled && (cfg.Limiter.Rate <= 0 || cfg.Limiter.Burst < 1) {
		return errInvalidLimiter
	}

	if cfg.Limiter.IPv4Prefix < 0 || cfg.Limiter.IPv4Prefix > 32 ||
		cfg.Limiter.IPv6Prefix < 0 || cfg.Limiter.IPv6Prefix > 128 {
		return errInvalidLimiterPrefix
	}

	if cfg.Cache.Enabled && cfg.Cache.Size <= 0 {
		return errInvalidCacheSize
	}

	if _, err := zerolog.ParseLevel(cfg.Log.Level); err != nil || cfg.Log.Level == "" {
		return fmt.Errorf("%w: %q", errInvalidLogLevel, cfg.Log.Level)
	}

	switch cfg.Log.Format {
	case "console", "json":
	default:
		return fmt.Errorf("%w: %q", errInvalidLogFormat, cfg.Log.Format)
	}

	return cfg.validateLocalization()
}

func (cfg *ServerConfig) validateListener() error {
	if cfg.Basic.UnixSocket == "" {
		if cfg.Basic.Host == "" {
			cfg.Basic.Host = "localhost"
			log.Info().
				Str("host", cfg.Basic.Host).
				Msg("Binding to default host")
		}

		if cfg.Basic.Port == "" {
			cfg.Basic.Port = "8282"
			log.Info().
				Str("port", cfg.Basic.Port).
				Msg("Using default port")
		}

		return nil
	}

	if cfg.Basic.Host != "" || cfg.Basic.Port != "" {
		log.Info().
			Str("socket", cfg.Basic.UnixSocket).
			Msg("Unix socket configured, ignoring host and port")

		cfg.Basic.Host = ""
		cfg.Basic.Port = ""
	}

	switch {
	case cfg.Basic.RawUnixSocketPermissions == "":
		cfg.Basic.UnixSocketPermissions = 0o666
	case fileModeOctalRegexp.MatchString(cfg.Basic.RawUnixSocketPermissions):
		mode, _ := strconv.ParseUint(cfg.Basic.RawUnixSocketPermissions, 8, 32)

		cfg.Basic.UnixSocketPermissions = os.FileMode(mode)
	default:
		return errUnixSocketInvalidPermissions
	}

	return nil
}

// validateLocalization checks membership only; tag syntax is checked when
// the i18n package builds its locale configuration.
func (cfg *ServerConfig) validateLocalization() error {
	l := &cfg.Localization

	if len(l.Locales) == 0 {
		return errNoLocales
	}

	if !slices.Contains(l.Locales, l.DefaultLocale) {
		return fmt.Errorf("%w: %q", errDefaultLocaleMissing, l.DefaultLocale)
	}

	if len(l.EnabledLocales) == 0 {
		l.EnabledLocales = slices.Clone(l.Locales)
	}

	for _, locale := range l.EnabledLocales {
		if !slices.Contains(l.Locales, locale) {
			return fmt.Errorf("%w: %q", errEnabledLocaleUnknown, locale)
		}
	}

	return nil
}
