// Copyright 2025, the Webko site contributors
// SPDX-License-Identifier: AGPL-3.0-only

package i18n

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// ErrUnknownLocale is returned by [Config.Validate] for a locale that is not
// served. HTTP handlers map it to 404 Not Found.
var ErrUnknownLocale = errors.New("unknown locale")

var (
	errNoLocales          = errors.New("at least one locale is required")
	errInvalidLocale      = errors.New("invalid locale tag")
	errDuplicateLocale    = errors.New("duplicate locale")
	errDefaultNotListed   = errors.New("default locale is not a configured locale")
	errEnabledNotListed   = errors.New("enabled locale is not a configured locale")
	errDefaultNotEnabled  = errors.New("default locale is not enabled")
	errConfigNotInstalled = errors.New("i18n: Setup must be called before using the locale configuration")
)

// ConfigOptions is the raw locale configuration, usually taken from the
// localization section of the server configuration.
type ConfigOptions struct {
	Enabled        bool
	Locales        []string
	EnabledLocales []string
	DefaultLocale  string
	LocaleLabels   map[string]string
}

// Config is the validated, immutable locale configuration.
//
// All locales are stored as canonical BCP 47 strings. Accessors return copies.
type Config struct {
	enabled        bool
	locales        []string
	enabledLocales []string
	defaultLocale  string
	labels         map[string]string
	tags           map[string]language.Tag
}

// StaticParam is one set of route parameters for a prerenderable locale root.
type StaticParam struct {
	Locale string
}

// NewConfig validates opts and returns the resulting configuration.
//
// An empty EnabledLocales means every configured locale is enabled.
// Labels missing from LocaleLabels default to the language's own name.
func NewConfig(opts ConfigOptions) (*Config, error) {
	if len(opts.Locales) == 0 {
		return nil, errNoLocales
	}

	cfg := &Config{
		enabled: opts.Enabled,
		labels:  make(map[string]string, len(opts.Locales)),
		tags:    make(map[string]language.Tag, len(opts.Locales)),
	}

	for _, raw := range opts.Locales {
		tag, canonical, err := parseLocale(raw)
		if err != nil {
			return nil, err
		}

		if _, dup := cfg.tags[canonical]; dup {
			return nil, fmt.Errorf("%w: %q", errDuplicateLocale, raw)
		}

		cfg.tags[canonical] = tag
		cfg.locales = append(cfg.locales, canonical)
	}

	_, def, err := parseLocale(opts.DefaultLocale)
	if err != nil {
		return nil, err
	}

	if _, ok := cfg.tags[def]; !ok {
		return nil, fmt.Errorf("%w: %q", errDefaultNotListed, opts.DefaultLocale)
	}

	cfg.defaultLocale = def

	if len(opts.EnabledLocales) == 0 {
		cfg.enabledLocales = slices.Clone(cfg.locales)
	} else {
		for _, raw := range opts.EnabledLocales {
			_, canonical, err := parseLocale(raw)
			if err != nil {
				return nil, err
			}

			if _, ok := cfg.tags[canonical]; !ok {
				return nil, fmt.Errorf("%w: %q", errEnabledNotListed, raw)
			}

			if !slices.Contains(cfg.enabledLocales, canonical) {
				cfg.enabledLocales = append(cfg.enabledLocales, canonical)
			}
		}

		if !slices.Contains(cfg.enabledLocales, def) {
			return nil, fmt.Errorf("%w: %q", errDefaultNotEnabled, opts.DefaultLocale)
		}
	}

	for _, locale := range cfg.locales {
		label := opts.LocaleLabels[locale]
		if label == "" {
			label = display.Self.Name(cfg.tags[locale])
		}

		if label == "" {
			label = locale
		}

		cfg.labels[locale] = label
	}

	return cfg, nil
}

func parseLocale(raw string) (language.Tag, string, error) {
	tag, err := language.Parse(strings.ReplaceAll(strings.TrimSpace(raw), "_", "-"))
	if err != nil {
		return language.Tag{}, "", fmt.Errorf("%w %q: %w", errInvalidLocale, raw, err)
	}

	return tag, tag.String(), nil
}

// Validate reports whether locale may appear as the first path segment.
//
// The comparison is exact against the canonical tags of [Config.RoutingLocales],
// so "EN" or "en_US" do not match "en". Failures wrap [ErrUnknownLocale].
func (c *Config) Validate(locale string) error {
	if slices.Contains(c.routing(), locale) {
		return nil
	}

	return fmt.Errorf("%w: %q", ErrUnknownLocale, locale)
}

// routing returns the internal routing slice without copying.
func (c *Config) routing() []string {
	if c.enabled {
		return c.enabledLocales
	}

	return []string{c.defaultLocale}
}

// RoutingLocales returns the locales accepted in URLs: the enabled locales
// when localization is on, otherwise only the default locale.
func (c *Config) RoutingLocales() []string {
	return slices.Clone(c.routing())
}

// Enabled reports whether localized routing is enabled.
func (c *Config) Enabled() bool { return c.enabled }

// Locales returns every configured locale in configuration order.
func (c *Config) Locales() []string { return slices.Clone(c.locales) }

// EnabledLocales returns the enabled subset of [Config.Locales].
func (c *Config) EnabledLocales() []string { return slices.Clone(c.enabledLocales) }

// DefaultLocale returns the fallback locale.
func (c *Config) DefaultLocale() string { return c.defaultLocale }

// Labels returns a copy of the human readable locale labels.
func (c *Config) Labels() map[string]string { return maps.Clone(c.labels) }

// Label returns the human readable label for locale, or locale itself when unknown.
func (c *Config) Label(locale string) string {
	if label, ok := c.labels[locale]; ok {
		return label
	}

	return locale
}

// Tag returns the parsed tag for a configured locale, falling back to the
// default locale's tag.
func (c *Config) Tag(locale string) language.Tag {
	if tag, ok := c.tags[locale]; ok {
		return tag
	}

	return c.tags[c.defaultLocale]
}

// DefaultTag returns the parsed tag of the default locale.
func (c *Config) DefaultTag() language.Tag {
	return c.tags[c.defaultLocale]
}

// StaticParams lists the route parameters of every prerenderable locale root.
func (c *Config) StaticParams() []StaticParam {
	routing := c.routing()

	params := make([]StaticParam, 0, len(routing))
	for _, locale := range routing {
		params = append(params, StaticParam{Locale: locale})
	}

	return params
}

// Match picks the routing locale that best fits the given preferences, which
// may be locale tags or Accept-Language header values. The default locale is
// returned when nothing matches.
func (c *Config) Match(preferred ...string) string {
	routing := c.routing()

	supported := make([]language.Tag, 0, len(routing))
	supported = append(supported, c.DefaultTag())

	for _, locale := range routing {
		if locale != c.defaultLocale {
			supported = append(supported, c.tags[locale])
		}
	}

	_, index, confidence := language.NewMatcher(supported).Match(parsePreferences(preferred)...)
	if confidence == language.No {
		return c.defaultLocale
	}

	return supported[index].String()
}

func parsePreferences(preferred []string) []language.Tag {
	var tags []language.Tag

	for _, p := range preferred {
		if p == "" {
			continue
		}

		parsed, _, err := language.ParseAcceptLanguage(p)
		if err != nil {
			continue
		}

		tags = append(tags, parsed...)
	}

	return tags
}
