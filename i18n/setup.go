// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// Copyright 2025, the Webko site contributors
// SPDX-License-Identifier: AGPL-3.0-only

package i18n

import (
	"errors"
	"fmt"
	"io/fs"
	"path"
	"strings"

	"github.com/leonelquinteros/gotext"
	"github.com/rs/zerolog/log"
	"golang.org/x/text/language"
)

var (
	// poDomain is the gettext domain to load under each locale.
	poDomain = "site"

	// poDir is the directory holding the catalogues inside the supplied filesystem.
	poDir = "po"

	// installed is the process-wide locale configuration.
	installed *Config

	// localesByTag maps canonical BCP 47 tags, for example "en" or "mk",
	// to their loaded gotext.Locale.
	localesByTag map[string]*gotext.Locale

	// supportedTags holds the configured locale tags in matcher order.
	supportedTags []language.Tag

	// matcher is a private [language.Matcher] over the configured locales,
	// with the default locale first.
	matcher language.Matcher
)

var errNilConfig = errors.New("i18n: nil locale configuration")

// Setup installs cfg as the process-wide locale configuration and loads the
// gettext catalogues for its locales from fsys.
//
// The expected layout is:
//
//	po/<locale>.po
//
// The <locale> filename part may use hyphens or underscores. Catalogue files
// for locales that are not configured are ignored, and configured locales
// without a catalogue fall back to the msgid, which is the default locale's text.
// The template file, "po/site.pot", is ignored.
//
// Calling Setup again replaces the previously loaded state.
func Setup(cfg *Config, fsys fs.FS) error {
	if cfg == nil {
		return errNilConfig
	}

	Logger = log.With().Str("sys", "i18n").Logger()

	loaded := make(map[string]*gotext.Locale)

	entries, err := fs.ReadDir(fsys, poDir)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to read po directory: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".po") {
			continue
		}

		fileName := entry.Name()

		_, canonical, err := parseLocale(strings.TrimSuffix(fileName, ".po"))
		if err != nil {
			Logger.Warn().Err(err).Str("file", fileName).Msg("Skipping invalid locale file")

			continue
		}

		if _, ok := cfg.tags[canonical]; !ok {
			Logger.Debug().Str("file", fileName).Msg("Skipping catalogue for unconfigured locale")

			continue
		}

		po := gotext.NewPoFS(fsys)
		po.ParseFile(path.Join(poDir, fileName))

		loc := gotext.NewLocale("", canonical) // Base path is unused when manually adding translators.
		loc.AddTranslator(poDomain, po)

		loaded[canonical] = loc

		Logger.Info().
			Str("locale", canonical).
			Str("domain", poDomain).
			Msg("Loaded locale")
	}

	supported := make([]language.Tag, 0, len(cfg.locales))
	supported = append(supported, cfg.DefaultTag())

	for _, locale := range cfg.locales {
		if locale != cfg.defaultLocale {
			supported = append(supported, cfg.tags[locale])
		}
	}

	installed = cfg
	localesByTag = loaded
	supportedTags = supported
	matcher = language.NewMatcher(supported)
	missingKeyOnce.Clear()

	return nil
}

// Locales returns the installed locale configuration.
//
// Setup must be called successfully before using Locales; otherwise it panics.
func Locales() *Config {
	if installed == nil {
		panic(errConfigNotInstalled)
	}

	return installed
}
