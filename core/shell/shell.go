// Copyright 2025, the Webko site contributors
// SPDX-License-Identifier: AGPL-3.0-only

package shell

import (
	"context"

	"github.com/rs/zerolog/log"

	"codeberg.org/webko/site/core/cms"
	"codeberg.org/webko/site/i18n"
)

// LanguageOption is one entry of the language switcher.
type LanguageOption struct {
	Code    string
	Label   string
	Current bool
}

// Data is everything the shell renderer needs for one request.
type Data struct {
	Locale        string
	DefaultLocale string
	Content       *Content
	Dropdowns     DropdownChildren
	// Switcher lists the routable locales, labelled from the CMS languages
	// collection when it has an entry and from the locale configuration
	// otherwise.
	Switcher []LanguageOption
}

// Load validates locale and loads the shell data for it.
//
// An unknown locale fails with an error wrapping [i18n.ErrUnknownLocale]
// before any CMS read.
func Load(ctx context.Context, src Source, locales *i18n.Config, locale string) (*Data, error) {
	if err := locales.Validate(locale); err != nil {
		return nil, err
	}

	defaultLocale := locales.DefaultLocale()

	content, err := Fetch(ctx, src, locale, defaultLocale)
	if err != nil {
		return nil, err
	}

	dropdowns, err := ResolveDropdowns(ctx, src, content.Navigation, locale, defaultLocale)
	if err != nil {
		return nil, err
	}

	log.Debug().
		Str("sys", "shell").
		Str("locale", locale).
		Int("dropdowns", len(dropdowns)).
		Msg("Loaded shell")

	return &Data{
		Locale:        locale,
		DefaultLocale: defaultLocale,
		Content:       content,
		Dropdowns:     dropdowns,
		Switcher:      switcher(locales, content.Languages, locale),
	}, nil
}

func switcher(locales *i18n.Config, languages *cms.Languages, current string) []LanguageOption {
	labels := make(map[string]string)

	if languages != nil {
		for _, lang := range languages.Languages {
			label := lang.NativeLabel
			if label == "" {
				label = lang.Label
			}

			if label != "" {
				labels[lang.Code] = label
			}
		}
	}

	routing := locales.RoutingLocales()
	options := make([]LanguageOption, 0, len(routing))

	for _, code := range routing {
		label, ok := labels[code]
		if !ok {
			label = locales.Label(code)
		}

		options = append(options, LanguageOption{
			Code:    code,
			Label:   label,
			Current: code == current,
		})
	}

	return options
}
