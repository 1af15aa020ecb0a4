// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// Copyright 2025, the Webko site contributors
// SPDX-License-Identifier: AGPL-3.0-only

package i18n

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"text/template"

	"github.com/leonelquinteros/gotext"
	"golang.org/x/text/language"
)

// templateCache caches compiled templates per unique template text.
var templateCache sync.Map // key: text, value: *template.Template

// Vars holds named placeholder values for a translation.
type Vars map[string]any

// Tr returns the translated string for a source message id (msgid), which should
// be the original English UI text. If key-value pairs are provided, the translation
// is formatted using text/template-style named placeholders.
//
// Lookups fall back from the locale in ctx to the default locale. If neither has
// a translation, Tr returns the msgid unchanged, or visibly wrapped if strict mode
// is enabled.
func Tr(ctx context.Context, msgid string, kv ...any) string {
	return translate(ctx, "", msgid, "", 0, false, v(kv...))
}

// TrC translates a source message id (msgid) with an explicit disambiguating
// context, similar to gettext's pgettext.
func TrC(ctx context.Context, contextKey, msgid string, kv ...any) string {
	return translate(ctx, contextKey, msgid, "", 0, false, v(kv...))
}

// TrN translates a singular or plural message depending on n. If a translation
// is missing, we choose singular when n == 1, otherwise plural.
func TrN(ctx context.Context, singular, plural string, n int, kv ...any) string {
	return translate(ctx, "", singular, plural, n, true, v(kv...))
}

// TrNC is the contextual variant of TrN, similar to gettext's npgettext.
func TrNC(ctx context.Context, contextKey, singular, plural string, n int, kv ...any) string {
	return translate(ctx, contextKey, singular, plural, n, true, v(kv...))
}

type lookup struct {
	contextKey, singular, plural string
	n                            int
	pluralMode                   bool
}

// in returns the translation from loc, if any.
//
// Singular messages are looked up as n == 1: gotext's n == 0 default picks
// the plural slot under "plural=(n != 1)", which singular entries lack.
func (l lookup) in(loc *gotext.Locale) (string, bool) {
	if loc == nil {
		return "", false
	}

	n, plural := l.n, l.plural
	if !l.pluralMode {
		n, plural = 1, l.singular
	}

	if l.contextKey != "" {
		if loc.IsTranslatedNDC(poDomain, l.singular, n, l.contextKey) {
			return loc.GetNDC(poDomain, l.singular, plural, n, l.contextKey), true
		}

		return "", false
	}

	if loc.IsTranslatedND(poDomain, l.singular, n) {
		return loc.GetND(poDomain, l.singular, plural, n), true
	}

	return "", false
}

// translate performs the underlying lookup and formatting.
func translate(
	ctx context.Context,
	contextKey, singular, plural string,
	n int,
	pluralMode bool,
	vars Vars,
) string {
	l := lookup{contextKey: contextKey, singular: singular, plural: plural, n: n, pluralMode: pluralMode}

	loc, matched := resolveLocale(TagFrom(ctx))

	base := singular
	if pluralMode && n != 1 {
		base = plural
	}

	finalText, found := l.in(loc)

	if !found {
		if def := defaultTag(); matched != def {
			finalText, found = l.in(localesByTag[def.String()])
		}
	}

	if !found {
		if strictMissingKeys() {
			logMissingOnce(strippedTagString(matched), buildLogKey(contextKey, singular))

			finalText = "⟦" + base + "⟧"
		} else {
			finalText = base
		}
	}

	return render(matched, finalText, vars)
}

// render formats s as a text/template using the provided data.
func render(locale language.Tag, s string, data Vars) string {
	if !strings.Contains(s, "{{") {
		return s
	}

	var tmpl *template.Template
	if t, ok := templateCache.Load(s); ok {
		tmpl, _ = t.(*template.Template)
	} else {
		var err error

		tmpl, err = template.New("msg").Option("missingkey=error").Parse(s)
		if err != nil {
			if strictMissingKeys() {
				return "⟦" + s + "⟧"
			}

			Logger.Warn().Err(err).Str("locale", locale.String()).Str("text", s).Msg("Translation template parse error")

			return s
		}

		templateCache.Store(s, tmpl)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, map[string]any(data)); err != nil {
		if strictMissingKeys() {
			return "⟦" + s + "⟧"
		}

		Logger.Warn().Err(err).Str("locale", locale.String()).Str("text", s).Msg("Translation template execute error")

		return s
	}

	return buf.String()
}

// resolveLocale matches t to one of the loaded locales and returns the
// corresponding gotext.Locale and the matched tag.
// If no matcher is installed, it returns nil and the default tag.
func resolveLocale(t language.Tag) (*gotext.Locale, language.Tag) {
	if matcher == nil {
		return nil, defaultTag()
	}

	_, index, confidence := matcher.Match(t)

	if confidence == language.No || index >= len(supportedTags) {
		return localesByTag[defaultTag().String()], defaultTag()
	}

	matched := supportedTags[index]

	return localesByTag[matched.String()], matched
}

// v builds Vars from alternating key, value pairs.
// Panics on programmer error.
func v(kv ...any) Vars {
	if len(kv)%2 != 0 {
		panic("i18n.V: odd number of arguments, want key, value pairs")
	}

	m := make(Vars, len(kv)/2)
	for i := 0; i < len(kv); i += 2 {
		k, ok := kv[i].(string)
		if !ok {
			panic("i18n.V: key must be string")
		}

		m[k] = kv[i+1]
	}

	return m
}
