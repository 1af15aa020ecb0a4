// Copyright 2025, the Webko site contributors
// SPDX-License-Identifier: AGPL-3.0-only

package i18n

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

const testPoHeader = `msgid ""
msgstr ""
"Content-Type: text/plain; charset=UTF-8\n"
"Plural-Forms: nplurals=2; plural=(n != 1);\n"

`

var testCatalogues = fstest.MapFS{
	"po/site.pot": {Data: []byte(testPoHeader)},
	"po/en.po": {Data: []byte(testPoHeader + `
msgid "Skip to content"
msgstr "Skip to content"

msgid "Only in English"
msgstr "Only in English (default)"
`)},
	"po/mk.po": {Data: []byte(testPoHeader + `
msgid "Skip to content"
msgstr "Прескокни до содржината"

msgid "Open menu"
msgstr "Отвори мени"

msgctxt "footer"
msgid "Contact"
msgstr "Контакт"

msgid "{{.Count}} service"
msgid_plural "{{.Count}} services"
msgstr[0] "{{.Count}} услуга"
msgstr[1] "{{.Count}} услуги"

msgid "Hello, {{.Name}}"
msgstr "Здраво, {{.Name}}"

msgid "<b>"
msgstr "<б>"
`)},
	"po/de.po": {Data: []byte(testPoHeader + `
msgid "Open menu"
msgstr "Menü öffnen"
`)},
}

// setupTestLocales installs en and mk. Tests that call it must not run in parallel.
func setupTestLocales(t *testing.T) *Config {
	t.Helper()

	cfg := mustConfig(t, ConfigOptions{
		Enabled:       true,
		Locales:       []string{"en", "mk"},
		DefaultLocale: "en",
	})

	require.NoError(t, Setup(cfg, testCatalogues))

	return cfg
}

func TestSetupInstallsConfig(t *testing.T) {
	cfg := setupTestLocales(t)

	assert.Same(t, cfg, Locales())
	tags := Languages()
	require.Len(t, tags, 2)
	assert.Equal(t, "en", tags[0].String())
	assert.Equal(t, "mk", tags[1].String())
	assert.NotContains(t, localesByTag, "de")
	assert.Contains(t, localesByTag, "mk")
}

func TestSetupRejectsNilConfig(t *testing.T) {
	require.ErrorIs(t, Setup(nil, testCatalogues), errNilConfig)
}

func TestSetupWithoutCatalogues(t *testing.T) {
	cfg := mustConfig(t, ConfigOptions{Locales: []string{"en"}, DefaultLocale: "en"})

	require.NoError(t, Setup(cfg, fstest.MapFS{}))
	assert.Equal(t, "Open menu", Tr(WithTag(context.Background(), language.English), "Open menu"))
}

func TestTr(t *testing.T) {
	setupTestLocales(t)

	mk := WithTag(context.Background(), language.Macedonian)
	en := WithTag(context.Background(), language.English)

	assert.Equal(t, "Прескокни до содржината", Tr(mk, "Skip to content"))
	assert.Equal(t, "Skip to content", Tr(en, "Skip to content"))

	// missing in mk falls back to the default locale, then to the msgid
	assert.Equal(t, "Only in English (default)", Tr(mk, "Only in English"))
	assert.Equal(t, "Untranslated", Tr(mk, "Untranslated"))

	// regional variants match their base language
	assert.Equal(t, "Отвори мени", Tr(WithTag(context.Background(), language.MustParse("mk-MK")), "Open menu"))

	// unconfigured languages use the default locale
	assert.Equal(t, "Open menu", Tr(WithTag(context.Background(), language.German), "Open menu"))

	// no tag in context uses the default locale
	assert.Equal(t, "Open menu", Tr(context.Background(), "Open menu"))
}

func TestTrShippedCatalogues(t *testing.T) {
	cfg := mustConfig(t, ConfigOptions{
		Enabled:       true,
		Locales:       []string{"en", "mk"},
		DefaultLocale: "en",
	})

	// The module root holds po/.
	require.NoError(t, Setup(cfg, os.DirFS("..")))

	mk := WithTag(context.Background(), language.Macedonian)

	assert.Equal(t, "Отвори мени", Tr(mk, "Open menu"))
	assert.Equal(t, "Сите права се задржани.", Tr(mk, "All rights reserved."))
	assert.Equal(t, "ID на барањето: abc", Tr(mk, "Request ID: {{.ID}}", "ID", "abc"))
	assert.Equal(t, "Open menu", Tr(WithTag(context.Background(), language.English), "Open menu"))

	for _, key := range ClientMessages {
		assert.NotEqual(t, string(key), key.Tr(mk), "missing mk translation for %q", key)
	}
}

func TestTrVariants(t *testing.T) {
	setupTestLocales(t)

	mk := WithTag(context.Background(), language.Macedonian)

	assert.Equal(t, "Контакт", TrC(mk, "footer", "Contact"))
	assert.Equal(t, "Contact", TrC(mk, "header", "Contact"))
	assert.Equal(t, "1 услуга", TrN(mk, "{{.Count}} service", "{{.Count}} services", 1, "Count", 1))
	assert.Equal(t, "5 услуги", TrN(mk, "{{.Count}} service", "{{.Count}} services", 5, "Count", 5))
	assert.Equal(t, "5 services", TrN(context.Background(), "{{.Count}} service", "{{.Count}} services", 5, "Count", 5))
	assert.Equal(t, "Здраво, Ана", Tr(mk, "Hello, {{.Name}}", "Name", "Ана"))
}

func TestTrMissingPlaceholderReturnsRawText(t *testing.T) {
	setupTestLocales(t)

	assert.Equal(t, "Hello, {{.Name}}", Tr(context.Background(), "Hello, {{.Name}}"))
}

func TestTrPanicsOnOddArguments(t *testing.T) {
	assert.Panics(t, func() {
		Tr(context.Background(), "Hello, {{.Name}}", "Name")
	})
}

func TestMsgKeyRenderEscapes(t *testing.T) {
	setupTestLocales(t)

	var buf bytes.Buffer

	require.NoError(t, MsgKey("<b>").Render(WithTag(context.Background(), language.Macedonian), &buf))
	assert.Equal(t, "&lt;б&gt;", buf.String())
}

func TestMessages(t *testing.T) {
	setupTestLocales(t)

	got := Messages(WithTag(context.Background(), language.Macedonian), "Open menu", "Close menu")

	assert.Equal(t, map[string]string{
		"Open menu":  "Отвори мени",
		"Close menu": "Close menu",
	}, got)
}

func TestFromRequest(t *testing.T) {
	cfg := setupTestLocales(t)

	tests := []struct {
		name           string
		cookie         string
		acceptLanguage string
		want           string
	}{
		{name: "nothing", want: "en"},
		{name: "accept-language", acceptLanguage: "mk,en;q=0.5", want: "mk"},
		{name: "cookie wins", cookie: "en", acceptLanguage: "mk", want: "en"},
		{name: "unknown cookie ignored", cookie: "de", acceptLanguage: "mk", want: "mk"},
		{name: "unmatched header", acceptLanguage: "fr-FR", want: "en"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.cookie != "" {
				r.AddCookie(&http.Cookie{Name: LocaleCookie, Value: tt.cookie})
			}

			if tt.acceptLanguage != "" {
				r.Header.Set("Accept-Language", tt.acceptLanguage)
			}

			assert.Equal(t, tt.want, FromRequest(cfg, r))
		})
	}

	assert.Equal(t, "en", FromRequest(cfg, nil))
}

func TestTagFrom(t *testing.T) {
	setupTestLocales(t)

	assert.Equal(t, "en", TagFrom(context.Background()).String())
	assert.Equal(t, "mk", TagFrom(WithTag(context.Background(), language.Macedonian)).String())
	assert.Equal(t, "en", TagFrom(WithTag(context.Background(), language.Tag{})).String())
}
