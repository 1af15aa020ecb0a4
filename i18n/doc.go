// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// Copyright 2025, the Webko site contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package i18n owns the site's locale configuration and UI translations.

# Locales

[NewConfig] validates the configured locales once at startup and [Setup]
installs the result process-wide. Every request path starts with a locale
segment that must pass [Config.Validate]; anything else is a 404.

	cfg, err := i18n.NewConfig(i18n.ConfigOptions{
		Enabled:       true,
		Locales:       []string{"en", "mk"},
		DefaultLocale: "en",
	})

# Translations

UI strings are translated from GNU gettext .po catalogues. Use the original
English UI text as the msgid; do not invent keys.

	i18n.Tr(ctx, "Open menu")
	i18n.TrC(ctx, "footer", "Contact") // disambiguation via context
	i18n.TrN(ctx, "{{.Count}} service", "{{.Count}} services", n, "Count", n)

Translations can be used directly in templ components through [MsgKey].

# Missing translations

A missing translation falls back to the default locale's catalogue and then
to the msgid. When StrictMissingKeys is enabled, missing lookups are logged
once per locale+key and the returned text is visibly wrapped as "⟦...⟧".

# Formatting

Translations can include placeholders that are processed by Go's standard
text/template package. Provide substitutions as alternating key-value pairs:

	i18n.Tr(ctx, "© {{.Year}} {{.Site}}", "Year", year, "Site", name)
*/
package i18n
