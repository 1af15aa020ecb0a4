// Copyright 2025, the Webko site contributors
// SPDX-License-Identifier: AGPL-3.0-only

package views

import (
	"context"
	"io"

	"github.com/a-h/templ"
	"golang.org/x/text/language"

	"codeberg.org/webko/site/config"
	"codeberg.org/webko/site/core/cms"
	"codeberg.org/webko/site/core/shell"
	"codeberg.org/webko/site/core/theme"
	"codeberg.org/webko/site/i18n"
	"codeberg.org/webko/site/server/request_context"
	"codeberg.org/webko/site/server/template"
)

// MessagesScriptID is the id of the JSON script holding client-side translations.
const MessagesScriptID = "i18n-messages"

// Meta holds the per-page values of the document head.
type Meta struct {
	Title       string
	Description string
}

type metaKeyType struct{}

var metaKey = metaKeyType{}

// WithMeta attaches page metadata for the [Shell] to render.
func WithMeta(ctx context.Context, meta Meta) context.Context {
	return context.WithValue(ctx, metaKey, meta)
}

func metaFrom(ctx context.Context) Meta {
	meta, _ := ctx.Value(metaKey).(Meta)

	return meta
}

// Shell renders the full document for a localized page with content as the
// main region.
//
// The locale tag of data is installed in the render context, so content and
// every region translate into it.
func Shell(data *shell.Data, content templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		ctx = i18n.WithTag(ctx, language.Make(data.Locale))

		c := data.Content
		if c == nil {
			c = &shell.Content{}
		}

		settings := c.SiteSettings
		if settings == nil {
			settings = &cms.SiteSettings{}
		}

		hw := &htmlWriter{w: w}

		hw.raw("<!DOCTYPE html>\n<html")
		hw.attr("lang", data.Locale)
		hw.raw(">")

		writeHead(ctx, hw, data, c, settings)

		hw.raw(`<body class="site" style="font-family:var(--font-sans)">`)

		hw.raw(`<div data-i18n-scope`)
		hw.attr("data-locale", data.Locale)
		hw.raw(">")
		hw.component(ctx, templ.JSONScript(MessagesScriptID, i18n.Messages(ctx, i18n.ClientMessages...)))

		hw.component(ctx, Navigation(NavigationProps{
			Navigation:   c.Navigation,
			SiteSettings: settings,
			Dropdowns:    data.Dropdowns,
			Languages:    data.Switcher,
			Strings:      navigationStrings(c.UIStrings),
			Locale:       data.Locale,
			Style:        navigationStyle(c),
			CurrentPath:  request_context.FromContext(ctx).CommonData.CurrentPath,
		}))

		hw.raw(`<main id="main" class="site-main">`)
		hw.component(ctx, content)
		hw.raw(`</main>`)

		hw.component(ctx, Footer(FooterProps{
			Footer:       c.Footer,
			FooterPages:  c.FooterPages,
			SiteSettings: settings,
			Strings:      footerStrings(c.UIStrings),
		}))

		hw.raw("</div></body></html>")

		return hw.err
	})
}

func writeHead(ctx context.Context, hw *htmlWriter, data *shell.Data, c *shell.Content, settings *cms.SiteSettings) {
	meta := metaFrom(ctx)
	cd := request_context.FromContext(ctx).CommonData

	hw.raw(`<head><meta charset="utf-8">`)
	hw.raw(`<meta name="viewport" content="width=device-width, initial-scale=1">`)

	hw.raw("<title>")

	switch {
	case meta.Title != "" && settings.SiteName != "" && meta.Title != settings.SiteName:
		hw.text(meta.Title + " | " + settings.SiteName)
	default:
		hw.text(firstNonEmpty(meta.Title, settings.SiteName))
	}

	hw.raw("</title>")

	if description := firstNonEmpty(meta.Description, settings.Tagline); description != "" {
		hw.raw(`<meta name="description"`)
		hw.attr("content", description)
		hw.raw(">")
	}

	if settings.Favicon != nil && settings.Favicon.URL != "" {
		hw.raw(`<link rel="icon"`)
		hw.href(settings.Favicon.URL)
		hw.raw(">")
	}

	if cd.CurrentPath != "" {
		for _, lang := range data.Switcher {
			hw.raw(`<link rel="alternate"`)
			hw.attr("hreflang", lang.Code)
			hw.href(cd.BaseURL + template.SwitchLocalePath(cd.CurrentPath, data.Locale, lang.Code))
			hw.raw(">")
		}
	}

	hw.raw(`<link rel="stylesheet"`)
	hw.href(stylesheetURL())
	hw.raw(">")

	hw.raw(`<script defer`)
	hw.attr("src", versioned(ScriptPath))
	hw.raw("></script>")

	// theme.CSS only emits validated tokens, none of which contain '<'.
	hw.raw("<style>", theme.CSS(c.Theme), "</style>")

	hw.raw("</head>")
}

// ScriptPath is the menu toggle script shipped with the binary.
const ScriptPath = "/js/site.js"

func stylesheetURL() string {
	return versioned(config.Global.Site.Stylesheet)
}

// versioned appends the per-instance cache ID to a static asset URL.
func versioned(url string) string {
	if id := config.Global.Instance.FileServerCacheID; id != "" {
		url += "?v=" + id
	}

	return url
}

// navigationStyle prefers the navigation's own style over the theme default.
func navigationStyle(c *shell.Content) string {
	var style string

	if c.Theme != nil {
		style = c.Theme.DefaultNavigationStyle
	}

	if c.Navigation != nil && c.Navigation.Style != "" {
		style = c.Navigation.Style
	}

	return firstNonEmpty(style, "default")
}
