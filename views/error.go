// Copyright 2025, the Webko site contributors
// SPDX-License-Identifier: AGPL-3.0-only

package views

import (
	"context"
	"io"
	"net/http"
	"strconv"

	"github.com/a-h/templ"

	"codeberg.org/webko/site/i18n"
)

// ErrorData describes a failed request.
type ErrorData struct {
	StatusCode int
	// Error is shown only in development.
	Error     string
	RequestID string
	// HomeHref links back to the locale root.
	HomeHref string
}

// ErrorPage renders a standalone error document.
func ErrorPage(data ErrorData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		hw := &htmlWriter{w: w}

		title := i18n.Tr(ctx, "Something went wrong. Please try again.")
		if data.StatusCode == http.StatusNotFound {
			title = i18n.Tr(ctx, "Page not found")
		}

		hw.raw("<!DOCTYPE html>\n<html")
		hw.attr("lang", i18n.TagFrom(ctx).String())
		hw.raw(`><head><meta charset="utf-8">`)
		hw.raw(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
		hw.raw(`<meta name="robots" content="noindex">`)
		hw.raw("<title>")
		hw.text(strconv.Itoa(data.StatusCode) + " " + title)
		hw.raw("</title>")
		hw.raw(`<link rel="stylesheet"`)
		hw.href(stylesheetURL())
		hw.raw(`></head><body class="site site--error"><main id="main" class="error-page">`)

		hw.raw(`<p class="error-page__status">`)
		hw.text(strconv.Itoa(data.StatusCode))
		hw.raw(`</p><h1>`)
		hw.text(title)
		hw.raw(`</h1>`)

		if data.Error != "" {
			hw.raw(`<pre class="error-page__detail">`)
			hw.text(data.Error)
			hw.raw(`</pre>`)
		}

		if data.RequestID != "" {
			hw.raw(`<p class="error-page__request">`)
			hw.text(i18n.Tr(ctx, "Request ID: {{.ID}}", "ID", data.RequestID))
			hw.raw(`</p>`)
		}

		hw.raw(`<a class="error-page__home"`)
		hw.href(firstNonEmpty(data.HomeHref, "/"))
		hw.raw(">")
		hw.text(i18n.Tr(ctx, "Go to the home page"))
		hw.raw(`</a></main></body></html>`)

		return hw.err
	})
}
