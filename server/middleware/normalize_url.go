// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// Copyright 2025, the Webko site contributors
// SPDX-License-Identifier: AGPL-3.0-only

package middleware

import (
	"net/http"
	"strings"

	"codeberg.org/webko/site/i18n"
)

// NormalizeURL is a middleware that permanently redirects to the canonical
// form of the request path, keeping the query string.
func NormalizeURL(w http.ResponseWriter, r *http.Request, next http.Handler) {
	if canonical := canonicalPath(r.URL.Path, isRoutingLocale); canonical != r.URL.Path {
		// Only the path changes, so the target stays on this host.
		target := *r.URL
		target.Path = canonical
		target.RawPath = ""

		http.Redirect(w, r, target.RequestURI(), http.StatusPermanentRedirect)

		return
	}

	next.ServeHTTP(w, r)
}

func isRoutingLocale(segment string) bool {
	return i18n.Locales().Validate(segment) == nil
}

// canonicalPath returns path with a single trailing slash on a locale root
// ("/en" and "/en//" become "/en/") and none anywhere else ("/en/about/"
// becomes "/en/about", "/faq/" becomes "/faq").
func canonicalPath(path string, isLocale func(string) bool) string {
	trimmed := strings.TrimRight(path, "/")

	switch {
	case trimmed == "":
		return "/"
	case strings.Count(trimmed, "/") == 1 && isLocale(trimmed[1:]):
		return trimmed + "/"
	default:
		return trimmed
	}
}
