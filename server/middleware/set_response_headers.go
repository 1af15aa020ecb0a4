// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// Copyright 2025, the Webko site contributors
// SPDX-License-Identifier: AGPL-3.0-only

package middleware

import (
	"maps"
	"net/http"
	"net/url"
	"strings"
	"sync/atomic"

	"codeberg.org/webko/site/config"
)

var (
	// baseHeaders defines the default headers to be set in responses.
	//
	// Site-Version and Site-Revision are added dynamically in SetResponseHeaders.
	baseHeaders = http.Header{
		"Referrer-Policy":        {"strict-origin-when-cross-origin"},
		"X-Frame-Options":        {"DENY"},
		"X-Content-Type-Options": {"nosniff"},
		"Permissions-Policy":     {strings.Join(defaultPermissionsPolicy, ", ")},
	}

	// baseCSP defines static CSP directives that don't change.
	baseCSP = []string{
		"base-uri 'self'",
		"default-src 'self'",
		"script-src 'self'",
		// The theme is emitted as an inline <style> element.
		"style-src 'self' 'unsafe-inline'",
		"font-src 'self'",
		"connect-src 'self'",
		"form-action 'self'",
		"frame-ancestors 'none'",
	}

	defaultPermissionsPolicy = []string{
		"accelerometer=()",
		"camera=()",
		"display-capture=()",
		"geolocation=()",
		"gyroscope=()",
		"magnetometer=()",
		"microphone=()",
		"payment=()",
		"usb=()",
	}
)

// SetResponseHeaders adds default headers to HTTP responses.
//
// Handlers may override Cache-Control; the default here only suits assets
// and responses that never set their own.
func SetResponseHeaders(w http.ResponseWriter, r *http.Request, next http.Handler) {
	headers := w.Header()

	maps.Insert(headers, maps.All(baseHeaders))

	if config.Global.Development.InDevelopment {
		invalidateCacheInDevelopment(headers)
	}

	setCacheControl(headers, r.URL.Path)

	headers.Set("Site-Version", config.BuildVersion)
	headers.Set("Site-Revision", config.Global.Build.Revision())
	headers.Set("Content-Security-Policy", buildCSP(config.Global.CMS.BaseURL))

	next.ServeHTTP(w, r)
}

var clearedDevCache atomic.Bool

// invalidateCacheInDevelopment clears the browser cache once per process.
func invalidateCacheInDevelopment(headers http.Header) {
	if clearedDevCache.CompareAndSwap(false, true) {
		headers.Set("Clear-Site-Data", `"cache"`)
	}
}

// setCacheControl sets appropriate cache control headers for static assets.
func setCacheControl(headers http.Header, path string) {
	// Default to only storing in the browser cache and forcing revalidation.
	cacheDuration := "private, no-cache"

	switch {
	// Icons rarely change (1 month).
	case strings.HasPrefix(path, "/icons/"):
		cacheDuration = "max-age=2592000"

	// Stylesheets and scripts are versioned by ?v= (1 week).
	case strings.HasPrefix(path, "/css/"), strings.HasPrefix(path, "/js/"):
		cacheDuration = "max-age=604800"

	// robots.txt and sitemap.txt (1 day).
	case strings.HasSuffix(path, ".txt"):
		cacheDuration = "max-age=86400"
	}

	headers.Set("Cache-Control", cacheDuration)
}

// buildCSP allows images from the CMS origin even when it is served over
// plain HTTP, as CMS instances often are in development.
func buildCSP(cmsBaseURL string) string {
	imgSrc := "img-src 'self' data: https:"

	if u, err := url.Parse(cmsBaseURL); err == nil && u.Scheme != "" && u.Host != "" {
		imgSrc += " " + u.Scheme + "://" + u.Host
	}

	directives := append(baseCSP[:len(baseCSP):len(baseCSP)], imgSrc)

	return strings.Join(directives, "; ") + ";"
}
