// Copyright 2025, the Webko site contributors
// SPDX-License-Identifier: AGPL-3.0-only

package cms

import "strings"

// HomeSlug is the slug of the page served at the locale root.
const HomeSlug = "home"

// LocalizedPath prefixes path with the locale segment.
//
// The locale root is "/{locale}/"; other paths have no trailing slash.
func LocalizedPath(locale, path string) string {
	path = strings.Trim(path, "/")
	if path == "" {
		return "/" + locale + "/"
	}

	return "/" + locale + "/" + path
}

// pagePath returns the unlocalized path of a page: the URL of its last
// breadcrumb when present, else its slug. The home page maps to the root.
func pagePath(slug string, breadcrumbs []Breadcrumb) string {
	if slug == HomeSlug {
		return ""
	}

	if n := len(breadcrumbs); n > 0 && breadcrumbs[n-1].URL != "" {
		return strings.Trim(breadcrumbs[n-1].URL, "/")
	}

	return strings.Trim(slug, "/")
}

// Pathname returns the localized pathname of a page.
func Pathname(locale, slug string, breadcrumbs []Breadcrumb) string {
	return LocalizedPath(locale, pagePath(slug, breadcrumbs))
}

// slugFromPath returns the slug a path's page must have: its last segment,
// or HomeSlug for the root.
func slugFromPath(path string) string {
	path = strings.Trim(path, "/")
	if path == "" {
		return HomeSlug
	}

	if i := strings.LastIndexByte(path, '/'); i >= 0 {
		return path[i+1:]
	}

	return path
}
