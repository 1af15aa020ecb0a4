// Copyright 2025, the Webko site contributors
// SPDX-License-Identifier: AGPL-3.0-only

package routes

import (
	"net/http"

	"codeberg.org/webko/site/core/cms"
	"codeberg.org/webko/site/i18n"
)

// RootRedirect sends the visitor to the root of their preferred locale,
// chosen from the locale cookie and Accept-Language.
func RootRedirect(w http.ResponseWriter, r *http.Request) error {
	locale := i18n.FromRequest(i18n.Locales(), r)

	w.Header().Set("Vary", "Accept-Language, Cookie")
	http.Redirect(w, r, cms.LocalizedPath(locale, ""), http.StatusTemporaryRedirect)

	return nil
}
