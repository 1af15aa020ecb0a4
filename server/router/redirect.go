// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// Copyright 2025, the Webko site contributors
// SPDX-License-Identifier: AGPL-3.0-only

// The code in this file redirects unprefixed links, such as ones shared
// before the site was localized, to the visitor's locale.

package router

import (
	"net/http"

	"codeberg.org/webko/site/core/cms"
	"codeberg.org/webko/site/i18n"
	"codeberg.org/webko/site/server/utils"
)

// redirectToLocale sends /{page} to /{locale}/{page}, picking the locale
// from the locale cookie and Accept-Language.
//
// Example:   /about?ref=x   ->   /mk/about?ref=x
func redirectToLocale(w http.ResponseWriter, r *http.Request) {
	locale := i18n.FromRequest(i18n.Locales(), r)
	target := cms.LocalizedPath(locale, utils.GetPathVar(r, "page"))

	if r.URL.RawQuery != "" {
		target += "?" + r.URL.RawQuery
	}

	w.Header().Set("Vary", "Accept-Language, Cookie")
	http.Redirect(w, r, target, http.StatusTemporaryRedirect)
}
