// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// Copyright 2025, the Webko site contributors
// SPDX-License-Identifier: AGPL-3.0-only

package routes

import (
	"net/http"

	"github.com/rs/zerolog/log"

	"codeberg.org/webko/site/config"
	"codeberg.org/webko/site/core/cms"
	"codeberg.org/webko/site/i18n"
	"codeberg.org/webko/site/server/request_context"
	"codeberg.org/webko/site/views"
)

// ErrorPage writes the status line and error page for the request's
// RequestError and StatusCode. A StatusCode below 400 is written as 500.
func ErrorPage(w http.ResponseWriter, r *http.Request) {
	rc := request_context.FromRequest(r)

	if rc.StatusCode < http.StatusBadRequest {
		rc.StatusCode = http.StatusInternalServerError
	}

	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(rc.StatusCode)

	ctx := r.Context()
	home := "/"

	if rc.Locale != "" {
		ctx = i18n.WithTag(ctx, i18n.Locales().Tag(rc.Locale))
		home = cms.LocalizedPath(rc.Locale, "")
	}

	data := views.ErrorData{
		StatusCode: rc.StatusCode,
		RequestID:  rc.RequestID,
		HomeHref:   home,
	}

	if config.Global.Development.InDevelopment && rc.RequestError != nil {
		data.Error = rc.RequestError.Error()
	}

	if err := views.ErrorPage(data).Render(ctx, w); err != nil {
		log.Err(err).
			Str("request_id", rc.RequestID).
			Msg("Failed to render error page")
	}
}
