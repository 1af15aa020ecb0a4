// Copyright 2025, the Webko site contributors
// SPDX-License-Identifier: AGPL-3.0-only

package routes

import (
	"fmt"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"codeberg.org/webko/site/config"
	"codeberg.org/webko/site/core/cms"
	"codeberg.org/webko/site/core/richtext"
	"codeberg.org/webko/site/core/shell"
	"codeberg.org/webko/site/i18n"
	"codeberg.org/webko/site/server/request_context"
	"codeberg.org/webko/site/server/utils"
	"codeberg.org/webko/site/views"
)

// localeCookieMaxAge is how long the visitor's locale is remembered.
const localeCookieMaxAge = 365 * 24 * time.Hour

// LocalizedPage renders the CMS page at /{locale}/{path...} inside the shell.
//
// The locale is validated before any CMS read. The shell data and the page
// are then loaded concurrently; if either fails nothing is rendered.
func LocalizedPage(w http.ResponseWriter, r *http.Request) error {
	locales := i18n.Locales()
	locale := utils.GetPathVar(r, "locale")

	if err := locales.Validate(locale); err != nil {
		return err
	}

	request_context.FromRequest(r).Locale = locale

	ctx := i18n.WithTag(r.Context(), locales.Tag(locale))
	path := utils.GetPathVar(r, "path")

	var (
		data *shell.Data
		page *cms.Page
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error

		data, err = shell.Load(gctx, CMS, locales, locale)

		return err
	})

	g.Go(func() error {
		var err error

		page, err = CMS.GetPageByPath(gctx, path, locale, locales.DefaultLocale())

		return err
	})

	if err := g.Wait(); err != nil {
		return err
	}

	body, err := richtext.HTML(page.Content, page.ContentFormat)
	if err != nil {
		return fmt.Errorf("page %d body: %w", page.ID, err)
	}

	props := views.TemplateProps{
		Page:         page,
		Locale:       locale,
		SiteSettings: data.Content.SiteSettings,
		Body:         body,
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Content-Language", locale)

	// A response carrying Set-Cookie must stay out of shared caches.
	if rememberLocale(w, r, locale) {
		w.Header().Set("Cache-Control", "private, no-cache")
	} else {
		w.Header().Set("Cache-Control", fmt.Sprintf("public, max-age=%d, stale-while-revalidate=%d",
			int(config.Global.HTTPCache.MaxAge.Seconds()),
			int(config.Global.HTTPCache.StaleWhileRevalidate.Seconds())))
	}

	ctx = views.WithMeta(ctx, views.PageMeta(page))

	return views.Shell(data, views.Page(props)).Render(ctx, w)
}

// rememberLocale sets the locale cookie unless the request already carries
// it, and reports whether it did.
func rememberLocale(w http.ResponseWriter, r *http.Request, locale string) bool {
	if c, err := r.Cookie(i18n.LocaleCookie); err == nil && c.Value == locale {
		return false
	}

	http.SetCookie(w, &http.Cookie{
		Name:     i18n.LocaleCookie,
		Value:    locale,
		Path:     "/",
		MaxAge:   int(localeCookieMaxAge.Seconds()),
		HttpOnly: true,
		Secure:   utils.IsConnectionSecure(r),
		SameSite: http.SameSiteLaxMode,
	})

	return true
}
