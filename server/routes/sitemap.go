// Copyright 2025, the Webko site contributors
// SPDX-License-Identifier: AGPL-3.0-only

package routes

import (
	"fmt"
	"net/http"
	"strings"

	"golang.org/x/sync/errgroup"

	"codeberg.org/webko/site/core/cms"
	"codeberg.org/webko/site/i18n"
	"codeberg.org/webko/site/server/request_context"
)

// Sitemap lists the absolute URL of every locale root and every page in
// every routable locale, one per line.
func Sitemap(w http.ResponseWriter, r *http.Request) error {
	params := i18n.Locales().StaticParams()
	pages := make([][]cms.PageSummary, len(params))

	g, gctx := errgroup.WithContext(r.Context())

	for i, param := range params {
		g.Go(func() error {
			list, err := CMS.ListPages(gctx, param.Locale)
			if err != nil {
				return fmt.Errorf("sitemap %s: %w", param.Locale, err)
			}

			pages[i] = list

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	base := request_context.FromRequest(r).CommonData.BaseURL
	seen := make(map[string]struct{})

	var b strings.Builder

	add := func(pathname string) {
		if _, ok := seen[pathname]; ok {
			return
		}

		seen[pathname] = struct{}{}

		b.WriteString(base)
		b.WriteString(pathname)
		b.WriteByte('\n')
	}

	for i, param := range params {
		add(cms.LocalizedPath(param.Locale, ""))

		for _, page := range pages[i] {
			add(page.Pathname)
		}
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")

	_, err := w.Write([]byte(b.String()))

	return err
}
