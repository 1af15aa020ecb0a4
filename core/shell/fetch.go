// Copyright 2025, the Webko site contributors
// SPDX-License-Identifier: AGPL-3.0-only

package shell

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"codeberg.org/webko/site/core/cms"
)

// Content is the result of the seven shell reads.
type Content struct {
	Navigation   *cms.Navigation
	Footer       *cms.Footer
	FooterPages  []cms.FooterPage
	Theme        *cms.Theme
	Languages    *cms.Languages
	SiteSettings *cms.SiteSettings
	// UIStrings is nil when the CMS has none; labels then come from the
	// translation catalogues.
	UIStrings *cms.UIStrings
}

// Fetch reads the navigation, footer, footer pages, theme, languages, site
// settings and UI strings concurrently.
//
// The first failure cancels the remaining reads and is returned wrapped with
// the name of the failed query. No partial result is returned.
func Fetch(ctx context.Context, src Source, locale, defaultLocale string) (*Content, error) {
	var content Content

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		nav, err := src.GetNavigation(gctx, locale, defaultLocale)
		if err != nil {
			return fmt.Errorf("fetch navigation: %w", err)
		}

		content.Navigation = nav

		return nil
	})

	g.Go(func() error {
		footer, err := src.GetFooter(gctx, locale, defaultLocale)
		if err != nil {
			return fmt.Errorf("fetch footer: %w", err)
		}

		content.Footer = footer

		return nil
	})

	g.Go(func() error {
		pages, err := src.GetPagesForFooter(gctx, locale, defaultLocale)
		if err != nil {
			return fmt.Errorf("fetch footer pages: %w", err)
		}

		content.FooterPages = pages

		return nil
	})

	g.Go(func() error {
		theme, err := src.GetTheme(gctx)
		if err != nil {
			return fmt.Errorf("fetch theme: %w", err)
		}

		content.Theme = theme

		return nil
	})

	g.Go(func() error {
		languages, err := src.GetLanguages(gctx)
		if err != nil {
			return fmt.Errorf("fetch languages: %w", err)
		}

		content.Languages = languages

		return nil
	})

	g.Go(func() error {
		settings, err := src.GetSiteSettings(gctx, locale)
		if err != nil {
			return fmt.Errorf("fetch site settings: %w", err)
		}

		content.SiteSettings = settings

		return nil
	})

	g.Go(func() error {
		strs, err := src.GetUIStrings(gctx, locale)
		if err != nil {
			return fmt.Errorf("fetch ui strings: %w", err)
		}

		content.UIStrings = strs

		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &content, nil
}
