// Copyright 2025, the Webko site contributors
// SPDX-License-Identifier: AGPL-3.0-only

package shell

import (
	"context"

	"codeberg.org/webko/site/core/cms"
)

// Source is the subset of the CMS client the shell reads from.
//
// *cms.Client implements it.
type Source interface {
	GetNavigation(ctx context.Context, locale, defaultLocale string) (*cms.Navigation, error)
	GetFooter(ctx context.Context, locale, defaultLocale string) (*cms.Footer, error)
	GetPagesForFooter(ctx context.Context, locale, defaultLocale string) ([]cms.FooterPage, error)
	GetTheme(ctx context.Context) (*cms.Theme, error)
	GetLanguages(ctx context.Context) (*cms.Languages, error)
	GetSiteSettings(ctx context.Context, locale string) (*cms.SiteSettings, error)
	GetUIStrings(ctx context.Context, locale string) (*cms.UIStrings, error)
	GetChildPagesByParentID(
		ctx context.Context,
		parentID cms.PageID,
		locale, defaultLocale string,
	) ([]cms.ChildPage, error)
}

var _ Source = (*cms.Client)(nil)
