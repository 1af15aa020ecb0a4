// Copyright 2025, the Webko site contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package routes contains the HTTP handlers of the site.

Handlers have the signature func(w http.ResponseWriter, r *http.Request) error
and are wrapped by middleware.CatchError, which renders the error page for
returned errors.
*/
package routes

import (
	"context"

	"codeberg.org/webko/site/core/cms"
	"codeberg.org/webko/site/core/shell"
)

// ContentSource is everything the handlers read from the CMS.
//
// *cms.Client implements it.
type ContentSource interface {
	shell.Source
	GetPageByPath(ctx context.Context, path, locale, defaultLocale string) (*cms.Page, error)
	ListPages(ctx context.Context, locale string) ([]cms.PageSummary, error)
}

var _ ContentSource = (*cms.Client)(nil)

// CMS is the content source used by the handlers. It is set once at startup.
var CMS ContentSource
