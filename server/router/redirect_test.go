// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// Copyright 2025, the Webko site contributors
// SPDX-License-Identifier: AGPL-3.0-only

package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/webko/site/core/cms"
	"codeberg.org/webko/site/i18n"
	"codeberg.org/webko/site/server/routes"
)

// emptyCMS has no documents at all.
type emptyCMS struct{}

func (emptyCMS) GetNavigation(context.Context, string, string) (*cms.Navigation, error) {
	return nil, cms.ErrNotFound
}

func (emptyCMS) GetFooter(context.Context, string, string) (*cms.Footer, error) {
	return nil, cms.ErrNotFound
}

func (emptyCMS) GetPagesForFooter(context.Context, string, string) ([]cms.FooterPage, error) {
	return nil, nil
}

func (emptyCMS) GetTheme(context.Context) (*cms.Theme, error) { return nil, cms.ErrNotFound }

func (emptyCMS) GetLanguages(context.Context) (*cms.Languages, error) { return nil, cms.ErrNotFound }

func (emptyCMS) GetSiteSettings(context.Context, string) (*cms.SiteSettings, error) {
	return nil, cms.ErrNotFound
}

func (emptyCMS) GetUIStrings(context.Context, string) (*cms.UIStrings, error) {
	return nil, nil //nolint:nilnil // no UI strings global
}

func (emptyCMS) GetChildPagesByParentID(context.Context, cms.PageID, string, string) ([]cms.ChildPage, error) {
	return nil, nil
}

func (emptyCMS) GetPageByPath(context.Context, string, string, string) (*cms.Page, error) {
	return nil, cms.ErrNotFound
}

func (emptyCMS) ListPages(context.Context, string) ([]cms.PageSummary, error) { return nil, nil }

func newTestRouter(t *testing.T) *Router {
	t.Helper()

	cfg, err := i18n.NewConfig(i18n.ConfigOptions{
		Enabled:       true,
		Locales:       []string{"en", "mk"},
		DefaultLocale: "en",
	})
	require.NoError(t, err)
	require.NoError(t, i18n.Setup(cfg, fstest.MapFS{}))

	prev := routes.CMS
	routes.CMS = emptyCMS{}

	t.Cleanup(func() { routes.CMS = prev })

	return New(fstest.MapFS{
		"robots.txt":   {Data: []byte("User-agent: *\n")},
		"css/site.css": {Data: []byte("body{}")},
	})
}

func TestRoutes(t *testing.T) {
	router := newTestRouter(t)

	tests := []struct {
		name         string
		target       string
		header       http.Header
		wantStatus   int
		wantLocation string
	}{
		{name: "robots", target: "/robots.txt", wantStatus: http.StatusOK},
		{name: "stylesheet", target: "/css/site.css", wantStatus: http.StatusOK},
		{name: "missing asset", target: "/css/missing.css", wantStatus: http.StatusNotFound},
		{
			name:         "root picks a locale",
			target:       "/",
			header:       http.Header{"Accept-Language": {"mk"}},
			wantStatus:   http.StatusTemporaryRedirect,
			wantLocation: "/mk/",
		},
		{
			name:         "unprefixed page",
			target:       "/about?ref=x",
			wantStatus:   http.StatusTemporaryRedirect,
			wantLocation: "/en/about?ref=x",
		},
		{
			name:         "bare locale is normalized first",
			target:       "/mk",
			wantStatus:   http.StatusPermanentRedirect,
			wantLocation: "/mk/",
		},
		{
			name:         "short unprefixed page",
			target:       "/faq",
			wantStatus:   http.StatusTemporaryRedirect,
			wantLocation: "/en/faq",
		},
		{
			name:         "short page with a trailing slash",
			target:       "/seo/",
			wantStatus:   http.StatusPermanentRedirect,
			wantLocation: "/seo",
		},
		{name: "unknown locale", target: "/de/about", wantStatus: http.StatusNotFound},
		{name: "CMS miss", target: "/en/nowhere", wantStatus: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.target, nil)
			for k, v := range tt.header {
				req.Header[k] = v
			}

			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, req)

			assert.Equal(t, tt.wantStatus, rr.Code)
			assert.Equal(t, tt.wantLocation, rr.Header().Get("Location"))
			assert.NotEmpty(t, rr.Header().Get("Content-Security-Policy"))
		})
	}
}
