// Copyright 2025, the Webko site contributors
// SPDX-License-Identifier: AGPL-3.0-only

package routes

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/webko/site/core/cms"
	"codeberg.org/webko/site/i18n"
	"codeberg.org/webko/site/server/request_context"
)

// stubCMS serves one page per locale and no navigation.
type stubCMS struct {
	pages map[string][]cms.PageSummary
}

func (stubCMS) GetNavigation(context.Context, string, string) (*cms.Navigation, error) {
	return &cms.Navigation{}, nil
}

func (stubCMS) GetFooter(context.Context, string, string) (*cms.Footer, error) {
	return &cms.Footer{Copyright: "© Webko"}, nil
}

func (stubCMS) GetPagesForFooter(context.Context, string, string) ([]cms.FooterPage, error) {
	return nil, nil
}

func (stubCMS) GetTheme(context.Context) (*cms.Theme, error) { return &cms.Theme{}, nil }

func (stubCMS) GetLanguages(context.Context) (*cms.Languages, error) {
	return &cms.Languages{Languages: []cms.Language{
		{Code: "en", Label: "English", NativeLabel: "English"},
		{Code: "mk", Label: "Macedonian", NativeLabel: "Македонски"},
	}}, nil
}

func (stubCMS) GetSiteSettings(context.Context, string) (*cms.SiteSettings, error) {
	return &cms.SiteSettings{SiteName: "Webko"}, nil
}

func (stubCMS) GetUIStrings(context.Context, string) (*cms.UIStrings, error) {
	return nil, nil //nolint:nilnil // no UI strings global
}

func (stubCMS) GetChildPagesByParentID(context.Context, cms.PageID, string, string) ([]cms.ChildPage, error) {
	return nil, nil
}

func (stubCMS) GetPageByPath(_ context.Context, path, locale, _ string) (*cms.Page, error) {
	if path != "" && path != "about" {
		return nil, cms.ErrNotFound
	}

	return &cms.Page{
		ID:            1,
		Title:         "About " + locale,
		Slug:          "about",
		Content:       "# Hello\n\n<script>alert(1)</script>",
		ContentFormat: cms.ContentMarkdown,
		Pathname:      cms.LocalizedPath(locale, path),
	}, nil
}

func (s stubCMS) ListPages(_ context.Context, locale string) ([]cms.PageSummary, error) {
	return s.pages[locale], nil
}

func setup(t *testing.T) {
	t.Helper()

	cfg, err := i18n.NewConfig(i18n.ConfigOptions{
		Enabled:       true,
		Locales:       []string{"en", "mk"},
		DefaultLocale: "en",
	})
	require.NoError(t, err)
	require.NoError(t, i18n.Setup(cfg, fstest.MapFS{}))

	prev := CMS
	CMS = stubCMS{pages: map[string][]cms.PageSummary{
		"en": {{ID: 1, Slug: "about", Pathname: "/en/about"}, {ID: 2, Slug: "home", Pathname: "/en/"}},
		"mk": {{ID: 1, Slug: "about", Pathname: "/mk/about"}},
	}}

	t.Cleanup(func() { CMS = prev })
}

func newRequest(target string) *http.Request {
	r := httptest.NewRequest(http.MethodGet, target, nil)

	return r.WithContext(request_context.WithRequestContext(r.Context(), r))
}

func TestLocalizedPage(t *testing.T) {
	setup(t)

	r := newRequest("/mk/about")
	r.SetPathValue("locale", "mk")
	r.SetPathValue("path", "about")

	w := httptest.NewRecorder()
	require.NoError(t, LocalizedPage(w, r))

	assert.Equal(t, "mk", w.Header().Get("Content-Language"))
	assert.Equal(t, "private, no-cache", w.Header().Get("Cache-Control"))
	assert.Contains(t, w.Header().Get("Set-Cookie"), i18n.LocaleCookie+"=mk")
	assert.Equal(t, "mk", request_context.FromRequest(r).Locale)

	doc, err := goquery.NewDocumentFromReader(w.Body)
	require.NoError(t, err)

	assert.Equal(t, "mk", doc.Find("html").AttrOr("lang", ""))
	assert.Contains(t, doc.Find("title").Text(), "About mk")
	require.Equal(t, 1, doc.Find("main h1").Length())
	assert.Equal(t, "About mk", doc.Find("main h1").Text())
	assert.Equal(t, "Hello", doc.Find("main .page__body h2").Text())
	assert.Zero(t, doc.Find("main script").Length())
}

func TestLocalizedPageKnownCookieIsCacheable(t *testing.T) {
	setup(t)

	r := newRequest("/en/")
	r.SetPathValue("locale", "en")
	r.AddCookie(&http.Cookie{Name: i18n.LocaleCookie, Value: "en"})

	w := httptest.NewRecorder()
	require.NoError(t, LocalizedPage(w, r))

	assert.Empty(t, w.Header().Get("Set-Cookie"))
	assert.True(t, strings.HasPrefix(w.Header().Get("Cache-Control"), "public, "))
}

func TestLocalizedPageErrors(t *testing.T) {
	setup(t)

	tests := []struct {
		name    string
		locale  string
		path    string
		wantErr error
	}{
		{name: "unknown locale", locale: "de", path: "about", wantErr: i18n.ErrUnknownLocale},
		{name: "missing page", locale: "en", path: "nowhere", wantErr: cms.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newRequest("/" + tt.locale + "/" + tt.path)
			r.SetPathValue("locale", tt.locale)
			r.SetPathValue("path", tt.path)

			w := httptest.NewRecorder()
			require.ErrorIs(t, LocalizedPage(w, r), tt.wantErr)
			assert.Zero(t, w.Body.Len())
		})
	}
}

func TestRootRedirect(t *testing.T) {
	setup(t)

	r := newRequest("/")
	r.Header.Set("Accept-Language", "mk-MK, en;q=0.5")

	w := httptest.NewRecorder()
	require.NoError(t, RootRedirect(w, r))

	assert.Equal(t, http.StatusTemporaryRedirect, w.Code)
	assert.Equal(t, "/mk/", w.Header().Get("Location"))
	assert.Contains(t, w.Header().Get("Vary"), "Accept-Language")
}

func TestSitemap(t *testing.T) {
	setup(t)

	r := newRequest("http://example.com/sitemap.txt")

	w := httptest.NewRecorder()
	require.NoError(t, Sitemap(w, r))

	assert.Equal(t, "text/plain; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Equal(t,
		"http://example.com/en/\nhttp://example.com/en/about\nhttp://example.com/mk/\nhttp://example.com/mk/about\n",
		w.Body.String())
}

func TestErrorPage(t *testing.T) {
	setup(t)

	r := newRequest("/en/missing")
	rc := request_context.FromRequest(r)
	rc.StatusCode = http.StatusNotFound
	rc.Locale = "en"

	w := httptest.NewRecorder()
	ErrorPage(w, r)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))

	doc, err := goquery.NewDocumentFromReader(w.Body)
	require.NoError(t, err)
	assert.Equal(t, "/en/", doc.Find(`a[href="/en/"]`).AttrOr("href", ""))
}
