// Copyright 2025, the Webko site contributors
// SPDX-License-Identifier: AGPL-3.0-only

package cms

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"codeberg.org/webko/site/core/requests"
)

// ErrNotFound is returned when the requested document does not exist.
var ErrNotFound = errors.New("cms: not found")

// Client reads from one CMS instance. It holds no per-request state and is
// safe for concurrent use.
type Client struct {
	baseURL string
	header  http.Header
}

// NewClient returns a client for the CMS at baseURL.
//
// apiKey may be empty for CMS instances with public read access.
func NewClient(baseURL, apiKey string) *Client {
	header := http.Header{}
	if apiKey != "" {
		header.Set("Authorization", "users API-Key "+apiKey)
	}

	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		header:  header,
	}
}

// endpoint builds the URL of an API path with the given query.
func (c *Client) endpoint(path string, query url.Values) string {
	u := c.baseURL + "/api/" + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	return u
}

// localized returns the query parameters of a localized read.
func localized(locale, fallbackLocale string, depth int) url.Values {
	query := url.Values{}
	query.Set("depth", strconv.Itoa(depth))

	if locale != "" {
		query.Set("locale", locale)
	}

	if fallbackLocale != "" {
		query.Set("fallback-locale", fallbackLocale)
	}

	return query
}

// get fetches a document and decodes it into v.
func (c *Client) get(ctx context.Context, path string, query url.Values, v any) error {
	body, err := requests.GetJSON(ctx, c.endpoint(path, query), c.header)
	if err != nil {
		return mapError(err)
	}

	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}

	return nil
}

// getDocs fetches a collection and decodes its docs array into v.
func (c *Client) getDocs(ctx context.Context, path string, query url.Values, v any) error {
	body, err := requests.GetJSON(ctx, c.endpoint(path, query), c.header)
	if err != nil {
		return mapError(err)
	}

	docs, err := requests.Docs(body)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	if err := json.Unmarshal(docs, v); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}

	return nil
}

func mapError(err error) error {
	var apiErr *requests.APIError
	if errors.As(err, &apiErr) && apiErr.IsNotFound() {
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	}

	return err
}

// GetNavigation returns the navigation global with link targets resolved.
//
// Relationships are expanded one level so that dropdown parent pages and
// internal link targets carry their slug and breadcrumbs.
func (c *Client) GetNavigation(ctx context.Context, locale, defaultLocale string) (*Navigation, error) {
	var nav Navigation
	if err := c.get(ctx, "globals/navigation", localized(locale, defaultLocale, 1), &nav); err != nil {
		return nil, fmt.Errorf("navigation: %w", err)
	}

	for i := range nav.Items {
		item := &nav.Items[i]

		if item.Type == NavItemLink {
			item.Href = resolveHref(locale, item.LinkType, item.URL, item.Page)
		}

		resolveLinks(locale, item.Children)
	}

	return &nav, nil
}

// GetFooter returns the footer global with link targets resolved.
func (c *Client) GetFooter(ctx context.Context, locale, defaultLocale string) (*Footer, error) {
	var footer Footer
	if err := c.get(ctx, "globals/footer", localized(locale, defaultLocale, 1), &footer); err != nil {
		return nil, fmt.Errorf("footer: %w", err)
	}

	for i := range footer.Columns {
		resolveLinks(locale, footer.Columns[i].Links)
	}

	return &footer, nil
}

// GetPagesForFooter lists the pages flagged to appear in the footer, by title.
func (c *Client) GetPagesForFooter(ctx context.Context, locale, defaultLocale string) ([]FooterPage, error) {
	query := localized(locale, defaultLocale, 0)
	query.Set("where[showInFooter][equals]", "true")
	query.Set("sort", "title")
	query.Set("pagination", "false")

	var docs []PageSummary
	if err := c.getDocs(ctx, "pages", query, &docs); err != nil {
		return nil, fmt.Errorf("footer pages: %w", err)
	}

	pages := make([]FooterPage, 0, len(docs))
	for _, doc := range docs {
		pages = append(pages, FooterPage{
			ID:       doc.ID,
			Title:    doc.Title,
			Pathname: Pathname(locale, doc.Slug, doc.Breadcrumbs),
		})
	}

	return pages, nil
}

// GetTheme returns the theme global. The theme is not localized.
func (c *Client) GetTheme(ctx context.Context) (*Theme, error) {
	var theme Theme
	if err := c.get(ctx, "globals/theme", nil, &theme); err != nil {
		return nil, fmt.Errorf("theme: %w", err)
	}

	return &theme, nil
}

// GetLanguages returns the languages collection in CMS order.
func (c *Client) GetLanguages(ctx context.Context) (*Languages, error) {
	query := url.Values{}
	query.Set("pagination", "false")

	var langs []Language
	if err := c.getDocs(ctx, "languages", query, &langs); err != nil {
		return nil, fmt.Errorf("languages: %w", err)
	}

	return &Languages{Languages: langs}, nil
}

// GetSiteSettings returns the site-settings global.
func (c *Client) GetSiteSettings(ctx context.Context, locale string) (*SiteSettings, error) {
	var settings SiteSettings
	if err := c.get(ctx, "globals/site-settings", localized(locale, "", 1), &settings); err != nil {
		return nil, fmt.Errorf("site settings: %w", err)
	}

	c.absoluteMedia(settings.Logo)
	c.absoluteMedia(settings.Favicon)

	return &settings, nil
}

// absoluteMedia makes a CMS-relative upload URL absolute.
func (c *Client) absoluteMedia(m *Media) {
	if m != nil && strings.HasPrefix(m.URL, "/") && !strings.HasPrefix(m.URL, "//") {
		m.URL = c.baseURL + m.URL
	}
}

// Origin returns the scheme and host of the CMS.
func (c *Client) Origin() string {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return ""
	}

	return u.Scheme + "://" + u.Host
}

// GetUIStrings returns the ui-strings global, or nil when the CMS has none.
func (c *Client) GetUIStrings(ctx context.Context, locale string) (*UIStrings, error) {
	var strs UIStrings

	err := c.get(ctx, "globals/ui-strings", localized(locale, "", 0), &strs)
	if errors.Is(err, ErrNotFound) {
		return nil, nil //nolint:nilnil // A missing global is not an error.
	}

	if err != nil {
		return nil, fmt.Errorf("ui strings: %w", err)
	}

	return &strs, nil
}

// GetChildPagesByParentID lists the direct children of a page in CMS order,
// with their pathnames resolved.
func (c *Client) GetChildPagesByParentID(
	ctx context.Context,
	parentID PageID,
	locale, defaultLocale string,
) ([]ChildPage, error) {
	query := localized(locale, defaultLocale, 0)
	query.Set("where[parent][equals]", strconv.Itoa(int(parentID)))
	query.Set("pagination", "false")

	var children []ChildPage
	if err := c.getDocs(ctx, "pages", query, &children); err != nil {
		return nil, fmt.Errorf("child pages of %d: %w", parentID, err)
	}

	for i := range children {
		children[i].Pathname = Pathname(locale, children[i].Slug, children[i].Breadcrumbs)
	}

	return children, nil
}

// GetPageByPath returns the page served at path, which is given without the
// locale prefix. The empty path is the home page.
//
// Returns ErrNotFound when no page has that path.
func (c *Client) GetPageByPath(ctx context.Context, path, locale, defaultLocale string) (*Page, error) {
	path = strings.Trim(path, "/")

	query := localized(locale, defaultLocale, 1)
	query.Set("where[slug][equals]", slugFromPath(path))
	query.Set("pagination", "false")

	var candidates []Page
	if err := c.getDocs(ctx, "pages", query, &candidates); err != nil {
		return nil, fmt.Errorf("page %q: %w", path, err)
	}

	// Slugs are only unique among siblings.
	for i := range candidates {
		page := &candidates[i]
		if pagePath(page.Slug, page.Breadcrumbs) != path {
			continue
		}

		page.Pathname = LocalizedPath(locale, path)

		return page, nil
	}

	return nil, fmt.Errorf("page %q: %w", path, ErrNotFound)
}

// ListPages lists every page with its localized pathname.
func (c *Client) ListPages(ctx context.Context, locale string) ([]PageSummary, error) {
	query := localized(locale, "", 0)
	query.Set("pagination", "false")
	query.Set("sort", "slug")

	var pages []PageSummary
	if err := c.getDocs(ctx, "pages", query, &pages); err != nil {
		return nil, fmt.Errorf("pages: %w", err)
	}

	for i := range pages {
		pages[i].Pathname = Pathname(locale, pages[i].Slug, pages[i].Breadcrumbs)
	}

	return pages, nil
}

func resolveLinks(locale string, links []NavLink) {
	for i := range links {
		links[i].Href = resolveHref(locale, links[i].LinkType, links[i].URL, links[i].Page)
	}
}

// resolveHref returns the target of a link. Internal links to pages that were
// not expanded cannot be resolved and yield "".
func resolveHref(locale string, linkType LinkType, rawURL string, page *PageRef) string {
	if linkType == LinkInternal || (linkType == "" && rawURL == "") {
		if !page.Expanded() {
			return ""
		}

		return Pathname(locale, page.Page.Slug, page.Page.Breadcrumbs)
	}

	return rawURL
}
