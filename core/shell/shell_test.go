// Copyright 2025, the Webko site contributors
// SPDX-License-Identifier: AGPL-3.0-only

package shell

import (
	"context"
	"errors"
	"maps"
	"slices"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/webko/site/core/cms"
	"codeberg.org/webko/site/i18n"
)

var errBoom = errors.New("boom")

// fakeSource serves fixed documents and counts every call.
type fakeSource struct {
	nav      *cms.Navigation
	children map[cms.PageID][]cms.ChildPage
	// failing names the read that returns errBoom.
	failing string

	fetches       atomic.Int32
	childrenCalls atomic.Int32

	mu      sync.Mutex
	locales []string
}

func (f *fakeSource) record(name, locale string) error {
	f.fetches.Add(1)

	f.mu.Lock()
	f.locales = append(f.locales, locale)
	f.mu.Unlock()

	if f.failing == name {
		return errBoom
	}

	return nil
}

func (f *fakeSource) GetNavigation(_ context.Context, locale, _ string) (*cms.Navigation, error) {
	if err := f.record("navigation", locale); err != nil {
		return nil, err
	}

	return f.nav, nil
}

func (f *fakeSource) GetFooter(_ context.Context, locale, _ string) (*cms.Footer, error) {
	if err := f.record("footer", locale); err != nil {
		return nil, err
	}

	return &cms.Footer{Copyright: "© " + locale}, nil
}

func (f *fakeSource) GetPagesForFooter(_ context.Context, locale, _ string) ([]cms.FooterPage, error) {
	if err := f.record("footer pages", locale); err != nil {
		return nil, err
	}

	return []cms.FooterPage{{ID: 9, Title: "Privacy", Pathname: "/" + locale + "/privacy"}}, nil
}

func (f *fakeSource) GetTheme(context.Context) (*cms.Theme, error) {
	if err := f.record("theme", ""); err != nil {
		return nil, err
	}

	return &cms.Theme{BorderRadius: "4px"}, nil
}

func (f *fakeSource) GetLanguages(context.Context) (*cms.Languages, error) {
	if err := f.record("languages", ""); err != nil {
		return nil, err
	}

	return &cms.Languages{Languages: []cms.Language{{Code: "mk", NativeLabel: "Македонски"}}}, nil
}

func (f *fakeSource) GetSiteSettings(_ context.Context, locale string) (*cms.SiteSettings, error) {
	if err := f.record("site settings", locale); err != nil {
		return nil, err
	}

	return &cms.SiteSettings{SiteName: "Webko"}, nil
}

func (f *fakeSource) GetUIStrings(_ context.Context, locale string) (*cms.UIStrings, error) {
	if err := f.record("ui strings", locale); err != nil {
		return nil, err
	}

	return nil, nil
}

func (f *fakeSource) GetChildPagesByParentID(
	_ context.Context,
	parentID cms.PageID,
	_, _ string,
) ([]cms.ChildPage, error) {
	f.childrenCalls.Add(1)

	if f.failing == "children" {
		return nil, errBoom
	}

	return f.children[parentID], nil
}

func ptr(s string) *string { return &s }

func expanded(id cms.PageID) *cms.PageRef {
	return &cms.PageRef{ID: id, Page: &cms.PageSummary{ID: id}}
}

func testLocales(t *testing.T) *i18n.Config {
	t.Helper()

	cfg, err := i18n.NewConfig(i18n.ConfigOptions{
		Enabled:       true,
		Locales:       []string{"en", "mk"},
		DefaultLocale: "en",
		LocaleLabels:  map[string]string{"en": "English"},
	})
	require.NoError(t, err)

	return cfg
}

// mixedNavigation has one qualifying dropdown (parent 1) and several that
// must be ignored.
func mixedNavigation() *cms.Navigation {
	return &cms.Navigation{Items: []cms.NavItem{
		{Type: cms.NavItemLink, Label: "Home", Href: "/en/"},
		{Type: cms.NavItemDropdown, DropdownSource: cms.DropdownChildren, ParentPage: expanded(1)},
		{Type: cms.NavItemDropdown, DropdownSource: cms.DropdownChildren, ParentPage: &cms.PageRef{ID: 2}},
		{Type: cms.NavItemDropdown, DropdownSource: cms.DropdownChildren},
		{
			Type:           cms.NavItemDropdown,
			DropdownSource: cms.DropdownStatic,
			ParentPage:     expanded(3),
			Children:       []cms.NavLink{{Label: "Team", Href: "/en/team"}},
		},
		{Type: cms.NavItemLink, DropdownSource: cms.DropdownChildren, ParentPage: expanded(4)},
	}}
}

func TestLoadUnknownLocale(t *testing.T) {
	t.Parallel()

	for _, locale := range []string{"de", "", "EN", "en_US", "en/"} {
		src := &fakeSource{nav: mixedNavigation()}

		_, err := Load(context.Background(), src, testLocales(t), locale)

		require.ErrorIs(t, err, i18n.ErrUnknownLocale, locale)
		assert.Zero(t, src.fetches.Load(), locale)
		assert.Zero(t, src.childrenCalls.Load(), locale)
	}
}

func TestLoad(t *testing.T) {
	t.Parallel()

	src := &fakeSource{
		nav: mixedNavigation(),
		children: map[cms.PageID][]cms.ChildPage{
			1: {{Title: "Web", Pathname: "/mk/services/web"}},
		},
	}

	data, err := Load(context.Background(), src, testLocales(t), "mk")
	require.NoError(t, err)

	assert.Equal(t, "mk", data.Locale)
	assert.Equal(t, "en", data.DefaultLocale)
	assert.EqualValues(t, 7, src.fetches.Load())
	assert.EqualValues(t, 1, src.childrenCalls.Load())

	assert.Equal(t, "© mk", data.Content.Footer.Copyright)
	assert.Nil(t, data.Content.UIStrings)
	assert.Equal(t, DropdownChildren{1: {{Label: "Web", Href: "/mk/services/web"}}}, data.Dropdowns)

	assert.Equal(t, []LanguageOption{
		{Code: "en", Label: "English"},
		{Code: "mk", Label: "Македонски", Current: true},
	}, data.Switcher)
}

func TestFetchFailsFast(t *testing.T) {
	t.Parallel()

	for _, name := range []string{
		"navigation", "footer", "footer pages", "theme", "languages", "site settings", "ui strings",
	} {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			src := &fakeSource{nav: mixedNavigation(), failing: name}

			data, err := Load(context.Background(), src, testLocales(t), "en")

			require.ErrorIs(t, err, errBoom)
			assert.ErrorContains(t, err, "fetch "+name)
			assert.Nil(t, data)
			assert.Zero(t, src.childrenCalls.Load())
		})
	}
}

func TestResolveDropdownsChildMapping(t *testing.T) {
	t.Parallel()

	src := &fakeSource{children: map[cms.PageID][]cms.ChildPage{
		10: {
			{Title: "A", Pathname: "/a", ServiceData: &cms.ServiceData{Description: ptr("d1")}},
			{Title: "B", Pathname: "/b"},
		},
	}}
	nav := &cms.Navigation{Items: []cms.NavItem{
		{Type: cms.NavItemDropdown, DropdownSource: cms.DropdownChildren, ParentPage: expanded(10)},
	}}

	got, err := ResolveDropdowns(context.Background(), src, nav, "en", "en")
	require.NoError(t, err)

	assert.Equal(t, DropdownChildren{10: {
		{Label: "A", Href: "/a", Description: ptr("d1"), Icon: nil},
		{Label: "B", Href: "/b", Description: nil, Icon: nil},
	}}, got)
}

func TestResolveDropdownsKeySubset(t *testing.T) {
	t.Parallel()

	src := &fakeSource{children: map[cms.PageID][]cms.ChildPage{
		1: {{Title: "One"}},
		2: {{Title: "Two"}},
		3: {{Title: "Three"}},
		4: {{Title: "Four"}},
	}}

	got, err := ResolveDropdowns(context.Background(), src, mixedNavigation(), "en", "en")
	require.NoError(t, err)

	keys := slices.Collect(maps.Keys(got))
	assert.Equal(t, []cms.PageID{1}, keys)
	assert.EqualValues(t, 1, src.childrenCalls.Load())
}

func TestResolveDropdownsStaticNeverResolved(t *testing.T) {
	t.Parallel()

	src := &fakeSource{children: map[cms.PageID][]cms.ChildPage{5: {{Title: "X"}}}}
	nav := &cms.Navigation{Items: []cms.NavItem{
		{
			Type:           cms.NavItemDropdown,
			DropdownSource: cms.DropdownStatic,
			ParentPage:     expanded(5),
			Children:       []cms.NavLink{{Label: "Y"}},
		},
	}}

	got, err := ResolveDropdowns(context.Background(), src, nav, "en", "en")
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Zero(t, src.childrenCalls.Load())
}

func TestResolveDropdownsNilNavigation(t *testing.T) {
	t.Parallel()

	got, err := ResolveDropdowns(context.Background(), &fakeSource{}, nil, "en", "en")
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestResolveDropdownsDeduplicatesParents(t *testing.T) {
	t.Parallel()

	src := &fakeSource{children: map[cms.PageID][]cms.ChildPage{1: {{Title: "One"}}}}
	nav := &cms.Navigation{Items: []cms.NavItem{
		{Type: cms.NavItemDropdown, DropdownSource: cms.DropdownChildren, ParentPage: expanded(1)},
		{Type: cms.NavItemDropdown, DropdownSource: cms.DropdownChildren, ParentPage: expanded(1)},
	}}

	got, err := ResolveDropdowns(context.Background(), src, nav, "en", "en")
	require.NoError(t, err)
	assert.Len(t, got, 1)
	assert.EqualValues(t, 1, src.childrenCalls.Load())
}

func TestResolveDropdownsFailure(t *testing.T) {
	t.Parallel()

	src := &fakeSource{failing: "children"}

	got, err := ResolveDropdowns(context.Background(), src, mixedNavigation(), "en", "en")
	require.ErrorIs(t, err, errBoom)
	assert.Nil(t, got)
}

func TestLoadIsIdempotent(t *testing.T) {
	t.Parallel()

	src := &fakeSource{
		nav: &cms.Navigation{Items: []cms.NavItem{
			{Type: cms.NavItemDropdown, DropdownSource: cms.DropdownChildren, ParentPage: expanded(1)},
			{Type: cms.NavItemDropdown, DropdownSource: cms.DropdownChildren, ParentPage: expanded(2)},
		}},
		children: map[cms.PageID][]cms.ChildPage{
			1: {{Title: "A", Pathname: "/en/a"}, {Title: "B", Pathname: "/en/b"}},
			2: {{Title: "C", Pathname: "/en/c", ServiceData: &cms.ServiceData{Icon: ptr("star")}}},
		},
	}
	locales := testLocales(t)

	first, err := Load(context.Background(), src, locales, "en")
	require.NoError(t, err)

	second, err := Load(context.Background(), src, locales, "en")
	require.NoError(t, err)

	assert.Equal(t, first.Dropdowns, second.Dropdowns)
	assert.Equal(t, first, second)
}
