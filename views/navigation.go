// Copyright 2025, the Webko site contributors
// SPDX-License-Identifier: AGPL-3.0-only

package views

import (
	"context"
	"io"

	"github.com/a-h/templ"

	"codeberg.org/webko/site/core/cms"
	"codeberg.org/webko/site/core/shell"
	"codeberg.org/webko/site/i18n"
	"codeberg.org/webko/site/server/template"
)

// NavigationProps is everything the navigation region renders.
type NavigationProps struct {
	Navigation   *cms.Navigation
	SiteSettings *cms.SiteSettings
	Dropdowns    shell.DropdownChildren
	Languages    []shell.LanguageOption
	Strings      cms.NavigationStrings
	Locale       string
	Style        string
	CurrentPath  string
}

func navigationStrings(strs *cms.UIStrings) cms.NavigationStrings {
	if strs == nil {
		return cms.NavigationStrings{}
	}

	return strs.Navigation
}

// navLink is a link entry of a dropdown, from either source.
type navLink struct {
	label       string
	href        string
	newTab      bool
	description *string
	icon        *string
}

// Navigation renders the site header: brand, menu, dropdowns and the
// language switcher.
func Navigation(p NavigationProps) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		hw := &htmlWriter{w: w}

		settings := p.SiteSettings
		if settings == nil {
			settings = &cms.SiteSettings{}
		}

		hw.raw(`<a class="skip-link" href="#main">`)
		hw.text(firstNonEmpty(p.Strings.SkipToContent, i18n.Tr(ctx, "Skip to content")))
		hw.raw(`</a>`)

		hw.raw(`<header`)
		hw.attr("class", classes("site-header", "site-header--"+p.Style))
		hw.raw(`><nav class="site-nav"`)
		hw.attr("aria-label", i18n.Tr(ctx, "Main"))
		hw.raw(">")

		hw.raw(`<a class="site-nav__brand"`)
		hw.href(cms.LocalizedPath(p.Locale, ""))
		hw.raw(">")

		if settings.Logo != nil && settings.Logo.URL != "" {
			hw.raw(`<img`)
			hw.attr("src", string(templ.URL(settings.Logo.URL)))
			hw.attr("alt", firstNonEmpty(settings.Logo.Alt, settings.SiteName))
			hw.raw(">")
		}

		hw.raw(`<span>`)
		hw.text(settings.SiteName)
		hw.raw(`</span></a>`)

		openLabel := firstNonEmpty(p.Strings.OpenMenu, i18n.Tr(ctx, "Open menu"))
		closeLabel := firstNonEmpty(p.Strings.CloseMenu, i18n.Tr(ctx, "Close menu"))

		hw.raw(`<button type="button" class="site-nav__toggle" aria-expanded="false" aria-controls="site-nav-menu"`)
		hw.attr("data-open-label", openLabel)
		hw.attr("data-close-label", closeLabel)
		hw.raw(">")
		hw.text(openLabel)
		hw.raw(`</button>`)

		hw.raw(`<ul id="site-nav-menu" class="site-nav__menu">`)

		if p.Navigation != nil {
			for _, item := range p.Navigation.Items {
				writeNavItem(hw, p, item)
			}
		}

		hw.raw(`</ul>`)

		writeLanguageSwitcher(ctx, hw, p)

		hw.raw(`</nav></header>`)

		return hw.err
	})
}

func writeNavItem(hw *htmlWriter, p NavigationProps, item cms.NavItem) {
	switch item.Type {
	case cms.NavItemLink:
		if item.Href == "" {
			return
		}

		hw.raw(`<li class="site-nav__item">`)
		writeLink(hw, p.CurrentPath, navLink{label: item.Label, href: item.Href, newTab: item.NewTab})
		hw.raw(`</li>`)

	case cms.NavItemDropdown:
		links := dropdownLinks(p.Dropdowns, item)
		if len(links) == 0 {
			return
		}

		hw.raw(`<li class="site-nav__item site-nav__dropdown"><details><summary>`)
		hw.text(item.Label)
		hw.raw(`</summary><ul class="site-nav__submenu">`)

		for _, link := range links {
			hw.raw(`<li>`)
			writeLink(hw, p.CurrentPath, link)
			hw.raw(`</li>`)
		}

		hw.raw(`</ul></details></li>`)
	}
}

// dropdownLinks returns the entries of a dropdown: its inline children for
// static dropdowns, the resolved child pages otherwise.
func dropdownLinks(dropdowns shell.DropdownChildren, item cms.NavItem) []navLink {
	var links []navLink

	switch item.DropdownSource {
	case cms.DropdownChildren:
		if !item.ParentPage.Expanded() {
			return nil
		}

		for _, child := range dropdowns[item.ParentPage.ID] {
			links = append(links, navLink{
				label:       child.Label,
				href:        child.Href,
				description: child.Description,
				icon:        child.Icon,
			})
		}
	default:
		for _, child := range item.Children {
			if child.Href == "" {
				continue
			}

			links = append(links, navLink{
				label:       child.Label,
				href:        child.Href,
				newTab:      child.NewTab,
				description: child.Description,
				icon:        child.Icon,
			})
		}
	}

	return links
}

func writeLink(hw *htmlWriter, currentPath string, link navLink) {
	hw.raw(`<a class="site-nav__link"`)
	hw.href(link.href)

	if link.newTab {
		hw.raw(` target="_blank" rel="noopener noreferrer"`)
	}

	if template.IsCurrentSection(currentPath, link.href) {
		hw.raw(` aria-current="page"`)
	}

	hw.raw(">")

	if link.icon != nil {
		hw.raw(template.RenderIcon(*link.icon, "site-nav__icon"))
	}

	hw.raw(`<span class="site-nav__label">`)
	hw.text(link.label)
	hw.raw(`</span>`)

	if link.description != nil && *link.description != "" {
		hw.raw(`<span class="site-nav__description">`)
		hw.text(*link.description)
		hw.raw(`</span>`)
	}

	hw.raw(`</a>`)
}

func writeLanguageSwitcher(ctx context.Context, hw *htmlWriter, p NavigationProps) {
	if len(p.Languages) < 2 {
		return
	}

	hw.raw(`<div class="site-nav__languages"><span class="site-nav__languages-label">`)
	hw.text(firstNonEmpty(p.Strings.LanguageLabel, i18n.Tr(ctx, "Language")))
	hw.raw(`</span><ul>`)

	for _, lang := range p.Languages {
		hw.raw(`<li><a`)
		hw.href(template.SwitchLocalePath(p.CurrentPath, p.Locale, lang.Code))
		hw.attr("hreflang", lang.Code)
		hw.attr("lang", lang.Code)

		if lang.Current {
			hw.raw(` aria-current="true"`)
		}

		hw.raw(">")
		hw.text(lang.Label)
		hw.raw(`</a></li>`)
	}

	hw.raw(`</ul></div>`)
}
