// Copyright 2025, the Webko site contributors
// SPDX-License-Identifier: AGPL-3.0-only

package views

import (
	"context"
	"io"

	"github.com/a-h/templ"

	"codeberg.org/webko/site/core/cms"
	"codeberg.org/webko/site/server/template"
)

// DefaultTemplate is used for pages without a known template name.
const DefaultTemplate = "default"

// TemplateProps is what every page template receives.
type TemplateProps struct {
	Page         *cms.Page
	Locale       string
	SiteSettings *cms.SiteSettings
	// Body is the page content as sanitized HTML.
	Body string
}

// PageTemplate renders the main region of a page.
type PageTemplate func(props TemplateProps) templ.Component

var pageTemplates = map[string]PageTemplate{
	DefaultTemplate: DefaultPage,
	"service":       ServicePage,
	"landing":       LandingPage,
}

// TemplateFor returns the template registered under name, or the default
// template.
func TemplateFor(name string) PageTemplate {
	if tmpl, ok := pageTemplates[name]; ok {
		return tmpl
	}

	return pageTemplates[DefaultTemplate]
}

// Page renders props with the template named by the page.
func Page(props TemplateProps) templ.Component {
	name := ""
	if props.Page != nil {
		name = props.Page.Template
	}

	return TemplateFor(name)(props)
}

// PageMeta derives the document head values of a page.
func PageMeta(page *cms.Page) Meta {
	if page == nil {
		return Meta{}
	}

	meta := Meta{Title: page.Title}

	if page.Meta != nil {
		meta.Title = firstNonEmpty(page.Meta.Title, page.Title)
		meta.Description = page.Meta.Description
	}

	if meta.Description == "" && page.ServiceData != nil && page.ServiceData.Description != nil {
		meta.Description = *page.ServiceData.Description
	}

	return meta
}

// DefaultPage renders the title and body.
func DefaultPage(props TemplateProps) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		hw := &htmlWriter{w: w}

		hw.raw(`<article class="page page--default">`)
		writePageHeader(hw, props.Page)
		writeBody(hw, props.Body)
		hw.raw(`</article>`)

		return hw.err
	})
}

// ServicePage renders a service with its icon and summary above the body.
func ServicePage(props TemplateProps) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		hw := &htmlWriter{w: w}

		hw.raw(`<article class="page page--service">`)

		var data *cms.ServiceData
		if props.Page != nil {
			data = props.Page.ServiceData
		}

		if data != nil {
			if data.Icon != nil {
				hw.raw(template.RenderIcon(*data.Icon, "page__icon"))
			}

			writePageHeader(hw, props.Page)

			if data.Description != nil && *data.Description != "" {
				hw.raw(`<p class="page__lead">`)
				hw.text(*data.Description)
				hw.raw(`</p>`)
			}
		} else {
			writePageHeader(hw, props.Page)
		}

		writeBody(hw, props.Body)
		hw.raw(`</article>`)

		return hw.err
	})
}

// LandingPage renders a hero with the site tagline, then the body.
func LandingPage(props TemplateProps) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		hw := &htmlWriter{w: w}

		hw.raw(`<article class="page page--landing"><section class="page__hero">`)
		writePageHeader(hw, props.Page)

		if props.SiteSettings != nil && props.SiteSettings.Tagline != "" {
			hw.raw(`<p class="page__lead">`)
			hw.text(props.SiteSettings.Tagline)
			hw.raw(`</p>`)
		}

		hw.raw(`</section>`)
		writeBody(hw, props.Body)
		hw.raw(`</article>`)

		return hw.err
	})
}

func writePageHeader(hw *htmlWriter, page *cms.Page) {
	if page == nil || page.Title == "" {
		return
	}

	hw.raw(`<h1 class="page__title">`)
	hw.text(page.Title)
	hw.raw(`</h1>`)
}

// writeBody writes HTML that richtext has already sanitized.
func writeBody(hw *htmlWriter, body string) {
	if body == "" {
		return
	}

	hw.raw(`<div class="page__body">`, body, `</div>`)
}
