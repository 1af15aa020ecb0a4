// Copyright 2025, the Webko site contributors
// SPDX-License-Identifier: AGPL-3.0-only

package views

import (
	"context"
	"io"

	"github.com/a-h/templ"

	"codeberg.org/webko/site/core/cms"
	"codeberg.org/webko/site/i18n"
)

// FooterProps is everything the footer region renders.
type FooterProps struct {
	Footer       *cms.Footer
	FooterPages  []cms.FooterPage
	SiteSettings *cms.SiteSettings
	Strings      cms.FooterStrings
}

func footerStrings(strs *cms.UIStrings) cms.FooterStrings {
	if strs == nil {
		return cms.FooterStrings{}
	}

	return strs.FooterStrings
}

// Footer renders the link columns, the footer pages, contact details, social
// links and the copyright line.
func Footer(p FooterProps) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		hw := &htmlWriter{w: w}

		footer := p.Footer
		if footer == nil {
			footer = &cms.Footer{}
		}

		settings := p.SiteSettings
		if settings == nil {
			settings = &cms.SiteSettings{}
		}

		hw.raw(`<footer class="site-footer"><div class="site-footer__columns">`)

		for _, column := range footer.Columns {
			hw.raw(`<section class="site-footer__column"><h2>`)
			hw.text(column.Title)
			hw.raw(`</h2><ul>`)

			for _, link := range column.Links {
				if link.Href == "" {
					continue
				}

				writeFooterLink(hw, link.Label, link.Href, link.NewTab)
			}

			hw.raw(`</ul></section>`)
		}

		if len(p.FooterPages) > 0 {
			hw.raw(`<section class="site-footer__column site-footer__pages"><h2>`)
			hw.text(firstNonEmpty(p.Strings.PagesHeading, i18n.Tr(ctx, "Pages")))
			hw.raw(`</h2><ul>`)

			for _, page := range p.FooterPages {
				writeFooterLink(hw, page.Title, page.Pathname, false)
			}

			hw.raw(`</ul></section>`)
		}

		writeContact(ctx, hw, settings, p.Strings)

		hw.raw(`</div>`)

		social := footer.Social
		if len(social) == 0 {
			social = settings.Social
		}

		if len(social) > 0 {
			hw.raw(`<div class="site-footer__social"><span>`)
			hw.text(firstNonEmpty(p.Strings.FollowUs, i18n.Tr(ctx, "Follow us")))
			hw.raw(`</span><ul>`)

			for _, link := range social {
				hw.raw(`<li><a`)
				hw.href(link.URL)
				hw.raw(` rel="me noopener" target="_blank">`)
				hw.text(link.Platform)
				hw.raw(`</a></li>`)
			}

			hw.raw(`</ul></div>`)
		}

		hw.raw(`<p class="site-footer__copyright">`)

		if footer.Copyright != "" {
			hw.text(footer.Copyright)
		} else {
			hw.text(i18n.Tr(ctx, "© {{.Site}}. {{.Rights}}",
				"Site", settings.SiteName,
				"Rights", firstNonEmpty(p.Strings.RightsReserved, i18n.Tr(ctx, "All rights reserved."))))
		}

		hw.raw(`</p></footer>`)

		return hw.err
	})
}

func writeFooterLink(hw *htmlWriter, label, href string, newTab bool) {
	hw.raw(`<li><a`)
	hw.href(href)

	if newTab {
		hw.raw(` target="_blank" rel="noopener noreferrer"`)
	}

	hw.raw(">")
	hw.text(label)
	hw.raw(`</a></li>`)
}

func writeContact(ctx context.Context, hw *htmlWriter, settings *cms.SiteSettings, strs cms.FooterStrings) {
	if settings.ContactEmail == "" && settings.ContactPhone == "" && settings.Address == "" {
		return
	}

	hw.raw(`<section class="site-footer__column site-footer__contact"><h2>`)
	hw.text(firstNonEmpty(strs.ContactHeading, i18n.Tr(ctx, "Contact")))
	hw.raw(`</h2><address>`)

	if settings.ContactEmail != "" {
		hw.raw(`<a`)
		hw.href("mailto:" + settings.ContactEmail)
		hw.raw(">")
		hw.text(settings.ContactEmail)
		hw.raw(`</a>`)
	}

	if settings.ContactPhone != "" {
		hw.raw(`<a`)
		hw.href("tel:" + settings.ContactPhone)
		hw.raw(">")
		hw.text(settings.ContactPhone)
		hw.raw(`</a>`)
	}

	if settings.Address != "" {
		hw.raw(`<span>`)
		hw.text(settings.Address)
		hw.raw(`</span>`)
	}

	hw.raw(`</address></section>`)
}
