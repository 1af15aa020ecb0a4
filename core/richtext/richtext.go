// Copyright 2025, the Webko site contributors
// SPDX-License-Identifier: AGPL-3.0-only

// Package richtext converts CMS page bodies into sanitized HTML.
package richtext

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"

	"codeberg.org/webko/site/core/cms"
)

var (
	markdown = goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
	)

	policy = newPolicy()
)

func newPolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowElements("figure", "figcaption", "section")
	p.AllowAttrs("class").OnElements("figure", "figcaption", "p", "span", "div", "section")
	p.AllowAttrs("id").OnElements("h1", "h2", "h3", "h4", "h5", "h6")
	p.AllowAttrs("loading").OnElements("img")
	p.RequireNoFollowOnLinks(true)
	p.AddTargetBlankToFullyQualifiedLinks(true)

	return p
}

// HTML renders a page body in the given format and sanitizes the result.
// Body headings start at h2.
//
// Unknown formats are treated as HTML.
func HTML(content string, format cms.ContentFormat) (string, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return "", nil
	}

	if format == cms.ContentMarkdown {
		var buf bytes.Buffer
		if err := markdown.Convert([]byte(content), &buf); err != nil {
			return "", fmt.Errorf("render markdown: %w", err)
		}

		content = buf.String()
	}

	return strings.TrimSpace(demoteHeadings(policy.Sanitize(content))), nil
}
