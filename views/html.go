// Copyright 2025, the Webko site contributors
// SPDX-License-Identifier: AGPL-3.0-only

package views

import (
	"context"
	"io"
	"strings"

	"github.com/a-h/templ"
)

// htmlWriter writes markup to w and remembers the first error, so that
// components can write a sequence of fragments and check once at the end.
type htmlWriter struct {
	w   io.Writer
	err error
}

// raw writes trusted markup.
func (hw *htmlWriter) raw(parts ...string) {
	for _, s := range parts {
		if hw.err != nil {
			return
		}

		_, hw.err = io.WriteString(hw.w, s)
	}
}

// text writes escaped text content.
func (hw *htmlWriter) text(s string) {
	hw.raw(templ.EscapeString(s))
}

// attr writes ` name="value"` with value escaped.
func (hw *htmlWriter) attr(name, value string) {
	hw.raw(" ", name, `="`, templ.EscapeString(value), `"`)
}

// href writes an href attribute, replacing unsafe URLs such as javascript:
// with a harmless placeholder.
func (hw *htmlWriter) href(url string) {
	hw.attr("href", string(templ.URL(url)))
}

// component renders c in place.
func (hw *htmlWriter) component(ctx context.Context, c templ.Component) {
	if hw.err != nil || c == nil {
		return
	}

	hw.err = c.Render(ctx, hw.w)
}

// classes joins the non-empty class names.
func classes(names ...string) string {
	out := names[:0:0]

	for _, name := range names {
		if name != "" {
			out = append(out, name)
		}
	}

	return strings.Join(out, " ")
}

// firstNonEmpty returns the first non-empty string.
func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}

	return ""
}
