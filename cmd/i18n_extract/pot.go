// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// Copyright 2025, the Webko site contributors
// SPDX-License-Identifier: AGPL-3.0-only

package main

import (
	"cmp"
	"fmt"
	"io"
	"slices"
	"time"

	"github.com/leonelquinteros/gotext"
)

// translations looks up existing msgstr values; nil yields empty ones.
type translations interface {
	IsTranslatedC(str, ctx string) bool
	IsTranslated(str string) bool
	GetC(str, ctx string, vars ...any) string
	Get(str string, vars ...any) string
	GetN(str, plural string, n int, vars ...any) string
	GetNC(str, plural string, n int, ctx string, vars ...any) string
}

var _ translations = (*gotext.Po)(nil)

// header is the metadata written at the top of a catalogue.
type header struct {
	version  string
	language string // empty for the template
	created  time.Time
}

func sortedKeys(refs map[key][]ref) []key {
	keys := make([]key, 0, len(refs))
	for k := range refs {
		keys = append(keys, k)
	}

	slices.SortFunc(keys, func(a, b key) int {
		return cmp.Or(cmp.Compare(a.ctx, b.ctx), cmp.Compare(a.id, b.id), cmp.Compare(a.plural, b.plural))
	})

	return keys
}

// writeCatalog writes refs as a POT template, or as a PO file for a
// language when existing is non-nil.
func writeCatalog(w io.Writer, h header, refs map[key][]ref, existing translations) error {
	p := &printer{w: w}

	p.line(`msgid ""`)
	p.line(`msgstr ""`)
	p.printf("\"Project-Id-Version: Webko site %s\\n\"\n", h.version)
	p.printf("\"POT-Creation-Date: %s\\n\"\n", h.created.UTC().Format("2006-01-02 15:04+0000"))
	p.printf("\"Language: %s\\n\"\n", h.language)
	p.line(`"MIME-Version: 1.0\n"`)
	p.line(`"Content-Type: text/plain; charset=UTF-8\n"`)
	p.line(`"Content-Transfer-Encoding: 8bit\n"`)
	p.line(`"Plural-Forms: nplurals=2; plural=(n != 1);\n"`)

	for _, k := range sortedKeys(refs) {
		p.line("")
		p.refs(refs[k])

		if k.ctx != "" {
			p.printf("msgctxt %q\n", k.ctx)
		}

		p.printf("msgid %q\n", k.id)

		if k.plural != "" {
			one, many := pluralStrings(existing, k)

			p.printf("msgid_plural %q\n", k.plural)
			p.printf("msgstr[0] %q\n", one)
			p.printf("msgstr[1] %q\n", many)

			continue
		}

		p.printf("msgstr %q\n", singularString(existing, k))
	}

	return p.err
}

func singularString(existing translations, k key) string {
	switch {
	case existing == nil:
		return ""
	case k.ctx != "" && existing.IsTranslatedC(k.id, k.ctx):
		return existing.GetC(k.id, k.ctx)
	case k.ctx == "" && existing.IsTranslated(k.id):
		return existing.Get(k.id)
	default:
		return ""
	}
}

func pluralStrings(existing translations, k key) (string, string) {
	if existing == nil {
		return "", ""
	}

	if k.ctx != "" {
		if !existing.IsTranslatedC(k.id, k.ctx) {
			return "", ""
		}

		return existing.GetNC(k.id, k.plural, 1, k.ctx), existing.GetNC(k.id, k.plural, 2, k.ctx)
	}

	if !existing.IsTranslated(k.id) {
		return "", ""
	}

	return existing.GetN(k.id, k.plural, 1), existing.GetN(k.id, k.plural, 2)
}

// printer keeps the first write error.
type printer struct {
	w   io.Writer
	err error
}

func (p *printer) printf(format string, args ...any) {
	if p.err == nil {
		_, p.err = fmt.Fprintf(p.w, format, args...)
	}
}

func (p *printer) line(s string) {
	p.printf("%s\n", s)
}

// refs writes the "#:" reference comment, skipping adjacent duplicates.
func (p *printer) refs(rs []ref) {
	rs = slices.Clone(rs)
	slices.SortFunc(rs, func(a, b ref) int {
		return cmp.Or(cmp.Compare(a.file, b.file), cmp.Compare(a.line, b.line))
	})
	rs = slices.Compact(rs)

	p.printf("#:")

	for _, r := range rs {
		p.printf(" %s:%d", r.file, r.line)
	}

	p.line("")
}
