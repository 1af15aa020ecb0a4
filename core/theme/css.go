// Copyright 2025, the Webko site contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package theme turns the CMS theme into CSS custom properties.

Every value comes from CMS editors and ends up inside a <style> element, so
values are tokenized and anything that is not a plain colour, length or font
list is dropped.
*/
package theme

import (
	"maps"
	"slices"
	"strings"

	"github.com/gorilla/css/scanner"
	"github.com/rs/zerolog/log"

	"codeberg.org/webko/site/config"
	"codeberg.org/webko/site/core/cms"
)

// DefaultRadius is used when the theme has no valid border radius.
const DefaultRadius = "0.5rem"

// DefaultColors is the palette used for colours the theme does not set.
var DefaultColors = map[string]string{
	"primary":            "#0f172a",
	"primary-foreground": "#f8fafc",
	"accent":             "#f59e0b",
	"background":         "#ffffff",
	"foreground":         "#0f172a",
	"muted":              "#f1f5f9",
	"muted-foreground":   "#64748b",
	"border":             "#e2e8f0",
}

var colorFunctions = []string{"rgb(", "rgba(", "hsl(", "hsla("}

// CSS returns a :root rule declaring --color-<name> for every colour in
// sorted order, then --radius and --font-sans.
//
// A nil theme yields the default palette.
func CSS(theme *cms.Theme) string {
	colors := maps.Clone(DefaultColors)
	radius := DefaultRadius
	font := config.Global.Site.FontFamily

	if theme != nil {
		for name, value := range theme.Colors {
			name = strings.ToLower(strings.TrimSpace(name))
			value = strings.TrimSpace(value)

			if !validName(name) || !validColor(value) {
				log.Warn().
					Str("sys", "theme").
					Str("name", name).
					Str("value", value).
					Msg("Dropping invalid theme colour")

				continue
			}

			colors[name] = value
		}

		if validLength(theme.BorderRadius) {
			radius = strings.TrimSpace(theme.BorderRadius)
		}

		if theme.FontFamily != "" {
			font = theme.FontFamily
		}
	}

	var b strings.Builder

	b.WriteString(":root{")

	for _, name := range slices.Sorted(maps.Keys(colors)) {
		b.WriteString("--color-")
		b.WriteString(name)
		b.WriteByte(':')
		b.WriteString(colors[name])
		b.WriteByte(';')
	}

	b.WriteString("--radius:")
	b.WriteString(radius)
	b.WriteByte(';')

	b.WriteString("--font-sans:")
	b.WriteString(FontStack(font))
	b.WriteString(";}")

	return b.String()
}

// FontStack returns a font-family value with family first and the generic
// sans-serif family as fallback. Invalid families are dropped.
func FontStack(family string) string {
	family = strings.TrimSpace(family)
	if family == "" || strings.ContainsAny(family, `"'\<>;{}`) {
		return "sans-serif"
	}

	for _, r := range family {
		if r != ' ' && r != '-' && !isAlnum(r) {
			return "sans-serif"
		}
	}

	return `"` + family + `",sans-serif`
}

// validName reports whether name matches [a-z0-9-]+.
func validName(name string) bool {
	if name == "" {
		return false
	}

	for _, r := range name {
		if r != '-' && !isAlnum(r) {
			return false
		}
	}

	return true
}

func isAlnum(r rune) bool {
	return ('a' <= r && r <= 'z') || ('A' <= r && r <= 'Z') || ('0' <= r && r <= '9')
}

// tokens scans value into significant tokens. It fails on anything the
// scanner cannot tokenize cleanly.
func tokens(value string) ([]*scanner.Token, bool) {
	var out []*scanner.Token

	s := scanner.New(value)

	for {
		tok := s.Next()

		switch tok.Type {
		case scanner.TokenEOF:
			return out, true
		case scanner.TokenS:
			continue
		case scanner.TokenError, scanner.TokenComment, scanner.TokenCDO, scanner.TokenCDC,
			scanner.TokenURI, scanner.TokenAtKeyword, scanner.TokenString, scanner.TokenBOM:
			return nil, false
		default:
			out = append(out, tok)
		}
	}
}

// validColor accepts a hex colour, a keyword, or an rgb/hsl function with
// numeric arguments.
func validColor(value string) bool {
	toks, ok := tokens(value)
	if !ok || len(toks) == 0 {
		return false
	}

	first := toks[0]

	switch first.Type {
	case scanner.TokenHash:
		hex := strings.TrimPrefix(first.Value, "#")

		return len(toks) == 1 && validHex(hex)
	case scanner.TokenIdent:
		return len(toks) == 1 && isKeyword(first.Value)
	case scanner.TokenFunction:
		if !slices.Contains(colorFunctions, strings.ToLower(first.Value)) {
			return false
		}

		return validArguments(toks[1:])
	default:
		return false
	}
}

// validArguments accepts numbers separated by commas or slashes and closed
// by a single parenthesis.
func validArguments(toks []*scanner.Token) bool {
	if len(toks) < 2 {
		return false
	}

	last := toks[len(toks)-1]
	if last.Type != scanner.TokenChar || last.Value != ")" {
		return false
	}

	for _, tok := range toks[:len(toks)-1] {
		switch tok.Type {
		case scanner.TokenNumber, scanner.TokenPercentage:
		case scanner.TokenDimension:
			if !strings.HasSuffix(strings.ToLower(tok.Value), "deg") {
				return false
			}
		case scanner.TokenChar:
			if tok.Value != "," && tok.Value != "/" {
				return false
			}
		default:
			return false
		}
	}

	return true
}

func validHex(hex string) bool {
	switch len(hex) {
	case 3, 4, 6, 8:
	default:
		return false
	}

	for _, r := range hex {
		if !('0' <= r && r <= '9') && !('a' <= r && r <= 'f') && !('A' <= r && r <= 'F') {
			return false
		}
	}

	return true
}

// isKeyword accepts alphabetic identifiers such as "transparent" or "tomato".
func isKeyword(ident string) bool {
	for _, r := range ident {
		if !('a' <= r && r <= 'z') && !('A' <= r && r <= 'Z') {
			return false
		}
	}

	return ident != ""
}

// validLength accepts one to four lengths, percentages or zeros.
func validLength(value string) bool {
	toks, ok := tokens(value)
	if !ok || len(toks) == 0 || len(toks) > 4 {
		return false
	}

	for _, tok := range toks {
		switch tok.Type {
		case scanner.TokenDimension, scanner.TokenPercentage:
		case scanner.TokenNumber:
			if tok.Value != "0" {
				return false
			}
		default:
			return false
		}
	}

	return true
}
