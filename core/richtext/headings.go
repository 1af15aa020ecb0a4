// Copyright 2025, the Webko site contributors
// SPDX-License-Identifier: AGPL-3.0-only

package richtext

import (
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// demoteHeadings moves h1 to h5 down one level, leaving everything else
// byte for byte. Page templates render the title as the only h1.
func demoteHeadings(s string) string {
	if !strings.Contains(s, "<h") {
		return s
	}

	var b strings.Builder

	z := html.NewTokenizer(strings.NewReader(s))

	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			return b.String()
		}

		raw := string(z.Raw())

		if tt != html.StartTagToken && tt != html.EndTagToken {
			b.WriteString(raw)

			continue
		}

		tok := z.Token()

		level, ok := headingLevel(tok.DataAtom)
		if !ok || level == 6 {
			b.WriteString(raw)

			continue
		}

		tok.Data = "h" + strconv.Itoa(level+1)
		tok.DataAtom = atom.Lookup([]byte(tok.Data))
		b.WriteString(tok.String())
	}
}

func headingLevel(a atom.Atom) (int, bool) {
	switch a {
	case atom.H1:
		return 1, true
	case atom.H2:
		return 2, true
	case atom.H3:
		return 3, true
	case atom.H4:
		return 4, true
	case atom.H5:
		return 5, true
	case atom.H6:
		return 6, true
	default:
		return 0, false
	}
}
