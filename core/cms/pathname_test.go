// Copyright 2025, the Webko site contributors
// SPDX-License-Identifier: AGPL-3.0-only

package cms

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPathname(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		slug        string
		breadcrumbs []Breadcrumb
		want        string
	}{
		{name: "home", slug: "home", want: "/en/"},
		{name: "slug only", slug: "contact", want: "/en/contact"},
		{name: "nested", slug: "team", breadcrumbs: []Breadcrumb{{URL: "/about"}, {URL: "/about/team/"}}, want: "/en/about/team"},
		{name: "empty breadcrumb url", slug: "team", breadcrumbs: []Breadcrumb{{URL: ""}}, want: "/en/team"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, Pathname("en", tt.slug, tt.breadcrumbs))
		})
	}
}

func TestSlugFromPath(t *testing.T) {
	t.Parallel()

	assert.Equal(t, HomeSlug, slugFromPath(""))
	assert.Equal(t, HomeSlug, slugFromPath("/"))
	assert.Equal(t, "team", slugFromPath("about/team"))
	assert.Equal(t, "contact", slugFromPath("/contact/"))
}
