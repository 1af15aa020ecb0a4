// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// Copyright 2025, the Webko site contributors
// SPDX-License-Identifier: AGPL-3.0-only

package i18n

import (
	"context"
	"net/http"

	"golang.org/x/text/language"
)

type contextKeyType struct{}

var tagKey = contextKeyType{}

// LocaleCookie is the cookie that remembers the visitor's last locale.
const LocaleCookie = "site_locale"

// WithTag stores t in ctx and returns a derived context that carries it.
//
// The returned context should be passed to downstream code that performs
// translations. Passing the zero value of [language.Tag] clears any existing value.
//
// The ctx must not be nil.
func WithTag(ctx context.Context, t language.Tag) context.Context {
	return context.WithValue(ctx, tagKey, t)
}

// TagFrom returns the language tag stored in ctx, or the default locale's tag
// if none is present. It never returns the zero value of [language.Tag].
func TagFrom(ctx context.Context) language.Tag {
	if ctx != nil {
		if t, _ := ctx.Value(tagKey).(language.Tag); t != (language.Tag{}) {
			return t
		}
	}

	return defaultTag()
}

// FromRequest returns the best routing locale for r by inspecting, in order,
// the [LocaleCookie] and the Accept-Language header.
//
// If r is nil the default locale is returned.
func FromRequest(cfg *Config, r *http.Request) string {
	if r == nil {
		return cfg.DefaultLocale()
	}

	preferred := make([]string, 0, 2)

	if c, err := r.Cookie(LocaleCookie); err == nil && c.Value != "" {
		if cfg.Validate(c.Value) == nil {
			return c.Value
		}
	}

	if al := r.Header.Get("Accept-Language"); al != "" {
		preferred = append(preferred, al)
	}

	return cfg.Match(preferred...)
}
