// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// Copyright 2025, the Webko site contributors
// SPDX-License-Identifier: AGPL-3.0-only

package i18n

import (
	"slices"

	"golang.org/x/text/language"
)

// BaseLocale is the locale whose text is used as msgids in source code.
const BaseLocale = "en"

// baseTag is the canonical tag for BaseLocale.
var baseTag = language.Make(BaseLocale)

// defaultTag returns the default locale's tag, or baseTag before Setup.
func defaultTag() language.Tag {
	if installed == nil {
		return baseTag
	}

	return installed.DefaultTag()
}

// Languages returns the tags of every configured locale, default first.
//
// The returned slice is a copy and is safe to retain.
// Setup must be called successfully before using Languages; otherwise it panics.
func Languages() []language.Tag {
	if installed == nil {
		panic(errConfigNotInstalled)
	}

	return slices.Clone(supportedTags)
}
