// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// Copyright 2025, the Webko site contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package template provides helpers shared by the views.
*/
package template

import "strings"

// SwitchLocalePath rewrites the locale segment of currentPath to locale.
//
// Paths outside the locale tree lead to the locale root.
func SwitchLocalePath(currentPath, from, locale string) string {
	prefix := "/" + from

	switch {
	case from == "":
	case currentPath == prefix:
		return "/" + locale + "/"
	case strings.HasPrefix(currentPath, prefix+"/"):
		return "/" + locale + strings.TrimPrefix(currentPath, prefix)
	}

	return "/" + locale + "/"
}
