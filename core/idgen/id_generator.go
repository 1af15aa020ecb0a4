// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// Copyright 2025, the Webko site contributors
// SPDX-License-Identifier: AGPL-3.0-only

// Package idgen makes short, sortable identifiers for requests and cache busting.
package idgen

import "github.com/rs/xid"

// Make returns a new 20 character, URL-safe, time-ordered ID.
func Make() string {
	return xid.New().String()
}
