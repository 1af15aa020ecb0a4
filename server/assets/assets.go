// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// Copyright 2025, the Webko site contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package assets provides access to the site's embedded static assets.

The files are embedded by package main, which is the only package that can
reach the assets directory at the module root.
*/
package assets

import (
	"embed"
	"fmt"
	"io/fs"
)

// FS provides access to the embedded file system.
var FS embed.FS

// Static returns the "assets" subdirectory of FS, the root that
// request paths such as /css/site.css resolve against.
func Static() (fs.FS, error) {
	sub, err := fs.Sub(FS, "assets")
	if err != nil {
		return nil, fmt.Errorf("failed to create sub-filesystem for embedded 'assets' directory: %w", err)
	}

	return sub, nil
}
