// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// Copyright 2025, the Webko site contributors
// SPDX-License-Identifier: AGPL-3.0-only

package template

import (
	"fmt"
	"io/fs"
	"path"
	"strings"

	"github.com/a-h/templ"
)

// iconCache holds all of our SVGs keyed by filename (without the “.svg” suffix).
var iconCache = make(map[string]string)

// LoadIcons scans dir in fsys for “.svg” files, reads each file into
// memory and stores it in iconCache.
//
// If any operation fails, LoadIcons returns an error for the caller to handle.
func LoadIcons(fsys fs.FS, dir string) error {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return fmt.Errorf("reading icons directory %q: %w", dir, err)
	}

	icons := make(map[string]string, len(entries))

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		name := entry.Name()

		if !strings.HasSuffix(name, ".svg") {
			continue
		}

		// The embedded filesystem requires forward slashes on all operating systems.
		fullPath := path.Join(dir, name)

		content, err := fs.ReadFile(fsys, fullPath)
		if err != nil {
			return fmt.Errorf("reading icon %q: %w", fullPath, err)
		}

		icons[strings.TrimSuffix(name, ".svg")] = string(content)
	}

	iconCache = icons

	return nil
}

// RenderIcon returns an SVG (as HTML), optionally injecting a CSS class into
// the <svg> tag.
//
// Icon names come from CMS editors, but only names present in iconCache are
// rendered and iconCache only ever contains vetted SVG blobs from the binary.
// Unknown names yield "".
//
// Only the first string in classes is used.
func RenderIcon(iconName string, classes ...string) string {
	svg, ok := iconCache[iconName]
	if !ok {
		return ""
	}

	if len(classes) > 0 && classes[0] != "" {
		svg = strings.Replace(svg, "<svg", `<svg class="`+templ.EscapeString(classes[0])+`"`, 1)
	}

	return svg
}

// IsCurrentSection reports whether href is the current page or one of its
// ancestors. A locale root such as "/en/" only matches itself.
func IsCurrentSection(currentPath, href string) bool {
	if href == "" || currentPath == "" {
		return false
	}

	if currentPath == href {
		return true
	}

	if strings.HasSuffix(href, "/") {
		return false
	}

	return strings.HasPrefix(currentPath, href+"/")
}
