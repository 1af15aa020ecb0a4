// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// Copyright 2025, the Webko site contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Command i18n_extract collects translatable strings into po/site.pot.

It finds constant msgids passed to i18n.Tr, TrC, TrN and TrNC, and constants
converted to i18n.MsgKey. With -merge, every po/<locale>.po is rewritten
from the new template, keeping the translations it already has.

Run it from the module root:

	go run ./cmd/i18n_extract -merge
*/
package main

import (
	"bytes"
	"flag"
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/leonelquinteros/gotext"
	"golang.org/x/tools/go/packages"
)

func main() {
	outPath := flag.String("o", "po/site.pot", "output template")
	merge := flag.Bool("merge", false, "update the .po files next to the template")
	flag.Parse()

	if err := run(*outPath, *merge); err != nil {
		log.Fatal(err)
	}
}

func run(outPath string, merge bool) error {
	wd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get working directory: %w", err)
	}

	pkgs, err := packages.Load(&packages.Config{Mode: packages.LoadAllSyntax, Tests: false}, "./...")
	if err != nil {
		return fmt.Errorf("failed to load packages: %w", err)
	}

	if packages.PrintErrors(pkgs) > 0 {
		return fmt.Errorf("failed to load packages due to errors")
	}

	refs := extract(pkgs, findProjectRoot(wd))
	h := header{version: detectVersion(), created: time.Now()}

	if err := writeFile(outPath, h, refs, nil); err != nil {
		return err
	}

	log.Printf("wrote %d messages to %s", len(refs), outPath)

	if !merge {
		return nil
	}

	poFiles, err := filepath.Glob(filepath.Join(filepath.Dir(outPath), "*.po"))
	if err != nil {
		return err
	}

	for _, path := range poFiles {
		po := gotext.NewPo()
		po.ParseFile(path)

		lh := h
		lh.language = strings.TrimSuffix(filepath.Base(path), ".po")

		if err := writeFile(path, lh, refs, po); err != nil {
			return err
		}

		log.Printf("merged %s", path)
	}

	return nil
}

func writeFile(path string, h header, refs map[key][]ref, existing translations) error {
	var buf bytes.Buffer

	if err := writeCatalog(&buf, h, refs, existing); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil { //nolint:gosec // catalogues are public
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	return nil
}

// detectVersion resolves a human-friendly version string using git describe.
// Falls back to "dev" when git is unavailable or this is not a git checkout.
func detectVersion() string {
	out, err := exec.Command("git", "describe", "--tags", "--always", "--dirty").Output()
	if err != nil {
		return "dev"
	}

	return strings.TrimSpace(string(out))
}

// findProjectRoot prefers the git toplevel, then the nearest directory
// holding go.mod, then wd itself.
func findProjectRoot(wd string) string {
	cmd := exec.Command("git", "rev-parse", "--show-toplevel")
	cmd.Dir = wd

	if out, err := cmd.Output(); err == nil {
		if root := strings.TrimSpace(string(out)); root != "" {
			return filepath.Clean(root)
		}
	}

	for dir := filepath.Clean(wd); ; dir = filepath.Dir(dir) {
		if fi, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil && !fi.IsDir() {
			return dir
		}

		if filepath.Dir(dir) == dir {
			return wd
		}
	}
}
