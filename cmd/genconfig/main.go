// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// Copyright 2025, the Webko site contributors
// SPDX-License-Identifier: AGPL-3.0-only

// Command genconfig writes the example configuration files under deploy/
// from the defaults in package config.
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"slices"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/rs/zerolog/log"

	"codeberg.org/webko/site/config"
	"codeberg.org/webko/site/core/audit"
)

const (
	envOutputFile  = "deploy/.env.example"
	yamlOutputFile = "deploy/config.yaml.example"
	filePerm       = 0o644

	placeholderCMSURL = "https://cms.example.org"

	envFileHeader = `# Site configuration (environment variables)
#
# Copy this file to .env and adjust the values below.
# Generated by go run ./cmd/genconfig.

`
	yamlFileHeader = `# Site configuration (configuration file)
#
# Copy this file to config.yaml and adjust the values below.
# Generated by go run ./cmd/genconfig.
`
)

// Variables written uncommented in the .env example.
var requiredEnv = map[string]bool{
	"SITE_HOST":    true,
	"SITE_PORT":    true,
	"SITE_CMS_URL": true,
}

func main() {
	audit.SetDefaultLogger()

	for path, write := range map[string]func(io.Writer) error{
		envOutputFile:  writeEnv,
		yamlOutputFile: writeYAML,
	} {
		if err := writeFile(path, write); err != nil {
			log.Fatal().Err(err).Str("path", path).Msg("Failed to generate example config")
		}

		log.Info().Str("path", path).Msg("Generated example config")
	}
}

func writeFile(path string, write func(io.Writer) error) error {
	var sb strings.Builder

	if err := write(&sb); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	return os.WriteFile(path, []byte(sb.String()), filePerm)
}

func exampleConfig() *config.ServerConfig {
	cfg := &config.ServerConfig{}
	cfg.SetDefaults()
	cfg.CMS.BaseURL = placeholderCMSURL

	return cfg
}

// writeEnv lists every env-tagged field of the config sections, grouped by
// section, with only the required ones left active.
func writeEnv(w io.Writer) error {
	cfg := exampleConfig()

	var sb strings.Builder
	sb.WriteString(envFileHeader)

	val := reflect.ValueOf(*cfg)
	typ := val.Type()

	for i := range typ.NumField() {
		section := val.Field(i)
		if section.Kind() != reflect.Struct || typ.Field(i).Name == "Build" {
			continue
		}

		var lines []string

		for j := range section.NumField() {
			tag, ok := section.Type().Field(j).Tag.Lookup("env")
			if !ok {
				continue
			}

			lines = append(lines, envLine(strings.Split(tag, ",")[0], section.Field(j)))
		}

		if len(lines) == 0 {
			continue
		}

		fmt.Fprintf(&sb, "## %s\n%s\n\n", typ.Field(i).Name, strings.Join(lines, "\n"))
	}

	_, err := io.WriteString(w, strings.TrimRight(sb.String(), "\n")+"\n")

	return err
}

func envLine(name string, value reflect.Value) string {
	switch {
	case requiredEnv[name]:
		return fmt.Sprintf("%s=%q", name, fmt.Sprint(value.Interface()))
	case value.Kind() == reflect.Slice, value.Kind() == reflect.Map:
		if value.Len() == 0 {
			return "# " + name + "="
		}

		parts := make([]string, 0, value.Len())

		if value.Kind() == reflect.Map {
			iter := value.MapRange()
			for iter.Next() {
				parts = append(parts, fmt.Sprintf("%v:%v", iter.Key(), iter.Value()))
			}

			slices.Sort(parts)
		} else {
			for k := range value.Len() {
				parts = append(parts, fmt.Sprint(value.Index(k).Interface()))
			}
		}

		return "# " + name + "=" + strings.Join(parts, ",")
	case value.Kind() == reflect.String && value.Len() == 0:
		return "# " + name + "="
	default:
		return fmt.Sprintf("# %s=%v", name, value.Interface())
	}
}

// writeYAML marshals the defaults and comments out every leaf except the
// CMS base URL.
func writeYAML(w io.Writer) error {
	var encoded strings.Builder

	enc := yaml.NewEncoder(&encoded, config.GetDurationEncoderOption(), yaml.Indent(2))
	if err := enc.Encode(exampleConfig()); err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	var sb strings.Builder
	sb.WriteString(yamlFileHeader)

	for line := range strings.SplitSeq(encoded.String(), "\n") {
		trimmed := strings.TrimSpace(line)

		switch {
		case trimmed == "":
			continue
		case !strings.HasPrefix(line, " "):
			fmt.Fprintf(&sb, "\n%s\n", line)
		case strings.HasPrefix(trimmed, "baseUrl:"):
			sb.WriteString(line + "\n")
		default:
			indent := len(line) - len(strings.TrimLeft(line, " "))
			fmt.Fprintf(&sb, "%s# %s\n", strings.Repeat(" ", indent), trimmed)
		}
	}

	_, err := io.WriteString(w, sb.String())

	return err
}
