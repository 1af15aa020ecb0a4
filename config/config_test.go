// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// Copyright 2025, the Webko site contributors
// SPDX-License-Identifier: AGPL-3.0-only

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The tests below use t.Setenv, which is incompatible with t.Parallel.

func TestLoadConfig(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr bool
	}{
		{
			name: "Valid configuration",
			env: map[string]string{
				"SITE_HOST":    "localhost",
				"SITE_PORT":    "8282",
				"SITE_CMS_URL": "https://cms.example.com/",
			},
		},
		{
			name: "Missing required SITE_CMS_URL",
			env: map[string]string{
				"SITE_HOST": "localhost",
			},
			wantErr: true,
		},
		{
			name: "Invalid SITE_CMS_URL",
			env: map[string]string{
				"SITE_CMS_URL": "cms-without-scheme",
			},
			wantErr: true,
		},
		{
			name: "Default locale outside locales",
			env: map[string]string{
				"SITE_CMS_URL":        "https://cms.example.com",
				"SITE_LOCALES":        "en,mk",
				"SITE_DEFAULT_LOCALE": "sq",
			},
			wantErr: true,
		},
		{
			name: "Enabled locale outside locales",
			env: map[string]string{
				"SITE_CMS_URL":         "https://cms.example.com",
				"SITE_ENABLED_LOCALES": "en,de",
			},
			wantErr: true,
		},
		{
			name: "Invalid log level",
			env: map[string]string{
				"SITE_CMS_URL":   "https://cms.example.com",
				"SITE_LOG_LEVEL": "loud",
			},
			wantErr: true,
		},
		{
			name: "Enabled limiter without a rate",
			env: map[string]string{
				"SITE_CMS_URL":      "https://cms.example.com",
				"SITE_LIMITER":      "true",
				"SITE_LIMITER_RATE": "0",
			},
			wantErr: true,
		},
		{
			name: "Unparsable duration",
			env: map[string]string{
				"SITE_CMS_URL":     "https://cms.example.com",
				"SITE_CMS_TIMEOUT": "soon",
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("SITE_CONFIGFILE", filepath.Join(t.TempDir(), "missing.yaml"))

			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			cfg := &ServerConfig{}

			err := cfg.LoadConfig()
			if tt.wantErr {
				require.Error(t, err)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.env["SITE_HOST"], cfg.Basic.Host)
			assert.Equal(t, tt.env["SITE_PORT"], cfg.Basic.Port)
			assert.Equal(t, "https://cms.example.com", cfg.CMS.BaseURL)
			assert.Equal(t, []string{"en", "mk"}, cfg.Localization.Locales)
			assert.Equal(t, "en", cfg.Localization.DefaultLocale)
			assert.NotEmpty(t, cfg.Instance.FileServerCacheID)
		})
	}
}

func TestLoadConfigPrecedence(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yaml")

	yamlBody := `
cms:
  baseUrl: https://yaml.example.com
  timeout: 2s
localization:
  locales: [en, mk, sq]
  enabledLocales: [en, sq]
  defaultLocale: sq
cache:
  enabled: true
  cacheSize: 10
`
	require.NoError(t, os.WriteFile(configPath, []byte(yamlBody), 0o600))

	t.Setenv("SITE_CONFIGFILE", configPath)
	t.Setenv("SITE_CMS_URL", "https://env.example.com")
	t.Setenv("SITE_LOCALE_LABELS", "sq:Shqip,en:English")

	cfg := &ServerConfig{}
	require.NoError(t, cfg.LoadConfig())

	// environment wins over YAML
	assert.Equal(t, "https://env.example.com", cfg.CMS.BaseURL)
	// YAML wins over defaults
	assert.Equal(t, 2*time.Second, cfg.CMS.Timeout)
	assert.Equal(t, "sq", cfg.Localization.DefaultLocale)
	assert.Equal(t, []string{"en", "sq"}, cfg.Localization.EnabledLocales)
	assert.True(t, cfg.Cache.Enabled)
	assert.Equal(t, 10, cfg.Cache.Size)
	assert.Equal(t, map[string]string{"sq": "Shqip", "en": "English"}, cfg.Localization.LocaleLabels)
	// untouched defaults survive
	assert.Equal(t, 60*time.Minute, cfg.Cache.TTL)
}

func TestValidateUnixSocket(t *testing.T) {
	t.Parallel()

	cfg := &ServerConfig{}
	cfg.SetDefaults()
	cfg.CMS.BaseURL = "https://cms.example.com"
	cfg.Basic.UnixSocket = "/run/site.sock"
	cfg.Basic.RawUnixSocketPermissions = "0660"

	require.NoError(t, cfg.validateAndSet())
	assert.Empty(t, cfg.Basic.Host)
	assert.Empty(t, cfg.Basic.Port)
	assert.Equal(t, os.FileMode(0o660), cfg.Basic.UnixSocketPermissions)

	cfg.Basic.RawUnixSocketPermissions = "rwxrwxrwx"
	require.ErrorIs(t, cfg.validateAndSet(), errUnixSocketInvalidPermissions)
}

func TestValidateFillsEnabledLocales(t *testing.T) {
	t.Parallel()

	cfg := &ServerConfig{}
	cfg.SetDefaults()
	cfg.CMS.BaseURL = "https://cms.example.com"
	cfg.Localization.Locales = []string{"en", "mk", "sq"}
	cfg.Localization.EnabledLocales = nil

	require.NoError(t, cfg.validateAndSet())
	assert.Equal(t, cfg.Localization.Locales, cfg.Localization.EnabledLocales)
}

func TestPrintableRedactsAPIKey(t *testing.T) {
	t.Parallel()

	cfg := &ServerConfig{}
	cfg.CMS.APIKey = "secret"

	assert.Equal(t, redactedValue, cfg.Printable().CMS.APIKey)
	assert.Equal(t, "secret", cfg.CMS.APIKey)
}

func TestShouldSkipServerLogging(t *testing.T) {
	t.Parallel()

	cfg := &ServerConfig{}

	assert.True(t, cfg.ShouldSkipServerLogging("/css/site.css"))
	assert.True(t, cfg.ShouldSkipServerLogging("/robots.txt"))
	assert.False(t, cfg.ShouldSkipServerLogging("/en/about"))
}

func TestBuildInfoRevision(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "unknown", (&buildInfo{}).Revision())
	assert.Equal(t, "2025-06-01-0123abcd+dirty", (&buildInfo{
		VcsRevision: "0123abcdef",
		VcsTime:     "2025-06-01T10:00:00Z",
		VcsModified: true,
	}).Revision())
}
