// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// Copyright 2025, the Webko site contributors
// SPDX-License-Identifier: AGPL-3.0-only

package config

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/goccy/go-yaml"

	"codeberg.org/webko/site/core/idgen"
)

// Global exposes the server configuration.
var Global ServerConfig

// ServerConfig holds the application configuration.
type ServerConfig struct {
	Build buildInfo `yaml:"-"`

	Basic struct {
		Host                     string      `env:"SITE_HOST" yaml:"host"`
		Port                     string      `env:"SITE_PORT" yaml:"port"`
		UnixSocket               string      `env:"SITE_UNIXSOCKET" yaml:"unixSocket"`
		RawUnixSocketPermissions string      `env:"SITE_UNIXSOCKET_PERMISSIONS" yaml:"unixSocketPermissions"`
		UnixSocketPermissions    os.FileMode `yaml:"-"`
	} `yaml:"basic"`

	CMS struct {
		// BaseURL is the origin of the CMS REST API, without the /api suffix.
		BaseURL string        `env:"SITE_CMS_URL" yaml:"baseUrl"`
		APIKey  string        `env:"SITE_CMS_API_KEY" yaml:"apiKey"`
		Timeout time.Duration `env:"SITE_CMS_TIMEOUT" yaml:"timeout"`
		// RateLimit is the sustained number of outbound requests per second.
		// Zero disables limiting.
		RateLimit float64 `env:"SITE_CMS_RATE_LIMIT" yaml:"rateLimit"`
		RateBurst int     `env:"SITE_CMS_RATE_BURST" yaml:"rateBurst"`
	} `yaml:"cms"`

	// Limiter throttles inbound requests per client network.
	Limiter struct {
		Enabled    bool     `env:"SITE_LIMITER" yaml:"enabled"`
		Rate       float64  `env:"SITE_LIMITER_RATE" yaml:"rate"`
		Burst      int      `env:"SITE_LIMITER_BURST" yaml:"burst"`
		IPv4Prefix int      `env:"SITE_LIMITER_IPV4_PREFIX" yaml:"ipv4Prefix"`
		IPv6Prefix int      `env:"SITE_LIMITER_IPV6_PREFIX" yaml:"ipv6Prefix"`
		PassList   []string `env:"SITE_LIMITER_PASS_LIST" yaml:"passList"`
		BlockList  []string `env:"SITE_LIMITER_BLOCK_LIST" yaml:"blockList"`
	} `yaml:"limiter"`

	Cache struct {
		Enabled  bool          `env:"SITE_CACHE" yaml:"enabled"`
		Size     int           `env:"SITE_CACHE_SIZE" yaml:"cacheSize"`
		TTL      time.Duration `env:"SITE_CACHE_TTL" yaml:"cacheTTL"`
		Compress bool          `env:"SITE_CACHE_COMPRESS" yaml:"compress"`
	} `yaml:"cache"`

	HTTPCache struct {
		MaxAge               time.Duration `env:"SITE_CACHE_CONTROL_MAX_AGE" yaml:"cacheControlMaxAge"`
		StaleWhileRevalidate time.Duration `env:"SITE_CACHE_CONTROL_STALE_WHILE_REVALIDATE" yaml:"cacheControlStaleWhileRevalidate"`
	} `yaml:"httpCache"`

	Localization struct {
		Enabled        bool              `env:"SITE_LOCALIZATION" yaml:"enabled"`
		Locales        []string          `env:"SITE_LOCALES" yaml:"locales"`
		EnabledLocales []string          `env:"SITE_ENABLED_LOCALES" yaml:"enabledLocales"`
		DefaultLocale  string            `env:"SITE_DEFAULT_LOCALE" yaml:"defaultLocale"`
		LocaleLabels   map[string]string `env:"SITE_LOCALE_LABELS" yaml:"localeLabels"`

		// Strict mode for missing keys.
		//
		// When enabled, missing keys are logged (deduplicated per locale+key) and
		// visibly wrapped using markers.
		StrictMissingKeys bool `env:"SITE_STRICT_MISSING_KEYS" yaml:"strictMissingKeys"`
	} `yaml:"localization"`

	Site struct {
		Stylesheet string `env:"SITE_STYLESHEET" yaml:"stylesheet"`
		FontFamily string `env:"SITE_FONT_FAMILY" yaml:"fontFamily"`
	} `yaml:"site"`

	Telemetry struct {
		OTLPEndpoint string `env:"SITE_OTEL_ENDPOINT" yaml:"otlpEndpoint"`
		ServiceName  string `env:"SITE_OTEL_SERVICE_NAME" yaml:"serviceName"`
	} `yaml:"telemetry"`

	Instance struct {
		StartingTime      string `yaml:"-"`
		FileServerCacheID string `yaml:"-"`
	} `yaml:"-"`

	Development struct {
		InDevelopment        bool   `env:"SITE_DEV" yaml:"inDevelopment"`
		SaveResponses        bool   `env:"SITE_SAVE_RESPONSES" yaml:"saveResponses"`
		ResponseSaveLocation string `env:"SITE_RESPONSE_SAVE_LOCATION" yaml:"responseSaveLocation"`
	} `yaml:"development"`

	Log struct {
		Level   string   `env:"SITE_LOG_LEVEL" yaml:"logLevel"`
		Outputs []string `env:"SITE_LOG_OUTPUTS" yaml:"logOutputs"`
		Format  string   `env:"SITE_LOG_FORMAT" yaml:"logFormat"`
	} `yaml:"log"`
}

// LoadConfig loads the configuration from various sources.
func (cfg *ServerConfig) LoadConfig() error {
	parsedConfigFlagValue := parseCommandLineArgs()

	// Check if the -config flag was explicitly set by the user.
	configFlagUserSet := false

	flag.Visit(func(f *flag.Flag) {
		if f.Name == "config" {
			configFlagUserSet = true
		}
	})

	var configFilePath string

	// Precedence: -config flag, SITE_CONFIGFILE, then ./config.yaml with a ./config.yml fallback.
	switch {
	case configFlagUserSet:
		configFilePath = parsedConfigFlagValue
	case os.Getenv("SITE_CONFIGFILE") != "":
		configFilePath = os.Getenv("SITE_CONFIGFILE")
	default:
		configFilePath = parsedConfigFlagValue

		if _, err := os.Stat(configFilePath); os.IsNotExist(err) {
			if _, statErr := os.Stat("./config.yml"); statErr == nil {
				configFilePath = "./config.yml"
			}
		}
	}

	cfg.SetDefaults()

	cfg.Build.load()

	cfg.Instance.FileServerCacheID = idgen.Make()
	cfg.Instance.StartingTime = time.Now().UTC().Format("2006-01-02 15:04")

	if err := cfg.readYAML(configFilePath); err != nil {
		return fmt.Errorf("error loading YAML config: %w", err)
	}

	if err := useDotEnv(); err != nil {
		return fmt.Errorf("error using .env file: %w", err)
	}

	if err := readEnv(cfg); err != nil {
		return fmt.Errorf("error loading environment variables: %w", err)
	}

	if err := cfg.validateAndSet(); err != nil {
		return fmt.Errorf("configuration invalid: %w", err)
	}

	cfg.setupAudit()

	cfg.print()

	return nil
}

var staticSkippedPathPrefixes = []string{"/css/", "/icons/", "/js/"}

// ShouldSkipServerLogging determines if a request should bypass the logging middleware.
func (cfg *ServerConfig) ShouldSkipServerLogging(path string) bool {
	for _, prefix := range staticSkippedPathPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}

	return path == "/robots.txt"
}

// GetDurationEncoderOption returns a YAML encoder option that marshals
// time.Duration into a human-readable string format (e.g., "30m", "1h").
func GetDurationEncoderOption() yaml.EncodeOption {
	return yaml.CustomMarshaler[time.Duration](
		func(d time.Duration) ([]byte, error) {
			return yaml.Marshal(d.String())
		},
	)
}
