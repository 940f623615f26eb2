// Cityfeed - Place and Media Recommendations by City
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cityfeed

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths where config files are searched in order of priority.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/cityfeed/config.yaml",
	"/etc/cityfeed/config.yml",
}

// ConfigPathEnvVar is the environment variable that can override the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			Host:            "0.0.0.0",
			Timeout:         15 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Database: DatabaseConfig{
			Path:         "/data/cityfeed.duckdb",
			MaxMemory:    "1GB",
			Threads:      0,
			QueryTimeout: 10 * time.Second,
		},
		Catalog: CatalogConfig{
			Provider:       ProviderStatic,
			FixturePath:    "",
			SeedOnStart:    true,
			ReloadInterval: 0,
		},
		GeoIP: GeoIPConfig{
			Providers:          []string{"ipapi.co", "ip-api.com"},
			Timeout:            1500 * time.Millisecond,
			ChainTimeout:       2 * time.Second,
			CacheTTL:           24 * time.Hour,
			RateLimitPerMinute: 30,
		},
		Recommend: RecommendConfig{
			PopularMinOverallRate:   4.0,
			PopularMinVotes:         5,
			PersonalizedMinUserRate: 4.0,
			DefaultLimit:            20,
			MaxLimit:                100,
			SimilarMaxExtra:         10,
			TopicBonus:              2.5,
			CityBonus:               1.5,
			RateDivisor:             10,
		},
		Security: SecurityConfig{
			CORSOrigins:     []string{"*"},
			RateLimitReqs:   100,
			RateLimitWindow: time.Minute,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// LoadWithKoanf loads configuration with layered sources:
//  1. Defaults
//  2. Config file (optional YAML)
//  3. Environment variables
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// findConfigFile returns CONFIG_PATH if it exists, else the first default
// path found, else "".
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// sliceConfigPaths are parsed from comma-separated env values.
var sliceConfigPaths = []string{
	"security.cors_origins",
	"geoip.providers",
}

func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}
		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) > 0 {
			if err := k.Set(path, trimmed); err != nil {
				return fmt.Errorf("failed to set %s: %w", path, err)
			}
		}
	}
	return nil
}

// envMappings maps lowercased environment variable names to koanf paths.
var envMappings = map[string]string{
	"http_host":        "server.host",
	"http_port":        "server.port",
	"http_timeout":     "server.timeout",
	"shutdown_timeout": "server.shutdown_timeout",

	"duckdb_path":          "database.path",
	"duckdb_max_memory":    "database.max_memory",
	"duckdb_threads":       "database.threads",
	"duckdb_query_timeout": "database.query_timeout",

	"catalog_provider":        "catalog.provider",
	"catalog_fixture_path":    "catalog.fixture_path",
	"catalog_seed_on_start":   "catalog.seed_on_start",
	"catalog_reload_interval": "catalog.reload_interval",

	"geoip_providers":             "geoip.providers",
	"geoip_timeout":               "geoip.timeout",
	"geoip_chain_timeout":         "geoip.chain_timeout",
	"geoip_cache_ttl":             "geoip.cache_ttl",
	"geoip_rate_limit_per_minute": "geoip.rate_limit_per_minute",
	"maxmind_account_id":          "geoip.maxmind_account_id",
	"maxmind_license_key":         "geoip.maxmind_license_key",
	"geoip_ipapi_co_base_url":     "geoip.ipapi_co_base_url",
	"geoip_ip_api_base_url":       "geoip.ip_api_base_url",
	"geoip_maxmind_base_url":      "geoip.maxmind_base_url",

	"recommend_popular_min_rate":      "recommend.popular_min_overall_rate",
	"recommend_popular_min_votes":     "recommend.popular_min_votes",
	"recommend_personalized_min_rate": "recommend.personalized_min_user_rate",
	"recommend_default_limit":         "recommend.default_limit",
	"recommend_max_limit":             "recommend.max_limit",
	"recommend_similar_max_extra":     "recommend.similar_max_extra",
	"recommend_topic_bonus":           "recommend.topic_bonus",
	"recommend_city_bonus":            "recommend.city_bonus",
	"recommend_rate_divisor":          "recommend.rate_divisor",

	"cors_origins":        "security.cors_origins",
	"rate_limit_requests": "security.rate_limit_requests",
	"rate_limit_window":   "security.rate_limit_window",
	"disable_rate_limit":  "security.rate_limit_disabled",

	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",
}

// envTransformFunc maps environment variable names to koanf paths.
// Unmapped keys return "" and are skipped.
//
//   - HTTP_PORT -> server.port
//   - DUCKDB_PATH -> database.path
//   - GEOIP_PROVIDERS -> geoip.providers
func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}
