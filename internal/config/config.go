// Cityfeed - Place and Media Recommendations by City
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cityfeed

package config

import (
	"net"
	"strconv"
	"time"
)

// Catalog provider kinds.
const (
	ProviderStatic = "static"
	ProviderLive   = "live"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Database  DatabaseConfig  `koanf:"database"`
	Catalog   CatalogConfig   `koanf:"catalog"`
	GeoIP     GeoIPConfig     `koanf:"geoip"`
	Recommend RecommendConfig `koanf:"recommend"`
	Security  SecurityConfig  `koanf:"security"`
	Logging   LoggingConfig   `koanf:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port            int           `koanf:"port"`
	Host            string        `koanf:"host"`
	Timeout         time.Duration `koanf:"timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// DatabaseConfig holds DuckDB settings for the live provider.
type DatabaseConfig struct {
	Path         string        `koanf:"path"`
	MaxMemory    string        `koanf:"max_memory"`
	Threads      int           `koanf:"threads"` // 0 = use NumCPU
	QueryTimeout time.Duration `koanf:"query_timeout"`
}

// CatalogConfig selects and seeds the data provider.
type CatalogConfig struct {
	Provider       string        `koanf:"provider"`     // static or live
	FixturePath    string        `koanf:"fixture_path"` // empty = embedded fixture
	SeedOnStart    bool          `koanf:"seed_on_start"`
	ReloadInterval time.Duration `koanf:"reload_interval"` // static only, 0 = never
}

// GeoIPConfig holds location lookup settings.
type GeoIPConfig struct {
	Providers          []string      `koanf:"providers"`
	Timeout            time.Duration `koanf:"timeout"`
	ChainTimeout       time.Duration `koanf:"chain_timeout"`
	CacheTTL           time.Duration `koanf:"cache_ttl"`
	RateLimitPerMinute int           `koanf:"rate_limit_per_minute"`
	MaxMindAccountID   string        `koanf:"maxmind_account_id"`
	MaxMindLicenseKey  string        `koanf:"maxmind_license_key"`
	IPAPICoBaseURL     string        `koanf:"ipapi_co_base_url"`
	IPAPIBaseURL       string        `koanf:"ip_api_base_url"`
	MaxMindBaseURL     string        `koanf:"maxmind_base_url"`
}

// RecommendConfig holds recommendation engine tunables.
type RecommendConfig struct {
	PopularMinOverallRate   float64 `koanf:"popular_min_overall_rate"`
	PopularMinVotes         int     `koanf:"popular_min_votes"`
	PersonalizedMinUserRate float64 `koanf:"personalized_min_user_rate"`
	DefaultLimit            int     `koanf:"default_limit"`
	MaxLimit                int     `koanf:"max_limit"`
	SimilarMaxExtra         int     `koanf:"similar_max_extra"`
	TopicBonus              float64 `koanf:"topic_bonus"`
	CityBonus               float64 `koanf:"city_bonus"`
	RateDivisor             float64 `koanf:"rate_divisor"`
}

// SecurityConfig holds CORS and rate limiting settings.
type SecurityConfig struct {
	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitReqs     int           `koanf:"rate_limit_requests"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// Addr returns the listen address.
func (s ServerConfig) Addr() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}

// IsLive reports whether the DuckDB provider is selected.
func (c *Config) IsLive() bool {
	return c.Catalog.Provider == ProviderLive
}

// Load loads configuration from defaults, an optional YAML file and the environment.
func Load() (*Config, error) {
	return LoadWithKoanf()
}
