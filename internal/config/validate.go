// Cityfeed - Place and Media Recommendations by City
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cityfeed

package config

import (
	"fmt"
	"time"
)

// Validate checks that configuration values are present and within bounds.
func (c *Config) Validate() error {
	validators := []func() error{
		c.validateServer,
		c.validateDatabase,
		c.validateCatalog,
		c.validateGeoIP,
		c.validateRecommend,
		c.validateRateLimits,
		c.validateLogging,
	}
	for _, v := range validators {
		if err := v(); err != nil {
			return err
		}
	}
	return nil
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535")
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive")
	}
	return nil
}

func (c *Config) validateDatabase() error {
	if !c.IsLive() {
		return nil
	}
	if c.Database.Path == "" {
		return fmt.Errorf("DUCKDB_PATH is required when CATALOG_PROVIDER=live")
	}
	if c.Database.Threads < 0 {
		return fmt.Errorf("DUCKDB_THREADS must be >= 0")
	}
	if c.Database.QueryTimeout < 0 {
		return fmt.Errorf("DUCKDB_QUERY_TIMEOUT must be >= 0")
	}
	return nil
}

func (c *Config) validateCatalog() error {
	switch c.Catalog.Provider {
	case ProviderStatic, ProviderLive:
	default:
		return fmt.Errorf("CATALOG_PROVIDER must be one of: static, live (got %q)", c.Catalog.Provider)
	}
	if c.Catalog.ReloadInterval < 0 {
		return fmt.Errorf("CATALOG_RELOAD_INTERVAL must not be negative (got %s)", c.Catalog.ReloadInterval)
	}
	return nil
}

// GeoIP provider names accepted in GEOIP_PROVIDERS.
var validGeoIPProviders = map[string]bool{
	"ipapi.co":   true,
	"ip-api.com": true,
	"maxmind":    true,
}

// Bounds for the GeoIP timeouts.
const (
	minGeoIPTimeout = 100 * time.Millisecond
	maxGeoIPTimeout = 10 * time.Second
)

func (c *Config) validateGeoIP() error {
	for _, p := range c.GeoIP.Providers {
		if !validGeoIPProviders[p] {
			return fmt.Errorf("GEOIP_PROVIDERS contains unknown provider %q (valid: ipapi.co, ip-api.com, maxmind)", p)
		}
		if p == "maxmind" && (c.GeoIP.MaxMindAccountID == "" || c.GeoIP.MaxMindLicenseKey == "") {
			return fmt.Errorf("MAXMIND_ACCOUNT_ID and MAXMIND_LICENSE_KEY are required for the maxmind provider")
		}
	}
	if c.GeoIP.Timeout < minGeoIPTimeout || c.GeoIP.Timeout > maxGeoIPTimeout {
		return fmt.Errorf("GEOIP_TIMEOUT must be between %v and %v", minGeoIPTimeout, maxGeoIPTimeout)
	}
	if c.GeoIP.ChainTimeout < c.GeoIP.Timeout || c.GeoIP.ChainTimeout > maxGeoIPTimeout {
		return fmt.Errorf("GEOIP_CHAIN_TIMEOUT must be between GEOIP_TIMEOUT (%v) and %v", c.GeoIP.Timeout, maxGeoIPTimeout)
	}
	if c.GeoIP.CacheTTL < 0 {
		return fmt.Errorf("GEOIP_CACHE_TTL must be >= 0")
	}
	if c.GeoIP.RateLimitPerMinute < 0 {
		return fmt.Errorf("GEOIP_RATE_LIMIT_PER_MINUTE must be >= 0")
	}
	return nil
}

func (c *Config) validateRecommend() error {
	r := c.Recommend
	if r.PopularMinOverallRate < 0 || r.PersonalizedMinUserRate < 0 || r.PopularMinVotes < 0 {
		return fmt.Errorf("recommend thresholds must be non-negative")
	}
	if r.DefaultLimit <= 0 {
		return fmt.Errorf("RECOMMEND_DEFAULT_LIMIT must be positive")
	}
	if r.MaxLimit < r.DefaultLimit {
		return fmt.Errorf("RECOMMEND_MAX_LIMIT must be >= RECOMMEND_DEFAULT_LIMIT")
	}
	if r.RateDivisor == 0 {
		return fmt.Errorf("RECOMMEND_RATE_DIVISOR must not be zero")
	}
	return nil
}

// Rate limit bounds.
const (
	minRateLimitRequests = 1
	maxRateLimitRequests = 100000
	minRateLimitWindow   = time.Second
	maxRateLimitWindow   = time.Hour
)

func (c *Config) validateRateLimits() error {
	if c.Security.RateLimitDisabled {
		return nil
	}
	if c.Security.RateLimitReqs < minRateLimitRequests || c.Security.RateLimitReqs > maxRateLimitRequests {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must be between %d and %d", minRateLimitRequests, maxRateLimitRequests)
	}
	if c.Security.RateLimitWindow < minRateLimitWindow || c.Security.RateLimitWindow > maxRateLimitWindow {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be between %v and %v", minRateLimitWindow, maxRateLimitWindow)
	}
	return nil
}

var validLogLevels = map[string]bool{
	"trace": true,
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

var validLogFormats = map[string]bool{
	"json":    true,
	"console": true,
}

func (c *Config) validateLogging() error {
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("LOG_LEVEL must be one of: trace, debug, info, warn, error")
	}
	if c.Logging.Format != "" && !validLogFormats[c.Logging.Format] {
		return fmt.Errorf("LOG_FORMAT must be one of: json, console")
	}
	return nil
}
