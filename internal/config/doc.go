// Cityfeed - Place and Media Recommendations by City
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cityfeed

/*
Package config provides centralized configuration management for Cityfeed.

# Configuration Sources

Configuration is loaded with Koanf v2 in three layers, later layers winning:

 1. Built-in defaults (defaultConfig)
 2. An optional YAML file: CONFIG_PATH, else config.yaml, config.yml,
    /etc/cityfeed/config.yaml or /etc/cityfeed/config.yml
 3. Environment variables, through an explicit mapping table

Unmapped environment variables are ignored.

# Environment Variables

Server:
  - HTTP_HOST: Bind address (default: 0.0.0.0)
  - HTTP_PORT: Listen port (default: 8080)
  - HTTP_TIMEOUT: Read/write timeout (default: 15s)
  - SHUTDOWN_TIMEOUT: Graceful shutdown budget (default: 10s)

Database (live provider):
  - DUCKDB_PATH: Database file path (default: /data/cityfeed.duckdb)
  - DUCKDB_MAX_MEMORY: Memory limit (default: 1GB)
  - DUCKDB_THREADS: Worker threads, 0 for NumCPU (default: 0)
  - DUCKDB_QUERY_TIMEOUT: Per-query timeout (default: 10s)

Catalog:
  - CATALOG_PROVIDER: static or live (default: static)
  - CATALOG_FIXTURE_PATH: Fixture JSON, empty for the embedded catalog
  - CATALOG_SEED_ON_START: Seed the live database when empty (default: true)

GeoIP:
  - GEOIP_PROVIDERS: Comma-separated, tried in order (default: ipapi.co,ip-api.com)
  - GEOIP_TIMEOUT: Per-lookup timeout (default: 1.5s)
  - GEOIP_CHAIN_TIMEOUT: Budget for all providers of one request (default: 2s)
  - GEOIP_CACHE_TTL: Memo and store freshness (default: 24h)
  - GEOIP_RATE_LIMIT_PER_MINUTE: Outgoing lookups per provider (default: 30)
  - MAXMIND_ACCOUNT_ID, MAXMIND_LICENSE_KEY: GeoLite2 web service credentials

Recommendation engine:
  - RECOMMEND_POPULAR_MIN_RATE (4.0), RECOMMEND_POPULAR_MIN_VOTES (5)
  - RECOMMEND_PERSONALIZED_MIN_RATE (4.0)
  - RECOMMEND_DEFAULT_LIMIT (20), RECOMMEND_MAX_LIMIT (100), RECOMMEND_SIMILAR_MAX_EXTRA (10)
  - RECOMMEND_TOPIC_BONUS (2.5), RECOMMEND_CITY_BONUS (1.5), RECOMMEND_RATE_DIVISOR (10)

Security:
  - CORS_ORIGINS: Comma-separated origins (default: *)
  - RATE_LIMIT_REQUESTS, RATE_LIMIT_WINDOW: Per-IP API limit (default: 100 per 1m)
  - DISABLE_RATE_LIMIT: Turn the API limit off

Logging:
  - LOG_LEVEL: trace, debug, info, warn, error (default: info)
  - LOG_FORMAT: json or console (default: json)
  - LOG_CALLER: Include caller file:line (default: false)

# Usage

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}
*/
package config
