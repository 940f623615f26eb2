// Cityfeed - Place and Media Recommendations by City
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cityfeed

// Package main is the entry point for the Cityfeed server.
//
// Startup order:
//
//  1. Configuration (koanf: defaults, optional config.yaml, environment)
//  2. Logging
//  3. Catalog provider: the static fixture, or DuckDB seeded from it
//  4. Location resolver with circuit-broken GeoIP providers
//  5. Recommendation engine
//  6. HTTP router and supervisor tree
//
// SIGINT and SIGTERM cancel the tree; the HTTP server then drains in-flight
// requests for up to SHUTDOWN_TIMEOUT.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/tomtom215/cityfeed/internal/api"
	"github.com/tomtom215/cityfeed/internal/catalog"
	"github.com/tomtom215/cityfeed/internal/config"
	"github.com/tomtom215/cityfeed/internal/database"
	"github.com/tomtom215/cityfeed/internal/geo"
	"github.com/tomtom215/cityfeed/internal/logging"
	"github.com/tomtom215/cityfeed/internal/recommend"
	"github.com/tomtom215/cityfeed/internal/supervisor"
	"github.com/tomtom215/cityfeed/internal/supervisor/services"
)

// catalogProvider is what both catalog backends offer the rest of the server.
type catalogProvider interface {
	recommend.DataProvider
	api.Pinger
}

func main() {
	if err := run(); err != nil {
		logging.Fatal().Err(err).Msg("Cityfeed stopped with an error")
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})
	logger := logging.Logger()

	logger.Info().
		Str("provider", cfg.Catalog.Provider).
		Str("addr", cfg.Server.Addr()).
		Strs("geoip_providers", cfg.GeoIP.Providers).
		Msg("Starting Cityfeed")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var (
		provider catalogProvider
		static   *catalog.StaticProvider
		db       *database.DB
	)
	if cfg.IsLive() {
		db, err = openDatabase(ctx, cfg, logger)
		if err != nil {
			return err
		}
		defer func() {
			if err := db.Close(); err != nil {
				logger.Error().Err(err).Msg("Error closing database")
			}
		}()
		provider = db
	} else {
		static = catalog.NewStaticProvider(cfg.Catalog.FixturePath, logger)
		if _, err := static.GetCities(ctx); err != nil {
			return fmt.Errorf("load catalog fixture: %w", err)
		}
		provider = static
	}

	var store geo.LookupStore
	if db != nil {
		store = db
	}
	resolver, err := geo.NewResolver(provider, buildGeoProviders(cfg, logger), store, geo.Config{
		Timeout:      cfg.GeoIP.Timeout,
		ChainTimeout: cfg.GeoIP.ChainTimeout,
		CacheTTL:     cfg.GeoIP.CacheTTL,
	}, logger)
	if err != nil {
		return fmt.Errorf("create location resolver: %w", err)
	}
	defer resolver.Close()

	engine, err := recommend.NewEngine(engineConfig(cfg), provider, logger)
	if err != nil {
		return fmt.Errorf("create recommendation engine: %w", err)
	}

	handler := api.NewHandler(engine, resolver, provider)
	if db != nil {
		handler.SetRatingStore(db)
	}

	if cfg.Security.RateLimitDisabled {
		logger.Warn().Msg("Rate limiting is DISABLED (DISABLE_RATE_LIMIT=true)")
	}
	mw := api.NewChiMiddlewareFromSecurity(
		cfg.Security.CORSOrigins,
		cfg.Security.RateLimitReqs,
		cfg.Security.RateLimitWindow,
		cfg.Security.RateLimitDisabled,
	)
	router := api.NewRouter(handler, mw)

	server := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           router.SetupChi(),
		ReadHeaderTimeout: cfg.Server.Timeout,
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       2 * cfg.Server.Timeout,
	}

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})
	if err != nil {
		return fmt.Errorf("create supervisor tree: %w", err)
	}
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout, logger))
	if static != nil && cfg.Catalog.ReloadInterval > 0 {
		tree.AddDataService(services.NewCatalogReloadService(static, cfg.Catalog.ReloadInterval, logger))
	}

	logger.Info().Str("addr", server.Addr).Msg("HTTP server listening")
	err = tree.Serve(ctx)
	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("supervisor tree: %w", err)
	}

	if unstopped, reportErr := tree.UnstoppedServiceReport(); reportErr == nil && len(unstopped) > 0 {
		for _, svc := range unstopped {
			logger.Warn().Str("service", svc.Name).Msg("Service did not stop within the shutdown timeout")
		}
	}
	logger.Info().Msg("Cityfeed stopped")
	return nil
}

// openDatabase opens DuckDB and seeds it from the fixture when it is empty.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func openDatabase(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*database.DB, error) {
	db, err := database.New(&cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	logger.Info().Str("path", cfg.Database.Path).Msg("Database initialized")

	if !cfg.Catalog.SeedOnStart {
		return db, nil
	}
	empty, err := db.IsEmpty(ctx)
	if err == nil && empty {
		// Seed through the static provider so aggregates get the same normalization.
		var fixture *catalog.Fixture
		fixture, err = catalog.NewStaticProvider(cfg.Catalog.FixturePath, logger).Fixture(ctx)
		if err == nil {
			err = db.Seed(ctx, fixture)
		}
		if err == nil {
			logger.Info().
				Int("cities", len(fixture.Cities)).
				Int("media", len(fixture.Media)).
				Msg("Database seeded from catalog fixture")
		}
	}
	if err != nil {
		if closeErr := db.Close(); closeErr != nil {
			logger.Error().Err(closeErr).Msg("Error closing database")
		}
		return nil, fmt.Errorf("seed database: %w", err)
	}
	return db, nil
}

// buildGeoProviders creates the configured providers in order, each behind
// its own circuit breaker. Unavailable providers are skipped.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func buildGeoProviders(cfg *config.Config, logger zerolog.Logger) []geo.Provider {
	providers := make([]geo.Provider, 0, len(cfg.GeoIP.Providers))
	for _, name := range cfg.GeoIP.Providers {
		var p geo.Provider
		switch name {
		case geo.ProviderIPAPICo:
			p = geo.NewIPAPICoProvider(geo.ProviderOptions{
				BaseURL:           cfg.GeoIP.IPAPICoBaseURL,
				RequestsPerMinute: cfg.GeoIP.RateLimitPerMinute,
			})
		case geo.ProviderIPAPI:
			p = geo.NewIPAPIProvider(geo.ProviderOptions{
				BaseURL:           cfg.GeoIP.IPAPIBaseURL,
				RequestsPerMinute: cfg.GeoIP.RateLimitPerMinute,
			})
		case geo.ProviderMaxMind:
			p = geo.NewMaxMindProvider(cfg.GeoIP.MaxMindAccountID, cfg.GeoIP.MaxMindLicenseKey, geo.ProviderOptions{
				BaseURL:           cfg.GeoIP.MaxMindBaseURL,
				RequestsPerMinute: cfg.GeoIP.RateLimitPerMinute,
			})
		default:
			logger.Warn().Str("provider", name).Msg("Unknown GeoIP provider, skipping")
			continue
		}
		if !p.IsAvailable() {
			logger.Warn().Str("provider", name).Msg("GeoIP provider not configured, skipping")
			continue
		}
		providers = append(providers, geo.WithCircuitBreaker(p, geo.DefaultBreakerSettings()))
	}
	if len(providers) == 0 {
		logger.Info().Msg("No GeoIP providers enabled, nearest feed relies on the city parameter")
	}
	return providers
}

func engineConfig(cfg *config.Config) *recommend.Config {
	rc := cfg.Recommend
	return &recommend.Config{
		Thresholds: recommend.ThresholdsConfig{
			PopularMinOverallRate:   rc.PopularMinOverallRate,
			PopularMinVotes:         rc.PopularMinVotes,
			PersonalizedMinUserRate: rc.PersonalizedMinUserRate,
		},
		Limits: recommend.LimitsConfig{
			DefaultLimit:    rc.DefaultLimit,
			MaxLimit:        rc.MaxLimit,
			SimilarMaxExtra: rc.SimilarMaxExtra,
		},
		Similarity: recommend.SimilarityConfig{
			TopicBonus:  rc.TopicBonus,
			CityBonus:   rc.CityBonus,
			RateDivisor: rc.RateDivisor,
		},
	}
}

