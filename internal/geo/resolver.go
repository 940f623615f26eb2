// Cityfeed - Place and Media Recommendations by City
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cityfeed

package geo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/cityfeed/internal/cache"
	"github.com/tomtom215/cityfeed/internal/metrics"
	"github.com/tomtom215/cityfeed/internal/models"
)

// Source identifies which tier produced a resolution.
type Source string

const (
	SourceNameMatch       Source = "name_match"
	SourceCoordinateMatch Source = "coordinate_match"
	SourceManualOverride  Source = "manual_override"
	SourceUnresolved      Source = "unresolved"
)

const (
	// DefaultLookupTimeout bounds a single provider call.
	DefaultLookupTimeout = 1500 * time.Millisecond

	// DefaultChainTimeout bounds the whole provider chain of one resolution.
	DefaultChainTimeout = 2 * time.Second

	// DefaultCacheLabel is the cache_type label of the memo metrics.
	DefaultCacheLabel = "geolocation"
)

// CitySource supplies the catalog cities to match against.
type CitySource interface {
	GetCities(ctx context.Context) ([]models.City, error)
}

// LookupStore persists geolocation results across restarts.
type LookupStore interface {
	GetGeolocation(ctx context.Context, ip string) (*models.Geolocation, error)
	UpsertGeolocation(ctx context.Context, geo *models.Geolocation) error
}

// Config holds resolver settings.
type Config struct {
	// Timeout bounds each provider lookup.
	Timeout time.Duration

	// ChainTimeout bounds all provider lookups of one resolution together.
	// A provider never gets more than what is left of it.
	ChainTimeout time.Duration

	// CacheTTL is how long successful lookups stay memoized and how old a
	// stored lookup may be before it is refreshed. Zero disables the memo.
	CacheTTL time.Duration

	// CacheLabel names the memo in cache metrics.
	CacheLabel string
}

// Request carries the inputs of one resolution.
type Request struct {
	ClientIP string
	CityID   string
}

// Resolution is the outcome of Resolve. City is nil when unresolved.
type Resolution struct {
	City        *models.City        `json:"city,omitempty"`
	Source      Source              `json:"source"`
	DistanceKm  *float64            `json:"distance_km,omitempty"`
	ClientIP    string              `json:"client_ip,omitempty"`
	Geolocation *models.Geolocation `json:"geolocation,omitempty"`
}

// Resolved reports whether a city was found.
func (r *Resolution) Resolved() bool {
	return r != nil && r.City != nil
}

// Resolver maps client addresses and city preferences to catalog cities.
type Resolver struct {
	cities    CitySource
	providers []Provider
	store     LookupStore
	memo      *cache.Cache[*models.Geolocation]
	cfg       Config
	logger    zerolog.Logger
}

// NewResolver creates a resolver. providers are tried in order; store may be nil.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewResolver(cities CitySource, providers []Provider, store LookupStore, cfg Config, logger zerolog.Logger) (*Resolver, error) {
	if cities == nil {
		return nil, errors.New("city source is required")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultLookupTimeout
	}
	if cfg.ChainTimeout <= 0 {
		cfg.ChainTimeout = DefaultChainTimeout
	}
	if cfg.CacheLabel == "" {
		cfg.CacheLabel = DefaultCacheLabel
	}

	r := &Resolver{
		cities:    cities,
		providers: providers,
		store:     store,
		cfg:       cfg,
		logger:    logger.With().Str("component", "geo").Logger(),
	}
	if cfg.CacheTTL > 0 {
		r.memo = cache.New[*models.Geolocation](cfg.CacheTTL)
	}
	return r, nil
}

// Close stops the memo cleanup loop.
func (r *Resolver) Close() {
	if r.memo != nil {
		r.memo.Close()
	}
}

// Resolve runs the resolution tiers in order. Geolocation failures are
// absorbed; the only error returned comes from loading catalog cities.
func (r *Resolver) Resolve(ctx context.Context, req Request) (*Resolution, error) {
	cities, err := r.cities.GetCities(ctx)
	if err != nil {
		return nil, fmt.Errorf("get cities: %w", err)
	}

	res := &Resolution{Source: SourceUnresolved, ClientIP: NormalizeIP(req.ClientIP)}

	if IsUsableIP(res.ClientIP) {
		if geo := r.lookup(ctx, res.ClientIP); geo.Usable() {
			res.Geolocation = geo
			if r.matchGeolocation(res, cities, geo) {
				metrics.RecordLocationResolution(string(res.Source))
				return res, nil
			}
		}
	}

	if id := strings.TrimSpace(req.CityID); id != "" {
		for i := range cities {
			if strings.EqualFold(cities[i].ID, id) {
				city := cities[i]
				res.City = &city
				res.Source = SourceManualOverride
				break
			}
		}
	}

	metrics.RecordLocationResolution(string(res.Source))
	return res, nil
}

func (r *Resolver) matchGeolocation(res *Resolution, cities []models.City, geo *models.Geolocation) bool {
	if geo.City != "" {
		var match *models.City
		matches := 0
		for i := range cities {
			if strings.EqualFold(cities[i].Name, geo.City) {
				if match == nil {
					match = &cities[i]
				}
				matches++
			}
		}
		if matches == 1 {
			city := *match
			res.City = &city
			res.Source = SourceNameMatch
			return true
		}
		if matches > 1 {
			r.logger.Debug().Str("city", geo.City).Int("matches", matches).Msg("Ambiguous city name match")
		}
	}

	if geo.Coordinates != nil {
		city, dist, ok := NearestCity(cities, *geo.Coordinates)
		if ok {
			res.City = &city
			res.Source = SourceCoordinateMatch
			res.DistanceKm = &dist
			return true
		}
	}
	return false
}

// lookup returns geolocation data for ip from the memo, the store or the
// providers, in that order. It returns nil when nothing usable is found.
func (r *Resolver) lookup(ctx context.Context, ip string) *models.Geolocation {
	if r.memo != nil {
		geo, ok := r.memo.Get(ip)
		metrics.RecordCacheAccess(r.cfg.CacheLabel, ok)
		r.recordMemoStats()
		if ok {
			return geo
		}
	}

	if geo := r.fromStore(ctx, ip); geo != nil {
		r.remember(ip, geo)
		return geo
	}

	geo := r.tryProviders(ctx, ip)
	if geo == nil {
		return nil
	}
	r.remember(ip, geo)
	if r.store != nil {
		if err := r.store.UpsertGeolocation(ctx, geo); err != nil {
			r.logger.Warn().Err(err).Str("ip", ip).Msg("Failed to persist geolocation")
		}
	}
	return geo
}

func (r *Resolver) fromStore(ctx context.Context, ip string) *models.Geolocation {
	if r.store == nil {
		return nil
	}
	geo, err := r.store.GetGeolocation(ctx, ip)
	if err != nil {
		r.logger.Debug().Err(err).Str("ip", ip).Msg("Geolocation store lookup failed")
		return nil
	}
	if !geo.Usable() {
		return nil
	}
	if r.cfg.CacheTTL > 0 && time.Since(geo.LastUpdated) > r.cfg.CacheTTL {
		return nil
	}
	return geo
}

func (r *Resolver) tryProviders(ctx context.Context, ip string) *models.Geolocation {
	chainCtx, cancelChain := context.WithTimeout(ctx, r.cfg.ChainTimeout)
	defer cancelChain()

	for _, p := range r.providers {
		if chainCtx.Err() != nil {
			r.logger.Debug().Str("ip", ip).Str("skipped_from", p.Name()).Msg("GeoIP provider chain out of time")
			return nil
		}
		if !p.IsAvailable() {
			continue
		}

		lookupCtx, cancel := context.WithTimeout(chainCtx, r.cfg.Timeout)
		start := time.Now()
		geo, err := p.Lookup(lookupCtx, ip)
		elapsed := time.Since(start)
		cancel()

		if err != nil {
			metrics.RecordGeoIPLookup(p.Name(), lookupResult(err), elapsed)
			r.logger.Debug().Err(err).Str("provider", p.Name()).Str("ip", ip).Msg("GeoIP provider failed")
			continue
		}
		if !geo.Usable() {
			metrics.RecordGeoIPLookup(p.Name(), "empty", elapsed)
			r.logger.Debug().Str("provider", p.Name()).Str("ip", ip).Msg("GeoIP provider returned no location")
			continue
		}

		metrics.RecordGeoIPLookup(p.Name(), "success", elapsed)
		return geo
	}
	return nil
}

func (r *Resolver) remember(ip string, geo *models.Geolocation) {
	if r.memo != nil {
		r.memo.Set(ip, geo)
		r.recordMemoStats()
	}
}

func (r *Resolver) recordMemoStats() {
	s := r.memo.GetStats()
	metrics.RecordCacheStats(r.cfg.CacheLabel, s.TotalKeys, s.Evictions, r.memo.HitRate())
}

func lookupResult(err error) string {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, ErrRateLimited):
		return "rate_limited"
	case errors.Is(err, ErrMalformedPayload):
		return "malformed"
	case errors.Is(err, ErrNotConfigured):
		return "not_configured"
	case isBreakerOpen(err):
		return "circuit_open"
	default:
		return "error"
	}
}
