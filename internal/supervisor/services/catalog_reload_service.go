// Cityfeed - Place and Media Recommendations by City
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cityfeed

package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// Reloader re-reads a catalog source. *catalog.StaticProvider satisfies it.
type Reloader interface {
	Reload() error
}

// CatalogReloadService periodically reloads the static catalog fixture so
// edits to the file show up without a restart. A failed reload keeps the
// previous snapshot and is retried on the next tick.
type CatalogReloadService struct {
	reloader Reloader
	interval time.Duration
	logger   zerolog.Logger
	name     string

	// onReload is a test hook called after every attempt.
	onReload func(error)
}

// NewCatalogReloadService creates the service. A non-positive interval means 1m.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewCatalogReloadService(reloader Reloader, interval time.Duration, logger zerolog.Logger) *CatalogReloadService {
	if interval <= 0 {
		interval = time.Minute
	}
	return &CatalogReloadService{
		reloader: reloader,
		interval: interval,
		logger:   logger.With().Str("service", "catalog-reload").Logger(),
		name:     "catalog-reload",
	}
}

// Serve implements suture.Service.
func (s *CatalogReloadService) Serve(ctx context.Context) error {
	s.logger.Info().Dur("interval", s.interval).Msg("Catalog reload service starting")

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("Catalog reload service shutting down")
			return ctx.Err()

		case <-ticker.C:
			s.reload()
		}
	}
}

func (s *CatalogReloadService) reload() {
	start := time.Now()
	err := s.reloader.Reload()
	if err != nil {
		s.logger.Warn().Err(err).Msg("Catalog reload failed, keeping previous snapshot")
	} else {
		s.logger.Debug().Dur("duration", time.Since(start)).Msg("Catalog reloaded")
	}
	if s.onReload != nil {
		s.onReload(err)
	}
}

// String names the service in supervisor events.
func (s *CatalogReloadService) String() string {
	return s.name
}
