// Cityfeed - Place and Media Recommendations by City
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cityfeed

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/tomtom215/cityfeed/internal/models"
)

// GetGeolocation returns the stored lookup for ip, or ErrNotFound.
func (db *DB) GetGeolocation(ctx context.Context, ip string) (geo *models.Geolocation, err error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()
	defer func(start time.Time) {
		if errors.Is(err, ErrNotFound) {
			observe("select", "geolocations", start, nil)
			return
		}
		observe("select", "geolocations", start, err)
	}(time.Now())

	var (
		g        models.Geolocation
		lat, lon sql.NullFloat64
	)
	err = db.conn.QueryRowContext(ctx, `
		SELECT ip_address, city, region, country, latitude, longitude, provider, last_updated
		FROM geolocations
		WHERE ip_address = ?`, ip).
		Scan(&g.IPAddress, &g.City, &g.Region, &g.Country, &lat, &lon, &g.Provider, &g.LastUpdated)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("geolocation %s: %w", ip, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query geolocation: %w", err)
	}

	if lat.Valid && lon.Valid {
		g.Coordinates = &models.Coordinates{Latitude: lat.Float64, Longitude: lon.Float64}
	}
	g.LastUpdated = g.LastUpdated.UTC()
	return &g, nil
}

// UpsertGeolocation stores or replaces the lookup for geo.IPAddress.
func (db *DB) UpsertGeolocation(ctx context.Context, geo *models.Geolocation) (err error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()
	defer func(start time.Time) { observe("upsert", "geolocations", start, err) }(time.Now())

	if geo.IPAddress == "" {
		return errors.New("geolocation without ip address")
	}
	updated := geo.LastUpdated
	if updated.IsZero() {
		updated = time.Now()
	}

	var lat, lon interface{}
	if geo.Coordinates != nil {
		lat, lon = geo.Coordinates.Latitude, geo.Coordinates.Longitude
	}

	_, err = db.conn.ExecContext(ctx, `
		INSERT INTO geolocations (ip_address, city, region, country, latitude, longitude, provider, last_updated)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (ip_address) DO UPDATE SET
			city = EXCLUDED.city,
			region = EXCLUDED.region,
			country = EXCLUDED.country,
			latitude = EXCLUDED.latitude,
			longitude = EXCLUDED.longitude,
			provider = EXCLUDED.provider,
			last_updated = EXCLUDED.last_updated`,
		geo.IPAddress, geo.City, geo.Region, geo.Country, lat, lon, geo.Provider, updated.UTC())
	if err != nil {
		return fmt.Errorf("failed to upsert geolocation: %w", err)
	}
	return nil
}
