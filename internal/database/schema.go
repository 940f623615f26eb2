// Cityfeed - Place and Media Recommendations by City
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cityfeed

package database

import (
	"context"
	"fmt"
	"time"
)

// No foreign keys between catalog tables: dangling rows load and are
// skipped at read time. position keeps provider order stable.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS cities (
		city_id VARCHAR PRIMARY KEY,
		city_name VARCHAR NOT NULL,
		latitude DOUBLE NOT NULL,
		longitude DOUBLE NOT NULL,
		position INTEGER NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS places (
		place_id VARCHAR PRIMARY KEY,
		city_id VARCHAR NOT NULL,
		place_name VARCHAR NOT NULL,
		latitude DOUBLE NOT NULL,
		longitude DOUBLE NOT NULL,
		position INTEGER NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS media (
		media_id VARCHAR PRIMARY KEY,
		place_id VARCHAR NOT NULL,
		title VARCHAR NOT NULL,
		caption VARCHAR NOT NULL DEFAULT '',
		position INTEGER NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS ratings (
		user_id VARCHAR NOT NULL,
		media_id VARCHAR NOT NULL,
		rate DOUBLE NOT NULL,
		updated_at TIMESTAMP NOT NULL,
		PRIMARY KEY (user_id, media_id)
	)`,
	`CREATE TABLE IF NOT EXISTS geolocations (
		ip_address VARCHAR PRIMARY KEY,
		city VARCHAR NOT NULL DEFAULT '',
		region VARCHAR NOT NULL DEFAULT '',
		country VARCHAR NOT NULL DEFAULT '',
		latitude DOUBLE,
		longitude DOUBLE,
		provider VARCHAR NOT NULL DEFAULT '',
		last_updated TIMESTAMP NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_places_city ON places(city_id)`,
	`CREATE INDEX IF NOT EXISTS idx_ratings_media ON ratings(media_id)`,
}

func (db *DB) createSchema() error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	for _, stmt := range schemaStatements {
		if _, err := db.conn.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}
	return nil
}
