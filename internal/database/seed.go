// Cityfeed - Place and Media Recommendations by City
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cityfeed

package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/tomtom215/cityfeed/internal/catalog"
	"github.com/tomtom215/cityfeed/internal/logging"
)

// IsEmpty reports whether the catalog has no cities.
func (db *DB) IsEmpty(ctx context.Context) (bool, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	var n int64
	if err := db.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM cities`).Scan(&n); err != nil {
		return false, fmt.Errorf("failed to count cities: %w", err)
	}
	return n == 0, nil
}

// Seed loads a fixture in one transaction. Catalog rows are replaced;
// existing ratings are kept and only missing (user, media) pairs are added.
// Fixture media aggregates are ignored since the live provider computes
// them from ratings.
func (db *DB) Seed(ctx context.Context, f *catalog.Fixture) (err error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()
	defer func(start time.Time) { observe("seed", "all", start, err) }(time.Now())

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin seed transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	for i, c := range f.Cities {
		if _, err = tx.ExecContext(ctx,
			`INSERT OR REPLACE INTO cities (city_id, city_name, latitude, longitude, position) VALUES (?, ?, ?, ?, ?)`,
			c.ID, c.Name, c.Coordinates.Latitude, c.Coordinates.Longitude, i); err != nil {
			return fmt.Errorf("failed to seed city %s: %w", c.ID, err)
		}
	}
	for i, p := range f.Places {
		if _, err = tx.ExecContext(ctx,
			`INSERT OR REPLACE INTO places (place_id, city_id, place_name, latitude, longitude, position) VALUES (?, ?, ?, ?, ?, ?)`,
			p.ID, p.CityID, p.Name, p.Coordinates.Latitude, p.Coordinates.Longitude, i); err != nil {
			return fmt.Errorf("failed to seed place %s: %w", p.ID, err)
		}
	}
	for i, m := range f.Media {
		if _, err = tx.ExecContext(ctx,
			`INSERT OR REPLACE INTO media (media_id, place_id, title, caption, position) VALUES (?, ?, ?, ?, ?)`,
			m.ID, m.PlaceID, m.Title, m.Caption, i); err != nil {
			return fmt.Errorf("failed to seed media %s: %w", m.ID, err)
		}
	}
	if err = seedRatings(ctx, tx, f); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit seed: %w", err)
	}

	logging.Info().
		Int("cities", len(f.Cities)).
		Int("places", len(f.Places)).
		Int("media", len(f.Media)).
		Int("ratings", len(f.Ratings)).
		Msg("Database seeded from fixture")
	return nil
}

func seedRatings(ctx context.Context, tx *sql.Tx, f *catalog.Fixture) error {
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO ratings (user_id, media_id, rate, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (user_id, media_id) DO NOTHING`)
	if err != nil {
		return fmt.Errorf("failed to prepare rating insert: %w", err)
	}
	defer closeWithLog(stmt, "prepared statement")

	for _, r := range f.Ratings {
		updated := r.UpdatedAt
		if updated.IsZero() {
			updated = time.Now()
		}
		if _, err := stmt.ExecContext(ctx, r.UserID.String(), r.MediaID, r.Rate, updated.UTC()); err != nil {
			return fmt.Errorf("failed to seed rating %s/%s: %w", r.UserID, r.MediaID, err)
		}
	}
	return nil
}
