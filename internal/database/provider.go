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

	"github.com/google/uuid"

	"github.com/tomtom215/cityfeed/internal/models"
)

const mediaAggregateQuery = `
	SELECT m.media_id, m.place_id, m.title, m.caption,
	       COALESCE(ROUND(AVG(r.rate), 2), 0) AS overall_rate,
	       COUNT(r.rate) AS ratings_count
	FROM media m
	LEFT JOIN ratings r ON r.media_id = m.media_id
	GROUP BY m.media_id, m.place_id, m.title, m.caption, m.position
	ORDER BY m.position, m.media_id`

// GetCities returns all cities in catalog order.
func (db *DB) GetCities(ctx context.Context) (cities []models.City, err error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()
	defer func(start time.Time) { observe("select", "cities", start, err) }(time.Now())

	rows, err := db.conn.QueryContext(ctx, `
		SELECT city_id, city_name, latitude, longitude
		FROM cities
		ORDER BY position, city_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query cities: %w", err)
	}
	defer rows.Close()

	cities = []models.City{}
	for rows.Next() {
		var c models.City
		if err := rows.Scan(&c.ID, &c.Name, &c.Coordinates.Latitude, &c.Coordinates.Longitude); err != nil {
			return nil, fmt.Errorf("failed to scan city: %w", err)
		}
		cities = append(cities, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating cities: %w", err)
	}
	return cities, nil
}

// GetCityPlaces returns the places of one city in catalog order.
func (db *DB) GetCityPlaces(ctx context.Context, cityID string) (places []models.Place, err error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()
	defer func(start time.Time) { observe("select", "places", start, err) }(time.Now())

	rows, err := db.conn.QueryContext(ctx, `
		SELECT place_id, city_id, place_name, latitude, longitude
		FROM places
		WHERE city_id = ?
		ORDER BY position, place_id`, cityID)
	if err != nil {
		return nil, fmt.Errorf("failed to query places for city %s: %w", cityID, err)
	}
	defer rows.Close()
	return scanPlaces(rows)
}

// GetAllPlaces returns every place in catalog order.
func (db *DB) GetAllPlaces(ctx context.Context) (places []models.Place, err error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()
	defer func(start time.Time) { observe("select", "places", start, err) }(time.Now())

	rows, err := db.conn.QueryContext(ctx, `
		SELECT place_id, city_id, place_name, latitude, longitude
		FROM places
		ORDER BY position, place_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query places: %w", err)
	}
	defer rows.Close()
	return scanPlaces(rows)
}

func scanPlaces(rows *sql.Rows) ([]models.Place, error) {
	places := []models.Place{}
	for rows.Next() {
		var p models.Place
		if err := rows.Scan(&p.ID, &p.CityID, &p.Name, &p.Coordinates.Latitude, &p.Coordinates.Longitude); err != nil {
			return nil, fmt.Errorf("failed to scan place: %w", err)
		}
		places = append(places, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating places: %w", err)
	}
	return places, nil
}

// GetMedia returns every media item with aggregates computed from the
// ratings table. Unrated items have overall rate 0 and count 0.
func (db *DB) GetMedia(ctx context.Context) (media []models.MediaItem, err error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()
	defer func(start time.Time) { observe("select", "media", start, err) }(time.Now())

	rows, err := db.conn.QueryContext(ctx, mediaAggregateQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to query media: %w", err)
	}
	defer rows.Close()

	media = []models.MediaItem{}
	for rows.Next() {
		var m models.MediaItem
		var count int64
		if err := rows.Scan(&m.ID, &m.PlaceID, &m.Title, &m.Caption, &m.OverallRate, &count); err != nil {
			return nil, fmt.Errorf("failed to scan media: %w", err)
		}
		m.RatingsCount = int(count)
		media = append(media, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating media: %w", err)
	}
	return media, nil
}

// GetUserRatings returns one user's ratings, oldest first.
func (db *DB) GetUserRatings(ctx context.Context, userID uuid.UUID) (ratings []models.Rating, err error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()
	defer func(start time.Time) { observe("select", "ratings", start, err) }(time.Now())

	rows, err := db.conn.QueryContext(ctx, `
		SELECT media_id, rate, updated_at
		FROM ratings
		WHERE user_id = ?
		ORDER BY updated_at, media_id`, userID.String())
	if err != nil {
		return nil, fmt.Errorf("failed to query ratings for user %s: %w", userID, err)
	}
	defer rows.Close()

	ratings = []models.Rating{}
	for rows.Next() {
		r := models.Rating{UserID: userID}
		if err := rows.Scan(&r.MediaID, &r.Rate, &r.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan rating: %w", err)
		}
		r.UpdatedAt = r.UpdatedAt.UTC()
		ratings = append(ratings, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating ratings: %w", err)
	}
	return ratings, nil
}
