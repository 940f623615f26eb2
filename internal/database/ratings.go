// Cityfeed - Place and Media Recommendations by City
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cityfeed

package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/tomtom215/cityfeed/internal/models"
)

// ErrInvalidRating is returned for ratings outside the accepted range or without a user.
var ErrInvalidRating = errors.New("invalid rating")

// UpsertRating records a user's rate for a media item, replacing any
// previous rate by the same user. The media item must exist.
// Transaction conflicts are retried with a short backoff.
func (db *DB) UpsertRating(ctx context.Context, r *models.Rating) error {
	if r.UserID == uuid.Nil || r.MediaID == "" {
		return fmt.Errorf("%w: user and media are required", ErrInvalidRating)
	}
	if !models.ValidRate(r.Rate) {
		return fmt.Errorf("%w: rate %.2f outside [%.0f, %.0f]", ErrInvalidRating, r.Rate, models.MinRate, models.MaxRate)
	}
	if r.UpdatedAt.IsZero() {
		r.UpdatedAt = time.Now().UTC()
	}

	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	const maxRetries = 3
	var lastErr error
	for attempt := 0; attempt < maxRetries; attempt++ {
		err := db.doUpsertRating(ctx, r)
		if err == nil {
			return nil
		}
		lastErr = err

		if ctx.Err() != nil {
			return fmt.Errorf("operation timed out or canceled: %w", ctx.Err())
		}
		if !isTransactionConflict(err) {
			return err
		}
		backoff := time.Millisecond * time.Duration(1<<uint(attempt))
		select {
		case <-time.After(backoff):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return fmt.Errorf("max retries exceeded: %w", lastErr)
}

func (db *DB) doUpsertRating(ctx context.Context, r *models.Rating) (err error) {
	defer func(start time.Time) { observe("upsert", "ratings", start, err) }(time.Now())

	var exists bool
	if err := db.conn.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM media WHERE media_id = ?)`, r.MediaID).Scan(&exists); err != nil {
		return fmt.Errorf("failed to check media %s: %w", r.MediaID, err)
	}
	if !exists {
		return fmt.Errorf("media %s: %w", r.MediaID, ErrNotFound)
	}

	_, err = db.conn.ExecContext(ctx, `
		INSERT INTO ratings (user_id, media_id, rate, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (user_id, media_id) DO UPDATE SET
			rate = EXCLUDED.rate,
			updated_at = EXCLUDED.updated_at`,
		r.UserID.String(), r.MediaID, r.Rate, r.UpdatedAt.UTC())
	if err != nil {
		return fmt.Errorf("failed to upsert rating: %w", err)
	}
	return nil
}

// DeleteRating removes a user's rate for a media item. Missing rows are not an error.
func (db *DB) DeleteRating(ctx context.Context, userID uuid.UUID, mediaID string) (err error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()
	defer func(start time.Time) { observe("delete", "ratings", start, err) }(time.Now())

	if _, err = db.conn.ExecContext(ctx,
		`DELETE FROM ratings WHERE user_id = ? AND media_id = ?`, userID.String(), mediaID); err != nil {
		return fmt.Errorf("failed to delete rating: %w", err)
	}
	return nil
}
