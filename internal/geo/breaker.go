// Cityfeed - Place and Media Recommendations by City
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cityfeed

package geo

import (
	"context"
	"errors"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/cityfeed/internal/logging"
	"github.com/tomtom215/cityfeed/internal/metrics"
	"github.com/tomtom215/cityfeed/internal/models"
)

// BreakerSettings configures the circuit breaker around a provider.
type BreakerSettings struct {
	// MaxRequests allowed through while half-open.
	MaxRequests uint32

	// Interval after which closed-state counts reset.
	Interval time.Duration

	// Timeout before an open breaker moves to half-open.
	Timeout time.Duration

	// MinRequests before the failure ratio is considered.
	MinRequests uint32

	// FailureRatio at or above which the breaker opens.
	FailureRatio float64
}

// DefaultBreakerSettings opens after 60% failures over at least 10 requests
// and probes again after two minutes.
func DefaultBreakerSettings() BreakerSettings {
	return BreakerSettings{
		MaxRequests:  3,
		Interval:     time.Minute,
		Timeout:      2 * time.Minute,
		MinRequests:  10,
		FailureRatio: 0.6,
	}
}

// breakerProvider wraps a Provider with a circuit breaker.
//
// The breaker uses wall-clock time for its interval and timeout. Tests drive
// it through MinRequests and FailureRatio rather than by waiting.
type breakerProvider struct {
	inner Provider
	cb    *gobreaker.CircuitBreaker[*models.Geolocation]
	name  string
}

// WithCircuitBreaker wraps p so that repeated upstream failures stop
// outgoing calls for a while. Rate limits and invalid addresses do not
// count as upstream failures.
func WithCircuitBreaker(p Provider, s BreakerSettings) Provider {
	name := "geoip-" + p.Name()

	metrics.CircuitBreakerState.WithLabelValues(name).Set(0)
	metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(name).Set(0)

	cb := gobreaker.NewCircuitBreaker[*models.Geolocation](gobreaker.Settings{
		Name:        name,
		MaxRequests: s.MaxRequests,
		Interval:    s.Interval,
		Timeout:     s.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < s.MinRequests {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			shouldTrip := failureRatio >= s.FailureRatio
			if shouldTrip {
				logging.Warn().
					Str("breaker", name).
					Uint32("failures", counts.TotalFailures).
					Float64("failure_rate", failureRatio*100).
					Msg("[CIRCUIT BREAKER] Opening circuit")
			}
			return shouldTrip
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			fromStr := stateToString(from)
			toStr := stateToString(to)

			logging.Info().Str("breaker", name).Str("from", fromStr).Str("to", toStr).Msg("[CIRCUIT BREAKER] State transition")

			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, fromStr, toStr).Inc()
			if to == gobreaker.StateClosed {
				metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(name).Set(0)
			}
		},
		IsSuccessful: func(err error) bool {
			// A caller that gave up says nothing about the upstream.
			return err == nil || errors.Is(err, ErrRateLimited) || errors.Is(err, ErrInvalidIP) ||
				errors.Is(err, context.Canceled)
		},
	})

	return &breakerProvider{inner: p, cb: cb, name: name}
}

func (b *breakerProvider) Name() string { return b.inner.Name() }

func (b *breakerProvider) IsAvailable() bool { return b.inner.IsAvailable() }

func (b *breakerProvider) Lookup(ctx context.Context, ip string) (*models.Geolocation, error) {
	geo, err := b.cb.Execute(func() (*models.Geolocation, error) {
		return b.inner.Lookup(ctx, ip)
	})

	if err != nil {
		if isBreakerOpen(err) {
			metrics.CircuitBreakerRequests.WithLabelValues(b.name, "rejected").Inc()
		} else {
			metrics.CircuitBreakerRequests.WithLabelValues(b.name, "failure").Inc()
			metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(b.name).Set(float64(b.cb.Counts().ConsecutiveFailures))
		}
		return nil, err
	}

	metrics.CircuitBreakerRequests.WithLabelValues(b.name, "success").Inc()
	metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(b.name).Set(0)
	return geo, nil
}

func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

func stateToString(state gobreaker.State) string {
	switch state {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}

func isBreakerOpen(err error) bool {
	return errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests)
}
