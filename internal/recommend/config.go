// Cityfeed - Place and Media Recommendations by City
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cityfeed

package recommend

import (
	"fmt"
)

// Config contains all tunables for the recommendation engine.
type Config struct {
	// Thresholds decide which items qualify for the popular and personalized feeds.
	Thresholds ThresholdsConfig `json:"thresholds"`

	// Limits bound feed sizes.
	Limits LimitsConfig `json:"limits"`

	// Similarity weights the similar-item scoring function.
	Similarity SimilarityConfig `json:"similarity"`
}

// ThresholdsConfig contains feed qualification thresholds.
type ThresholdsConfig struct {
	// PopularMinOverallRate is the minimum community rate for the popular feed.
	// Default: 4.0.
	PopularMinOverallRate float64 `json:"popular_min_overall_rate"`

	// PopularMinVotes is the minimum number of ratings for the popular feed.
	// Default: 5.
	PopularMinVotes int `json:"popular_min_votes"`

	// PersonalizedMinUserRate is the minimum own rate for an item to count as
	// liked by the user. Default: 4.0.
	PersonalizedMinUserRate float64 `json:"personalized_min_user_rate"`
}

// LimitsConfig contains feed size limits.
type LimitsConfig struct {
	// DefaultLimit applies when the caller passes a limit <= 0. Default: 20.
	DefaultLimit int `json:"default_limit"`

	// MaxLimit caps any requested limit. Default: 100.
	MaxLimit int `json:"max_limit"`

	// SimilarMaxExtra caps how many similar items the personalized feed
	// requests to top up its base set. Default: 10.
	SimilarMaxExtra int `json:"similar_max_extra"`
}

// SimilarityConfig contains similar-item scoring weights.
type SimilarityConfig struct {
	// TopicBonus is added when a candidate shares a keyword with the seeds. Default: 2.5.
	TopicBonus float64 `json:"topic_bonus"`

	// CityBonus is added when a candidate is in a seed city. Default: 1.5.
	CityBonus float64 `json:"city_bonus"`

	// RateDivisor scales overall rate into a tie-breaking term. Default: 10.
	RateDivisor float64 `json:"rate_divisor"`
}

// DefaultConfig returns the default engine configuration.
func DefaultConfig() *Config {
	return &Config{
		Thresholds: ThresholdsConfig{
			PopularMinOverallRate:   4.0,
			PopularMinVotes:         5,
			PersonalizedMinUserRate: 4.0,
		},
		Limits: LimitsConfig{
			DefaultLimit:    20,
			MaxLimit:        100,
			SimilarMaxExtra: 10,
		},
		Similarity: SimilarityConfig{
			TopicBonus:  2.5,
			CityBonus:   1.5,
			RateDivisor: 10,
		},
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Thresholds.PopularMinOverallRate < 0 {
		return fmt.Errorf("thresholds.popular_min_overall_rate must be non-negative, got %f", c.Thresholds.PopularMinOverallRate)
	}
	if c.Thresholds.PopularMinVotes < 0 {
		return fmt.Errorf("thresholds.popular_min_votes must be non-negative, got %d", c.Thresholds.PopularMinVotes)
	}
	if c.Thresholds.PersonalizedMinUserRate < 0 {
		return fmt.Errorf("thresholds.personalized_min_user_rate must be non-negative, got %f", c.Thresholds.PersonalizedMinUserRate)
	}

	if c.Limits.DefaultLimit < 1 {
		return fmt.Errorf("limits.default_limit must be positive, got %d", c.Limits.DefaultLimit)
	}
	if c.Limits.MaxLimit < c.Limits.DefaultLimit {
		return fmt.Errorf("limits.max_limit must be >= limits.default_limit, got %d < %d", c.Limits.MaxLimit, c.Limits.DefaultLimit)
	}
	if c.Limits.SimilarMaxExtra < 0 {
		return fmt.Errorf("limits.similar_max_extra must be non-negative, got %d", c.Limits.SimilarMaxExtra)
	}

	if c.Similarity.TopicBonus < 0 {
		return fmt.Errorf("similarity.topic_bonus must be non-negative, got %f", c.Similarity.TopicBonus)
	}
	if c.Similarity.CityBonus < 0 {
		return fmt.Errorf("similarity.city_bonus must be non-negative, got %f", c.Similarity.CityBonus)
	}
	if c.Similarity.RateDivisor <= 0 {
		return fmt.Errorf("similarity.rate_divisor must be positive, got %f", c.Similarity.RateDivisor)
	}

	return nil
}

// Clone returns a deep copy of the configuration.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}

// normalizeLimit applies the default and cap to a requested limit.
func (c *Config) normalizeLimit(limit int) int {
	if limit <= 0 {
		return c.Limits.DefaultLimit
	}
	if limit > c.Limits.MaxLimit {
		return c.Limits.MaxLimit
	}
	return limit
}
