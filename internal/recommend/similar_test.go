// Cityfeed - Place and Media Recommendations by City
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cityfeed

package recommend

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/google/uuid"
)

func TestEngine_Similar(t *testing.T) {
	t.Parallel()
	engine := newTestEngine(t, newCatalogProvider())
	ctx := context.Background()

	tests := []struct {
		name     string
		user     uuid.UUID
		seeds    []string
		excluded []string
		limit    int
		want     []string
	}{
		{
			name:  "topic and city overlap",
			seeds: []string{"m3"},
			limit: 3,
			want:  []string{"m1", "m7", "m9"},
		},
		{
			name:     "excluded ids are skipped",
			seeds:    []string{"m3"},
			excluded: []string{"m7"},
			limit:    3,
			want:     []string{"m1", "m9", "m10"},
		},
		{
			name:  "equal scores keep provider order",
			seeds: []string{"m5"},
			limit: 0,
			want:  []string{"m6", "m2", "m8", "m1", "m4", "m3", "m11", "m12", "m7", "m9", "m10"},
		},
		{
			name:  "rated items are skipped for a known user",
			user:  likesTehranAndIsfahan,
			seeds: []string{"m1"},
			limit: 3,
			want:  []string{"m7", "m9", "m10"},
		},
		{
			name:  "unknown seeds yield nothing",
			seeds: []string{"does-not-exist"},
			limit: 5,
			want:  []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			items, err := engine.Similar(ctx, tt.user, tt.seeds, tt.excluded, tt.limit)
			if err != nil {
				t.Fatalf("Similar() error = %v", err)
			}
			if got := itemIDs(items); !equalIDs(got, tt.want) {
				t.Errorf("Similar() = %v, want %v", got, tt.want)
			}
			for _, item := range items {
				for _, id := range append(tt.excluded, tt.seeds...) {
					if item.ID == id {
						t.Errorf("Similar() returned excluded or seed item %s", id)
					}
				}
			}
		})
	}
}

func TestEngine_SimilarScoring(t *testing.T) {
	t.Parallel()
	engine := newTestEngine(t, newCatalogProvider())

	items, err := engine.Similar(context.Background(), uuid.Nil, []string{"m3"}, nil, 20)
	if err != nil {
		t.Fatalf("Similar() error = %v", err)
	}

	byID := map[string]ScoredItem{}
	for _, item := range items {
		byID[item.ID] = item
	}

	tests := []struct {
		id     string
		score  float64
		reason MatchReason
	}{
		// Topic and city both apply: score is additive, reason is topic.
		{"m1", 2.5 + 1.5 + 0.46, ReasonSimilarTopic},
		{"m7", 1.5 + 0.40, ReasonSameCity},
		{"m10", 1.5, ReasonSameCity},
		// No overlap: only the rate term remains and no reason is set.
		{"m5", 0.49, ""},
		// Place with a city missing from the catalog.
		{"m8", 0.47, ""},
	}

	for _, tt := range tests {
		item, ok := byID[tt.id]
		if !ok {
			t.Errorf("item %s missing from similar results", tt.id)
			continue
		}
		if math.Abs(item.Score-tt.score) > 1e-9 {
			t.Errorf("item %s score = %v, want %v", tt.id, item.Score, tt.score)
		}
		if item.MatchReason != tt.reason {
			t.Errorf("item %s reason = %q, want %q", tt.id, item.MatchReason, tt.reason)
		}
	}
}

func TestEngine_SimilarMissingSeeds(t *testing.T) {
	t.Parallel()
	engine := newTestEngine(t, newCatalogProvider())

	if _, err := engine.Similar(context.Background(), uuid.Nil, nil, nil, 5); !errors.Is(err, ErrMissingSeeds) {
		t.Errorf("Similar() error = %v, want ErrMissingSeeds", err)
	}
}

func TestExtractKeywords(t *testing.T) {
	t.Parallel()

	tests := []struct {
		text string
		want []string
	}{
		{"Azadi Tower", []string{"tower"}},
		{"برج میلاد", []string{"tower"}},
		{"Historic SQUARE", []string{"heritage", "square"}},
		{"پل خواجو", []string{"bridge"}},
		{"Tomb of Hafez", []string{"poetry"}},
		{"quiet evening", nil},
		{"", nil},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			t.Parallel()
			got := extractKeywords(tt.text)
			if len(got) != len(tt.want) {
				t.Fatalf("extractKeywords(%q) = %v, want %v", tt.text, got, tt.want)
			}
			for _, k := range tt.want {
				if _, ok := got[k]; !ok {
					t.Errorf("extractKeywords(%q) missing %q", tt.text, k)
				}
			}
		})
	}
}

func TestCanonicalKeywordTriggersMatchThemselves(t *testing.T) {
	t.Parallel()

	for keyword, triggers := range CanonicalKeywords {
		if len(triggers) == 0 {
			t.Errorf("keyword %q has no triggers", keyword)
		}
		for _, trigger := range triggers {
			if _, ok := extractKeywords(trigger)[keyword]; !ok {
				t.Errorf("trigger %q does not map back to %q", trigger, keyword)
			}
		}
	}
}
