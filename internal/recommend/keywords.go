// Cityfeed - Place and Media Recommendations by City
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cityfeed

package recommend

import "strings"

// CanonicalKeywords maps a canonical topic to the substrings that trigger it.
// Triggers are lowercase and cover English and Persian forms.
var CanonicalKeywords = map[string][]string{
	"tower":    {"tower", "minaret", "برج"},
	"bridge":   {"bridge", "پل"},
	"palace":   {"palace", "کاخ"},
	"shrine":   {"shrine", "mausoleum", "حرم", "امامزاده"},
	"square":   {"square", "میدان"},
	"heritage": {"heritage", "historic", "ancient", "میراث", "تاریخی", "باستانی"},
	"poetry":   {"poetry", "poet", "hafez", "saadi", "شعر", "شاعر", "حافظ", "سعدی"},
	"mosque":   {"mosque", "مسجد"},
	"garden":   {"garden", "باغ"},
	"bazaar":   {"bazaar", "بازار"},
	"museum":   {"museum", "موزه"},
}

type keywordSet map[string]struct{}

// extractKeywords returns the canonical keywords triggered by text.
func extractKeywords(text string) keywordSet {
	lower := strings.ToLower(text)
	found := make(keywordSet)
	for keyword, triggers := range CanonicalKeywords {
		for _, trigger := range triggers {
			if strings.Contains(lower, trigger) {
				found[keyword] = struct{}{}
				break
			}
		}
	}
	return found
}

func (s keywordSet) intersects(other keywordSet) bool {
	small, large := s, other
	if len(large) < len(small) {
		small, large = large, small
	}
	for k := range small {
		if _, ok := large[k]; ok {
			return true
		}
	}
	return false
}
