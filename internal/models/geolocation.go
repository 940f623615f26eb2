// Cityfeed - Place and Media Recommendations by City
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cityfeed

package models

import "time"

// Geolocation is the result of an IP geolocation lookup.
// City and Coordinates are optional; a provider may return either, both or neither.
type Geolocation struct {
	IPAddress   string       `json:"ip_address"`
	City        string       `json:"city,omitempty"`
	Region      string       `json:"region,omitempty"`
	Country     string       `json:"country,omitempty"`
	Coordinates *Coordinates `json:"coordinates,omitempty"`
	Provider    string       `json:"provider"`
	LastUpdated time.Time    `json:"last_updated"`
}

// Usable reports whether the lookup carries anything a resolver can match on.
func (g *Geolocation) Usable() bool {
	return g != nil && (g.City != "" || g.Coordinates != nil)
}
