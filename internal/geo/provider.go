// Cityfeed - Place and Media Recommendations by City
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cityfeed

package geo

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/time/rate"

	"github.com/tomtom215/cityfeed/internal/models"
)

// Provider names accepted in configuration.
const (
	ProviderIPAPICo = "ipapi.co"
	ProviderIPAPI   = "ip-api.com"
	ProviderMaxMind = "maxmind"
)

var (
	// ErrRateLimited is returned when a provider's local token bucket is empty
	// or the upstream answered 429.
	ErrRateLimited = errors.New("geoip rate limit exceeded")

	// ErrNotConfigured is returned by providers missing credentials.
	ErrNotConfigured = errors.New("geoip provider not configured")

	// ErrInvalidIP is returned for addresses that cannot be looked up.
	ErrInvalidIP = errors.New("invalid IP address")

	// ErrMalformedPayload is returned when a response cannot be decoded or
	// reports failure.
	ErrMalformedPayload = errors.New("malformed geoip payload")
)

// Provider looks up the location of an IP address.
type Provider interface {
	// Lookup returns geolocation data for ip, or an error.
	Lookup(ctx context.Context, ip string) (*models.Geolocation, error)

	// Name returns the provider name for logging and metrics.
	Name() string

	// IsAvailable reports whether the provider is configured.
	IsAvailable() bool
}

// ProviderOptions holds settings shared by the HTTP providers.
type ProviderOptions struct {
	// BaseURL overrides the upstream endpoint. Tests point it at httptest servers.
	BaseURL string

	// HTTPClient overrides the client. Its timeout is an upper bound; the
	// resolver also bounds each lookup through the context.
	HTTPClient *http.Client

	// RequestsPerMinute bounds outgoing requests. Zero uses the provider default.
	RequestsPerMinute int
}

func (o ProviderOptions) httpClient() *http.Client {
	if o.HTTPClient != nil {
		return o.HTTPClient
	}
	return &http.Client{Timeout: 5 * time.Second}
}

func (o ProviderOptions) limiter(defaultPerMinute int) *rate.Limiter {
	perMinute := o.RequestsPerMinute
	if perMinute <= 0 {
		perMinute = defaultPerMinute
	}
	return rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), perMinute)
}

func (o ProviderOptions) baseURL(def string) string {
	if o.BaseURL != "" {
		return strings.TrimRight(o.BaseURL, "/")
	}
	return def
}

func validateIP(ip string) error {
	if net.ParseIP(ip) == nil {
		return fmt.Errorf("%w: %q", ErrInvalidIP, ip)
	}
	return nil
}

// getJSON issues a GET and decodes a 200 response body into out.
func getJSON(client *http.Client, req *http.Request, upstream string, out interface{}) error {
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to query %s: %w", upstream, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return fmt.Errorf("%s: %w", upstream, ErrRateLimited)
	case resp.StatusCode != http.StatusOK:
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("%s returned status %d", upstream, resp.StatusCode)
	}

	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(out); err != nil {
		return fmt.Errorf("%w: decode %s response: %v", ErrMalformedPayload, upstream, err)
	}
	return nil
}

// ========================================
// ipapi.co Provider (HTTPS, No API Key)
// ========================================

// IPAPICoProvider implements Provider using https://ipapi.co.
type IPAPICoProvider struct {
	client  *http.Client
	limiter *rate.Limiter
	baseURL string
}

type ipapiCoResponse struct {
	IP          string   `json:"ip"`
	City        string   `json:"city"`
	Region      string   `json:"region"`
	CountryName string   `json:"country_name"`
	Latitude    *float64 `json:"latitude"`
	Longitude   *float64 `json:"longitude"`
	Error       bool     `json:"error"`
	Reason      string   `json:"reason"`
}

// NewIPAPICoProvider creates an ipapi.co provider. The free tier allows
// roughly 1,000 requests per day; the default bucket is 30 per minute.
func NewIPAPICoProvider(opts ProviderOptions) *IPAPICoProvider {
	return &IPAPICoProvider{
		client:  opts.httpClient(),
		limiter: opts.limiter(30),
		baseURL: opts.baseURL("https://ipapi.co"),
	}
}

// Name returns the provider name.
func (p *IPAPICoProvider) Name() string { return ProviderIPAPICo }

// IsAvailable returns true; ipapi.co needs no key.
func (p *IPAPICoProvider) IsAvailable() bool { return true }

// Lookup queries ipapi.co for ip.
func (p *IPAPICoProvider) Lookup(ctx context.Context, ip string) (*models.Geolocation, error) {
	if err := validateIP(ip); err != nil {
		return nil, err
	}
	if !p.limiter.Allow() {
		return nil, fmt.Errorf("%s: %w", ProviderIPAPICo, ErrRateLimited)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s/%s/json/", p.baseURL, ip), http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	var result ipapiCoResponse
	if err := getJSON(p.client, req, ProviderIPAPICo, &result); err != nil {
		return nil, err
	}
	if result.Error {
		return nil, fmt.Errorf("%w: %s lookup failed: %s", ErrMalformedPayload, ProviderIPAPICo, result.Reason)
	}

	geo := &models.Geolocation{
		IPAddress:   ip,
		City:        strings.TrimSpace(result.City),
		Region:      result.Region,
		Country:     result.CountryName,
		Provider:    ProviderIPAPICo,
		LastUpdated: time.Now().UTC(),
	}
	if result.Latitude != nil && result.Longitude != nil {
		geo.Coordinates = &models.Coordinates{Latitude: *result.Latitude, Longitude: *result.Longitude}
	}
	return geo, nil
}

// ========================================
// ip-api.com Provider (No API Key)
// ========================================

// IPAPIProvider implements Provider using ip-api.com.
// Rate limit: 45 requests per minute on the free tier.
type IPAPIProvider struct {
	client  *http.Client
	limiter *rate.Limiter
	baseURL string
}

type ipAPIResponse struct {
	Status     string  `json:"status"` // "success" or "fail"
	Message    string  `json:"message"`
	Country    string  `json:"country"`
	RegionName string  `json:"regionName"`
	City       string  `json:"city"`
	Lat        float64 `json:"lat"`
	Lon        float64 `json:"lon"`
	Query      string  `json:"query"`
}

// NewIPAPIProvider creates an ip-api.com provider.
func NewIPAPIProvider(opts ProviderOptions) *IPAPIProvider {
	return &IPAPIProvider{
		client:  opts.httpClient(),
		limiter: opts.limiter(45),
		baseURL: opts.baseURL("http://ip-api.com/json"),
	}
}

// Name returns the provider name.
func (p *IPAPIProvider) Name() string { return ProviderIPAPI }

// IsAvailable returns true; ip-api.com needs no key.
func (p *IPAPIProvider) IsAvailable() bool { return true }

// Lookup queries ip-api.com for ip.
func (p *IPAPIProvider) Lookup(ctx context.Context, ip string) (*models.Geolocation, error) {
	if err := validateIP(ip); err != nil {
		return nil, err
	}
	if !p.limiter.Allow() {
		return nil, fmt.Errorf("%s: %w", ProviderIPAPI, ErrRateLimited)
	}

	url := fmt.Sprintf("%s/%s?fields=status,message,country,regionName,city,lat,lon,query", p.baseURL, ip)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	var result ipAPIResponse
	if err := getJSON(p.client, req, ProviderIPAPI, &result); err != nil {
		return nil, err
	}
	if result.Status != "success" {
		return nil, fmt.Errorf("%w: %s lookup failed: %s", ErrMalformedPayload, ProviderIPAPI, result.Message)
	}

	return &models.Geolocation{
		IPAddress:   ip,
		City:        strings.TrimSpace(result.City),
		Region:      result.RegionName,
		Country:     result.Country,
		Coordinates: &models.Coordinates{Latitude: result.Lat, Longitude: result.Lon},
		Provider:    ProviderIPAPI,
		LastUpdated: time.Now().UTC(),
	}, nil
}

// ========================================
// MaxMind GeoLite2 Provider
// ========================================

// MaxMindProvider implements Provider using the MaxMind GeoLite2 web service.
// Register at https://www.maxmind.com/en/geolite2/signup. The free tier
// allows 1,000 lookups per day.
type MaxMindProvider struct {
	client     *http.Client
	limiter    *rate.Limiter
	accountID  string
	licenseKey string
	baseURL    string
}

type maxMindResponse struct {
	City struct {
		Names map[string]string `json:"names"`
	} `json:"city"`
	Country struct {
		Names map[string]string `json:"names"`
	} `json:"country"`
	Location *struct {
		Latitude  float64 `json:"latitude"`
		Longitude float64 `json:"longitude"`
	} `json:"location"`
	Subdivisions []struct {
		Names map[string]string `json:"names"`
	} `json:"subdivisions"`
}

// NewMaxMindProvider creates a MaxMind GeoLite2 provider.
func NewMaxMindProvider(accountID, licenseKey string, opts ProviderOptions) *MaxMindProvider {
	return &MaxMindProvider{
		client:     opts.httpClient(),
		limiter:    opts.limiter(30),
		accountID:  accountID,
		licenseKey: licenseKey,
		baseURL:    opts.baseURL("https://geolite.info/geoip/v2.1/city"),
	}
}

// Name returns the provider name.
func (p *MaxMindProvider) Name() string { return ProviderMaxMind }

// IsAvailable returns true if account ID and license key are configured.
func (p *MaxMindProvider) IsAvailable() bool {
	return p.accountID != "" && p.licenseKey != ""
}

// Lookup queries the GeoLite2 city endpoint for ip.
func (p *MaxMindProvider) Lookup(ctx context.Context, ip string) (*models.Geolocation, error) {
	if !p.IsAvailable() {
		return nil, fmt.Errorf("%s: %w", ProviderMaxMind, ErrNotConfigured)
	}
	if err := validateIP(ip); err != nil {
		return nil, err
	}
	if !p.limiter.Allow() {
		return nil, fmt.Errorf("%s: %w", ProviderMaxMind, ErrRateLimited)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s/%s", p.baseURL, ip), http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.SetBasicAuth(p.accountID, p.licenseKey)
	req.Header.Set("Accept", "application/json")

	var result maxMindResponse
	if err := getJSON(p.client, req, ProviderMaxMind, &result); err != nil {
		return nil, err
	}

	geo := &models.Geolocation{
		IPAddress:   ip,
		City:        strings.TrimSpace(result.City.Names["en"]),
		Country:     result.Country.Names["en"],
		Provider:    ProviderMaxMind,
		LastUpdated: time.Now().UTC(),
	}
	if len(result.Subdivisions) > 0 {
		geo.Region = result.Subdivisions[0].Names["en"]
	}
	if result.Location != nil {
		geo.Coordinates = &models.Coordinates{Latitude: result.Location.Latitude, Longitude: result.Location.Longitude}
	}
	return geo, nil
}
