// Package geoloc resolves client IPs to coarse geolocation for
// presence packets and country leaderboards.
package geoloc

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Geolocation is the resolved location of a client IP.
type Geolocation struct {
	Country   string // ISO 3166-1 alpha-2, lowercase
	Latitude  float32
	Longitude float32
}

// Resolver looks up geolocation for an IP address.
type Resolver interface {
	Resolve(ctx context.Context, ip string) (Geolocation, error)
}

// HTTPResolver queries an ip-api style JSON endpoint.
type HTTPResolver struct {
	baseURL string
	client  *http.Client
}

// NewHTTPResolver creates a resolver against baseURL (e.g. "http://ip-api.com").
func NewHTTPResolver(baseURL string) *HTTPResolver {
	return &HTTPResolver{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 4 * time.Second},
	}
}

// Resolve looks up ip. Private or unknown addresses return an error.
func (r *HTTPResolver) Resolve(ctx context.Context, ip string) (Geolocation, error) {
	url := fmt.Sprintf("%s/json/%s?fields=status,countryCode,lat,lon", r.baseURL, ip)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Geolocation{}, fmt.Errorf("building geoloc request: %w", err)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return Geolocation{}, fmt.Errorf("querying geoloc for %s: %w", ip, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Geolocation{}, fmt.Errorf("geoloc lookup for %s: status %d", ip, resp.StatusCode)
	}

	var body struct {
		Status      string  `json:"status"`
		CountryCode string  `json:"countryCode"`
		Lat         float32 `json:"lat"`
		Lon         float32 `json:"lon"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return Geolocation{}, fmt.Errorf("decoding geoloc response: %w", err)
	}
	if body.Status != "success" {
		return Geolocation{}, fmt.Errorf("geoloc lookup for %s failed", ip)
	}

	g := Geolocation{
		Country:   strings.ToLower(body.CountryCode),
		Latitude:  body.Lat,
		Longitude: body.Lon,
	}
	if g.Country == "" {
		g.Country = "xx"
	}
	return g, nil
}
