package geo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// Fallback place names for responses that omit them.
const (
	UnknownCity    = "Unknown City"
	UnknownCountry = "Unknown Country"
)

var (
	// ErrStatus is returned for any non-200 response.
	ErrStatus = errors.New("unexpected status")
	// ErrNoLocation is returned when the response lacks the "loc" field.
	ErrNoLocation = errors.New("no location in response")
	// ErrBadLocation is returned when "loc" is not a "lat,lon" pair.
	ErrBadLocation = errors.New("malformed location")
)

// Record is a located hop.
type Record struct {
	IP      string  `json:"ip" yaml:"ip"`
	City    string  `json:"city" yaml:"city"`
	Country string  `json:"country" yaml:"country"`
	Lat     float64 `json:"lat" yaml:"lat"`
	Lon     float64 `json:"lon" yaml:"lon"`
}

// Locator resolves an IP address to a location.
type Locator interface {
	Locate(ctx context.Context, ip string) (*Record, error)
}

// Internal structure for JSON parsing
type ipinfoResponse struct {
	Loc     *string `json:"loc"`
	City    *string `json:"city"`
	Country *string `json:"country"`
}

// IPInfo queries an ipinfo.io compatible HTTP API.
type IPInfo struct {
	Client *http.Client
	// Endpoint is a URL template where "{ip}" is replaced by the address.
	Endpoint string
	// Token is sent as a bearer token when set.
	Token string
}

// NewIPInfo returns a client for endpoint with the given request timeout.
func NewIPInfo(endpoint, token string, timeout time.Duration) *IPInfo {
	return &IPInfo{
		Client:   &http.Client{Timeout: timeout},
		Endpoint: endpoint,
		Token:    token,
	}
}

// Locate performs a single GET for ip.
func (c *IPInfo) Locate(ctx context.Context, ip string) (*Record, error) {
	url := strings.ReplaceAll(c.Endpoint, "{ip}", ip)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	client := c.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w %d", ErrStatus, resp.StatusCode)
	}

	var body ipinfoResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, err
	}

	if body.Loc == nil {
		return nil, ErrNoLocation
	}

	lat, lon, err := parseLoc(*body.Loc)
	if err != nil {
		return nil, err
	}

	rec := &Record{
		IP:      ip,
		Lat:     lat,
		Lon:     lon,
		City:    UnknownCity,
		Country: UnknownCountry,
	}
	if body.City != nil {
		rec.City = *body.City
	}
	if body.Country != nil {
		rec.Country = *body.Country
	}

	return rec, nil
}

// parseLoc splits a "lat,lon" string.
func parseLoc(loc string) (lat, lon float64, err error) {
	latStr, lonStr, ok := strings.Cut(loc, ",")
	if !ok {
		return 0, 0, fmt.Errorf("%w: %q", ErrBadLocation, loc)
	}

	lat, err1 := strconv.ParseFloat(strings.TrimSpace(latStr), 64)
	lon, err2 := strconv.ParseFloat(strings.TrimSpace(lonStr), 64)
	if err1 != nil || err2 != nil {
		return 0, 0, fmt.Errorf("%w: %q", ErrBadLocation, loc)
	}

	return lat, lon, nil
}
