// Package geo resolves visitor IPs to coarse location and network
// provider data via an ipinfo-style HTTP service. Resolution is strictly
// best-effort: every failure mode collapses to "no enrichment".
package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/netip"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// DefaultTimeout bounds a single lookup. A slow geo service degrades
// enrichment quality, never the visit itself.
const DefaultTimeout = 3 * time.Second

// DefaultAccuracyRadiusM is the accuracy radius attributed to
// IP-derived coordinates. It is a design parameter reflecting typical
// city-level IP geolocation uncertainty, not a measured value.
const DefaultAccuracyRadiusM = 25000

// Enrichment is the result of a successful IP lookup.
type Enrichment struct {
	IP        string
	City      string
	Region    string
	Country   string
	Org       string
	Latitude  float64
	Longitude float64
}

// Resolver performs bounded-time IP geolocation lookups.
type Resolver struct {
	baseURL string
	token   string
	client  *http.Client
	logger  *slog.Logger
}

// New creates a Resolver targeting the given base URL (e.g.
// "https://ipinfo.io"). When token is non-empty it is sent as a bearer
// token. A zero timeout falls back to DefaultTimeout.
func New(baseURL, token string, timeout time.Duration, logger *slog.Logger) *Resolver {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		client:  &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

// response mirrors the geo service's JSON body. Loc is a "lat,lon"
// string that must be parsed into two numeric fields.
type response struct {
	IP      string `json:"ip"`
	City    string `json:"city"`
	Region  string `json:"region"`
	Country string `json:"country"`
	Org     string `json:"org"`
	Loc     string `json:"loc"`
}

// Resolve looks up the given IP. It returns nil when no enrichment is
// available: loopback or private addresses, lookup timeout, non-success
// response, malformed body, or an unparsable coordinate string. It
// never returns an error.
func (r *Resolver) Resolve(ctx context.Context, ip string) *Enrichment {
	if !routable(ip) {
		return nil
	}

	e, err := r.lookup(ctx, ip)
	if err != nil {
		r.logger.Debug("geo lookup failed", "ip", ip, "error", err)
		return nil
	}
	return e
}

func (r *Resolver) lookup(ctx context.Context, ip string) (*Enrichment, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		r.baseURL+"/"+url.PathEscape(ip), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if r.token != "" {
		req.Header.Set("Authorization", "Bearer "+r.token)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("geo service status %d", resp.StatusCode)
	}

	var body response
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode body: %w", err)
	}

	lat, lon, err := parseLoc(body.Loc)
	if err != nil {
		return nil, err
	}

	return &Enrichment{
		IP:        body.IP,
		City:      body.City,
		Region:    body.Region,
		Country:   body.Country,
		Org:       body.Org,
		Latitude:  lat,
		Longitude: lon,
	}, nil
}

// parseLoc splits a "lat,lon" string into two floats.
func parseLoc(loc string) (float64, float64, error) {
	latStr, lonStr, ok := strings.Cut(loc, ",")
	if !ok {
		return 0, 0, fmt.Errorf("malformed loc %q", loc)
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(latStr), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("parse latitude: %w", err)
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(lonStr), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("parse longitude: %w", err)
	}
	return lat, lon, nil
}

// routable reports whether the IP is worth sending to the geo service.
// Loopback, private, link-local, and unspecified addresses (including
// their IPv4-mapped forms) short-circuit to no enrichment.
func routable(ip string) bool {
	addr, err := netip.ParseAddr(ip)
	if err != nil {
		return false
	}
	addr = addr.Unmap()
	switch {
	case addr.IsLoopback(), addr.IsPrivate(), addr.IsLinkLocalUnicast(),
		addr.IsLinkLocalMulticast(), addr.IsUnspecified():
		return false
	}
	return true
}
