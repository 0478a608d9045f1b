package ipapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/yanqian/outfit-advisor/internal/domain/weather"
)

const defaultBaseURL = "http://ip-api.com/json"

// Client resolves approximate positions from IP addresses.
type Client struct {
	baseURL    string
	httpClient *http.Client
	now        func() time.Time
}

// NewClient builds a lookup client.
func NewClient(baseURL string) *Client {
	endpoint := strings.TrimSpace(baseURL)
	if endpoint == "" {
		endpoint = defaultBaseURL
	}
	return &Client{
		baseURL: strings.TrimRight(endpoint, "/"),
		httpClient: &http.Client{
			Timeout: 5 * time.Second,
		},
		now: func() time.Time { return time.Now().UTC() },
	}
}

// ForIP returns a locator bound to a caller address. Private and loopback
// addresses cannot be located and report weather.ErrLocationUnknown.
func (c *Client) ForIP(ip string) weather.Locator {
	return weather.LocatorFunc(func(ctx context.Context) (weather.Position, error) {
		return c.Lookup(ctx, ip)
	})
}

// Lookup resolves ip to a position.
func (c *Client) Lookup(ctx context.Context, ip string) (weather.Position, error) {
	parsed := net.ParseIP(strings.TrimSpace(ip))
	if parsed == nil || parsed.IsLoopback() || parsed.IsPrivate() || parsed.IsUnspecified() {
		return weather.Position{}, weather.ErrLocationUnknown
	}

	endpoint := fmt.Sprintf("%s/%s?fields=status,message,lat,lon", c.baseURL, parsed.String())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return weather.Position{}, fmt.Errorf("build geoip request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return weather.Position{}, fmt.Errorf("geoip request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return weather.Position{}, fmt.Errorf("geoip request error: status=%d body=%s", resp.StatusCode, string(payload))
	}

	var out struct {
		Status  string  `json:"status"`
		Message string  `json:"message"`
		Lat     float64 `json:"lat"`
		Lon     float64 `json:"lon"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return weather.Position{}, fmt.Errorf("decode geoip response: %w", err)
	}
	if out.Status != "success" {
		return weather.Position{}, fmt.Errorf("geoip lookup failed: %s", out.Message)
	}
	return weather.Position{
		Coordinates: weather.Coordinates{Latitude: out.Lat, Longitude: out.Lon},
		ObservedAt:  c.now(),
	}, nil
}
