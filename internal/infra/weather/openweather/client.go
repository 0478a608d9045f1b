package openweather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/yanqian/outfit-advisor/internal/domain/weather"
	apperrors "github.com/yanqian/outfit-advisor/pkg/errors"
)

const defaultBaseURL = "https://api.openweathermap.org/data/2.5"

// Client fetches current conditions from OpenWeatherMap.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewClient builds an API client. An empty key is accepted and reported on Fetch.
func NewClient(apiKey, baseURL string) *Client {
	endpoint := strings.TrimSpace(baseURL)
	if endpoint == "" {
		endpoint = defaultBaseURL
	}
	return &Client{
		apiKey:  strings.TrimSpace(apiKey),
		baseURL: strings.TrimRight(endpoint, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Fetch retrieves the current weather at coords in metric units.
func (c *Client) Fetch(ctx context.Context, coords weather.Coordinates) (weather.Observation, error) {
	if c.apiKey == "" {
		return weather.Observation{}, apperrors.ErrMissingCredential
	}

	query := url.Values{}
	query.Set("lat", strconv.FormatFloat(coords.Latitude, 'f', -1, 64))
	query.Set("lon", strconv.FormatFloat(coords.Longitude, 'f', -1, 64))
	query.Set("appid", c.apiKey)
	query.Set("units", "metric")
	endpoint := c.baseURL + "/weather?" + query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return weather.Observation{}, fmt.Errorf("build weather request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return weather.Observation{}, fmt.Errorf("weather request failed: %w", redact(err, c.apiKey))
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return weather.Observation{}, fmt.Errorf("weather request error: status=%d body=%s", resp.StatusCode, string(payload))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return weather.Observation{}, fmt.Errorf("read weather response: %w", err)
	}
	return decode(body)
}

type apiResponse struct {
	Main *struct {
		Temp      float64 `json:"temp"`
		FeelsLike float64 `json:"feels_like"`
		Humidity  float64 `json:"humidity"`
	} `json:"main"`
	Weather []struct {
		Description string `json:"description"`
		Icon        string `json:"icon"`
	} `json:"weather"`
	Name string `json:"name"`
	Sys  struct {
		Country string `json:"country"`
	} `json:"sys"`
	Wind struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
	Dt int64 `json:"dt"`
}

func decode(body []byte) (weather.Observation, error) {
	var raw apiResponse
	if err := json.Unmarshal(body, &raw); err != nil {
		return weather.Observation{}, fmt.Errorf("decode weather response: %w", err)
	}
	if raw.Main == nil {
		return weather.Observation{}, errors.New("weather response missing main block")
	}
	if len(raw.Weather) == 0 {
		return weather.Observation{}, errors.New("weather response missing conditions")
	}
	observed := time.Now().UTC()
	if raw.Dt > 0 {
		observed = time.Unix(raw.Dt, 0).UTC()
	}
	return weather.Observation{
		TemperatureC: raw.Main.Temp,
		FeelsLikeC:   raw.Main.FeelsLike,
		HumidityPct:  raw.Main.Humidity,
		Description:  raw.Weather[0].Description,
		IconID:       raw.Weather[0].Icon,
		City:         raw.Name,
		CountryCode:  raw.Sys.Country,
		WindMs:       raw.Wind.Speed,
		ObservedAt:   observed,
	}, nil
}

// redact keeps the API key out of transport errors, which embed the URL.
func redact(err error, secret string) error {
	if secret == "" || !strings.Contains(err.Error(), secret) {
		return err
	}
	return errors.New(strings.ReplaceAll(err.Error(), secret, "***"))
}

var _ weather.Fetcher = (*Client)(nil)
