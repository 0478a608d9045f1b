package weather

import (
	"math"
	"time"
)

// DefaultCoordinates is used whenever the caller's position cannot be resolved.
var DefaultCoordinates = Coordinates{Latitude: 51.0447, Longitude: -114.0719}

const iconURLPattern = "https://openweathermap.org/img/wn/%s@2x.png"

// Coordinates is a WGS84 position.
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Valid reports whether the coordinates are inside the WGS84 range.
func (c Coordinates) Valid() bool {
	return c.Latitude >= -90 && c.Latitude <= 90 && c.Longitude >= -180 && c.Longitude <= 180
}

// Position is a located fix together with the time it was taken.
type Position struct {
	Coordinates
	ObservedAt time.Time
}

// Observation is the raw upstream reading in metric units.
type Observation struct {
	TemperatureC float64
	FeelsLikeC   float64
	HumidityPct  float64
	Description  string
	IconID       string
	City         string
	CountryCode  string
	WindMs       float64
	ObservedAt   time.Time
}

// Snapshot is a normalized weather reading. Snapshots are replaced, never edited.
type Snapshot struct {
	TemperatureC int       `json:"temperatureC"`
	FeelsLikeC   int       `json:"feelsLikeC"`
	HumidityPct  int       `json:"humidityPct"`
	Description  string    `json:"description"`
	IconID       string    `json:"iconId"`
	City         string    `json:"city"`
	CountryCode  string    `json:"countryCode"`
	WindKmh      int       `json:"windKmh"`
	ObservedAt   time.Time `json:"observedAt"`
}

// Report is the weather view returned to API consumers.
type Report struct {
	Snapshot
	IconURL     string      `json:"iconUrl,omitempty"`
	Location    Coordinates `json:"location"`
	Stale       bool        `json:"stale"`
	RetrievedAt time.Time   `json:"retrievedAt"`
}

// Config controls caching and location resolution.
type Config struct {
	CacheTTL        time.Duration
	LocationTimeout time.Duration
	LocationMaxAge  time.Duration
	DefaultLocation Coordinates
}

func (c Config) withDefaults() Config {
	if c.CacheTTL <= 0 {
		c.CacheTTL = 10 * time.Minute
	}
	if c.LocationTimeout <= 0 {
		c.LocationTimeout = 5 * time.Second
	}
	if c.LocationMaxAge <= 0 {
		c.LocationMaxAge = 10 * time.Minute
	}
	if c.DefaultLocation == (Coordinates{}) {
		c.DefaultLocation = DefaultCoordinates
	}
	return c
}

// Normalize converts an upstream observation into a Snapshot.
// Temperatures are rounded and wind speed is converted from m/s to km/h.
func Normalize(obs Observation) Snapshot {
	return Snapshot{
		TemperatureC: roundHalfUp(obs.TemperatureC),
		FeelsLikeC:   roundHalfUp(obs.FeelsLikeC),
		HumidityPct:  roundHalfUp(obs.HumidityPct),
		Description:  obs.Description,
		IconID:       obs.IconID,
		City:         obs.City,
		CountryCode:  obs.CountryCode,
		WindKmh:      roundHalfUp(obs.WindMs * 3.6),
		ObservedAt:   obs.ObservedAt,
	}
}

func roundHalfUp(v float64) int {
	return int(math.Floor(v + 0.5))
}
