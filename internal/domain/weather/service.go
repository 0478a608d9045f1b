package weather

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	apperrors "github.com/yanqian/outfit-advisor/pkg/errors"
	"github.com/yanqian/outfit-advisor/pkg/util"
)

// Service resolves positions and serves cached weather.
type Service interface {
	ResolveLocation(ctx context.Context, locator Locator) Coordinates
	GetWeather(ctx context.Context, coords Coordinates) (Snapshot, error)
	Current(ctx context.Context, locator Locator) (Report, error)
	Refresh(ctx context.Context) (Snapshot, bool, error)
}

// Fetcher retrieves a live observation for a position.
type Fetcher interface {
	Fetch(ctx context.Context, coords Coordinates) (Observation, error)
}

type service struct {
	cfg     Config
	fetcher Fetcher
	cache   Cache
	logger  *slog.Logger
	now     func() time.Time
}

// NewService wires the weather provider. A nil cache falls back to process memory.
func NewService(cfg Config, fetcher Fetcher, cache Cache, logger *slog.Logger) Service {
	if cache == nil {
		cache = NewMemoryCache()
	}
	return &service{
		cfg:     cfg.withDefaults(),
		fetcher: fetcher,
		cache:   cache,
		logger:  logger.With("component", "weather.service"),
		now:     util.NowUTC,
	}
}

// ResolveLocation never fails: denial, timeout, stale fixes and a missing
// locator all fall back to the configured default.
func (s *service) ResolveLocation(ctx context.Context, locator Locator) Coordinates {
	if locator == nil {
		s.logFallback(ErrLocationUnknown)
		return s.cfg.DefaultLocation
	}

	locateCtx, cancel := context.WithTimeout(ctx, s.cfg.LocationTimeout)
	defer cancel()

	pos, err := locator.Locate(locateCtx)
	if err == nil && locateCtx.Err() != nil {
		err = locateCtx.Err()
	}
	if err != nil {
		s.logFallback(err)
		return s.cfg.DefaultLocation
	}
	if !pos.Valid() {
		s.logFallback(fmt.Errorf("coordinates out of range: %v,%v", pos.Latitude, pos.Longitude))
		return s.cfg.DefaultLocation
	}
	if !pos.ObservedAt.IsZero() && s.now().Sub(pos.ObservedAt) > s.cfg.LocationMaxAge {
		s.logFallback(fmt.Errorf("position older than %s", s.cfg.LocationMaxAge))
		return s.cfg.DefaultLocation
	}
	return pos.Coordinates
}

func (s *service) logFallback(reason error) {
	s.logger.Info("location unavailable, using default",
		"code", apperrors.CodeLocationUnavailable,
		"reason", reason.Error(),
		"latitude", s.cfg.DefaultLocation.Latitude,
		"longitude", s.cfg.DefaultLocation.Longitude,
	)
}

func (s *service) GetWeather(ctx context.Context, coords Coordinates) (Snapshot, error) {
	snap, _, err := s.lookup(ctx, coords)
	return snap, err
}

func (s *service) Current(ctx context.Context, locator Locator) (Report, error) {
	coords := s.ResolveLocation(ctx, locator)
	snap, stale, err := s.lookup(ctx, coords)
	if err != nil {
		return Report{}, err
	}
	report := Report{
		Snapshot:    snap,
		Location:    coords,
		Stale:       stale,
		RetrievedAt: s.now(),
	}
	if snap.IconID != "" {
		report.IconURL = fmt.Sprintf(iconURLPattern, snap.IconID)
	}
	return report, nil
}

// lookup serves a fresh cache hit, otherwise fetches. A failed fetch falls
// back to whatever is cached, however old.
func (s *service) lookup(ctx context.Context, coords Coordinates) (Snapshot, bool, error) {
	now := s.now()
	entry, cached := s.load(ctx)
	if cached && entry.Fresh(now, s.cfg.CacheTTL) {
		return entry.Snapshot, false, nil
	}

	snap, err := s.fetch(ctx, coords, now)
	if err == nil {
		return snap, false, nil
	}

	if cached {
		s.logger.Warn("weather fetch failed, serving cached snapshot",
			"error", err,
			"age_ms", entry.Age(now).Milliseconds(),
		)
		return entry.Snapshot, true, nil
	}
	if errors.Is(err, apperrors.ErrMissingCredential) {
		return Snapshot{}, false, apperrors.Wrap(apperrors.CodeConfiguration, "weather api key is not configured", err)
	}
	return Snapshot{}, false, apperrors.Wrap(apperrors.CodeWeatherUnavailable, "weather data unavailable", err)
}

// Refresh refetches the weather at the position of the cached snapshot,
// regardless of its age. It reports false when nothing has been fetched yet.
func (s *service) Refresh(ctx context.Context) (Snapshot, bool, error) {
	entry, ok := s.load(ctx)
	if !ok || entry.Location == (Coordinates{}) {
		return Snapshot{}, false, nil
	}
	snap, err := s.fetch(ctx, entry.Location, s.now())
	if err != nil {
		return Snapshot{}, true, apperrors.Wrap(apperrors.CodeWeatherUnavailable, "weather refresh failed", err)
	}
	return snap, true, nil
}

func (s *service) fetch(ctx context.Context, coords Coordinates, now time.Time) (Snapshot, error) {
	obs, err := s.fetcher.Fetch(ctx, coords)
	if err != nil {
		return Snapshot{}, err
	}
	snap := Normalize(obs)
	if err := s.cache.Store(ctx, CacheEntry{Snapshot: snap, Location: coords, FetchedAt: now}); err != nil {
		s.logger.Warn("weather cache store failed", "error", err)
	}
	s.logger.Debug("weather fetched", "city", snap.City, "temperature_c", snap.TemperatureC)
	return snap, nil
}

func (s *service) load(ctx context.Context) (CacheEntry, bool) {
	entry, ok, err := s.cache.Load(ctx)
	if err != nil {
		s.logger.Warn("weather cache load failed", "error", err)
		return CacheEntry{}, false
	}
	return entry, ok
}
