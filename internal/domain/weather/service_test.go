package weather

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	apperrors "github.com/yanqian/outfit-advisor/pkg/errors"
)

func TestGetWeatherServesFreshCache(t *testing.T) {
	clock := newFakeClock()
	fetcher := &stubFetcher{obs: Observation{TemperatureC: 12.4, Description: "clear sky"}}
	svc := newServiceUnderTest(fetcher, clock)

	first, err := svc.GetWeather(context.Background(), DefaultCoordinates)
	require.NoError(t, err)
	clock.advance(9 * time.Minute)
	second, err := svc.GetWeather(context.Background(), DefaultCoordinates)
	require.NoError(t, err)

	require.Equal(t, 1, fetcher.calls)
	require.Equal(t, first, second)
	require.Equal(t, 12, second.TemperatureC)
}

func TestGetWeatherRefetchesAfterTTL(t *testing.T) {
	clock := newFakeClock()
	fetcher := &stubFetcher{obs: Observation{TemperatureC: 5}}
	svc := newServiceUnderTest(fetcher, clock)

	_, err := svc.GetWeather(context.Background(), DefaultCoordinates)
	require.NoError(t, err)
	clock.advance(10 * time.Minute)
	fetcher.obs.TemperatureC = 8
	snap, err := svc.GetWeather(context.Background(), DefaultCoordinates)
	require.NoError(t, err)

	require.Equal(t, 2, fetcher.calls)
	require.Equal(t, 8, snap.TemperatureC)
}

func TestGetWeatherServesStaleOnFailure(t *testing.T) {
	clock := newFakeClock()
	fetcher := &stubFetcher{obs: Observation{TemperatureC: -3, Description: "snow"}}
	svc := newServiceUnderTest(fetcher, clock)

	_, err := svc.GetWeather(context.Background(), DefaultCoordinates)
	require.NoError(t, err)

	clock.advance(3 * time.Hour)
	fetcher.err = errors.New("status=500")
	report, err := svc.Current(context.Background(), nil)
	require.NoError(t, err)
	require.True(t, report.Stale)
	require.Equal(t, -3, report.TemperatureC)
	require.Equal(t, "snow", report.Description)
}

func TestGetWeatherWithoutCacheFails(t *testing.T) {
	svc := newServiceUnderTest(&stubFetcher{err: errors.New("boom")}, newFakeClock())

	_, err := svc.GetWeather(context.Background(), DefaultCoordinates)
	require.Error(t, err)
	require.True(t, apperrors.IsCode(err, apperrors.CodeWeatherUnavailable))
}

func TestGetWeatherMissingCredential(t *testing.T) {
	svc := newServiceUnderTest(&stubFetcher{err: apperrors.ErrMissingCredential}, newFakeClock())

	_, err := svc.GetWeather(context.Background(), DefaultCoordinates)
	require.True(t, apperrors.IsCode(err, apperrors.CodeConfiguration))
}

func TestResolveLocationFallbacks(t *testing.T) {
	clock := newFakeClock()
	here := Coordinates{Latitude: 1.29, Longitude: 103.85}

	cases := []struct {
		name    string
		locator Locator
		want    Coordinates
	}{
		{name: "nil locator", locator: nil, want: DefaultCoordinates},
		{
			name: "denied",
			locator: LocatorFunc(func(context.Context) (Position, error) {
				return Position{}, ErrLocationDenied
			}),
			want: DefaultCoordinates,
		},
		{
			name: "timeout",
			locator: LocatorFunc(func(ctx context.Context) (Position, error) {
				<-ctx.Done()
				return Position{}, ctx.Err()
			}),
			want: DefaultCoordinates,
		},
		{
			name:    "too old",
			locator: StaticLocator{Coordinates: here, ObservedAt: clock.now().Add(-11 * time.Minute)},
			want:    DefaultCoordinates,
		},
		{
			name:    "out of range",
			locator: StaticLocator{Coordinates: Coordinates{Latitude: 120}, ObservedAt: clock.now()},
			want:    DefaultCoordinates,
		},
		{
			name:    "recent fix",
			locator: StaticLocator{Coordinates: here, ObservedAt: clock.now().Add(-9 * time.Minute)},
			want:    here,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := newServiceUnderTest(&stubFetcher{}, clock)
			svc.cfg.LocationTimeout = 20 * time.Millisecond
			require.Equal(t, tc.want, svc.ResolveLocation(context.Background(), tc.locator))
		})
	}
}

func TestRefreshUsesLastFetchedLocation(t *testing.T) {
	clock := newFakeClock()
	fetcher := &stubFetcher{obs: Observation{TemperatureC: 31, City: "Singapore"}}
	svc := newServiceUnderTest(fetcher, clock)

	_, ok, err := svc.Refresh(context.Background())
	require.NoError(t, err)
	require.False(t, ok)
	require.Zero(t, fetcher.calls)

	singapore := Coordinates{Latitude: 1.29, Longitude: 103.85}
	_, err = svc.GetWeather(context.Background(), singapore)
	require.NoError(t, err)

	clock.advance(time.Minute)
	snap, ok, err := svc.Refresh(context.Background())
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "Singapore", snap.City)
	require.Equal(t, 2, fetcher.calls)
	require.Equal(t, singapore, fetcher.seen)

	entry, _, err := svc.cache.Load(context.Background())
	require.NoError(t, err)
	require.Equal(t, singapore, entry.Location)
	require.Equal(t, clock.now(), entry.FetchedAt)

	fetcher.err = errors.New("upstream down")
	_, ok, err = svc.Refresh(context.Background())
	require.True(t, ok)
	require.True(t, apperrors.IsCode(err, apperrors.CodeWeatherUnavailable))
	kept, _, _ := svc.cache.Load(context.Background())
	require.Equal(t, entry, kept)
}

func TestChainLocatorUsesFirstSuccess(t *testing.T) {
	here := Coordinates{Latitude: 10, Longitude: 20}
	chain := ChainLocator{
		LocatorFunc(func(context.Context) (Position, error) { return Position{}, ErrLocationDenied }),
		StaticLocator{Coordinates: here},
	}
	pos, err := chain.Locate(context.Background())
	require.NoError(t, err)
	require.Equal(t, here, pos.Coordinates)

	_, err = ChainLocator{}.Locate(context.Background())
	require.ErrorIs(t, err, ErrLocationUnknown)
}

func TestCurrentBuildsIconURL(t *testing.T) {
	svc := newServiceUnderTest(&stubFetcher{obs: Observation{IconID: "04d", City: "Calgary"}}, newFakeClock())

	report, err := svc.Current(context.Background(), nil)
	require.NoError(t, err)
	require.Equal(t, "https://openweathermap.org/img/wn/04d@2x.png", report.IconURL)
	require.Equal(t, DefaultCoordinates, report.Location)
	require.False(t, report.Stale)
}

func TestNormalize(t *testing.T) {
	snap := Normalize(Observation{
		TemperatureC: 21.5,
		FeelsLikeC:   -2.5,
		HumidityPct:  63,
		WindMs:       4.1,
	})
	require.Equal(t, 22, snap.TemperatureC)
	require.Equal(t, -2, snap.FeelsLikeC)
	require.Equal(t, 63, snap.HumidityPct)
	require.Equal(t, 15, snap.WindKmh)
}

func TestCacheEntryFresh(t *testing.T) {
	fetched := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	entry := CacheEntry{FetchedAt: fetched}
	require.True(t, entry.Fresh(fetched.Add(9*time.Minute+59*time.Second), 10*time.Minute))
	require.False(t, entry.Fresh(fetched.Add(10*time.Minute), 10*time.Minute))
}

type stubFetcher struct {
	obs   Observation
	err   error
	calls int
	seen  Coordinates
}

func (s *stubFetcher) Fetch(_ context.Context, coords Coordinates) (Observation, error) {
	s.calls++
	s.seen = coords
	if s.err != nil {
		return Observation{}, s.err
	}
	return s.obs, nil
}

type fakeClock struct {
	current time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{current: time.Date(2024, 11, 2, 8, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) now() time.Time { return c.current }

func (c *fakeClock) advance(d time.Duration) { c.current = c.current.Add(d) }

func newServiceUnderTest(fetcher Fetcher, clock *fakeClock) *service {
	return &service{
		cfg:     Config{}.withDefaults(),
		fetcher: fetcher,
		cache:   NewMemoryCache(),
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:     clock.now,
	}
}
