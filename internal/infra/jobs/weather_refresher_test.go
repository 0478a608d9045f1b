package jobs

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/outfit-advisor/internal/domain/weather"
)

type countingRefresher struct {
	calls  atomic.Int32
	cached bool
	err    error
}

func (r *countingRefresher) Refresh(context.Context) (weather.Snapshot, bool, error) {
	r.calls.Add(1)
	if !r.cached {
		return weather.Snapshot{}, false, nil
	}
	return weather.Snapshot{City: "Singapore"}, true, r.err
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRunOnceRefreshesCachedSlot(t *testing.T) {
	source := &countingRefresher{}
	r := NewWeatherRefresher("@every 30m", source, discardLogger())

	r.RunOnce()
	source.cached = true
	r.RunOnce()
	source.err = errors.New("upstream down")
	r.RunOnce()

	require.EqualValues(t, 3, source.calls.Load())
}

// The job must never write a location of its own into the slot.
func TestRunOnceKeepsUserLocation(t *testing.T) {
	fetcher := &recordingFetcher{}
	svc := weather.NewService(weather.Config{}, fetcher, weather.NewMemoryCache(), discardLogger())
	singapore := weather.Coordinates{Latitude: 1.29, Longitude: 103.85}
	_, err := svc.GetWeather(context.Background(), singapore)
	require.NoError(t, err)

	NewWeatherRefresher("@every 30m", svc, discardLogger()).RunOnce()

	require.Equal(t, []weather.Coordinates{singapore, singapore}, fetcher.seen)
	report, err := svc.Current(context.Background(), weather.StaticLocator{Coordinates: singapore})
	require.NoError(t, err)
	require.Equal(t, "Singapore", report.City)
}

type recordingFetcher struct {
	seen []weather.Coordinates
}

func (f *recordingFetcher) Fetch(_ context.Context, coords weather.Coordinates) (weather.Observation, error) {
	f.seen = append(f.seen, coords)
	return weather.Observation{City: "Singapore", TemperatureC: 31}, nil
}

func TestStartRejectsBadSchedule(t *testing.T) {
	r := NewWeatherRefresher("every now and then", &countingRefresher{}, discardLogger())
	require.Error(t, r.Start())
}

func TestStartStop(t *testing.T) {
	r := NewWeatherRefresher("@every 30m", &countingRefresher{}, discardLogger())
	require.NoError(t, r.Start())
	r.Stop()

	disabled := NewWeatherRefresher("", &countingRefresher{}, discardLogger())
	require.NoError(t, disabled.Start())
	disabled.Stop()
}
