package openweather

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/outfit-advisor/internal/domain/weather"
	apperrors "github.com/yanqian/outfit-advisor/pkg/errors"
)

const sampleBody = `{
  "weather": [{"description": "broken clouds", "icon": "04d"}],
  "main": {"temp": 7.6, "feels_like": 4.2, "humidity": 71},
  "wind": {"speed": 5},
  "dt": 1730534400,
  "sys": {"country": "CA"},
  "name": "Calgary"
}`

func TestFetchDecodesObservation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/weather", r.URL.Path)
		q := r.URL.Query()
		require.Equal(t, "51.0447", q.Get("lat"))
		require.Equal(t, "-114.0719", q.Get("lon"))
		require.Equal(t, "key", q.Get("appid"))
		require.Equal(t, "metric", q.Get("units"))
		_, _ = w.Write([]byte(sampleBody))
	}))
	defer srv.Close()

	obs, err := NewClient("key", srv.URL).Fetch(context.Background(), weather.DefaultCoordinates)
	require.NoError(t, err)
	require.Equal(t, 7.6, obs.TemperatureC)
	require.Equal(t, "broken clouds", obs.Description)
	require.Equal(t, "04d", obs.IconID)
	require.Equal(t, "Calgary", obs.City)
	require.Equal(t, "CA", obs.CountryCode)
	require.Equal(t, 5.0, obs.WindMs)
	require.Equal(t, time.Unix(1730534400, 0).UTC(), obs.ObservedAt)

	snap := weather.Normalize(obs)
	require.Equal(t, 8, snap.TemperatureC)
	require.Equal(t, 18, snap.WindKmh)
}

func TestFetchErrors(t *testing.T) {
	cases := map[string]http.HandlerFunc{
		"non 2xx": func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, `{"cod":401}`, http.StatusUnauthorized)
		},
		"malformed": func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{"main":`))
		},
		"missing conditions": func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{"main":{"temp":1}}`))
		},
	}
	for name, handler := range cases {
		t.Run(name, func(t *testing.T) {
			srv := httptest.NewServer(handler)
			defer srv.Close()
			_, err := NewClient("key", srv.URL).Fetch(context.Background(), weather.DefaultCoordinates)
			require.Error(t, err)
		})
	}
}

func TestFetchWithoutKey(t *testing.T) {
	_, err := NewClient(" ", "").Fetch(context.Background(), weather.DefaultCoordinates)
	require.ErrorIs(t, err, apperrors.ErrMissingCredential)
}
