package weathercache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/outfit-advisor/internal/domain/weather"
)

func TestEntryEncoding(t *testing.T) {
	entry := weather.CacheEntry{
		Snapshot: weather.Snapshot{
			TemperatureC: -4,
			Description:  "light snow",
			City:         "Calgary",
			WindKmh:      22,
			ObservedAt:   time.Date(2024, 11, 2, 7, 55, 0, 0, time.UTC),
		},
		FetchedAt: time.Date(2024, 11, 2, 8, 0, 0, 0, time.UTC),
	}

	payload, err := encodeEntry(entry)
	require.NoError(t, err)
	got, err := decodeEntry(payload)
	require.NoError(t, err)
	require.Equal(t, entry, got)
}

func TestDecodeEntryRejectsGarbage(t *testing.T) {
	_, err := decodeEntry("not json")
	require.Error(t, err)

	_, err = decodeEntry(`{"snapshot":{"temperatureC":3}}`)
	require.Error(t, err)
}
