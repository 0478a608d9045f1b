package util

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestFromUnixMilli(t *testing.T) {
	require.True(t, FromUnixMilli(0).IsZero())
	require.True(t, FromUnixMilli(-5).IsZero())
	require.Equal(t, time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC), FromUnixMilli(1704164645000))
}
