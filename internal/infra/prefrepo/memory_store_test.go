package prefrepo

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/outfit-advisor/internal/domain/outfit"
)

func TestMemoryStoreOverwrites(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	_, ok, err := store.Get(ctx, "u1")
	require.NoError(t, err)
	require.False(t, ok)

	first := outfit.Preferences{Gender: outfit.GenderMale, Style: "casual", UpdatedAt: time.Unix(1, 0)}
	second := outfit.Preferences{Gender: outfit.GenderMale, Style: "formal", UpdatedAt: time.Unix(2, 0)}
	require.NoError(t, store.Put(ctx, "u1", first))
	require.NoError(t, store.Put(ctx, "u1", second))

	got, ok, err := store.Get(ctx, "u1")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, second, got)

	_, ok, _ = store.Get(ctx, "u2")
	require.False(t, ok)
}
