package cache

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/geofusion-service/internal/domain"
)

func TestMemoryQueryCache(t *testing.T) {
	ctx := context.Background()
	result := &domain.GeoQueryResult{Elements: []domain.RawElement{{Type: domain.ElementNode, ID: 1}}}

	t.Run("unbounded keeps everything", func(t *testing.T) {
		c := NewMemoryQueryCache(0)

		_, ok, err := c.Get(ctx, "q1")
		require.NoError(t, err)
		assert.False(t, ok)

		require.NoError(t, c.Set(ctx, "q1", result))
		for i := 0; i < 100; i++ {
			require.NoError(t, c.Set(ctx, string(rune('a'+i%26))+"x", result))
		}

		got, ok, err := c.Get(ctx, "q1")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, 1, got.Len())
	})

	t.Run("radius is part of the key", func(t *testing.T) {
		c := NewMemoryQueryCache(0)
		require.NoError(t, c.Set(ctx, "around:1000,48.85,2.35", result))

		_, ok, _ := c.Get(ctx, "around:2000,48.85,2.35")
		assert.False(t, ok)
	})

	t.Run("bounded evicts least recently used", func(t *testing.T) {
		c := NewMemoryQueryCache(2)
		require.NoError(t, c.Set(ctx, "a", result))
		require.NoError(t, c.Set(ctx, "b", result))
		_, _, _ = c.Get(ctx, "a")
		require.NoError(t, c.Set(ctx, "c", result))

		_, okA, _ := c.Get(ctx, "a")
		_, okB, _ := c.Get(ctx, "b")
		assert.True(t, okA)
		assert.False(t, okB)
		assert.Equal(t, 2, c.Len())
	})

	t.Run("nil result is not stored", func(t *testing.T) {
		c := NewMemoryQueryCache(0)
		require.NoError(t, c.Set(ctx, "q", nil))
		assert.Equal(t, 0, c.Len())
	})
}
