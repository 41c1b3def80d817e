package services

import (
	"testing"
	"time"

	"github.com/Conceptual-Machines/melodycraft-api/internal/composer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHintCache_Expiry(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	cache := newHintCache(time.Minute)
	cache.now = func() time.Time { return now }

	cache.set("rain", &composer.Hint{Mood: "calm"})
	got, ok := cache.get("rain")
	require.True(t, ok)
	assert.Equal(t, "calm", got.Mood)

	now = now.Add(59 * time.Second)
	_, ok = cache.get(" rain ")
	assert.True(t, ok)

	now = now.Add(time.Second)
	_, ok = cache.get("rain")
	assert.False(t, ok)
	assert.Equal(t, 0, cache.len())
}

func TestHintCache_SweepsOnWrite(t *testing.T) {
	now := time.Now()
	cache := newHintCache(time.Second)
	cache.now = func() time.Time { return now }

	cache.set("a", &composer.Hint{})
	cache.set("b", &composer.Hint{})
	now = now.Add(2 * time.Second)
	cache.set("c", &composer.Hint{})

	assert.Equal(t, 1, cache.len())
}

func TestHintCache_Disabled(t *testing.T) {
	cache := newHintCache(0)
	cache.set("rain", &composer.Hint{Mood: "calm"})
	_, ok := cache.get("rain")
	assert.False(t, ok)

	var nilCache *hintCache
	_, ok = nilCache.get("rain")
	assert.False(t, ok)
	nilCache.set("rain", &composer.Hint{})
}
