package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSetAndGet(t *testing.T) {
	c := New()
	c.Set("example.com", "https://example.com/feed", time.Minute)

	value, ok := c.Get("example.com")
	require.True(t, ok)
	require.Equal(t, "https://example.com/feed", value)
}

func TestEmptyValueIsAValidEntry(t *testing.T) {
	c := New()
	c.Set("nofeed.example.com", "", time.Minute)

	value, ok := c.Get("nofeed.example.com")
	require.True(t, ok, "a remembered miss should still be a cache hit")
	require.Empty(t, value)
}

func TestMissingKey(t *testing.T) {
	c := New()

	_, ok := c.Get("never-set.example.com")
	require.False(t, ok)
}

func TestExpiry(t *testing.T) {
	c := New()
	c.Set("example.com", "https://example.com/feed", 10*time.Millisecond)

	time.Sleep(30 * time.Millisecond)

	_, ok := c.Get("example.com")
	require.False(t, ok)
}

func TestOverwrite(t *testing.T) {
	c := New()
	c.Set("example.com", "https://example.com/old", time.Minute)
	c.Set("example.com", "https://example.com/new", time.Minute)

	value, ok := c.Get("example.com")
	require.True(t, ok)
	require.Equal(t, "https://example.com/new", value)
}

func TestCleanupRemovesExpiredEntries(t *testing.T) {
	c := New()
	c.Set("stale.example.com", "x", -time.Second)
	c.Set("fresh.example.com", "y", time.Minute)

	c.cleanup()

	c.mu.RLock()
	defer c.mu.RUnlock()
	require.NotContains(t, c.items, "stale.example.com")
	require.Contains(t, c.items, "fresh.example.com")
}
