package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetAndGet(t *testing.T) {
	c := New()
	c.Set("k", "v", time.Minute)

	got, ok := c.Get("k")
	require.True(t, ok)
	assert.Equal(t, "v", got)
}

func TestGetMissing(t *testing.T) {
	c := New()
	_, ok := c.Get("absent")
	assert.False(t, ok)
}

func TestExpiredEntryIsDropped(t *testing.T) {
	c := New()
	c.Set("k", "v", -time.Second)

	_, ok := c.Get("k")
	assert.False(t, ok)
}

func TestKeyIsStable(t *testing.T) {
	assert.Equal(t, Key("https://example.com/a"), Key("https://example.com/a"))
	assert.NotEqual(t, Key("https://example.com/a"), Key("https://example.com/b"))
}
