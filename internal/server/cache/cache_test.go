package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetGetDelete(t *testing.T) {
	c := New(time.Minute, time.Minute)

	_, found := c.Get("missing")
	assert.False(t, found)

	c.Set("k", "v")
	v, found := c.Get("k")
	require.True(t, found)
	assert.Equal(t, "v", v)
	assert.Equal(t, 1, c.ItemCount())

	c.Delete("k")
	_, found = c.Get("k")
	assert.False(t, found)
}

func TestClear(t *testing.T) {
	c := New(time.Minute, time.Minute)
	c.Set("a", 1)
	c.Set("b", 2)

	c.Clear()
	assert.Zero(t, c.ItemCount())
}

func TestExpiry(t *testing.T) {
	c := New(10*time.Millisecond, time.Minute)
	c.Set("k", "v")

	time.Sleep(30 * time.Millisecond)
	_, found := c.Get("k")
	assert.False(t, found)
}
