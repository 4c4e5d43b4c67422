package prompt

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSummaryCache_EvictsOldest(t *testing.T) {
	c := NewSummaryCache(2)
	c.Put("a", "summary a")
	c.Put("b", "summary b")
	c.Put("c", "summary c")

	_, ok := c.Get("a")
	assert.False(t, ok)

	v, ok := c.Get("b")
	assert.True(t, ok)
	assert.Equal(t, "summary b", v)

	_, ok = c.Get("c")
	assert.True(t, ok)
	assert.Equal(t, 2, c.Len())
}

func TestSummaryCache_UpdateKeepsAge(t *testing.T) {
	c := NewSummaryCache(2)
	c.Put("a", "v1")
	c.Put("b", "v2")
	c.Put("a", "v1-updated")
	c.Put("c", "v3")

	// "a" was oldest despite the update, so it went first.
	_, ok := c.Get("a")
	assert.False(t, ok)
	_, ok = c.Get("b")
	assert.True(t, ok)
}

func TestSummaryCache_ZeroCapacity(t *testing.T) {
	c := NewSummaryCache(0)
	c.Put("a", "v")
	_, ok := c.Get("a")
	assert.False(t, ok)
	assert.Zero(t, c.Len())
}
