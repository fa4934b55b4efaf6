package cachingcollections

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFilterCacheRejectsEmptyName(t *testing.T) {
	_, err := newFilterCache[int](func(int) bool { return true }, "", UnknownItemCount, 0.5, 0)
	require.Error(t, err)

	var ve *ValidationError
	assert.ErrorAs(t, err, &ve)
}

func TestNewFilterCacheRejectsThresholdOutOfRange(t *testing.T) {
	_, err := newFilterCache[int](func(int) bool { return true }, "f", UnknownItemCount, 1.5, 0)
	require.Error(t, err)
}

func TestFilterCacheCompleteOnlyAfterExpectedCountSeen(t *testing.T) {
	c, err := newFilterCache[int](func(x int) bool { return x%2 == 0 }, "even", 3, 1, 0)
	require.NoError(t, err)

	assert.False(t, c.Complete())

	c.recordHit(2)
	c.recordMiss()
	assert.False(t, c.Complete())

	c.recordMiss()
	assert.True(t, c.Complete())
}

func TestFilterCacheSelectivityKeyPrefersFewerMisses(t *testing.T) {
	tight, err := newFilterCache[int](func(int) bool { return true }, "tight", UnknownItemCount, 0.5, 0)
	require.NoError(t, err)
	tight.numHits = 2
	tight.numMisses = 8

	loose, err := newFilterCache[int](func(int) bool { return true }, "loose", UnknownItemCount, 0.5, 1)
	require.NoError(t, err)
	loose.numHits = 8
	loose.numMisses = 2

	assert.Less(t, tight.selectivityKey(), loose.selectivityKey())
}

func TestFilterCacheTryDisableOnExcessiveMisses(t *testing.T) {
	c, err := newFilterCache[int](func(int) bool { return true }, "f", 10, 0.5, 0)
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		c.recordMiss()
	}
	assert.False(t, c.tryDisable())
	assert.False(t, c.Disabled())

	c.recordMiss()
	assert.True(t, c.tryDisable())
	assert.True(t, c.Disabled())
	assert.Equal(t, 0, c.items.Len())
}

func TestFilterCacheTryDisableIsOneWay(t *testing.T) {
	c, err := newFilterCache[int](func(int) bool { return true }, "f", 1, 0, 0)
	require.NoError(t, err)

	c.recordMiss()
	assert.True(t, c.tryDisable())
	assert.False(t, c.tryDisable())
}
