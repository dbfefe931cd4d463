package imagecache

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterAndGet(t *testing.T) {
	c := New()

	key, err := c.RegisterImage([]byte{1, 2, 3, 4, 5, 6, 7, 8}, 2, 1, FormatBGRA8)
	require.NoError(t, err)
	assert.NotZero(t, key)

	img, ok := c.Get(key)
	require.True(t, ok)
	assert.Equal(t, uint32(2), img.Width)
	assert.Equal(t, uint32(1), img.Height)
	assert.Equal(t, FormatBGRA8, img.Format)
	assert.Equal(t, []byte{1, 2, 3, 4, 5, 6, 7, 8}, img.Bytes)

	c.Release(key)
	_, ok = c.Get(key)
	assert.False(t, ok)
}

func TestRegisterImage_RejectsWrongLength(t *testing.T) {
	c := New()
	_, err := c.RegisterImage([]byte{1, 2, 3}, 1, 1, FormatRGBA8)
	require.Error(t, err)
	assert.Equal(t, 0, c.Len())
}

func TestRegisterImage_EmptyImage(t *testing.T) {
	c := New()
	key, err := c.RegisterImage(nil, 0, 0, FormatBGRA8)
	require.NoError(t, err)

	img, ok := c.Get(key)
	require.True(t, ok)
	assert.Empty(t, img.Bytes)
}

// TestCache_ConcurrentRegistration verifies that many goroutines can register
// images at once and every one of them receives a distinct key.
func TestCache_ConcurrentRegistration(t *testing.T) {
	c := New()
	numGoroutines := 100
	keys := make([]Key, numGoroutines)
	var wg sync.WaitGroup

	wg.Add(numGoroutines)
	for i := 0; i < numGoroutines; i++ {
		go func(i int) {
			defer wg.Done()
			key, err := c.RegisterImage([]byte{byte(i), 0, 0, 0}, 1, 1, FormatBGRA8)
			if err != nil {
				t.Errorf("register %d: %v", i, err)
				return
			}
			keys[i] = key
		}(i)
	}
	wg.Wait()

	seen := make(map[Key]struct{}, numGoroutines)
	for i, key := range keys {
		_, dup := seen[key]
		require.False(t, dup, "key %s issued twice", key)
		seen[key] = struct{}{}

		img, ok := c.Get(key)
		require.True(t, ok)
		assert.Equal(t, byte(i), img.Bytes[0], "mismatched bytes for goroutine %d", i)
	}
	assert.Equal(t, numGoroutines, c.Len())
}
