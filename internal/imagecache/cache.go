package imagecache

import (
	"fmt"
	"sync"
	"sync/atomic"
)

// Format is the byte layout of an image's pixels.
type Format int

const (
	// FormatBGRA8 stores blue, green, red, alpha; one byte each.
	FormatBGRA8 Format = iota
	// FormatRGBA8 stores red, green, blue, alpha; one byte each.
	FormatRGBA8
)

func (f Format) String() string {
	switch f {
	case FormatBGRA8:
		return "BGRA8"
	case FormatRGBA8:
		return "RGBA8"
	default:
		return fmt.Sprintf("Format(%d)", int(f))
	}
}

// Key identifies a registered image. The zero Key is never issued.
type Key uint64

func (k Key) String() string {
	return fmt.Sprintf("img-%d", uint64(k))
}

// Image is an immutable registered image.
type Image struct {
	Key    Key
	Width  uint32
	Height uint32
	Format Format
	Bytes  []byte
}

// Cache is an in-memory image key registry. It is safe for concurrent use.
type Cache struct {
	next   atomic.Uint64
	images sync.Map // Key: Key, Value: *Image
}

// New creates an empty cache.
func New() *Cache {
	return &Cache{}
}

// RegisterImage stores bytes, without copying, and returns their key.
// The caller must not modify bytes afterwards.
func (c *Cache) RegisterImage(bytes []byte, width, height uint32, format Format) (Key, error) {
	if want := int(width) * int(height) * 4; len(bytes) != want {
		return 0, fmt.Errorf("image of %dx%d needs %d bytes, got %d", width, height, want, len(bytes))
	}
	key := Key(c.next.Add(1))
	c.images.Store(key, &Image{
		Key:    key,
		Width:  width,
		Height: height,
		Format: format,
		Bytes:  bytes,
	})
	return key, nil
}

// Get returns the image registered under key.
func (c *Cache) Get(key Key) (*Image, bool) {
	img, ok := c.images.Load(key)
	if !ok {
		return nil, false
	}
	return img.(*Image), true
}

// Release forgets key. Releasing an unknown key is a no-op.
func (c *Cache) Release(key Key) {
	c.images.Delete(key)
}

// Len returns the number of live images.
func (c *Cache) Len() int {
	n := 0
	c.images.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}
