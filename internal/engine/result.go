package engine

import (
	"fmt"

	"github.com/specialistvlad/paintworklet/internal/imagecache"
	"github.com/specialistvlad/paintworklet/internal/units"
)

// ImageResult is the outcome of a draw. It is either a RealImage or a
// FallbackImage.
type ImageResult interface {
	// Key returns the image cache key of the result's pixels.
	Key() imagecache.Key
	// Fallback reports whether this is the fallback image.
	Fallback() bool

	isImageResult()
}

// RealImage is a successfully painted image.
type RealImage struct {
	Handle imagecache.Key
}

func (r RealImage) Key() imagecache.Key { return r.Handle }
func (RealImage) Fallback() bool        { return false }
func (RealImage) isImageResult()        {}

func (r RealImage) String() string { return fmt.Sprintf("RealImage(%s)", r.Handle) }

// FallbackImage replaces an image that could not be painted.
type FallbackImage struct {
	Handle imagecache.Key
}

func (f FallbackImage) Key() imagecache.Key { return f.Handle }
func (FallbackImage) Fallback() bool        { return true }
func (FallbackImage) isImageResult()        {}

func (f FallbackImage) String() string { return fmt.Sprintf("FallbackImage(%s)", f.Handle) }

// DrawRequest asks for the paint named Name to be drawn at Size. The result
// is delivered on Reply, which should be buffered; a send that would block
// is dropped.
type DrawRequest struct {
	Name  string
	Size  units.Size
	Reply chan<- ImageResult
}
