package engine

import (
	"context"

	"github.com/specialistvlad/paintworklet/internal/ctxlog"
	"github.com/specialistvlad/paintworklet/internal/imagecache"
)

// fallbackPixel is one BGRA8 pixel of the fallback image.
var fallbackPixel = [4]byte{0xFF, 0x00, 0x00, 0xFF}

// FallbackPixels returns width*height BGRA8 pixels of the fallback colour.
func FallbackPixels(width, height uint32) []byte {
	n := int(width) * int(height)
	data := make([]byte, n*4)
	for i := 0; i < n; i++ {
		copy(data[i*4:], fallbackPixel[:])
	}
	return data
}

// sendInvalidImage registers a fallback image of the requested size and
// delivers it to the requester.
func (e *Engine) sendInvalidImage(ctx context.Context, req DrawRequest) {
	logger := ctxlog.FromContext(ctx).With("paint", req.Name)

	width, height := req.Size.Pixels()
	key, err := e.images.RegisterImage(FallbackPixels(width, height), width, height, imagecache.FormatBGRA8)
	if err != nil {
		logger.Error("Failed to register fallback image.", "error", err)
		return
	}
	logger.Debug("Sending fallback image.", "key", key, "width", width, "height", height)
	e.send(ctx, req, FallbackImage{Handle: key})
}

// send delivers result without blocking. A requester that has gone away
// is not an error.
func (e *Engine) send(ctx context.Context, req DrawRequest, result ImageResult) {
	if req.Reply == nil {
		return
	}
	select {
	case req.Reply <- result:
	default:
		ctxlog.FromContext(ctx).Debug("Draw requester went away, dropping result.", "paint", req.Name, "result", result)
	}
}
