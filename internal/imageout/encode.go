package imageout

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"path"
	"strings"

	"github.com/specialistvlad/paintworklet/internal/imagecache"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

// Format is an output encoding.
type Format string

const (
	PNG  Format = "png"
	BMP  Format = "bmp"
	TIFF Format = "tiff"
)

// ContentType returns the MIME type of f.
func (f Format) ContentType() string {
	switch f {
	case BMP:
		return "image/bmp"
	case TIFF:
		return "image/tiff"
	default:
		return "image/png"
	}
}

// FormatFor picks the encoding from the extension of name, which may be a
// file path or a URL path. A name without an extension is PNG.
func FormatFor(name string) (Format, error) {
	switch ext := strings.ToLower(path.Ext(name)); ext {
	case "", ".png":
		return PNG, nil
	case ".bmp":
		return BMP, nil
	case ".tif", ".tiff":
		return TIFF, nil
	default:
		return "", fmt.Errorf("unsupported image extension %q", ext)
	}
}

// ToImage converts a cache image to an image.RGBA.
func ToImage(img *imagecache.Image) (*image.RGBA, error) {
	if want := int(img.Width) * int(img.Height) * 4; len(img.Bytes) != want {
		return nil, fmt.Errorf("image %s has %d bytes, want %d", img.Key, len(img.Bytes), want)
	}
	out := image.NewRGBA(image.Rect(0, 0, int(img.Width), int(img.Height)))
	switch img.Format {
	case imagecache.FormatRGBA8:
		copy(out.Pix, img.Bytes)
	case imagecache.FormatBGRA8:
		for i := 0; i < len(img.Bytes); i += 4 {
			out.Pix[i+0] = img.Bytes[i+2]
			out.Pix[i+1] = img.Bytes[i+1]
			out.Pix[i+2] = img.Bytes[i+0]
			out.Pix[i+3] = img.Bytes[i+3]
		}
	default:
		return nil, fmt.Errorf("unsupported pixel format %s", img.Format)
	}
	return out, nil
}

// Encode writes img to w in format f.
func Encode(w io.Writer, img *imagecache.Image, f Format) error {
	rgba, err := ToImage(img)
	if err != nil {
		return err
	}
	switch f {
	case PNG:
		return png.Encode(w, rgba)
	case BMP:
		return bmp.Encode(w, rgba)
	case TIFF:
		return tiff.Encode(w, rgba, &tiff.Options{Compression: tiff.Deflate})
	default:
		return fmt.Errorf("unsupported format %q", f)
	}
}
