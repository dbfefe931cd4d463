package imageout

import (
	"bytes"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/specialistvlad/paintworklet/internal/imagecache"
	"github.com/specialistvlad/paintworklet/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

// fallbackImage is a 2x1 BGRA image of opaque red.
func fallbackImage() *imagecache.Image {
	return &imagecache.Image{
		Key:    1,
		Width:  2,
		Height: 1,
		Format: imagecache.FormatBGRA8,
		Bytes:  []byte{0x00, 0x00, 0xFF, 0xFF, 0x00, 0x00, 0xFF, 0xFF},
	}
}

func TestFormatFor(t *testing.T) {
	testCases := map[string]Format{
		"out.png":               PNG,
		"OUT.PNG":               PNG,
		"noext":                 PNG,
		"a/b.bmp":               BMP,
		"x.tif":                 TIFF,
		"x.tiff":                TIFF,
		"/bucket/key/image.bmp": BMP,
	}
	for name, want := range testCases {
		got, err := FormatFor(name)
		require.NoError(t, err, name)
		assert.Equal(t, want, got, name)
	}

	_, err := FormatFor("x.gif")
	assert.Error(t, err)
}

func TestToImage_SwapsChannels(t *testing.T) {
	img, err := ToImage(fallbackImage())

	require.NoError(t, err)
	assert.Equal(t, []byte{0xFF, 0x00, 0x00, 0xFF, 0xFF, 0x00, 0x00, 0xFF}, img.Pix)
}

func TestToImage_RejectsShortBuffer(t *testing.T) {
	img := fallbackImage()
	img.Bytes = img.Bytes[:4]

	_, err := ToImage(img)

	assert.Error(t, err)
}

func TestEncode_RoundTripsPixel(t *testing.T) {
	for _, f := range []Format{PNG, BMP, TIFF} {
		t.Run(string(f), func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, Encode(&buf, fallbackImage(), f))

			var r, g, b, a uint32
			switch f {
			case PNG:
				img, err := png.Decode(&buf)
				require.NoError(t, err)
				r, g, b, a = img.At(1, 0).RGBA()
			case BMP:
				img, err := bmp.Decode(&buf)
				require.NoError(t, err)
				r, g, b, a = img.At(1, 0).RGBA()
			case TIFF:
				img, err := tiff.Decode(&buf)
				require.NoError(t, err)
				r, g, b, a = img.At(1, 0).RGBA()
			}
			assert.Equal(t, []uint32{0xFFFF, 0, 0, 0xFFFF}, []uint32{r, g, b, a})
		})
	}
}

func TestWriter_File(t *testing.T) {
	ctx, _ := testutil.LogContext(t)
	dir := t.TempDir()
	w := NewWriter(dir, nil)

	dest, err := w.Write(ctx, fallbackImage(), filepath.Join("nested", "red.bmp"))

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "nested", "red.bmp"), dest)
	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "BM", string(data[:2]))

	_, err = w.Write(ctx, fallbackImage(), "red.gif")
	assert.Error(t, err)
}

func TestWriter_Upload(t *testing.T) {
	ctx, _ := testutil.LogContext(t)
	var gotMethod, gotType string
	var gotBody []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotType = r.Header.Get("Content-Type")
		gotBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()
	w := NewWriter(t.TempDir(), srv.Client())

	loc, err := w.Write(ctx, fallbackImage(), srv.URL+"/bucket/red.png?sig=abc")

	require.NoError(t, err)
	assert.Equal(t, srv.URL+"/bucket/red.png?sig=abc", loc)
	assert.Equal(t, http.MethodPut, gotMethod)
	assert.Equal(t, "image/png", gotType)
	_, err = png.Decode(bytes.NewReader(gotBody))
	assert.NoError(t, err)
}

func TestWriter_UploadFailureStatus(t *testing.T) {
	ctx, _ := testutil.LogContext(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	_, err := NewWriter("", srv.Client()).Write(ctx, fallbackImage(), srv.URL+"/x.png")

	assert.ErrorContains(t, err, "403")
}
