package imageout

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path/filepath"

	"github.com/specialistvlad/paintworklet/internal/ctxlog"
	"github.com/specialistvlad/paintworklet/internal/imagecache"
)

// Writer stores images in an output directory or uploads them.
type Writer struct {
	outDir string
	client *http.Client
}

// NewWriter creates a writer that resolves relative file outputs against
// outDir. A nil client means http.DefaultClient.
func NewWriter(outDir string, client *http.Client) *Writer {
	if client == nil {
		client = http.DefaultClient
	}
	return &Writer{outDir: outDir, client: client}
}

// Write stores img at output, which is a file path or an http(s) URL, and
// returns where it went.
func (w *Writer) Write(ctx context.Context, img *imagecache.Image, output string) (string, error) {
	if u, err := url.Parse(output); err == nil && (u.Scheme == "http" || u.Scheme == "https") {
		return output, w.upload(ctx, img, u)
	}
	return w.writeFile(ctx, img, output)
}

func (w *Writer) writeFile(ctx context.Context, img *imagecache.Image, output string) (string, error) {
	f, err := FormatFor(output)
	if err != nil {
		return "", err
	}
	dest := output
	if !filepath.IsAbs(dest) {
		dest = filepath.Join(w.outDir, dest)
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	var buf bytes.Buffer
	if err := Encode(&buf, img, f); err != nil {
		return "", fmt.Errorf("failed to encode %s: %w", dest, err)
	}
	if err := os.WriteFile(dest, buf.Bytes(), 0o644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", dest, err)
	}
	ctxlog.FromContext(ctx).Debug("Wrote image file.", "path", dest, "format", f, "size", buf.Len())
	return dest, nil
}

// upload PUTs the encoded image to a pre-signed URL.
func (w *Writer) upload(ctx context.Context, img *imagecache.Image, u *url.URL) error {
	logger := ctxlog.FromContext(ctx).With("action", "upload")

	f, err := FormatFor(u.Path)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := Encode(&buf, img, f); err != nil {
		return fmt.Errorf("failed to encode upload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, u.String(), bytes.NewReader(buf.Bytes()))
	if err != nil {
		return fmt.Errorf("failed to create upload request: %w", err)
	}
	req.Header.Set("Content-Type", f.ContentType())
	req.ContentLength = int64(buf.Len())

	logger.Info("Uploading image", "host", u.Host, "size", buf.Len(), "contentType", f.ContentType())

	resp, err := w.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute upload request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("upload failed with status: %s", resp.Status)
	}

	logger.Info("Successfully uploaded image", "status", resp.Status)
	return nil
}
