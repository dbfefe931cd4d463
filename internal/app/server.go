package app

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/specialistvlad/paintworklet/internal/config"
	"github.com/specialistvlad/paintworklet/internal/ctxlog"
	"github.com/specialistvlad/paintworklet/internal/imageout"
	"github.com/specialistvlad/paintworklet/internal/units"
	"github.com/specialistvlad/paintworklet/internal/worklet"
)

// Handler returns the HTTP API: /health and
// GET /paint/{worklet}/{name}?width=&height=.
func (a *App) Handler(ctx context.Context) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", a.healthHandler)
	mux.HandleFunc("GET /paint/{worklet}/{name}", func(w http.ResponseWriter, r *http.Request) {
		a.paintHandler(ctx, w, r)
	})
	return mux
}

// healthHandler reports that the server is up.
func (a *App) healthHandler(w http.ResponseWriter, r *http.Request) {
	a.logger.Debug("Health check endpoint hit.", "remote_addr", r.RemoteAddr, "path", r.URL.Path)
	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, "OK")
}

// paintHandler draws one image and returns it as PNG. A failed paint is
// still a 200 response carrying the fallback image, flagged by the
// X-Paint-Fallback header.
func (a *App) paintHandler(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	logger := ctxlog.FromContext(ctx)
	workletName, paintName := r.PathValue("worklet"), r.PathValue("name")

	scope, ok := a.scopes[workletName]
	if !ok {
		http.Error(w, fmt.Sprintf("unknown worklet %q", workletName), http.StatusNotFound)
		return
	}
	width, err := pxParam(r, "width")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	height, err := pxParam(r, "height")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	res, err := scope.Draw(r.Context(), paintName, units.Size{Width: units.FromFloatPx(width), Height: units.FromFloatPx(height)})
	if err != nil {
		status := http.StatusServiceUnavailable
		if !errors.Is(err, worklet.ErrClosed) {
			status = http.StatusRequestTimeout
		}
		http.Error(w, err.Error(), status)
		return
	}
	defer a.images.Release(res.Key())

	img, ok := a.images.Get(res.Key())
	if !ok {
		http.Error(w, "image not found", http.StatusInternalServerError)
		return
	}
	var buf bytes.Buffer
	if err := imageout.Encode(&buf, img, imageout.PNG); err != nil {
		logger.Error("Failed to encode image.", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	logger.Debug("Served paint image.", "worklet", workletName, "paint", paintName, "fallback", res.Fallback())
	w.Header().Set("Content-Type", imageout.PNG.ContentType())
	w.Header().Set("X-Paint-Fallback", strconv.FormatBool(res.Fallback()))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	_, _ = w.Write(buf.Bytes())
}

func pxParam(r *http.Request, name string) (float64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, fmt.Errorf("missing %s", name)
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q", name, raw)
	}
	if err := config.CheckDimension(name, v); err != nil {
		return 0, err
	}
	return v, nil
}

// serve runs the HTTP server until ctx is cancelled, then shuts it down.
func (a *App) serve(ctx context.Context, port int) error {
	logger := ctxlog.FromContext(ctx)
	addr := fmt.Sprintf(":%d", port)

	a.httpServer = &http.Server{
		Addr:              addr,
		Handler:           a.Handler(ctx),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Paint server starting", "address", fmt.Sprintf("http://localhost%s/health", addr))
		errCh <- a.httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("paint server failed: %w", err)
	case <-ctx.Done():
	}

	logger.Info("Shutting down paint server...")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if err := a.httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("Paint server shutdown failed", "error", err)
		return err
	}
	logger.Debug("Paint server shut down gracefully.")
	return nil
}
