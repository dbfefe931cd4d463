package app

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/specialistvlad/paintworklet/internal/config"
	"github.com/specialistvlad/paintworklet/internal/ctxlog"
	"github.com/specialistvlad/paintworklet/internal/imageout"
	"github.com/specialistvlad/paintworklet/internal/publish"
	"github.com/specialistvlad/paintworklet/internal/units"
	"github.com/specialistvlad/paintworklet/internal/worklet"
	"golang.org/x/sync/errgroup"
)

// Result is the outcome of one configured draw.
type Result struct {
	Draw     *config.Draw
	Fallback bool
	Location string
}

// Run starts every worklet, performs the configured draws and, when a
// serve port is set, serves draws over HTTP until ctx is cancelled.
func (a *App) Run(ctx context.Context) ([]Result, error) {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	stop, err := a.Start(ctx)
	if err != nil {
		return nil, err
	}
	defer stop()

	if a.publisher == nil && a.config.PublishURL != "" {
		p, err := publish.Connect(ctx, a.config.PublishURL, publish.Options{})
		if err != nil {
			return nil, fmt.Errorf("failed to connect publisher: %w", err)
		}
		a.publisher = p
	}
	if a.publisher != nil {
		defer a.publisher.Close()
	}

	results, err := a.drawAll(ctx)
	if err != nil {
		return results, err
	}

	if a.config.ServePort > 0 {
		if err := a.serve(ctx, a.config.ServePort); err != nil {
			return results, err
		}
	}

	a.logger.Debug("App.Run method finished.")
	return results, nil
}

// Start creates a scope per worklet, runs each on its own goroutine and
// loads its scripts. The returned func stops the scopes and waits for
// them; it must be called even when Start fails.
func (a *App) Start(ctx context.Context) (stop func(), err error) {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	scopeCtx, cancel := context.WithCancel(ctx)
	scopes, scopeCtx := errgroup.WithContext(scopeCtx)
	stop = func() {
		cancel()
		if err := scopes.Wait(); err != nil && !errors.Is(err, context.Canceled) {
			a.logger.Error("Worklet scope failed.", "error", err)
		}
	}

	for _, name := range a.model.WorkletNames() {
		w := a.model.Worklets[name]
		timeout := w.ScriptTimeout
		if timeout == 0 {
			timeout = a.config.ScriptTimeout
		}
		scope, err := worklet.New(name, a.images, worklet.WithCallTimeout(timeout), worklet.WithQueueSize(w.QueueSize))
		if err != nil {
			return stop, err
		}
		a.scopes[name] = scope
		scopes.Go(func() error { return scope.Run(scopeCtx) })
	}

	loads, loadCtx := errgroup.WithContext(ctx)
	for name, scope := range a.scopes {
		scripts := a.model.Worklets[name].Scripts
		loads.Go(func() error {
			for _, path := range scripts {
				if err := scope.LoadFile(loadCtx, path); err != nil {
					return err
				}
			}
			a.logger.Info("Worklet ready.", "worklet", name, "scripts", len(scripts))
			return nil
		})
	}
	return stop, loads.Wait()
}

// drawAll performs every configured draw. Draws in different worklets run
// in parallel; each worklet serialises its own.
func (a *App) drawAll(ctx context.Context) ([]Result, error) {
	if len(a.model.Draws) == 0 {
		a.logger.Warn("No draws configured.")
		return nil, nil
	}
	a.logger.Info("Starting draws...", "count", len(a.model.Draws))

	results := make([]Result, len(a.model.Draws))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.config.Workers)
	for i, d := range a.model.Draws {
		g.Go(func() error {
			res, err := a.drawOne(gctx, d)
			if err != nil {
				return fmt.Errorf("draw %s: %w", d.ID(), err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return results, err
	}
	a.logger.Info("Draws finished.", "count", len(results))
	return results, nil
}

func (a *App) drawOne(ctx context.Context, d *config.Draw) (Result, error) {
	logger := ctxlog.FromContext(ctx).With("worklet", d.Worklet, "paint", d.Paint)

	scope, ok := a.scopes[d.Worklet]
	if !ok {
		return Result{}, fmt.Errorf("unknown worklet %q", d.Worklet)
	}
	size := units.Size{Width: units.FromFloatPx(d.Width), Height: units.FromFloatPx(d.Height)}
	res, err := scope.Draw(ctx, d.Paint, size)
	if err != nil {
		return Result{}, err
	}
	defer a.images.Release(res.Key())

	img, ok := a.images.Get(res.Key())
	if !ok {
		return Result{}, fmt.Errorf("image %s vanished from the cache", res.Key())
	}

	output := d.Output
	if output == "" {
		output = fmt.Sprintf("%s-%s.png", d.Worklet, d.Paint)
	}
	location, err := a.writer.Write(ctx, img, output)
	if err != nil {
		return Result{}, err
	}
	if res.Fallback() {
		logger.Warn("Paint failed, wrote fallback image.", "location", location)
	} else {
		logger.Info("Wrote paint image.", "location", location, "width", img.Width, "height", img.Height)
	}

	if a.publisher != nil {
		var encoded bytes.Buffer
		if err := imageout.Encode(&encoded, img, imageout.PNG); err != nil {
			return Result{}, fmt.Errorf("encoding image for publishing: %w", err)
		}
		ev := publish.Event{
			Worklet:  d.Worklet,
			Paint:    d.Paint,
			Key:      res.Key().String(),
			Fallback: res.Fallback(),
			Width:    img.Width,
			Height:   img.Height,
			Location: location,
			PNG:      encoded.Bytes(),
		}
		if err := a.publisher.Publish(ctx, ev); err != nil {
			logger.Error("Failed to publish image.", "error", err)
		}
	}
	return Result{Draw: d, Fallback: res.Fallback(), Location: location}, nil
}
