package worklet

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/specialistvlad/paintworklet/internal/ctxlog"
	"github.com/specialistvlad/paintworklet/internal/engine"
	"github.com/specialistvlad/paintworklet/internal/imagecache"
	"github.com/specialistvlad/paintworklet/internal/instancestore"
	"github.com/specialistvlad/paintworklet/internal/jsbridge"
	"github.com/specialistvlad/paintworklet/internal/registry"
	"github.com/specialistvlad/paintworklet/internal/renderctx"
	"github.com/specialistvlad/paintworklet/internal/units"
)

// ErrClosed is returned for work submitted to a closed scope.
var ErrClosed = errors.New("worklet scope closed")

// task is a unit of work executed on the scope goroutine.
type task func(ctx context.Context)

// Option configures a Scope.
type Option func(*options)

type options struct {
	callTimeout time.Duration
	queueSize   int
}

// WithCallTimeout bounds each constructor and paint call. See
// jsbridge.WithCallTimeout.
func WithCallTimeout(d time.Duration) Option {
	return func(o *options) { o.callTimeout = d }
}

// WithQueueSize sets how many tasks may wait for the scope goroutine.
func WithQueueSize(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.queueSize = n
		}
	}
}

// ImageCache receives the images a scope paints. Release lets the scope
// free images whose caller stopped waiting for them.
type ImageCache interface {
	engine.ImageCache
	Release(key imagecache.Key)
}

// Scope is a single paint worklet global scope.
type Scope struct {
	name      string
	images    ImageCache
	runtime   *jsbridge.Runtime
	registry  *registry.Registry
	instances *instancestore.Store
	engine    *engine.Engine

	tasks     chan task
	closed    chan struct{}
	closeOnce sync.Once
	// stopped is closed when Run returns.
	stopped chan struct{}

	// taskCtx is the context of the task being executed. Only the scope
	// goroutine touches it.
	taskCtx context.Context
}

// New creates a scope whose images are registered with images. The scope
// does nothing until Run is called.
func New(name string, images ImageCache, opts ...Option) (*Scope, error) {
	o := options{queueSize: 16}
	for _, opt := range opts {
		opt(&o)
	}

	rt, err := jsbridge.New(jsbridge.WithCallTimeout(o.callTimeout))
	if err != nil {
		return nil, fmt.Errorf("creating runtime for worklet %q: %w", name, err)
	}
	reg := registry.New(rt, func(alpha bool) registry.RenderingContext {
		return renderctx.New(alpha)
	})
	instances := instancestore.New()

	s := &Scope{
		name:      name,
		images:    images,
		runtime:   rt,
		registry:  reg,
		instances: instances,
		engine:    engine.New(reg, instances, rt, images),
		tasks:     make(chan task, o.queueSize),
		closed:    make(chan struct{}),
		stopped:   make(chan struct{}),
		taskCtx:   context.Background(),
	}
	if err := rt.SetFunc("registerPaint", s.registerPaint); err != nil {
		return nil, fmt.Errorf("installing registerPaint: %w", err)
	}
	return s, nil
}

// Name returns the scope's name.
func (s *Scope) Name() string {
	return s.name
}

// Run executes submitted tasks until ctx is cancelled or the scope is
// closed. It must be called exactly once.
func (s *Scope) Run(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx).With("worklet", s.name)
	ctx = ctxlog.WithLogger(ctx, logger)
	logger.Info("Worklet scope started.")

	defer func() {
		defer close(s.stopped)
		if err := s.registry.Close(); err != nil {
			logger.Error("Failed to release rendering contexts.", "error", err)
		}
		logger.Info("Worklet scope stopped.")
	}()

	for {
		select {
		case <-ctx.Done():
			s.Close()
			return ctx.Err()
		case <-s.closed:
			return nil
		case t := <-s.tasks:
			s.taskCtx = ctx
			t(ctx)
			s.taskCtx = context.Background()
		}
	}
}

// Close stops the scope. Pending tasks are dropped and their callers
// receive ErrClosed.
func (s *Scope) Close() {
	s.closeOnce.Do(func() { close(s.closed) })
}

// Done is closed once the scope stops taking work, either through Close or
// because the context given to Run ended.
func (s *Scope) Done() <-chan struct{} {
	return s.closed
}

// do enqueues t and waits for it to finish.
func (s *Scope) do(ctx context.Context, t task) error {
	done := make(chan struct{})
	if err := s.enqueue(ctx, func(ctx context.Context) {
		defer close(done)
		t(ctx)
	}); err != nil {
		return err
	}
	select {
	case <-done:
		return nil
	case <-s.closed:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Scope) enqueue(ctx context.Context, t task) error {
	select {
	case <-s.closed:
		return ErrClosed
	default:
	}
	select {
	case s.tasks <- t:
		return nil
	case <-s.closed:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// LoadScript evaluates a worklet module. Paint classes it registers become
// available to later draws.
func (s *Scope) LoadScript(ctx context.Context, name, src string) error {
	var runErr error
	err := s.do(ctx, func(ctx context.Context) {
		ctxlog.FromContext(ctx).Debug("Evaluating worklet script.", "script", name)
		runErr = s.runtime.RunScript(name, src)
	})
	if err != nil {
		return err
	}
	if runErr != nil {
		return fmt.Errorf("loading %s into worklet %q: %w", name, s.name, runErr)
	}
	return nil
}

// LoadFile reads and evaluates the script at path.
func (s *Scope) LoadFile(ctx context.Context, path string) error {
	src, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading worklet script: %w", err)
	}
	return s.LoadScript(ctx, filepath.Base(path), string(src))
}

// Submit queues a draw. The result arrives on req.Reply, unless the scope
// closes before the draw runs: queued draws are dropped without a reply,
// so callers waiting on req.Reply must also watch Done.
func (s *Scope) Submit(ctx context.Context, req engine.DrawRequest) error {
	return s.enqueue(ctx, func(ctx context.Context) {
		s.engine.Draw(ctx, req)
	})
}

// Draw paints name at size and waits for the result. Paint failures are
// reported as a FallbackImage, never as an error; the error is only set
// when the scope is closed or ctx ends first.
func (s *Scope) Draw(ctx context.Context, name string, size units.Size) (engine.ImageResult, error) {
	reply := make(chan engine.ImageResult, 1)
	if err := s.Submit(ctx, engine.DrawRequest{Name: name, Size: size, Reply: reply}); err != nil {
		return nil, err
	}
	select {
	case res := <-reply:
		return res, nil
	case <-s.closed:
		go s.releaseLate(reply)
		return nil, ErrClosed
	case <-ctx.Done():
		go s.releaseLate(reply)
		return nil, ctx.Err()
	}
}

// releaseLate frees the image of a draw whose caller gave up waiting. The
// draw may still be queued or running, so it waits until the scope stops.
func (s *Scope) releaseLate(reply <-chan engine.ImageResult) {
	select {
	case res := <-reply:
		s.images.Release(res.Key())
		return
	case <-s.stopped:
	}
	select {
	case res := <-reply:
		s.images.Release(res.Key())
	default:
	}
}

// Definition describes a registered paint class.
type Definition struct {
	Name            string
	InputProperties []string
	InputArguments  []string
	Alpha           bool
	Valid           bool
}

// Definitions lists the registered paint classes in name order.
func (s *Scope) Definitions(ctx context.Context) ([]Definition, error) {
	var defs []Definition
	err := s.do(ctx, func(ctx context.Context) {
		for _, name := range s.registry.Names() {
			d, _ := s.registry.Lookup(name)
			defs = append(defs, Definition{
				Name:            d.Name(),
				InputProperties: d.InputProperties(),
				InputArguments:  d.InputArguments(),
				Alpha:           d.Alpha(),
				Valid:           d.Valid(),
			})
		}
	})
	return defs, err
}
