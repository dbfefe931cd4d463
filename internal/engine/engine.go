package engine

import (
	"context"

	"github.com/specialistvlad/paintworklet/internal/ctxlog"
	"github.com/specialistvlad/paintworklet/internal/imagecache"
	"github.com/specialistvlad/paintworklet/internal/instancestore"
	"github.com/specialistvlad/paintworklet/internal/registry"
	"github.com/specialistvlad/paintworklet/internal/script"
)

// ImageCache registers finished pixel buffers and hands out their keys.
type ImageCache interface {
	RegisterImage(bytes []byte, width, height uint32, format imagecache.Format) (imagecache.Key, error)
}

// Engine executes draw requests against one registry. Like the registry it
// is not safe for concurrent use.
type Engine struct {
	registry  *registry.Registry
	instances *instancestore.Store
	bridge    script.Bridge
	images    ImageCache
}

// New creates an engine drawing the definitions of reg.
func New(reg *registry.Registry, instances *instancestore.Store, bridge script.Bridge, images ImageCache) *Engine {
	return &Engine{
		registry:  reg,
		instances: instances,
		bridge:    bridge,
		images:    images,
	}
}

// Draw paints req.Name at req.Size and sends exactly one ImageResult on
// req.Reply. Failures never surface to the caller; they produce a
// FallbackImage instead.
func (e *Engine) Draw(ctx context.Context, req DrawRequest) {
	logger := ctxlog.FromContext(ctx).With("paint", req.Name, "size", req.Size)
	logger.Debug("Drawing paint image.")

	def, ok := e.registry.Lookup(req.Name)
	if !ok {
		logger.Warn("Drawing unregistered paint.")
		e.sendInvalidImage(ctx, req)
		return
	}
	if !def.Valid() {
		logger.Debug("Drawing invalid paint.")
		e.sendInvalidImage(ctx, req)
		return
	}

	exit := e.bridge.Enter()
	defer exit()

	instance, ok := e.instance(ctx, def)
	if !ok {
		e.sendInvalidImage(ctx, req)
		return
	}

	rc := def.Context()
	if err := rc.SetBitmapDimensions(req.Size); err != nil {
		logger.Error("Failed to resize rendering context.", "error", err)
		e.sendInvalidImage(ctx, req)
		return
	}

	width, height := req.Size.Pixels()
	size := e.bridge.Wrap(script.PaintSize{Width: width, Height: height})

	logger.Debug("Invoking paint function.")
	if _, err := e.bridge.Call(def.PaintFunction(), instance, def.ContextValue(), size); err != nil {
		logger.Debug("Paint function threw.", "error", err)
		e.bridge.ClearPendingException()
		e.sendInvalidImage(ctx, req)
		return
	}

	data, w, h := rc.Pixels()
	key, err := e.images.RegisterImage(data, w, h, imagecache.FormatBGRA8)
	if err != nil {
		logger.Error("Failed to register paint image.", "error", err)
		e.sendInvalidImage(ctx, req)
		return
	}
	logger.Debug("Sending paint image.", "key", key)
	e.send(ctx, req, RealImage{Handle: key})
}

// instance returns the cached instance of def, constructing it on first
// use. A throwing constructor invalidates def and caches nothing.
func (e *Engine) instance(ctx context.Context, def *registry.PaintDefinition) (script.Value, bool) {
	if instance, ok := e.instances.Get(def.Name()); ok {
		return instance, true
	}

	logger := ctxlog.FromContext(ctx).With("paint", def.Name())
	logger.Debug("Constructing paint instance.")
	instance, err := e.bridge.Construct(def.Constructor())
	if err != nil {
		logger.Debug("Paint constructor threw, invalidating definition.", "error", err)
		e.bridge.ClearPendingException()
		def.Invalidate()
		return nil, false
	}
	instance, _ = e.instances.Put(def.Name(), instance)
	return instance, true
}
