package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/specialistvlad/paintworklet/internal/config"
	"github.com/specialistvlad/paintworklet/internal/ctxlog"
	"github.com/specialistvlad/paintworklet/internal/imagecache"
	"github.com/specialistvlad/paintworklet/internal/imageout"
	"github.com/specialistvlad/paintworklet/internal/publish"
	"github.com/specialistvlad/paintworklet/internal/worklet"
)

// Publisher announces finished images.
type Publisher interface {
	Publish(ctx context.Context, ev publish.Event) error
	Close() error
}

// Option customises an App.
type Option func(*App)

// WithPublisher makes the app publish through p instead of dialing
// Config.PublishURL.
func WithPublisher(p Publisher) Option {
	return func(a *App) { a.publisher = p }
}

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW      io.Writer
	logger    *slog.Logger
	config    *Config
	model     *config.Model
	images    *imagecache.Cache
	writer    *imageout.Writer
	publisher Publisher

	// scopes is populated by Run and read-only afterwards.
	scopes map[string]*worklet.Scope

	httpServer *http.Server
}

// NewApp is the constructor for the main application. It returns a fully
// initialized App instance with its own isolated logger. A configuration
// that cannot be loaded is a fatal startup error and panics.
func NewApp(outW io.Writer, appConfig *Config, loader config.Loader, opts ...Option) *App {
	logger := newLogger(appConfig.LogLevel, appConfig.LogFormat, outW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	model, err := loader.Load(ctx, appConfig.ConfigPaths...)
	if err != nil {
		panic(fmt.Errorf("failed to load configuration: %w", err))
	}
	if err := model.Validate(); err != nil {
		panic(fmt.Errorf("invalid configuration: %w", err))
	}
	logger.Debug("Configuration loaded and translated into unified model.", "worklets", len(model.Worklets), "draws", len(model.Draws))

	a := &App{
		outW:   outW,
		logger: logger,
		config: appConfig,
		model:  model,
		images: imagecache.New(),
		writer: imageout.NewWriter(appConfig.OutDir, nil),
		scopes: make(map[string]*worklet.Scope),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Model returns the loaded configuration model. This is primarily for testing.
func (a *App) Model() *config.Model {
	return a.model
}

// Images returns the image cache shared by all worklets.
func (a *App) Images() *imagecache.Cache {
	return a.images
}
