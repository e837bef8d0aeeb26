package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/vk/imfitgo/internal/catalog"
	"github.com/vk/imfitgo/internal/config"
	"github.com/vk/imfitgo/internal/ctxlog"
	"github.com/vk/imfitgo/internal/engine"
	"github.com/vk/imfitgo/internal/model"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW    io.Writer
	logger  *slog.Logger
	config  *Config
	catalog *catalog.Catalog
	loader  model.Loader
	synth   engine.Synthesizer
}

// Option overrides one of the App's collaborators.
type Option func(*App)

// WithLoader replaces the extension-dispatching model loader.
func WithLoader(l model.Loader) Option { return func(a *App) { a.loader = l } }

// WithSynthesizer replaces the reference image synthesizer.
func WithSynthesizer(s engine.Synthesizer) Option { return func(a *App) { a.synth = s } }

// NewApp is the constructor for the main application. Results are written to
// outW and logs to logW. The function catalog is loaded here, so a bad
// manifest fails construction.
func NewApp(outW, logW io.Writer, cfg *Config, opts ...Option) (*App, error) {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, logW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	cat, err := catalog.Load(ctx, cfg.CatalogDirs...)
	if err != nil {
		return nil, fmt.Errorf("failed to load function catalog: %w", err)
	}

	var validateWith *catalog.Catalog
	if cfg.Validate || len(cfg.CatalogDirs) > 0 {
		validateWith = cat
	}

	a := &App{
		outW:    outW,
		logger:  logger,
		config:  cfg,
		catalog: cat,
		loader:  config.NewDefaultLoader(validateWith),
		synth:   engine.NewReference(),
	}
	for _, opt := range opts {
		opt(a)
	}
	logger.Debug("App initialized.", "types", len(cat.Types()), "validate", validateWith != nil)
	return a, nil
}

// Catalog returns the application's function catalog. This is primarily for testing.
func (a *App) Catalog() *catalog.Catalog {
	return a.catalog
}
