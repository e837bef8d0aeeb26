package config

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/vk/imfitgo/internal/ctxlog"
	"github.com/vk/imfitgo/internal/model"
)

// Loader dispatches to a format-specific model.Loader based on the file
// extension of the path.
type Loader struct {
	loaders  map[string]model.Loader
	fallback model.Loader
}

// NewLoader creates a dispatcher that uses fallback for unregistered
// extensions.
func NewLoader(fallback model.Loader) *Loader {
	return &Loader{
		loaders:  make(map[string]model.Loader),
		fallback: fallback,
	}
}

// Register binds ext (with or without the leading dot, case-insensitive) to
// l, replacing any earlier binding.
func (d *Loader) Register(ext string, l model.Loader) {
	d.loaders[normalizeExt(ext)] = l
}

// Load implements model.Loader.
func (d *Loader) Load(ctx context.Context, path string) (*model.Model, error) {
	l, ext := d.loaderFor(path)
	if l == nil {
		return nil, fmt.Errorf("%w: no loader for extension %q", model.ErrInvalidType, ext)
	}
	ctxlog.FromContext(ctx).Debug("Selected model loader.", "path", path, "extension", ext, "loader", fmt.Sprintf("%T", l))
	return l.Load(ctx, path)
}

func (d *Loader) loaderFor(path string) (model.Loader, string) {
	ext := normalizeExt(filepath.Ext(path))
	if l, ok := d.loaders[ext]; ok {
		return l, ext
	}
	return d.fallback, ext
}

func normalizeExt(ext string) string {
	ext = strings.ToLower(ext)
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}
