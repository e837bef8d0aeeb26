package textconf

import (
	"context"
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2"
	"github.com/vk/imfitgo/internal/ctxlog"
	"github.com/vk/imfitgo/internal/model"
)

// Loader is the text config implementation of model.Loader.
type Loader struct {
	opts []Option
}

// NewLoader creates a loader that parses with opts.
func NewLoader(opts ...Option) *Loader {
	return &Loader{opts: opts}
}

// Load reads and parses the config file at path. Warnings are logged; errors
// are returned as hcl.Diagnostics.
func (l *Loader) Load(ctx context.Context, path string) (*model.Model, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Text config loader started.", "path", path)

	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	m, diags := Parse(path, src, l.opts...)
	for _, d := range diags {
		if d.Severity == hcl.DiagWarning {
			logger.Warn(d.Summary, "detail", d.Detail, "range", d.Subject.String())
		}
	}
	if diags.HasErrors() {
		return nil, diags
	}

	logger.Debug("Text config parsed.", "path", path, "function_sets", len(m.FunctionSets()), "functions", len(m.FunctionTypes()))
	return m, nil
}
