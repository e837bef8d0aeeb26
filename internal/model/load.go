// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file defines the contract between the model and the config parsers
// that build it from files.
package model

import (
	"context"
	"fmt"

	"github.com/vk/imfitgo/internal/ctxlog"
)

// Loader builds a Model from a config file.
type Loader interface {
	Load(ctx context.Context, path string) (*Model, error)
}

// Load reads the model description at path using loader. Loader errors are
// returned wrapped with the path.
func Load(ctx context.Context, loader Loader, path string) (*Model, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Loading model description.", "path", path)

	if loader == nil {
		return nil, fmt.Errorf("%w: no loader for %s", ErrInvalidType, path)
	}

	m, err := loader.Load(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("failed to load model %s: %w", path, err)
	}

	logger.Debug("Model description loaded.", "path", path, "function_sets", len(m.functionSets), "parameters", len(m.Parameters()))
	return m, nil
}
