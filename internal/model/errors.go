// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file defines the error kinds returned by the model hierarchy. Each
// operation wraps one of these sentinels with the offending names, so callers
// match on the kind with errors.Is.
package model

import "errors"

var (
	// ErrInvalidType is returned when an add operation receives no object
	// of the expected kind.
	ErrInvalidType = errors.New("invalid type")

	// ErrDuplicateName is returned when a child with the same name already
	// exists at that level.
	ErrDuplicateName = errors.New("duplicate name")

	// ErrNotFound is returned by lookups for a name that does not exist.
	ErrNotFound = errors.New("not found")

	// ErrValidation is returned for malformed constraint input.
	ErrValidation = errors.New("validation failed")
)
