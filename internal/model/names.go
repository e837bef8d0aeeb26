// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file holds the naming rules that keep a rendered Model parseable:
// every name must survive the trip through the config text format.
package model

import (
	"fmt"
	"strings"
)

// FunctionKeyword starts a function header line in the config text format.
const FunctionKeyword = "FUNCTION"

// validateLineKey checks a word that starts a config line, i.e. an option
// key or a function parameter name.
func validateLineKey(key string) error {
	switch {
	case key == "":
		return fmt.Errorf("%w: name must not be empty", ErrValidation)
	case strings.ContainsAny(key, " \t\r\n#"):
		return fmt.Errorf("%w: name %q must not contain whitespace or '#'", ErrValidation, key)
	case key == X0Name || key == Y0Name || key == FunctionKeyword:
		return fmt.Errorf("%w: name %q is reserved", ErrValidation, key)
	}
	return nil
}

// validateLabel checks a name written after a '#' comment marker, i.e. a
// function or function set name.
func validateLabel(kind, name string) error {
	switch {
	case name == "":
		return fmt.Errorf("%w: %s name must not be empty", ErrValidation, kind)
	case strings.TrimSpace(name) != name:
		return fmt.Errorf("%w: %s name %q must not start or end with whitespace", ErrValidation, kind, name)
	case strings.ContainsAny(name, "\r\n"):
		return fmt.Errorf("%w: %s name %q must be a single line", ErrValidation, kind, name)
	}
	return nil
}

// validateFunctionType checks the word following FUNCTION on a header line.
func validateFunctionType(funcType string) error {
	if funcType == "" || strings.ContainsAny(funcType, " \t\r\n#") {
		return fmt.Errorf("%w: function type %q must be a single word", ErrValidation, funcType)
	}
	return nil
}
