// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file defines the Function, a named instance of an image profile type
// owning an ordered list of Parameters.
package model

import (
	"fmt"
	"strings"
)

// Function is a typed, named group of Parameters. FuncType identifies the
// mathematical profile (e.g. "Gaussian"); Name is the lookup label within a
// FunctionSet.
type Function struct {
	funcType   string
	name       string
	parameters []*Parameter
}

// NewFunction creates a Function. An empty name defaults to funcType. A
// type that is not a single word, or a name with surrounding whitespace,
// fails with ErrValidation.
func NewFunction(funcType, name string, params ...*Parameter) (*Function, error) {
	if err := validateFunctionType(funcType); err != nil {
		return nil, err
	}
	if name == "" {
		name = funcType
	}
	if err := validateLabel("function", name); err != nil {
		return nil, err
	}
	f := &Function{
		funcType:   funcType,
		name:       name,
		parameters: make([]*Parameter, 0, len(params)),
	}
	for _, p := range params {
		if err := f.AddParameter(p); err != nil {
			return nil, err
		}
	}
	return f, nil
}

// Type returns the profile type.
func (f *Function) Type() string { return f.funcType }

// Name returns the lookup label.
func (f *Function) Name() string { return f.name }

// AddParameter appends p. It fails with ErrInvalidType for a nil parameter,
// with ErrValidation for an empty or reserved name (X0, Y0, FUNCTION) and
// with ErrDuplicateName if the function already has a parameter of that
// name.
func (f *Function) AddParameter(p *Parameter) error {
	if p == nil {
		return fmt.Errorf("%w: function %q: parameter is nil", ErrInvalidType, f.name)
	}
	if err := validateLineKey(p.name); err != nil {
		return fmt.Errorf("function %q: parameter: %w", f.name, err)
	}
	if f.indexOf(p.name) >= 0 {
		return fmt.Errorf("%w: function %q already has a parameter named %q", ErrDuplicateName, f.name, p.name)
	}
	f.parameters = append(f.parameters, p)
	return nil
}

func (f *Function) indexOf(name string) int {
	for i, p := range f.parameters {
		if p.name == name {
			return i
		}
	}
	return -1
}

// Parameters returns the parameters in insertion order. The slice is a fresh
// copy; its elements are the function's live parameters.
func (f *Function) Parameters() []*Parameter {
	out := make([]*Parameter, len(f.parameters))
	copy(out, f.parameters)
	return out
}

// Lookup returns the parameter with the given name.
func (f *Function) Lookup(name string) (*Parameter, error) {
	if i := f.indexOf(name); i >= 0 {
		return f.parameters[i], nil
	}
	return nil, fmt.Errorf("%w: parameter %q in function %q", ErrNotFound, name, f.name)
}

// Copy returns a deep copy: same type and name, independent parameters.
func (f *Function) Copy() *Function {
	c := &Function{
		funcType:   f.funcType,
		name:       f.name,
		parameters: make([]*Parameter, len(f.parameters)),
	}
	for i, p := range f.parameters {
		c.parameters[i] = p.Copy()
	}
	return c
}

// String renders the function header followed by one line per parameter.
func (f *Function) String() string {
	lines := make([]string, 0, len(f.parameters)+1)
	lines = append(lines, fmt.Sprintf("%s %s # %s", FunctionKeyword, f.funcType, f.name))
	for _, p := range f.parameters {
		lines = append(lines, p.String())
	}
	return strings.Join(lines, "\n")
}
