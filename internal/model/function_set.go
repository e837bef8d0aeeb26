// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file defines the FunctionSet, a group of Functions sharing one
// spatial centre.
package model

import (
	"fmt"
	"strings"
)

// Names of the two centre parameters every FunctionSet owns.
const (
	X0Name = "X0"
	Y0Name = "Y0"
)

// FunctionSet owns the centre parameters X0 and Y0 and an ordered list of
// Functions with unique names.
type FunctionSet struct {
	name      string
	x0        *Parameter
	y0        *Parameter
	functions []*Function
}

// NewFunctionSet creates a set centred at (0, 0), free and unbounded, and
// adds funcs in order.
func NewFunctionSet(name string, funcs ...*Function) (*FunctionSet, error) {
	if err := validateLabel("function set", name); err != nil {
		return nil, err
	}
	fs := &FunctionSet{
		name:      name,
		x0:        &Parameter{name: X0Name},
		y0:        &Parameter{name: Y0Name},
		functions: make([]*Function, 0, len(funcs)),
	}
	for _, f := range funcs {
		if err := fs.AddFunction(f); err != nil {
			return nil, err
		}
	}
	return fs, nil
}

// Name returns the set's lookup label.
func (fs *FunctionSet) Name() string { return fs.name }

// X0 returns the live X centre parameter.
func (fs *FunctionSet) X0() *Parameter { return fs.x0 }

// Y0 returns the live Y centre parameter.
func (fs *FunctionSet) Y0() *Parameter { return fs.y0 }

// AddFunction appends f. It fails with ErrInvalidType for a nil function and
// ErrDuplicateName if a function with that name already exists.
func (fs *FunctionSet) AddFunction(f *Function) error {
	if f == nil {
		return fmt.Errorf("%w: function set %q: function is nil", ErrInvalidType, fs.name)
	}
	if fs.indexOf(f.name) >= 0 {
		return fmt.Errorf("%w: function named %q already exists in function set %q", ErrDuplicateName, f.name, fs.name)
	}
	fs.functions = append(fs.functions, f)
	return nil
}

func (fs *FunctionSet) indexOf(name string) int {
	for i, f := range fs.functions {
		if f.name == name {
			return i
		}
	}
	return -1
}

// Functions returns the functions in insertion order as a fresh slice of
// live elements.
func (fs *FunctionSet) Functions() []*Function {
	out := make([]*Function, len(fs.functions))
	copy(out, fs.functions)
	return out
}

// FunctionTypes returns the profile type of each function, in order.
func (fs *FunctionSet) FunctionTypes() []string {
	types := make([]string, len(fs.functions))
	for i, f := range fs.functions {
		types[i] = f.funcType
	}
	return types
}

// Parameters returns X0, Y0, then every function's parameters in add order.
func (fs *FunctionSet) Parameters() []*Parameter {
	params := []*Parameter{fs.x0, fs.y0}
	for _, f := range fs.functions {
		params = append(params, f.parameters...)
	}
	return params
}

// ParameterCount returns len(fs.Parameters()) without building the slice.
func (fs *FunctionSet) ParameterCount() int {
	n := 2
	for _, f := range fs.functions {
		n += len(f.parameters)
	}
	return n
}

// Lookup returns the function with the given name.
func (fs *FunctionSet) Lookup(name string) (*Function, error) {
	if i := fs.indexOf(name); i >= 0 {
		return fs.functions[i], nil
	}
	return nil, fmt.Errorf("%w: function %q in function set %q", ErrNotFound, name, fs.name)
}

// Copy returns a deep copy with independent centre and function parameters.
func (fs *FunctionSet) Copy() *FunctionSet {
	c := &FunctionSet{
		name:      fs.name,
		x0:        fs.x0.Copy(),
		y0:        fs.y0.Copy(),
		functions: make([]*Function, len(fs.functions)),
	}
	for i, f := range fs.functions {
		c.functions[i] = f.Copy()
	}
	return c
}

// String renders the X0 and Y0 lines followed by each function block.
func (fs *FunctionSet) String() string {
	lines := make([]string, 0, len(fs.functions)+2)
	lines = append(lines, fs.x0.String(), fs.y0.String())
	for _, f := range fs.functions {
		lines = append(lines, f.String())
	}
	return strings.Join(lines, "\n")
}
