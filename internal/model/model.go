// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file defines the Model, the root of the description tree, and the
// flattened parameter vector the fitting engine works on.
package model

import (
	"fmt"
	"maps"
	"slices"
	"strings"
)

// FunctionSetHeader prefixes the comment line that precedes each set block
// in a rendered Model. Imfit ignores it; the text parser reads the set name
// back from it.
const FunctionSetHeader = "# FUNCTION_SET"

// Model holds global scalar options (solver tolerances, detector gain and
// the like) plus an ordered list of uniquely named FunctionSets.
type Model struct {
	options      map[string]float64
	functionSets []*FunctionSet
}

// NewModel creates a Model. The options map is copied, so later changes to
// the caller's map do not reach the model. Every option must pass the
// checks of SetOption.
func NewModel(options map[string]float64, sets ...*FunctionSet) (*Model, error) {
	m := &Model{
		options:      make(map[string]float64, len(options)),
		functionSets: make([]*FunctionSet, 0, len(sets)),
	}
	for _, k := range slices.Sorted(maps.Keys(options)) {
		if err := m.SetOption(k, options[k]); err != nil {
			return nil, err
		}
	}
	for _, fs := range sets {
		if err := m.AddFunctionSet(fs); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// AddFunctionSet appends fs. It fails with ErrInvalidType for a nil set and
// ErrDuplicateName on a name collision.
func (m *Model) AddFunctionSet(fs *FunctionSet) error {
	if fs == nil {
		return fmt.Errorf("%w: function set is nil", ErrInvalidType)
	}
	if m.indexOf(fs.name) >= 0 {
		return fmt.Errorf("%w: function set named %q already exists", ErrDuplicateName, fs.name)
	}
	m.functionSets = append(m.functionSets, fs)
	return nil
}

func (m *Model) indexOf(name string) int {
	for i, fs := range m.functionSets {
		if fs.name == name {
			return i
		}
	}
	return -1
}

// Option returns the value of a global option.
func (m *Model) Option(key string) (float64, bool) {
	v, ok := m.options[key]
	return v, ok
}

// SetOption sets a global option. The key must be a single word that
// cannot be mistaken for a centre or function line, and the value must be
// finite; otherwise it fails with ErrValidation.
func (m *Model) SetOption(key string, value float64) error {
	if err := validateLineKey(key); err != nil {
		return fmt.Errorf("option: %w", err)
	}
	if err := validateValue(value); err != nil {
		return fmt.Errorf("option %q: %w", key, err)
	}
	m.options[key] = value
	return nil
}

// Options returns a copy of the global options.
func (m *Model) Options() map[string]float64 {
	return maps.Clone(m.options)
}

// FunctionSets returns the sets in add order as a fresh slice of live
// elements.
func (m *Model) FunctionSets() []*FunctionSet {
	out := make([]*FunctionSet, len(m.functionSets))
	copy(out, m.functionSets)
	return out
}

// Lookup returns the function set with the given name.
func (m *Model) Lookup(name string) (*FunctionSet, error) {
	if i := m.indexOf(name); i >= 0 {
		return m.functionSets[i], nil
	}
	return nil, fmt.Errorf("%w: function set %q", ErrNotFound, name)
}

// FunctionTypes concatenates each set's FunctionTypes in set order.
func (m *Model) FunctionTypes() []string {
	var types []string
	for _, fs := range m.functionSets {
		types = append(types, fs.FunctionTypes()...)
	}
	return types
}

// Parameters concatenates each set's Parameters in set order. The fitting
// engine maps its flat vector onto exactly this order.
func (m *Model) Parameters() []*Parameter {
	var params []*Parameter
	for _, fs := range m.functionSets {
		params = append(params, fs.Parameters()...)
	}
	return params
}

// FunctionSetSplitIndices returns 0 followed by the parameter count of each
// set except the last. The entries are counts, not cumulative offsets; use
// ParameterOffsets to slice the flat vector.
func (m *Model) FunctionSetSplitIndices() []int {
	indices := []int{0}
	for i := 0; i < len(m.functionSets)-1; i++ {
		indices = append(indices, m.functionSets[i].ParameterCount())
	}
	return indices
}

// ParameterOffsets returns the start offset of each set within Parameters.
func (m *Model) ParameterOffsets() []int {
	offsets := make([]int, len(m.functionSets))
	n := 0
	for i, fs := range m.functionSets {
		offsets[i] = n
		n += fs.ParameterCount()
	}
	return offsets
}

// Values returns the current value of every parameter in Parameters order.
func (m *Model) Values() []float64 {
	params := m.Parameters()
	values := make([]float64, len(params))
	for i, p := range params {
		values[i] = p.value
	}
	return values
}

// SetValues writes a flat vector back onto the parameters, clamping each
// value into its limits. The length must match Parameters and every value
// must be finite; nothing changes otherwise.
func (m *Model) SetValues(values []float64) error {
	params := m.Parameters()
	if len(values) != len(params) {
		return fmt.Errorf("%w: model has %d parameters, got %d values", ErrValidation, len(params), len(values))
	}
	for i, v := range values {
		if err := validateValue(v); err != nil {
			return fmt.Errorf("parameter %d (%s): %w", i, params[i].name, err)
		}
	}
	for i, p := range params {
		p.SetValue(values[i])
	}
	return nil
}

// Copy returns a deep copy of the model, options included.
func (m *Model) Copy() *Model {
	c := &Model{
		options:      maps.Clone(m.options),
		functionSets: make([]*FunctionSet, len(m.functionSets)),
	}
	for i, fs := range m.functionSets {
		c.functionSets[i] = fs.Copy()
	}
	return c
}

// String renders the options, sorted by key, and then each set block
// preceded by its FunctionSetHeader comment.
func (m *Model) String() string {
	var lines []string
	for _, k := range slices.Sorted(maps.Keys(m.options)) {
		lines = append(lines, fmt.Sprintf("%s    %s", k, FormatValue(m.options[k])))
	}
	for _, fs := range m.functionSets {
		lines = append(lines, fmt.Sprintf("%s %s", FunctionSetHeader, fs.name), fs.String())
	}
	return strings.Join(lines, "\n")
}
