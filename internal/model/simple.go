// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file defines the SimpleModel, a Model guaranteed by construction to
// hold exactly one FunctionSet.
package model

import "fmt"

// DefaultFunctionSetName names the set NewSimpleModel creates.
const DefaultFunctionSetName = "fs"

// SimpleModel wraps a Model with a single FunctionSet and exposes that set's
// centre and functions directly.
type SimpleModel struct {
	model *Model
}

// NewSimpleModel creates a model with one empty set named "fs".
func NewSimpleModel() *SimpleModel {
	fs, _ := NewFunctionSet(DefaultFunctionSetName)
	return &SimpleModel{
		model: &Model{
			options:      map[string]float64{},
			functionSets: []*FunctionSet{fs},
		},
	}
}

// SimpleModelFrom wraps the sole set of m in a new Model carrying m's
// options. The set itself is shared, not copied. It fails with
// ErrInvalidType for a nil model and ErrValidation unless m has exactly one
// set.
func SimpleModelFrom(m *Model) (*SimpleModel, error) {
	if m == nil {
		return nil, fmt.Errorf("%w: source model is nil", ErrInvalidType)
	}
	if len(m.functionSets) != 1 {
		return nil, fmt.Errorf("%w: source model must have only one function set, has %d", ErrValidation, len(m.functionSets))
	}
	nm, err := NewModel(m.options, m.functionSets[0])
	if err != nil {
		return nil, err
	}
	return &SimpleModel{model: nm}, nil
}

// Model returns the underlying Model.
func (s *SimpleModel) Model() *Model { return s.model }

// FunctionSet returns the sole set.
func (s *SimpleModel) FunctionSet() *FunctionSet { return s.model.functionSets[0] }

// X0 returns the centre X parameter of the sole set.
func (s *SimpleModel) X0() *Parameter { return s.FunctionSet().x0 }

// Y0 returns the centre Y parameter of the sole set.
func (s *SimpleModel) Y0() *Parameter { return s.FunctionSet().y0 }

// AddFunction adds f to the sole set.
func (s *SimpleModel) AddFunction(f *Function) error {
	return s.FunctionSet().AddFunction(f)
}

// Lookup returns a function of the sole set by name.
func (s *SimpleModel) Lookup(name string) (*Function, error) {
	return s.FunctionSet().Lookup(name)
}

// Copy returns a deep copy.
func (s *SimpleModel) Copy() *SimpleModel {
	return &SimpleModel{model: s.model.Copy()}
}

func (s *SimpleModel) String() string {
	return s.model.String()
}
