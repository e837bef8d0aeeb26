// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// Package model provides the in-memory description of a parametric 2-D image
// model, as consumed by an image-fitting engine.
//
// # Core Concepts
//
// The description is a strict ownership tree, built bottom-up:
//
//   - Parameter: a named scalar with optional limits and a fixed/free flag.
//
//   - Function: a named instance of a profile type (e.g. "Gaussian") holding
//     an ordered list of Parameters.
//
//   - FunctionSet: a group of Functions sharing a spatial centre. It always
//     owns the two centre Parameters X0 and Y0.
//
//   - Model: the root. Global scalar options plus an ordered list of
//     FunctionSets.
//
//   - SimpleModel: a Model holding exactly one FunctionSet, with that set's
//     functions addressable directly.
//
// # Flattened parameters
//
// Model.Parameters returns every Parameter in a fixed order:
//
//	set1.X0, set1.Y0, set1.func1 params..., set1.func2 params..., set2.X0, ...
//
// The fitting engine maps its flat optimizer vector onto this order. The
// returned slices are fresh, but their elements are the live Parameters of
// the model, so writing through them mutates the model in place.
//
// # Text form
//
// Every level implements fmt.Stringer, producing the imfit config text
// format. The textconf package parses it back.
package model
