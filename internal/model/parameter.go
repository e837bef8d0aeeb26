// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file defines the Parameter, the leaf of the model tree.
//
// Value policy: whenever a Parameter carries limits, its value is clamped
// into [Lower, Upper]. This holds on construction, on every value change, and
// when new limits are applied to an existing value. Limits always satisfy
// Lower <= Upper; a degenerate interval pins the value. Values and limits
// are finite.
package model

import (
	"fmt"
	"math"
	"strconv"
)

// Limits is a closed interval [Lower, Upper] bounding a Parameter value.
type Limits struct {
	Lower float64
	Upper float64
}

// Contains reports whether v lies within the interval.
func (l Limits) Contains(v float64) bool {
	return v >= l.Lower && v <= l.Upper
}

func (l Limits) clamp(v float64) float64 {
	return math.Min(math.Max(v, l.Lower), l.Upper)
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func validateValue(v float64) error {
	if !isFinite(v) {
		return fmt.Errorf("%w: value must be a finite number, got %v", ErrValidation, v)
	}
	return nil
}

// validateInterval accepts any finite interval with lower <= upper.
func validateInterval(lower, upper float64) error {
	if !isFinite(lower) || !isFinite(upper) {
		return fmt.Errorf("%w: limits must be finite numbers, got %v,%v", ErrValidation, lower, upper)
	}
	if lower > upper {
		return fmt.Errorf("%w: lower limit %v must not exceed upper limit %v", ErrValidation, lower, upper)
	}
	return nil
}

// validateLimits additionally rejects an empty interval.
func validateLimits(lower, upper float64) error {
	if err := validateInterval(lower, upper); err != nil {
		return err
	}
	if lower == upper {
		return fmt.Errorf("%w: lower limit %v must be smaller than upper limit %v", ErrValidation, lower, upper)
	}
	return nil
}

// Parameter is a named scalar fit variable with optional limits and a
// fixed/free flag. Its name never changes after construction.
type Parameter struct {
	name   string
	value  float64
	limits *Limits
	fixed  bool
}

// ParameterOption configures a Parameter in NewParameter.
type ParameterOption func(*parameterSettings)

type parameterSettings struct {
	limits *Limits
	fixed  bool
}

// WithLimits bounds the new Parameter to [lower, upper].
func WithLimits(lower, upper float64) ParameterOption {
	return func(s *parameterSettings) {
		s.limits = &Limits{Lower: lower, Upper: upper}
	}
}

// WithFixed marks the new Parameter as fixed.
func WithFixed() ParameterOption {
	return func(s *parameterSettings) {
		s.fixed = true
	}
}

// NewParameter creates a Parameter. A non-finite value or malformed limits
// return ErrValidation. Lower == Upper is accepted and pins the value.
func NewParameter(name string, value float64, opts ...ParameterOption) (*Parameter, error) {
	var s parameterSettings
	for _, opt := range opts {
		opt(&s)
	}

	p := &Parameter{name: name}
	if err := p.Set(value, s.limits, s.fixed); err != nil {
		return nil, fmt.Errorf("parameter %q: %w", name, err)
	}
	return p, nil
}

// Name returns the parameter label, e.g. "X0" or "I_e".
func (p *Parameter) Name() string { return p.name }

// Value returns the current value.
func (p *Parameter) Value() float64 { return p.value }

// Fixed reports whether the parameter is held at its value during a fit.
func (p *Parameter) Fixed() bool { return p.fixed }

// Limits returns a copy of the limits and whether any are set.
func (p *Parameter) Limits() (Limits, bool) {
	if p.limits == nil {
		return Limits{}, false
	}
	return *p.limits, true
}

// Set replaces value, limits and fixed flag in one step. A nil limits
// removes any existing bounds. Nothing changes if the value is not finite or
// the limits are malformed; Lower == Upper is allowed here so that pinned
// intervals load back from a rendered config.
func (p *Parameter) Set(value float64, limits *Limits, fixed bool) error {
	if err := validateValue(value); err != nil {
		return err
	}
	var l *Limits
	if limits != nil {
		if err := validateInterval(limits.Lower, limits.Upper); err != nil {
			return err
		}
		copied := *limits
		l = &copied
		value = l.clamp(value)
	}
	p.value = value
	p.limits = l
	p.fixed = fixed
	return nil
}

// SetValue changes the value, clamping it into the current limits.
// Non-finite values are ignored.
func (p *Parameter) SetValue(value float64) {
	if !isFinite(value) {
		return
	}
	if p.limits != nil {
		value = p.limits.clamp(value)
	}
	p.value = value
}

// SetFixed changes the fixed flag.
func (p *Parameter) SetFixed(fixed bool) {
	p.fixed = fixed
}

// ClearLimits removes the bounds.
func (p *Parameter) ClearLimits() {
	p.limits = nil
}

// SetLimits bounds the parameter to [lower, upper]. The current value is
// clamped into the new interval. The interval must not be empty.
func (p *Parameter) SetLimits(lower, upper float64) error {
	if err := validateLimits(lower, upper); err != nil {
		return fmt.Errorf("parameter %q: %w", p.name, err)
	}
	p.limits = &Limits{Lower: lower, Upper: upper}
	p.value = p.limits.clamp(p.value)
	return nil
}

// SetLimitsRelative sets the limits to [value-deltaLow, value+deltaHigh].
func (p *Parameter) SetLimitsRelative(deltaLow, deltaHigh float64) error {
	if deltaLow < 0 || deltaHigh < 0 {
		return fmt.Errorf("%w: parameter %q: limit intervals must be positive, got %v,%v", ErrValidation, p.name, deltaLow, deltaHigh)
	}
	return p.SetLimits(p.value-deltaLow, p.value+deltaHigh)
}

// SetToleranceFraction sets symmetric limits [value*(1-tol), value*(1+tol)].
// For example, a tolerance of 0.2 on a value of 1.0 gives [0.8, 1.2]. The
// bounds are ordered, so a negative value still yields Lower <= Upper, and a
// zero tolerance pins the parameter to its value.
func (p *Parameter) SetToleranceFraction(tol float64) error {
	if !(tol >= 0 && tol <= 1) {
		return fmt.Errorf("%w: parameter %q: tolerance must be between 0.0 and 1.0, got %v", ErrValidation, p.name, tol)
	}
	a, b := p.value*(1-tol), p.value*(1+tol)
	p.limits = &Limits{Lower: math.Min(a, b), Upper: math.Max(a, b)}
	return nil
}

// Copy returns an independent copy of the parameter.
func (p *Parameter) Copy() *Parameter {
	c := *p
	if p.limits != nil {
		l := *p.limits
		c.limits = &l
	}
	return &c
}

// String renders the parameter as a config line.
func (p *Parameter) String() string {
	switch {
	case p.fixed:
		return fmt.Sprintf("%s    %s     fixed", p.name, FormatValue(p.value))
	case p.limits != nil:
		return fmt.Sprintf("%s    %s     %s,%s", p.name, FormatValue(p.value), FormatValue(p.limits.Lower), FormatValue(p.limits.Upper))
	default:
		return fmt.Sprintf("%s    %s", p.name, FormatValue(p.value))
	}
}

// FormatValue formats v with the fewest digits that parse back to v.
func FormatValue(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
