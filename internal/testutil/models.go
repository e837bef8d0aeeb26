package testutil

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vk/imfitgo/internal/model"
)

// Param builds a parameter or fails the test.
func Param(t *testing.T, name string, value float64, opts ...model.ParameterOption) *model.Parameter {
	t.Helper()
	p, err := model.NewParameter(name, value, opts...)
	require.NoError(t, err)
	return p
}

// Func builds a function or fails the test.
func Func(t *testing.T, funcType, name string, params ...*model.Parameter) *model.Function {
	t.Helper()
	f, err := model.NewFunction(funcType, name, params...)
	require.NoError(t, err)
	return f
}

// GalaxyModel builds a two-set model: a bounded Sersic bulge plus a
// Gaussian nucleus around one centre, and an exponential disk around a
// second centre. It uses options, limits and fixed flags, but never limits
// together with fixed, so it survives the text format unchanged.
func GalaxyModel(t *testing.T) *model.Model {
	t.Helper()

	bulge := Func(t, "Sersic", "bulge",
		Param(t, "PA", 18, model.WithFixed()),
		Param(t, "ell", 0.2, model.WithLimits(0, 0.8)),
		Param(t, "n", 4, model.WithLimits(1, 6)),
		Param(t, "I_e", 15, model.WithLimits(0.1, 1000)),
		Param(t, "r_e", 25.5),
	)
	nucleus := Func(t, "Gaussian", "nucleus",
		Param(t, "PA", 0),
		Param(t, "ell", 0),
		Param(t, "I_0", 250, model.WithLimits(0, 1e4)),
		Param(t, "sigma", 1.5),
	)
	core, err := model.NewFunctionSet("core", bulge, nucleus)
	require.NoError(t, err)
	require.NoError(t, core.X0().SetLimits(125, 135))
	core.X0().SetValue(129)
	require.NoError(t, core.Y0().SetLimits(125, 135))
	core.Y0().SetValue(129.5)

	disk := Func(t, "Exponential", "",
		Param(t, "PA", 20.25),
		Param(t, "ell", 0.35, model.WithLimits(0, 1)),
		Param(t, "I_0", 3.5),
		Param(t, "h", 60, model.WithLimits(10, 200)),
	)
	outer, err := model.NewFunctionSet("outer", disk)
	require.NoError(t, err)
	outer.X0().SetValue(131)
	outer.Y0().SetValue(128)
	outer.Y0().SetFixed(true)

	m, err := model.NewModel(map[string]float64{"GAIN": 4.5, "READNOISE": 0.7, "ORIGINAL_SKY": 130.14}, core, outer)
	require.NoError(t, err)
	return m
}
