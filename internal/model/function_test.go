package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mustParam builds a parameter or fails the test.
func mustParam(t *testing.T, name string, value float64, opts ...ParameterOption) *Parameter {
	t.Helper()
	p, err := NewParameter(name, value, opts...)
	require.NoError(t, err)
	return p
}

// gaussian builds a Gaussian function description with the given label.
func gaussian(t *testing.T, name string) *Function {
	t.Helper()
	f, err := NewFunction("Gaussian", name,
		mustParam(t, "PA", 0),
		mustParam(t, "ell", 0.1, WithLimits(0, 1)),
		mustParam(t, "I_0", 1),
		mustParam(t, "sigma", 2.5, WithFixed()),
	)
	require.NoError(t, err)
	return f
}

func TestNewFunction(t *testing.T) {
	t.Run("name defaults to type", func(t *testing.T) {
		f, err := NewFunction("Sersic", "")
		require.NoError(t, err)
		assert.Equal(t, "Sersic", f.Type())
		assert.Equal(t, "Sersic", f.Name())
		assert.Empty(t, f.Parameters())
	})

	t.Run("explicit name", func(t *testing.T) {
		f := gaussian(t, "core")
		assert.Equal(t, "Gaussian", f.Type())
		assert.Equal(t, "core", f.Name())
		assert.Len(t, f.Parameters(), 4)
	})

	t.Run("error - duplicate parameter", func(t *testing.T) {
		_, err := NewFunction("Gaussian", "", mustParam(t, "PA", 0), mustParam(t, "PA", 1))
		require.ErrorIs(t, err, ErrDuplicateName)
	})

	t.Run("error - malformed type or name", func(t *testing.T) {
		for _, tc := range []struct{ funcType, name string }{
			{"", "core"},
			{"Flat Sky", ""},
			{"Gaussian#2", ""},
			{"Gaussian", " core"},
			{"Gaussian", "core\nX0 1"},
		} {
			_, err := NewFunction(tc.funcType, tc.name)
			assert.ErrorIs(t, err, ErrValidation, "type %q name %q", tc.funcType, tc.name)
		}
	})
}

func TestFunction_AddParameter(t *testing.T) {
	f := gaussian(t, "")

	require.ErrorIs(t, f.AddParameter(nil), ErrInvalidType)
	require.ErrorIs(t, f.AddParameter(mustParam(t, "I_0", 9)), ErrDuplicateName)
	for _, name := range []string{X0Name, Y0Name, FunctionKeyword, "", "I 0", "I_0#"} {
		assert.ErrorIs(t, f.AddParameter(mustParam(t, name, 1)), ErrValidation, "name %q", name)
	}
	assert.Len(t, f.Parameters(), 4, "failed adds must leave the list unchanged")

	extra := mustParam(t, "extra", 1)
	require.NoError(t, f.AddParameter(extra))
	params := f.Parameters()
	require.Len(t, params, 5)
	assert.Same(t, extra, params[4])
}

func TestFunction_ParametersIsLiveView(t *testing.T) {
	f := gaussian(t, "")

	params := f.Parameters()
	names := make([]string, len(params))
	for i, p := range params {
		names[i] = p.Name()
	}
	assert.Equal(t, []string{"PA", "ell", "I_0", "sigma"}, names)

	// Mutating the slice does not touch the function.
	params[0] = nil
	got := f.Parameters()
	require.Len(t, got, 4)
	assert.NotNil(t, got[0])

	// Mutating an element does.
	got[2].SetValue(42)
	p, err := f.Lookup("I_0")
	require.NoError(t, err)
	assert.Equal(t, 42.0, p.Value())
}

func TestFunction_Lookup(t *testing.T) {
	f := gaussian(t, "")

	p, err := f.Lookup("sigma")
	require.NoError(t, err)
	assert.Equal(t, 2.5, p.Value())

	_, err = f.Lookup("beta")
	require.ErrorIs(t, err, ErrNotFound)
	assert.Contains(t, err.Error(), `"beta"`)
}

func TestFunction_String(t *testing.T) {
	f := gaussian(t, "psf")
	expected := "FUNCTION Gaussian # psf\n" +
		"PA    0\n" +
		"ell    0.1     0,1\n" +
		"I_0    1\n" +
		"sigma    2.5     fixed"
	assert.Equal(t, expected, f.String())
}

func TestFunction_Copy(t *testing.T) {
	orig := gaussian(t, "core")
	c := orig.Copy()

	assert.Equal(t, orig.String(), c.String())

	cp, err := c.Lookup("I_0")
	require.NoError(t, err)
	cp.SetValue(99)
	require.NoError(t, c.AddParameter(mustParam(t, "extra", 1)))

	op, err := orig.Lookup("I_0")
	require.NoError(t, err)
	assert.Equal(t, 1.0, op.Value())
	assert.Len(t, orig.Parameters(), 4)

	// And the other way around.
	op.SetValue(7)
	assert.Equal(t, 99.0, cp.Value())
}
