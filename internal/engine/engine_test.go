package engine

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/imfitgo/internal/model"
	"github.com/vk/imfitgo/internal/testutil"
)

func centred(t *testing.T, x0, y0 float64, funcs ...*model.Function) *model.Model {
	t.Helper()
	fs, err := model.NewFunctionSet(model.DefaultFunctionSetName, funcs...)
	require.NoError(t, err)
	fs.X0().SetValue(x0)
	fs.Y0().SetValue(y0)
	m, err := model.NewModel(nil, fs)
	require.NoError(t, err)
	return m
}

func TestReference_Gaussian(t *testing.T) {
	g := testutil.Func(t, "Gaussian", "",
		testutil.Param(t, "PA", 0),
		testutil.Param(t, "ell", 0),
		testutil.Param(t, "I_0", 7),
		testutil.Param(t, "sigma", 2),
	)
	m := centred(t, 6, 6, g)

	img, err := NewReference().SynthesizeImage(context.Background(), m, 11, 11)
	require.NoError(t, err)
	rows, cols := img.Dims()
	require.Equal(t, 11, rows)
	require.Equal(t, 11, cols)

	// Pixel (5, 5) sits at x = y = 6.
	assert.InDelta(t, 7.0, img.At(5, 5), 1e-12)
	for r := range rows {
		for c := range cols {
			assert.LessOrEqual(t, img.At(r, c), img.At(5, 5))
			assert.InDelta(t, img.At(r, c), img.At(10-r, 10-c), 1e-12)
			assert.InDelta(t, img.At(r, c), img.At(c, r), 1e-12)
		}
	}
	assert.InDelta(t, 7*math.Exp(-0.5), img.At(5, 7), 1e-12)
}

func TestReference_Orientation(t *testing.T) {
	g := testutil.Func(t, "Exponential", "",
		testutil.Param(t, "PA", 0),
		testutil.Param(t, "ell", 0.5),
		testutil.Param(t, "I_0", 1),
		testutil.Param(t, "h", 3),
	)
	m := centred(t, 11, 11, g)
	img, err := NewReference().SynthesizeImage(context.Background(), m, 21, 21)
	require.NoError(t, err)

	// With PA = 0 the major axis runs along y, so the profile falls off
	// more slowly along the rows than along the columns.
	alongY := img.At(10+4, 10)
	alongX := img.At(10, 10+4)
	assert.InDelta(t, math.Exp(-4.0/3), alongY, 1e-12)
	assert.InDelta(t, math.Exp(-8.0/3), alongX, 1e-12)

	f, err := m.FunctionSets()[0].Lookup("Exponential")
	require.NoError(t, err)
	pa, err := f.Lookup("PA")
	require.NoError(t, err)
	pa.SetValue(90)

	img, err = NewReference().SynthesizeImage(context.Background(), m, 21, 21)
	require.NoError(t, err)
	assert.InDelta(t, math.Exp(-4.0/3), img.At(10, 10+4), 1e-12)
	assert.InDelta(t, math.Exp(-8.0/3), img.At(10+4, 10), 1e-12)
}

func TestProfiles(t *testing.T) {
	testCases := []struct {
		name   string
		eval   func([]float64, float64, float64) float64
		params []float64
		dx, dy float64
		want   float64
	}{
		{"moffat centre", moffat, []float64{0, 0, 3, 4, 2.5}, 0, 0, 3},
		{"moffat half maximum", moffat, []float64{0, 0, 3, 4, 2.5}, 2, 0, 1.5},
		{"sersic at r_e", sersic, []float64{0, 0, 2, 5, 10}, 0, 10, 5},
		{"exponential at h", exponential, []float64{30, 0, 2, 4}, 0, 4, 2 * math.Exp(-1)},
		{"flat sky", flatSky, []float64{12.5}, 100, -3, 12.5},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.InDelta(t, tc.want, tc.eval(tc.params, tc.dx, tc.dy), 1e-9)
		})
	}
}

func TestSersicB(t *testing.T) {
	// b_1 and b_4 to the accuracy of the asymptotic expansion.
	assert.InDelta(t, 1.678, SersicB(1), 1e-3)
	assert.InDelta(t, 7.669, SersicB(4), 1e-3)
	assert.InDelta(t, 0.01945-0.8902*0.3+10.95*0.09-19.67*0.027+13.43*0.0081, SersicB(0.3), 1e-12)
}

func TestReference_SumsFunctionSets(t *testing.T) {
	sky := testutil.Func(t, "FlatSky", "", testutil.Param(t, "I_sky", 2))
	gauss := testutil.Func(t, "Gaussian", "",
		testutil.Param(t, "PA", 0),
		testutil.Param(t, "ell", 0),
		testutil.Param(t, "I_0", 10),
		testutil.Param(t, "sigma", 0.5),
	)
	first, err := model.NewFunctionSet("sky", sky)
	require.NoError(t, err)
	second, err := model.NewFunctionSet("star", gauss)
	require.NoError(t, err)
	second.X0().SetValue(3)
	second.Y0().SetValue(2)
	m, err := model.NewModel(nil, first, second)
	require.NoError(t, err)

	img, err := NewReference(WithWorkers(1)).SynthesizeImage(context.Background(), m, 4, 5)
	require.NoError(t, err)
	assert.InDelta(t, 12.0, img.At(1, 2), 1e-12)
	assert.InDelta(t, 2.0, img.At(3, 4), 1e-5)
}

func TestReference_WithProfile(t *testing.T) {
	ramp := Profile{Params: 1, Eval: func(p []float64, dx, _ float64) float64 { return p[0] * dx }}
	f := testutil.Func(t, "Ramp", "", testutil.Param(t, "slope", 2))
	m := centred(t, 1, 1, f)

	img, err := NewReference(WithProfile("Ramp", ramp)).SynthesizeImage(context.Background(), m, 1, 3)
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 2, 4}, img.RawRowView(0))
}

func TestReference_Errors(t *testing.T) {
	ctx := context.Background()
	sky := func(t *testing.T) *model.Model {
		return centred(t, 1, 1, testutil.Func(t, "FlatSky", "", testutil.Param(t, "I_sky", 1)))
	}

	t.Run("non-positive size", func(t *testing.T) {
		_, err := NewReference().SynthesizeImage(ctx, sky(t), 0, 3)
		require.ErrorIs(t, err, model.ErrValidation)
	})

	t.Run("unknown type", func(t *testing.T) {
		m := centred(t, 1, 1, testutil.Func(t, "Ferrers", ""))
		_, err := NewReference().SynthesizeImage(ctx, m, 2, 2)
		require.ErrorIs(t, err, model.ErrNotFound)
	})

	t.Run("wrong parameter count", func(t *testing.T) {
		m := centred(t, 1, 1, testutil.Func(t, "Gaussian", "", testutil.Param(t, "PA", 0)))
		_, err := NewReference().SynthesizeImage(ctx, m, 2, 2)
		require.ErrorIs(t, err, model.ErrValidation)
	})

	t.Run("ellipticity out of range", func(t *testing.T) {
		for _, ell := range []float64{1, 1.5, -0.1} {
			g := testutil.Func(t, "Gaussian", "",
				testutil.Param(t, "PA", 0),
				testutil.Param(t, "ell", ell),
				testutil.Param(t, "I_0", 1),
				testutil.Param(t, "sigma", 2),
			)
			_, err := NewReference().SynthesizeImage(ctx, centred(t, 1, 1, g), 2, 2)
			require.ErrorIs(t, err, model.ErrValidation, "ell %v", ell)
		}
	})

	t.Run("cancelled", func(t *testing.T) {
		cancelled, cancel := context.WithCancel(ctx)
		cancel()
		_, err := NewReference().SynthesizeImage(cancelled, sky(t), 4, 4)
		require.ErrorIs(t, err, context.Canceled)
	})
}
