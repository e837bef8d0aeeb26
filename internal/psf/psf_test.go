package psf

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/imfitgo/internal/catalog"
	"github.com/vk/imfitgo/internal/engine"
	"github.com/vk/imfitgo/internal/model"
	"gonum.org/v1/gonum/mat"
)

type stubSynth struct {
	model      *model.Model
	rows, cols int
}

func (s *stubSynth) SynthesizeImage(_ context.Context, m *model.Model, rows, cols int) (*mat.Dense, error) {
	s.model, s.rows, s.cols = m, rows, cols
	return mat.NewDense(rows, cols, nil), nil
}

func TestGaussian_Size(t *testing.T) {
	ctx := context.Background()
	ref := engine.NewReference()

	_, err := Gaussian(ctx, ref, 5, WithSize(32))
	require.ErrorIs(t, err, model.ErrValidation)

	img, err := Gaussian(ctx, ref, 5, WithSize(31))
	require.NoError(t, err)
	rows, cols := img.Dims()
	assert.Equal(t, 31, rows)
	assert.Equal(t, 31, cols)
	assert.InDelta(t, 1.0, img.At(15, 15), 1e-12)
	assert.Equal(t, 1.0, mat.Max(img))

	img, err = Gaussian(ctx, ref, 5)
	require.NoError(t, err)
	rows, _ = img.Dims()
	assert.Equal(t, DefaultSize, rows)
}

func TestGaussianModel(t *testing.T) {
	testCases := []struct {
		name      string
		opts      []Option
		wantSigma float64
	}{
		{"fwhm by default", nil, 5 / FWHMToSigma},
		{"sigma", []Option{WithWidthType(WidthSigma)}, 5},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			sm, err := GaussianModel(5, append(tc.opts, WithSize(11), WithPA(30), WithEll(0.2))...)
			require.NoError(t, err)
			assert.Equal(t, 6.0, sm.X0().Value())
			assert.Equal(t, 6.0, sm.Y0().Value())

			f, err := sm.Lookup("Gaussian")
			require.NoError(t, err)
			require.NoError(t, catalog.Default().Validate(f))
			want := map[string]float64{"PA": 30, "ell": 0.2, "I_0": 1, "sigma": tc.wantSigma}
			for name, v := range want {
				p, err := f.Lookup(name)
				require.NoError(t, err)
				assert.InDelta(t, v, p.Value(), 1e-12, name)
			}
		})
	}

	assert.InDelta(t, 2.3548, FWHMToSigma, 1e-4)

	_, err := GaussianModel(5, WithWidthType("hwhm"))
	require.ErrorIs(t, err, model.ErrValidation)

	_, err = GaussianModel(5, WithCatalog(catalog.New()))
	require.ErrorIs(t, err, model.ErrNotFound)
}

func TestGaussian_Width(t *testing.T) {
	img, err := Gaussian(context.Background(), engine.NewReference(), 2, WithWidthType(WidthSigma), WithSize(9))
	require.NoError(t, err)
	assert.InDelta(t, math.Exp(-0.5), img.At(4, 6), 1e-12)
	assert.InDelta(t, img.At(4, 6), img.At(6, 4), 1e-12)
}

func TestMoffat(t *testing.T) {
	ctx := context.Background()

	img, err := Moffat(ctx, engine.NewReference(), 4, WithSize(15))
	require.NoError(t, err)
	assert.InDelta(t, 1.0, img.At(7, 7), 1e-12)
	assert.InDelta(t, 0.5, img.At(7, 9), 1e-12, "half maximum at fwhm/2")

	sm, err := MoffatModel(4, WithBeta(2.5))
	require.NoError(t, err)
	f, err := sm.Lookup("Moffat")
	require.NoError(t, err)
	beta, err := f.Lookup("beta")
	require.NoError(t, err)
	assert.Equal(t, 2.5, beta.Value())

	sm, err = MoffatModel(4)
	require.NoError(t, err)
	f, err = sm.Lookup("Moffat")
	require.NoError(t, err)
	beta, err = f.Lookup("beta")
	require.NoError(t, err)
	assert.Equal(t, DefaultBeta, beta.Value())

	_, err = Moffat(ctx, engine.NewReference(), 4, WithSize(-3))
	require.ErrorIs(t, err, model.ErrValidation)
}

func TestInvalidShape(t *testing.T) {
	ctx := context.Background()
	ref := engine.NewReference()

	for _, width := range []float64{0, -2, math.NaN(), math.Inf(1)} {
		_, err := Gaussian(ctx, ref, width)
		require.ErrorIs(t, err, model.ErrValidation, "width %v", width)
		_, err = Moffat(ctx, ref, width)
		require.ErrorIs(t, err, model.ErrValidation, "width %v", width)
	}

	for _, ell := range []float64{1, -0.5, math.NaN()} {
		_, err := GaussianModel(3, WithEll(ell))
		require.ErrorIs(t, err, model.ErrValidation, "ell %v", ell)
		_, err = MoffatModel(3, WithEll(ell))
		require.ErrorIs(t, err, model.ErrValidation, "ell %v", ell)
	}

	sm, err := GaussianModel(3, WithEll(0.99))
	require.NoError(t, err)
	img, err := ref.SynthesizeImage(ctx, sm.Model(), 5, 5)
	require.NoError(t, err)
	for _, v := range img.RawMatrix().Data {
		assert.False(t, math.IsNaN(v) || math.IsInf(v, 0))
	}
}

func TestGaussian_UsesSynthesizer(t *testing.T) {
	synth := &stubSynth{}
	_, err := Gaussian(context.Background(), synth, 3, WithSize(21))
	require.NoError(t, err)
	assert.Equal(t, 21, synth.rows)
	assert.Equal(t, 21, synth.cols)
	require.NotNil(t, synth.model)
	assert.Equal(t, []string{"Gaussian"}, synth.model.FunctionTypes())
	assert.Len(t, synth.model.FunctionSets(), 1)
}
