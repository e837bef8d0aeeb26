package config

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/imfitgo/internal/catalog"
	"github.com/vk/imfitgo/internal/model"
	"github.com/vk/imfitgo/internal/testutil"
)

type recordingLoader struct {
	name  string
	paths []string
}

func (r *recordingLoader) Load(_ context.Context, path string) (*model.Model, error) {
	r.paths = append(r.paths, path)
	return model.NewModel(map[string]float64{r.name: 1})
}

func TestLoader_Dispatch(t *testing.T) {
	ctx := context.Background()
	text := &recordingLoader{name: "text"}
	hclL := &recordingLoader{name: "hcl"}

	d := NewLoader(text)
	d.Register("HCL", hclL)

	testCases := []struct {
		path string
		want string
	}{
		{"model.hcl", "hcl"},
		{"MODEL.HCL", "hcl"},
		{"model.conf", "text"},
		{"model", "text"},
	}
	for _, tc := range testCases {
		t.Run(tc.path, func(t *testing.T) {
			m, err := d.Load(ctx, tc.path)
			require.NoError(t, err)
			_, ok := m.Option(tc.want)
			assert.True(t, ok)
		})
	}
	assert.Len(t, hclL.paths, 2)

	t.Run("no fallback", func(t *testing.T) {
		_, err := NewLoader(nil).Load(ctx, "model.fits")
		require.ErrorIs(t, err, model.ErrInvalidType)
	})
}

func TestNewDefaultLoader(t *testing.T) {
	ctx := context.Background()
	want := testutil.GalaxyModel(t)

	dir := testutil.WriteFiles(t, map[string]string{
		"galaxy.conf": want.String(),
		"galaxy":      want.String(),
	})

	for _, name := range []string{"galaxy.conf", "galaxy"} {
		t.Run(name, func(t *testing.T) {
			got, err := model.Load(ctx, NewDefaultLoader(nil), dir+"/"+name)
			require.NoError(t, err)
			testutil.AssertModelsEqual(t, want, got)
		})
	}

	t.Run("catalog validation", func(t *testing.T) {
		path := testutil.WriteFile(t, "bad.conf", "X0 1\nY0 1\nFUNCTION Gaussian\nPA 0\n")
		_, err := NewDefaultLoader(catalog.Default()).Load(ctx, path)
		require.ErrorContains(t, err, "expected [PA ell I_0 sigma]")
	})

	t.Run("hcl", func(t *testing.T) {
		path := testutil.WriteFile(t, "model.hcl", `function_set "a" {
  x0 { value = 3 }
  y0 { value = 4 }
}`)
		m, err := NewDefaultLoader(nil).Load(ctx, path)
		require.NoError(t, err)
		assert.Equal(t, []float64{3, 4}, m.Values())
	})
}
