package app

import (
	"bytes"
	"context"
	"encoding/json"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/imfitgo/internal/testutil"
	"github.com/vk/imfitgo/internal/textconf"
)

func newTestApp(t *testing.T, cfg Config, opts ...Option) (*App, *bytes.Buffer, *testutil.SafeBuffer) {
	t.Helper()
	if cfg.LogLevel == "" {
		cfg.LogLevel = "debug"
	}
	c, err := NewConfig(cfg)
	require.NoError(t, err)

	out := &bytes.Buffer{}
	logs := &testutil.SafeBuffer{}
	a, err := NewApp(out, logs, c, opts...)
	require.NoError(t, err)
	t.Cleanup(func() {
		if t.Failed() {
			t.Logf("--- Log output for %s ---\n%s", t.Name(), logs.String())
		}
	})
	return a, out, logs
}

func TestNewConfig(t *testing.T) {
	testCases := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{name: "model", cfg: Config{ModelPath: "m.conf"}},
		{name: "psf without model", cfg: Config{PSF: PSFGaussian, Width: 5, Size: 31}},
		{name: "missing model", cfg: Config{}, wantErr: "ModelPath"},
		{name: "bad format", cfg: Config{ModelPath: "m", Format: "yaml"}, wantErr: "invalid format"},
		{name: "bad psf", cfg: Config{PSF: "airy", Width: 5, Size: 31}, wantErr: "invalid PSF kind"},
		{name: "even size", cfg: Config{PSF: PSFMoffat, Width: 5, Size: 32}, wantErr: "invalid PSF size"},
		{name: "zero width", cfg: Config{PSF: PSFMoffat, Size: 31}, wantErr: "invalid PSF width"},
		{name: "NaN width", cfg: Config{PSF: PSFGaussian, Width: math.NaN(), Size: 31}, wantErr: "invalid PSF width"},
		{name: "infinite width", cfg: Config{PSF: PSFGaussian, Width: math.Inf(1), Size: 31}, wantErr: "invalid PSF width"},
		{name: "flat ellipse", cfg: Config{PSF: PSFGaussian, Width: 5, Size: 31, Ell: 1}, wantErr: "invalid PSF ellipticity"},
		{name: "negative ellipticity", cfg: Config{PSF: PSFMoffat, Width: 5, Size: 31, Ell: -0.2}, wantErr: "invalid PSF ellipticity"},
		{name: "elongated psf", cfg: Config{PSF: PSFMoffat, Width: 5, Size: 31, Ell: 0.6}},
		{name: "bad width type", cfg: Config{PSF: PSFGaussian, Width: 5, Size: 31, WidthType: "hwhm"}, wantErr: "invalid width type"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg, err := NewConfig(tc.cfg)
			if tc.wantErr != "" {
				require.ErrorContains(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, FormatConf, cfg.Format)
		})
	}
}

func TestRun_Model(t *testing.T) {
	want := testutil.GalaxyModel(t)
	path := testutil.WriteFile(t, "galaxy.conf", want.String())

	t.Run("conf", func(t *testing.T) {
		a, out, logs := newTestApp(t, Config{ModelPath: path})
		require.NoError(t, a.Run(context.Background()))

		got, diags := textconf.Parse("out.conf", out.Bytes())
		require.False(t, diags.HasErrors(), diags.Error())
		testutil.AssertModelsEqual(t, want, got)
		assert.Contains(t, logs.String(), "Model loaded.")
		assert.Contains(t, logs.String(), "free_parameters=")
	})

	t.Run("hcl", func(t *testing.T) {
		a, out, _ := newTestApp(t, Config{ModelPath: path, Format: FormatHCL})
		require.NoError(t, a.Run(context.Background()))
		assert.Contains(t, out.String(), `function_set "core" {`)
		assert.Contains(t, out.String(), "GAIN")
	})

	t.Run("validated", func(t *testing.T) {
		bad := testutil.WriteFile(t, "bad.conf", "X0 1\nY0 1\nFUNCTION Gaussian\nPA 0\n")
		a, _, _ := newTestApp(t, Config{ModelPath: bad, Validate: true})
		require.ErrorContains(t, a.Run(context.Background()), "expected [PA ell I_0 sigma]")

		a, _, _ = newTestApp(t, Config{ModelPath: bad})
		require.NoError(t, a.Run(context.Background()), "without a catalog any function is accepted")
	})

	t.Run("custom loader", func(t *testing.T) {
		a, out, _ := newTestApp(t, Config{ModelPath: "ignored.hcl"}, WithLoader(textconf.NewLoader()))
		err := a.Run(context.Background())
		require.Error(t, err)
		assert.ErrorContains(t, err, "failed to read config file")
		assert.Empty(t, out.String())
	})
}

func TestRun_PSF(t *testing.T) {
	a, out, logs := newTestApp(t, Config{PSF: PSFGaussian, Width: 2, WidthType: "sigma", Size: 5})
	require.NoError(t, a.Run(context.Background()))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 5)
	for _, line := range lines {
		assert.Len(t, strings.Fields(line), 5)
	}
	assert.Equal(t, "1", strings.Fields(lines[2])[2])
	assert.Contains(t, logs.String(), "PSF rendered.")

	a, out, _ = newTestApp(t, Config{PSF: PSFMoffat, Width: 4, Beta: 3, Size: 3})
	require.NoError(t, a.Run(context.Background()))
	lines = strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "1", strings.Fields(lines[1])[1])
}

func TestNewApp_CatalogDirs(t *testing.T) {
	dir := testutil.WriteFiles(t, map[string]string{
		"ring.hcl": `function "GaussianRing" {
  parameter "PA" {}
  parameter "ell" {}
  parameter "A" { default = 1 }
  parameter "R_ring" { default = 10 }
  parameter "sigma_r" { default = 1 }
}`,
	})
	a, _, _ := newTestApp(t, Config{ModelPath: "m.conf", CatalogDirs: []string{dir}})
	_, err := a.Catalog().Lookup("GaussianRing")
	require.NoError(t, err)

	c, err := NewConfig(Config{ModelPath: "m.conf", CatalogDirs: []string{testutil.WriteFiles(t, map[string]string{"bad.hcl": "function {"})}})
	require.NoError(t, err)
	_, err = NewApp(&bytes.Buffer{}, &bytes.Buffer{}, c)
	require.ErrorContains(t, err, "failed to load function catalog")
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger("warn", "json", &buf)
	logger.Info("hidden")
	logger.Warn("shown", "key", 1)

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "shown", rec["msg"])
	assert.Equal(t, "imfitgo", rec["app"])

	buf.Reset()
	newLogger("nonsense", "text", &buf).Debug("hidden")
	assert.Empty(t, buf.String())
}
