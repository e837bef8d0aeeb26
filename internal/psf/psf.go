// Package psf builds point spread function images from single-function
// models.
package psf

import (
	"context"
	"fmt"
	"math"

	"github.com/vk/imfitgo/internal/catalog"
	"github.com/vk/imfitgo/internal/ctxlog"
	"github.com/vk/imfitgo/internal/engine"
	"github.com/vk/imfitgo/internal/model"
	"gonum.org/v1/gonum/mat"
)

// FWHMToSigma is the ratio of a Gaussian's FWHM to its standard deviation.
var FWHMToSigma = 2 * math.Sqrt(2*math.Ln2)

// Width types accepted by WithWidthType.
const (
	WidthFWHM  = "fwhm"
	WidthSigma = "sigma"
)

const (
	DefaultSize = 31
	DefaultBeta = 3.1
)

type settings struct {
	widthType string
	pa, ell   float64
	size      int
	beta      float64
	catalog   *catalog.Catalog
}

// Option configures a PSF builder.
type Option func(*settings)

// WithWidthType selects how the Gaussian width is interpreted: WidthFWHM
// (the default) or WidthSigma. Moffat ignores it.
func WithWidthType(t string) Option { return func(s *settings) { s.widthType = t } }

// WithPA sets the position angle in degrees counter-clockwise from +y.
func WithPA(pa float64) Option { return func(s *settings) { s.pa = pa } }

// WithEll sets the ellipticity, 1 - b/a.
func WithEll(ell float64) Option { return func(s *settings) { s.ell = ell } }

// WithSize sets the side of the square image. It must be odd.
func WithSize(n int) Option { return func(s *settings) { s.size = n } }

// WithBeta sets the Moffat beta. Gaussian ignores it.
func WithBeta(beta float64) Option { return func(s *settings) { s.beta = beta } }

// WithCatalog takes the function definitions from c instead of the
// built-in catalog.
func WithCatalog(c *catalog.Catalog) Option { return func(s *settings) { s.catalog = c } }

func newSettings(opts []Option) (*settings, error) {
	s := &settings{
		widthType: WidthFWHM,
		size:      DefaultSize,
		beta:      DefaultBeta,
		catalog:   catalog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.size <= 0 || s.size%2 != 1 {
		return nil, fmt.Errorf("%w: PSF size must be a positive odd number, got %d", model.ErrValidation, s.size)
	}
	if !(s.ell >= 0 && s.ell < 1) {
		return nil, fmt.Errorf("%w: PSF ellipticity must be in [0, 1), got %v", model.ErrValidation, s.ell)
	}
	return s, nil
}

// checkWidth rejects widths that would be silently dropped by SetValue or
// render an empty image.
func checkWidth(width float64) error {
	if !(width > 0) || math.IsInf(width, 1) {
		return fmt.Errorf("%w: PSF width must be a positive finite number, got %v", model.ErrValidation, width)
	}
	return nil
}

// GaussianModel returns the single-Gaussian model a Gaussian PSF is
// rendered from, centred on the image.
func GaussianModel(width float64, opts ...Option) (*model.SimpleModel, error) {
	s, err := newSettings(opts)
	if err != nil {
		return nil, err
	}
	return s.gaussian(width)
}

func (s *settings) gaussian(width float64) (*model.SimpleModel, error) {
	if err := checkWidth(width); err != nil {
		return nil, err
	}
	var sigma float64
	switch s.widthType {
	case WidthFWHM:
		sigma = width / FWHMToSigma
	case WidthSigma:
		sigma = width
	default:
		return nil, fmt.Errorf("%w: width type must be %q or %q, got %q", model.ErrValidation, WidthFWHM, WidthSigma, s.widthType)
	}

	return s.build("Gaussian", map[string]float64{
		"PA":    s.pa,
		"ell":   s.ell,
		"I_0":   1,
		"sigma": sigma,
	})
}

// MoffatModel returns the single-Moffat model a Moffat PSF is rendered
// from, centred on the image.
func MoffatModel(fwhm float64, opts ...Option) (*model.SimpleModel, error) {
	s, err := newSettings(opts)
	if err != nil {
		return nil, err
	}
	return s.moffat(fwhm)
}

func (s *settings) moffat(fwhm float64) (*model.SimpleModel, error) {
	if err := checkWidth(fwhm); err != nil {
		return nil, err
	}
	return s.build("Moffat", map[string]float64{
		"PA":   s.pa,
		"ell":  s.ell,
		"I_0":  1,
		"fwhm": fwhm,
		"beta": s.beta,
	})
}

// Gaussian renders a Gaussian PSF image with synth.
func Gaussian(ctx context.Context, synth engine.Synthesizer, width float64, opts ...Option) (*mat.Dense, error) {
	s, err := newSettings(opts)
	if err != nil {
		return nil, err
	}
	sm, err := s.gaussian(width)
	if err != nil {
		return nil, err
	}
	return s.render(ctx, synth, sm)
}

// Moffat renders a Moffat PSF image with synth.
func Moffat(ctx context.Context, synth engine.Synthesizer, fwhm float64, opts ...Option) (*mat.Dense, error) {
	s, err := newSettings(opts)
	if err != nil {
		return nil, err
	}
	sm, err := s.moffat(fwhm)
	if err != nil {
		return nil, err
	}
	return s.render(ctx, synth, sm)
}

func (s *settings) build(funcType string, values map[string]float64) (*model.SimpleModel, error) {
	f, err := s.catalog.NewFunction(funcType, "")
	if err != nil {
		return nil, err
	}
	for name, v := range values {
		p, err := f.Lookup(name)
		if err != nil {
			return nil, fmt.Errorf("catalog definition of %s: %w", funcType, err)
		}
		p.SetValue(v)
	}

	sm := model.NewSimpleModel()
	centre := float64(s.size+1) / 2
	sm.X0().SetValue(centre)
	sm.Y0().SetValue(centre)
	if err := sm.AddFunction(f); err != nil {
		return nil, err
	}
	return sm, nil
}

func (s *settings) render(ctx context.Context, synth engine.Synthesizer, sm *model.SimpleModel) (*mat.Dense, error) {
	ctxlog.FromContext(ctx).Debug("Rendering PSF.", "type", sm.Model().FunctionTypes()[0], "size", s.size)
	img, err := synth.SynthesizeImage(ctx, sm.Model(), s.size, s.size)
	if err != nil {
		return nil, fmt.Errorf("failed to render PSF: %w", err)
	}
	return img, nil
}
