package app

import (
	"errors"
	"fmt"
	"math"

	"github.com/vk/imfitgo/internal/psf"
)

// Output formats for a loaded model.
const (
	FormatConf = "conf"
	FormatHCL  = "hcl"
)

// PSF kinds.
const (
	PSFGaussian = "gaussian"
	PSFMoffat   = "moffat"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	ModelPath   string   // model file to load; unused when PSF is set
	Format      string   // output format of the loaded model
	CatalogDirs []string // extra function manifests
	Validate    bool     // check functions against the catalog

	PSF       string // render a PSF instead of loading a model
	Width     float64
	WidthType string
	Size      int
	Beta      float64
	PA        float64
	Ell       float64

	LogFormat string
	LogLevel  string
}

func NewConfig(cfg Config) (*Config, error) {
	if cfg.Format == "" {
		cfg.Format = FormatConf
	}
	if cfg.Format != FormatConf && cfg.Format != FormatHCL {
		return nil, fmt.Errorf("invalid format %q: must be %q or %q", cfg.Format, FormatConf, FormatHCL)
	}

	switch cfg.PSF {
	case "":
		if cfg.ModelPath == "" {
			return nil, errors.New("ModelPath is a required configuration field unless a PSF is requested")
		}
	case PSFGaussian, PSFMoffat:
		if !(cfg.Width > 0) || math.IsInf(cfg.Width, 1) {
			return nil, fmt.Errorf("invalid PSF width %v: must be a positive finite number", cfg.Width)
		}
		if !(cfg.Ell >= 0 && cfg.Ell < 1) {
			return nil, fmt.Errorf("invalid PSF ellipticity %v: must be in [0, 1)", cfg.Ell)
		}
		if cfg.Size <= 0 || cfg.Size%2 != 1 {
			return nil, fmt.Errorf("invalid PSF size %d: must be a positive odd number", cfg.Size)
		}
		if cfg.WidthType == "" {
			cfg.WidthType = psf.WidthFWHM
		}
		if cfg.WidthType != psf.WidthFWHM && cfg.WidthType != psf.WidthSigma {
			return nil, fmt.Errorf("invalid width type %q: must be %q or %q", cfg.WidthType, psf.WidthFWHM, psf.WidthSigma)
		}
	default:
		return nil, fmt.Errorf("invalid PSF kind %q: must be %q or %q", cfg.PSF, PSFGaussian, PSFMoffat)
	}

	return &cfg, nil
}
