package app

import (
	"bufio"
	"context"
	"fmt"
	"io"

	"github.com/vk/imfitgo/internal/ctxlog"
	"github.com/vk/imfitgo/internal/hcl"
	"github.com/vk/imfitgo/internal/model"
	"github.com/vk/imfitgo/internal/psf"
	"gonum.org/v1/gonum/mat"
)

// Run executes the main application logic based on the App's configuration.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	var err error
	if a.config.PSF != "" {
		err = a.runPSF(ctx)
	} else {
		err = a.runModel(ctx)
	}
	if err != nil {
		return err
	}

	a.logger.Debug("App.Run method finished.")
	return nil
}

func (a *App) runModel(ctx context.Context) error {
	m, err := model.Load(ctx, a.loader, a.config.ModelPath)
	if err != nil {
		return err
	}

	free := 0
	for _, p := range m.Parameters() {
		if !p.Fixed() {
			free++
		}
	}
	a.logger.Info("Model loaded.",
		"path", a.config.ModelPath,
		"function_sets", len(m.FunctionSets()),
		"functions", len(m.FunctionTypes()),
		"parameters", len(m.Parameters()),
		"free_parameters", free,
	)

	var out []byte
	switch a.config.Format {
	case FormatHCL:
		out = hcl.Write(m)
	default:
		out = []byte(m.String() + "\n")
	}
	if _, err := a.outW.Write(out); err != nil {
		return fmt.Errorf("failed to write model: %w", err)
	}
	return nil
}

func (a *App) runPSF(ctx context.Context) error {
	cfg := a.config
	opts := []psf.Option{
		psf.WithSize(cfg.Size),
		psf.WithPA(cfg.PA),
		psf.WithEll(cfg.Ell),
		psf.WithCatalog(a.catalog),
	}

	var (
		img *mat.Dense
		err error
	)
	switch cfg.PSF {
	case PSFMoffat:
		img, err = psf.Moffat(ctx, a.synth, cfg.Width, append(opts, psf.WithBeta(cfg.Beta))...)
	default:
		img, err = psf.Gaussian(ctx, a.synth, cfg.Width, append(opts, psf.WithWidthType(cfg.WidthType))...)
	}
	if err != nil {
		return err
	}

	a.logger.Info("PSF rendered.", "kind", cfg.PSF, "width", cfg.Width, "size", cfg.Size, "sum", mat.Sum(img), "max", mat.Max(img))
	if err := writeImage(a.outW, img); err != nil {
		return fmt.Errorf("failed to write PSF image: %w", err)
	}
	return nil
}

// writeImage writes one whitespace-separated line per image row.
func writeImage(w io.Writer, img *mat.Dense) error {
	bw := bufio.NewWriter(w)
	rows, _ := img.Dims()
	for r := range rows {
		for c, v := range img.RawRowView(r) {
			if c > 0 {
				bw.WriteByte(' ')
			}
			bw.WriteString(model.FormatValue(v))
		}
		bw.WriteByte('\n')
	}
	return bw.Flush()
}
