package cli

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/vk/imfitgo/internal/app"
	"github.com/vk/imfitgo/internal/psf"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// Parse processes command-line arguments. It returns a populated Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("imfitgo", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
imfitgo - Load, validate and convert imfit model descriptions.

Usage:
  imfitgo [options] MODEL_PATH
  imfitgo -psf gaussian|moffat [options]

Arguments:
  MODEL_PATH
    Path to an imfit config file (.conf, .dat, .txt) or an HCL model (.hcl).

Options:
`)
		flagSet.PrintDefaults()
	}

	modelFlag := flagSet.String("model", "", "Path to the model file.")
	mFlag := flagSet.String("m", "", "Path to the model file (shorthand).")
	formatFlag := flagSet.String("format", app.FormatConf, "Output format of the loaded model. Options: 'conf' or 'hcl'.")
	validateFlag := flagSet.Bool("validate", false, "Check every function against the function catalog.")
	var catalogDirs []string
	flagSet.Func("catalog", "Directory of additional function manifests. Implies -validate. May be repeated.", func(s string) error {
		catalogDirs = append(catalogDirs, s)
		return nil
	})

	psfFlag := flagSet.String("psf", "", "Render a PSF image instead of loading a model. Options: 'gaussian' or 'moffat'.")
	widthFlag := flagSet.Float64("width", 5, "PSF width (FWHM unless -width-type sigma).")
	widthTypeFlag := flagSet.String("width-type", psf.WidthFWHM, "Gaussian PSF width type. Options: 'fwhm' or 'sigma'.")
	sizeFlag := flagSet.Int("size", psf.DefaultSize, "Side of the square PSF image. Must be odd.")
	betaFlag := flagSet.Float64("beta", psf.DefaultBeta, "Moffat PSF beta.")
	paFlag := flagSet.Float64("pa", 0, "PSF position angle in degrees from +y.")
	ellFlag := flagSet.Float64("ell", 0, "PSF ellipticity.")

	logFormatFlag := flagSet.String("log-format", "json", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	path := ""
	if *modelFlag != "" {
		path = *modelFlag
	} else if *mFlag != "" {
		path = *mFlag
	} else if flagSet.NArg() > 0 {
		path = flagSet.Arg(0)
	}
	slog.Debug("Model path determined.", "path", path)

	psfKind := strings.ToLower(*psfFlag)
	if path == "" && psfKind == "" {
		slog.Debug("No model path provided, printing usage and exiting.")
		flagSet.Usage()
		return nil, true, nil
	}

	logFormat := strings.ToLower(*logFormatFlag)
	if logFormat != "text" && logFormat != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	logLevel := strings.ToLower(*logLevelFlag)
	switch logLevel {
	case "debug", "info", "warn", "error":
		// valid
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}
	slog.Debug("CLI parameter validation complete.")

	config, err := app.NewConfig(app.Config{
		ModelPath:   path,
		Format:      strings.ToLower(*formatFlag),
		CatalogDirs: catalogDirs,
		Validate:    *validateFlag,
		PSF:         psfKind,
		Width:       *widthFlag,
		WidthType:   strings.ToLower(*widthTypeFlag),
		Size:        *sizeFlag,
		Beta:        *betaFlag,
		PA:          *paFlag,
		Ell:         *ellFlag,
		LogFormat:   logFormat,
		LogLevel:    logLevel,
	})
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "config", config)
	return config, false, nil
}
