package hcl

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/vk/imfitgo/internal/ctxlog"
	"github.com/vk/imfitgo/internal/model"
)

// Loader is the HCL implementation of the model.Loader interface.
type Loader struct{}

// NewLoader creates a new HCL model loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load parses the HCL model file at path. Warnings are logged; errors are
// returned wrapped around the hcl.Diagnostics.
func (l *Loader) Load(ctx context.Context, path string) (*model.Model, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("HCL loader started.", "path", path)

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file %s: %w", path, diags)
	}

	m, diags := decodeFile(file)
	for _, d := range diags {
		if d.Severity == hcl.DiagWarning {
			logger.Warn(d.Summary, "detail", d.Detail, "range", subjectString(d))
		}
	}
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL file %s: %w", path, diags)
	}

	logger.Debug("HCL loading complete.", "path", path, "function_sets", len(m.FunctionSets()), "options", len(m.Options()))
	return m, nil
}

// Parse decodes an HCL model from src. The model is nil whenever the
// diagnostics contain an error.
func Parse(filename string, src []byte) (*model.Model, hcl.Diagnostics) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, diags
	}
	m, decodeDiags := decodeFile(file)
	return m, append(diags, decodeDiags...)
}

func decodeFile(file *hcl.File) (*model.Model, hcl.Diagnostics) {
	var root fileRoot
	diags := gohcl.DecodeBody(file.Body, nil, &root)
	if diags.HasErrors() {
		return nil, diags
	}

	m, translateDiags := translateModel(&root)
	diags = append(diags, translateDiags...)
	if diags.HasErrors() {
		return nil, diags
	}
	return m, diags
}

func subjectString(d *hcl.Diagnostic) string {
	if d.Subject == nil {
		return ""
	}
	return d.Subject.String()
}
