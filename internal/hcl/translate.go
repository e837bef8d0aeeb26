package hcl

import (
	"errors"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/vk/imfitgo/internal/model"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"
)

// translateModel converts the decoded HCL schema into a model.Model.
func translateModel(root *fileRoot) (*model.Model, hcl.Diagnostics) {
	var diags hcl.Diagnostics

	var options map[string]float64
	if root.Options != nil {
		var optDiags hcl.Diagnostics
		options, optDiags = decodeOptions(root.Options)
		diags = append(diags, optDiags...)
	}

	m, err := model.NewModel(options)
	if err != nil {
		return nil, append(diags, errorDiag("Invalid model", err, nil))
	}

	for _, sb := range root.FunctionSets {
		fs, setDiags := translateFunctionSet(sb)
		diags = append(diags, setDiags...)
		if fs == nil {
			continue
		}
		if err := m.AddFunctionSet(fs); err != nil {
			diags = append(diags, errorDiag("Duplicate function set", err, nil))
		}
	}

	if diags.HasErrors() {
		return nil, diags
	}
	return m, diags
}

func decodeOptions(b *optionsBlock) (map[string]float64, hcl.Diagnostics) {
	attrs, diags := b.Body.JustAttributes()
	if diags.HasErrors() {
		return nil, diags
	}

	options := make(map[string]float64, len(attrs))
	for name, attr := range attrs {
		val, valDiags := attr.Expr.Value(nil)
		diags = append(diags, valDiags...)
		if valDiags.HasErrors() {
			continue
		}
		num, err := convert.Convert(val, cty.Number)
		if err == nil && !num.IsNull() {
			var f float64
			if err = gocty.FromCtyValue(num, &f); err == nil {
				options[name] = f
				continue
			}
		}
		diags = append(diags, &hcl.Diagnostic{
			Severity: hcl.DiagError,
			Summary:  "Invalid option value",
			Detail:   fmt.Sprintf("The option %s must be a number.", name),
			Subject:  attr.Expr.Range().Ptr(),
		})
	}
	return options, diags
}

func translateFunctionSet(sb *functionSetBlock) (*model.FunctionSet, hcl.Diagnostics) {
	var diags hcl.Diagnostics

	fs, err := model.NewFunctionSet(sb.Name)
	if err != nil {
		return nil, append(diags, errorDiag("Invalid function set", err, nil))
	}
	diags = append(diags, applyCentre(fs.X0(), sb.X0)...)
	diags = append(diags, applyCentre(fs.Y0(), sb.Y0)...)

	for _, fb := range sb.Functions {
		f, funcDiags := translateFunction(fb)
		diags = append(diags, funcDiags...)
		if f == nil {
			continue
		}
		if err := fs.AddFunction(f); err != nil {
			diags = append(diags, errorDiag("Duplicate function", err, nil))
		}
	}

	if diags.HasErrors() {
		return nil, diags
	}
	return fs, diags
}

func applyCentre(p *model.Parameter, body valueBody) hcl.Diagnostics {
	limits, diags := decodeLimits(body.Limits)
	if diags.HasErrors() {
		return diags
	}
	if err := p.Set(body.Value, limits, body.Fixed); err != nil {
		return append(diags, errorDiag("Invalid limits", err, rangeOf(body.Limits)))
	}
	return append(diags, clampWarning(p, body)...)
}

func translateFunction(fb *functionBlock) (*model.Function, hcl.Diagnostics) {
	var diags hcl.Diagnostics

	f, err := model.NewFunction(fb.Type, fb.Name)
	if err != nil {
		return nil, append(diags, errorDiag("Invalid function", err, nil))
	}
	for _, pb := range fb.Parameters {
		body := pb.valueBody()
		limits, limDiags := decodeLimits(body.Limits)
		diags = append(diags, limDiags...)
		if limDiags.HasErrors() {
			continue
		}

		var opts []model.ParameterOption
		if limits != nil {
			opts = append(opts, model.WithLimits(limits.Lower, limits.Upper))
		}
		if body.Fixed {
			opts = append(opts, model.WithFixed())
		}
		p, err := model.NewParameter(pb.Name, body.Value, opts...)
		if err != nil {
			diags = append(diags, errorDiag("Invalid limits", err, rangeOf(body.Limits)))
			continue
		}
		if err := f.AddParameter(p); err != nil {
			summary := "Invalid parameter"
			if errors.Is(err, model.ErrDuplicateName) {
				summary = "Duplicate parameter"
			}
			diags = append(diags, errorDiag(summary, err, nil))
			continue
		}
		diags = append(diags, clampWarning(p, body)...)
	}

	if diags.HasErrors() {
		return nil, diags
	}
	return f, diags
}

// decodeLimits evaluates a `[lower, upper]` literal. A missing or null
// expression means no limits.
func decodeLimits(expr hcl.Expression) (*model.Limits, hcl.Diagnostics) {
	if expr == nil {
		return nil, nil
	}
	val, diags := expr.Value(nil)
	if diags.HasErrors() || val.IsNull() {
		return nil, diags
	}

	invalid := &hcl.Diagnostic{
		Severity: hcl.DiagError,
		Summary:  "Invalid limits",
		Detail:   "Limits must be a list of two numbers, [lower, upper].",
		Subject:  expr.Range().Ptr(),
	}
	list, err := convert.Convert(val, cty.List(cty.Number))
	if err != nil {
		return nil, append(diags, invalid)
	}
	var bounds []float64
	if err := gocty.FromCtyValue(list, &bounds); err != nil || len(bounds) != 2 {
		return nil, append(diags, invalid)
	}
	return &model.Limits{Lower: bounds[0], Upper: bounds[1]}, diags
}

func clampWarning(p *model.Parameter, body valueBody) hcl.Diagnostics {
	if p.Value() == body.Value {
		return nil
	}
	return hcl.Diagnostics{{
		Severity: hcl.DiagWarning,
		Summary:  "Value clamped to limits",
		Detail:   fmt.Sprintf("The value %s of parameter %s lies outside its limits and was set to %s.", model.FormatValue(body.Value), p.Name(), model.FormatValue(p.Value())),
		Subject:  rangeOf(body.Limits),
	}}
}

func errorDiag(summary string, err error, subject *hcl.Range) *hcl.Diagnostic {
	return &hcl.Diagnostic{
		Severity: hcl.DiagError,
		Summary:  summary,
		Detail:   err.Error() + ".",
		Subject:  subject,
	}
}

func rangeOf(expr hcl.Expression) *hcl.Range {
	if expr == nil {
		return nil
	}
	return expr.Range().Ptr()
}
