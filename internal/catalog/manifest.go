package catalog

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"
)

// manifestFile is the top-level structure of a function manifest.
type manifestFile struct {
	Functions []*functionBlock `hcl:"function,block"`
}

// functionBlock represents a single `function "<type>" {}` block.
type functionBlock struct {
	Type        string            `hcl:"type,label"`
	Description string            `hcl:"description,optional"`
	Parameters  []*parameterBlock `hcl:"parameter,block"`
}

// parameterBlock represents a `parameter "<name>" {}` block inside a function.
type parameterBlock struct {
	Name        string         `hcl:"name,label"`
	Default     hcl.Expression `hcl:"default,optional"`
	Description string         `hcl:"description,optional"`
}

// parseManifest decodes every function block in src.
func parseManifest(filename string, src []byte) ([]*Definition, hcl.Diagnostics) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, diags
	}

	var root manifestFile
	diags = append(diags, gohcl.DecodeBody(file.Body, nil, &root)...)
	if diags.HasErrors() {
		return nil, diags
	}

	defs := make([]*Definition, 0, len(root.Functions))
	seen := make(map[string]struct{}, len(root.Functions))
	for _, fb := range root.Functions {
		if _, dup := seen[fb.Type]; dup {
			diags = append(diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Duplicate function definition",
				Detail:   fmt.Sprintf("A function type named '%s' has already been defined in this file.", fb.Type),
			})
			continue
		}
		seen[fb.Type] = struct{}{}

		def, defDiags := translateFunction(filename, fb)
		diags = append(diags, defDiags...)
		if def != nil {
			defs = append(defs, def)
		}
	}

	if diags.HasErrors() {
		return nil, diags
	}
	return defs, diags
}

func translateFunction(filename string, fb *functionBlock) (*Definition, hcl.Diagnostics) {
	var diags hcl.Diagnostics
	def := &Definition{
		Type:        fb.Type,
		Description: fb.Description,
		Parameters:  make([]ParameterDefinition, 0, len(fb.Parameters)),
		Source:      filename,
	}

	names := make(map[string]struct{}, len(fb.Parameters))
	for _, pb := range fb.Parameters {
		if _, dup := names[pb.Name]; dup {
			diags = append(diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Duplicate parameter definition",
				Detail:   fmt.Sprintf("Function '%s' already defines a parameter named '%s'.", fb.Type, pb.Name),
			})
			continue
		}
		names[pb.Name] = struct{}{}

		value, valDiags := decodeDefault(pb.Default)
		diags = append(diags, valDiags...)
		if valDiags.HasErrors() {
			continue
		}
		def.Parameters = append(def.Parameters, ParameterDefinition{
			Name:        pb.Name,
			Default:     value,
			Description: pb.Description,
		})
	}

	if diags.HasErrors() {
		return nil, diags
	}
	return def, diags
}

// decodeDefault evaluates a literal default value. A missing default is 0.
func decodeDefault(expr hcl.Expression) (float64, hcl.Diagnostics) {
	if expr == nil {
		return 0, nil
	}
	// A nil eval context is used because defaults must be literal values.
	val, diags := expr.Value(nil)
	if diags.HasErrors() {
		return 0, diags
	}
	if val.IsNull() {
		return 0, diags
	}

	num, err := convert.Convert(val, cty.Number)
	if err != nil {
		return 0, append(diags, &hcl.Diagnostic{
			Severity: hcl.DiagError,
			Summary:  "Invalid default value type",
			Detail:   fmt.Sprintf("A parameter default must be a number: %s.", err),
			Subject:  expr.Range().Ptr(),
		})
	}

	var f float64
	if err := gocty.FromCtyValue(num, &f); err != nil {
		return 0, append(diags, &hcl.Diagnostic{
			Severity: hcl.DiagError,
			Summary:  "Invalid default value",
			Detail:   err.Error(),
			Subject:  expr.Range().Ptr(),
		})
	}
	return f, diags
}
