package hcl

import (
	"maps"
	"slices"

	"github.com/hashicorp/hcl/v2/hclwrite"
	"github.com/vk/imfitgo/internal/model"
	"github.com/zclconf/go-cty/cty"
)

// Write renders m in the HCL model format. Options are written in sorted
// order; everything else keeps the model's order.
func Write(m *model.Model) []byte {
	f := hclwrite.NewEmptyFile()
	body := f.Body()

	if opts := m.Options(); len(opts) > 0 {
		ob := body.AppendNewBlock("options", nil).Body()
		for _, k := range slices.Sorted(maps.Keys(opts)) {
			ob.SetAttributeValue(k, cty.NumberFloatVal(opts[k]))
		}
	}

	for _, fs := range m.FunctionSets() {
		if len(body.Blocks()) > 0 {
			body.AppendNewline()
		}
		sb := body.AppendNewBlock("function_set", []string{fs.Name()}).Body()
		writeValue(sb.AppendNewBlock("x0", nil).Body(), fs.X0())
		writeValue(sb.AppendNewBlock("y0", nil).Body(), fs.Y0())

		for _, fn := range fs.Functions() {
			sb.AppendNewline()
			fb := sb.AppendNewBlock("function", []string{fn.Type()}).Body()
			if fn.Name() != fn.Type() {
				fb.SetAttributeValue("name", cty.StringVal(fn.Name()))
			}
			for _, p := range fn.Parameters() {
				writeValue(fb.AppendNewBlock("parameter", []string{p.Name()}).Body(), p)
			}
		}
	}

	return hclwrite.Format(f.Bytes())
}

func writeValue(b *hclwrite.Body, p *model.Parameter) {
	b.SetAttributeValue("value", cty.NumberFloatVal(p.Value()))
	if l, ok := p.Limits(); ok {
		b.SetAttributeValue("limits", cty.TupleVal([]cty.Value{
			cty.NumberFloatVal(l.Lower),
			cty.NumberFloatVal(l.Upper),
		}))
	}
	if p.Fixed() {
		b.SetAttributeValue("fixed", cty.True)
	}
}
