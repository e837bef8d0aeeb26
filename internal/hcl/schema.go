package hcl

import "github.com/hashicorp/hcl/v2"

// fileRoot is the top-level structure of a model file.
type fileRoot struct {
	Options      *optionsBlock       `hcl:"options,block"`
	FunctionSets []*functionSetBlock `hcl:"function_set,block"`
}

// optionsBlock holds arbitrary numeric attributes, decoded separately.
type optionsBlock struct {
	Body hcl.Body `hcl:",remain"`
}

// functionSetBlock represents a `function_set "<name>" {}` block.
type functionSetBlock struct {
	Name      string           `hcl:"name,label"`
	X0        valueBody        `hcl:"x0,block"`
	Y0        valueBody        `hcl:"y0,block"`
	Functions []*functionBlock `hcl:"function,block"`
}

// functionBlock represents a `function "<type>" {}` block.
type functionBlock struct {
	Type       string            `hcl:"type,label"`
	Name       string            `hcl:"name,optional"`
	Parameters []*parameterBlock `hcl:"parameter,block"`
}

// parameterBlock represents a `parameter "<name>" {}` block.
type parameterBlock struct {
	Name   string         `hcl:"name,label"`
	Value  float64        `hcl:"value"`
	Limits hcl.Expression `hcl:"limits,optional"`
	Fixed  bool           `hcl:"fixed,optional"`
}

func (b *parameterBlock) valueBody() valueBody {
	return valueBody{Value: b.Value, Limits: b.Limits, Fixed: b.Fixed}
}

// valueBody is the body of an x0 or y0 block.
type valueBody struct {
	Value  float64        `hcl:"value"`
	Limits hcl.Expression `hcl:"limits,optional"`
	Fixed  bool           `hcl:"fixed,optional"`
}
