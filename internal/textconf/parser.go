package textconf

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/vk/imfitgo/internal/catalog"
	"github.com/vk/imfitgo/internal/model"
)

const keywordFixed = "fixed"

// Option configures the parser.
type Option func(*parser)

// WithCatalog checks every function against c: the type must be known and
// the parameters must match its definition in order.
func WithCatalog(c *catalog.Catalog) Option {
	return func(p *parser) {
		p.catalog = c
	}
}

type parser struct {
	filename string
	catalog  *catalog.Catalog

	model *model.Model
	diags hcl.Diagnostics

	pendingSetName string
	set            *model.FunctionSet
	setCount       int
	expectY0       bool

	function     *model.Function
	functionLine int
}

// Parse reads an imfit config file. Errors and warnings are reported as
// diagnostics pointing at the offending line; the model is nil whenever the
// diagnostics contain an error.
func Parse(filename string, src []byte, opts ...Option) (*model.Model, hcl.Diagnostics) {
	m, _ := model.NewModel(nil)
	p := &parser{filename: filename, model: m}
	for _, opt := range opts {
		opt(p)
	}

	for i, raw := range strings.Split(string(src), "\n") {
		if !p.parseLine(i+1, strings.TrimRight(raw, "\r")) {
			return nil, p.diags
		}
	}
	if !p.finish(0) {
		return nil, p.diags
	}
	return p.model, p.diags
}

// parseLine handles one line and reports whether parsing may continue.
func (p *parser) parseLine(line int, raw string) bool {
	text := strings.TrimSpace(raw)
	if text == "" {
		return true
	}

	if strings.HasPrefix(text, "#") {
		if rest, ok := strings.CutPrefix(text, model.FunctionSetHeader); ok && (rest == "" || rest[0] == ' ' || rest[0] == '\t') {
			p.pendingSetName = strings.TrimSpace(rest)
		}
		return true
	}

	code, comment, _ := strings.Cut(text, "#")
	fields := strings.Fields(code)
	key := fields[0]

	if p.expectY0 && key != model.Y0Name {
		return p.errorf(line, "Missing Y0", "An X0 line must be followed directly by a Y0 line, found %q.", key)
	}

	switch {
	case key == model.X0Name:
		if !p.finish(line) {
			return false
		}
		return p.startSet(line, fields)
	case key == model.Y0Name:
		if !p.expectY0 {
			return p.errorf(line, "Unexpected Y0", "A Y0 line must directly follow an X0 line.")
		}
		p.expectY0 = false
		return p.setCentre(line, p.set.Y0(), fields)
	case key == model.FunctionKeyword:
		return p.startFunction(line, fields, strings.TrimSpace(comment))
	case p.set == nil:
		return p.parseOption(line, fields)
	case p.function == nil:
		return p.errorf(line, "Parameter outside function", "The parameter %q must be declared after a FUNCTION line.", key)
	default:
		return p.parseParameter(line, fields)
	}
}

func (p *parser) parseOption(line int, fields []string) bool {
	if len(fields) != 2 {
		return p.errorf(line, "Invalid option", "An option line must have the form 'KEY VALUE'.")
	}
	value, ok := parseNumber(fields[1])
	if !ok {
		return p.errorf(line, "Invalid option value", "The value %q for option %s is not a finite number.", fields[1], fields[0])
	}
	if _, exists := p.model.Option(fields[0]); exists {
		return p.errorf(line, "Duplicate option", "The option %s has already been set.", fields[0])
	}
	if err := p.model.SetOption(fields[0], value); err != nil {
		return p.errorf(line, "Invalid option", "%s.", err)
	}
	return true
}

func (p *parser) startSet(line int, fields []string) bool {
	p.setCount++
	name := p.pendingSetName
	p.pendingSetName = ""
	if name == "" {
		name = defaultSetName(p.setCount)
	}

	fs, _ := model.NewFunctionSet(name)
	if err := p.model.AddFunctionSet(fs); err != nil {
		return p.errorf(line, "Duplicate function set", "%s.", err)
	}
	p.set = fs
	p.expectY0 = true
	return p.setCentre(line, fs.X0(), fields)
}

// defaultSetName names the n-th unnamed function set: fs, fs2, fs3, ...
func defaultSetName(n int) string {
	if n == 1 {
		return model.DefaultFunctionSetName
	}
	return fmt.Sprintf("%s%d", model.DefaultFunctionSetName, n)
}

func (p *parser) setCentre(line int, param *model.Parameter, fields []string) bool {
	value, limits, fixed, ok := p.parseValueSpec(line, fields)
	if !ok {
		return false
	}
	if err := param.Set(value, limits, fixed); err != nil {
		return p.errorf(line, "Invalid limits", "%s.", err)
	}
	p.warnIfClamped(line, param, value)
	return true
}

func (p *parser) startFunction(line int, fields []string, label string) bool {
	if p.set == nil {
		return p.errorf(line, "Function outside function set", "A FUNCTION line must follow an X0/Y0 pair.")
	}
	if len(fields) != 2 {
		return p.errorf(line, "Invalid function line", "A function line must have the form 'FUNCTION <type> [# name]'.")
	}
	if !p.finishFunction() {
		return false
	}

	funcType := fields[1]
	name := label
	if name == "" {
		name = p.uniqueName(funcType)
	}

	f, err := model.NewFunction(funcType, name)
	if err != nil {
		return p.errorf(line, "Invalid function line", "%s.", err)
	}
	if err := p.set.AddFunction(f); err != nil {
		return p.errorf(line, "Duplicate function", "%s.", err)
	}
	p.function = f
	p.functionLine = line
	return true
}

// uniqueName returns funcType, or funcType_2, funcType_3, ... if unlabeled
// functions of that type already exist in the current set.
func (p *parser) uniqueName(funcType string) string {
	name := funcType
	for n := 2; ; n++ {
		if _, err := p.set.Lookup(name); err != nil {
			return name
		}
		name = fmt.Sprintf("%s_%d", funcType, n)
	}
}

func (p *parser) parseParameter(line int, fields []string) bool {
	value, limits, fixed, ok := p.parseValueSpec(line, fields)
	if !ok {
		return false
	}

	var opts []model.ParameterOption
	if limits != nil {
		opts = append(opts, model.WithLimits(limits.Lower, limits.Upper))
	}
	if fixed {
		opts = append(opts, model.WithFixed())
	}
	param, err := model.NewParameter(fields[0], value, opts...)
	if err != nil {
		return p.errorf(line, "Invalid limits", "%s.", err)
	}
	if err := p.function.AddParameter(param); err != nil {
		if errors.Is(err, model.ErrDuplicateName) {
			return p.errorf(line, "Duplicate parameter", "%s.", err)
		}
		return p.errorf(line, "Invalid parameter", "%s.", err)
	}
	p.warnIfClamped(line, param, value)
	return true
}

// parseValueSpec parses `<name> <value> [<lower>,<upper> | fixed]`.
func (p *parser) parseValueSpec(line int, fields []string) (float64, *model.Limits, bool, bool) {
	if len(fields) < 2 {
		p.errorf(line, "Missing value", "The parameter %s has no value.", fields[0])
		return 0, nil, false, false
	}
	value, ok := parseNumber(fields[1])
	if !ok {
		p.errorf(line, "Invalid parameter value", "The value %q for parameter %s is not a finite number.", fields[1], fields[0])
		return 0, nil, false, false
	}

	constraint := strings.Join(fields[2:], "")
	switch {
	case constraint == "":
		return value, nil, false, true
	case strings.EqualFold(constraint, keywordFixed):
		return value, nil, true, true
	}

	lo, hi, found := strings.Cut(constraint, ",")
	if !found {
		p.errorf(line, "Invalid parameter constraint", "Expected 'fixed' or '<lower>,<upper>' after the value of %s, found %q.", fields[0], constraint)
		return 0, nil, false, false
	}
	lower, okLo := parseNumber(lo)
	upper, okHi := parseNumber(hi)
	if !okLo || !okHi {
		p.errorf(line, "Invalid parameter limits", "The limits %q for parameter %s are not finite numbers.", constraint, fields[0])
		return 0, nil, false, false
	}
	return value, &model.Limits{Lower: lower, Upper: upper}, false, true
}

// parseNumber accepts finite floats only; strconv also takes NaN and Inf.
func parseNumber(s string) (float64, bool) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

func (p *parser) warnIfClamped(line int, param *model.Parameter, given float64) {
	if param.Value() == given {
		return
	}
	p.diags = append(p.diags, &hcl.Diagnostic{
		Severity: hcl.DiagWarning,
		Summary:  "Value clamped to limits",
		Detail:   fmt.Sprintf("The value %s of parameter %s lies outside its limits and was set to %s.", model.FormatValue(given), param.Name(), model.FormatValue(param.Value())),
		Subject:  p.lineRange(line),
	})
}

// finishFunction validates the open function against the catalog.
func (p *parser) finishFunction() bool {
	if p.function == nil {
		return true
	}
	f, line := p.function, p.functionLine
	p.function = nil
	if p.catalog == nil {
		return true
	}
	if err := p.catalog.Validate(f); err != nil {
		return p.errorf(line, "Invalid function", "%s.", err)
	}
	return true
}

// finish closes the open function and set.
func (p *parser) finish(line int) bool {
	if p.expectY0 {
		return p.errorf(line, "Missing Y0", "The function set %q has no Y0 line.", p.set.Name())
	}
	return p.finishFunction()
}

func (p *parser) errorf(line int, summary, format string, args ...any) bool {
	p.diags = append(p.diags, &hcl.Diagnostic{
		Severity: hcl.DiagError,
		Summary:  summary,
		Detail:   fmt.Sprintf(format, args...),
		Subject:  p.lineRange(line),
	})
	return false
}

// lineRange covers a whole line; line 0 means end of file.
func (p *parser) lineRange(line int) *hcl.Range {
	if line == 0 {
		return &hcl.Range{Filename: p.filename}
	}
	return &hcl.Range{
		Filename: p.filename,
		Start:    hcl.Pos{Line: line, Column: 1},
		End:      hcl.Pos{Line: line + 1, Column: 1},
	}
}
