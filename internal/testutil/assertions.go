package testutil

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/vk/imfitgo/internal/model"
)

// ParamSnapshot is a comparable view of a Parameter.
type ParamSnapshot struct {
	Name   string
	Value  float64
	Limits *model.Limits
	Fixed  bool
}

// FuncSnapshot is a comparable view of a Function.
type FuncSnapshot struct {
	Type   string
	Name   string
	Params []ParamSnapshot
}

// SetSnapshot is a comparable view of a FunctionSet.
type SetSnapshot struct {
	Name      string
	X0, Y0    ParamSnapshot
	Functions []FuncSnapshot
}

// ModelSnapshot is a comparable view of a Model.
type ModelSnapshot struct {
	Options map[string]float64
	Sets    []SetSnapshot
}

// Snapshot captures every name, value, limit and flag of m.
func Snapshot(m *model.Model) ModelSnapshot {
	snap := ModelSnapshot{Options: m.Options()}
	for _, fs := range m.FunctionSets() {
		set := SetSnapshot{
			Name: fs.Name(),
			X0:   snapParam(fs.X0()),
			Y0:   snapParam(fs.Y0()),
		}
		for _, f := range fs.Functions() {
			fn := FuncSnapshot{Type: f.Type(), Name: f.Name()}
			for _, p := range f.Parameters() {
				fn.Params = append(fn.Params, snapParam(p))
			}
			set.Functions = append(set.Functions, fn)
		}
		snap.Sets = append(snap.Sets, set)
	}
	return snap
}

func snapParam(p *model.Parameter) ParamSnapshot {
	s := ParamSnapshot{Name: p.Name(), Value: p.Value(), Fixed: p.Fixed()}
	if l, ok := p.Limits(); ok {
		s.Limits = &l
	}
	return s
}

// AssertModelsEqual fails the test with a structural diff if want and got
// differ in any option, name, value, limit or fixed flag.
func AssertModelsEqual(t *testing.T, want, got *model.Model) {
	t.Helper()
	if diff := cmp.Diff(Snapshot(want), Snapshot(got)); diff != "" {
		t.Errorf("models differ (-want +got):\n%s", diff)
	}
}
