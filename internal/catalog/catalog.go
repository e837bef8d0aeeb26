package catalog

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"os"
	"slices"
	"sync"

	"github.com/vk/imfitgo/internal/ctxlog"
	"github.com/vk/imfitgo/internal/fsutil"
	"github.com/vk/imfitgo/internal/model"
)

//go:embed functions/*.hcl
var builtin embed.FS

// ParameterDefinition describes one parameter of a function type.
type ParameterDefinition struct {
	Name        string
	Default     float64
	Description string
}

// Definition describes a function type: its name and its parameters in the
// order the fitting engine expects them.
type Definition struct {
	Type        string
	Description string
	Parameters  []ParameterDefinition
	Source      string
}

// ParameterNames returns the parameter names in order.
func (d *Definition) ParameterNames() []string {
	names := make([]string, len(d.Parameters))
	for i, p := range d.Parameters {
		names[i] = p.Name
	}
	return names
}

// Catalog holds function type definitions by type name.
type Catalog struct {
	defs map[string]*Definition
}

// New creates an empty catalog.
func New() *Catalog {
	return &Catalog{defs: make(map[string]*Definition)}
}

var defaultCatalog = sync.OnceValue(func() *Catalog {
	c := New()
	if err := c.addFS(builtin, "functions"); err != nil {
		// The embedded manifests ship with the binary; failing to read them
		// is a programmer error.
		panic(fmt.Errorf("failed to load built-in function catalog: %w", err))
	}
	return c
})

// Default returns the catalog of built-in function types. The returned
// catalog is shared and must not be modified; use Load to extend it.
func Default() *Catalog {
	return defaultCatalog()
}

// Load returns a catalog of the built-in types plus every .hcl manifest
// found under dirs. Defining a type twice is an error.
func Load(ctx context.Context, dirs ...string) (*Catalog, error) {
	logger := ctxlog.FromContext(ctx)

	c := Default().clone()
	for _, dir := range dirs {
		files, err := fsutil.FindFilesByExtension(dir, ".hcl")
		if err != nil {
			return nil, fmt.Errorf("failed to find function manifests in %s: %w", dir, err)
		}
		logger.Debug("Discovered function manifests.", "dir", dir, "count", len(files))

		for _, file := range files {
			src, err := os.ReadFile(file)
			if err != nil {
				return nil, fmt.Errorf("failed to read function manifest %s: %w", file, err)
			}
			if err := c.addManifest(file, src); err != nil {
				return nil, err
			}
		}
	}

	logger.Debug("Function catalog loaded.", "types", len(c.defs))
	return c, nil
}

func (c *Catalog) clone() *Catalog {
	n := New()
	for k, v := range c.defs {
		n.defs[k] = v
	}
	return n
}

func (c *Catalog) addFS(fsys fs.FS, dir string) error {
	matches, err := fs.Glob(fsys, dir+"/*.hcl")
	if err != nil {
		return err
	}
	for _, name := range matches {
		src, err := fs.ReadFile(fsys, name)
		if err != nil {
			return err
		}
		if err := c.addManifest(name, src); err != nil {
			return err
		}
	}
	return nil
}

func (c *Catalog) addManifest(filename string, src []byte) error {
	defs, diags := parseManifest(filename, src)
	if diags.HasErrors() {
		return fmt.Errorf("failed to parse function manifest %s: %w", filename, diags)
	}
	for _, def := range defs {
		if prev, exists := c.defs[def.Type]; exists {
			return fmt.Errorf("function type %q in %s is already defined in %s", def.Type, filename, prev.Source)
		}
		c.defs[def.Type] = def
	}
	return nil
}

// Types returns the known function types in sorted order.
func (c *Catalog) Types() []string {
	types := make([]string, 0, len(c.defs))
	for t := range c.defs {
		types = append(types, t)
	}
	slices.Sort(types)
	return types
}

// Lookup returns the definition of a function type.
func (c *Catalog) Lookup(funcType string) (*Definition, error) {
	def, ok := c.defs[funcType]
	if !ok {
		return nil, fmt.Errorf("%w: function type %q", model.ErrNotFound, funcType)
	}
	return def, nil
}

// NewFunction creates a Function of the given type with every parameter at
// its default value, free and unbounded.
func (c *Catalog) NewFunction(funcType, name string) (*model.Function, error) {
	def, err := c.Lookup(funcType)
	if err != nil {
		return nil, err
	}

	f, err := model.NewFunction(def.Type, name)
	if err != nil {
		return nil, err
	}
	for _, pd := range def.Parameters {
		p, err := model.NewParameter(pd.Name, pd.Default)
		if err != nil {
			return nil, err
		}
		if err := f.AddParameter(p); err != nil {
			return nil, err
		}
	}
	return f, nil
}

// Validate checks that f is a known type and carries exactly the
// definition's parameters, in order.
func (c *Catalog) Validate(f *model.Function) error {
	def, err := c.Lookup(f.Type())
	if err != nil {
		return err
	}

	want := def.ParameterNames()
	params := f.Parameters()
	got := make([]string, len(params))
	for i, p := range params {
		got[i] = p.Name()
	}
	if !slices.Equal(want, got) {
		return fmt.Errorf("%w: function %q of type %s has parameters %v, expected %v", model.ErrValidation, f.Name(), f.Type(), got, want)
	}
	return nil
}
