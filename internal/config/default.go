package config

import (
	"github.com/vk/imfitgo/internal/catalog"
	"github.com/vk/imfitgo/internal/hcl"
	"github.com/vk/imfitgo/internal/textconf"
)

// NewDefaultLoader wires the text config and HCL loaders. When c is not nil
// text configs are validated against it.
func NewDefaultLoader(c *catalog.Catalog) *Loader {
	var opts []textconf.Option
	if c != nil {
		opts = append(opts, textconf.WithCatalog(c))
	}
	text := textconf.NewLoader(opts...)

	d := NewLoader(text)
	for _, ext := range []string{".conf", ".dat", ".txt"} {
		d.Register(ext, text)
	}
	d.Register(".hcl", hcl.NewLoader())
	return d
}
