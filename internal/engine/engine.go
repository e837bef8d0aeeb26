package engine

import (
	"context"
	"fmt"
	"runtime"

	"github.com/vk/imfitgo/internal/ctxlog"
	"github.com/vk/imfitgo/internal/model"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/mat"
)

// Synthesizer renders a model into a rows x cols image.
type Synthesizer interface {
	SynthesizeImage(ctx context.Context, m *model.Model, rows, cols int) (*mat.Dense, error)
}

// Option configures a Reference synthesizer.
type Option func(*Reference)

// WithProfile registers p under funcType, replacing any built-in profile of
// that name.
func WithProfile(funcType string, p Profile) Option {
	return func(r *Reference) {
		r.profiles[funcType] = p
	}
}

// WithWorkers bounds the number of rows rendered concurrently. Values below
// one mean GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(r *Reference) {
		r.workers = n
	}
}

// Reference evaluates every function at the centre of every pixel and sums
// the results. Pixel (r, c) of the image sits at x = c+1, y = r+1, matching
// the 1-based coordinates of X0 and Y0.
type Reference struct {
	profiles map[string]Profile
	workers  int
}

// NewReference creates a synthesizer that knows the built-in profiles.
func NewReference(opts ...Option) *Reference {
	r := &Reference{profiles: builtinProfiles()}
	for _, opt := range opts {
		opt(r)
	}
	if r.workers < 1 {
		r.workers = runtime.GOMAXPROCS(0)
	}
	return r
}

// component is one function bound to its slice of the flat value vector.
type component struct {
	profile Profile
	x0, y0  float64
	params  []float64
}

// SynthesizeImage implements Synthesizer.
func (r *Reference) SynthesizeImage(ctx context.Context, m *model.Model, rows, cols int) (*mat.Dense, error) {
	if rows <= 0 || cols <= 0 {
		return nil, fmt.Errorf("%w: image size must be positive, got %dx%d", model.ErrValidation, rows, cols)
	}
	components, err := r.bind(m)
	if err != nil {
		return nil, err
	}

	logger := ctxlog.FromContext(ctx)
	logger.Debug("Synthesizing image.", "rows", rows, "cols", cols, "components", len(components))

	img := mat.NewDense(rows, cols, nil)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)
	for row := range rows {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			line := img.RawRowView(row)
			y := float64(row + 1)
			for col := range line {
				x := float64(col + 1)
				var sum float64
				for _, c := range components {
					sum += c.profile.Eval(c.params, x-c.x0, y-c.y0)
				}
				line[col] = sum
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("image synthesis interrupted: %w", err)
	}

	logger.Debug("Image synthesized.", "rows", rows, "cols", cols)
	return img, nil
}

// bind walks the model's flat value vector set by set, using
// ParameterOffsets to find where each set starts.
func (r *Reference) bind(m *model.Model) ([]component, error) {
	values := m.Values()
	offsets := m.ParameterOffsets()

	var components []component
	for i, fs := range m.FunctionSets() {
		off := offsets[i]
		x0, y0 := values[off], values[off+1]
		off += 2

		for _, f := range fs.Functions() {
			p, ok := r.profiles[f.Type()]
			if !ok {
				return nil, fmt.Errorf("%w: no profile for function type %q (function %q in set %q)", model.ErrNotFound, f.Type(), f.Name(), fs.Name())
			}
			n := len(f.Parameters())
			if n != p.Params {
				return nil, fmt.Errorf("%w: function %q of type %s has %d parameters, expected %d", model.ErrValidation, f.Name(), f.Type(), n, p.Params)
			}
			params := values[off : off+n]
			if p.Elliptical {
				if ell := params[1]; !(ell >= 0 && ell < 1) {
					return nil, fmt.Errorf("%w: function %q in set %q: ell must be in [0, 1), got %v", model.ErrValidation, f.Name(), fs.Name(), ell)
				}
			}
			components = append(components, component{
				profile: p,
				x0:      x0,
				y0:      y0,
				params:  params,
			})
			off += n
		}
	}
	return components, nil
}
