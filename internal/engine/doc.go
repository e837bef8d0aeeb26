// Package engine turns a model into an image. The Synthesizer interface is
// what callers such as the psf package depend on; Reference is a direct
// pixel-centre evaluator of the built-in profiles, without oversampling or
// PSF convolution.
package engine
