package engine

import "math"

// Profile is a surface brightness function. Eval receives the function's
// parameter values in declaration order and the pixel offset from the
// function set centre. An Elliptical profile takes PA and ell as its first
// two parameters, and ell must lie in [0, 1).
type Profile struct {
	Params     int
	Elliptical bool
	Eval       func(params []float64, dx, dy float64) float64
}

func builtinProfiles() map[string]Profile {
	return map[string]Profile{
		"Gaussian":    {Params: 4, Elliptical: true, Eval: gaussian},
		"Moffat":      {Params: 5, Elliptical: true, Eval: moffat},
		"Exponential": {Params: 4, Elliptical: true, Eval: exponential},
		"Sersic":      {Params: 5, Elliptical: true, Eval: sersic},
		"FlatSky":     {Params: 1, Eval: flatSky},
	}
}

// ellipticalRadius returns the radius of (dx, dy) on an ellipse whose major
// axis lies at pa degrees counter-clockwise from +y, with axis ratio 1-ell.
func ellipticalRadius(pa, ell, dx, dy float64) float64 {
	phi := (pa + 90) * math.Pi / 180
	sin, cos := math.Sincos(phi)
	xp := dx*cos + dy*sin
	yp := -dx*sin + dy*cos
	q := 1 - ell
	return math.Hypot(xp, yp/q)
}

// gaussian: PA, ell, I_0, sigma.
func gaussian(p []float64, dx, dy float64) float64 {
	r := ellipticalRadius(p[0], p[1], dx, dy)
	sigma := p[3]
	return p[2] * math.Exp(-r*r/(2*sigma*sigma))
}

// moffat: PA, ell, I_0, fwhm, beta.
func moffat(p []float64, dx, dy float64) float64 {
	r := ellipticalRadius(p[0], p[1], dx, dy)
	beta := p[4]
	alpha := MoffatAlpha(p[3], beta)
	return p[2] * math.Pow(1+(r/alpha)*(r/alpha), -beta)
}

// MoffatAlpha converts a Moffat FWHM to the core width alpha.
func MoffatAlpha(fwhm, beta float64) float64 {
	return fwhm / (2 * math.Sqrt(math.Pow(2, 1/beta)-1))
}

// exponential: PA, ell, I_0, h.
func exponential(p []float64, dx, dy float64) float64 {
	r := ellipticalRadius(p[0], p[1], dx, dy)
	return p[2] * math.Exp(-r/p[3])
}

// sersic: PA, ell, n, I_e, r_e.
func sersic(p []float64, dx, dy float64) float64 {
	r := ellipticalRadius(p[0], p[1], dx, dy)
	n, ie, re := p[2], p[3], p[4]
	return ie * math.Exp(-SersicB(n)*(math.Pow(r/re, 1/n)-1))
}

// SersicB approximates b_n, the constant that makes r_e the half-light
// radius: Ciotti & Bertin (1999) above n = 0.36, MacArthur et al. (2003)
// below.
func SersicB(n float64) float64 {
	if n > 0.36 {
		n2 := n * n
		n3 := n2 * n
		n4 := n3 * n
		return 2*n - 1.0/3 + 4/(405*n) + 46/(25515*n2) + 131/(1148175*n3) - 2194697/(30690717750*n4)
	}
	return 0.01945 - 0.8902*n + 10.95*n*n - 19.67*n*n*n + 13.43*n*n*n*n
}

// flatSky: I_sky.
func flatSky(p []float64, _, _ float64) float64 {
	return p[0]
}
