// Package anneal repeatedly drives a crt.State's modulate/demodulate
// pair so that the color-carrier convergence buffer settles before a
// caller reads the output image.
package anneal

import "github.com/indigoparadox/ntsccrt/crt"

// DefaultPasses is how many modulate/demodulate passes it takes for
// the chroma accumulator to converge on a stable picture.
const DefaultPasses = 4

// Converge runs Modulate+Demodulate on v passes times against the
// same source settings, starting from base's Field and Frame and
// flipping field every pass and frame every other pass. It mutates a
// copy of base per pass so the caller's Settings is left untouched.
func Converge(v *crt.State, base crt.Settings, passes int) {
	if passes <= 0 {
		passes = DefaultPasses
	}
	for p := 0; p < passes; p++ {
		s := base
		s.Field = (base.Field + p) & 1
		s.Frame = (base.Frame + p/2) & 1
		v.Modulate(&s)
		v.Demodulate(0)
	}
}

// ConvergeNoisy is like Converge but injects noise into every
// demodulate pass, useful for previewing a noisy signal's settled
// appearance rather than its transient one.
func ConvergeNoisy(v *crt.State, base crt.Settings, passes, noise int) {
	if passes <= 0 {
		passes = DefaultPasses
	}
	for p := 0; p < passes; p++ {
		s := base
		s.Field = (base.Field + p) & 1
		s.Frame = (base.Frame + p/2) & 1
		v.Modulate(&s)
		v.Demodulate(noise)
	}
}
