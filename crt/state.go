package crt

// State is a persistent CRT emulator instance: the analog line
// buffer, the noised copy the demodulator reads from, the color
// carrier convergence accumulator, sync tracking, the noise PRNG
// state, and the presentation knobs a real monitor would expose
// (brightness, contrast, hue, saturation...).
//
// The Y/I/Q filter banks live here rather than at package level, so
// distinct *State values never share filter history and each can be
// driven from its own goroutine.
type State struct {
	analog [inputSize]int8
	// inp carries one extra line of headroom: a badly drifted hsync
	// can make the demodulator read up to a line past the sample it
	// locked onto, and those reads must land on blank, not panic.
	inp [inputSize + hres]int8

	Outw, Outh int
	OutFormat  int
	Out        []byte

	Hue, Brightness, Contrast, Saturation int
	BlackPoint, WhitePoint                int
	Scanlines                             bool
	Blend                                 bool
	vFac                                  int

	ccf          [ccVPer][ccSamples]int
	Hsync, Vsync int
	rn           uint32

	doBloom, doVsync, doHsync bool

	eqY, eqI, eqQ    eqf
	iirY, iirI, iirQ iirlp
	iirsInitialized  bool
}

// NewState allocates and initializes a State targeting an output
// image of w x h pixels in the given pixel format, writing into out.
// out must be at least w*h*BytesPerPixel(format) bytes.
func NewState(w, h, format int, out []byte) *State {
	v := &State{}
	v.Init(w, h, format, out)
	return v
}

// Init performs the one-time setup: resize, reset to defaults, seed
// the noise PRNG, and derive the equalizer band coefficients. Init
// must be called exactly once per State; use Resize/Reset afterward.
func (v *State) Init(w, h, format int, out []byte) {
	*v = State{}
	v.Resize(w, h, format, out)
	v.Reset()
	v.rn = 194
	v.doVsync = true
	v.doHsync = true

	v.eqY.init(khz2L(1500), khz2L(3000), hres, 65536, 8192, 9175)
	v.eqI.init(khz2L(80), khz2L(1150), hres, 65536, 65536, 1311)
	v.eqQ.init(khz2L(80), khz2L(1000), hres, 65536, 65536, 0)
}

// Resize updates the output image target without touching any other
// state.
func (v *State) Resize(w, h, format int, out []byte) {
	v.Outw = w
	v.Outh = h
	v.OutFormat = format
	v.Out = out
}

// Reset restores the presentation defaults a freshly powered-on CRT
// would have.
func (v *State) Reset() {
	v.Hue = 0
	v.Saturation = 10
	v.Brightness = 0
	v.Contrast = 180
	v.BlackPoint = 0
	v.WhitePoint = 100
	v.Hsync = 0
	v.Vsync = 0
}

// ClearAnalog zeroes the analog buffer. Modulate does not do this
// automatically (so that repeated raw-mode calls can deliberately
// layer into it); callers switching from a large scaled image to a
// smaller raw one should call this first to avoid stale residue
// outside the new raster.
func (v *State) ClearAnalog() {
	for i := range v.analog {
		v.analog[i] = 0
	}
}

// Analog exposes the modulator's output buffer, e.g. for sdr.Transmitter
// to stream over RF hardware.
func (v *State) Analog() []int8 {
	return v.analog[:]
}

// SetBloom enables or disables bloom emulation. Off by default; the
// intensity-driven line widening suits filmed material better than
// hard-edged synthetic sources.
func (v *State) SetBloom(on bool) { v.doBloom = on }

// SetSyncSearch controls whether vertical/horizontal sync acquisition
// runs at all; disabling either pins the corresponding position
// (vsync to -3, hsync to 0), useful for testing the rest of the
// pipeline without sync jitter.
func (v *State) SetSyncSearch(vsync, hsync bool) {
	v.doVsync = vsync
	v.doHsync = hsync
}
