// Package crt implements an integer-only NTSC composite video signal
// encoder/decoder: modulate an RGB image into a one-dimensional analog
// line buffer carrying sync, color burst and quadrature-modulated
// chroma, then demodulate that buffer back into RGB with the sync
// acquisition, chroma phase recovery and band-limiting artifacts of a
// real CRT receiver.
package crt

// Pixel formats. The library never touches the alpha channel.
const (
	PixFormatRGB  = 0 // 3 bytes: R,G,B
	PixFormatBGR  = 1 // 3 bytes: B,G,R
	PixFormatARGB = 2 // 4 bytes: A,R,G,B
	PixFormatRGBA = 3 // 4 bytes: R,G,B,A
	PixFormatABGR = 4 // 4 bytes: A,B,G,R
	PixFormatBGRA = 5 // 4 bytes: B,G,R,A
)

// BytesPerPixel returns the pixel stride for format, or 0 if format is
// not one of the PixFormat constants.
func BytesPerPixel(format int) int {
	switch format {
	case PixFormatRGB, PixFormatBGR:
		return 3
	case PixFormatARGB, PixFormatRGBA, PixFormatABGR, PixFormatBGRA:
		return 4
	default:
		return 0
	}
}

// Checkered chroma: 227.5 subcarrier cycles per line, so the carrier
// phase flips every other line. An even 228 cycles/line would keep the
// chroma dots vertically aligned instead.
const ccLine = 2275 // subcarrier cycles per line, x10

const (
	cbFreq    = 4                    // carrier samples per subcarrier cycle
	hres      = ccLine * cbFreq / 10 // horizontal resolution: 910
	vres      = 262                  // vertical resolution (one field)
	inputSize = hres * vres

	top   = 21        // first line carrying active video
	bot   = 261       // final line carrying active video
	lines = bot - top // active video line count: 240

	ccSamples = 4 // samples per chroma period (samples per 360 deg)
	ccVPer    = 1 // vertical period over which chroma artifacts repeat

	hsyncWindow = 8
	vsyncWindow = 8
	hsyncThresh = 4
	vsyncThresh = 94
)

// Horizontal line timing, in nanoseconds, normalized to hres samples
// per line. Every offset below is derived from this table rather than
// hardcoded, so a change to ccLine or cbFreq propagates consistently.
const (
	fpNs   = 1500  // front porch
	syncNs = 4700  // sync tip
	bwNs   = 600   // breezeway
	cbNs   = 2500  // color burst
	bpNs   = 1600  // back porch
	avNs   = 52600 // active video

	hbNs   = fpNs + syncNs + bwNs + cbNs + bpNs
	lineNs = hbNs + avNs
)

// Sample offsets within a line, each offsetNs * hres / lineNs spelled
// out as a constant expression so they can size arrays.
const (
	fpBeg   = 0 * hres / lineNs
	syncBeg = fpNs * hres / lineNs
	bwBeg   = (fpNs + syncNs) * hres / lineNs
	cbBeg   = (fpNs + syncNs + bwNs) * hres / lineNs
	bpBeg   = (fpNs + syncNs + bwNs + cbNs) * hres / lineNs
	avBeg   = hbNs * hres / lineNs
	avLen   = avNs * hres / lineNs
)

const cbCycles = 10 // color burst cycle count (7-12 is typical)

// Bandlimiting frequencies, all relative to the 14.31818 MHz line
// frequency.
const (
	lFreq = 1431818 // full line rate
	yFreq = 420000  // luma bandwidth
	iFreq = 150000  // I chroma bandwidth
	qFreq = 55000   // Q chroma bandwidth
)

// IRE signal levels (100 = 1.0V, -40 = 0.0V).
const (
	whiteLevel = 100
	burstLevel = 20
	blackLevel = 7
	blankLevel = 0
	syncLevel  = -40
)

// Fixed point 14-bit trig.
const (
	t142Pi  = 16384
	t14Mask = t142Pi - 1
	t14Pi   = t142Pi / 2
)

// posmod is a modulo that always returns a nonnegative result for
// negative x.
func posmod(x, n int) int {
	return ((x % n) + n) % n
}

// ccPhase returns the subcarrier polarity of a line; with 227.5
// cycles/line the phase flips every other line.
func ccPhase(line int) int {
	if line&1 != 0 {
		return -1
	}
	return 1
}

// HRes, VRes, WhiteLevel and SyncLevel are exported for callers (such
// as package sdr) that need to resample an external signal onto the
// analog buffer's own geometry before handing it to Demodulate.
const (
	HRes       = hres
	VRes       = vres
	WhiteLevel = whiteLevel
	SyncLevel  = syncLevel
)
