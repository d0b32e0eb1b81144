package crt

// iirlp is a single-pole infinite impulse response low pass filter
// used by the modulator to bandlimit Y, I and Q before they are
// placed on the composite signal.
type iirlp struct {
	c int // coefficient
	h int // history
}

// init derives the filter coefficient from a total bandwidth freq
// and a cutoff limit, both in Hz.
func (f *iirlp) init(freq, limit int) {
	*f = iirlp{}
	rate := (freq << 9) / limit
	f.c = expOne - expx(-((expPi << 9) / rate))
}

func (f *iirlp) reset() { f.h = 0 }

func (f *iirlp) apply(s int) int {
	f.h += expMul(s-f.h, f.c)
	return f.h
}

const (
	histLen = 3
	histOld = histLen - 1 // oldest entry
	histNew = 0           // newest entry
	eqP     = 16          // fixed point fraction bits; gains assume this
	eqRound = 1 << (eqP - 1)
)

// eqf is the demodulator's three band equalizer: two cascaded 4-pole
// single-pole low passes decompose the signal into low/mid/high bands,
// each independently gained and summed.
type eqf struct {
	lf, hf int    // cutoff fractions
	g      [3]int // low/mid/high gains
	fL     [4]int
	fH     [4]int
	h      [histLen]int
}

// init configures the band edges (fLo, fHi in samples/line units,
// already scaled by khz2L) and the low/mid/high band gains. rate is
// the sampling rate the cutoffs are relative to.
func (f *eqf) init(fLo, fHi, rate, gLo, gMid, gHi int) {
	*f = eqf{}
	f.g[0] = gLo
	f.g[1] = gMid
	f.g[2] = gHi

	shift := eqP - 15
	sn, _ := sincos14(t14Pi * fLo / rate)
	if shift >= 0 {
		f.lf = 2 * (sn << shift)
	} else {
		f.lf = 2 * (sn >> -shift)
	}
	sn, _ = sincos14(t14Pi * fHi / rate)
	if shift >= 0 {
		f.hf = 2 * (sn << shift)
	} else {
		f.hf = 2 * (sn >> -shift)
	}
}

func (f *eqf) reset() {
	f.fL = [4]int{}
	f.fH = [4]int{}
	f.h = [histLen]int{}
}

func (f *eqf) apply(s int) int {
	f.fL[0] += (f.lf*(s-f.fL[0]) + eqRound) >> eqP
	f.fH[0] += (f.hf*(s-f.fH[0]) + eqRound) >> eqP

	for i := 1; i < 4; i++ {
		f.fL[i] += (f.lf*(f.fL[i-1]-f.fL[i]) + eqRound) >> eqP
		f.fH[i] += (f.hf*(f.fH[i-1]-f.fH[i]) + eqRound) >> eqP
	}

	var r [3]int
	r[0] = f.fL[3]
	r[1] = f.fH[3] - f.fL[3]
	r[2] = f.h[histOld] - f.fH[3]

	for i := range r {
		r[i] = (r[i] * f.g[i]) >> eqP
	}

	for i := histOld; i > 0; i-- {
		f.h[i] = f.h[i-1]
	}
	f.h[histNew] = s

	return r[0] + r[1] + r[2]
}

// khz2L converts a frequency in kHz to a sample offset over one line
// at the hres sample rate.
func khz2L(kHz int) int {
	return hres * (kHz * 100) / lFreq
}
