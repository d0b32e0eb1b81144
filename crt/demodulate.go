package crt

type yiq struct{ y, i, q int }

// Demodulate decodes the analog signal (previously written by
// Modulate, optionally injected with noise) back into the State's
// output image: it reacquires vertical and horizontal sync, recovers
// the chroma phase from the color burst, and band-limits and
// rasterizes each active-video line into RGB.
func (v *State) Demodulate(noise int) {
	var out [avLen + 1]yiq

	bpp := BytesPerPixel(v.OutFormat)
	if bpp == 0 {
		return
	}
	pitch := v.Outw * bpp

	huesn, huecs := sincos14(((v.Hue%360)+33) * 8192 / 180)
	huesn >>= 11 // make 4-bit
	huecs >>= 11

	const xnudge = -3
	const ynudge = 3
	bright := v.Brightness - (blackLevel + v.BlackPoint)

	rn := v.rn
	for i := 0; i < inputSize; i++ {
		rn = 214019*rn + 140327895
		s := int(v.analog[i]) + ((((int(rn>>16) & 0xff) - 0x7f) * noise) >> 8)
		if s > 127 {
			s = 127
		}
		if s < -127 {
			s = -127
		}
		v.inp[i] = int8(s)
	}
	v.rn = rn

	// Vertical sync acquisition: integrate the signal across each
	// candidate line and look for the running sum to cross a much
	// higher threshold than hsync uses, since the vsync pulse is much
	// longer and needs more integration to separate from noise.
	line := v.Vsync
	j := 0
search:
	for i := -vsyncWindow; i < vsyncWindow; i++ {
		line = posmod(v.Vsync+i, vres)
		sig := v.inp[line*hres : line*hres+hres]
		s := 0
		for j = 0; j < hres; j++ {
			s += int(sig[j])
			if s <= (vsyncThresh * syncLevel) {
				break search
			}
		}
	}
	// A failed search (no candidate line ever crosses the threshold)
	// leaves line/j holding the values from the last line tried; the
	// next call's window is seeded from there. Deliberate.
	if v.doVsync {
		v.Vsync = line
	} else {
		v.Vsync = -3
	}
	field := 0
	if j > (hres / 2) {
		field = 1
	}

	ratio := (v.Outh << 16) / lines
	ratio = (ratio + 32768) >> 16
	fieldOffset := field * (ratio / 2)

	// Bloom state persists across scan lines within this call (it is
	// a smoothed per-line beam energy), so it lives outside the loop.
	maxE := (128 + noise/2) * avLen
	prevE := 16384 / 8

	for ln := top; ln < bot; ln++ {
		beg := (ln-top+0)*(v.Outh+v.vFac)/lines + fieldOffset
		end := (ln-top+1)*(v.Outh+v.vFac)/lines + fieldOffset

		if beg >= v.Outh {
			continue
		}
		if end > v.Outh {
			end = v.Outh
		}

		// Horizontal sync acquisition, same approach as vsync but over
		// a much shorter window since the hsync pulse is brief.
		lnOff := posmod(ln+v.Vsync, vres) * hres
		sig := v.inp[lnOff+v.Hsync:]
		s := 0
		i := -hsyncWindow
		for ; i < hsyncWindow; i++ {
			s += int(sig[syncBeg+i])
			if s <= (hsyncThresh * syncLevel) {
				break
			}
		}
		if v.doHsync {
			v.Hsync = posmod(i+v.Hsync, hres)
		} else {
			v.Hsync = 0
		}

		xpos := posmod(avBeg+v.Hsync+xnudge, hres)
		ypos := posmod(ln+v.Vsync+ynudge, vres)
		pos := xpos + ypos*hres

		ccr := &v.ccf[ypos%ccVPer]
		sig = v.inp[lnOff+(v.Hsync&^3):] // faster: ccSamples == 4

		for i := cbBeg; i < cbBeg+(cbCycles*cbFreq); i++ {
			p := ccr[i%ccSamples] * 127 / 128 // fraction of the previous
			n := int(sig[i])                  // mixed with the new sample
			ccr[i%ccSamples] = p + n
		}

		phasealign := posmod(v.Hsync, ccSamples)

		dci := ccr[(phasealign+1)&3] - ccr[(phasealign+3)&3]
		dcq := ccr[(phasealign+2)&3] - ccr[(phasealign+0)&3]

		var wave [ccSamples]int
		wave[0] = ((dci*huecs - dcq*huesn) >> 4) * v.Saturation
		wave[1] = ((dcq*huecs + dci*huesn) >> 4) * v.Saturation
		wave[2] = -wave[0]
		wave[3] = -wave[1]

		sig = v.inp[pos:]

		dx := ((avLen - 1) << 12) / v.Outw
		scanL, scanR := 0, (avLen-1)<<12
		lBound, rBound := 0, avLen

		if v.doBloom {
			// Bloom emulation: bright lines widen horizontally.
			se := 0
			for i := 0; i < avLen; i++ {
				se += int(sig[i])
			}
			prevE = (prevE * 123 / 128) + (((maxE>>1 - se) << 10) / maxE)
			lineW := (avLen * 112 / 128) + (prevE >> 9)
			dx = (lineW << 12) / v.Outw
			scanL = ((avLen/2)-(lineW>>1)+8) << 12
			scanR = (avLen - 1) << 12
			lBound = scanL >> 12
			rBound = scanR >> 12
		}

		v.eqY.reset()
		v.eqI.reset()
		v.eqQ.reset()

		for i := lBound; i < rBound; i++ {
			out[i].y = v.eqY.apply(int(sig[i])+bright) << 4
			out[i].i = v.eqI.apply(int(sig[i])*wave[(i+0)&3]>>9) >> 3
			out[i].q = v.eqQ.apply(int(sig[i])*wave[(i+3)&3]>>9) >> 3
		}

		cLoff := beg * pitch
		cRoff := cLoff + pitch
		if v.Blend && end <= beg {
			// A later line lands on this same output row; draw only
			// that one so the row blends with the previous frame once.
			cRoff = cLoff
		}

		for p := scanL; p < scanR && cLoff < cRoff; p += dx {
			r := p & 0xfff
			l := 0xfff - r
			sIdx := p >> 12

			yiqA := out[sIdx]
			yiqB := out[sIdx+1]

			y := ((yiqA.y*l)>>2) + ((yiqB.y*r)>>2)
			ic := ((yiqA.i*l)>>14) + ((yiqB.i*r)>>14)
			q := ((yiqA.q*l)>>14) + ((yiqB.q*r)>>14)

			red := (((y + 3879*ic + 2556*q) >> 12) * v.Contrast) >> 8
			grn := (((y - 1126*ic - 2605*q) >> 12) * v.Contrast) >> 8
			blu := (((y - 4530*ic + 7021*q) >> 12) * v.Contrast) >> 8

			red = clamp255(red)
			grn = clamp255(grn)
			blu = clamp255(blu)

			var bb int
			if v.Blend {
				aa := red<<16 | grn<<8 | blu
				bb = v.blendPrev(cLoff)
				bb = ((aa & 0xfefeff) >> 1) + ((bb & 0xfefeff) >> 1)
			} else {
				bb = red<<16 | grn<<8 | blu
			}

			v.writePixel(cLoff, bb)
			cLoff += bpp
		}

		// Duplicate extra lines so a shorter-than-requested raster
		// still fills every output row; Scanlines leaves the last row
		// of each band undrawn so gaps show between lines.
		scanlineGap := 0
		if v.Scanlines {
			scanlineGap = 1
		}
		for row := beg + 1; row < end-scanlineGap; row++ {
			copy(v.Out[row*pitch:row*pitch+pitch], v.Out[(row-1)*pitch:(row-1)*pitch+pitch])
		}
	}
}

func clamp255(n int) int {
	if n < 0 {
		return 0
	}
	if n > 255 {
		return 255
	}
	return n
}

func (v *State) blendPrev(off int) int {
	switch v.OutFormat {
	case PixFormatRGB, PixFormatRGBA:
		return int(v.Out[off])<<16 | int(v.Out[off+1])<<8 | int(v.Out[off+2])
	case PixFormatBGR, PixFormatBGRA:
		return int(v.Out[off+2])<<16 | int(v.Out[off+1])<<8 | int(v.Out[off])
	case PixFormatARGB:
		return int(v.Out[off+1])<<16 | int(v.Out[off+2])<<8 | int(v.Out[off+3])
	case PixFormatABGR:
		return int(v.Out[off+3])<<16 | int(v.Out[off+2])<<8 | int(v.Out[off+1])
	default:
		return 0
	}
}

func (v *State) writePixel(off, bb int) {
	switch v.OutFormat {
	case PixFormatRGB, PixFormatRGBA:
		v.Out[off] = byte(bb >> 16 & 0xff)
		v.Out[off+1] = byte(bb >> 8 & 0xff)
		v.Out[off+2] = byte(bb >> 0 & 0xff)
	case PixFormatBGR, PixFormatBGRA:
		v.Out[off] = byte(bb >> 0 & 0xff)
		v.Out[off+1] = byte(bb >> 8 & 0xff)
		v.Out[off+2] = byte(bb >> 16 & 0xff)
	case PixFormatARGB:
		v.Out[off+1] = byte(bb >> 16 & 0xff)
		v.Out[off+2] = byte(bb >> 8 & 0xff)
		v.Out[off+3] = byte(bb >> 0 & 0xff)
	case PixFormatABGR:
		v.Out[off+1] = byte(bb >> 0 & 0xff)
		v.Out[off+2] = byte(bb >> 8 & 0xff)
		v.Out[off+3] = byte(bb >> 16 & 0xff)
	}
}
