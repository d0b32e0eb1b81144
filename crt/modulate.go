package crt

// Modulate encodes one field of s's source image into the analog
// line buffer, overwriting every line's sync/blank/burst region and
// the portion of active video that the scaled (or raw) image lands
// on. Other active-video samples outside that region are left
// untouched, which is what lets repeated raw-mode calls layer onto
// the same buffer.
func (v *State) Modulate(s *Settings) {
	if !v.iirsInitialized {
		v.iirY.init(lFreq, yFreq)
		v.iirI.init(lFreq, iFreq)
		v.iirQ.init(lFreq, qFreq)
		v.iirsInitialized = true
	}

	// With bloom on, the raster is held to ~85% of the active region so
	// bright lines have room to widen without crowding sync/blank.
	maxw, maxh := avLen, (lines*64500)>>16
	if v.doBloom {
		maxw, maxh = (avLen*55500)>>16, (lines*63500)>>16
	}
	destw, desth := maxw, maxh
	if s.Raw {
		destw = s.W
		desth = s.H
		if destw > maxw {
			destw = maxw
		}
		if desth > maxh {
			desth = maxh
		}
	}

	var iccf [ccSamples]int
	var ccmodI, ccmodQ, ccburst [ccSamples]int

	if s.AsColor {
		for x := 0; x < ccSamples; x++ {
			n := s.Hue + x*(360/ccSamples)
			sn, _ := sincos14((n + 33) * 8192 / 180)
			ccburst[x] = sn >> 10
			sn, _ = sincos14(n * 8192 / 180)
			ccmodI[x] = sn >> 10
			sn, _ = sincos14((n - 90) * 8192 / 180)
			ccmodQ[x] = sn >> 10
		}
	}

	bpp := BytesPerPixel(s.Format)
	if bpp == 0 {
		return
	}

	xo := avBeg + s.XOffset + (avLen-destw)/2
	yo := top + s.YOffset + (lines-desth)/2

	field := s.Field & 1
	frame := s.Frame & 1
	invPhase := 0
	if field == frame {
		invPhase = 1
	}
	ph := ccPhase(invPhase)

	xo = xo &^ 3 // align signal

	for n := 0; n < vres; n++ {
		line := v.analog[n*hres : n*hres+hres]
		t := 0

		switch {
		case n <= 3 || (n >= 7 && n <= 9):
			// Equalizing pulses: small blips of sync, mostly blank.
			for t < (4 * hres / 100) {
				line[t] = syncLevel
				t++
			}
			for t < (50 * hres / 100) {
				line[t] = blankLevel
				t++
			}
			for t < (54 * hres / 100) {
				line[t] = syncLevel
				t++
			}
			for t < (100 * hres / 100) {
				line[t] = blankLevel
				t++
			}
		case n >= 4 && n <= 6:
			offs := [4]int{46, 50, 96, 100}
			if field == 1 {
				offs = [4]int{4, 50, 96, 100}
			}
			// Vertical sync pulse: small blips of blank, mostly sync.
			for t < (offs[0] * hres / 100) {
				line[t] = syncLevel
				t++
			}
			for t < (offs[1] * hres / 100) {
				line[t] = blankLevel
				t++
			}
			for t < (offs[2] * hres / 100) {
				line[t] = syncLevel
				t++
			}
			for t < (offs[3] * hres / 100) {
				line[t] = blankLevel
				t++
			}
		default:
			for t < syncBeg {
				line[t] = blankLevel
				t++
			}
			for t < bwBeg {
				line[t] = syncLevel
				t++
			}
			for t < avBeg {
				line[t] = blankLevel
				t++
			}
			if n < top {
				for t < hres {
					line[t] = blankLevel
					t++
				}
			}

			off180 := ccSamples / 2
			for t = cbBeg; t < cbBeg+(cbCycles*cbFreq); t++ {
				cb := ccburst[(t+invPhase*off180)%ccSamples]
				line[t] = int8((blankLevel + (cb * burstLevel)) >> 5)
				iccf[t%ccSamples] = int(line[t])
			}
		}
	}

	for y := 0; y < desth; y++ {
		fieldOffset := (field*s.H + desth) / desth / 2
		sy := (y * s.H) / desth
		sy += fieldOffset
		if sy >= s.H {
			sy = s.H
		}
		sy *= s.W

		v.iirY.reset()
		v.iirI.reset()
		v.iirQ.reset()

		for x := 0; x < destw; x++ {
			pixIdx := (((x*s.W)/destw)+sy)*bpp
			var rA, gA, bA int
			if pixIdx+bpp <= len(s.Data) {
				pix := s.Data[pixIdx:]
				switch s.Format {
				case PixFormatRGB, PixFormatRGBA:
					rA, gA, bA = int(pix[0]), int(pix[1]), int(pix[2])
				case PixFormatBGR, PixFormatBGRA:
					rA, gA, bA = int(pix[2]), int(pix[1]), int(pix[0])
				case PixFormatARGB:
					rA, gA, bA = int(pix[1]), int(pix[2]), int(pix[3])
				case PixFormatABGR:
					rA, gA, bA = int(pix[3]), int(pix[2]), int(pix[1])
				}
			}

			fy := (19595*rA + 38470*gA + 7471*bA) >> 14
			fi := (39059*rA - 18022*gA - 21103*bA) >> 14
			fq := (13894*rA - 34275*gA + 20382*bA) >> 14
			ire := blackLevel + v.BlackPoint

			xoff := (x + xo) % ccSamples
			fy = v.iirY.apply(fy)
			fi = v.iirI.apply(fi) * ph * ccmodI[xoff] >> 4
			fq = v.iirQ.apply(fq) * ph * ccmodQ[xoff] >> 4
			ire += (fy + fi + fq) * (whiteLevel * v.WhitePoint / 100) >> 10
			if ire < 0 {
				ire = 0
			}
			if ire > 110 {
				ire = 110
			}

			v.analog[(x+xo)+(y+yo)*hres] = int8(ire)
		}
	}

	for n := 0; n < ccVPer; n++ {
		for x := 0; x < ccSamples; x++ {
			v.ccf[n][x] = iccf[x] << 7
		}
	}
}
