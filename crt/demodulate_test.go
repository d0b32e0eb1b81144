package crt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestDemodulateProducesPicture(t *testing.T) {
	v := newTestState(64, 64)
	s := &Settings{Data: solidImage(8, 8, 100, 150, 200), Format: PixFormatRGB, W: 8, H: 8, AsColor: true}
	v.Modulate(s)
	v.Demodulate(0)

	nonzero := 0
	for _, b := range v.Out {
		if b != 0 {
			nonzero++
		}
	}
	// A mid-brightness source must light up a decent share of the raster.
	assert.Greater(t, nonzero, len(v.Out)/4)
}

func TestDemodulateNoiseInputBounded(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		v := newTestState(32, 32)
		s := &Settings{Data: solidImage(4, 4, 50, 60, 70), Format: PixFormatRGB, W: 4, H: 4, AsColor: true}
		v.Modulate(s)
		noise := rapid.IntRange(0, 400).Draw(t, "noise")
		require.NotPanics(t, func() { v.Demodulate(noise) })
		for _, b := range v.inp {
			assert.LessOrEqual(t, int(b), 127)
			assert.GreaterOrEqual(t, int(b), -127)
		}
	})
}

func TestDemodulateMonochromeProducesGrayscale(t *testing.T) {
	v := newTestState(32, 32)
	s := &Settings{Data: solidImage(4, 4, 180, 40, 220), Format: PixFormatRGB, W: 4, H: 4, AsColor: false}
	v.Modulate(s)
	v.Demodulate(0)

	for i := 0; i+2 < len(v.Out); i += 3 {
		r, g, b := v.Out[i], v.Out[i+1], v.Out[i+2]
		assert.InDelta(t, int(r), int(g), 2)
		assert.InDelta(t, int(g), int(b), 2)
	}
}

func TestDemodulateBlendAveragesWithPrevious(t *testing.T) {
	img1 := solidImage(4, 4, 255, 0, 0)
	img2 := solidImage(4, 4, 0, 0, 255)

	// Baseline: second frame demodulated fresh, no blending.
	vFresh := newTestState(16, 16)
	vFresh.Modulate(&Settings{Data: img1, Format: PixFormatRGB, W: 4, H: 4, AsColor: true})
	vFresh.Demodulate(0)
	before := append([]byte(nil), vFresh.Out...)
	vFresh.Modulate(&Settings{Data: img2, Format: PixFormatRGB, W: 4, H: 4, AsColor: true})
	vFresh.Demodulate(0)
	newOnly := append([]byte(nil), vFresh.Out...)

	// Actual: same two frames, but with Blend on for the second pass.
	v := newTestState(16, 16)
	v.Modulate(&Settings{Data: img1, Format: PixFormatRGB, W: 4, H: 4, AsColor: true})
	v.Demodulate(0)
	v.Blend = true
	v.Modulate(&Settings{Data: img2, Format: PixFormatRGB, W: 4, H: 4, AsColor: true})
	v.Demodulate(0)

	for i := range v.Out {
		want := (int(before[i]) + int(newOnly[i])) / 2
		assert.InDelta(t, want, int(v.Out[i]), 2)
	}
}

func TestDemodulateScanlinesDuplicateRows(t *testing.T) {
	v := newTestState(8, lines*4)
	v.Scanlines = true
	s := &Settings{Data: solidImage(4, 4, 80, 160, 240), Format: PixFormatRGB, W: 4, H: 4, AsColor: true}
	v.Modulate(s)
	v.Demodulate(0)
	// With far more output rows than source lines, some rows must be
	// byte-identical duplicates of their predecessor.
	pitch := v.Outw * 3
	dup := false
	for row := 1; row < v.Outh; row++ {
		a := v.Out[row*pitch : row*pitch+pitch]
		b := v.Out[(row-1)*pitch : (row-1)*pitch+pitch]
		same := true
		for i := range a {
			if a[i] != b[i] {
				same = false
				break
			}
		}
		if same {
			dup = true
			break
		}
	}
	assert.True(t, dup)
}

func TestSyncSearchDisabledPinsPositions(t *testing.T) {
	v := newTestState(32, 32)
	v.SetSyncSearch(false, false)
	s := &Settings{Data: solidImage(4, 4, 10, 20, 30), Format: PixFormatRGB, W: 4, H: 4, AsColor: true}
	v.Modulate(s)
	v.Demodulate(0)
	assert.Equal(t, -3, v.Vsync)
	assert.Equal(t, 0, v.Hsync)
}
