package crt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func solidImage(w, h int, r, g, b byte) []byte {
	buf := make([]byte, w*h*3)
	for i := 0; i < w*h; i++ {
		buf[i*3+0] = r
		buf[i*3+1] = g
		buf[i*3+2] = b
	}
	return buf
}

func newTestState(outw, outh int) *State {
	out := make([]byte, outw*outh*3)
	return NewState(outw, outh, PixFormatRGB, out)
}

func TestModulateAnalogStaysInSignalRange(t *testing.T) {
	v := newTestState(64, 64)
	s := &Settings{
		Data: solidImage(8, 8, 200, 30, 30), Format: PixFormatRGB, W: 8, H: 8,
		AsColor: true, Hue: 0,
	}
	v.Modulate(s)

	for _, a := range v.analog {
		assert.GreaterOrEqual(t, int(a), syncLevel)
		assert.LessOrEqual(t, int(a), 110)
	}
}

func TestModulateDeterministic(t *testing.T) {
	img := solidImage(8, 8, 10, 200, 90)
	s := &Settings{Data: img, Format: PixFormatRGB, W: 8, H: 8, AsColor: true, Raw: true}

	v1 := newTestState(32, 32)
	v1.Modulate(s)
	a1 := v1.analog

	v2 := newTestState(32, 32)
	s2 := &Settings{Data: img, Format: PixFormatRGB, W: 8, H: 8, AsColor: true, Raw: true}
	v2.Modulate(s2)
	a2 := v2.analog

	assert.Equal(t, a1, a2)
}

func TestModulateMonochromeZeroesChromaTables(t *testing.T) {
	v := newTestState(32, 32)
	s := &Settings{
		Data: solidImage(4, 4, 10, 250, 30), Format: PixFormatRGB, W: 4, H: 4,
		AsColor: false,
	}
	// Should not panic and should leave the burst region blank (since
	// ccburst is all zero when AsColor is false).
	require.NotPanics(t, func() { v.Modulate(s) })
	for n := 10; n < vres; n++ {
		for x := cbBeg; x < cbBeg+(cbCycles*cbFreq); x++ {
			assert.Equal(t, int8(blankLevel), v.analog[n*hres+x])
		}
	}
}

func TestModulateRawClampsDestinationToMax(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		w := rapid.IntRange(1, 300).Draw(t, "w")
		h := rapid.IntRange(1, 300).Draw(t, "h")
		v := newTestState(w, h)
		img := solidImage(w, h, 128, 128, 128)
		s := &Settings{Data: img, Format: PixFormatRGB, W: w, H: h, Raw: true, AsColor: true}
		require.NotPanics(t, func() { v.Modulate(s) })
		for _, a := range v.analog {
			assert.GreaterOrEqual(t, int(a), syncLevel)
			assert.LessOrEqual(t, int(a), 110)
		}
	})
}
