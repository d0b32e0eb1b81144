package crt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func TestIIRLPConvergesToConstantInput(t *testing.T) {
	var f iirlp
	f.init(lFreq, yFreq)

	for i := 0; i < 500; i++ {
		f.apply(1000)
	}
	assert.InDelta(t, 1000, f.apply(1000), 2)
}

func TestIIRLPResetClearsHistory(t *testing.T) {
	var f iirlp
	f.init(lFreq, yFreq)
	for i := 0; i < 50; i++ {
		f.apply(500)
	}
	f.reset()
	assert.Equal(t, 0, f.h)
}

func TestIIRLPBoundedForBoundedInput(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		var f iirlp
		f.init(lFreq, yFreq)
		n := rapid.IntRange(1, 200).Draw(t, "n")
		for i := 0; i < n; i++ {
			s := rapid.IntRange(-127, 127).Draw(t, "s")
			out := f.apply(s)
			assert.LessOrEqual(t, out, 127)
			assert.GreaterOrEqual(t, out, -127)
		}
	})
}

func TestEQFResetClearsState(t *testing.T) {
	var f eqf
	f.init(khz2L(1500), khz2L(3000), hres, 65536, 8192, 9175)
	for i := 0; i < 20; i++ {
		f.apply(500)
	}
	f.reset()
	assert.Equal(t, [4]int{}, f.fL)
	assert.Equal(t, [4]int{}, f.fH)
	assert.Equal(t, [histLen]int{}, f.h)
}

func TestEQFZeroInputStaysZero(t *testing.T) {
	var f eqf
	f.init(khz2L(80), khz2L(1150), hres, 65536, 65536, 1311)
	for i := 0; i < 10; i++ {
		assert.Equal(t, 0, f.apply(0))
	}
}
