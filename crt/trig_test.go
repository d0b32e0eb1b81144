package crt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func TestSinCos14QuadrantIdentities(t *testing.T) {
	// sin(0) == 0, cos(0) == max
	s, c := sincos14(0)
	assert.Equal(t, 0, s)
	assert.Equal(t, 0x8000, c)

	// sin(pi/2) == max, cos(pi/2) == 0
	s, c = sincos14(t142Pi / 4)
	assert.InDelta(t, 0x8000, s, 1)
	assert.InDelta(t, 0, c, 1)

	// sin(pi) == 0, cos(pi) == -max
	s, c = sincos14(t142Pi / 2)
	assert.InDelta(t, 0, s, 1)
	assert.InDelta(t, -0x8000, c, 1)
}

func TestSinCos14Bounded(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(-100000, 100000).Draw(t, "n")
		s, c := sincos14(n)
		assert.LessOrEqual(t, s, 0x8000)
		assert.GreaterOrEqual(t, s, -0x8000)
		assert.LessOrEqual(t, c, 0x8000)
		assert.GreaterOrEqual(t, c, -0x8000)
	})
}

func TestSinCos14Periodic(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(-50000, 50000).Draw(t, "n")
		s1, c1 := sincos14(n)
		s2, c2 := sincos14(n + t142Pi)
		assert.Equal(t, s1, s2)
		assert.Equal(t, c1, c2)
	})
}

func TestExpxZeroIsOne(t *testing.T) {
	assert.Equal(t, expOne, expx(0))
}

func TestExpxNegativeIsReciprocal(t *testing.T) {
	// expx(-n) * expx(n) should be approximately expOne^2 scaled back down,
	// i.e. roughly expOne once divided back by the fixed point scale.
	n := 3 * expOne
	pos := expx(n)
	neg := expx(-n)
	assert.Greater(t, pos, 0)
	assert.Greater(t, neg, 0)
	product := (pos * neg) >> expP
	assert.InDelta(t, expOne, product, float64(expOne)/50)
}
