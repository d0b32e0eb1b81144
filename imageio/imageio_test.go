package imageio

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testImage() *Image {
	img := &Image{W: 4, H: 3, Pix: make([]byte, 4*3*3)}
	for i := range img.Pix {
		img.Pix[i] = byte(i * 7 % 256)
	}
	return img
}

func TestPPMRoundTrip(t *testing.T) {
	img := testImage()
	var buf bytes.Buffer
	require.NoError(t, WritePPM(&buf, img))

	got, err := ReadPPM(&buf)
	require.NoError(t, err)
	assert.Equal(t, img.W, got.W)
	assert.Equal(t, img.H, got.H)
	assert.Equal(t, img.Pix, got.Pix)
}

func TestPPMRejectsBadMagic(t *testing.T) {
	_, err := ReadPPM(bytes.NewReader([]byte("P5\n4 3\n255\n")))
	assert.Error(t, err)
}

func TestBMPRoundTrip(t *testing.T) {
	img := testImage()
	var buf bytes.Buffer
	require.NoError(t, WriteBMP(&buf, img))

	got, err := ReadBMP(&buf)
	require.NoError(t, err)
	assert.Equal(t, img.W, got.W)
	assert.Equal(t, img.H, got.H)
	assert.Equal(t, img.Pix, got.Pix)
}

func TestBMPRejectsBadMagic(t *testing.T) {
	_, err := ReadBMP(bytes.NewReader(make([]byte, 54)))
	assert.Error(t, err)
}
