// Package imageio reads and writes the two raster formats the batch
// CLI accepts: binary PPM (P6) and uncompressed 24/32-bit BMP. Both
// are exposed as plain RGB byte buffers so callers can hand them
// straight to crt.Settings.Data.
package imageio

import (
	"bufio"
	"fmt"
	"io"
)

// Image is a decoded raster: W x H pixels, 3 bytes per pixel, tightly
// packed RGB (crt.PixFormatRGB).
type Image struct {
	W, H int
	Pix  []byte
}

// ReadPPM decodes a binary (P6) PPM image.
func ReadPPM(r io.Reader) (*Image, error) {
	br := bufio.NewReader(r)

	magic, err := readToken(br)
	if err != nil {
		return nil, fmt.Errorf("ppm: reading magic: %w", err)
	}
	if magic != "P6" {
		return nil, fmt.Errorf("ppm: unsupported magic %q, only P6 is supported", magic)
	}

	w, err := readIntToken(br)
	if err != nil {
		return nil, fmt.Errorf("ppm: reading width: %w", err)
	}
	h, err := readIntToken(br)
	if err != nil {
		return nil, fmt.Errorf("ppm: reading height: %w", err)
	}
	maxval, err := readIntToken(br)
	if err != nil {
		return nil, fmt.Errorf("ppm: reading maxval: %w", err)
	}
	if maxval != 255 {
		return nil, fmt.Errorf("ppm: unsupported maxval %d, only 255 is supported", maxval)
	}
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("ppm: invalid dimensions %dx%d", w, h)
	}

	pix := make([]byte, w*h*3)
	if _, err := io.ReadFull(br, pix); err != nil {
		return nil, fmt.Errorf("ppm: reading pixel data: %w", err)
	}
	return &Image{W: w, H: h, Pix: pix}, nil
}

// WritePPM encodes img as a binary (P6) PPM image.
func WritePPM(w io.Writer, img *Image) error {
	if len(img.Pix) != img.W*img.H*3 {
		return fmt.Errorf("ppm: pixel buffer length %d does not match %dx%d RGB", len(img.Pix), img.W, img.H)
	}
	if _, err := fmt.Fprintf(w, "P6\n%d %d\n255\n", img.W, img.H); err != nil {
		return fmt.Errorf("ppm: writing header: %w", err)
	}
	if _, err := w.Write(img.Pix); err != nil {
		return fmt.Errorf("ppm: writing pixel data: %w", err)
	}
	return nil
}

// readToken reads a whitespace-delimited token, skipping '#' comment
// lines the way the PPM format requires.
func readToken(br *bufio.Reader) (string, error) {
	var tok []byte
	for {
		b, err := br.ReadByte()
		if err != nil {
			return "", err
		}
		if b == '#' {
			if err := skipLine(br); err != nil {
				return "", err
			}
			continue
		}
		if isSpace(b) {
			if len(tok) > 0 {
				return string(tok), nil
			}
			continue
		}
		tok = append(tok, b)
	}
}

func readIntToken(br *bufio.Reader) (int, error) {
	tok, err := readToken(br)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, c := range []byte(tok) {
		if c < '0' || c > '9' {
			return 0, fmt.Errorf("expected integer, got %q", tok)
		}
		n = n*10 + int(c-'0')
	}
	return n, nil
}

func skipLine(br *bufio.Reader) error {
	for {
		b, err := br.ReadByte()
		if err != nil {
			return err
		}
		if b == '\n' {
			return nil
		}
	}
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}
