package imageio

import (
	"encoding/binary"
	"fmt"
	"io"
)

const (
	bmpFileHeaderSize = 14
	bmpInfoHeaderSize = 40
)

// ReadBMP decodes an uncompressed 24 or 32 bit BMP image
// (BITMAPINFOHEADER, bottom-up row order) into RGB.
func ReadBMP(r io.Reader) (*Image, error) {
	header := make([]byte, bmpFileHeaderSize+bmpInfoHeaderSize)
	if _, err := io.ReadFull(r, header); err != nil {
		return nil, fmt.Errorf("bmp: reading header: %w", err)
	}
	if header[0] != 'B' || header[1] != 'M' {
		return nil, fmt.Errorf("bmp: bad magic %q", header[0:2])
	}
	pixelOffset := binary.LittleEndian.Uint32(header[10:14])
	width := int(int32(binary.LittleEndian.Uint32(header[18:22])))
	height := int(int32(binary.LittleEndian.Uint32(header[22:26])))
	bpp := binary.LittleEndian.Uint16(header[28:30])
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("bmp: invalid dimensions %dx%d", width, height)
	}
	if bpp != 24 && bpp != 32 {
		return nil, fmt.Errorf("bmp: unsupported bit depth %d, only 24/32 are supported", bpp)
	}
	bytesPerPix := int(bpp / 8)

	if skip := int(pixelOffset) - len(header); skip > 0 {
		if _, err := io.CopyN(io.Discard, r, int64(skip)); err != nil {
			return nil, fmt.Errorf("bmp: skipping to pixel data: %w", err)
		}
	}

	rowSize := width * bytesPerPix
	padding := (4 - (rowSize % 4)) % 4
	row := make([]byte, rowSize+padding)

	pix := make([]byte, width*height*3)
	// Rows are stored bottom-up.
	for y := height - 1; y >= 0; y-- {
		if _, err := io.ReadFull(r, row); err != nil {
			return nil, fmt.Errorf("bmp: reading row %d: %w", y, err)
		}
		for x := 0; x < width; x++ {
			b := row[x*bytesPerPix+0]
			g := row[x*bytesPerPix+1]
			rr := row[x*bytesPerPix+2]
			dst := (y*width + x) * 3
			pix[dst+0] = rr
			pix[dst+1] = g
			pix[dst+2] = b
		}
	}
	return &Image{W: width, H: height, Pix: pix}, nil
}

// WriteBMP encodes img as an uncompressed 32-bit BMP, BGRA on disk.
func WriteBMP(w io.Writer, img *Image) error {
	if len(img.Pix) != img.W*img.H*3 {
		return fmt.Errorf("bmp: pixel buffer length %d does not match %dx%d RGB", len(img.Pix), img.W, img.H)
	}
	const bpp = 4
	rowSize := img.W * bpp
	padding := (4 - (rowSize % 4)) % 4
	fileSize := bmpFileHeaderSize + bmpInfoHeaderSize + rowSize*img.H + padding*img.H

	fileHeader := make([]byte, bmpFileHeaderSize)
	fileHeader[0], fileHeader[1] = 'B', 'M'
	binary.LittleEndian.PutUint32(fileHeader[2:6], uint32(fileSize))
	binary.LittleEndian.PutUint32(fileHeader[10:14], bmpFileHeaderSize+bmpInfoHeaderSize)

	infoHeader := make([]byte, bmpInfoHeaderSize)
	binary.LittleEndian.PutUint32(infoHeader[0:4], bmpInfoHeaderSize)
	binary.LittleEndian.PutUint32(infoHeader[4:8], uint32(img.W))
	binary.LittleEndian.PutUint32(infoHeader[8:12], uint32(img.H))
	binary.LittleEndian.PutUint16(infoHeader[12:14], 1) // planes
	binary.LittleEndian.PutUint16(infoHeader[14:16], bpp*8)

	if _, err := w.Write(fileHeader); err != nil {
		return fmt.Errorf("bmp: writing file header: %w", err)
	}
	if _, err := w.Write(infoHeader); err != nil {
		return fmt.Errorf("bmp: writing info header: %w", err)
	}

	pad := make([]byte, padding)
	row := make([]byte, rowSize)
	for y := img.H - 1; y >= 0; y-- {
		for x := 0; x < img.W; x++ {
			src := (y*img.W + x) * 3
			row[x*bpp+0] = img.Pix[src+2] // B
			row[x*bpp+1] = img.Pix[src+1] // G
			row[x*bpp+2] = img.Pix[src+0] // R
			row[x*bpp+3] = 255            // A
		}
		if _, err := w.Write(row); err != nil {
			return fmt.Errorf("bmp: writing row %d: %w", y, err)
		}
		if padding > 0 {
			if _, err := w.Write(pad); err != nil {
				return fmt.Errorf("bmp: writing row padding: %w", err)
			}
		}
	}
	return nil
}
