package crt

// Settings describes one field's worth of modulation input: the
// source image, how to scale/place it, and the field/frame/hue
// applied to this call. A Settings value is typically reconstructed
// per field (it is cheap); the modulator IIR init latch lives on
// State instead, since State is what actually persists across calls.
type Settings struct {
	Data   []byte // source pixel data
	Format int    // one of the PixFormat constants
	W, H   int    // source image dimensions

	Raw     bool // true: don't scale image to fit the monitor raster
	AsColor bool // false: monochrome (no chroma burst or modulation)
	Field   int  // 0 = even, 1 = odd
	Frame   int  // 0 = even, 1 = odd
	Hue     int  // 0-359

	XOffset, YOffset int // sample/line offset into the analog raster
}
