// Package config parses the command-line flags for ntsccrt's four
// entrypoints: batch image conversion, the interactive viewer, HackRF
// transmit, and RTL-SDR receive. Each entrypoint parses once into its
// own struct and never touches flag state again.
package config

import "github.com/spf13/pflag"

// FixedSampleRate is the I/Q sample rate used for both TX and RX.
// 2 Msps is comfortably within what an RTL-SDR can sustain while
// still oversampling the composite signal's ~500 kHz of useful width.
const FixedSampleRate = 2_000_000

// Batch holds the settings for the offline image-file modulate/
// demodulate CLI.
type Batch struct {
	Input     string
	Output    string
	Mono      bool
	Raw       bool
	Field     int
	Frame     int
	Hue       int
	Passes    int
	Noise     int
	Overwrite bool
}

// ParseBatch parses os.Args (via pflag.CommandLine) into a Batch.
func ParseBatch() *Batch {
	cfg := &Batch{}
	pflag.StringVarP(&cfg.Input, "input", "i", "", "input image path (.ppm or .bmp)")
	pflag.StringVarP(&cfg.Output, "output", "o", "", "output image path (.ppm or .bmp)")
	pflag.BoolVar(&cfg.Mono, "mono", false, "suppress chroma, producing a monochrome picture")
	pflag.BoolVar(&cfg.Raw, "raw", false, "treat the input as a 1:1 raw analog source rather than scaling it")
	pflag.IntVar(&cfg.Field, "field", 0, "initial field parity (0 or 1)")
	pflag.IntVar(&cfg.Frame, "frame", 0, "initial frame parity (0 or 1), affects chroma phase")
	pflag.IntVar(&cfg.Hue, "hue", 0, "hue rotation in degrees")
	pflag.IntVar(&cfg.Passes, "passes", 4, "number of modulate/demodulate passes to converge the signal")
	pflag.IntVar(&cfg.Noise, "noise", 0, "demodulator noise amplitude")
	pflag.BoolVarP(&cfg.Overwrite, "force", "f", false, "overwrite the output file if it already exists")
	pflag.Parse()
	return cfg
}

// View holds the settings for the interactive terminal viewer.
type View struct {
	Input string
}

// ParseView parses the viewer's flags.
func ParseView() *View {
	cfg := &View{}
	pflag.StringVarP(&cfg.Input, "input", "i", "", "input image path to preview (defaults to a color-bars test card)")
	pflag.Parse()
	return cfg
}

// TX holds the settings for the HackRF transmitter.
type TX struct {
	FrequencyHz uint64
	SampleRate  float64
	Gain        int
	AmpEnable   bool
	Input       string
	Loop        bool
}

// ParseTX parses the HackRF transmitter flags.
func ParseTX() *TX {
	cfg := &TX{}
	freqMHz := pflag.Float64P("freq", "f", 427.25, "transmit frequency in MHz")
	pflag.IntVarP(&cfg.Gain, "gain", "g", 30, "TX VGA gain (0-47)")
	pflag.BoolVar(&cfg.AmpEnable, "amp", false, "enable the HackRF's RF amplifier")
	pflag.StringVarP(&cfg.Input, "input", "i", "", "input image path to transmit, repeated as a test card")
	pflag.BoolVarP(&cfg.Loop, "loop", "l", true, "keep re-modulating the input image with alternating fields while transmitting")
	pflag.Parse()
	cfg.FrequencyHz = uint64(*freqMHz * 1_000_000)
	cfg.SampleRate = FixedSampleRate
	return cfg
}

// RX holds the settings for the RTL-SDR receiver.
type RX struct {
	FrequencyHz  int
	SampleRateHz int
	Gain         int
	AGC          bool
	Output       string
}

// ParseRX parses the RTL-SDR receiver flags.
func ParseRX() *RX {
	cfg := &RX{}
	freqMHz := pflag.Float64P("freq", "f", 427.25, "center frequency in MHz")
	bwMHz := pflag.Float64("bw", FixedSampleRate/1e6, "sample rate in MHz")
	pflag.IntVarP(&cfg.Gain, "gain", "g", 496, "tuner gain in tenths of a dB")
	pflag.BoolVar(&cfg.AGC, "agc", false, "use the tuner's automatic gain control instead of manual gain")
	pflag.StringVarP(&cfg.Output, "output", "o", "", "write each decoded frame to this image path")
	pflag.Parse()
	cfg.FrequencyHz = int(*freqMHz * 1_000_000)
	cfg.SampleRateHz = int(*bwMHz * 1_000_000)
	return cfg
}
