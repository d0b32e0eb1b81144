package sdr

import (
	"fmt"
	"log"

	rtl "github.com/jpoirier/gortlsdr"

	"github.com/indigoparadox/ntsccrt/config"
	"github.com/indigoparadox/ntsccrt/crt"
)

// OpenDevice opens RTL-SDR device 0 and configures it per cfg.
func OpenDevice(cfg *config.RX) (*rtl.Context, error) {
	devCount := rtl.GetDeviceCount()
	if devCount == 0 {
		return nil, fmt.Errorf("sdr: no RTL-SDR devices found")
	}
	log.Printf("sdr: found %d RTL-SDR device(s), using device 0", devCount)

	dev, err := rtl.Open(0)
	if err != nil {
		return nil, fmt.Errorf("sdr: opening device: %w", err)
	}

	if err := dev.SetCenterFreq(cfg.FrequencyHz); err != nil {
		dev.Close()
		return nil, fmt.Errorf("sdr: SetCenterFreq: %w", err)
	}
	if err := dev.SetSampleRate(cfg.SampleRateHz); err != nil {
		dev.Close()
		return nil, fmt.Errorf("sdr: SetSampleRate: %w", err)
	}
	// SetTunerGainMode takes "manual mode", the inverse of AGC.
	if err := dev.SetTunerGainMode(!cfg.AGC); err != nil {
		dev.Close()
		return nil, fmt.Errorf("sdr: SetTunerGainMode: %w", err)
	}
	if !cfg.AGC {
		if err := dev.SetTunerGain(cfg.Gain); err != nil {
			dev.Close()
			return nil, fmt.Errorf("sdr: SetTunerGain: %w", err)
		}
	}
	if err := dev.ResetBuffer(); err != nil {
		dev.Close()
		return nil, fmt.Errorf("sdr: ResetBuffer: %w", err)
	}
	return dev, nil
}

// Receiver AM-demodulates raw I/Q from an RTL-SDR device, finds each
// line's sync pulse by a coarse minimum search (raw RF has no fixed
// frame boundary yet, so the integrating sync search can't run here),
// and resamples the result directly onto a crt.State's analog buffer
// so State.Demodulate can run its real sync/chroma recovery on it.
type Receiver struct {
	state *crt.State

	blankLevel float64
	peakLevel  float64
}

// NewReceiver wraps state; Feed writes resampled lines into its
// analog buffer.
func NewReceiver(state *crt.State) *Receiver {
	return &Receiver{
		state:      state,
		blankLevel: 5000,
		peakLevel:  15000,
	}
}

// samplesPerLine returns how many I/Q samples make up one NTSC line
// at sampleRate, from the 525-line/frame, 30000/1001 fps timing.
func samplesPerLine(sampleRate int) int {
	const (
		frameRate     = 30000.0 / 1001.0
		linesPerFrame = 525.0
	)
	lineDuration := 1.0 / (frameRate * linesPerFrame)
	return int(lineDuration * float64(sampleRate))
}

// Feed AM-demodulates one buffer of raw I/Q samples (as read from
// dev.ReadSync) and resamples whatever complete lines it finds
// directly into the analog buffer of the wrapped crt.State, in crt's
// own hres-samples-per-line layout. It does not attempt to track
// field/frame boundaries itself; that is left to State.Demodulate's
// own vertical sync search once enough lines have accumulated.
func (r *Receiver) Feed(iq []byte, sampleRate int) {
	spl := samplesPerLine(sampleRate)
	if spl <= 0 || len(iq) < spl*4 {
		return
	}

	am := make([]float64, len(iq)/2)
	for i := range am {
		ii := float64(int(iq[i*2]) - 127)
		iq2 := float64(int(iq[i*2+1]) - 127)
		am[i] = ii*ii + iq2*iq2
	}

	analog := r.state.Analog()
	line := 0
	pos := 0
	for pos < len(am)-spl && line < crt.VRes {
		minVal := am[pos]
		minIdx := pos
		for i := 0; i < spl; i++ {
			if am[pos+i] < minVal {
				minVal = am[pos+i]
				minIdx = pos + i
			}
		}
		lineStart := minIdx
		if lineStart+spl > len(am) {
			break
		}

		r.blankLevel = r.blankLevel*0.995 + am[lineStart]*0.005
		maxInLine := 0.0
		for _, s := range am[lineStart : lineStart+spl] {
			if s > maxInLine {
				maxInLine = s
			}
		}
		r.peakLevel = r.peakLevel*0.995 + maxInLine*0.005

		levelRange := r.peakLevel - r.blankLevel
		if levelRange < 1 {
			levelRange = 1
		}

		dstBase := line * crt.HRes
		for x := 0; x < crt.HRes; x++ {
			srcIdx := lineStart + x*spl/crt.HRes
			if srcIdx >= len(am) {
				srcIdx = len(am) - 1
			}
			norm := (am[srcIdx] - r.blankLevel) / levelRange
			ire := int(norm*float64(crt.WhiteLevel-crt.SyncLevel) + float64(crt.SyncLevel))
			if ire > 127 {
				ire = 127
			}
			if ire < -127 {
				ire = -127
			}
			analog[dstBase+x] = int8(ire)
		}

		line++
		pos = lineStart + spl
	}
}
