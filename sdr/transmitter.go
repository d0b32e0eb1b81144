// Package sdr streams a crt.State's analog composite buffer over RF
// hardware: HackRF for transmit, RTL-SDR for receive.
package sdr

import (
	"fmt"
	"sync"

	"github.com/samuel/go-hackrf/hackrf"

	"github.com/indigoparadox/ntsccrt/config"
	"github.com/indigoparadox/ntsccrt/crt"
)

// ireToAmplitude maps a composite IRE sample (-40..100, sync tip to
// peak white) onto the -1..1 range the StartTX callback expects.
func ireToAmplitude(ire int8) float64 {
	const (
		lo = -40.0
		hi = 100.0
	)
	a := (float64(ire) - lo) / (hi - lo)
	if a < 0 {
		a = 0
	}
	if a > 1 {
		a = 1
	}
	return a*2 - 1
}

// Transmitter streams a *crt.State's analog buffer through an open
// HackRF device as an AM composite signal, reading the buffer under
// RLock for each StartTX fill so a concurrent Refresh is picked up on
// the next fill.
type Transmitter struct {
	mu    sync.RWMutex
	state *crt.State
}

// NewTransmitter wraps state for transmission.
func NewTransmitter(state *crt.State) *Transmitter {
	return &Transmitter{state: state}
}

// Refresh runs fn (typically a Modulate+Demodulate pair refreshing the
// picture being transmitted) under the Transmitter's write lock, so
// the StartTX callback never reads the analog buffer mid-update.
func (t *Transmitter) Refresh(fn func(*crt.State)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	fn(t.state)
}

// Start configures dev per cfg and begins a non-blocking transmit,
// looping over the analog buffer. It returns once StartTX has been
// issued; the callback keeps running on the HackRF library's own
// goroutine until the device is closed.
func (t *Transmitter) Start(dev *hackrf.Device, cfg *config.TX) error {
	if err := dev.SetFreq(cfg.FrequencyHz); err != nil {
		return fmt.Errorf("sdr: SetFreq: %w", err)
	}
	if err := dev.SetSampleRate(cfg.SampleRate); err != nil {
		return fmt.Errorf("sdr: SetSampleRate: %w", err)
	}
	if err := dev.SetTXVGAGain(cfg.Gain); err != nil {
		return fmt.Errorf("sdr: SetTXVGAGain: %w", err)
	}
	if err := dev.SetAmpEnable(cfg.AmpEnable); err != nil {
		return fmt.Errorf("sdr: SetAmpEnable: %w", err)
	}

	pos := 0
	return dev.StartTX(func(buf []byte) error {
		// Hold the read lock for the whole fill so Refresh can never
		// swap the picture mid-buffer.
		t.mu.RLock()
		defer t.mu.RUnlock()

		analog := t.state.Analog()
		n := len(analog)
		if n == 0 {
			for i := range buf {
				buf[i] = 0
			}
			return nil
		}

		samples := len(buf) / 2
		for i := 0; i < samples; i++ {
			amp := ireToAmplitude(analog[pos])
			buf[i*2] = byte(int8(amp * 127.0))
			buf[i*2+1] = 0

			pos++
			if pos >= n {
				pos = 0
			}
		}
		return nil
	})
}
