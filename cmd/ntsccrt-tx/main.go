// Command ntsccrt-tx modulates a still image into the analog NTSC
// signal and streams it out over a HackRF, looping the same picture
// the way a test-card transmitter would.
package main

import (
	"bufio"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/samuel/go-hackrf/hackrf"

	"github.com/indigoparadox/ntsccrt/anneal"
	"github.com/indigoparadox/ntsccrt/config"
	"github.com/indigoparadox/ntsccrt/crt"
	"github.com/indigoparadox/ntsccrt/imageio"
	"github.com/indigoparadox/ntsccrt/sdr"
)

func main() {
	cfg := config.ParseTX()
	if cfg.Input == "" {
		log.Fatal("ntsccrt-tx: --input is required")
	}

	img, err := loadImage(cfg.Input)
	if err != nil {
		log.Fatalf("ntsccrt-tx: %v", err)
	}
	log.Printf("ntsccrt-tx: loaded %s (%dx%d)", cfg.Input, img.W, img.H)

	const outw, outh = 832, 624
	out := make([]byte, outw*outh*3)
	v := crt.NewState(outw, outh, crt.PixFormatRGB, out)
	v.Blend = true
	v.Scanlines = true

	base := crt.Settings{
		Data:    img.Pix,
		Format:  crt.PixFormatRGB,
		W:       img.W,
		H:       img.H,
		AsColor: true,
	}
	anneal.Converge(v, base, anneal.DefaultPasses)

	if err := hackrf.Init(); err != nil {
		log.Fatalf("ntsccrt-tx: hackrf.Init: %v", err)
	}
	defer hackrf.Exit()

	dev, err := hackrf.Open()
	if err != nil {
		log.Fatalf("ntsccrt-tx: hackrf.Open: %v", err)
	}
	defer dev.Close()

	tx := sdr.NewTransmitter(v)

	if cfg.Loop {
		go func() {
			ticker := time.NewTicker(200 * time.Millisecond)
			defer ticker.Stop()
			field := 0
			for range ticker.C {
				s := base
				s.Field = field & 1
				field++
				tx.Refresh(func(v *crt.State) {
					v.Modulate(&s)
					v.Demodulate(0)
				})
			}
		}()
	}

	log.Printf("ntsccrt-tx: transmitting on %.3f MHz", float64(cfg.FrequencyHz)/1e6)
	if err := tx.Start(dev, cfg); err != nil {
		log.Fatalf("ntsccrt-tx: StartTX: %v", err)
	}

	log.Println("ntsccrt-tx: transmission is live, press Ctrl+C to stop")
	select {}
}

func loadImage(path string) (*imageio.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if strings.EqualFold(filepath.Ext(path), ".ppm") {
		return imageio.ReadPPM(bufio.NewReader(f))
	}
	return imageio.ReadBMP(bufio.NewReader(f))
}
