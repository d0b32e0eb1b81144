// Command ntsccrt-rx tunes an RTL-SDR dongle to a composite NTSC
// signal, AM-demodulates and resyncs it onto a crt.State's analog
// buffer, and periodically writes the decoded picture to an image
// file.
package main

import (
	"bufio"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	rtl "github.com/jpoirier/gortlsdr"

	"github.com/indigoparadox/ntsccrt/config"
	"github.com/indigoparadox/ntsccrt/crt"
	"github.com/indigoparadox/ntsccrt/imageio"
	"github.com/indigoparadox/ntsccrt/sdr"
)

func main() {
	cfg := config.ParseRX()

	dev, err := sdr.OpenDevice(cfg)
	if err != nil {
		log.Fatalf("ntsccrt-rx: %v", err)
	}
	defer dev.Close()

	log.Printf("ntsccrt-rx: tuned to %.3f MHz at %.3f Msps", float64(cfg.FrequencyHz)/1e6, float64(cfg.SampleRateHz)/1e6)

	const outw, outh = 640, 480
	out := make([]byte, outw*outh*3)
	state := crt.NewState(outw, outh, crt.PixFormatRGB, out)
	state.Blend = true

	rx := sdr.NewReceiver(state)

	var lastSave time.Time
	readBuffer := make([]byte, rtl.DefaultBufLength)

	log.Println("ntsccrt-rx: acquiring signal, press Ctrl+C to stop")
	for {
		n, err := dev.ReadSync(readBuffer, len(readBuffer))
		if err != nil {
			log.Fatalf("ntsccrt-rx: ReadSync: %v", err)
		}
		if n != len(readBuffer) {
			log.Printf("ntsccrt-rx: short read (%d/%d bytes)", n, len(readBuffer))
			continue
		}

		rx.Feed(readBuffer[:n], cfg.SampleRateHz)
		state.Demodulate(0)

		if cfg.Output == "" {
			continue
		}
		if time.Since(lastSave) < 200*time.Millisecond {
			continue
		}
		lastSave = time.Now()
		if err := saveImage(cfg.Output, &imageio.Image{W: outw, H: outh, Pix: out}); err != nil {
			log.Printf("ntsccrt-rx: saving frame: %v", err)
		}
	}
}

func saveImage(path string, img *imageio.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	if strings.EqualFold(filepath.Ext(path), ".ppm") {
		if err := imageio.WritePPM(w, img); err != nil {
			return err
		}
	} else if err := imageio.WriteBMP(w, img); err != nil {
		return err
	}
	return w.Flush()
}
