// Command ntsccrt converts one image file through the NTSC
// modulate/demodulate pipeline: load a PPM/BMP, accumulate the
// requested number of modulate+demodulate passes, then write the
// result back out.
package main

import (
	"bufio"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/indigoparadox/ntsccrt/anneal"
	"github.com/indigoparadox/ntsccrt/config"
	"github.com/indigoparadox/ntsccrt/crt"
	"github.com/indigoparadox/ntsccrt/imageio"
)

func main() {
	cfg := config.ParseBatch()
	if cfg.Input == "" || cfg.Output == "" {
		log.Fatal("ntsccrt: --input and --output are required")
	}

	src, err := loadImage(cfg.Input)
	if err != nil {
		log.Fatalf("ntsccrt: %v", err)
	}
	log.Printf("ntsccrt: loaded %s (%dx%d)", cfg.Input, src.W, src.H)

	if !cfg.Overwrite {
		if _, err := os.Stat(cfg.Output); err == nil {
			if !promptOverwrite(cfg.Output) {
				log.Fatal("ntsccrt: not overwriting, exiting")
			}
		}
	}

	outw, outh := 832, 624
	out := make([]byte, outw*outh*3)
	v := crt.NewState(outw, outh, crt.PixFormatRGB, out)
	v.Blend = true
	v.Scanlines = true

	base := crt.Settings{
		Data:    src.Pix,
		Format:  crt.PixFormatRGB,
		W:       src.W,
		H:       src.H,
		Raw:     cfg.Raw,
		AsColor: !cfg.Mono,
		Field:   cfg.Field & 1,
		Frame:   cfg.Frame & 1,
		Hue:     cfg.Hue % 360,
	}

	log.Printf("ntsccrt: converting to %dx%d over %d passes...", outw, outh, cfg.Passes)
	anneal.ConvergeNoisy(v, base, cfg.Passes, cfg.Noise)

	if err := saveImage(cfg.Output, &imageio.Image{W: outw, H: outh, Pix: out}); err != nil {
		log.Fatalf("ntsccrt: %v", err)
	}
	log.Println("ntsccrt: done")
}

func loadImage(path string) (*imageio.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	if strings.EqualFold(filepath.Ext(path), ".ppm") {
		return imageio.ReadPPM(bufio.NewReader(f))
	}
	return imageio.ReadBMP(bufio.NewReader(f))
}

func saveImage(path string, img *imageio.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
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

func promptOverwrite(path string) bool {
	fmt.Printf("\n--- file (%s) already exists, overwrite? (y/n)\n", path)
	r := bufio.NewReader(os.Stdin)
	for {
		line, err := r.ReadString('\n')
		if err != nil {
			return false
		}
		switch strings.TrimSpace(line) {
		case "y", "Y":
			return true
		case "n", "N":
			return false
		}
	}
}
