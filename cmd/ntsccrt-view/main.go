// Command ntsccrt-view opens the interactive terminal viewer against a
// still image (or, absent one, a generated color-bars test card),
// re-modulating and demodulating it every tick with live keyboard
// control over the presentation knobs.
package main

import (
	"bufio"
	"log"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/indigoparadox/ntsccrt/config"
	"github.com/indigoparadox/ntsccrt/crt"
	"github.com/indigoparadox/ntsccrt/imageio"
	"github.com/indigoparadox/ntsccrt/viewer"
)

func main() {
	cfg := config.ParseView()

	var img *imageio.Image
	if cfg.Input != "" {
		loaded, err := loadImage(cfg.Input)
		if err != nil {
			log.Fatalf("ntsccrt-view: %v", err)
		}
		img = loaded
	} else {
		const w, h = 280, 210
		img = &imageio.Image{W: w, H: h, Pix: make([]byte, w*h*3)}
		fillColorBars(img.Pix, w, h)
	}

	const outw, outh = 568, 480
	out := make([]byte, outw*outh*3)
	state := crt.NewState(outw, outh, crt.PixFormatRGB, out)
	state.Scanlines = true

	src := crt.Settings{
		Data:    img.Pix,
		Format:  crt.PixFormatRGB,
		W:       img.W,
		H:       img.H,
		AsColor: true,
	}

	m := viewer.NewModel(state, src)
	if _, err := tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil {
		log.Fatalf("ntsccrt-view: %v", err)
	}
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

// fillColorBars paints the classic 7-stripe SMPTE color bars.
func fillColorBars(buf []byte, w, h int) {
	bars := [7][3]byte{
		{192, 192, 192},
		{192, 192, 0},
		{0, 192, 192},
		{0, 192, 0},
		{192, 0, 192},
		{192, 0, 0},
		{0, 0, 192},
	}
	barWidth := w / 7
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			bar := x / barWidth
			if bar >= 7 {
				bar = 6
			}
			i := (y*w + x) * 3
			buf[i], buf[i+1], buf[i+2] = bars[bar][0], bars[bar][1], bars[bar][2]
		}
	}
}
