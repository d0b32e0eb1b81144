// Package viewer renders a crt.State's output image live in a
// terminal, using bubbletea for the key-driven event loop and
// lipgloss truecolor half-blocks as the screen. Every knob a CRT's
// front panel would carry is bound to a key, and frames decay into
// each other through a phosphor-afterglow blend.
package viewer

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/indigoparadox/ntsccrt/crt"
)

// Model is the bubbletea model driving one crt.State. Source is the
// RGB settings template re-modulated every tick; FadePhos toggles
// phosphor-decay compositing versus a hard replace between frames.
type Model struct {
	State       *crt.State
	Source      crt.Settings
	Noise       int
	Field       int
	Progressive int
	Color       bool
	FadePhos    bool
	Raw         bool

	phosphor []byte // previous composited frame, len == len(State.Out), laid out in State.OutFormat
	quit     bool
}

// NewModel builds a viewer Model targeting state, re-modulating src
// on every tick.
func NewModel(state *crt.State, src crt.Settings) *Model {
	return &Model{
		State:    state,
		Source:   src,
		Noise:    12,
		Color:    true,
		FadePhos: true,
	}
}

type tickMsg struct{}

// framePeriod paces re-modulation; ~30 fields/sec keeps even a slow
// terminal responsive.
const framePeriod = 33 * time.Millisecond

func tick() tea.Cmd {
	return tea.Tick(framePeriod, func(time.Time) tea.Msg { return tickMsg{} })
}

func (m *Model) Init() tea.Cmd { return tick() }

// fadePhosphors decays phosphor in place, summing four progressively
// right-shifted copies of each channel (15/16 of the previous value).
func fadePhosphors(buf []byte) {
	for i, c := range buf {
		buf[i] = c>>1&0x7f + c>>2&0x3f + c>>3&0x1f + c>>4&0x0f
	}
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "esc", "ctrl+c":
			m.quit = true
			return m, tea.Quit
		case "q":
			m.State.BlackPoint++
		case "a":
			m.State.BlackPoint--
		case "w":
			m.State.WhitePoint++
		case "s":
			m.State.WhitePoint--
		case "up":
			m.State.Brightness++
		case "down":
			m.State.Brightness--
		case "left":
			m.State.Contrast--
		case "right":
			m.State.Contrast++
		case "1":
			m.State.Saturation--
		case "2":
			m.State.Saturation++
		case "3":
			if m.Noise > 0 {
				m.Noise--
			}
		case "4":
			m.Noise++
		case "5":
			m.Source.Hue = (m.Source.Hue + 359) % 360
		case "6":
			m.Source.Hue = (m.Source.Hue + 1) % 360
		case "7":
			m.State.Hue--
		case "8":
			m.State.Hue++
		case " ":
			m.Color = !m.Color
		case "m":
			m.FadePhos = !m.FadePhos
		case "r":
			m.State.Reset()
		case "g":
			m.State.Scanlines = !m.State.Scanlines
		case "b":
			m.State.Blend = !m.State.Blend
		case "f":
			m.Field ^= 1
		case "e":
			m.Progressive ^= 1
		case "t":
			if !m.Raw {
				m.State.ClearAnalog()
			}
			m.Raw = !m.Raw
		}
		return m, nil

	case tickMsg:
		m.step()
		return m, tick()
	}
	return m, nil
}

// step re-modulates and demodulates one field, then composites the
// result into the phosphor buffer.
func (m *Model) step() {
	s := m.Source
	s.Raw = m.Raw
	s.AsColor = m.Color
	s.Field = m.Field
	if m.Progressive != 0 {
		s.Field = 0
	}

	m.State.Modulate(&s)
	m.State.Demodulate(m.Noise)

	if m.phosphor == nil || len(m.phosphor) != len(m.State.Out) {
		m.phosphor = make([]byte, len(m.State.Out))
	}
	if m.FadePhos {
		fadePhosphors(m.phosphor)
		for i, c := range m.State.Out {
			sum := int(m.phosphor[i]) + int(c)
			if sum > 255 {
				sum = 255
			}
			m.phosphor[i] = byte(sum)
		}
	} else {
		copy(m.phosphor, m.State.Out)
	}
}

// View renders the phosphor buffer as a grid of half-height ANSI
// truecolor blocks (each terminal cell packs two source rows via
// foreground/background color) so a 240-line field fits a normal
// terminal window.
func (m *Model) View() string {
	if m.quit {
		return ""
	}
	bpp := crt.BytesPerPixel(m.State.OutFormat)
	if bpp == 0 || len(m.phosphor) == 0 {
		return "no signal"
	}
	w, h := m.State.Outw, m.State.Outh
	var b strings.Builder
	for y := 0; y+1 < h; y += 2 {
		for x := 0; x < w; x++ {
			top := pixelRGB(m.phosphor, (y*w+x)*bpp, m.State.OutFormat)
			bot := pixelRGB(m.phosphor, ((y+1)*w+x)*bpp, m.State.OutFormat)
			style := lipgloss.NewStyle().
				Foreground(lipgloss.Color(hexColor(top))).
				Background(lipgloss.Color(hexColor(bot)))
			b.WriteString(style.Render("▀")) // upper half block
		}
		b.WriteByte('\n')
	}
	b.WriteString(fmt.Sprintf("hue=%d sat=%d bright=%d contrast=%d noise=%d color=%v blend=%v scan=%v raw=%v\n",
		m.State.Hue, m.State.Saturation, m.State.Brightness, m.State.Contrast, m.Noise, m.Color, m.State.Blend, m.State.Scanlines, m.Raw))
	return b.String()
}

type rgb struct{ r, g, b byte }

func pixelRGB(buf []byte, off, format int) rgb {
	if off+crt.BytesPerPixel(format) > len(buf) {
		return rgb{}
	}
	switch format {
	case crt.PixFormatBGR:
		return rgb{buf[off+2], buf[off+1], buf[off+0]}
	case crt.PixFormatARGB:
		return rgb{buf[off+1], buf[off+2], buf[off+3]}
	case crt.PixFormatRGBA:
		return rgb{buf[off+0], buf[off+1], buf[off+2]}
	case crt.PixFormatABGR:
		return rgb{buf[off+3], buf[off+2], buf[off+1]}
	case crt.PixFormatBGRA:
		return rgb{buf[off+2], buf[off+1], buf[off+0]}
	default: // PixFormatRGB
		return rgb{buf[off+0], buf[off+1], buf[off+2]}
	}
}

func hexColor(c rgb) string {
	return fmt.Sprintf("#%02x%02x%02x", c.r, c.g, c.b)
}
