// Package terminal implements a text mode screen for the machine display
// using gocui. Two display rows are packed into one terminal row using
// half block characters.
package terminal

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/jroimartin/gocui"
	"github.com/mattn/go-runewidth"
	"github.com/retroenv/retrochip8/internal/keypad"
	"github.com/retroenv/retrochip8/internal/machine"
)

const (
	displayView = "display"
	statusView  = "status"
)

const (
	blank      = ' '
	upperHalf  = '▀'
	lowerHalf  = '▄'
	fullBlock  = '█'
	bellSignal = '\a'
)

// Screen renders the machine display to the terminal and forwards key
// presses to a keypad.
type Screen struct {
	g      *gocui.Gui
	keymap keypad.Map
	keypad *keypad.Keypad
	bell   io.Writer
	title  string
	status string
	width  int // display width in terminal cells

	mu      sync.Mutex
	frame   string
	pending bool // a draw of frame is queued
}

// New initializes the terminal. Close has to be called to restore the
// terminal state.
func New(keymap keypad.Map, kp *keypad.Keypad, title, status string) (*Screen, error) {
	g, err := gocui.NewGui(gocui.OutputNormal)
	if err != nil {
		return nil, fmt.Errorf("initializing terminal: %w", err)
	}

	s := &Screen{
		g:      g,
		keymap: keymap,
		keypad: kp,
		bell:   os.Stdout,
		title:  title,
		status: status,
		width:  machine.Width * runewidth.RuneWidth(fullBlock),
	}
	g.InputEsc = true
	g.SetManagerFunc(s.layout)

	if err := s.bindKeys(); err != nil {
		g.Close()
		return nil, err
	}
	return s, nil
}

// Close restores the terminal.
func (s *Screen) Close() {
	s.g.Close()
}

// MainLoop processes terminal events until the user quits or Stop is called.
func (s *Screen) MainLoop() error {
	if err := s.g.MainLoop(); err != nil && !errors.Is(err, gocui.ErrQuit) {
		return err
	}
	return nil
}

// Stop ends the main loop. A nil error ends it like a user initiated quit.
func (s *Screen) Stop(err error) {
	s.g.Update(func(*gocui.Gui) error {
		if err == nil {
			return gocui.ErrQuit
		}
		return err
	})
}

// Render schedules the display for drawing. Only the most recent display
// is drawn if the terminal falls behind.
func (s *Screen) Render(display machine.Display) error {
	content := strings.Join(RenderRows(display), "\n")

	s.mu.Lock()
	defer s.mu.Unlock()
	s.frame = content
	if !s.pending {
		s.pending = true
		s.g.Update(s.draw)
	}
	return nil
}

func (s *Screen) draw(g *gocui.Gui) error {
	s.mu.Lock()
	content := s.frame
	s.pending = false
	s.mu.Unlock()

	v, err := g.View(displayView)
	if err != nil {
		return err
	}
	v.Clear()
	_, err = fmt.Fprint(v, content)
	return err
}

// Beep rings the terminal bell.
func (s *Screen) Beep() {
	_, _ = fmt.Fprintf(s.bell, "%c", bellSignal)
}

// RenderRows converts the display into terminal rows, every row holds two
// display rows.
func RenderRows(display machine.Display) []string {
	rows := make([]string, 0, machine.Height/2)
	var sb strings.Builder

	for y := 0; y < machine.Height; y += 2 {
		sb.Reset()
		for x := range machine.Width {
			sb.WriteRune(cell(display[y][x], display[y+1][x]))
		}
		rows = append(rows, sb.String())
	}
	return rows
}

func cell(upper, lower uint8) rune {
	switch {
	case upper != 0 && lower != 0:
		return fullBlock
	case upper != 0:
		return upperHalf
	case lower != 0:
		return lowerHalf
	default:
		return blank
	}
}

func (s *Screen) layout(g *gocui.Gui) error {
	displayHeight := machine.Height / 2

	if v, err := g.SetView(displayView, 0, 0, s.width+1, displayHeight+1); err != nil {
		if !errors.Is(err, gocui.ErrUnknownView) {
			return err
		}
		v.Title = s.title
	}

	if v, err := g.SetView(statusView, 0, displayHeight+2, s.width+1, displayHeight+4); err != nil {
		if !errors.Is(err, gocui.ErrUnknownView) {
			return err
		}
		v.Title = "Status"
		_, _ = fmt.Fprint(v, s.status)
	}
	return nil
}

func (s *Screen) bindKeys() error {
	for _, key := range []gocui.Key{gocui.KeyCtrlC, gocui.KeyEsc} {
		if err := s.g.SetKeybinding("", key, gocui.ModNone, quit); err != nil {
			return fmt.Errorf("binding quit key: %w", err)
		}
	}

	for _, r := range s.keymap.Runes() {
		handler := s.pressHandler(r)
		for _, variant := range caseVariants(r) {
			if err := s.g.SetKeybinding("", variant, gocui.ModNone, handler); err != nil {
				return fmt.Errorf("binding key '%c': %w", variant, err)
			}
		}
	}
	return nil
}

func (s *Screen) pressHandler(r rune) func(*gocui.Gui, *gocui.View) error {
	return func(*gocui.Gui, *gocui.View) error {
		if key, ok := s.keymap.Key(r); ok {
			s.keypad.Press(key, time.Now())
		}
		return nil
	}
}

// caseVariants returns the rune and its upper case version if it differs.
func caseVariants(r rune) []rune {
	upper := []rune(strings.ToUpper(string(r)))
	if len(upper) == 1 && upper[0] != r {
		return []rune{r, upper[0]}
	}
	return []rune{r}
}

func quit(*gocui.Gui, *gocui.View) error {
	return gocui.ErrQuit
}
