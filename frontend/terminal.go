// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package frontend

import (
	"context"
	"fmt"
	"image/color"
	goio "io"
	"log"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/pkg/term/termios"
	"golang.org/x/sys/unix"
	"golang.org/x/term"

	"github.com/ezrec/chip8/config"
	"github.com/ezrec/chip8/emulator"
	"github.com/ezrec/chip8/io"
)

const (
	KEY_ESCAPE = 0x1b

	TERMINAL_ROWS = io.DISPLAY_HEIGHT / 2 // Two pixel rows per text line.
)

// Terminal runs an emulator in a raw mode terminal.
//
// Terminals report key presses but not releases, so a key is held down
// for Config.Hold after its last press.
type Terminal struct {
	Verbose  bool
	Emulator *emulator.Emulator
	Config   *config.Config
	Beeper   *Beeper // Optional.

	In  *os.File
	Out *os.File

	keys    map[byte]byte
	steps   int
	release [config.KEY_COUNT]time.Time // Release deadline of held keys.
	drawn   bool
}

// NewTerminal creates a terminal frontend for the emulator, using the
// process's standard input and output.
func NewTerminal(emu *emulator.Emulator, cfg *config.Config, beeper *Beeper) (t *Terminal, err error) {
	keys, err := TerminalKeys(cfg.Keymap)
	if err != nil {
		return
	}

	t = &Terminal{
		Emulator: emu,
		Config:   cfg,
		Beeper:   beeper,
		In:       os.Stdin,
		Out:      os.Stdout,
		keys:     keys,
		steps:    emulator.StepsPerFrame(cfg.Rate),
	}

	return
}

// Run runs until Escape or an interrupt, the context is done, or the
// emulator faults.
func (t *Terminal) Run(ctx context.Context) (err error) {
	in := t.In.Fd()
	if !term.IsTerminal(int(in)) || !term.IsTerminal(int(t.Out.Fd())) {
		err = ErrNotTerminal
		return
	}

	width, height, err := term.GetSize(int(t.Out.Fd()))
	if err != nil {
		return
	}
	if width < io.DISPLAY_WIDTH || height < TERMINAL_ROWS {
		err = ErrTerminalSize
		return
	}

	var saved unix.Termios
	err = termios.Tcgetattr(in, &saved)
	if err != nil {
		return
	}
	raw := saved
	raw.Lflag &^= unix.ICANON | unix.ECHO
	raw.Cc[unix.VMIN] = 1
	raw.Cc[unix.VTIME] = 0
	err = termios.Tcsetattr(in, termios.TCSANOW, &raw)
	if err != nil {
		return
	}
	if t.Verbose {
		log.Printf("terminal: raw mode")
	}

	defer func() {
		fmt.Fprint(t.Out, "\x1b[0m\x1b[?25h\r\n")
		termios.Tcsetattr(in, termios.TCSANOW, &saved)
		if t.Verbose {
			log.Printf("terminal: restored")
		}
	}()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	input := make(chan byte, 16)
	go readInput(ctx, t.In, input)

	fmt.Fprint(t.Out, "\x1b[?25l\x1b[2J")

	ticker := time.NewTicker(time.Second / io.TIMER_HZ)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case ch, ok := <-input:
			if !ok || ch == KEY_ESCAPE {
				return
			}
			t.Press(ch, time.Now())
		case now := <-ticker.C:
			err = t.Frame(now)
			if err != nil {
				return
			}
		}
	}
}

// readInput sends bytes from r until it fails, or the context is done.
func readInput(ctx context.Context, r goio.Reader, input chan<- byte) {
	defer close(input)

	buf := make([]byte, 1)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			select {
			case input <- buf[0]:
			case <-ctx.Done():
				return
			}
		}
		if err != nil {
			return
		}
	}
}

// Press handles a key from the terminal, holding it down until
// Config.Hold after now.
func (t *Terminal) Press(ch byte, now time.Time) {
	index, ok := t.keys[ch]
	if !ok {
		return
	}

	t.Emulator.SetKey(index, true)
	t.release[index] = now.Add(t.Config.Hold)
}

// Release lets go of keys whose hold time has expired.
func (t *Terminal) Release(now time.Time) {
	for index, deadline := range t.release {
		if deadline.IsZero() || now.Before(deadline) {
			continue
		}
		t.Emulator.SetKey(byte(index), false)
		t.release[index] = time.Time{}
	}
}

// Frame runs one 60Hz frame, and redraws the terminal if the display
// changed.
func (t *Terminal) Frame(now time.Time) (err error) {
	t.Release(now)

	err = t.Emulator.Frame(t.steps)
	t.Beeper.Set(err == nil && t.Emulator.Audible())
	if err != nil {
		return
	}

	display := &t.Emulator.Display
	if display.Dirty() || !t.drawn {
		_, err = fmt.Fprint(t.Out, Render(display.Snapshot(), t.Config.Foreground, t.Config.Background))
		display.ClearDirty()
		t.drawn = true
	}

	return
}

// Render returns the terminal text for a frame, drawing two pixel rows
// per line with half block characters.
func Render(fr io.Frame, fg, bg color.Color) string {
	var sb strings.Builder

	sb.WriteString("\x1b[H")
	sb.WriteString(sgr(38, fg))
	sb.WriteString(sgr(48, bg))

	for line := range TERMINAL_ROWS {
		if line > 0 {
			sb.WriteString("\r\n")
		}
		for x := range io.DISPLAY_WIDTH {
			top := fr.At(x, line*2)
			bottom := fr.At(x, line*2+1)
			switch {
			case top && bottom:
				sb.WriteString("█")
			case top:
				sb.WriteString("▀")
			case bottom:
				sb.WriteString("▄")
			default:
				sb.WriteByte(' ')
			}
		}
	}

	sb.WriteString("\x1b[0m")

	return sb.String()
}

// sgr returns the 24-bit colour escape for a colour.
func sgr(code int, c color.Color) string {
	r, g, b, _ := c.RGBA()
	return fmt.Sprintf("\x1b[%d;2;%d;%d;%dm", code, r>>8, g>>8, b>>8)
}
