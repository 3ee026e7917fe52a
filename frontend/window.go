// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package frontend

import (
	"errors"
	"image/color"
	"log"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/ezrec/chip8/config"
	"github.com/ezrec/chip8/emulator"
	"github.com/ezrec/chip8/io"
)

// Window runs an emulator in an ebiten window.
type Window struct {
	Verbose  bool
	Title    string
	Emulator *emulator.Emulator
	Config   *config.Config
	Beeper   *Beeper // Optional.

	keys  map[ebiten.Key]byte
	steps int
	pix   []byte
	image *ebiten.Image
	drawn bool
}

// NewWindow creates a window frontend for the emulator.
func NewWindow(emu *emulator.Emulator, cfg *config.Config, beeper *Beeper) (w *Window, err error) {
	keys, err := WindowKeys(cfg.Keymap)
	if err != nil {
		return
	}

	w = &Window{
		Title:    "CHIP-8",
		Emulator: emu,
		Config:   cfg,
		Beeper:   beeper,
		keys:     keys,
		steps:    emulator.StepsPerFrame(cfg.Rate),
		pix:      make([]byte, io.DISPLAY_WIDTH*io.DISPLAY_HEIGHT*4),
	}

	return
}

// Run opens the window, and runs until it is closed, Escape is pressed,
// or the emulator faults.
func (w *Window) Run() (err error) {
	ebiten.SetWindowTitle(w.Title)
	ebiten.SetWindowSize(io.DISPLAY_WIDTH*w.Config.Scale, io.DISPLAY_HEIGHT*w.Config.Scale)
	ebiten.SetTPS(io.TIMER_HZ)

	err = ebiten.RunGame(w)
	w.Beeper.Set(false)
	if errors.Is(err, ebiten.Termination) {
		err = nil
	}

	return
}

// Update runs one 60Hz frame.
func (w *Window) Update() (err error) {
	if ebiten.IsKeyPressed(ebiten.KeyEscape) {
		err = ebiten.Termination
		return
	}

	var pressed [config.KEY_COUNT]bool
	for key, index := range w.keys {
		if ebiten.IsKeyPressed(key) {
			pressed[index] = true
		}
	}
	for index, down := range pressed {
		err = w.Emulator.SetKey(byte(index), down)
		if err != nil {
			return
		}
	}

	err = w.Emulator.Frame(w.steps)
	w.Beeper.Set(err == nil && w.Emulator.Audible())
	if err != nil && w.Verbose {
		log.Printf("window: %v", err)
	}

	return
}

// Draw renders the display, scaled to the window.
func (w *Window) Draw(screen *ebiten.Image) {
	if w.image == nil {
		w.image = ebiten.NewImage(io.DISPLAY_WIDTH, io.DISPLAY_HEIGHT)
	}

	display := &w.Emulator.Display
	if display.Dirty() || !w.drawn {
		FramePixels(display.Snapshot(), w.Config.Foreground, w.Config.Background, w.pix)
		w.image.WritePixels(w.pix)
		display.ClearDirty()
		w.drawn = true
	}

	opts := &ebiten.DrawImageOptions{}
	opts.GeoM.Scale(float64(w.Config.Scale), float64(w.Config.Scale))
	screen.DrawImage(w.image, opts)
}

// Layout returns the scaled display size.
func (w *Window) Layout(outsideWidth, outsideHeight int) (screenWidth, screenHeight int) {
	return io.DISPLAY_WIDTH * w.Config.Scale, io.DISPLAY_HEIGHT * w.Config.Scale
}

// FramePixels fills pix with the RGBA pixels of a frame.
func FramePixels(fr io.Frame, fg, bg color.RGBA, pix []byte) {
	for y := range io.DISPLAY_HEIGHT {
		for x := range io.DISPLAY_WIDTH {
			c := bg
			if fr.At(x, y) {
				c = fg
			}
			offset := (y*io.DISPLAY_WIDTH + x) * 4
			pix[offset+0] = c.R
			pix[offset+1] = c.G
			pix[offset+2] = c.B
			pix[offset+3] = c.A
		}
	}
}
