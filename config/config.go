// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package config loads host settings from a Starlark configuration file.
//
// A configuration file is a Starlark program; its global variables are
// the settings:
//
//	rate = RATE_DEFAULT * 2
//	foreground = "lime"
//	background = "#102010"
//	keymap = {"x": KEY_0, "1": KEY_1}
//
// Global names that start with an underscore are private to the file.
package config

import (
	"fmt"
	"image/color"
	"log"
	"strconv"
	"strings"
	"time"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
	"golang.org/x/image/colornames"

	"github.com/ezrec/chip8/emulator"
)

const (
	FRONTEND_WINDOW   = "window"
	FRONTEND_TERMINAL = "terminal"

	RATE_MIN = 60
	RATE_MAX = 100000

	SCALE_MAX = 64
	TONE_MAX  = 20000
	HOLD_MAX  = 10000 // Milliseconds.

	KEY_COUNT = 16
)

// Config is the set of host settings.
type Config struct {
	Rate       int             // Instructions per second.
	Scale      int             // Window pixels per CHIP-8 pixel.
	Foreground color.RGBA      // Lit pixel colour.
	Background color.RGBA      // Unlit pixel colour.
	Tone       int             // Beeper frequency in Hz; 0 mutes.
	Frontend   string          // FRONTEND_WINDOW or FRONTEND_TERMINAL.
	Keymap     map[string]byte // Host key name to keypad index.
	Hold       time.Duration   // Terminal keypress hold time.
}

// DefaultKeymap is the classic 1234/QWER/ASDF/ZXCV layout.
func DefaultKeymap() map[string]byte {
	return map[string]byte{
		"1": 0x1, "2": 0x2, "3": 0x3, "4": 0xC,
		"q": 0x4, "w": 0x5, "e": 0x6, "r": 0xD,
		"a": 0x7, "s": 0x8, "d": 0x9, "f": 0xE,
		"z": 0xA, "x": 0x0, "c": 0xB, "v": 0xF,
	}
}

// Default returns the default settings.
func Default() *Config {
	return &Config{
		Rate:       emulator.DEFAULT_RATE,
		Scale:      10,
		Foreground: colornames.White,
		Background: colornames.Black,
		Tone:       440,
		Frontend:   FRONTEND_WINDOW,
		Keymap:     DefaultKeymap(),
		Hold:       150 * time.Millisecond,
	}
}

// predeclared returns the globals visible to a configuration file.
func predeclared() (pred starlark.StringDict) {
	pred = starlark.StringDict{
		"RATE_DEFAULT": starlark.MakeInt(emulator.DEFAULT_RATE),
	}
	for key := range KEY_COUNT {
		pred[fmt.Sprintf("KEY_%X", key)] = starlark.MakeInt(key)
	}
	return
}

// Load evaluates a configuration file on top of the default settings.
// An empty name returns the defaults.
func Load(name string) (cfg *Config, err error) {
	if len(name) == 0 {
		cfg = Default()
		return
	}

	return Parse(name, nil)
}

// Parse evaluates configuration source on top of the default settings.
// If src is nil, the file name is read.
func Parse(name string, src any) (cfg *Config, err error) {
	thread := &starlark.Thread{
		Name: name,
		Print: func(_ *starlark.Thread, msg string) {
			log.Printf("%s: %s", name, msg)
		},
	}
	opts := syntax.FileOptions{}

	globals, err := starlark.ExecFileOptions(&opts, thread, name, src, predeclared())
	if err != nil {
		return
	}

	cfg = Default()
	for _, key := range globals.Keys() {
		if strings.HasPrefix(key, "_") {
			continue
		}
		err = cfg.set(key, globals[key])
		if err != nil {
			cfg = nil
			return
		}
	}

	return
}

func (cfg *Config) set(name string, value starlark.Value) (err error) {
	defer func() {
		if err != nil {
			err = &ErrValue{Name: name, Err: err}
		}
	}()

	switch name {
	case "rate":
		cfg.Rate, err = asInt(value, RATE_MIN, RATE_MAX)
	case "scale":
		cfg.Scale, err = asInt(value, 1, SCALE_MAX)
	case "tone":
		cfg.Tone, err = asInt(value, 0, TONE_MAX)
	case "hold":
		var ms int
		ms, err = asInt(value, 1, HOLD_MAX)
		cfg.Hold = time.Duration(ms) * time.Millisecond
	case "foreground":
		cfg.Foreground, err = asColor(value)
	case "background":
		cfg.Background, err = asColor(value)
	case "frontend":
		str, ok := starlark.AsString(value)
		switch {
		case !ok:
			err = ErrSettingType
		case str == FRONTEND_WINDOW, str == FRONTEND_TERMINAL:
			cfg.Frontend = str
		default:
			err = ErrSettingRange
		}
	case "keymap":
		cfg.Keymap, err = asKeymap(value)
	default:
		err = ErrSettingUnknown
	}

	return
}

func asInt(value starlark.Value, low, high int) (n int, err error) {
	if _, ok := value.(starlark.Int); !ok {
		err = ErrSettingType
		return
	}

	n, err = starlark.AsInt32(value)
	if err != nil || n < low || n > high {
		err = ErrSettingRange
	}

	return
}

func asColor(value starlark.Value) (rgba color.RGBA, err error) {
	str, ok := starlark.AsString(value)
	if !ok {
		err = ErrSettingType
		return
	}

	return ParseColor(str)
}

// ParseColor returns the colour for a colour name or a "#rrggbb" string.
func ParseColor(str string) (rgba color.RGBA, err error) {
	if len(str) == 7 && str[0] == '#' {
		var rgb uint64
		rgb, err = strconv.ParseUint(str[1:], 16, 32)
		if err != nil {
			err = ErrColor
			return
		}
		rgba = color.RGBA{R: byte(rgb >> 16), G: byte(rgb >> 8), B: byte(rgb), A: 0xff}
		return
	}

	rgba, ok := colornames.Map[strings.ToLower(str)]
	if !ok {
		err = ErrColor
	}

	return
}

func asKeymap(value starlark.Value) (keymap map[string]byte, err error) {
	dict, ok := value.(*starlark.Dict)
	if !ok {
		err = ErrSettingType
		return
	}

	keymap = make(map[string]byte, dict.Len())
	for _, item := range dict.Items() {
		name, ok := starlark.AsString(item[0])
		if !ok || len(name) == 0 {
			err = ErrSettingType
			return
		}
		var index int
		index, err = asInt(item[1], 0, KEY_COUNT-1)
		if err != nil {
			return
		}
		keymap[name] = byte(index)
	}

	return
}
