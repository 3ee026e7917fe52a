package frontend

import (
	"errors"

	"github.com/ezrec/chip8/translate"
)

var f = translate.From

var (
	ErrKeyName      = errors.New(f("unknown key name"))
	ErrNotTerminal  = errors.New(f("not a terminal"))
	ErrTerminalSize = errors.New(f("terminal too small"))
)

// ErrKey is the configured key name that could not be resolved.
type ErrKey string

func (ek ErrKey) Error() string {
	return f("key %q", string(ek))
}
