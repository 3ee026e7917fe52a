// Package io provides the peripheral devices of the CHIP-8 machine:
// the monochrome display, the hex keypad, the delay and sound timers,
// and the ROM image reader.
package io

import (
	"github.com/ezrec/chip8/cpu"
)

var (
	_ cpu.Display = (*Display)(nil)
	_ cpu.Keypad  = (*Keypad)(nil)
	_ cpu.Timers  = (*Timers)(nil)
)
