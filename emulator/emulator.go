// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package emulator

import (
	"log"

	"github.com/ezrec/chip8/cpu"
	"github.com/ezrec/chip8/io"
)

const (
	DEFAULT_RATE = 700 // Instructions per second.
)

// Emulator state. CPU + memory + devices.
type Emulator struct {
	Verbose  bool // If set, enables verbose logging.
	*cpu.Cpu      // Reference to the CPU simulation.
	Memory   cpu.Memory

	Display io.Display // Framebuffer device.
	Keypad  io.Keypad  // Hex keypad device.
	Timers  io.Timers  // Delay and sound timers.

	Program []byte // The currently loaded program image.
	Ticks   int    // Timer ticks since reset.
}

// NewEmulator creates a new emulator, reset with no program loaded.
func NewEmulator() (emu *Emulator) {
	emu = &Emulator{}
	emu.Cpu = cpu.NewCpu(&emu.Memory, &emu.Display, &emu.Keypad, &emu.Timers)

	emu.Reset()

	return
}

// Reset the machine state.
// - Zeros memory and installs the font.
// - Resets the CPU registers and stack.
// - Clears the display, releases all keys and zeros the timers.
// - Reloads the current program, if any.
func (emu *Emulator) Reset() (err error) {
	emu.Cpu.Verbose = emu.Verbose

	emu.Memory.Reset()
	emu.Cpu.Reset()
	emu.Display.Clear()
	emu.Keypad.Reset()
	emu.Timers.Reset()
	emu.Ticks = 0

	err = emu.Memory.LoadProgram(emu.Program)
	if err != nil {
		emu.Program = nil
		return
	}

	if emu.Verbose {
		log.Printf("emulator: reset, %d byte program", len(emu.Program))
	}

	return
}

// Load resets the machine with a new program.
// A program that does not fit is rejected, and leaves the machine reset
// with no program.
func (emu *Emulator) Load(program []byte) (err error) {
	emu.Program = program
	return emu.Reset()
}

// Step executes one instruction.
func (emu *Emulator) Step() (err error) {
	emu.Cpu.Verbose = emu.Verbose

	step := emu.Cpu.Steps
	pc := emu.Cpu.Pc

	err = emu.Cpu.Step()
	if err != nil {
		err = &ErrRuntime{Step: step, Pc: pc, Err: err}
	}

	return
}

// Tick advances the timers by one 60Hz tick.
func (emu *Emulator) Tick() {
	emu.Timers.Tick()
	emu.Ticks++
}

// Frame runs one 60Hz frame: steps instructions, then a timer tick.
// The timer ticks even if the CPU is waiting for a key.
func (emu *Emulator) Frame(steps int) (err error) {
	for range steps {
		err = emu.Step()
		if err != nil {
			return
		}
	}

	emu.Tick()

	return
}

// StepsPerFrame returns the instructions per 60Hz frame for a rate in
// instructions per second. At least one instruction runs every frame.
func StepsPerFrame(rate int) int {
	return max(1, rate/io.TIMER_HZ)
}

// Snapshot returns a copy of the display.
func (emu *Emulator) Snapshot() io.Frame {
	return emu.Display.Snapshot()
}

// SetKey sets the state of a keypad key.
func (emu *Emulator) SetKey(index byte, pressed bool) error {
	return emu.Keypad.SetKey(index, pressed)
}

// Audible returns true while the tone should play.
func (emu *Emulator) Audible() bool {
	return emu.Timers.Audible()
}
