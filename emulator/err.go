package emulator

import (
	"github.com/ezrec/chip8/translate"
)

var f = translate.From

// ErrRuntime indicates the step and location of a runtime error.
type ErrRuntime struct {
	Step int    // Instructions executed before the error.
	Pc   uint16 // Program counter at the error.
	Err  error
}

func (err *ErrRuntime) Error() string {
	return f("step %d pc 0x%03x %v", err.Step, err.Pc, err.Err)
}

func (err *ErrRuntime) Unwrap() error {
	return err.Err
}
