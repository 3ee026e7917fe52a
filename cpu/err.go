package cpu

import (
	"errors"

	"github.com/ezrec/chip8/translate"
)

var f = translate.From

var (
	// Load errors
	ErrProgramTooLarge = errors.New(f("program too large"))

	// Fatal runtime errors
	ErrAddressOutOfRange = errors.New(f("address out of range"))
	ErrUnknownOpcode     = errors.New(f("unknown opcode"))
	ErrStackOverflow     = errors.New(f("stack overflow"))
	ErrStackUnderflow    = errors.New(f("stack underflow"))
)

// ErrAddress is the memory address of an out of range access.
type ErrAddress uint32

func (ea ErrAddress) Error() string {
	return f("address 0x%03x", uint32(ea))
}

// ErrOpcode is the raw instruction word that failed to decode.
type ErrOpcode uint16

func (eo ErrOpcode) Error() string {
	return f("bad opcode 0x%04x", uint16(eo))
}

func (eo ErrOpcode) Is(err error) (ok bool) {
	_, ok = err.(ErrOpcode)
	return
}

// ErrFault is a fatal CPU condition, with the location it was raised at.
// Once raised, the CPU refuses to step until it is reset.
type ErrFault struct {
	Pc   uint16 // Address of the faulting instruction.
	Word uint16 // Raw instruction word, if it was fetched.
	Err  error
}

func (err *ErrFault) Error() string {
	return f("pc 0x%03x opcode 0x%04x: %v", err.Pc, err.Word, err.Err)
}

func (err *ErrFault) Unwrap() error {
	return err.Err
}
