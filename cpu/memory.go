package cpu

import (
	"errors"
)

// Memory map.
const (
	MEMORY_SIZE      = 0x1000 // Addressable bytes.
	FONT_BASE        = 0x000  // Hex digit sprites.
	FONT_HEIGHT      = 5      // Bytes per digit sprite.
	PROGRAM_START    = 0x200  // First byte of a loaded program.
	MAX_PROGRAM_SIZE = MEMORY_SIZE - PROGRAM_START
	ADDRESS_MASK     = MEMORY_SIZE - 1 // Index register wraps within memory.
)

// Font holds the 4x5 sprites of the hex digits 0-F.
var Font = [16 * FONT_HEIGHT]byte{
	0xF0, 0x90, 0x90, 0x90, 0xF0, // 0
	0x20, 0x60, 0x20, 0x20, 0x70, // 1
	0xF0, 0x10, 0xF0, 0x80, 0xF0, // 2
	0xF0, 0x10, 0xF0, 0x10, 0xF0, // 3
	0x90, 0x90, 0xF0, 0x10, 0x10, // 4
	0xF0, 0x80, 0xF0, 0x10, 0xF0, // 5
	0xF0, 0x80, 0xF0, 0x90, 0xF0, // 6
	0xF0, 0x10, 0x20, 0x40, 0x40, // 7
	0xF0, 0x90, 0xF0, 0x90, 0xF0, // 8
	0xF0, 0x90, 0xF0, 0x10, 0xF0, // 9
	0xF0, 0x90, 0xF0, 0x90, 0x90, // A
	0xE0, 0x90, 0xE0, 0x90, 0xE0, // B
	0xF0, 0x80, 0x80, 0x80, 0xF0, // C
	0xE0, 0x90, 0x90, 0x90, 0xE0, // D
	0xF0, 0x80, 0xF0, 0x80, 0xF0, // E
	0xF0, 0x80, 0xF0, 0x80, 0x80, // F
}

// Memory is the flat 4K address space of the machine.
// There is no protection: a program may overwrite itself, or the font.
type Memory struct {
	Data [MEMORY_SIZE]byte
}

// Reset zeroes memory and installs the font.
func (mem *Memory) Reset() {
	clear(mem.Data[:])
	copy(mem.Data[FONT_BASE:], Font[:])
}

// LoadProgram copies a program image to PROGRAM_START.
func (mem *Memory) LoadProgram(data []byte) (err error) {
	if len(data) > MAX_PROGRAM_SIZE {
		err = ErrProgramTooLarge
		return
	}

	copy(mem.Data[PROGRAM_START:], data)
	return
}

func outOfRange(addr uint32) error {
	return errors.Join(ErrAddressOutOfRange, ErrAddress(addr))
}

// Read a byte.
func (mem *Memory) Read(addr uint16) (value byte, err error) {
	if int(addr) >= len(mem.Data) {
		err = outOfRange(uint32(addr))
		return
	}

	value = mem.Data[addr]
	return
}

// Write a byte.
func (mem *Memory) Write(addr uint16, value byte) (err error) {
	if int(addr) >= len(mem.Data) {
		err = outOfRange(uint32(addr))
		return
	}

	mem.Data[addr] = value
	return
}

// Fetch reads the big-endian instruction word at addr.
func (mem *Memory) Fetch(addr uint16) (word uint16, err error) {
	if int(addr) >= len(mem.Data) {
		err = outOfRange(uint32(addr))
		return
	}
	if int(addr)+1 >= len(mem.Data) {
		err = outOfRange(uint32(addr) + 1)
		return
	}

	word = uint16(mem.Data[addr])<<8 | uint16(mem.Data[addr+1])
	return
}
