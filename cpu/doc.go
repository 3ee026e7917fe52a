// Package cpu implements the CHIP-8 interpreter core.
//
// The CPU consists of sixteen 8-bit general-purpose registers (v0-vf), a
// 16-bit index register (i), a program counter, and a sixteen entry return
// stack. Register vf doubles as the carry, borrow, shift, and sprite
// collision flag.
//
// Instructions are fetched big-endian from the 4K Memory, decoded into one
// of 35 Op variants, and executed against the Display, Keypad and Timers
// devices. Any fatal condition stops the CPU until it is reset.
package cpu
