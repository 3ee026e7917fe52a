package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCpu_Reset(t *testing.T) {
	assert := assert.New(t)

	rig := newTestRig()
	rig.V[3] = 4
	rig.I = 0x345
	rig.Pc = 0x400
	rig.Stack.Push(0x222)
	rig.Fault = ErrStackOverflow

	rig.Reset()
	assert.Equal([16]byte{}, rig.V)
	assert.Equal(uint16(0), rig.I)
	assert.Equal(uint16(PROGRAM_START), rig.Pc)
	assert.True(rig.Stack.Empty())
	assert.NoError(rig.Fault)
	assert.Equal(STATE_NORMAL, rig.State())
}

func TestCpu_Alu(t *testing.T) {
	assert := assert.New(t)

	table := []struct {
		name  string
		word  uint16
		vx    byte
		vy    byte
		want  byte
		flag  byte
		wantf bool // VF is expected to be written
	}{
		{"ld", 0x8120, 0x11, 0x22, 0x22, 0, false},
		{"or", 0x8121, 0xf0, 0x0f, 0xff, 0, false},
		{"and", 0x8122, 0xfc, 0x3f, 0x3c, 0, false},
		{"xor", 0x8123, 0xff, 0x0f, 0xf0, 0, false},
		{"add", 0x8124, 0x10, 0x20, 0x30, 0, true},
		{"add_carry", 0x8124, 0xff, 0x01, 0x00, 1, true},
		{"add_carry_big", 0x8124, 0xf0, 0xf0, 0xe0, 1, true},
		{"sub", 0x8125, 0x05, 0x03, 0x02, 1, true},
		{"sub_equal", 0x8125, 0x05, 0x05, 0x00, 1, true},
		{"sub_borrow", 0x8125, 0x01, 0x02, 0xff, 0, true},
		{"shr", 0x8126, 0x05, 0x00, 0x02, 1, true},
		{"shr_even", 0x8126, 0x04, 0x00, 0x02, 0, true},
		{"subn", 0x8127, 0x03, 0x05, 0x02, 1, true},
		{"subn_borrow", 0x8127, 0x02, 0x01, 0xff, 0, true},
		{"shl", 0x812E, 0x81, 0x00, 0x02, 1, true},
		{"shl_clear", 0x812E, 0x41, 0x00, 0x82, 0, true},
	}

	for _, entry := range table {
		rig := newTestRig(entry.word)
		rig.V[1] = entry.vx
		rig.V[2] = entry.vy
		rig.V[VF] = 0xAA

		assert.NoError(rig.Step(), entry.name)
		assert.Equal(entry.want, rig.V[1], entry.name)
		if entry.wantf {
			assert.Equal(entry.flag, rig.V[VF], entry.name)
		} else {
			assert.Equal(byte(0xAA), rig.V[VF], entry.name)
		}
		assert.Equal(entry.vy, rig.V[2], entry.name)
		assert.Equal(uint16(PROGRAM_START+2), rig.Pc, entry.name)
	}
}

func TestCpu_AluFlagRegister(t *testing.T) {
	assert := assert.New(t)

	// When VF is the destination, the flag overwrites the result.
	rig := newTestRig(0x8F14)
	rig.V[VF] = 0xff
	rig.V[1] = 0x01
	assert.NoError(rig.Step())
	assert.Equal(byte(1), rig.V[VF])

	// When VF is the source, the flag is computed from its old value.
	rig = newTestRig(0x81F5)
	rig.V[1] = 0x01
	rig.V[VF] = 0x02
	assert.NoError(rig.Step())
	assert.Equal(byte(0xff), rig.V[1])
	assert.Equal(byte(0), rig.V[VF])

	rig = newTestRig(0x8FF6)
	rig.V[VF] = 0x03
	assert.NoError(rig.Step())
	assert.Equal(byte(1), rig.V[VF])
}

func TestCpu_Immediate(t *testing.T) {
	assert := assert.New(t)

	rig := newTestRig(0x6A12, 0x7AF0, 0x7A01)
	rig.V[VF] = 0x55
	assert.NoError(rig.run(3))
	assert.Equal(byte(0x03), rig.V[0xA])
	assert.Equal(byte(0x55), rig.V[VF], "7xkk leaves VF alone")
}

func TestCpu_Skip(t *testing.T) {
	assert := assert.New(t)

	table := []struct {
		name string
		word uint16
		v1   byte
		v2   byte
		skip bool
	}{
		{"se_imm_eq", 0x3142, 0x42, 0, true},
		{"se_imm_ne", 0x3142, 0x41, 0, false},
		{"sne_imm_eq", 0x4142, 0x42, 0, false},
		{"sne_imm_ne", 0x4142, 0x41, 0, true},
		{"se_reg_eq", 0x5120, 7, 7, true},
		{"se_reg_ne", 0x5120, 7, 8, false},
		{"sne_reg_eq", 0x9120, 7, 7, false},
		{"sne_reg_ne", 0x9120, 7, 8, true},
	}

	for _, entry := range table {
		rig := newTestRig(entry.word)
		rig.V[1] = entry.v1
		rig.V[2] = entry.v2

		assert.NoError(rig.Step(), entry.name)
		want := uint16(PROGRAM_START + 2)
		if entry.skip {
			want += 2
		}
		assert.Equal(want, rig.Pc, entry.name)
	}
}

func TestCpu_SkipKey(t *testing.T) {
	assert := assert.New(t)

	table := []struct {
		name string
		word uint16
		key  byte
		keys uint16
		skip bool
	}{
		{"skp_down", 0xE19E, 0x5, 1 << 5, true},
		{"skp_up", 0xE19E, 0x5, 1 << 4, false},
		{"skp_invalid", 0xE19E, 0x25, 0xffff, false},
		{"sknp_down", 0xE1A1, 0xF, 1 << 0xF, false},
		{"sknp_up", 0xE1A1, 0xF, 0, true},
	}

	for _, entry := range table {
		rig := newTestRig(entry.word)
		rig.V[1] = entry.key
		rig.keypad.keys = entry.keys

		assert.NoError(rig.Step(), entry.name)
		want := uint16(PROGRAM_START + 2)
		if entry.skip {
			want += 2
		}
		assert.Equal(want, rig.Pc, entry.name)
	}
}

func TestCpu_Jump(t *testing.T) {
	assert := assert.New(t)

	rig := newTestRig(0x1456)
	assert.NoError(rig.Step())
	assert.Equal(uint16(0x456), rig.Pc)

	rig = newTestRig(0xB300)
	rig.V[0] = 0x24
	assert.NoError(rig.Step())
	assert.Equal(uint16(0x324), rig.Pc)
}

func TestCpu_CallReturn(t *testing.T) {
	assert := assert.New(t)

	// 0x200: call 0x206
	// 0x202: ld v1, 0x11
	// 0x204: jp 0x204
	// 0x206: ld v2, 0x22
	// 0x208: ret
	rig := newTestRig(0x2206, 0x6111, 0x1204, 0x6222, 0x00EE)

	assert.NoError(rig.Step())
	assert.Equal(uint16(0x206), rig.Pc)
	top, ok := rig.Stack.Peek()
	assert.True(ok)
	assert.Equal(uint16(0x202), top)

	assert.NoError(rig.run(2))
	assert.Equal(uint16(0x202), rig.Pc)
	assert.True(rig.Stack.Empty())

	assert.NoError(rig.run(3))
	assert.Equal(byte(0x11), rig.V[1])
	assert.Equal(byte(0x22), rig.V[2])
	assert.Equal(uint16(0x204), rig.Pc)
}

func TestCpu_StackOverflow(t *testing.T) {
	assert := assert.New(t)

	// 0x200: call 0x200, forever.
	rig := newTestRig(0x2200)

	assert.NoError(rig.run(STACK_LIMIT))
	assert.True(rig.Stack.Full())

	err := rig.Step()
	assert.ErrorIs(err, ErrStackOverflow)

	var fault *ErrFault
	assert.ErrorAs(err, &fault)
	assert.Equal(uint16(0x200), fault.Pc)
	assert.Equal(uint16(0x2200), fault.Word)
	assert.Equal(uint16(0x200), rig.Pc)
}

func TestCpu_StackUnderflow(t *testing.T) {
	assert := assert.New(t)

	rig := newTestRig(0x00EE)
	err := rig.Step()
	assert.ErrorIs(err, ErrStackUnderflow)
	assert.Equal(uint16(PROGRAM_START), rig.Pc)
}

func TestCpu_FaultIsSticky(t *testing.T) {
	assert := assert.New(t)

	rig := newTestRig(0xFFFF, 0x6001)
	err := rig.Step()
	assert.ErrorIs(err, ErrUnknownOpcode)
	assert.ErrorIs(err, ErrOpcode(0xFFFF))

	// The engine does not advance past a fault.
	for range 3 {
		again := rig.Step()
		assert.Equal(err, again)
	}
	assert.Equal(uint16(PROGRAM_START), rig.Pc)
	assert.Equal(byte(0), rig.V[0])
	assert.Equal(0, rig.Steps)

	rig.Reset()
	assert.NoError(rig.Fault)
}

func TestCpu_FetchOutOfRange(t *testing.T) {
	assert := assert.New(t)

	// jp 0xfff: the second byte of the next fetch is past the end.
	rig := newTestRig(0x1FFF)
	assert.NoError(rig.Step())
	err := rig.Step()
	assert.ErrorIs(err, ErrAddressOutOfRange)
	assert.ErrorIs(err, ErrAddress(0x1000))

	// jp v0, 0xfff: lands past the end.
	rig = newTestRig(0xBFFF)
	rig.V[0] = 0x10
	assert.NoError(rig.Step())
	assert.Equal(uint16(0x100F), rig.Pc)
	assert.ErrorIs(rig.Step(), ErrAddressOutOfRange)
}

func TestCpu_Index(t *testing.T) {
	assert := assert.New(t)

	rig := newTestRig(0xA123, 0xF21E, 0xF329)
	rig.V[2] = 0x10
	rig.V[3] = 0x1B

	assert.NoError(rig.run(2))
	assert.Equal(uint16(0x133), rig.I)

	assert.NoError(rig.Step())
	assert.Equal(uint16(FONT_BASE+0xB*FONT_HEIGHT), rig.I)
}

func TestCpu_IndexWrap(t *testing.T) {
	assert := assert.New(t)

	table := []struct {
		i     uint16
		value byte
		want  uint16
	}{
		{0xFF0, 0x0F, 0xFFF},
		{0xFFF, 0x01, 0x000},
		{0xFF0, 0xFF, 0x0EF},
	}

	for _, entry := range table {
		rig := newTestRig(0xF41E)
		rig.I = entry.i
		rig.V[4] = entry.value
		rig.V[VF] = 0x5A
		assert.NoError(rig.Step())
		assert.Equal(entry.want, rig.I, entry)
		assert.Equal(byte(0x5A), rig.V[VF], "vf is unchanged")
	}

	// Repeated adds never leave the address space.
	rig := newTestRig(0xF41E, 0x1200)
	rig.V[4] = 0xFF
	for range 1000 {
		assert.NoError(rig.run(2))
		assert.True(rig.I < MEMORY_SIZE, rig.I)
	}
}

func TestCpu_Bcd(t *testing.T) {
	assert := assert.New(t)

	table := []struct {
		value  byte
		digits []byte
	}{
		{0, []byte{0, 0, 0}},
		{7, []byte{0, 0, 7}},
		{42, []byte{0, 4, 2}},
		{100, []byte{1, 0, 0}},
		{255, []byte{2, 5, 5}},
	}

	for _, entry := range table {
		rig := newTestRig(0xA400, 0xF533)
		rig.V[5] = entry.value
		assert.NoError(rig.run(2))
		assert.Equal(entry.digits, rig.mem.Data[0x400:0x403], entry.value)
		assert.Equal(uint16(0x400), rig.I)
	}
}

func TestCpu_Bcd_OutOfRange(t *testing.T) {
	assert := assert.New(t)

	rig := newTestRig(0xAFFE, 0xF033)
	rig.V[0] = 123
	assert.NoError(rig.Step())
	assert.ErrorIs(rig.Step(), ErrAddressOutOfRange)
	assert.Equal(byte(0), rig.mem.Data[0xFFE], "nothing written on fault")

	// The last three bytes of memory are writable.
	rig = newTestRig(0xAFFD, 0xF033)
	rig.V[0] = 123
	assert.NoError(rig.run(2))
	assert.Equal([]byte{1, 2, 3}, rig.mem.Data[0xFFD:])
}

func TestCpu_RegisterDumpLoad(t *testing.T) {
	assert := assert.New(t)

	rig := newTestRig(0xA500, 0xF355, 0xA600, 0xF265)
	for n := range rig.V {
		rig.V[n] = byte(0x10 + n)
	}
	copy(rig.mem.Data[0x600:], []byte{0xa0, 0xa1, 0xa2, 0xa3})

	assert.NoError(rig.run(2))
	assert.Equal([]byte{0x10, 0x11, 0x12, 0x13, 0x00}, rig.mem.Data[0x500:0x505])
	assert.Equal(uint16(0x500), rig.I, "I is unchanged")

	assert.NoError(rig.run(2))
	assert.Equal(byte(0xa0), rig.V[0])
	assert.Equal(byte(0xa1), rig.V[1])
	assert.Equal(byte(0xa2), rig.V[2])
	assert.Equal(byte(0x13), rig.V[3])
	assert.Equal(uint16(0x600), rig.I)
}

func TestCpu_RegisterDump_OutOfRange(t *testing.T) {
	assert := assert.New(t)

	rig := newTestRig(0xAFFD, 0xF355)
	rig.V[0] = 9
	assert.NoError(rig.Step())
	assert.ErrorIs(rig.Step(), ErrAddressOutOfRange)
	assert.Equal(byte(0), rig.mem.Data[0xFFD])
}

func TestCpu_Random(t *testing.T) {
	assert := assert.New(t)

	rig := newTestRig(0xC10F, 0xC200)
	assert.NoError(rig.run(2))
	assert.Equal(byte(0), rig.V[1]&0xf0)
	assert.Equal(byte(0), rig.V[2])
}

func TestCpu_Draw(t *testing.T) {
	assert := assert.New(t)

	rig := newTestRig(0xA20A, 0xD123, 0x00E0, 0xD120, 0x0000, 0xF0F0, 0xF000)
	rig.V[1] = 70
	rig.V[2] = 40
	rig.display.collide = true

	assert.NoError(rig.run(2))
	assert.Equal(1, len(rig.display.draws))
	assert.Equal([]byte{0xF0, 0xF0, 0xF0}, rig.display.draws[0])
	assert.Equal([2]byte{70, 40}, rig.display.drawAt[0])
	assert.Equal(byte(1), rig.V[VF])

	rig.display.collide = false
	assert.NoError(rig.run(2))
	assert.Equal(1, rig.display.clears)
	assert.Equal(0, len(rig.display.draws[1]))
	assert.Equal(byte(0), rig.V[VF])
}

func TestCpu_Draw_OutOfRange(t *testing.T) {
	assert := assert.New(t)

	rig := newTestRig(0xAFFE, 0xD005)
	assert.NoError(rig.Step())
	assert.ErrorIs(rig.Step(), ErrAddressOutOfRange)
	assert.Equal(0, len(rig.display.draws))
}

func TestCpu_Timers(t *testing.T) {
	assert := assert.New(t)

	rig := newTestRig(0x6130, 0xF115, 0xF118, 0xF207)
	rig.timers.delay = 0

	assert.NoError(rig.run(3))
	assert.Equal(byte(0x30), rig.timers.delay)
	assert.Equal(byte(0x30), rig.timers.sound)

	rig.timers.delay = 0x12
	assert.NoError(rig.Step())
	assert.Equal(byte(0x12), rig.V[2])
}

func TestCpu_WaitKey(t *testing.T) {
	assert := assert.New(t)

	rig := newTestRig(0xF50A, 0x6001)
	rig.keypad.keys = 1 << 3 // Held before the wait starts.

	assert.NoError(rig.Step())
	assert.True(rig.Waiting())
	assert.Equal(STATE_WAITING_KEY, rig.State())
	assert.Equal(uint16(PROGRAM_START), rig.Pc)

	// Still held: not a new press.
	assert.NoError(rig.run(5))
	assert.True(rig.Waiting())
	assert.Equal(uint16(PROGRAM_START), rig.Pc)

	// Release, then press again.
	rig.keypad.keys = 0
	assert.NoError(rig.Step())
	assert.True(rig.Waiting())

	rig.keypad.keys = 1<<3 | 1<<0xA
	assert.NoError(rig.Step())
	assert.False(rig.Waiting())
	assert.Equal(byte(3), rig.V[5])
	assert.Equal(uint16(PROGRAM_START+2), rig.Pc)

	assert.NoError(rig.Step())
	assert.Equal(byte(1), rig.V[0])
}

func TestCpu_WaitKey_NewKeyWhileOtherHeld(t *testing.T) {
	assert := assert.New(t)

	rig := newTestRig(0xF20A)
	rig.keypad.keys = 1 << 1

	assert.NoError(rig.Step())
	rig.keypad.keys = 1<<1 | 1<<0xC
	assert.NoError(rig.Step())
	assert.False(rig.Waiting())
	assert.Equal(byte(0xC), rig.V[2])
}

func TestCpu_Sys(t *testing.T) {
	assert := assert.New(t)

	rig := newTestRig(0x0123)
	assert.NoError(rig.Step())
	assert.Equal(uint16(PROGRAM_START+2), rig.Pc)
	assert.Equal(1, rig.Steps)
}

func TestCpu_String(t *testing.T) {
	assert := assert.New(t)

	rig := newTestRig()
	rig.V[0xA] = 0x5C
	rig.Stack.Push(0x2F4)

	text := rig.String()
	assert.Contains(text, "pc: 200")
	assert.Contains(text, "vA: 5C")
	assert.Contains(text, "stack: 2F4")
	assert.Contains(text, "state: normal")
}
