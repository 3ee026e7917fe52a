package cpu

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func FuzzCpu(f *testing.F) {
	for group := range 0x10 {
		word := uint16(group << 12)
		f.Add(word, uint16(0x123), byte(0), byte(0))
		f.Add(word|0x0fff, uint16(0xffe), byte(0xff), byte(0x80))
		f.Add(word|0x00ee, uint16(0x200), byte(1), byte(2))
	}

	f.Fuzz(func(t *testing.T, opcode uint16, index uint16, vx byte, vy byte) {
		assert := assert.New(t)

		rig := newTestRig(opcode)
		rig.I = index
		for n := range rig.V {
			rig.V[n] = vx ^ byte(n)*vy
		}
		before := *rig.mem

		err := rig.Step()
		if err == nil {
			assert.Equal(1, rig.Steps)
			if rig.Waiting() {
				assert.Equal(uint16(PROGRAM_START), rig.Pc)
			}
			return
		}

		// Only the fatal kinds may escape, wrapped with the location.
		var fault *ErrFault
		assert.ErrorAs(err, &fault)
		assert.Equal(uint16(PROGRAM_START), fault.Pc)
		assert.Equal(opcode, fault.Word)
		assert.True(errors.Is(err, ErrAddressOutOfRange) ||
			errors.Is(err, ErrUnknownOpcode) ||
			errors.Is(err, ErrStackOverflow) ||
			errors.Is(err, ErrStackUnderflow), "%v", err)

		// A faulting instruction leaves memory and PC untouched.
		assert.Equal(before, *rig.mem)
		assert.Equal(uint16(PROGRAM_START), rig.Pc)
		assert.Equal(err, rig.Step())
	})
}
