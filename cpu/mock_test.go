package cpu

import (
	"math/rand"
)

type mockDisplay struct {
	clears  int
	draws   [][]byte
	drawAt  [][2]byte
	collide bool
}

func (md *mockDisplay) Clear() { md.clears++ }

func (md *mockDisplay) DrawSprite(x, y byte, rows []byte) bool {
	md.draws = append(md.draws, rows)
	md.drawAt = append(md.drawAt, [2]byte{x, y})
	return md.collide
}

type mockKeypad struct {
	keys uint16
}

func (mk *mockKeypad) IsPressed(index byte) bool {
	return index < 16 && (mk.keys>>index)&1 != 0
}

func (mk *mockKeypad) State() uint16 { return mk.keys }

type mockTimers struct {
	delay byte
	sound byte
}

func (mt *mockTimers) Delay() byte         { return mt.delay }
func (mt *mockTimers) SetDelay(value byte) { mt.delay = value }
func (mt *mockTimers) SetSound(value byte) { mt.sound = value }

type testRig struct {
	*Cpu
	mem     *Memory
	display *mockDisplay
	keypad  *mockKeypad
	timers  *mockTimers
}

// newTestRig creates a CPU with the program words loaded at PROGRAM_START.
func newTestRig(program ...uint16) (rig *testRig) {
	rig = &testRig{
		mem:     &Memory{},
		display: &mockDisplay{},
		keypad:  &mockKeypad{},
		timers:  &mockTimers{},
	}
	rig.mem.Reset()

	var image []byte
	for _, word := range program {
		image = append(image, byte(word>>8), byte(word))
	}
	err := rig.mem.LoadProgram(image)
	if err != nil {
		panic(err)
	}

	rig.Cpu = NewCpu(rig.mem, rig.display, rig.keypad, rig.timers)
	rig.Cpu.Rand = rand.New(rand.NewSource(1))

	return
}

// run steps the CPU count times, stopping at the first error.
func (rig *testRig) run(count int) (err error) {
	for range count {
		err = rig.Step()
		if err != nil {
			return
		}
	}
	return
}
