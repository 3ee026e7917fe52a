package cpu

import (
	"errors"
	"fmt"
	"log"
	"math/bits"
	"math/rand"
)

// Display is the framebuffer the CPU draws into.
type Display interface {
	Clear()
	DrawSprite(x, y byte, rows []byte) (collided bool)
}

// Keypad is the host-owned key state, read by the CPU.
type Keypad interface {
	IsPressed(index byte) bool
	State() uint16 // Bit N set if key N is down.
}

// Timers are the delay and sound countdown registers.
type Timers interface {
	Delay() byte
	SetDelay(value byte)
	SetSound(value byte)
}

// CpuState is the execution sub-state of a running CPU.
type CpuState int

const (
	STATE_NORMAL      = CpuState(0) // normal
	STATE_WAITING_KEY = CpuState(1) // waiting for key
)

func (cs CpuState) String() string {
	switch cs {
	case STATE_NORMAL:
		return "normal"
	case STATE_WAITING_KEY:
		return "waiting for key"
	}
	return fmt.Sprintf("CpuState(%d)", int(cs))
}

const VF = 0xf // Flag register.

// Cpu is the simulation context for the CHIP-8 interpreter.
type Cpu struct {
	Verbose bool // Set to enable verbose logging.

	Memory *Memory // Reference to the memory.

	V     [16]byte // General purpose registers.
	I     uint16   // Index register.
	Pc    uint16   // Program counter.
	Stack Stack    // Return address stack.

	Display Display
	Keypad  Keypad
	Timers  Timers
	Rand    *rand.Rand // Source for RND.

	Fault error // Set by the first fatal error.
	Steps int   // Instructions executed since reset.

	state   CpuState
	waitReg int    // Destination of a pending key wait.
	waitKey uint16 // Keypad state at the previous poll.
}

// NewCpu creates a new CPU attached to the memory and devices.
func NewCpu(mem *Memory, display Display, keypad Keypad, timers Timers) (cpu *Cpu) {
	cpu = &Cpu{
		Memory:  mem,
		Display: display,
		Keypad:  keypad,
		Timers:  timers,
		Rand:    rand.New(rand.NewSource(rand.Int63())),
	}

	cpu.Reset()

	return
}

// Reset the CPU state.
// - Clears the registers and stack.
// - Clears any fault, and any pending key wait.
// - Sets the program counter to PROGRAM_START.
func (cpu *Cpu) Reset() {
	if cpu.Verbose {
		log.Printf("cpu: reset")
	}

	clear(cpu.V[:])
	cpu.I = 0
	cpu.Pc = PROGRAM_START
	cpu.Stack.Reset()
	cpu.Fault = nil
	cpu.Steps = 0
	cpu.state = STATE_NORMAL
	cpu.waitReg = 0
	cpu.waitKey = 0
}

// State returns the current execution sub-state.
func (cpu *Cpu) State() CpuState {
	return cpu.state
}

// Waiting returns true while a key wait is pending.
func (cpu *Cpu) Waiting() bool {
	return cpu.state == STATE_WAITING_KEY
}

// String returns the current CPU state as a string.
func (cpu *Cpu) String() (text string) {
	text += fmt.Sprintf("   pc: %03X\n", cpu.Pc)
	text += fmt.Sprintf("    i: %03X\n", cpu.I)
	for n := 0; n < len(cpu.V); n += 4 {
		text += fmt.Sprintf("   v%X: %02X  v%X: %02X  v%X: %02X  v%X: %02X\n",
			n, cpu.V[n], n+1, cpu.V[n+1], n+2, cpu.V[n+2], n+3, cpu.V[n+3])
	}
	text += "stack:"
	if cpu.Stack.Empty() {
		text += " ---"
	}
	for _, addr := range cpu.Stack.Data[:cpu.Stack.Sp] {
		text += fmt.Sprintf(" %03X", addr)
	}
	text += "\n"
	text += fmt.Sprintf("state: %v\n", cpu.state)

	return
}

// Step executes a single instruction, or polls the keypad if a key
// wait is pending.
//
// A fatal error stops the CPU: it is returned as an *ErrFault, and is
// returned again from every following Step until Reset.
func (cpu *Cpu) Step() (err error) {
	if cpu.Fault != nil {
		err = cpu.Fault
		return
	}

	if cpu.state == STATE_WAITING_KEY {
		cpu.pollKey()
		return
	}

	pc := cpu.Pc
	word, err := cpu.Memory.Fetch(pc)
	if err == nil {
		var code Code
		code, err = Decode(word)
		if err == nil {
			err = cpu.Execute(code)
		}
	}

	if err != nil {
		err = &ErrFault{Pc: pc, Word: word, Err: err}
		cpu.Fault = err
		if cpu.Verbose {
			log.Printf("cpu: %v", err)
		}
		return
	}

	cpu.Steps++
	return
}

// pollKey completes a key wait on the first key pressed since the
// previous poll.
func (cpu *Cpu) pollKey() {
	keys := cpu.Keypad.State()
	pressed := keys &^ cpu.waitKey
	cpu.waitKey = keys

	if pressed == 0 {
		return
	}

	key := bits.TrailingZeros16(pressed)
	cpu.V[cpu.waitReg] = byte(key)
	cpu.state = STATE_NORMAL
	cpu.Pc += 2

	if cpu.Verbose {
		log.Printf("cpu: key %X -> v%X", key, cpu.waitReg)
	}
}

// skip advances past the next instruction if cond holds.
func (cpu *Cpu) skip(cond bool) uint16 {
	if cond {
		return cpu.Pc + 4
	}
	return cpu.Pc + 2
}

// Execute executes a single decoded instruction.
func (cpu *Cpu) Execute(code Code) (err error) {
	if cpu.Verbose {
		log.Printf("%03x: %v", cpu.Pc, code)
	}

	v := &cpu.V
	x := code.X()
	y := code.Y()

	next_pc := cpu.Pc + 2

	switch code.Op {
	case OP_SYS:
		// Machine code routines are not supported; ignored.
	case OP_CLS:
		cpu.Display.Clear()
	case OP_RET:
		next_pc, err = cpu.Stack.Pop()
	case OP_JP:
		next_pc = code.NNN()
	case OP_CALL:
		err = cpu.Stack.Push(next_pc)
		next_pc = code.NNN()
	case OP_SE_IMM:
		next_pc = cpu.skip(v[x] == code.KK())
	case OP_SNE_IMM:
		next_pc = cpu.skip(v[x] != code.KK())
	case OP_SE_REG:
		next_pc = cpu.skip(v[x] == v[y])
	case OP_LD_IMM:
		v[x] = code.KK()
	case OP_ADD_IMM:
		v[x] += code.KK()
	case OP_LD_REG:
		v[x] = v[y]
	case OP_OR:
		v[x] |= v[y]
	case OP_AND:
		v[x] &= v[y]
	case OP_XOR:
		v[x] ^= v[y]
	case OP_ADD_REG:
		sum := uint(v[x]) + uint(v[y])
		v[x] = byte(sum)
		v[VF] = byte(sum >> 8)
	case OP_SUB:
		flag := flagIf(v[x] >= v[y])
		v[x] = v[x] - v[y]
		v[VF] = flag
	case OP_SHR:
		flag := v[x] & 1
		v[x] >>= 1
		v[VF] = flag
	case OP_SUBN:
		flag := flagIf(v[y] >= v[x])
		v[x] = v[y] - v[x]
		v[VF] = flag
	case OP_SHL:
		flag := v[x] >> 7
		v[x] <<= 1
		v[VF] = flag
	case OP_SNE_REG:
		next_pc = cpu.skip(v[x] != v[y])
	case OP_LD_I:
		cpu.I = code.NNN()
	case OP_JP_V0:
		next_pc = code.NNN() + uint16(v[0])
	case OP_RND:
		v[x] = byte(cpu.Rand.Intn(256)) & code.KK()
	case OP_DRW:
		var rows []byte
		rows, err = cpu.readSprite(code.N())
		if err != nil {
			break
		}
		v[VF] = flagIf(cpu.Display.DrawSprite(v[x], v[y], rows))
	case OP_SKP:
		next_pc = cpu.skip(cpu.Keypad.IsPressed(v[x]))
	case OP_SKNP:
		next_pc = cpu.skip(!cpu.Keypad.IsPressed(v[x]))
	case OP_LD_VX_DT:
		v[x] = cpu.Timers.Delay()
	case OP_LD_VX_K:
		cpu.state = STATE_WAITING_KEY
		cpu.waitReg = x
		cpu.waitKey = cpu.Keypad.State()
		// Don't advance; the wait completes in pollKey().
		next_pc = cpu.Pc
	case OP_LD_DT_VX:
		cpu.Timers.SetDelay(v[x])
	case OP_LD_ST_VX:
		cpu.Timers.SetSound(v[x])
	case OP_ADD_I:
		cpu.I = (cpu.I + uint16(v[x])) & ADDRESS_MASK
	case OP_LD_F:
		cpu.I = FONT_BASE + uint16(v[x]&0xf)*FONT_HEIGHT
	case OP_LD_B:
		err = cpu.span(3)
		if err != nil {
			break
		}
		digits := [3]byte{v[x] / 100, (v[x] / 10) % 10, v[x] % 10}
		for n := 0; n < len(digits) && err == nil; n++ {
			err = cpu.Memory.Write(cpu.I+uint16(n), digits[n])
		}
	case OP_LD_MEM_VX:
		err = cpu.span(x + 1)
		for n := 0; n <= x && err == nil; n++ {
			err = cpu.Memory.Write(cpu.I+uint16(n), v[n])
		}
	case OP_LD_VX_MEM:
		err = cpu.span(x + 1)
		for n := 0; n <= x && err == nil; n++ {
			v[n], err = cpu.Memory.Read(cpu.I + uint16(n))
		}
	default:
		err = errors.Join(ErrUnknownOpcode, ErrOpcode(code.Word))
	}

	if err != nil {
		return
	}

	cpu.Pc = next_pc

	return
}

// span checks that count bytes starting at I are addressable, so that
// an instruction faults before it modifies anything.
func (cpu *Cpu) span(count int) (err error) {
	end := int(cpu.I) + count
	if end > MEMORY_SIZE {
		err = outOfRange(uint32(max(int(cpu.I), MEMORY_SIZE)))
	}
	return
}

// readSprite reads n sprite rows starting at I.
func (cpu *Cpu) readSprite(n byte) (rows []byte, err error) {
	err = cpu.span(int(n))
	if err != nil {
		return
	}

	rows = make([]byte, n)
	for i := range rows {
		rows[i], err = cpu.Memory.Read(cpu.I + uint16(i))
		if err != nil {
			rows = nil
			return
		}
	}
	return
}

func flagIf(cond bool) byte {
	if cond {
		return 1
	}
	return 0
}
