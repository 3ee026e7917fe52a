package cpu

import (
	"errors"
	"fmt"
)

// Op is a decoded instruction variant.
type Op int

const (
	OP_SYS       = Op(0)  // sys nnn
	OP_CLS       = Op(1)  // cls
	OP_RET       = Op(2)  // ret
	OP_JP        = Op(3)  // jp nnn
	OP_CALL      = Op(4)  // call nnn
	OP_SE_IMM    = Op(5)  // se vx, kk
	OP_SNE_IMM   = Op(6)  // sne vx, kk
	OP_SE_REG    = Op(7)  // se vx, vy
	OP_LD_IMM    = Op(8)  // ld vx, kk
	OP_ADD_IMM   = Op(9)  // add vx, kk
	OP_LD_REG    = Op(10) // ld vx, vy
	OP_OR        = Op(11) // or vx, vy
	OP_AND       = Op(12) // and vx, vy
	OP_XOR       = Op(13) // xor vx, vy
	OP_ADD_REG   = Op(14) // add vx, vy
	OP_SUB       = Op(15) // sub vx, vy
	OP_SHR       = Op(16) // shr vx
	OP_SUBN      = Op(17) // subn vx, vy
	OP_SHL       = Op(18) // shl vx
	OP_SNE_REG   = Op(19) // sne vx, vy
	OP_LD_I      = Op(20) // ld i, nnn
	OP_JP_V0     = Op(21) // jp v0, nnn
	OP_RND       = Op(22) // rnd vx, kk
	OP_DRW       = Op(23) // drw vx, vy, n
	OP_SKP       = Op(24) // skp vx
	OP_SKNP      = Op(25) // sknp vx
	OP_LD_VX_DT  = Op(26) // ld vx, dt
	OP_LD_VX_K   = Op(27) // ld vx, k
	OP_LD_DT_VX  = Op(28) // ld dt, vx
	OP_LD_ST_VX  = Op(29) // ld st, vx
	OP_ADD_I     = Op(30) // add i, vx
	OP_LD_F      = Op(31) // ld f, vx
	OP_LD_B      = Op(32) // ld b, vx
	OP_LD_MEM_VX = Op(33) // ld [i], vx
	OP_LD_VX_MEM = Op(34) // ld vx, [i]

	OP_COUNT = Op(35)
)

var _op_names = [OP_COUNT]string{
	"sys", "cls", "ret", "jp", "call",
	"se", "sne", "se", "ld", "add",
	"ld", "or", "and", "xor", "add", "sub", "shr", "subn", "shl",
	"sne", "ld", "jp", "rnd", "drw", "skp", "sknp",
	"ld", "ld", "ld", "ld", "add", "ld", "ld", "ld", "ld",
}

func (op Op) String() string {
	if op < 0 || op >= OP_COUNT {
		return fmt.Sprintf("Op(%d)", int(op))
	}
	return _op_names[op]
}

// Code is a fetched instruction word and its decoded variant.
type Code struct {
	Word uint16
	Op   Op
}

// Decode an instruction word.
//
// The high nibble selects the group; groups 0, E and F are further
// dispatched on the low byte, and group 8 on the low nibble.
func Decode(word uint16) (code Code, err error) {
	code.Word = word

	op := OP_COUNT
	switch word >> 12 {
	case 0x0:
		switch word {
		case 0x00E0:
			op = OP_CLS
		case 0x00EE:
			op = OP_RET
		default:
			op = OP_SYS
		}
	case 0x1:
		op = OP_JP
	case 0x2:
		op = OP_CALL
	case 0x3:
		op = OP_SE_IMM
	case 0x4:
		op = OP_SNE_IMM
	case 0x5:
		if code.N() == 0 {
			op = OP_SE_REG
		}
	case 0x6:
		op = OP_LD_IMM
	case 0x7:
		op = OP_ADD_IMM
	case 0x8:
		switch code.N() {
		case 0x0:
			op = OP_LD_REG
		case 0x1:
			op = OP_OR
		case 0x2:
			op = OP_AND
		case 0x3:
			op = OP_XOR
		case 0x4:
			op = OP_ADD_REG
		case 0x5:
			op = OP_SUB
		case 0x6:
			op = OP_SHR
		case 0x7:
			op = OP_SUBN
		case 0xE:
			op = OP_SHL
		}
	case 0x9:
		if code.N() == 0 {
			op = OP_SNE_REG
		}
	case 0xA:
		op = OP_LD_I
	case 0xB:
		op = OP_JP_V0
	case 0xC:
		op = OP_RND
	case 0xD:
		op = OP_DRW
	case 0xE:
		switch code.KK() {
		case 0x9E:
			op = OP_SKP
		case 0xA1:
			op = OP_SKNP
		}
	case 0xF:
		switch code.KK() {
		case 0x07:
			op = OP_LD_VX_DT
		case 0x0A:
			op = OP_LD_VX_K
		case 0x15:
			op = OP_LD_DT_VX
		case 0x18:
			op = OP_LD_ST_VX
		case 0x1E:
			op = OP_ADD_I
		case 0x29:
			op = OP_LD_F
		case 0x33:
			op = OP_LD_B
		case 0x55:
			op = OP_LD_MEM_VX
		case 0x65:
			op = OP_LD_VX_MEM
		}
	}

	if op == OP_COUNT {
		err = errors.Join(ErrUnknownOpcode, ErrOpcode(word))
		return
	}

	code.Op = op
	return
}

// X returns the first register operand.
func (code Code) X() int {
	return int(code.Word>>8) & 0xf
}

// Y returns the second register operand.
func (code Code) Y() int {
	return int(code.Word>>4) & 0xf
}

// N returns the low nibble.
func (code Code) N() byte {
	return byte(code.Word & 0xf)
}

// KK returns the low byte.
func (code Code) KK() byte {
	return byte(code.Word & 0xff)
}

// NNN returns the 12-bit address operand.
func (code Code) NNN() uint16 {
	return code.Word & 0xfff
}

// String returns the mnemonic form of the instruction.
func (code Code) String() (out string) {
	op := code.Op.String()

	switch code.Op {
	case OP_CLS, OP_RET:
		out = op
	case OP_SYS, OP_JP, OP_CALL:
		out = fmt.Sprintf("%v 0x%03x", op, code.NNN())
	case OP_LD_I:
		out = fmt.Sprintf("%v i, 0x%03x", op, code.NNN())
	case OP_JP_V0:
		out = fmt.Sprintf("%v v0, 0x%03x", op, code.NNN())
	case OP_SE_IMM, OP_SNE_IMM, OP_LD_IMM, OP_ADD_IMM, OP_RND:
		out = fmt.Sprintf("%v v%x, 0x%02x", op, code.X(), code.KK())
	case OP_SE_REG, OP_SNE_REG, OP_LD_REG, OP_OR, OP_AND, OP_XOR,
		OP_ADD_REG, OP_SUB, OP_SUBN:
		out = fmt.Sprintf("%v v%x, v%x", op, code.X(), code.Y())
	case OP_SHR, OP_SHL, OP_SKP, OP_SKNP:
		out = fmt.Sprintf("%v v%x", op, code.X())
	case OP_DRW:
		out = fmt.Sprintf("%v v%x, v%x, %d", op, code.X(), code.Y(), code.N())
	case OP_LD_VX_DT:
		out = fmt.Sprintf("%v v%x, dt", op, code.X())
	case OP_LD_VX_K:
		out = fmt.Sprintf("%v v%x, k", op, code.X())
	case OP_LD_DT_VX:
		out = fmt.Sprintf("%v dt, v%x", op, code.X())
	case OP_LD_ST_VX:
		out = fmt.Sprintf("%v st, v%x", op, code.X())
	case OP_ADD_I:
		out = fmt.Sprintf("%v i, v%x", op, code.X())
	case OP_LD_F:
		out = fmt.Sprintf("%v f, v%x", op, code.X())
	case OP_LD_B:
		out = fmt.Sprintf("%v b, v%x", op, code.X())
	case OP_LD_MEM_VX:
		out = fmt.Sprintf("%v [i], v%x", op, code.X())
	case OP_LD_VX_MEM:
		out = fmt.Sprintf("%v v%x, [i]", op, code.X())
	default:
		out = fmt.Sprintf("0x%04x", code.Word)
	}

	return
}
