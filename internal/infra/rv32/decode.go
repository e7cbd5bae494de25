package rv32

import "fmt"

// op identifies a decoded operation.
type op uint8

const (
	opInvalid op = iota

	opLUI
	opAUIPC
	opJAL
	opJALR

	opBEQ
	opBNE
	opBLT
	opBGE
	opBLTU
	opBGEU

	opLB
	opLH
	opLW
	opLBU
	opLHU

	opSB
	opSH
	opSW

	opADDI
	opSLTI
	opSLTIU
	opXORI
	opORI
	opANDI
	opSLLI
	opSRLI
	opSRAI

	opADD
	opSUB
	opSLL
	opSLT
	opSLTU
	opXOR
	opSRL
	opSRA
	opOR
	opAND

	opMUL
	opMULH
	opMULHSU
	opMULHU
	opDIV
	opDIVU
	opREM
	opREMU

	opFENCE
	opSYSTEM // ECALL, EBREAK, CSR*: decoded, rejected at execution

	opTERMINATE
	opHINTSTOREW
	opHINTBUFFER
	opREVEAL
	opHINTINPUT
	opPRINTSTR
	opHINTRANDOM
)

var opNames = [...]string{
	opInvalid:    "invalid",
	opLUI:        "lui",
	opAUIPC:      "auipc",
	opJAL:        "jal",
	opJALR:       "jalr",
	opBEQ:        "beq",
	opBNE:        "bne",
	opBLT:        "blt",
	opBGE:        "bge",
	opBLTU:       "bltu",
	opBGEU:       "bgeu",
	opLB:         "lb",
	opLH:         "lh",
	opLW:         "lw",
	opLBU:        "lbu",
	opLHU:        "lhu",
	opSB:         "sb",
	opSH:         "sh",
	opSW:         "sw",
	opADDI:       "addi",
	opSLTI:       "slti",
	opSLTIU:      "sltiu",
	opXORI:       "xori",
	opORI:        "ori",
	opANDI:       "andi",
	opSLLI:       "slli",
	opSRLI:       "srli",
	opSRAI:       "srai",
	opADD:        "add",
	opSUB:        "sub",
	opSLL:        "sll",
	opSLT:        "slt",
	opSLTU:       "sltu",
	opXOR:        "xor",
	opSRL:        "srl",
	opSRA:        "sra",
	opOR:         "or",
	opAND:        "and",
	opMUL:        "mul",
	opMULH:       "mulh",
	opMULHSU:     "mulhsu",
	opMULHU:      "mulhu",
	opDIV:        "div",
	opDIVU:       "divu",
	opREM:        "rem",
	opREMU:       "remu",
	opFENCE:      "fence",
	opSYSTEM:     "system",
	opTERMINATE:  "terminate",
	opHINTSTOREW: "hintstorew",
	opHINTBUFFER: "hint_buffer",
	opREVEAL:     "reveal",
	opHINTINPUT:  "phantom.hint_input",
	opPRINTSTR:   "phantom.print_str",
	opHINTRANDOM: "phantom.hint_random",
}

// String returns the mnemonic.
func (o op) String() string {
	if int(o) < len(opNames) {
		return opNames[o]
	}
	return fmt.Sprintf("op(%d)", uint8(o))
}

// Major opcodes.
const (
	majorLoad    = 0x03
	majorCustom0 = 0x0b
	majorMiscMem = 0x0f
	majorOpImm   = 0x13
	majorAUIPC   = 0x17
	majorStore   = 0x23
	majorOp      = 0x33
	majorLUI     = 0x37
	majorBranch  = 0x63
	majorJALR    = 0x67
	majorJAL     = 0x6f
	majorSystem  = 0x73
)

// Custom-0 funct3 values and immediates.
const (
	funct3Terminate = 0
	funct3HintStore = 1
	funct3Reveal    = 2
	funct3Phantom   = 3

	hintStoreW   = 0
	hintBuffer   = 1
	phantomInput = 0
	phantomPrint = 1
	phantomRand  = 2
)

// instruction is a decoded RV32 instruction.
type instruction struct {
	imm int32
	op  op
	rd  uint8
	rs1 uint8
	rs2 uint8
}

func (in instruction) String() string {
	return fmt.Sprintf("%s rd=x%d rs1=x%d rs2=x%d imm=%d", in.op, in.rd, in.rs1, in.rs2, in.imm)
}

func immI(w uint32) int32 {
	return int32(w) >> 20
}

func immS(w uint32) int32 {
	return (int32(w)>>25)<<5 | int32((w>>7)&0x1f)
}

func immB(w uint32) int32 {
	return (int32(w)>>31)<<12 |
		int32((w>>7)&0x1)<<11 |
		int32((w>>25)&0x3f)<<5 |
		int32((w>>8)&0xf)<<1
}

func immU(w uint32) int32 {
	return int32(w & 0xfffff000)
}

func immJ(w uint32) int32 {
	return (int32(w)>>31)<<20 |
		int32((w>>12)&0xff)<<12 |
		int32((w>>20)&0x1)<<11 |
		int32((w>>21)&0x3ff)<<1
}

// decode decodes a 32-bit instruction word.
// The second result is false when the word is not a supported instruction.
func decode(w uint32) (instruction, bool) {
	in := instruction{
		rd:  uint8((w >> 7) & 0x1f),
		rs1: uint8((w >> 15) & 0x1f),
		rs2: uint8((w >> 20) & 0x1f),
	}
	funct3 := (w >> 12) & 0x7
	funct7 := w >> 25

	switch w & 0x7f {
	case majorLUI:
		in.op, in.imm = opLUI, immU(w)
	case majorAUIPC:
		in.op, in.imm = opAUIPC, immU(w)
	case majorJAL:
		in.op, in.imm = opJAL, immJ(w)
	case majorJALR:
		if funct3 != 0 {
			return in, false
		}
		in.op, in.imm = opJALR, immI(w)
	case majorBranch:
		in.imm = immB(w)
		switch funct3 {
		case 0:
			in.op = opBEQ
		case 1:
			in.op = opBNE
		case 4:
			in.op = opBLT
		case 5:
			in.op = opBGE
		case 6:
			in.op = opBLTU
		case 7:
			in.op = opBGEU
		default:
			return in, false
		}
	case majorLoad:
		in.imm = immI(w)
		switch funct3 {
		case 0:
			in.op = opLB
		case 1:
			in.op = opLH
		case 2:
			in.op = opLW
		case 4:
			in.op = opLBU
		case 5:
			in.op = opLHU
		default:
			return in, false
		}
	case majorStore:
		in.imm = immS(w)
		switch funct3 {
		case 0:
			in.op = opSB
		case 1:
			in.op = opSH
		case 2:
			in.op = opSW
		default:
			return in, false
		}
	case majorOpImm:
		in.imm = immI(w)
		switch funct3 {
		case 0:
			in.op = opADDI
		case 2:
			in.op = opSLTI
		case 3:
			in.op = opSLTIU
		case 4:
			in.op = opXORI
		case 6:
			in.op = opORI
		case 7:
			in.op = opANDI
		case 1:
			if funct7 != 0 {
				return in, false
			}
			in.op, in.imm = opSLLI, int32(in.rs2)
		case 5:
			switch funct7 {
			case 0x00:
				in.op = opSRLI
			case 0x20:
				in.op = opSRAI
			default:
				return in, false
			}
			in.imm = int32(in.rs2)
		}
	case majorOp:
		in.op = decodeOp(funct3, funct7)
		if in.op == opInvalid {
			return in, false
		}
	case majorMiscMem:
		if funct3 > 1 {
			return in, false
		}
		in.op = opFENCE
	case majorSystem:
		in.op, in.imm = opSYSTEM, immI(w)
	case majorCustom0:
		in.imm = immI(w)
		in.op = decodeCustom0(funct3, in.imm)
		if in.op == opInvalid {
			return in, false
		}
	default:
		return in, false
	}

	// Register fields a format does not have hold immediate bits.
	switch w & 0x7f {
	case majorLUI, majorAUIPC, majorJAL:
		in.rs1, in.rs2 = 0, 0
	case majorStore, majorBranch:
		in.rd = 0
	case majorOp:
	default:
		in.rs2 = 0
	}
	return in, true
}

func decodeOp(funct3, funct7 uint32) op {
	switch funct7 {
	case 0x00:
		return [...]op{opADD, opSLL, opSLT, opSLTU, opXOR, opSRL, opOR, opAND}[funct3]
	case 0x20:
		switch funct3 {
		case 0:
			return opSUB
		case 5:
			return opSRA
		}
	case 0x01:
		return [...]op{opMUL, opMULH, opMULHSU, opMULHU, opDIV, opDIVU, opREM, opREMU}[funct3]
	}
	return opInvalid
}

func decodeCustom0(funct3 uint32, imm int32) op {
	switch funct3 {
	case funct3Terminate:
		return opTERMINATE
	case funct3HintStore:
		switch imm {
		case hintStoreW:
			return opHINTSTOREW
		case hintBuffer:
			return opHINTBUFFER
		}
	case funct3Reveal:
		return opREVEAL
	case funct3Phantom:
		switch imm {
		case phantomInput:
			return opHINTINPUT
		case phantomPrint:
			return opPRINTSTR
		case phantomRand:
			return opHINTRANDOM
		}
	}
	return opInvalid
}
