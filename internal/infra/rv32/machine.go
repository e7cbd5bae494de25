package rv32

import (
	"context"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"math/rand/v2"

	"github.com/runoshun/elfrun/internal/domain"
)

// ctxCheckInterval is how many instructions run between context checks.
const ctxCheckInterval = 1 << 14

// Bounds on host buffers sized by guest registers.
const (
	maxPublicValues = 1 << 12 // public values area addressed by reveal
	maxHintRandom   = 1 << 16 // words per hint_random
	maxPrintStr     = 1 << 20 // bytes per print_str
)

// machine is the architectural state of one guest run.
// Fields are ordered to minimize memory padding.
type machine struct {
	prog         *program
	stdout       io.Writer
	input        [][]byte
	hintStream   []byte
	publicValues []byte
	cycles       uint64
	regs         [32]uint32
	pc           uint32
	exitCode     uint32
	halted       bool
}

func newMachine(prog *program, stdin domain.StdIn, stdout io.Writer) *machine {
	if stdout == nil {
		stdout = io.Discard
	}
	return &machine{
		prog:   prog,
		stdout: stdout,
		input:  stdin.Items(),
		pc:     prog.info.Entry,
	}
}

// run executes until terminate, an error, the instruction limit or ctx is done.
func (m *machine) run(ctx context.Context, maxCycles uint64) error {
	for !m.halted {
		if maxCycles > 0 && m.cycles >= maxCycles {
			return fmt.Errorf("%w: %d", domain.ErrCycleLimit, maxCycles)
		}
		if m.cycles%ctxCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		in, ok := m.prog.instructions[m.pc]
		if !ok {
			return fmt.Errorf("%w: 0x%08x", domain.ErrPCOutOfBounds, m.pc)
		}
		if err := m.step(in); err != nil {
			return fmt.Errorf("at pc=0x%08x (%s): %w", m.pc, in.op, err)
		}
		m.cycles++
	}
	return nil
}

func (m *machine) reg(r uint8) uint32 {
	return m.regs[r]
}

func (m *machine) setReg(r uint8, v uint32) {
	if r != 0 {
		m.regs[r] = v
	}
}

// step executes one instruction and advances pc.
func (m *machine) step(in instruction) error {
	a, b := m.reg(in.rs1), m.reg(in.rs2)
	imm := uint32(in.imm)
	next := m.pc + 4

	switch in.op {
	case opLUI:
		m.setReg(in.rd, imm)
	case opAUIPC:
		m.setReg(in.rd, m.pc+imm)
	case opJAL:
		m.setReg(in.rd, next)
		next = m.pc + imm
	case opJALR:
		target := (a + imm) &^ 1
		m.setReg(in.rd, next)
		next = target

	case opBEQ, opBNE, opBLT, opBGE, opBLTU, opBGEU:
		if branchTaken(in.op, a, b) {
			next = m.pc + imm
		}

	case opLB, opLH, opLW, opLBU, opLHU:
		v, err := m.loadValue(in.op, a+imm)
		if err != nil {
			return err
		}
		m.setReg(in.rd, v)
	case opSB:
		if err := m.prog.mem.store(a+imm, 1, b); err != nil {
			return err
		}
	case opSH:
		if err := m.prog.mem.store(a+imm, 2, b); err != nil {
			return err
		}
	case opSW:
		if err := m.prog.mem.store(a+imm, 4, b); err != nil {
			return err
		}

	case opADDI:
		m.setReg(in.rd, a+imm)
	case opSLTI:
		m.setReg(in.rd, boolToU32(int32(a) < in.imm))
	case opSLTIU:
		m.setReg(in.rd, boolToU32(a < imm))
	case opXORI:
		m.setReg(in.rd, a^imm)
	case opORI:
		m.setReg(in.rd, a|imm)
	case opANDI:
		m.setReg(in.rd, a&imm)
	case opSLLI:
		m.setReg(in.rd, a<<(imm&31))
	case opSRLI:
		m.setReg(in.rd, a>>(imm&31))
	case opSRAI:
		m.setReg(in.rd, uint32(int32(a)>>(imm&31)))

	case opADD, opSUB, opSLL, opSLT, opSLTU, opXOR, opSRL, opSRA, opOR, opAND,
		opMUL, opMULH, opMULHSU, opMULHU, opDIV, opDIVU, opREM, opREMU:
		m.setReg(in.rd, alu(in.op, a, b))

	case opFENCE:
	case opSYSTEM:
		return fmt.Errorf("%w: imm=0x%03x", domain.ErrUnsupportedSyscall, imm&0xfff)

	case opTERMINATE:
		m.exitCode = imm & 0xfff
		m.halted = true
		return nil
	case opHINTSTOREW:
		if err := m.hintStore(m.reg(in.rd), 1); err != nil {
			return err
		}
	case opHINTBUFFER:
		if err := m.hintStore(m.reg(in.rd), a); err != nil {
			return err
		}
	case opREVEAL:
		if err := m.reveal(m.reg(in.rd)+imm, a); err != nil {
			return err
		}
	case opHINTINPUT:
		if err := m.hintInput(); err != nil {
			return err
		}
	case opPRINTSTR:
		if err := m.printStr(m.reg(in.rd), a); err != nil {
			return err
		}
	case opHINTRANDOM:
		if err := m.hintRandom(m.reg(in.rd)); err != nil {
			return err
		}

	default:
		return fmt.Errorf("%w: %s", domain.ErrIllegalInstruction, in.op)
	}

	m.pc = next
	return nil
}

func (m *machine) loadValue(o op, addr uint32) (uint32, error) {
	switch o {
	case opLB:
		v, err := m.prog.mem.load(addr, 1)
		return uint32(int32(int8(v))), err
	case opLH:
		v, err := m.prog.mem.load(addr, 2)
		return uint32(int32(int16(v))), err
	case opLBU:
		return m.prog.mem.load(addr, 1)
	case opLHU:
		return m.prog.mem.load(addr, 2)
	default:
		return m.prog.mem.load(addr, 4)
	}
}

func branchTaken(o op, a, b uint32) bool {
	switch o {
	case opBEQ:
		return a == b
	case opBNE:
		return a != b
	case opBLT:
		return int32(a) < int32(b)
	case opBGE:
		return int32(a) >= int32(b)
	case opBLTU:
		return a < b
	default:
		return a >= b
	}
}

// alu evaluates the register-register operations of RV32I and the M extension.
func alu(o op, a, b uint32) uint32 {
	switch o {
	case opADD:
		return a + b
	case opSUB:
		return a - b
	case opSLL:
		return a << (b & 31)
	case opSLT:
		return boolToU32(int32(a) < int32(b))
	case opSLTU:
		return boolToU32(a < b)
	case opXOR:
		return a ^ b
	case opSRL:
		return a >> (b & 31)
	case opSRA:
		return uint32(int32(a) >> (b & 31))
	case opOR:
		return a | b
	case opAND:
		return a & b

	case opMUL:
		return a * b
	case opMULH:
		return uint32(uint64(int64(int32(a))*int64(int32(b))) >> 32)
	case opMULHSU:
		return uint32(uint64(int64(int32(a))*int64(b)) >> 32)
	case opMULHU:
		return uint32((uint64(a) * uint64(b)) >> 32)
	case opDIV:
		switch {
		case b == 0:
			return math.MaxUint32
		case int32(a) == math.MinInt32 && int32(b) == -1:
			return a
		default:
			return uint32(int32(a) / int32(b))
		}
	case opDIVU:
		if b == 0 {
			return math.MaxUint32
		}
		return a / b
	case opREM:
		switch {
		case b == 0:
			return a
		case int32(a) == math.MinInt32 && int32(b) == -1:
			return 0
		default:
			return uint32(int32(a) % int32(b))
		}
	case opREMU:
		if b == 0 {
			return a
		}
		return a % b
	}
	return 0
}

func boolToU32(v bool) uint32 {
	if v {
		return 1
	}
	return 0
}

// hintStore moves words from the hint stream to memory at ptr.
func (m *machine) hintStore(ptr, words uint32) error {
	need := uint64(words) * 4
	if need > uint64(len(m.hintStream)) {
		return fmt.Errorf("%w: need %d bytes, have %d", domain.ErrHintStreamExhausted, need, len(m.hintStream))
	}
	for i := uint32(0); i < words; i++ {
		w := binary.LittleEndian.Uint32(m.hintStream[:4])
		if err := m.prog.mem.store(ptr+4*i, 4, w); err != nil {
			return err
		}
		m.hintStream = m.hintStream[4:]
	}
	return nil
}

// hintInput replaces the hint stream with the next input vector, prefixed
// with its length and zero padded to a word boundary.
func (m *machine) hintInput() error {
	if len(m.input) == 0 {
		return domain.ErrInputExhausted
	}
	data := m.input[0]
	m.input = m.input[1:]

	stream := make([]byte, 4, 4+len(data)+3)
	binary.LittleEndian.PutUint32(stream, uint32(len(data)))
	stream = append(stream, data...)
	for len(stream)%4 != 0 {
		stream = append(stream, 0)
	}
	m.hintStream = stream
	return nil
}

// hintRandom replaces the hint stream with words random words.
func (m *machine) hintRandom(words uint32) error {
	if words > maxHintRandom {
		return fmt.Errorf("%w: %d random words, max %d", domain.ErrAddressOutOfRange, words, maxHintRandom)
	}
	stream := make([]byte, 4*int(words))
	for i := 0; i < len(stream); i += 4 {
		binary.LittleEndian.PutUint32(stream[i:], rand.Uint32())
	}
	m.hintStream = stream
	return nil
}

func (m *machine) reveal(offset, v uint32) error {
	if uint64(offset)+4 > maxPublicValues {
		return fmt.Errorf("%w: public value offset %d", domain.ErrAddressOutOfRange, offset)
	}
	if need := int(offset) + 4; need > len(m.publicValues) {
		m.publicValues = append(m.publicValues, make([]byte, need-len(m.publicValues))...)
	}
	binary.LittleEndian.PutUint32(m.publicValues[offset:], v)
	return nil
}

func (m *machine) printStr(ptr, n uint32) error {
	if n > maxPrintStr {
		return fmt.Errorf("%w: print of %d bytes, max %d", domain.ErrAddressOutOfRange, n, maxPrintStr)
	}
	data, err := m.prog.mem.readBytes(ptr, n)
	if err != nil {
		return err
	}
	_, err = m.stdout.Write(data)
	return err
}
