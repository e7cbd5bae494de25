package rv32

import (
	"bytes"
	"debug/elf"
	"encoding/binary"
	"testing"
)

// Test helpers: a tiny assembler and an ELF32 writer.

const (
	textBase = 0x1000
	dataBase = 0x4000
)

func encR(funct7, rs2, rs1, funct3, rd, opcode uint32) uint32 {
	return funct7<<25 | rs2<<20 | rs1<<15 | funct3<<12 | rd<<7 | opcode
}

func encI(imm int32, rs1, funct3, rd, opcode uint32) uint32 {
	return (uint32(imm)&0xfff)<<20 | rs1<<15 | funct3<<12 | rd<<7 | opcode
}

func encS(imm int32, rs2, rs1, funct3 uint32) uint32 {
	u := uint32(imm)
	return (u>>5&0x7f)<<25 | rs2<<20 | rs1<<15 | funct3<<12 | (u&0x1f)<<7 | majorStore
}

func encB(imm int32, rs2, rs1, funct3 uint32) uint32 {
	u := uint32(imm)
	return (u>>12&1)<<31 | (u>>5&0x3f)<<25 | rs2<<20 | rs1<<15 | funct3<<12 |
		(u>>1&0xf)<<8 | (u>>11&1)<<7 | majorBranch
}

func encU(imm uint32, rd, opcode uint32) uint32 {
	return imm&0xfffff000 | rd<<7 | opcode
}

func encJ(imm int32, rd uint32) uint32 {
	u := uint32(imm)
	return (u>>20&1)<<31 | (u>>1&0x3ff)<<21 | (u>>11&1)<<20 | (u>>12&0xff)<<12 | rd<<7 | majorJAL
}

func addi(rd, rs1 uint32, imm int32) uint32 { return encI(imm, rs1, 0, rd, majorOpImm) }
func lui(rd, imm uint32) uint32             { return encU(imm, rd, majorLUI) }
func sw(rs2, rs1 uint32, imm int32) uint32  { return encS(imm, rs2, rs1, 2) }
func lw(rd, rs1 uint32, imm int32) uint32   { return encI(imm, rs1, 2, rd, majorLoad) }
func terminate(code int32) uint32           { return encI(code, 0, funct3Terminate, 0, majorCustom0) }

// li loads a 32-bit constant with lui+addi.
func li(rd, v uint32) []uint32 {
	hi := (v + 0x800) & 0xfffff000
	lo := int32(v - hi)
	return []uint32{lui(rd, hi), addi(rd, rd, lo)}
}

func words(ws ...uint32) []byte {
	buf := make([]byte, 4*len(ws))
	for i, w := range ws {
		binary.LittleEndian.PutUint32(buf[4*i:], w)
	}
	return buf
}

func asm(parts ...any) []uint32 {
	var out []uint32
	for _, p := range parts {
		switch v := p.(type) {
		case uint32:
			out = append(out, v)
		case []uint32:
			out = append(out, v...)
		}
	}
	return out
}

type testSegment struct {
	data  []byte
	vaddr uint32
	memsz uint32
	flags elf.ProgFlag
}

type testSymbol struct {
	name  string
	value uint32
}

type elfSpec struct {
	segments []testSegment
	symbols  []testSymbol
	entry    uint32
	class    elf.Class
	machine  elf.Machine
	typ      elf.Type
}

// textELF builds an executable image with one text segment at textBase.
func textELF(t *testing.T, code []uint32) []byte {
	t.Helper()
	return buildELF(t, elfSpec{
		entry:    textBase,
		segments: []testSegment{{vaddr: textBase, data: words(code...), flags: elf.PF_R | elf.PF_X}},
	})
}

func buildELF(t *testing.T, spec elfSpec) []byte {
	t.Helper()
	le := binary.LittleEndian

	if spec.class == 0 {
		spec.class = elf.ELFCLASS32
	}
	if spec.machine == 0 {
		spec.machine = elf.EM_RISCV
	}
	if spec.typ == 0 {
		spec.typ = elf.ET_EXEC
	}

	const ehsize, phentsize, shentsize, symsize = 52, 32, 40, 16
	phnum := len(spec.segments)
	off := ehsize + phentsize*phnum

	// Segment payloads follow the program headers.
	segOffsets := make([]int, phnum)
	var body bytes.Buffer
	for i, s := range spec.segments {
		for (off+body.Len())%4 != 0 {
			body.WriteByte(0)
		}
		segOffsets[i] = off + body.Len()
		body.Write(s.data)
	}

	var shoff, shnum, shstrndx int
	var sections bytes.Buffer
	if len(spec.symbols) > 0 {
		strtab := []byte{0}
		symtab := make([]byte, symsize) // null symbol
		for _, sym := range spec.symbols {
			entry := make([]byte, symsize)
			le.PutUint32(entry[0:], uint32(len(strtab)))
			le.PutUint32(entry[4:], sym.value)
			entry[12] = byte(elf.STB_GLOBAL)<<4 | byte(elf.STT_NOTYPE)
			le.PutUint16(entry[14:], uint16(elf.SHN_ABS))
			symtab = append(symtab, entry...)
			strtab = append(strtab, sym.name...)
			strtab = append(strtab, 0)
		}
		shstrtab := []byte("\x00.symtab\x00.strtab\x00.shstrtab\x00")

		align := func() {
			for (off+body.Len())%4 != 0 {
				body.WriteByte(0)
			}
		}
		align()
		symOff := off + body.Len()
		body.Write(symtab)
		strOff := off + body.Len()
		body.Write(strtab)
		shstrOff := off + body.Len()
		body.Write(shstrtab)
		align()
		shoff = off + body.Len()

		writeSh := func(name, typ, offset, size, link, entsize uint32) {
			sh := make([]byte, shentsize)
			le.PutUint32(sh[0:], name)
			le.PutUint32(sh[4:], typ)
			le.PutUint32(sh[16:], offset)
			le.PutUint32(sh[20:], size)
			le.PutUint32(sh[24:], link)
			le.PutUint32(sh[32:], 1)
			le.PutUint32(sh[36:], entsize)
			sections.Write(sh)
		}
		sections.Write(make([]byte, shentsize))
		writeSh(1, uint32(elf.SHT_SYMTAB), uint32(symOff), uint32(len(symtab)), 2, symsize)
		writeSh(9, uint32(elf.SHT_STRTAB), uint32(strOff), uint32(len(strtab)), 0, 0)
		writeSh(17, uint32(elf.SHT_STRTAB), uint32(shstrOff), uint32(len(shstrtab)), 0, 0)
		shnum, shstrndx = 4, 3
	}

	hdr := make([]byte, ehsize)
	copy(hdr, elf.ELFMAG)
	hdr[elf.EI_CLASS] = byte(spec.class)
	hdr[elf.EI_DATA] = byte(elf.ELFDATA2LSB)
	hdr[elf.EI_VERSION] = byte(elf.EV_CURRENT)
	le.PutUint16(hdr[16:], uint16(spec.typ))
	le.PutUint16(hdr[18:], uint16(spec.machine))
	le.PutUint32(hdr[20:], uint32(elf.EV_CURRENT))
	le.PutUint32(hdr[24:], spec.entry)
	if phnum > 0 {
		le.PutUint32(hdr[28:], ehsize)
	}
	le.PutUint32(hdr[32:], uint32(shoff))
	le.PutUint16(hdr[40:], ehsize)
	le.PutUint16(hdr[42:], phentsize)
	le.PutUint16(hdr[44:], uint16(phnum))
	le.PutUint16(hdr[46:], shentsize)
	le.PutUint16(hdr[48:], uint16(shnum))
	le.PutUint16(hdr[50:], uint16(shstrndx))

	var out bytes.Buffer
	out.Write(hdr)
	for i, s := range spec.segments {
		memsz := s.memsz
		if memsz == 0 {
			memsz = uint32(len(s.data))
		}
		ph := make([]byte, phentsize)
		le.PutUint32(ph[0:], uint32(elf.PT_LOAD))
		le.PutUint32(ph[4:], uint32(segOffsets[i]))
		le.PutUint32(ph[8:], s.vaddr)
		le.PutUint32(ph[12:], s.vaddr)
		le.PutUint32(ph[16:], uint32(len(s.data)))
		le.PutUint32(ph[20:], memsz)
		le.PutUint32(ph[24:], uint32(s.flags))
		le.PutUint32(ph[28:], 4)
		out.Write(ph)
	}
	out.Write(body.Bytes())
	out.Write(sections.Bytes())
	return out.Bytes()
}
