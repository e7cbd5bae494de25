package rv32

import (
	"bytes"
	"debug/elf"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/runoshun/elfrun/internal/domain"
)

// Symbols delimiting the RISCOF signature region.
const (
	symBeginSignature = "begin_signature"
	symEndSignature   = "end_signature"
)

// program is a loaded and transpiled ELF image.
type program struct {
	mem          *memory
	instructions map[uint32]instruction
	info         domain.ImageInfo
}

// openELF parses image and checks that it targets 32-bit little-endian RISC-V.
func openELF(image []byte) (*elf.File, error) {
	ef, err := elf.NewFile(bytes.NewReader(image))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidELF, err)
	}
	if ef.Class != elf.ELFCLASS32 {
		return nil, fmt.Errorf("%w: class %s, want ELFCLASS32", domain.ErrInvalidELF, ef.Class)
	}
	if ef.Data != elf.ELFDATA2LSB {
		return nil, fmt.Errorf("%w: data %s, want ELFDATA2LSB", domain.ErrInvalidELF, ef.Data)
	}
	if ef.Machine != elf.EM_RISCV {
		return nil, fmt.Errorf("%w: machine %s, want EM_RISCV", domain.ErrInvalidELF, ef.Machine)
	}
	if ef.Type != elf.ET_EXEC {
		return nil, fmt.Errorf("%w: type %s, want ET_EXEC", domain.ErrInvalidELF, ef.Type)
	}
	return ef, nil
}

// describe builds the ImageInfo of an opened ELF file.
func describe(ef *elf.File) domain.ImageInfo {
	info := domain.ImageInfo{
		Class:   ef.Class.String(),
		Machine: ef.Machine.String(),
		Type:    ef.Type.String(),
		Entry:   uint32(ef.Entry),
	}
	for _, p := range ef.Progs {
		if p.Type != elf.PT_LOAD {
			continue
		}
		info.Segments = append(info.Segments, domain.Segment{
			Vaddr:      uint32(p.Vaddr),
			FileSize:   uint32(p.Filesz),
			MemSize:    uint32(p.Memsz),
			Executable: p.Flags&elf.PF_X != 0,
			Writable:   p.Flags&elf.PF_W != 0,
		})
	}
	info.SignatureBegin, info.SignatureEnd, info.HasSignature = signatureRange(ef)
	return info
}

// signatureRange looks up the signature symbols.
func signatureRange(ef *elf.File) (begin, end uint32, ok bool) {
	syms, err := ef.Symbols()
	if err != nil {
		return 0, 0, false
	}
	var haveBegin, haveEnd bool
	for _, s := range syms {
		switch s.Name {
		case symBeginSignature:
			begin, haveBegin = uint32(s.Value), true
		case symEndSignature:
			end, haveEnd = uint32(s.Value), true
		}
	}
	if !haveBegin || !haveEnd || end < begin {
		return 0, 0, false
	}
	return begin, end, true
}

// load parses image, copies its loadable segments into a fresh memory and
// transpiles every executable word.
func load(image []byte, memoryBits int) (*program, error) {
	ef, err := openELF(image)
	if err != nil {
		return nil, err
	}
	defer ef.Close()

	prog := &program{
		mem:          newMemory(memoryBits),
		instructions: make(map[uint32]instruction),
		info:         describe(ef),
	}

	for _, p := range ef.Progs {
		if p.Type != elf.PT_LOAD || p.Memsz == 0 {
			continue
		}
		if p.Filesz > p.Memsz {
			return nil, fmt.Errorf("%w: segment at 0x%x has filesz > memsz", domain.ErrInvalidELF, p.Vaddr)
		}
		if p.Vaddr+p.Memsz > prog.mem.limit {
			return nil, fmt.Errorf("%w: segment 0x%x+0x%x exceeds 2^%d",
				domain.ErrAddressOutOfRange, p.Vaddr, p.Memsz, memoryBits)
		}
		data := make([]byte, p.Filesz)
		if _, err := io.ReadFull(p.Open(), data); err != nil {
			return nil, fmt.Errorf("%w: read segment at 0x%x: %w", domain.ErrInvalidELF, p.Vaddr, err)
		}
		vaddr := uint32(p.Vaddr)
		if err := prog.mem.writeBytes(vaddr, data); err != nil {
			return nil, err
		}
		if p.Flags&elf.PF_X != 0 {
			if err := prog.transpile(vaddr, data); err != nil {
				return nil, err
			}
		}
	}

	if len(prog.instructions) == 0 {
		return nil, fmt.Errorf("%w: no executable segment", domain.ErrInvalidELF)
	}
	return prog, nil
}

// transpile decodes every word of an executable segment. Zero words are
// treated as padding and left out of the instruction table.
func (p *program) transpile(vaddr uint32, data []byte) error {
	if vaddr%4 != 0 {
		return fmt.Errorf("%w: executable segment at 0x%x is not word aligned", domain.ErrInvalidELF, vaddr)
	}
	for off := 0; off < len(data); off += 4 {
		var buf [4]byte
		copy(buf[:], data[off:])
		w := binary.LittleEndian.Uint32(buf[:])
		if w == 0 {
			continue
		}
		addr := vaddr + uint32(off)
		in, ok := decode(w)
		if !ok {
			return fmt.Errorf("%w: 0x%08x at 0x%08x", domain.ErrIllegalInstruction, w, addr)
		}
		p.instructions[addr] = in
	}
	return nil
}

// signature reads the signature region after execution.
func (p *program) signature() ([]uint32, error) {
	if !p.info.HasSignature {
		return nil, domain.ErrNoSignatureRegion
	}
	begin, end := p.info.SignatureBegin, p.info.SignatureEnd
	raw, err := p.mem.readBytes(begin, end-begin)
	if err != nil {
		return nil, err
	}
	words := make([]uint32, 0, (len(raw)+3)/4)
	for off := 0; off < len(raw); off += 4 {
		var buf [4]byte
		copy(buf[:], raw[off:])
		words = append(words, binary.LittleEndian.Uint32(buf[:]))
	}
	return words, nil
}

// inspect parses image without loading it.
func inspect(image []byte) (*domain.ImageInfo, error) {
	ef, err := openELF(image)
	if err != nil {
		return nil, err
	}
	defer ef.Close()
	info := describe(ef)
	return &info, nil
}
