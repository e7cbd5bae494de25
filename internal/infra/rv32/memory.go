package rv32

import (
	"encoding/binary"
	"fmt"

	"github.com/runoshun/elfrun/internal/domain"
)

const (
	pageBits = 12
	pageSize = 1 << pageBits
	pageMask = pageSize - 1
)

// memory is a sparse little-endian byte-addressed memory.
// Unwritten bytes read as zero.
type memory struct {
	pages map[uint32]*[pageSize]byte
	limit uint64 // exclusive upper bound of valid addresses
}

func newMemory(bits int) *memory {
	return &memory{
		pages: make(map[uint32]*[pageSize]byte),
		limit: uint64(1) << uint(bits),
	}
}

func (m *memory) check(addr uint32, size uint32) error {
	if uint64(addr)+uint64(size) > m.limit {
		return fmt.Errorf("%w: 0x%08x+%d", domain.ErrAddressOutOfRange, addr, size)
	}
	if addr%size != 0 {
		return fmt.Errorf("%w: 0x%08x (size %d)", domain.ErrMisaligned, addr, size)
	}
	return nil
}

func (m *memory) page(addr uint32, create bool) *[pageSize]byte {
	key := addr >> pageBits
	p, ok := m.pages[key]
	if !ok && create {
		p = new([pageSize]byte)
		m.pages[key] = p
	}
	return p
}

// readByte returns the byte at addr. Callers check bounds.
func (m *memory) readByte(addr uint32) byte {
	p := m.page(addr, false)
	if p == nil {
		return 0
	}
	return p[addr&pageMask]
}

func (m *memory) writeByte(addr uint32, b byte) {
	m.page(addr, true)[addr&pageMask] = b
}

// load reads size bytes (1, 2 or 4) at a naturally aligned address.
func (m *memory) load(addr, size uint32) (uint32, error) {
	if err := m.check(addr, size); err != nil {
		return 0, err
	}
	// Aligned accesses never cross a page.
	p := m.page(addr, false)
	if p == nil {
		return 0, nil
	}
	off := addr & pageMask
	switch size {
	case 1:
		return uint32(p[off]), nil
	case 2:
		return uint32(binary.LittleEndian.Uint16(p[off:])), nil
	default:
		return binary.LittleEndian.Uint32(p[off:]), nil
	}
}

// store writes the low size bytes of v at a naturally aligned address.
func (m *memory) store(addr, size, v uint32) error {
	if err := m.check(addr, size); err != nil {
		return err
	}
	p := m.page(addr, true)
	off := addr & pageMask
	switch size {
	case 1:
		p[off] = byte(v)
	case 2:
		binary.LittleEndian.PutUint16(p[off:], uint16(v))
	default:
		binary.LittleEndian.PutUint32(p[off:], v)
	}
	return nil
}

// readBytes copies n bytes starting at addr.
func (m *memory) readBytes(addr, n uint32) ([]byte, error) {
	if uint64(addr)+uint64(n) > m.limit {
		return nil, fmt.Errorf("%w: 0x%08x+%d", domain.ErrAddressOutOfRange, addr, n)
	}
	out := make([]byte, n)
	for i := range out {
		out[i] = m.readByte(addr + uint32(i))
	}
	return out, nil
}

// writeBytes copies data to addr.
func (m *memory) writeBytes(addr uint32, data []byte) error {
	if uint64(addr)+uint64(len(data)) > m.limit {
		return fmt.Errorf("%w: 0x%08x+%d", domain.ErrAddressOutOfRange, addr, len(data))
	}
	for i, b := range data {
		m.writeByte(addr+uint32(i), b)
	}
	return nil
}
