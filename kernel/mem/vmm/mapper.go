package vmm

import (
	"unsafe"

	"github.com/archaic-archea/LSD-SBI/kernel/kerr"
	"github.com/archaic-archea/LSD-SBI/kernel/mem"
)

// Mode is the active Sv paging mode, numbered per the satp MODE field.
type Mode int

const (
	Bare Mode = 0
	Sv39 Mode = 8
	Sv48 Mode = 9
	Sv57 Mode = 10
)

// Levels returns the number of page-table levels for the mode, or 0 for an
// unsupported mode.
func (m Mode) Levels() int {
	switch m {
	case Sv39:
		return 3
	case Sv48:
		return 4
	case Sv57:
		return 5
	default:
		return 0
	}
}

// PageSize names the leaf granularity a Map call installs.
type PageSize int

const (
	Page4K PageSize = iota
	Page2M
	Page1G
)

func (s PageSize) level() int {
	switch s {
	case Page4K:
		return 0
	case Page2M:
		return 1
	case Page1G:
		return 2
	default:
		return -1
	}
}

func (s PageSize) bytes() mem.Size {
	switch s {
	case Page4K:
		return mem.PageSize
	case Page2M:
		return 2 * mem.MB
	case Page1G:
		return 1 * mem.GB
	default:
		return 0
	}
}

// Mapper builds a page table for one paging mode, allocating intermediate
// tables from a FrameAllocator as the walk needs them. It mirrors the table
// walk in internal/hv/riscv/rv64/mmu.go's walkPageTable, inverted from
// translating an existing table to installing entries into one.
type Mapper struct {
	RootAddr mem.PhysAddr
	mode     Mode
	alloc    *mem.FrameAllocator
}

// NewMapper allocates a root table and returns a Mapper over it.
func NewMapper(mode Mode, alloc *mem.FrameAllocator) (*Mapper, error) {
	if mode.Levels() == 0 {
		return nil, kerr.ErrUnsupportedPagingType
	}
	root, err := alloc.Alloc(mem.Zero4K)
	if err != nil {
		return nil, err
	}
	return &Mapper{RootAddr: root, mode: mode, alloc: alloc}, nil
}

func tableAt(addr mem.PhysAddr) *Table {
	return (*Table)(unsafe.Pointer(uintptr(addr)))
}

// Map installs a translation from virt to phys with the given permission
// flags at the requested leaf granularity. Calling Map twice with identical
// arguments is a no-op (idempotent); calling it twice with the same virt and
// different phys/flags overwrites the existing leaf.
func (m *Mapper) Map(phys mem.PhysAddr, virt mem.VirtAddr, flags Flags, size PageSize) error {
	if flags.has(PteW) && !flags.has(PteR) {
		return kerr.ErrInvalidPermissions
	}

	targetLevel := size.level()
	if targetLevel < 0 || targetLevel >= m.mode.Levels() {
		return kerr.ErrUnsupportedPagingType
	}

	pageBytes := size.bytes()
	if uint64(phys)%uint64(pageBytes) != 0 || uint64(virt)%uint64(pageBytes) != 0 {
		if size == Page1G {
			return kerr.ErrGigapageMisaligned
		}
		return kerr.ErrMegapageMisaligned
	}

	table := tableAt(m.RootAddr)
	for level := m.mode.Levels() - 1; level > targetLevel; level-- {
		idx := virt.VPN(level)
		entry := table[idx]

		if !entry.Valid() {
			child, err := m.alloc.Alloc(mem.Zero4K)
			if err != nil {
				return kerr.ErrTableExhausted
			}
			table[idx] = newPTE(child, PteV)
			table = tableAt(child)
			continue
		}
		if entry.IsLeaf() {
			// A leaf already occupies this slot at a coarser granularity
			// than requested; refuse rather than silently shadow it. Which
			// sentinel to return depends on which level the existing leaf
			// sits at, not on the mapping being requested.
			if level == Page1G.level() {
				return kerr.ErrGigapage
			}
			return kerr.ErrMegapage
		}
		table = tableAt(entry.Addr())
	}

	idx := virt.VPN(targetLevel)
	table[idx] = newPTE(phys, flags|PteV)
	return nil
}

// Translate walks the table built so far and returns the physical address
// virt currently maps to, for use by tests verifying Map's idempotence and
// Activate's identity map.
func (m *Mapper) Translate(virt mem.VirtAddr) (mem.PhysAddr, Flags, bool) {
	table := tableAt(m.RootAddr)
	for level := m.mode.Levels() - 1; level >= 0; level-- {
		idx := virt.VPN(level)
		entry := table[idx]
		if !entry.Valid() {
			return 0, 0, false
		}
		if entry.IsLeaf() {
			pageBytes := uint64(1) << (mem.PageShift + 9*level)
			offset := uint64(virt) & (pageBytes - 1)
			return entry.Addr() + mem.PhysAddr(offset), Flags(entry) &^ PteV, true
		}
		table = tableAt(entry.Addr())
	}
	return 0, 0, false
}
