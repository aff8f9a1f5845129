// Package vmm implements the Sv39/Sv48 virtual-address mapper and the
// paging activator that installs the kernel's own identity map before
// switching satp. PTE bit positions are grounded on
// internal/hv/riscv/rv64/mmu.go's PteV..PteD constants, which this package's
// guest-side table builder must agree with byte for byte.
package vmm

import "github.com/archaic-archea/LSD-SBI/kernel/mem"

// PTE is a single 8-byte Sv39/Sv48 page-table entry.
type PTE uint64

// PTE flag bits (unchanged from the rv64 emulator's mmu.go).
const (
	PteV Flags = 1 << 0 // Valid
	PteR Flags = 1 << 1 // Readable
	PteW Flags = 1 << 2 // Writable
	PteX Flags = 1 << 3 // Executable
	PteU Flags = 1 << 4 // User accessible
	PteG Flags = 1 << 5 // Global
	PteA Flags = 1 << 6 // Accessed
	PteD Flags = 1 << 7 // Dirty
)

const (
	ppnShift = 10
	ppnMask  = (1 << 44) - 1
)

// Flags is the set of PTE permission/status bits a caller of Map supplies.
type Flags uint64

func (f Flags) has(bit Flags) bool { return f&bit != 0 }

// IsLeaf reports whether any of R/W/X is set; a PTE with none of them set
// and V set is a pointer to the next-level table.
func (p PTE) IsLeaf() bool {
	return Flags(p).has(PteR) || Flags(p).has(PteW) || Flags(p).has(PteX)
}

func (p PTE) Valid() bool { return Flags(p).has(PteV) }

// PPN extracts the physical page number field.
func (p PTE) PPN() uint64 { return (uint64(p) >> ppnShift) & ppnMask }

// Addr reconstructs the physical address the entry points at (a table for
// a non-leaf entry, a frame for a leaf).
func (p PTE) Addr() mem.PhysAddr { return mem.PhysAddr(p.PPN() << mem.PageShift) }

// newPTE builds a leaf or pointer entry from a physical address and flags.
func newPTE(addr mem.PhysAddr, flags Flags) PTE {
	ppn := (uint64(addr) >> mem.PageShift) & ppnMask
	return PTE(ppn<<ppnShift | uint64(flags))
}

// Table is one level of a page table: 512 eight-byte entries, exactly one
// 4 KiB frame.
type Table [512]PTE
