// Package fdttest provides a synthetic fdt.Tree for host-run tests, filling
// the same role internal/fdt's Builder plays for tinyrange-cc's emulator
// tests: a way to construct tree contents directly instead of encoding and
// then re-parsing a binary blob.
package fdttest

import "github.com/archaic-archea/LSD-SBI/kernel/fdt"

// Tree is a directly-constructed fdt.Tree for tests.
type Tree struct {
	MemRegions []fdt.Reg
	Timebase   uint64
	PLIC       fdt.Reg
	PLICCtx    int
	HasPLIC    bool
	UART       fdt.Reg
	HasUART    bool
}

var _ fdt.Tree = (*Tree)(nil)

func (t *Tree) Memory() []fdt.Reg { return t.MemRegions }

func (t *Tree) TimebaseFrequency() uint64 { return t.Timebase }

func (t *Tree) PLICReg() (fdt.Reg, int, bool) { return t.PLIC, t.PLICCtx, t.HasPLIC }

func (t *Tree) UARTReg() (fdt.Reg, bool) { return t.UART, t.HasUART }

// QEMUVirt returns a Tree populated with the "virt" machine's well-known
// memory map, matching the constants grounded in
// internal/hv/riscv/rv64/cpu.go (RAMBase, PLICBase/Size, UARTBase/Size).
func QEMUVirt(ramBase, ramSize uint64) *Tree {
	return &Tree{
		MemRegions: []fdt.Reg{{Addr: ramBase, Length: ramSize}},
		Timebase:   10_000_000,
		PLIC:       fdt.Reg{Addr: 0x0c00_0000, Length: 0x0400_0000},
		PLICCtx:    2,
		HasPLIC:    true,
		UART:       fdt.Reg{Addr: 0x1000_0000, Length: 0x100},
		HasUART:    true,
	}
}
