package mem

import (
	"github.com/archaic-archea/LSD-SBI/kernel/fdt"
	"github.com/archaic-archea/LSD-SBI/kernel/kerr"
)

// Region is a named, contiguous span of the physical address space.
type Region struct {
	Name     string
	Base     PhysAddr
	Length   Size
	ReadOnly bool
}

// End returns the first address past the region.
func (r Region) End() PhysAddr { return r.Base.Add(r.Length) }

// Contains reports whether p falls within the region.
func (r Region) Contains(p PhysAddr) bool {
	return p >= r.Base && p < r.End()
}

// Region names, fixed by the layout the boot path builds.
const (
	RegionMem       = "mem"
	RegionUnknown   = "unknown"
	RegionKernel    = "kernel"
	RegionHeap0     = "heap0"
	RegionStack0    = "stack0"
	RegionIntStack0 = "int_stack0"
	RegionFree0     = "free0"
)

// fixed sizes for the reserved regions that sit between the kernel image
// and the start of free memory.
const (
	heap0Size     Size = 0x4000
	stack0Size    Size = 0x100000
	intStack0Size Size = 0x10000
	regionAlign   Size = 16
)

// numFixedRegions is the count of named regions BuildMap always produces:
// mem, unknown, kernel, heap0, stack0, int_stack0, free0.
const numFixedRegions = 7

// RegionMap is the fixed set of regions produced by BuildMap. It is built
// once during boot and is read-only for the remainder of the kernel's life.
type RegionMap struct {
	regions [numFixedRegions]Region
	count   int
}

// All returns the populated regions in layout order.
func (m *RegionMap) All() []Region { return m.regions[:m.count] }

// Find returns the region with the given name, if present.
func (m *RegionMap) Find(name string) (Region, bool) {
	for _, r := range m.regions[:m.count] {
		if r.Name == name {
			return r, true
		}
	}
	return Region{}, false
}

func (m *RegionMap) add(r Region) {
	m.regions[m.count] = r
	m.count++
}

// BuildMap derives the kernel's region layout from the FDT's /memory node
// and the linker-provided kernel image bounds. It lays regions out in the
// fixed order mem, unknown, kernel, heap0, stack0, int_stack0, free0; all but
// "mem" and "unknown" are carved out of the span following the kernel image.
func BuildMap(tree fdt.Tree, kernelStart, kernelEnd PhysAddr) (RegionMap, error) {
	var m RegionMap

	regs := tree.Memory()
	if len(regs) == 0 || regs[0].Length == 0 {
		return m, kerr.ErrNoMemoryNode
	}
	ramBase := PhysAddr(regs[0].Addr)
	ramSize := Size(regs[0].Length)
	ramEnd := ramBase.Add(ramSize)

	if kernelEnd < kernelStart {
		return m, kerr.ErrRegionOrder
	}

	m.add(Region{Name: RegionMem, Base: ramBase, Length: ramSize})

	if kernelStart > ramBase {
		m.add(Region{Name: RegionUnknown, Base: ramBase, Length: Size(kernelStart - ramBase), ReadOnly: true})
	} else {
		m.add(Region{Name: RegionUnknown, Base: ramBase, Length: 0, ReadOnly: true})
	}

	m.add(Region{Name: RegionKernel, Base: kernelStart, Length: Size(kernelEnd - kernelStart)})

	cursor := kernelEnd.AlignUp(regionAlign)
	heap0 := Region{Name: RegionHeap0, Base: cursor, Length: heap0Size}
	m.add(heap0)
	cursor = heap0.End().AlignUp(regionAlign)

	stack0 := Region{Name: RegionStack0, Base: cursor, Length: stack0Size}
	m.add(stack0)
	cursor = stack0.End().AlignUp(regionAlign)

	intStack0 := Region{Name: RegionIntStack0, Base: cursor, Length: intStack0Size}
	m.add(intStack0)
	cursor = intStack0.End().AlignUp(regionAlign)

	if cursor >= ramEnd {
		return m, kerr.ErrRegionOverflow
	}
	m.add(Region{Name: RegionFree0, Base: cursor, Length: Size(ramEnd - cursor)})

	return m, nil
}
