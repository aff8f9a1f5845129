package vmm

import "github.com/archaic-archea/LSD-SBI/kernel/mem"

// MMIO windows the activator identity-maps alongside the region map, named
// after the PLIC/UART constants shared with kernel/plic and kernel/uart.
type MMIOWindow struct {
	Name  string
	Base  mem.PhysAddr
	Size  mem.Size
	Flags Flags
}

const (
	satpModeShift = 60
	satpAsidShift = 44
	satpPPNMask   = (1 << 44) - 1
)

// Activate builds the identity map the kernel runs under once satp is
// written: kernel, heap0, stack0, int_stack0 and free0 are mapped RWX-as-
// appropriate, and each MMIO window is mapped without the executable bit.
// It returns the value to write to satp; the caller (kernel/csr) performs
// the actual CSR write plus the sfence.vma that must follow it.
func Activate(mapper *Mapper, regions mem.RegionMap, mmio []MMIOWindow, asid uint16) (satp uint64, err error) {
	// A/D (accessed/dirty) are set up front rather than left for the CPU's
	// own A/D-update mechanism (Sv39/48/57 support either; this kernel
	// assumes none and pre-sets both, the same choice spec §4.5 makes for
	// every identity-mapped region). V is added by Map itself.
	named := []struct {
		name  string
		flags Flags
	}{
		{mem.RegionKernel, PteR | PteW | PteX | PteA | PteD},
		{mem.RegionHeap0, PteR | PteW | PteA | PteD},
		{mem.RegionStack0, PteR | PteW | PteA | PteD},
		{mem.RegionIntStack0, PteR | PteW | PteA | PteD},
		{mem.RegionFree0, PteR | PteW | PteA | PteD | PteU | PteX},
	}

	for _, n := range named {
		region, ok := regions.Find(n.name)
		if !ok {
			continue
		}
		if err := identityMapRegion(mapper, region, n.flags); err != nil {
			return 0, err
		}
	}

	for _, w := range mmio {
		if err := identityMapRange(mapper, w.Base, mem.Size(w.Size), w.Flags); err != nil {
			return 0, err
		}
	}

	ppn := uint64(mapper.RootAddr) >> mem.PageShift
	satp = uint64(m2satpMode(mapper.mode))<<satpModeShift | uint64(asid)<<satpAsidShift | (ppn & satpPPNMask)
	return satp, nil
}

func m2satpMode(m Mode) uint64 { return uint64(m) }

// identityMapRegion maps an entire region at 4 KiB granularity; the fixed
// regions are small enough (heap0/stack0/int_stack0 measured in tens to
// hundreds of KiB) that megapage promotion would save nothing in practice
// and would complicate partial-region alignment.
func identityMapRegion(mapper *Mapper, r mem.Region, flags Flags) error {
	for cur := r.Base; cur < r.End(); cur = cur.Add(mem.PageSize) {
		if err := mapper.Map(cur, mem.VirtAddr(cur), flags, Page4K); err != nil {
			return err
		}
	}
	return nil
}

// identityMapRange maps [base, base+length) 1:1, preferring 1 GiB and then
// 2 MiB leaves where alignment and remaining length allow it — this is the
// path the MMIO windows (PLIC's 64 MiB span in particular) actually take.
func identityMapRange(mapper *Mapper, base mem.PhysAddr, length mem.Size, flags Flags) error {
	cur := base
	end := base.Add(length)

	for cur < end {
		remaining := mem.Size(end - cur)

		switch {
		case uint64(cur)%uint64(Page1G.bytes()) == 0 && remaining >= Page1G.bytes() && mapper.mode.Levels() >= 3:
			if err := mapper.Map(cur, mem.VirtAddr(cur), flags, Page1G); err != nil {
				return err
			}
			cur = cur.Add(Page1G.bytes())

		case uint64(cur)%uint64(Page2M.bytes()) == 0 && remaining >= Page2M.bytes():
			if err := mapper.Map(cur, mem.VirtAddr(cur), flags, Page2M); err != nil {
				return err
			}
			cur = cur.Add(Page2M.bytes())

		default:
			if err := mapper.Map(cur, mem.VirtAddr(cur), flags, Page4K); err != nil {
				return err
			}
			cur = cur.Add(mem.PageSize)
		}
	}
	return nil
}
