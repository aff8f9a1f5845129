package vmm

import (
	"testing"

	"github.com/archaic-archea/LSD-SBI/kernel/fdt/fdttest"
	"github.com/archaic-archea/LSD-SBI/kernel/mem"
)

func TestActivateIdentityMapsNamedRegionsAndEncodesSatp(t *testing.T) {
	alloc := newTestAllocator(t, 256)
	m, err := NewMapper(Sv39, alloc)
	if err != nil {
		t.Fatalf("NewMapper: %v", err)
	}

	kernelBase := backing(t, 4)

	tree := fdttest.QEMUVirt(uint64(kernelBase), 16*uint64(mem.MB))
	built, err := mem.BuildMap(tree, kernelBase, kernelBase.Add(2*mem.PageSize))
	if err != nil {
		t.Fatalf("BuildMap: %v", err)
	}

	satp, err := Activate(m, built, nil, 0)
	if err != nil {
		t.Fatalf("Activate: %v", err)
	}

	wantMode := uint64(Sv39)
	gotMode := satp >> satpModeShift
	if gotMode != wantMode {
		t.Fatalf("satp mode = %d, want %d", gotMode, wantMode)
	}
	gotPPN := satp & satpPPNMask
	wantPPN := uint64(m.RootAddr) >> mem.PageShift
	if gotPPN != wantPPN {
		t.Fatalf("satp PPN = %#x, want %#x", gotPPN, wantPPN)
	}

	kernel, _ := built.Find(mem.RegionKernel)
	phys, flags, ok := m.Translate(mem.VirtAddr(kernel.Base))
	if !ok {
		t.Fatal("kernel region not mapped after Activate")
	}
	if phys != kernel.Base {
		t.Fatalf("kernel identity map: got %#x, want %#x", phys, kernel.Base)
	}
	if !flags.has(PteX) {
		t.Fatal("kernel region should be executable")
	}
}
