package vmm

import (
	"testing"
	"unsafe"

	"golang.org/x/sys/unix"

	"github.com/archaic-archea/LSD-SBI/kernel/kerr"
	"github.com/archaic-archea/LSD-SBI/kernel/mem"
)

// backing allocates a page-aligned anonymous mapping via golang.org/x/sys/
// unix.Mmap and returns its address as a mem.PhysAddr, standing in for real
// physical RAM the way golang.org/x/sys/unix.Mmap stands in for MAP_ANON
// elsewhere in the pack's host-side tooling.
func backing(t *testing.T, pages int) mem.PhysAddr {
	t.Helper()
	buf, err := unix.Mmap(-1, 0, pages*mem.PageSize, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_ANON|unix.MAP_PRIVATE)
	if err != nil {
		t.Fatalf("mmap: %v", err)
	}
	t.Cleanup(func() { unix.Munmap(buf) })
	return mem.PhysAddr(uintptr(unsafe.Pointer(&buf[0])))
}

func newTestAllocator(t *testing.T, pages int) *mem.FrameAllocator {
	t.Helper()
	base := backing(t, pages)
	return mem.NewFrameAllocator(mem.Region{Name: mem.RegionFree0, Base: base, Length: mem.Size(pages * mem.PageSize)})
}

func TestMapIdempotent(t *testing.T) {
	alloc := newTestAllocator(t, 64)
	m, err := NewMapper(Sv39, alloc)
	if err != nil {
		t.Fatalf("NewMapper: %v", err)
	}

	phys := backing(t, 1)
	virt := mem.VirtAddr(phys)

	if err := m.Map(phys, virt, PteR|PteW, Page4K); err != nil {
		t.Fatalf("first Map: %v", err)
	}
	if err := m.Map(phys, virt, PteR|PteW, Page4K); err != nil {
		t.Fatalf("second (idempotent) Map: %v", err)
	}

	got, flags, ok := m.Translate(virt)
	if !ok {
		t.Fatal("Translate: not found after Map")
	}
	if got != phys {
		t.Fatalf("Translate address = %#x, want %#x", got, phys)
	}
	if !flags.has(PteR) || !flags.has(PteW) {
		t.Fatalf("Translate flags = %#x, want R|W set", flags)
	}
}

func TestMapRejectsWriteWithoutRead(t *testing.T) {
	alloc := newTestAllocator(t, 64)
	m, err := NewMapper(Sv39, alloc)
	if err != nil {
		t.Fatalf("NewMapper: %v", err)
	}

	phys := backing(t, 1)
	if err := m.Map(phys, mem.VirtAddr(phys), PteW, Page4K); err == nil {
		t.Fatal("Map with W but not R should fail")
	}
}

func TestMapMegapageMisaligned(t *testing.T) {
	alloc := newTestAllocator(t, 64)
	m, err := NewMapper(Sv39, alloc)
	if err != nil {
		t.Fatalf("NewMapper: %v", err)
	}

	misaligned := mem.PhysAddr(0x1000) // 4 KiB aligned but not 2 MiB aligned
	if err := m.Map(misaligned, mem.VirtAddr(misaligned), PteR|PteW, Page2M); err == nil {
		t.Fatal("Map at a misaligned megapage address should fail")
	}
}

func TestMapConflictsWithExistingGigapage(t *testing.T) {
	alloc := newTestAllocator(t, 64)
	m, err := NewMapper(Sv39, alloc)
	if err != nil {
		t.Fatalf("NewMapper: %v", err)
	}

	const gigapageBase = mem.PhysAddr(0x40000000) // 1 GiB aligned
	if err := m.Map(gigapageBase, mem.VirtAddr(gigapageBase), PteR|PteW, Page1G); err != nil {
		t.Fatalf("Map gigapage: %v", err)
	}

	inside := gigapageBase + 0x1000
	err = m.Map(inside, mem.VirtAddr(inside), PteR|PteW, Page4K)
	if err != kerr.ErrGigapage {
		t.Fatalf("Map of a 4K page inside an existing gigapage = %v, want %v", err, kerr.ErrGigapage)
	}
}

func TestMapConflictsWithExistingMegapage(t *testing.T) {
	alloc := newTestAllocator(t, 64)
	m, err := NewMapper(Sv39, alloc)
	if err != nil {
		t.Fatalf("NewMapper: %v", err)
	}

	const megapageBase = mem.PhysAddr(0x200000) // 2 MiB aligned
	if err := m.Map(megapageBase, mem.VirtAddr(megapageBase), PteR|PteW, Page2M); err != nil {
		t.Fatalf("Map megapage: %v", err)
	}

	inside := megapageBase + 0x1000
	err = m.Map(inside, mem.VirtAddr(inside), PteR|PteW, Page4K)
	if err != kerr.ErrMegapage {
		t.Fatalf("Map of a 4K page inside an existing megapage = %v, want %v", err, kerr.ErrMegapage)
	}
}

func TestMapUnsupportedLevel(t *testing.T) {
	alloc := newTestAllocator(t, 64)
	m, err := NewMapper(Sv39, alloc)
	if err != nil {
		t.Fatalf("NewMapper: %v", err)
	}
	// Sv39 has only 3 levels (0,1,2); Page1G uses level 2, which is valid,
	// so exercise the guard through an explicitly out-of-range PageSize.
	if err := m.Map(0, 0, PteR, PageSize(99)); err == nil {
		t.Fatal("Map with an unknown PageSize should fail")
	}
}
