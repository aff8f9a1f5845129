package mem

import "testing"

func TestFrameAllocatorMonotonic(t *testing.T) {
	free0 := Region{Name: RegionFree0, Base: 0x9000_0000, Length: 3 * PageSize}
	a := NewFrameAllocator(free0)

	var zeroed []PhysAddr
	zero := func(p PhysAddr) { zeroed = append(zeroed, p) }

	f1, err := a.Alloc(zero)
	if err != nil {
		t.Fatalf("Alloc 1: %v", err)
	}
	f2, err := a.Alloc(zero)
	if err != nil {
		t.Fatalf("Alloc 2: %v", err)
	}
	if f2 != f1.Add(PageSize) {
		t.Fatalf("f2 = %#x, want %#x", f2, f1.Add(PageSize))
	}
	if len(zeroed) != 2 {
		t.Fatalf("zero callback invoked %d times, want 2", len(zeroed))
	}

	if _, err := a.Alloc(zero); err != nil {
		t.Fatalf("Alloc 3: %v", err)
	}
	if _, err := a.Alloc(zero); err == nil {
		t.Fatal("Alloc past free0's capacity should fail")
	}
}

func TestFrameAllocatorRemaining(t *testing.T) {
	free0 := Region{Name: RegionFree0, Base: 0x9000_0000, Length: 4 * PageSize}
	a := NewFrameAllocator(free0)
	if got := a.Remaining(); got != 4 {
		t.Fatalf("Remaining = %d, want 4", got)
	}
	a.Alloc(nil)
	if got := a.Remaining(); got != 3 {
		t.Fatalf("Remaining after one Alloc = %d, want 3", got)
	}
}
