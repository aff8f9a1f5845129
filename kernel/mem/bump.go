package mem

import "github.com/archaic-archea/LSD-SBI/kernel/kerr"

// FrameAllocator is a monotonic, never-freeing 4 KiB frame allocator seeded
// from the free0 region. It is the Go analogue of gopher-os's
// BootMemAllocator: bump a cursor, never give a frame back, and rely on
// there being no dealloc path in the covered bring-up range.
type FrameAllocator struct {
	next  PhysAddr
	limit PhysAddr
}

// NewFrameAllocator seeds an allocator over free0.
func NewFrameAllocator(free0 Region) *FrameAllocator {
	base := free0.Base.AlignUp(PageSize)
	return &FrameAllocator{next: base, limit: free0.End()}
}

// Alloc returns the physical address of the next 4 KiB frame, passing it to
// zero first when zero is non-nil (callers building page tables pass
// Zero4K), or ErrFrameExhausted once free0 is consumed.
func (a *FrameAllocator) Alloc(zero func(PhysAddr)) (PhysAddr, error) {
	if a.next.Add(PageSize) > a.limit {
		return 0, kerr.ErrFrameExhausted
	}
	frame := a.next
	a.next = a.next.Add(PageSize)
	if zero != nil {
		zero(frame)
	}
	return frame, nil
}

// Remaining reports how many whole 4 KiB frames are left.
func (a *FrameAllocator) Remaining() int {
	if a.next >= a.limit {
		return 0
	}
	return int(Size(a.limit-a.next) / PageSize)
}
