package mem

import "unsafe"

// Zero4K zeroes the 4 KiB frame at p. It is only valid to call before
// paging is active (so p, a physical address, is also a valid identity
// mapped pointer) or after the frame has been mapped writable at its own
// physical address, which is how the activator maps "kernel"/"heap0"/
// "free0" per the paging activator's design.
func Zero4K(p PhysAddr) {
	ptr := unsafe.Pointer(uintptr(p))
	words := (*[PageSize / 8]uint64)(ptr)
	for i := range words {
		words[i] = 0
	}
}
