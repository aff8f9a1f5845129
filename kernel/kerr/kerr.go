// Package kerr collects the sentinel errors raised across the boot path and
// the halt/panic helpers used once a fatal condition has been logged.
package kerr

import "errors"

// Memory-map builder (kernel/mem).
var (
	ErrNoMemoryNode   = errors.New("kerr: fdt has no usable /memory node")
	ErrRegionOverflow = errors.New("kerr: region layout overflows available RAM")
	ErrRegionOrder    = errors.New("kerr: kernelEnd precedes kernelStart")
)

// Page-table allocator (kernel/mem bump allocator).
var ErrFrameExhausted = errors.New("kerr: frame allocator exhausted free0")

// Trap dispatcher (kernel/trap): every exception is unrecoverable.
var ErrUnrecoverableException = errors.New("trap: unrecoverable exception")

// Virtual-address mapper (kernel/mem/vmm).
var (
	ErrInvalidPermissions    = errors.New("vmm: invalid permission combination")
	ErrMegapageMisaligned    = errors.New("vmm: megapage mapping is misaligned")
	ErrGigapageMisaligned    = errors.New("vmm: gigapage mapping is misaligned")
	ErrUnsupportedPagingType = errors.New("vmm: unsupported paging mode")
	ErrTableExhausted        = errors.New("vmm: no frames left to allocate a page table")

	// ErrMegapage and ErrGigapage signal that a mapping request would land
	// inside a region a coarser leaf already covers: a walk hit a valid
	// leaf PTE at a megapage or gigapage level while still holding more
	// levels to descend for the requested (finer) mapping. Distinct from
	// ErrInvalidPermissions, which is about the R/W/X/U bit combination
	// itself, not where in the table the conflict was found.
	ErrMegapage = errors.New("vmm: requested mapping conflicts with an existing megapage leaf")
	ErrGigapage = errors.New("vmm: requested mapping conflicts with an existing gigapage leaf")
)

// PLIC driver (kernel/plic).
var (
	ErrContextOutOfRange = errors.New("plic: context id out of range")
	ErrSourceOutOfRange  = errors.New("plic: interrupt source out of range")
)

// Halter is satisfied by kernel/csr.Halter; kept as an interface so kerr
// has no import-time dependency on csr (which is riscv64-only asm).
type Halter interface {
	HaltLoop()
}

// Logger is satisfied by kernel/klog.Logger.
type Logger interface {
	Errorf(format string, args ...any)
}

// Fatal logs err at error severity and halts the hart forever. It never
// returns; callers should treat it the way they would treat a call to
// builtin panic, but without unwinding (there is nothing below us to
// recover into).
func Fatal(log Logger, halt Halter, err error) {
	if log != nil {
		log.Errorf("fatal: %v", err)
	}
	if halt != nil {
		halt.HaltLoop()
	}
	for {
	}
}
