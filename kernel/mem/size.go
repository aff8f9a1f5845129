// Package mem defines the physical/virtual address types, the region map
// produced by the memory-map builder, and the bump frame allocator that
// backs page-table construction. It is the Go realization of the memory
// model shared by kernel/mem/vmm, kernel/trap, kernel/plic and kernel/uart.
package mem

// Size is a byte count, named the way the teacher's emulator package and
// gopher-os's kernel/mem/size.go both spell out memory quantities.
type Size uint64

const (
	Byte Size = 1
	KB        = 1024 * Byte
	MB        = 1024 * KB
	GB        = 1024 * MB
)

// PageSize is the base 4 KiB translation granule used throughout the
// mapper; megapages and gigapages are expressed as multiples of it.
const PageSize = 4096

// PageShift is log2(PageSize).
const PageShift = 12
