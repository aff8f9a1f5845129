// cmd/kernel is the buildable entry point: the first ordinary Go code
// reached after runtime.rt0_go brings the runtime up (scheduler, GC,
// package init), itself reached from boot._boot via kernel.ld's
// ENTRY(_boot). See DESIGN.md's `boot` and `cmd/kernel` ledger rows for why
// the real entry point isn't main() the way a hosted Go binary's would be.
package main

import (
	"github.com/archaic-archea/LSD-SBI/boot"
	"github.com/archaic-archea/LSD-SBI/kernel/kmain"
)

func main() {
	kmain.Kmain(boot.HartID, boot.FDTPtr)
}
