// Package kmain composes the boot sequence: every package below it is
// leaf-first (linker symbols, region map, allocator, mapper before trap,
// trap before PLIC, PLIC before UART), matching the order gopher-os's
// kernel/kmain/kmain.go lays out its own Init() chain, generalized to this
// kernel's fixed ordering: klog, timing-seed, mem, vmm, trap, plic (tp is
// not a step here: boot._boot loads it with the hart id before the
// runtime.rt0_go handoff, before Kmain ever runs).
package kmain

import (
	"io"
	"unsafe"

	"github.com/archaic-archea/LSD-SBI/kernel/csr"
	"github.com/archaic-archea/LSD-SBI/kernel/fdt"
	"github.com/archaic-archea/LSD-SBI/kernel/kerr"
	"github.com/archaic-archea/LSD-SBI/kernel/klog"
	"github.com/archaic-archea/LSD-SBI/kernel/mem"
	"github.com/archaic-archea/LSD-SBI/kernel/mem/vmm"
	"github.com/archaic-archea/LSD-SBI/kernel/plic"
	"github.com/archaic-archea/LSD-SBI/kernel/timer"
	"github.com/archaic-archea/LSD-SBI/kernel/trap"
	"github.com/archaic-archea/LSD-SBI/kernel/uart"
)

// PLICSourceUART is the wire the "virt" machine's UART is tied to, the same
// hardcoded source original_source/lsd/src/interrupts/mod.rs special-cases
// in plic_int.
const PLICSourceUART = 10

// Kmain is called from cmd/kernel's main once runtime.rt0_go has brought the
// Go runtime itself up (package init, scheduler, GC). hartID and fdtPtr
// arrive exactly as the SBI boot contract in §6 describes (a0, a1), carried
// across the handoff via boot.HartID/boot.FDTPtr.
func Kmain(hartID, fdtPtr uint64) {
	// tp was loaded with the hart id by boot._boot before the runtime
	// handoff; this is the first point logging becomes possible.
	log := klog.New(io.Discard, klog.Info) // Output wired to the UART below once it exists.

	if fdt.Parse == nil {
		kerr.Fatal(log, csr.Halter{}, kerr.ErrNoMemoryNode)
	}
	tree, err := fdt.Parse(uintptr(fdtPtr))
	if err != nil {
		kerr.Fatal(log, csr.Halter{}, err)
	}

	// timing-seed: read timebase-frequency only; no timer is armed yet.
	timer.Init(tree.TimebaseFrequency())

	kernelStart := mem.KernelStart()
	kernelEnd := mem.KernelEnd()

	regions, err := mem.BuildMap(tree, kernelStart, kernelEnd)
	if err != nil {
		kerr.Fatal(log, csr.Halter{}, err)
	}

	free0, _ := regions.Find(mem.RegionFree0)
	allocator := mem.NewFrameAllocator(free0)

	mapper, err := vmm.NewMapper(vmm.Sv39, allocator)
	if err != nil {
		kerr.Fatal(log, csr.Halter{}, err)
	}

	var mmioWindows []vmm.MMIOWindow
	if plicReg, _, ok := tree.PLICReg(); ok {
		mmioWindows = append(mmioWindows, vmm.MMIOWindow{
			Name: "plic", Base: mem.PhysAddr(plicReg.Addr), Size: mem.Size(plicReg.Length),
			Flags: vmm.PteR | vmm.PteW | vmm.PteG,
		})
	}
	if uartReg, ok := tree.UARTReg(); ok {
		mmioWindows = append(mmioWindows, vmm.MMIOWindow{
			Name: "uart", Base: mem.PhysAddr(uartReg.Addr), Size: mem.Size(uartReg.Length),
			Flags: vmm.PteR | vmm.PteW | vmm.PteG,
		})
	}

	satp, err := vmm.Activate(mapper, regions, mmioWindows, 0)
	if err != nil {
		kerr.Fatal(log, csr.Halter{}, err)
	}
	csr.WriteSatp(satp)

	// sscratch must point at this hart's Scratch block before stvec is ever
	// live; entry_riscv64.s dereferences it on the very first trap.
	intStack0, _ := regions.Find(mem.RegionIntStack0)
	scratch := trap.NewScratch(uint64(intStack0.End()), hartID, mem.GlobalPointer())
	csr.WriteSscratch(uint64(uintptr(unsafe.Pointer(scratch))))

	trap.Install(csr.WriteStvec)
	trap.Init(log, nil, 0)

	if plicReg, numCtx, ok := tree.PLICReg(); ok {
		dev := plic.New(uintptr(plicReg.Addr), numCtx)
		const hartContext = 1 // current_context() = 1+2*hart; hart 0 => S-mode context 1
		dev.SetContextThreshold(hartContext, 0)
		trap.Init(log, dev, hartContext)

		if uartReg, ok := tree.UARTReg(); ok {
			u := uart.New(uintptr(uartReg.Addr))
			u.Init()
			u.SetInterrupt(true)
			log = klog.New(u, klog.Info)
			trap.Init(log, dev, hartContext)

			dev.SetInterruptPriority(PLICSourceUART, 7)
			dev.EnableInterrupt(hartContext, PLICSourceUART)
			trap.RegisterExternal(PLICSourceUART, func(source uint32) {
				handleUARTInterrupt(u, log)
			})
		}
	}

	csr.SetSie(csr.SieSEIE | csr.SieSTIE | csr.SieSSIE)
	csr.EnableInterrupts()

	log.Infof("boot complete on hart %d", hartID)

	for {
		csr.WFI()
	}
}

// handleUARTInterrupt echoes one received byte back out, erasing on
// backspace, per the behavior original_source/lsd/src/interrupts/mod.rs's
// plic_int implements inline for source 10.
func handleUARTInterrupt(u *uart.UART, log *klog.Logger) {
	if !u.DataWaiting() {
		return
	}
	b := u.ReadByte()
	switch b {
	case 8, 127:
		u.WriteByte(127)
	case 10, 13:
		u.WriteByte('\r')
		u.WriteByte('\n')
	default:
		u.WriteByte(b)
	}
}
