// Package boot holds the assembly that runs before any Go runtime exists:
// interrupt-disable, bss zeroing, initial stack/gp/tp setup for hart 0, and
// the handoff into runtime.rt0_go. It is deliberately thin — everything that
// can be ordinary Go lives in kernel/kmain instead, reached once the runtime
// is up via cmd/kernel's main.
package boot

import "github.com/archaic-archea/LSD-SBI/kernel/goruntime"

// _boot is the symbol kernel.ld's ENTRY(_boot) makes the image's real entry
// point; defined in entry_riscv64.s.
func _boot()

// HartID and FDTPtr carry the SBI boot contract's a0/a1 across the handoff
// into runtime.rt0_go, which needs a0/a1 for its own argc/argv. cmd/kernel's
// main reads these once the runtime is alive. Plain zero-valued package vars
// need no init-time code, so they're safe to write from assembly before any
// package initializer has run.
var (
	HartID uint64
	FDTPtr uint64
)

// fakeArgv is the empty argv/envp/auxv runtime.rt0_go is handed in place of
// a real process-start stack: argv[0] (unused, argc==0), the envp
// terminator, and the auxv terminator, all zero.
var fakeArgv [4]uintptr

// prepareRuntime is _boot's one Go-level call before jumping into
// runtime.rt0_go: it stashes the boot args and wires kernel/goruntime's
// bump arena to the heap0 span kernel.ld reserves, so the redirected
// sysAlloc/sysReserve/sysMap targets have somewhere to allocate from before
// kernel/kmain ever runs.
func prepareRuntime(hartID, fdtPtr, heap0Start, heap0End uint64) {
	HartID = hartID
	FDTPtr = fdtPtr
	goruntime.InitArena(uintptr(heap0Start), uintptr(heap0End))

	// Patch runtime.sysAlloc/sysReserve/sysMap's call sites before
	// returning into the rt0_go handoff: mallocinit is one of the very
	// first things schedinit does, so this must run before that, not
	// lazily on first allocation.
	goruntime.ApplyRedirects()
}
