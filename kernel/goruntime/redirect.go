package goruntime

import "unsafe"

// sentinelFill marks an unpopulated redirectTable slot. redirectTable is
// given this non-zero initial value (rather than relying on the zero value)
// so the compiler places it in an initialized-data section instead of bss:
// tools/redirects locates it by file offset after linking, and bss has no
// file-backed bytes to locate.
const sentinelFill = 0x5a5a5a5a5a5a5a5a

type redirectPair struct{ src, dst uint64 }

// redirectTable holds the runtime.sysAlloc/sysReserve/sysMap → goruntime.*
// VMA pairs tools/redirects writes in after the external-link step, in the
// same order SysAlloc/SysReserve/SysMap are declared in alloc.go.
var redirectTable = [3]redirectPair{
	{sentinelFill, sentinelFill},
	{sentinelFill, sentinelFill},
	{sentinelFill, sentinelFill},
}

// ApplyRedirects patches each populated redirectTable entry's source
// function prologue into an unconditional far jump to its destination,
// before runtime.rt0_go (and therefore mallocinit) can call the original.
// A slot still holding sentinelFill means the image was never run through
// tools/redirects; ApplyRedirects leaves it alone rather than jumping to a
// bogus destination.
func ApplyRedirects() {
	for _, r := range redirectTable {
		if r.src == 0 || r.dst == 0 || r.src == sentinelFill || r.dst == sentinelFill {
			continue
		}
		patchFarJump(r.src, r.dst)
	}
}

// patchFarJump overwrites the 8 bytes at src with an auipc+jalr pair — the
// standard PC-relative "far call" idiom gcc/clang emit for riscv64 calls
// beyond a single jal's ±1 MiB reach (auipc+jalr together reach ±2 GiB) — landing
// control at dst with x5 (t0) clobbered as the scratch link-address
// register. This kernel's image sits comfortably inside that range (both
// src and dst are always symbols in the same linked binary), so a single
// pair suffices without a literal pool.
func patchFarJump(src, dst uint64) {
	off := int64(dst) - int64(src)
	hi := (off + 0x800) >> 12
	lo := off - (hi << 12)

	auipc := (uint32(hi)&0xfffff)<<12 | 5<<7 | 0x17
	jalr := (uint32(lo)&0xfff)<<20 | 5<<15 | 0<<12 | 5<<7 | 0x67

	insns := (*[2]uint32)(unsafe.Pointer(uintptr(src)))
	insns[0] = auipc
	insns[1] = jalr
	fenceI()
}

// fenceI executes the RISC-V fence.i instruction, ordering the instruction
// writes above against the fetch of the patched prologue on its first real
// call. Defined in redirect_riscv64.s; Go's assembler has no FENCEI
// mnemonic, so it is hand-encoded there as a raw WORD.
func fenceI()
