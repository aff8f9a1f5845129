// Package trap owns the trap entry assembly, the per-hart scratch block it
// reads, and the scause-driven dispatcher it calls into. The register save
// order is the ABI contract between entry_riscv64.s and Frame; changing one
// without the other breaks every trap.
package trap

// Frame is the fixed 256-byte register save area pushed onto the interrupt
// stack by entry_riscv64.s: the 31 general registers other than the
// hardwired x0, followed by sepc. Each field's offset matches the offset the
// assembly stores that register at.
type Frame struct {
	RA, SP, GP, TP         uint64
	T0, T1, T2             uint64
	S0, S1                 uint64
	A0, A1, A2, A3, A4, A5, A6, A7 uint64
	S2, S3, S4, S5, S6, S7, S8, S9, S10, S11 uint64
	T3, T4, T5, T6         uint64
	Sepc                   uint64
}

// FPFrame is the layout of a floating-point save area (f0-f31 plus fcsr).
// entry_riscv64.s saves no floating-point registers and never fills an
// FPFrame, whatever sstatus.FS reports at trap entry.
type FPFrame struct {
	F      [32]uint64 // raw bit patterns of f0-f31
	Fcsr   uint32
	_      uint32 // padding to keep FPFrame a multiple of 8 bytes
}

// abiNames mirrors internal/hv/riscv/rv64/boot_test.go's register-name
// table, used only for diagnostic dumps.
var abiNames = [31]string{
	"ra", "sp", "gp", "tp",
	"t0", "t1", "t2",
	"s0/fp", "s1",
	"a0", "a1", "a2", "a3", "a4", "a5", "a6", "a7",
	"s2", "s3", "s4", "s5", "s6", "s7", "s8", "s9", "s10", "s11",
	"t3", "t4", "t5", "t6",
}

// gprs returns the frame's 31 general registers in store order, for dumping
// and for the round-trip test's reflection-free comparisons.
func (f *Frame) gprs() [31]uint64 {
	return [31]uint64{
		f.RA, f.SP, f.GP, f.TP,
		f.T0, f.T1, f.T2,
		f.S0, f.S1,
		f.A0, f.A1, f.A2, f.A3, f.A4, f.A5, f.A6, f.A7,
		f.S2, f.S3, f.S4, f.S5, f.S6, f.S7, f.S8, f.S9, f.S10, f.S11,
		f.T3, f.T4, f.T5, f.T6,
	}
}

// Dump writes a human-readable register dump to w, one register per line.
func (f *Frame) Dump(writeLine func(name string, value uint64)) {
	regs := f.gprs()
	for i, name := range abiNames {
		writeLine(name, regs[i])
	}
	writeLine("sepc", f.Sepc)
}
