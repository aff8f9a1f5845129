// Package csr provides typed wrappers over the supervisor-mode control and
// status registers the boot path touches. Every function that must execute
// a csrr/csrw/csrrw instruction is declared here with no body and defined in
// csr_riscv64.s, the same split gopher-os uses for archAcquireSpinlock in
// kernel/sync/spinlock.go.
package csr

// sstatus bits (addresses and bit layout grounded on
// internal/hv/riscv/rv64/cpu.go's Mstatus* constants, narrowed to the
// S-mode-visible subset).
const (
	SstatusSIE  = 1 << 1
	SstatusSPIE = 1 << 5
	SstatusSPP  = 1 << 8
	SstatusFS   = 3 << 13
	SstatusSUM  = 1 << 18
	SstatusMXR  = 1 << 19
)

// sie/sip bits.
const (
	SieSSIE = 1 << 1
	SieSTIE = 1 << 5
	SieSEIE = 1 << 9
)

// scause exception codes (unchanged from internal/hv/riscv/rv64/cpu.go's
// Cause* constants).
const (
	CauseInsnAddrMisaligned = 0
	CauseInsnAccessFault    = 1
	CauseIllegalInsn        = 2
	CauseBreakpoint         = 3
	CauseLoadAddrMisaligned = 4
	CauseLoadAccessFault    = 5
	CauseStoreAddrMisaligned = 6
	CauseStoreAccessFault   = 7
	CauseEcallFromU         = 8
	CauseEcallFromS         = 9
	CauseEcallFromM         = 11
	CauseInsnPageFault      = 12
	CauseLoadPageFault      = 13
	CauseStorePageFault     = 15
)

// scause interrupt bit and interrupt-specific codes.
const (
	CauseInterruptBit = 1 << 63

	CauseSSoftwareInt = 1
	CauseSTimerInt    = 5
	CauseSExternalInt = 9
)

// satp MODE field values, matching kernel/mem/vmm.Mode's numbering.
const (
	SatpModeBare = 0
	SatpModeSv39 = 8
	SatpModeSv48 = 9
	SatpModeSv57 = 10
)

// ReadSstatus, WriteSstatus, ReadSie, WriteSie, ReadSatp, WriteSatp,
// WriteStvec, ReadSscratch, WriteSscratch, ReadSepc, ReadScause, ReadStval
// and ReadTime each issue exactly one CSR instruction; see csr_riscv64.s.

func ReadSstatus() uint64
func WriteSstatus(v uint64)

func SetSstatus(bits uint64)   { WriteSstatus(ReadSstatus() | bits) }
func ClearSstatus(bits uint64) { WriteSstatus(ReadSstatus() &^ bits) }

func ReadSie() uint64
func WriteSie(v uint64)

func SetSie(bits uint64)   { WriteSie(ReadSie() | bits) }
func ClearSie(bits uint64) { WriteSie(ReadSie() &^ bits) }

func ReadSatp() uint64
func WriteSatp(v uint64)

func WriteStvec(v uint64)
func ReadStvec() uint64

func ReadSscratch() uint64
func WriteSscratch(v uint64)

func ReadSepc() uint64
func WriteSepc(v uint64)

func ReadScause() uint64
func ReadStval() uint64

// ReadTime reads the time CSR (the SBI timer's free-running counter).
func ReadTime() uint64

// SFenceVMA flushes the TLB: it issues sfence.vma with no address and no
// ASID, which flushes every entry.
func SFenceVMA()

// EnableInterrupts/DisableInterrupts toggle sstatus.SIE; WFI executes the
// wfi instruction and returns once any pending-and-enabled interrupt wakes
// the hart (it does not itself take the trap).
func EnableInterrupts()
func DisableInterrupts()
func WFI()

// HaltLoop disables interrupts and spins forever; it is the last thing
// kerr.Fatal's Halter calls and by contract never returns.
type Halter struct{}

func (Halter) HaltLoop() {
	DisableInterrupts()
	for {
		WFI()
	}
}
