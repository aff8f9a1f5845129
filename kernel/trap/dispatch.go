package trap

import (
	"github.com/archaic-archea/LSD-SBI/kernel/csr"
	"github.com/archaic-archea/LSD-SBI/kernel/kerr"
	"github.com/archaic-archea/LSD-SBI/kernel/klog"
	"github.com/archaic-archea/LSD-SBI/kernel/plic"
	"github.com/archaic-archea/LSD-SBI/kernel/timer"
)

// ExternalHandler services one PLIC source once it has been claimed.
type ExternalHandler func(source uint32)

var (
	log           *klog.Logger
	plicDev       *plic.PLIC
	plicCtx       int
	externalTable = map[uint32]ExternalHandler{}
)

// Init wires the dispatcher to the logger and PLIC instance kmain built
// during boot. It must run before interrupts are enabled.
func Init(logger *klog.Logger, dev *plic.PLIC, ctx int) {
	log = logger
	plicDev = dev
	plicCtx = ctx
}

// RegisterExternal associates a PLIC source id with the handler that
// services it; source 10 (the "virt" UART's wire) is the canonical
// consumer, per original_source/lsd/src/interrupts/mod.rs's plic_int.
func RegisterExternal(source uint32, h ExternalHandler) {
	externalTable[source] = h
}

var exceptionNames = map[uint64]string{
	csr.CauseInsnAddrMisaligned:  "instruction address misaligned",
	csr.CauseInsnAccessFault:     "instruction access fault",
	csr.CauseIllegalInsn:         "illegal instruction",
	csr.CauseBreakpoint:          "breakpoint",
	csr.CauseLoadAddrMisaligned:  "load address misaligned",
	csr.CauseLoadAccessFault:     "load access fault",
	csr.CauseStoreAddrMisaligned: "store address misaligned",
	csr.CauseStoreAccessFault:    "store access fault",
	csr.CauseEcallFromU:          "ecall from U-mode",
	csr.CauseEcallFromS:          "ecall from S-mode",
	csr.CauseInsnPageFault:       "instruction page fault",
	csr.CauseLoadPageFault:       "load page fault",
	csr.CauseStorePageFault:      "store page fault",
}

// trapEntryGo is the Go-side landing pad entry_riscv64.s calls into once
// the frame is saved; it exists only to give the assembly a stable, typed
// symbol to CALL.
func trapEntryGo(frame *Frame, scause, stval uint64) {
	Dispatch(frame, scause, stval)
}

// Dispatch is called by entry_riscv64.s with the freshly saved frame and
// the scause/stval read at entry. Every exception is fatal (§4.7); the
// three interrupt classes are software (logged), timer (clears the
// kernel/timer wait flag) and external (PLIC claim/dispatch/complete).
func Dispatch(frame *Frame, scause, stval uint64) {
	if scause&csr.CauseInterruptBit != 0 {
		dispatchInterrupt(scause &^ csr.CauseInterruptBit)
		return
	}
	dispatchException(frame, scause, stval)
}

func dispatchException(frame *Frame, code, stval uint64) {
	name, known := exceptionNames[code]
	if !known {
		name = "unknown exception"
	}
	if log != nil {
		log.Errorf("exception %d (%s) at sepc=%#x stval=%#x", code, name, frame.Sepc, stval)
	}
	kerr.Fatal(fatalLogger(), csr.Halter{}, kerr.ErrUnrecoverableException)
}

// fatalLogger adapts the package-level log var to kerr.Logger, converting a
// nil *klog.Logger into a true nil interface — kerr.Fatal's own nil check
// only catches that, not a typed nil boxed in a non-nil interface.
func fatalLogger() kerr.Logger {
	if log == nil {
		return nil
	}
	return log
}

func dispatchInterrupt(code uint64) {
	switch code {
	case csr.CauseSSoftwareInt:
		if log != nil {
			log.Warnf("software interrupt")
		}
	case csr.CauseSTimerInt:
		timer.OnInterrupt()
	case csr.CauseSExternalInt:
		dispatchExternal()
	default:
		if log != nil {
			log.Warnf("unknown interrupt %d", code)
		}
	}
}

func dispatchExternal() {
	if plicDev == nil {
		return
	}
	token, err := plicDev.Claim(plicCtx)
	if err != nil {
		if log != nil {
			log.Errorf("plic claim: %v", err)
		}
		return
	}
	if token.Source == 0 {
		return
	}
	if h, ok := externalTable[token.Source]; ok {
		h(token.Source)
	} else if log != nil {
		log.Warnf("no handler registered for plic source %d", token.Source)
	}
	token.Complete()
}
