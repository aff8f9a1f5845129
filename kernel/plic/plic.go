// Package plic drives the Platform-Level Interrupt Controller. Register
// offsets agree byte-for-byte with the host-side model in
// internal/hv/riscv/rv64/plic.go (both sides read/write the same "virt"
// PLIC), and the FDT-discovered context count follows the pattern in
// original_source/lsd/src/drivers/plic.rs's init(sources, contexts).
package plic

import (
	"unsafe"

	"github.com/archaic-archea/LSD-SBI/kernel/kerr"
)

const (
	priorityBase  = 0x000000
	pendingBase   = 0x001000
	enableBase    = 0x002000
	thresholdBase = 0x200000
	contextStride = 0x1000
	enableStride  = 0x80

	maxSources  = 1024
	maxContexts = 15872 // (PLICSize-thresholdBase)/contextStride
)

// PLIC is a driver for one PLIC instance mapped at base.
type PLIC struct {
	base     uintptr
	contexts int
}

// New returns a driver for the PLIC MMIO window at base, exposing numContexts
// contexts (as discovered via fdt.Tree.PLICReg).
func New(base uintptr, numContexts int) *PLIC {
	return &PLIC{base: base, contexts: numContexts}
}

func (p *PLIC) reg32(offset uintptr) *uint32 {
	return (*uint32)(unsafe.Pointer(p.base + offset))
}

// SetInterruptPriority sets the priority (0 disables the source, higher is
// more urgent) for an interrupt source.
func (p *PLIC) SetInterruptPriority(source uint32, priority uint32) error {
	if source == 0 || source >= maxSources {
		return kerr.ErrSourceOutOfRange
	}
	*p.reg32(priorityBase + uintptr(source)*4) = priority & 0x7
	return nil
}

// SetContextThreshold sets the priority threshold below which a context's
// claim returns 0.
func (p *PLIC) SetContextThreshold(ctx int, threshold uint32) error {
	if err := p.checkContext(ctx); err != nil {
		return err
	}
	*p.reg32(thresholdBase + uintptr(ctx)*contextStride) = threshold & 0x7
	return nil
}

// EnableInterrupt and DisableInterrupt toggle one source's enable bit for a
// given context.
func (p *PLIC) EnableInterrupt(ctx int, source uint32) error {
	return p.setEnable(ctx, source, true)
}

func (p *PLIC) DisableInterrupt(ctx int, source uint32) error {
	return p.setEnable(ctx, source, false)
}

func (p *PLIC) setEnable(ctx int, source uint32, enabled bool) error {
	if err := p.checkContext(ctx); err != nil {
		return err
	}
	if source >= maxSources {
		return kerr.ErrSourceOutOfRange
	}
	word := source / 32
	bit := source % 32
	reg := p.reg32(enableBase + uintptr(ctx)*enableStride + uintptr(word)*4)
	if enabled {
		*reg |= 1 << bit
	} else {
		*reg &^= 1 << bit
	}
	return nil
}

// ClaimToken is the pending source id returned by Claim; the handler must
// call Complete once it has serviced the interrupt.
type ClaimToken struct {
	plic   *PLIC
	ctx    int
	Source uint32
}

// Claim reads the claim/complete register, clearing the context's pending
// external-interrupt condition and returning the highest-priority pending
// source (0 if none).
func (p *PLIC) Claim(ctx int) (ClaimToken, error) {
	if err := p.checkContext(ctx); err != nil {
		return ClaimToken{}, err
	}
	source := *p.reg32(thresholdBase + uintptr(ctx)*contextStride + 4)
	return ClaimToken{plic: p, ctx: ctx, Source: source}, nil
}

// Complete signals the PLIC the source has been serviced, re-arming it for
// future claims. Calling Complete on a zero-Source token (claim found
// nothing pending) is a no-op.
func (t ClaimToken) Complete() {
	if t.Source == 0 {
		return
	}
	*t.plic.reg32(thresholdBase + uintptr(t.ctx)*contextStride + 4) = t.Source
}

func (p *PLIC) checkContext(ctx int) error {
	if ctx < 0 || ctx >= p.contexts || ctx >= maxContexts {
		return kerr.ErrContextOutOfRange
	}
	return nil
}
