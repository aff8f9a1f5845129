package plic

import (
	"testing"
	"unsafe"

	"golang.org/x/sys/unix"
)

func newTestPLIC(t *testing.T, numContexts int) *PLIC {
	t.Helper()
	size := thresholdBase + numContexts*contextStride
	buf, err := unix.Mmap(-1, 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_ANON|unix.MAP_PRIVATE)
	if err != nil {
		t.Fatalf("mmap: %v", err)
	}
	t.Cleanup(func() { unix.Munmap(buf) })
	base := uintptr(unsafe.Pointer(&buf[0]))
	return New(base, numContexts)
}

func TestEnableDisableDuality(t *testing.T) {
	p := newTestPLIC(t, 2)
	const ctx, source = 1, 10

	if err := p.EnableInterrupt(ctx, source); err != nil {
		t.Fatalf("EnableInterrupt: %v", err)
	}
	reg := p.reg32(enableBase + uintptr(ctx)*enableStride)
	if *reg&(1<<source) == 0 {
		t.Fatal("enable bit not set after EnableInterrupt")
	}

	if err := p.DisableInterrupt(ctx, source); err != nil {
		t.Fatalf("DisableInterrupt: %v", err)
	}
	if *reg&(1<<source) != 0 {
		t.Fatal("enable bit still set after DisableInterrupt")
	}
}

func TestContextOutOfRange(t *testing.T) {
	p := newTestPLIC(t, 2)
	if err := p.SetContextThreshold(5, 0); err == nil {
		t.Fatal("SetContextThreshold with an out-of-range context should fail")
	}
}

func TestSourceOutOfRange(t *testing.T) {
	p := newTestPLIC(t, 2)
	if err := p.SetInterruptPriority(0, 1); err == nil {
		t.Fatal("SetInterruptPriority(0, ...) should fail: source 0 is reserved")
	}
	if err := p.SetInterruptPriority(maxSources, 1); err == nil {
		t.Fatal("SetInterruptPriority past maxSources should fail")
	}
}

func TestClaimNothingPendingReturnsZero(t *testing.T) {
	p := newTestPLIC(t, 2)
	token, err := p.Claim(1)
	if err != nil {
		t.Fatalf("Claim: %v", err)
	}
	if token.Source != 0 {
		t.Fatalf("Source = %d, want 0 with nothing pending", token.Source)
	}
	token.Complete() // must be a no-op, not a write to the MMIO register
}
