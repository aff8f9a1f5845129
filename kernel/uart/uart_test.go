package uart

import (
	"testing"
	"unsafe"

	"golang.org/x/sys/unix"
)

func newTestUART(t *testing.T) *UART {
	t.Helper()
	buf, err := unix.Mmap(-1, 0, 4096, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_ANON|unix.MAP_PRIVATE)
	if err != nil {
		t.Fatalf("mmap: %v", err)
	}
	t.Cleanup(func() { unix.Munmap(buf) })
	return New(uintptr(unsafe.Pointer(&buf[0])))
}

func TestInitSetsWordLengthAndFIFO(t *testing.T) {
	u := newTestUART(t)
	u.Init()

	if got := u.read(regLCR); got != lcrWordLen8 {
		t.Fatalf("LCR = %#x, want %#x", got, lcrWordLen8)
	}
	if got := u.read(regFCR); got != 0x01 {
		t.Fatalf("FCR = %#x, want 0x01 (FIFO enabled)", got)
	}
	if got := u.read(regSCR); got != 0 {
		t.Fatalf("SCR = %#x, want 0", got)
	}
}

func TestDataEmptyReflectsLSR(t *testing.T) {
	u := newTestUART(t)
	u.write(regLSR, lsrTHREmpty)
	if !u.DataEmpty() {
		t.Fatal("DataEmpty() = false with LSR THR-empty bit set")
	}
	u.write(regLSR, 0)
	if u.DataEmpty() {
		t.Fatal("DataEmpty() = true with LSR THR-empty bit clear")
	}
}

func TestDataWaitingReflectsLSR(t *testing.T) {
	u := newTestUART(t)
	u.write(regLSR, lsrDataReady)
	if !u.DataWaiting() {
		t.Fatal("DataWaiting() = false with LSR data-ready bit set")
	}
}

func TestWriteByteGoesToTHR(t *testing.T) {
	u := newTestUART(t)
	u.write(regLSR, lsrTHREmpty)
	u.WriteByte('A')
	if got := u.read(regTHR); got != 'A' {
		t.Fatalf("THR = %q, want 'A'", got)
	}
}
