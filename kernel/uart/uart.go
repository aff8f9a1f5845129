// Package uart drives a 16550-compatible UART over MMIO. Register offsets
// are shared with the host-side emulation in
// internal/hv/riscv/rv64/uart.go; init sequencing, the data-ready/empty
// polling loop and the backspace echo sequence are grounded on
// original_source/lsd/src/drivers/uart.rs, the Rust driver this port
// replaces.
package uart

import "unsafe"

// Register offsets, identical to internal/hv/riscv/rv64/uart.go's
// UARTReg* constants.
const (
	regRBR = 0 // receive buffer (read)
	regTHR = 0 // transmit holding (write)
	regIER = 1 // interrupt enable
	regIIR = 2 // interrupt identification (read)
	regFCR = 2 // FIFO control (write)
	regLCR = 3 // line control
	regMCR = 4 // modem control
	regLSR = 5 // line status
	regMSR = 6 // modem status
	regSCR = 7 // scratch
)

const (
	lsrDataReady = 1 << 0
	lsrTHREmpty  = 1 << 5
)

const (
	lcrDLAB   = 1 << 7
	lcrWordLen8 = 0x03
)

// backspaceErase is written before the DEL byte itself so a terminal
// watching the stream visibly erases the previous character: cursor back,
// overwrite with a space, cursor back again.
const backspaceErase = "\x1b[1D \x1b[1D"

// UART is a single 16550-compatible device mapped at Base.
type UART struct {
	base uintptr
}

// New returns a driver for the UART MMIO window at base. It does not touch
// the device; call Init once paging has identity-mapped base.
func New(base uintptr) *UART {
	return &UART{base: base}
}

func (u *UART) reg(offset uintptr) *uint8 {
	return (*uint8)(unsafe.Pointer(u.base + offset))
}

func (u *UART) read(offset uintptr) uint8  { return *u.reg(offset) }
func (u *UART) write(offset uintptr, v uint8) { *u.reg(offset) = v }

// Init brings the UART to 8N1 with interrupts on receive-data-available,
// mirroring Uart16550::init in the original driver: word length 8, enable
// the FIFO, set the divisor to 1, then enable the receive interrupt.
func (u *UART) Init() {
	u.write(regLCR, lcrWordLen8)
	u.write(regFCR, 0x01)
	u.write(regIER, 0x01)

	lcr := u.read(regLCR)
	u.write(regLCR, lcr|lcrDLAB)
	u.write(regRBR, 1) // divisor low byte; divisor high byte defaults to 0
	u.write(regIER, 0)
	u.write(regLCR, lcr)

	u.write(regSCR, 0)
}

// DataWaiting reports whether a received byte is ready to read.
func (u *UART) DataWaiting() bool {
	return u.read(regLSR)&lsrDataReady != 0
}

// DataEmpty reports whether the transmit holding register can accept a
// byte.
func (u *UART) DataEmpty() bool {
	return u.read(regLSR)&lsrTHREmpty != 0
}

// ReadByte blocks until a byte is available and returns it.
func (u *UART) ReadByte() byte {
	for !u.DataWaiting() {
	}
	return u.read(regRBR)
}

// WriteByte blocks until the UART can accept a byte, then writes it. A DEL
// (0x7F) is preceded by the backspace erase escape sequence so an attached
// terminal shows the character being erased rather than a literal DEL.
func (u *UART) WriteByte(b byte) {
	if b == 0x7F {
		for _, c := range []byte(backspaceErase) {
			for !u.DataEmpty() {
			}
			u.write(regTHR, c)
		}
	}
	for !u.DataEmpty() {
	}
	u.write(regTHR, b)
}

// Write implements io.Writer so *UART can back a klog.Logger directly.
func (u *UART) Write(p []byte) (int, error) {
	for _, b := range p {
		u.WriteByte(b)
	}
	return len(p), nil
}

// SetInterrupt enables or disables the receive-data-available interrupt.
func (u *UART) SetInterrupt(enabled bool) {
	if enabled {
		u.write(regIER, u.read(regIER)|0x01)
	} else {
		u.write(regIER, u.read(regIER)&^0x01)
	}
}
