// Package sbi is the guest-side binding for the Supervisor Binary Interface
// ecall contract. Extension/function IDs and error codes are lifted
// verbatim from internal/hv/riscv/rv64/sbi.go, which implements the other
// (firmware/hypervisor) side of the same calling convention.
package sbi

// Extension IDs.
const (
	ExtBase         = 0x10
	ExtTimer        = 0x54494D45 // "TIME"
	ExtIPI          = 0x735049   // "sPI"
	ExtRFence       = 0x52464E43 // "RFNC"
	ExtHSM          = 0x48534D   // "HSM"
	ExtSRST         = 0x53525354 // "SRST"
	ExtLegacyPutchar = 0x01
	ExtLegacyGetchar = 0x02
)

// TIME extension function IDs.
const TimerSetTimer = 0

// Error codes, per the SBI spec's binary encoding (negative, returned in
// a0).
const (
	Success          = 0
	ErrFailed        = -1
	ErrNotSupported  = -2
	ErrInvalidParam  = -3
	ErrDenied        = -4
	ErrInvalidAddr   = -5
	ErrAlreadyAvail  = -6
	ErrAlreadyStarted = -7
	ErrAlreadyStopped = -8
)

// Error wraps a non-zero SBI error return so callers can compare its Code
// field against the Err* constants.
type Error struct {
	Code int64
}

func (e Error) Error() string {
	switch e.Code {
	case ErrNotSupported:
		return "sbi: not supported"
	case ErrInvalidParam:
		return "sbi: invalid parameter"
	case ErrDenied:
		return "sbi: denied"
	case ErrInvalidAddr:
		return "sbi: invalid address"
	case ErrAlreadyAvail:
		return "sbi: already available"
	case ErrAlreadyStarted:
		return "sbi: already started"
	case ErrAlreadyStopped:
		return "sbi: already stopped"
	default:
		return "sbi: failed"
	}
}

// ecall performs the actual trap into M-mode/firmware: ext in a7, fid in a6,
// up to 5 word arguments in a0-a4, returning (a0, a1). Declared here with no
// body; defined in sbi_riscv64.s.
func ecall(ext, fid, arg0, arg1, arg2, arg3, arg4 uint64) (a0, a1 uint64)

func call(ext, fid uint64, args ...uint64) (uint64, error) {
	var a [5]uint64
	copy(a[:], args)
	ret, val := ecall(ext, fid, a[0], a[1], a[2], a[3], a[4])
	if int64(ret) != Success {
		return val, Error{Code: int64(ret)}
	}
	return val, nil
}

// SetTimer programs the next supervisor timer interrupt for absolute time
// stime (in the same units as the time CSR).
func SetTimer(stime uint64) error {
	_, err := call(ExtTimer, TimerSetTimer, stime)
	return err
}

// PutcharLegacy writes a single byte through the legacy console extension.
// It exists as an ambient convenience; the kernel's own UART driver talks
// to the MMIO device directly and does not depend on this path.
func PutcharLegacy(c byte) {
	ecall(ExtLegacyPutchar, 0, uint64(c), 0, 0, 0, 0)
}
