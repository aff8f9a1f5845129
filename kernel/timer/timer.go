// Package timer implements the SBI-timer wait primitive: arm a one-shot
// timer via the SBI TIME extension, then sleep on wfi until the trap
// dispatcher's timer-interrupt handler clears the shared wait flag. The
// handshake is the Go rendering of original_source/lsd/src/interrupts/
// mod.rs's "interrupt(5) clears super::timing::WAIT" line.
package timer

import (
	"sync/atomic"

	"github.com/archaic-archea/LSD-SBI/kernel/csr"
	"github.com/archaic-archea/LSD-SBI/kernel/sbi"
)

var frequency uint64
var waiting uint32

// Init records the platform's timebase frequency, read once from the FDT's
// /cpus/timebase-frequency property during boot.
func Init(timebaseHz uint64) {
	frequency = timebaseHz
}

// Ticks is a duration expressed in timebase ticks.
type Ticks uint64

// Second, Minute and Hour convert a count of whole units into Ticks at the
// frequency Init recorded: Second(n).AsUint64() == n*frequency, and so on.
func Second(n uint64) Ticks { return Ticks(n * frequency) }
func Minute(n uint64) Ticks { return Second(n * 60) }
func Hour(n uint64) Ticks   { return Minute(n * 60) }

func (t Ticks) AsUint64() uint64 { return uint64(t) }

// Wait arms the timer for d ticks from now and blocks (via wfi) until it
// fires. It must be called with interrupts enabled, or the wfi will never
// be woken.
func Wait(d Ticks) error {
	target := csr.ReadTime() + uint64(d)
	atomic.StoreUint32(&waiting, 1)
	if err := sbi.SetTimer(target); err != nil {
		atomic.StoreUint32(&waiting, 0)
		return err
	}
	for atomic.LoadUint32(&waiting) != 0 {
		csr.WFI()
	}
	return nil
}

// OnInterrupt is called by kernel/trap's dispatcher when scause reports a
// supervisor timer interrupt (cause code 5). It clears the wait flag that
// Wait's spin loop watches.
func OnInterrupt() {
	atomic.StoreUint32(&waiting, 0)
}
