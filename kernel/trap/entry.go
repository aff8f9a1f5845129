package trap

// trapEntry is the naked assembly stub in entry_riscv64.s; it is never
// called directly from Go, only addressed.
func trapEntry()

// Install writes stvec to point at the trap entry stub in direct mode (the
// low 2 bits of stvec clear), per §4.1's boot ordering (trap entry is wired
// before interrupts are ever enabled).
func Install(writeStvec func(uint64)) {
	writeStvec(entryAddr())
}

func entryAddr() uint64
