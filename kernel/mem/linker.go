package mem

// KernelStart, KernelEnd and GlobalPointer resolve to the addresses the
// linker script assigns _kernel_start/_kernel_end/__global_pointer$; see
// linker_riscv64.s. BuildMap's kernelStart/kernelEnd arguments come from
// these at boot.
func KernelStart() PhysAddr
func KernelEnd() PhysAddr
func GlobalPointer() uint64
