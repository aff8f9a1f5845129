package fdt

// Parse turns a raw FDT blob pointer into a Tree. It is nil by default:
// kernel/fdt only defines the contract a parser satisfies (see Tree); the
// parser itself is the external collaborator named in the purpose/scope
// section, wired in by whichever build links one in (kernel/kmain calls
// fdt.Parse and treats a nil value as a fatal configuration error).
var Parse func(blobAddr uintptr) (Tree, error)
