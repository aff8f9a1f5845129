// Command redirects patches a linked kernel image so that calls into
// runtime.sysAlloc/sysReserve/sysMap land in kernel/goruntime's
// replacements instead, following gopher-os's tools/redirects tool: scan
// the source tree for //go:redirect-from comments, resolve both the
// source and destination symbol names against the linked ELF's symbol
// table, and write the resulting (srcVMA, dstVMA) pairs into the image
// itself for the kernel to apply at boot (see kernel/goruntime/redirect.go).
//
// Unlike gopher-os's version this does not assume a GOPATH checkout: the
// module's import path is fixed (it's the module directive in go.mod), so
// the package-qualifying prefix is a constant instead of something derived
// from $GOPATH and the working directory.
package main

import (
	"debug/elf"
	"encoding/binary"
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"strings"
)

// modulePath is this repository's module path, as declared in go.mod. A
// GOPATH-based tool would derive this from $GOPATH and the working
// directory; Go-modules repos already know it statically.
const modulePath = "github.com/archaic-archea/LSD-SBI"

// redirectTableSymbol is the Go symbol tools/redirects writes (src, dst)
// VMA pairs into, read back by kernel/goruntime.ApplyRedirects at boot.
const redirectTableSymbol = "github.com/archaic-archea/LSD-SBI/kernel/goruntime.redirectTable"

type redirect struct {
	src, dst       string
	srcVMA, dstVMA uint64
}

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: redirects count|populate-table <image>")
		os.Exit(2)
	}

	if _, err := os.Stat("kernel"); err != nil {
		fmt.Fprintln(os.Stderr, "redirects: must be run from the module root (no kernel/ directory here)")
		os.Exit(1)
	}

	goFiles, err := collectGoFiles(".")
	if err != nil {
		fmt.Fprintln(os.Stderr, "redirects:", err)
		os.Exit(1)
	}

	redirects, err := findRedirects(goFiles)
	if err != nil {
		fmt.Fprintln(os.Stderr, "redirects:", err)
		os.Exit(1)
	}

	switch os.Args[1] {
	case "count":
		fmt.Println(len(redirects))
	case "populate-table":
		if len(os.Args) < 3 {
			fmt.Fprintln(os.Stderr, "usage: redirects populate-table <image>")
			os.Exit(2)
		}
		if err := populateTable(os.Args[2], redirects); err != nil {
			fmt.Fprintln(os.Stderr, "redirects:", err)
			os.Exit(1)
		}
	default:
		fmt.Fprintln(os.Stderr, "redirects: unknown subcommand", os.Args[1])
		os.Exit(2)
	}
}

// collectGoFiles walks root for non-test .go files, the same net
// findRedirects needs to cast over every //go:redirect-from comment in the
// tree regardless of which package declares it.
func collectGoFiles(root string) ([]string, error) {
	var files []string
	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			if info.Name() == "_examples" || strings.HasPrefix(info.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasSuffix(path, ".go") && !strings.HasSuffix(path, "_test.go") {
			files = append(files, path)
		}
		return nil
	})
	return files, err
}

// findRedirects parses each file's AST, matches doc comments against
// FuncDecls via go/ast's CommentMap, and for every //go:redirect-from
// <symbol> comment records the pair (that symbol, this function's own
// fully-qualified name).
func findRedirects(goFiles []string) ([]redirect, error) {
	var out []redirect
	fset := token.NewFileSet()

	for _, path := range goFiles {
		f, err := parser.ParseFile(fset, path, nil, parser.ParseComments)
		if err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}

		cmap := ast.NewCommentMap(fset, f, f.Comments)
		dir := filepath.ToSlash(filepath.Dir(path))

		for _, decl := range f.Decls {
			fn, ok := decl.(*ast.FuncDecl)
			if !ok {
				continue
			}
			for _, grp := range cmap[fn] {
				for _, c := range grp.List {
					text := strings.TrimPrefix(c.Text, "//")
					text = strings.TrimSpace(text)
					if !strings.HasPrefix(text, "go:redirect-from ") {
						continue
					}
					src := strings.TrimSpace(strings.TrimPrefix(text, "go:redirect-from "))
					dst := qualify(modulePath, dir, fn.Name.Name)
					out = append(out, redirect{src: src, dst: dst})
				}
			}
		}
	}
	return out, nil
}

// qualify builds the dst half of a redirect pair: the module path, the
// package's directory relative to the module root, and the function name,
// joined the way the Go linker names a package-level symbol.
func qualify(modulePath, dir, fnName string) string {
	dir = strings.TrimPrefix(dir, "./")
	dir = strings.TrimPrefix(dir, ".")
	dir = strings.Trim(dir, "/")
	if dir == "" {
		return fmt.Sprintf("%s.%s", modulePath, fnName)
	}
	return fmt.Sprintf("%s/%s.%s", modulePath, dir, fnName)
}

// populateTable resolves every redirect's src/dst symbol to its VMA in the
// linked image, then writes the pairs into redirectTableSymbol's own
// on-disk bytes.
func populateTable(imgPath string, redirects []redirect) error {
	f, err := elf.Open(imgPath)
	if err != nil {
		return err
	}
	defer f.Close()

	syms, err := f.Symbols()
	if err != nil {
		return fmt.Errorf("reading symbol table: %w", err)
	}

	vma := make(map[string]uint64, len(syms))
	for _, s := range syms {
		vma[s.Name] = s.Value
	}

	for i := range redirects {
		r := &redirects[i]
		srcVMA, ok := vma[r.src]
		if !ok {
			return fmt.Errorf("unresolved redirect source symbol %s", r.src)
		}
		dstVMA, ok := vma[r.dst]
		if !ok {
			return fmt.Errorf("unresolved redirect destination symbol %s", r.dst)
		}
		r.srcVMA, r.dstVMA = srcVMA, dstVMA
	}

	tableVMA, ok := vma[redirectTableSymbol]
	if !ok {
		return fmt.Errorf("redirect table symbol %s not found in image; was kernel/goruntime linked in?", redirectTableSymbol)
	}

	tableOff, err := vmaToFileOffset(f, tableVMA)
	if err != nil {
		return fmt.Errorf("locating redirect table in image: %w", err)
	}

	img, err := os.OpenFile(imgPath, os.O_RDWR, 0)
	if err != nil {
		return err
	}
	defer img.Close()

	buf := make([]byte, 16*len(redirects))
	for i, r := range redirects {
		binary.LittleEndian.PutUint64(buf[i*16:], r.srcVMA)
		binary.LittleEndian.PutUint64(buf[i*16+8:], r.dstVMA)
	}

	if _, err := img.WriteAt(buf, int64(tableOff)); err != nil {
		return fmt.Errorf("writing redirect table: %w", err)
	}
	return nil
}

// vmaToFileOffset translates a virtual address into its file offset by
// finding the PT_LOAD segment that covers it — the same technique
// debug/elf's own Section.Open uses internally for SHT_PROGBITS sections,
// generalized here to an arbitrary data symbol rather than a whole section.
func vmaToFileOffset(f *elf.File, vma uint64) (uint64, error) {
	for _, prog := range f.Progs {
		if prog.Type != elf.PT_LOAD {
			continue
		}
		if vma >= prog.Vaddr && vma < prog.Vaddr+prog.Filesz {
			return prog.Off + (vma - prog.Vaddr), nil
		}
	}
	return 0, fmt.Errorf("address %#x not covered by any PT_LOAD segment's file image", vma)
}
