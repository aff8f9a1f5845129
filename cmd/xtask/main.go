// xtask builds the kernel and boots it under QEMU, the Go equivalent of
// original_source/xtask/src/main.rs. Build profiles are loaded from a
// gopkg.in/yaml.v3 config file instead of being hardcoded, the one place in
// this port where a config file was worth introducing over the original's
// all-flags approach.
package main

import (
	"flag"
	"fmt"
	"os"
	"os/exec"

	"gopkg.in/yaml.v3"
)

// Profile is one named build/run configuration.
type Profile struct {
	Bios    string `yaml:"bios"`
	Machine string `yaml:"machine"`
	CPU     string `yaml:"cpu"`
	SMP     int    `yaml:"smp"`
	Memory  string `yaml:"memory"`
	Debug   bool   `yaml:"debug"`
}

// Config is xtask.yaml: a set of named profiles plus which one to use when
// -profile isn't given.
type Config struct {
	Default  string             `yaml:"default"`
	Profiles map[string]Profile `yaml:"profiles"`
}

func loadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// buildKernel links cmd/kernel with kernel.ld as an external bare-metal
// image (ENTRY(_boot), not Go's usual hosted riscv64/linux rt0 stub), then
// runs tools/redirects against the linked ELF so runtime.sysAlloc/
// sysReserve/sysMap's call sites are patched toward kernel/goruntime's
// replacements before the image ever boots. See DESIGN.md's `cmd/xtask`,
// `tools/redirects` and `kernel.ld` ledger rows for why plain
// `go build ./boot` can't produce a bootable image on its own.
func buildKernel(releaseDir string) (string, error) {
	out := releaseDir + "/lsd-sbi"

	build := exec.Command("go", "build",
		"-ldflags", "-linkmode=external -extldflags=-Tkernel.ld -extld=riscv64-linux-gnu-ld",
		"-o", out, "./cmd/kernel")
	build.Env = append(os.Environ(), "GOOS=linux", "GOARCH=riscv64", "CGO_ENABLED=1")
	build.Stdout = os.Stdout
	build.Stderr = os.Stderr
	if err := build.Run(); err != nil {
		return "", fmt.Errorf("build kernel: %w", err)
	}

	redirect := exec.Command("go", "run", "./tools/redirects", "populate-table", out)
	redirect.Stdout = os.Stdout
	redirect.Stderr = os.Stderr
	if err := redirect.Run(); err != nil {
		return "", fmt.Errorf("patch redirect table: %w", err)
	}

	return out, nil
}

func runQEMU(kernel string, p Profile) error {
	args := []string{
		"-machine", p.Machine,
		"-cpu", p.CPU,
		"-smp", fmt.Sprint(p.SMP),
		"-m", p.Memory,
		"-bios", p.Bios,
		"-kernel", kernel,
		"-serial", "mon:stdio",
		"-nographic",
	}
	if p.Debug {
		args = append(args, "-D", "debug.log", "-d", "int,guest_errors")
	}

	cmd := exec.Command("qemu-system-riscv64", args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.Stdin = os.Stdin
	return cmd.Run()
}

func run() error {
	configPath := flag.String("config", "xtask.yaml", "path to the build/run profile config")
	profileName := flag.String("profile", "", "profile name (defaults to the config's default)")
	outDir := flag.String("out", "target", "directory to place the built kernel image in")
	buildOnly := flag.Bool("build-only", false, "build the kernel without launching QEMU")
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		return err
	}

	name := *profileName
	if name == "" {
		name = cfg.Default
	}
	profile, ok := cfg.Profiles[name]
	if !ok {
		return fmt.Errorf("unknown profile %q", name)
	}

	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	kernel, err := buildKernel(*outDir)
	if err != nil {
		return err
	}
	if *buildOnly {
		fmt.Println(kernel)
		return nil
	}

	return runQEMU(kernel, profile)
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "xtask: %v\n", err)
		os.Exit(1)
	}
}
