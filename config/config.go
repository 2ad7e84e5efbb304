// Package config holds the tunable parameters of a VexiiRiscv core and the
// pure derivations (ISA string, ABI, toolchain triple) that follow from them.
package config

import (
	"fmt"
)

// Default memory map as seen by the software running on the core.
const (
	DefaultROMBase     uint64 = 0x0000_0000
	DefaultSRAMBase    uint64 = 0x1000_0000
	DefaultMainRAMBase uint64 = 0x4000_0000
	DefaultCSRBase     uint64 = 0xf000_0000
	DefaultCLINTBase   uint64 = 0xf001_0000
	DefaultPLICBase    uint64 = 0xf0c0_0000
)

// An Error reports a contradictory or out-of-range configuration value. It
// is detected eagerly, before any netlist generation is attempted.
type Error struct {
	Field  string
	Reason string
}

func (e *Error) Error() string {
	return fmt.Sprintf("invalid configuration: %s: %s", e.Field, e.Reason)
}

// A Config carries every parameter that shapes the generated core. It is
// built once with Builder, optionally completed by the memory-bus attachment
// step, and frozen before finalization. After Freeze, the late-bound setters
// panic.
type Config struct {
	XLen      int
	CoreCount int

	L2Bytes int
	L2Ways  int

	WithFPU bool
	WithRVC bool
	WithDMA bool

	JTAGTap         bool
	JTAGInstruction bool

	// DMABusWidth is the data width of the coherent DMA bus. Only
	// meaningful when WithDMA is set.
	DMABusWidth int

	// UpdatePolicy selects how the generator source checkout is
	// refreshed before a build. The refresh itself is performed by the
	// tooling that manages the checkout; nothing in this package acts on
	// the policy and it never contributes to the fingerprint.
	UpdatePolicy UpdatePolicy

	liteDRAMWidth    int
	internalBusWidth int

	frozen bool
}

// LiteDRAMWidth returns the data width of the main memory bus. It is zero
// until the memory-bus attachment step runs.
func (c *Config) LiteDRAMWidth() int {
	return c.liteDRAMWidth
}

// InternalBusWidth returns the width of the core's internal interconnect.
func (c *Config) InternalBusWidth() int {
	return c.internalBusWidth
}

// SetLiteDRAMWidth records the main memory bus width. It is called by the
// memory-bus attachment step and must not run after Freeze.
func (c *Config) SetLiteDRAMWidth(width int) {
	c.mustNotBeFrozen("SetLiteDRAMWidth")
	c.liteDRAMWidth = width
}

// Freeze makes the configuration immutable. Every derivation that feeds the
// fingerprint reads a frozen configuration.
func (c *Config) Freeze() {
	c.frozen = true
}

// Frozen reports whether the configuration has been frozen.
func (c *Config) Frozen() bool {
	return c.frozen
}

func (c *Config) mustNotBeFrozen(op string) {
	if c.frozen {
		panic(op + " called on a frozen configuration")
	}
}

// ABI returns the RISC-V ABI name selected by the data width and FPU flag.
func (c *Config) ABI() string {
	abi := "ilp32"
	if c.XLen == 64 {
		abi = "lp64"
	}
	if c.WithFPU {
		abi += "d"
	}
	return abi
}

// March returns the ISA string passed to the compiler and reported to the
// surrounding system.
func (c *Config) March() string {
	arch := fmt.Sprintf("rv%di2p0_ma", c.XLen)
	if c.WithFPU {
		arch += "fd"
	}
	if c.WithRVC {
		arch += "c"
	}
	return arch
}

// GCCTriple returns the toolchain triple matching the data width.
func (c *Config) GCCTriple() string {
	if c.XLen == 64 {
		return "riscv64-unknown-elf"
	}
	return "riscv32-unknown-elf"
}

// LinkerOutputFormat returns the BFD output format for the linker script.
func (c *Config) LinkerOutputFormat() string {
	return fmt.Sprintf("elf%d-littleriscv", c.XLen)
}

// MMUMode returns the virtual memory scheme implemented by the core.
func (c *Config) MMUMode() string {
	if c.XLen == 64 {
		return "sv39"
	}
	return "sv32"
}

// GCCFlags returns the compiler flags for software targeting the core.
func (c *Config) GCCFlags() string {
	flags := fmt.Sprintf(" -march=%s -mabi=%s", c.March(), c.ABI())
	flags += " -D__VexiiRiscv__"
	flags += " -DUART_POLLING"
	return flags
}
