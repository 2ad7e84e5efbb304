// Package netlist drives external generation of the core's hardware
// description and decides when a previously generated netlist can be
// reused.
package netlist

import (
	"fmt"

	"github.com/sarchlab/vexii/memmap"
)

// SourceExt is the file extension of a generated netlist artifact.
const SourceExt = ".v"

// A GenerateCommand is a structured description of one generation request.
// It is translated to the generator's command line by Args at the process
// boundary; no field is ever assembled by string concatenation elsewhere.
//
// The generator is idempotent: identical commands produce byte-identical
// netlists.
type GenerateCommand struct {
	NetlistName string
	OutputDir   string

	ResetVector uint64

	XLen             int
	CoreCount        int
	L2Bytes          int
	L2Ways           int
	LiteDRAMWidth    int
	InternalBusWidth int

	// Regions must be in fingerprint order: the generator consumes them
	// positionally.
	Regions []memmap.Region

	JTAGTap         bool
	JTAGInstruction bool
	WithDMA         bool
	WithFPU         bool
	WithRVC         bool

	ScalaArgs  []string
	ScalaFiles []string
}

// Args renders the command-line argument list of the external generator.
func (c GenerateCommand) Args() []string {
	args := []string{
		fmt.Sprintf("--netlist-name=%s", c.NetlistName),
		fmt.Sprintf("--netlist-directory=%s", c.OutputDir),
		fmt.Sprintf("--reset-vector=%d", c.ResetVector),
		fmt.Sprintf("--xlen=%d", c.XLen),
		fmt.Sprintf("--cpu-count=%d", c.CoreCount),
		fmt.Sprintf("--l2-bytes=%d", c.L2Bytes),
		fmt.Sprintf("--l2-ways=%d", c.L2Ways),
		fmt.Sprintf("--litedram-width=%d", c.LiteDRAMWidth),
		fmt.Sprintf("--internal_bus_width=%d", c.InternalBusWidth),
	}

	for _, r := range c.Regions {
		args = append(args, fmt.Sprintf("--memory-region=%d,%d,%s,%s",
			r.Origin, r.Size, r.Mode, r.Bus))
	}

	for _, a := range c.ScalaArgs {
		args = append(args, fmt.Sprintf("--scala-args=%s", a))
	}

	if c.JTAGTap {
		args = append(args, "--with-jtag-tap")
	}
	if c.JTAGInstruction {
		args = append(args, "--with-jtag-instruction")
	}
	if c.JTAGTap || c.JTAGInstruction {
		args = append(args, "--with-debug")
	}
	if c.WithDMA {
		args = append(args, "--with-dma")
	}

	for _, f := range c.ScalaFiles {
		args = append(args, fmt.Sprintf("--scala-file=%s", f))
	}

	if c.WithFPU {
		args = append(args, "--scala-args=rvf=true,rvd=true")
	}
	if c.WithRVC {
		args = append(args, "--scala-args=rvc=true")
	}

	return args
}
