package core

import (
	"path/filepath"
	"sort"

	"github.com/sarchlab/vexii/axi"
)

// An Instance is the finalized, opaque hardware module. Its name matches
// the generated netlist exactly; the surrounding system instantiates the
// module by that name with every port listed here bound.
type Instance struct {
	Name string

	ports               map[string]axi.Signal
	hasDebugResetDomain bool
}

// Port returns the named port.
func (i *Instance) Port(name string) (axi.Signal, bool) {
	s, ok := i.ports[name]
	return s, ok
}

// PortNames returns every bound port name in a stable order.
func (i *Instance) PortNames() []string {
	names := make([]string, 0, len(i.ports))
	for name := range i.ports {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// PortCount returns the number of bound ports.
func (i *Instance) PortCount() int {
	return len(i.ports)
}

// HasDebugResetDomain reports whether the instance requires the shared
// power-on-reset clock domain that the debug logic resets through. It is
// set whenever either JTAG interface is present.
func (i *Instance) HasDebugResetDomain() bool {
	return i.hasDebugResetDomain
}

// A Platform receives the HDL sources the instance depends on. It is the
// narrow seam to the surrounding build system.
type Platform interface {
	// Family names the FPGA vendor family, e.g. "intel" or "efinix".
	Family() string

	// AddSource registers one HDL source file with the build.
	AddSource(path string)
}

// AddSources registers the RAM primitive implementation matching the
// platform family and the generated netlist itself.
func (c *Core) AddSources(p Platform) {
	if c.instance == nil {
		panic("add sources called before finalization")
	}

	p.AddSource(filepath.Join(c.outputDir, ramPrimitiveFile(p.Family())))
	p.AddSource(c.store.Path(c.instance.Name))
}

// ramPrimitiveFile picks the RAM implementation for a platform family.
// Generic block RAM works everywhere; Intel and Efinix parts need their
// own primitives to infer memories correctly.
func ramPrimitiveFile(family string) string {
	switch family {
	case "intel", "altera":
		return "Ram_1w_1rs_Intel.v"
	case "efinix":
		return "Ram_1w_1rs_Efinix.v"
	default:
		return "Ram_1w_1rs_Generic.v"
	}
}

func (c *Core) bindInstance(name string) *Instance {
	ports := map[string]axi.Signal{
		"socClk":     {Name: "socClk", Width: 1, Dir: axi.In},
		"asyncReset": {Name: "asyncReset", Width: 1, Dir: axi.In},
		"peripheral_externalInterrupts_port": {
			Name:  "peripheral_externalInterrupts_port",
			Width: 32,
			Dir:   axi.In,
		},
	}

	merge := func(m map[string]axi.Signal) {
		for k, v := range m {
			ports[k] = v
		}
	}

	merge(c.pbus.PortMap("pBus"))

	if c.dmaBus != nil {
		merge(c.dmaBus.PortMap("dma_bus"))
	}

	if c.memBus != nil {
		merge(c.memBus.PortMap("mBus"))
	}

	if c.cfg.JTAGTap {
		merge(jtagTapPorts())
	}

	if c.cfg.JTAGInstruction {
		merge(jtagInstructionPorts())
	}

	hasDebug := c.cfg.JTAGTap || c.cfg.JTAGInstruction
	if hasDebug {
		ports["debug_reset"] = axi.Signal{
			Name: "debug_reset", Width: 1, Dir: axi.In}
		ports["debug_ndmreset"] = axi.Signal{
			Name: "debug_ndmreset", Width: 1, Dir: axi.Out}
	}

	return &Instance{
		Name:                name,
		ports:               ports,
		hasDebugResetDomain: hasDebug,
	}
}

func jtagTapPorts() map[string]axi.Signal {
	return map[string]axi.Signal{
		"jtag_tms": {Name: "jtag_tms", Width: 1, Dir: axi.In},
		"jtag_tck": {Name: "jtag_tck", Width: 1, Dir: axi.In},
		"jtag_tdi": {Name: "jtag_tdi", Width: 1, Dir: axi.In},
		"jtag_tdo": {Name: "jtag_tdo", Width: 1, Dir: axi.Out},
	}
}

func jtagInstructionPorts() map[string]axi.Signal {
	ports := make(map[string]axi.Signal)

	for _, name := range []string{
		"clk", "enable", "capture", "shift", "update", "reset", "tdi",
	} {
		full := "jtag_instruction_" + name
		ports[full] = axi.Signal{Name: full, Width: 1, Dir: axi.In}
	}
	ports["jtag_instruction_tdo"] = axi.Signal{
		Name: "jtag_instruction_tdo", Width: 1, Dir: axi.Out}

	return ports
}
