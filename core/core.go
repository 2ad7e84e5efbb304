package core

import (
	"context"
	"time"

	"github.com/sarchlab/vexii/axi"
	"github.com/sarchlab/vexii/buildrecord"
	"github.com/sarchlab/vexii/config"
	"github.com/sarchlab/vexii/fingerprint"
	"github.com/sarchlab/vexii/memmap"
	"github.com/sarchlab/vexii/netlist"
)

// A Core is one parametrized CPU cluster being integrated into a system on
// chip. Its lifecycle has two phases: a registration phase, during which
// the surrounding system declares bus regions, sets the reset address and
// optionally attaches a memory bus, and a finalization phase that computes
// the memory map and fingerprint, drives the netlist cache and binds the
// bus interfaces into a hardware instance. Misordering the phases is a
// programming error and panics.
type Core struct {
	cfg      *config.Config
	bus      *memmap.SystemBus
	store    netlist.ArtifactStore
	gen      netlist.Generator
	recorder *buildrecord.Recorder

	outputDir  string
	bypass     bool
	scalaArgs  []string
	scalaFiles []string
	buildID    string

	pbus   *axi.Interface
	dmaBus *axi.Interface
	memBus *axi.Interface

	resetAddr uint64
	resetSet  bool

	finalized bool
	instance  *Instance
}

// PeripheralBus returns the AXI-lite control bus. It always exists.
func (c *Core) PeripheralBus() *axi.Interface {
	return c.pbus
}

// DMABus returns the coherent DMA bus, or nil when DMA is disabled.
func (c *Core) DMABus() *axi.Interface {
	return c.dmaBus
}

// MemoryBus returns the main memory bus, or nil before attachment.
func (c *Core) MemoryBus() *axi.Interface {
	return c.memBus
}

// BuildID identifies this build invocation in the build record.
func (c *Core) BuildID() string {
	return c.buildID
}

// SetResetAddress sets the address the cores fetch from out of reset.
// Finalization refuses to run without it.
func (c *Core) SetResetAddress(addr uint64) {
	c.mustNotBeFinalized()

	c.resetAddr = addr
	c.resetSet = true
}

// RegisterPlatformRegions declares the linker-only regions the software
// stack expects: the OpenSBI load area and the CLINT and PLIC windows.
// They shape linker scripts but never reach the core's memory map.
func (c *Core) RegisterPlatformRegions() {
	c.mustNotBeFinalized()

	c.bus.AddRegion("opensbi",
		config.DefaultMainRAMBase+0x00f0_0000, 0x8_0000,
		memmap.RWX, true, true)
	c.bus.AddRegion("plic",
		config.DefaultPLICBase, 0x40_0000,
		memmap.Readable|memmap.Writable, false, true)
	c.bus.AddRegion("clint",
		config.DefaultCLINTBase, 0x1_0000,
		memmap.Readable|memmap.Writable, false, true)
}

// AttachMemoryBuses composes the main memory bus and fixes its data width.
// A core has at most one main memory attachment; a second call panics.
func (c *Core) AttachMemoryBuses(
	addressWidth, dataWidth int,
) *axi.Interface {
	c.mustNotBeFinalized()

	if c.memBus != nil {
		panic("memory bus already attached")
	}

	c.cfg.SetLiteDRAMWidth(dataWidth)

	c.memBus = axi.MakeFullBuilder().
		WithAddressWidth(addressWidth).
		WithDataWidth(dataWidth).
		WithIDWidth(8).
		Build()

	return c.memBus
}

// Finalize derives the memory map, computes the fingerprint, ensures the
// netlist artifact exists and binds every composed signal into a single
// hardware instance named after the fingerprint.
func (c *Core) Finalize(ctx context.Context) (*Instance, error) {
	c.mustNotBeFinalized()

	if !c.resetSet {
		panic("finalize called before the reset address was set")
	}

	c.finalized = true

	regions, err := c.bus.Regions(c.memBus != nil)
	if err != nil {
		return nil, err
	}

	c.bus.Freeze()
	c.cfg.Freeze()

	fp := fingerprint.New(c.cfg, regions, c.resetAddr)
	cmd := c.generateCommand(fp, regions)

	gate := netlist.MakeCacheGate(c.store, c.gen, c.bypass)

	start := time.Now()
	err = gate.Ensure(ctx, cmd)
	c.record(fp, gate, time.Since(start), err)
	if err != nil {
		return nil, err
	}

	c.instance = c.bindInstance(fp.NetlistName())

	return c.instance, nil
}

// Instance returns the finalized hardware instance, or nil before
// finalization.
func (c *Core) Instance() *Instance {
	return c.instance
}

func (c *Core) generateCommand(
	fp fingerprint.Fingerprint,
	regions []memmap.Region,
) netlist.GenerateCommand {
	return netlist.GenerateCommand{
		NetlistName:      fp.NetlistName(),
		OutputDir:        c.outputDir,
		ResetVector:      c.resetAddr,
		XLen:             c.cfg.XLen,
		CoreCount:        c.cfg.CoreCount,
		L2Bytes:          c.cfg.L2Bytes,
		L2Ways:           c.cfg.L2Ways,
		LiteDRAMWidth:    c.cfg.LiteDRAMWidth(),
		InternalBusWidth: c.cfg.InternalBusWidth(),
		Regions:          regions,
		JTAGTap:          c.cfg.JTAGTap,
		JTAGInstruction:  c.cfg.JTAGInstruction,
		WithDMA:          c.cfg.WithDMA,
		WithFPU:          c.cfg.WithFPU,
		WithRVC:          c.cfg.WithRVC,
		ScalaArgs:        c.scalaArgs,
		ScalaFiles:       c.scalaFiles,
	}
}

func (c *Core) record(
	fp fingerprint.Fingerprint,
	gate *netlist.CacheGate,
	elapsed time.Duration,
	err error,
) {
	if c.recorder == nil {
		return
	}

	outcome := "generated"
	switch {
	case err != nil:
		outcome = "failed"
	case gate.Hit():
		outcome = "cached"
	}

	c.recorder.Record(buildrecord.Event{
		BuildID:     c.buildID,
		Fingerprint: fp.Hex(),
		NetlistName: fp.NetlistName(),
		CacheHit:    gate.Hit(),
		DurationMS:  elapsed.Milliseconds(),
		Outcome:     outcome,
	})
}

func (c *Core) mustNotBeFinalized() {
	if c.finalized {
		panic("core already finalized")
	}
}
