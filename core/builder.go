// Package core composes a VexiiRiscv core for integration into a system on
// chip. It ties together the configuration, the derived memory map, the
// netlist cache and the bus interfaces, and finalizes them into a single
// opaque hardware instance.
package core

import (
	"github.com/rs/xid"

	"github.com/sarchlab/vexii/axi"
	"github.com/sarchlab/vexii/buildrecord"
	"github.com/sarchlab/vexii/config"
	"github.com/sarchlab/vexii/memmap"
	"github.com/sarchlab/vexii/netlist"
)

// A Builder assembles a Core and its collaborators.
type Builder struct {
	cfg      *config.Config
	bus      *memmap.SystemBus
	store    netlist.ArtifactStore
	gen      netlist.Generator
	recorder *buildrecord.Recorder

	outputDir  string
	bypass     bool
	scalaArgs  []string
	scalaFiles []string
}

// MakeBuilder creates a Builder.
func MakeBuilder() Builder {
	return Builder{}
}

// WithConfig sets the core configuration.
func (b Builder) WithConfig(cfg *config.Config) Builder {
	b.cfg = cfg
	return b
}

// WithSystemBus sets the system bus whose regions the core will see.
func (b Builder) WithSystemBus(bus *memmap.SystemBus) Builder {
	b.bus = bus
	return b
}

// WithArtifactStore sets the netlist artifact store.
func (b Builder) WithArtifactStore(store netlist.ArtifactStore) Builder {
	b.store = store
	return b
}

// WithGenerator sets the external netlist generator.
func (b Builder) WithGenerator(gen netlist.Generator) Builder {
	b.gen = gen
	return b
}

// WithRecorder sets an optional build-event recorder.
func (b Builder) WithRecorder(r *buildrecord.Recorder) Builder {
	b.recorder = r
	return b
}

// WithOutputDir sets the directory the generator writes into. It never
// contributes to the fingerprint.
func (b Builder) WithOutputDir(dir string) Builder {
	b.outputDir = dir
	return b
}

// WithoutNetlistCache forces regeneration even when a matching artifact
// exists.
func (b Builder) WithoutNetlistCache() Builder {
	b.bypass = true
	return b
}

// WithScalaArgs appends extra parameter strings for the generator.
func (b Builder) WithScalaArgs(args ...string) Builder {
	b.scalaArgs = append(b.scalaArgs, args...)
	return b
}

// WithScalaFiles appends extra plugin files for the generator.
func (b Builder) WithScalaFiles(files ...string) Builder {
	b.scalaFiles = append(b.scalaFiles, files...)
	return b
}

// Build composes the core. The peripheral bus always exists; the DMA bus
// exists only when the configuration enables coherent DMA; the memory bus
// appears later, when the surrounding system attaches one.
func (b Builder) Build() *Core {
	b.parametersMustBeValid()

	c := &Core{
		cfg:        b.cfg,
		bus:        b.bus,
		store:      b.store,
		gen:        b.gen,
		recorder:   b.recorder,
		outputDir:  b.outputDir,
		bypass:     b.bypass,
		scalaArgs:  b.scalaArgs,
		scalaFiles: b.scalaFiles,
		buildID:    xid.New().String(),
	}

	c.pbus = axi.MakeLiteBuilder().Build()

	if b.cfg.WithDMA {
		c.dmaBus = axi.MakeFullBuilder().
			WithRole(axi.DMA).
			WithDataWidth(b.cfg.DMABusWidth).
			WithIDWidth(4).
			Build()
	}

	return c
}

func (b Builder) parametersMustBeValid() {
	if b.cfg == nil {
		panic("core requires a configuration")
	}
	if b.bus == nil {
		panic("core requires a system bus")
	}
	if b.store == nil {
		panic("core requires an artifact store")
	}
	if b.gen == nil {
		panic("core requires a netlist generator")
	}
}
