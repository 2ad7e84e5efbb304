package memmap

import (
	"fmt"
	"math"
)

// MainRAMRegionName is the symbolic name of the region that the main memory
// bus serves when one is attached.
const MainRAMRegionName = "main_ram"

// A ConflictError reports an ambiguous or impossible region layout. The
// build must abort rather than emit an ambiguous map.
type ConflictError struct {
	Region string
	Reason string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("memory region conflict: %s: %s", e.Region, e.Reason)
}

type busRegion struct {
	name   string
	origin uint64
	size   uint64
	mode   AccessMode
	cached bool
	linker bool
}

type ioWindow struct {
	origin uint64
	size   uint64
}

// A SystemBus collects the region declarations of the surrounding system in
// declaration order. The order is significant: it feeds the configuration
// fingerprint and must be stable across repeated builds.
type SystemBus struct {
	regions   []busRegion
	ioWindows []ioWindow
	names     map[string]bool
	frozen    bool
}

// NewSystemBus returns an empty SystemBus.
func NewSystemBus() *SystemBus {
	return &SystemBus{
		names: make(map[string]bool),
	}
}

// AddRegion declares one region. Regions flagged linker are virtual, linker
// script only, and never reach the core's memory map. Declaring a region
// after Freeze, or redeclaring a name, is a programming error.
func (b *SystemBus) AddRegion(
	name string,
	origin, size uint64,
	mode AccessMode,
	cached, linker bool,
) {
	b.mustNotBeFrozen()

	if b.names[name] {
		panic("region " + name + " already declared")
	}
	b.names[name] = true

	b.regions = append(b.regions, busRegion{
		name:   name,
		origin: origin,
		size:   size,
		mode:   mode,
		cached: cached,
		linker: linker,
	})
}

// AddIOWindow declares one IO window. IO windows always map to the
// peripheral bus and are never cacheable.
func (b *SystemBus) AddIOWindow(origin, size uint64) {
	b.mustNotBeFrozen()

	b.ioWindows = append(b.ioWindows, ioWindow{origin: origin, size: size})
}

// Freeze closes the registration phase. Later declarations panic.
func (b *SystemBus) Freeze() {
	b.frozen = true
}

func (b *SystemBus) mustNotBeFrozen() {
	if b.frozen {
		panic("system bus modified after freeze")
	}
}

// Regions derives the core-visible memory map. IO windows come first, one
// peripheral IO region each. Non-virtual bus regions follow in declaration
// order; a region rides the memory bus only when a memory bus is attached
// and the region is the designated main RAM. The derivation is a pure
// function of the registered state, so repeated calls yield identical
// lists.
func (b *SystemBus) Regions(memoryBusAttached bool) ([]Region, error) {
	regions := make([]Region, 0, len(b.ioWindows)+len(b.regions))

	for _, w := range b.ioWindows {
		if err := checkBounds("io", w.origin, w.size); err != nil {
			return nil, err
		}

		regions = append(regions, Region{
			Name:   "io",
			Origin: w.origin,
			Size:   w.size,
			Mode:   IO,
			Bus:    Peripheral,
		})
	}

	for _, r := range b.regions {
		if r.linker {
			continue
		}

		if err := checkBounds(r.name, r.origin, r.size); err != nil {
			return nil, err
		}

		bus := Peripheral
		if memoryBusAttached && r.name == MainRAMRegionName {
			bus = Memory
		}

		mode := r.mode
		if r.cached {
			mode |= Cacheable
		}

		regions = append(regions, Region{
			Name:   r.name,
			Origin: r.origin,
			Size:   r.size,
			Mode:   mode,
			Bus:    bus,
		})
	}

	if err := checkConflicts(regions); err != nil {
		return nil, err
	}

	return regions, nil
}

func checkBounds(name string, origin, size uint64) error {
	if size == 0 {
		return &ConflictError{Region: name, Reason: "zero size"}
	}

	if size-1 > math.MaxUint64-origin {
		return &ConflictError{
			Region: name,
			Reason: fmt.Sprintf("origin %#x + size %#x wraps the address space",
				origin, size),
		}
	}

	return nil
}

func checkConflicts(regions []Region) error {
	for i, r := range regions {
		for _, prev := range regions[:i] {
			if r.Origin == prev.Origin {
				return &ConflictError{
					Region: r.Name,
					Reason: fmt.Sprintf("duplicate origin %#x with region %s",
						r.Origin, prev.Name),
				}
			}

			if r.Mode&IO != 0 || prev.Mode&IO != 0 {
				continue
			}

			if r.overlaps(prev) && r.Bus != prev.Bus {
				return &ConflictError{
					Region: r.Name,
					Reason: fmt.Sprintf(
						"overlaps region %s with conflicting bus affinity",
						prev.Name),
				}
			}
		}
	}

	return nil
}
