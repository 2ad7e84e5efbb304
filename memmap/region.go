// Package memmap derives the memory map seen by the core from the region
// declarations of the surrounding system bus.
package memmap

import (
	"fmt"
	"strings"
)

// AccessMode is a set of capability flags for a memory region.
//
// The generator encodes modes as strings: "r", "w", "x" and "c" for
// readable, writable, executable and cacheable, or "io" for an IO region.
// IO implies the peripheral bus, preserved ordering and no data cache, so
// IO and Cacheable are mutually exclusive.
type AccessMode uint8

const (
	Readable AccessMode = 1 << iota
	Writable
	Executable
	Cacheable
	IO
)

// RWX is the common full-access mode for RAM-like regions.
const RWX = Readable | Writable | Executable

func (m AccessMode) String() string {
	if m&IO != 0 {
		return "io"
	}

	var sb strings.Builder
	if m&Readable != 0 {
		sb.WriteByte('r')
	}
	if m&Writable != 0 {
		sb.WriteByte('w')
	}
	if m&Executable != 0 {
		sb.WriteByte('x')
	}
	if m&Cacheable != 0 {
		sb.WriteByte('c')
	}
	return sb.String()
}

// ParseAccessMode converts a mode string such as "rwx" or "io" into flags.
func ParseAccessMode(s string) (AccessMode, error) {
	if s == "io" {
		return IO, nil
	}

	var m AccessMode
	for _, c := range s {
		switch c {
		case 'r':
			m |= Readable
		case 'w':
			m |= Writable
		case 'x':
			m |= Executable
		case 'c':
			m |= Cacheable
		default:
			return 0, fmt.Errorf("unknown access mode character %q in %q",
				c, s)
		}
	}
	return m, nil
}

// BusAffinity names the channelized interface that serves a region.
type BusAffinity int

const (
	// Peripheral routes the region through the peripheral control bus.
	Peripheral BusAffinity = iota

	// Memory routes the region directly through the main memory bus.
	Memory
)

func (b BusAffinity) String() string {
	if b == Memory {
		return "m"
	}
	return "p"
}

// A Region is one address-range classification visible to the core.
type Region struct {
	Name   string
	Origin uint64
	Size   uint64
	Mode   AccessMode
	Bus    BusAffinity
}

func (r Region) String() string {
	return fmt.Sprintf("%s[%#x +%#x %s %s]",
		r.Name, r.Origin, r.Size, r.Mode, r.Bus)
}

// lastByte returns the last address of the region. Callers must have
// checked for wrap-around. Unlike a one-past-the-end address, the last byte
// stays representable for regions reaching the top of the address space.
func (r Region) lastByte() uint64 {
	return r.Origin + r.Size - 1
}

// overlaps reports whether two regions share any address.
func (r Region) overlaps(other Region) bool {
	return r.Origin <= other.lastByte() && other.Origin <= r.lastByte()
}
