// Package axi models the channelized bus interfaces of the core as typed
// bundles of named signals. Each interface carries five independently
// flowing channels (AW, W, B, AR, R), each with a valid/ready handshake.
// The flat named-port form consumed by the hardware instance is produced by
// PortMap at the boundary.
package axi

import "fmt"

// Direction of a signal as seen from the core.
type Direction int

const (
	// In is driven by the surrounding system into the core.
	In Direction = iota

	// Out is driven by the core.
	Out
)

func (d Direction) String() string {
	if d == Out {
		return "out"
	}
	return "in"
}

// A Signal is one named wire of a channel. Inert signals are present in the
// port contract but carry no information for this interface variant; they
// are tied to a defined constant rather than left floating.
type Signal struct {
	Name  string
	Width int
	Dir   Direction
	Inert bool
}

// A Channel is one flow-controlled group of signals. The first two signals
// are always the valid/ready handshake pair.
type Channel struct {
	Name    string
	Signals []Signal
}

// Role distinguishes the three interface variants of the core.
type Role int

const (
	// Peripheral is the AXI-lite control bus. The core is the master.
	Peripheral Role = iota

	// DMA is the coherent, burst-capable bus on which the surrounding
	// system masters accesses into the core's coherency domain.
	DMA

	// Memory is the burst-capable main memory bus. The core is the
	// master.
	Memory
)

func (r Role) String() string {
	switch r {
	case Peripheral:
		return "peripheral"
	case DMA:
		return "dma"
	case Memory:
		return "memory"
	default:
		return fmt.Sprintf("Role(%d)", int(r))
	}
}

// An Interface is one composed bus attachment point. It is exclusively
// owned by the core instance that composed it.
type Interface struct {
	Role      Role
	AddrWidth int
	DataWidth int
	IDWidth   int

	AW Channel
	W  Channel
	B  Channel
	AR Channel
	R  Channel
}

// Channels returns the five channels in their canonical order.
func (i *Interface) Channels() []Channel {
	return []Channel{i.AW, i.W, i.B, i.AR, i.R}
}

// PortMap flattens the interface into the named-port form of the hardware
// instance, e.g. "pBus_awvalid". Every signal of every channel appears; a
// missing binding would leave a floating wire on the generated module.
func (i *Interface) PortMap(prefix string) map[string]Signal {
	ports := make(map[string]Signal)

	for _, ch := range i.Channels() {
		for _, s := range ch.Signals {
			ports[prefix+"_"+s.Name] = s
		}
	}

	return ports
}

// mustBeFullyBound panics if any channel misses its handshake pair or
// carries a malformed signal. Composition bugs surface here, at compose
// time, not at instantiation.
func (i *Interface) mustBeFullyBound() {
	for _, ch := range i.Channels() {
		if len(ch.Signals) < 2 {
			panic(fmt.Sprintf(
				"%s interface: channel %s misses its handshake pair",
				i.Role, ch.Name))
		}

		seen := make(map[string]bool)
		hasValid, hasReady := false, false

		for _, s := range ch.Signals {
			if s.Name == "" || s.Width <= 0 {
				panic(fmt.Sprintf(
					"%s interface: malformed signal %q in channel %s",
					i.Role, s.Name, ch.Name))
			}
			if seen[s.Name] {
				panic(fmt.Sprintf(
					"%s interface: signal %s bound twice in channel %s",
					i.Role, s.Name, ch.Name))
			}
			seen[s.Name] = true

			switch s.Name {
			case ch.Name + "valid":
				hasValid = true
			case ch.Name + "ready":
				hasReady = true
			}
		}

		if !hasValid || !hasReady {
			panic(fmt.Sprintf(
				"%s interface: channel %s misses its handshake pair",
				i.Role, ch.Name))
		}
	}
}
