package axi

import "fmt"

// A LiteBuilder composes the AXI-lite peripheral control interface.
type LiteBuilder struct {
	addrWidth int
	dataWidth int
}

// MakeLiteBuilder returns a LiteBuilder with the standard 32-bit widths.
func MakeLiteBuilder() LiteBuilder {
	return LiteBuilder{
		addrWidth: 32,
		dataWidth: 32,
	}
}

// WithAddressWidth sets the address width.
func (b LiteBuilder) WithAddressWidth(w int) LiteBuilder {
	b.addrWidth = w
	return b
}

// WithDataWidth sets the data width.
func (b LiteBuilder) WithDataWidth(w int) LiteBuilder {
	b.dataWidth = w
	return b
}

// Build composes the peripheral interface. The core is the master; the
// protection signals carry no information on this core and are tied inert.
func (b LiteBuilder) Build() *Interface {
	b.parametersMustBeValid()

	i := &Interface{
		Role:      Peripheral,
		AddrWidth: b.addrWidth,
		DataWidth: b.dataWidth,
	}

	i.AW = Channel{Name: "aw", Signals: []Signal{
		{Name: "awvalid", Width: 1, Dir: Out},
		{Name: "awready", Width: 1, Dir: In},
		{Name: "awaddr", Width: b.addrWidth, Dir: Out},
		{Name: "awprot", Width: 3, Dir: Out, Inert: true},
	}}
	i.W = Channel{Name: "w", Signals: []Signal{
		{Name: "wvalid", Width: 1, Dir: Out},
		{Name: "wready", Width: 1, Dir: In},
		{Name: "wdata", Width: b.dataWidth, Dir: Out},
		{Name: "wstrb", Width: b.dataWidth / 8, Dir: Out},
	}}
	i.B = Channel{Name: "b", Signals: []Signal{
		{Name: "bvalid", Width: 1, Dir: In},
		{Name: "bready", Width: 1, Dir: Out},
		{Name: "bresp", Width: 2, Dir: In},
	}}
	i.AR = Channel{Name: "ar", Signals: []Signal{
		{Name: "arvalid", Width: 1, Dir: Out},
		{Name: "arready", Width: 1, Dir: In},
		{Name: "araddr", Width: b.addrWidth, Dir: Out},
		{Name: "arprot", Width: 3, Dir: Out, Inert: true},
	}}
	i.R = Channel{Name: "r", Signals: []Signal{
		{Name: "rvalid", Width: 1, Dir: In},
		{Name: "rready", Width: 1, Dir: Out},
		{Name: "rdata", Width: b.dataWidth, Dir: In},
		{Name: "rresp", Width: 2, Dir: In},
	}}

	i.mustBeFullyBound()

	return i
}

func (b LiteBuilder) parametersMustBeValid() {
	if b.addrWidth <= 0 || b.dataWidth <= 0 || b.dataWidth%8 != 0 {
		panic(fmt.Sprintf("invalid AXI-lite widths: addr %d, data %d",
			b.addrWidth, b.dataWidth))
	}
}

// A FullBuilder composes a burst-capable AXI interface, either the coherent
// DMA bus or the main memory bus.
type FullBuilder struct {
	role      Role
	addrWidth int
	dataWidth int
	idWidth   int
}

// MakeFullBuilder returns a FullBuilder for the memory bus with a 32-bit
// address space.
func MakeFullBuilder() FullBuilder {
	return FullBuilder{
		role:      Memory,
		addrWidth: 32,
		idWidth:   8,
	}
}

// WithRole selects the interface variant.
func (b FullBuilder) WithRole(r Role) FullBuilder {
	b.role = r
	return b
}

// WithAddressWidth sets the address width.
func (b FullBuilder) WithAddressWidth(w int) FullBuilder {
	b.addrWidth = w
	return b
}

// WithDataWidth sets the data width.
func (b FullBuilder) WithDataWidth(w int) FullBuilder {
	b.dataWidth = w
	return b
}

// WithIDWidth sets the transaction ID width.
func (b FullBuilder) WithIDWidth(w int) FullBuilder {
	b.idWidth = w
	return b
}

// Build composes the interface. On the memory bus the core masters
// transactions; on the DMA bus the surrounding system does, so every
// request signal flips direction.
func (b FullBuilder) Build() *Interface {
	b.parametersMustBeValid()

	req := Out
	rsp := In
	if b.role == DMA {
		req, rsp = In, Out
	}

	i := &Interface{
		Role:      b.role,
		AddrWidth: b.addrWidth,
		DataWidth: b.dataWidth,
		IDWidth:   b.idWidth,
	}

	i.AW = b.addressChannel("aw", req, rsp)
	i.W = Channel{Name: "w", Signals: []Signal{
		{Name: "wvalid", Width: 1, Dir: req},
		{Name: "wready", Width: 1, Dir: rsp},
		{Name: "wdata", Width: b.dataWidth, Dir: req},
		{Name: "wstrb", Width: b.dataWidth / 8, Dir: req},
		{Name: "wlast", Width: 1, Dir: req},
	}}
	i.B = Channel{Name: "b", Signals: []Signal{
		{Name: "bvalid", Width: 1, Dir: rsp},
		{Name: "bready", Width: 1, Dir: req},
		{Name: "bid", Width: b.idWidth, Dir: rsp},
		{Name: "bresp", Width: 2, Dir: rsp},
	}}
	i.AR = b.addressChannel("ar", req, rsp)
	i.R = Channel{Name: "r", Signals: []Signal{
		{Name: "rvalid", Width: 1, Dir: rsp},
		{Name: "rready", Width: 1, Dir: req},
		{Name: "rdata", Width: b.dataWidth, Dir: rsp},
		{Name: "rid", Width: b.idWidth, Dir: rsp},
		{Name: "rresp", Width: 2, Dir: rsp},
		{Name: "rlast", Width: 1, Dir: rsp},
	}}

	i.mustBeFullyBound()

	return i
}

// addressChannel builds the AW or AR channel. The DMA variant carries the
// full set of AXI transaction attributes; the memory bus variant drops
// them, keeping only an inert all-strobe marker on writes.
func (b FullBuilder) addressChannel(name string, req, rsp Direction) Channel {
	signals := []Signal{
		{Name: name + "valid", Width: 1, Dir: req},
		{Name: name + "ready", Width: 1, Dir: rsp},
		{Name: name + "addr", Width: b.addrWidth, Dir: req},
		{Name: name + "id", Width: b.idWidth, Dir: req},
		{Name: name + "len", Width: 8, Dir: req},
		{Name: name + "size", Width: 3, Dir: req},
		{Name: name + "burst", Width: 2, Dir: req},
	}

	switch b.role {
	case DMA:
		signals = append(signals,
			Signal{Name: name + "lock", Width: 1, Dir: req},
			Signal{Name: name + "cache", Width: 4, Dir: req},
			Signal{Name: name + "prot", Width: 3, Dir: req},
			Signal{Name: name + "qos", Width: 4, Dir: req},
		)
	case Memory:
		if name == "aw" {
			signals = append(signals, Signal{
				Name:  "awallstrb",
				Width: 1,
				Dir:   req,
				Inert: true,
			})
		}
	}

	return Channel{Name: name, Signals: signals}
}

func (b FullBuilder) parametersMustBeValid() {
	if b.role == Peripheral {
		panic("peripheral interfaces are composed with LiteBuilder")
	}

	if b.addrWidth <= 0 || b.idWidth <= 0 {
		panic(fmt.Sprintf("invalid AXI widths: addr %d, id %d",
			b.addrWidth, b.idWidth))
	}

	switch b.dataWidth {
	case 32, 64, 128, 256:
	default:
		panic(fmt.Sprintf("invalid AXI data width %d", b.dataWidth))
	}
}
