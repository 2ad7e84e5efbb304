package config

import "fmt"

// A Builder assembles and validates a Config.
type Builder struct {
	xlen            int
	coreCount       int
	l2Bytes         int
	l2Ways          int
	withFPU         bool
	withRVC         bool
	withDMA         bool
	jtagTap         bool
	jtagInstruction bool
	dmaBusWidth     int
	updatePolicy    UpdatePolicy
}

// MakeBuilder creates a Builder with the default parameters of a standard
// single-core 32-bit variant.
func MakeBuilder() Builder {
	return Builder{
		xlen:         32,
		coreCount:    1,
		l2Bytes:      128 * 1024,
		l2Ways:       8,
		updatePolicy: UpdateRecommended,
	}
}

// WithXLen sets the RISC-V data width.
func (b Builder) WithXLen(xlen int) Builder {
	b.xlen = xlen
	return b
}

// WithCoreCount sets the number of cores in the cluster.
func (b Builder) WithCoreCount(n int) Builder {
	b.coreCount = n
	return b
}

// WithL2 sets the shared L2 cache capacity and associativity. A capacity of
// zero disables the L2 entirely.
func (b Builder) WithL2(bytes, ways int) Builder {
	b.l2Bytes = bytes
	b.l2Ways = ways
	return b
}

// WithFPU enables the F32/F64 floating point unit.
func (b Builder) WithFPU() Builder {
	b.withFPU = true
	return b
}

// WithRVC enables the compressed instruction extension.
func (b Builder) WithRVC() Builder {
	b.withRVC = true
	return b
}

// WithDMA enables the coherent DMA bus.
func (b Builder) WithDMA() Builder {
	b.withDMA = true
	return b
}

// WithJTAGTap adds an embedded JTAG TAP for debugging.
func (b Builder) WithJTAGTap() Builder {
	b.jtagTap = true
	return b
}

// WithJTAGInstruction adds a JTAG instruction tunneling port (TAP not
// included).
func (b Builder) WithJTAGInstruction() Builder {
	b.jtagInstruction = true
	return b
}

// WithDMABusWidth sets the data width of the coherent DMA bus. Requires
// WithDMA.
func (b Builder) WithDMABusWidth(width int) Builder {
	b.dmaBusWidth = width
	return b
}

// WithUpdatePolicy sets how the generator source checkout is refreshed.
func (b Builder) WithUpdatePolicy(p UpdatePolicy) Builder {
	b.updatePolicy = p
	return b
}

// Build validates the parameters and returns the configuration. Any
// contradictory combination fails here, before generation is attempted.
func (b Builder) Build() (*Config, error) {
	if err := b.validate(); err != nil {
		return nil, err
	}

	dmaWidth := b.dmaBusWidth
	if b.withDMA && dmaWidth == 0 {
		dmaWidth = b.xlen
	}

	return &Config{
		XLen:             b.xlen,
		CoreCount:        b.coreCount,
		L2Bytes:          b.l2Bytes,
		L2Ways:           b.l2Ways,
		WithFPU:          b.withFPU,
		WithRVC:          b.withRVC,
		WithDMA:          b.withDMA,
		JTAGTap:          b.jtagTap,
		JTAGInstruction:  b.jtagInstruction,
		DMABusWidth:      dmaWidth,
		UpdatePolicy:     b.updatePolicy,
		internalBusWidth: b.xlen,
	}, nil
}

func (b Builder) validate() error {
	if b.xlen != 32 && b.xlen != 64 {
		return &Error{
			Field:  "xlen",
			Reason: fmt.Sprintf("must be 32 or 64, got %d", b.xlen),
		}
	}

	if b.coreCount < 1 {
		return &Error{
			Field:  "cpu-count",
			Reason: fmt.Sprintf("must be positive, got %d", b.coreCount),
		}
	}

	if b.l2Bytes < 0 {
		return &Error{
			Field:  "l2-bytes",
			Reason: fmt.Sprintf("must be non-negative, got %d", b.l2Bytes),
		}
	}

	if b.l2Ways < 0 {
		return &Error{
			Field:  "l2-ways",
			Reason: fmt.Sprintf("must be non-negative, got %d", b.l2Ways),
		}
	}

	if b.l2Bytes == 0 && b.l2Ways > 0 {
		return &Error{
			Field:  "l2-ways",
			Reason: "L2 ways set while L2 capacity is zero",
		}
	}

	if b.l2Bytes > 0 && b.l2Ways == 0 {
		return &Error{
			Field:  "l2-bytes",
			Reason: "L2 capacity set while L2 ways is zero",
		}
	}

	if b.dmaBusWidth != 0 {
		if !b.withDMA {
			return &Error{
				Field:  "dma-bus-width",
				Reason: "DMA bus width set while coherent DMA is disabled",
			}
		}
		if !validBusWidth(b.dmaBusWidth) {
			return &Error{
				Field: "dma-bus-width",
				Reason: fmt.Sprintf(
					"must be one of 32, 64, 128, 256, got %d",
					b.dmaBusWidth),
			}
		}
	}

	return nil
}

func validBusWidth(w int) bool {
	switch w {
	case 32, 64, 128, 256:
		return true
	default:
		return false
	}
}
