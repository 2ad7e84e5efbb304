// Package fingerprint computes the deterministic identity of a core
// configuration. The identity doubles as the netlist cache key and the name
// of the generated hardware module, so two builds with identical
// configurations share one generated artifact.
package fingerprint

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"io"
	"strconv"

	"github.com/sarchlab/vexii/config"
	"github.com/sarchlab/vexii/memmap"
)

// NetlistPrefix is the fixed stem prepended to the fingerprint when naming
// the generated artifact. The instantiated module identity must match the
// generated file name exactly.
const NetlistPrefix = "VexiiRiscvLitex_"

// A Fingerprint identifies one hardware-relevant configuration.
type Fingerprint [md5.Size]byte

// Hex returns the lower-case hexadecimal form of the fingerprint.
func (f Fingerprint) Hex() string {
	return hex.EncodeToString(f[:])
}

// NetlistName returns the artifact and module name for this fingerprint.
func (f Fingerprint) NetlistName() string {
	return NetlistPrefix + f.Hex()
}

// New hashes every configuration field that shapes the generated hardware,
// together with the ordered memory-region list and the reset vector.
// Build-environment values such as output directories never contribute:
// they would defeat caching across equivalent environments.
func New(
	cfg *config.Config,
	regions []memmap.Region,
	resetVector uint64,
) Fingerprint {
	h := md5.New()

	writeField(h, strconv.FormatUint(resetVector, 10))
	writeField(h, strconv.Itoa(cfg.LiteDRAMWidth()))
	writeField(h, strconv.Itoa(cfg.XLen))
	writeField(h, strconv.Itoa(cfg.CoreCount))
	writeField(h, strconv.Itoa(cfg.L2Bytes))
	writeField(h, strconv.Itoa(cfg.L2Ways))
	writeField(h, strconv.FormatBool(cfg.JTAGTap))
	writeField(h, strconv.FormatBool(cfg.JTAGInstruction))
	writeField(h, strconv.FormatBool(cfg.WithDMA))
	writeField(h, strconv.FormatBool(cfg.WithFPU))
	writeField(h, strconv.FormatBool(cfg.WithRVC))
	writeField(h, strconv.Itoa(cfg.DMABusWidth))

	for _, r := range regions {
		writeField(h, canonicalRegion(r))
	}

	writeField(h, strconv.Itoa(cfg.InternalBusWidth()))

	var f Fingerprint
	copy(f[:], h.Sum(nil))
	return f
}

func canonicalRegion(r memmap.Region) string {
	return fmt.Sprintf("%d,%d,%s,%s", r.Origin, r.Size, r.Mode, r.Bus)
}

func writeField(w io.Writer, s string) {
	_, _ = io.WriteString(w, s)
	_, _ = w.Write([]byte{'\n'})
}
