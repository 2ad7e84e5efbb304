// Command vexii integrates a VexiiRiscv CPU cluster into a system-on-chip
// build: it derives the core's memory map from a SoC description, reuses or
// regenerates the netlist, and reports the resulting hardware instance.
package main

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use: "vexii",
	Short: "vexii configures and generates VexiiRiscv CPU clusters for " +
		"SoC integration.",
	Long: `vexii configures and generates VexiiRiscv CPU clusters for SoC ` +
		`integration. It derives a deterministic configuration ` +
		`fingerprint, reuses previously generated netlists when nothing ` +
		`relevant changed, and composes the core's bus interfaces.`,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
