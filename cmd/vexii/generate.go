package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/sarchlab/vexii/buildrecord"
	"github.com/sarchlab/vexii/config"
	"github.com/sarchlab/vexii/core"
	"github.com/sarchlab/vexii/netlist"
	"github.com/sarchlab/vexii/socdesc"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate or reuse a netlist for the configured core.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true
		return runGenerate(cmd)
	},
}

func init() {
	f := generateCmd.Flags()

	f.Int("xlen", 32, "RISC-V data width (32 or 64)")
	f.Int("cpu-count", 1, "number of cores in the cluster")
	f.Bool("with-coherent-dma", false, "enable coherent DMA accesses")
	f.Bool("with-jtag-tap", false, "add an embedded JTAG TAP for debugging")
	f.Bool("with-jtag-instruction", false,
		"add a JTAG instruction tunneling port (TAP not included)")
	f.String("update-repo", "recommended",
		"generator source refresh policy "+
			"(latest, recommended, no, wipe+latest, wipe+recommended)")
	f.Bool("no-netlist-cache", false, "always (re-)build the netlist")
	f.Bool("with-fpu", false, "enable the F32/F64 FPU")
	f.Bool("with-rvc", false, "enable the compressed ISA extension")
	f.Int("l2-bytes", 128*1024, "L2 cache capacity in bytes")
	f.Int("l2-ways", 8, "L2 cache associativity")
	f.Int("dma-bus-width", 0,
		"coherent DMA bus data width (defaults to xlen)")
	f.Int("litedram-width", 0,
		"main memory bus data width (0 attaches no memory bus)")

	f.String("soc", "", "SoC description file (Starlark)")
	f.String("output-dir", "", "netlist artifact directory")
	f.String("generator-dir", "", "generator source checkout")
	f.String("record", "", "record build events into this database")

	_ = generateCmd.MarkFlagRequired("soc")

	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command) error {
	// A .env file may supply VEXII_OUTPUT_DIR and VEXII_GENERATOR_DIR so
	// CI and developers need not repeat the paths on every invocation.
	_ = godotenv.Load()

	cfg, err := configFromFlags(cmd)
	if err != nil {
		return err
	}

	socFile, _ := cmd.Flags().GetString("soc")
	desc, err := socdesc.Load(socFile)
	if err != nil {
		return err
	}
	if !desc.HasResetVector {
		return fmt.Errorf("%s declares no reset vector", socFile)
	}

	outputDir := stringFlagOrEnv(cmd, "output-dir", "VEXII_OUTPUT_DIR")
	if outputDir == "" {
		return fmt.Errorf(
			"no output directory: set --output-dir or VEXII_OUTPUT_DIR")
	}

	generatorDir := stringFlagOrEnv(cmd,
		"generator-dir", "VEXII_GENERATOR_DIR")
	if generatorDir == "" {
		return fmt.Errorf(
			"no generator checkout: set --generator-dir or " +
				"VEXII_GENERATOR_DIR")
	}

	coreBuilder := core.MakeBuilder().
		WithConfig(cfg).
		WithSystemBus(desc.Bus).
		WithArtifactStore(netlist.NewDirStore(outputDir)).
		WithGenerator(netlist.NewSbtGenerator(generatorDir)).
		WithOutputDir(outputDir)

	if bypass, _ := cmd.Flags().GetBool("no-netlist-cache"); bypass {
		coreBuilder = coreBuilder.WithoutNetlistCache()
	}

	if recordPath, _ := cmd.Flags().GetString("record"); recordPath != "" {
		recorder := buildrecord.NewRecorder(recordPath)
		defer recorder.Close()
		coreBuilder = coreBuilder.WithRecorder(recorder)
	}

	c := coreBuilder.Build()
	c.RegisterPlatformRegions()
	c.SetResetAddress(desc.ResetVector)

	if width, _ := cmd.Flags().GetInt("litedram-width"); width > 0 {
		if err := validateLiteDRAMWidth(width); err != nil {
			return err
		}
		c.AttachMemoryBuses(32, width)
	}

	ctx, stop := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
	defer stop()

	inst, err := c.Finalize(ctx)
	if err != nil {
		return err
	}

	log.Printf("core instance: %s (%d ports, march %s, mabi %s)",
		inst.Name, inst.PortCount(), cfg.March(), cfg.ABI())

	return nil
}

func configFromFlags(cmd *cobra.Command) (*config.Config, error) {
	f := cmd.Flags()

	xlen, _ := f.GetInt("xlen")
	coreCount, _ := f.GetInt("cpu-count")
	l2Bytes, _ := f.GetInt("l2-bytes")
	l2Ways, _ := f.GetInt("l2-ways")

	b := config.MakeBuilder().
		WithXLen(xlen).
		WithCoreCount(coreCount).
		WithL2(l2Bytes, l2Ways)

	if on, _ := f.GetBool("with-fpu"); on {
		b = b.WithFPU()
	}
	if on, _ := f.GetBool("with-rvc"); on {
		b = b.WithRVC()
	}
	if on, _ := f.GetBool("with-coherent-dma"); on {
		b = b.WithDMA()
	}
	if on, _ := f.GetBool("with-jtag-tap"); on {
		b = b.WithJTAGTap()
	}
	if on, _ := f.GetBool("with-jtag-instruction"); on {
		b = b.WithJTAGInstruction()
	}
	if width, _ := f.GetInt("dma-bus-width"); width > 0 {
		b = b.WithDMABusWidth(width)
	}

	policyName, _ := f.GetString("update-repo")
	policy, err := config.ParseUpdatePolicy(policyName)
	if err != nil {
		return nil, err
	}
	b = b.WithUpdatePolicy(policy)

	return b.Build()
}

// validateLiteDRAMWidth rejects unsupported memory bus widths before they
// reach the bus composer, which treats a bad width as a programming error.
func validateLiteDRAMWidth(w int) error {
	switch w {
	case 32, 64, 128, 256:
		return nil
	default:
		return &config.Error{
			Field: "litedram-width",
			Reason: fmt.Sprintf(
				"must be one of 32, 64, 128, 256, got %d", w),
		}
	}
}

func stringFlagOrEnv(cmd *cobra.Command, flag, env string) string {
	if v, _ := cmd.Flags().GetString(flag); v != "" {
		return v
	}
	return os.Getenv(env)
}
