package netlist

import (
	"context"
	"fmt"
	"log"
	"os/exec"
	"strings"
	"time"
)

// A GenerationError reports that external generation failed or that the
// promised artifact never appeared. It is terminal for the build; no retry
// is attempted.
type GenerationError struct {
	NetlistName string
	Err         error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("netlist generation failed for %s: %v",
		e.NetlistName, e.Err)
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

// A Generator produces a netlist artifact from a GenerateCommand. The call
// is synchronous and may be slow; implementations must honor context
// cancellation.
type Generator interface {
	Generate(ctx context.Context, cmd GenerateCommand) error
}

// SbtGenerator shells out to the sbt-based generator in a source checkout.
type SbtGenerator struct {
	// SourceDir is the generator's source checkout.
	SourceDir string

	// MainClass is the generator entry point run through sbt.
	MainClass string

	// Timeout bounds one generation run. Zero means no bound beyond the
	// caller's context.
	Timeout time.Duration
}

// NewSbtGenerator returns a generator rooted at the given source checkout.
func NewSbtGenerator(sourceDir string) *SbtGenerator {
	return &SbtGenerator{
		SourceDir: sourceDir,
		MainClass: "vexiiriscv.platform.litex.VexiiGen",
	}
}

// Generate runs one generation. The command line is logged before the run
// so a failing build can be reproduced by hand.
func (g *SbtGenerator) Generate(
	ctx context.Context,
	cmd GenerateCommand,
) error {
	if g.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.Timeout)
		defer cancel()
	}

	runMain := fmt.Sprintf("runMain %s %s",
		g.MainClass, strings.Join(cmd.Args(), " "))

	log.Printf("netlist generation command: sbt %q (in %s)",
		runMain, g.SourceDir)

	execCmd := exec.CommandContext(ctx, "sbt", runMain)
	execCmd.Dir = g.SourceDir

	if out, err := execCmd.CombinedOutput(); err != nil {
		log.Printf("generator output:\n%s", out)
		return &GenerationError{NetlistName: cmd.NetlistName, Err: err}
	}

	return nil
}
