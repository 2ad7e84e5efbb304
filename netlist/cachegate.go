package netlist

import (
	"context"
	"errors"
)

// GateState is the state of the netlist cache gate.
type GateState int

const (
	// NeedsGeneration means no matching artifact is known to exist.
	NeedsGeneration GateState = iota

	// Cached means a matching artifact has been verified in the store.
	Cached
)

func (s GateState) String() string {
	if s == Cached {
		return "cached"
	}
	return "needs-generation"
}

// A CacheGate decides whether external generation must run before the core
// is instantiated. Builds are single-shot processes, so the gate never
// trusts in-memory state from an earlier decision: every Ensure re-checks
// the store.
type CacheGate struct {
	store  ArtifactStore
	gen    Generator
	bypass bool

	state GateState
	hit   bool
}

// MakeCacheGate creates a gate. When bypass is set the gate regenerates
// unconditionally, ignoring any existing artifact.
func MakeCacheGate(
	store ArtifactStore,
	gen Generator,
	bypass bool,
) *CacheGate {
	if store == nil || gen == nil {
		panic("cache gate requires a store and a generator")
	}

	return &CacheGate{
		store:  store,
		gen:    gen,
		bypass: bypass,
		state:  NeedsGeneration,
	}
}

// State returns the gate's current state.
func (g *CacheGate) State() GateState {
	return g.state
}

// Hit reports whether the last Ensure was satisfied from the store without
// invoking generation.
func (g *CacheGate) Hit() bool {
	return g.hit
}

// Ensure makes the artifact named by the command exist. It transitions to
// Cached only after the artifact is verified in the store; a generator that
// reports success without producing the artifact is a generation failure.
func (g *CacheGate) Ensure(ctx context.Context, cmd GenerateCommand) error {
	g.state = NeedsGeneration
	g.hit = false

	if !g.bypass && g.store.Has(cmd.NetlistName) {
		g.state = Cached
		g.hit = true
		return nil
	}

	if err := g.gen.Generate(ctx, cmd); err != nil {
		var genErr *GenerationError
		if errors.As(err, &genErr) {
			return err
		}
		return &GenerationError{NetlistName: cmd.NetlistName, Err: err}
	}

	if !g.store.Has(cmd.NetlistName) {
		return &GenerationError{
			NetlistName: cmd.NetlistName,
			Err:         errors.New("artifact missing after generation"),
		}
	}

	g.state = Cached
	return nil
}
