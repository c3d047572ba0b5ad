// Package scheduler implements the fixed-point incremental recompilation
// loop: seed the dirty set from changed/added/removed sources, compile a
// round, and cascade to every reverse-dependent of a source whose API hash
// changed, until a round produces no new dirty sources or a safety cap is
// hit.
//
// This is the one package with no single teacher file to ground it on —
// the teacher has no build scheduler — so its bookkeeping style (a bounded
// loop, per-round counters, a hard iteration cap guarding against a
// malformed/cyclic input) is carried from the teacher's own bounded
// sub-record loop for HPROF heap-dump segments, and its changed-set algebra
// from sourceset's diff classification.
package scheduler

import (
	"context"
	"fmt"

	"github.com/mabhi256/tastybuild/internal/incr/revdeps"
	"github.com/mabhi256/tastybuild/internal/incr/sourceset"
	"github.com/mabhi256/tastybuild/internal/incr/state"
)

// MaxRounds bounds the fixed-point loop: a well-formed dependency graph
// converges in far fewer rounds than this; hitting the cap means a cascade
// cycle or scheduler bug, not a legitimately large project.
const MaxRounds = 100

// Compiler is the subset of internal/incr/compiler's behavior the
// scheduler depends on, narrowed to a per-round compile call so tests can
// supply a fake without invoking a real external process.
type Compiler interface {
	CompileRound(ctx context.Context, sources []string) (map[string]RoundOutput, error)
}

// RoundOutput is what compiling a single source in a round produced.
type RoundOutput struct {
	ContentHash uint64
	APIHash     uint64
	Artifacts   []state.ArtifactRecord
	ForwardDeps []string // other sources this source's API/body references
}

// Round is a per-round report, surfaced for the build summary.
type Round struct {
	Number  int
	Sources []string
}

// Result is the outcome of a full fixed-point build.
type Result struct {
	Rounds []Round
	State  *state.State
}

// Run executes the fixed-point loop starting from prevState and the
// current on-disk source hashes. depHash is the caller-computed digest of
// the resolved classpath (see sourceset.DepHash); when it differs from
// prevState.DepHash every source is treated as dirty, since the classpath
// is part of every source's compile inputs.
func Run(ctx context.Context, comp Compiler, prevState *state.State, curr sourceset.Hashes, depHash uint64) (*Result, error) {
	diff := sourceset.BuildDiff(hashesFromState(prevState), curr)

	next := &state.State{DepHash: depHash, Sources: make(map[string]state.SourceRecord, len(curr))}
	for id, rec := range prevState.Sources {
		if _, stillExists := curr[id]; stillExists {
			next.Sources[id] = rec
		}
	}

	dirty := make(map[string]bool)
	classpathChanged := depHash != prevState.DepHash
	if classpathChanged {
		for id := range curr {
			dirty[id] = true
		}
	}
	for _, id := range diff.Added {
		dirty[id] = true
	}
	for _, id := range diff.Changed {
		dirty[id] = true
	}

	// Sources depending on a deleted source must also recompile: their
	// prior artifact referenced an output that no longer exists. The
	// reverse-dep lookup uses the PRIOR forward map (including the
	// deleted source's own entry) since that's the only place the edge
	// into a deleted source is still recorded.
	if len(diff.Removed) > 0 {
		priorForward := make(map[string][]string, len(prevState.Sources))
		for id, rec := range prevState.Sources {
			priorForward[id] = depsOf(rec)
		}
		priorRev := revdeps.Build(priorForward)
		for _, d := range diff.Removed {
			for _, s := range priorRev[d] {
				if _, stillExists := curr[s]; stillExists {
					dirty[s] = true
				}
			}
		}
	}

	forward := make(map[string][]string, len(curr))
	for id, rec := range next.Sources {
		forward[id] = depsOf(rec)
	}

	var rounds []Round

	for round := 1; len(dirty) > 0; round++ {
		if round > MaxRounds {
			return nil, fmt.Errorf("incremental build did not converge after %d rounds", MaxRounds)
		}

		batch := make([]string, 0, len(dirty))
		for id := range dirty {
			batch = append(batch, id)
		}
		dirty = make(map[string]bool)

		outputs, err := comp.CompileRound(ctx, batch)
		if err != nil {
			return nil, fmt.Errorf("round %d compile failed: %w", round, err)
		}

		rounds = append(rounds, Round{Number: round, Sources: append([]string{}, batch...)})

		// inRound excludes a dependent from being re-added to dirty within
		// the same round it was just compiled in, but — unlike a
		// whole-build set — never suppresses recompiling it again in a
		// later round if its own dependencies change again downstream.
		inRound := make(map[string]bool, len(batch))
		for _, id := range batch {
			inRound[id] = true
		}

		for _, id := range batch {
			out, ok := outputs[id]
			if !ok {
				continue
			}
			prevRec, hadPrev := next.Sources[id]
			apiChanged := !hadPrev || prevRec.APIHash != out.APIHash

			next.Sources[id] = state.SourceRecord{
				ContentHash: out.ContentHash,
				APIHash:     out.APIHash,
				Artifacts:   out.Artifacts,
			}
			forward[id] = out.ForwardDeps

			if apiChanged {
				rev := revdeps.Build(forward)
				for _, dependent := range rev[id] {
					if !inRound[dependent] {
						dirty[dependent] = true
					}
				}
			}
		}
	}

	for _, id := range diff.Removed {
		delete(next.Sources, id)
	}

	return &Result{Rounds: rounds, State: next}, nil
}

func depsOf(rec state.SourceRecord) []string {
	var deps []string
	for _, a := range rec.Artifacts {
		deps = append(deps, a.DepsOut...)
	}
	return deps
}

func hashesFromState(s *state.State) sourceset.Hashes {
	h := make(sourceset.Hashes, len(s.Sources))
	for id, rec := range s.Sources {
		h[id] = rec.ContentHash
	}
	return h
}
