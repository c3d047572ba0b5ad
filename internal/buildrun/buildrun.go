// Package buildrun wires the incremental engine's components into the two
// top-level operations the CLI exposes: Build and Clean. Its composition
// style (open the inputs, run the stages in sequence, return one wrapped
// error per stage) follows mabhi256/jdiag's RunHeapAnalysis: a
// single function stringing together otherwise-independent packages.
package buildrun

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/mabhi256/tastybuild/internal/config"
	"github.com/mabhi256/tastybuild/internal/incr/cleanup"
	"github.com/mabhi256/tastybuild/internal/incr/compiler"
	"github.com/mabhi256/tastybuild/internal/incr/scheduler"
	"github.com/mabhi256/tastybuild/internal/incr/sourceset"
	"github.com/mabhi256/tastybuild/internal/incr/state"
	"github.com/mabhi256/tastybuild/internal/tasty/apihash"
	"github.com/mabhi256/tastybuild/internal/tasty/dump"
	"github.com/mabhi256/tastybuild/utils"
)

// sourceExtensions lists the file suffixes treated as compilable sources.
var sourceExtensions = []string{".scala"}

// Options configures a Build run.
type Options struct {
	ProjectRoot  string
	CompilerPath string
}

// Report summarizes a completed build for the CLI to render.
type Report struct {
	Rounds       []scheduler.Round
	Elapsed      time.Duration
	NumFiles     int
	ArtifactSize utils.MemorySize
}

// Build runs one full incremental build: scan sources, resolve dep hash,
// run the fixed-point scheduler, persist the resulting state.
func Build(ctx context.Context, opts Options) (*Report, error) {
	start := time.Now()

	cfg, err := config.Load(opts.ProjectRoot)
	if err != nil {
		return nil, err
	}

	var hashes sourceset.Hashes
	var depHash uint64

	// Source hashing and classpath-fingerprint computation have no data
	// dependency on each other; run them on independent goroutines joined
	// before the scheduler begins, mirroring the Rust prototype's
	// thread::scope split between resolve_classpath and hash_sources.
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		h, err := sourceset.Scan(cfg.SourceDir(opts.ProjectRoot), sourceExtensions)
		if err != nil {
			return fmt.Errorf("failed to scan sources: %w", err)
		}
		hashes = h
		return nil
	})
	g.Go(func() error {
		select {
		case <-gctx.Done():
			return gctx.Err()
		default:
		}
		depHash = sourceset.DepHash(cfg.Project.LanguageVersion, cfg.Project.Dependencies)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if len(hashes) == 0 {
		return nil, fmt.Errorf("no %v sources found under %s", sourceExtensions, cfg.SourceDir(opts.ProjectRoot))
	}

	prevState, err := state.Load(config.StateDir(opts.ProjectRoot))
	if err != nil {
		return nil, err
	}

	outDir := config.OutDir(opts.ProjectRoot)
	_, outDirErr := os.Stat(outDir)
	fullRebuild := len(prevState.Sources) == 0 || depHash != prevState.DepHash || os.IsNotExist(outDirErr)
	if fullRebuild {
		// A stale or version-mismatched output directory must not leak
		// artifacts onto the classpath of a from-scratch compile; start
		// the round with nothing on disk rather than relying on
		// per-source artifact diffing to clean up afterwards.
		if err := os.RemoveAll(outDir); err != nil {
			return nil, fmt.Errorf("failed to clear output directory for full rebuild: %w", err)
		}
		prevState = state.New()
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	comp := &fileCompiler{
		opts:      opts,
		cfg:       cfg,
		sourceDir: cfg.SourceDir(opts.ProjectRoot),
		outDir:    outDir,
	}

	result, err := scheduler.Run(ctx, comp, prevState, hashes, depHash)
	if err != nil {
		return nil, fmt.Errorf("incremental build failed: %w", err)
	}

	if err := removeStaleArtifacts(outDir, prevState, result.State); err != nil {
		return nil, fmt.Errorf("failed to remove stale artifacts: %w", err)
	}

	if err := state.Save(config.StateDir(opts.ProjectRoot), result.State); err != nil {
		return nil, fmt.Errorf("failed to persist build state: %w", err)
	}

	return &Report{
		Rounds:       result.Rounds,
		Elapsed:      time.Since(start),
		NumFiles:     len(hashes),
		ArtifactSize: totalArtifactSize(outDir, result.State),
	}, nil
}

// totalArtifactSize sums the on-disk size of every artifact the current
// state records, for the build summary's "Output size" line. A missing
// file is skipped rather than failing the build: the report is advisory,
// not a correctness check.
func totalArtifactSize(outDir string, s *state.State) utils.MemorySize {
	var total utils.MemorySize
	for _, rec := range s.Sources {
		for _, a := range rec.Artifacts {
			info, err := os.Stat(filepath.Join(outDir, a.Path))
			if err != nil {
				continue
			}
			total = total.Add(utils.MemorySize(info.Size()))
		}
	}
	return total
}

// removeStaleArtifacts deletes the on-disk artifacts of any source present
// in prev but absent (or recompiled away from) curr: a deleted source's
// last-known artifacts, and any artifact a recompiled source no longer
// produces.
func removeStaleArtifacts(outDir string, prev, curr *state.State) error {
	var stale []string
	for id, prevRec := range prev.Sources {
		currRec, stillPresent := curr.Sources[id]
		keep := make(map[string]bool, len(currRec.Artifacts))
		for _, a := range currRec.Artifacts {
			keep[a.Path] = true
		}
		for _, a := range prevRec.Artifacts {
			if !stillPresent || !keep[a.Path] {
				stale = append(stale, a.Path)
			}
		}
	}
	return cleanup.Stale(outDir, stale)
}

// Clean removes the entire build directory (out/, cache/, state.yaml), the
// same tolerant-of-missing philosophy the state store's Load gives a
// first-ever build: cleaning an already-clean project is a no-op.
func Clean(projectRoot string) error {
	dir := config.BuildDir(projectRoot)
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return nil
	}
	return os.RemoveAll(dir)
}

// fileCompiler adapts internal/incr/compiler + internal/tasty/dump into the
// scheduler.Compiler interface: invoke the external compiler on a round's
// dirty sources, then decode every resulting .tasty artifact once to
// attribute it to a source, resolve its forward references back to source
// identifiers, and extract its API hash.
type fileCompiler struct {
	opts      Options
	cfg       *config.Config
	sourceDir string
	outDir    string
}

func (c *fileCompiler) CompileRound(ctx context.Context, sources []string) (map[string]scheduler.RoundOutput, error) {
	abs := make([]string, len(sources))
	for i, s := range sources {
		abs[i] = filepath.Join(c.sourceDir, filepath.FromSlash(s))
	}

	inv := compiler.Invocation{
		CompilerPath: c.opts.CompilerPath,
		Classpath:    c.outDir,
		OutDir:       c.outDir,
		Options:      c.cfg.Project.CompilerOptions,
		Sources:      abs,
	}
	res, err := compiler.Run(ctx, inv)
	if err != nil {
		return nil, err
	}
	if !res.Success {
		return nil, fmt.Errorf("compilation failed:\n%s", res.Stderr)
	}

	decoded, err := c.scanOutputArtifacts()
	if err != nil {
		return nil, err
	}
	attribution := attributeArtifacts(decoded, sources)

	// A name->source index: every attributed artifact's own declared name
	// (its TypeDef root) maps back to the source that produced it. Per
	// spec.md §4.C9, a forward reference is only a real deps_out entry once
	// it has been mapped "through the artifact->source table" this way —
	// an unresolved name is an external/library reference, not a source
	// dependency.
	nameIndex := make(map[string]string, len(decoded))
	for name, src := range attribution {
		if own, ok := apihash.OwnName(decoded[name]); ok {
			nameIndex[own] = src
		}
	}

	artifactsBySrc := make(map[string][]string, len(sources))
	for name, src := range attribution {
		artifactsBySrc[src] = append(artifactsBySrc[src], name)
	}

	out := make(map[string]scheduler.RoundOutput, len(sources))
	for i, src := range sources {
		content, err := os.ReadFile(abs[i])
		if err != nil {
			return nil, fmt.Errorf("failed to re-hash compiled source %s: %w", src, err)
		}

		names := artifactsBySrc[src]
		sort.Strings(names)

		var artifacts []state.ArtifactRecord
		var forwardDeps []string
		seenDep := make(map[string]bool)
		combined := uint64(0)
		for _, name := range names {
			f := decoded[name]
			deps := mapForwardDeps(apihash.ForwardDeps(f), nameIndex, src)
			artifacts = append(artifacts, state.ArtifactRecord{Path: name, DepsOut: deps})
			for _, d := range deps {
				if !seenDep[d] {
					seenDep[d] = true
					forwardDeps = append(forwardDeps, d)
				}
			}
			combined ^= apihash.Digest(f)
		}

		out[src] = scheduler.RoundOutput{
			ContentHash: sourceset.HashBytes(content),
			APIHash:     combined,
			Artifacts:   artifacts,
			ForwardDeps: forwardDeps,
		}
	}
	return out, nil
}

// scanOutputArtifacts decodes every ".tasty" file currently in the output
// directory. A file that fails to decode is skipped rather than failing the
// round: it may be a partially-written artifact from a still-running
// compiler the filesystem raced ahead of, or a format this decoder doesn't
// recognize yet.
func (c *fileCompiler) scanOutputArtifacts() (map[string]*dump.File, error) {
	entries, err := os.ReadDir(c.outDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read output directory: %w", err)
	}

	decoded := make(map[string]*dump.File, len(entries))
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".tasty" {
			continue
		}
		data, err := os.ReadFile(filepath.Join(c.outDir, e.Name()))
		if err != nil {
			continue
		}
		f, err := dump.Parse(data)
		if err != nil {
			continue
		}
		decoded[e.Name()] = f
	}
	return decoded, nil
}

// attributeArtifacts assigns each decoded artifact to one of sources,
// implementing SPEC_FULL.md §9 Open Question 2 in full: an artifact
// carrying a resolved SOURCEFILEattr is attributed to the source whose base
// name matches it; one without is attributed to whichever source's base
// name prefixes its own (the "Foo$1.tasty" nested-class convention); an
// artifact matching neither — a synthetic/anonymous class the compiler
// emitted with no source-file attribution at all — falls back to whichever
// source in this round's dirty set most recently began compiling, i.e. the
// last element of sources, since the compiler was invoked on the whole
// batch as a single process.
func attributeArtifacts(decoded map[string]*dump.File, sources []string) map[string]string {
	attribution := make(map[string]string, len(decoded))
	var unclaimed []string

	for name, f := range decoded {
		sourceName, hasSource := f.SourceFile()
		if hasSource {
			if src, ok := matchByBase(sourceName, sources); ok {
				attribution[name] = src
			}
			// A SOURCEFILEattr naming a source outside this round's dirty
			// set belongs to an earlier round's artifact, visible only
			// because the output directory is on the classpath; it is not
			// attributed here.
			continue
		}
		if src, ok := matchByPrefix(name, sources); ok {
			attribution[name] = src
			continue
		}
		unclaimed = append(unclaimed, name)
	}

	if len(unclaimed) > 0 && len(sources) > 0 {
		mostRecent := sources[len(sources)-1]
		for _, name := range unclaimed {
			attribution[name] = mostRecent
		}
	}

	return attribution
}

// mapForwardDeps resolves each of a source's ForwardDeps names through
// index, dropping self-references and names the index doesn't recognize
// (external/library symbols, not other sources in this project).
func mapForwardDeps(names []string, index map[string]string, self string) []string {
	var out []string
	for _, n := range names {
		src, ok := index[n]
		if !ok || src == self {
			continue
		}
		out = append(out, src)
	}
	return out
}

func trimExt(name string) string {
	return name[:len(name)-len(filepath.Ext(name))]
}

// matchByBase finds the source in sources whose base name (without
// extension) equals sourceName's base name.
func matchByBase(sourceName string, sources []string) (string, bool) {
	base := trimExt(filepath.Base(sourceName))
	for _, s := range sources {
		if trimExt(filepath.Base(s)) == base {
			return s, true
		}
	}
	return "", false
}

// matchByPrefix finds the source in sources whose base name prefixes
// entryName's base name (covers the "Foo$1.tasty" nested-class
// convention), in sources order for deterministic tie-breaking.
func matchByPrefix(entryName string, sources []string) (string, bool) {
	stem := trimExt(entryName)
	for _, s := range sources {
		base := trimExt(filepath.Base(s))
		if stem == base || (len(stem) > len(base) && strings.HasPrefix(stem, base)) {
			return s, true
		}
	}
	return "", false
}
