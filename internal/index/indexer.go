package index

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"time"
	"unicode/utf8"

	"golang.org/x/sync/errgroup"

	"github.com/dshills/codemap/internal/config"
	"github.com/dshills/codemap/internal/discover"
	"github.com/dshills/codemap/internal/hash"
	"github.com/dshills/codemap/internal/lang"
	"github.com/dshills/codemap/internal/store"
	"github.com/dshills/codemap/pkg/types"
)

// ErrIndexInProgress is returned when a full index is already running
// against the same store
var ErrIndexInProgress = errors.New("index already in progress")

// Options tunes an Indexer
type Options struct {
	Workers int          // parse concurrency (default: runtime.NumCPU())
	Logger  *slog.Logger // nil disables logging
}

// Stats summarizes one indexing operation. Per-file failures accumulate in
// Diagnostics and never abort the run.
type Stats struct {
	FilesIndexed     int
	FilesSkipped     int
	FilesRemoved     int
	SymbolsExtracted int
	Duration         time.Duration
	Diagnostics      []types.Diagnostic
}

// Indexer coordinates the pipeline: discover -> parse -> fingerprint ->
// store. Parsing fans out across a bounded worker pool; store mutation is
// serialized in the collecting goroutine.
type Indexer struct {
	root    string
	cfg     config.Config
	reg     *lang.Registry
	pred    *discover.Predicate
	st      *store.Store
	workers int
	log     *slog.Logger
	lock    runLock
}

// New creates an Indexer over a store for the project rooted at root
func New(root string, cfg config.Config, st *store.Store, opts *Options) *Indexer {
	if opts == nil {
		opts = &Options{}
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	reg := lang.Default()
	reg.SetDocstringLimit(cfg.MaxDocstringLength)
	return &Indexer{
		root:    root,
		cfg:     cfg,
		reg:     reg,
		pred:    discover.NewPredicate(cfg, reg),
		st:      st,
		workers: workers,
		log:     logger,
	}
}

// Store returns the store the indexer mutates
func (idx *Indexer) Store() *store.Store { return idx.st }

// fileResult is the outcome of processing one candidate file
type fileResult struct {
	rel   string
	entry types.FileEntry
	diags []types.Diagnostic
	skip  bool
}

// FullIndex enumerates every candidate under the root, parses changed files,
// and replaces the store contents for the scanned scope. Entries for paths
// that vanished or stopped matching the predicates are removed. Files that
// fail to parse or decode are skipped with recorded diagnostics; the run
// completes regardless.
func (idx *Indexer) FullIndex(ctx context.Context) (*Stats, error) {
	if !idx.lock.TryAcquire() {
		return nil, ErrIndexInProgress
	}
	defer idx.lock.Release()

	start := time.Now()
	stats := &Stats{}

	candidates, err := discover.Walk(idx.root, idx.pred)
	if err != nil {
		return nil, fmt.Errorf("discover: %w", err)
	}
	idx.log.Info("full index started", "root", idx.root, "candidates", len(candidates))

	results := make(chan fileResult, idx.workers)
	seen := make(map[string]bool, len(candidates))

	done := make(chan struct{})
	go func() {
		// Single writer: all store mutation happens here.
		defer close(done)
		for res := range results {
			seen[res.rel] = true
			stats.Diagnostics = append(stats.Diagnostics, res.diags...)
			if res.skip {
				stats.FilesSkipped++
				continue
			}
			idx.st.UpsertFileEntry(res.rel, res.entry)
			stats.FilesIndexed++
			stats.SymbolsExtracted += res.entry.SymbolCount()
		}
	}()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(idx.workers)
	for _, rel := range candidates {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			results <- idx.processFile(rel)
			return nil
		})
	}
	err = g.Wait()
	close(results)
	<-done
	if err != nil {
		return nil, err
	}

	for _, rel := range idx.st.Paths() {
		if !seen[rel] {
			if err := idx.st.RemoveFileEntry(rel); err == nil {
				stats.FilesRemoved++
			}
		}
	}

	idx.st.SetLastFullIndex(time.Now())
	if err := idx.st.Flush(ctx); err != nil {
		return nil, err
	}

	stats.Duration = time.Since(start)
	idx.log.Info("full index complete",
		"indexed", stats.FilesIndexed,
		"skipped", stats.FilesSkipped,
		"removed", stats.FilesRemoved,
		"symbols", stats.SymbolsExtracted,
		"duration", stats.Duration)
	return stats, nil
}

// processFile reads, fingerprints, and parses one candidate. An entry whose
// stored fingerprint still matches is reused without reparsing.
func (idx *Indexer) processFile(rel string) fileResult {
	data, err := os.ReadFile(filepath.Join(idx.root, filepath.FromSlash(rel)))
	if err != nil {
		return fileResult{rel: rel, skip: true, diags: []types.Diagnostic{{
			Path: rel, Kind: types.DiagIOError, Message: err.Error(),
		}}}
	}
	if !decodable(data) {
		return fileResult{rel: rel, skip: true, diags: []types.Diagnostic{{
			Path: rel, Kind: types.DiagDecodeError, Message: "file is not valid UTF-8 text",
		}}}
	}

	sum := hash.Sum(data)
	if old, err := idx.st.GetFileEntry(rel); err == nil && old.Hash == sum {
		return fileResult{rel: rel, entry: old}
	}

	entry, diags := idx.buildEntry(rel, data, sum)
	if len(diags) > 0 {
		return fileResult{rel: rel, skip: true, diags: diags}
	}
	return fileResult{rel: rel, entry: entry}
}

// buildEntry parses source bytes into a file entry. Any diagnostic means the
// file is skipped rather than stored with partial symbols.
func (idx *Indexer) buildEntry(rel string, data []byte, sum string) (types.FileEntry, []types.Diagnostic) {
	parser, ok := idx.reg.ForPath(rel)
	if !ok {
		return types.FileEntry{}, []types.Diagnostic{{
			Path: rel, Kind: types.DiagParseError, Message: "no parser for file extension",
		}}
	}
	src := string(data)
	res := parser.Parse(src)
	if res.HasDiagnostics() {
		diags := make([]types.Diagnostic, len(res.Diagnostics))
		for i, d := range res.Diagnostics {
			d.Path = rel
			diags[i] = d
		}
		return types.FileEntry{}, diags
	}
	return types.FileEntry{
		Hash:      sum,
		IndexedAt: time.Now().UTC().Truncate(time.Second),
		Language:  parser.Language(),
		Lines:     lang.LineCount(src),
		Symbols:   res.Symbols,
	}, nil
}

// decodable reports whether raw bytes are indexable text. NUL bytes mark
// binary content even when it happens to be valid UTF-8.
func decodable(data []byte) bool {
	return utf8.Valid(data) && !bytes.ContainsRune(data, 0)
}
