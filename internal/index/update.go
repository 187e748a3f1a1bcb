package index

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/dshills/codemap/internal/gitutil"
	"github.com/dshills/codemap/internal/hash"
	"github.com/dshills/codemap/internal/store"
	"github.com/dshills/codemap/pkg/types"
)

// UpdateOutcome classifies what a single-file update did
type UpdateOutcome string

const (
	OutcomeUnchanged UpdateOutcome = "unchanged" // fingerprint still matches
	OutcomeUpdated   UpdateOutcome = "updated"   // entry replaced
	OutcomeAdded     UpdateOutcome = "added"     // entry created
	OutcomeRemoved   UpdateOutcome = "removed"   // entry dropped
	OutcomeSkipped   UpdateOutcome = "skipped"   // failed to parse or decode
)

// UpdateResult reports one single-file update
type UpdateResult struct {
	Path        string
	Outcome     UpdateOutcome
	Diagnostics []types.Diagnostic
}

// UpdateFile re-examines one path. Unchanged content is a no-op; changed or
// new content is reparsed and upserted; a path that is gone or no longer
// matches the predicates loses its entry. Safe to call concurrently for
// disjoint paths in any order.
func (idx *Indexer) UpdateFile(ctx context.Context, path string) (UpdateResult, error) {
	rel, err := idx.relPath(path)
	if err != nil {
		return UpdateResult{Path: path}, err
	}
	res := UpdateResult{Path: rel}

	_, tracked := idx.trackedEntry(rel)

	if !idx.pred.Match(rel) {
		return idx.dropEntry(ctx, res, tracked)
	}

	data, err := os.ReadFile(filepath.Join(idx.root, filepath.FromSlash(rel)))
	if errors.Is(err, os.ErrNotExist) {
		return idx.dropEntry(ctx, res, tracked)
	}
	if err != nil {
		res.Outcome = OutcomeSkipped
		res.Diagnostics = []types.Diagnostic{{Path: rel, Kind: types.DiagIOError, Message: err.Error()}}
		return res, nil
	}
	if !decodable(data) {
		res.Outcome = OutcomeSkipped
		res.Diagnostics = []types.Diagnostic{{Path: rel, Kind: types.DiagDecodeError, Message: "file is not valid UTF-8 text"}}
		return res, nil
	}

	sum := hash.Sum(data)
	if old, ok := idx.trackedEntry(rel); ok && old.Hash == sum {
		res.Outcome = OutcomeUnchanged
		return res, nil
	}

	entry, diags := idx.buildEntry(rel, data, sum)
	if len(diags) > 0 {
		// The previous entry, if any, stays in place until the file parses.
		res.Outcome = OutcomeSkipped
		res.Diagnostics = diags
		return res, nil
	}

	res.Outcome = OutcomeAdded
	if tracked {
		res.Outcome = OutcomeUpdated
	}
	idx.st.UpsertFileEntry(rel, entry)
	if err := idx.st.Flush(ctx); err != nil {
		return res, err
	}
	idx.log.Info("file updated", "path", rel, "outcome", res.Outcome)
	return res, nil
}

// dropEntry removes rel's entry, if tracked, and flushes
func (idx *Indexer) dropEntry(ctx context.Context, res UpdateResult, tracked bool) (UpdateResult, error) {
	if !tracked {
		res.Outcome = OutcomeUnchanged
		return res, nil
	}
	if err := idx.st.RemoveFileEntry(res.Path); err != nil {
		return res, err
	}
	res.Outcome = OutcomeRemoved
	if err := idx.st.Flush(ctx); err != nil {
		return res, err
	}
	idx.log.Info("file removed from index", "path", res.Path)
	return res, nil
}

// UpdateChanged runs UpdateFile for every path the version control
// working tree reports as modified or untracked.
func (idx *Indexer) UpdateChanged(ctx context.Context) ([]UpdateResult, error) {
	paths, err := gitutil.ChangedPaths(idx.root)
	if err != nil {
		return nil, err
	}

	var results []UpdateResult
	for _, rel := range paths {
		if _, tracked := idx.trackedEntry(rel); !tracked && !idx.pred.Match(rel) {
			continue
		}
		res, err := idx.UpdateFile(ctx, rel)
		if err != nil {
			return results, err
		}
		results = append(results, res)
	}
	return results, nil
}

// ValidationReport lists tracked paths whose content drifted from the index
type ValidationReport struct {
	Stale   []string // fingerprint mismatch
	Missing []string // tracked but absent on disk
}

// Clean reports whether nothing drifted
func (r *ValidationReport) Clean() bool {
	return len(r.Stale) == 0 && len(r.Missing) == 0
}

// Validate recomputes fingerprints for the given paths (all tracked paths
// when scope is empty) and compares them against stored values. Strictly
// read-only: repair requires an explicit update.
func (idx *Indexer) Validate(ctx context.Context, scope []string) (*ValidationReport, error) {
	paths := scope
	if len(paths) == 0 {
		paths = idx.st.Paths()
	}

	report := &ValidationReport{}
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(idx.workers)
	for _, p := range paths {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			rel, err := idx.relPath(p)
			if err != nil {
				return err
			}
			entry, err := idx.st.GetFileEntry(rel)
			if err != nil {
				return fmt.Errorf("%s: %w", rel, err)
			}
			sum, err := hash.SumFile(filepath.Join(idx.root, filepath.FromSlash(rel)))
			mu.Lock()
			defer mu.Unlock()
			switch {
			case errors.Is(err, os.ErrNotExist):
				report.Missing = append(report.Missing, rel)
			case err != nil:
				return err
			case sum != entry.Hash:
				report.Stale = append(report.Stale, rel)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Strings(report.Stale)
	sort.Strings(report.Missing)
	return report, nil
}

// trackedEntry returns the stored entry for rel, if any
func (idx *Indexer) trackedEntry(rel string) (types.FileEntry, bool) {
	entry, err := idx.st.GetFileEntry(rel)
	if err != nil {
		return types.FileEntry{}, false
	}
	return entry, true
}

// relPath normalizes a caller-supplied path to slash-separated form relative
// to the project root
func (idx *Indexer) relPath(path string) (string, error) {
	if filepath.IsAbs(path) {
		rel, err := filepath.Rel(idx.root, path)
		if err != nil || strings.HasPrefix(rel, "..") {
			return "", fmt.Errorf("%w: %s is outside the project root", store.ErrNotFound, path)
		}
		path = rel
	}
	return filepath.ToSlash(filepath.Clean(path)), nil
}
