package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dshills/codemap/pkg/types"
)

// flushConcurrency bounds parallel shard writes during Flush
const flushConcurrency = 8

// shard holds the in-memory entries of one directory
type shard struct {
	files map[string]types.FileEntry
}

// Store is a directory-sharded, crash-safe index of file entries. Entries
// live in one shard per parent directory; Flush persists only dirty shards,
// each with an atomic temp-then-rename write.
type Store struct {
	mu sync.RWMutex

	dir  string // store directory holding index.json and shards/
	root string // absolute project root the index describes

	config ConfigSnapshot
	stats  Stats

	shards     map[string]*shard
	dirty      map[string]bool
	removed    map[string]bool // shard files to delete on flush
	rootDirty  bool
	generation uint64
}

// Create returns a new empty store rooted at root, persisted under dir
func Create(dir, root string, cfg ConfigSnapshot) *Store {
	return &Store{
		dir:       dir,
		root:      root,
		config:    cfg,
		shards:    make(map[string]*shard),
		dirty:     make(map[string]bool),
		removed:   make(map[string]bool),
		rootDirty: true,
	}
}

// Load reconstructs a store from its on-disk manifests. A missing index
// returns ErrNotIndexed; a missing or malformed shard returns ErrStoreCorrupt.
func Load(dir string) (*Store, error) {
	data, err := os.ReadFile(filepath.Join(dir, manifestName))
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: no index at %s", ErrNotIndexed, dir)
	}
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}

	var root rootManifest
	if err := json.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreCorrupt, err)
	}
	if root.Version != FormatVersion {
		return nil, fmt.Errorf("%w: unsupported format version %d", ErrStoreCorrupt, root.Version)
	}

	s := &Store{
		dir:     dir,
		root:    root.Root,
		config:  root.Config,
		stats:   root.Stats,
		shards:  make(map[string]*shard),
		dirty:   make(map[string]bool),
		removed: make(map[string]bool),
	}

	for _, name := range root.Shards {
		raw, err := os.ReadFile(filepath.Join(dir, shardSubdir, name))
		if err != nil {
			return nil, fmt.Errorf("%w: shard %s: %v", ErrStoreCorrupt, name, err)
		}
		var sm shardManifest
		if err := json.Unmarshal(raw, &sm); err != nil {
			return nil, fmt.Errorf("%w: shard %s: %v", ErrStoreCorrupt, name, err)
		}
		if err := validateShard(&sm, name); err != nil {
			return nil, err
		}
		if sm.Files == nil {
			sm.Files = make(map[string]types.FileEntry)
		}
		s.shards[sm.Directory] = &shard{files: sm.Files}
	}
	return s, nil
}

// Root returns the absolute project root the index was built over
func (s *Store) Root() string { return s.root }

// Dir returns the store directory
func (s *Store) Dir() string { return s.dir }

// Config returns the config snapshot the index was built with
func (s *Store) Config() ConfigSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.config
}

// Stats returns the current aggregate stats
func (s *Store) Stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stats
}

// Generation returns a counter bumped on every mutation; readers can use it
// to invalidate derived caches.
func (s *Store) Generation() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.generation
}

// ownerDir returns the shard key for a root-relative path
func ownerDir(rel string) string {
	return filepath.ToSlash(filepath.Dir(rel))
}

// GetFileEntry returns the entry for a root-relative path
func (s *Store) GetFileEntry(rel string) (types.FileEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sh, ok := s.shards[ownerDir(rel)]
	if !ok {
		return types.FileEntry{}, fmt.Errorf("%w: %s", ErrNotFound, rel)
	}
	entry, ok := sh.files[rel]
	if !ok {
		return types.FileEntry{}, fmt.Errorf("%w: %s", ErrNotFound, rel)
	}
	return entry, nil
}

// UpsertFileEntry inserts or replaces the entry for a root-relative path,
// creating its shard on first insertion. An upsert identical to the stored
// entry (timestamp aside) is a no-op and leaves the shard clean.
func (s *Store) UpsertFileEntry(rel string, entry types.FileEntry) {
	entry.IndexedAt = entry.IndexedAt.UTC().Truncate(time.Second)

	s.mu.Lock()
	defer s.mu.Unlock()

	dir := ownerDir(rel)
	sh, ok := s.shards[dir]
	if !ok {
		sh = &shard{files: make(map[string]types.FileEntry)}
		s.shards[dir] = sh
		s.rootDirty = true
	}

	if old, exists := sh.files[rel]; exists {
		if sameEntry(old, entry) {
			return
		}
		s.stats.TotalSymbols += entry.SymbolCount() - old.SymbolCount()
	} else {
		s.stats.TotalFiles++
		s.stats.TotalSymbols += entry.SymbolCount()
	}

	sh.files[rel] = entry
	s.dirty[dir] = true
	s.rootDirty = true
	delete(s.removed, dir)
	s.generation++
}

// RemoveFileEntry deletes the entry for a root-relative path. The owning
// shard is dropped, and its file deleted at next flush, when it empties.
func (s *Store) RemoveFileEntry(rel string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	dir := ownerDir(rel)
	sh, ok := s.shards[dir]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, rel)
	}
	entry, ok := sh.files[rel]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, rel)
	}

	delete(sh.files, rel)
	s.stats.TotalFiles--
	s.stats.TotalSymbols -= entry.SymbolCount()
	s.generation++
	s.rootDirty = true

	if len(sh.files) == 0 {
		delete(s.shards, dir)
		delete(s.dirty, dir)
		s.removed[dir] = true
		return nil
	}
	s.dirty[dir] = true
	return nil
}

// Paths returns every tracked root-relative path in sorted order
func (s *Store) Paths() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var paths []string
	for _, sh := range s.shards {
		for rel := range sh.files {
			paths = append(paths, rel)
		}
	}
	sort.Strings(paths)
	return paths
}

// SetLastFullIndex stamps the completion of a full index run
func (s *Store) SetLastFullIndex(t time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stats.LastFullIndex = t.UTC().Truncate(time.Second)
	s.rootDirty = true
	s.generation++
}

// Flush persists every dirty shard, then the root manifest, then deletes
// shard files the manifest no longer lists. Shard files are written
// concurrently, each atomically; a failure aborts the flush without
// corrupting shards already written.
func (s *Store) Flush(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.rootDirty && len(s.dirty) == 0 && len(s.removed) == 0 {
		return nil
	}

	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(flushConcurrency)

	for dir := range s.dirty {
		sh := s.shards[dir]
		if sh == nil {
			continue
		}
		doc := shardManifest{Directory: dir, Files: sh.files}
		target := filepath.Join(s.dir, shardSubdir, shardFileName(dir))
		g.Go(func() error {
			data, err := marshalManifest(doc)
			if err != nil {
				return err
			}
			return writeAtomic(target, data)
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("flush shards: %w", err)
	}

	names := make([]string, 0, len(s.shards))
	for dir := range s.shards {
		names = append(names, shardFileName(dir))
	}
	sort.Strings(names)

	doc := rootManifest{
		Version:     FormatVersion,
		GeneratedAt: time.Now().UTC().Truncate(time.Second),
		Root:        s.root,
		Config:      s.config,
		Stats:       s.stats,
		Shards:      names,
	}
	data, err := marshalManifest(doc)
	if err != nil {
		return err
	}
	if err := writeAtomic(filepath.Join(s.dir, manifestName), data); err != nil {
		return fmt.Errorf("flush manifest: %w", err)
	}

	// Emptied shard files go only after the manifest stops referencing them.
	// A crash between the two steps leaves an orphan file, which Load
	// ignores; the reverse order would leave a dangling reference.
	for dir := range s.removed {
		path := filepath.Join(s.dir, shardSubdir, shardFileName(dir))
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("remove shard: %w", err)
		}
	}

	s.dirty = make(map[string]bool)
	s.removed = make(map[string]bool)
	s.rootDirty = false
	return nil
}

// sameEntry compares entries ignoring the indexing timestamp, so re-indexing
// unchanged content does not rewrite shards.
func sameEntry(a, b types.FileEntry) bool {
	a.IndexedAt = time.Time{}
	b.IndexedAt = time.Time{}
	return reflect.DeepEqual(a, b)
}
