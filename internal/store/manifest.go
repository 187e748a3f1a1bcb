package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dshills/codemap/pkg/types"
)

// FormatVersion is the on-disk manifest schema version
const FormatVersion = 1

const (
	manifestName = "index.json"
	shardSubdir  = "shards"
	rootShardKey = "."
)

// ConfigSnapshot records the settings the index was built with
type ConfigSnapshot struct {
	Languages       []string `json:"languages"`
	ExcludePatterns []string `json:"exclude_patterns"`
	IncludePatterns []string `json:"include_patterns"`
}

// Stats aggregates the tracked file set
type Stats struct {
	TotalFiles    int       `json:"total_files"`
	TotalSymbols  int       `json:"total_symbols"`
	LastFullIndex time.Time `json:"last_full_index"`
}

// rootManifest is the wire form of index.json
type rootManifest struct {
	Version     int            `json:"version"`
	GeneratedAt time.Time      `json:"generated_at"`
	Root        string         `json:"root"`
	Config      ConfigSnapshot `json:"config"`
	Stats       Stats          `json:"stats"`
	Shards      []string       `json:"shards"`
}

// shardManifest is the wire form of one shard file. Map keys serialize in
// sorted order, which keeps re-serialization byte-identical.
type shardManifest struct {
	Directory string                     `json:"directory"`
	Files     map[string]types.FileEntry `json:"files"`
}

// shardFileName mangles a shard's directory into a flat file name under
// shards/. The root directory gets a reserved name. Literal underscores are
// escaped before slashes become "__", so a directory named "a__b" can never
// collide with the nested path "a/b", and no escaped name can collide with
// the reserved root name.
func shardFileName(dir string) string {
	if dir == rootShardKey {
		return "_root_.json"
	}
	mangled := strings.ReplaceAll(dir, "_", "_u")
	return strings.ReplaceAll(mangled, "/", "__") + ".json"
}

// marshalManifest renders any manifest document in the store's canonical
// form: two-space indentation, trailing newline, sorted object keys.
func marshalManifest(v any) ([]byte, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// writeAtomic persists data with a write-temp-then-rename discipline so an
// interrupted write can never leave a half-written manifest behind.
func writeAtomic(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}

// validateShard checks one loaded shard against the schema invariants
func validateShard(sm *shardManifest, fromFile string) error {
	if sm.Directory == "" {
		return fmt.Errorf("%w: shard %s has no directory", ErrStoreCorrupt, fromFile)
	}
	for rel, entry := range sm.Files {
		dir := filepath.ToSlash(filepath.Dir(rel))
		if dir != sm.Directory {
			return fmt.Errorf("%w: entry %s does not belong to shard %s", ErrStoreCorrupt, rel, sm.Directory)
		}
		if err := entry.Validate(); err != nil {
			return fmt.Errorf("%w: entry %s: %v", ErrStoreCorrupt, rel, err)
		}
	}
	return nil
}
