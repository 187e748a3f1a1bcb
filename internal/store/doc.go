// Package store persists the symbol index as directory-sharded JSON
// manifests under the project's store directory.
//
// Layout:
//
//	.codemap/
//	  index.json         root manifest: version, config, stats, shard list
//	  shards/
//	    _root_.json      entries for files directly under the root
//	    src__api.json    entries for files under src/api/
//
// Every tracked path belongs to exactly one shard, keyed by its parent
// directory. Flush writes only dirty shards, each with a temp-then-rename
// discipline, so an interruption never leaves a half-written manifest and
// untouched shards incur no I/O. Serialization is deterministic: sorted
// keys, two-space indentation, RFC 3339 UTC timestamps at second precision.
// Re-serializing unchanged state reproduces byte-identical files, which
// keeps the store directory diffable under version control.
//
// Load validates the schema of every referenced shard and fails with
// ErrStoreCorrupt on any mismatch; unknown fields are tolerated for forward
// compatibility.
package store
