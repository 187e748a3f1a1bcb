// Package index coordinates the indexing pipeline: discover candidate
// files, fingerprint their content, parse changed files, and persist
// entries to the store.
//
// # Operations
//
//   - FullIndex walks the project, reindexes what changed, and drops entries
//     for paths that vanished or stopped matching the predicates.
//   - UpdateFile re-examines one path: no-op when the fingerprint still
//     matches, reparse and upsert when it changed, removal when the file is
//     gone or excluded.
//   - UpdateChanged feeds every git-modified path through UpdateFile.
//   - Validate recomputes fingerprints without reparsing and reports stale
//     and missing paths; it never mutates the store.
//
// # Failure policy
//
// Per-file problems (unreadable, undecodable, unparseable) become
// diagnostics in the operation stats and never abort a run. Store-level
// problems (corrupt manifest, unwritable root) are returned as errors.
//
// # Concurrency
//
// Parsing is a pure function of file content, so FullIndex fans parses out
// across a bounded errgroup pool; all store mutation is serialized through
// a single collecting goroutine. A non-blocking lock rejects a second
// concurrent full index against the same store.
package index
