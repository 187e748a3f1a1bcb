package store

import "errors"

var (
	// ErrNotFound is returned when a requested path has no entry
	ErrNotFound = errors.New("not found")
	// ErrNotIndexed is returned when no index exists under the store directory
	ErrNotIndexed = errors.New("not indexed")
	// ErrStoreCorrupt is returned when a manifest or shard fails schema validation
	ErrStoreCorrupt = errors.New("store corrupt")
)
