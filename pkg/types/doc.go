// Package types provides shared type definitions for the codemap engine.
//
// This package defines the domain types used across components: symbols,
// file entries, and per-file diagnostics.
//
// # Core Types
//
// Symbol represents a named code construct (class, function, method, and
// their language-specific variants) with an inclusive 1-indexed line range:
//
//	symbol := types.Symbol{
//	    Name:  "UserService",
//	    Kind:  types.KindClass,
//	    Lines: [2]int{10, 42},
//	}
//
// Symbols form an owned tree: a class owns its methods, a function owns its
// nested functions. Children carry no back-references, so structural
// recursion needs no cycle detection.
//
// FileEntry describes one indexed file: content fingerprint, language tag,
// line count, index timestamp, and the ordered top-level symbol trees.
//
// # Diagnostics
//
// Diagnostic records a per-file failure (decode, parse, or I/O). Engine
// operations accumulate diagnostics into their summaries instead of aborting
// a batch; only store-level failures are fatal.
//
// # Validation
//
// Domain types implement validation methods checking the structural
// invariants: start <= end, child ranges contained in parent ranges, and
// children ordered by ascending start line:
//
//	if err := entry.Validate(); err != nil {
//	    log.Fatal(err)
//	}
package types
