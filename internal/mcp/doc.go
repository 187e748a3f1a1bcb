// Package mcp implements the Model Context Protocol (MCP) server for codemap.
//
// The MCP server exposes six tools to AI coding assistants (Claude Code, Codex CLI):
//   - index_project: Build or rebuild the symbol index for a source tree
//   - update_file: Re-index a single file after an edit
//   - find_symbol: Find symbols by name across the index
//   - show_file: Show the full symbol tree of one file
//   - validate_index: Report files whose index entries went stale
//   - get_status: Check index statistics for a project
//
// # Protocol Overview
//
// MCP is a JSON-RPC 2.0 protocol over stdio transport:
//
//	Client → Server: {"method": "tools/call", "params": {...}}
//	Server → Client: {"result": {...}}
//
// The server communicates with MCP clients via standard input/output. Unlike a
// per-project daemon, one server instance answers for any number of projects:
// every tool call carries the absolute project root in its "path" argument,
// and the matching index under <root>/.codemap is opened lazily.
//
// # Basic Usage
//
// The MCP server is typically started via the serve command:
//
//	codemap serve
//
// It then listens on stdin for MCP protocol messages and writes responses to stdout.
//
// # Tool: index_project
//
// Index a source tree to make its symbols queryable:
//
//	Request:
//	{
//	  "name": "index_project",
//	  "arguments": {
//	    "path": "/path/to/project"
//	  }
//	}
//
//	Response:
//	{
//	  "indexed": true,
//	  "files_indexed": 247,
//	  "files_skipped": 3,
//	  "files_removed": 0,
//	  "symbols_extracted": 8432,
//	  "duration_ms": 152
//	}
//
// Files that fail to parse are skipped, not fatal; their diagnostics ride
// along in the response under "diagnostics" (capped) and "diagnostic_count".
//
// # Tool: update_file
//
// Re-index a single file after an edit:
//
//	Request:
//	{
//	  "name": "update_file",
//	  "arguments": {
//	    "path": "/path/to/project",
//	    "file": "src/app.py"
//	  }
//	}
//
//	Response:
//	{
//	  "path": "src/app.py",
//	  "outcome": "updated"
//	}
//
// Outcomes: "unchanged", "updated", "added", "removed" (file deleted or now
// excluded), "skipped" (unreadable, binary, or failed to parse; a previously
// indexed entry is kept).
//
// # Tool: find_symbol
//
// Find symbols by name; exact matches rank before substring matches:
//
//	Request:
//	{
//	  "name": "find_symbol",
//	  "arguments": {
//	    "path": "/path/to/project",
//	    "name": "Service",
//	    "kinds": ["class", "method"]
//	  }
//	}
//
//	Response:
//	{
//	  "query": "Service",
//	  "count": 2,
//	  "matches": [
//	    {
//	      "path": "src/app.py",
//	      "name": "Service",
//	      "kind": "class",
//	      "lines": [12, 80],
//	      "qualified": "Service"
//	    }
//	  ]
//	}
//
// # Tool: show_file
//
// Show the stored symbol tree of one indexed file:
//
//	Request:
//	{
//	  "name": "show_file",
//	  "arguments": {
//	    "path": "/path/to/project",
//	    "file": "src/app.py"
//	  }
//	}
//
//	Response:
//	{
//	  "file": "src/app.py",
//	  "language": "python",
//	  "lines": 120,
//	  "indexed_at": "2025-06-01T12:00:00Z",
//	  "symbols": [...]
//	}
//
// A file that exists but is not tracked by the index answers with
// {"indexed": false, ...} rather than an error.
//
// # Tool: validate_index
//
// Compare stored fingerprints against the working tree without re-indexing:
//
//	Request:
//	{
//	  "name": "validate_index",
//	  "arguments": {
//	    "path": "/path/to/project"
//	  }
//	}
//
//	Response:
//	{
//	  "clean": false,
//	  "stale": ["src/app.py"],
//	  "missing": ["src/old.py"]
//	}
//
// # Tool: get_status
//
// Check index statistics:
//
//	Request:
//	{
//	  "name": "get_status",
//	  "arguments": {
//	    "path": "/path/to/project"
//	  }
//	}
//
//	Response:
//	{
//	  "indexed": true,
//	  "project": {
//	    "path": "/path/to/project",
//	    "store_dir": "/path/to/project/.codemap",
//	    "languages": ["go", "python"],
//	    "last_full_index": "2025-06-01T12:00:00Z"
//	  },
//	  "statistics": {
//	    "files_count": 247,
//	    "symbols_count": 8432
//	  }
//	}
//
// # MCP Client Configuration
//
// Configure in Claude Code's MCP settings:
//
//	{
//	  "mcpServers": {
//	    "codemap": {
//	      "command": "/usr/local/bin/codemap",
//	      "args": ["serve"]
//	    }
//	  }
//	}
//
// # Error Handling
//
// The MCP server returns standard JSON-RPC error responses:
//
//	{
//	  "error": {
//	    "code": -32602,
//	    "message": "Invalid params",
//	    "data": {
//	      "param": "path",
//	      "reason": "path does not exist"
//	    }
//	  }
//	}
//
// Error codes:
//   - -32602: Invalid params (missing/invalid arguments)
//   - -32603: Internal error (filesystem, indexing failure)
//   - -32002: Indexing already in progress for this project
//   - -32005: Index on disk is corrupt; re-run index_project
//
// Read tools on a project that was never indexed do not error; they answer
// {"indexed": false} with a hint to run index_project first.
//
// # Logging
//
// The MCP server logs to stderr (stdout is reserved for MCP protocol).
package mcp
