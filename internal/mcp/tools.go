package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/dshills/codemap/internal/index"
	"github.com/dshills/codemap/internal/store"
	"github.com/dshills/codemap/pkg/types"
)

// MCP error codes
const (
	ErrorCodeInvalidParams      = -32602 // Invalid method parameters
	ErrorCodeInternalError      = -32603 // Internal JSON-RPC error
	ErrorCodeIndexingInProgress = -32002 // Another indexing operation is already running
	ErrorCodeStoreCorrupt       = -32005 // Index on disk failed schema validation
)

// handleIndexProject handles the index_project tool invocation
func (s *Server) handleIndexProject(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	root, errResult := requireRoot(request)
	if errResult != nil {
		return nil, errResult
	}

	proj, err := openOrCreateProject(root)
	if err != nil {
		return nil, storeError(err)
	}

	stats, err := proj.indexer.FullIndex(ctx)
	if errors.Is(err, index.ErrIndexInProgress) {
		return nil, newMCPError(ErrorCodeIndexingInProgress, "an index run is already in progress", nil)
	}
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "indexing failed", map[string]interface{}{
			"error": err.Error(),
		})
	}

	response := map[string]interface{}{
		"indexed":           true,
		"files_indexed":     stats.FilesIndexed,
		"files_skipped":     stats.FilesSkipped,
		"files_removed":     stats.FilesRemoved,
		"symbols_extracted": stats.SymbolsExtracted,
		"duration_ms":       stats.Duration.Milliseconds(),
	}
	attachDiagnostics(response, stats.Diagnostics)
	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleUpdateFile handles the update_file tool invocation
func (s *Server) handleUpdateFile(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	root, errResult := requireRoot(request)
	if errResult != nil {
		return nil, errResult
	}
	file, errResult := requireString(request, "file")
	if errResult != nil {
		return nil, errResult
	}

	proj, err := openProject(root)
	if errors.Is(err, store.ErrNotIndexed) {
		return mcp.NewToolResultText(formatJSON(notIndexedResponse(root))), nil
	}
	if err != nil {
		return nil, storeError(err)
	}

	result, err := proj.indexer.UpdateFile(ctx, file)
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "update failed", map[string]interface{}{
			"error": err.Error(),
		})
	}

	response := map[string]interface{}{
		"path":    result.Path,
		"outcome": string(result.Outcome),
	}
	attachDiagnostics(response, result.Diagnostics)
	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleFindSymbol handles the find_symbol tool invocation
func (s *Server) handleFindSymbol(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	root, errResult := requireRoot(request)
	if errResult != nil {
		return nil, errResult
	}
	name, errResult := requireString(request, "name")
	if errResult != nil {
		return nil, errResult
	}

	args, _ := request.Params.Arguments.(map[string]interface{})
	var kinds []types.SymbolKind
	if raw, ok := args["kinds"].([]interface{}); ok {
		for _, v := range raw {
			kindName, ok := v.(string)
			if !ok {
				continue
			}
			kind := types.SymbolKind(kindName)
			if !kind.Valid() {
				return nil, newMCPError(ErrorCodeInvalidParams, "unknown symbol kind", map[string]interface{}{
					"param": "kinds",
					"value": kindName,
				})
			}
			kinds = append(kinds, kind)
		}
	}

	proj, err := openProject(root)
	if errors.Is(err, store.ErrNotIndexed) {
		return mcp.NewToolResultText(formatJSON(notIndexedResponse(root))), nil
	}
	if err != nil {
		return nil, storeError(err)
	}

	results := proj.engine.Find(name, kinds)
	response := map[string]interface{}{
		"query":   name,
		"count":   len(results),
		"matches": results,
	}
	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleShowFile handles the show_file tool invocation
func (s *Server) handleShowFile(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	root, errResult := requireRoot(request)
	if errResult != nil {
		return nil, errResult
	}
	file, errResult := requireString(request, "file")
	if errResult != nil {
		return nil, errResult
	}

	proj, err := openProject(root)
	if errors.Is(err, store.ErrNotIndexed) {
		return mcp.NewToolResultText(formatJSON(notIndexedResponse(root))), nil
	}
	if err != nil {
		return nil, storeError(err)
	}

	view, err := proj.engine.Show(filepath.ToSlash(file))
	if errors.Is(err, store.ErrNotFound) {
		response := map[string]interface{}{
			"indexed": false,
			"file":    file,
			"message": "File is not tracked by the index.",
		}
		return mcp.NewToolResultText(formatJSON(response)), nil
	}
	if err != nil {
		return nil, storeError(err)
	}

	response := map[string]interface{}{
		"file":       view.Path,
		"language":   view.Language,
		"lines":      view.Lines,
		"indexed_at": view.IndexedAt,
		"symbols":    view.Symbols,
	}
	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleValidateIndex handles the validate_index tool invocation
func (s *Server) handleValidateIndex(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	root, errResult := requireRoot(request)
	if errResult != nil {
		return nil, errResult
	}

	proj, err := openProject(root)
	if errors.Is(err, store.ErrNotIndexed) {
		return mcp.NewToolResultText(formatJSON(notIndexedResponse(root))), nil
	}
	if err != nil {
		return nil, storeError(err)
	}

	args, _ := request.Params.Arguments.(map[string]interface{})
	var scope []string
	if file := getStringDefault(args, "file", ""); file != "" {
		scope = []string{file}
	}

	report, err := proj.indexer.Validate(ctx, scope)
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "validation failed", map[string]interface{}{
			"error": err.Error(),
		})
	}

	response := map[string]interface{}{
		"clean":   report.Clean(),
		"stale":   report.Stale,
		"missing": report.Missing,
	}
	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleGetStatus handles the get_status tool invocation
func (s *Server) handleGetStatus(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	root, errResult := requireRoot(request)
	if errResult != nil {
		return nil, errResult
	}

	proj, err := openProject(root)
	if errors.Is(err, store.ErrNotIndexed) {
		return mcp.NewToolResultText(formatJSON(notIndexedResponse(root))), nil
	}
	if err != nil {
		return nil, storeError(err)
	}

	stats := proj.store.Stats()
	cfg := proj.store.Config()
	response := map[string]interface{}{
		"indexed": true,
		"project": map[string]interface{}{
			"path":            proj.store.Root(),
			"store_dir":       proj.store.Dir(),
			"languages":       cfg.Languages,
			"last_full_index": stats.LastFullIndex.Format(time.RFC3339),
		},
		"statistics": map[string]interface{}{
			"files_count":   stats.TotalFiles,
			"symbols_count": stats.TotalSymbols,
		},
	}
	return mcp.NewToolResultText(formatJSON(response)), nil
}

// Helper functions

// requireRoot extracts and validates the mandatory project root parameter
func requireRoot(request mcp.CallToolRequest) (string, error) {
	root, err := requireString(request, "path")
	if err != nil {
		return "", err
	}
	if verr := validateRoot(root); verr != nil {
		return "", newMCPError(ErrorCodeInvalidParams, "invalid path", map[string]interface{}{
			"param":  "path",
			"reason": verr.Error(),
		})
	}
	return root, nil
}

// requireString extracts a mandatory string parameter
func requireString(request mcp.CallToolRequest, key string) (string, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return "", newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}
	val, ok := args[key].(string)
	if !ok || val == "" {
		return "", newMCPError(ErrorCodeInvalidParams, key+" parameter is required", map[string]interface{}{
			"param":  key,
			"reason": "missing or empty",
		})
	}
	return val, nil
}

// storeError maps store-level failures onto MCP error codes
func storeError(err error) error {
	if errors.Is(err, store.ErrStoreCorrupt) {
		return newMCPError(ErrorCodeStoreCorrupt, "index is corrupt; re-run index_project", map[string]interface{}{
			"error": err.Error(),
		})
	}
	return newMCPError(ErrorCodeInternalError, "store error", map[string]interface{}{
		"error": err.Error(),
	})
}

// attachDiagnostics adds per-file diagnostics to a response, capped so one
// bad run cannot flood the transcript
func attachDiagnostics(response map[string]interface{}, diags []types.Diagnostic) {
	if len(diags) == 0 {
		return
	}
	const maxShown = 5
	messages := make([]string, 0, maxShown)
	for i, d := range diags {
		if i == maxShown {
			break
		}
		messages = append(messages, d.Error())
	}
	response["diagnostics"] = messages
	response["diagnostic_count"] = len(diags)
}

// newMCPError creates a properly formatted MCP error
func newMCPError(code int, message string, data interface{}) error {
	return &MCPError{Code: code, Message: message, Data: data}
}

// MCPError represents an MCP protocol error
type MCPError struct {
	Code    int
	Message string
	Data    interface{}
}

func (e *MCPError) Error() string {
	return fmt.Sprintf("MCP error %d: %s", e.Code, e.Message)
}

// validateRoot checks that a project root exists and is a readable directory
func validateRoot(path string) error {
	if !filepath.IsAbs(path) {
		return ErrPathNotAbsolute
	}
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return ErrPathNotFound
	}
	if err != nil {
		return ErrPathNotReadable
	}
	if !info.IsDir() {
		return ErrNotDirectory
	}
	f, err := os.Open(path)
	if err != nil {
		return ErrPathNotReadable
	}
	_ = f.Close()
	return nil
}

// formatJSON formats a map as indented JSON
func formatJSON(data map[string]interface{}) string {
	bytes, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", data)
	}
	return string(bytes)
}

// getStringDefault extracts a string parameter with a default value
func getStringDefault(args map[string]interface{}, key string, defaultValue string) string {
	if val, ok := args[key].(string); ok {
		return val
	}
	return defaultValue
}

// Validation helpers

var (
	ErrPathNotAbsolute = errors.New("path must be absolute")
	ErrPathNotFound    = errors.New("path does not exist")
	ErrPathNotReadable = errors.New("path is not readable")
	ErrNotDirectory    = errors.New("path is not a directory")
)
