package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
)

// symbolKindEnum lists the kinds accepted by find_symbol's kind filter
var symbolKindEnum = []string{
	"class", "function", "method", "async_function", "async_method",
	"arrow_function", "interface", "type",
}

// indexProjectTool returns the tool definition for index_project
func indexProjectTool() mcp.Tool {
	return mcp.Tool{
		Name:        "index_project",
		Description: "Index a source tree: extract classes, functions, and methods with line ranges for every supported language",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"path": map[string]interface{}{
					"type":        "string",
					"description": "Absolute path to the project root",
				},
			},
			Required: []string{"path"},
		},
	}
}

// updateFileTool returns the tool definition for update_file
func updateFileTool() mcp.Tool {
	return mcp.Tool{
		Name:        "update_file",
		Description: "Re-index a single file after an edit; removes the entry when the file was deleted or excluded",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"path": map[string]interface{}{
					"type":        "string",
					"description": "Absolute path to the project root",
				},
				"file": map[string]interface{}{
					"type":        "string",
					"description": "File path, relative to the project root",
				},
			},
			Required: []string{"path", "file"},
		},
	}
}

// findSymbolTool returns the tool definition for find_symbol
func findSymbolTool() mcp.Tool {
	return mcp.Tool{
		Name:        "find_symbol",
		Description: "Find symbols by name across the indexed project; exact matches rank before substring matches",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"path": map[string]interface{}{
					"type":        "string",
					"description": "Absolute path to the indexed project root",
				},
				"name": map[string]interface{}{
					"type":        "string",
					"description": "Symbol name or name fragment",
				},
				"kinds": map[string]interface{}{
					"type":        "array",
					"description": "Restrict results to these symbol kinds",
					"items": map[string]interface{}{
						"type": "string",
						"enum": symbolKindEnum,
					},
				},
			},
			Required: []string{"path", "name"},
		},
	}
}

// showFileTool returns the tool definition for show_file
func showFileTool() mcp.Tool {
	return mcp.Tool{
		Name:        "show_file",
		Description: "Show the full symbol tree of one indexed file",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"path": map[string]interface{}{
					"type":        "string",
					"description": "Absolute path to the indexed project root",
				},
				"file": map[string]interface{}{
					"type":        "string",
					"description": "File path, relative to the project root",
				},
			},
			Required: []string{"path", "file"},
		},
	}
}

// validateIndexTool returns the tool definition for validate_index
func validateIndexTool() mcp.Tool {
	return mcp.Tool{
		Name:        "validate_index",
		Description: "Check index freshness: report files whose content changed or disappeared since indexing. Read-only.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"path": map[string]interface{}{
					"type":        "string",
					"description": "Absolute path to the indexed project root",
				},
				"file": map[string]interface{}{
					"type":        "string",
					"description": "Limit the check to one file, relative to the project root",
				},
			},
			Required: []string{"path"},
		},
	}
}

// getStatusTool returns the tool definition for get_status
func getStatusTool() mcp.Tool {
	return mcp.Tool{
		Name:        "get_status",
		Description: "Query index statistics for a project",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"path": map[string]interface{}{
					"type":        "string",
					"description": "Absolute path to the project root",
				},
			},
			Required: []string{"path"},
		},
	}
}
