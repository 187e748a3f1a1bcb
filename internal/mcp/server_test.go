package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	mcpgo "github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// callRequest builds a tool call the way the stdio transport would deliver it
func callRequest(name string, args map[string]interface{}) mcpgo.CallToolRequest {
	return mcpgo.CallToolRequest{
		Params: mcpgo.CallToolParams{
			Name:      name,
			Arguments: args,
		},
	}
}

// resultJSON decodes the text payload of a tool result
func resultJSON(t *testing.T, result *mcpgo.CallToolResult) map[string]interface{} {
	t.Helper()
	require.NotNil(t, result)
	require.NotEmpty(t, result.Content)
	text, ok := result.Content[0].(mcpgo.TextContent)
	require.True(t, ok, "tool result should carry text content")
	var payload map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(text.Text), &payload))
	return payload
}

// newProjectFixture creates a small project with one indexable Python file
func newProjectFixture(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	src := "class Service:\n    def start(self):\n        pass\n"
	require.NoError(t, os.WriteFile(filepath.Join(root, "app.py"), []byte(src), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "README.md"), []byte("# demo\n"), 0o644))
	return root
}

// indexFixture runs index_project against root and fails the test on error
func indexFixture(t *testing.T, s *Server, root string) {
	t.Helper()
	result, err := s.handleIndexProject(context.Background(), callRequest("index_project", map[string]interface{}{
		"path": root,
	}))
	require.NoError(t, err)
	payload := resultJSON(t, result)
	require.Equal(t, true, payload["indexed"])
}

func TestNewServer(t *testing.T) {
	s := NewServer()
	require.NotNil(t, s)
	assert.NotNil(t, s.mcp)
}

func TestPathValidation(t *testing.T) {
	s := NewServer()
	ctx := context.Background()

	file := filepath.Join(t.TempDir(), "plain.txt")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))

	tests := []struct {
		name string
		args map[string]interface{}
	}{
		{"missing path", map[string]interface{}{}},
		{"empty path", map[string]interface{}{"path": ""}},
		{"relative path", map[string]interface{}{"path": "some/relative/dir"}},
		{"nonexistent path", map[string]interface{}{"path": filepath.Join(t.TempDir(), "gone")}},
		{"path is a file", map[string]interface{}{"path": file}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.handleIndexProject(ctx, callRequest("index_project", tt.args))
			require.Error(t, err)
			var mcpErr *MCPError
			require.True(t, errors.As(err, &mcpErr))
			assert.Equal(t, ErrorCodeInvalidParams, mcpErr.Code)
		})
	}
}

func TestIndexProjectTool(t *testing.T) {
	s := NewServer()
	root := newProjectFixture(t)

	result, err := s.handleIndexProject(context.Background(), callRequest("index_project", map[string]interface{}{
		"path": root,
	}))
	require.NoError(t, err)

	payload := resultJSON(t, result)
	assert.Equal(t, true, payload["indexed"])
	assert.Equal(t, float64(1), payload["files_indexed"])
	assert.Equal(t, float64(2), payload["symbols_extracted"])
	assert.NotContains(t, payload, "diagnostics")

	// index must land on disk
	_, err = os.Stat(filepath.Join(root, ".codemap", "index.json"))
	require.NoError(t, err)
}

func TestIndexProjectReportsDiagnostics(t *testing.T) {
	s := NewServer()
	root := newProjectFixture(t)
	require.NoError(t, os.WriteFile(filepath.Join(root, "broken.py"), []byte("def (:\n"), 0o644))

	result, err := s.handleIndexProject(context.Background(), callRequest("index_project", map[string]interface{}{
		"path": root,
	}))
	require.NoError(t, err)

	payload := resultJSON(t, result)
	assert.Equal(t, float64(1), payload["files_indexed"])
	assert.Equal(t, float64(1), payload["files_skipped"])
	assert.Equal(t, float64(1), payload["diagnostic_count"])
	require.Contains(t, payload, "diagnostics")
}

func TestFindSymbolTool(t *testing.T) {
	s := NewServer()
	root := newProjectFixture(t)
	indexFixture(t, s, root)
	ctx := context.Background()

	t.Run("finds indexed symbol", func(t *testing.T) {
		result, err := s.handleFindSymbol(ctx, callRequest("find_symbol", map[string]interface{}{
			"path": root,
			"name": "Service",
		}))
		require.NoError(t, err)
		payload := resultJSON(t, result)
		assert.Equal(t, float64(1), payload["count"])
		matches := payload["matches"].([]interface{})
		first := matches[0].(map[string]interface{})
		assert.Equal(t, "app.py", first["path"])
		assert.Equal(t, "class", first["kind"])
	})

	t.Run("kind filter", func(t *testing.T) {
		result, err := s.handleFindSymbol(ctx, callRequest("find_symbol", map[string]interface{}{
			"path":  root,
			"name":  "start",
			"kinds": []interface{}{"method"},
		}))
		require.NoError(t, err)
		payload := resultJSON(t, result)
		assert.Equal(t, float64(1), payload["count"])
	})

	t.Run("no matches is not an error", func(t *testing.T) {
		result, err := s.handleFindSymbol(ctx, callRequest("find_symbol", map[string]interface{}{
			"path": root,
			"name": "NoSuchThing",
		}))
		require.NoError(t, err)
		payload := resultJSON(t, result)
		assert.Equal(t, float64(0), payload["count"])
	})

	t.Run("rejects unknown kind", func(t *testing.T) {
		_, err := s.handleFindSymbol(ctx, callRequest("find_symbol", map[string]interface{}{
			"path":  root,
			"name":  "Service",
			"kinds": []interface{}{"widget"},
		}))
		require.Error(t, err)
		var mcpErr *MCPError
		require.True(t, errors.As(err, &mcpErr))
		assert.Equal(t, ErrorCodeInvalidParams, mcpErr.Code)
	})

	t.Run("unindexed project answers not indexed", func(t *testing.T) {
		result, err := s.handleFindSymbol(ctx, callRequest("find_symbol", map[string]interface{}{
			"path": t.TempDir(),
			"name": "Service",
		}))
		require.NoError(t, err)
		payload := resultJSON(t, result)
		assert.Equal(t, false, payload["indexed"])
	})
}

func TestShowFileTool(t *testing.T) {
	s := NewServer()
	root := newProjectFixture(t)
	indexFixture(t, s, root)
	ctx := context.Background()

	t.Run("tracked file", func(t *testing.T) {
		result, err := s.handleShowFile(ctx, callRequest("show_file", map[string]interface{}{
			"path": root,
			"file": "app.py",
		}))
		require.NoError(t, err)
		payload := resultJSON(t, result)
		assert.Equal(t, "app.py", payload["file"])
		assert.Equal(t, "python", payload["language"])
		symbols := payload["symbols"].([]interface{})
		require.Len(t, symbols, 1)
	})

	t.Run("untracked file", func(t *testing.T) {
		result, err := s.handleShowFile(ctx, callRequest("show_file", map[string]interface{}{
			"path": root,
			"file": "README.md",
		}))
		require.NoError(t, err)
		payload := resultJSON(t, result)
		assert.Equal(t, false, payload["indexed"])
		assert.Contains(t, payload["message"], "not tracked")
	})
}

func TestUpdateFileTool(t *testing.T) {
	s := NewServer()
	root := newProjectFixture(t)
	indexFixture(t, s, root)
	ctx := context.Background()

	src := "class Service:\n    def start(self):\n        pass\n\ndef helper():\n    pass\n"
	require.NoError(t, os.WriteFile(filepath.Join(root, "app.py"), []byte(src), 0o644))

	result, err := s.handleUpdateFile(ctx, callRequest("update_file", map[string]interface{}{
		"path": root,
		"file": "app.py",
	}))
	require.NoError(t, err)
	payload := resultJSON(t, result)
	assert.Equal(t, "app.py", payload["path"])
	assert.Equal(t, "updated", payload["outcome"])
}

func TestValidateIndexTool(t *testing.T) {
	s := NewServer()
	root := newProjectFixture(t)
	indexFixture(t, s, root)
	ctx := context.Background()

	t.Run("clean after full index", func(t *testing.T) {
		result, err := s.handleValidateIndex(ctx, callRequest("validate_index", map[string]interface{}{
			"path": root,
		}))
		require.NoError(t, err)
		payload := resultJSON(t, result)
		assert.Equal(t, true, payload["clean"])
	})

	t.Run("reports stale file", func(t *testing.T) {
		require.NoError(t, os.WriteFile(filepath.Join(root, "app.py"), []byte("class Service:\n    pass\n"), 0o644))
		result, err := s.handleValidateIndex(ctx, callRequest("validate_index", map[string]interface{}{
			"path": root,
			"file": "app.py",
		}))
		require.NoError(t, err)
		payload := resultJSON(t, result)
		assert.Equal(t, false, payload["clean"])
		stale := payload["stale"].([]interface{})
		assert.Equal(t, []interface{}{"app.py"}, stale)
	})
}

func TestGetStatusTool(t *testing.T) {
	s := NewServer()
	ctx := context.Background()

	t.Run("indexed project", func(t *testing.T) {
		root := newProjectFixture(t)
		indexFixture(t, s, root)
		result, err := s.handleGetStatus(ctx, callRequest("get_status", map[string]interface{}{
			"path": root,
		}))
		require.NoError(t, err)
		payload := resultJSON(t, result)
		assert.Equal(t, true, payload["indexed"])
		statistics := payload["statistics"].(map[string]interface{})
		assert.Equal(t, float64(1), statistics["files_count"])
		assert.Equal(t, float64(2), statistics["symbols_count"])
	})

	t.Run("unindexed project", func(t *testing.T) {
		result, err := s.handleGetStatus(ctx, callRequest("get_status", map[string]interface{}{
			"path": t.TempDir(),
		}))
		require.NoError(t, err)
		payload := resultJSON(t, result)
		assert.Equal(t, false, payload["indexed"])
		assert.Contains(t, payload["message"], "index_project")
	})
}
