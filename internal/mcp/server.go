package mcp

import (
	"context"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/server"

	"github.com/dshills/codemap/internal/config"
	"github.com/dshills/codemap/internal/index"
	"github.com/dshills/codemap/internal/query"
	"github.com/dshills/codemap/internal/store"
)

const (
	// ServerName is the MCP server name
	ServerName = "codemap"
	// ServerVersion is the current server version
	ServerVersion = "1.0.0"
)

// Server wraps the MCP server. Stores open lazily per project root, so one
// server instance can answer for any number of indexed projects.
type Server struct {
	mcp *server.MCPServer
}

// NewServer creates a new MCP server instance
func NewServer() *Server {
	s := &Server{
		mcp: server.NewMCPServer(ServerName, ServerVersion),
	}
	s.registerTools()
	return s
}

// Serve starts the MCP server on stdio and blocks until shutdown
func (s *Server) Serve(ctx context.Context) error {
	return server.ServeStdio(s.mcp)
}

// registerTools registers all MCP tools
func (s *Server) registerTools() {
	s.mcp.AddTool(indexProjectTool(), s.handleIndexProject)
	s.mcp.AddTool(updateFileTool(), s.handleUpdateFile)
	s.mcp.AddTool(findSymbolTool(), s.handleFindSymbol)
	s.mcp.AddTool(showFileTool(), s.handleShowFile)
	s.mcp.AddTool(validateIndexTool(), s.handleValidateIndex)
	s.mcp.AddTool(getStatusTool(), s.handleGetStatus)
}

// project bundles the per-root collaborators one tool call needs
type project struct {
	cfg     config.Config
	store   *store.Store
	indexer *index.Indexer
	engine  *query.Engine
}

// openProject loads the existing index under root. ErrNotIndexed passes
// through so handlers can answer "not indexed" instead of failing.
func openProject(root string) (*project, error) {
	cfg := config.Load(root)
	st, err := store.Load(cfg.StoreDir(root))
	if err != nil {
		return nil, err
	}
	return &project{
		cfg:     cfg,
		store:   st,
		indexer: index.New(root, cfg, st, nil),
		engine:  query.NewEngine(st),
	}, nil
}

// openOrCreateProject loads the index under root, creating an empty store
// when none exists yet
func openOrCreateProject(root string) (*project, error) {
	p, err := openProject(root)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, store.ErrNotIndexed) {
		return nil, err
	}
	cfg := config.Load(root)
	st := store.Create(cfg.StoreDir(root), root, store.ConfigSnapshot{
		Languages:       cfg.Languages,
		ExcludePatterns: cfg.Exclude,
		IncludePatterns: cfg.Include,
	})
	return &project{
		cfg:     cfg,
		store:   st,
		indexer: index.New(root, cfg, st, nil),
		engine:  query.NewEngine(st),
	}, nil
}

// notIndexedResponse is the shared answer for read tools on an unindexed root
func notIndexedResponse(root string) map[string]interface{} {
	return map[string]interface{}{
		"indexed": false,
		"path":    root,
		"message": fmt.Sprintf("Project not indexed. Use the index_project tool on %s first.", root),
	}
}
