package integration

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/dshills/codemap/internal/config"
	"github.com/dshills/codemap/internal/index"
	"github.com/dshills/codemap/internal/query"
	"github.com/dshills/codemap/internal/store"
	"github.com/dshills/codemap/pkg/types"
)

// IndexingTestSuite exercises the whole pipeline end to end: discover,
// parse, store, flush, reload, query.
type IndexingTestSuite struct {
	suite.Suite
	root    string
	cfg     config.Config
	store   *store.Store
	indexer *index.Indexer
	ctx     context.Context
}

// fixtureTree is a small multi-language project with one broken file, one
// binary file, and one excluded directory.
var fixtureTree = map[string]string{
	"srv/app.py": "class Service:\n" +
		"    def start(self):\n" +
		"        pass\n" +
		"\n" +
		"    def stop(self):\n" +
		"        pass\n",
	"web/main.js": "class App {\n" +
		"  render() {\n" +
		"    return 1;\n" +
		"  }\n" +
		"}\n" +
		"\n" +
		"function helper() {\n" +
		"  return 2;\n" +
		"}\n",
	"web/types.ts": "interface Config {\n" +
		"  name: string;\n" +
		"}\n" +
		"\n" +
		"type Handler = (req: string) => void;\n",
	"pkg/util.go": "package pkg\n" +
		"\n" +
		"func Add(a, b int) int {\n" +
		"\treturn a + b\n" +
		"}\n",
	"broken.py":             "def (:\n",
	"data.py":               "payload = \"\x00\"\n",
	"node_modules/lib/x.js": "function hidden() {}\n",
	"README.md":             "# fixture\n",
}

func (s *IndexingTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.root = s.T().TempDir()
	for rel, content := range fixtureTree {
		path := filepath.Join(s.root, filepath.FromSlash(rel))
		s.Require().NoError(os.MkdirAll(filepath.Dir(path), 0o755))
		s.Require().NoError(os.WriteFile(path, []byte(content), 0o644))
	}
	s.cfg = config.Load(s.root)
	s.store = store.Create(s.cfg.StoreDir(s.root), s.root, store.ConfigSnapshot{
		Languages:       s.cfg.Languages,
		ExcludePatterns: s.cfg.Exclude,
		IncludePatterns: s.cfg.Include,
	})
	s.indexer = index.New(s.root, s.cfg, s.store, &index.Options{Workers: 2})
}

func (s *IndexingTestSuite) TestFullIndexing() {
	stats, err := s.indexer.FullIndex(s.ctx)
	s.Require().NoError(err)

	// srv/app.py, web/main.js, web/types.ts, pkg/util.go
	s.Equal(4, stats.FilesIndexed)
	// broken.py fails to parse, data.py fails to decode
	s.Equal(2, stats.FilesSkipped)
	// Service+start+stop, App+render+helper, Config+Handler, Add
	s.Equal(9, stats.SymbolsExtracted)
	s.Len(stats.Diagnostics, 2)

	stored := s.store.Stats()
	s.Equal(4, stored.TotalFiles)
	s.Equal(9, stored.TotalSymbols)
	s.False(stored.LastFullIndex.IsZero())

	// index lands on disk, sharded by directory
	_, err = os.Stat(filepath.Join(s.root, ".codemap", "index.json"))
	s.Require().NoError(err)
	_, err = os.Stat(filepath.Join(s.root, ".codemap", "shards", "srv.json"))
	s.Require().NoError(err)

	// excluded directory never indexed
	_, err = s.store.GetFileEntry("node_modules/lib/x.js")
	s.ErrorIs(err, store.ErrNotFound)
}

func (s *IndexingTestSuite) TestReindexIsStable() {
	_, err := s.indexer.FullIndex(s.ctx)
	s.Require().NoError(err)

	shardPath := filepath.Join(s.root, ".codemap", "shards", "srv.json")
	before, err := os.ReadFile(shardPath)
	s.Require().NoError(err)

	entryBefore, err := s.store.GetFileEntry("srv/app.py")
	s.Require().NoError(err)

	_, err = s.indexer.FullIndex(s.ctx)
	s.Require().NoError(err)

	after, err := os.ReadFile(shardPath)
	s.Require().NoError(err)
	s.Equal(before, after, "unchanged shard must be byte-identical after reindex")

	entryAfter, err := s.store.GetFileEntry("srv/app.py")
	s.Require().NoError(err)
	s.Equal(entryBefore.IndexedAt, entryAfter.IndexedAt, "unchanged file keeps its timestamp")
}

func (s *IndexingTestSuite) TestEditUpdateQueryFlow() {
	_, err := s.indexer.FullIndex(s.ctx)
	s.Require().NoError(err)

	engine := query.NewEngine(s.store)
	matches := engine.Find("Service", nil)
	s.Require().Len(matches, 1)
	s.Equal("srv/app.py", matches[0].Path)
	s.Equal(types.KindClass, matches[0].Kind)

	// edit adds a method
	edited := fixtureTree["srv/app.py"] +
		"\n" +
		"    def restart(self):\n" +
		"        pass\n"
	path := filepath.Join(s.root, "srv", "app.py")
	s.Require().NoError(os.WriteFile(path, []byte(edited), 0o644))

	report, err := s.indexer.Validate(s.ctx, nil)
	s.Require().NoError(err)
	s.Equal([]string{"srv/app.py"}, report.Stale)

	res, err := s.indexer.UpdateFile(s.ctx, "srv/app.py")
	s.Require().NoError(err)
	s.Equal(index.OutcomeUpdated, res.Outcome)

	matches = engine.Find("restart", []types.SymbolKind{types.KindMethod})
	s.Require().Len(matches, 1)
	s.Equal("Service.restart", matches[0].Qualified)

	report, err = s.indexer.Validate(s.ctx, nil)
	s.Require().NoError(err)
	s.True(report.Clean())
}

func (s *IndexingTestSuite) TestDeletedFileDropsOut() {
	_, err := s.indexer.FullIndex(s.ctx)
	s.Require().NoError(err)

	s.Require().NoError(os.Remove(filepath.Join(s.root, "pkg", "util.go")))

	stats, err := s.indexer.FullIndex(s.ctx)
	s.Require().NoError(err)
	s.Equal(1, stats.FilesRemoved)
	s.Equal(3, s.store.Stats().TotalFiles)

	engine := query.NewEngine(s.store)
	_, err = engine.Show("pkg/util.go")
	s.ErrorIs(err, store.ErrNotFound)

	// emptied directory loses its shard file
	_, err = os.Stat(filepath.Join(s.root, ".codemap", "shards", "pkg.json"))
	s.True(errors.Is(err, os.ErrNotExist))
}

func (s *IndexingTestSuite) TestReloadFromDisk() {
	_, err := s.indexer.FullIndex(s.ctx)
	s.Require().NoError(err)

	reloaded, err := store.Load(s.cfg.StoreDir(s.root))
	s.Require().NoError(err)
	s.Equal(s.store.Stats(), reloaded.Stats())

	engine := query.NewEngine(reloaded)
	view, err := engine.Show("srv/app.py")
	s.Require().NoError(err)
	s.Equal("python", view.Language)
	s.Require().Len(view.Symbols, 1)
	s.Len(view.Symbols[0].Children, 2)
}

func TestIndexingSuite(t *testing.T) {
	suite.Run(t, new(IndexingTestSuite))
}
