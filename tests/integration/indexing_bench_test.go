package integration

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/dshills/codemap/internal/config"
	"github.com/dshills/codemap/internal/index"
	"github.com/dshills/codemap/internal/query"
	"github.com/dshills/codemap/internal/store"
)

// benchTree writes n generated Python modules under root
func benchTree(b *testing.B, root string, n int) {
	b.Helper()
	for i := 0; i < n; i++ {
		src := fmt.Sprintf("class Widget%d:\n    def render(self):\n        pass\n\ndef make_%d():\n    pass\n", i, i)
		path := filepath.Join(root, fmt.Sprintf("mod_%03d.py", i))
		if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkFullIndex measures a cold index of 100 files
func BenchmarkFullIndex(b *testing.B) {
	root := b.TempDir()
	benchTree(b, root, 100)
	cfg := config.Load(root)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		dir := filepath.Join(b.TempDir(), "store")
		st := store.Create(dir, root, store.ConfigSnapshot{
			Languages:       cfg.Languages,
			ExcludePatterns: cfg.Exclude,
			IncludePatterns: cfg.Include,
		})
		idx := index.New(root, cfg, st, nil)
		if _, err := idx.FullIndex(context.Background()); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkReindexUnchanged measures the fingerprint-only warm path
func BenchmarkReindexUnchanged(b *testing.B) {
	root := b.TempDir()
	benchTree(b, root, 100)
	cfg := config.Load(root)
	st := store.Create(cfg.StoreDir(root), root, store.ConfigSnapshot{
		Languages:       cfg.Languages,
		ExcludePatterns: cfg.Exclude,
		IncludePatterns: cfg.Include,
	})
	idx := index.New(root, cfg, st, nil)
	if _, err := idx.FullIndex(context.Background()); err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := idx.FullIndex(context.Background()); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkFindSymbol measures query latency with a warm cache miss per name
func BenchmarkFindSymbol(b *testing.B) {
	root := b.TempDir()
	benchTree(b, root, 100)
	cfg := config.Load(root)
	st := store.Create(cfg.StoreDir(root), root, store.ConfigSnapshot{
		Languages:       cfg.Languages,
		ExcludePatterns: cfg.Exclude,
		IncludePatterns: cfg.Include,
	})
	idx := index.New(root, cfg, st, nil)
	if _, err := idx.FullIndex(context.Background()); err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		engine := query.NewEngine(st)
		if got := engine.Find("Widget50", nil); len(got) != 1 {
			b.Fatalf("expected 1 match, got %d", len(got))
		}
	}
}
