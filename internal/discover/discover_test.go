package discover

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/codemap/internal/config"
	"github.com/dshills/codemap/internal/lang"
)

func writeFiles(t *testing.T, root string, paths ...string) {
	t.Helper()
	for _, p := range paths {
		full := filepath.Join(root, filepath.FromSlash(p))
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
		require.NoError(t, os.WriteFile(full, []byte("pass\n"), 0o644))
	}
}

func TestWalk_FiltersAndSorts(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root,
		"src/app.py",
		"src/util.ts",
		"main.go",
		"README.md",
		"node_modules/pkg/index.js",
		"__pycache__/app.cpython-311.pyc",
		".hidden/secret.py",
		"vendor/lib/lib.go",
	)

	pred := NewPredicate(config.Default(), lang.Default())
	paths, err := Walk(root, pred)
	require.NoError(t, err)
	assert.Equal(t, []string{"main.go", "src/app.py", "src/util.ts"}, paths)
}

func TestWalk_LanguageNarrowing(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, "a.py", "b.js", "c.go")

	cfg := config.Default()
	cfg.Languages = []string{"python"}
	pred := NewPredicate(cfg, lang.Default())

	paths, err := Walk(root, pred)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.py"}, paths)
}

func TestWalk_MissingRoot(t *testing.T) {
	pred := NewPredicate(config.Default(), lang.Default())
	_, err := Walk(filepath.Join(t.TempDir(), "nope"), pred)
	assert.Error(t, err)
}

func TestPredicate_Match(t *testing.T) {
	cfg := config.Default()
	cfg.Exclude = append(cfg.Exclude, "**/generated/**")
	pred := NewPredicate(cfg, lang.Default())

	assert.True(t, pred.Match("pkg/handler.go"))
	assert.True(t, pred.Match("deep/nested/tree/mod.py"))
	assert.False(t, pred.Match("notes.txt"))
	assert.False(t, pred.Match("generated/api.py"))
	assert.False(t, pred.Match("web/app.min.js"))
}

func TestPredicate_SkipDir(t *testing.T) {
	pred := NewPredicate(config.Default(), lang.Default())

	assert.True(t, pred.SkipDir(".git"))
	assert.True(t, pred.SkipDir("node_modules"))
	assert.True(t, pred.SkipDir("src/node_modules"))
	assert.False(t, pred.SkipDir("src"))
}
