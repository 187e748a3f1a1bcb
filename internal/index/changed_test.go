package index

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpdateChanged(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.py", "def a():\n    pass\n")
	writeFile(t, root, "b.py", "def b():\n    pass\n")

	repo, err := git.PlainInit(root, false)
	require.NoError(t, err)
	wt, err := repo.Worktree()
	require.NoError(t, err)
	for _, rel := range []string{"a.py", "b.py"} {
		_, err = wt.Add(rel)
		require.NoError(t, err)
	}
	_, err = wt.Commit("initial", &git.CommitOptions{
		Author: &object.Signature{Name: "test", Email: "test@example.com"},
	})
	require.NoError(t, err)

	idx := newTestIndexer(t, root)
	_, err = idx.FullIndex(context.Background())
	require.NoError(t, err)

	// One modified, one new, one irrelevant.
	writeFile(t, root, "a.py", "def a():\n    return 1\n")
	writeFile(t, root, "c.py", "def c():\n    pass\n")
	writeFile(t, root, "notes.txt", "not source\n")

	results, err := idx.UpdateChanged(context.Background())
	require.NoError(t, err)

	outcomes := map[string]UpdateOutcome{}
	for _, r := range results {
		outcomes[r.Path] = r.Outcome
	}
	assert.Equal(t, OutcomeUpdated, outcomes["a.py"])
	assert.Equal(t, OutcomeAdded, outcomes["c.py"])
	_, touched := outcomes["notes.txt"]
	assert.False(t, touched)

	_, err = os.Stat(filepath.Join(root, ".codemap", "index.json"))
	assert.NoError(t, err)
}

func TestUpdateChanged_NotARepo(t *testing.T) {
	idx := newTestIndexer(t, t.TempDir())
	_, err := idx.UpdateChanged(context.Background())
	assert.Error(t, err)
}
