package gitutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChangedPaths(t *testing.T) {
	root := t.TempDir()
	repo, err := git.PlainInit(root, false)
	require.NoError(t, err)
	wt, err := repo.Worktree()
	require.NoError(t, err)

	write := func(rel, content string) {
		require.NoError(t, os.WriteFile(filepath.Join(root, rel), []byte(content), 0o644))
	}

	write("committed.py", "def a():\n    pass\n")
	_, err = wt.Add("committed.py")
	require.NoError(t, err)
	_, err = wt.Commit("initial", &git.CommitOptions{
		Author: &object.Signature{Name: "test", Email: "test@example.com"},
	})
	require.NoError(t, err)

	paths, err := ChangedPaths(root)
	require.NoError(t, err)
	assert.Empty(t, paths)

	write("committed.py", "def a():\n    return 1\n")
	write("untracked.py", "def b():\n    pass\n")

	paths, err = ChangedPaths(root)
	require.NoError(t, err)
	assert.Equal(t, []string{"committed.py", "untracked.py"}, paths)
}

func TestChangedPaths_NotARepo(t *testing.T) {
	_, err := ChangedPaths(t.TempDir())
	assert.Error(t, err)
}
