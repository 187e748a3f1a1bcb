// Package gitutil reports working-tree changes for incremental updates.
package gitutil

import (
	"fmt"
	"sort"

	"github.com/go-git/go-git/v5"
)

// ChangedPaths returns the sorted root-relative paths that differ from HEAD
// in root's working tree: modified, added, untracked, and deleted files all
// qualify. Callers feed each path through a single-file update.
func ChangedPaths(root string) ([]string, error) {
	repo, err := git.PlainOpenWithOptions(root, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("open repository: %w", err)
	}
	wt, err := repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("worktree: %w", err)
	}
	status, err := wt.Status()
	if err != nil {
		return nil, fmt.Errorf("status: %w", err)
	}

	var paths []string
	for rel, st := range status {
		if st.Worktree == git.Unmodified && st.Staging == git.Unmodified {
			continue
		}
		paths = append(paths, rel)
	}
	sort.Strings(paths)
	return paths, nil
}
