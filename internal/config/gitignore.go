package config

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"
)

// hiddenFiles are dotfiles that a bare gitignore line names as files, not
// directory trees
var hiddenFiles = map[string]bool{
	".env": true, ".gitignore": true, ".gitattributes": true,
	".editorconfig": true, ".prettierrc": true, ".eslintrc": true,
	".npmrc": true, ".nvmrc": true, ".dockerignore": true,
	".python-version": true, ".ruby-version": true, ".node-version": true,
}

// hiddenDirs are dot-directories commonly ignored as whole trees
var hiddenDirs = map[string]bool{
	".venv": true, ".git": true, ".svn": true, ".hg": true, ".tox": true,
	".nox": true, ".mypy_cache": true, ".pytest_cache": true, ".eggs": true,
	".cache": true, ".npm": true, ".yarn": true,
}

// loadGitignore reads root's .gitignore and converts each line into an
// exclude glob. Comments, blanks, and negations are skipped.
func loadGitignore(root string) []string {
	f, err := os.Open(filepath.Join(root, ".gitignore"))
	if err != nil {
		return nil
	}
	defer f.Close()

	var patterns []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "!") {
			continue
		}
		if pat := gitignoreToGlob(line); pat != "" {
			patterns = append(patterns, pat)
		}
	}
	return patterns
}

// gitignoreToGlob rewrites one gitignore pattern as a doublestar glob
// relative to the project root
func gitignoreToGlob(pattern string) string {
	pattern = strings.TrimRight(pattern, " ")

	isDir := strings.HasSuffix(pattern, "/")
	pattern = strings.TrimSuffix(pattern, "/")
	pattern = strings.TrimPrefix(pattern, "/")
	if pattern == "" {
		return ""
	}

	// Bare names match anywhere in the tree.
	if !strings.Contains(pattern, "/") {
		if hiddenFiles[pattern] {
			return "**/" + pattern
		}
		hasExtension := strings.Contains(pattern, ".") && !strings.HasPrefix(pattern, ".")
		hasWildcard := strings.Contains(pattern, "*")
		if !isDir && (hasWildcard || hasExtension) {
			return "**/" + pattern
		}
		return "**/" + pattern + "/**"
	}

	if !strings.HasPrefix(pattern, "**/") {
		pattern = "**/" + pattern
	}
	if isDir || looksLikeDirectory(pattern) {
		if !strings.HasSuffix(pattern, "/**") {
			pattern += "/**"
		}
	}
	return pattern
}

// looksLikeDirectory guesses whether a path pattern names a directory tree
func looksLikeDirectory(pattern string) bool {
	parts := strings.Split(strings.TrimSuffix(pattern, "/"), "/")
	last := parts[len(parts)-1]

	if strings.Contains(last, "*") {
		return false
	}
	if hiddenFiles[last] {
		return false
	}
	if hiddenDirs[last] {
		return true
	}
	if strings.HasPrefix(last, ".") && strings.Count(last, ".") == 1 {
		return true
	}
	return !strings.Contains(last, ".")
}
