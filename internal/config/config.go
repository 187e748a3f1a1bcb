package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Filename is the project-local config file read from the indexed root
const Filename = ".codemaprc"

// DefaultOutput is the store directory created under the indexed root
const DefaultOutput = ".codemap"

// DefaultLanguages lists the language tags indexed when no config narrows them
var DefaultLanguages = []string{"python", "javascript", "typescript", "go", "php"}

// DefaultInclude matches the source files of every supported language
var DefaultInclude = []string{
	"**/*.py",
	"**/*.pyi",
	"**/*.js",
	"**/*.jsx",
	"**/*.mjs",
	"**/*.ts",
	"**/*.tsx",
	"**/*.go",
	"**/*.php",
}

// DefaultExclude filters the directory trees that never hold indexable source
var DefaultExclude = []string{
	"**/node_modules/**",
	"**/__pycache__/**",
	"**/venv/**",
	"**/.venv/**",
	"**/dist/**",
	"**/build/**",
	"**/*.min.js",
	"**/migrations/**",
	"**/.git/**",
	"**/.tox/**",
	"**/.eggs/**",
	"**/*.egg-info/**",
	"**/vendor/**",
	"**/testdata/**",
}

// Config holds the project indexing settings
type Config struct {
	Languages          []string `yaml:"languages"`
	Include            []string `yaml:"include"`
	Exclude            []string `yaml:"exclude"`
	MaxDocstringLength int      `yaml:"max_docstring_length"`
	Output             string   `yaml:"output"`
}

// Default returns the configuration used when no .codemaprc is present
func Default() Config {
	return Config{
		Languages:          append([]string(nil), DefaultLanguages...),
		Include:            append([]string(nil), DefaultInclude...),
		Exclude:            append([]string(nil), DefaultExclude...),
		MaxDocstringLength: 150,
		Output:             DefaultOutput,
	}
}

// Load reads .codemaprc from root, falling back to defaults on any problem,
// and merges .gitignore patterns into the excludes. Loading never fails: a
// broken config file behaves like an absent one.
func Load(root string) Config {
	cfg := Default()

	data, err := os.ReadFile(filepath.Join(root, Filename))
	if err == nil {
		var file Config
		if yaml.Unmarshal(data, &file) == nil {
			cfg.apply(file)
		}
	}

	for _, pat := range loadGitignore(root) {
		if !contains(cfg.Exclude, pat) {
			cfg.Exclude = append(cfg.Exclude, pat)
		}
	}
	return cfg
}

// apply overlays non-empty fields from a parsed config file
func (c *Config) apply(file Config) {
	if len(file.Languages) > 0 {
		c.Languages = file.Languages
	}
	if len(file.Include) > 0 {
		c.Include = file.Include
	}
	if len(file.Exclude) > 0 {
		c.Exclude = file.Exclude
	}
	if file.MaxDocstringLength > 0 {
		c.MaxDocstringLength = file.MaxDocstringLength
	}
	if file.Output != "" {
		c.Output = file.Output
	}
}

// Save writes the config back to root as .codemaprc
func Save(cfg Config, root string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(root, Filename), data, 0o644)
}

// StoreDir returns the absolute store directory for a project root
func (c Config) StoreDir(root string) string {
	if filepath.IsAbs(c.Output) {
		return c.Output
	}
	return filepath.Join(root, c.Output)
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
