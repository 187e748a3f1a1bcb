package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/dshills/codemap/internal/config"
	"github.com/dshills/codemap/internal/index"
	"github.com/dshills/codemap/internal/query"
	"github.com/dshills/codemap/internal/store"
)

// project bundles everything one command invocation needs.
type project struct {
	root    string
	cfg     config.Config
	store   *store.Store
	indexer *index.Indexer
	engine  *query.Engine
}

// resolveRoot turns the --root flag (or CODEMAP_ROOT) into an absolute path.
func resolveRoot() (string, error) {
	root := viper.GetString("root")
	if root == "" {
		root = "."
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return "", fmt.Errorf("resolve root: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", fmt.Errorf("project root: %w", err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("project root %s is not a directory", abs)
	}
	return abs, nil
}

// loadConfig reads .codemaprc from root and applies flag overrides on top.
func loadConfig(root string) config.Config {
	cfg := config.Load(root)
	if langs := viper.GetStringSlice("languages"); len(langs) > 0 {
		cfg.Languages = langs
	}
	if include := viper.GetStringSlice("include"); len(include) > 0 {
		cfg.Include = include
	}
	if exclude := viper.GetStringSlice("exclude"); len(exclude) > 0 {
		cfg.Exclude = append(cfg.Exclude, exclude...)
	}
	return cfg
}

// newLogger logs to stderr; stdout carries command output.
func newLogger() *slog.Logger {
	level := slog.LevelWarn
	if viper.GetBool("verbose") {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// openProject loads the index for the configured root. With create set, a
// missing index starts empty instead of failing.
func openProject(create bool) (*project, error) {
	root, err := resolveRoot()
	if err != nil {
		return nil, err
	}
	cfg := loadConfig(root)

	st, err := store.Load(cfg.StoreDir(root))
	if errors.Is(err, store.ErrNotIndexed) {
		if !create {
			return nil, fmt.Errorf("%s is not indexed; run 'codemap index' first", root)
		}
		st = store.Create(cfg.StoreDir(root), root, store.ConfigSnapshot{
			Languages:       cfg.Languages,
			ExcludePatterns: cfg.Exclude,
			IncludePatterns: cfg.Include,
		})
		err = nil
	}
	if err != nil {
		return nil, err
	}

	opts := &index.Options{
		Workers: viper.GetInt("workers"),
		Logger:  newLogger(),
	}
	return &project{
		root:    root,
		cfg:     cfg,
		store:   st,
		indexer: index.New(root, cfg, st, opts),
		engine:  query.NewEngine(st),
	}, nil
}
