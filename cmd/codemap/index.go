package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/dshills/codemap/internal/index"
	"github.com/dshills/codemap/pkg/types"
)

// newIndexCmd creates the "index" command.
func newIndexCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "index",
		Short: "Build or rebuild the symbol index",
		Long: `Index walks the project root, parses every candidate source file, and
writes the symbol index under .codemap/. Unchanged files are recognized by
fingerprint and not re-parsed. Files that fail to parse are reported and
skipped; they never abort the run.`,
		Args: cobra.NoArgs,
		RunE: runIndex,
	}
}

func runIndex(cmd *cobra.Command, args []string) error {
	proj, err := openProject(true)
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	stats, err := proj.indexer.FullIndex(ctx)
	if err != nil {
		return err
	}

	fmt.Println(okStyle.Render(fmt.Sprintf("Indexed %d files (%d symbols) in %s",
		stats.FilesIndexed, stats.SymbolsExtracted, stats.Duration.Round(time.Millisecond))))
	if stats.FilesRemoved > 0 {
		fmt.Printf("Removed %d stale entries\n", stats.FilesRemoved)
	}
	if stats.FilesSkipped > 0 {
		fmt.Println(warnStyle.Render(fmt.Sprintf("Skipped %d files", stats.FilesSkipped)))
	}
	printDiagnostics(stats.Diagnostics)
	return nil
}

// newUpdateCmd creates the "update" command.
func newUpdateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "update [file...]",
		Short: "Re-index changed files",
		Long: `Update re-indexes the named files, relative to the project root. With no
arguments it asks git for modified and untracked paths and updates those,
which makes it suitable for editor save hooks and post-checkout hooks.`,
		RunE: runUpdate,
	}
}

func runUpdate(cmd *cobra.Command, args []string) error {
	proj, err := openProject(false)
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	var results []index.UpdateResult
	if len(args) == 0 {
		results, err = proj.indexer.UpdateChanged(ctx)
		if err != nil {
			return err
		}
	} else {
		for _, path := range args {
			res, uerr := proj.indexer.UpdateFile(ctx, path)
			if uerr != nil {
				return uerr
			}
			results = append(results, res)
		}
	}

	if len(results) == 0 {
		fmt.Println("Nothing to update")
		return nil
	}
	for _, res := range results {
		fmt.Printf("%s %s\n", outcomeStyle(res.Outcome).Render(fmt.Sprintf("%-9s", res.Outcome)),
			pathStyle.Render(res.Path))
		printDiagnostics(res.Diagnostics)
	}
	return nil
}

// newValidateCmd creates the "validate" command.
func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [file...]",
		Short: "Check the index against the working tree",
		Long: `Validate compares stored fingerprints against file contents without
re-indexing anything. It reports files whose content changed since indexing
and files that disappeared. The index is left untouched.`,
		RunE: runValidate,
	}
}

func runValidate(cmd *cobra.Command, args []string) error {
	proj, err := openProject(false)
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	report, err := proj.indexer.Validate(ctx, args)
	if err != nil {
		return err
	}

	if report.Clean() {
		fmt.Println(okStyle.Render("Index is up to date"))
		return nil
	}
	for _, path := range report.Stale {
		fmt.Printf("%s %s\n", warnStyle.Render("stale  "), pathStyle.Render(path))
	}
	for _, path := range report.Missing {
		fmt.Printf("%s %s\n", errorStyle.Render("missing"), pathStyle.Render(path))
	}
	return nil
}

// printDiagnostics lists per-file diagnostics without affecting exit status.
func printDiagnostics(diags []types.Diagnostic) {
	for _, d := range diags {
		fmt.Println("  " + dimStyle.Render(d.Error()))
	}
}
