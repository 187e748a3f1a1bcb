package main

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dshills/codemap/internal/store"
	"github.com/dshills/codemap/pkg/types"
)

// newFindCmd creates the "find" command.
func newFindCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "find <name>",
		Short: "Find symbols by name",
		Long: `Find matches symbol names across the whole index. Exact matches list
before substring matches; within each tier results order by path, then line.`,
		Args: cobra.ExactArgs(1),
		RunE: runFind,
	}
	cmd.Flags().StringSliceP("kind", "k", nil, "Restrict matches to these symbol kinds")
	return cmd
}

func runFind(cmd *cobra.Command, args []string) error {
	proj, err := openProject(false)
	if err != nil {
		return err
	}

	kindNames, _ := cmd.Flags().GetStringSlice("kind")
	var kinds []types.SymbolKind
	for _, name := range kindNames {
		kind := types.SymbolKind(name)
		if !kind.Valid() {
			return fmt.Errorf("unknown symbol kind %q", name)
		}
		kinds = append(kinds, kind)
	}

	results := proj.engine.Find(args[0], kinds)
	if len(results) == 0 {
		fmt.Println("No symbols found")
		return nil
	}
	for _, res := range results {
		loc := fmt.Sprintf("%s:%d-%d", res.Path, res.Lines[0], res.Lines[1])
		line := fmt.Sprintf("%s %s %s", pathStyle.Render(loc),
			kindStyle.Render(string(res.Kind)), res.Qualified)
		if res.Signature != "" {
			line += "  " + dimStyle.Render(res.Signature)
		}
		fmt.Println(line)
	}
	return nil
}

// newShowCmd creates the "show" command.
func newShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <file>",
		Short: "Show the symbol tree of one indexed file",
		Args:  cobra.ExactArgs(1),
		RunE:  runShow,
	}
}

func runShow(cmd *cobra.Command, args []string) error {
	proj, err := openProject(false)
	if err != nil {
		return err
	}

	view, err := proj.engine.Show(filepath.ToSlash(args[0]))
	if errors.Is(err, store.ErrNotFound) {
		fmt.Printf("%s is not tracked by the index\n", args[0])
		return nil
	}
	if err != nil {
		return err
	}

	fmt.Printf("%s  %s\n", headingStyle.Render(view.Path),
		dimStyle.Render(fmt.Sprintf("%s, %d lines, indexed %s", view.Language, view.Lines, view.IndexedAt)))
	printSymbols(view.Symbols, 1)
	return nil
}

// printSymbols renders a symbol tree with two-space indentation per level.
func printSymbols(symbols []types.Symbol, depth int) {
	indent := strings.Repeat("  ", depth)
	for _, sym := range symbols {
		line := fmt.Sprintf("%s%s %s %s", indent, kindStyle.Render(string(sym.Kind)),
			sym.Name, dimStyle.Render(fmt.Sprintf("[%d-%d]", sym.Lines[0], sym.Lines[1])))
		if sym.Signature != "" {
			line += "  " + dimStyle.Render(sym.Signature)
		}
		fmt.Println(line)
		printSymbols(sym.Children, depth+1)
	}
}
