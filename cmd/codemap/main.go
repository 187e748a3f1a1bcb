// Command codemap maintains an incremental symbol index for multi-language
// source trees and answers symbol queries against it.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const version = "1.0.0"

func main() {
	rootCmd := &cobra.Command{
		Use:   "codemap",
		Short: "Incremental symbol index for source trees",
		Long: `codemap extracts classes, functions, and methods with line ranges from
Python, JavaScript, TypeScript, and Go sources, and keeps them in a sharded
on-disk index under .codemap/. Queries run against the index, never the
source tree, so they stay fast on large projects.`,
	}

	// Global flags.
	rootCmd.PersistentFlags().StringP("root", "r", ".", "Project root directory")
	rootCmd.PersistentFlags().StringSlice("languages", nil, "Restrict indexing to these languages")
	rootCmd.PersistentFlags().StringSlice("include", nil, "Override include globs")
	rootCmd.PersistentFlags().StringSlice("exclude", nil, "Additional exclude globs")
	rootCmd.PersistentFlags().Int("workers", 0, "Parser worker count (0 = number of CPUs)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")

	// Bind flags to viper.
	viper.BindPFlag("root", rootCmd.PersistentFlags().Lookup("root"))
	viper.BindPFlag("languages", rootCmd.PersistentFlags().Lookup("languages"))
	viper.BindPFlag("include", rootCmd.PersistentFlags().Lookup("include"))
	viper.BindPFlag("exclude", rootCmd.PersistentFlags().Lookup("exclude"))
	viper.BindPFlag("workers", rootCmd.PersistentFlags().Lookup("workers"))
	viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))

	// Env vars: CODEMAP_ROOT, CODEMAP_WORKERS, etc.
	viper.SetEnvPrefix("CODEMAP")
	viper.AutomaticEnv()

	// Add commands.
	rootCmd.AddCommand(newIndexCmd())
	rootCmd.AddCommand(newUpdateCmd())
	rootCmd.AddCommand(newValidateCmd())
	rootCmd.AddCommand(newFindCmd())
	rootCmd.AddCommand(newShowCmd())
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newVersionCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// newVersionCmd creates the "version" command.
func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print codemap version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("codemap %s\n", version)
		},
	}
}
