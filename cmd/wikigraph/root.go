package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for wikigraph.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wikigraph",
		Short: "Category graph crawler for MediaWiki sites",
		Long: `wikigraph crawls the category hierarchy of a MediaWiki site into a
directed graph. Each category becomes a node holding the articles filed
directly under it; each subcategory link becomes an edge.

The graph is saved as JSON and can be resumed after an interruption,
extended with categories outside the main hierarchy, audited for cycles
and queried for the articles under any category.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	cmd.PersistentFlags().StringP("config", "c", "",
		"Configuration file (default: ./.wikigraph, ~/.wikigraph)")
	cmd.PersistentFlags().StringP("graph", "g", "",
		"Graph file to load and save (overrides graph_path)")
	cmd.PersistentFlags().String("log-format", "text", "Log format: text or json")
	cmd.PersistentFlags().String("db-dir", "",
		"Directory of the fetch cache and snapshot database (default: XDG data dir)")

	// Add subcommands
	cmd.AddCommand(NewCrawlCmd())
	cmd.AddCommand(NewExtendCmd())
	cmd.AddCommand(NewCyclesCmd())
	cmd.AddCommand(NewPruneCmd())
	cmd.AddCommand(NewPagesCmd())
	cmd.AddCommand(NewValidateCmd())
	cmd.AddCommand(NewScrapeCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewCacheCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
