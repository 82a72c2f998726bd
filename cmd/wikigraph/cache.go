package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

// NewCacheCmd creates the cache command.
func NewCacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Show or prune the local page cache",
		Long: `Cache prints how many fetched pages the local database holds and how old
they are. --prune deletes pages fetched longer ago than the given age.

Pages younger than cache_max_age are served from the database instead of
the wiki, so repeated and resumed crawls do not refetch them.

Examples:
  wikigraph cache
  wikigraph cache --prune 168h`,
		Args: cobra.NoArgs,
		RunE: runCacheCmd,
	}

	cmd.Flags().Duration("prune", 0, "Delete pages fetched longer ago than this")

	return cmd
}

// runCacheCmd executes the cache command.
func runCacheCmd(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	prune, err := cmd.Flags().GetDuration("prune")
	if err != nil {
		return err
	}

	db, err := a.openDB()
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	if prune > 0 {
		n, err := db.PruneFetches(ctx, time.Now().Add(-prune))
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Deleted %d page(s) fetched more than %s ago\n", n, prune)
	}

	stats, err := db.FetchStats(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Database: %s\n", db.Path())
	fmt.Fprintf(out, "Pages:    %d\n", stats.Pages)
	fmt.Fprintf(out, "Size:     %d bytes\n", stats.Bytes)
	if stats.Pages > 0 {
		fmt.Fprintf(out, "Oldest:   %s\n", stats.Oldest.Format(time.RFC3339))
		fmt.Fprintf(out, "Newest:   %s\n", stats.Newest.Format(time.RFC3339))
	}
	return nil
}
