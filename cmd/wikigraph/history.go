package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/thomas-dorrington/Runescape2Vec/internal/report"
)

// NewHistoryCmd creates the history command.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List or export stored graph snapshots",
		Long: `History lists the graph snapshots stored in the local database, newest
first. A snapshot is stored after every completed crawl.

--export writes the graph of one snapshot to a file (or stdout), in the
same format as the graph file, so that an earlier crawl can be restored
or compared.

Examples:
  # Snapshots of the configured root node
  wikigraph history

  # Snapshots of every root node
  wikigraph history --all

  # Restore snapshot 3
  wikigraph history --export 3 --to data/category_graph.json`,
		Args: cobra.NoArgs,
		RunE: runHistoryCmd,
	}

	cmd.Flags().Bool("all", false, "List snapshots of every root node")
	cmd.Flags().Int64("export", 0, "Export the graph of this snapshot")
	cmd.Flags().String("to", "", "File the exported graph is written to (default: stdout)")
	addReportFlags(cmd)

	return cmd
}

// runHistoryCmd executes the history command.
func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	flags := cmd.Flags()
	all, _ := flags.GetBool("all")
	exportID, _ := flags.GetInt64("export")
	to, _ := flags.GetString("to")

	db, err := a.openDB()
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	if exportID != 0 {
		g, err := db.LoadSnapshotGraph(ctx, exportID)
		if err != nil {
			return err
		}
		if to == "" {
			return g.Save(cmd.OutOrStdout())
		}
		if err := g.SaveFile(to); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Exported snapshot %d to %s\n", exportID, to)
		return nil
	}

	root := a.cfg.RootNode
	if all {
		root = ""
	}
	snapshots, err := db.ListSnapshots(ctx, root)
	if err != nil {
		return err
	}

	return a.outputReport(cmd, func(w report.Writer) error {
		_, err := w.WriteHistory(snapshots)
		return err
	})
}
