package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/thomas-dorrington/Runescape2Vec/internal/audit"
	"github.com/thomas-dorrington/Runescape2Vec/internal/model"
	"github.com/thomas-dorrington/Runescape2Vec/internal/pipeline"
)

// errNoEdges is returned by prune when there is nothing to remove.
var errNoEdges = errors.New("no edges to remove (list them under remove_edges or pass --edge from:to)")

// NewPruneCmd creates the prune command.
func NewPruneCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Remove edges from the saved graph",
		Long: `Prune removes edges from the saved graph, reports which of them were not
found and how many cycles remain, and saves the graph.

The edges are those listed under remove_edges in the configuration file
followed by any --edge flags, removed in that order. Removing an edge never
removes a node, so pages of the child category remain in the graph.

Examples:
  # Apply remove_edges from the configuration file
  wikigraph prune

  # Remove one more edge
  wikigraph prune --edge Music:Music_tracks

  # Show the effect without saving
  wikigraph prune --edge Music:Music_tracks --dry-run`,
		Args: cobra.NoArgs,
		RunE: runPruneCmd,
	}

	cmd.Flags().StringArray("edge", nil, "Edge to remove, as from:to (repeatable)")
	cmd.Flags().Int("cycles", defaultCycleLimit, "Number of remaining cycles to list (0 for all)")
	cmd.Flags().Bool("dry-run", false, "Report the result without saving the graph")
	addReportFlags(cmd)

	return cmd
}

// runPruneCmd executes the prune command.
func runPruneCmd(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	if len(a.cfg.RemoveEdges) == 0 {
		return errNoEdges
	}

	limit, err := cmd.Flags().GetInt("cycles")
	if err != nil {
		return err
	}
	dryRun, err := cmd.Flags().GetBool("dry-run")
	if err != nil {
		return err
	}

	g, err := a.loadGraph()
	if err != nil {
		return err
	}

	auditor := audit.New(audit.WithLogger(a.logger))
	p := pipeline.New(pipeline.WithLogger(a.logger))
	p.AddSteps(
		pipeline.NewPruneStep(auditor, a.cfg.RemoveEdges),
		pipeline.NewAuditStep(auditor, limit),
	)
	if !dryRun {
		p.AddStep(pipeline.NewSaveStep(a.cfg.GraphPath))
	}

	session := model.NewSession(g)
	if err := p.Execute(cmd.Context(), session); err != nil {
		return err
	}
	return a.writeSession(cmd, session)
}
