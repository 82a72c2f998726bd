package main

import (
	"github.com/spf13/cobra"

	"github.com/thomas-dorrington/Runescape2Vec/internal/audit"
	"github.com/thomas-dorrington/Runescape2Vec/internal/model"
	"github.com/thomas-dorrington/Runescape2Vec/internal/pipeline"
)

// NewCyclesCmd creates the cycles command.
func NewCyclesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cycles",
		Short: "List the cycles of the saved graph",
		Long: `Cycles loads the saved graph and lists its simple cycles.

Use --cut to see which cycles would remain after removing edges, without
changing the graph file. Edges found this way belong under remove_edges
in the configuration file.

Examples:
  # List up to 20 cycles
  wikigraph cycles

  # List every cycle
  wikigraph cycles --limit 0

  # Check that removing an edge breaks a cycle
  wikigraph cycles --cut Music:Music_tracks`,
		Args: cobra.NoArgs,
		RunE: runCyclesCmd,
	}

	cmd.Flags().Int("limit", defaultCycleLimit, "Number of cycles to list (0 for all)")
	cmd.Flags().StringArray("cut", nil, "Edge to remove before checking, as from:to (repeatable, not saved)")
	addReportFlags(cmd)

	return cmd
}

// runCyclesCmd executes the cycles command.
func runCyclesCmd(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	limit, err := cmd.Flags().GetInt("limit")
	if err != nil {
		return err
	}
	specs, err := cmd.Flags().GetStringArray("cut")
	if err != nil {
		return err
	}
	cuts, err := audit.ParseEdges(specs)
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
		pipeline.NewPruneStep(auditor, cuts),
		pipeline.NewAuditStep(auditor, limit),
	)

	session := model.NewSession(g)
	session.GraphPath = a.cfg.GraphPath
	if err := p.Execute(cmd.Context(), session); err != nil {
		return err
	}
	return a.writeSession(cmd, session)
}
