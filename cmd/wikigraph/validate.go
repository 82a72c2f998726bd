package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/thomas-dorrington/Runescape2Vec/internal/crawler"
	"github.com/thomas-dorrington/Runescape2Vec/internal/model"
	"github.com/thomas-dorrington/Runescape2Vec/internal/pipeline"
)

// NewValidateCmd creates the validate command.
func NewValidateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Cross-check the graph against the categories pages declare",
		Long: `Validate fetches article pages and compares the categories each page
declares with the categories that hold it in the saved graph.

A page disagrees when it declares a category the graph does not file it
under (for instance a skipped or unreachable category), or when the graph
files it under a category the page no longer declares (a stale graph).
Pages are fetched concurrently, batch_size at a time.

The command exits with an error when any page disagrees.

Examples:
  # Check the first 100 pages
  wikigraph validate --limit 100

  # Check every monster page
  wikigraph validate --under Monsters --limit 0`,
		Args: cobra.NoArgs,
		RunE: runValidateCmd,
	}

	cmd.Flags().String("under", "", "Validate only pages below this category")
	cmd.Flags().Int("limit", 100, "Maximum number of pages to validate (0 for all)")
	cmd.Flags().Int("batch", 0, "Number of pages fetched concurrently (overrides batch_size)")
	addRequestFlags(cmd)
	addReportFlags(cmd)

	return cmd
}

// runValidateCmd executes the validate command.
func runValidateCmd(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	flags := cmd.Flags()
	under, _ := flags.GetString("under")
	limit, _ := flags.GetInt("limit")
	if batch, _ := flags.GetInt("batch"); batch > 0 {
		a.cfg.BatchSize = batch
	}

	g, err := a.loadGraph()
	if err != nil {
		return err
	}

	source, err := a.pageSource()
	if err != nil {
		return err
	}
	validator := pipeline.NewValidator(crawler.NewArticleScraper(source),
		pipeline.WithValidatorLogger(a.logger),
		pipeline.WithConcurrency(a.cfg.BatchSize),
	)

	ctx, cancel := a.signalContext(cmd.Context())
	defer cancel()

	p := pipeline.New(pipeline.WithLogger(a.logger))
	p.AddStep(pipeline.NewValidateStep(validator, under, limit))

	session := model.NewSession(g)
	session.GraphPath = a.cfg.GraphPath
	runErr := p.Execute(ctx, session)

	if err := a.writeSession(cmd, session); err != nil {
		return err
	}
	if runErr != nil {
		return runErr
	}

	if bad := session.InconsistentPages(); len(bad) > 0 {
		return fmt.Errorf("%d of %d page(s) disagree with the graph", len(bad), len(session.Validations))
	}
	return nil
}
