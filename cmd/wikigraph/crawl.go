package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/thomas-dorrington/Runescape2Vec/internal/audit"
	"github.com/thomas-dorrington/Runescape2Vec/internal/crawler"
	"github.com/thomas-dorrington/Runescape2Vec/internal/graph"
	"github.com/thomas-dorrington/Runescape2Vec/internal/model"
	"github.com/thomas-dorrington/Runescape2Vec/internal/pipeline"
)

// defaultCycleLimit is the number of cycles listed in reports.
const defaultCycleLimit = 20

// NewCrawlCmd creates the crawl command.
func NewCrawlCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "crawl",
		Short: "Crawl the category hierarchy into a graph",
		Long: `Crawl walks the category hierarchy of the wiki depth-first, starting at the
root category, and saves the resulting graph.

After the crawl, the edges listed under remove_edges in the configuration
file (and any --edge flags) are removed, the graph is checked for cycles,
saved to the graph file and stored as a snapshot in the local database.

If the crawl is interrupted (Ctrl+C), the partial graph is saved. Running
the crawl again with --resume expands the categories left pending and then
completes the crawl without fetching known categories again.

Examples:
  # Crawl the Old School RuneScape wiki
  wikigraph crawl

  # Resume an interrupted crawl
  wikigraph crawl --resume

  # Crawl another MediaWiki site, skipping image categories
  wikigraph crawl --skip '*_images' -g data/other.json

  # Write a Markdown report
  wikigraph crawl --markdown -o report.md`,
		Args: cobra.NoArgs,
		RunE: runCrawlCmd,
	}

	cmd.Flags().Bool("resume", false, "Continue an interrupted crawl saved in the graph file")
	cmd.Flags().StringArray("edge", nil, "Edge to remove after crawling, as from:to (repeatable)")
	cmd.Flags().StringArray("skip", nil, "Glob pattern of category names not to crawl (repeatable)")
	cmd.Flags().Int("cycles", defaultCycleLimit, "Number of cycles to list in the report (0 for all)")
	cmd.Flags().Bool("no-snapshot", false, "Do not store a snapshot of the graph in the database")
	addRequestFlags(cmd)
	addReportFlags(cmd)

	return cmd
}

// runCrawlCmd executes the crawl command.
func runCrawlCmd(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	resume, err := cmd.Flags().GetBool("resume")
	if err != nil {
		return err
	}

	g := a.newGraph()
	if resume {
		if g, err = a.loadGraph(); err != nil {
			return err
		}
	}

	return a.runCrawl(cmd, g, a.cfg.StartURL(), pipeline.WithResume(resume))
}

// NewExtendCmd creates the extend command.
func NewExtendCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "extend <parent> <category-url>...",
		Short: "Crawl categories outside the hierarchy into the graph",
		Long: `Extend crawls categories that are not reachable from the root category and
links them below an existing node of the saved graph. The parent may be
the root node.

Categories already in the graph are linked without being fetched again.

Examples:
  # Add the Leagues categories below the root node
  wikigraph extend Old_School_RuneScape_Wiki \
    https://oldschool.runescape.wiki/w/Category:Leagues

  # Resume an interrupted extension
  wikigraph extend --resume Old_School_RuneScape_Wiki \
    https://oldschool.runescape.wiki/w/Category:Leagues`,
		Args: cobra.MinimumNArgs(2),
		RunE: runExtendCmd,
	}

	cmd.Flags().Bool("resume", false, "Expand categories left pending by an interrupted run first")
	cmd.Flags().StringArray("edge", nil, "Edge to remove after crawling, as from:to (repeatable)")
	cmd.Flags().StringArray("skip", nil, "Glob pattern of category names not to crawl (repeatable)")
	cmd.Flags().Int("cycles", defaultCycleLimit, "Number of cycles to list in the report (0 for all)")
	cmd.Flags().Bool("no-snapshot", false, "Do not store a snapshot of the graph in the database")
	addRequestFlags(cmd)
	addReportFlags(cmd)

	return cmd
}

// runExtendCmd executes the extend command.
func runExtendCmd(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	resume, err := cmd.Flags().GetBool("resume")
	if err != nil {
		return err
	}

	g, err := a.loadGraph()
	if err != nil {
		return err
	}

	parent := args[0]
	if !g.HasNode(parent) {
		return fmt.Errorf("%w: %s", graph.ErrUnknownNode, parent)
	}

	return a.runCrawl(cmd, g, "",
		pipeline.WithResume(resume),
		pipeline.WithExtend(parent, args[1:]...),
	)
}

// runCrawl crawls into g and then prunes, audits, saves and snapshots it.
func (a *app) runCrawl(cmd *cobra.Command, g *graph.Graph, rootURL string, opts ...pipeline.CrawlStepOption) error {
	limit, err := cmd.Flags().GetInt("cycles")
	if err != nil {
		return err
	}
	noSnapshot, err := cmd.Flags().GetBool("no-snapshot")
	if err != nil {
		return err
	}

	c, err := a.newCrawler()
	if err != nil {
		return err
	}

	ctx, cancel := a.signalContext(cmd.Context())
	defer cancel()

	a.logger.Info("starting crawl",
		"root", g.RootNode(),
		"url", rootURL,
		"graph", a.cfg.GraphPath,
	)

	auditor := audit.New(audit.WithLogger(a.logger))
	p := pipeline.New(pipeline.WithLogger(a.logger))
	p.AddSteps(
		pipeline.NewCrawlStep(c, rootURL, append(opts, pipeline.WithCrawlLogger(a.logger))...),
		pipeline.NewPruneStep(auditor, a.cfg.RemoveEdges),
		pipeline.NewAuditStep(auditor, limit),
		pipeline.NewSaveStep(a.cfg.GraphPath),
	)
	if !noSnapshot {
		db, err := a.openDB()
		if err != nil {
			return err
		}
		p.AddStep(pipeline.NewSnapshotStep(db))
	}

	session := model.NewSession(g)
	session.GraphPath = a.cfg.GraphPath

	return a.runPipeline(ctx, cmd, p, session)
}

// runPipeline executes p and writes the session report. An interrupted run
// still saves the graph, so that it can be resumed.
func (a *app) runPipeline(ctx context.Context, cmd *cobra.Command, p *pipeline.Pipeline, session *model.Session) error {
	err := p.Execute(ctx, session)

	if session.Interrupted && session.Graph != nil {
		// The run context is cancelled, so saving uses a fresh one.
		if saveErr := pipeline.NewSaveStep(a.cfg.GraphPath).Do(context.Background(), session); saveErr != nil {
			err = errors.Join(err, saveErr)
		} else {
			a.logger.Warn("saved partial graph",
				"path", a.cfg.GraphPath,
				"pending", len(crawler.Pending(session.Graph)),
			)
		}
	}

	if reportErr := a.writeSession(cmd, session); reportErr != nil {
		return errors.Join(err, reportErr)
	}

	if session.Interrupted {
		return fmt.Errorf("crawl interrupted with %d categories pending (run again with --resume to continue): %w",
			len(crawler.Pending(session.Graph)), err)
	}
	return err
}
