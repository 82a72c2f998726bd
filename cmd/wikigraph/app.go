package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/thomas-dorrington/Runescape2Vec/internal/audit"
	"github.com/thomas-dorrington/Runescape2Vec/internal/category"
	"github.com/thomas-dorrington/Runescape2Vec/internal/config"
	"github.com/thomas-dorrington/Runescape2Vec/internal/crawler"
	"github.com/thomas-dorrington/Runescape2Vec/internal/database"
	"github.com/thomas-dorrington/Runescape2Vec/internal/graph"
	wlog "github.com/thomas-dorrington/Runescape2Vec/internal/log"
	"github.com/thomas-dorrington/Runescape2Vec/internal/model"
	"github.com/thomas-dorrington/Runescape2Vec/internal/report"
)

// app holds what the commands build from the configuration. The HTTP
// source and the database are created on first use, so commands that
// only read the graph file never touch the network or the database.
type app struct {
	cfg      *config.Config
	logger   *slog.Logger
	resolver *category.Resolver

	db     *database.CrawlDB
	cache  *database.FetchCache
	source crawler.PageSource
}

// newApp builds the configuration from the config file and the flags of
// cmd, validates it and sets up logging.
func newApp(cmd *cobra.Command) (*app, error) {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration error: %w", err)
	}

	logger, err := wlog.New(cmd.ErrOrStderr(), cfg.LogFormat, cfg.Verbose)
	if err != nil {
		return nil, fmt.Errorf("configuration error: %w", err)
	}
	slog.SetDefault(logger)

	resolver, err := category.NewResolver(cfg.Homepage)
	if err != nil {
		return nil, fmt.Errorf("configuration error: %w", err)
	}

	if cfg.ConfigFilePath != "" {
		logger.Debug("loaded configuration file", "path", cfg.ConfigFilePath)
	}

	return &app{
		cfg:      cfg,
		logger:   logger,
		resolver: resolver,
	}, nil
}

// buildConfig loads the configuration file and applies the flags of cmd.
// Flags a command does not define are ignored.
func buildConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(getStringFlag(cmd, "config"))
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	cfg.Verbose = getVerboseFlag(cmd)
	if v := getStringFlag(cmd, "graph"); v != "" {
		cfg.GraphPath = v
	}
	if v := getStringFlag(cmd, "db-dir"); v != "" {
		cfg.DBDir = v
	}
	if v := getStringFlag(cmd, "log-format"); v != "" {
		cfg.LogFormat = v
	}

	flags := cmd.Flags()
	if flags.Changed("proxy") {
		cfg.ProxyAddress, _ = flags.GetString("proxy")
	}
	if flags.Changed("timeout") {
		cfg.Timeout, _ = flags.GetDuration("timeout")
	}
	if noCache, _ := flags.GetBool("no-cache"); noCache {
		cfg.UseCache = false
	}
	cfg.JSONReport, _ = flags.GetBool("json")
	cfg.MarkdownReport, _ = flags.GetBool("markdown")
	cfg.ReportFile, _ = flags.GetString("output")

	if specs, _ := flags.GetStringArray("edge"); len(specs) > 0 {
		edges, err := audit.ParseEdges(specs)
		if err != nil {
			return nil, err
		}
		cfg.RemoveEdges = append(cfg.RemoveEdges, edges...)
	}
	if skip, _ := flags.GetStringArray("skip"); len(skip) > 0 {
		cfg.SkipCategories = append(cfg.SkipCategories, skip...)
	}

	return cfg, nil
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// getStringFlag retrieves a string flag from the command or its parent.
func getStringFlag(cmd *cobra.Command, name string) string {
	v, err := cmd.Flags().GetString(name)
	if err != nil {
		v, err = cmd.Root().PersistentFlags().GetString(name)
		if err != nil {
			return ""
		}
	}
	return v
}

// addReportFlags adds the report format flags shared by commands that
// write a report.
func addReportFlags(cmd *cobra.Command) {
	cmd.Flags().Bool("json", false, "Output report in JSON format")
	cmd.Flags().Bool("markdown", false, "Output report in Markdown format")
	cmd.Flags().StringP("output", "o", "", "Write report to file instead of stdout")
}

// addRequestFlags adds the flags shaping outgoing requests.
func addRequestFlags(cmd *cobra.Command) {
	cmd.Flags().String("proxy", "", "SOCKS5 proxy address (host:port)")
	cmd.Flags().Duration("timeout", config.DefaultTimeout, "Timeout for each request")
	cmd.Flags().Bool("no-cache", false, "Fetch every page, ignoring the local page cache")
}

// signalContext returns a context cancelled on SIGINT or SIGTERM.
func (a *app) signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		select {
		case <-sigCh:
			a.logger.Warn("received shutdown signal, cancelling...")
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, func() {
		signal.Stop(sigCh)
		cancel()
	}
}

// openDB opens the database on first use.
func (a *app) openDB() (*database.CrawlDB, error) {
	if a.db != nil {
		return a.db, nil
	}
	db, err := database.Open(a.cfg.DBDir, database.DefaultOptions())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	a.logger.Debug("opened database", "path", db.Path())
	a.db = db
	return db, nil
}

// pageSource returns the source pages are fetched from: the wiki over
// HTTP, behind the database cache unless caching is disabled.
func (a *app) pageSource() (crawler.PageSource, error) {
	if a.source != nil {
		return a.source, nil
	}

	client, err := crawler.NewHTTPClient(a.cfg.ProxyAddress, a.cfg.Timeout)
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP client: %w", err)
	}
	fetcher := crawler.NewHTTPFetcher(client,
		crawler.WithUserAgent(a.cfg.UserAgent),
		crawler.WithCookie(a.cfg.Cookie),
		crawler.WithHeaders(a.cfg.Headers),
		crawler.WithMaxBodySize(a.cfg.MaxBodySize),
	)

	if !a.cfg.UseCache {
		a.source = fetcher
		return a.source, nil
	}

	db, err := a.openDB()
	if err != nil {
		return nil, err
	}
	a.cache = database.NewFetchCache(db, fetcher, a.cfg.CacheMaxAge,
		database.WithCacheLogger(a.logger))
	a.source = a.cache
	return a.source, nil
}

// newCrawler creates a crawler over the page source.
func (a *app) newCrawler() (*crawler.Crawler, error) {
	source, err := a.pageSource()
	if err != nil {
		return nil, err
	}
	return crawler.New(crawler.NewSourceFetcher(source), a.resolver,
		crawler.WithLogger(a.logger),
		crawler.WithSkipPatterns(a.cfg.SkipCategories),
	), nil
}

// newGraph creates an empty graph rooted at the configured root node.
func (a *app) newGraph() *graph.Graph {
	return graph.New(a.cfg.RootNode, a.cfg.StartURL())
}

// loadGraph loads the graph file.
func (a *app) loadGraph() (*graph.Graph, error) {
	g, err := graph.LoadFile(a.cfg.GraphPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("graph file not found: %s (run \"wikigraph crawl\" first)", a.cfg.GraphPath)
		}
		return nil, fmt.Errorf("failed to load graph: %w", err)
	}
	a.logger.Debug("loaded graph",
		"path", a.cfg.GraphPath,
		"nodes", g.NumNodes(),
		"edges", g.NumEdges(),
	)
	return g, nil
}

// close releases the database and logs cache counters.
func (a *app) close() {
	if a.cache != nil {
		stats := a.cache.Stats()
		a.logger.Info("page cache",
			"hits", stats.Hits,
			"misses", stats.Misses,
			"changed", stats.Changed,
		)
	}
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.logger.Warn("failed to close database", "error", err)
		}
	}
}

// outputReport writes a report in the requested format to stdout or the
// report file. A JSON or Markdown report written to a file is accompanied
// by the plain-text report on stdout.
func (a *app) outputReport(cmd *cobra.Command, write func(report.Writer) error) error {
	stdout := cmd.OutOrStdout()
	if a.cfg.ReportFile == "" {
		return write(a.formatWriter(stdout))
	}

	dir := filepath.Dir(a.cfg.ReportFile)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	f, err := os.OpenFile(a.cfg.ReportFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer f.Close()

	var w report.Writer = a.formatWriter(f)
	if a.cfg.JSONReport || a.cfg.MarkdownReport {
		w = report.NewMultiWriter(w, a.formatWriterFor(stdout, false, false))
	}
	return write(w)
}

// formatWriter returns the writer for the configured report format.
func (a *app) formatWriter(w io.Writer) report.Writer {
	return a.formatWriterFor(w, a.cfg.JSONReport, a.cfg.MarkdownReport)
}

func (a *app) formatWriterFor(w io.Writer, jsonReport, markdownReport bool) report.Writer {
	switch {
	case jsonReport:
		return report.NewFullJSONWriter(w, getVersion(), report.WithPrettyPrint())
	case markdownReport:
		return report.NewMarkdownWriter(w)
	default:
		return report.NewSimpleWriter(w, report.WithVerbose(a.cfg.Verbose))
	}
}

// writeSession writes the session report.
func (a *app) writeSession(cmd *cobra.Command, session *model.Session) error {
	return a.outputReport(cmd, func(w report.Writer) error {
		_, err := w.Write(session)
		return err
	})
}
