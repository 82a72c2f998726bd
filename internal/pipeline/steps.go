package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/thomas-dorrington/Runescape2Vec/internal/audit"
	"github.com/thomas-dorrington/Runescape2Vec/internal/crawler"
	"github.com/thomas-dorrington/Runescape2Vec/internal/graph"
	"github.com/thomas-dorrington/Runescape2Vec/internal/model"
)

// ErrNoGraph is returned by steps that need a graph when the session has none.
var ErrNoGraph = errors.New("session has no graph")

// CrawlStep walks the wiki into the session graph.
//
// Design decision: Crawling, extending and resuming share one step because
// they share the crawler, its statistics and the interruption handling;
// only the entry point differs.
type CrawlStep struct {
	crawler *crawler.Crawler

	// rootURL is the category crawled below the root node.
	rootURL string

	// resume expands pending categories before anything else.
	resume bool

	// parent and addresses, if set, extend the graph instead of crawling
	// from rootURL.
	parent    string
	addresses []string

	logger *slog.Logger
}

// CrawlStepOption configures a CrawlStep.
type CrawlStepOption func(*CrawlStep)

// WithResume makes the step expand the categories an earlier, interrupted
// crawl left pending. Crawling from the root afterwards links the already
// known categories without fetching them again.
func WithResume(resume bool) CrawlStepOption {
	return func(s *CrawlStep) {
		s.resume = resume
	}
}

// WithExtend makes the step crawl addresses as subcategories of parent
// instead of crawling from the root URL.
func WithExtend(parent string, addresses ...string) CrawlStepOption {
	return func(s *CrawlStep) {
		s.parent = parent
		s.addresses = addresses
	}
}

// WithCrawlLogger sets a custom logger for the crawl step.
func WithCrawlLogger(logger *slog.Logger) CrawlStepOption {
	return func(s *CrawlStep) {
		s.logger = logger
	}
}

// NewCrawlStep creates a step crawling from rootURL with c.
func NewCrawlStep(c *crawler.Crawler, rootURL string, opts ...CrawlStepOption) *CrawlStep {
	s := &CrawlStep{
		crawler: c,
		rootURL: rootURL,
		logger:  slog.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Name returns the step name.
func (s *CrawlStep) Name() string {
	switch {
	case s.addresses != nil:
		return "extend"
	case s.resume:
		return "resume"
	default:
		return "crawl"
	}
}

// Do executes the crawl. Diagnostics do not fail the step; they are in
// session.Stats. A cancelled crawl marks the session interrupted and
// returns the context error.
func (s *CrawlStep) Do(ctx context.Context, session *model.Session) error {
	g := session.Graph
	if g == nil {
		return ErrNoGraph
	}

	err := s.run(ctx, g)
	session.Stats = s.crawler.Stats()

	if err != nil {
		if ctx.Err() != nil {
			session.Interrupted = true
			s.logger.Warn("crawl interrupted",
				"pending", len(crawler.Pending(g)),
				"categories", session.Stats.CategoriesVisited,
			)
		}
		return err
	}

	s.logger.Info("crawl finished",
		"nodes", g.NumNodes(),
		"edges", g.NumEdges(),
		"pages", g.NumPages(),
		"diagnostics", len(session.Stats.Diagnostics),
	)
	return nil
}

func (s *CrawlStep) run(ctx context.Context, g *graph.Graph) error {
	if s.resume {
		if pending := crawler.Pending(g); len(pending) > 0 {
			s.logger.Info("resuming crawl", "pending", len(pending))
			if err := s.crawler.Resume(ctx, g); err != nil {
				return err
			}
		}
	}
	if s.addresses != nil {
		return s.crawler.Extend(ctx, g, s.parent, s.addresses...)
	}
	if s.rootURL == "" {
		return nil
	}
	return s.crawler.Crawl(ctx, g, s.rootURL)
}

// PruneStep removes operator-listed edges from the session graph.
type PruneStep struct {
	auditor *audit.Auditor
	edges   []graph.Edge
}

// NewPruneStep creates a step removing edges with a.
func NewPruneStep(a *audit.Auditor, edges []graph.Edge) *PruneStep {
	return &PruneStep{auditor: a, edges: edges}
}

// Name returns the step name.
func (s *PruneStep) Name() string {
	return "prune"
}

// Do removes the edges. Missing edges and remaining cycles are recorded in
// session.Audit and are not errors.
func (s *PruneStep) Do(_ context.Context, session *model.Session) error {
	if session.Graph == nil {
		return ErrNoGraph
	}
	if len(s.edges) == 0 {
		return nil
	}

	result := s.auditor.RemoveEdges(session.Graph, s.edges)
	session.Audit = &result
	session.CycleCount = result.RemainingCycles
	return nil
}

// AuditStep counts the cycles of the session graph and lists some of them.
type AuditStep struct {
	auditor *audit.Auditor

	// limit caps the number of cycles listed. Non-positive lists all.
	limit int
}

// NewAuditStep creates a step listing up to limit cycles with a.
func NewAuditStep(a *audit.Auditor, limit int) *AuditStep {
	return &AuditStep{auditor: a, limit: limit}
}

// Name returns the step name.
func (s *AuditStep) Name() string {
	return "audit"
}

// Do counts and lists cycles.
func (s *AuditStep) Do(_ context.Context, session *model.Session) error {
	if session.Graph == nil {
		return ErrNoGraph
	}

	session.CycleCount = s.auditor.Check(session.Graph)
	session.Cycles = nil
	if session.CycleCount > 0 {
		session.Cycles = s.auditor.ListCycles(session.Graph, s.limit)
	}
	return nil
}

// SaveStep writes the session graph to a JSON file.
type SaveStep struct {
	path string
}

// NewSaveStep creates a step saving to path.
func NewSaveStep(path string) *SaveStep {
	return &SaveStep{path: path}
}

// Name returns the step name.
func (s *SaveStep) Name() string {
	return "save"
}

// Do writes the file. The write does not watch ctx so that an interrupted
// crawl can still be saved for resuming.
func (s *SaveStep) Do(_ context.Context, session *model.Session) error {
	if session.Graph == nil {
		return ErrNoGraph
	}
	if err := session.Graph.SaveFile(s.path); err != nil {
		return fmt.Errorf("failed to save graph: %w", err)
	}
	session.GraphPath = s.path
	return nil
}

// SnapshotStore persists graph snapshots. database.CrawlDB implements it.
type SnapshotStore interface {
	SaveSnapshot(ctx context.Context, g *graph.Graph, cycles int) (*model.Snapshot, error)
}

// SnapshotStep stores a copy of the session graph in a SnapshotStore.
type SnapshotStep struct {
	store SnapshotStore
}

// NewSnapshotStep creates a step saving snapshots to store.
func NewSnapshotStep(store SnapshotStore) *SnapshotStep {
	return &SnapshotStep{store: store}
}

// Name returns the step name.
func (s *SnapshotStep) Name() string {
	return "snapshot"
}

// Do stores the snapshot with the session's cycle count.
func (s *SnapshotStep) Do(ctx context.Context, session *model.Session) error {
	if session.Graph == nil {
		return ErrNoGraph
	}
	snap, err := s.store.SaveSnapshot(ctx, session.Graph, session.CycleCount)
	if err != nil {
		return err
	}
	session.SnapshotID = snap.ID
	return nil
}

// ValidateStep cross-checks page categories with a Validator.
type ValidateStep struct {
	validator *Validator

	// under restricts validation to the pages below a category.
	under string

	// limit caps the number of pages checked. Non-positive checks all.
	limit int
}

// NewValidateStep creates a step validating up to limit pages below
// under, or below the root when under is empty.
func NewValidateStep(v *Validator, under string, limit int) *ValidateStep {
	return &ValidateStep{validator: v, under: under, limit: limit}
}

// Name returns the step name.
func (s *ValidateStep) Name() string {
	return "validate"
}

// Do validates the selected pages into session.Validations.
func (s *ValidateStep) Do(ctx context.Context, session *model.Session) error {
	g := session.Graph
	if g == nil {
		return ErrNoGraph
	}

	pages := g.AllPages()
	if s.under != "" {
		var err error
		if pages, err = g.PagesUnder(s.under); err != nil {
			return err
		}
	}
	if s.limit > 0 && len(pages) > s.limit {
		pages = pages[:s.limit]
	}

	results, err := s.validator.Validate(ctx, g, pages)
	session.Validations = results
	return err
}
