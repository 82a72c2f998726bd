package pipeline

import (
	"context"
	"log/slog"
	"slices"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/thomas-dorrington/Runescape2Vec/internal/category"
	"github.com/thomas-dorrington/Runescape2Vec/internal/graph"
	"github.com/thomas-dorrington/Runescape2Vec/internal/model"
)

// ArticleSource returns the parsed article at an address.
// crawler.ArticleScraper implements it.
type ArticleSource interface {
	Scrape(ctx context.Context, address string) (*model.Article, error)
}

// Validator cross-checks the categories a graph assigns to pages against
// the categories each page declares, scraping many pages concurrently.
//
// Design decision: Validation is kept out of the crawler because it fetches
// article pages rather than category listings and is the only part of
// the tool that runs requests in parallel. The graph is only read.
type Validator struct {
	source ArticleSource

	// concurrency is the maximum number of pages scraped at once.
	concurrency int

	logger *slog.Logger
}

// ValidatorOption configures a Validator.
type ValidatorOption func(*Validator)

// WithValidatorLogger sets a custom logger for validation.
func WithValidatorLogger(logger *slog.Logger) ValidatorOption {
	return func(v *Validator) {
		v.logger = logger
	}
}

// WithConcurrency sets the maximum number of concurrent scrapes.
// Default is 8 if not specified.
func WithConcurrency(n int) ValidatorOption {
	return func(v *Validator) {
		if n > 0 {
			v.concurrency = n
		}
	}
}

// NewValidator creates a Validator reading articles from source.
func NewValidator(source ArticleSource, opts ...ValidatorOption) *Validator {
	v := &Validator{
		source:      source,
		concurrency: 8,
	}

	for _, opt := range opts {
		opt(v)
	}

	if v.logger == nil {
		v.logger = slog.Default()
	}

	return v
}

// Validate checks every page in pages against g and returns one result per
// page in the same order. A page that cannot be scraped gets a result with
// Error set; it does not stop the batch.
//
// The error return is non-nil only if ctx was cancelled, in which case
// pages that were not reached have no declared categories and carry the
// cancellation as their Error.
func (v *Validator) Validate(ctx context.Context, g *graph.Graph, pages []string) ([]model.PageValidation, error) {
	v.logger.Info("starting validation",
		"pages", len(pages),
		"concurrency", v.concurrency,
	)
	startTime := time.Now()

	results := make([]model.PageValidation, len(pages))
	err := v.ValidateEach(ctx, g, pages, func(result model.PageValidation, index int) {
		results[index] = result
	})

	if err != nil {
		for i := range results {
			if results[i].URL == "" {
				results[i] = model.PageValidation{
					URL:             pages[i],
					GraphCategories: g.PageCategories(pages[i]),
					Error:           err.Error(),
				}
			}
		}
	}

	v.logger.Info("validation complete",
		"pages", len(pages),
		"elapsed", time.Since(startTime),
	)
	return results, err
}

// ValidateEach validates pages concurrently and calls callback with each
// result and the page's index in pages. Callbacks are serialized.
func (v *Validator) ValidateEach(
	ctx context.Context,
	g *graph.Graph,
	pages []string,
	callback func(result model.PageValidation, index int),
) error {
	var mu sync.Mutex

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(v.concurrency)

	for i, page := range pages {
		eg.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			result := v.check(ctx, g, page)

			mu.Lock()
			callback(result, i)
			mu.Unlock()
			return nil
		})
	}

	return eg.Wait()
}

func (v *Validator) check(ctx context.Context, g *graph.Graph, page string) model.PageValidation {
	result := model.PageValidation{
		URL:             page,
		GraphCategories: g.PageCategories(page),
	}

	article, err := v.source.Scrape(ctx, page)
	if err != nil {
		v.logger.Warn("failed to scrape page", "url", page, "error", err)
		result.Error = err.Error()
		return result
	}
	result.DeclaredCategories = article.Categories

	// A page filed under a hidden category reachable from the root is in
	// that node's listing, so hidden categories count as declared.
	declared := slices.Concat(article.Categories, article.HiddenCategories)
	result.MissingFromGraph = missing(article.Categories, result.GraphCategories)
	result.MissingFromPage = missing(result.GraphCategories, declared)
	if !result.Consistent() {
		v.logger.Debug("page categories disagree",
			"url", page,
			"missing_from_graph", result.MissingFromGraph,
			"missing_from_page", result.MissingFromPage,
		)
	}
	return result
}

// missing returns the names in want that have no equivalent in have.
func missing(want, have []string) []string {
	var out []string
	for _, w := range want {
		if !slices.ContainsFunc(have, func(h string) bool { return category.SameCategory(w, h) }) {
			out = append(out, w)
		}
	}
	return out
}
