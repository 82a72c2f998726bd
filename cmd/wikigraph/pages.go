package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/thomas-dorrington/Runescape2Vec/internal/crawler"
	"github.com/thomas-dorrington/Runescape2Vec/internal/graph"
)

// NewPagesCmd creates the pages command.
func NewPagesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pages",
		Short: "Query the pages of the saved graph",
		Long: `Pages lists the articles held by the saved graph.

Without flags, every page address is printed once, sorted. --under limits
the list to the pages filed below a category, directly or through any of
its subcategories. --page prints the categories that directly hold a page.

--compare-index walks the wiki's Special:AllPages index and reports the
articles missing from the graph, and the graph pages missing from the index.

Examples:
  # Every page in the graph
  wikigraph pages

  # Every monster page
  wikigraph pages --under Monsters

  # The categories below Monsters
  wikigraph pages --under Monsters --categories

  # Where an article is filed
  wikigraph pages --page Abyssal_whip

  # Coverage of the crawl
  wikigraph pages --compare-index`,
		Args: cobra.NoArgs,
		RunE: runPagesCmd,
	}

	cmd.Flags().String("under", "", "List pages below this category")
	cmd.Flags().Bool("categories", false, "With --under, list the categories below it instead of pages")
	cmd.Flags().String("page", "", "Print the categories holding this page (address or title)")
	cmd.Flags().Bool("count", false, "Print only the number of results")
	cmd.Flags().Bool("compare-index", false, "Compare the graph with the wiki's Special:AllPages index")
	cmd.Flags().Bool("json", false, "Output in JSON format")
	addRequestFlags(cmd)

	return cmd
}

// indexComparison is the result of --compare-index.
type indexComparison struct {
	IndexPages       int      `json:"index_pages"`
	GraphPages       int      `json:"graph_pages"`
	MissingFromGraph []string `json:"missing_from_graph"`
	MissingFromIndex []string `json:"missing_from_index"`
}

// runPagesCmd executes the pages command.
func runPagesCmd(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	flags := cmd.Flags()
	under, _ := flags.GetString("under")
	listCategories, _ := flags.GetBool("categories")
	page, _ := flags.GetString("page")
	countOnly, _ := flags.GetBool("count")
	compare, _ := flags.GetBool("compare-index")
	asJSON, _ := flags.GetBool("json")

	if listCategories && under == "" {
		return fmt.Errorf("--categories requires --under")
	}

	g, err := a.loadGraph()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()

	if compare {
		result, err := a.compareIndex(cmd, g)
		if err != nil {
			return err
		}
		if asJSON {
			return writeJSON(out, result)
		}
		writeComparison(out, result)
		return nil
	}

	var results []string
	switch {
	case page != "":
		results = g.PageCategories(pageAddress(a.cfg.Homepage, page))
	case under != "" && listCategories:
		results, err = g.Descendants(under)
	case under != "":
		results, err = g.PagesUnder(under)
	default:
		results = g.AllPages()
	}
	if err != nil {
		return err
	}

	if countOnly {
		fmt.Fprintln(out, len(results))
		return nil
	}
	if asJSON {
		if results == nil {
			results = []string{}
		}
		return writeJSON(out, results)
	}
	for _, r := range results {
		fmt.Fprintln(out, r)
	}
	return nil
}

// compareIndex lists the wiki's index and compares it with the graph.
func (a *app) compareIndex(cmd *cobra.Command, g *graph.Graph) (*indexComparison, error) {
	source, err := a.pageSource()
	if err != nil {
		return nil, err
	}

	ctx, cancel := a.signalContext(cmd.Context())
	defer cancel()

	lister := crawler.NewAllPagesLister(source, a.resolver, a.logger)
	indexed, err := lister.List(ctx, crawler.AllPagesURL(a.cfg.Homepage))
	if err != nil {
		return nil, fmt.Errorf("failed to list the page index: %w", err)
	}

	pages := g.AllPages()
	onlyIndex, onlyGraph := sortedDifference(indexed, pages)
	return &indexComparison{
		IndexPages:       len(indexed),
		GraphPages:       len(pages),
		MissingFromGraph: onlyIndex,
		MissingFromIndex: onlyGraph,
	}, nil
}

// sortedDifference returns the elements only in a and only in b. Both
// inputs must be sorted and free of duplicates.
func sortedDifference(a, b []string) (onlyA, onlyB []string) {
	onlyA, onlyB = []string{}, []string{}
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i] == b[j]:
			i++
			j++
		case a[i] < b[j]:
			onlyA = append(onlyA, a[i])
			i++
		default:
			onlyB = append(onlyB, b[j])
			j++
		}
	}
	onlyA = append(onlyA, a[i:]...)
	onlyB = append(onlyB, b[j:]...)
	return onlyA, onlyB
}

func writeComparison(w io.Writer, c *indexComparison) {
	fmt.Fprintf(w, "Index pages: %d, graph pages: %d\n", c.IndexPages, c.GraphPages)

	fmt.Fprintf(w, "\nIn the index but not in the graph (%d):\n", len(c.MissingFromGraph))
	for _, p := range c.MissingFromGraph {
		fmt.Fprintf(w, "  %s\n", p)
	}
	fmt.Fprintf(w, "\nIn the graph but not in the index (%d):\n", len(c.MissingFromIndex))
	for _, p := range c.MissingFromIndex {
		fmt.Fprintf(w, "  %s\n", p)
	}
}

// pageAddress turns a page title into its address on the wiki. Addresses
// are returned unchanged.
func pageAddress(homepage, page string) string {
	if strings.Contains(page, "://") {
		return page
	}
	title := strings.ReplaceAll(strings.TrimSpace(page), " ", "_")
	return strings.TrimRight(homepage, "/") + "/w/" + title
}

// writeJSON writes v as indented JSON.
func writeJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
