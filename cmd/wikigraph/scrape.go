package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/thomas-dorrington/Runescape2Vec/internal/crawler"
	"github.com/thomas-dorrington/Runescape2Vec/internal/model"
)

// NewScrapeCmd creates the scrape command.
func NewScrapeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scrape <page>",
		Short: "Print the text and categories of one article",
		Long: `Scrape fetches one article and prints its title, its body paragraphs with
footnote markers and locale annotations removed, and the categories it
declares. The page may be given as an address or a title.

Examples:
  wikigraph scrape Abyssal_whip
  wikigraph scrape https://oldschool.runescape.wiki/w/Abyssal_whip --json`,
		Args: cobra.ExactArgs(1),
		RunE: runScrapeCmd,
	}

	cmd.Flags().Bool("json", false, "Output in JSON format")
	addRequestFlags(cmd)

	return cmd
}

// runScrapeCmd executes the scrape command.
func runScrapeCmd(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	asJSON, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}

	source, err := a.pageSource()
	if err != nil {
		return err
	}

	ctx, cancel := a.signalContext(cmd.Context())
	defer cancel()

	article, err := crawler.NewArticleScraper(source).Scrape(ctx, pageAddress(a.cfg.Homepage, args[0]))
	if err != nil {
		return err
	}

	if asJSON {
		return writeJSON(cmd.OutOrStdout(), article)
	}
	writeArticle(cmd, article)
	return nil
}

func writeArticle(cmd *cobra.Command, article *model.Article) {
	out := cmd.OutOrStdout()

	fmt.Fprintln(out, article.Title)
	fmt.Fprintln(out, strings.Repeat("=", len(article.Title)))
	fmt.Fprintln(out)
	if text := article.Text(); text != "" {
		fmt.Fprintln(out, text)
		fmt.Fprintln(out)
	}
	fmt.Fprintf(out, "Categories: %s\n", orNone(article.Categories))
	if getVerboseFlag(cmd) {
		fmt.Fprintf(out, "Hidden categories: %s\n", orNone(article.HiddenCategories))
	}
}

func orNone(names []string) string {
	if len(names) == 0 {
		return "(none)"
	}
	return strings.Join(names, ", ")
}
