package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/doc-agent/internal/library"
	"github.com/pdiddy/doc-agent/internal/llm"
	"github.com/pdiddy/doc-agent/internal/scholar"
	"github.com/pdiddy/doc-agent/internal/score"
	"github.com/pdiddy/doc-agent/pkg/types"
)

const scholarUserAgent = "doc-agent/0.1"

var scholarCmd = &cobra.Command{
	Use:   "scholar",
	Short: "Search Google Scholar and download the most relevant PDFs",
	Long: `Scholar loads search terms from a file, searches Google Scholar for each
term through a headless browser, scores every result with the
configured model, and downloads the top-scored PDFs. Failed or
unreachable candidates are replaced from the remaining result pool
until the download budget is met or the pool runs out.

Each term produces a YAML manifest next to the downloaded PDFs, and
every run is recorded in the local download history database. Links
already downloaded in earlier runs are dropped from the candidate pool
before scoring.`,
	RunE: runScholar,
}

func init() {
	scholarCmd.Flags().String("terms", "search_terms.txt", "line-oriented search terms file")
	scholarCmd.Flags().String("query", "", "single query to run instead of the terms file")
	scholarCmd.Flags().Int("num-results", 20, "maximum results scraped per query")
	scholarCmd.Flags().Int("top-n", 3, "scored candidates selected for download")
	scholarCmd.Flags().Int("max-downloads", 3, "successful-download budget per query")
	scholarCmd.Flags().String("download-dir", "downloads", "destination directory for fetched PDFs")
	scholarCmd.Flags().String("db", "doc-agent.db", "download history database file")
	scholarCmd.Flags().Duration("timeout", scholar.DefaultDownloadTimeout, "per-PDF download timeout")
	scholarCmd.Flags().Duration("min-interval", score.DefaultMinInterval, "minimum spacing between scoring calls")
	scholarCmd.Flags().Int("max-retries", score.DefaultMaxRetries, "scoring attempts per candidate")

	rootCmd.AddCommand(scholarCmd)
}

// scholarSettings assembles the pipeline configuration from command flags.
func scholarSettings(cmd *cobra.Command) types.PipelineConfig {
	model, _ := rootCmd.PersistentFlags().GetString("model")
	termsFile, _ := cmd.Flags().GetString("terms")
	numResults, _ := cmd.Flags().GetInt("num-results")
	topN, _ := cmd.Flags().GetInt("top-n")
	maxDownloads, _ := cmd.Flags().GetInt("max-downloads")
	downloadDir, _ := cmd.Flags().GetString("download-dir")
	dbPath, _ := cmd.Flags().GetString("db")
	timeout, _ := cmd.Flags().GetDuration("timeout")
	minInterval, _ := cmd.Flags().GetDuration("min-interval")
	maxRetries, _ := cmd.Flags().GetInt("max-retries")

	return types.PipelineConfig{
		Scorer: types.ScorerConfig{
			Model:       model,
			MinInterval: minInterval,
			MaxRetries:  maxRetries,
		},
		Scholar: types.ScholarConfig{
			HTTPConfig: types.HTTPConfig{
				Timeout:   timeout,
				UserAgent: scholarUserAgent,
			},
			TermsFile:    termsFile,
			NumResults:   numResults,
			TopN:         topN,
			MaxDownloads: maxDownloads,
			DownloadDir:  downloadDir,
		},
		Library: types.LibraryConfig{Path: dbPath},
	}
}

// dropKnown removes candidates whose link already succeeded in an
// earlier run.
func dropKnown(pool []types.Candidate, known map[string]bool) []types.Candidate {
	if len(known) == 0 {
		return pool
	}
	kept := pool[:0]
	for _, c := range pool {
		if c.Link != "" && known[c.Link] {
			continue
		}
		kept = append(kept, c)
	}
	return kept
}

func runScholar(cmd *cobra.Command, args []string) error {
	cfg := scholarSettings(cmd)

	apiKey, _ := rootCmd.PersistentFlags().GetString("api-key")
	cfg.Scorer.APIKey = geminiKey(apiKey)

	gen, err := llm.NewGeminiClient(cfg.Scorer.APIKey, cfg.Scorer.Model)
	if err != nil {
		return err
	}

	query, _ := cmd.Flags().GetString("query")
	var terms []string
	if query != "" {
		terms = []string{query}
	} else {
		terms, err = scholar.LoadTerms(cfg.Scholar.TermsFile)
		if err != nil {
			return err
		}
	}
	if len(terms) == 0 {
		return fmt.Errorf("no search queries found in %s", cfg.Scholar.TermsFile)
	}

	if err := os.MkdirAll(cfg.Scholar.DownloadDir, 0o755); err != nil {
		return fmt.Errorf("creating download directory: %w", err)
	}

	store, err := library.NewStore(cfg.Library.Path)
	if err != nil {
		return err
	}
	defer store.Close()

	scorer := score.NewScorer(gen, cfg.Scorer.MinInterval, cfg.Scorer.MaxRetries)
	searcher := scholar.NewSearcher()
	engine := scholar.NewEngine(scorer, cfg.Scholar.UserAgent)
	if cfg.Scholar.Timeout > 0 {
		engine.Client.Timeout = cfg.Scholar.Timeout
	}

	ctx := cmd.Context()

	known, err := store.DownloadedLinks(ctx)
	if err != nil {
		return fmt.Errorf("reading download history: %w", err)
	}

	for i, term := range terms {
		fmt.Fprintf(os.Stdout, "[%d/%d] %s\n", i+1, len(terms), term)

		started := time.Now()
		pool, err := searcher.Search(ctx, term, cfg.Scholar.NumResults, os.Stdout)
		if err != nil {
			fmt.Fprintf(os.Stderr, "search failed for %q: %v\n", term, err)
			continue
		}
		pool = dropKnown(pool, known)
		if len(pool) == 0 {
			fmt.Fprintf(os.Stdout, "no new results for %q\n", term)
			continue
		}

		selected := score.SelectTop(ctx, scorer, term, pool, cfg.Scholar.TopN, os.Stdout)

		attempts, err := engine.Download(ctx, selected, pool, term, cfg.Scholar.DownloadDir, cfg.Scholar.MaxDownloads, os.Stdout)
		if err != nil {
			return err
		}

		m := scholar.NewManifest(term, attempts)
		manifestPath := filepath.Join(cfg.Scholar.DownloadDir, scholar.SanitizeTitle(term)+"_manifest.yaml")
		if err := scholar.WriteManifest(manifestPath, m); err != nil {
			fmt.Fprintf(os.Stderr, "warning: could not write manifest: %v\n", err)
		}

		if _, err := store.RecordRun(ctx, term, started, attempts); err != nil {
			fmt.Fprintf(os.Stderr, "warning: could not record run: %v\n", err)
		}
		for _, a := range attempts {
			if a.Status == types.StatusSuccess && a.Link != "" {
				known[a.Link] = true
			}
		}

		scholar.FormatAttempts(attempts, os.Stdout)
	}

	return nil
}
