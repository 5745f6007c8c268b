package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/staylens/staylens/internal/model"
	"github.com/staylens/staylens/internal/pipeline"
)

var (
	runMaxPages    int
	runPageDelay   time.Duration
	runRetryCount  int
	runRetryDelay  time.Duration
	runLangs       []string
	runForce       bool
	runNoCache     bool
	runCacheDir    string
	runTimeout     time.Duration
	runUserAgent   string
	runProvider    string
	runModel       string
	runConcurrency int
	runJSONPath    string
	runNoRobots    bool
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run <hotel-url>",
	Short: "Run the full review analytics pipeline for one hotel",
	Long: `Run crawls the hotel's review pages, admits usable English reviews,
enriches them with sentiment and key phrases, derives the chart
datasets, and caches the combined artifact under the hotel's slug.

A second run for the same hotel is served from cache; pass --force to
replace the cached artifact with a fresh run.

Example:
  staylens run https://www.booking.com/hotel/in/trident-nariman-point.html
  staylens run https://www.booking.com/hotel/in/trident-nariman-point.html --max-pages 5 --json artifact.json`,
	Args: cobra.ExactArgs(1),
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)

	defaults := model.DefaultConfig()

	runCmd.Flags().IntVar(&runMaxPages, "max-pages", defaults.Crawl.MaxPages, "maximum review pages to crawl")
	runCmd.Flags().DurationVar(&runPageDelay, "page-delay", defaults.Crawl.PageDelay, "courtesy delay between page fetches")
	runCmd.Flags().IntVar(&runRetryCount, "retry-count", defaults.HTTP.RetryCount, "retries per page on transient failures")
	runCmd.Flags().DurationVar(&runRetryDelay, "retry-delay", defaults.HTTP.RetryDelay, "base delay between retries")
	runCmd.Flags().StringSliceVar(&runLangs, "langs", defaults.Filter.Languages, "admitted review languages")
	runCmd.Flags().BoolVar(&runForce, "force", false, "replace any cached artifact with a fresh run")
	runCmd.Flags().BoolVar(&runNoCache, "no-cache", false, "keep artifacts in memory only")
	runCmd.Flags().StringVar(&runCacheDir, "cache-dir", defaults.Cache.Dir, "artifact store directory")
	runCmd.Flags().DurationVar(&runTimeout, "timeout", 10*time.Minute, "overall run timeout")
	runCmd.Flags().StringVar(&runUserAgent, "ua", defaults.HTTP.UserAgent, "HTTP User-Agent")
	runCmd.Flags().StringVar(&runProvider, "analyzer", defaults.Analyzer.Provider, "analytics provider")
	runCmd.Flags().StringVar(&runModel, "model", "", "analytics model name (provider default if empty)")
	runCmd.Flags().IntVar(&runConcurrency, "concurrency", defaults.Analyzer.MaxConcurrent, "concurrent analytics calls")
	runCmd.Flags().StringVar(&runJSONPath, "json", "", "write the artifact JSON to this path")
	runCmd.Flags().BoolVar(&runNoRobots, "no-robots", false, "skip the robots.txt check")
}

func runRun(cmd *cobra.Command, args []string) error {
	url := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
	defer cancel()

	cfg := buildConfig()

	coord, err := pipeline.NewFromConfig(cfg, logf())
	if err != nil {
		return err
	}

	artifact, err := coord.Run(ctx, url, runForce)
	if err != nil {
		return fmt.Errorf("run failed: %w", err)
	}

	printSummary(artifact)

	if runJSONPath != "" {
		if err := writeArtifactJSON(artifact, runJSONPath); err != nil {
			return err
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "wrote %s\n", runJSONPath)
		}
	}

	return nil
}

func buildConfig() *model.Config {
	cfg := model.DefaultConfig()
	cfg.Crawl.MaxPages = runMaxPages
	cfg.Crawl.PageDelay = runPageDelay
	cfg.Crawl.RespectRobots = !runNoRobots
	cfg.HTTP.RetryCount = runRetryCount
	cfg.HTTP.RetryDelay = runRetryDelay
	cfg.HTTP.UserAgent = runUserAgent
	cfg.Filter.Languages = runLangs
	cfg.Cache.Enabled = !runNoCache
	cfg.Cache.Dir = runCacheDir
	cfg.Analyzer.Provider = runProvider
	cfg.Analyzer.Model = runModel
	cfg.Analyzer.MaxConcurrent = runConcurrency
	cfg.Analyzer.APIKey = os.Getenv("OPENAI_API_KEY")
	cfg.Output.Verbose = verbose
	return cfg
}

func printSummary(artifact *model.Artifact) {
	if artifact.Meta != nil && artifact.Meta.Title != "" {
		fmt.Printf("%s (%s)\n", artifact.Meta.Title, artifact.Slug)
	} else {
		fmt.Println(artifact.Slug)
	}

	if artifact.Empty() {
		fmt.Println("no usable reviews for this hotel")
		return
	}

	fmt.Printf("reviews: %d scraped, %d admitted, %d enriched\n",
		artifact.RawCount, artifact.AdmittedCount, len(artifact.Reviews))
	if artifact.Partial {
		fmt.Println("note: crawl was partial, results cover the pages fetched before the failure")
	}

	fmt.Printf("charts:")
	for _, kind := range []model.ChartKind{model.ChartSentiment, model.ChartTrend, model.ChartCountry, model.ChartTags} {
		if _, ok := artifact.Charts[kind]; ok {
			fmt.Printf(" %s", kind)
		}
	}
	fmt.Println()
}

func writeArtifactJSON(artifact *model.Artifact, path string) error {
	data, err := json.MarshalIndent(artifact, "", "  ")
	if err != nil {
		return fmt.Errorf("encode artifact: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write artifact: %w", err)
	}
	return nil
}
