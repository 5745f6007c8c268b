package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/staylens/staylens/internal/filter"
	"github.com/staylens/staylens/internal/model"
	"github.com/staylens/staylens/internal/pipeline"
	"github.com/staylens/staylens/internal/store"
)

var (
	showCacheDir string
	showJSONPath string
)

// showCmd represents the show command
var showCmd = &cobra.Command{
	Use:   "show <slug>",
	Short: "Display the cached artifact for a hotel slug",
	Long: `Show reads a previously computed artifact from the cache without
running the pipeline. The slug is the identifier printed by run, e.g.
"trident-nariman-point".`,
	Args: cobra.ExactArgs(1),
	RunE: runShow,
}

func init() {
	rootCmd.AddCommand(showCmd)

	defaults := model.DefaultConfig()
	showCmd.Flags().StringVar(&showCacheDir, "cache-dir", defaults.Cache.Dir, "artifact store directory")
	showCmd.Flags().StringVar(&showJSONPath, "json", "", "write the artifact JSON to this path")
}

func runShow(cmd *cobra.Command, args []string) error {
	slug := args[0]

	// Read-only display path: no crawler, no analyzer.
	coord := pipeline.New(nil, nil, filter.New(nil, 0), nil, store.NewDisk(showCacheDir), logf())

	artifact, err := coord.Cached(slug)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("no cached artifact for %q; run the pipeline first", slug)
		}
		return err
	}

	printSummary(artifact)

	if showJSONPath != "" {
		return writeArtifactJSON(artifact, showJSONPath)
	}
	return nil
}
