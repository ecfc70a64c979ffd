package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/xeij/tellme/pkg/tellme/ingest"
	"github.com/xeij/tellme/pkg/tellme/quality"
	"github.com/xeij/tellme/pkg/tellme/topic"
	"github.com/xeij/tellme/pkg/tellme/wiki"
)

var (
	flagFetchTopic string
	flagFetchCount int
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Download encyclopedia texts into the local database",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, cfg, log, err := openService(cmd)
		if err != nil {
			return err
		}
		defer svc.Close()

		client := wiki.NewClient(wiki.Options{
			UserAgent: cfg.Fetcher.UserAgent,
			Delay:     cfg.Fetcher.RateLimit(),
		})

		var policy quality.Policy = quality.AcceptAll{}
		if cfg.Quality.Enabled {
			kp := quality.DefaultKeywordPolicy()
			if len(cfg.Quality.Engaging) > 0 {
				kp.Engaging = cfg.Quality.Engaging
			}
			if len(cfg.Quality.Dull) > 0 {
				kp.Dull = cfg.Quality.Dull
			}
			if cfg.Quality.MinScore != 0 {
				kp.MinScore = cfg.Quality.MinScore
			}
			policy = kp
		}

		runner := ingest.NewRunner(client, svc, ingest.NewProcessor(policy), log)

		perTopic := cfg.Fetcher.UnitsPerTopic
		if flagFetchCount > 0 {
			perTopic = flagFetchCount
		}

		ctx := cmd.Context()
		if flagFetchTopic != "" {
			tp, err := topic.Parse(flagFetchTopic)
			if err != nil {
				return err
			}
			n, err := runner.FetchTopic(ctx, tp, perTopic)
			if n > 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "Stored %d texts for %s.\n", n, tp.DisplayName())
			}
			return err
		}

		n, err := runner.Run(ctx, perTopic)
		if n > 0 {
			fmt.Fprintf(cmd.OutOrStdout(), "Stored %d texts across all topics.\n", n)
		}
		return err
	},
}

func init() {
	fetchCmd.Flags().StringVar(&flagFetchTopic, "topic", "", "fetch a single topic instead of all of them")
	fetchCmd.Flags().IntVar(&flagFetchCount, "count", 0, "texts to gather per topic (overrides config)")
	rootCmd.AddCommand(fetchCmd)
}
