package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Pull recent tweets into the knowledge base",
	RunE:  runSync,
}

func init() {
	rootCmd.AddCommand(syncCmd)
}

func runSync(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	a, err := setup(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	if a.cfg.TwitterBearerToken == "" {
		return fmt.Errorf("TWITTER_BEARER_TOKEN not set; sync requires Twitter API access")
	}

	res, err := newSyncer(a).Run(ctx)
	if err != nil {
		return fmt.Errorf("running sync: %w", err)
	}

	total, err := a.store.Count(ctx)
	if err != nil {
		return fmt.Errorf("counting chunks: %w", err)
	}

	fmt.Printf("Sync complete: %d added, %d skipped, %d chunks total\n", res.Added, res.Skipped, total)
	return nil
}
