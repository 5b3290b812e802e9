package cmd

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/pollinet/knowledgebot/api"
	"github.com/pollinet/knowledgebot/internal/conversation"
	knowsync "github.com/pollinet/knowledgebot/internal/sync"
	"github.com/pollinet/knowledgebot/internal/twitter"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	a, err := setup(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	conv := conversation.NewManager(a.cfg.MaxHistory, a.cfg.MaxChannels)

	// Sync stays disabled without a Twitter token; the endpoint then
	// answers 503 instead of failing mid-run.
	var syncer api.SyncRunner
	if a.cfg.TwitterBearerToken != "" {
		syncer = newSyncer(a)
	} else {
		a.logger.Warn("TWITTER_BEARER_TOKEN not set, sync endpoint disabled")
	}

	srv := api.NewServer(a.engine, conv, syncer, a.pool, a.logger)
	return srv.Run(ctx, a.cfg.HTTPAddr)
}

// newSyncer wires the sync pipeline from the app's engine and configuration.
func newSyncer(a *app) *knowsync.Syncer {
	fetcher := twitter.NewClient(a.cfg.TwitterBearerToken, a.logger)
	dedup := knowsync.NewDeduplicator(a.engine.Retriever())
	return knowsync.NewSyncer(fetcher, a.engine, dedup, a.cfg.TwitterUsername, a.logger)
}
