// Package cmd contains the knowledgebot CLI commands.
package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "knowledgebot",
	Short: "Pollinet knowledge bot",
	Long: `knowledgebot answers questions about the Pollinet offline transaction
network from a curated knowledge base. Documents are chunked, embedded, and
stored in PostgreSQL with pgvector; answers are grounded in the most relevant
chunks, with a corpus-wide fallback when targeted retrieval comes up empty.`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
