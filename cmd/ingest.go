package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
)

var ingestName string

var ingestCmd = &cobra.Command{
	Use:   "ingest [file]",
	Short: "Ingest a document into the knowledge base",
	Long: `Ingest reads a text document, splits it into overlapping chunks, embeds
each chunk, and stores the result. Re-ingesting the same document under the
same name overwrites the previous chunks.`,
	Args: cobra.ExactArgs(1),
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().StringVar(&ingestName, "name", "", "document name (defaults to the file name without extension)")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	path := args[0]

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading document: %w", err)
	}

	name := ingestName
	if name == "" {
		name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}

	ctx := cmd.Context()
	a, err := setup(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	count, err := a.engine.Ingest(ctx, name, string(data), map[string]string{"source": "file"})
	if err != nil {
		return fmt.Errorf("ingesting %q (stored %d chunks): %w", name, count, err)
	}

	total, err := a.store.Count(ctx)
	if err != nil {
		return fmt.Errorf("counting chunks: %w", err)
	}

	fmt.Printf("Ingested %q: %d chunks (%d total in store)\n", name, count, total)
	return nil
}
