package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var embedTimeout time.Duration

// embedCmd represents the embed command
var embedCmd = &cobra.Command{
	Use:   "embed <doc-id>",
	Short: "Embed a document's chunks for retrieval",
	Long: `Embed computes a vector for every chunk of an ingested document and
stores the vectors locally, replacing any previous set. Identical chunks
hit the embedding cache instead of the backend.

Example:
  claimlens embed doc_1a2b3c4d
  claimlens embed doc_1a2b3c4d --timeout 10m`,
	Args: cobra.ExactArgs(1),
	RunE: runEmbed,
}

func init() {
	rootCmd.AddCommand(embedCmd)

	embedCmd.Flags().DurationVar(&embedTimeout, "timeout", 5*time.Minute, "overall embedding timeout")
}

func runEmbed(cmd *cobra.Command, args []string) error {
	docID := args[0]

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	p, st, err := newPipeline(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	ctx, cancel := context.WithTimeout(context.Background(), embedTimeout)
	defer cancel()

	start := time.Now()
	n, err := p.EmbedDocument(ctx, docID, func(done, total int) {
		fmt.Fprintf(os.Stderr, "  embedded %d/%d chunks\n", done, total)
	})
	if err != nil {
		return err
	}

	fmt.Printf("Embedded %d chunks for %s in %s (%s/%s)\n",
		n, docID, time.Since(start).Round(time.Millisecond),
		cfg.Embedder.Provider, cfg.Embedder.Model)
	return nil
}
