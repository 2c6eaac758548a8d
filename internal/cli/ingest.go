package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/pkoval/claimlens/internal/model"
	"github.com/pkoval/claimlens/internal/pipeline"
)

var (
	ingestTitle   string
	ingestTimeout time.Duration
)

// ingestCmd represents the ingest command
var ingestCmd = &cobra.Command{
	Use:   "ingest [source]",
	Short: "Ingest a source document into the local store",
	Long: `Ingest chunks a source document and stores it locally. The source kind
is detected from the argument:

  claimlens ingest notes.txt              plain-text file
  claimlens ingest report.pdf             PDF (text extracted per page)
  claimlens ingest https://example.com/x  web page (robots.txt honored)
  claimlens ingest -                      read pasted text from stdin

Run "claimlens embed <doc-id>" afterwards to make the document
searchable.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runIngest,
}

func init() {
	rootCmd.AddCommand(ingestCmd)

	ingestCmd.Flags().StringVar(&ingestTitle, "title", "", "document title (default: derived from source)")
	ingestCmd.Flags().DurationVar(&ingestTimeout, "timeout", 2*time.Minute, "overall ingest timeout")
}

func runIngest(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	p, st, err := newPipeline(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	ctx, cancel := context.WithTimeout(context.Background(), ingestTimeout)
	defer cancel()

	source := "-"
	if len(args) == 1 {
		source = args[0]
	}

	doc, chunks, err := ingestSource(ctx, p, source)
	if err != nil {
		return err
	}

	fmt.Printf("Ingested %q as %s (%s, %d chunks, %d bytes)\n",
		doc.Title, doc.ID, doc.SourceType, chunks, doc.Bytes)
	fmt.Printf("Next: claimlens embed %s\n", doc.ID)
	return nil
}

func ingestSource(ctx context.Context, p *pipeline.Pipeline, source string) (model.Document, int, error) {
	switch {
	case source == "-":
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return model.Document{}, 0, fmt.Errorf("read stdin: %w", err)
		}
		return p.IngestText(ctx, ingestTitle, string(data), model.SourcePasted)

	case strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://"):
		return p.IngestURL(ctx, source)

	case strings.EqualFold(filepath.Ext(source), ".pdf"):
		onProgress := func(page, total int) {
			if verbose {
				fmt.Fprintf(os.Stderr, "  page %d/%d\n", page, total)
			}
		}
		return p.IngestPDF(ctx, source, onProgress)

	default:
		if ingestTitle == "" {
			return p.IngestFile(ctx, source)
		}
		data, err := os.ReadFile(source)
		if err != nil {
			return model.Document{}, 0, fmt.Errorf("read file: %w", err)
		}
		return p.IngestText(ctx, ingestTitle, string(data), model.SourceFile)
	}
}
