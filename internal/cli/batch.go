package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/spf13/cobra"

	"github.com/pkoval/claimlens/internal/worker"
)

var (
	batchDocID   string
	concurrency  int
	outputDir    string
	batchTimeout time.Duration
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <answers-dir>",
	Short: "Check multiple answer files against one document in parallel",
	Long: `Batch checks every .txt file in a directory against the same embedded
document, writing one Markdown report per answer.

Example:
  claimlens batch ./answers --doc doc_1a2b3c4d
  claimlens batch ./answers --doc doc_1a2b3c4d --concurrency 8 --output-dir ./reports`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().StringVar(&batchDocID, "doc", "", "document id to check against (required)")
	_ = batchCmd.MarkFlagRequired("doc")

	batchCmd.Flags().IntVar(&concurrency, "concurrency", runtime.NumCPU(), "number of concurrent workers")
	batchCmd.Flags().StringVar(&outputDir, "output-dir", "./claimlens-reports", "output directory for reports")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 10*time.Minute, "total timeout for batch processing")
}

func runBatch(cmd *cobra.Command, args []string) error {
	dir := args[0]

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if concurrency > 0 {
		cfg.Concurrency.Workers = concurrency
	}

	answers, err := filepath.Glob(filepath.Join(dir, "*.txt"))
	if err != nil {
		return fmt.Errorf("list answers: %w", err)
	}
	if len(answers) == 0 {
		return fmt.Errorf("no .txt answer files in %s", dir)
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	p, st, err := newPipeline(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	ctx, cancel := context.WithTimeout(context.Background(), batchTimeout)
	defer cancel()

	fmt.Fprintf(os.Stderr, "Checking %d answers against %s with %d workers\n",
		len(answers), batchDocID, cfg.Concurrency.Workers)

	check := func(ctx context.Context, answer string) (string, error) {
		report, err := p.Check(ctx, batchDocID, answer)
		if err != nil {
			return "", err
		}
		return p.RenderMarkdown(report), nil
	}

	pool := worker.NewPool(ctx, cfg.Concurrency.Workers)
	pool.Start()
	for _, path := range answers {
		pool.Submit(worker.ReviewJob{
			AnswerPath: path,
			OutputDir:  outputDir,
			Check:      check,
		})
	}

	failed := 0
	for _, res := range pool.Wait() {
		r := res.(worker.ReviewResult)
		if r.Err != nil {
			failed++
			fmt.Fprintf(os.Stderr, "  FAIL %s: %v\n", filepath.Base(r.AnswerPath), r.Err)
			continue
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "  ok   %s -> %s\n", filepath.Base(r.AnswerPath), r.OutputPath)
		}
	}

	fmt.Printf("Done: %d reports in %s (%d failed)\n", len(answers)-failed, outputDir, failed)
	if failed > 0 {
		return fmt.Errorf("%d of %d answers failed", failed, len(answers))
	}
	return nil
}
