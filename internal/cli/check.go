package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var (
	checkDocID   string
	checkTopK    int
	checkOutJSON string
	checkOutMD   string
	checkTimeout time.Duration
	noFooter     bool
	llmEnabled   bool
	llmProvider  string
	llmModel     string
)

// checkCmd represents the check command
var checkCmd = &cobra.Command{
	Use:   "check [answer-file]",
	Short: "Fact-check an answer against an embedded document",
	Long: `Check mines claims from the answer, retrieves the most similar chunks
of the chosen document for each claim, labels the evidence and renders a
review report with a grounded revision draft.

Reads the answer from a file, or from stdin when the argument is
omitted or "-".

Example:
  claimlens check --doc doc_1a2b3c4d answer.txt
  cat answer.txt | claimlens check --doc doc_1a2b3c4d --json report.json
  claimlens check --doc doc_1a2b3c4d answer.txt --llm --llm-provider ollama`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)

	checkCmd.Flags().StringVar(&checkDocID, "doc", "", "document id to check against (required)")
	_ = checkCmd.MarkFlagRequired("doc")

	checkCmd.Flags().IntVar(&checkTopK, "k", 0, "evidence chunks per claim (default from config)")
	checkCmd.Flags().StringVar(&checkOutJSON, "json", "", "write the JSON report to this path")
	checkCmd.Flags().StringVar(&checkOutMD, "md", "", "write the Markdown report to this path (default: stdout)")
	checkCmd.Flags().DurationVar(&checkTimeout, "timeout", 5*time.Minute, "overall check timeout")
	checkCmd.Flags().BoolVar(&noFooter, "no-footer", false, "disable footer in Markdown reports")

	checkCmd.Flags().BoolVar(&llmEnabled, "llm", false, "enable LLM draft generation")
	checkCmd.Flags().StringVar(&llmProvider, "llm-provider", "ollama", "LLM provider (openai, ollama)")
	checkCmd.Flags().StringVar(&llmModel, "llm-model", "", "LLM model name")
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if checkTopK > 0 {
		cfg.Retrieval.TopK = checkTopK
	}
	cfg.Output.IncludeFooter = !noFooter

	if llmEnabled {
		cfg.LLM.Provider = llmProvider
		if llmModel != "" {
			cfg.LLM.Model = llmModel
		}
		if llmProvider == "openai" && cfg.LLM.APIKey == "" {
			cfg.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
			if cfg.LLM.APIKey == "" {
				return fmt.Errorf("OPENAI_API_KEY environment variable not set")
			}
		}
	}

	answer, err := readAnswerArg(args)
	if err != nil {
		return err
	}

	p, st, err := newPipeline(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	ctx, cancel := context.WithTimeout(context.Background(), checkTimeout)
	defer cancel()

	if verbose {
		fmt.Fprintf(os.Stderr, "Checking against %s (top-%d evidence per claim)\n", checkDocID, cfg.Retrieval.TopK)
	}

	report, err := p.Check(ctx, checkDocID, answer)
	if err != nil {
		return err
	}

	if checkOutJSON != "" {
		out, err := p.RenderJSON(report)
		if err != nil {
			return err
		}
		if err := os.WriteFile(checkOutJSON, []byte(out), 0644); err != nil {
			return fmt.Errorf("write JSON report: %w", err)
		}
		fmt.Fprintf(os.Stderr, "JSON report: %s\n", checkOutJSON)
	}

	md := p.RenderMarkdown(report)
	if checkOutMD != "" {
		if err := os.WriteFile(checkOutMD, []byte(md), 0644); err != nil {
			return fmt.Errorf("write Markdown report: %w", err)
		}
		fmt.Fprintf(os.Stderr, "Markdown report: %s\n", checkOutMD)
		return nil
	}

	fmt.Println(md)
	return nil
}
