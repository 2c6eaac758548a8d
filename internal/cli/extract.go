package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/pkoval/claimlens/internal/extract"
)

var extractJSON bool

// extractCmd represents the extract command
var extractCmd = &cobra.Command{
	Use:   "extract [answer-file]",
	Short: "Mine checkable claims from an answer without retrieval",
	Long: `Extract runs only the claim miner: quoted spans, dates, numbers,
capitalized entity runs and declarative sentences. Useful for inspecting
what a check would evaluate.

Reads the answer from a file, or from stdin when the argument is
omitted or "-".`,
	Args: cobra.MaximumNArgs(1),
	RunE: runExtract,
}

func init() {
	rootCmd.AddCommand(extractCmd)

	extractCmd.Flags().BoolVar(&extractJSON, "json", false, "print claims as JSON")
}

func runExtract(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	answer, err := readAnswerArg(args)
	if err != nil {
		return err
	}

	miner := extract.NewMiner(cfg.Extract)
	claims := miner.Extract(answer)

	if extractJSON {
		data, err := json.MarshalIndent(claims, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	}

	if len(claims) == 0 {
		fmt.Println("No checkable claims found.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tKIND\tSPAN\tTEXT")
	for _, c := range claims {
		fmt.Fprintf(w, "%s\t%s\t[%d,%d)\t%s\n", c.ID, c.Kind, c.Start, c.End, truncate(c.Text, 70))
	}
	return w.Flush()
}

// readAnswerArg reads the answer from the file argument or stdin.
func readAnswerArg(args []string) (string, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return "", fmt.Errorf("read answer: %w", err)
	}
	return string(data), nil
}
