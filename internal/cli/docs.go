package cli

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

// docsCmd represents the docs command
var docsCmd = &cobra.Command{
	Use:   "docs",
	Short: "Manage ingested documents",
}

var docsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List ingested documents and storage usage",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		st, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer st.Close()

		ctx := context.Background()
		docs, err := st.ListDocuments(ctx)
		if err != nil {
			return err
		}

		if len(docs) == 0 {
			fmt.Println("No documents ingested yet. Try: claimlens ingest <file|url|->")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tTITLE\tSOURCE\tEMBEDDED\tINGESTED")
		for _, doc := range docs {
			embedded := "no"
			if has, _ := st.HasVectors(ctx, doc.ID); has {
				embedded = "yes"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
				doc.ID, truncate(doc.Title, 40), doc.SourceType, embedded,
				doc.CreatedAt.Local().Format(time.DateTime))
		}
		w.Flush()

		if usage, err := st.Usage(ctx); err == nil && usage.QuotaBytes > 0 {
			fmt.Printf("\nStorage: %.1f MB of %.1f MB used\n",
				float64(usage.UsedBytes)/(1<<20), float64(usage.QuotaBytes)/(1<<20))
		}
		return nil
	},
}

var docsDeleteCmd = &cobra.Command{
	Use:   "delete <doc-id>",
	Short: "Delete a document, its chunks and vectors",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		st, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer st.Close()

		if err := st.DeleteDocument(context.Background(), args[0]); err != nil {
			return err
		}
		fmt.Printf("Deleted %s\n", args[0])
		return nil
	},
}

var docsClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete every ingested document",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		st, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer st.Close()

		if err := st.ClearAll(context.Background()); err != nil {
			return err
		}
		fmt.Println("Store cleared")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(docsCmd)
	docsCmd.AddCommand(docsListCmd)
	docsCmd.AddCommand(docsDeleteCmd)
	docsCmd.AddCommand(docsClearCmd)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-1] + "…"
}
