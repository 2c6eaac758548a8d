// Package cli implements the claimlens command tree.
package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pkoval/claimlens/internal/cache"
	"github.com/pkoval/claimlens/internal/embed"
	"github.com/pkoval/claimlens/internal/llm"
	"github.com/pkoval/claimlens/internal/model"
	"github.com/pkoval/claimlens/internal/pipeline"
	"github.com/pkoval/claimlens/internal/store"
)

var (
	cfgFile string
	verbose bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "claimlens",
	Short: "Claimlens - local fact-check of AI answers against your sources",
	Long: `Claimlens reviews an AI-generated answer against source documents you
ingest locally: it mines checkable claims from the answer, retrieves the
most similar source chunks by embedding similarity, labels each claim as
supported or unknown, and produces a grounded revision draft.

Everything runs against a local store; source text never leaves your
machine unless you enable a remote embedding or LLM backend.

Claimlens judges evidence support, not truth.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("claimlens v0.1.0")
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.claimlens/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	_ = viper.BindPFlag("output.verbose", rootCmd.PersistentFlags().Lookup("verbose"))

	rootCmd.AddCommand(versionCmd)
}

// initConfig reads in config file and ENV variables
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error finding home directory: %v\n", err)
			return
		}

		viper.AddConfigPath(filepath.Join(home, ".claimlens"))
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	// Read in environment variables that match CLAIMLENS_*
	viper.SetEnvPrefix("CLAIMLENS")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil && verbose {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}
}

// loadConfig merges defaults, config file and environment.
func loadConfig() (*model.Config, error) {
	cfg := model.DefaultConfig()
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parse configuration: %w", err)
	}
	cfg.Output.Verbose = cfg.Output.Verbose || verbose

	// API keys fall back to the conventional env var
	if cfg.Embedder.Provider == "openai" && cfg.Embedder.APIKey == "" {
		cfg.Embedder.APIKey = os.Getenv("OPENAI_API_KEY")
	}
	if cfg.LLM.Provider == "openai" && cfg.LLM.APIKey == "" {
		cfg.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
	}
	return cfg, nil
}

// openStore opens the SQLite store from configuration.
func openStore(cfg *model.Config) (*store.Store, error) {
	return store.NewStore(cfg.Store.DataDir, cfg.Store.QuotaBytes)
}

// newEmbedder builds the embedding backend, wrapped with the vector
// cache when enabled.
func newEmbedder(cfg *model.Config) (embed.Embedder, error) {
	e, err := embed.NewEmbedder(cfg.Embedder)
	if err != nil {
		return nil, err
	}

	if !cfg.Cache.Enabled {
		return e, nil
	}

	dir := cfg.Cache.Dir
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("finding home directory: %w", err)
		}
		dir = filepath.Join(home, ".claimlens", "cache")
	}
	return embed.WithCache(e, cache.NewLayeredCache(cfg.Cache.MemoryTTL, dir, cfg.Cache.DiskTTL)), nil
}

// newPipeline wires the full pipeline. The caller must Close the store.
func newPipeline(cfg *model.Config) (*pipeline.Pipeline, *store.Store, error) {
	st, err := openStore(cfg)
	if err != nil {
		return nil, nil, err
	}

	embedder, err := newEmbedder(cfg)
	if err != nil {
		st.Close()
		return nil, nil, err
	}

	provider, err := llm.NewProvider(llm.ConfigFromModel(cfg.LLM))
	if err != nil {
		st.Close()
		return nil, nil, err
	}

	return pipeline.New(cfg, st, embedder, provider, os.Stderr), st, nil
}
